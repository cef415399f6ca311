package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dyluth/easel/internal/miro"
	"github.com/dyluth/easel/pkg/board"
)

// apiCall is one call recorded by fakeAPI.
type apiCall struct {
	Op       string
	ID       string
	ParentID string
	Content  string
	Title    string
	X, Y     float64
}

// fakeAPI records board mutations and hands out sequential ids.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
	next  int

	// failOps makes the named operations return an error.
	failOps map[string]bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{failOps: map[string]bool{}}
}

func (f *fakeAPI) record(call apiCall) (miro.CreatedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failOps[call.Op] {
		return miro.CreatedItem{}, fmt.Errorf("%s: boom", call.Op)
	}
	if call.ID == "" {
		f.next++
		call.ID = fmt.Sprintf("new-%d", f.next)
	}
	f.calls = append(f.calls, call)
	return miro.CreatedItem{ID: call.ID}, nil
}

func (f *fakeAPI) ops(op string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) CreateFrame(ctx context.Context, spec miro.FrameSpec) (miro.CreatedItem, error) {
	return f.record(apiCall{Op: "CreateFrame", Title: spec.Title, X: spec.X, Y: spec.Y})
}

func (f *fakeAPI) CreateText(ctx context.Context, spec miro.TextSpec) (miro.CreatedItem, error) {
	return f.record(apiCall{Op: "CreateText", Content: spec.Content, X: spec.X, Y: spec.Y})
}

func (f *fakeAPI) CreateShape(ctx context.Context, spec miro.ShapeSpec) (miro.CreatedItem, error) {
	return f.record(apiCall{Op: "CreateShape", Content: spec.Content, X: spec.X, Y: spec.Y})
}

func (f *fakeAPI) CreateParentedStickyNote(ctx context.Context, parentID, content string, x, y float64) (miro.CreatedItem, error) {
	return f.record(apiCall{Op: "CreateParentedStickyNote", ParentID: parentID, Content: content, X: x, Y: y})
}

func (f *fakeAPI) CreateParentedShape(ctx context.Context, parentID string, spec miro.ShapeSpec) (miro.CreatedItem, error) {
	return f.record(apiCall{Op: "CreateParentedShape", ParentID: parentID, Content: spec.Content, X: spec.X, Y: spec.Y})
}

func (f *fakeAPI) UpdateItemParentAndPosition(ctx context.Context, itemID, parentID string, x, y float64) error {
	_, err := f.record(apiCall{Op: "UpdateItemParentAndPosition", ID: itemID, ParentID: parentID, X: x, Y: y})
	return err
}

func (f *fakeAPI) UpdateTextContent(ctx context.Context, itemID, content string) error {
	_, err := f.record(apiCall{Op: "UpdateTextContent", ID: itemID, Content: content})
	return err
}

func (f *fakeAPI) UpdateShapeContent(ctx context.Context, itemID, content string) error {
	_, err := f.record(apiCall{Op: "UpdateShapeContent", ID: itemID, Content: content})
	return err
}

func (f *fakeAPI) DeleteItem(ctx context.Context, itemID string) error {
	_, err := f.record(apiCall{Op: "DeleteItem", ID: itemID})
	return err
}

// fakeTags is an in-memory TagRecorder.
type fakeTags struct {
	mu      sync.Mutex
	records map[string][]string // item id -> tags
	err     error
}

func newFakeTags() *fakeTags {
	return &fakeTags{records: map[string][]string{}}
}

func (f *fakeTags) Record(ctx context.Context, itemID string, tags ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records[itemID] = append(f.records[itemID], tags...)
	return nil
}

func (f *fakeTags) allTags() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, tags := range f.records {
		out = append(out, tags...)
	}
	return out
}

// fakeLoader returns a fixed snapshot.
type fakeLoader struct {
	snap  *board.Snapshot
	err   error
	calls int
}

func (f *fakeLoader) LoadSnapshot(ctx context.Context) (*board.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

// fakeDecider returns a fixed label and remembers the chat state it saw.
type fakeDecider struct {
	label string
	err   error
	calls int
	seen  string
}

func (f *fakeDecider) Decide(ctx context.Context, chatState string) (string, error) {
	f.calls++
	f.seen = chatState
	return f.label, f.err
}

// fakeProposer returns fixed suggestions per kind.
type fakeProposer struct {
	suggestions []Suggestion
	err         error
	requests    []ProposalRequest
}

func (f *fakeProposer) Propose(ctx context.Context, req ProposalRequest) ([]Suggestion, error) {
	f.requests = append(f.requests, req)
	return f.suggestions, f.err
}

var errBoom = errors.New("boom")

// harness bundles an Agent with its fakes.
type harness struct {
	agent    *Agent
	api      *fakeAPI
	tags     *fakeTags
	loader   *fakeLoader
	decider  *fakeDecider
	proposer *fakeProposer
}

func newHarness() *harness {
	h := &harness{
		api:      newFakeAPI(),
		tags:     newFakeTags(),
		loader:   &fakeLoader{},
		decider:  &fakeDecider{label: "NO_ACTION"},
		proposer: &fakeProposer{},
	}
	a, err := New(Config{
		BoardID:  "board-1",
		API:      h.api,
		Loader:   h.loader,
		Tags:     h.tags,
		Decider:  h.decider,
		Proposer: h.proposer,
	})
	if err != nil {
		panic(err)
	}
	h.agent = a
	return h
}

func rawItem(id string, typ board.ItemType, parentID, content string) board.RawItem {
	r := board.RawItem{ID: id, Type: string(typ)}
	if parentID != "" {
		r.Parent = &board.RawRef{ID: parentID}
	}
	if content != "" {
		r.Data = &board.RawData{Content: content}
	}
	return r
}

// initialBoard is the board right after ADD_INITIAL_FRAME, with the user's answer.
func initialBoard(response string) *board.Snapshot {
	return board.Build([]board.RawItem{
		rawItem("ic", board.ItemTypeFrame, "", ""),
		rawItem("ic-p", board.ItemTypeText, "ic", agentPromptPrefix+InitialPrompt),
		rawItem("ic-l", board.ItemTypeText, "ic", userLabel),
		rawItem("ic-r", board.ItemTypeShape, "ic", response),
	}, map[string][]string{board.RoleInitialChat: {"ic"}})
}

// setUpBoard is a fully set-up board with a few product and segment notes
// and an existing summary shape.
func setUpBoard() *board.Snapshot {
	raws := []board.RawItem{
		rawItem("ic", board.ItemTypeFrame, "", ""),
		rawItem("fp", board.ItemTypeFrame, "", ""),
		rawItem("p1", board.ItemTypeStickyNote, "fp", "Product Name: Widget"),
		rawItem("fs", board.ItemTypeFrame, "", ""),
		rawItem("s1", board.ItemTypeStickyNote, "fs", "Hobbyists"),
		rawItem("fc", board.ItemTypeFrame, "", ""),
		rawItem("fsum", board.ItemTypeFrame, "", ""),
		rawItem("old-plan", board.ItemTypeShape, "fsum", "stale plan"),
	}
	mappings := map[string][]string{
		board.RoleInitialChat: {"ic"},
		board.RoleProduct:     {"fp"},
		board.RoleSegments:    {"fs"},
		board.RoleChannels:    {"fc"},
		board.RoleSummary:     {"fsum"},
	}

	for _, role := range []string{board.RoleProduct, board.RoleSegments, board.RoleChannels, board.RoleSummary} {
		id := "chat-" + role
		raws = append(raws,
			rawItem(id, board.ItemTypeFrame, "", ""),
			rawItem(id+"-p", board.ItemTypeText, id, agentPromptPrefix),
			rawItem(id+"-l", board.ItemTypeText, id, userLabel),
			rawItem(id+"-r", board.ItemTypeShape, id, ""),
		)
		mappings[board.ChatRole(role)] = []string{id}
	}

	return board.Build(raws, mappings)
}
