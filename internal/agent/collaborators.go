package agent

import (
	"context"
	"fmt"
	"html"

	"github.com/dyluth/easel/internal/miro"
	"github.com/dyluth/easel/pkg/board"
)

// Decider turns the serialised chat state into a raw action label.
type Decider interface {
	Decide(ctx context.Context, chatState string) (string, error)
}

// ProposalKind selects what a Proposer is asked for.
type ProposalKind string

const (
	ProposeSegments ProposalKind = "segments"
	ProposeChannels ProposalKind = "channels"
	ProposePlan     ProposalKind = "plan"
)

// ProposalRequest carries the board context a proposal is based on.
// Context is a JSON object of sticky note id to content, or a combination of them.
type ProposalRequest struct {
	Kind    ProposalKind
	Context string
}

// Suggestion is one proposed segment, channel or plan entry.
type Suggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
}

// Content renders the suggestion as sticky note HTML.
func (s Suggestion) Content() string {
	return fmt.Sprintf("<p><strong>%s</strong></p><p>%s</p>", html.EscapeString(s.Name), html.EscapeString(s.Description))
}

// Proposer produces suggestions for a board section.
type Proposer interface {
	Propose(ctx context.Context, req ProposalRequest) ([]Suggestion, error)
}

// BoardAPI is the subset of the remote board client the handlers mutate the board with.
type BoardAPI interface {
	CreateFrame(ctx context.Context, spec miro.FrameSpec) (miro.CreatedItem, error)
	CreateText(ctx context.Context, spec miro.TextSpec) (miro.CreatedItem, error)
	CreateShape(ctx context.Context, spec miro.ShapeSpec) (miro.CreatedItem, error)
	CreateParentedStickyNote(ctx context.Context, parentID, content string, x, y float64) (miro.CreatedItem, error)
	CreateParentedShape(ctx context.Context, parentID string, spec miro.ShapeSpec) (miro.CreatedItem, error)
	UpdateItemParentAndPosition(ctx context.Context, itemID, parentID string, x, y float64) error
	UpdateTextContent(ctx context.Context, itemID, content string) error
	UpdateShapeContent(ctx context.Context, itemID, content string) error
	DeleteItem(ctx context.Context, itemID string) error
}

// BoardLoader fetches the board and builds a fresh snapshot.
type BoardLoader interface {
	LoadSnapshot(ctx context.Context) (*board.Snapshot, error)
}

// TagRecorder records role labels for created frames.
type TagRecorder interface {
	Record(ctx context.Context, itemID string, tags ...string) error
}

var _ BoardAPI = (*miro.Client)(nil)
