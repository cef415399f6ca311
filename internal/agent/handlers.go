package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/dyluth/easel/internal/miro"
	"github.com/dyluth/easel/pkg/board"
)

// productPrompt is a sticky note placed in the Product frame during setup.
type productPrompt struct {
	Content string
	X, Y    float64
}

var productPrompts = []productPrompt{
	{"Product Name: ", 200, 500},
	{"Product Description: ", 500, 500},
	{"What problem does it solve? ", 200, 800},
	{"Unique Value Proposition: ", 500, 800},
	{"Goals: ", 200, 1100},
}

// chatPrompts are the agent prompts set on each section chat after setup.
var chatPrompts = []struct {
	Role   string
	Prompt string
}{
	{board.RoleSegments, "Would you like me to suggest some segments based on your product specifications?"},
	{board.RoleChannels, "Would you like me to suggest some channels based on your segments?"},
	{board.RoleSummary, "Would you like me to refresh your marketing plan?"},
}

// Sticky notes added by proposals fill a grid inside the target frame.
const (
	stickyColumns = 3
	stickyStartX  = 200
	stickyStartY  = 500
	stickyStep    = 300
)

// stickyPosition returns the parent-relative position of the n-th sticky note.
func stickyPosition(n int) (float64, float64) {
	col, row := n%stickyColumns, n/stickyColumns
	return float64(stickyStartX + col*stickyStep), float64(stickyStartY + row*stickyStep)
}

func (a *Agent) addInitialFrame(ctx context.Context) error {
	_, err := a.pushChatFrame(ctx, InitialChatFrame, InitialPrompt)
	return err
}

func (a *Agent) setUpBoard(ctx context.Context, snap *board.Snapshot) error {
	if snap.IsConfigured() && sectionsComplete(snap) {
		log.Printf("[Agent] Board already set up, skipping")
		return nil
	}

	if snap.IsConfigured() {
		log.Printf("[Agent] Resuming incomplete board setup")
	} else {
		log.Printf("[Agent] Setting up board")
	}

	// Product prompts only go into a frame that holds no notes yet.
	addPrompts := true
	if product := snap.ProductFrame(); product != nil && len(product.StickyNotes()) > 0 {
		addPrompts = false
	}

	for _, def := range SectionFrames() {
		if snap.FrameByRole(def.Title) == nil {
			if _, err := a.pushFrame(ctx, def); err != nil {
				return err
			}
		}
		if chat := def.ChatDef(); snap.FrameByRole(chat.Title) == nil {
			if _, err := a.pushChatFrame(ctx, chat, ""); err != nil {
				return err
			}
		}
	}

	fresh, err := a.loader.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload board after setup: %w", err)
	}

	switch product := fresh.ProductFrame(); {
	case product == nil:
		log.Printf("[Agent] Product frame not found after setup, skipping product prompts")
	case addPrompts:
		for _, p := range productPrompts {
			if _, err := a.api.CreateParentedStickyNote(ctx, product.ID, p.Content, p.X, p.Y); err != nil {
				return fmt.Errorf("failed to add product prompt %q: %w", p.Content, err)
			}
		}
	}

	for _, cp := range chatPrompts {
		if err := a.setAgentPrompt(ctx, fresh, board.ChatRole(cp.Role), cp.Prompt); err != nil {
			return err
		}
	}
	return nil
}

// sectionsComplete reports whether every section frame and its chat frame exist.
func sectionsComplete(snap *board.Snapshot) bool {
	for _, def := range SectionFrames() {
		if snap.FrameByRole(def.Title) == nil || snap.FrameByRole(def.ChatDef().Title) == nil {
			return false
		}
	}
	return true
}

// setAgentPrompt rewrites the prompt text of the chat frame tagged chatRole.
// A missing frame or prompt is logged and skipped.
func (a *Agent) setAgentPrompt(ctx context.Context, snap *board.Snapshot, chatRole, prompt string) error {
	frame := snap.FrameByRole(chatRole)
	if frame == nil {
		log.Printf("[Agent] Chat frame %q not found, prompt not set", chatRole)
		return nil
	}
	promptID, ok := snap.ChatPromptItemID(frame)
	if !ok {
		log.Printf("[Agent] Chat frame %q has no prompt item, prompt not set", chatRole)
		return nil
	}
	if err := a.api.UpdateTextContent(ctx, promptID, agentPromptPrefix+prompt); err != nil {
		return fmt.Errorf("failed to set prompt of %q: %w", chatRole, err)
	}
	return nil
}

func (a *Agent) predictSegments(ctx context.Context, snap *board.Snapshot) error {
	product, err := requireFrame(snap, board.RoleProduct)
	if err != nil {
		return err
	}
	segments, err := requireFrame(snap, board.RoleSegments)
	if err != nil {
		return err
	}
	return a.proposeInto(ctx, segments, ProposalRequest{Kind: ProposeSegments, Context: product.DumpStickyNotes()})
}

func (a *Agent) predictChannels(ctx context.Context, snap *board.Snapshot) error {
	segments, err := requireFrame(snap, board.RoleSegments)
	if err != nil {
		return err
	}
	channels, err := requireFrame(snap, board.RoleChannels)
	if err != nil {
		return err
	}
	return a.proposeInto(ctx, channels, ProposalRequest{Kind: ProposeChannels, Context: segments.DumpStickyNotes()})
}

// proposeInto asks for suggestions and adds one sticky note per suggestion to frame,
// after any sticky notes already there.
func (a *Agent) proposeInto(ctx context.Context, frame *board.Item, req ProposalRequest) error {
	suggestions, err := a.proposer.Propose(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to propose %s: %w", req.Kind, err)
	}

	offset := len(frame.StickyNotes())
	for i, s := range suggestions {
		x, y := stickyPosition(offset + i)
		if _, err := a.api.CreateParentedStickyNote(ctx, frame.ID, s.Content(), x, y); err != nil {
			return fmt.Errorf("failed to add %s suggestion %q: %w", req.Kind, s.Name, err)
		}
	}

	log.Printf("[Agent] Added %d %s suggestions to frame %s", len(suggestions), req.Kind, frame.ID)
	return nil
}

// Summary shape placement inside the Summary frame, below its chat.
const (
	summaryX      = 100
	summaryY      = 450
	summaryWidth  = 800
	summaryHeight = 1450
)

func (a *Agent) refreshPlan(ctx context.Context, snap *board.Snapshot) error {
	summary, err := requireFrame(snap, board.RoleSummary)
	if err != nil {
		return err
	}

	planContext, err := planContext(snap)
	if err != nil {
		return err
	}

	suggestions, err := a.proposer.Propose(ctx, ProposalRequest{Kind: ProposePlan, Context: planContext})
	if err != nil {
		return fmt.Errorf("failed to propose plan: %w", err)
	}

	for _, child := range summary.Children() {
		if child.Type != board.ItemTypeShape {
			continue
		}
		if err := a.api.DeleteItem(ctx, child.ID); err != nil {
			return fmt.Errorf("failed to remove old summary %s: %w", child.ID, err)
		}
	}

	_, err = a.api.CreateParentedShape(ctx, summary.ID, miro.ShapeSpec{
		Content:     renderPlan(suggestions),
		Shape:       "rectangle",
		X:           summaryX,
		Y:           summaryY,
		Width:       summaryWidth,
		Height:      summaryHeight,
		FillColor:   "#FFFFFF",
		TextAlign:   "left",
		FontSize:    12,
		BorderColor: "#E0E0E0",
		BorderWidth: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}
	return nil
}

// planContext combines the Product, Segments and Channels sticky notes into one JSON object.
// Missing frames contribute an empty object.
func planContext(snap *board.Snapshot) (string, error) {
	sections := map[string]json.RawMessage{}
	for _, role := range []string{board.RoleProduct, board.RoleSegments, board.RoleChannels} {
		notes := "{}"
		if frame := snap.FrameByRole(role); frame != nil {
			notes = frame.DumpStickyNotes()
		}
		sections[strings.ToLower(role)] = json.RawMessage(notes)
	}

	data, err := json.Marshal(sections)
	if err != nil {
		return "", fmt.Errorf("failed to build plan context: %w", err)
	}
	return string(data), nil
}

// renderPlan formats plan suggestions as shape HTML.
func renderPlan(suggestions []Suggestion) string {
	var b strings.Builder
	b.WriteString("<p><strong>Marketing Plan</strong></p>")
	for _, s := range suggestions {
		b.WriteString("<p>")
		if s.Priority != "" {
			fmt.Fprintf(&b, "[%s] ", html.EscapeString(s.Priority))
		}
		fmt.Fprintf(&b, "<strong>%s</strong>: %s</p>", html.EscapeString(s.Name), html.EscapeString(s.Description))
	}
	return b.String()
}

func requireFrame(snap *board.Snapshot, role string) (*board.Item, error) {
	frame := snap.FrameByRole(role)
	if frame == nil {
		return nil, fmt.Errorf("board is not set up: no %q frame", role)
	}
	return frame, nil
}
