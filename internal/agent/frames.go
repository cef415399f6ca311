package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/dyluth/easel/internal/miro"
	"github.com/dyluth/easel/pkg/board"
)

// Chat frame layout, relative to the chat frame's top-left corner.
const (
	chatFontSize    = 20
	chatLeftMargin  = 30
	chatItemWidth   = 640
	chatLabelHeight = 50
	chatShapeHeight = 100

	// offBoard is where chat items are created before being moved into their frame.
	offBoard = 100000

	agentPromptPrefix = "<p><strong>Agent: </strong></p>"
	userLabel         = "<p><strong>User:</strong></p>"
)

// Bounds is an axis-aligned rectangle given by its top-left corner.
type Bounds struct {
	X, Y, Width, Height float64
}

// Center returns the rectangle's centre, which is how the API positions items.
func (b Bounds) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// FrameDef describes a frame the agent can place on the board.
type FrameDef struct {
	Title     string
	Bounds    Bounds
	FillColor string
}

// ChatDef returns the chat frame that accompanies a section frame.
func (f FrameDef) ChatDef() FrameDef {
	return FrameDef{
		Title:     board.ChatRole(f.Title),
		Bounds:    Bounds{X: f.Bounds.X + 30, Y: 100, Width: 700, Height: 280},
		FillColor: "#F8F9FA",
	}
}

// InitialChatFrame is the first thing placed on an empty board.
var InitialChatFrame = FrameDef{
	Title:     board.RoleInitialChat,
	Bounds:    Bounds{X: -800, Y: 100, Width: 700, Height: 280},
	FillColor: "#F8F9FA",
}

// SectionFrames returns the Product, Segments, Channels and Summary frames,
// laid out left to right.
func SectionFrames() []FrameDef {
	const width, height = 1000, 2000

	sections := []struct {
		role string
		fill string
	}{
		{board.RoleProduct, "#F5FAFF"},
		{board.RoleSegments, "#EBF5FF"},
		{board.RoleChannels, "#E6F7FF"},
		{board.RoleSummary, "#E0F2FF"},
	}

	defs := make([]FrameDef, 0, len(sections))
	x := 0.0
	for _, s := range sections {
		defs = append(defs, FrameDef{
			Title:     s.role,
			Bounds:    Bounds{X: x, Y: 0, Width: width, Height: height},
			FillColor: s.fill,
		})
		x += width
	}
	return defs
}

// pushFrame creates the frame and records its title as a tag.
func (a *Agent) pushFrame(ctx context.Context, def FrameDef) (string, error) {
	x, y := def.Bounds.Center()
	created, err := a.api.CreateFrame(ctx, miro.FrameSpec{
		Title:     def.Title,
		X:         x,
		Y:         y,
		Width:     def.Bounds.Width,
		Height:    def.Bounds.Height,
		FillColor: def.FillColor,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create %q frame: %w", def.Title, err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("create %q frame returned no id", def.Title)
	}

	if def.Title != "" {
		if err := a.tags.Record(ctx, created.ID, def.Title); err != nil {
			return "", fmt.Errorf("failed to record tag for %q frame %s: %w", def.Title, created.ID, err)
		}
	}

	log.Printf("[Agent] Created frame %q (%s)", def.Title, created.ID)
	return created.ID, nil
}

// pushChatFrame creates a chat frame holding, in order, the agent prompt,
// the "User:" label and the response shape.
func (a *Agent) pushChatFrame(ctx context.Context, def FrameDef, prompt string) (string, error) {
	frameID, err := a.pushFrame(ctx, def)
	if err != nil {
		return "", err
	}

	promptBounds := Bounds{X: chatLeftMargin, Y: 0, Width: chatItemWidth, Height: chatLabelHeight}
	labelBounds := Bounds{X: chatLeftMargin, Y: promptBounds.Y + 100, Width: chatItemWidth, Height: chatLabelHeight}
	shapeBounds := Bounds{X: chatLeftMargin, Y: labelBounds.Y + 50, Width: chatItemWidth, Height: chatShapeHeight}

	promptItem, err := a.api.CreateText(ctx, miro.TextSpec{
		Content:   agentPromptPrefix + prompt,
		X:         offBoard,
		Y:         offBoard,
		Width:     chatItemWidth,
		FontSize:  chatFontSize,
		TextAlign: "left",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create prompt in %q: %w", def.Title, err)
	}

	labelItem, err := a.api.CreateText(ctx, miro.TextSpec{
		Content:   userLabel,
		X:         offBoard,
		Y:         offBoard,
		Width:     chatItemWidth,
		FontSize:  chatFontSize,
		TextAlign: "left",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create user label in %q: %w", def.Title, err)
	}

	responseItem, err := a.api.CreateShape(ctx, miro.ShapeSpec{
		Content:     "",
		Shape:       "rectangle",
		X:           offBoard,
		Y:           offBoard,
		Width:       chatItemWidth,
		Height:      chatShapeHeight,
		FillColor:   "#F5FAFF",
		TextAlign:   "left",
		FontSize:    chatFontSize,
		BorderColor: "#ADD8E6",
		BorderWidth: 2,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create response shape in %q: %w", def.Title, err)
	}

	// Children must be attached in this order; the prompt is found by position.
	placements := []struct {
		id     string
		bounds Bounds
	}{
		{promptItem.ID, promptBounds},
		{labelItem.ID, labelBounds},
		{responseItem.ID, shapeBounds},
	}
	for _, p := range placements {
		x, y := p.bounds.Center()
		if err := a.api.UpdateItemParentAndPosition(ctx, p.id, frameID, x, y); err != nil {
			return "", fmt.Errorf("failed to place item %s in %q: %w", p.id, def.Title, err)
		}
	}

	return frameID, nil
}
