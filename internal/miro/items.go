package miro

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
)

// offBoard is where parented items are first created before being moved
// into their frame; it keeps them clear of existing content.
const offBoard = 10000

// CreatedItem identifies an item returned by a create call.
type CreatedItem struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// FrameSpec describes a frame to create. X/Y are the frame centre.
type FrameSpec struct {
	Title     string
	X, Y      float64
	Width     float64
	Height    float64
	FillColor string
}

// StickyNoteSpec describes a sticky note to create.
// FillColor, TextAlign and Width are optional; Width is applied by a follow-up PATCH.
type StickyNoteSpec struct {
	Content   string
	X, Y      float64
	Shape     string
	FillColor string
	TextAlign string
	Width     int
}

// TextSpec describes a text item to create.
type TextSpec struct {
	Content   string
	X, Y      float64
	Width     float64
	FontSize  int
	TextAlign string
	FillColor string
}

// ShapeSpec describes a shape to create.
type ShapeSpec struct {
	Content     string
	Shape       string
	X, Y        float64
	Width       float64
	Height      float64
	FillColor   string
	TextAlign   string
	FontSize    int
	BorderColor string
	BorderWidth int
}

type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type parentRef struct {
	ID string `json:"id"`
}

// CreateFrame creates a frame.
func (c *Client) CreateFrame(ctx context.Context, spec FrameSpec) (CreatedItem, error) {
	if spec.Width <= 0 {
		spec.Width = 800
	}
	if spec.Height <= 0 {
		spec.Height = 600
	}
	if spec.FillColor == "" {
		spec.FillColor = "transparent"
	}

	payload := map[string]any{
		"data":     map[string]any{"title": spec.Title},
		"style":    map[string]any{"fillColor": spec.FillColor},
		"geometry": map[string]any{"width": spec.Width, "height": spec.Height},
		"position": position{X: spec.X, Y: spec.Y},
	}

	var created CreatedItem
	if err := c.do(ctx, http.MethodPost, c.boardURL("frames"), payload, &created); err != nil {
		return CreatedItem{}, err
	}
	return created, nil
}

// CreateStickyNote creates a sticky note. Colour and alignment are validated
// before any request; an invalid width fails before the create call too.
func (c *Client) CreateStickyNote(ctx context.Context, spec StickyNoteSpec) (CreatedItem, error) {
	if spec.Shape == "" {
		spec.Shape = "square"
	}

	style := map[string]any{}
	if spec.FillColor != "" {
		if err := ValidateFillColor(spec.FillColor); err != nil {
			return CreatedItem{}, err
		}
		style["fillColor"] = spec.FillColor
	}
	if spec.TextAlign != "" {
		if err := ValidateTextAlign(spec.TextAlign); err != nil {
			return CreatedItem{}, err
		}
		style["textAlign"] = spec.TextAlign
	}
	if spec.Width != 0 {
		if err := ValidateWidth(spec.Width); err != nil {
			return CreatedItem{}, err
		}
	}

	payload := map[string]any{
		"data":     map[string]any{"content": spec.Content, "shape": spec.Shape},
		"position": position{X: spec.X, Y: spec.Y},
	}
	if len(style) > 0 {
		payload["style"] = style
	}

	var created CreatedItem
	if err := c.do(ctx, http.MethodPost, c.boardURL("sticky_notes"), payload, &created); err != nil {
		return CreatedItem{}, err
	}

	if spec.Width > 0 && created.ID != "" {
		update := map[string]any{"geometry": map[string]any{"width": spec.Width}}
		if err := c.do(ctx, http.MethodPatch, c.boardURL("sticky_notes", created.ID), update, nil); err != nil {
			return created, fmt.Errorf("sticky note %s created but width update failed: %w", created.ID, err)
		}
	}

	return created, nil
}

// CreateParentedStickyNote creates a sticky note and moves it into parentID at (x, y).
func (c *Client) CreateParentedStickyNote(ctx context.Context, parentID, content string, x, y float64) (CreatedItem, error) {
	if err := ValidateID("parent id", parentID); err != nil {
		return CreatedItem{}, err
	}
	created, err := c.CreateStickyNote(ctx, StickyNoteSpec{Content: content, X: offBoard, Y: offBoard})
	if err != nil {
		return CreatedItem{}, err
	}
	if err := c.UpdateItemParentAndPosition(ctx, created.ID, parentID, x, y); err != nil {
		return created, err
	}
	return created, nil
}

// CreateText creates a text item. Text width is only sent when positive.
func (c *Client) CreateText(ctx context.Context, spec TextSpec) (CreatedItem, error) {
	if spec.FontSize <= 0 {
		spec.FontSize = 14
	}
	if spec.TextAlign == "" {
		spec.TextAlign = "left"
	}
	if err := ValidateTextAlign(spec.TextAlign); err != nil {
		return CreatedItem{}, err
	}

	style := map[string]any{
		"fontSize":  strconv.Itoa(spec.FontSize),
		"textAlign": spec.TextAlign,
	}
	if spec.FillColor != "" && spec.FillColor != "transparent" {
		style["fillColor"] = spec.FillColor
	}

	payload := map[string]any{
		"data":     map[string]any{"content": spec.Content},
		"style":    style,
		"position": position{X: spec.X, Y: spec.Y},
	}
	if spec.Width > 0 {
		payload["geometry"] = map[string]any{"width": spec.Width}
	}

	var created CreatedItem
	if err := c.do(ctx, http.MethodPost, c.boardURL("texts"), payload, &created); err != nil {
		return CreatedItem{}, err
	}
	return created, nil
}

// CreateShape creates a shape.
func (c *Client) CreateShape(ctx context.Context, spec ShapeSpec) (CreatedItem, error) {
	spec = withShapeDefaults(spec)
	if err := ValidateTextAlign(spec.TextAlign); err != nil {
		return CreatedItem{}, err
	}

	payload := map[string]any{
		"data": map[string]any{
			"content": spec.Content,
			"shape":   spec.Shape,
		},
		"style": map[string]any{
			"fillColor":   spec.FillColor,
			"fontSize":    strconv.Itoa(spec.FontSize),
			"textAlign":   spec.TextAlign,
			"borderColor": spec.BorderColor,
			"borderWidth": strconv.Itoa(spec.BorderWidth),
		},
		"geometry": map[string]any{"width": spec.Width, "height": spec.Height},
		"position": position{X: spec.X, Y: spec.Y},
	}

	var created CreatedItem
	if err := c.do(ctx, http.MethodPost, c.boardURL("shapes"), payload, &created); err != nil {
		return CreatedItem{}, err
	}
	return created, nil
}

// CreateParentedShape creates a shape off-board, then moves it into parentID.
// spec.X/Y are the shape's top-left corner relative to the parent.
func (c *Client) CreateParentedShape(ctx context.Context, parentID string, spec ShapeSpec) (CreatedItem, error) {
	if err := ValidateID("parent id", parentID); err != nil {
		return CreatedItem{}, err
	}
	spec = withShapeDefaults(spec)
	x, y := spec.X+spec.Width/2, spec.Y+spec.Height/2

	spec.X, spec.Y = offBoard, offBoard
	created, err := c.CreateShape(ctx, spec)
	if err != nil {
		return CreatedItem{}, err
	}
	if err := c.UpdateItemParentAndPosition(ctx, created.ID, parentID, x, y); err != nil {
		return created, err
	}
	return created, nil
}

func withShapeDefaults(spec ShapeSpec) ShapeSpec {
	if spec.Shape == "" {
		spec.Shape = "rectangle"
	}
	if spec.Width <= 0 {
		spec.Width = 400
	}
	if spec.Height <= 0 {
		spec.Height = 100
	}
	if spec.FillColor == "" {
		spec.FillColor = "transparent"
	}
	if spec.TextAlign == "" {
		spec.TextAlign = "left"
	}
	if spec.FontSize <= 0 {
		spec.FontSize = 14
	}
	if spec.BorderColor == "" {
		spec.BorderColor = "#000000"
	}
	if spec.BorderWidth <= 0 {
		spec.BorderWidth = 2
	}
	return spec
}

// UpdateTextContent replaces a text item's content.
func (c *Client) UpdateTextContent(ctx context.Context, itemID, content string) error {
	if err := ValidateID("item id", itemID); err != nil {
		return err
	}
	payload := map[string]any{"data": map[string]any{"content": content}}
	return c.do(ctx, http.MethodPatch, c.boardURL("texts", itemID), payload, nil)
}

// UpdateShapeContent replaces a shape's content.
func (c *Client) UpdateShapeContent(ctx context.Context, itemID, content string) error {
	if err := ValidateID("item id", itemID); err != nil {
		return err
	}
	payload := map[string]any{"data": map[string]any{"content": content}}
	return c.do(ctx, http.MethodPatch, c.boardURL("shapes", itemID), payload, nil)
}

// UpdateItemParentAndPosition moves any item into parentID at (x, y).
func (c *Client) UpdateItemParentAndPosition(ctx context.Context, itemID, parentID string, x, y float64) error {
	if err := ValidateID("item id", itemID); err != nil {
		return err
	}
	if err := ValidateID("parent id", parentID); err != nil {
		return err
	}
	payload := map[string]any{
		"parent":   parentRef{ID: parentID},
		"position": position{X: x, Y: y},
	}
	return c.do(ctx, http.MethodPatch, c.boardURL("items", itemID), payload, nil)
}

// ChangeStickyNoteColor sets a sticky note's fill colour.
func (c *Client) ChangeStickyNoteColor(ctx context.Context, itemID, color string) error {
	if err := ValidateID("item id", itemID); err != nil {
		return err
	}
	if err := ValidateFillColor(color); err != nil {
		return err
	}
	payload := map[string]any{"style": map[string]any{"fillColor": color}}
	return c.do(ctx, http.MethodPatch, c.boardURL("sticky_notes", itemID), payload, nil)
}

// DeleteItem removes any item from the board.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	if err := ValidateID("item id", itemID); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, c.boardURL("items", itemID), nil, nil); err != nil {
		return err
	}
	log.Printf("[Miro] Deleted item %s", itemID)
	return nil
}
