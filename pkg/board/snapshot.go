package board

import (
	"context"
	"fmt"
)

// Snapshot is the reconstructed hierarchy of items at one point in time.
// It is immutable after construction.
type Snapshot struct {
	items map[string]*Item
	order []string // ids in first-received order
	roots []*Item
}

// MappingSource provides the durable tag → item ids relation overlaid on every build.
type MappingSource interface {
	AllMappings(ctx context.Context) (map[string][]string, error)
}

// Load reads the tag mappings from src and builds a snapshot from raws.
// A mapping-source failure is returned rather than building an untagged
// snapshot, since a missing role would be indistinguishable from an absent one.
func Load(ctx context.Context, raws []RawItem, src MappingSource) (*Snapshot, error) {
	mappings, err := src.AllMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag mappings: %w", err)
	}
	return Build(raws, mappings), nil
}

// Build constructs a snapshot from a flat list of API records and overlays
// the given tag mappings (tag → item ids).
//
// Records with an empty id are dropped. When an id repeats, the last record
// wins while iteration order keeps the first appearance. Tags naming ids
// absent from raws are ignored.
func Build(raws []RawItem, mappings map[string][]string) *Snapshot {
	s := &Snapshot{
		items: make(map[string]*Item, len(raws)),
		order: make([]string, 0, len(raws)),
	}

	// 1. Parse and index
	for _, raw := range raws {
		item := ParseItem(raw)
		if item.ID == "" {
			continue
		}
		if _, exists := s.items[item.ID]; !exists {
			s.order = append(s.order, item.ID)
		}
		item.index = s.items
		s.items[item.ID] = item
	}

	// 2. Children and roots
	for _, id := range s.order {
		item := s.items[id]
		parent, ok := s.items[item.ParentID]
		if item.ParentID == "" || !ok {
			s.roots = append(s.roots, item)
			continue
		}
		parent.ChildIDs = append(parent.ChildIDs, item.ID)
	}

	// 3. Tag overlay
	for tag, ids := range mappings {
		for _, id := range ids {
			if item, ok := s.items[id]; ok {
				item.Tags.Add(tag)
			}
		}
	}

	return s
}

// Get returns the item with the given id, or nil.
func (s *Snapshot) Get(id string) *Item {
	return s.items[id]
}

// Len returns the number of items.
func (s *Snapshot) Len() int {
	return len(s.items)
}

// IDs returns all item ids in received order.
func (s *Snapshot) IDs() []string {
	return append([]string(nil), s.order...)
}

// Items returns all items in received order.
func (s *Snapshot) Items() []*Item {
	items := make([]*Item, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.items[id])
	}
	return items
}

// RootItems returns the items with no resolvable parent, in received order.
func (s *Snapshot) RootItems() []*Item {
	return append([]*Item(nil), s.roots...)
}

// IsEmpty reports whether the snapshot has no items.
func (s *Snapshot) IsEmpty() bool {
	return len(s.items) == 0
}

// IsConfigured reports whether initial setup has already run,
// signalled by more than one root item on the board.
func (s *Snapshot) IsConfigured() bool {
	return len(s.roots) > 1
}

// Frames returns every frame in received order.
func (s *Snapshot) Frames() []*Item {
	var frames []*Item
	for _, id := range s.order {
		if item := s.items[id]; item.IsFrame() {
			frames = append(frames, item)
		}
	}
	return frames
}

// FrameByRole returns the first frame tagged with role, or nil.
// Tags are only ever attached to frames, so only frames are searched.
func (s *Snapshot) FrameByRole(role string) *Item {
	for _, frame := range s.Frames() {
		if frame.Tags.Has(role) {
			return frame
		}
	}
	return nil
}

// ProductFrame returns the frame tagged RoleProduct, or nil.
func (s *Snapshot) ProductFrame() *Item { return s.FrameByRole(RoleProduct) }

// SegmentsFrame returns the frame tagged RoleSegments, or nil.
func (s *Snapshot) SegmentsFrame() *Item { return s.FrameByRole(RoleSegments) }

// ChannelsFrame returns the frame tagged RoleChannels, or nil.
func (s *Snapshot) ChannelsFrame() *Item { return s.FrameByRole(RoleChannels) }

// SummaryFrame returns the frame tagged RoleSummary, or nil.
func (s *Snapshot) SummaryFrame() *Item { return s.FrameByRole(RoleSummary) }

// ChatFrames returns the root items carrying a chat role.
func (s *Snapshot) ChatFrames() []*Item {
	var chats []*Item
	for _, root := range s.roots {
		if root.IsChat() {
			chats = append(chats, root)
		}
	}
	return chats
}

// ChatPromptItemID returns the id of the chat frame's prompt text item.
// The prompt is the first child created in a chat frame, so this is
// positional: ok is false when the frame has no children.
func (s *Snapshot) ChatPromptItemID(chatFrame *Item) (string, bool) {
	if chatFrame == nil || len(chatFrame.ChildIDs) == 0 {
		return "", false
	}
	return chatFrame.ChildIDs[0], true
}

// ChatShapes returns every shape that is a direct child of a chat frame.
// These shapes hold user responses.
func (s *Snapshot) ChatShapes() []*Item {
	var shapes []*Item
	for _, frame := range s.ChatFrames() {
		for _, child := range frame.Children() {
			if child.Type == ItemTypeShape {
				shapes = append(shapes, child)
			}
		}
	}
	return shapes
}

// AnyContains reports whether any item's content contains text, ignoring case.
func (s *Snapshot) AnyContains(text string) bool {
	for _, item := range s.items {
		if item.Contains(text) {
			return true
		}
	}
	return false
}
