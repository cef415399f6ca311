package board

import (
	"encoding/json"
	"strings"
)

// Content returns the item's textual content.
func (i *Item) Content() string {
	return i.Data.Content
}

// Contains reports whether the content contains text, ignoring case.
// Returns false if either the content or text is empty.
func (i *Item) Contains(text string) bool {
	content := i.Content()
	if content == "" || text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(text))
}

// Children resolves the item's child ids to items in received order.
// Ids that do not resolve within the owning snapshot are skipped.
func (i *Item) Children() []*Item {
	children := make([]*Item, 0, len(i.ChildIDs))
	for _, id := range i.ChildIDs {
		if child, ok := i.index[id]; ok {
			children = append(children, child)
		}
	}
	return children
}

// DescendantIDs returns every id reachable through children, excluding the
// item itself. Computed on demand; a visited set guards against malformed
// parent cycles.
func (i *Item) DescendantIDs() map[string]struct{} {
	visited := map[string]struct{}{i.ID: {}}
	out := map[string]struct{}{}

	stack := append([]string(nil), i.ChildIDs...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		out[id] = struct{}{}

		if child, ok := i.index[id]; ok {
			stack = append(stack, child.ChildIDs...)
		}
	}

	return out
}

// IsChat reports whether any tag marks this item as a chat frame.
func (i *Item) IsChat() bool {
	return i.Tags.ContainsFold("chat")
}

// IsFrame reports whether the item is a frame.
func (i *Item) IsFrame() bool {
	return i.Type == ItemTypeFrame
}

// StickyNotes returns the direct children that are sticky notes.
func (i *Item) StickyNotes() []*Item {
	var notes []*Item
	for _, child := range i.Children() {
		if child.Type == ItemTypeStickyNote {
			notes = append(notes, child)
		}
	}
	return notes
}

// DumpStickyNotes encodes the item's sticky notes as a JSON object of id to content.
func (i *Item) DumpStickyNotes() string {
	notes := map[string]string{}
	for _, note := range i.StickyNotes() {
		notes[note.ID] = note.Content()
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Equal compares the semantically meaningful state of two items:
// id, type, parent id, content, tags and the set of children.
// Timestamps, actors, style, geometry and position are not compared.
func (i *Item) Equal(other *Item) bool {
	if i == nil || other == nil {
		return i == other
	}

	return i.ID == other.ID &&
		i.Type == other.Type &&
		i.ParentID == other.ParentID &&
		i.Content() == other.Content() &&
		i.Tags.Equal(other.Tags) &&
		sameIDSet(i.ChildIDs, other.ChildIDs)
}

// ToMap returns a JSON-ready nested representation of the item and its subtree.
func (i *Item) ToMap() map[string]any {
	return i.toMap(map[string]struct{}{})
}

func (i *Item) toMap(visited map[string]struct{}) map[string]any {
	visited[i.ID] = struct{}{}

	children := []map[string]any{}
	for _, child := range i.Children() {
		if _, seen := visited[child.ID]; seen {
			continue
		}
		children = append(children, child.toMap(visited))
	}

	return map[string]any{
		"id":   i.ID,
		"type": string(i.Type),
		"data": map[string]any{
			"format":       i.Data.Format,
			"content":      i.Data.Content,
			"show_content": i.Data.ShowContent,
			"title":        i.Data.Title,
			"type":         i.Data.Type,
		},
		"tags":     i.Tags.String(),
		"children": children,
	}
}

func sameIDSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, id := range b {
		setB[id] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if _, ok := setB[id]; !ok {
			return false
		}
	}
	return true
}
