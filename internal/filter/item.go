// Package filter selects board items by type, tag, content and modification time.
package filter

import (
	"path/filepath"
	"time"

	"github.com/dyluth/easel/pkg/board"
)

// Criteria defines filtering criteria for items.
// All filters are ANDed together - an item must match ALL criteria to pass.
type Criteria struct {
	Since    time.Time // zero = no filter
	Until    time.Time // zero = no filter
	TypeGlob string    // glob over the item type, empty = no filter
	Tag      string    // exact tag, empty = no filter
	Contains string    // case-insensitive content substring, empty = no filter
}

// Matches returns true if the item matches all filter criteria.
//
// Time bounds apply to the last modification, falling back to creation.
// An item with neither timestamp fails any time bound.
func (c *Criteria) Matches(item *board.Item) bool {
	if !c.Since.IsZero() || !c.Until.IsZero() {
		at := touchedAt(item)
		if at == nil {
			return false
		}
		if !c.Since.IsZero() && at.Before(c.Since) {
			return false
		}
		if !c.Until.IsZero() && at.After(c.Until) {
			return false
		}
	}

	if c.TypeGlob != "" {
		matched, err := filepath.Match(c.TypeGlob, string(item.Type))
		if err != nil || !matched {
			return false
		}
	}

	if c.Tag != "" && !item.Tags.Has(c.Tag) {
		return false
	}

	if c.Contains != "" && !item.Contains(c.Contains) {
		return false
	}

	return true
}

// Apply returns the items that match, preserving order.
func (c *Criteria) Apply(items []*board.Item) []*board.Item {
	out := make([]*board.Item, 0, len(items))
	for _, item := range items {
		if c.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// HasFilters returns true if any filters are active.
func (c *Criteria) HasFilters() bool {
	return !c.Since.IsZero() ||
		!c.Until.IsZero() ||
		c.TypeGlob != "" ||
		c.Tag != "" ||
		c.Contains != ""
}

func touchedAt(item *board.Item) *time.Time {
	if item.ModifiedAt != nil {
		return item.ModifiedAt
	}
	return item.CreatedAt
}
