package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dyluth/easel/pkg/board"
)

func at(s string) *time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return &t
}

func TestCriteria_Matches(t *testing.T) {
	note := &board.Item{
		ID:         "n1",
		Type:       board.ItemTypeStickyNote,
		Data:       board.ItemData{Content: "<p>Gamers who stream</p>"},
		CreatedAt:  at("2025-01-01T10:00:00Z"),
		ModifiedAt: at("2025-01-02T10:00:00Z"),
		Tags:       board.NewTagSet(),
	}
	frame := &board.Item{
		ID:        "f1",
		Type:      board.ItemTypeFrame,
		CreatedAt: at("2025-01-01T09:00:00Z"),
		Tags:      board.NewTagSet("Segments"),
	}
	undated := &board.Item{ID: "x", Type: board.ItemTypeText, Tags: board.NewTagSet()}

	tests := []struct {
		name     string
		criteria Criteria
		item     *board.Item
		want     bool
	}{
		{"no filters", Criteria{}, undated, true},
		{"type exact", Criteria{TypeGlob: "frame"}, frame, true},
		{"type glob", Criteria{TypeGlob: "sticky*"}, note, true},
		{"type mismatch", Criteria{TypeGlob: "frame"}, note, false},
		{"bad glob", Criteria{TypeGlob: "["}, note, false},
		{"tag present", Criteria{Tag: "Segments"}, frame, true},
		{"tag absent", Criteria{Tag: "Segments"}, note, false},
		{"contains ignores case", Criteria{Contains: "GAMERS"}, note, true},
		{"contains miss", Criteria{Contains: "students"}, note, false},
		{"since uses modified", Criteria{Since: *at("2025-01-02T00:00:00Z")}, note, true},
		{"since falls back to created", Criteria{Since: *at("2025-01-02T00:00:00Z")}, frame, false},
		{"until", Criteria{Until: *at("2025-01-01T12:00:00Z")}, frame, true},
		{"until excludes later", Criteria{Until: *at("2025-01-01T12:00:00Z")}, note, false},
		{"time bound needs a timestamp", Criteria{Since: *at("2020-01-01T00:00:00Z")}, undated, false},
		{"all criteria", Criteria{TypeGlob: "frame", Tag: "Segments", Until: *at("2025-02-01T00:00:00Z")}, frame, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(tt.item))
		})
	}
}

func TestCriteria_Apply(t *testing.T) {
	items := []*board.Item{
		{ID: "a", Type: board.ItemTypeFrame},
		{ID: "b", Type: board.ItemTypeShape},
		{ID: "c", Type: board.ItemTypeFrame},
	}
	c := Criteria{TypeGlob: "frame"}

	got := c.Apply(items)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "c", got[1].ID)
	}
}

func TestCriteria_HasFilters(t *testing.T) {
	assert.False(t, (&Criteria{}).HasFilters())
	assert.True(t, (&Criteria{Tag: "Product"}).HasFilters())
	assert.True(t, (&Criteria{Since: time.Now()}).HasFilters())
	assert.True(t, (&Criteria{Contains: "x"}).HasFilters())
}
