package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotEqual_Reflexive(t *testing.T) {
	a := Build(marketingRaws(), marketingMappings())
	b := Build(marketingRaws(), marketingMappings())

	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.True(t, Build(nil, nil).Equal(Build(nil, nil)))
}

func TestSnapshotEqual_Nil(t *testing.T) {
	var none *Snapshot
	empty := Build(nil, nil)

	assert.True(t, none.Equal(nil))
	assert.False(t, none.Equal(empty))
	assert.False(t, empty.Equal(none))
}

func TestSnapshotEqual_IgnoresPresentation(t *testing.T) {
	x, y, w := 1.0, 2.0, 300.0
	moved := marketingRaws()
	moved[1].Position = &RawPosition{X: &x, Y: &y}
	moved[1].Geometry = &RawGeometry{Width: &w}
	moved[1].Style = map[string]any{"fillColor": "red"}
	moved[1].ModifiedAt = "2025-05-05T00:00:00Z"
	moved[1].ModifiedBy = &RawActor{ID: "someone"}

	a := Build(marketingRaws(), marketingMappings())
	b := Build(moved, marketingMappings())

	assert.True(t, a.Equal(b))
}

func TestSnapshotEqual_DetectsSemanticChanges(t *testing.T) {
	base := Build(marketingRaws(), marketingMappings())

	tests := []struct {
		name     string
		raws     func() []RawItem
		mappings func() map[string][]string
	}{
		{
			name: "content edit",
			raws: func() []RawItem {
				r := marketingRaws()
				r[6].Data = &RawData{Content: "the second one"}
				return r
			},
			mappings: marketingMappings,
		},
		{
			name: "type change",
			raws: func() []RawItem {
				r := marketingRaws()
				r[7].Type = string(ItemTypeText)
				return r
			},
			mappings: marketingMappings,
		},
		{
			name: "item added",
			raws: func() []RawItem {
				return append(marketingRaws(), raw("n3", ItemTypeStickyNote, "f-seg", "Students"))
			},
			mappings: marketingMappings,
		},
		{
			name: "item removed",
			raws: func() []RawItem {
				return marketingRaws()[:7]
			},
			mappings: marketingMappings,
		},
		{
			name: "reparented",
			raws: func() []RawItem {
				r := marketingRaws()
				r[7].Parent = &RawRef{ID: "f-seg"}
				return r
			},
			mappings: marketingMappings,
		},
		{
			name: "tag added",
			raws: marketingRaws,
			mappings: func() map[string][]string {
				m := marketingMappings()
				m[RoleSummary] = []string{"loose"}
				return m
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := Build(tt.raws(), tt.mappings())
			assert.False(t, base.Equal(other))
			assert.False(t, other.Equal(base))
		})
	}
}

func TestItemEqual_ChildrenAsSet(t *testing.T) {
	a := Build(marketingRaws(), nil)

	reordered := marketingRaws()
	reordered[1], reordered[2] = reordered[2], reordered[1]
	b := Build(reordered, nil)

	assert.NotEqual(t, a.Get("f-seg").ChildIDs, b.Get("f-seg").ChildIDs)
	assert.True(t, a.Get("f-seg").Equal(b.Get("f-seg")))
	assert.True(t, a.Equal(b))
}

func TestItemEqual_Nil(t *testing.T) {
	var none *Item
	item := ParseItem(raw("a", ItemTypeText, "", ""))

	assert.True(t, none.Equal(nil))
	assert.False(t, none.Equal(item))
	assert.False(t, item.Equal(none))
}

func TestSnapshotDiff(t *testing.T) {
	before := Build(marketingRaws(), marketingMappings())

	afterRaws := marketingRaws()[1:]
	afterRaws[5].Data = &RawData{Content: "changed"}
	afterRaws = append(afterRaws, raw("new", ItemTypeStickyNote, "", "hi"))
	after := Build(afterRaws, marketingMappings())

	added, removed, changed := before.Diff(after)
	assert.Equal(t, []string{"new"}, added)
	assert.Equal(t, []string{"f-seg"}, removed)
	// n1/n2 keep their (now dangling) parent id, so only the content edit counts.
	assert.Equal(t, []string{"c-seg-resp"}, changed)

	added, removed, changed = before.Diff(before)
	assert.Empty(t, added)
	assert.Empty(t, removed)
	assert.Empty(t, changed)

	var none *Snapshot
	added, removed, changed = none.Diff(before)
	assert.Len(t, added, before.Len())
	assert.Empty(t, removed)
	assert.Empty(t, changed)
}
