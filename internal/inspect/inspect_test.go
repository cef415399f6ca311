package inspect

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/easel/internal/filter"
	"github.com/dyluth/easel/pkg/board"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testSnapshot() *board.Snapshot {
	raws := []board.RawItem{
		{ID: "ic", Type: "frame", Data: &board.RawData{Title: "Chat"}},
		{ID: "ic-p", Type: "text", Parent: &board.RawRef{ID: "ic"}, Data: &board.RawData{Content: "<p><strong>Agent: </strong></p><p>Set up the board?</p>"}},
		{ID: "ic-r", Type: "shape", Parent: &board.RawRef{ID: "ic"}, Data: &board.RawData{Content: "<p>yes &amp; thanks</p>"}},
		{ID: "fp", Type: "frame", Data: &board.RawData{Title: "Product"}, ModifiedAt: "2025-06-01T11:00:00Z"},
		{ID: "p1", Type: "sticky_note", Parent: &board.RawRef{ID: "fp"}, Data: &board.RawData{Content: "A very long description of the product that goes on and on"}},
	}
	return board.Build(raws, map[string][]string{
		board.RoleInitialChat: {"ic"},
		board.RoleProduct:     {"fp"},
	})
}

func TestFormatContent(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "", "-"},
		{"only markup", "<p></p>", "-"},
		{"strips tags and entities", "<p>Fish &amp; chips</p>", "Fish & chips"},
		{"keeps paragraphs apart", "<p>one</p><p>two</p>", "one two"},
		{"first line", "\n\nfirst\nsecond", "first"},
		{"truncates", strings.Repeat("x", 50), strings.Repeat("x", 37) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatContent(tt.in))
		})
	}
}

func TestFormatAge(t *testing.T) {
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}
	assert.Equal(t, "-", formatAge(nil, now))
	assert.Equal(t, "30s ago", formatAge(at(30*time.Second), now))
	assert.Equal(t, "5m ago", formatAge(at(5*time.Minute), now))
	assert.Equal(t, "3h ago", formatAge(at(3*time.Hour), now))
	assert.Equal(t, "2d ago", formatAge(at(49*time.Hour), now))
}

func TestFormatTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Zero(t, FormatTable(&buf, nil, "b1", now))
		assert.Equal(t, "No items found on board 'b1'\n", buf.String())
	})

	t.Run("rows", func(t *testing.T) {
		var buf bytes.Buffer
		n := FormatTable(&buf, testSnapshot().Items(), "b1", now)
		assert.Equal(t, 5, n)

		out := buf.String()
		assert.Contains(t, out, "Items on board 'b1'")
		assert.Contains(t, out, "Initial Chat")
		assert.Contains(t, out, "1h ago")
		assert.Contains(t, out, "Set up the board?")
		assert.Contains(t, out, "A very long description of the produc...")
		assert.True(t, strings.HasSuffix(out, "5 items found\n"))
	})
}

func TestListItems(t *testing.T) {
	s := testSnapshot()

	t.Run("filtered jsonl", func(t *testing.T) {
		var buf bytes.Buffer
		err := ListItems(s, "b1", OutputFormatJSONL, &filter.Criteria{TypeGlob: "frame"}, &buf)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)

		var first map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		assert.Equal(t, "ic", first["id"])
		assert.Equal(t, []any{"Initial Chat"}, first["tags"])
	})

	t.Run("default table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ListItems(s, "b1", OutputFormatDefault, nil, &buf))
		assert.Contains(t, buf.String(), "5 items found")
	})

	t.Run("unknown format", func(t *testing.T) {
		err := ListItems(s, "b1", "xml", nil, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown output format")
	})
}

func TestGetItem(t *testing.T) {
	s := testSnapshot()

	var buf bytes.Buffer
	require.NoError(t, GetItem(s, "fp", &buf))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "fp", got["id"])
	assert.Equal(t, []any{"p1"}, got["children"])

	err := GetItem(s, "nope", &buf)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "'nope' not found")
}

func TestTree(t *testing.T) {
	s := testSnapshot()

	t.Run("whole board", func(t *testing.T) {
		var buf bytes.Buffer
		Tree(s, false, &buf)
		assert.Equal(t, strings.Join([]string{
			"frame ic [Initial Chat] Chat",
			"  text ic-p Agent: Set up the board?",
			"  shape ic-r yes & thanks",
			"frame fp [Product] Product",
			"  sticky_note p1 A very long description of the produc...",
		}, "\n")+"\n", buf.String())
	})

	t.Run("chat only", func(t *testing.T) {
		var buf bytes.Buffer
		Tree(s, true, &buf)
		assert.NotContains(t, buf.String(), "fp")
		assert.Contains(t, buf.String(), "ic-r")
	})
}
