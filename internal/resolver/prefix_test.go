package resolver

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/easel/pkg/board"
)

func snapshotOf(ids ...string) *board.Snapshot {
	raws := make([]board.RawItem, 0, len(ids))
	for _, id := range ids {
		raws = append(raws, board.RawItem{ID: id, Type: "sticky_note"})
	}
	return board.Build(raws, nil)
}

func TestResolveItemID(t *testing.T) {
	s := snapshotOf("3458764600000001", "3458764600000002", "3458764611111111", "abc")

	tests := []struct {
		name    string
		input   string
		want    string
		check   func(error) bool
		wantMsg string
	}{
		{name: "exact id", input: "3458764600000001", want: "3458764600000001"},
		{name: "short exact id", input: "abc", want: "abc"},
		{name: "unique prefix", input: "34587646111", want: "3458764611111111"},
		{name: "ambiguous", input: "345876460000", check: IsAmbiguousError, wantMsg: "matches 2 items"},
		{name: "not found", input: "9999", check: IsNotFoundError, wantMsg: "no items found"},
		{name: "too short", input: "34", wantMsg: "at least 4 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveItemID(s, tt.input)
			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantMsg)
				if tt.check != nil {
					assert.True(t, tt.check(err))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmbiguousError(t *testing.T) {
	matches := make([]string, 12)
	for i := range matches {
		matches[i] = fmt.Sprintf("item-%02d", i)
	}

	msg := FormatAmbiguousError(&AmbiguousError{Prefix: "item", Matches: matches})
	assert.Contains(t, msg, "matches 12 items")
	assert.Contains(t, msg, "item-09")
	assert.NotContains(t, msg, "item-10\n")
	assert.Contains(t, msg, "...and 2 more")
	assert.True(t, strings.HasSuffix(msg, "uniquely identify the item."))
}
