package poller

import (
	"context"
	"fmt"

	"github.com/dyluth/easel/pkg/board"
)

// ItemLister fetches the raw item records of one board.
type ItemLister interface {
	ListItems(ctx context.Context) ([]board.RawItem, error)
}

// Loader builds snapshots from the remote board and the tag index.
// It satisfies agent.BoardLoader.
type Loader struct {
	items ItemLister
	tags  board.MappingSource
}

// NewLoader returns a Loader reading items from items and tags from tags.
func NewLoader(items ItemLister, tags board.MappingSource) *Loader {
	return &Loader{items: items, tags: tags}
}

// LoadSnapshot fetches every item and overlays the recorded tags.
func (l *Loader) LoadSnapshot(ctx context.Context) (*board.Snapshot, error) {
	raws, err := l.items.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch board items: %w", err)
	}
	return board.Load(ctx, raws, l.tags)
}
