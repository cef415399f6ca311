package inspect

import (
	"fmt"
	"io"

	"github.com/dyluth/easel/pkg/board"
)

// GetItem writes one item as indented JSON.
func GetItem(snapshot *board.Snapshot, itemID string, w io.Writer) error {
	item := snapshot.Get(itemID)
	if item == nil {
		return &ItemNotFoundError{ItemID: itemID}
	}

	if err := FormatSingleJSON(w, item); err != nil {
		return fmt.Errorf("failed to format item: %w", err)
	}
	return nil
}

// ItemNotFoundError represents a specific "item not found" error.
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item with ID '%s' not found", e.ItemID)
}

// IsNotFound returns true if the error is an ItemNotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*ItemNotFoundError)
	return ok
}
