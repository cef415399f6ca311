package inspect

import (
	"fmt"
	"io"
	"time"

	"github.com/dyluth/easel/internal/filter"
	"github.com/dyluth/easel/pkg/board"
)

// OutputFormat specifies how to format the item list output.
type OutputFormat string

const (
	// OutputFormatDefault uses a table format with truncated content
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL outputs complete items as line-delimited JSON
	OutputFormatJSONL OutputFormat = "jsonl"
)

// ListItems writes the snapshot's items that match criteria, in received order.
func ListItems(snapshot *board.Snapshot, boardID string, format OutputFormat, criteria *filter.Criteria, w io.Writer) error {
	items := snapshot.Items()
	if criteria != nil {
		items = criteria.Apply(items)
	}

	switch format {
	case OutputFormatDefault, "":
		FormatTable(w, items, boardID, time.Now())
	case OutputFormatJSONL:
		if err := FormatJSONL(w, items); err != nil {
			return fmt.Errorf("failed to format JSONL output: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	return nil
}

// Tree writes the board hierarchy. With chatOnly only chat frames and their
// children are shown.
func Tree(snapshot *board.Snapshot, chatOnly bool, w io.Writer) {
	roots := snapshot.RootItems()
	if chatOnly {
		roots = snapshot.ChatFrames()
	}
	FormatTree(w, roots)
}
