// Package inspect renders board snapshots for the CLI as tables, JSONL and trees.
package inspect

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/dyluth/easel/pkg/board"
)

// FormatTable writes items as a table: ID, TYPE, TAGS, PARENT, AGE and CONTENT (truncated).
// Returns the number of items formatted.
func FormatTable(w io.Writer, items []*board.Item, boardID string, now time.Time) int {
	if len(items) == 0 {
		fmt.Fprintf(w, "No items found on board '%s'\n", boardID)
		return 0
	}

	fmt.Fprintf(w, "Items on board '%s':\n\n", boardID)

	fmt.Fprintf(w, "%-18s %-11s %-16s %-18s %-8s %s\n",
		"ID", "TYPE", "TAGS", "PARENT", "AGE", "CONTENT")
	fmt.Fprintf(w, "%-18s %-11s %-16s %-18s %-8s %s\n",
		"------------------", "-----------", "----------------", "------------------", "--------", "----------------------------------------")

	for _, item := range items {
		fmt.Fprintf(w, "%-18s %-11s %-16s %-18s %-8s %s\n",
			item.ID,
			item.Type,
			formatTags(item.Tags),
			orDash(item.ParentID),
			formatAge(touchedAt(item), now),
			formatContent(itemText(item)),
		)
	}

	noun := "item"
	if len(items) != 1 {
		noun = "items"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(items), noun)

	return len(items)
}

// FormatJSONL writes one compact JSON object per item.
func FormatJSONL(w io.Writer, items []*board.Item) error {
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal item to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatSingleJSON writes one item as indented JSON.
func FormatSingleJSON(w io.Writer, item *board.Item) error {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal item to JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// FormatTree writes the parent/child hierarchy starting from roots.
// Each line is "<type> <id> [tags] <content>", indented two spaces per level.
func FormatTree(w io.Writer, roots []*board.Item) {
	visited := make(map[string]struct{})
	for _, root := range roots {
		writeNode(w, root, 0, visited)
	}
}

func writeNode(w io.Writer, item *board.Item, depth int, visited map[string]struct{}) {
	if _, seen := visited[item.ID]; seen {
		return
	}
	visited[item.ID] = struct{}{}

	line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", depth), item.Type, item.ID)
	if len(item.Tags) > 0 {
		line += " [" + strings.Join(item.Tags.Sorted(), ", ") + "]"
	}
	if text := formatContent(itemText(item)); text != "-" {
		line += " " + text
	}
	fmt.Fprintln(w, line)

	for _, child := range item.Children() {
		writeNode(w, child, depth+1, visited)
	}
}

// itemText is the title for frames and the content for everything else.
func itemText(item *board.Item) string {
	if item.IsFrame() && item.Data.Title != "" {
		return item.Data.Title
	}
	return item.Content()
}

// formatContent strips markup and truncates to the first 40 characters of the first line.
func formatContent(content string) string {
	text := html.UnescapeString(stripTags(content))

	var first string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			first = trimmed
			break
		}
	}
	if first == "" {
		return "-"
	}

	runes := []rune(first)
	if len(runes) > 40 {
		return string(runes[:37]) + "..."
	}
	return first
}

// stripTags replaces markup with spaces so adjacent paragraphs stay apart.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func formatTags(tags board.TagSet) string {
	if len(tags) == 0 {
		return "-"
	}
	s := strings.Join(tags.Sorted(), ",")
	if len(s) > 16 {
		return s[:13] + "..."
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func touchedAt(item *board.Item) *time.Time {
	if item.ModifiedAt != nil {
		return item.ModifiedAt
	}
	return item.CreatedAt
}

// formatAge shows relative time like "2m ago", "1h ago", etc.
func formatAge(t *time.Time, now time.Time) string {
	if t == nil {
		return "-"
	}

	diff := now.Sub(*t)
	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
