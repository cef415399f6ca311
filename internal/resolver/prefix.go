// Package resolver turns a unique id prefix into a full board item id.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dyluth/easel/pkg/board"
)

// MinPrefixLength is the minimum accepted prefix length.
const MinPrefixLength = 4

// ResolveItemID resolves id against the snapshot.
// An exact id match always wins; otherwise the prefix must match exactly one item.
func ResolveItemID(snapshot *board.Snapshot, id string) (string, error) {
	if snapshot.Get(id) != nil {
		return id, nil
	}

	if len(id) < MinPrefixLength {
		return "", fmt.Errorf("id prefix must be at least %d characters (got %d)", MinPrefixLength, len(id))
	}

	var matches []string
	for _, candidate := range snapshot.IDs() {
		if strings.HasPrefix(candidate, id) {
			matches = append(matches, candidate)
		}
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Prefix: id}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Prefix: id, Matches: matches}
	}
}

// NotFoundError indicates no items matched the prefix.
type NotFoundError struct {
	Prefix string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no items found matching '%s'", e.Prefix)
}

// AmbiguousError indicates multiple items matched the prefix.
type AmbiguousError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous id prefix '%s' matches %d items", e.Prefix, len(e.Matches))
}

// FormatAmbiguousError lists up to 10 matching ids for the user.
func FormatAmbiguousError(err *AmbiguousError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ambiguous id prefix '%s' matches %d items:\n", err.Prefix, len(err.Matches))

	shown := err.Matches
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, id := range shown {
		fmt.Fprintf(&b, "  %s\n", id)
	}
	if len(err.Matches) > 10 {
		fmt.Fprintf(&b, "  ...and %d more\n", len(err.Matches)-10)
	}

	b.WriteString("\nUse a longer prefix to uniquely identify the item.")
	return b.String()
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}
