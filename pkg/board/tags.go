package board

import (
	"encoding/json"
	"sort"
	"strings"
)

// TagSet is the set of role labels attached to an item.
type TagSet map[string]struct{}

// NewTagSet returns a set holding the given tags.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add inserts a tag. Adding to a nil set is a no-op.
func (s TagSet) Add(tag string) {
	if s == nil {
		return
	}
	s[tag] = struct{}{}
}

// Has reports whether the tag is present (exact match).
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// ContainsFold reports whether any tag contains sub, ignoring case.
func (s TagSet) ContainsFold(sub string) bool {
	sub = strings.ToLower(sub)
	for t := range s {
		if strings.Contains(strings.ToLower(t), sub) {
			return true
		}
	}
	return false
}

// Sorted returns the tags in lexical order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold exactly the same tags.
// A nil set equals an empty one.
func (s TagSet) Equal(other TagSet) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// String joins the sorted tags with ", " (empty for no tags).
func (s TagSet) String() string {
	return strings.Join(s.Sorted(), ", ")
}

// MarshalJSON encodes the set as a sorted array.
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array of tags.
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}
