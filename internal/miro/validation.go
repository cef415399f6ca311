package miro

import (
	"sort"
	"strconv"
	"strings"
)

// stickyFillColors is the fixed palette accepted for sticky note fills.
var stickyFillColors = map[string]struct{}{
	"gray":         {},
	"light_yellow": {},
	"yellow":       {},
	"orange":       {},
	"light_green":  {},
	"green":        {},
	"dark_green":   {},
	"cyan":         {},
	"light_pink":   {},
	"pink":         {},
	"violet":       {},
	"red":          {},
	"light_blue":   {},
	"blue":         {},
	"dark_blue":    {},
	"black":        {},
}

var textAligns = map[string]struct{}{
	"left":   {},
	"center": {},
	"right":  {},
}

// StickyFillColors returns the accepted sticky note fill colours, sorted.
func StickyFillColors() []string {
	return sortedKeys(stickyFillColors)
}

// ValidateFillColor checks color against the sticky note palette.
func ValidateFillColor(color string) error {
	if _, ok := stickyFillColors[color]; !ok {
		return &ValidationError{
			Field: "fill color",
			Value: color,
			Msg:   "allowed: " + strings.Join(StickyFillColors(), ", "),
		}
	}
	return nil
}

// ValidateTextAlign checks align is one of left, center or right.
func ValidateTextAlign(align string) error {
	if _, ok := textAligns[align]; !ok {
		return &ValidationError{
			Field: "text align",
			Value: align,
			Msg:   "allowed: " + strings.Join(sortedKeys(textAligns), ", "),
		}
	}
	return nil
}

// ValidateWidth checks width is positive.
func ValidateWidth(width int) error {
	if width <= 0 {
		return &ValidationError{
			Field: "width",
			Value: strconv.Itoa(width),
			Msg:   "must be a positive integer",
		}
	}
	return nil
}

// ValidateID checks that an item id argument is set.
func ValidateID(field, id string) error {
	if id == "" {
		return &ValidationError{Field: field, Value: id, Msg: "cannot be empty"}
	}
	return nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
