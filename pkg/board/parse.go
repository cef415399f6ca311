package board

import (
	"strings"
	"time"
)

// ParseItem converts one API record into an Item.
// It never fails: absent nested objects yield zero values and an unknown
// type string yields ItemTypeUnknown. The parent id is taken from the nested
// "parent" object when present, otherwise from the flat parent_id field.
func ParseItem(raw RawItem) *Item {
	item := &Item{
		ID:       raw.ID,
		Type:     ParseItemType(raw.Type),
		Style:    raw.Style,
		ChildIDs: []string{},
		Tags:     TagSet{},
	}

	if raw.Links != nil {
		item.Link = raw.Links.Self
	}

	if raw.Parent != nil {
		item.ParentID = raw.Parent.ID
		if raw.Parent.Links != nil {
			item.ParentLink = raw.Parent.Links.Self
		}
	} else {
		item.ParentID = raw.ParentID
		if raw.Links != nil {
			item.ParentLink = raw.Links.Parent
		}
	}

	if raw.Data != nil {
		item.Data = ItemData{
			Format:  raw.Data.Format,
			Content: raw.Data.Content,
			Title:   raw.Data.Title,
			Type:    raw.Data.Type,
		}
		if raw.Data.ShowContent != nil {
			item.Data.ShowContent = *raw.Data.ShowContent
		}
	}

	if item.Style == nil {
		item.Style = map[string]any{}
	}

	if raw.Geometry != nil {
		item.Geometry = Geometry{
			Width:  floatOrZero(raw.Geometry.Width),
			Height: floatOrZero(raw.Geometry.Height),
		}
	}

	if raw.Position != nil {
		item.Position = Position{
			X:          floatOrZero(raw.Position.X),
			Y:          floatOrZero(raw.Position.Y),
			Origin:     raw.Position.Origin,
			RelativeTo: raw.Position.RelativeTo,
		}
	}

	item.CreatedAt = ParseTimestamp(raw.CreatedAt)
	item.ModifiedAt = ParseTimestamp(raw.ModifiedAt)
	item.CreatedBy = parseActor(raw.CreatedBy)
	item.ModifiedBy = parseActor(raw.ModifiedBy)

	return item
}

// timestampLayouts are tried in order after a trailing "Z" has been
// rewritten to "+00:00". Layouts without an offset are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp.
// Returns nil for empty or unparsable input.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	return nil
}

func parseActor(raw *RawActor) Actor {
	if raw == nil {
		return Actor{}
	}
	return Actor{ID: raw.ID, Type: raw.Type}
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
