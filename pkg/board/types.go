package board

import (
	"strings"
	"time"
)

// ItemType is the closed set of board element kinds the agent understands.
type ItemType string

const (
	// ItemTypeStickyNote is a sticky note; the unit of user and agent content inside frames
	ItemTypeStickyNote ItemType = "sticky_note"

	// ItemTypeText is a free text item (used for chat prompts and labels)
	ItemTypeText ItemType = "text"

	// ItemTypeShape is a shape with text content (used for chat response boxes)
	ItemTypeShape ItemType = "shape"

	// ItemTypeFrame is a container that parents other items
	ItemTypeFrame ItemType = "frame"

	// ItemTypeUnknown is any type string not recognised above
	ItemTypeUnknown ItemType = "unknown"
)

// ParseItemType maps an API type string onto ItemType.
// Unrecognised or empty input yields ItemTypeUnknown; it never fails.
func ParseItemType(s string) ItemType {
	switch t := ItemType(strings.ToLower(strings.TrimSpace(s))); t {
	case ItemTypeStickyNote, ItemTypeText, ItemTypeShape, ItemTypeFrame:
		return t
	default:
		return ItemTypeUnknown
	}
}

// Role labels attached to frames when the board is set up.
const (
	RoleInitialChat = "Initial Chat"
	RoleProduct     = "Product"
	RoleSegments    = "Segments"
	RoleChannels    = "Channels"
	RoleSummary     = "Summary"
)

// ChatRole returns the role label of the chat frame that belongs to a frame role.
func ChatRole(role string) string {
	return role + " Chat"
}

// RawItem is one item record as returned by the remote board API.
// Every nested object is optional; ParseItem substitutes zero values.
type RawItem struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Parent     *RawRef        `json:"parent,omitempty"`
	ParentID   string         `json:"parent_id,omitempty"`
	Links      *RawLinks      `json:"links,omitempty"`
	Data       *RawData       `json:"data,omitempty"`
	Style      map[string]any `json:"style,omitempty"`
	Geometry   *RawGeometry   `json:"geometry,omitempty"`
	Position   *RawPosition   `json:"position,omitempty"`
	CreatedAt  string         `json:"createdAt,omitempty"`
	CreatedBy  *RawActor      `json:"createdBy,omitempty"`
	ModifiedAt string         `json:"modifiedAt,omitempty"`
	ModifiedBy *RawActor      `json:"modifiedBy,omitempty"`
}

// RawRef is a nested reference to another item (the "parent" object).
type RawRef struct {
	ID    string    `json:"id"`
	Links *RawLinks `json:"links,omitempty"`
}

// RawLinks carries the API's hypermedia links.
type RawLinks struct {
	Self    string `json:"self,omitempty"`
	Related string `json:"related,omitempty"`
	Parent  string `json:"parent,omitempty"`
}

// RawData is the content block of an item.
type RawData struct {
	Format      string `json:"format,omitempty"`
	Content     string `json:"content,omitempty"`
	ShowContent *bool  `json:"showContent,omitempty"`
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`
	Shape       string `json:"shape,omitempty"`
}

// RawGeometry is the size block of an item.
type RawGeometry struct {
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// RawPosition is the location block of an item.
type RawPosition struct {
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	Origin     string   `json:"origin,omitempty"`
	RelativeTo string   `json:"relativeTo,omitempty"`
}

// RawActor identifies the user or app that created or modified an item.
type RawActor struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
}

// Item is one visual element of a Snapshot.
// Items are plain data holders; see ParseItem for construction from the API.
type Item struct {
	ID         string         `json:"id"`
	Link       string         `json:"link,omitempty"`
	ParentID   string         `json:"parent_id,omitempty"` // Empty means root
	ParentLink string         `json:"parent_link,omitempty"`
	Type       ItemType       `json:"type"`
	Data       ItemData       `json:"data"`
	Style      map[string]any `json:"style,omitempty"`
	Geometry   Geometry       `json:"geometry"`
	Position   Position       `json:"position"`
	CreatedAt  *time.Time     `json:"created_at,omitempty"`
	CreatedBy  Actor          `json:"created_by"`
	ModifiedAt *time.Time     `json:"modified_at,omitempty"`
	ModifiedBy Actor          `json:"modified_by"`
	ChildIDs   []string       `json:"children"` // Rebuilt on every snapshot, in received order
	Tags       TagSet         `json:"tags"`     // Overlaid from the tag index, never from the payload

	// index is the owning snapshot's id lookup, used only to resolve Children.
	index map[string]*Item
}

// ItemData is the content of an item. Content may be HTML-flavoured.
type ItemData struct {
	Format      string `json:"format,omitempty"`
	Content     string `json:"content"`
	ShowContent bool   `json:"show_content"`
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Geometry is an item's size; absent values are 0.
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position is an item's location relative to Origin/RelativeTo markers.
type Position struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Origin     string  `json:"origin,omitempty"`
	RelativeTo string  `json:"relative_to,omitempty"`
}

// Actor identifies who created or last modified an item.
type Actor struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
}
