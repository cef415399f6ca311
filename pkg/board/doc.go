// Package board provides the typed item model and hierarchy builder for a
// remote whiteboard.
//
// # Overview
//
// The remote board API returns a flat list of positioned items (frames,
// sticky notes, text items, shapes). This package turns one such list into a
// Snapshot: an immutable view of every item at one point in time, with
// parent/child edges reconstructed, root items identified, and role tags
// overlaid from a durable tag index.
//
// # Core Concepts
//
// Items are parsed from RawItem records by ParseItem. Parsing never fails:
// unknown type strings become ItemTypeUnknown, absent nested objects become
// zero values, and unparsable timestamps become nil.
//
// Snapshots are built by Build (or Load, which first reads the tag mappings
// from a MappingSource). After construction every item's ChildIDs mirrors the
// reverse of ParentID across the snapshot, and an item is a root iff its
// parent id is empty or does not resolve within the snapshot.
//
// Role tags ("Segments", "Product Chat", ...) are not part of the API
// payload. They are recorded when frames are created and re-attached on every
// build, which is how the agent recovers which frame plays which role.
//
// # Equality
//
// Two snapshots are equal iff they hold the same id set and every pair of
// items is equal on id, type, parent id, content, tags and children.
// Presentation metadata (timestamps, actors, style, geometry, position) is
// deliberately excluded so that moving a sticky note is not a change.
//
// # Usage Example
//
//	raws, err := api.ListItems(ctx)
//	if err != nil {
//		return err
//	}
//
//	snap, err := board.Load(ctx, raws, tagIndex)
//	if err != nil {
//		return err
//	}
//
//	if segments := snap.FrameByRole(board.RoleSegments); segments != nil {
//		fmt.Println(segments.DumpStickyNotes())
//	}
//
//	changed := !previous.Equal(snap)
package board
