package board

// Equal reports whether two snapshots hold the same id set and every pair of
// corresponding items is Item.Equal. This is the gate for "has anything
// changed". A nil snapshot equals only another nil snapshot.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}

	if len(s.items) != len(other.items) {
		return false
	}

	for id, item := range s.items {
		otherItem, ok := other.items[id]
		if !ok {
			return false
		}
		if !item.Equal(otherItem) {
			return false
		}
	}

	return true
}

// Diff lists the ids whose presence or semantic state differs between s and other.
// Added holds ids only in other, Removed ids only in s, Changed ids in both
// whose items are not Equal. Each list follows the owning snapshot's order.
func (s *Snapshot) Diff(other *Snapshot) (added, removed, changed []string) {
	if s == nil {
		s = Build(nil, nil)
	}
	if other == nil {
		other = Build(nil, nil)
	}

	for _, id := range s.order {
		otherItem, ok := other.items[id]
		if !ok {
			removed = append(removed, id)
			continue
		}
		if !s.items[id].Equal(otherItem) {
			changed = append(changed, id)
		}
	}

	for _, id := range other.order {
		if _, ok := s.items[id]; !ok {
			added = append(added, id)
		}
	}

	return added, removed, changed
}
