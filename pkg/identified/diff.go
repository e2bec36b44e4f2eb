package identified

// Diff describes how an array changed between two snapshots.
// It is designed to be serialized to JSON for partial updates on a client.
type Diff struct {
	// Inserted lists identities present only in the new array, in new order.
	Inserted []string `json:"inserted,omitempty"`

	// Removed lists identities present only in the old array, in old order.
	Removed []string `json:"removed,omitempty"`

	// Updated lists identities present in both whose values differ.
	Updated []string `json:"updated,omitempty"`

	// Reordered is set when the surviving identities changed relative order.
	Reordered bool `json:"reordered,omitempty"`
}

// Compare calculates the difference between old and new.
// Identity drives matching; equal decides whether a matched element changed.
func Compare[T Identifiable](old, new Array[T], equal func(a, b T) bool) Diff {
	var d Diff

	for _, item := range new.items {
		prev, ok := old.Get(item.Identity())
		if !ok {
			d.Inserted = append(d.Inserted, item.Identity())
			continue
		}
		if !equal(prev, item) {
			d.Updated = append(d.Updated, item.Identity())
		}
	}

	var kept []string
	for _, item := range old.items {
		if !new.Contains(item.Identity()) {
			d.Removed = append(d.Removed, item.Identity())
			continue
		}
		kept = append(kept, item.Identity())
	}

	// Surviving identities must appear in the same relative order.
	pos := 0
	for _, item := range new.items {
		if pos < len(kept) && item.Identity() == kept[pos] {
			pos++
			continue
		}
		if old.Contains(item.Identity()) {
			d.Reordered = true
			break
		}
	}

	return d
}

// IsEmpty reports whether the diff carries any change.
func (d Diff) IsEmpty() bool {
	return len(d.Inserted) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Updated) == 0 &&
		!d.Reordered
}
