package application

import "go.mongodb.org/mongo-driver/bson/primitive"

// reconcileOrder recomputes a parent's order array from its children's
// back-references. Membership comes from the live children; sequence is
// preserved from the current array where possible:
//
//   - ids in current that still reference a live child keep their
//     relative order
//   - stale ids (destroyed or re-parented children) are dropped
//   - live children missing from current are appended at the end, in the
//     order given (creation order from the store)
//   - duplicates collapse to the first occurrence
//
// This is the repair half of the order-array/back-reference duality: the
// back-reference decides membership, the old array only decides sequence.
func reconcileOrder(current, live []primitive.ObjectID) []primitive.ObjectID {
	liveSet := make(map[primitive.ObjectID]struct{}, len(live))
	for _, id := range live {
		liveSet[id] = struct{}{}
	}

	out := make([]primitive.ObjectID, 0, len(live))
	seen := make(map[primitive.ObjectID]struct{}, len(live))
	for _, id := range current {
		if _, ok := liveSet[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range live {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// ordersEqual reports whether two order arrays are identical.
func ordersEqual(a, b []primitive.ObjectID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
