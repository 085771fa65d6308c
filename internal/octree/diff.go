package octree

import "lodterrain/internal/profiling"

// Delta is the change between two frontiers.
type Delta struct {
	Kept      []ID   // in previous and current, previous order
	Created   []Node // only in current, current order
	Destroyed []ID   // only in previous, previous order
}

// Diff compares last tick's chunk IDs with the new frontier in
// O(len(previous)+len(current)).
func Diff(previous []ID, current []Node) Delta {
	defer profiling.Track("octree.Diff")()

	pending := make(map[ID]struct{}, len(current))
	for _, n := range current {
		pending[n.ID()] = struct{}{}
	}

	var d Delta
	for _, id := range previous {
		if _, ok := pending[id]; ok {
			d.Kept = append(d.Kept, id)
			delete(pending, id)
			continue
		}
		d.Destroyed = append(d.Destroyed, id)
	}
	for _, n := range current {
		id := n.ID()
		if _, ok := pending[id]; ok {
			d.Created = append(d.Created, n)
			delete(pending, id)
		}
	}
	return d
}

// Empty reports whether nothing changed.
func (d Delta) Empty() bool {
	return len(d.Created) == 0 && len(d.Destroyed) == 0
}
