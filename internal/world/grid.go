package world

import (
	"github.com/go-gl/mathgl/mgl64"
)

// GridCells returns the size^3 cells around the cell containing p, ordered
// by distance from that cell so nearer chunks are created first.
func GridCells(p mgl64.Vec3, chunkSize float64, size int) []GridCoord {
	center := cellOf(p, chunkSize)
	lo := -(size / 2)
	out := make([]GridCoord, 0, size*size*size)

	// Walk shells outward from the center cell.
	for r := 0; len(out) < size*size*size; r++ {
		for dz := lo; dz < lo+size; dz++ {
			for dy := lo; dy < lo+size; dy++ {
				for dx := lo; dx < lo+size; dx++ {
					if max(abs(dx), abs(dy), abs(dz)) != r {
						continue
					}
					out = append(out, GridCoord{X: center.X + dx, Y: center.Y + dy, Z: center.Z + dz})
				}
			}
		}
	}
	return out
}

// GridDelta is the grid-mode counterpart of octree.Delta.
type GridDelta struct {
	Kept      []GridCoord
	Created   []GridCoord
	Destroyed []GridCoord
}

// DiffCells compares the previous cell set with the current one in linear
// time.
func DiffCells(previous, current []GridCoord) GridDelta {
	pending := make(map[GridCoord]struct{}, len(current))
	for _, c := range current {
		pending[c] = struct{}{}
	}
	var d GridDelta
	for _, c := range previous {
		if _, ok := pending[c]; ok {
			d.Kept = append(d.Kept, c)
			delete(pending, c)
			continue
		}
		d.Destroyed = append(d.Destroyed, c)
	}
	for _, c := range current {
		if _, ok := pending[c]; ok {
			d.Created = append(d.Created, c)
			delete(pending, c)
		}
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
