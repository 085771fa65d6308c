package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/octree"
)

// GridCoord is a flat-grid chunk coordinate in chunk units.
type GridCoord struct {
	X, Y, Z int
}

// Key identifies a chunk in either octree or grid mode.
type Key struct {
	Grid bool
	Node octree.ID
	Cell GridCoord
}

func NodeKey(id octree.ID) Key { return Key{Node: id} }

func CellKey(c GridCoord) Key { return Key{Grid: true, Cell: c} }

func (k Key) String() string {
	if k.Grid {
		return fmt.Sprintf("grid(%d,%d,%d)", k.Cell.X, k.Cell.Y, k.Cell.Z)
	}
	return "node " + k.Node.Node().Name()
}

// Less orders octree keys before grid keys, octree keys by ID and grid keys
// by z, then y, then x.
func (k Key) Less(o Key) bool {
	if k.Grid != o.Grid {
		return !k.Grid
	}
	if !k.Grid {
		return k.Node < o.Node
	}
	if k.Cell.Z != o.Cell.Z {
		return k.Cell.Z < o.Cell.Z
	}
	if k.Cell.Y != o.Cell.Y {
		return k.Cell.Y < o.Cell.Y
	}
	return k.Cell.X < o.Cell.X
}

// cellOf returns the grid cell containing p for chunks of the given size.
func cellOf(p mgl64.Vec3, size float64) GridCoord {
	return GridCoord{
		X: int(math.Floor(p[0] / size)),
		Y: int(math.Floor(p[1] / size)),
		Z: int(math.Floor(p[2] / size)),
	}
}
