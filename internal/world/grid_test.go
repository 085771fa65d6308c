package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestGridCellsCoversCube(t *testing.T) {
	cells := GridCells(mgl64.Vec3{1, 1, 1}, 2, 3)
	if len(cells) != 27 {
		t.Fatalf("got %d cells, want 27", len(cells))
	}
	if cells[0] != (GridCoord{}) {
		t.Errorf("first cell = %v, want the observer's cell", cells[0])
	}
	seen := make(map[GridCoord]bool)
	for _, c := range cells {
		if seen[c] {
			t.Fatalf("cell %v listed twice", c)
		}
		seen[c] = true
		if c.X < -1 || c.X > 1 || c.Y < -1 || c.Y > 1 || c.Z < -1 || c.Z > 1 {
			t.Errorf("cell %v outside the 3x3x3 block", c)
		}
	}
}

func TestGridCellsNegativeCoordinates(t *testing.T) {
	cells := GridCells(mgl64.Vec3{-0.5, -3, 0}, 2, 1)
	if len(cells) != 1 || cells[0] != (GridCoord{X: -1, Y: -2, Z: 0}) {
		t.Fatalf("cells = %v, want [(-1,-2,0)]", cells)
	}
}

func TestGridCellsEvenSize(t *testing.T) {
	if n := len(GridCells(mgl64.Vec3{}, 1, 4)); n != 64 {
		t.Fatalf("got %d cells, want 64", n)
	}
}

func TestDiffCells(t *testing.T) {
	a := GridCells(mgl64.Vec3{1, 1, 1}, 2, 3)
	b := GridCells(mgl64.Vec3{3, 1, 1}, 2, 3)
	d := DiffCells(a, b)
	if len(d.Kept) != 18 || len(d.Created) != 9 || len(d.Destroyed) != 9 {
		t.Fatalf("kept/created/destroyed = %d/%d/%d, want 18/9/9", len(d.Kept), len(d.Created), len(d.Destroyed))
	}
	for _, c := range d.Created {
		if c.X != 2 {
			t.Errorf("created %v, want x=2", c)
		}
	}
	for _, c := range d.Destroyed {
		if c.X != -1 {
			t.Errorf("destroyed %v, want x=-1", c)
		}
	}
}
