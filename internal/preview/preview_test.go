package preview

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"lodterrain/internal/voxel"
)

// planeField is solid below lattice layer 3 and air above.
func planeField() *voxel.Field {
	f := voxel.NewField(5)
	for z := 0; z < f.Dim(); z++ {
		for y := 0; y < f.Dim(); y++ {
			for x := 0; x < f.Dim(); x++ {
				f.Set(x, y, z, float32(3-y))
			}
		}
	}
	return f
}

func TestDensitySliceTintsBySign(t *testing.T) {
	f := planeField()
	solid := DensitySlice(f, 1, 0)
	air := DensitySlice(f, 6, 0)
	if solid.Bounds().Dx() != f.Dim() {
		t.Fatalf("slice width = %d, want %d", solid.Bounds().Dx(), f.Dim())
	}
	s := solid.NRGBAAt(2, 2)
	a := air.NRGBAAt(2, 2)
	if s.R <= s.B {
		t.Errorf("solid pixel %v should be warm", s)
	}
	if a.B <= a.R {
		t.Errorf("air pixel %v should be blue", a)
	}
}

func TestHeightmapFindsSurface(t *testing.T) {
	f := planeField()
	hm := Heightmap(f, 0)
	// y=3 has density 0, which counts as solid.
	want := uint8(32 + (223*3)/(f.Dim()-1))
	if got := hm.GrayAt(4, 4).Y; got != want {
		t.Errorf("height pixel = %d, want %d", got, want)
	}

	empty := voxel.NewField(2)
	empty.Fill(-1)
	if got := Heightmap(empty, 0).GrayAt(0, 0).Y; got != 0 {
		t.Errorf("empty column = %d, want 0", got)
	}
}

func TestWritePNGScalesImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "slice.png")
	if err := WritePNG(path, Heightmap(planeField(), 0), 4, "y=3"); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8*4 {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), 8*4)
	}
}
