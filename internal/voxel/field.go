package voxel

import "lodterrain/internal/config"

// Field is a padded cubic density lattice. For a resolution of R cubes per
// edge it stores (R+config.Padding)^3 samples with x varying fastest. Lattice
// index 0 on each axis is the negative halo layer.
type Field struct {
	resolution int
	dim        int
	data       []float32
}

// NewField allocates a zeroed field for the given resolution.
func NewField(resolution int) *Field {
	f := &Field{}
	f.Resize(resolution)
	return f
}

// Resize reallocates the backing array when the resolution changes and
// reports whether it did. The old contents are discarded, never reused.
func (f *Field) Resize(resolution int) bool {
	if resolution == f.resolution && f.data != nil {
		return false
	}
	f.resolution = resolution
	f.dim = resolution + config.Padding
	f.data = make([]float32, f.dim*f.dim*f.dim)
	return true
}

func (f *Field) Resolution() int { return f.resolution }

// Dim is the number of lattice points per edge.
func (f *Field) Dim() int { return f.dim }

func (f *Field) Len() int { return len(f.data) }

// Data exposes the flat sample slice.
func (f *Field) Data() []float32 { return f.data }

func (f *Field) Index(x, y, z int) int {
	return x + y*f.dim + z*f.dim*f.dim
}

// Coords is the inverse of Index.
func (f *Field) Coords(i int) (x, y, z int) {
	x = i % f.dim
	i /= f.dim
	y = i % f.dim
	z = i / f.dim
	return
}

func (f *Field) At(x, y, z int) float32 {
	return f.data[f.Index(x, y, z)]
}

func (f *Field) Set(x, y, z int, v float32) {
	f.data[f.Index(x, y, z)] = v
}

// Fill writes v to every sample.
func (f *Field) Fill(v float32) {
	for i := range f.data {
		f.data[i] = v
	}
}
