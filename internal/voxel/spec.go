package voxel

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/config"
)

// ChunkSpec locates a chunk's lattice in world space.
type ChunkSpec struct {
	Anchor     mgl64.Vec3 // world position of lattice index 1 on each axis
	VoxelScale float64    // world units between lattice points
	Resolution int        // cubes per edge
}

// NewChunkSpec validates and returns a chunk spec.
func NewChunkSpec(anchor mgl64.Vec3, voxelScale float64, resolution int) (ChunkSpec, error) {
	if resolution <= 0 {
		return ChunkSpec{}, fmt.Errorf("%w: chunk resolution must be positive, got %d", config.ErrInvalid, resolution)
	}
	if !(voxelScale > 0) || math.IsInf(voxelScale, 0) {
		return ChunkSpec{}, fmt.Errorf("%w: voxel scale must be positive, got %v", config.ErrInvalid, voxelScale)
	}
	for _, c := range anchor {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ChunkSpec{}, fmt.Errorf("%w: chunk anchor must be finite, got %v", config.ErrInvalid, anchor)
		}
	}
	return ChunkSpec{Anchor: anchor, VoxelScale: voxelScale, Resolution: resolution}, nil
}

// World maps a lattice index to its world coordinate. Index 0 is one voxel
// before the anchor.
func (s ChunkSpec) World(x, y, z int) mgl64.Vec3 {
	return mgl64.Vec3{
		s.Anchor[0] + float64(x-1)*s.VoxelScale,
		s.Anchor[1] + float64(y-1)*s.VoxelScale,
		s.Anchor[2] + float64(z-1)*s.VoxelScale,
	}
}

// Size is the chunk's edge length in world units.
func (s ChunkSpec) Size() float64 {
	return float64(s.Resolution) * s.VoxelScale
}
