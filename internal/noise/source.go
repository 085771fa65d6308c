package noise

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/larspensjo/Go-simplex-noise/simplexnoise"

	"lodterrain/internal/config"
)

// Source is a single-octave coherent noise function returning values in
// roughly [-1, 1].
type Source interface {
	Sample(p mgl64.Vec3) float64
}

// Source kinds accepted by NewSource.
const (
	KindSimplex = "simplex"
	KindPerlin  = "perlin"
	KindValue   = "value"
)

// NewSource builds the named noise source. An empty kind selects simplex.
func NewSource(kind string, seed int64) (Source, error) {
	switch kind {
	case "", KindSimplex:
		return NewSimplex(seed), nil
	case KindPerlin:
		return NewPerlin(seed), nil
	case KindValue:
		return Value{Seed: seed}, nil
	default:
		return nil, fmt.Errorf("%w: unknown noise source %q", config.ErrInvalid, kind)
	}
}

// Simplex wraps 3D simplex noise. The underlying generator has a fixed
// permutation table, so the seed moves the sampling origin instead.
type Simplex struct {
	offset mgl64.Vec3
}

func NewSimplex(seed int64) Simplex {
	return Simplex{offset: seedOffset(seed)}
}

func (s Simplex) Sample(p mgl64.Vec3) float64 {
	q := p.Add(s.offset)
	return simplexnoise.Noise3(q[0], q[1], q[2])
}

// seedOffset maps a seed to a lattice-aligned shift within +-4096 on each
// axis. Larger shifts cost float precision in the simplex skew.
func seedOffset(seed int64) mgl64.Vec3 {
	if seed == 0 {
		return mgl64.Vec3{}
	}
	var out mgl64.Vec3
	for axis := range out {
		h := hash3(seed, int64(axis), 0, seed)
		out[axis] = float64(int64(h%8192) - 4096)
	}
	return out
}

// Perlin is seeded single-octave Perlin noise.
type Perlin struct {
	p *perlin.Perlin
}

func NewPerlin(seed int64) Perlin {
	// n=1: octaves are summed by Fractal, not by the generator.
	return Perlin{p: perlin.NewPerlin(2, 2, 1, seed)}
}

func (n Perlin) Sample(p mgl64.Vec3) float64 {
	return n.p.Noise3D(p[0], p[1], p[2])
}

// Value is hash-based trilinear value noise remapped to [-1, 1].
type Value struct {
	Seed int64
}

func (v Value) Sample(p mgl64.Vec3) float64 {
	return valueNoise3D(p[0], p[1], p[2], v.Seed)*2 - 1
}

// Constant returns the same value everywhere. Useful for testing the fractal
// falloff and as a flat source.
type Constant float64

func (c Constant) Sample(mgl64.Vec3) float64 { return float64(c) }

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash3 is a SplitMix64 style integer hash with a distinct multiplier per axis.
func hash3(x, y, z int64, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue3D(x, y, z int64, seed int64) float64 {
	h := hash3(x, y, z, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// valueNoise3D returns trilinearly interpolated lattice values in [0,1].
func valueNoise3D(x, y, z float64, seed int64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)

	fx := fade(x - x0)
	fy := fade(y - y0)
	fz := fade(z - z0)

	v000 := latticeValue3D(ix, iy, iz, seed)
	v100 := latticeValue3D(ix+1, iy, iz, seed)
	v010 := latticeValue3D(ix, iy+1, iz, seed)
	v110 := latticeValue3D(ix+1, iy+1, iz, seed)
	v001 := latticeValue3D(ix, iy, iz+1, seed)
	v101 := latticeValue3D(ix+1, iy, iz+1, seed)
	v011 := latticeValue3D(ix, iy+1, iz+1, seed)
	v111 := latticeValue3D(ix+1, iy+1, iz+1, seed)

	i00 := lerp(v000, v100, fx)
	i10 := lerp(v010, v110, fx)
	i01 := lerp(v001, v101, fx)
	i11 := lerp(v011, v111, fx)

	i0 := lerp(i00, i10, fy)
	i1 := lerp(i01, i11, fy)
	return lerp(i0, i1, fz)
}
