package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Fractal sums Octaves copies of Source. Octave i samples at frequency
// 2^(Lacunarity*i) and is weighted by 2^(-Dimension*i). Negative exponents
// are treated as zero.
type Fractal struct {
	Source     Source
	Octaves    int
	Dimension  float64
	Lacunarity float64
}

func (f Fractal) Sample(p mgl64.Vec3) float64 {
	lac := math.Max(0, f.Lacunarity)
	dim := math.Max(0, f.Dimension)

	sum := 0.0
	for i := 0; i < f.Octaves; i++ {
		freq := math.Exp2(lac * float64(i))
		amp := math.Exp2(dim * float64(i))
		sum += f.Source.Sample(p.Mul(freq)) / amp
	}
	return sum
}

// Shape selects how the fractal value is turned into a density.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeLandscape
	ShapeRidged
	ShapePlanet
)

// Landscape places the surface near y=0 with v as displacement.
func Landscape(p mgl64.Vec3, v float64) float64 {
	return -p[1] + v
}

// RidgedLandscape folds v into sharp ridges before placing it.
func RidgedLandscape(p mgl64.Vec3, v float64) float64 {
	return Landscape(p, 1-math.Abs(v))
}

// Planet is a sphere of the given radius around the origin, roughened by v.
func Planet(p mgl64.Vec3, v, radius float64) float64 {
	return radius - p.Len() + 0.1*v
}

// Field maps a world position to a density: scale into noise space, sum
// the fractal, multiply by Intensity, then apply Shape in noise space.
type Field struct {
	Fractal   Fractal
	Scale     float64
	Intensity float64
	Shape     Shape
	Radius    float64
}

func (f Field) At(world mgl64.Vec3) float64 {
	p := world.Mul(f.Scale)
	v := f.Fractal.Sample(p) * f.Intensity
	return f.Apply(p, v)
}

// Apply shapes an already computed noise value at noise-space position p.
func (f Field) Apply(p mgl64.Vec3, v float64) float64 {
	switch f.Shape {
	case ShapeLandscape:
		return Landscape(p, v)
	case ShapeRidged:
		return RidgedLandscape(p, v)
	case ShapePlanet:
		return Planet(p, v, f.Radius)
	default:
		return v
	}
}
