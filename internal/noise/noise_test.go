package noise

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/config"
)

// TestHash3Deterministic verifies hash3 produces identical results for same inputs
func TestHash3Deterministic(t *testing.T) {
	first := hash3(10, 20, 30, 42)
	for i := 0; i < 100; i++ {
		if h := hash3(10, 20, 30, 42); h != first {
			t.Fatalf("hash3 not deterministic: first=%d, call %d=%d", first, i, h)
		}
	}
}

// TestHash3AxisSwap ensures axes aren't interchangeable
func TestHash3AxisSwap(t *testing.T) {
	if hash3(1, 2, 3, 7) == hash3(3, 2, 1, 7) {
		t.Error("hash3 should differ when x and z are swapped")
	}
	if hash3(1, 1, 1, 100) == hash3(1, 1, 1, 200) {
		t.Error("hash3 should differ for different seeds")
	}
}

func TestSourcesStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for _, kind := range []string{KindSimplex, KindPerlin, KindValue} {
		src, err := NewSource(kind, 42)
		if err != nil {
			t.Fatalf("NewSource(%q): %v", kind, err)
		}
		for i := 0; i < 1000; i++ {
			p := mgl64.Vec3{rng.Float64()*200 - 100, rng.Float64()*200 - 100, rng.Float64()*200 - 100}
			v := src.Sample(p)
			if math.IsNaN(v) || v < -1.5 || v > 1.5 {
				t.Fatalf("%s.Sample(%v) = %f, expected roughly in [-1,1]", kind, p, v)
			}
		}
	}
}

func TestSourcesDeterministic(t *testing.T) {
	p := mgl64.Vec3{3.7, -1.2, 8.9}
	for _, kind := range []string{KindSimplex, KindPerlin, KindValue} {
		a, _ := NewSource(kind, 9)
		b, _ := NewSource(kind, 9)
		if a.Sample(p) != b.Sample(p) {
			t.Errorf("%s: same seed gave different samples", kind)
		}
	}
}

func TestSimplexSeedShiftsField(t *testing.T) {
	p := mgl64.Vec3{0.31, 0.47, 0.59}
	if NewSimplex(1).Sample(p) == NewSimplex(2).Sample(p) {
		t.Error("different seeds should sample different simplex regions")
	}
}

func TestNewSourceRejectsUnknownKind(t *testing.T) {
	if _, err := NewSource("worley", 1); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("NewSource(worley) = %v, want ErrInvalid", err)
	}
}

func TestFractalExponentialFalloff(t *testing.T) {
	tests := []struct {
		name      string
		octaves   int
		dimension float64
		want      float64
	}{
		{"single octave", 1, 1, 1},
		{"dimension 1", 4, 1, 1 + 0.5 + 0.25 + 0.125},
		{"dimension 2", 3, 2, 1 + 0.25 + 0.0625},
		{"dimension 0 sums evenly", 5, 0, 5},
		{"negative dimension clamps to 0", 3, -2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Fractal{Source: Constant(1), Octaves: tt.octaves, Dimension: tt.dimension, Lacunarity: 1}
			if got := f.Sample(mgl64.Vec3{1, 2, 3}); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Sample = %v, want %v", got, tt.want)
			}
		})
	}
}

// frequencySource records the x coordinate it is asked for.
type frequencySource struct{ seen *[]float64 }

func (s frequencySource) Sample(p mgl64.Vec3) float64 {
	*s.seen = append(*s.seen, p[0])
	return 0
}

func TestFractalFrequencyDoubling(t *testing.T) {
	var seen []float64
	f := Fractal{Source: frequencySource{&seen}, Octaves: 4, Lacunarity: 1}
	f.Sample(mgl64.Vec3{1, 0, 0})
	want := []float64{1, 2, 4, 8}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("octave %d sampled at x=%v, want %v", i, seen[i], want[i])
		}
	}
}

func TestShapes(t *testing.T) {
	p := mgl64.Vec3{0, 2, 0}
	if got := Landscape(p, 0.5); got != -1.5 {
		t.Errorf("Landscape = %v, want -1.5", got)
	}
	if got := RidgedLandscape(p, -0.25); got != -1.25 {
		t.Errorf("RidgedLandscape = %v, want -1.25", got)
	}
	if got := Planet(mgl64.Vec3{3, 4, 0}, 1, 10); math.Abs(got-5.1) > 1e-12 {
		t.Errorf("Planet = %v, want 5.1", got)
	}
}

func TestFieldAppliesScaleIntensityAndShape(t *testing.T) {
	f := Field{
		Fractal:   Fractal{Source: Constant(1), Octaves: 1},
		Scale:     0.5,
		Intensity: 3,
		Shape:     ShapeLandscape,
	}
	// p.y = 4 * 0.5 = 2, v = 3
	if got := f.At(mgl64.Vec3{0, 4, 0}); got != 1 {
		t.Errorf("At = %v, want 1", got)
	}
}
