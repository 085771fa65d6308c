package voxel

import (
	"fmt"
	"sort"

	"lodterrain/internal/config"
	"lodterrain/internal/noise"
)

// StageKind enumerates the closed set of pipeline stages.
type StageKind uint8

const (
	StageFractal StageKind = iota + 1
	StageLandscape
	StageRidgedLandscape
	StagePlanet
	StageConstant
	StageOffset
	StageScale
)

// stageKinds is the name registry used by configuration files.
var stageKinds = map[string]StageKind{
	"fractal":          StageFractal,
	"landscape":        StageLandscape,
	"ridged-landscape": StageRidgedLandscape,
	"planet":           StagePlanet,
	"constant":         StageConstant,
	"offset":           StageOffset,
	"scale":            StageScale,
}

func (k StageKind) String() string {
	for name, kind := range stageKinds {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("StageKind(%d)", uint8(k))
}

// StageNames lists the registered stage names in sorted order.
func StageNames() []string {
	names := make([]string, 0, len(stageKinds))
	for name := range stageKinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stage is one data-parallel pass over a field. Only the fields relevant to
// Kind are read.
type Stage struct {
	Kind StageKind

	// Fractal stage.
	Fractal   noise.Fractal
	Intensity float64

	// Fractal and shaping stages sample at world*NoiseScale.
	NoiseScale float64

	// Constant, offset and scale stages.
	Value float64

	// Planet stage.
	Radius float64
}

// validate reports parameter errors for a single stage.
func (s Stage) validate() error {
	switch s.Kind {
	case StageFractal:
		if s.Fractal.Source == nil {
			return fmt.Errorf("fractal stage has no noise source")
		}
		if s.Fractal.Octaves < 1 || s.Fractal.Octaves > config.MaxOctaves {
			return fmt.Errorf("fractal stage octaves must be in [1, %d], got %d", config.MaxOctaves, s.Fractal.Octaves)
		}
	case StageLandscape, StageRidgedLandscape, StageConstant, StageOffset, StageScale:
	case StagePlanet:
		if s.Radius < 0 {
			return fmt.Errorf("planet stage radius cannot be negative")
		}
	default:
		return fmt.Errorf("unknown stage kind %d", s.Kind)
	}
	return nil
}

// field returns the noise field view of the stage for shaping and sampling.
func (s Stage) field() noise.Field {
	f := noise.Field{
		Fractal:   s.Fractal,
		Scale:     s.NoiseScale,
		Intensity: s.Intensity,
		Radius:    s.Radius,
	}
	switch s.Kind {
	case StageLandscape:
		f.Shape = noise.ShapeLandscape
	case StageRidgedLandscape:
		f.Shape = noise.ShapeRidged
	case StagePlanet:
		f.Shape = noise.ShapePlanet
	}
	return f
}

// kernel returns the per-index function run by the scheduler. Every call
// writes only data[i].
func (s Stage) kernel(f *Field, spec ChunkSpec) func(i int) {
	data := f.Data()
	nf := s.field()

	switch s.Kind {
	case StageFractal:
		return func(i int) {
			x, y, z := f.Coords(i)
			data[i] = float32(nf.At(spec.World(x, y, z)))
		}
	case StageLandscape, StageRidgedLandscape, StagePlanet:
		return func(i int) {
			x, y, z := f.Coords(i)
			p := spec.World(x, y, z).Mul(nf.Scale)
			data[i] = float32(nf.Apply(p, float64(data[i])))
		}
	case StageConstant:
		v := float32(s.Value)
		return func(i int) { data[i] = v }
	case StageOffset:
		v := float32(s.Value)
		return func(i int) { data[i] += v }
	case StageScale:
		v := float32(s.Value)
		return func(i int) { data[i] *= v }
	}
	return func(int) {}
}

// ParseStages turns the configured pipeline into stages, resolving noise
// sources and copying the shared noise parameters.
func ParseStages(cfg *config.Config) ([]Stage, error) {
	if len(cfg.Pipeline) == 0 {
		return nil, fmt.Errorf("%w: pipeline must contain at least one stage", config.ErrInvalid)
	}
	stages := make([]Stage, 0, len(cfg.Pipeline))
	for i, sc := range cfg.Pipeline {
		kind, ok := stageKinds[sc.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: pipeline[%d].kind %q is not one of %v", config.ErrInvalid, i, sc.Kind, StageNames())
		}
		st := Stage{
			Kind:       kind,
			NoiseScale: cfg.Noise.Scale,
			Intensity:  cfg.Noise.Intensity,
			Value:      sc.Value,
			Radius:     sc.Radius,
		}
		if kind == StageFractal {
			src, err := noise.NewSource(sc.Source, cfg.Noise.Seed+int64(i))
			if err != nil {
				return nil, fmt.Errorf("pipeline[%d]: %w", i, err)
			}
			st.Fractal = noise.Fractal{
				Source:     src,
				Octaves:    cfg.Noise.Octaves,
				Dimension:  cfg.Noise.Dimension,
				Lacunarity: cfg.Noise.Lacunarity,
			}
		}
		stages = append(stages, st)
	}
	return stages, nil
}
