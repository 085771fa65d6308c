package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every configuration validation error.
var ErrInvalid = errors.New("invalid configuration")

// Padding is the number of extra lattice layers a voxel field carries beyond
// its resolution: one for corner sampling, one negative halo layer and one
// positive halo layer for central-difference normals.
const Padding = 3

// MaxOctaves bounds the fractal octave count.
const MaxOctaves = 16

// Config captures every tunable of the terrain system.
type Config struct {
	Chunk     ChunkConfig     `yaml:"chunk"`
	Mesh      MeshConfig      `yaml:"mesh"`
	Noise     NoiseConfig     `yaml:"noise"`
	Pipeline  []StageConfig   `yaml:"pipeline"`
	Octree    OctreeConfig    `yaml:"octree"`
	Grid      GridConfig      `yaml:"grid"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Jobs      JobsConfig      `yaml:"jobs"`
}

type ChunkConfig struct {
	Resolution int     `yaml:"resolution"` // cubes per chunk edge
	VoxelScale float64 `yaml:"voxelScale"` // world units per cube in grid mode
}

type MeshConfig struct {
	IsoLevel      float64 `yaml:"isoLevel"`
	SmoothShading bool    `yaml:"smoothShading"`
	WeldVertices  bool    `yaml:"weldVertices"`
}

type NoiseConfig struct {
	Seed       int64   `yaml:"seed"`
	Octaves    int     `yaml:"octaves"`
	Dimension  float64 `yaml:"dimension"`  // per-octave amplitude exponent
	Lacunarity float64 `yaml:"lacunarity"` // per-octave frequency exponent
	Scale      float64 `yaml:"scale"`      // world -> noise space
	Intensity  float64 `yaml:"intensity"`
}

// StageConfig describes one voxel pipeline stage by kind name.
type StageConfig struct {
	Kind   string  `yaml:"kind"`
	Source string  `yaml:"source,omitempty"` // simplex, perlin or value for noise stages
	Value  float64 `yaml:"value,omitempty"`  // constant, offset and scale stages
	Radius float64 `yaml:"radius,omitempty"` // planet stage
}

type OctreeConfig struct {
	Enabled   bool       `yaml:"enabled"`
	StartSize float64    `yaml:"startSize"`
	Threshold float64    `yaml:"threshold"`
	MinSize   float64    `yaml:"minSize"`
	Center    [3]float64 `yaml:"center"`
}

type GridConfig struct {
	Size int `yaml:"size"` // chunks per axis around the observer when the octree is off
}

type SchedulerConfig struct {
	ChunksPerFrame int  `yaml:"chunksPerFrame"`
	Continuous     bool `yaml:"continuous"`
}

type JobsConfig struct {
	Workers   int `yaml:"workers"` // 0 means one per CPU
	BatchSize int `yaml:"batchSize"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Chunk: ChunkConfig{
			Resolution: 16,
			VoxelScale: 1.0 / 16.0,
		},
		Mesh: MeshConfig{
			IsoLevel:      0,
			SmoothShading: true,
			WeldVertices:  false,
		},
		Noise: NoiseConfig{
			Seed:       1337,
			Octaves:    8,
			Dimension:  1,
			Lacunarity: 1,
			Scale:      0.15,
			Intensity:  1,
		},
		Pipeline: []StageConfig{
			{Kind: "fractal", Source: "simplex"},
			{Kind: "ridged-landscape"},
		},
		Octree: OctreeConfig{
			Enabled:   true,
			StartSize: 64,
			Threshold: 1,
			MinSize:   2,
		},
		Grid: GridConfig{
			Size: 3,
		},
		Scheduler: SchedulerConfig{
			ChunksPerFrame: 4,
		},
		Jobs: JobsConfig{
			Workers:   0,
			BatchSize: 64,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses YAML from r on top of the defaults and validates the result.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Pipeline = append([]StageConfig(nil), c.Pipeline...)
	return &out
}

// IsoLevel returns the surface level scaled by the noise intensity.
func (c *Config) IsoLevel() float32 {
	return float32(c.Mesh.IsoLevel * c.Noise.Intensity)
}

// ChunkWorldSize is the edge length of a grid-mode chunk in world units.
func (c *Config) ChunkWorldSize() float64 {
	return float64(c.Chunk.Resolution) * c.Chunk.VoxelScale
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate reports the first configuration error found.
func (c *Config) Validate() error {
	if c.Chunk.Resolution <= 0 {
		return invalid("chunk.resolution must be positive")
	}
	if !(c.Chunk.VoxelScale > 0) || !finite(c.Chunk.VoxelScale) {
		return invalid("chunk.voxelScale must be positive")
	}
	if !finite(c.Mesh.IsoLevel) {
		return invalid("mesh.isoLevel must be finite")
	}
	if c.Noise.Octaves < 1 || c.Noise.Octaves > MaxOctaves {
		return invalid("noise.octaves must be in [1, %d]", MaxOctaves)
	}
	if c.Noise.Dimension < 0 || c.Noise.Lacunarity < 0 {
		return invalid("noise.dimension and noise.lacunarity cannot be negative")
	}
	if !finite(c.Noise.Scale) || !finite(c.Noise.Intensity) {
		return invalid("noise.scale and noise.intensity must be finite")
	}
	if len(c.Pipeline) == 0 {
		return invalid("pipeline must contain at least one stage")
	}
	for i, st := range c.Pipeline {
		if st.Kind == "" {
			return invalid("pipeline[%d].kind must be set", i)
		}
	}
	if c.Octree.Enabled {
		if !(c.Octree.StartSize > 0) || !(c.Octree.MinSize > 0) || !(c.Octree.Threshold > 0) {
			return invalid("octree.startSize, octree.threshold and octree.minSize must be positive")
		}
	} else if c.Grid.Size <= 0 {
		return invalid("grid.size must be positive")
	}
	if c.Scheduler.ChunksPerFrame < 1 {
		return invalid("scheduler.chunksPerFrame must be at least 1")
	}
	if c.Jobs.Workers < 0 {
		return invalid("jobs.workers cannot be negative")
	}
	if c.Jobs.BatchSize < 1 {
		return invalid("jobs.batchSize must be at least 1")
	}
	return nil
}
