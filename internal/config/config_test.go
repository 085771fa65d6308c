package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateDefaultConfig(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero resolution",
			mutate:  func(c *Config) { c.Chunk.Resolution = 0 },
			wantErr: "chunk.resolution must be positive",
		},
		{
			name:    "negative voxel scale",
			mutate:  func(c *Config) { c.Chunk.VoxelScale = -1 },
			wantErr: "chunk.voxelScale must be positive",
		},
		{
			name:    "too many octaves",
			mutate:  func(c *Config) { c.Noise.Octaves = 17 },
			wantErr: "noise.octaves must be in [1, 16]",
		},
		{
			name:    "no octaves",
			mutate:  func(c *Config) { c.Noise.Octaves = 0 },
			wantErr: "noise.octaves must be in [1, 16]",
		},
		{
			name:    "negative lacunarity",
			mutate:  func(c *Config) { c.Noise.Lacunarity = -0.5 },
			wantErr: "noise.dimension and noise.lacunarity cannot be negative",
		},
		{
			name:    "empty pipeline",
			mutate:  func(c *Config) { c.Pipeline = nil },
			wantErr: "pipeline must contain at least one stage",
		},
		{
			name:    "unnamed stage",
			mutate:  func(c *Config) { c.Pipeline[1].Kind = "" },
			wantErr: "pipeline[1].kind must be set",
		},
		{
			name:    "zero octree min size",
			mutate:  func(c *Config) { c.Octree.MinSize = 0 },
			wantErr: "octree.startSize, octree.threshold and octree.minSize must be positive",
		},
		{
			name: "zero grid size without octree",
			mutate: func(c *Config) {
				c.Octree.Enabled = false
				c.Grid.Size = 0
			},
			wantErr: "grid.size must be positive",
		},
		{
			name:    "zero chunks per frame",
			mutate:  func(c *Config) { c.Scheduler.ChunksPerFrame = 0 },
			wantErr: "scheduler.chunksPerFrame must be at least 1",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Jobs.Workers = -2 },
			wantErr: "jobs.workers cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Chunk.Resolution != Default().Chunk.Resolution {
		t.Errorf("resolution = %d, want default %d", cfg.Chunk.Resolution, Default().Chunk.Resolution)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terrain.yaml")
	content := `
chunk:
  resolution: 8
mesh:
  isoLevel: 0.5
  weldVertices: true
noise:
  octaves: 4
  intensity: 2
pipeline:
  - kind: fractal
    source: perlin
  - kind: planet
    radius: 10
octree:
  enabled: false
grid:
  size: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chunk.Resolution != 8 {
		t.Errorf("resolution = %d, want 8", cfg.Chunk.Resolution)
	}
	if cfg.Chunk.VoxelScale != Default().Chunk.VoxelScale {
		t.Errorf("voxelScale = %v, want default kept", cfg.Chunk.VoxelScale)
	}
	if !cfg.Mesh.WeldVertices {
		t.Error("weldVertices should be true")
	}
	if got := cfg.IsoLevel(); got != 1 {
		t.Errorf("IsoLevel() = %v, want 1 (0.5 * intensity 2)", got)
	}
	if len(cfg.Pipeline) != 2 || cfg.Pipeline[1].Kind != "planet" || cfg.Pipeline[1].Radius != 10 {
		t.Errorf("pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Octree.Enabled || cfg.Grid.Size != 5 {
		t.Errorf("octree/grid = %+v / %+v", cfg.Octree, cfg.Grid)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("chunk:\n  resolution: -4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load = %v, want ErrInvalid", err)
	}
}

func TestMarshalRoundTripKeepsPipeline(t *testing.T) {
	cfg := Default()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(back.Pipeline) != len(cfg.Pipeline) {
		t.Fatalf("pipeline length = %d, want %d", len(back.Pipeline), len(cfg.Pipeline))
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Default()
	c := cfg.Clone()
	c.Pipeline[0].Kind = "constant"
	if cfg.Pipeline[0].Kind == "constant" {
		t.Fatal("Clone shares the pipeline slice")
	}
}

func TestSetChunksPerFrameClamps(t *testing.T) {
	defer ApplyLive(Default())

	SetChunksPerFrame(-3)
	if got := GetChunksPerFrame(); got != 0 {
		t.Errorf("negative override = %d, want 0", got)
	}
	SetChunksPerFrame(1 << 20)
	if got := GetChunksPerFrame(); got != 4096 {
		t.Errorf("huge override = %d, want 4096", got)
	}
}
