package world

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/config"
	"lodterrain/internal/jobs"
	"lodterrain/internal/meshing"
	"lodterrain/internal/octree"
	"lodterrain/internal/profiling"
	"lodterrain/internal/voxel"
)

// Observer supplies the position chunks are streamed around.
type Observer interface {
	Position() mgl32.Vec3
}

// MeshHandle is the renderer-side object of one chunk.
type MeshHandle interface {
	// SetMesh replaces the chunk's buffers. The mesh stays valid until the
	// next SetMesh or Destroy.
	SetMesh(m *meshing.Mesh)
	Destroy()
}

// Spawner creates renderer-side chunk objects.
type Spawner interface {
	Spawn(info ChunkInfo) MeshHandle
}

// TickStats summarises one Tick.
type TickStats struct {
	Tick      uint64
	Chunks    int
	Created   int
	Destroyed int
	Rebuilt   int
	Triangles int // triangles across rebuilt chunks
	Duration  time.Duration
}

func (s TickStats) String() string {
	return fmt.Sprintf("tick=%d chunks=%d created=%d destroyed=%d rebuilt=%d triangles=%d took=%s",
		s.Tick, s.Chunks, s.Created, s.Destroyed, s.Rebuilt, s.Triangles, s.Duration.Round(time.Microsecond))
}

// Terrain streams LOD chunks around an observer. Tick must not be called
// concurrently with itself; the other methods may be.
type Terrain struct {
	mu sync.Mutex

	cfg      *config.Config
	log      *log.Logger
	spawner  Spawner
	observer Observer

	sched    *jobs.Scheduler
	builder  *voxel.Builder
	octree   *octree.Generator // nil in grid mode
	store    *ChunkStore
	tick     uint64
	lastOpts meshing.AssembleOptions
}

// New validates cfg and prepares an empty terrain. The spawner may be nil
// for headless use.
func New(cfg *config.Config, spawner Spawner, observer Observer, logger *log.Logger) (*Terrain, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if observer == nil {
		return nil, fmt.Errorf("world: observer is required")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "terrain: ", log.LstdFlags|log.Lmicroseconds)
	}

	t := &Terrain{
		log:      logger,
		spawner:  spawner,
		observer: observer,
		store:    NewChunkStore(),
	}
	if err := t.apply(cfg.Clone()); err != nil {
		return nil, err
	}
	return t, nil
}

// apply installs a validated configuration, replacing the pipeline and,
// when needed, the job scheduler. Callers hold t.mu or own t exclusively.
func (t *Terrain) apply(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	pipeline, err := voxel.PipelineFromConfig(cfg)
	if err != nil {
		return err
	}
	var gen *octree.Generator
	if cfg.Octree.Enabled {
		if gen, err = octree.FromConfig(cfg.Octree); err != nil {
			return err
		}
	}

	if t.sched == nil || t.cfg.Jobs != cfg.Jobs {
		if t.sched != nil {
			t.sched.Shutdown()
		}
		t.sched = jobs.NewScheduler(context.Background(), cfg.Jobs.Workers, cfg.Jobs.BatchSize)
	}
	t.builder = voxel.NewBuilder(t.sched, pipeline)
	t.octree = gen
	t.cfg = cfg
	config.ApplyLive(cfg)
	t.lastOpts = t.assembleOptions()
	return nil
}

// Reconfigure swaps in a new configuration. Changes to the chunk layout
// (octree bounds, grid size, mode, voxel scale) drop every chunk so the next
// tick recreates them; other changes mark every chunk dirty, and a new
// resolution reallocates buffers at the next build.
func (t *Terrain) Reconfigure(cfg *config.Config) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.cfg
	if err := t.apply(cfg.Clone()); err != nil {
		return fmt.Errorf("reconfigure: %w", err)
	}

	if layoutChanged(prev, t.cfg) {
		n := t.destroyAll()
		t.log.Printf("reconfigure: layout changed, dropped %d chunks", n)
		return nil
	}
	for _, c := range t.store.Sorted() {
		res, scale := t.chunkResolution(c.Info().Size)
		c.setResolution(res, scale)
	}
	t.log.Printf("reconfigure: %d chunks marked dirty", t.store.Len())
	return nil
}

func layoutChanged(a, b *config.Config) bool {
	if a.Octree.Enabled != b.Octree.Enabled {
		return true
	}
	if b.Octree.Enabled {
		return a.Octree != b.Octree
	}
	return a.Grid != b.Grid || a.Chunk != b.Chunk
}

// Config returns a copy of the active configuration.
func (t *Terrain) Config() *config.Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg.Clone()
}

// Chunks returns the live chunks in scheduling order.
func (t *Terrain) Chunks() []*Chunk {
	return t.store.Sorted()
}

// Chunk returns the chunk for k, or nil.
func (t *Terrain) Chunk(k Key) *Chunk {
	return t.store.Get(k)
}

// Close destroys every chunk and stops the worker pool.
func (t *Terrain) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destroyAll()
	if t.sched != nil {
		t.sched.Shutdown()
		t.sched = nil
	}
}

func (t *Terrain) destroyAll() int {
	all := t.store.Drain()
	for _, c := range all {
		c.destroy()
	}
	return len(all)
}

// MarkAllDirty schedules every chunk for regeneration.
func (t *Terrain) MarkAllDirty() {
	for _, c := range t.store.Sorted() {
		c.MarkDirty()
	}
}

func (t *Terrain) assembleOptions() meshing.AssembleOptions {
	return meshing.AssembleOptions{
		WeldVertices:       config.GetWeldVertices(),
		RecalculateNormals: !config.GetSmoothShading(),
	}
}

func (t *Terrain) scheduler() Scheduler {
	cpf := t.cfg.Scheduler.ChunksPerFrame
	if o := config.GetChunksPerFrame(); o > 0 {
		cpf = o
	}
	return Scheduler{ChunksPerFrame: cpf, Continuous: t.cfg.Scheduler.Continuous}
}

// chunkResolution derives the lattice for a chunk of the given world size.
// Octree chunks keep the configured resolution and scale their voxels with
// the node; grid chunks use the configured voxel scale.
func (t *Terrain) chunkResolution(size float64) (int, float64) {
	r := t.cfg.Chunk.Resolution
	if t.octree != nil {
		return r, size / float64(r)
	}
	return r, t.cfg.Chunk.VoxelScale
}

// Tick runs one frame: snapshot the observer, diff the wanted chunk set
// against the live one, create and destroy chunks, then regenerate the
// chunks whose turn it is and hand their meshes to the renderer.
func (t *Terrain) Tick(ctx context.Context) (TickStats, error) {
	if err := ctx.Err(); err != nil {
		return TickStats{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sched == nil {
		return TickStats{}, fmt.Errorf("world: terrain is closed")
	}

	defer profiling.Track("world.Tick")()
	start := time.Now()
	stats := TickStats{Tick: t.tick}

	obs := t.observer.Position()
	pos := mgl64.Vec3{float64(obs[0]), float64(obs[1]), float64(obs[2])}

	created, destroyed, err := t.plan(pos)
	if err != nil {
		return stats, err
	}
	for _, k := range destroyed {
		if c := t.store.Remove(k); c != nil {
			c.destroy()
			stats.Destroyed++
		}
	}
	for _, c := range created {
		if t.store.Add(c) {
			stats.Created++
		}
	}

	opts := t.assembleOptions()
	if opts != t.lastOpts {
		t.MarkAllDirty()
		t.lastOpts = opts
	}

	iso := t.cfg.IsoLevel()
	sched := t.scheduler()
	chunks := t.store.Sorted()
	var rebuilt []*Chunk
	for i, c := range chunks {
		if !sched.ShouldRebuild(i, len(chunks), t.tick, c.IsDirty()) {
			continue
		}
		c.schedule(t.sched, t.builder, iso)
		rebuilt = append(rebuilt, c)
	}

	var firstErr error
	for _, c := range rebuilt {
		n, err := c.finish(opts)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("chunk %s: %w", c.Key(), err)
			}
			continue
		}
		stats.Rebuilt++
		stats.Triangles += n
	}

	stats.Chunks = len(chunks)
	stats.Duration = time.Since(start)
	t.tick++
	return stats, firstErr
}

// plan works out which chunks to create and which keys to destroy for an
// observer at pos.
func (t *Terrain) plan(pos mgl64.Vec3) ([]*Chunk, []Key, error) {
	keys := t.store.Keys()
	if t.octree != nil {
		return t.planOctree(pos, keys)
	}
	return t.planGrid(pos, keys)
}

func (t *Terrain) planOctree(pos mgl64.Vec3, keys []Key) ([]*Chunk, []Key, error) {
	center := mgl64.Vec3(t.cfg.Octree.Center)
	leaves := t.octree.Generate(pos.Sub(center))

	var prev []octree.ID
	var destroyed []Key
	for _, k := range keys {
		if k.Grid {
			destroyed = append(destroyed, k)
			continue
		}
		prev = append(prev, k.Node)
	}
	delta := octree.Diff(prev, leaves)
	for _, id := range delta.Destroyed {
		destroyed = append(destroyed, NodeKey(id))
	}

	start := t.octree.StartSize()
	created := make([]*Chunk, 0, len(delta.Created))
	for _, n := range delta.Created {
		size := n.Size(start)
		origin := center.Add(n.Position(start))
		c, err := t.newChunk(NodeKey(n.ID()), n.Name(), origin, size, n.Depth())
		if err != nil {
			return nil, nil, err
		}
		created = append(created, c)
	}
	return created, destroyed, nil
}

func (t *Terrain) planGrid(pos mgl64.Vec3, keys []Key) ([]*Chunk, []Key, error) {
	size := t.cfg.ChunkWorldSize()
	cells := GridCells(pos, size, t.cfg.Grid.Size)

	var prev []GridCoord
	var destroyed []Key
	for _, k := range keys {
		if !k.Grid {
			destroyed = append(destroyed, k)
			continue
		}
		prev = append(prev, k.Cell)
	}
	delta := DiffCells(prev, cells)
	for _, c := range delta.Destroyed {
		destroyed = append(destroyed, CellKey(c))
	}

	created := make([]*Chunk, 0, len(delta.Created))
	for _, cell := range delta.Created {
		origin := mgl64.Vec3{float64(cell.X) * size, float64(cell.Y) * size, float64(cell.Z) * size}
		name := fmt.Sprintf("%d,%d,%d", cell.X, cell.Y, cell.Z)
		c, err := t.newChunk(CellKey(cell), name, origin, size, 0)
		if err != nil {
			return nil, nil, err
		}
		created = append(created, c)
	}
	return created, destroyed, nil
}

func (t *Terrain) newChunk(k Key, name string, origin mgl64.Vec3, size float64, depth int) (*Chunk, error) {
	res, scale := t.chunkResolution(size)
	spec, err := voxel.NewChunkSpec(origin, scale, res)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", k, err)
	}
	info := ChunkInfo{
		Key:        k,
		Name:       name,
		Origin:     origin,
		Size:       size,
		Depth:      depth,
		Resolution: res,
		VoxelScale: scale,
	}
	var handle MeshHandle
	if t.spawner != nil {
		handle = t.spawner.Spawn(info)
	}
	return newChunk(info, spec, handle), nil
}
