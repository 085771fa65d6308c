package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/jobs"
	"lodterrain/internal/meshing"
	"lodterrain/internal/voxel"
)

// ChunkInfo describes a chunk to the spawner and to callers of Chunks.
type ChunkInfo struct {
	Key        Key
	Name       string
	Origin     mgl64.Vec3 // world position of the mesh's local origin
	Size       float64    // edge length in world units
	Depth      int        // octree depth, 0 in grid mode
	Resolution int
	VoxelScale float64
}

// Chunk owns one field, one triangle buffer and one assembled mesh for a
// single octree leaf or grid cell. Its buffers are never shared.
type Chunk struct {
	mu sync.Mutex

	info   ChunkInfo
	spec   voxel.ChunkSpec
	field  *voxel.Field
	tris   []meshing.Triangle
	mesh   meshing.Mesh
	handle MeshHandle

	inflight jobs.Handle
	dirty    bool
	builds   int
}

func newChunk(info ChunkInfo, spec voxel.ChunkSpec, handle MeshHandle) *Chunk {
	return &Chunk{
		info:   info,
		spec:   spec,
		handle: handle,
		dirty:  true,
	}
}

func (c *Chunk) Key() Key { return c.info.Key }

func (c *Chunk) Info() ChunkInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

func (c *Chunk) Spec() voxel.ChunkSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec
}

// Field returns the chunk's density field, or nil before the first build.
func (c *Chunk) Field() *voxel.Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.field
}

// Mesh returns the last assembled mesh.
func (c *Chunk) Mesh() *meshing.Mesh {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &c.mesh
}

// Builds counts completed regenerations.
func (c *Chunk) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}

func (c *Chunk) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// MarkDirty requests a rebuild the next time the chunk is eligible.
func (c *Chunk) MarkDirty() {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
}

// setResolution updates the chunk spec. Buffers are reallocated by the next build.
func (c *Chunk) setResolution(resolution int, voxelScale float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spec.Resolution = resolution
	c.spec.VoxelScale = voxelScale
	c.info.Resolution = resolution
	c.info.VoxelScale = voxelScale
	c.dirty = true
}

// ensureBuffers reallocates the field and triangle buffer when their sizes
// no longer match the chunk spec. Must not be called with work in flight.
func (c *Chunk) ensureBuffers() {
	r := c.spec.Resolution
	if c.field == nil {
		c.field = voxel.NewField(r)
	} else {
		c.field.Resize(r)
	}
	if n := meshing.BufferLen(r); len(c.tris) != n {
		c.tris = make([]meshing.Triangle, n)
	}
}

// schedule launches the voxel pipeline and the dependent extraction.
func (c *Chunk) schedule(sched *jobs.Scheduler, builder *voxel.Builder, iso float32) jobs.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A previous launch must land before its buffers are touched again.
	_ = c.inflight.Complete()
	c.ensureBuffers()

	fut := builder.Build(c.spec, c.field, jobs.Completed)
	params := meshing.Params{
		IsoLevel:   iso,
		Resolution: c.spec.Resolution,
		VoxelScale: float32(c.spec.VoxelScale),
	}
	c.inflight = meshing.Extract(sched, c.field, params, c.tris, fut.Handle())
	return c.inflight
}

// finish waits for the in-flight work, assembles the mesh and hands it to
// the renderer. It returns the triangle count.
func (c *Chunk) finish(opts meshing.AssembleOptions) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.inflight.Complete(); err != nil {
		return 0, err
	}
	c.inflight = jobs.Completed
	c.mesh = meshing.Assemble(c.tris, opts)
	c.dirty = false
	c.builds++
	if c.handle != nil {
		c.handle.SetMesh(&c.mesh)
	}
	return c.mesh.TriangleCount(), nil
}

// destroy drains any in-flight work before releasing the buffers and the
// render handle.
func (c *Chunk) destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.inflight.Complete()
	c.inflight = jobs.Completed
	c.field = nil
	c.tris = nil
	c.mesh = meshing.Mesh{}
	if c.handle != nil {
		c.handle.Destroy()
		c.handle = nil
	}
}
