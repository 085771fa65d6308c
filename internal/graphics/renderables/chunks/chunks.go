package chunks

import (
	"sync"

	"lodterrain/internal/graphics"
	renderer "lodterrain/internal/graphics/renderer"
	"lodterrain/internal/meshing"
	"lodterrain/internal/profiling"
	"lodterrain/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Chunks draws the terrain meshes and is the world.Spawner of the viewer.
// SetMesh and Destroy may run off the GL thread; buffers are only touched
// inside Render.
type Chunks struct {
	shader *graphics.Shader

	mu      sync.Mutex
	meshes  map[world.Key]*chunkMesh
	retired []*chunkMesh

	lodTint bool
	drawn   int
	culled  int
}

// chunkMesh is the GPU side of one world chunk.
type chunkMesh struct {
	owner *Chunks
	info  world.ChunkInfo

	vao, vbo, ebo uint32
	indexCount    int32
	lo, hi        mgl32.Vec3 // local bounds of the uploaded mesh

	pending *upload
}

type upload struct {
	vertices []float32
	indices  []uint32
	lo, hi   mgl32.Vec3
}

// NewChunks creates a new chunk renderable
func NewChunks() *Chunks {
	return &Chunks{meshes: make(map[world.Key]*chunkMesh)}
}

// Init compiles the terrain shader
func (c *Chunks) Init() error {
	var err error
	c.shader, err = graphics.LoadShader("terrain")
	if err != nil {
		return err
	}
	c.shader.Use()
	c.shader.SetVector3("lightDir", -0.4, -1.0, -0.3)
	c.shader.SetVector3("baseColor", 0.36, 0.62, 0.28)
	return nil
}

// Spawn implements world.Spawner.
func (c *Chunks) Spawn(info world.ChunkInfo) world.MeshHandle {
	cm := &chunkMesh{owner: c, info: info}
	c.mu.Lock()
	if old := c.meshes[info.Key]; old != nil {
		c.retired = append(c.retired, old)
	}
	c.meshes[info.Key] = cm
	c.mu.Unlock()
	return cm
}

// SetMesh copies the mesh for upload on the next frame.
func (cm *chunkMesh) SetMesh(m *meshing.Mesh) {
	u := &upload{
		vertices: m.Interleaved(),
		indices:  append([]uint32(nil), m.Indices...),
	}
	u.lo, u.hi = m.Bounds()

	cm.owner.mu.Lock()
	cm.pending = u
	cm.owner.mu.Unlock()
}

// Destroy schedules the buffers for release on the GL thread.
func (cm *chunkMesh) Destroy() {
	c := cm.owner
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.meshes[cm.info.Key] == cm {
		delete(c.meshes, cm.info.Key)
	}
	c.retired = append(c.retired, cm)
}

// ToggleLODTint colours chunks by octree depth.
func (c *Chunks) ToggleLODTint() {
	c.mu.Lock()
	c.lodTint = !c.lodTint
	c.mu.Unlock()
}

// Stats returns the number of chunks drawn and culled in the last frame.
func (c *Chunks) Stats() (drawn, culled int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drawn, c.culled
}

// Render uploads pending meshes and draws every visible chunk
func (c *Chunks) Render(ctx renderer.RenderContext) {
	defer profiling.Track("renderer.chunks")()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cm := range c.retired {
		cm.release()
	}
	c.retired = c.retired[:0]

	c.shader.Use()
	c.shader.SetMatrix4("proj", &ctx.Proj[0])
	c.shader.SetMatrix4("view", &ctx.View[0])

	c.drawn, c.culled = 0, 0
	for _, cm := range c.meshes {
		if cm.pending != nil {
			func() {
				defer profiling.Track("renderer.upload")()
				cm.upload(cm.pending)
			}()
			cm.pending = nil
		}
		if cm.indexCount == 0 {
			continue
		}

		origin := mgl32.Vec3{float32(cm.info.Origin.X()), float32(cm.info.Origin.Y()), float32(cm.info.Origin.Z())}
		if !ctx.Frustum.IntersectsAABB(origin.Add(cm.lo), origin.Add(cm.hi)) {
			c.culled++
			continue
		}

		model := mgl32.Translate3D(origin.X(), origin.Y(), origin.Z())
		c.shader.SetMatrix4("model", &model[0])
		tint := float32(0)
		if c.lodTint {
			tint = float32(cm.info.Depth) / 16
		}
		c.shader.SetFloat("lodTint", tint)

		gl.BindVertexArray(cm.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, cm.indexCount, gl.UNSIGNED_INT, 0)
		c.drawn++
	}
	gl.BindVertexArray(0)
}

func (cm *chunkMesh) upload(u *upload) {
	if len(u.indices) == 0 {
		cm.indexCount = 0
		return
	}
	if cm.vao == 0 {
		gl.GenVertexArrays(1, &cm.vao)
		gl.GenBuffers(1, &cm.vbo)
		gl.GenBuffers(1, &cm.ebo)
	}

	gl.BindVertexArray(cm.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, cm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(u.vertices)*4, gl.Ptr(u.vertices), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, cm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(u.indices)*4, gl.Ptr(u.indices), gl.DYNAMIC_DRAW)

	stride := int32(meshing.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.BindVertexArray(0)

	cm.indexCount = int32(len(u.indices))
	cm.lo, cm.hi = u.lo, u.hi
}

func (cm *chunkMesh) release() {
	if cm.vao != 0 {
		gl.DeleteVertexArrays(1, &cm.vao)
		gl.DeleteBuffers(1, &cm.vbo)
		gl.DeleteBuffers(1, &cm.ebo)
		cm.vao, cm.vbo, cm.ebo = 0, 0, 0
	}
	cm.indexCount = 0
	cm.pending = nil
}

// SetViewport is a no-op for world-space geometry
func (c *Chunks) SetViewport(width, height int) {}

// Dispose cleans up OpenGL resources
func (c *Chunks) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cm := range c.retired {
		cm.release()
	}
	c.retired = nil
	for k, cm := range c.meshes {
		cm.release()
		delete(c.meshes, k)
	}
	if c.shader != nil {
		c.shader.Delete()
	}
}
