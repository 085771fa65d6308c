package outline

import (
	"lodterrain/internal/graphics"
	renderer "lodterrain/internal/graphics/renderer"
	"lodterrain/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Outline draws the bounds of every live chunk, coloured by octree depth
type Outline struct {
	shader  *graphics.Shader
	vao     uint32
	vbo     uint32
	visible bool
}

// NewOutline creates a new outline renderable, hidden until toggled
func NewOutline() *Outline {
	return &Outline{}
}

// Init initializes the outline rendering system
func (o *Outline) Init() error {
	var err error
	o.shader, err = graphics.LoadShader("outline")
	if err != nil {
		return err
	}
	o.setupCubeVAO()
	return nil
}

// Toggle shows or hides the chunk bounds
func (o *Outline) Toggle() {
	o.visible = !o.visible
}

// Render draws one unit cube per chunk scaled to its size
func (o *Outline) Render(ctx renderer.RenderContext) {
	if !o.visible || ctx.Terrain == nil {
		return
	}
	defer profiling.Track("renderer.outline")()

	o.shader.Use()
	o.shader.SetMatrix4("proj", &ctx.Proj[0])
	o.shader.SetMatrix4("view", &ctx.View[0])
	gl.BindVertexArray(o.vao)
	gl.LineWidth(1.0)

	for _, ch := range ctx.Terrain.Chunks() {
		info := ch.Info()
		lo := mgl32.Vec3{float32(info.Origin.X()), float32(info.Origin.Y()), float32(info.Origin.Z())}
		size := float32(info.Size)
		if !ctx.Frustum.IntersectsAABB(lo, lo.Add(mgl32.Vec3{size, size, size})) {
			continue
		}

		model := mgl32.Translate3D(lo.X(), lo.Y(), lo.Z()).Mul4(mgl32.Scale3D(size, size, size))
		o.shader.SetMatrix4("model", &model[0])
		c := DepthColor(info.Depth)
		o.shader.SetVector3("color", c.X(), c.Y(), c.Z())
		gl.DrawArrays(gl.LINES, 0, 24)
	}
	gl.BindVertexArray(0)
}

// DepthColor fades from blue at the root to red at the deepest level
func DepthColor(depth int) mgl32.Vec3 {
	t := mgl32.Clamp(float32(depth)/8, 0, 1)
	return mgl32.Vec3{t, 0.2, 1 - t}
}

// SetViewport is a no-op for world-space geometry
func (o *Outline) SetViewport(width, height int) {}

// Dispose cleans up OpenGL resources
func (o *Outline) Dispose() {
	if o.vao != 0 {
		gl.DeleteVertexArrays(1, &o.vao)
	}
	if o.vbo != 0 {
		gl.DeleteBuffers(1, &o.vbo)
	}
	if o.shader != nil {
		o.shader.Delete()
	}
}

func (o *Outline) setupCubeVAO() {
	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)

	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)

	vertices := []float32{
		// Bottom face
		0, 0, 0, 1, 0, 0,
		1, 0, 0, 1, 0, 1,
		1, 0, 1, 0, 0, 1,
		0, 0, 1, 0, 0, 0,

		// Top face
		0, 1, 0, 1, 1, 0,
		1, 1, 0, 1, 1, 1,
		1, 1, 1, 0, 1, 1,
		0, 1, 1, 0, 1, 0,

		// Vertical edges
		0, 0, 0, 0, 1, 0,
		1, 0, 0, 1, 1, 0,
		1, 0, 1, 1, 1, 1,
		0, 0, 1, 0, 1, 1,
	}

	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)
}
