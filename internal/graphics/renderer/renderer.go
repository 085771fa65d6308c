package renderer

import (
	"lodterrain/internal/graphics"
	"lodterrain/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Renderer orchestrates rendering via renderable features
type Renderer struct {
	renderables []Renderable
	camera      *graphics.Camera
	wireframe   bool
}

// NewRenderer creates a new renderer with the given renderables
func NewRenderer(width, height int, rs ...Renderable) (*Renderer, error) {
	// Configure OpenGL
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	r := &Renderer{
		renderables: rs,
		camera:      graphics.NewCamera(width, height),
	}

	// Initialize all renderables
	for _, rr := range rs {
		if err := rr.Init(); err != nil {
			r.Dispose()
			return nil, err
		}
		rr.SetViewport(width, height)
	}

	return r, nil
}

// ToggleWireframe switches polygon mode between fill and lines.
func (r *Renderer) ToggleWireframe() {
	r.wireframe = !r.wireframe
}

// Render draws one frame seen from eye
func (r *Renderer) Render(t *world.Terrain, eye *graphics.FlyCamera, dt float64) {
	gl.ClearColor(0.53, 0.81, 0.92, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := eye.GetViewMatrix()
	projection := r.camera.GetProjectionMatrix()

	ctx := RenderContext{
		Camera:  r.camera,
		Eye:     eye,
		Terrain: t,
		DT:      dt,
		View:    view,
		Proj:    projection,
		Frustum: graphics.FrustumFromMatrix(projection.Mul4(view)),
	}

	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}

// GetCamera returns the camera instance
func (r *Renderer) GetCamera() *graphics.Camera {
	return r.camera
}

// UpdateViewport updates the camera and every renderable
func (r *Renderer) UpdateViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
	for _, rr := range r.renderables {
		rr.SetViewport(width, height)
	}
}
