package renderer

import (
	"lodterrain/internal/graphics"
	"lodterrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared context for all renderables
type RenderContext struct {
	Camera  *graphics.Camera
	Eye     *graphics.FlyCamera
	Terrain *world.Terrain
	DT      float64
	View    mgl32.Mat4
	Proj    mgl32.Mat4
	Frustum graphics.Frustum
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}
