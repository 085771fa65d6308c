package hud

import (
	"image"
	"slices"

	"lodterrain/internal/graphics"
	renderer "lodterrain/internal/graphics/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	margin     = 8
	lineHeight = 15
)

// HUD renders a block of status text in the top-left corner. The text is
// rasterised once per change and drawn as a single textured quad.
type HUD struct {
	shader  *graphics.Shader
	vao     uint32
	vbo     uint32
	texture uint32

	lines   []string
	dirty   bool
	texW    int
	texH    int
	visible bool

	projection mgl32.Mat4
}

// NewHUD creates a new HUD renderable
func NewHUD() *HUD {
	return &HUD{visible: true}
}

// Init initializes the overlay shader and quad
func (h *HUD) Init() error {
	var err error
	h.shader, err = graphics.LoadShader("overlay")
	if err != nil {
		return err
	}

	gl.GenVertexArrays(1, &h.vao)
	gl.BindVertexArray(h.vao)
	gl.GenBuffers(1, &h.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.BindVertexArray(0)

	gl.GenTextures(1, &h.texture)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// SetLines replaces the displayed text
func (h *HUD) SetLines(lines ...string) {
	if slices.Equal(lines, h.lines) {
		return
	}
	h.lines = append(h.lines[:0], lines...)
	h.dirty = true
}

// Toggle shows or hides the overlay
func (h *HUD) Toggle() {
	h.visible = !h.visible
}

// Rasterize draws lines into a single-channel image using the 7x13 bitmap face
func Rasterize(lines []string) *image.Alpha {
	face := basicfont.Face7x13
	w := 1
	for _, l := range lines {
		w = max(w, font.MeasureString(face, l).Ceil())
	}
	img := image.NewAlpha(image.Rect(0, 0, w, max(1, len(lines)*lineHeight)))

	d := &font.Drawer{Dst: img, Src: image.Opaque, Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(0, (i+1)*lineHeight-3)
		d.DrawString(l)
	}
	return img
}

func (h *HUD) upload() {
	img := Rasterize(h.lines)
	h.texW, h.texH = img.Rect.Dx(), img.Rect.Dy()

	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	// Ensure tight byte alignment for single-channel upload
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(h.texW), int32(h.texH), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	x0, y0 := float32(margin), float32(margin)
	x1, y1 := x0+float32(h.texW), y0+float32(h.texH)
	quad := []float32{
		x0, y0, 0, 0,
		x0, y1, 0, 1,
		x1, y1, 1, 1,
		x0, y0, 0, 0,
		x1, y1, 1, 1,
		x1, y0, 1, 0,
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(quad)*4, gl.Ptr(quad))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	h.dirty = false
}

// Render draws the text on top of the scene
func (h *HUD) Render(ctx renderer.RenderContext) {
	if !h.visible || len(h.lines) == 0 {
		return
	}
	if h.dirty {
		h.upload()
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	h.shader.Use()
	h.shader.SetMatrix4("proj", &h.projection[0])
	h.shader.SetInt("text", 0)
	h.shader.SetVector3("color", 1, 1, 1)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.BindVertexArray(h.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
}

// SetViewport rebuilds the pixel-space projection
func (h *HUD) SetViewport(width, height int) {
	h.projection = mgl32.Ortho2D(0, float32(width), float32(height), 0)
}

// Dispose cleans up OpenGL resources
func (h *HUD) Dispose() {
	if h.vao != 0 {
		gl.DeleteVertexArrays(1, &h.vao)
	}
	if h.vbo != 0 {
		gl.DeleteBuffers(1, &h.vbo)
	}
	if h.texture != 0 {
		gl.DeleteTextures(1, &h.texture)
	}
	if h.shader != nil {
		h.shader.Delete()
	}
}
