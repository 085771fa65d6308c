package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"lodterrain/internal/voxel"
)

var (
	airColor   = color.NRGBA{R: 40, G: 90, B: 170, A: 255}
	solidColor = color.NRGBA{R: 120, G: 95, B: 60, A: 255}
	edgeColor  = color.NRGBA{R: 235, G: 235, B: 120, A: 255}
	background = color.NRGBA{R: 10, G: 10, B: 18, A: 255}
)

// DensitySlice renders lattice layer y of the field seen from above, one
// pixel per lattice point. Samples below iso are tinted as air, the rest as
// solid, with brightness falling off with distance from the surface. Points
// where the sign flips against a neighbour are highlighted.
func DensitySlice(field *voxel.Field, y int, iso float32) *image.NRGBA {
	dim := field.Dim()
	img := image.NewNRGBA(image.Rect(0, 0, dim, dim))
	if y < 0 || y >= dim {
		draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)
		return img
	}

	for z := 0; z < dim; z++ {
		for x := 0; x < dim; x++ {
			d := field.At(x, y, z) - iso
			base := solidColor
			if d < 0 {
				base = airColor
			}
			if crossesSurface(field, x, y, z, iso) {
				base = edgeColor
			}
			img.SetNRGBA(x, z, shade(base, d))
		}
	}
	return img
}

func crossesSurface(field *voxel.Field, x, y, z int, iso float32) bool {
	dim := field.Dim()
	below := field.At(x, y, z) < iso
	if x+1 < dim && (field.At(x+1, y, z) < iso) != below {
		return true
	}
	if z+1 < dim && (field.At(x, y, z+1) < iso) != below {
		return true
	}
	return false
}

// shade darkens c as |d| grows.
func shade(c color.NRGBA, d float32) color.NRGBA {
	f := 1 / (1 + math.Abs(float64(d)))
	f = 0.35 + 0.65*f
	return color.NRGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: 255,
	}
}

// Heightmap renders, per (x, z) column, the highest lattice layer whose
// density is at or above iso. Columns with no solid sample are black, a
// fully solid column is white.
func Heightmap(field *voxel.Field, iso float32) *image.Gray {
	dim := field.Dim()
	img := image.NewGray(image.Rect(0, 0, dim, dim))
	for z := 0; z < dim; z++ {
		for x := 0; x < dim; x++ {
			top := -1
			for y := dim - 1; y >= 0; y-- {
				if field.At(x, y, z) >= iso {
					top = y
					break
				}
			}
			var v uint8
			if top >= 0 {
				v = uint8(32 + (223*top)/max(dim-1, 1))
			}
			img.SetGray(x, z, color.Gray{Y: v})
		}
	}
	return img
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling.
func Scale(img image.Image, factor int) *image.NRGBA {
	factor = max(factor, 1)
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Label draws text in the top-left corner of img.
func Label(img draw.Image, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, 12),
	}
	d.DrawString(text)
}

// WritePNG scales img, optionally captions it, and writes it to path,
// creating parent directories.
func WritePNG(path string, img image.Image, scale int, caption string) error {
	out := Scale(img, scale)
	if caption != "" {
		Label(out, caption)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create preview dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("encode preview: %w", err)
	}
	return f.Close()
}
