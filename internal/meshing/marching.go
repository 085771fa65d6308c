package meshing

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/jobs"
	"lodterrain/internal/profiling"
	"lodterrain/internal/voxel"
)

// MaxTrianglesPerCube is the largest triangle count of any marching cubes case.
const MaxTrianglesPerCube = 5

// Params configures extraction.
type Params struct {
	IsoLevel   float32
	Resolution int     // cubes per edge; must match the field
	VoxelScale float32 // world units per cube
}

// Triangle is one output slot. Vertices are in chunk-local space and wound
// counter-clockwise when seen from the low-density side.
type Triangle struct {
	Vertices [3]mgl32.Vec3
	Normals  [3]mgl32.Vec3
	Created  bool
}

// TriangleCount returns how many triangles the case table lists for a case
// index.
func TriangleCount(caseIndex uint8) int {
	row := &triTable[caseIndex]
	n := 0
	for n < MaxTrianglesPerCube && row[n*3] >= 0 {
		n++
	}
	return n
}

// BufferLen is the number of triangle slots needed for a resolution.
func BufferLen(resolution int) int {
	return resolution * resolution * resolution * MaxTrianglesPerCube
}

// CaseIndex builds the 8-bit corner code of cube (x, y, z). Bit i is set
// when corner i lies below the iso level.
func CaseIndex(field *voxel.Field, x, y, z int, iso float32) uint8 {
	var code uint8
	for i, off := range cornerOffsets {
		if field.At(x+off[0]+1, y+off[1]+1, z+off[2]+1) < iso {
			code |= 1 << i
		}
	}
	return code
}

// Extract schedules marching cubes over every cube of field once dependsOn
// has completed. Cube c writes slots [c*5, c*5+5) of out, so out must hold
// BufferLen(p.Resolution) triangles. Unused slots are reset.
func Extract(s *jobs.Scheduler, field *voxel.Field, p Params, out []Triangle, dependsOn jobs.Handle) jobs.Handle {
	if err := checkParams(field, p, out); err != nil {
		return jobs.Failed(err)
	}
	r := p.Resolution
	return s.Schedule(r*r*r, func(cube int) {
		extractCube(field, p, cube, out)
	}, dependsOn)
}

// ExtractSync runs extraction on the calling goroutine and returns a new
// triangle buffer.
func ExtractSync(field *voxel.Field, p Params) []Triangle {
	defer profiling.Track("meshing.ExtractSync")()

	out := make([]Triangle, BufferLen(p.Resolution))
	if err := checkParams(field, p, out); err != nil {
		panic(err)
	}
	r := p.Resolution
	for cube := 0; cube < r*r*r; cube++ {
		extractCube(field, p, cube, out)
	}
	return out
}

func checkParams(field *voxel.Field, p Params, out []Triangle) error {
	if field == nil {
		return fmt.Errorf("meshing: nil field")
	}
	if p.Resolution <= 0 || p.Resolution != field.Resolution() {
		return fmt.Errorf("meshing: resolution %d does not match field resolution %d", p.Resolution, field.Resolution())
	}
	if len(out) < BufferLen(p.Resolution) {
		return fmt.Errorf("meshing: triangle buffer holds %d slots, need %d", len(out), BufferLen(p.Resolution))
	}
	return nil
}

func extractCube(field *voxel.Field, p Params, cube int, out []Triangle) {
	r := p.Resolution
	x := cube % r
	y := (cube / r) % r
	z := cube / (r * r)

	var (
		density [8]float32
		pos     [8]mgl32.Vec3
		lattice [8][3]int
		code    uint8
	)
	for i, off := range cornerOffsets {
		cx, cy, cz := x+off[0], y+off[1], z+off[2]
		lattice[i] = [3]int{cx + 1, cy + 1, cz + 1}
		density[i] = field.At(cx+1, cy+1, cz+1)
		if density[i] < p.IsoLevel {
			code |= 1 << i
		}
		pos[i] = mgl32.Vec3{float32(cx), float32(cy), float32(cz)}.Mul(p.VoxelScale)
	}

	slots := out[cube*MaxTrianglesPerCube : (cube+1)*MaxTrianglesPerCube]
	row := &triTable[code]
	var normals [8]mgl32.Vec3
	var haveNormal uint8

	slot := 0
	for ; slot < MaxTrianglesPerCube && row[slot*3] >= 0; slot++ {
		var tri Triangle
		// Table triples are clockwise; emit them reversed.
		for k := 0; k < 3; k++ {
			e := row[slot*3+2-k]
			a, b := edgeCornerA[e], edgeCornerB[e]
			if lowerCorner(b, a) {
				a, b = b, a
			}
			t := edgeT(p.IsoLevel, density[a], density[b])

			for _, c := range [2]int{a, b} {
				if haveNormal&(1<<c) == 0 {
					normals[c] = cornerNormal(field, lattice[c])
					haveNormal |= 1 << c
				}
			}
			tri.Vertices[k] = lerpVec(pos[a], pos[b], t)
			tri.Normals[k] = safeNormalize(lerpVec(normals[a], normals[b], t))
		}
		tri.Created = finiteTriangle(&tri)
		if tri.Created {
			fixNormals(&tri)
		}
		slots[slot] = tri
	}
	for ; slot < MaxTrianglesPerCube; slot++ {
		slots[slot] = Triangle{}
	}
}

// lowerCorner reports whether corner a sits at the lower end of its edge.
// Interpolating from the lower corner makes a shared edge produce the same
// bits from either neighbouring cube.
func lowerCorner(a, b int) bool {
	oa, ob := cornerOffsets[a], cornerOffsets[b]
	return oa[0]+oa[1]+oa[2] < ob[0]+ob[1]+ob[2]
}

// edgeT is the crossing parameter along an edge, clamped to [0, 1]. Equal
// densities give the midpoint.
func edgeT(iso, a, b float32) float32 {
	if a == b {
		return 0.5
	}
	t := (iso - a) / (b - a)
	switch {
	case math.IsNaN(float64(t)):
		return 0.5
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// cornerNormal is the negated central-difference gradient at a lattice point.
func cornerNormal(field *voxel.Field, l [3]int) mgl32.Vec3 {
	x, y, z := l[0], l[1], l[2]
	return safeNormalize(mgl32.Vec3{
		field.At(x-1, y, z) - field.At(x+1, y, z),
		field.At(x, y-1, z) - field.At(x, y+1, z),
		field.At(x, y, z-1) - field.At(x, y, z+1),
	})
}

func lerpVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// safeNormalize returns the zero vector for zero or non-finite input.
func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if !(l > 1e-12) || math.IsInf(float64(l), 0) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

func finiteTriangle(tri *Triangle) bool {
	for _, v := range tri.Vertices {
		for _, c := range v {
			if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
				return false
			}
		}
	}
	return true
}

// faceNormal is the unit normal of a counter-clockwise triangle.
func faceNormal(v [3]mgl32.Vec3) mgl32.Vec3 {
	return safeNormalize(v[1].Sub(v[0]).Cross(v[2].Sub(v[0])))
}

// fixNormals replaces zero-length vertex normals with the face normal.
func fixNormals(tri *Triangle) {
	var face mgl32.Vec3
	for k, n := range tri.Normals {
		if n.Len() == 0 {
			if face.Len() == 0 {
				face = faceNormal(tri.Vertices)
			}
			tri.Normals[k] = face
		}
	}
}

// CountCreated returns the number of created triangles in a slot buffer.
func CountCreated(tris []Triangle) int {
	n := 0
	for i := range tris {
		if tris[i].Created {
			n++
		}
	}
	return n
}
