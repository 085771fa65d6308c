package meshing

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/profiling"
)

// VertexStride is the number of float32 per interleaved vertex (pos.xyz + normal.xyz).
const VertexStride = 6

// Mesh is a dense indexed triangle mesh.
type Mesh struct {
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
	Indices  []uint32
}

// AssembleOptions controls compaction.
type AssembleOptions struct {
	// WeldVertices merges vertices with bit-identical positions. The first
	// occurrence's normal is kept.
	WeldVertices bool
	// RecalculateNormals discards interpolated normals and derives them from
	// the assembled faces.
	RecalculateNormals bool
}

// Assemble compacts created triangle slots into a mesh, in slot order.
func Assemble(tris []Triangle, opts AssembleOptions) Mesh {
	defer profiling.Track("meshing.Assemble")()

	n := CountCreated(tris)
	m := Mesh{
		Vertices: make([]mgl32.Vec3, 0, n*3),
		Normals:  make([]mgl32.Vec3, 0, n*3),
		Indices:  make([]uint32, 0, n*3),
	}

	var lookup map[mgl32.Vec3]uint32
	if opts.WeldVertices {
		lookup = make(map[mgl32.Vec3]uint32, n*3/2)
	}

	for i := range tris {
		tri := &tris[i]
		if !tri.Created {
			continue
		}
		for k := 0; k < 3; k++ {
			v := tri.Vertices[k]
			if lookup != nil {
				if idx, ok := lookup[v]; ok {
					m.Indices = append(m.Indices, idx)
					continue
				}
				lookup[v] = uint32(len(m.Vertices))
			}
			m.Indices = append(m.Indices, uint32(len(m.Vertices)))
			m.Vertices = append(m.Vertices, v)
			m.Normals = append(m.Normals, tri.Normals[k])
		}
	}

	if opts.RecalculateNormals {
		RecalculateNormals(&m)
	}
	return m
}

// RecalculateNormals sets each vertex normal to the normalized sum of the
// face normals of the triangles using it. Degenerate faces contribute nothing.
func RecalculateNormals(m *Mesh) {
	for i := range m.Normals {
		m.Normals[i] = mgl32.Vec3{}
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		face := faceNormal([3]mgl32.Vec3{m.Vertices[a], m.Vertices[b], m.Vertices[c]})
		m.Normals[a] = m.Normals[a].Add(face)
		m.Normals[b] = m.Normals[b].Add(face)
		m.Normals[c] = m.Normals[c].Add(face)
	}
	for i, n := range m.Normals {
		m.Normals[i] = safeNormalize(n)
	}
}

func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

func (m *Mesh) Empty() bool { return len(m.Indices) == 0 }

// Validate checks buffer consistency: matching vertex and normal counts,
// whole triangles, and indices in range.
func (m *Mesh) Validate() error {
	if len(m.Vertices) != len(m.Normals) {
		return fmt.Errorf("mesh has %d vertices but %d normals", len(m.Vertices), len(m.Normals))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, len(m.Vertices))
		}
	}
	return nil
}

// Interleaved returns position and normal data packed VertexStride floats
// per vertex, ready for a single vertex buffer.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexStride)
	for i, v := range m.Vertices {
		n := m.Normals[i]
		out = append(out, v[0], v[1], v[2], n[0], n[1], n[2])
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], v[a])
			hi[a] = max(hi[a], v[a])
		}
	}
	return
}
