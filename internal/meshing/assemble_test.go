package meshing

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAssembleProducesValidMesh(t *testing.T) {
	tris := ExtractSync(sphereField(8, 3), Params{IsoLevel: 0, Resolution: 8, VoxelScale: 1})
	created := CountCreated(tris)

	for _, weld := range []bool{false, true} {
		m := Assemble(tris, AssembleOptions{WeldVertices: weld})
		if err := m.Validate(); err != nil {
			t.Fatalf("weld=%v: %v", weld, err)
		}
		if m.TriangleCount() != created {
			t.Errorf("weld=%v: %d triangles, want %d", weld, m.TriangleCount(), created)
		}
	}
}

func TestAssembleWithoutWeldIsSequential(t *testing.T) {
	tris := ExtractSync(cubeField(1), Params{IsoLevel: 0, Resolution: 1, VoxelScale: 1})
	m := Assemble(tris, AssembleOptions{})
	if len(m.Vertices) != 3 {
		t.Fatalf("vertices = %d, want 3", len(m.Vertices))
	}
	for i, idx := range m.Indices {
		if idx != uint32(i) {
			t.Errorf("index %d = %d, want %d", i, idx, i)
		}
	}
}

func TestWeldNeverAddsVertices(t *testing.T) {
	tris := ExtractSync(sphereField(12, 4.3), Params{IsoLevel: 0, Resolution: 12, VoxelScale: 0.5})
	plain := Assemble(tris, AssembleOptions{})
	welded := Assemble(tris, AssembleOptions{WeldVertices: true})

	if len(welded.Vertices) > len(plain.Vertices) {
		t.Fatalf("welded %d vertices > plain %d", len(welded.Vertices), len(plain.Vertices))
	}
	// A closed surface shares almost every vertex between triangles.
	if len(welded.Vertices)*2 > len(plain.Vertices) {
		t.Errorf("welding merged too little: %d of %d", len(welded.Vertices), len(plain.Vertices))
	}
	if len(welded.Indices) != len(plain.Indices) {
		t.Errorf("index count changed with welding: %d vs %d", len(welded.Indices), len(plain.Indices))
	}
}

func TestRecalculateNormalsGivesUnitFaceNormals(t *testing.T) {
	tris := ExtractSync(sphereField(8, 3), Params{IsoLevel: 0, Resolution: 8, VoxelScale: 1})
	m := Assemble(tris, AssembleOptions{RecalculateNormals: true})
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Indices[i]
		n := m.Normals[a]
		if n.Len() == 0 {
			continue
		}
		if math.Abs(float64(n.Len())-1) > 1e-4 {
			t.Fatalf("normal %v is not unit length", n)
		}
		// Without welding a vertex belongs to one face.
		want := faceNormal([3]mgl32.Vec3{m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]], m.Vertices[m.Indices[i+2]]})
		if n.Sub(want).Len() > 1e-5 {
			t.Fatalf("normal %v, want face normal %v", n, want)
		}
	}
}

func TestInterleavedLayout(t *testing.T) {
	tris := ExtractSync(cubeField(1), Params{IsoLevel: 0, Resolution: 1, VoxelScale: 1})
	m := Assemble(tris, AssembleOptions{})
	buf := m.Interleaved()
	if len(buf) != len(m.Vertices)*VertexStride {
		t.Fatalf("interleaved length = %d, want %d", len(buf), len(m.Vertices)*VertexStride)
	}
	if buf[3] != m.Normals[0][0] || buf[VertexStride] != m.Vertices[1][0] {
		t.Error("interleaved buffer is not pos.xyz followed by normal.xyz")
	}
}
