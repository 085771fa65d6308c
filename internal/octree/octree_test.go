package octree

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/config"
)

func TestRootIDIsZero(t *testing.T) {
	if Root().ID() != 0 {
		t.Fatalf("root id = %d, want 0", Root().ID())
	}
	if Root().Name() != "0" {
		t.Errorf("root name = %q, want \"0\"", Root().Name())
	}
}

func TestIDRoundTripAndCanonical(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		n := Root()
		depth := rng.Intn(MaxDepth + 1)
		for d := 0; d < depth; d++ {
			n = n.Child(uint8(rng.Intn(8)))
		}
		if got := n.ID().Node(); got != n {
			t.Fatalf("ID().Node() = %s, want %s", got.Name(), n.Name())
		}
		// Rebuilding the same path yields the same id.
		m := Root()
		for d := 0; d < depth; d++ {
			m = m.Child(n.Selector(d))
		}
		if m.ID() != n.ID() {
			t.Fatalf("same path gave ids %d and %d", m.ID(), n.ID())
		}
	}
}

func TestIDsAreInjective(t *testing.T) {
	seen := make(map[ID]string)
	var walk func(n Node)
	walk = func(n Node) {
		if prev, ok := seen[n.ID()]; ok {
			t.Fatalf("nodes %s and %s share id %d", prev, n.Name(), n.ID())
		}
		seen[n.ID()] = n.Name()
		if n.Depth() < 3 {
			for i := uint8(0); i < 8; i++ {
				walk(n.Child(i))
			}
		}
	}
	walk(Root())
	if want := 1 + 8 + 64 + 512; len(seen) != want {
		t.Fatalf("visited %d nodes, want %d", len(seen), want)
	}
	// A path of zeros must differ from its prefix.
	if Root().Child(0).ID() == Root().ID() {
		t.Error("child 0 collides with its parent")
	}
}

func TestNameRoundTrip(t *testing.T) {
	n := Root().Child(3).Child(5)
	if n.Name() != "0-3-5" {
		t.Fatalf("Name = %q, want 0-3-5", n.Name())
	}
	back, ok := ParseName("0-3-5")
	if !ok || back != n {
		t.Fatalf("ParseName = %v, %v", back.Name(), ok)
	}
	for _, bad := range []string{"", "1-2", "0-8", "0-x"} {
		if _, ok := ParseName(bad); ok {
			t.Errorf("ParseName(%q) should fail", bad)
		}
	}
}

func TestChildGeometry(t *testing.T) {
	const start = 8.0
	root := Root()
	if root.Position(start) != (mgl64.Vec3{-4, -4, -4}) {
		t.Errorf("root position = %v", root.Position(start))
	}
	if root.Center(start) != (mgl64.Vec3{}) {
		t.Errorf("root center = %v", root.Center(start))
	}
	// selector 5 = x and z upper halves
	c := root.Child(5)
	if c.Size(start) != 4 {
		t.Errorf("child size = %v", c.Size(start))
	}
	if c.Position(start) != (mgl64.Vec3{0, -4, 0}) {
		t.Errorf("child 5 position = %v", c.Position(start))
	}
	if c.Parent() != root {
		t.Error("Parent of child should be root")
	}
	gc := c.Child(2)
	if gc.Center(start) != (mgl64.Vec3{1, -1, 1}) {
		t.Errorf("grandchild center = %v", gc.Center(start))
	}
	if !gc.Contains(start, mgl64.Vec3{1, -1, 1}) || gc.Contains(start, mgl64.Vec3{-1, -1, 1}) {
		t.Error("Contains disagrees with Center")
	}
}

func TestNewGeneratorRejectsBadBounds(t *testing.T) {
	tests := []struct {
		name                      string
		start, threshold, minSize float64
	}{
		{"zero start", 0, 1, 1},
		{"negative threshold", 8, -1, 1},
		{"zero min", 8, 1, 0},
		{"nan", math.NaN(), 1, 1},
		{"too deep", 1 << 20, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGenerator(tt.start, tt.threshold, tt.minSize); !errors.Is(err, config.ErrInvalid) {
				t.Errorf("NewGenerator = %v, want ErrInvalid", err)
			}
		})
	}
}

func totalVolume(nodes []Node, start float64) float64 {
	v := 0.0
	for _, n := range nodes {
		s := n.Size(start)
		v += s * s * s
	}
	return v
}

func TestGeneratePartitionAtOrigin(t *testing.T) {
	g, err := NewGenerator(8, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	leaves := g.Generate(mgl64.Vec3{})
	if v := totalVolume(leaves, 8); v != 8*8*8 {
		t.Fatalf("total volume = %v, want 512", v)
	}
	if len(leaves) != 8 {
		t.Fatalf("got %d leaves, want the 8 children of the root", len(leaves))
	}
	for _, n := range leaves {
		if n.Depth() != 1 {
			t.Errorf("leaf %s at depth %d, want 1", n.Name(), n.Depth())
		}
	}
}

func TestGenerateReachesDeepestLevelNearObserver(t *testing.T) {
	g, err := NewGenerator(8, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	leaves := g.Generate(mgl64.Vec3{})
	if v := totalVolume(leaves, 8); v != 512 {
		t.Fatalf("total volume = %v, want 512", v)
	}
	// Size 2 nodes cannot split further since 2/2 is not > minSize.
	for _, n := range leaves {
		if n.Contains(8, mgl64.Vec3{0.5, 0.5, 0.5}) && n.Depth() != 2 {
			t.Errorf("leaf next to the observer at depth %d, want 2", n.Depth())
		}
	}
}

func TestGeneratePartitionsForRandomObservers(t *testing.T) {
	g, err := NewGenerator(64, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 25; i++ {
		p := mgl64.Vec3{rng.Float64()*64 - 32, rng.Float64()*64 - 32, rng.Float64()*64 - 32}
		leaves := g.Generate(p)
		if v := totalVolume(leaves, 64); v != 64*64*64 {
			t.Fatalf("observer %v: volume %v, want %v", p, v, 64*64*64)
		}
		deepest := 0
		for _, n := range leaves {
			deepest = max(deepest, n.Depth())
		}
		for _, n := range leaves {
			if n.Contains(64, p) && n.Depth() != deepest {
				t.Errorf("observer %v: containing leaf depth %d, deepest %d", p, n.Depth(), deepest)
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g, _ := NewGenerator(100, 0.4, 1)
	p := mgl64.Vec3{12.5, -3, 7}
	a, b := g.Generate(p), g.Generate(p)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID() != b[i].ID() {
			t.Fatalf("leaf %d differs: %s vs %s", i, a[i].Name(), b[i].Name())
		}
		if i > 0 && a[i-1].ID() >= a[i].ID() {
			t.Fatal("leaves are not sorted by id")
		}
	}
}

func TestBoundaryEqualityDoesNotSubdivide(t *testing.T) {
	g, _ := NewGenerator(8, 0.5, 1)
	// Root center is the origin; radius is 8*0.5 = 4.
	if g.ShouldSubdivide(Root(), mgl64.Vec3{4, 0, 0}) {
		t.Error("distance equal to size*threshold must not subdivide")
	}
	if !g.ShouldSubdivide(Root(), mgl64.Vec3{3.999, 0, 0}) {
		t.Error("distance just inside the radius should subdivide")
	}
	// size/2 == minSize must not subdivide
	g2, _ := NewGenerator(2, 10, 1)
	if g2.ShouldSubdivide(Root(), mgl64.Vec3{}) {
		t.Error("size/2 equal to minSize must not subdivide")
	}
}

func ids(nodes []Node) []ID {
	out := make([]ID, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out
}

func TestDiffSetAlgebra(t *testing.T) {
	g, _ := NewGenerator(64, 1, 2)
	a := g.Generate(mgl64.Vec3{-10, 0, 0})
	b := g.Generate(mgl64.Vec3{10, 5, 0})

	d := Diff(ids(a), b)
	if len(d.Kept)+len(d.Created) != len(b) {
		t.Errorf("|kept|+|created| = %d, want |B| = %d", len(d.Kept)+len(d.Created), len(b))
	}
	if len(d.Kept)+len(d.Destroyed) != len(a) {
		t.Errorf("|kept|+|destroyed| = %d, want |A| = %d", len(d.Kept)+len(d.Destroyed), len(a))
	}

	inA := make(map[ID]bool)
	for _, n := range a {
		inA[n.ID()] = true
	}
	inB := make(map[ID]bool)
	for _, n := range b {
		inB[n.ID()] = true
	}
	for _, id := range d.Kept {
		if !inA[id] || !inB[id] {
			t.Errorf("kept %s not in both sets", id)
		}
	}
	for _, n := range d.Created {
		if inA[n.ID()] || !inB[n.ID()] {
			t.Errorf("created %s not in B\\A", n.Name())
		}
	}
	for _, id := range d.Destroyed {
		if !inA[id] || inB[id] {
			t.Errorf("destroyed %s not in A\\B", id)
		}
	}
	if d.Empty() {
		t.Error("moving the observer should change the frontier")
	}
}

func TestDiffFromEmpty(t *testing.T) {
	g, _ := NewGenerator(8, 1, 1)
	cur := g.Generate(mgl64.Vec3{})
	d := Diff(nil, cur)
	if len(d.Created) != len(cur) || len(d.Kept) != 0 || len(d.Destroyed) != 0 {
		t.Fatalf("diff from empty = %d/%d/%d", len(d.Kept), len(d.Created), len(d.Destroyed))
	}
	same := Diff(ids(cur), cur)
	if !same.Empty() || len(same.Kept) != len(cur) {
		t.Fatal("diff against itself should keep everything")
	}
}
