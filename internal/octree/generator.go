package octree

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/config"
	"lodterrain/internal/profiling"
)

// Generator computes the leaf frontier of an observer-centred octree.
type Generator struct {
	startSize float64
	threshold float64
	minSize   float64
}

// NewGenerator validates the octree bounds. All three must be positive and
// the subdivision must fit in MaxDepth levels.
func NewGenerator(startSize, threshold, minSize float64) (*Generator, error) {
	for _, v := range []float64{startSize, threshold, minSize} {
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: octree startSize, threshold and minSize must be positive and finite (got %v, %v, %v)",
				config.ErrInvalid, startSize, threshold, minSize)
		}
	}
	if levelsFor(startSize, minSize) > MaxDepth {
		return nil, fmt.Errorf("%w: octree startSize/minSize ratio %v needs more than %d levels",
			config.ErrInvalid, startSize/minSize, MaxDepth)
	}
	return &Generator{startSize: startSize, threshold: threshold, minSize: minSize}, nil
}

// FromConfig builds a generator from the octree section.
func FromConfig(c config.OctreeConfig) (*Generator, error) {
	return NewGenerator(c.StartSize, c.Threshold, c.MinSize)
}

func (g *Generator) StartSize() float64 { return g.startSize }
func (g *Generator) Threshold() float64 { return g.threshold }
func (g *Generator) MinSize() float64   { return g.minSize }

// ShouldSubdivide applies the LOD rule to one node. Equality on either test
// keeps the node whole.
func (g *Generator) ShouldSubdivide(n Node, rel mgl64.Vec3) bool {
	size := n.Size(g.startSize)
	if !(size/2 > g.minSize) || n.Depth() >= MaxDepth {
		return false
	}
	d := n.Center(g.startSize).Sub(rel)
	r := size * g.threshold
	return d.Dot(d) < r*r
}

// Generate expands the root breadth first and returns the leaves, sorted by
// ID. rel is the observer position relative to the root center. The result
// tiles the root exactly.
func (g *Generator) Generate(rel mgl64.Vec3) []Node {
	defer profiling.Track("octree.Generate")()

	var leaves []Node
	current := []Node{Root()}
	for len(current) > 0 {
		var next []Node
		for _, n := range current {
			if g.ShouldSubdivide(n, rel) {
				for i := uint8(0); i < 8; i++ {
					next = append(next, n.Child(i))
				}
				continue
			}
			leaves = append(leaves, n)
		}
		current = next
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].ID() < leaves[j].ID() })
	return leaves
}
