package octree

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxDepth is the deepest level an ID can encode (4 bits per level).
const MaxDepth = 16

// ID packs a node's path into an integer: level i occupies bits [4i, 4i+4)
// and holds selector+1, so the root is 0 and every (depth, path) pair maps to
// a distinct value.
type ID uint64

// Node identifies an octree cell by depth and the child selector taken at
// each level. Geometry is always derived from the path, never stored.
type Node struct {
	depth uint8
	path  [MaxDepth]uint8
}

// Root is the depth-0 node.
func Root() Node { return Node{} }

func (n Node) Depth() int { return int(n.depth) }

// Selector returns the child index taken at the given level.
func (n Node) Selector(level int) uint8 { return n.path[level] }

// Child returns the i-th child. Bits 0, 1 and 2 of i select the upper half
// along x, y and z. Child panics past MaxDepth.
func (n Node) Child(i uint8) Node {
	if n.depth >= MaxDepth {
		panic("octree: child beyond MaxDepth")
	}
	c := n
	c.path[c.depth] = i & 7
	c.depth++
	return c
}

// Parent returns the enclosing node; the root is its own parent.
func (n Node) Parent() Node {
	if n.depth == 0 {
		return n
	}
	p := n
	p.depth--
	p.path[p.depth] = 0
	return p
}

func (n Node) ID() ID {
	var id ID
	for i := 0; i < int(n.depth); i++ {
		id |= ID(n.path[i]+1) << (4 * i)
	}
	return id
}

// Node decodes an ID. Nibbles are read until the first zero.
func (id ID) Node() Node {
	var n Node
	for id != 0 && n.depth < MaxDepth {
		n.path[n.depth] = uint8(id&0xF) - 1
		n.depth++
		id >>= 4
	}
	return n
}

func (id ID) String() string { return id.Node().Name() }

// SizeAt is the edge length of nodes at depth under a root of startSize.
func SizeAt(startSize float64, depth int) float64 {
	return startSize / float64(uint64(1)<<depth)
}

func (n Node) Size(startSize float64) float64 {
	return SizeAt(startSize, int(n.depth))
}

// Position is the node's minimum corner relative to the root center.
func (n Node) Position(startSize float64) mgl64.Vec3 {
	half := startSize / 2
	p := mgl64.Vec3{-half, -half, -half}
	for i := 0; i < int(n.depth); i++ {
		s := n.path[i]
		step := SizeAt(startSize, i+1)
		p[0] += float64(s&1) * step
		p[1] += float64((s>>1)&1) * step
		p[2] += float64((s>>2)&1) * step
	}
	return p
}

// Center is the node's midpoint relative to the root center.
func (n Node) Center(startSize float64) mgl64.Vec3 {
	h := n.Size(startSize) / 2
	return n.Position(startSize).Add(mgl64.Vec3{h, h, h})
}

// Contains reports whether p (relative to the root center) lies inside the
// node, including its minimum faces.
func (n Node) Contains(startSize float64, p mgl64.Vec3) bool {
	lo := n.Position(startSize)
	s := n.Size(startSize)
	for a := 0; a < 3; a++ {
		if p[a] < lo[a] || p[a] >= lo[a]+s {
			return false
		}
	}
	return true
}

// Name renders the path as "0-s1-s2-...", "0" for the root.
func (n Node) Name() string {
	var b strings.Builder
	b.WriteString("0")
	for i := 0; i < int(n.depth); i++ {
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(int(n.path[i])))
	}
	return b.String()
}

// ParseName is the inverse of Name.
func ParseName(s string) (Node, bool) {
	parts := strings.Split(s, "-")
	if len(parts) == 0 || parts[0] != "0" || len(parts)-1 > MaxDepth {
		return Node{}, false
	}
	n := Root()
	for _, p := range parts[1:] {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 7 {
			return Node{}, false
		}
		n = n.Child(uint8(v))
	}
	return n, true
}

// levelsFor bounds the number of levels a startSize/minSize ratio can
// produce. Leaves never go deeper than levelsFor-1.
func levelsFor(startSize, minSize float64) int {
	return int(math.Ceil(math.Log2(startSize / minSize)))
}
