package bvh

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// LeafSize is the primitive count below which a node becomes a leaf.
	LeafSize = 4
	// MaxDepth caps build recursion for degenerate distributions.
	MaxDepth = 32
)

// Node is one arena slot. Internal nodes reference children by index, leaves
// reference a range of the tree's reordered item array. No owning pointers,
// so the whole tree is trivially shared read-only across workers.
type Node struct {
	Min       mgl32.Vec3
	Max       mgl32.Vec3
	Left      int32
	Right     int32
	LeafFirst int32
	LeafCount int32
}

// Leaf reports whether the node holds items instead of children.
func (n *Node) Leaf() bool {
	return n.Left < 0
}

// Tree is a bounding volume hierarchy over caller-owned primitives,
// referenced by index. Built once per scene change; read-only during queries.
type Tree struct {
	Nodes []Node
	Items []int32
}

type buildItem struct {
	min      mgl32.Vec3
	max      mgl32.Vec3
	centroid mgl32.Vec3
	index    int32
}

// Build constructs the hierarchy from one AABB per primitive. An empty input
// yields an empty tree whose queries report no hit.
func Build(aabbs [][2]mgl32.Vec3) *Tree {
	t := &Tree{}
	if len(aabbs) == 0 {
		return t
	}

	items := make([]buildItem, len(aabbs))
	for i, bounds := range aabbs {
		items[i] = buildItem{
			min:      bounds[0],
			max:      bounds[1],
			centroid: bounds[0].Add(bounds[1]).Mul(0.5),
			index:    int32(i),
		}
	}

	t.Nodes = make([]Node, 0, 2*len(aabbs))
	t.Items = make([]int32, 0, len(aabbs))
	t.build(items, 0)
	return t
}

func (t *Tree) build(items []buildItem, depth int) int32 {
	idx := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Left: -1, Right: -1, LeafFirst: -1})

	minB := mgl32.Vec3{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}
	maxB := mgl32.Vec3{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))}
	for _, it := range items {
		for a := 0; a < 3; a++ {
			minB[a] = min(minB[a], it.min[a])
			maxB[a] = max(maxB[a], it.max[a])
		}
	}
	t.Nodes[idx].Min = minB
	t.Nodes[idx].Max = maxB

	if len(items) <= LeafSize || depth >= MaxDepth {
		t.Nodes[idx].LeafFirst = int32(len(t.Items))
		t.Nodes[idx].LeafCount = int32(len(items))
		for _, it := range items {
			t.Items = append(t.Items, it.index)
		}
		return idx
	}

	// Split along the axis of greatest extent at the centroid median.
	extent := maxB.Sub(minB)
	axis := 0
	if extent.Y() > extent.X() {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].centroid[axis] < items[j].centroid[axis]
	})

	mid := len(items) / 2
	left := t.build(items[:mid], depth+1)
	right := t.build(items[mid:], depth+1)
	t.Nodes[idx].Left = left
	t.Nodes[idx].Right = right
	return idx
}

// HitFunc intersects one primitive by index. It returns the hit distance and
// whether a hit closer than the current closest exists. The closest-so-far is
// passed in so implementations can reject early.
type HitFunc func(item int32, closest float32) (float32, bool)

// NearestHit finds the closest primitive hit along the ray. Child boxes whose
// entry distance exceeds the best hit so far are skipped entirely. When two
// primitives report the same distance the first encountered in traversal
// order wins, keeping results deterministic.
func (t *Tree) NearestHit(origin, dir mgl32.Vec3, maxDist float32, hit HitFunc) (int32, float32, bool) {
	if len(t.Nodes) == 0 {
		return -1, 0, false
	}

	closest := maxDist
	best := int32(-1)

	var stack [2 * MaxDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		node := &t.Nodes[stack[sp]]

		entry, ok := rayBox(origin, dir, node.Min, node.Max, closest)
		if !ok || entry > closest {
			continue
		}

		if node.Leaf() {
			for i := node.LeafFirst; i < node.LeafFirst+node.LeafCount; i++ {
				item := t.Items[i]
				if d, ok := hit(item, closest); ok && d < closest {
					closest = d
					best = item
				}
			}
			continue
		}

		// Near child on top of the stack so it is visited first.
		lEntry, lOK := rayBox(origin, dir, t.Nodes[node.Left].Min, t.Nodes[node.Left].Max, closest)
		rEntry, rOK := rayBox(origin, dir, t.Nodes[node.Right].Min, t.Nodes[node.Right].Max, closest)
		switch {
		case lOK && rOK:
			if lEntry <= rEntry {
				stack[sp] = node.Right
				stack[sp+1] = node.Left
			} else {
				stack[sp] = node.Left
				stack[sp+1] = node.Right
			}
			sp += 2
		case lOK:
			stack[sp] = node.Left
			sp++
		case rOK:
			stack[sp] = node.Right
			sp++
		}
	}

	if best < 0 {
		return -1, 0, false
	}
	return best, closest, true
}

// Occluded reports whether any primitive blocks the ray within maxDist. It
// terminates on the first hit; shadow rays do not need the nearest one.
func (t *Tree) Occluded(origin, dir mgl32.Vec3, maxDist float32, hit HitFunc) bool {
	if len(t.Nodes) == 0 {
		return false
	}

	var stack [2 * MaxDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		node := &t.Nodes[stack[sp]]

		if _, ok := rayBox(origin, dir, node.Min, node.Max, maxDist); !ok {
			continue
		}

		if node.Leaf() {
			for i := node.LeafFirst; i < node.LeafFirst+node.LeafCount; i++ {
				if _, ok := hit(t.Items[i], maxDist); ok {
					return true
				}
			}
			continue
		}

		stack[sp] = node.Left
		stack[sp+1] = node.Right
		sp += 2
	}
	return false
}

// rayBox is the slab test. Returns the entry distance (clamped to zero when
// the origin is inside) and whether the ray crosses the box within tmax.
func rayBox(origin, dir, minB, maxB mgl32.Vec3, tmax float32) (float32, bool) {
	tEnter := float32(0)
	tExit := tmax
	for a := 0; a < 3; a++ {
		if dir[a] == 0 {
			if origin[a] < minB[a] || origin[a] > maxB[a] {
				return 0, false
			}
			continue
		}
		inv := 1.0 / dir[a]
		t1 := (minB[a] - origin[a]) * inv
		t2 := (maxB[a] - origin[a]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
		}
		if t2 < tExit {
			tExit = t2
		}
		if tEnter > tExit {
			return 0, false
		}
	}
	return tEnter, true
}

func min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
