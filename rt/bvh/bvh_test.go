package bvh

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTwoItemsSplit(t *testing.T) {
	// Two boxes far apart on X.
	aabbs := [][2]mgl32.Vec3{
		{{-100, -1, -1}, {-98, 1, 1}},
		{{100, -1, -1}, {102, 1, 1}},
	}

	tree := Build(aabbs)

	root := tree.Nodes[0]
	t.Logf("Root AABB: min=%v max=%v", root.Min, root.Max)
	if root.Min.X() > -100 {
		t.Errorf("root min X should be <= -100, got %f", root.Min.X())
	}
	if root.Max.X() < 100 {
		t.Errorf("root max X should be >= 100, got %f", root.Max.X())
	}

	// Both items fit in one leaf below LeafSize, so the root is a leaf.
	if !root.Leaf() {
		t.Fatal("two items should stay in a single leaf")
	}
	if root.LeafCount != 2 {
		t.Errorf("leaf count = %d, want 2", root.LeafCount)
	}
}

func TestSplitAboveLeafSize(t *testing.T) {
	var aabbs [][2]mgl32.Vec3
	for i := 0; i < 2*LeafSize; i++ {
		x := float32(i * 10)
		aabbs = append(aabbs, [2]mgl32.Vec3{{x, 0, 0}, {x + 1, 1, 1}})
	}

	tree := Build(aabbs)

	root := tree.Nodes[0]
	if root.Leaf() {
		t.Fatal("root should split above LeafSize")
	}
	if root.Left == root.Right {
		t.Error("left and right child indices should differ")
	}

	left := tree.Nodes[root.Left]
	right := tree.Nodes[root.Right]
	if !left.Leaf() || !right.Leaf() {
		t.Error("one level of splitting should reach leaves")
	}
	if left.LeafCount+right.LeafCount != int32(2*LeafSize) {
		t.Errorf("children cover %d items, want %d", left.LeafCount+right.LeafCount, 2*LeafSize)
	}
	// Every input index appears exactly once in the reordered item array.
	seen := make(map[int32]bool)
	for _, it := range tree.Items {
		if seen[it] {
			t.Errorf("item %d appears twice", it)
		}
		seen[it] = true
	}
	if len(seen) != 2*LeafSize {
		t.Errorf("item array covers %d items, want %d", len(seen), 2*LeafSize)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := Build(nil)
	if _, _, ok := tree.NearestHit(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, 100, nil); ok {
		t.Error("empty tree reported a hit")
	}
	if tree.Occluded(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, 100, nil) {
		t.Error("empty tree reported occlusion")
	}
}

// boxHitFn intersects the item's own AABB, which is enough to exercise
// traversal without real primitives.
func boxHitFn(aabbs [][2]mgl32.Vec3, origin, dir mgl32.Vec3) HitFunc {
	return func(item int32, closest float32) (float32, bool) {
		d, ok := rayBox(origin, dir, aabbs[item][0], aabbs[item][1], closest)
		if !ok || d >= closest || d <= 0 {
			return 0, false
		}
		return d, true
	}
}

func TestNearestHitMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	var aabbs [][2]mgl32.Vec3
	for i := 0; i < 200; i++ {
		c := mgl32.Vec3{rng.Float32()*40 - 20, rng.Float32()*40 - 20, rng.Float32()*40 - 20}
		h := rng.Float32()*2 + 0.1
		aabbs = append(aabbs, [2]mgl32.Vec3{
			c.Sub(mgl32.Vec3{h, h, h}),
			c.Add(mgl32.Vec3{h, h, h}),
		})
	}
	tree := Build(aabbs)

	for trial := 0; trial < 100; trial++ {
		origin := mgl32.Vec3{rng.Float32()*100 - 50, rng.Float32()*100 - 50, rng.Float32()*100 - 50}
		dir := mgl32.Vec3{rng.Float32()*2 - 1, rng.Float32()*2 - 1, rng.Float32()*2 - 1}
		if dir.Len() == 0 {
			continue
		}
		dir = dir.Normalize()

		item, dist, ok := tree.NearestHit(origin, dir, 1000, boxHitFn(aabbs, origin, dir))

		// Brute force reference.
		bestDist := float32(1000)
		best := int32(-1)
		for i := range aabbs {
			if d, hit := rayBox(origin, dir, aabbs[i][0], aabbs[i][1], bestDist); hit && d > 0 && d < bestDist {
				bestDist = d
				best = int32(i)
			}
		}

		if ok != (best >= 0) {
			t.Fatalf("trial %d: hit=%v, brute force=%v", trial, ok, best >= 0)
		}
		if ok && abs32(dist-bestDist) > 1e-4 {
			t.Errorf("trial %d: dist=%f, brute force=%f (items %d vs %d)", trial, dist, bestDist, item, best)
		}
	}
}

func TestNearestHitIdempotent(t *testing.T) {
	aabbs := [][2]mgl32.Vec3{
		{{-1, -1, -1}, {1, 1, 1}},
		{{-1, -1, -6}, {1, 1, -4}},
		{{-1, -1, -11}, {1, 1, -9}},
	}
	tree := Build(aabbs)

	origin := mgl32.Vec3{0, 0, 5}
	dir := mgl32.Vec3{0, 0, -1}
	i1, d1, ok1 := tree.NearestHit(origin, dir, 1000, boxHitFn(aabbs, origin, dir))
	i2, d2, ok2 := tree.NearestHit(origin, dir, 1000, boxHitFn(aabbs, origin, dir))

	if !ok1 || !ok2 || i1 != i2 || d1 != d2 {
		t.Errorf("repeated query disagreed: (%d,%f,%v) vs (%d,%f,%v)", i1, d1, ok1, i2, d2, ok2)
	}
	if i1 != 0 {
		t.Errorf("nearest item = %d, want 0", i1)
	}
}

func TestOccludedEarlyOut(t *testing.T) {
	aabbs := [][2]mgl32.Vec3{
		{{-1, -1, -1}, {1, 1, 1}},
	}
	tree := Build(aabbs)

	origin := mgl32.Vec3{0, 0, 5}
	dir := mgl32.Vec3{0, 0, -1}
	if !tree.Occluded(origin, dir, 100, boxHitFn(aabbs, origin, dir)) {
		t.Error("box in the path should occlude")
	}
	if tree.Occluded(origin, dir, 2, boxHitFn(aabbs, origin, dir)) {
		t.Error("segment ending before the box should be clear")
	}
}

func TestRayBox(t *testing.T) {
	minB := mgl32.Vec3{-1, -1, -1}
	maxB := mgl32.Vec3{1, 1, 1}

	if d, ok := rayBox(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, minB, maxB, 100); !ok || abs32(d-4) > 1e-5 {
		t.Errorf("frontal: d=%f ok=%v, want 4", d, ok)
	}
	// Origin inside: entry clamps to zero.
	if d, ok := rayBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, minB, maxB, 100); !ok || d != 0 {
		t.Errorf("inside: d=%f ok=%v, want 0", d, ok)
	}
	// Axis-parallel ray outside the slab.
	if _, ok := rayBox(mgl32.Vec3{5, 0, 5}, mgl32.Vec3{0, 0, -1}, minB, maxB, 100); ok {
		t.Error("parallel ray outside the slab should miss")
	}
	// Beyond tmax.
	if _, ok := rayBox(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, minB, maxB, 2); ok {
		t.Error("box beyond tmax should be skipped")
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
