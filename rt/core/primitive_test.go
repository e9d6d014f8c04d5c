package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCubeFrontalHit(t *testing.T) {
	// Cube centered at origin with half-extent 1, ray from +Z looking down -Z.
	c := NewCube(mgl32.Vec3{0, 0, 0}, 2, Material{})
	r := NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1})

	h, ok := c.Intersect(r)
	if !ok {
		t.Fatal("expected hit")
	}
	if abs(h.T-4) > 1e-5 {
		t.Errorf("distance = %f, want 4", h.T)
	}
	if !approxVec(h.Normal, mgl32.Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("normal = %v, want (0,0,1)", h.Normal)
	}
}

func TestSphereFrontalHit(t *testing.T) {
	s := NewSphere(mgl32.Vec3{0, 0, 0}, 1, Material{})
	r := NewRay(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{-1, 0, 0})

	h, ok := s.Intersect(r)
	if !ok {
		t.Fatal("expected hit")
	}
	if abs(h.T-2) > 1e-5 {
		t.Errorf("distance = %f, want 2", h.T)
	}
	if !approxVec(h.Normal, mgl32.Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("normal = %v, want (1,0,0)", h.Normal)
	}
}

func TestSphereMiss(t *testing.T) {
	s := NewSphere(mgl32.Vec3{0, 0, 0}, 1, Material{})
	r := NewRay(mgl32.Vec3{3, 2, 0}, mgl32.Vec3{-1, 0, 0})
	if _, ok := s.Intersect(r); ok {
		t.Error("ray passing above the sphere should miss")
	}
}

func TestSphereBehindOrigin(t *testing.T) {
	s := NewSphere(mgl32.Vec3{0, 0, 0}, 1, Material{})
	r := NewRay(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{1, 0, 0})
	if _, ok := s.Intersect(r); ok {
		t.Error("sphere behind the ray origin should not hit")
	}
}

func TestRayInsideCube(t *testing.T) {
	c := NewCube(mgl32.Vec3{0, 0, 0}, 4, Material{})
	r := NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})

	h, ok := c.Intersect(r)
	if !ok {
		t.Fatal("ray starting inside should hit the exit face")
	}
	if abs(h.T-2) > 1e-5 {
		t.Errorf("exit distance = %f, want 2", h.T)
	}
}

func TestDegenerateGeometryNeverHits(t *testing.T) {
	r := NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1})

	s := NewSphere(mgl32.Vec3{0, 0, 0}, 0, Material{})
	if _, ok := s.Intersect(r); ok {
		t.Error("zero-radius sphere should never intersect")
	}

	c := NewCube(mgl32.Vec3{0, 0, 0}, 0, Material{})
	if _, ok := c.Intersect(r); ok {
		t.Error("zero-extent cube should never intersect")
	}
}

func TestCubeEdgeGrazeIsStable(t *testing.T) {
	// A ray grazing exactly along a cube edge must classify identically on
	// every call: hit or miss, but never oscillate.
	c := NewCube(mgl32.Vec3{0, 0, 0}, 2, Material{})
	r := NewRay(mgl32.Vec3{1, 1, 5}, mgl32.Vec3{0, 0, -1})

	_, first := c.Intersect(r)
	for i := 0; i < 100; i++ {
		if _, ok := c.Intersect(r); ok != first {
			t.Fatalf("classification flipped on call %d", i)
		}
	}
}

func TestCubeFaceUV(t *testing.T) {
	c := NewCube(mgl32.Vec3{0, 0, 0}, 2, Material{})

	cases := []struct {
		name   string
		origin mgl32.Vec3
		dir    mgl32.Vec3
		normal mgl32.Vec3
	}{
		{"+x", mgl32.Vec3{5, 0.5, 0.5}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{1, 0, 0}},
		{"-x", mgl32.Vec3{-5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{-1, 0, 0}},
		{"+y", mgl32.Vec3{0.5, 5, 0.5}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 1, 0}},
		{"-y", mgl32.Vec3{0.5, -5, 0.5}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, -1, 0}},
		{"+z", mgl32.Vec3{0.5, 0.5, 5}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 0, 1}},
		{"-z", mgl32.Vec3{0.5, 0.5, -5}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, -1}},
	}
	for _, tc := range cases {
		h, ok := c.Intersect(NewRay(tc.origin, tc.dir))
		if !ok {
			t.Fatalf("%s: expected hit", tc.name)
		}
		if !approxVec(h.Normal, tc.normal, 1e-6) {
			t.Errorf("%s: normal = %v, want %v", tc.name, h.Normal, tc.normal)
		}
		if h.U < 0 || h.U > 1 || h.V < 0 || h.V > 1 {
			t.Errorf("%s: uv out of range: (%f, %f)", tc.name, h.U, h.V)
		}
	}
}

func TestSphereUVRange(t *testing.T) {
	s := NewSphere(mgl32.Vec3{0, 0, 0}, 1, Material{})
	dirs := []mgl32.Vec3{
		{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}, {0, 0, -1}, {0, 0, 1},
		{-1, -1, -1}, {1, 1, 1},
	}
	for _, d := range dirs {
		r := NewRay(d.Mul(-3), d)
		h, ok := s.Intersect(r)
		if !ok {
			t.Fatalf("dir %v: expected hit", d)
		}
		if h.U < 0 || h.U > 1 || h.V < 0 || h.V > 1 {
			t.Errorf("dir %v: uv out of range: (%f, %f)", d, h.U, h.V)
		}
	}
}

func TestBounds(t *testing.T) {
	c := NewCube(mgl32.Vec3{1, 2, 3}, 2, Material{})
	minB, maxB := c.Bounds()
	if !approxVec(minB, mgl32.Vec3{0, 1, 2}, 1e-6) || !approxVec(maxB, mgl32.Vec3{2, 3, 4}, 1e-6) {
		t.Errorf("cube bounds = %v..%v", minB, maxB)
	}

	s := NewSphere(mgl32.Vec3{0, 0, 0}, 2, Material{})
	minB, maxB = s.Bounds()
	if !approxVec(minB, mgl32.Vec3{-2, -2, -2}, 1e-6) || !approxVec(maxB, mgl32.Vec3{2, 2, 2}, 1e-6) {
		t.Errorf("sphere bounds = %v..%v", minB, maxB)
	}
}
