package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind discriminates the closed set of primitive shapes.
type Kind int

const (
	KindCube Kind = iota
	KindSphere
)

// Primitive is a tagged variant over shape kinds. Cubes use Center+Half,
// spheres use Center+Radius. Immutable after scene construction.
type Primitive struct {
	Kind     Kind
	Center   mgl32.Vec3
	Half     mgl32.Vec3 // cube half-extents
	Radius   float32    // sphere radius
	Material Material
}

func NewCube(center mgl32.Vec3, size float32, mat Material) Primitive {
	h := size * 0.5
	return Primitive{
		Kind:     KindCube,
		Center:   center,
		Half:     mgl32.Vec3{h, h, h},
		Material: mat,
	}
}

func NewSphere(center mgl32.Vec3, radius float32, mat Material) Primitive {
	return Primitive{
		Kind:     KindSphere,
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// HitRecord describes a single intersection. Produced transiently per test and
// consumed immediately by the shading kernel.
type HitRecord struct {
	T        float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	U, V     float32
	Material *Material
}

// Bounds returns the world-space AABB of the primitive.
func (p *Primitive) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	switch p.Kind {
	case KindSphere:
		r := mgl32.Vec3{p.Radius, p.Radius, p.Radius}
		return p.Center.Sub(r), p.Center.Add(r)
	default:
		return p.Center.Sub(p.Half), p.Center.Add(p.Half)
	}
}

// Intersect dispatches on the shape kind. Degenerate geometry (zero extents,
// zero radius) never intersects.
func (p *Primitive) Intersect(r Ray) (HitRecord, bool) {
	switch p.Kind {
	case KindSphere:
		return p.intersectSphere(r)
	default:
		return p.intersectCube(r)
	}
}

func (p *Primitive) intersectSphere(r Ray) (HitRecord, bool) {
	if p.Radius <= 0 {
		return HitRecord{}, false
	}
	oc := r.Origin.Sub(p.Center)
	halfB := oc.Dot(r.Dir)
	c := oc.Dot(oc) - p.Radius*p.Radius
	disc := halfB*halfB - c
	if disc < 0 {
		return HitRecord{}, false
	}
	sq := float32(math.Sqrt(float64(disc)))

	// Smaller positive root first, the far root only if we start inside.
	t := -halfB - sq
	if t < HitEpsilon {
		t = -halfB + sq
	}
	if t < HitEpsilon || t > MaxRayDistance {
		return HitRecord{}, false
	}

	point := r.At(t)
	normal := point.Sub(p.Center).Mul(1.0 / p.Radius)
	u := 0.5 + float32(math.Atan2(float64(normal.Z()), float64(normal.X())))/(2*math.Pi)
	v := 0.5 - float32(math.Asin(float64(clamp(normal.Y(), -1, 1))))/math.Pi

	return HitRecord{T: t, Point: point, Normal: normal, U: u, V: v, Material: &p.Material}, true
}

func (p *Primitive) intersectCube(r Ray) (HitRecord, bool) {
	if p.Half.X() <= 0 || p.Half.Y() <= 0 || p.Half.Z() <= 0 {
		return HitRecord{}, false
	}
	minB := p.Center.Sub(p.Half)
	maxB := p.Center.Add(p.Half)

	// Slab method: intersect the per-axis entry/exit intervals.
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))
	for a := 0; a < 3; a++ {
		if r.Dir[a] == 0 {
			if r.Origin[a] < minB[a] || r.Origin[a] > maxB[a] {
				return HitRecord{}, false
			}
			continue
		}
		inv := 1.0 / r.Dir[a]
		t1 := (minB[a] - r.Origin[a]) * inv
		t2 := (maxB[a] - r.Origin[a]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return HitRecord{}, false
		}
	}

	t := tmin
	if t < HitEpsilon {
		t = tmax // ray starts inside the box
	}
	if t < HitEpsilon || t > MaxRayDistance {
		return HitRecord{}, false
	}

	point := r.At(t)
	normal, u, v := p.cubeFace(point)
	return HitRecord{T: t, Point: point, Normal: normal, U: u, V: v, Material: &p.Material}, true
}

// cubeFace classifies which face the point lies on and derives the fractional
// position on that face, which drives per-face texturing.
func (p *Primitive) cubeFace(point mgl32.Vec3) (mgl32.Vec3, float32, float32) {
	rel := point.Sub(p.Center)
	// Normalized distance from center per axis; the dominant one is the face.
	nx := rel.X() / p.Half.X()
	ny := rel.Y() / p.Half.Y()
	nz := rel.Z() / p.Half.Z()

	ax, ay, az := abs(nx), abs(ny), abs(nz)

	var normal mgl32.Vec3
	var u, v float32
	switch {
	case ax >= ay && ax >= az:
		normal = mgl32.Vec3{sign(nx), 0, 0}
		u = 0.5 + 0.5*nz*sign(nx)
		v = 0.5 - 0.5*ny
	case ay >= az:
		normal = mgl32.Vec3{0, sign(ny), 0}
		u = 0.5 + 0.5*nx
		v = 0.5 + 0.5*nz*sign(ny)
	default:
		normal = mgl32.Vec3{0, 0, sign(nz)}
		u = 0.5 - 0.5*nx*sign(nz)
		v = 0.5 - 0.5*ny
	}
	return normal, clamp(u, 0, 1), clamp(v, 0, 1)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
