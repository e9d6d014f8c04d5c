package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// HitEpsilon rejects intersections closer than this to the ray origin,
	// which would otherwise re-hit the surface the ray was spawned from.
	HitEpsilon = 1e-3

	// OriginBias is how far secondary ray origins are pushed along the
	// surface normal to avoid shadow acne.
	OriginBias = 1e-4

	// MaxRayDistance bounds every intersection query.
	MaxRayDistance = 1000.0
)

// Ray is an origin plus a unit direction. Rays are never mutated; reflection,
// refraction and shadow probes construct new ones.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

func NewRay(origin, dir mgl32.Vec3) Ray {
	return Ray{Origin: origin, Dir: SafeNormalize(dir)}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// SafeNormalize returns the unit vector, or the zero vector unchanged.
// mgl32.Vec3.Normalize produces NaNs for zero input.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1.0 / l)
}

// Reflect mirrors the incident direction about the normal.
func Reflect(incident, normal mgl32.Vec3) mgl32.Vec3 {
	return incident.Sub(normal.Mul(2 * incident.Dot(normal)))
}

// Refract bends the incident direction through a surface with the given
// refractive index using Snell's law. The entering/exiting case is decided by
// the sign of incident·normal and flips the index ratio accordingly. Under
// total internal reflection the reflected direction is returned instead.
func Refract(incident, normal mgl32.Vec3, ior float32) mgl32.Vec3 {
	cosi := clamp(incident.Dot(normal), -1, 1)
	etaI, etaT := float32(1.0), ior
	n := normal
	if cosi < 0 {
		cosi = -cosi
	} else {
		// Exiting the medium.
		etaI, etaT = etaT, etaI
		n = normal.Mul(-1)
	}
	eta := etaI / etaT
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return Reflect(incident, normal)
	}
	return incident.Mul(eta).Add(n.Mul(eta*cosi - float32(math.Sqrt(float64(k)))))
}

// OffsetOrigin nudges a secondary ray origin off the surface, on the side the
// new direction departs to.
func OffsetOrigin(point, normal, dir mgl32.Vec3) mgl32.Vec3 {
	offset := normal.Mul(OriginBias)
	if dir.Dot(normal) < 0 {
		return point.Sub(offset)
	}
	return point.Add(offset)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampColor clamps every channel to [0,1] for display.
func ClampColor(c mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{clamp(c.X(), 0, 1), clamp(c.Y(), 0, 1), clamp(c.Z(), 0, 1)}
}
