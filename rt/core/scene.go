package core

import (
	"github.com/gekko3d/blockray/rt/bvh"

	"github.com/go-gl/mathgl/mgl32"
)

// Environment supplies the color for rays that miss all geometry.
type Environment interface {
	Sample(dir mgl32.Vec3) mgl32.Vec3
}

// SolidSky is the simplest environment: one color everywhere.
type SolidSky struct {
	Color mgl32.Vec3
}

func (s SolidSky) Sample(mgl32.Vec3) mgl32.Vec3 { return s.Color }

// Scene owns the primitive list, the lights and the acceleration structure.
// After Commit it is immutable for the duration of a frame and shared
// lock-free by every worker.
type Scene struct {
	Primitives []Primitive
	Lights     []Light
	Env        Environment
	Textures   TextureSampler

	tree     *bvh.Tree
	emissive []int32
}

func NewScene() *Scene {
	return &Scene{Env: SolidSky{Color: mgl32.Vec3{0, 0, 0}}}
}

func (s *Scene) Add(p Primitive) {
	s.Primitives = append(s.Primitives, p)
}

func (s *Scene) AddLight(l Light) {
	s.Lights = append(s.Lights, l)
}

// Commit rebuilds the BVH and the emissive index. Required after any change
// to the primitive set; queries before the first Commit report no hit.
func (s *Scene) Commit() {
	aabbs := make([][2]mgl32.Vec3, len(s.Primitives))
	s.emissive = s.emissive[:0]
	for i := range s.Primitives {
		minB, maxB := s.Primitives[i].Bounds()
		aabbs[i] = [2]mgl32.Vec3{minB, maxB}
		if s.Primitives[i].Material.Emissive() {
			s.emissive = append(s.emissive, int32(i))
		}
	}
	s.tree = bvh.Build(aabbs)
}

// NearestHit returns the closest intersection along the ray and the index of
// the primitive that produced it.
func (s *Scene) NearestHit(r Ray) (HitRecord, int, bool) {
	if s.tree == nil {
		return HitRecord{}, -1, false
	}
	var rec HitRecord
	item, _, ok := s.tree.NearestHit(r.Origin, r.Dir, MaxRayDistance, func(i int32, closest float32) (float32, bool) {
		h, hit := s.Primitives[i].Intersect(r)
		if !hit || h.T >= closest {
			return 0, false
		}
		rec = h
		return h.T, true
	})
	if !ok {
		return HitRecord{}, -1, false
	}
	return rec, int(item), true
}

// Occluded reports whether anything blocks the segment from origin towards
// dir within maxDist. Used for shadow rays. Emissive primitives never occlude:
// a promoted light sits at its emitter's center, so the emitter's own body
// would otherwise shadow everything it lights.
func (s *Scene) Occluded(origin, dir mgl32.Vec3, maxDist float32) bool {
	if s.tree == nil {
		return false
	}
	r := Ray{Origin: origin, Dir: dir}
	return s.tree.Occluded(origin, dir, maxDist, func(i int32, limit float32) (float32, bool) {
		if s.Primitives[i].Material.Emissive() {
			return 0, false
		}
		h, hit := s.Primitives[i].Intersect(r)
		if !hit || h.T >= limit {
			return 0, false
		}
		return h.T, true
	})
}

// EmissiveLights converts the emissive primitives nearest to the given point
// into point lights, capped at limit. Emissive surfaces light their
// surroundings, not just themselves.
func (s *Scene) EmissiveLights(point mgl32.Vec3, limit int, out []Light) []Light {
	type candidate struct {
		idx    int32
		distSq float32
	}
	// Small scenes keep this simple: pick by insertion into a bounded list.
	var nearest []candidate
	for _, idx := range s.emissive {
		p := &s.Primitives[idx]
		d := p.Center.Sub(point)
		distSq := d.Dot(d)
		if distSq < 0.01 {
			continue // the surface itself
		}
		pos := len(nearest)
		for pos > 0 && nearest[pos-1].distSq > distSq {
			pos--
		}
		if pos >= limit {
			continue
		}
		nearest = append(nearest, candidate{})
		copy(nearest[pos+1:], nearest[pos:])
		nearest[pos] = candidate{idx: idx, distSq: distSq}
		if len(nearest) > limit {
			nearest = nearest[:limit]
		}
	}

	for _, c := range nearest {
		p := &s.Primitives[c.idx]
		em := p.Material.Emission
		out = append(out, NewLight(p.Center, SafeNormalize(em), em.Len()))
	}
	return out
}

// Environment returns the configured environment, falling back to black.
func (s *Scene) Environment() Environment {
	if s.Env == nil {
		return SolidSky{}
	}
	return s.Env
}
