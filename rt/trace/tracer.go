// Package trace implements the recursive shading kernel. One Tracer per
// worker; the scene it reads is frozen for the whole frame, so tracing is a
// pure computation with no locking.
package trace

import (
	"math"

	"github.com/gekko3d/blockray/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Config bounds the kernel. A ray that both reflects and refracts spawns two
// recursive calls, so worst-case ray count is 2^MaxDepth; the shallow default
// is what keeps frames interactive.
type Config struct {
	MaxDepth      int
	EmissiveLimit int // emissive primitives promoted to lights per hit
}

func DefaultConfig() Config {
	return Config{MaxDepth: 3, EmissiveLimit: 5}
}

// Stats counts rays over a frame. Reset before dispatch, read after.
type Stats struct {
	Casts      int
	ShadowRays int
}

type Tracer struct {
	scene *core.Scene
	cfg   Config
	stats Stats
}

func New(scene *core.Scene, cfg Config) *Tracer {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}
	if cfg.EmissiveLimit <= 0 {
		cfg.EmissiveLimit = DefaultConfig().EmissiveLimit
	}
	return &Tracer{scene: scene, cfg: cfg}
}

func (t *Tracer) ResetStats()  { t.stats = Stats{} }
func (t *Tracer) Stats() Stats { return t.stats }

// CastRay returns the color seen along the ray. depth is the current
// recursion level; primary rays start at zero.
func (t *Tracer) CastRay(r core.Ray, depth int) mgl32.Vec3 {
	t.stats.Casts++

	rec, _, ok := t.scene.NearestHit(r)
	if !ok {
		return t.scene.Environment().Sample(r.Dir)
	}

	mat := rec.Material
	normal := mat.SampleNormal(t.scene.Textures, rec.U, rec.V, rec.Normal)
	view := core.SafeNormalize(r.Origin.Sub(rec.Point))

	// Emissive surfaces are visible light sources in their own right.
	color := mat.Emission

	lights := make([]core.Light, 0, len(t.scene.Lights)+t.cfg.EmissiveLimit)
	lights = append(lights, t.scene.Lights...)
	lights = t.scene.EmissiveLights(rec.Point, t.cfg.EmissiveLimit, lights)

	var diffuseIntensity float32
	var specular mgl32.Vec3
	for i := range lights {
		light := &lights[i]
		toLight := light.Position.Sub(rec.Point)
		lightDist := toLight.Len()
		if lightDist == 0 {
			continue
		}
		lightDir := toLight.Mul(1.0 / lightDist)

		// Hard shadows: an occluded light contributes nothing.
		t.stats.ShadowRays++
		shadowOrigin := core.OffsetOrigin(rec.Point, normal, lightDir)
		if t.scene.Occluded(shadowOrigin, lightDir, lightDist) {
			continue
		}

		lambert := normal.Dot(lightDir)
		if lambert > 0 {
			diffuseIntensity += lambert * light.Intensity
		}

		reflDir := core.Reflect(lightDir.Mul(-1), normal)
		if s := view.Dot(reflDir); s > 0 {
			phong := float32(math.Pow(float64(s), float64(mat.SpecularExp)))
			specular = specular.Add(light.Color.Mul(phong * light.Intensity))
		}
	}

	diffuse := mat.SampleColor(t.scene.Textures, rec.U, rec.V).Mul(diffuseIntensity)
	color = color.Add(diffuse.Mul(mat.Albedo[0]))
	color = color.Add(specular.Mul(mat.Albedo[1]))

	if depth < t.cfg.MaxDepth && mat.Reflectivity > 0 {
		reflDir := core.SafeNormalize(core.Reflect(r.Dir, normal))
		reflRay := core.Ray{Origin: core.OffsetOrigin(rec.Point, normal, reflDir), Dir: reflDir}
		color = color.Add(t.CastRay(reflRay, depth+1).Mul(mat.Reflectivity))
	}

	if depth < t.cfg.MaxDepth && mat.Transparency > 0 {
		refrDir := core.SafeNormalize(core.Refract(r.Dir, normal, mat.RefractiveIndex))
		refrRay := core.Ray{Origin: core.OffsetOrigin(rec.Point, normal, refrDir), Dir: refrDir}
		color = color.Add(t.CastRay(refrRay, depth+1).Mul(mat.Transparency))
	}

	return core.ClampColor(color)
}
