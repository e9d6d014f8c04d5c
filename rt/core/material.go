package core

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// TextureSampler resolves texture handles to texel data. The asset library
// implements it; materials only ever sample by (u,v) and never touch files.
type TextureSampler interface {
	Sample(id uuid.UUID, u, v float32) (mgl32.Vec3, bool)
	SampleNormal(id uuid.UUID, u, v float32) (mgl32.Vec3, bool)
}

// Material holds the optical properties of a surface. Albedo weights are
// blending coefficients, not required to sum to 1:
//
//	color = emission + diffuse*Albedo[0] + specular*Albedo[1] +
//	        reflection*Reflectivity + refraction*Transparency
type Material struct {
	Diffuse         mgl32.Vec3
	Albedo          [2]float32 // diffuse, specular weights
	SpecularExp     float32
	Reflectivity    float32
	Transparency    float32
	RefractiveIndex float32
	Emission        mgl32.Vec3

	Texture   uuid.UUID // uuid.Nil when unbound
	NormalMap uuid.UUID
}

// Emissive reports whether the surface acts as a visible light source.
func (m *Material) Emissive() bool {
	return m.Emission.Dot(m.Emission) > 0
}

// SampleColor returns the texel at (u,v), or the solid diffuse color when no
// texture is bound or the lookup fails.
func (m *Material) SampleColor(lib TextureSampler, u, v float32) mgl32.Vec3 {
	if lib == nil || m.Texture == uuid.Nil {
		return m.Diffuse
	}
	if c, ok := lib.Sample(m.Texture, u, v); ok {
		return c
	}
	return m.Diffuse
}

// SampleNormal perturbs the geometric normal by the bound normal map,
// renormalized to unit length. Without a map the geometric normal passes
// through unchanged.
func (m *Material) SampleNormal(lib TextureSampler, u, v float32, geometric mgl32.Vec3) mgl32.Vec3 {
	if lib == nil || m.NormalMap == uuid.Nil {
		return geometric
	}
	mapped, ok := lib.SampleNormal(m.NormalMap, u, v)
	if !ok {
		return geometric
	}
	perturbed := geometric.Add(mapped)
	if perturbed.Dot(perturbed) == 0 {
		return geometric
	}
	return SafeNormalize(perturbed)
}
