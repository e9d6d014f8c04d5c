// Package world is the scene-setup collaborator: it owns the material palette
// and the demo diorama. The kernel packages never construct scenes themselves.
package world

import (
	"path/filepath"

	"github.com/gekko3d/blockray/rt/assets"
	"github.com/gekko3d/blockray/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Palette holds the block materials of the diorama. Texture handles are
// uuid.Nil when the asset file is absent; materials then shade with their
// solid diffuse color.
type Palette struct {
	Glass      core.Material
	Water      core.Material
	DiamondOre core.Material
	Obsidian   core.Material
	Magma      core.Material
	Dirt       core.Material
	Grass      core.Material
	Leaves     core.Material
	Oak        core.Material
	Planks     core.Material
	Stone      core.Material
	Torch      core.Material
	Mirror     core.Material
	Crystal    core.Material
}

type texLoader struct {
	lib     *assets.Library
	dir     string
	missing []string
}

func (t *texLoader) load(name string) uuid.UUID {
	if t.lib == nil || t.dir == "" {
		return uuid.Nil
	}
	id, err := t.lib.Load(filepath.Join(t.dir, name+".png"))
	if err != nil {
		t.missing = append(t.missing, name)
		return uuid.Nil
	}
	return id
}

// NewPalette builds the palette, loading textures from dir when a library is
// given. The second return value lists texture names that failed to load and
// fell back to solid colors.
func NewPalette(lib *assets.Library, dir string) (*Palette, []string) {
	t := &texLoader{lib: lib, dir: dir}

	p := &Palette{
		Glass: core.Material{
			Diffuse: mgl32.Vec3{0.9, 0.95, 1.0}, Albedo: [2]float32{0.1, 5.0},
			SpecularExp: 125, Reflectivity: 0.15, Transparency: 0.85,
			RefractiveIndex: 1.5, Texture: t.load("glass"),
		},
		Water: core.Material{
			Diffuse: mgl32.Vec3{0.0, 0.4, 0.8}, Albedo: [2]float32{0.5, 0.5},
			SpecularExp: 40, Reflectivity: 0.2, Transparency: 0.7,
			RefractiveIndex: 1.33, Texture: t.load("water"),
		},
		DiamondOre: core.Material{
			Diffuse: mgl32.Vec3{0.4, 0.6, 0.7}, Albedo: [2]float32{0.6, 0.4},
			SpecularExp: 80, Reflectivity: 0.3,
			RefractiveIndex: 2.4, Texture: t.load("diamond_ore"),
		},
		Obsidian: core.Material{
			Diffuse: mgl32.Vec3{0.1, 0.05, 0.15}, Albedo: [2]float32{0.7, 0.3},
			SpecularExp: 50, Reflectivity: 0.25,
			RefractiveIndex: 1.0, Texture: t.load("obsidian"),
		},
		Magma: core.Material{
			Diffuse: mgl32.Vec3{1.0, 0.3, 0.0}, Albedo: [2]float32{0.9, 0.1},
			SpecularExp: 50, RefractiveIndex: 1.0,
			Emission: mgl32.Vec3{1.5, 0.5, 0.1}, Texture: t.load("magma"),
		},
		Dirt: core.Material{
			Diffuse: mgl32.Vec3{0.4, 0.26, 0.13}, Albedo: [2]float32{0.9, 0.1},
			SpecularExp: 1, RefractiveIndex: 1.0, Texture: t.load("dirt"),
		},
		Grass: core.Material{
			Diffuse: mgl32.Vec3{0.2, 0.6, 0.2}, Albedo: [2]float32{0.8, 0.2},
			SpecularExp: 2, RefractiveIndex: 1.0, Texture: t.load("grass"),
		},
		Leaves: core.Material{
			Diffuse: mgl32.Vec3{0.1, 0.5, 0.1}, Albedo: [2]float32{0.7, 0.3},
			SpecularExp: 3, RefractiveIndex: 1.2, Texture: t.load("leaves"),
		},
		Oak: core.Material{
			Diffuse: mgl32.Vec3{0.6, 0.4, 0.2}, Albedo: [2]float32{0.85, 0.15},
			SpecularExp: 5, RefractiveIndex: 1.0, Texture: t.load("oak"),
		},
		Planks: core.Material{
			Diffuse: mgl32.Vec3{0.6, 0.4, 0.2}, Albedo: [2]float32{0.85, 0.15},
			SpecularExp: 5, RefractiveIndex: 1.0, Texture: t.load("wood_planks"),
		},
		Stone: core.Material{
			Diffuse: mgl32.Vec3{0.5, 0.5, 0.5}, Albedo: [2]float32{0.8, 0.2},
			SpecularExp: 8, RefractiveIndex: 0.5, Texture: t.load("stone"),
		},
		Torch: core.Material{
			Diffuse: mgl32.Vec3{1.0, 0.8, 0.3}, Albedo: [2]float32{0.3, 0.1},
			SpecularExp: 10, RefractiveIndex: 1.0,
			Emission: mgl32.Vec3{2.0, 1.5, 0.5},
		},
		Mirror: core.Material{
			Diffuse: mgl32.Vec3{0.9, 0.9, 0.9}, Albedo: [2]float32{0.1, 1.0},
			SpecularExp: 200, Reflectivity: 0.9, RefractiveIndex: 1.0,
		},
		Crystal: core.Material{
			Diffuse: mgl32.Vec3{0.8, 0.9, 1.0}, Albedo: [2]float32{0.1, 2.0},
			SpecularExp: 150, Reflectivity: 0.1, Transparency: 0.9,
			RefractiveIndex: 1.52,
		},
	}
	return p, t.missing
}
