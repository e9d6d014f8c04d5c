package world

import (
	"math"

	"github.com/gekko3d/blockray/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// BuildDiorama assembles the demo cube world: ringed ground, a house with
// glass windows, a stone tower, an obsidian portal with glowing magma, a
// water pool under a glass dome, trees, torches and two showcase spheres.
// The returned scene is committed and ready to trace.
func BuildDiorama(p *Palette) *core.Scene {
	s := core.NewScene()

	// Ground: grass core, dirt ring, stone rim.
	for x := -8; x <= 8; x++ {
		for z := -8; z <= 8; z++ {
			distSq := x*x + z*z
			mat := p.Stone
			if distSq < 16 {
				mat = p.Grass
			} else if distSq < 49 {
				mat = p.Dirt
			}
			s.Add(core.NewCube(mgl32.Vec3{float32(x), -1, float32(z)}, 1, mat))
		}
	}

	// House shell with a stone floor and plank walls.
	for x := -5; x <= -2; x++ {
		for z := -7; z <= -4; z++ {
			for y := 0; y <= 3; y++ {
				if y == 0 || x == -5 || x == -2 || z == -7 || z == -4 {
					mat := p.Planks
					if y == 0 {
						mat = p.Stone
					}
					s.Add(core.NewCube(mgl32.Vec3{float32(x), float32(y), float32(z)}, 1, mat))
				}
			}
		}
	}
	s.Add(core.NewCube(mgl32.Vec3{-3, 2, -7}, 1, p.Glass))
	s.Add(core.NewCube(mgl32.Vec3{-4, 2, -4}, 1, p.Glass))
	for x := -6; x <= 0; x++ {
		for z := -8; z <= -3; z++ {
			s.Add(core.NewCube(mgl32.Vec3{float32(x), 4, float32(z)}, 1, p.Oak))
		}
	}

	// Stone tower topped with diamond ore.
	for y := 0; y <= 6; y++ {
		s.Add(core.NewCube(mgl32.Vec3{5, float32(y), -5}, 1, p.Stone))
	}
	s.Add(core.NewCube(mgl32.Vec3{5, 7, -5}, 1, p.DiamondOre))

	// Obsidian portal frame with emissive magma inside.
	for y := 0; y <= 3; y++ {
		s.Add(core.NewCube(mgl32.Vec3{-8, float32(y), 2}, 1, p.Obsidian))
		s.Add(core.NewCube(mgl32.Vec3{-8, float32(y), 4}, 1, p.Obsidian))
	}
	for z := 2; z <= 4; z++ {
		s.Add(core.NewCube(mgl32.Vec3{-8, 0, float32(z)}, 1, p.Obsidian))
		s.Add(core.NewCube(mgl32.Vec3{-8, 3, float32(z)}, 1, p.Obsidian))
	}
	for y := 1; y <= 2; y++ {
		s.Add(core.NewCube(mgl32.Vec3{-8, float32(y), 3}, 1, p.Magma))
	}

	// Water pool on a stone base, ringed by a glass dome.
	for x := 0; x <= 2; x++ {
		for z := 0; z <= 2; z++ {
			s.Add(core.NewCube(mgl32.Vec3{float32(x), 0, float32(z)}, 1, p.Stone))
		}
	}
	s.Add(core.NewCube(mgl32.Vec3{1, 1, 1}, 1, p.Water))
	s.Add(core.NewCube(mgl32.Vec3{1, 2, 1}, 1, p.Water))
	for i := 0; i < 8; i++ {
		rad := float64(i) * math.Pi / 4
		x := 1 + float32(math.Cos(rad))*1.5
		z := 1 + float32(math.Sin(rad))*1.5
		s.Add(core.NewCube(mgl32.Vec3{x, 3, z}, 0.5, p.Glass))
	}

	// Trees: oak trunks with a 3x3 leaf canopy.
	for _, pos := range [][2]float32{{7, 6}, {7, 2}, {-6, 6}, {2, 7}} {
		tx, tz := pos[0], pos[1]
		for y := 0; y <= 3; y++ {
			s.Add(core.NewCube(mgl32.Vec3{tx, float32(y), tz}, 1, p.Oak))
		}
		for dx := -1; dx <= 1; dx++ {
			for dz := -1; dz <= 1; dz++ {
				s.Add(core.NewCube(mgl32.Vec3{tx + float32(dx), 4, tz + float32(dz)}, 1, p.Leaves))
			}
		}
	}

	// Torches: small emissive cubes that light their surroundings.
	for _, pos := range [][3]float32{
		{-3, 1, -3}, {-3, 1, -8},
		{5, 1, -3}, {5, 5, -5},
		{-7, 1, 1}, {-7, 1, 5},
	} {
		s.Add(core.NewCube(mgl32.Vec3{pos[0], pos[1], pos[2]}, 0.3, p.Torch))
	}

	// Showcase blocks and spheres.
	s.Add(core.NewCube(mgl32.Vec3{-1, 0, 7}, 1, p.DiamondOre))
	s.Add(core.NewCube(mgl32.Vec3{-1, 0, -2}, 1, p.Magma))
	s.Add(core.NewSphere(mgl32.Vec3{3, 1.2, 5}, 1.2, p.Crystal))
	s.Add(core.NewSphere(mgl32.Vec3{-2, 0.8, 3}, 0.8, p.Mirror))

	s.Commit()
	return s
}

// DefaultCamera returns the orbit camera the diorama is framed for.
func DefaultCamera() *core.Camera {
	return core.NewCamera(
		mgl32.Vec3{0, 10, 13},
		mgl32.Vec3{0, 2, 0},
		mgl32.Vec3{0, 1, 0},
	)
}
