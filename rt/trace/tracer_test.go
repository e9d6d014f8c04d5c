package trace

import (
	"math"
	"testing"

	"github.com/gekko3d/blockray/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

func approxVec(a, b mgl32.Vec3, eps float32) bool {
	d := a.Sub(b)
	return d.Dot(d) < eps*eps
}

func TestEmptySceneReturnsEnvironment(t *testing.T) {
	env := mgl32.Vec3{0.25, 0.5, 0.75}
	s := core.NewScene()
	s.Env = core.SolidSky{Color: env}
	s.Commit()

	tr := New(s, DefaultConfig())
	dirs := []mgl32.Vec3{
		{0, 0, -1}, {0, 1, 0}, {1, 0, 0}, {-1, -1, -1}, {0.3, -0.2, 0.9},
	}
	for _, d := range dirs {
		got := tr.CastRay(core.NewRay(mgl32.Vec3{}, d), 0)
		if got != env {
			t.Errorf("dir %v: got %v, want environment %v", d, got, env)
		}
	}
}

// litSphereScene is one matte sphere at the origin lit by a single light on
// the +X axis.
func litSphereScene() *core.Scene {
	s := core.NewScene()
	s.Add(core.NewSphere(mgl32.Vec3{0, 0, 0}, 1, core.Material{
		Diffuse:     mgl32.Vec3{1, 0, 0},
		Albedo:      [2]float32{1.0, 0.0},
		SpecularExp: 1,
	}))
	s.AddLight(core.NewLight(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{1, 1, 1}, 1.0))
	s.Commit()
	return s
}

func TestLambertianBrightness(t *testing.T) {
	s := litSphereScene()
	tr := New(s, DefaultConfig())

	// Point facing the light.
	lit := tr.CastRay(core.NewRay(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{-1, 0, 0}), 0)
	// Grazing point near the terminator.
	grazing := tr.CastRay(core.NewRay(mgl32.Vec3{0.05, 0, 5}, mgl32.Vec3{0, 0, -1}), 0)
	// Far side: fully self-shadowed.
	dark := tr.CastRay(core.NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{1, 0, 0}), 0)

	if lit.X() <= grazing.X() {
		t.Errorf("facing point (%f) should be brighter than grazing point (%f)", lit.X(), grazing.X())
	}
	if dark != (mgl32.Vec3{}) {
		t.Errorf("occluded far side should have zero light contribution, got %v", dark)
	}
}

func TestHardShadow(t *testing.T) {
	s := core.NewScene()
	matte := core.Material{Diffuse: mgl32.Vec3{1, 1, 1}, Albedo: [2]float32{1, 0}, SpecularExp: 1}
	// Floor below, blocker between floor and light.
	s.Add(core.NewCube(mgl32.Vec3{0, -2, 0}, 2, matte))
	s.Add(core.NewCube(mgl32.Vec3{0, 2, 0}, 2, matte))
	s.AddLight(core.NewLight(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{1, 1, 1}, 1.0))
	s.Commit()

	tr := New(s, DefaultConfig())
	// Looking at the floor top through the gap from the side.
	shadowed := tr.CastRay(core.NewRay(mgl32.Vec3{0, -0.5, 5}, mgl32.Vec3{0, -0.1, -1}), 0)
	if shadowed != (mgl32.Vec3{}) {
		t.Errorf("blocked light must contribute zero, got %v", shadowed)
	}
}

func TestEmissiveSurfaceIsVisible(t *testing.T) {
	s := core.NewScene()
	emission := mgl32.Vec3{1.5, 0.5, 0.1}
	s.Add(core.NewCube(mgl32.Vec3{0, 0, 0}, 1, core.Material{Emission: emission}))
	s.Commit()

	tr := New(s, DefaultConfig())
	got := tr.CastRay(core.NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}), 0)
	want := core.ClampColor(emission)
	if !approxVec(got, want, 1e-5) {
		t.Errorf("emissive cube = %v, want %v", got, want)
	}
}

func TestEmissiveNeighborLights(t *testing.T) {
	s := core.NewScene()
	matte := core.Material{Diffuse: mgl32.Vec3{1, 1, 1}, Albedo: [2]float32{1, 0}, SpecularExp: 1}
	s.Add(core.NewCube(mgl32.Vec3{0, -1, 0}, 2, matte))
	// A torch floating above the floor; no explicit scene lights at all.
	s.Add(core.NewCube(mgl32.Vec3{0, 2, 0}, 0.3, core.Material{Emission: mgl32.Vec3{2, 1.5, 0.5}}))
	s.Commit()

	tr := New(s, DefaultConfig())
	got := tr.CastRay(core.NewRay(mgl32.Vec3{1, 3, 1}, core.SafeNormalize(mgl32.Vec3{-0.3, -1, -0.3})), 0)
	if got == (mgl32.Vec3{}) {
		t.Error("floor under a torch should receive light from the emissive cube")
	}
}

func TestMirrorReflectionSymmetry(t *testing.T) {
	// A mirror wall at normal incidence: the reflected color equals the
	// environment behind the viewer, scaled by reflectivity.
	s := core.NewScene()
	s.Env = core.SolidSky{Color: mgl32.Vec3{0.2, 0.4, 0.6}}
	s.Add(core.NewCube(mgl32.Vec3{0, 0, -3}, 2, core.Material{
		Diffuse: mgl32.Vec3{0, 0, 0}, Albedo: [2]float32{0, 0},
		SpecularExp: 1, Reflectivity: 1.0,
	}))
	s.Commit()

	tr := New(s, DefaultConfig())
	got := tr.CastRay(core.NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}), 0)

	// The reflected ray travels back through empty space into the sky.
	want := mgl32.Vec3{0.2, 0.4, 0.6}
	if !approxVec(got, want, 1e-4) {
		t.Errorf("mirror at normal incidence = %v, want environment %v", got, want)
	}
}

func TestDepthCapBoundsRecursion(t *testing.T) {
	// Two facing mirrors that also refract: every bounce spawns two rays,
	// the worst case. The cast count must stay within sum of 2^d.
	s := core.NewScene()
	trap := core.Material{
		Albedo: [2]float32{0, 0}, SpecularExp: 1,
		Reflectivity: 1.0, Transparency: 1.0, RefractiveIndex: 1.5,
	}
	s.Add(core.NewCube(mgl32.Vec3{0, 0, -3}, 2, trap))
	s.Add(core.NewCube(mgl32.Vec3{0, 0, 3}, 2, trap))
	s.Commit()

	cfg := Config{MaxDepth: 3, EmissiveLimit: 5}
	tr := New(s, cfg)
	got := tr.CastRay(core.NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}), 0)

	// Finite, clamped output.
	for i := 0; i < 3; i++ {
		if got[i] < 0 || got[i] > 1 || got[i] != got[i] {
			t.Fatalf("unbounded or NaN channel in %v", got)
		}
	}

	// 1 + 2 + 4 + 8 = 2^(depth+1) - 1 casts at most.
	limit := int(math.Pow(2, float64(cfg.MaxDepth+1))) - 1
	if casts := tr.Stats().Casts; casts > limit {
		t.Errorf("cast count %d exceeds bound %d", casts, limit)
	}
}

func TestStatsReset(t *testing.T) {
	s := litSphereScene()
	tr := New(s, DefaultConfig())
	tr.CastRay(core.NewRay(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{-1, 0, 0}), 0)
	if tr.Stats().Casts == 0 {
		t.Fatal("expected cast count after tracing")
	}
	tr.ResetStats()
	if tr.Stats() != (Stats{}) {
		t.Errorf("stats not cleared: %+v", tr.Stats())
	}
}

func TestOutputAlwaysClamped(t *testing.T) {
	s := core.NewScene()
	s.Add(core.NewCube(mgl32.Vec3{0, 0, 0}, 2, core.Material{
		Diffuse: mgl32.Vec3{1, 1, 1}, Albedo: [2]float32{5, 5},
		SpecularExp: 2, Emission: mgl32.Vec3{3, 3, 3},
	}))
	s.AddLight(core.NewLight(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{1, 1, 1}, 10))
	s.Commit()

	tr := New(s, DefaultConfig())
	got := tr.CastRay(core.NewRay(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0}), 0)
	if got.X() > 1 || got.Y() > 1 || got.Z() > 1 {
		t.Errorf("color not clamped: %v", got)
	}
}
