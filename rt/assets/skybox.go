package assets

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Skybox samples a six-face cube map by ray direction: the dominant axis of
// the direction selects the face, the remaining two components index into it.
type Skybox struct {
	lib *Library

	Front, Back, Left, Right, Top, Bottom uuid.UUID
}

// LoadSkybox loads front/back/left/right/top/bottom PNG faces from dir.
func LoadSkybox(lib *Library, dir string) (*Skybox, error) {
	s := &Skybox{lib: lib}
	faces := []struct {
		name string
		id   *uuid.UUID
	}{
		{"front", &s.Front}, {"back", &s.Back},
		{"left", &s.Left}, {"right", &s.Right},
		{"top", &s.Top}, {"bottom", &s.Bottom},
	}
	for _, f := range faces {
		id, err := lib.Load(filepath.Join(dir, f.name+".png"))
		if err != nil {
			return nil, fmt.Errorf("skybox face %s: %w", f.name, err)
		}
		*f.id = id
	}
	return s, nil
}

func (s *Skybox) Sample(dir mgl32.Vec3) mgl32.Vec3 {
	ax, ay, az := abs(dir.X()), abs(dir.Y()), abs(dir.Z())

	var face uuid.UUID
	var u, v float32
	switch {
	case ax > ay && ax > az:
		if dir.X() > 0 {
			face = s.Right
			u = -dir.Z()/ax*0.5 + 0.5
		} else {
			face = s.Left
			u = dir.Z()/ax*0.5 + 0.5
		}
		v = -dir.Y()/ax*0.5 + 0.5
	case ay > az:
		u = dir.X()/ay*0.5 + 0.5
		if dir.Y() > 0 {
			face = s.Top
			v = -dir.Z()/ay*0.5 + 0.5
		} else {
			face = s.Bottom
			v = dir.Z()/ay*0.5 + 0.5
		}
	default:
		if dir.Z() > 0 {
			face = s.Front
			u = dir.X()/az*0.5 + 0.5
		} else {
			face = s.Back
			u = -dir.X()/az*0.5 + 0.5
		}
		v = -dir.Y()/az*0.5 + 0.5
	}

	if c, ok := s.lib.Sample(face, u, v); ok {
		return c
	}
	return mgl32.Vec3{1, 1, 1}
}

// GradientSky is the procedural fallback when no skybox is available: a
// banded gradient from ground green through a horizon line into sky blue.
type GradientSky struct{}

func (GradientSky) Sample(dir mgl32.Vec3) mgl32.Vec3 {
	t := (dir.Y() + 1.0) * 0.5

	green := mgl32.Vec3{0.1, 0.6, 0.2}
	white := mgl32.Vec3{1.0, 1.0, 1.0}
	blue := mgl32.Vec3{0.3, 0.5, 1.0}

	switch {
	case t < 0.54:
		k := t / 0.55
		return lerp(green, white, k)
	case t < 0.55:
		return white
	case t < 0.8:
		k := (t - 0.55) / 0.25
		return lerp(white, blue, k)
	default:
		return blue
	}
}

func lerp(a, b mgl32.Vec3, k float32) mgl32.Vec3 {
	return a.Mul(1 - k).Add(b.Mul(k))
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
