package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Light is a point emitter.
type Light struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
}

func NewLight(position, color mgl32.Vec3, intensity float32) Light {
	return Light{Position: position, Color: color, Intensity: intensity}
}

// Sun drives the day/night cycle. Advance runs once per frame, before
// dispatch; every pixel of that frame then observes the same frozen light.
type Sun struct {
	TimeOfDay float32 // radians, wraps at 2π
	Speed     float32 // radians per second
	Distance  float32
}

func NewSun() *Sun {
	return &Sun{Speed: 0.6, Distance: 20.0}
}

// Advance sweeps the sun by dt seconds of wall time.
func (s *Sun) Advance(dt float32) {
	s.TimeOfDay += s.Speed * dt
	if s.TimeOfDay > 2*math.Pi {
		s.TimeOfDay -= 2 * math.Pi
	}
}

// Daytime reports whether the sun is above the horizon.
func (s *Sun) Daytime() bool {
	return math.Sin(float64(s.TimeOfDay)) > 0
}

// Light computes the directional sun light for the current time of day. The
// sweep is continuous; intensity never drops below a moonlight floor.
func (s *Sun) Light() Light {
	sin := float32(math.Sin(float64(s.TimeOfDay)))
	cos := float32(math.Cos(float64(s.TimeOfDay)))

	pos := mgl32.Vec3{
		cos * s.Distance,
		sin*15.0 + 5.0,
		sin * s.Distance * 0.5,
	}

	intensity := sin*0.5 + 0.5
	if intensity < 0.2 {
		intensity = 0.2
	}

	color := mgl32.Vec3{1.0, 0.95, 0.8} // day
	if sin <= 0 {
		color = mgl32.Vec3{0.4, 0.4, 0.8} // night
	}

	return NewLight(pos, color, intensity)
}
