// Package assets owns decoded texture data. Materials reference textures by
// handle and sample by (u,v); file decoding never happens on the hot path.
package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// Texture is a decoded pixel grid with channels normalized to [0,1].
type Texture struct {
	W, H int
	Pix  []mgl32.Vec3
}

// Library maps texture handles to decoded data. Populated at startup, then
// read-only while frames render; no locking is needed during tracing.
type Library struct {
	textures map[uuid.UUID]*Texture
	byPath   map[string]uuid.UUID
}

func NewLibrary() *Library {
	return &Library{
		textures: make(map[uuid.UUID]*Texture),
		byPath:   make(map[string]uuid.UUID),
	}
}

// Load decodes an image file and registers it under a fresh handle. Loading
// the same path twice returns the original handle.
func (l *Library) Load(path string) (uuid.UUID, error) {
	if id, ok := l.byPath[path]; ok {
		return id, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return uuid.Nil, fmt.Errorf("open texture %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return uuid.Nil, fmt.Errorf("decode texture %s: %w", path, err)
	}

	id := l.Register(img)
	l.byPath[path] = id
	return id, nil
}

// Register adds an already-decoded image under a fresh handle. Used by tests
// and procedural textures.
func (l *Library) Register(img image.Image) uuid.UUID {
	b := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	tex := &Texture{W: b.Dx(), H: b.Dy(), Pix: make([]mgl32.Vec3, b.Dx()*b.Dy())}
	for y := 0; y < tex.H; y++ {
		for x := 0; x < tex.W; x++ {
			i := rgba.PixOffset(x, y)
			tex.Pix[y*tex.W+x] = mgl32.Vec3{
				float32(rgba.Pix[i+0]) / 255.0,
				float32(rgba.Pix[i+1]) / 255.0,
				float32(rgba.Pix[i+2]) / 255.0,
			}
		}
	}

	id := uuid.New()
	l.textures[id] = tex
	return id
}

// Sample returns the texel at clamped (u,v). Unknown handles report false so
// materials can fall back to their solid color.
func (l *Library) Sample(id uuid.UUID, u, v float32) (mgl32.Vec3, bool) {
	tex, ok := l.textures[id]
	if !ok {
		return mgl32.Vec3{}, false
	}
	return tex.at(u, v), true
}

// SampleNormal decodes a tangent-space normal from the map at (u,v): RG are
// remapped from [0,1] to [-1,1], B is kept as the up component, then the
// vector is normalized.
func (l *Library) SampleNormal(id uuid.UUID, u, v float32) (mgl32.Vec3, bool) {
	tex, ok := l.textures[id]
	if !ok {
		return mgl32.Vec3{}, false
	}
	c := tex.at(u, v)
	n := mgl32.Vec3{c.X()*2 - 1, c.Y()*2 - 1, c.Z()}
	if n.Dot(n) == 0 {
		return mgl32.Vec3{}, false
	}
	return n.Normalize(), true
}

func (t *Texture) at(u, v float32) mgl32.Vec3 {
	x := int(clamp01(u) * float32(t.W-1))
	y := int(clamp01(v) * float32(t.H-1))
	return t.Pix[y*t.W+x]
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
