package render

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// Framebuffer is a W×H grid of RGBA8 pixels, fully overwritten each frame.
// Workers write disjoint tiles, so no synchronization guards Pix.
type Framebuffer struct {
	W, H int
	Pix  []uint8
}

func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{W: w, H: h, Pix: make([]uint8, w*h*4)}
}

// Set writes one pixel. The color is expected pre-clamped to [0,1] by the
// kernel; out-of-range values are clamped again here for safety of direct
// writers.
func (f *Framebuffer) Set(x, y int, c mgl32.Vec3) {
	i := (y*f.W + x) * 4
	f.Pix[i+0] = channelByte(c.X())
	f.Pix[i+1] = channelByte(c.Y())
	f.Pix[i+2] = channelByte(c.Z())
	f.Pix[i+3] = 255
}

// At reads one pixel back as a color. Test helper and inspection hook.
func (f *Framebuffer) At(x, y int) mgl32.Vec3 {
	i := (y*f.W + x) * 4
	return mgl32.Vec3{
		float32(f.Pix[i+0]) / 255.0,
		float32(f.Pix[i+1]) / 255.0,
		float32(f.Pix[i+2]) / 255.0,
	}
}

// Image wraps the pixel buffer as an image.RGBA without copying.
func (f *Framebuffer) Image() *image.RGBA {
	return &image.RGBA{Pix: f.Pix, Stride: f.W * 4, Rect: image.Rect(0, 0, f.W, f.H)}
}

func channelByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// Upscale resamples the framebuffer into dst. Tracing at a reduced internal
// resolution and scaling up for presentation trades sharpness for frame rate.
func (f *Framebuffer) Upscale(dst *image.RGBA) {
	src := f.Image()
	if dst.Rect == src.Rect {
		copy(dst.Pix, src.Pix)
		return
	}
	draw.ApproxBiLinear.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
}
