package render

import (
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/gekko3d/blockray/rt/core"
	"github.com/gekko3d/blockray/rt/trace"
)

// DefaultTileSize is the edge length of one unit of work. Tiles are small
// enough to balance load across workers and large enough to amortize channel
// traffic.
const DefaultTileSize = 32

type task struct {
	bounds image.Rectangle
	cam    *core.Camera
	fb     *Framebuffer
	wg     *sync.WaitGroup
}

// Dispatcher partitions the pixel grid into tiles and renders them on a
// fixed-size worker pool. Each worker owns its Tracer; tiles never overlap,
// so framebuffer writes need no locks.
type Dispatcher struct {
	tracers  []*trace.Tracer
	tasks    chan task
	tileSize int
	workers  int
	wgAll    sync.WaitGroup
}

// NewDispatcher starts the pool. workers <= 0 selects runtime.NumCPU.
func NewDispatcher(scene *core.Scene, cfg trace.Config, workers, tileSize int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	d := &Dispatcher{
		tasks:    make(chan task, workers*4),
		tileSize: tileSize,
		workers:  workers,
	}
	for i := 0; i < workers; i++ {
		tr := trace.New(scene, cfg)
		d.tracers = append(d.tracers, tr)
		d.wgAll.Add(1)
		go d.run(tr)
	}
	return d
}

func (d *Dispatcher) run(tr *trace.Tracer) {
	defer d.wgAll.Done()
	for t := range d.tasks {
		for y := t.bounds.Min.Y; y < t.bounds.Max.Y; y++ {
			for x := t.bounds.Min.X; x < t.bounds.Max.X; x++ {
				ray := t.cam.PrimaryRay(x, y, t.fb.W, t.fb.H)
				t.fb.Set(x, y, tr.CastRay(ray, 0))
			}
		}
		t.wg.Done()
	}
}

// RenderFrame traces every pixel of the framebuffer with the given camera
// state and blocks until the frame is complete. The returned duration is the
// frame's render time, the measurement point for performance logging.
func (d *Dispatcher) RenderFrame(cam *core.Camera, fb *Framebuffer) time.Duration {
	start := time.Now()

	for _, tr := range d.tracers {
		tr.ResetStats()
	}

	var wg sync.WaitGroup
	for y := 0; y < fb.H; y += d.tileSize {
		for x := 0; x < fb.W; x += d.tileSize {
			b := image.Rect(x, y, minInt(x+d.tileSize, fb.W), minInt(y+d.tileSize, fb.H))
			wg.Add(1)
			d.tasks <- task{bounds: b, cam: cam, fb: fb, wg: &wg}
		}
	}
	wg.Wait()

	return time.Since(start)
}

// FrameStats sums per-worker ray counts for the last completed frame.
func (d *Dispatcher) FrameStats() trace.Stats {
	var total trace.Stats
	for _, tr := range d.tracers {
		s := tr.Stats()
		total.Casts += s.Casts
		total.ShadowRays += s.ShadowRays
	}
	return total
}

// Workers returns the pool size.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// Close drains the pool. The dispatcher cannot be reused afterwards.
func (d *Dispatcher) Close() {
	close(d.tasks)
	d.wgAll.Wait()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
