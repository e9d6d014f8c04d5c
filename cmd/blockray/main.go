package main

import (
	"flag"
	"image"
	"image/png"
	"math"
	"os"
	"runtime"

	"github.com/gekko3d/blockray/rt/app"
	"github.com/gekko3d/blockray/rt/assets"
	"github.com/gekko3d/blockray/rt/core"
	"github.com/gekko3d/blockray/rt/render"
	"github.com/gekko3d/blockray/rt/trace"
	"github.com/gekko3d/blockray/rt/world"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

const (
	rotationSpeed = math.Pi / 100
	zoomSpeed     = 0.15
	verticalSpeed = 0.15
)

func main() {
	width := flag.Int("width", 640, "Window width")
	height := flag.Int("height", 480, "Window height")
	scale := flag.Float64("scale", 1.0, "Internal render scale (0..1]")
	depth := flag.Int("depth", 3, "Maximum ray recursion depth")
	workers := flag.Int("workers", 0, "Render workers (0 = all CPUs)")
	assetsDir := flag.String("assets", "assets", "Texture directory")
	perfLog := flag.String("perf-log", "", "CSV performance log path")
	snapshot := flag.String("snapshot", "", "Render one frame to PNG and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger := app.NewDefaultLogger("blockray", *debug)

	lib := assets.NewLibrary()
	palette, missing := world.NewPalette(lib, *assetsDir)
	for _, name := range missing {
		logger.Warnf("texture %q missing, using solid color", name)
	}

	scene := world.BuildDiorama(palette)
	if sky, err := assets.LoadSkybox(lib, *assetsDir+"/skybox"); err == nil {
		scene.Env = sky
	} else {
		logger.Warnf("skybox unavailable (%v), using gradient sky", err)
		scene.Env = assets.GradientSky{}
	}
	scene.Textures = lib

	camera := world.DefaultCamera()
	cfg := trace.Config{MaxDepth: *depth}

	if *snapshot != "" {
		if err := renderSnapshot(scene, camera, cfg, *width, *height, *workers, *snapshot); err != nil {
			logger.Errorf("snapshot: %v", err)
			os.Exit(1)
		}
		logger.Infof("wrote %s", *snapshot)
		return
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(*width, *height, "Blockray", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	opts := app.DefaultOptions()
	opts.Width = *width
	opts.Height = *height
	opts.RenderScale = float32(*scale)
	opts.TraceConfig = cfg
	opts.Workers = *workers
	opts.PerfLogPath = *perfLog
	opts.Log = logger

	application := app.NewApp(window, scene, camera, opts)
	if err := application.Init(); err != nil {
		panic(err)
	}
	defer application.Close()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeySpace:
			application.AutoRotate = !application.AutoRotate
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		handleCameraKeys(window, camera)

		application.Update()
		application.Render()
	}
}

// handleCameraKeys maps held keys to orbit camera motion, polled once per
// frame before the state freeze.
func handleCameraKeys(w *glfw.Window, cam *core.Camera) {
	if w.GetKey(glfw.KeyLeft) == glfw.Press {
		cam.Orbit(rotationSpeed, 0)
	}
	if w.GetKey(glfw.KeyRight) == glfw.Press {
		cam.Orbit(-rotationSpeed, 0)
	}
	if w.GetKey(glfw.KeyUp) == glfw.Press {
		cam.Orbit(0, -rotationSpeed)
	}
	if w.GetKey(glfw.KeyDown) == glfw.Press {
		cam.Orbit(0, rotationSpeed)
	}
	if w.GetKey(glfw.KeyD) == glfw.Press {
		cam.Zoom(zoomSpeed)
	}
	if w.GetKey(glfw.KeyA) == glfw.Press {
		cam.Zoom(-zoomSpeed)
	}
	if w.GetKey(glfw.KeyW) == glfw.Press {
		cam.Elevate(verticalSpeed)
	}
	if w.GetKey(glfw.KeyS) == glfw.Press {
		cam.Elevate(-verticalSpeed)
	}
}

// renderSnapshot traces a single frame headless and writes it as PNG.
func renderSnapshot(scene *core.Scene, cam *core.Camera, cfg trace.Config, w, h, workers int, path string) error {
	sun := core.NewSun()
	sun.TimeOfDay = float32(math.Pi / 3) // mid-morning
	scene.AddLight(sun.Light())

	d := render.NewDispatcher(scene, cfg, workers, render.DefaultTileSize)
	defer d.Close()

	fb := render.NewFramebuffer(w, h)
	d.RenderFrame(cam, fb)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	fb.Upscale(out)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}
