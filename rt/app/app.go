// Package app drives the interactive renderer: it owns the window surface,
// advances the per-frame state (sun, camera), runs the CPU dispatcher and
// blits the finished framebuffer to the screen through webgpu. Everything
// here is a collaborator around the kernel packages, never part of them.
package app

import (
	"time"

	"github.com/gekko3d/blockray/rt/core"
	"github.com/gekko3d/blockray/rt/render"
	"github.com/gekko3d/blockray/rt/shaders"
	"github.com/gekko3d/blockray/rt/trace"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Options configure the interactive app.
type Options struct {
	Width       int
	Height      int
	RenderScale float32 // internal trace resolution relative to the window
	TraceConfig trace.Config
	Workers     int
	AutoRotate  bool
	PerfLogPath string
	Log         Logger
}

func DefaultOptions() Options {
	return Options{
		Width:       640,
		Height:      480,
		RenderScale: 1.0,
		TraceConfig: trace.DefaultConfig(),
		AutoRotate:  true,
	}
}

type App struct {
	Window *glfw.Window

	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	RenderPipeline *wgpu.RenderPipeline
	FrameTexture   *wgpu.Texture
	FrameView      *wgpu.TextureView
	Sampler        *wgpu.Sampler
	RenderBG       *wgpu.BindGroup

	Scene      *core.Scene
	Camera     *core.Camera
	Sun        *core.Sun
	Dispatcher *render.Dispatcher
	Frame      *render.Framebuffer

	Profiler *Profiler
	PerfLog  *PerfLog
	Log      Logger

	AutoRotate bool

	opts     Options
	lastTime float64

	FrameCount int
	FPS        float64
	fpsTime    float64
	lastRender float64
}

func NewApp(window *glfw.Window, scene *core.Scene, camera *core.Camera, opts Options) *App {
	if opts.Log == nil {
		opts.Log = NewNopLogger()
	}
	if opts.RenderScale <= 0 || opts.RenderScale > 1 {
		opts.RenderScale = 1.0
	}
	return &App{
		Window:     window,
		Scene:      scene,
		Camera:     camera,
		Sun:        core.NewSun(),
		Profiler:   NewProfiler(),
		Log:        opts.Log,
		AutoRotate: opts.AutoRotate,
		opts:       opts,
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)

	surface := a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))
	a.Surface = surface

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, a.Device, a.Config)

	fsModule, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Fullscreen VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.FullscreenWGSL},
	})
	if err != nil {
		return err
	}

	a.RenderPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Blit Pipeline",
		Vertex: wgpu.VertexState{
			Module:     fsModule,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     fsModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}

	a.Sampler, err = a.Device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return err
	}

	a.Dispatcher = render.NewDispatcher(a.Scene, a.opts.TraceConfig, a.opts.Workers, render.DefaultTileSize)
	a.setupFrameResources(width, height)

	if a.opts.PerfLogPath != "" {
		a.PerfLog, err = NewPerfLog(a.opts.PerfLogPath)
		if err != nil {
			a.Log.Warnf("performance log disabled: %v", err)
		}
	}

	a.lastTime = glfw.GetTime()
	a.Log.Infof("renderer ready: %dx%d window, %dx%d trace buffer, %d workers",
		width, height, a.Frame.W, a.Frame.H, a.Dispatcher.Workers())
	return nil
}

// setupFrameResources sizes the CPU framebuffer and its GPU upload texture to
// the window, honoring the internal render scale.
func (a *App) setupFrameResources(w, h int) {
	if w == 0 || h == 0 {
		return
	}

	tw := int(float32(w) * a.opts.RenderScale)
	th := int(float32(h) * a.opts.RenderScale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	a.Frame = render.NewFramebuffer(tw, th)

	if a.FrameTexture != nil {
		a.FrameTexture.Release()
	}

	var err error
	a.FrameTexture, err = a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Frame Tex",
		Size:          wgpu.Extent3D{Width: uint32(tw), Height: uint32(th), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		SampleCount:   1,
	})
	if err != nil {
		panic(err)
	}
	a.FrameView, err = a.FrameTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	a.RenderBG, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: a.RenderPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: a.FrameView},
			{Binding: 1, Sampler: a.Sampler},
		},
	})
	if err != nil {
		panic(err)
	}
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
		a.setupFrameResources(w, h)
	}
}

// Update advances the per-frame mutable state: elapsed time, sun position and
// the auto-rotating camera. It runs before dispatch, so all pixels of the
// frame observe the same snapshot.
func (a *App) Update() {
	now := glfw.GetTime()
	dt := float32(now - a.lastTime)
	a.lastTime = now

	a.Sun.Advance(dt)
	sun := a.Sun.Light()
	if len(a.Scene.Lights) == 0 {
		a.Scene.AddLight(sun)
	} else {
		a.Scene.Lights[0] = sun
	}

	if a.AutoRotate {
		a.Camera.Orbit(0.3*dt, 0)
	}
}

// Render traces the frame on the CPU pool, uploads it and blits to the
// surface.
func (a *App) Render() {
	a.Profiler.BeginScope("frame")

	renderTime := a.Dispatcher.RenderFrame(a.Camera, a.Frame)
	a.Profiler.SetScope("trace", renderTime)
	stats := a.Dispatcher.FrameStats()
	a.Profiler.SetCount("casts", stats.Casts)
	a.Profiler.SetCount("shadow_rays", stats.ShadowRays)

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	a.Queue.WriteTexture(a.FrameTexture.AsImageCopy(), a.Frame.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(a.Frame.W * 4),
		RowsPerImage: uint32(a.Frame.H),
	}, &wgpu.Extent3D{Width: uint32(a.Frame.W), Height: uint32(a.Frame.H), DepthOrArrayLayers: 1})

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rPass.SetPipeline(a.RenderPipeline)
	rPass.SetBindGroup(0, a.RenderBG, nil)
	rPass.Draw(3, 1, 0, 0)
	if err := rPass.End(); err != nil {
		a.Log.Errorf("Render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("Encoder Finish failed: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	a.Profiler.EndScope("frame")
	a.updateFPS(renderTime)
}

func (a *App) updateFPS(renderTime time.Duration) {
	now := glfw.GetTime()
	if a.lastRender > 0 {
		a.FrameCount++
		a.fpsTime += now - a.lastRender
		if a.fpsTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.fpsTime
			a.FrameCount = 0
			a.fpsTime = 0
			if a.Log.DebugEnabled() {
				a.Log.Debugf("%s", a.Profiler.GetStatsString())
			}
			a.Log.Infof("FPS: %.0f | Render Time: %dms | %s",
				a.FPS, renderTime.Milliseconds(), a.daylightLabel())
		}
	}
	a.lastRender = now

	a.PerfLog.Record(a.FPS, renderTime)
}

func (a *App) daylightLabel() string {
	if a.Sun.Daytime() {
		return "Day"
	}
	return "Night"
}

// Close releases the CPU pool and the perf log. GPU objects die with the
// process.
func (a *App) Close() {
	if a.Dispatcher != nil {
		a.Dispatcher.Close()
	}
	if err := a.PerfLog.Close(); err != nil {
		a.Log.Warnf("closing perf log: %v", err)
	}
}
