package main

import (
	"flag"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/vgfb/buffers"
	"github.com/bloeys/vgfb/config"
	"github.com/bloeys/vgfb/engine"
	"github.com/bloeys/vgfb/gpu"
	"github.com/bloeys/vgfb/input"
	"github.com/bloeys/vgfb/logging"
	"github.com/bloeys/vgfb/renderer"
	"github.com/bloeys/vgfb/timing"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	configPath = flag.String("config", config.DefaultPath, "path of the toml config file")

	clearColorA = gglm.NewVec4(0.95, 0.35, 0.2, 1)
	clearColorB = gglm.NewVec4(0.1, 0.3, 0.85, 1)
)

type Demo struct {
	Cfg config.Config
	Win *engine.Window
	Ctx *renderer.Context

	// MsaaFbo is nil when multisampling is off, in which case drawing goes straight to ResolveFbo
	MsaaFbo    *buffers.Framebuffer
	ResolveFbo *buffers.Framebuffer

	WinWidth  int32
	WinHeight int32
}

func main() {

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to load config. Err:", err)
	}

	//Init engine
	err = engine.Init()
	if err != nil {
		logging.ErrLog.Fatalln("Failed to init engine. Err:", err)
	}

	//Create window
	window, err := engine.CreateOpenGLWindowCentered(
		cfg.Window.Title,
		cfg.Window.Width,
		cfg.Window.Height,
		engine.WindowFlags_RESIZABLE|engine.WindowFlags_ALLOW_HIGHDPI,
		renderer.ContextOptions{
			Samples:            cfg.Framebuffer.Samples,
			DisableMultisample: !cfg.Framebuffer.Multisample,
		},
	)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to create window. Err: ", err)
	}
	defer window.Destroy()

	engine.SetVSync(cfg.Window.VSync)

	w, h := window.DrawableSize()
	demo := &Demo{
		Cfg:       cfg,
		Win:       window,
		Ctx:       window.Ctx,
		WinWidth:  w,
		WinHeight: h,
	}

	engine.Run(demo, window)
}

func (d *Demo) Init() {

	if err := d.initFbos(); err != nil {
		logging.ErrLog.Printf("Failed to create framebuffers. Err=%v\n", err)
		engine.Quit()
	}
}

func (d *Demo) initFbos() error {

	d.deleteFbos()

	fbCfg := &d.Cfg.Framebuffer

	flags := buffers.FramebufferFlags_None
	if fbCfg.NoRenderbuffer {
		flags.Set(buffers.FramebufferFlags_NoRenderbuffer)
	}

	if fbCfg.Multisample && d.Ctx.Caps.Multisample {

		msaaFbo, err := buffers.NewFramebuffer(d.Ctx, fbCfg.Width, fbCfg.Height, flags|buffers.FramebufferFlags_Multisample)
		if err != nil {
			return err
		}

		// A multisampled framebuffer can silently end up single sampled
		if msaaFbo.Multisampled {
			d.MsaaFbo = msaaFbo
		} else {
			msaaFbo.Delete()
		}
	}

	// The resolve target only receives blits, so it needs no stencil
	resolveFbo, err := buffers.NewFramebuffer(d.Ctx, fbCfg.Width, fbCfg.Height, buffers.FramebufferFlags_NoRenderbuffer)
	if err != nil {
		d.deleteFbos()
		return err
	}
	d.ResolveFbo = resolveFbo

	logging.InfoLog.Printf("Created framebuffers: msaa=%v size=%dx%d\n", d.MsaaFbo != nil, fbCfg.Width, fbCfg.Height)
	return nil
}

func (d *Demo) deleteFbos() {
	d.MsaaFbo.Delete()
	d.ResolveFbo.Delete()
	d.MsaaFbo = nil
	d.ResolveFbo = nil
}

func (d *Demo) Update() {

	if input.KeyClicked(sdl.K_ESCAPE) {
		engine.Quit()
		return
	}

	if w, h, ok := input.Resized(); ok {
		d.WinWidth = w
		d.WinHeight = h
	}

	if input.KeyClicked(sdl.K_s) {
		if err := d.saveSnapshot(); err != nil {
			logging.ErrLog.Printf("Failed to save snapshot. Err=%v\n", err)
		}
	}

	// Toggling the renderbuffer recreates the framebuffers
	if input.KeyClicked(sdl.K_r) {

		d.Cfg.Framebuffer.NoRenderbuffer = !d.Cfg.Framebuffer.NoRenderbuffer
		if err := d.initFbos(); err != nil {
			logging.ErrLog.Printf("Failed to recreate framebuffers. Err=%v\n", err)
			engine.Quit()
		}
	}
}

func (d *Demo) Render() {

	if d.ResolveFbo == nil {
		return
	}

	c := lerpColor(&clearColorA, &clearColorB, 0.5+0.5*float32(math.Sin(float64(timing.ElapsedTime()))))

	drawFbo := d.ResolveFbo
	if d.MsaaFbo != nil {
		drawFbo = d.MsaaFbo
	}

	drawFbo.BindWithViewport()
	drawFbo.Clear(c.Data[0], c.Data[1], c.Data[2], c.Data[3])
	drawFbo.UnBindWithViewport(d.WinWidth, d.WinHeight)

	if d.MsaaFbo != nil {
		if err := buffers.Blit(d.Ctx, d.MsaaFbo, d.ResolveFbo, gpu.NEAREST); err != nil {
			logging.ErrLog.Printf("Failed to resolve msaa framebuffer. Err=%v\n", err)
		}
	}

	d.Ctx.Funcs.ClearColor(0, 0, 0, 1)
	d.Ctx.Funcs.Clear(gpu.COLOR_BUFFER_BIT)

	dst := letterbox(d.ResolveFbo.Width, d.ResolveFbo.Height, d.WinWidth, d.WinHeight)
	if err := buffers.BlitRect(d.Ctx, d.ResolveFbo, nil, dst, gpu.LINEAR); err != nil {
		logging.ErrLog.Printf("Failed to present framebuffer. Err=%v\n", err)
	}
}

func (d *Demo) saveSnapshot() error {

	img, err := d.ResolveFbo.ReadPixels()
	if err != nil {
		return err
	}

	f, err := os.Create(d.Cfg.SnapshotPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}

	logging.InfoLog.Printf("Saved snapshot to '%s'\n", d.Cfg.SnapshotPath)
	return nil
}

func (d *Demo) FrameEnd() {
}

func (d *Demo) DeInit() {
	d.deleteFbos()
}

func lerpColor(a, b *gglm.Vec4, t float32) gglm.Vec4 {

	var out gglm.Vec4
	for i := 0; i < 4; i++ {
		out.Data[i] = a.Data[i] + (b.Data[i]-a.Data[i])*t
	}

	return out
}

// letterbox fits a srcW*srcH image inside dstW*dstH, keeping its aspect ratio and centering it
func letterbox(srcW, srcH, dstW, dstH int32) image.Rectangle {

	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rectangle{}
	}

	src := gglm.NewVec2(float32(srcW), float32(srcH))
	dst := gglm.NewVec2(float32(dstW), float32(dstH))

	scale := min(dst.Data[0]/src.Data[0], dst.Data[1]/src.Data[1])
	size := gglm.NewVec2(src.Data[0]*scale, src.Data[1]*scale)
	offset := gglm.NewVec2((dst.Data[0]-size.Data[0])/2, (dst.Data[1]-size.Data[1])/2)

	x0, y0 := int(offset.Data[0]), int(offset.Data[1])
	return image.Rect(x0, y0, x0+int(size.Data[0]), y0+int(size.Data[1]))
}
