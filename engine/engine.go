package engine

import (
	"runtime"

	"github.com/bloeys/vgfb/assert"
	"github.com/bloeys/vgfb/gpu"
	"github.com/bloeys/vgfb/gpu/gogl"
	"github.com/bloeys/vgfb/input"
	"github.com/bloeys/vgfb/logging"
	"github.com/bloeys/vgfb/renderer"
	"github.com/bloeys/vgfb/timing"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	isInited = false
)

type Window struct {
	SDLWin         *sdl.Window
	GlCtx          sdl.GLContext
	EventCallbacks []func(sdl.Event)

	// Ctx is the renderer state of the GL context of this window
	Ctx *renderer.Context
}

func (w *Window) handleInputs() {

	input.EventLoopStart()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {

		//Fire callbacks
		for i := 0; i < len(w.EventCallbacks); i++ {
			w.EventCallbacks[i](event)
		}

		//Internal processing
		switch e := event.(type) {

		case *sdl.KeyboardEvent:
			input.HandleKeyboardEvent(e)

		case *sdl.WindowEvent:

			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				w.handleWindowResize()
			}

		case *sdl.QuitEvent:
			input.HandleQuitEvent(e)
		}
	}
}

func (w *Window) handleWindowResize() {

	fbWidth, fbHeight := w.SDLWin.GLGetDrawableSize()
	if fbWidth <= 0 || fbHeight <= 0 {
		return
	}

	w.Ctx.Funcs.Viewport(0, 0, fbWidth, fbHeight)
	input.HandleResize(fbWidth, fbHeight)
}

// DrawableSize is the size in pixels of the default framebuffer of the window
func (w *Window) DrawableSize() (width, height int32) {
	return w.SDLWin.GLGetDrawableSize()
}

// Destroy releases the renderer state, then the GL context and the window
func (w *Window) Destroy() error {

	if w.Ctx != nil {
		w.Ctx.Release()
		w.Ctx = nil
	}

	sdl.GLDeleteContext(w.GlCtx)
	return w.SDLWin.Destroy()
}

func Init() error {

	isInited = true

	runtime.LockOSThread()
	timing.Init()
	err := initSDL()

	return err
}

func initSDL() error {

	err := sdl.Init(sdl.INIT_TIMER | sdl.INIT_VIDEO)
	if err != nil {
		return err
	}

	sdl.ShowCursor(1)

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)

	sdl.GLSetAttribute(sdl.GL_RED_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_GREEN_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_BLUE_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_ALPHA_SIZE, 8)

	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	// Vector fills are drawn with the stencil buffer, so the window needs one too
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 8)

	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	return nil
}

func CreateOpenGLWindow(title string, x, y, width, height int32, flags WindowFlags, opts renderer.ContextOptions) (*Window, error) {
	return createWindow(title, x, y, width, height, WindowFlags_OPENGL|flags, opts)
}

func CreateOpenGLWindowCentered(title string, width, height int32, flags WindowFlags, opts renderer.ContextOptions) (*Window, error) {
	return createWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height, WindowFlags_OPENGL|flags, opts)
}

func createWindow(title string, x, y, width, height int32, flags WindowFlags, opts renderer.ContextOptions) (*Window, error) {

	assert.T(isInited, "engine.Init() was not called!")

	sdlWin, err := sdl.CreateWindow(title, x, y, width, height, uint32(flags))
	if err != nil {
		return nil, err
	}

	win := &Window{
		SDLWin:         sdlWin,
		EventCallbacks: make([]func(sdl.Event), 0),
	}

	win.GlCtx, err = sdlWin.GLCreateContext()
	if err != nil {
		sdlWin.Destroy()
		return nil, err
	}

	win.Ctx, err = initOpenGL(opts)
	if err != nil {
		sdl.GLDeleteContext(win.GlCtx)
		sdlWin.Destroy()
		return nil, err
	}

	// Get rid of the blinding white startup screen (unfortunately there is still one frame of white)
	win.Ctx.Funcs.ClearColor(0, 0, 0, 1)
	win.Ctx.Funcs.Clear(gpu.COLOR_BUFFER_BIT | gpu.DEPTH_BUFFER_BIT | gpu.STENCIL_BUFFER_BIT)
	sdlWin.GLSwap()

	return win, nil
}

func initOpenGL(opts renderer.ContextOptions) (*renderer.Context, error) {

	funcs, err := gogl.New()
	if err != nil {
		return nil, err
	}

	ctx, err := renderer.NewContext(funcs, opts)
	if err != nil {
		return nil, err
	}

	logging.InfoLog.Printf("OpenGL version: %s\n", funcs.GetString(gpu.VERSION))

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	if ctx.Caps.Multisample {
		gl.Enable(gl.MULTISAMPLE)
	}

	return ctx, nil
}

func SetSrgbFramebuffer(isEnabled bool) {

	if isEnabled {
		gl.Enable(gl.FRAMEBUFFER_SRGB)
	} else {
		gl.Disable(gl.FRAMEBUFFER_SRGB)
	}
}

func SetVSync(enabled bool) {

	var err error
	if enabled {
		err = sdl.GLSetSwapInterval(1)
	} else {
		err = sdl.GLSetSwapInterval(0)
	}

	if err != nil {
		logging.WarnLog.Printf("Failed to set vsync=%v. Err=%v\n", enabled, err)
	}
}

func SetMSAA(isEnabled bool) {

	if isEnabled {
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.Disable(gl.MULTISAMPLE)
	}
}
