// Package renderer holds the per-context state shared by the vector renderer's GL helpers.
package renderer

import (
	"github.com/bloeys/vgfb/gpu"
	"github.com/bloeys/vgfb/images"
	"github.com/bloeys/vgfb/logging"
)

// Images is the image library used to back render targets with textures.
// A negative id means no image.
type Images interface {
	CreateImageRGBA(width, height int32, flags images.ImageFlags, data []byte) (int, error)
	ImageHandle(id int) uint32
	// ImageTarget is the texture target the image was created with, which may be
	// TEXTURE_2D even for multisample requests the library can't serve
	ImageTarget(id int) gpu.Enum
	DeleteImage(id int)
}

var _ Images = &images.Store{}

type ContextOptions struct {
	// Samples overrides the sample count of multisampled attachments. Zero keeps the default.
	Samples int32

	// DisableMultisample makes multisample requests fall back to regular attachments
	DisableMultisample bool
}

// Context is one GL context together with the state the helpers keep about it.
// It must only be used from the thread the GL context is current on.
type Context struct {
	Funcs  gpu.Functions
	Caps   gpu.Caps
	Images Images

	// Store is the same object as Images when the context created its own image store
	Store *images.Store

	defaultFbo int64
}

// NewContext queries the capabilities of the current GL context and creates an image store for it
func NewContext(funcs gpu.Functions, opts ContextOptions) (*Context, error) {

	caps, err := gpu.QueryCaps(funcs)
	if err != nil {
		return nil, err
	}

	if opts.DisableMultisample {
		caps.Multisample = false
	}

	if opts.Samples > 0 && caps.Multisample {
		if opts.Samples > caps.Samples {
			logging.WarnLog.Printf("requested %d samples but the context only supports %d\n", opts.Samples, caps.Samples)
		} else {
			caps.Samples = opts.Samples
		}
	}

	logging.InfoLog.Printf("GL context: profile=%s version=%d.%d fbo=%v msaa=%v samples=%d separateReadDraw=%v\n",
		caps.Profile, caps.Version[0], caps.Version[1], caps.FBO, caps.Multisample, caps.Samples, caps.SeparateReadDraw)

	store := images.NewStore(funcs, caps.Multisample, caps.Samples)
	return &Context{
		Funcs:      funcs,
		Caps:       caps,
		Images:     store,
		Store:      store,
		defaultFbo: -1,
	}, nil
}

// NewContextWithImages creates a context with known caps and a caller supplied image library
func NewContextWithImages(funcs gpu.Functions, caps gpu.Caps, imgs Images) *Context {
	return &Context{
		Funcs:      funcs,
		Caps:       caps,
		Images:     imgs,
		defaultFbo: -1,
	}
}

// DefaultFramebuffer returns the framebuffer that binding "no framebuffer" goes back to.
// It is whatever was bound the first time this is called, which is the window's framebuffer
// as long as the first bind happens outside any offscreen pass.
func (c *Context) DefaultFramebuffer() uint32 {

	if c.defaultFbo == -1 {
		c.defaultFbo = int64(c.Funcs.GetInteger(gpu.FRAMEBUFFER_BINDING))
	}

	return uint32(c.defaultFbo)
}

func (c *Context) SetDefaultFramebuffer(fbo uint32) {
	c.defaultFbo = int64(fbo)
}

// ResetDefaultFramebuffer makes the next DefaultFramebuffer call query the binding again
func (c *Context) ResetDefaultFramebuffer() {
	c.defaultFbo = -1
}

// Release deletes the images owned by the context's own store
func (c *Context) Release() {

	if c.Store != nil {
		c.Store.Release()
	}
}
