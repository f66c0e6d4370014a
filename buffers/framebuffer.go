package buffers

import (
	"errors"
	"fmt"
	"image"

	"github.com/bloeys/vgfb/assert"
	"github.com/bloeys/vgfb/gpu"
	"github.com/bloeys/vgfb/images"
	"github.com/bloeys/vgfb/logging"
	"github.com/bloeys/vgfb/renderer"
)

type FramebufferFlags uint32

const (
	FramebufferFlags_None  FramebufferFlags = iota
	FramebufferFlags_FlipY FramebufferFlags = 1 << (iota - 1)
	FramebufferFlags_Premultiplied
	// NoRenderbuffer skips the stencil renderbuffer, for callers that attach their own
	FramebufferFlags_NoRenderbuffer
	// Multisample requests multisampled attachments. Ignored when the context has no multisample textures.
	FramebufferFlags_Multisample
)

func (f *FramebufferFlags) Set(flags FramebufferFlags) {
	*f |= flags
}

func (f *FramebufferFlags) Remove(flags FramebufferFlags) {
	*f &= ^flags
}

func (f *FramebufferFlags) Has(flags FramebufferFlags) bool {
	return *f&flags == flags
}

// imageFlags returns the flags of the backing image. Render targets are always flipped and premultiplied,
// and only ask for multisampling when the context can attach multisample textures.
func (f FramebufferFlags) imageFlags(multisample bool) images.ImageFlags {

	imgFlags := images.ImageFlags_FlipY | images.ImageFlags_Premultiplied
	if multisample && f.Has(FramebufferFlags_Multisample) {
		imgFlags.Set(images.ImageFlags_Multisample)
	}

	return imgFlags
}

// framebufferBindings is a snapshot of the framebuffer bindings of a context
type framebufferBindings struct {
	draw     uint32
	read     uint32
	separate bool
}

func saveFramebufferBindings(ctx *renderer.Context) framebufferBindings {

	f := ctx.Funcs
	b := framebufferBindings{
		draw:     uint32(f.GetInteger(gpu.FRAMEBUFFER_BINDING)),
		separate: ctx.Caps.SeparateReadDraw,
	}

	if b.separate {
		b.read = uint32(f.GetInteger(gpu.READ_FRAMEBUFFER_BINDING))
	}

	return b
}

func (b framebufferBindings) restore(f gpu.Functions) {

	if !b.separate {
		f.BindFramebuffer(gpu.FRAMEBUFFER, b.draw)
		return
	}

	f.BindFramebuffer(gpu.DRAW_FRAMEBUFFER, b.draw)
	f.BindFramebuffer(gpu.READ_FRAMEBUFFER, b.read)
}

var (
	ErrCreationFailed          = errors.New("framebuffer creation failed")
	ErrFramebuffersUnsupported = fmt.Errorf("%w: framebuffer objects are not supported by this context", ErrCreationFailed)
	ErrBlitUnsupported         = errors.New("blitting needs separate read and draw framebuffer bindings")
	ErrMultisampleRead         = errors.New("multisampled framebuffers must be resolved before reading pixels")
)

// Framebuffer is an offscreen render target: an image of the vector renderer as color attachment
// plus an optional stencil renderbuffer. It owns its framebuffer, renderbuffer and image.
type Framebuffer struct {
	ctx *renderer.Context

	// Id is 0 when not allocated
	Id uint32
	// RboId is 0 when the framebuffer has no renderbuffer
	RboId     uint32
	TextureId uint32
	// ImageId is negative when there is no image
	ImageId int

	Width  int32
	Height int32
	Flags  FramebufferFlags

	Multisampled bool
	// StencilFormat is the renderbuffer format that made the framebuffer complete
	StencilFormat gpu.Enum
}

// NewFramebuffer creates a width*height render target.
//
// Creation is all or nothing: on error nothing allocated by this call is left alive.
// The framebuffer and renderbuffer bindings are the same after the call as before it, success or not.
// Errors wrap ErrCreationFailed.
func NewFramebuffer(ctx *renderer.Context, width, height int32, flags FramebufferFlags) (fbo *Framebuffer, err error) {

	if !ctx.Caps.FBO {
		return nil, ErrFramebuffersUnsupported
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrCreationFailed, width, height)
	}

	f := ctx.Funcs
	withRbo := !flags.Has(FramebufferFlags_NoRenderbuffer)

	prevFbos := saveFramebufferBindings(ctx)
	prevRbo := uint32(f.GetInteger(gpu.RENDERBUFFER_BINDING))

	// Undone in reverse order on failure
	var rollback []func()

	defer func() {

		prevFbos.restore(f)
		if withRbo {
			f.BindRenderbuffer(gpu.RENDERBUFFER, prevRbo)
		}

		if err == nil {
			return
		}

		for i := len(rollback) - 1; i >= 0; i-- {
			rollback[i]()
		}

		fbo = nil
		logging.ErrLog.Printf("Failed to create %dx%d framebuffer. Err: %v\n", width, height, err)
	}()

	// Errors raised before this call aren't ours
	gpu.GLErr(f)

	fb := &Framebuffer{
		ctx:     ctx,
		ImageId: -1,
		Width:   width,
		Height:  height,
		Flags:   flags,
	}

	imageId, err := ctx.Images.CreateImageRGBA(width, height, flags.imageFlags(ctx.Caps.Multisample), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: color image: %w", ErrCreationFailed, err)
	}
	rollback = append(rollback, func() { ctx.Images.DeleteImage(imageId) })

	fb.ImageId = imageId
	fb.TextureId = ctx.Images.ImageHandle(imageId)
	if fb.TextureId == 0 {
		return nil, fmt.Errorf("%w: image %d has no texture", ErrCreationFailed, imageId)
	}

	// The image library has the final say on multisampling
	texTarget := ctx.Images.ImageTarget(imageId)
	switch texTarget {
	case gpu.TEXTURE_2D_MULTISAMPLE:
		fb.Multisampled = true
	case gpu.TEXTURE_2D:
		if flags.Has(FramebufferFlags_Multisample) {
			logging.WarnLog.Println("Multisampled framebuffer requested but no multisample texture is available. Creating a regular one")
		}
	default:
		return nil, fmt.Errorf("%w: image %d has unsupported texture target %#x", ErrCreationFailed, imageId, uint32(texTarget))
	}

	fb.Id = f.GenFramebuffer()
	if fb.Id == 0 {
		return nil, fmt.Errorf("%w: failed to generate framebuffer. GlError=%v", ErrCreationFailed, gpu.GLErr(f))
	}

	fboId := fb.Id
	rollback = append(rollback, func() { f.DeleteFramebuffer(fboId) })

	f.BindFramebuffer(gpu.FRAMEBUFFER, fb.Id)
	f.FramebufferTexture2D(gpu.FRAMEBUFFER, gpu.COLOR_ATTACHMENT0, texTarget, fb.TextureId, 0)

	if withRbo {

		fb.RboId = f.GenRenderbuffer()
		if fb.RboId == 0 {
			return nil, fmt.Errorf("%w: failed to generate renderbuffer. GlError=%v", ErrCreationFailed, gpu.GLErr(f))
		}

		rboId := fb.RboId
		rollback = append(rollback, func() { f.DeleteRenderbuffer(rboId) })

		f.BindRenderbuffer(gpu.RENDERBUFFER, fb.RboId)
		fb.stencilStorage(gpu.STENCIL_INDEX8)
		f.FramebufferRenderbuffer(gpu.FRAMEBUFFER, gpu.STENCIL_ATTACHMENT, gpu.RENDERBUFFER, fb.RboId)
	}

	status := f.CheckFramebufferStatus(gpu.FRAMEBUFFER)

	// Some drivers reject a stencil only renderbuffer next to a color texture and want depth with it
	if status != gpu.FRAMEBUFFER_COMPLETE && withRbo && ctx.Caps.DepthStencilFallback {

		logging.WarnLog.Printf("Framebuffer with STENCIL_INDEX8 is incomplete (status=%s). Retrying with DEPTH24_STENCIL8\n", gpu.FramebufferStatusString(status))

		// The failed attempt may have left an error behind
		gpu.GLErr(f)

		fb.stencilStorage(gpu.DEPTH24_STENCIL8)
		f.FramebufferTexture2D(gpu.FRAMEBUFFER, gpu.COLOR_ATTACHMENT0, texTarget, fb.TextureId, 0)
		f.FramebufferRenderbuffer(gpu.FRAMEBUFFER, gpu.STENCIL_ATTACHMENT, gpu.RENDERBUFFER, fb.RboId)
		status = f.CheckFramebufferStatus(gpu.FRAMEBUFFER)
	}

	if status != gpu.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("%w: framebuffer is incomplete. Status=%s", ErrCreationFailed, gpu.FramebufferStatusString(status))
	}

	if glErr := gpu.GLErr(f); glErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreationFailed, glErr)
	}

	return fb, nil
}

func (fbo *Framebuffer) stencilStorage(format gpu.Enum) {

	f := fbo.ctx.Funcs
	if fbo.Multisampled {
		f.RenderbufferStorageMultisample(gpu.RENDERBUFFER, fbo.ctx.Caps.Samples, format, fbo.Width, fbo.Height)
	} else {
		f.RenderbufferStorage(gpu.RENDERBUFFER, format, fbo.Width, fbo.Height)
	}

	fbo.StencilFormat = format
}

// target returns the framebuffer to bind for fbo, where nil means the context's default framebuffer.
// The default is queried first so that it is known before anything else gets bound.
func (fbo *Framebuffer) target(ctx *renderer.Context) uint32 {

	defaultFbo := ctx.DefaultFramebuffer()
	if fbo == nil {
		return defaultFbo
	}

	assert.T(fbo.ctx != nil, "Binding a deleted framebuffer")
	return fbo.Id
}

// BindFramebuffer makes fbo the target of subsequent draws and reads. A nil fbo binds the default framebuffer.
func BindFramebuffer(ctx *renderer.Context, fbo *Framebuffer) {

	if !ctx.Caps.FBO {
		return
	}

	ctx.Funcs.BindFramebuffer(gpu.FRAMEBUFFER, fbo.target(ctx))
}

// BindReadFramebuffer binds fbo (or the default framebuffer if nil) for reads only.
// It does nothing on contexts without separate read and draw bindings.
func BindReadFramebuffer(ctx *renderer.Context, fbo *Framebuffer) {

	if !ctx.Caps.FBO || !ctx.Caps.SeparateReadDraw {
		return
	}

	ctx.Funcs.BindFramebuffer(gpu.READ_FRAMEBUFFER, fbo.target(ctx))
}

// BindDrawFramebuffer binds fbo (or the default framebuffer if nil) for draws only.
// It does nothing on contexts without separate read and draw bindings.
func BindDrawFramebuffer(ctx *renderer.Context, fbo *Framebuffer) {

	if !ctx.Caps.FBO || !ctx.Caps.SeparateReadDraw {
		return
	}

	ctx.Funcs.BindFramebuffer(gpu.DRAW_FRAMEBUFFER, fbo.target(ctx))
}

func (fbo *Framebuffer) Bind() {
	BindFramebuffer(fbo.ctx, fbo)
}

func (fbo *Framebuffer) BindWithViewport() {
	BindFramebuffer(fbo.ctx, fbo)
	fbo.ctx.Funcs.Viewport(0, 0, fbo.Width, fbo.Height)
}

// UnBind binds the default framebuffer
func (fbo *Framebuffer) UnBind() {
	BindFramebuffer(fbo.ctx, nil)
}

func (fbo *Framebuffer) UnBindWithViewport(width, height int32) {
	BindFramebuffer(fbo.ctx, nil)
	fbo.ctx.Funcs.Viewport(0, 0, width, height)
}

// IsComplete returns true if OpenGL reports that the fbo is complete/usable.
// The previous framebuffer binding is restored afterwards.
func (fbo *Framebuffer) IsComplete() bool {

	f := fbo.ctx.Funcs
	prev := saveFramebufferBindings(fbo.ctx)

	f.BindFramebuffer(gpu.FRAMEBUFFER, fbo.Id)
	isComplete := f.CheckFramebufferStatus(gpu.FRAMEBUFFER) == gpu.FRAMEBUFFER_COMPLETE
	prev.restore(f)

	return isComplete
}

// Clear clears the color (and stencil/depth, if present) of the framebuffer without changing the current draw target
func (fbo *Framebuffer) Clear(r, g, b, a float32) {

	ctx := fbo.ctx
	f := ctx.Funcs

	target := gpu.FRAMEBUFFER
	if ctx.Caps.SeparateReadDraw {
		target = gpu.DRAW_FRAMEBUFFER
	}

	prev := uint32(f.GetInteger(gpu.FRAMEBUFFER_BINDING))
	f.BindFramebuffer(target, fbo.Id)

	mask := gpu.COLOR_BUFFER_BIT
	if fbo.RboId != 0 {
		mask |= gpu.STENCIL_BUFFER_BIT
		if fbo.StencilFormat == gpu.DEPTH24_STENCIL8 {
			mask |= gpu.DEPTH_BUFFER_BIT
		}
	}

	f.ClearColor(r, g, b, a)
	f.Clear(mask)
	f.BindFramebuffer(target, prev)
}

// Blit copies the whole color buffer of src into dst, which is the default framebuffer if nil.
// Blitting a multisampled src into a regular framebuffer of the same size resolves it.
func Blit(ctx *renderer.Context, src, dst *Framebuffer, filter gpu.Enum) error {

	dstRect := image.Rect(0, 0, int(src.Width), int(src.Height))
	if dst != nil {
		dstRect = image.Rect(0, 0, int(dst.Width), int(dst.Height))
	}

	return BlitRect(ctx, src, dst, dstRect, filter)
}

// BlitRect copies the whole color buffer of src into dstRect of dst (the default framebuffer if nil).
// Multisampled sources can't be scaled, so dstRect must match the size of src for them.
func BlitRect(ctx *renderer.Context, src, dst *Framebuffer, dstRect image.Rectangle, filter gpu.Enum) error {

	if !ctx.Caps.FBO || !ctx.Caps.SeparateReadDraw {
		return ErrBlitUnsupported
	}

	assert.T(src != nil, "Blit source framebuffer can't be nil")

	f := ctx.Funcs
	gpu.GLErr(f)

	prev := saveFramebufferBindings(ctx)

	BindReadFramebuffer(ctx, src)
	BindDrawFramebuffer(ctx, dst)

	f.BlitFramebuffer(
		0, 0, src.Width, src.Height,
		int32(dstRect.Min.X), int32(dstRect.Min.Y), int32(dstRect.Max.X), int32(dstRect.Max.Y),
		gpu.COLOR_BUFFER_BIT,
		filter,
	)

	prev.restore(f)

	return gpu.GLErr(f)
}

// ReadPixels returns the color buffer as a top-down RGBA image
func (fbo *Framebuffer) ReadPixels() (*image.RGBA, error) {

	if fbo.Multisampled {
		return nil, ErrMultisampleRead
	}

	ctx := fbo.ctx
	f := ctx.Funcs

	target, binding := gpu.FRAMEBUFFER, gpu.FRAMEBUFFER_BINDING
	if ctx.Caps.SeparateReadDraw {
		target, binding = gpu.READ_FRAMEBUFFER, gpu.READ_FRAMEBUFFER_BINDING
	}

	gpu.GLErr(f)
	prev := uint32(f.GetInteger(binding))
	f.BindFramebuffer(target, fbo.Id)

	img := image.NewRGBA(image.Rect(0, 0, int(fbo.Width), int(fbo.Height)))
	f.PixelStorei(gpu.PACK_ALIGNMENT, 1)
	f.ReadPixels(0, 0, fbo.Width, fbo.Height, gpu.RGBA, gpu.UNSIGNED_BYTE, img.Pix)
	f.PixelStorei(gpu.PACK_ALIGNMENT, 4)

	f.BindFramebuffer(target, prev)
	if err := gpu.GLErr(f); err != nil {
		return nil, fmt.Errorf("failed to read framebuffer pixels: %w", err)
	}

	flipRows(img)
	return img, nil
}

// flipRows turns GL's bottom-up rows into top-down ones
func flipRows(img *image.RGBA) {

	h := img.Rect.Dy()
	rowLen := img.Rect.Dx() * 4
	tmp := make([]byte, rowLen)

	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+rowLen]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// Delete releases the framebuffer, renderbuffer and image, in that order, and resets all the ids.
// It is safe to call on a nil or already deleted framebuffer.
func (fbo *Framebuffer) Delete() {

	if fbo == nil || fbo.ctx == nil {
		return
	}

	f := fbo.ctx.Funcs

	if fbo.Id != 0 {
		f.DeleteFramebuffer(fbo.Id)
	}

	if fbo.RboId != 0 {
		f.DeleteRenderbuffer(fbo.RboId)
	}

	if fbo.ImageId >= 0 {
		fbo.ctx.Images.DeleteImage(fbo.ImageId)
	}

	fbo.Id = 0
	fbo.RboId = 0
	fbo.TextureId = 0
	fbo.ImageId = -1
	fbo.ctx = nil
}
