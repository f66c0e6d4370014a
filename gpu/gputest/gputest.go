// Package gputest provides an in-memory implementation of gpu.Functions.
//
// It keeps object tables and binding state like a driver would, evaluates framebuffer
// completeness with a small rule set, and can be told to fail individual calls.
package gputest

import (
	"fmt"

	"github.com/bloeys/vgfb/gpu"
)

var _ gpu.Functions = &GL{}

type Op int32

const (
	Op_GenFramebuffer Op = iota
	Op_GenRenderbuffer
	Op_GenTexture
	Op_RenderbufferStorage
	Op_TexImage
)

type Texture struct {
	Target  gpu.Enum
	Width   int32
	Height  int32
	Samples int32
	Params  map[gpu.Enum]int32
	Pixels  []byte
	Mipmaps bool
}

type Renderbuffer struct {
	Format  gpu.Enum
	Samples int32
	Width   int32
	Height  int32
}

type Framebuffer struct {
	ColorTex    uint32
	ColorTarget gpu.Enum
	Attachments map[gpu.Enum]uint32
}

type BlitCall struct {
	ReadFbo, DrawFbo uint32
	Src, Dst         [4]int32
	Mask             uint32
	Filter           gpu.Enum
}

// GL is a fake GL context. The zero value is not usable, use New.
type GL struct {
	Version    string
	Extensions string
	MaxSamples int32

	// Fail makes the given operation fail: Gen* calls return 0, storage calls raise OUT_OF_MEMORY
	Fail map[Op]bool

	// RejectStencilOnly reports FRAMEBUFFER_UNSUPPORTED for a STENCIL_INDEX8 renderbuffer,
	// like drivers that want depth together with stencil
	RejectStencilOnly bool

	// RejectAll reports every non-default framebuffer as unsupported
	RejectAll bool

	Framebuffers  map[uint32]*Framebuffer
	Renderbuffers map[uint32]*Renderbuffer
	Textures      map[uint32]*Texture

	DrawFbo uint32
	ReadFbo uint32
	Rbo     uint32
	Tex2D   uint32
	TexMS   uint32

	ViewportRect [4]int32
	ClearRGBA    [4]float32
	Blits        []BlitCall

	// Calls counts every call by method name
	Calls map[string]int

	nextName uint32
	err      gpu.Enum
}

// New returns a fake GL 4.1 core context
func New() *GL {
	return &GL{
		Version:       "4.1 gputest",
		MaxSamples:    8,
		Fail:          map[Op]bool{},
		Framebuffers:  map[uint32]*Framebuffer{},
		Renderbuffers: map[uint32]*Renderbuffer{},
		Textures:      map[uint32]*Texture{},
		Calls:         map[string]int{},
	}
}

// NewWithVersion returns a fake context reporting the given version and extension strings
func NewWithVersion(version, extensions string) *GL {
	g := New()
	g.Version = version
	g.Extensions = extensions
	return g
}

func (g *GL) LiveFramebuffers() int {
	return len(g.Framebuffers)
}

func (g *GL) LiveRenderbuffers() int {
	return len(g.Renderbuffers)
}

func (g *GL) LiveTextures() int {
	return len(g.Textures)
}

func (g *GL) call(name string) {
	g.Calls[name]++
}

func (g *GL) setErr(e gpu.Enum) {
	// Like GL, only the first error is kept until it is read
	if g.err == gpu.NO_ERROR {
		g.err = e
	}
}

func (g *GL) genName() uint32 {
	g.nextName++
	return g.nextName
}

func (g *GL) GetString(name gpu.Enum) string {

	g.call("GetString")
	switch name {
	case gpu.VERSION:
		return g.Version
	case gpu.EXTENSIONS:
		return g.Extensions
	default:
		g.setErr(gpu.INVALID_ENUM)
		return ""
	}
}

func (g *GL) GetInteger(pname gpu.Enum) int32 {

	g.call("GetInteger")
	switch pname {
	case gpu.FRAMEBUFFER_BINDING:
		return int32(g.DrawFbo)
	case gpu.READ_FRAMEBUFFER_BINDING:
		return int32(g.ReadFbo)
	case gpu.RENDERBUFFER_BINDING:
		return int32(g.Rbo)
	case gpu.TEXTURE_BINDING_2D:
		return int32(g.Tex2D)
	case gpu.TEXTURE_BINDING_2D_MULTISAMPLE:
		return int32(g.TexMS)
	case gpu.MAX_SAMPLES:
		return g.MaxSamples
	case gpu.MAX_TEXTURE_SIZE:
		return 16384
	default:
		g.setErr(gpu.INVALID_ENUM)
		return 0
	}
}

func (g *GL) GetError() gpu.Enum {
	g.call("GetError")
	e := g.err
	g.err = gpu.NO_ERROR
	return e
}

func (g *GL) PixelStorei(pname gpu.Enum, param int32) {
	g.call("PixelStorei")
}

func (g *GL) GenFramebuffer() uint32 {

	g.call("GenFramebuffer")
	if g.Fail[Op_GenFramebuffer] {
		g.setErr(gpu.OUT_OF_MEMORY)
		return 0
	}

	id := g.genName()
	g.Framebuffers[id] = &Framebuffer{Attachments: map[gpu.Enum]uint32{}}
	return id
}

func (g *GL) DeleteFramebuffer(fbo uint32) {

	g.call("DeleteFramebuffer")
	if fbo == 0 {
		return
	}

	delete(g.Framebuffers, fbo)

	// Deleting a bound framebuffer reverts the binding to the default one
	if g.DrawFbo == fbo {
		g.DrawFbo = 0
	}
	if g.ReadFbo == fbo {
		g.ReadFbo = 0
	}
}

func (g *GL) BindFramebuffer(target gpu.Enum, fbo uint32) {

	g.call("BindFramebuffer")
	if _, ok := g.Framebuffers[fbo]; fbo != 0 && !ok {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	switch target {
	case gpu.FRAMEBUFFER:
		g.DrawFbo = fbo
		g.ReadFbo = fbo
	case gpu.DRAW_FRAMEBUFFER:
		g.DrawFbo = fbo
	case gpu.READ_FRAMEBUFFER:
		g.ReadFbo = fbo
	default:
		g.setErr(gpu.INVALID_ENUM)
	}
}

func (g *GL) boundFbo(target gpu.Enum) uint32 {
	if target == gpu.READ_FRAMEBUFFER {
		return g.ReadFbo
	}
	return g.DrawFbo
}

func (g *GL) FramebufferTexture2D(target, attachment, texTarget gpu.Enum, tex uint32, level int32) {

	g.call("FramebufferTexture2D")
	fb, ok := g.Framebuffers[g.boundFbo(target)]
	if !ok {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	if attachment == gpu.COLOR_ATTACHMENT0 {
		fb.ColorTex = tex
		fb.ColorTarget = texTarget
	}
	fb.Attachments[attachment] = tex
}

func (g *GL) FramebufferRenderbuffer(target, attachment, rbTarget gpu.Enum, rbo uint32) {

	g.call("FramebufferRenderbuffer")
	fb, ok := g.Framebuffers[g.boundFbo(target)]
	if !ok {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	fb.Attachments[attachment] = rbo
}

func (g *GL) CheckFramebufferStatus(target gpu.Enum) gpu.Enum {

	g.call("CheckFramebufferStatus")
	id := g.boundFbo(target)
	if id == 0 {
		return gpu.FRAMEBUFFER_COMPLETE
	}

	if g.RejectAll {
		return gpu.FRAMEBUFFER_UNSUPPORTED
	}

	fb := g.Framebuffers[id]
	tex, ok := g.Textures[fb.ColorTex]
	if fb.ColorTex == 0 || !ok {
		return gpu.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT
	}

	if tex.Target != fb.ColorTarget || tex.Width == 0 || tex.Height == 0 {
		return gpu.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
	}

	rboId, hasStencil := fb.Attachments[gpu.STENCIL_ATTACHMENT]
	if !hasStencil {
		return gpu.FRAMEBUFFER_COMPLETE
	}

	rbo, ok := g.Renderbuffers[rboId]
	if !ok || rbo.Format == 0 {
		return gpu.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
	}

	if g.RejectStencilOnly && rbo.Format == gpu.STENCIL_INDEX8 {
		return gpu.FRAMEBUFFER_UNSUPPORTED
	}

	if rbo.Samples != tex.Samples {
		return gpu.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE
	}

	return gpu.FRAMEBUFFER_COMPLETE
}

func (g *GL) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask uint32, filter gpu.Enum) {

	g.call("BlitFramebuffer")
	g.Blits = append(g.Blits, BlitCall{
		ReadFbo: g.ReadFbo,
		DrawFbo: g.DrawFbo,
		Src:     [4]int32{srcX0, srcY0, srcX1, srcY1},
		Dst:     [4]int32{dstX0, dstY0, dstX1, dstY1},
		Mask:    mask,
		Filter:  filter,
	})

	src := g.colorTexture(g.ReadFbo)
	dst := g.colorTexture(g.DrawFbo)
	if src == nil || dst == nil || mask&gpu.COLOR_BUFFER_BIT == 0 {
		return
	}

	if len(src.Pixels) == len(dst.Pixels) {
		copy(dst.Pixels, src.Pixels)
	}
}

func (g *GL) colorTexture(fbo uint32) *Texture {

	fb, ok := g.Framebuffers[fbo]
	if !ok {
		return nil
	}

	return g.Textures[fb.ColorTex]
}

func (g *GL) GenRenderbuffer() uint32 {

	g.call("GenRenderbuffer")
	if g.Fail[Op_GenRenderbuffer] {
		g.setErr(gpu.OUT_OF_MEMORY)
		return 0
	}

	id := g.genName()
	g.Renderbuffers[id] = &Renderbuffer{}
	return id
}

func (g *GL) DeleteRenderbuffer(rbo uint32) {

	g.call("DeleteRenderbuffer")
	if rbo == 0 {
		return
	}

	delete(g.Renderbuffers, rbo)
	if g.Rbo == rbo {
		g.Rbo = 0
	}
}

func (g *GL) BindRenderbuffer(target gpu.Enum, rbo uint32) {

	g.call("BindRenderbuffer")
	if _, ok := g.Renderbuffers[rbo]; rbo != 0 && !ok {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	g.Rbo = rbo
}

func (g *GL) RenderbufferStorage(target, internalFormat gpu.Enum, width, height int32) {
	g.call("RenderbufferStorage")
	g.renderbufferStorage(0, internalFormat, width, height)
}

func (g *GL) RenderbufferStorageMultisample(target gpu.Enum, samples int32, internalFormat gpu.Enum, width, height int32) {
	g.call("RenderbufferStorageMultisample")
	g.renderbufferStorage(samples, internalFormat, width, height)
}

func (g *GL) renderbufferStorage(samples int32, internalFormat gpu.Enum, width, height int32) {

	rb, ok := g.Renderbuffers[g.Rbo]
	if !ok {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	if g.Fail[Op_RenderbufferStorage] {
		g.setErr(gpu.OUT_OF_MEMORY)
		return
	}

	if samples > g.MaxSamples {
		g.setErr(gpu.INVALID_VALUE)
		return
	}

	rb.Format = internalFormat
	rb.Samples = samples
	rb.Width = width
	rb.Height = height
}

func (g *GL) GenTexture() uint32 {

	g.call("GenTexture")
	if g.Fail[Op_GenTexture] {
		g.setErr(gpu.OUT_OF_MEMORY)
		return 0
	}

	id := g.genName()
	g.Textures[id] = &Texture{Params: map[gpu.Enum]int32{}}
	return id
}

func (g *GL) DeleteTexture(tex uint32) {

	g.call("DeleteTexture")
	if tex == 0 {
		return
	}

	delete(g.Textures, tex)
	if g.Tex2D == tex {
		g.Tex2D = 0
	}
	if g.TexMS == tex {
		g.TexMS = 0
	}
}

func (g *GL) BindTexture(target gpu.Enum, tex uint32) {

	g.call("BindTexture")
	t, ok := g.Textures[tex]
	if tex != 0 && !ok {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	// First bind decides the texture target, like glBindTexture does
	if ok {
		if t.Target == 0 {
			t.Target = target
		} else if t.Target != target {
			g.setErr(gpu.INVALID_OPERATION)
			return
		}
	}

	switch target {
	case gpu.TEXTURE_2D:
		g.Tex2D = tex
	case gpu.TEXTURE_2D_MULTISAMPLE:
		g.TexMS = tex
	default:
		g.setErr(gpu.INVALID_ENUM)
	}
}

func (g *GL) boundTexture(target gpu.Enum) *Texture {

	switch target {
	case gpu.TEXTURE_2D:
		return g.Textures[g.Tex2D]
	case gpu.TEXTURE_2D_MULTISAMPLE:
		return g.Textures[g.TexMS]
	default:
		return nil
	}
}

func (g *GL) TexImage2D(target gpu.Enum, level int32, internalFormat gpu.Enum, width, height int32, format, ty gpu.Enum, data []byte) {

	g.call("TexImage2D")
	t := g.boundTexture(target)
	if t == nil || target != gpu.TEXTURE_2D {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	if g.Fail[Op_TexImage] {
		g.setErr(gpu.OUT_OF_MEMORY)
		return
	}

	if level != 0 {
		return
	}

	t.Width = width
	t.Height = height
	t.Pixels = make([]byte, int(width)*int(height)*4)
	if data != nil {
		copy(t.Pixels, data)
	}
}

func (g *GL) TexImage2DMultisample(target gpu.Enum, samples int32, internalFormat gpu.Enum, width, height int32, fixedSampleLocations bool) {

	g.call("TexImage2DMultisample")
	t := g.boundTexture(target)
	if t == nil || target != gpu.TEXTURE_2D_MULTISAMPLE {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	if g.Fail[Op_TexImage] {
		g.setErr(gpu.OUT_OF_MEMORY)
		return
	}

	if samples > g.MaxSamples {
		g.setErr(gpu.INVALID_VALUE)
		return
	}

	t.Width = width
	t.Height = height
	t.Samples = samples
	t.Pixels = make([]byte, int(width)*int(height)*4)
}

func (g *GL) TexSubImage2D(target gpu.Enum, level, x, y, width, height int32, format, ty gpu.Enum, data []byte) {

	g.call("TexSubImage2D")
	t := g.boundTexture(target)
	if t == nil || target != gpu.TEXTURE_2D || x < 0 || y < 0 || x+width > t.Width || y+height > t.Height {
		g.setErr(gpu.INVALID_VALUE)
		return
	}

	for row := int32(0); row < height; row++ {
		dstOff := int((y+row)*t.Width+x) * 4
		srcOff := int(row*width) * 4
		copy(t.Pixels[dstOff:dstOff+int(width)*4], data[srcOff:])
	}
}

func (g *GL) TexParameteri(target, pname gpu.Enum, param int32) {

	g.call("TexParameteri")
	t := g.boundTexture(target)
	if t == nil {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	t.Params[pname] = param
}

func (g *GL) GenerateMipmap(target gpu.Enum) {

	g.call("GenerateMipmap")
	t := g.boundTexture(target)
	if t == nil {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	t.Mipmaps = true
}

// ReadPixels reads RGBA bytes from the color texture of the bound read framebuffer.
// Rows are returned bottom-up, like GL.
func (g *GL) ReadPixels(x, y, width, height int32, format, ty gpu.Enum, data []byte) {

	g.call("ReadPixels")
	t := g.colorTexture(g.ReadFbo)
	if t == nil {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	if t.Samples > 0 {
		g.setErr(gpu.INVALID_OPERATION)
		return
	}

	for row := int32(0); row < height; row++ {
		srcOff := int((y+row)*t.Width+x) * 4
		dstOff := int(row*width) * 4
		copy(data[dstOff:dstOff+int(width)*4], t.Pixels[srcOff:srcOff+int(width)*4])
	}
}

func (g *GL) Viewport(x, y, width, height int32) {
	g.call("Viewport")
	g.ViewportRect = [4]int32{x, y, width, height}
}

func (g *GL) ClearColor(r, gr, b, a float32) {
	g.call("ClearColor")
	g.ClearRGBA = [4]float32{r, gr, b, a}
}

// Clear fills the color texture of the bound draw framebuffer with the clear color
func (g *GL) Clear(mask uint32) {

	g.call("Clear")
	t := g.colorTexture(g.DrawFbo)
	if t == nil || mask&gpu.COLOR_BUFFER_BIT == 0 {
		return
	}

	px := [4]byte{}
	for i, c := range g.ClearRGBA {
		px[i] = byte(c*255 + 0.5)
	}

	for i := 0; i+3 < len(t.Pixels); i += 4 {
		copy(t.Pixels[i:i+4], px[:])
	}
}

func (g *GL) String() string {
	return fmt.Sprintf("gputest.GL{version=%q fbos=%d rbos=%d textures=%d draw=%d read=%d rbo=%d}",
		g.Version, len(g.Framebuffers), len(g.Renderbuffers), len(g.Textures), g.DrawFbo, g.ReadFbo, g.Rbo)
}
