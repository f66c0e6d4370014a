// Package gogl implements gpu.Functions on top of go-gl's OpenGL 4.1 core bindings.
package gogl

import (
	"unsafe"

	"github.com/bloeys/vgfb/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var _ gpu.Functions = &Functions{}

type Functions struct{}

// New loads the GL function pointers. A context must be current on the calling thread.
func New() (*Functions, error) {

	if err := gl.Init(); err != nil {
		return nil, err
	}

	return &Functions{}, nil
}

func ptr(data []byte) unsafe.Pointer {

	// gl.Ptr panics on empty slices
	if len(data) == 0 {
		return nil
	}

	return gl.Ptr(data)
}

func (f *Functions) GetString(name gpu.Enum) string {

	s := gl.GetString(uint32(name))
	if s == nil {
		return ""
	}

	return gl.GoStr(s)
}

func (f *Functions) GetInteger(pname gpu.Enum) int32 {
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return v
}

func (f *Functions) GetError() gpu.Enum {
	return gpu.Enum(gl.GetError())
}

func (f *Functions) PixelStorei(pname gpu.Enum, param int32) {
	gl.PixelStorei(uint32(pname), param)
}

func (f *Functions) GenFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (f *Functions) DeleteFramebuffer(fbo uint32) {
	gl.DeleteFramebuffers(1, &fbo)
}

func (f *Functions) BindFramebuffer(target gpu.Enum, fbo uint32) {
	gl.BindFramebuffer(uint32(target), fbo)
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget gpu.Enum, tex uint32, level int32) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), tex, level)
}

func (f *Functions) FramebufferRenderbuffer(target, attachment, rbTarget gpu.Enum, rbo uint32) {
	gl.FramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(rbTarget), rbo)
}

func (f *Functions) CheckFramebufferStatus(target gpu.Enum) gpu.Enum {
	return gpu.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (f *Functions) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask uint32, filter gpu.Enum) {
	gl.BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, mask, uint32(filter))
}

func (f *Functions) GenRenderbuffer() uint32 {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return id
}

func (f *Functions) DeleteRenderbuffer(rbo uint32) {
	gl.DeleteRenderbuffers(1, &rbo)
}

func (f *Functions) BindRenderbuffer(target gpu.Enum, rbo uint32) {
	gl.BindRenderbuffer(uint32(target), rbo)
}

func (f *Functions) RenderbufferStorage(target, internalFormat gpu.Enum, width, height int32) {
	gl.RenderbufferStorage(uint32(target), uint32(internalFormat), width, height)
}

func (f *Functions) RenderbufferStorageMultisample(target gpu.Enum, samples int32, internalFormat gpu.Enum, width, height int32) {
	gl.RenderbufferStorageMultisample(uint32(target), samples, uint32(internalFormat), width, height)
}

func (f *Functions) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (f *Functions) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

func (f *Functions) BindTexture(target gpu.Enum, tex uint32) {
	gl.BindTexture(uint32(target), tex)
}

func (f *Functions) TexImage2D(target gpu.Enum, level int32, internalFormat gpu.Enum, width, height int32, format, ty gpu.Enum, data []byte) {
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) TexImage2DMultisample(target gpu.Enum, samples int32, internalFormat gpu.Enum, width, height int32, fixedSampleLocations bool) {
	gl.TexImage2DMultisample(uint32(target), samples, uint32(internalFormat), width, height, fixedSampleLocations)
}

func (f *Functions) TexSubImage2D(target gpu.Enum, level, x, y, width, height int32, format, ty gpu.Enum, data []byte) {
	gl.TexSubImage2D(uint32(target), level, x, y, width, height, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) TexParameteri(target, pname gpu.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (f *Functions) GenerateMipmap(target gpu.Enum) {
	gl.GenerateMipmap(uint32(target))
}

func (f *Functions) ReadPixels(x, y, width, height int32, format, ty gpu.Enum, data []byte) {
	gl.ReadPixels(x, y, width, height, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (f *Functions) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (f *Functions) Clear(mask uint32) {
	gl.Clear(mask)
}
