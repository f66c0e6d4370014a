// Package gpu describes the subset of OpenGL that the render target helpers use.
//
// The enum values match the OpenGL headers, so implementations can pass them
// straight through to the driver.
package gpu

import "fmt"

type Enum uint32

const (
	NO_ERROR          Enum = 0
	INVALID_ENUM      Enum = 0x0500
	INVALID_VALUE     Enum = 0x0501
	INVALID_OPERATION Enum = 0x0502
	OUT_OF_MEMORY     Enum = 0x0505

	VERSION    Enum = 0x1F02
	EXTENSIONS Enum = 0x1F03

	MAX_TEXTURE_SIZE Enum = 0x0D33
	MAX_SAMPLES      Enum = 0x8D57
	UNPACK_ALIGNMENT Enum = 0x0CF5
	PACK_ALIGNMENT   Enum = 0x0D05

	FRAMEBUFFER              Enum = 0x8D40
	READ_FRAMEBUFFER         Enum = 0x8CA8
	DRAW_FRAMEBUFFER         Enum = 0x8CA9
	FRAMEBUFFER_BINDING      Enum = 0x8CA6
	READ_FRAMEBUFFER_BINDING Enum = 0x8CAA
	RENDERBUFFER             Enum = 0x8D41
	RENDERBUFFER_BINDING     Enum = 0x8CA7

	COLOR_ATTACHMENT0        Enum = 0x8CE0
	DEPTH_ATTACHMENT         Enum = 0x8D00
	STENCIL_ATTACHMENT       Enum = 0x8D20
	DEPTH_STENCIL_ATTACHMENT Enum = 0x821A

	STENCIL_INDEX8   Enum = 0x8D48
	DEPTH24_STENCIL8 Enum = 0x88F0

	FRAMEBUFFER_COMPLETE                      Enum = 0x8CD5
	FRAMEBUFFER_INCOMPLETE_ATTACHMENT         Enum = 0x8CD6
	FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT Enum = 0x8CD7
	FRAMEBUFFER_UNSUPPORTED                   Enum = 0x8CDD
	FRAMEBUFFER_INCOMPLETE_MULTISAMPLE        Enum = 0x8D56

	TEXTURE_2D                     Enum = 0x0DE1
	TEXTURE_2D_MULTISAMPLE         Enum = 0x9100
	TEXTURE_BINDING_2D             Enum = 0x8069
	TEXTURE_BINDING_2D_MULTISAMPLE Enum = 0x9104

	RGBA          Enum = 0x1908
	RGBA8         Enum = 0x8058
	UNSIGNED_BYTE Enum = 0x1401

	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803

	NEAREST                Enum = 0x2600
	LINEAR                 Enum = 0x2601
	NEAREST_MIPMAP_NEAREST Enum = 0x2700
	LINEAR_MIPMAP_LINEAR   Enum = 0x2703
	REPEAT                 Enum = 0x2901
	CLAMP_TO_EDGE          Enum = 0x812F

	DEPTH_BUFFER_BIT   uint32 = 0x00000100
	STENCIL_BUFFER_BIT uint32 = 0x00000400
	COLOR_BUFFER_BIT   uint32 = 0x00004000
)

// Functions is the native graphics binding. Object names are plain uint32 handles where 0 means none,
// like in OpenGL itself.
//
// All methods must be called from the thread that owns the GL context.
type Functions interface {
	GetString(name Enum) string
	GetInteger(pname Enum) int32
	GetError() Enum
	PixelStorei(pname Enum, param int32)

	GenFramebuffer() uint32
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(target Enum, fbo uint32)
	FramebufferTexture2D(target, attachment, texTarget Enum, tex uint32, level int32)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, rbo uint32)
	CheckFramebufferStatus(target Enum) Enum
	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask uint32, filter Enum)

	GenRenderbuffer() uint32
	DeleteRenderbuffer(rbo uint32)
	BindRenderbuffer(target Enum, rbo uint32)
	RenderbufferStorage(target, internalFormat Enum, width, height int32)
	RenderbufferStorageMultisample(target Enum, samples int32, internalFormat Enum, width, height int32)

	GenTexture() uint32
	DeleteTexture(tex uint32)
	BindTexture(target Enum, tex uint32)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, ty Enum, data []byte)
	TexImage2DMultisample(target Enum, samples int32, internalFormat Enum, width, height int32, fixedSampleLocations bool)
	TexSubImage2D(target Enum, level, x, y, width, height int32, format, ty Enum, data []byte)
	TexParameteri(target, pname Enum, param int32)
	GenerateMipmap(target Enum)

	ReadPixels(x, y, width, height int32, format, ty Enum, data []byte)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
}

// GLErr drains the GL error flag and returns it as an error, if any
func GLErr(f Functions) error {

	if st := f.GetError(); st != NO_ERROR {
		return fmt.Errorf("glGetError: %#x", uint32(st))
	}

	return nil
}

// FramebufferStatusString returns a readable name for a glCheckFramebufferStatus result
func FramebufferStatusString(status Enum) string {

	switch status {
	case FRAMEBUFFER_COMPLETE:
		return "FRAMEBUFFER_COMPLETE"
	case FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return "FRAMEBUFFER_INCOMPLETE_ATTACHMENT"
	case FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return "FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT"
	case FRAMEBUFFER_UNSUPPORTED:
		return "FRAMEBUFFER_UNSUPPORTED"
	case FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		return "FRAMEBUFFER_INCOMPLETE_MULTISAMPLE"
	default:
		return fmt.Sprintf("0x%x", uint32(status))
	}
}
