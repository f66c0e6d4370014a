package gpu

import (
	"errors"
	"fmt"
	"strings"
)

type Profile int32

const (
	Profile_Unknown Profile = iota
	Profile_GL2
	Profile_GL3
	Profile_GLES2
	Profile_GLES3
)

func (p Profile) String() string {

	switch p {
	case Profile_GL2:
		return "GL2"
	case Profile_GL3:
		return "GL3"
	case Profile_GLES2:
		return "GLES2"
	case Profile_GLES3:
		return "GLES3"
	default:
		return "Unknown"
	}
}

func (p Profile) IsES() bool {
	return p == Profile_GLES2 || p == Profile_GLES3
}

const DefaultSamples = 4

// Caps is decided once per context and consulted by every framebuffer operation,
// instead of re-checking the profile at each call.
type Caps struct {
	Profile Profile
	Version [2]int

	// FBO is false on legacy desktop contexts without a framebuffer object extension
	FBO bool

	// Multisample is true when TEXTURE_2D_MULTISAMPLE is available (GL 3.2+ and GLES 3.2+)
	Multisample bool

	// SeparateReadDraw is true when READ_FRAMEBUFFER and DRAW_FRAMEBUFFER are distinct binding points
	SeparateReadDraw bool

	// DepthStencilFallback is true when DEPTH24_STENCIL8 can be used for renderbuffer storage
	DepthStencilFallback bool

	// Samples is the sample count used for multisampled attachments
	Samples int32
}

func (c *Caps) AtLeast(major, minor int) bool {
	return c.Version[0] > major || (c.Version[0] == major && c.Version[1] >= minor)
}

var ErrBadVersion = errors.New("unrecognized OpenGL version string")

// ParseGLVersion parses strings like "4.1 Metal - 88", "3.3.0 NVIDIA 535.54" or "OpenGL ES 3.2 Mesa 23.0".
func ParseGLVersion(glVer string) (version [2]int, gles bool, err error) {

	s := strings.TrimSpace(glVer)

	// WebGL reports as "WebGL 2.0 (OpenGL ES 3.0 ...)" in some browsers
	if i := strings.Index(s, "OpenGL ES"); i >= 0 {
		gles = true
		s = s[i+len("OpenGL ES"):]
		// OpenGL ES 1.x profiles are named "OpenGL ES-CM" and "OpenGL ES-CL"
		s = strings.TrimPrefix(s, "-CM")
		s = strings.TrimPrefix(s, "-CL")
		s = strings.TrimSpace(s)
	}

	var major, minor int
	if _, err := fmt.Sscanf(s, "%d.%d", &major, &minor); err != nil {
		return [2]int{}, false, fmt.Errorf("%w: %q", ErrBadVersion, glVer)
	}

	return [2]int{major, minor}, gles, nil
}

// CapsFor derives the capability set from a parsed version and the extension list.
// The extension list only matters for legacy profiles, where core profiles can't report it with glGetString.
func CapsFor(version [2]int, gles bool, exts []string) (Caps, error) {

	c := Caps{
		Version: version,
		Samples: DefaultSamples,
	}

	switch {
	case gles && version[0] >= 3:
		c.Profile = Profile_GLES3
	case gles && version[0] == 2:
		c.Profile = Profile_GLES2
	case !gles && version[0] >= 3:
		c.Profile = Profile_GL3
	case !gles && version[0] == 2:
		c.Profile = Profile_GL2
	default:
		return Caps{}, fmt.Errorf("unsupported OpenGL version %d.%d (es=%v)", version[0], version[1], gles)
	}

	switch c.Profile {
	case Profile_GL3, Profile_GLES3:
		c.FBO = true
		c.SeparateReadDraw = true
		c.DepthStencilFallback = true
		c.Multisample = c.AtLeast(3, 2)

	case Profile_GLES2:
		c.FBO = true
		c.DepthStencilFallback = hasExtension(exts, "GL_OES_packed_depth_stencil")

	case Profile_GL2:
		c.FBO = hasExtension(exts, "GL_ARB_framebuffer_object") || hasExtension(exts, "GL_EXT_framebuffer_object")
		c.DepthStencilFallback = c.FBO && (hasExtension(exts, "GL_EXT_packed_depth_stencil") || hasExtension(exts, "GL_ARB_framebuffer_object"))
	}

	return c, nil
}

// QueryCaps reads the version (and for legacy profiles the extensions) from the current context
func QueryCaps(f Functions) (Caps, error) {

	ver, gles, err := ParseGLVersion(f.GetString(VERSION))
	if err != nil {
		return Caps{}, err
	}

	var exts []string
	if ver[0] < 3 {
		exts = strings.Fields(f.GetString(EXTENSIONS))
	}

	c, err := CapsFor(ver, gles, exts)
	if err != nil {
		return Caps{}, err
	}

	if c.Multisample {
		maxSamples := f.GetInteger(MAX_SAMPLES)
		if maxSamples > 0 && maxSamples < c.Samples {
			c.Samples = maxSamples
		}
	}

	// Drain whatever the queries above might have raised so callers start from a clean error flag
	GLErr(f)
	return c, nil
}

func hasExtension(exts []string, ext string) bool {

	for _, e := range exts {
		if e == ext {
			return true
		}
	}

	return false
}
