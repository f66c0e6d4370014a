package gpu

import (
	"errors"
	"testing"
)

func TestParseGLVersion(t *testing.T) {

	tests := []struct {
		in      string
		ver     [2]int
		gles    bool
		wantErr bool
	}{
		{in: "4.1 Metal - 88", ver: [2]int{4, 1}},
		{in: "3.3.0 NVIDIA 535.54.03", ver: [2]int{3, 3}},
		{in: "2.1 Mesa 23.0.4", ver: [2]int{2, 1}},
		{in: "OpenGL ES 3.2 Mesa 23.0.4", ver: [2]int{3, 2}, gles: true},
		{in: "OpenGL ES 2.0 (WebGL 1.0)", ver: [2]int{2, 0}, gles: true},
		{in: "WebGL 2.0 (OpenGL ES 3.0 Chromium)", ver: [2]int{3, 0}, gles: true},
		{in: "OpenGL ES-CM 1.1", ver: [2]int{1, 1}, gles: true},
		{in: "", wantErr: true},
		{in: "garbage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {

			ver, gles, err := ParseGLVersion(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadVersion) {
					t.Fatalf("expected ErrBadVersion, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if ver != tt.ver || gles != tt.gles {
				t.Errorf("expected %v (es=%v), got %v (es=%v)", tt.ver, tt.gles, ver, gles)
			}
		})
	}
}

func TestCapsFor(t *testing.T) {

	tests := []struct {
		name     string
		ver      [2]int
		gles     bool
		exts     []string
		profile  Profile
		fbo      bool
		msaa     bool
		sepRW    bool
		fallback bool
	}{
		{name: "gl41", ver: [2]int{4, 1}, profile: Profile_GL3, fbo: true, msaa: true, sepRW: true, fallback: true},
		{name: "gl31", ver: [2]int{3, 1}, profile: Profile_GL3, fbo: true, msaa: false, sepRW: true, fallback: true},
		{name: "gles32", ver: [2]int{3, 2}, gles: true, profile: Profile_GLES3, fbo: true, msaa: true, sepRW: true, fallback: true},
		{name: "gles30", ver: [2]int{3, 0}, gles: true, profile: Profile_GLES3, fbo: true, msaa: false, sepRW: true, fallback: true},
		{name: "gles2", ver: [2]int{2, 0}, gles: true, profile: Profile_GLES2, fbo: true},
		{name: "gles2-packed", ver: [2]int{2, 0}, gles: true, exts: []string{"GL_OES_packed_depth_stencil"}, profile: Profile_GLES2, fbo: true, fallback: true},
		{name: "gl21-bare", ver: [2]int{2, 1}, profile: Profile_GL2},
		{name: "gl21-arb", ver: [2]int{2, 1}, exts: []string{"GL_ARB_framebuffer_object"}, profile: Profile_GL2, fbo: true, fallback: true},
		{name: "gl21-ext", ver: [2]int{2, 1}, exts: []string{"GL_EXT_framebuffer_object"}, profile: Profile_GL2, fbo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			c, err := CapsFor(tt.ver, tt.gles, tt.exts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if c.Profile != tt.profile {
				t.Errorf("expected profile %s, got %s", tt.profile, c.Profile)
			}
			if c.FBO != tt.fbo {
				t.Errorf("expected FBO=%v, got %v", tt.fbo, c.FBO)
			}
			if c.Multisample != tt.msaa {
				t.Errorf("expected Multisample=%v, got %v", tt.msaa, c.Multisample)
			}
			if c.SeparateReadDraw != tt.sepRW {
				t.Errorf("expected SeparateReadDraw=%v, got %v", tt.sepRW, c.SeparateReadDraw)
			}
			if c.DepthStencilFallback != tt.fallback {
				t.Errorf("expected DepthStencilFallback=%v, got %v", tt.fallback, c.DepthStencilFallback)
			}
			if c.Samples != DefaultSamples {
				t.Errorf("expected %d samples, got %d", DefaultSamples, c.Samples)
			}
		})
	}

	if _, err := CapsFor([2]int{1, 1}, true, nil); err == nil {
		t.Errorf("expected GLES 1.1 to be rejected")
	}
}
