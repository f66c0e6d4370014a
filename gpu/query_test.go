package gpu_test

import (
	"testing"

	"github.com/bloeys/vgfb/gpu"
	"github.com/bloeys/vgfb/gpu/gputest"
)

func TestQueryCaps(t *testing.T) {

	fake := gputest.New()
	fake.MaxSamples = 2

	c, err := gpu.QueryCaps(fake)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Profile != gpu.Profile_GL3 || !c.Multisample {
		t.Errorf("expected GL3 with multisampling, got %+v", c)
	}

	if c.Samples != 2 {
		t.Errorf("expected samples to be clamped to MAX_SAMPLES=2, got %d", c.Samples)
	}

	if fake.Calls["GetString"] != 1 {
		t.Errorf("expected core profiles to skip the extension string, got %d GetString calls", fake.Calls["GetString"])
	}
}

func TestQueryCapsLegacyExtensions(t *testing.T) {

	fake := gputest.NewWithVersion("OpenGL ES 2.0 Mesa", "GL_OES_rgb8_rgba8 GL_OES_packed_depth_stencil")

	c, err := gpu.QueryCaps(fake)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Profile != gpu.Profile_GLES2 || !c.FBO || !c.DepthStencilFallback || c.SeparateReadDraw || c.Multisample {
		t.Errorf("unexpected GLES2 caps: %+v", c)
	}
}

func TestQueryCapsBadVersion(t *testing.T) {

	if _, err := gpu.QueryCaps(gputest.NewWithVersion("", "")); err == nil {
		t.Errorf("expected an error for an empty version string")
	}
}

func TestGLErr(t *testing.T) {

	fake := gputest.New()
	if err := gpu.GLErr(fake); err != nil {
		t.Fatalf("expected no error on a fresh context, got %v", err)
	}

	fake.BindFramebuffer(gpu.FRAMEBUFFER, 1234)
	if err := gpu.GLErr(fake); err == nil {
		t.Fatalf("expected binding an unknown framebuffer to raise an error")
	}

	if err := gpu.GLErr(fake); err != nil {
		t.Errorf("expected the error flag to be cleared after reading, got %v", err)
	}
}

func TestFramebufferStatusString(t *testing.T) {

	if s := gpu.FramebufferStatusString(gpu.FRAMEBUFFER_UNSUPPORTED); s != "FRAMEBUFFER_UNSUPPORTED" {
		t.Errorf("unexpected status name %q", s)
	}

	if s := gpu.FramebufferStatusString(0x1234); s != "0x1234" {
		t.Errorf("unexpected status name %q", s)
	}
}
