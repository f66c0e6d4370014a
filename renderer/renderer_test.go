package renderer

import (
	"io"
	"testing"

	"github.com/bloeys/vgfb/gpu"
	"github.com/bloeys/vgfb/gpu/gputest"
	"github.com/bloeys/vgfb/images"
	"github.com/bloeys/vgfb/logging"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	m.Run()
}

func TestNewContext(t *testing.T) {

	fake := gputest.New()
	ctx, err := NewContext(fake, ContextOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.Caps.Profile != gpu.Profile_GL3 || !ctx.Caps.Multisample || ctx.Caps.Samples != gpu.DefaultSamples {
		t.Errorf("unexpected caps: %+v", ctx.Caps)
	}

	if ctx.Store == nil || ctx.Images == nil {
		t.Fatalf("expected the context to own an image store")
	}

	if _, err := NewContext(gputest.NewWithVersion("bogus", ""), ContextOptions{}); err == nil {
		t.Errorf("expected an error for an unparsable version")
	}
}

func TestContextOptions(t *testing.T) {

	ctx, err := NewContext(gputest.New(), ContextOptions{DisableMultisample: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.Caps.Multisample {
		t.Errorf("expected multisampling to be disabled")
	}

	ctx, err = NewContext(gputest.New(), ContextOptions{Samples: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.Caps.Samples != 2 {
		t.Errorf("expected 2 samples, got %d", ctx.Caps.Samples)
	}

	// More samples than supported keeps the supported count
	ctx, err = NewContext(gputest.New(), ContextOptions{Samples: 64})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.Caps.Samples != gpu.DefaultSamples {
		t.Errorf("expected %d samples, got %d", gpu.DefaultSamples, ctx.Caps.Samples)
	}
}

func TestDefaultFramebuffer(t *testing.T) {

	fake := gputest.New()
	ctx := NewContextWithImages(fake, gpu.Caps{FBO: true}, images.NewStore(fake, false, 0))

	windowFbo := fake.GenFramebuffer()
	fake.BindFramebuffer(gpu.FRAMEBUFFER, windowFbo)

	if got := ctx.DefaultFramebuffer(); got != windowFbo {
		t.Fatalf("expected default framebuffer %d, got %d", windowFbo, got)
	}

	// The value is cached after the first query
	fake.BindFramebuffer(gpu.FRAMEBUFFER, 0)
	if got := ctx.DefaultFramebuffer(); got != windowFbo {
		t.Errorf("expected cached default framebuffer %d, got %d", windowFbo, got)
	}

	ctx.ResetDefaultFramebuffer()
	if got := ctx.DefaultFramebuffer(); got != 0 {
		t.Errorf("expected default framebuffer 0 after reset, got %d", got)
	}

	ctx.SetDefaultFramebuffer(7)
	if got := ctx.DefaultFramebuffer(); got != 7 {
		t.Errorf("expected default framebuffer 7, got %d", got)
	}
}
