package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func keyEvent(kc sdl.Keycode, state uint8, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{
		State:  state,
		Repeat: repeat,
		Keysym: sdl.Keysym{Sym: kc},
	}
}

func TestKeyStates(t *testing.T) {

	ClearKeyboardState()
	EventLoopStart()

	if KeyDown(sdl.K_s) || KeyClicked(sdl.K_s) || !KeyUp(sdl.K_s) {
		t.Fatalf("expected unknown key to be up")
	}

	HandleKeyboardEvent(keyEvent(sdl.K_s, sdl.PRESSED, 0))
	if !KeyClicked(sdl.K_s) || !KeyDown(sdl.K_s) || KeyUp(sdl.K_s) {
		t.Errorf("expected key to be clicked and down")
	}

	// Held keys stay down but are only clicked on the first frame
	EventLoopStart()
	HandleKeyboardEvent(keyEvent(sdl.K_s, sdl.PRESSED, 1))
	if KeyClicked(sdl.K_s) || !KeyDown(sdl.K_s) {
		t.Errorf("expected repeated key to be down but not clicked")
	}

	EventLoopStart()
	HandleKeyboardEvent(keyEvent(sdl.K_s, sdl.RELEASED, 0))
	if !KeyReleased(sdl.K_s) || KeyDown(sdl.K_s) || !KeyUp(sdl.K_s) {
		t.Errorf("expected key to be released")
	}

	EventLoopStart()
	if KeyReleased(sdl.K_s) {
		t.Errorf("expected release to only last one frame")
	}
}

func TestQuitAndResize(t *testing.T) {

	EventLoopStart()
	if IsQuitClicked() {
		t.Fatalf("expected no quit request")
	}

	if _, _, ok := Resized(); ok {
		t.Fatalf("expected no resize")
	}

	HandleQuitEvent(&sdl.QuitEvent{})
	HandleResize(800, 600)

	if !IsQuitClicked() {
		t.Errorf("expected a quit request")
	}

	if w, h, ok := Resized(); !ok || w != 800 || h != 600 {
		t.Errorf("expected resize to 800x600, got %dx%d (ok=%v)", w, h, ok)
	}

	EventLoopStart()
	if IsQuitClicked() {
		t.Errorf("expected quit request to be cleared")
	}

	if _, _, ok := Resized(); ok {
		t.Errorf("expected resize to be cleared")
	}
}
