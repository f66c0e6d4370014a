package timing

import (
	"testing"
	"time"
)

func TestAvgFPS(t *testing.T) {

	Init()
	if GetAvgFPS() != 0 {
		t.Errorf("expected 0 fps before any frame, got %f", GetAvgFPS())
	}

	for i := 0; i < 10; i++ {
		frameEnded(20 * time.Millisecond)
	}

	if DT() != 0.02 {
		t.Errorf("expected dt of 0.02, got %f", DT())
	}

	if fps := GetAvgFPS(); fps < 49.9 || fps > 50.1 {
		t.Errorf("expected ~50 fps, got %f", fps)
	}

	// Older frames fall out of the window
	for i := 0; i < fpsWindowSize; i++ {
		frameEnded(10 * time.Millisecond)
	}

	if fps := GetAvgFPS(); fps < 99.9 || fps > 100.1 {
		t.Errorf("expected ~100 fps, got %f", fps)
	}
}

func TestFrameEnded(t *testing.T) {

	Init()
	FrameStarted()
	FrameEnded()

	if DT() < 0 {
		t.Errorf("expected a non-negative dt, got %f", DT())
	}

	if ElapsedTime() < 0 {
		t.Errorf("expected non-negative elapsed time")
	}
}
