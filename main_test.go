package main

import (
	"image"
	"testing"

	"github.com/bloeys/gglm/gglm"
)

func TestLetterbox(t *testing.T) {

	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH int32
		want                   image.Rectangle
	}{
		{name: "same-size", srcW: 640, srcH: 360, dstW: 640, dstH: 360, want: image.Rect(0, 0, 640, 360)},
		{name: "scale-up", srcW: 640, srcH: 360, dstW: 1280, dstH: 720, want: image.Rect(0, 0, 1280, 720)},
		{name: "pillarbox", srcW: 100, srcH: 100, dstW: 300, dstH: 100, want: image.Rect(100, 0, 200, 100)},
		{name: "letterbox", srcW: 200, srcH: 100, dstW: 200, dstH: 300, want: image.Rect(0, 100, 200, 200)},
		{name: "empty", srcW: 0, srcH: 100, dstW: 200, dstH: 300, want: image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := letterbox(tt.srcW, tt.srcH, tt.dstW, tt.dstH); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLerpColor(t *testing.T) {

	a := gglm.NewVec4(0, 0, 0, 1)
	b := gglm.NewVec4(1, 0.5, 0, 1)

	c := lerpColor(&a, &b, 0.5)
	want := [4]float32{0.5, 0.25, 0, 1}
	if c.Data != want {
		t.Errorf("expected %v, got %v", want, c.Data)
	}
}
