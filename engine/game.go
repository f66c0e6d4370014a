package engine

import (
	"github.com/bloeys/vgfb/input"
	"github.com/bloeys/vgfb/timing"
)

var isRunning = false

type Game interface {
	Init()

	Update()
	Render()
	FrameEnd()

	DeInit()
}

// Run calls game.Init, then runs the frame loop until Quit is called or the window is closed, then calls game.DeInit
func Run(g Game, w *Window) {

	isRunning = true

	g.Init()

	for isRunning {

		timing.FrameStarted()
		w.handleInputs()

		if input.IsQuitClicked() {
			Quit()
			break
		}

		g.Update()
		if !isRunning {
			break
		}

		g.Render()
		w.SDLWin.GLSwap()

		g.FrameEnd()
		timing.FrameEnded()
	}

	g.DeInit()
}

func Quit() {
	isRunning = false
}
