package orion

import (
	"github.com/oliverbestmann/ssr/glimpse"
	"github.com/oliverbestmann/ssr/pulse"
)

// Frame is passed to App.Draw once per frame.
type Frame struct {
	// the texture of the surface, presented after Draw returns
	Surface *pulse.Texture

	Times *FrameTimes
}

type App interface {
	// Initialize is called once before the first frame.
	Initialize(ctx *pulse.Context, view *pulse.View) error

	// Resize is called before the first frame and every time the
	// size of the surface changes.
	Resize(width, height uint32) error

	Update(input glimpse.InputState) error
	Draw(frame Frame) error
}
