package orion

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/ssr/glimpse"
	"github.com/oliverbestmann/ssr/pulse"
)

type LoopState struct {
	Window        glimpse.Window
	App           App
	SurfaceWidth  uint32
	SurfaceHeight uint32

	Times FrameTimes
}

func loopOnce(view *pulse.View, loopState *LoopState, inputState glimpse.UpdateInputState) error {
	DebugTimings.StartFrame()
	loopState.Times.Tick(time.Now())

	// get surface size for next frame
	surfaceWidth, surfaceHeight := loopState.Window.GetSize()

	// reconfigure surface if needed
	if loopState.SurfaceWidth != surfaceWidth || loopState.SurfaceHeight != surfaceHeight {
		slog.Debug("Resize surface",
			slog.Int("width", int(surfaceWidth)),
			slog.Int("height", int(surfaceHeight)),
		)

		view.Configure(surfaceWidth, surfaceHeight)

		if err := loopState.App.Resize(surfaceWidth, surfaceHeight); err != nil {
			return fmt.Errorf("resize app: %w", err)
		}

		loopState.SurfaceWidth = surfaceWidth
		loopState.SurfaceHeight = surfaceHeight
	}

	DebugTimings.StartGetCurrentTexture()

	// get the surface texture (the actual screen)
	surface, release, err := view.SurfaceTexture()
	if err != nil {
		return err
	}

	defer release()

	// get input after waiting for a texture to keep input lag low
	DebugTimings.StartAppUpdate()

	if err := loopState.App.Update(inputState()); err != nil {
		return fmt.Errorf("update app: %w", err)
	}

	DebugTimings.StartAppDraw()

	err = loopState.App.Draw(Frame{
		Surface: surface,
		Times:   &loopState.Times,
	})

	if err != nil {
		return fmt.Errorf("draw app: %w", err)
	}

	// present the rendered image
	view.Present()

	DebugTimings.EndFrame()

	return nil
}
