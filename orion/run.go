package orion

import (
	"errors"
	"fmt"

	"github.com/oliverbestmann/ssr/glimpse"
	"github.com/oliverbestmann/ssr/pulse"
)

type RunAppOptions struct {
	// app to run. This is the only field that is required
	App App

	WindowWidth  int
	WindowHeight int
	WindowTitle  string
}

func RunApp(opts RunAppOptions) error {
	app := opts.App
	if app == nil {
		return errors.New("App must not be nil")
	}

	if opts.WindowWidth == 0 {
		opts.WindowWidth = 1280
	}

	if opts.WindowHeight == 0 {
		opts.WindowHeight = 720
	}

	if opts.WindowTitle == "" {
		opts.WindowTitle = "Orion"
	}

	win, err := glimpse.NewWindow(
		opts.WindowWidth,
		opts.WindowHeight,
		opts.WindowTitle,
	)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	// initialize the webgpu device
	ctx, err := pulse.New(win.SurfaceDescriptor())
	if err != nil {
		return fmt.Errorf("initializing wgpu: %w", err)
	}

	defer ctx.Release()

	view, err := pulse.NewView(ctx)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}

	currentWindow.set(win)
	currentContext.set(ctx)

	defer currentWindow.reset()
	defer currentContext.reset()

	if err := app.Initialize(ctx, view); err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	// release app resources before the context goes away
	if releaser, ok := app.(interface{ Release() }); ok {
		defer releaser.Release()
	}

	loopState := &LoopState{
		Window: win,
		App:    app,
	}

	return win.Run(func(inputState glimpse.UpdateInputState) error {
		return loopOnce(view, loopState, inputState)
	})
}
