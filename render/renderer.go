package render

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// ErrMissingInput is returned if a pass reads a camera buffer the camera
// does not provide.
var ErrMissingInput = errors.New("camera does not provide pass input")

type RendererOptions struct {
	// Loads shader programs for features. Required.
	Loader ProgramLoader

	// Command buffers for work outside of the pass callbacks. Required.
	Pool CommandBufferPool
}

// Renderer schedules the passes of its features for every camera.
// Cameras are rendered strictly one after another.
type Renderer struct {
	loader ProgramLoader
	pool   CommandBufferPool

	features []Feature
	queue    []Pass
}

func NewRenderer(opts RendererOptions) *Renderer {
	if opts.Loader == nil || opts.Pool == nil {
		panic("renderer requires a program loader and a command buffer pool")
	}

	return &Renderer{
		loader: opts.Loader,
		pool:   opts.Pool,
	}
}

func (r *Renderer) Loader() ProgramLoader {
	return r.loader
}

func (r *Renderer) Pool() CommandBufferPool {
	return r.pool
}

// AddFeature creates the feature and registers it with the renderer.
func (r *Renderer) AddFeature(feature Feature) error {
	if err := feature.Create(r); err != nil {
		return fmt.Errorf("create feature %T: %w", feature, err)
	}

	r.features = append(r.features, feature)

	return nil
}

// EnqueuePass schedules pass for the camera currently being rendered.
func (r *Renderer) EnqueuePass(pass Pass) {
	r.queue = append(r.queue, pass)
}

// RenderCamera runs setup, execute and cleanup of every enqueued pass for cam.
func (r *Renderer) RenderCamera(cmd CommandBuffer, cam *CameraData) error {
	r.queue = r.queue[:0]

	for _, feature := range r.features {
		feature.AddRenderPasses(r, cam)
	}

	// keep enqueue order for passes sharing the same event
	slices.SortStableFunc(r.queue, func(a, b Pass) int {
		return int(a.Event()) - int(b.Event())
	})

	for _, pass := range r.queue {
		if missing := pass.Inputs() &^ cam.Available; missing != 0 {
			return fmt.Errorf("pass %q reads %v: %w", pass.Name(), missing.targets(), ErrMissingInput)
		}
	}

	for _, pass := range r.queue {
		slog.Debug("Render pass",
			slog.String("camera", cam.Name),
			slog.String("pass", pass.Name()),
			slog.String("event", pass.Event().String()),
		)

		pass.Setup(cmd, cam)

		if clear, ok := pass.ClearTarget(); ok {
			cmd.ClearRenderTarget(clear.Target, clear.Flags, clear.Color)
		}

		pass.Execute(cmd, cam)
	}

	for _, pass := range r.queue {
		pass.Cleanup(cmd)
	}

	return nil
}

// Release releases all features. The renderer must not be used afterwards.
func (r *Renderer) Release() {
	for _, feature := range r.features {
		feature.Release()
	}

	r.features = nil
	r.queue = nil
}
