package ssr

import (
	"github.com/oliverbestmann/ssr/render"
)

// Feature adds the screen space reflections pass to a renderer.
type Feature struct {
	// Event the pass is injected at. Must be set before the
	// feature is added to a renderer.
	Event render.PassEvent

	settings Settings
	pass     *Pass
	active   bool
}

var _ render.Feature = (*Feature)(nil)

func NewFeature(settings Settings) *Feature {
	return &Feature{
		Event:    render.AfterRenderingOpaques,
		settings: settings,
		active:   true,
	}
}

func (f *Feature) Create(r *render.Renderer) error {
	f.pass = NewPass(f.settings, r.Loader(), r.Pool())
	f.pass.SetEvent(f.Event)

	return f.pass.CreateProgram()
}

func (f *Feature) AddRenderPasses(r *render.Renderer, cam *render.CameraData) {
	if f.active && f.pass != nil {
		r.EnqueuePass(f.pass)
	}
}

// SetActive enables or disables the reflections for the following frames.
func (f *Feature) SetActive(active bool) {
	f.active = active
}

func (f *Feature) Active() bool {
	return f.active
}

func (f *Feature) Settings() Settings {
	return f.settings.Clamped()
}

// SetSettings replaces the settings for the following frames.
func (f *Feature) SetSettings(settings Settings) {
	f.settings = settings

	if f.pass != nil {
		f.pass.SetSettings(settings)
	}
}

func (f *Feature) Release() {
	if f.pass != nil {
		f.pass.Release()
		f.pass = nil
	}
}
