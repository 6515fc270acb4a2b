package pulse

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// View manages the configuration of the surface of a Context.
type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration
}

func NewView(dev *Context) (*View, error) {
	if dev.Headless() {
		return nil, errors.New("context has no surface")
	}

	st := &View{Context: dev}

	// Print the available render formats
	caps := dev.Surface.GetCapabilities(dev.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	if len(caps.AlphaModes) == 0 {
		return nil, errors.New("surface is not supported by the adapter")
	}

	st.surfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      wgpu.TextureFormatBGRA8Unorm,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],

		// try to reduce input latency
		DesiredMaximumFrameLatency: 1,
	}

	return st, nil
}

func (vs *View) Format() wgpu.TextureFormat {
	return vs.surfaceConfig.Format
}

func (vs *View) Size() (uint32, uint32) {
	return vs.surfaceConfig.Width, vs.surfaceConfig.Height
}

func (vs *View) Configure(width, height uint32) {
	vs.surfaceConfig.Width = width
	vs.surfaceConfig.Height = height
	vs.Surface.Configure(vs.Device, vs.surfaceConfig)
}

// SurfaceTexture returns the texture of the next frame. The returned
// function releases the texture, it must be called after Present.
func (vs *View) SurfaceTexture() (*Texture, func(), error) {
	surface, err := vs.Surface.TryGetCurrentTexture()
	if err != nil {
		return nil, nil, fmt.Errorf("get current texture: %w", err)
	}

	surfaceView := surface.CreateView(nil)

	release := func() {
		surfaceView.Release()
		surface.Release()
	}

	return WrapTexture(surface, surfaceView), release, nil
}

func (vs *View) Present() {
	vs.Surface.Present()
}
