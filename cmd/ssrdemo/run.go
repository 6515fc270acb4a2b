package main

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/ssr/glimpse"
	"github.com/oliverbestmann/ssr/orion"
	"github.com/oliverbestmann/ssr/pulse"
	"github.com/oliverbestmann/ssr/pulse/commands"
	"github.com/oliverbestmann/ssr/render"
	"github.com/oliverbestmann/ssr/scene"
	"github.com/oliverbestmann/ssr/ssr"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/pkg/profile"
	"github.com/urfave/cli"
)

// highest downsample level the D key cycles through
const maxDownsamples = 3

var (
	sceneTarget   = render.NewTargetID("_SceneColor")
	surfaceTarget = render.NewTargetID("_Surface")
)

func RunDemo(ctx *cli.Context) error {
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	if dir := ctx.String("cpuprofile"); dir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir)).Stop()
	}

	app := &demoApp{
		settings:     settings,
		settingsPath: ctx.GlobalString("settings"),
	}

	return orion.RunApp(orion.RunAppOptions{
		App:          app,
		WindowWidth:  ctx.Int("width"),
		WindowHeight: ctx.Int("height"),
		WindowTitle:  "Screen Space Reflections",
	})
}

type demoApp struct {
	settings     ssr.Settings
	settingsPath string

	ctx      *pulse.Context
	targets  *pulse.RenderTargetPool
	backend  *commands.Backend
	pool     *commands.Pool
	cmd      *commands.CommandBuffer
	renderer *render.Renderer
	feature  *ssr.Feature

	cam render.CameraData

	// camera buffers, recreated on resize
	sceneColor *pulse.Texture
	color      *pulse.Texture
	depth      *pulse.Texture
	normals    *pulse.Texture
}

func (a *demoApp) Initialize(ctx *pulse.Context, view *pulse.View) error {
	a.ctx = ctx
	a.targets = pulse.NewRenderTargetPool(ctx)

	backend, err := commands.NewBackend(ctx, a.targets)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	a.backend = backend
	a.pool = commands.NewPool(a.backend)
	a.cmd = a.backend.NewCommandBuffer("Frame")

	a.renderer = render.NewRenderer(render.RendererOptions{
		Loader: a.backend,
		Pool:   a.pool,
	})

	a.feature = ssr.NewFeature(a.settings)

	if err := a.renderer.AddFeature(a.feature); err != nil {
		return fmt.Errorf("add reflections: %w", err)
	}

	return nil
}

func (a *demoApp) Resize(width, height uint32) error {
	a.releaseCameraBuffers()

	opts := scene.DefaultOptions()
	opts.Width = int(width)
	opts.Height = int(height)

	buffers := scene.Generate(opts)

	var err error

	a.sceneColor, err = pulse.NewTextureFromImage(a.ctx, buffers.Color, "SceneColor")
	if err != nil {
		return fmt.Errorf("upload scene color: %w", err)
	}

	a.normals, err = pulse.NewTextureFromImage(a.ctx, buffers.Normals, "SceneNormals")
	if err != nil {
		return fmt.Errorf("upload scene normals: %w", err)
	}

	a.depth = pulse.NewTexture(a.ctx, pulse.NewTextureOptions{
		Label:  "SceneDepth",
		Format: wgpu.TextureFormatR32Float,
		Width:  width,
		Height: height,
	})

	// the depth buffer always matches the texture size
	orion.Handle(a.depth.WritePixels(a.ctx, buffers.Depth.Bytes(), 4), "upload scene depth")

	a.color = pulse.NewTexture(a.ctx, pulse.NewTextureOptions{
		Label:  "CameraColor",
		Format: wgpu.TextureFormatRGBA8Unorm,
		Width:  width,
		Height: height,
	})

	a.targets.Bind(sceneTarget, a.sceneColor, render.FilterPoint)
	a.targets.Bind(render.CameraColor, a.color, render.FilterBilinear)
	a.targets.Bind(render.CameraDepth, a.depth, render.FilterPoint)
	a.targets.Bind(render.CameraNormals, a.normals, render.FilterPoint)

	a.cam = render.CameraData{
		Name: "Main",
		Target: render.TextureDescriptor{
			Width:       width,
			Height:      height,
			Format:      render.ColorFormatARGB32,
			DepthBits:   24,
			SampleCount: 1,
		},
		Available: render.InputColor | render.InputDepth | render.InputNormal,
	}

	// scratch buffers of the old size are of no use anymore
	a.targets.Purge()

	return nil
}

func (a *demoApp) Update(input glimpse.InputState) error {
	if input.IsKeyJustPressed(glimpse.KeyEscape) {
		orion.CurrentWindow().Close()
	}

	if input.IsKeyJustPressed(glimpse.KeySpace) {
		a.feature.SetActive(!a.feature.Active())
		slog.Info("Toggle reflections", slog.Bool("active", a.feature.Active()))
	}

	if input.IsKeyJustPressed(glimpse.KeyD) {
		settings := a.feature.Settings()
		settings.Downsamples = (settings.Downsamples + 1) % (maxDownsamples + 1)
		a.feature.SetSettings(settings)

		slog.Info("Change downsamples", slog.Int("downsamples", settings.Downsamples))
	}

	if input.IsKeyJustPressed(glimpse.KeyR) && a.settingsPath != "" {
		settings, err := ssr.LoadSettingsFile(a.settingsPath)
		if err != nil {
			// keep the current settings
			slog.Warn("Reload settings", slog.Any("err", err))
			return nil
		}

		a.feature.SetSettings(settings)
		slog.Info("Settings reloaded", slog.String("path", a.settingsPath))
	}

	return nil
}

func (a *demoApp) Draw(frame orion.Frame) error {
	a.targets.Bind(surfaceTarget, frame.Surface, render.FilterPoint)
	defer a.targets.Release(surfaceTarget)

	// start every frame from the unmodified scene
	a.cmd.Blit(sceneTarget, render.CameraColor)

	if err := a.renderer.RenderCamera(a.cmd, &a.cam); err != nil {
		return err
	}

	a.cmd.Blit(render.CameraColor, surfaceTarget)
	a.cmd.Submit()

	if frame.Times.FrameCount%60 == 0 {
		title := fmt.Sprintf("Screen Space Reflections - %1.1f fps", frame.Times.FPS())
		if !a.feature.Active() {
			title += " (off)"
		}

		orion.CurrentWindow().SetTitle(title)
	}

	return nil
}

func (a *demoApp) releaseCameraBuffers() {
	for _, texture := range []*pulse.Texture{a.sceneColor, a.color, a.depth, a.normals} {
		if texture != nil {
			texture.Release()
		}
	}
}

func (a *demoApp) Release() {
	a.renderer.Release()
	a.cmd.Release()
	a.pool.Purge()
	a.targets.Purge()
	a.releaseCameraBuffers()
	a.backend.Release()
}
