package ssr

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/ssr/render"
)

const passName = "ScreenSpaceReflectionsPass"

// scratch buffers, exclusively used by the pass between Setup and Cleanup
var (
	scratchA = render.NewTargetID(passName + "_temporaryBuffer0")
	scratchB = render.NewTargetID(passName + "_temporaryBuffer1")
)

// Pass renders screen space reflections for one camera: the scene color is
// ray marched into scratch buffer A, blurred once per configured radius and
// finally composited back onto the scene color.
type Pass struct {
	render.PassBase

	settings Settings

	loader render.ProgramLoader
	pool   render.CommandBufferPool

	// owned by the pass, lives as long as the pass
	program *render.Program

	// state of the camera between Setup and Cleanup
	frame *frame
}

// frame is an immutable snapshot of everything a camera needs during Execute.
type frame struct {
	program    *render.Program
	params     Params
	keywords   render.Keywords
	blurRadii  []int
	descriptor render.TextureDescriptor
	allocated  []render.TargetID
}

var _ render.Pass = (*Pass)(nil)

func NewPass(settings Settings, loader render.ProgramLoader, pool render.CommandBufferPool) *Pass {
	p := &Pass{
		settings: settings.Clamped(),
		loader:   loader,
		pool:     pool,
	}

	p.SetEvent(render.AfterRenderingOpaques)
	p.ConfigureInput(render.InputColor | render.InputDepth | render.InputNormal)

	return p
}

func (p *Pass) Name() string {
	return passName
}

func (p *Pass) Settings() Settings {
	return p.settings.Clamped()
}

// SetSettings replaces the settings used by the next Setup.
func (p *Pass) SetSettings(settings Settings) {
	p.settings = settings.Clamped()
}

// CreateProgram loads the shader program unless it already exists.
func (p *Pass) CreateProgram() error {
	if p.program != nil {
		return nil
	}

	program, err := p.loader.LoadProgram(ProgramSource())
	if err != nil {
		return fmt.Errorf("load reflections program: %w", err)
	}

	p.program = program

	return nil
}

func (p *Pass) Setup(cmd render.CommandBuffer, cam *render.CameraData) {
	if err := p.CreateProgram(); err != nil {
		// the effect is skipped in Execute
		slog.Error("Screen space reflections not available", slog.Any("err", err))
	}

	settings := &p.settings

	desc := cam.Target
	desc.DepthBits = 0
	desc.SampleCount = 1
	desc.Format = render.ColorFormatARGB32

	if settings.LowerTextureTo16Bit {
		desc.Format = render.ColorFormatARGB4444
	}

	desc = desc.Downsampled(settings.Downsamples)

	cmd.GetTemporaryRT(scratchA, desc, render.FilterBilinear)
	cmd.GetTemporaryRT(scratchB, desc, render.FilterBilinear)

	p.frame = &frame{
		program:    p.program,
		params:     paramsOf(settings, desc.Width, desc.Height),
		keywords:   keywordsOf(settings),
		blurRadii:  settings.BlurRadii,
		descriptor: desc,
		allocated:  []render.TargetID{scratchA, scratchB},
	}

	p.ConfigureTarget(scratchA)
	p.ConfigureClear(render.ClearAll, render.ColorBlack)
}

func (p *Pass) Execute(cmd render.CommandBuffer, cam *render.CameraData) {
	f := p.frame
	if f == nil || f.program == nil {
		return
	}

	draw := func(pass int, params Params, source, target render.TargetID) {
		cmd.Draw(render.ShaderDraw{
			Program:  f.program,
			Pass:     pass,
			Source:   source,
			Target:   target,
			Uniforms: params,
			Keywords: f.keywords,
		})
	}

	render.ProfilingScope(cmd, passName, func() {
		cmd.Blit(render.CameraColor, scratchB)
		draw(PassRayMarch, f.params, scratchB, scratchA)

		for _, radius := range f.blurRadii {
			draw(PassBlur, f.params.WithBlurRadius(radius), scratchA, scratchB)
			cmd.Blit(scratchB, scratchA)
		}

		draw(PassComposite, f.params, scratchA, render.CameraColor)
	})
}

func (p *Pass) Cleanup(cmd render.CommandBuffer) {
	f := p.frame
	if f == nil {
		return
	}

	p.frame = nil

	if cmd == nil {
		cmd = p.pool.Get()
		defer p.pool.Release(cmd)
	}

	for _, id := range f.allocated {
		cmd.ReleaseTemporaryRT(id)
	}
}

// Release frees the shader program. A later Setup creates a new one.
func (p *Pass) Release() {
	if p.program != nil {
		p.program.Release()
		p.program = nil
	}
}
