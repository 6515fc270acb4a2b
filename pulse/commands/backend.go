package commands

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/ssr/pulse"
	"github.com/oliverbestmann/ssr/render"
	"github.com/oliverbestmann/webgpu/wgpu"
)

//go:embed blit.wgsl
var blitShaderCode string

// bindings of a program draw, see programLayoutEntries
const (
	bindingSource = iota
	bindingSampler
	bindingUniforms
	bindingDepth
	bindingNormals
)

// Backend holds the device level state shared by all command buffers:
// the render targets, bind group layouts and the pipeline cache.
type Backend struct {
	ctx     *pulse.Context
	targets *pulse.RenderTargetPool

	programLayout      *wgpu.BindGroupLayout
	programPipeLayout  *wgpu.PipelineLayout
	blitLayout         *wgpu.BindGroupLayout
	blitPipelineLayout *wgpu.PipelineLayout
	pipelines          *pulse.PipelineCache[pipelineConfig]

	// bound if the camera provides no depth or normals
	fallback *pulse.Texture
}

var _ render.ProgramLoader = (*Backend)(nil)

// depth 1 in the red channel, an upwards normal otherwise
var fallbackPixels = []byte{255, 128, 255, 0}

func NewBackend(ctx *pulse.Context, targets *pulse.RenderTargetPool) (*Backend, error) {
	fallback := pulse.NewTexture(ctx, pulse.NewTextureOptions{
		Label:  "Fallback",
		Format: wgpu.TextureFormatRGBA8Unorm,
		Width:  1,
		Height: 1,
	})

	if err := fallback.WritePixels(ctx, fallbackPixels, 4); err != nil {
		fallback.Release()
		return nil, fmt.Errorf("upload fallback texture: %w", err)
	}

	programLayout := ctx.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Program.BindGroupLayout",
		Entries: programLayoutEntries(),
	})

	blitLayout := ctx.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Blit.BindGroupLayout",
		Entries: programLayoutEntries()[:bindingUniforms],
	})

	return &Backend{
		ctx:     ctx,
		targets: targets,

		programLayout: programLayout,
		programPipeLayout: ctx.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
			Label:            "Program.PipelineLayout",
			BindGroupLayouts: []*wgpu.BindGroupLayout{programLayout},
		}),

		blitLayout: blitLayout,
		blitPipelineLayout: ctx.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
			Label:            "Blit.PipelineLayout",
			BindGroupLayouts: []*wgpu.BindGroupLayout{blitLayout},
		}),

		pipelines: pulse.NewPipelineCache[pipelineConfig](ctx),
		fallback:  fallback,
	}, nil
}

// Targets returns the render targets shared by all command buffers.
func (b *Backend) Targets() *pulse.RenderTargetPool {
	return b.targets
}

// LoadProgram compiles every sub pass of the program once to report shader
// errors early. Pipelines for other keywords and formats are built on first use.
func (b *Backend) LoadProgram(source *render.ProgramSource) (*render.Program, error) {
	if len(source.Passes) == 0 {
		return nil, fmt.Errorf("program %q has no passes", source.Name)
	}

	program := &render.Program{ProgramSource: *source}

	for idx := range source.Passes {
		conf := b.programPipeline(program, idx, 0, wgpu.TextureFormatRGBA8Unorm)

		if _, err := b.pipelines.Get(conf); err != nil {
			b.releaseProgram(program)
			return nil, fmt.Errorf("program %q, pass %d: %w", source.Name, idx, err)
		}
	}

	slog.Info("Loaded program",
		slog.String("name", source.Name),
		slog.Int("passes", len(source.Passes)),
	)

	program.Handle = &programHandle{backend: b, program: program}

	return program, nil
}

func (b *Backend) releaseProgram(program *render.Program) {
	b.pipelines.Remove(func(conf pipelineConfig) bool {
		return conf.Program == program
	})
}

func (b *Backend) programPipeline(program *render.Program, pass int, keywords render.Keywords, format wgpu.TextureFormat) pipelineConfig {
	return pipelineConfig{
		Label:         fmt.Sprintf("%s.%d", program.Name, pass),
		Program:       program,
		Pass:          pass,
		Keywords:      keywords,
		Blend:         program.Passes[pass].Blend,
		FragmentEntry: program.Passes[pass].Entry,
		TargetFormat:  format,
		Layout:        b.programPipeLayout,
	}
}

func (b *Backend) blitPipeline(format wgpu.TextureFormat) pipelineConfig {
	return pipelineConfig{
		Label:         "Blit",
		Blend:         render.BlendReplace,
		FragmentEntry: "fs_main",
		TargetFormat:  format,
		Layout:        b.blitPipelineLayout,
	}
}

func (b *Backend) Release() {
	b.pipelines.Purge()
	b.fallback.Release()
	b.programPipeLayout.Release()
	b.programLayout.Release()
	b.blitPipelineLayout.Release()
	b.blitLayout.Release()
}

type programHandle struct {
	backend *Backend
	program *render.Program
}

// Release drops all pipelines of the program.
func (h *programHandle) Release() {
	h.backend.releaseProgram(h.program)
}

// pipelineConfig identifies a fullscreen pipeline. Program is nil for the
// builtin blit pipeline.
type pipelineConfig struct {
	Label         string
	Program       *render.Program
	Pass          int
	Keywords      render.Keywords
	Blend         render.BlendMode
	FragmentEntry string
	TargetFormat  wgpu.TextureFormat
	Layout        *wgpu.PipelineLayout
}

func (conf pipelineConfig) source() string {
	if conf.Program == nil {
		return blitShaderCode
	}

	return conf.Program.Specialize(conf.Keywords)
}

func (conf pipelineConfig) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info(
		"Create RenderPipeline",
		slog.String("label", conf.Label),
		slog.Any("format", conf.TargetFormat),
		slog.Int("keywords", int(conf.Keywords)),
	)

	shader, err := dev.TryCreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      conf.Label,
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: conf.source()},
	})

	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	defer shader.Release()

	blend := wgpu.BlendStateReplace
	if conf.Blend == render.BlendAlpha {
		blend = wgpu.BlendStateAlphaBlending
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  conf.Label,
		Layout: conf.Layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: conf.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.TargetFormat,
					Blend:     &blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}

	pipeline, err := dev.TryCreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	return pipeline, nil
}

func programLayoutEntries() []wgpu.BindGroupLayoutEntry {
	// depth and normals are read with textureLoad, which allows
	// non filterable formats like R32Float
	unfilterable := wgpu.TextureBindingLayout{
		SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
		ViewDimension: wgpu.TextureViewDimension2D,
	}

	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    bindingSource,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    bindingSampler,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
		{
			Binding:    bindingUniforms,
			Visibility: wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeUniform,
			},
		},
		{
			Binding:    bindingDepth,
			Visibility: wgpu.ShaderStageFragment,
			Texture:    unfilterable,
		},
		{
			Binding:    bindingNormals,
			Visibility: wgpu.ShaderStageFragment,
			Texture:    unfilterable,
		},
	}
}
