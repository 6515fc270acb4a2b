package commands

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/ssr/pulse"
	"github.com/oliverbestmann/ssr/render"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// number of bytes of uniform data a command buffer can hold before it
// needs to be flushed
const arenaCapacity = 256 * uniformAlignment

// CommandBuffer implements render.CommandBuffer on top of a wgpu.CommandEncoder.
// Every command is encoded as its own render pass. Nothing is executed
// before Submit is called.
type CommandBuffer struct {
	backend *Backend
	label   string

	encoder *wgpu.CommandEncoder

	arena      uniformArena
	bufUniform *wgpu.Buffer

	// released after submit
	bindGroups []*wgpu.BindGroup

	groups debugGroups

	// number of encoded render passes since the last submit
	passCount int
}

var _ render.CommandBuffer = (*CommandBuffer)(nil)

func (b *Backend) NewCommandBuffer(label string) *CommandBuffer {
	bufUniform := b.ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + ".Uniforms",
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:  arenaCapacity,
	})

	return &CommandBuffer{
		backend:    b,
		label:      label,
		arena:      newUniformArena(arenaCapacity),
		bufUniform: bufUniform,
	}
}

func (c *CommandBuffer) GetTemporaryRT(id render.TargetID, desc render.TextureDescriptor, filter render.FilterMode) {
	c.backend.targets.Acquire(id, desc, filter)
}

func (c *CommandBuffer) ReleaseTemporaryRT(id render.TargetID) {
	c.backend.targets.Release(id)
}

func (c *CommandBuffer) Blit(source, target render.TargetID) {
	src, dst, ok := c.lookupPair("Blit", source, target)
	if !ok {
		return
	}

	pipeline, err := c.backend.pipelines.Get(c.backend.blitPipeline(dst.Format()))
	if err != nil {
		// the builtin shader must always compile
		panic(fmt.Sprintf("blit pipeline: %s", err))
	}

	bindGroup := c.createBindGroup(c.backend.blitLayout, []wgpu.BindGroupEntry{
		{
			Binding:     bindingSource,
			TextureView: src.View(),
		},
		{
			Binding: bindingSampler,
			Sampler: pulse.CachedSampler(c.backend.ctx.Device, pulse.SamplerDescriptorOf(src.Filter)),
		},
	})

	c.fullscreen("Blit", dst, pipeline, bindGroup)
}

func (c *CommandBuffer) Draw(draw render.ShaderDraw) {
	program := draw.Program
	if program == nil || draw.Pass < 0 || draw.Pass >= program.PassCount() {
		slog.Error("Invalid draw", slog.Int("pass", draw.Pass))
		return
	}

	src, dst, ok := c.lookupPair(program.Name, draw.Source, draw.Target)
	if !ok {
		return
	}

	conf := c.backend.programPipeline(program, draw.Pass, draw.Keywords, dst.Format())

	pipeline, err := c.backend.pipelines.Get(conf)
	if err != nil {
		slog.Error("Skip draw", slog.String("program", program.Name), slog.Any("err", err))
		return
	}

	var uniforms []byte
	if draw.Uniforms != nil {
		uniforms = draw.Uniforms.UniformBytes()
	}

	slot := c.pushUniforms(uniforms)

	bindGroup := c.createBindGroup(c.backend.programLayout, []wgpu.BindGroupEntry{
		{
			Binding:     bindingSource,
			TextureView: src.View(),
		},
		{
			Binding: bindingSampler,
			Sampler: pulse.CachedSampler(c.backend.ctx.Device, pulse.SamplerDescriptorOf(src.Filter)),
		},
		{
			Binding: bindingUniforms,
			Buffer:  c.bufUniform,
			Offset:  slot.Offset,
			Size:    slot.Size,
		},
		{
			Binding:     bindingDepth,
			TextureView: c.cameraView(render.CameraDepth),
		},
		{
			Binding:     bindingNormals,
			TextureView: c.cameraView(render.CameraNormals),
		},
	})

	c.fullscreen(fmt.Sprintf("%s.%d", program.Name, draw.Pass), dst, pipeline, bindGroup)
}

func (c *CommandBuffer) BeginSample(name string) {
	c.groups.push(c.encoderOrNew(), name)
}

func (c *CommandBuffer) EndSample(name string) {
	if c.encoder == nil || !c.groups.pop(c.encoder, name) {
		slog.Warn("Unbalanced sample", slog.String("name", name), slog.Any("open", c.groups.open))
	}
}

// Submit encodes all recorded commands and submits them to the queue.
func (c *CommandBuffer) Submit() {
	if c.encoder == nil {
		return
	}

	if !c.groups.empty() {
		slog.Warn("Submitting with open samples", slog.Any("open", c.groups.open))
		c.groups.closeAll(c.encoder)
	}

	// the uniform upload is ordered before the submitted commands
	if !c.arena.empty() {
		c.backend.ctx.WriteBuffer(c.bufUniform, 0, c.arena.bytes())
	}

	cmdBuffer := c.encoder.Finish(&wgpu.CommandBufferDescriptor{Label: c.label})
	defer cmdBuffer.Release()

	c.backend.ctx.Submit(cmdBuffer)

	slog.Debug("Submitted command buffer",
		slog.String("label", c.label),
		slog.Int("passes", c.passCount),
		slog.Int("uniformBytes", len(c.arena.bytes())),
	)

	c.encoder.Release()
	c.encoder = nil

	for _, bindGroup := range c.bindGroups {
		bindGroup.Release()
	}

	c.bindGroups = c.bindGroups[:0]
	c.passCount = 0
	c.arena.reset()
}

// Release frees the GPU resources of the command buffer. Recorded but not
// yet submitted commands are dropped.
func (c *CommandBuffer) Release() {
	if c.encoder != nil {
		c.encoder.Release()
		c.encoder = nil
	}

	for _, bindGroup := range c.bindGroups {
		bindGroup.Release()
	}

	c.bindGroups = nil
	c.groups = debugGroups{}
	c.bufUniform.Release()
}

func (c *CommandBuffer) encoderOrNew() *wgpu.CommandEncoder {
	if c.encoder == nil {
		c.encoder = c.backend.ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: c.label})
	}

	return c.encoder
}

func (c *CommandBuffer) pushUniforms(value []byte) uniformSlot {
	slot, ok := c.arena.push(value)
	if ok {
		return slot
	}

	// arena is full, submit what we have and start over
	slog.Debug("Uniform arena full, flushing", slog.String("label", c.label))

	c.flush()

	slot, ok = c.arena.push(value)
	if !ok {
		panic(fmt.Sprintf("uniform block of %d bytes exceeds arena capacity", len(value)))
	}

	return slot
}

// flush submits the recorded commands mid-frame. Open debug groups are
// closed on the old encoder and reopened on a new one.
func (c *CommandBuffer) flush() {
	if c.encoder == nil {
		return
	}

	open := c.groups.closeAll(c.encoder)
	c.Submit()
	c.groups.reopen(c.encoderOrNew(), open)
}

func (c *CommandBuffer) createBindGroup(layout *wgpu.BindGroupLayout, entries []wgpu.BindGroupEntry) *wgpu.BindGroup {
	bindGroup := c.backend.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   c.label + ".BindGroup",
		Layout:  layout,
		Entries: entries,
	})

	c.bindGroups = append(c.bindGroups, bindGroup)

	return bindGroup
}

func (c *CommandBuffer) fullscreen(label string, target *pulse.RenderTarget, pipeline *wgpu.RenderPipeline, bindGroup *wgpu.BindGroup) {
	pass := c.encoderOrNew().BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    target.View(),
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
	})

	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()

	c.passCount += 1
}

// lookupPair resolves source and target of a draw. A texture can not be
// read and written in the same render pass.
func (c *CommandBuffer) lookupPair(label string, source, target render.TargetID) (src, dst *pulse.RenderTarget, ok bool) {
	if source == target {
		slog.Error("Source and target must differ",
			slog.String("command", label),
			slog.String("target", target.String()),
		)

		return nil, nil, false
	}

	src, errSrc := c.backend.targets.Lookup(source)
	dst, errDst := c.backend.targets.Lookup(target)

	if errSrc != nil || errDst != nil {
		slog.Error("Skip command",
			slog.String("command", label),
			slog.Any("source", errSrc),
			slog.Any("target", errDst),
		)

		return nil, nil, false
	}

	return src, dst, true
}

func (c *CommandBuffer) cameraView(id render.TargetID) *wgpu.TextureView {
	target, err := c.backend.targets.Lookup(id)
	if err != nil {
		return c.backend.fallback.View()
	}

	return target.View()
}
