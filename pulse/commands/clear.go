package commands

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oliverbestmann/ssr/render"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// ClearRenderTarget clears the color of the target using the load op of an
// otherwise empty render pass. Targets have no depth attachment, so
// render.ClearDepth has nothing to clear.
func (c *CommandBuffer) ClearRenderTarget(target render.TargetID, flags render.ClearFlag, color mgl32.Vec4) {
	if flags&render.ClearColor == 0 {
		return
	}

	dst, err := c.backend.targets.Lookup(target)
	if err != nil {
		slog.Error("Skip clear", slog.Any("err", err))
		return
	}

	desc := &wgpu.RenderPassDescriptor{
		Label: "Clear." + target.String(),
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    dst.View(),
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(color[0]),
					G: float64(color[1]),
					B: float64(color[2]),
					A: float64(color[3]),
				},
			},
		},
	}

	c.encoderOrNew().BeginRenderPass(desc).End()
	c.passCount += 1
}
