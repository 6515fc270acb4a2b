package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PassEvent controls where a pass is injected into the frame. Passes are
// executed in ascending event order, passes with the same event in the order
// they were enqueued.
type PassEvent uint8

const (
	BeforeRendering PassEvent = iota
	BeforeRenderingOpaques
	AfterRenderingOpaques
	BeforeRenderingTransparents
	AfterRenderingTransparents
	AfterRendering
)

//go:generate go tool stringer -type=PassEvent

// PassInput lists the camera buffers a pass reads.
type PassInput uint8

const (
	InputColor PassInput = 1 << iota
	InputDepth
	InputNormal
)

func (in PassInput) targets() []TargetID {
	var targets []TargetID

	if in&InputColor != 0 {
		targets = append(targets, CameraColor)
	}

	if in&InputDepth != 0 {
		targets = append(targets, CameraDepth)
	}

	if in&InputNormal != 0 {
		targets = append(targets, CameraNormals)
	}

	return targets
}

// CameraData is what the host knows about the camera currently rendered.
type CameraData struct {
	Name string

	// Descriptor of the camera color target
	Target TextureDescriptor

	// Camera buffers available this frame
	Available PassInput
}

// ClearTarget is the target a pass wants cleared after setup.
type ClearTarget struct {
	Target TargetID
	Flags  ClearFlag
	Color  mgl32.Vec4
}

// Pass is one stage of a frame.
type Pass interface {
	Name() string
	Event() PassEvent
	Inputs() PassInput

	// ClearTarget returns the configured clear, ok is false if
	// the pass does not want a clear
	ClearTarget() (ClearTarget, bool)

	// Setup is called once per camera per frame before Execute.
	Setup(cmd CommandBuffer, cam *CameraData)

	// Execute records the work of the pass.
	Execute(cmd CommandBuffer, cam *CameraData)

	// Cleanup is called once per camera at the end of the frame.
	// cmd might be nil.
	Cleanup(cmd CommandBuffer)
}

// PassBase implements the configuration part of Pass and can be embedded
// into concrete passes.
type PassBase struct {
	event  PassEvent
	inputs PassInput

	target   TargetID
	hasClear bool
	clear    ClearTarget
}

func (p *PassBase) Event() PassEvent {
	return p.event
}

func (p *PassBase) SetEvent(event PassEvent) {
	p.event = event
}

func (p *PassBase) Inputs() PassInput {
	return p.inputs
}

func (p *PassBase) ConfigureInput(inputs PassInput) {
	p.inputs = inputs
}

func (p *PassBase) ConfigureTarget(target TargetID) {
	p.target = target
}

func (p *PassBase) ConfigureClear(flags ClearFlag, color mgl32.Vec4) {
	p.hasClear = flags != ClearNone
	p.clear = ClearTarget{Flags: flags, Color: color}
}

func (p *PassBase) ClearTarget() (ClearTarget, bool) {
	clear := p.clear
	clear.Target = p.target
	return clear, p.hasClear
}

// Feature contributes passes to the renderer.
type Feature interface {
	// Create is called once when the feature is added to a renderer.
	Create(r *Renderer) error

	// AddRenderPasses is called once per camera and enqueues the
	// passes of the feature.
	AddRenderPasses(r *Renderer, cam *CameraData)

	// Release frees resources owned by the feature.
	Release()
}
