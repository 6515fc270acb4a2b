package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ColorBlack is the clear color used for freshly allocated scratch targets.
var ColorBlack = mgl32.Vec4{0, 0, 0, 1}

// ClearFlag selects which parts of a target to clear.
type ClearFlag uint8

const (
	ClearNone  ClearFlag = 0
	ClearColor ClearFlag = 1 << 0
	ClearDepth ClearFlag = 1 << 1
	ClearAll             = ClearColor | ClearDepth
)

// Uniforms is a packed uniform block passed to a shader draw. Implementations
// must be plain values, the backend copies the bytes when the draw is recorded.
type Uniforms interface {
	UniformBytes() []byte
}

// ShaderDraw is a fullscreen draw of one sub pass of a Program, reading
// Source and writing Target.
type ShaderDraw struct {
	Program *Program
	Pass    int

	Source TargetID
	Target TargetID

	Uniforms Uniforms
	Keywords Keywords
}

// CommandBuffer records the work of a pass. Commands are executed in the
// order they were recorded.
type CommandBuffer interface {
	// GetTemporaryRT allocates a render target for the given id. The target
	// stays valid until ReleaseTemporaryRT is called with the same id.
	GetTemporaryRT(id TargetID, desc TextureDescriptor, filter FilterMode)
	ReleaseTemporaryRT(id TargetID)

	ClearRenderTarget(target TargetID, flags ClearFlag, color mgl32.Vec4)

	// Blit copies source into target, resampling if the sizes differ.
	Blit(source, target TargetID)

	// Draw runs one sub pass of a program as a fullscreen draw.
	Draw(draw ShaderDraw)

	BeginSample(name string)
	EndSample(name string)
}

// CommandBufferPool hands out command buffers for work that happens outside
// the regular per pass callbacks. Releasing a command buffer submits it.
type CommandBufferPool interface {
	Get() CommandBuffer
	Release(cmd CommandBuffer)
}

// ProfilingScope wraps fn into a named sample on cmd.
func ProfilingScope(cmd CommandBuffer, name string, fn func()) {
	cmd.BeginSample(name)
	defer cmd.EndSample(name)

	fn()
}
