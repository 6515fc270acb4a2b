package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

//go:generate go tool stringer -type=OpKind -trimprefix=Op
type OpKind uint8

const (
	OpGetTemporaryRT OpKind = iota
	OpReleaseTemporaryRT
	OpClear
	OpBlit
	OpDraw
	OpBeginSample
	OpEndSample
)

// Op is a single recorded command.
type Op struct {
	Kind OpKind

	Source TargetID
	Target TargetID

	// only for OpGetTemporaryRT
	Descriptor TextureDescriptor
	Filter     FilterMode

	// only for OpClear
	ClearFlags ClearFlag
	ClearColor mgl32.Vec4

	// only for OpDraw
	Program  *Program
	Pass     int
	Uniforms Uniforms
	Keywords Keywords

	// only for samples
	Name string
}

// Recorder is a CommandBuffer that only records the commands. It is used to
// inspect frames without a GPU.
type Recorder struct {
	Ops []Op

	live map[TargetID]TextureDescriptor
}

var _ CommandBuffer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{live: map[TargetID]TextureDescriptor{}}
}

func (r *Recorder) GetTemporaryRT(id TargetID, desc TextureDescriptor, filter FilterMode) {
	r.live[id] = desc
	r.Ops = append(r.Ops, Op{Kind: OpGetTemporaryRT, Target: id, Descriptor: desc, Filter: filter})
}

func (r *Recorder) ReleaseTemporaryRT(id TargetID) {
	delete(r.live, id)
	r.Ops = append(r.Ops, Op{Kind: OpReleaseTemporaryRT, Target: id})
}

func (r *Recorder) ClearRenderTarget(target TargetID, flags ClearFlag, color mgl32.Vec4) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Target: target, ClearFlags: flags, ClearColor: color})
}

func (r *Recorder) Blit(source, target TargetID) {
	r.Ops = append(r.Ops, Op{Kind: OpBlit, Source: source, Target: target})
}

func (r *Recorder) Draw(draw ShaderDraw) {
	r.Ops = append(r.Ops, Op{
		Kind:     OpDraw,
		Source:   draw.Source,
		Target:   draw.Target,
		Program:  draw.Program,
		Pass:     draw.Pass,
		Uniforms: draw.Uniforms,
		Keywords: draw.Keywords,
	})
}

func (r *Recorder) BeginSample(name string) {
	r.Ops = append(r.Ops, Op{Kind: OpBeginSample, Name: name})
}

func (r *Recorder) EndSample(name string) {
	r.Ops = append(r.Ops, Op{Kind: OpEndSample, Name: name})
}

// Live returns the temporary targets that were allocated but not yet released.
func (r *Recorder) Live() map[TargetID]TextureDescriptor {
	return r.live
}

// Filter returns all ops of the given kinds, in recording order.
func (r *Recorder) Filter(kinds ...OpKind) []Op {
	var ops []Op

	for _, op := range r.Ops {
		for _, kind := range kinds {
			if op.Kind == kind {
				ops = append(ops, op)
				break
			}
		}
	}

	return ops
}

func (r *Recorder) Count(kind OpKind) int {
	return len(r.Filter(kind))
}

func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	clear(r.live)
}

// RecorderPool is a CommandBufferPool handing out Recorders.
type RecorderPool struct {
	// Every recorder that was released back to the pool.
	Submitted []*Recorder
}

func (p *RecorderPool) Get() CommandBuffer {
	return NewRecorder()
}

func (p *RecorderPool) Release(cmd CommandBuffer) {
	if rec, ok := cmd.(*Recorder); ok {
		p.Submitted = append(p.Submitted, rec)
	}
}

// StaticLoader loads programs without compiling them.
type StaticLoader struct {
	// number of programs loaded so far
	Loads int
}

func (l *StaticLoader) LoadProgram(source *ProgramSource) (*Program, error) {
	if len(source.Passes) == 0 {
		return nil, fmt.Errorf("program %q has no passes", source.Name)
	}

	l.Loads += 1

	return &Program{ProgramSource: *source}, nil
}
