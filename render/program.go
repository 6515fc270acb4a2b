package render

import (
	"fmt"
	"strings"
	"unsafe"
)

// Keywords is a set of shader feature toggles. Bit i selects the i-th entry
// of Program.Keywords.
type Keywords uint32

func (k Keywords) With(keyword Keywords, enabled bool) Keywords {
	if enabled {
		return k | keyword
	}

	return k &^ keyword
}

func (k Keywords) Has(keyword Keywords) bool {
	return k&keyword == keyword
}

// BlendMode defines how a draw combines with the content of its target.
type BlendMode uint8

const (
	// BlendReplace overwrites the target.
	BlendReplace BlendMode = iota

	// BlendAlpha blends straight alpha over the target.
	BlendAlpha
)

// PassSource is one sub pass of a program.
type PassSource struct {
	// fragment entry point
	Entry string
	Blend BlendMode
}

// ProgramSource describes a shader program before it is loaded.
type ProgramSource struct {
	Name string

	// WGSL source code shared by all sub passes. It must
	// provide a vertex entry point named vs_main.
	Code string

	Passes []PassSource

	// names of the boolean constants toggled by Keywords, bit i maps to Keywords[i]
	Keywords []string
}

// Program is a loaded shader program. A Program is created once and used for
// many frames, it holds no per frame state.
type Program struct {
	ProgramSource

	// backend specific data, e.g. compiled shader modules
	Handle any
}

func (p *Program) PassCount() int {
	return len(p.Passes)
}

// Specialize returns the source of the program with the enabled keywords
// prepended as boolean constants.
func (p *Program) Specialize(keywords Keywords) string {
	var sb strings.Builder

	for idx, name := range p.Keywords {
		enabled := keywords.Has(Keywords(1) << idx)
		_, _ = fmt.Fprintf(&sb, "const %s: bool = %t;\n", name, enabled)
	}

	sb.WriteString(p.Code)

	return sb.String()
}

// ProgramLoader loads shader programs.
type ProgramLoader interface {
	LoadProgram(source *ProgramSource) (*Program, error)
}

// UniformBytes returns the memory of value as a byte slice.
func UniformBytes[T any](value *T) []byte {
	var zeroT T

	n := unsafe.Sizeof(zeroT)
	ptr := (*byte)(unsafe.Pointer(value))

	return unsafe.Slice(ptr, n)
}

// Release releases the backend data of the program.
func (p *Program) Release() {
	if releaser, ok := p.Handle.(interface{ Release() }); ok {
		releaser.Release()
	}

	p.Handle = nil
}
