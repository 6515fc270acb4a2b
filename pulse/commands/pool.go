package commands

import (
	"fmt"

	"github.com/oliverbestmann/ssr/render"
)

// Pool hands out command buffers of a Backend. Releasing a command buffer
// submits it and keeps it for reuse.
type Pool struct {
	backend *Backend
	free    []*CommandBuffer
	created int
}

var _ render.CommandBufferPool = (*Pool)(nil)

func NewPool(backend *Backend) *Pool {
	return &Pool{backend: backend}
}

func (p *Pool) Get() render.CommandBuffer {
	if n := len(p.free); n > 0 {
		cmd := p.free[n-1]
		p.free = p.free[:n-1]
		return cmd
	}

	p.created += 1

	return p.backend.NewCommandBuffer(fmt.Sprintf("Pooled%d", p.created))
}

func (p *Pool) Release(cmd render.CommandBuffer) {
	buf, ok := cmd.(*CommandBuffer)
	if !ok || buf.backend != p.backend {
		panic("command buffer does not belong to this pool")
	}

	buf.Submit()

	p.free = append(p.free, buf)
}

// Purge frees all pooled command buffers.
func (p *Pool) Purge() {
	for _, cmd := range p.free {
		cmd.Release()
	}

	p.free = nil
}
