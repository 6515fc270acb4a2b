package pulse

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/ssr/render"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// RenderTarget is a texture bound to a render.TargetID.
type RenderTarget struct {
	*Texture

	// How the target is sampled when used as a source
	Filter render.FilterMode

	// true if the texture was acquired from the pool
	temporary bool
}

type targetKey struct {
	Width  uint32
	Height uint32
	Format wgpu.TextureFormat
}

// RenderTargetPool resolves target ids to textures. Temporary targets are
// taken from a pool of previously released textures with the same size and
// format. Released textures are parked in an LRU, evicted textures are freed.
type RenderTargetPool struct {
	ctx *Context

	live map[render.TargetID]*RenderTarget
	free *lru.Cache[targetKey, []*Texture]

	// number of textures created by the pool
	allocations int
}

func NewRenderTargetPool(ctx *Context) *RenderTargetPool {
	free, _ := lru.NewWithEvict[targetKey, []*Texture](16, releaseTexturesOnEviction)

	return &RenderTargetPool{
		ctx:  ctx,
		live: map[render.TargetID]*RenderTarget{},
		free: free,
	}
}

// Bind makes a host owned texture available under the given id, e.g. the
// camera color buffer. Binding replaces any previous binding.
func (p *RenderTargetPool) Bind(id render.TargetID, texture *Texture, filter render.FilterMode) {
	if prev, ok := p.live[id]; ok && prev.temporary {
		p.Release(id)
	}

	p.live[id] = &RenderTarget{Texture: texture, Filter: filter}
}

// Acquire binds a temporary texture matching desc to the given id.
func (p *RenderTargetPool) Acquire(id render.TargetID, desc render.TextureDescriptor, filter render.FilterMode) *RenderTarget {
	if _, ok := p.live[id]; ok {
		// acquiring twice without a release replaces the binding
		p.Release(id)
	}

	key := targetKey{
		Width:  max(1, desc.Width),
		Height: max(1, desc.Height),
		Format: TextureFormatOf(desc.Format),
	}

	target := &RenderTarget{
		Texture:   p.takeFree(key),
		Filter:    filter,
		temporary: true,
	}

	if target.Texture == nil {
		slog.Debug("Allocate render target",
			slog.String("id", id.String()),
			slog.Int("width", int(key.Width)),
			slog.Int("height", int(key.Height)),
		)

		p.allocations += 1

		target.Texture = NewTexture(p.ctx, NewTextureOptions{
			Label:  id.String(),
			Format: key.Format,
			Width:  key.Width,
			Height: key.Height,
		})
	}

	p.live[id] = target

	return target
}

// Release unbinds the id. Temporary textures go back to the pool.
func (p *RenderTargetPool) Release(id render.TargetID) {
	target, ok := p.live[id]
	if !ok {
		return
	}

	delete(p.live, id)

	if !target.temporary {
		return
	}

	key := targetKey{
		Width:  target.Width(),
		Height: target.Height(),
		Format: target.Format(),
	}

	textures, _ := p.free.Peek(key)
	p.free.Add(key, append(textures, target.Texture))
}

// Lookup returns the texture currently bound to the given id.
func (p *RenderTargetPool) Lookup(id render.TargetID) (*RenderTarget, error) {
	target, ok := p.live[id]
	if !ok {
		return nil, fmt.Errorf("no texture bound to %s", id)
	}

	return target, nil
}

// Allocations returns the number of textures the pool created so far.
func (p *RenderTargetPool) Allocations() int {
	return p.allocations
}

// Purge frees all pooled textures. Bound textures are not affected.
func (p *RenderTargetPool) Purge() {
	p.free.Purge()
}

func (p *RenderTargetPool) takeFree(key targetKey) *Texture {
	textures, ok := p.free.Peek(key)
	if !ok || len(textures) == 0 {
		return nil
	}

	texture := textures[len(textures)-1]

	// an empty entry releases nothing on eviction
	p.free.Add(key, textures[:len(textures)-1])

	return texture
}

func releaseTexturesOnEviction(_ targetKey, textures []*Texture) {
	for _, texture := range textures {
		texture.Release()
	}
}
