package pulse

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/ssr/render"
	"github.com/oliverbestmann/webgpu/wgpu"
)

var samplerCache, _ = lru.NewWithEvict[wgpu.SamplerDescriptor, *wgpu.Sampler](16, samplerCacheOnEvict)

func samplerCacheOnEvict(key wgpu.SamplerDescriptor, value *wgpu.Sampler) {
	value.Release()
}

// CachedSampler returns a sampler matching your description. The sampler may be cached,
// you must not call wgpu.Sampler.Release() on it.
func CachedSampler(dev *wgpu.Device, desc wgpu.SamplerDescriptor) *wgpu.Sampler {
	cachedSampler, ok := samplerCache.Get(desc)
	if ok {
		return cachedSampler
	}

	sampler := dev.CreateSampler(&desc)
	samplerCache.Add(desc, sampler)

	return sampler
}

// SamplerDescriptorOf returns a clamping sampler for the filter mode.
func SamplerDescriptorOf(filter render.FilterMode) wgpu.SamplerDescriptor {
	mode := wgpu.FilterModeNearest
	if filter == render.FilterBilinear {
		mode = wgpu.FilterModeLinear
	}

	return wgpu.SamplerDescriptor{
		Label:         "RenderTarget-Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     mode,
		MinFilter:     mode,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		MaxAnisotropy: 1,
	}
}
