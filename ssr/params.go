package ssr

import (
	"structs"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oliverbestmann/ssr/render"
)

// Params is the uniform block shared by all sub passes of the reflections
// program. The layout must match the Params struct in ssr.wgsl.
type Params struct {
	_ structs.HostLayout

	RayStep                     float32
	RayMinStep                  float32
	RayMaxSteps                 int32
	RayMaxDistance              float32
	BinaryHitSearchSteps        int32
	HitDepthDifferenceThreshold float32
	ReflectionIntensity         float32
	ReflectivityBias            float32
	FresnelBias                 float32
	VignetteRadius              float32
	VignetteSoftness            float32
	BlurRadius                  int32

	// size of one texel of the scratch buffers in uv space
	TexelSize mgl32.Vec2

	_ [2]float32
}

// paramsOf builds the uniform block for the given settings and scratch size.
func paramsOf(s *Settings, width, height uint32) Params {
	var texelSize mgl32.Vec2
	if width > 0 && height > 0 {
		texelSize = mgl32.Vec2{1 / float32(width), 1 / float32(height)}
	}

	return Params{
		RayStep:                     s.RayStep,
		RayMinStep:                  s.RayMinStep,
		RayMaxSteps:                 int32(s.RayMaxSteps),
		RayMaxDistance:              s.RayMaxDistance,
		BinaryHitSearchSteps:        int32(s.BinaryHitSearchSteps),
		HitDepthDifferenceThreshold: s.HitDepthDifferenceThreshold,
		ReflectionIntensity:         s.ReflectionIntensity,
		ReflectivityBias:            s.ReflectivityBias,
		FresnelBias:                 s.FresnelBias,
		VignetteRadius:              s.VignetteRadius,
		VignetteSoftness:            s.VignetteSoftness,
		TexelSize:                   texelSize,
	}
}

// WithBlurRadius returns a copy of the params with the blur radius set.
func (p Params) WithBlurRadius(radius int) Params {
	p.BlurRadius = int32(radius)
	return p
}

func (p Params) UniformBytes() []byte {
	return render.UniformBytes(&p)
}
