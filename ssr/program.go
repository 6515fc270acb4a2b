package ssr

import (
	_ "embed"

	"github.com/oliverbestmann/ssr/render"
)

//go:embed ssr.wgsl
var shaderCode string

// Sub passes of the reflections program.
const (
	PassRayMarch  = 0
	PassBlur      = 1
	PassComposite = 2
)

// Keywords of the reflections program.
const (
	DeferredGBuffersAvailable render.Keywords = 1 << iota
	ReflectSkybox
)

// ProgramSource returns the source of the reflections program.
func ProgramSource() *render.ProgramSource {
	return &render.ProgramSource{
		Name: "Hidden/Screen Space Reflections",
		Code: shaderCode,
		Passes: []render.PassSource{
			PassRayMarch:  {Entry: "fs_raymarch", Blend: render.BlendReplace},
			PassBlur:      {Entry: "fs_blur", Blend: render.BlendReplace},
			PassComposite: {Entry: "fs_composite", Blend: render.BlendAlpha},
		},
		Keywords: []string{
			"DEFERRED_GBUFFERS_AVAILABLE",
			"REFLECT_SKYBOX",
		},
	}
}

func keywordsOf(s *Settings) render.Keywords {
	var keywords render.Keywords

	keywords = keywords.With(DeferredGBuffersAvailable, s.RenderingMode == Deferred)
	keywords = keywords.With(ReflectSkybox, s.ReflectSkybox)

	return keywords
}
