package ssr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"golang.org/x/exp/constraints"
)

// RenderingMode is the rendering path of the host. The deferred path provides
// gbuffers the shader can read material data from.
type RenderingMode int

const (
	Forward RenderingMode = iota
	Deferred
)

//go:generate go tool stringer -type=RenderingMode

func (m RenderingMode) MarshalText() ([]byte, error) {
	switch m {
	case Forward:
		return []byte("forward"), nil
	case Deferred:
		return []byte("deferred"), nil
	default:
		return nil, fmt.Errorf("unknown rendering mode %d", int(m))
	}
}

func (m *RenderingMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "forward":
		*m = Forward
	case "deferred":
		*m = Deferred
	default:
		return fmt.Errorf("unknown rendering mode %q", text)
	}

	return nil
}

// Settings configure the reflections. A Settings value is not modified after
// it has been loaded, use Clamped to get a valid copy.
type Settings struct {
	// ray marching, all >= 0
	RayStep              float32 `json:"rayStep"`
	RayMinStep           float32 `json:"rayMinStep"`
	RayMaxSteps          int     `json:"rayMaxSteps"`
	RayMaxDistance       float32 `json:"rayMaxDistance"`
	BinaryHitSearchSteps int     `json:"binaryHitSearchSteps"`

	ReflectSkybox bool `json:"reflectSkybox"`

	// all in [0, 1]
	HitDepthDifferenceThreshold float32 `json:"hitDepthDifferenceThreshold"`
	ReflectionIntensity         float32 `json:"reflectionIntensity"`
	ReflectivityBias            float32 `json:"reflectivityBias"`
	FresnelBias                 float32 `json:"fresnelBias"`
	VignetteRadius              float32 `json:"vignetteRadius"`
	VignetteSoftness            float32 `json:"vignetteSoftness"`

	// scratch buffers are the camera size divided by 2^Downsamples
	Downsamples         int  `json:"downsamples"`
	LowerTextureTo16Bit bool `json:"lowerTextureTo16Bit"`

	RenderingMode RenderingMode `json:"renderingMode"`

	// One blur pass per entry, each with the given radius. Later passes
	// blur the result of earlier ones.
	BlurRadii []int `json:"blurRadii"`
}

func DefaultSettings() Settings {
	return Settings{
		RayStep:              0.1,
		RayMinStep:           0.1,
		RayMaxSteps:          16,
		RayMaxDistance:       100,
		BinaryHitSearchSteps: 8,

		ReflectSkybox:               true,
		HitDepthDifferenceThreshold: 0.08,
		ReflectionIntensity:         0.95,
		ReflectivityBias:            0.0,
		FresnelBias:                 0.1,

		VignetteRadius:   0.15,
		VignetteSoftness: 0.35,

		RenderingMode: Deferred,
		BlurRadii:     []int{0, 1, 2, 2, 3},
	}
}

// Clamped returns a copy of the settings with every field moved into its
// valid range.
func (s Settings) Clamped() Settings {
	s.RayStep = atLeast(s.RayStep, 0)
	s.RayMinStep = atLeast(s.RayMinStep, 0)
	s.RayMaxSteps = clamp(s.RayMaxSteps, 0, math.MaxInt32)
	s.RayMaxDistance = atLeast(s.RayMaxDistance, 0)
	s.BinaryHitSearchSteps = clamp(s.BinaryHitSearchSteps, 0, math.MaxInt32)

	s.HitDepthDifferenceThreshold = clamp(s.HitDepthDifferenceThreshold, 0, 1)
	s.ReflectionIntensity = clamp(s.ReflectionIntensity, 0, 1)
	s.ReflectivityBias = clamp(s.ReflectivityBias, 0, 1)
	s.FresnelBias = clamp(s.FresnelBias, 0, 1)
	s.VignetteRadius = clamp(s.VignetteRadius, 0, 1)
	s.VignetteSoftness = clamp(s.VignetteSoftness, 0, 1)

	s.Downsamples = atLeast(s.Downsamples, 0)

	s.BlurRadii = slices.Clone(s.BlurRadii)
	for idx, radius := range s.BlurRadii {
		s.BlurRadii[idx] = clamp(radius, 0, math.MaxInt32)
	}

	return s
}

// LoadSettings reads settings encoded as json. Fields missing in the input
// keep their default value.
func LoadSettings(r io.Reader) (Settings, error) {
	settings := DefaultSettings()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}

	// only a single settings object is allowed
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return Settings{}, errors.New("decode settings: unexpected data after settings object")
	}

	return settings.Clamped(), nil
}

func LoadSettingsFile(path string) (Settings, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	settings, err := LoadSettings(bytes.NewReader(buf))
	if err != nil {
		return Settings{}, fmt.Errorf("load %q: %w", path, err)
	}

	return settings, nil
}

type number interface {
	constraints.Integer | constraints.Float
}

func clamp[T number](value, lo, hi T) T {
	return min(max(value, lo), hi)
}

func atLeast[T number](value, lo T) T {
	return max(value, lo)
}
