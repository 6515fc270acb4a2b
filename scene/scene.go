// Package scene generates the camera buffers of a simple synthetic scene on
// the CPU: a sky, a glossy floor and a few pillars standing on it.
package scene

import (
	"encoding/binary"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/furui/fastnoiselite-go"
	"github.com/go-gl/mathgl/mgl32"
)

type Options struct {
	Width  int
	Height int

	// Seed for pillar placement and the floor noise
	Seed uint64

	Pillars int

	// Strength of the noise perturbing the floor normals
	Roughness float32
}

func DefaultOptions() Options {
	return Options{
		Width:     640,
		Height:    360,
		Seed:      1337,
		Pillars:   5,
		Roughness: 0.08,
	}
}

// depth range of the floor, from the bottom of the screen to the horizon
const (
	floorNear = 0.05
	floorFar  = 0.95

	// the horizon, as a fraction of the screen height
	horizon = 0.45
)

// Buffers holds the camera buffers of a generated scene.
type Buffers struct {
	Color *image.RGBA

	// Linear depth in [0, 1], 1 is the skybox
	Depth *DepthImage

	// Normal xyz encoded to [0, 1], smoothness in alpha
	Normals *image.RGBA
}

func (b *Buffers) Width() int {
	return b.Color.Bounds().Dx()
}

func (b *Buffers) Height() int {
	return b.Color.Bounds().Dy()
}

// DepthImage is a single channel float image.
type DepthImage struct {
	Width  int
	Height int
	Pix    []float32
}

func (d *DepthImage) At(x, y int) float32 {
	return d.Pix[y*d.Width+x]
}

func (d *DepthImage) set(x, y int, value float32) {
	d.Pix[y*d.Width+x] = value
}

// Bytes encodes the depth as little endian float32 values, matching the
// layout of a R32Float texture.
func (d *DepthImage) Bytes() []byte {
	buf := make([]byte, 4*len(d.Pix))

	for idx, value := range d.Pix {
		binary.LittleEndian.PutUint32(buf[4*idx:], math.Float32bits(value))
	}

	return buf
}

type pillar struct {
	X0, X1 int
	Top    int
	Base   int
	Depth  float32
	Color  mgl32.Vec3
}

// Generate renders the scene buffers.
func Generate(opts Options) *Buffers {
	w, h := max(1, opts.Width), max(1, opts.Height)

	buffers := &Buffers{
		Color:   image.NewRGBA(image.Rect(0, 0, w, h)),
		Depth:   &DepthImage{Width: w, Height: h, Pix: make([]float32, w*h)},
		Normals: image.NewRGBA(image.Rect(0, 0, w, h)),
	}

	noise := fastnoiselite.NewNoise()
	noise.SetNoiseType(fastnoiselite.NoiseTypeOpenSimplex2)
	noise.FractalType = fastnoiselite.FractalTypeFBm
	noise.Frequency = 0.02
	noise.SetFractalOctaves(3)

	horizonRow := int(horizon * float32(h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y < horizonRow {
				drawSky(buffers, x, y, horizonRow)
			} else {
				drawFloor(buffers, noise, opts, x, y, horizonRow)
			}
		}
	}

	for _, p := range placePillars(opts, w, h, horizonRow) {
		drawPillar(buffers, p)
	}

	return buffers
}

func drawSky(b *Buffers, x, y, horizonRow int) {
	t := float32(y) / float32(max(1, horizonRow))

	top := mgl32.Vec3{0.15, 0.3, 0.65}
	bottom := mgl32.Vec3{0.75, 0.85, 0.95}

	b.Color.SetRGBA(x, y, rgba(lerp3(top, bottom, t), 1))
	b.Depth.set(x, y, 1)

	// the skybox has no surface to reflect on
	b.Normals.SetRGBA(x, y, encodeNormal(mgl32.Vec3{0, 0, -1}, 0))
}

func drawFloor(b *Buffers, noise *fastnoiselite.FastNoiseLite, opts Options, x, y, horizonRow int) {
	depth := floorDepth(y, horizonRow, b.Height())

	// checker pattern in perspective
	u := float32(x-b.Width()/2) * depth / 24
	v := 1 / max(depth, 1e-3)

	base := mgl32.Vec3{0.22, 0.22, 0.25}
	if (int(math.Floor(float64(u)))+int(math.Floor(float64(v))))%2 == 0 {
		base = mgl32.Vec3{0.35, 0.35, 0.38}
	}

	// the seed moves the sample window of the noise
	nu := fastnoiselite.FNLfloat(x) + fastnoiselite.FNLfloat(opts.Seed%4096)
	nv := fastnoiselite.FNLfloat(y)

	nx := float32(noise.GetNoise2D(nu, nv))
	nz := float32(noise.GetNoise2D(nv, nu))

	// screen space y points down, the floor faces up
	normal := mgl32.Vec3{nx * opts.Roughness, -1, nz * opts.Roughness}.Normalize()

	b.Color.SetRGBA(x, y, rgba(base, 1))
	b.Depth.set(x, y, depth)
	b.Normals.SetRGBA(x, y, encodeNormal(normal, 0.85))
}

func drawPillar(b *Buffers, p pillar) {
	for y := max(0, p.Top); y < min(b.Height(), p.Base); y++ {
		for x := max(0, p.X0); x < min(b.Width(), p.X1); x++ {
			// a pillar hides what is behind it
			if b.Depth.At(x, y) < p.Depth {
				continue
			}

			// simple shading across the width of the pillar
			t := float32(x-p.X0) / float32(max(1, p.X1-p.X0))
			shade := 0.6 + 0.4*float32(math.Sin(float64(t)*math.Pi))

			b.Color.SetRGBA(x, y, rgba(p.Color.Mul(shade), 1))
			b.Depth.set(x, y, p.Depth)
			b.Normals.SetRGBA(x, y, encodeNormal(mgl32.Vec3{0, 0, -1}, 0.2))
		}
	}
}

func placePillars(opts Options, w, h, horizonRow int) []pillar {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	palette := []mgl32.Vec3{
		{0.9, 0.25, 0.2},
		{0.2, 0.7, 0.3},
		{0.95, 0.75, 0.2},
		{0.3, 0.45, 0.9},
		{0.8, 0.4, 0.85},
	}

	var pillars []pillar

	for idx := range max(0, opts.Pillars) {
		depth := 0.2 + 0.5*rng.Float32()
		base := floorRow(depth, horizonRow, h)

		// closer pillars appear larger
		width := int(float32(w) * 0.04 / depth)
		height := int(float32(h) * 0.12 / depth)

		x0 := rng.IntN(max(1, w-width))

		pillars = append(pillars, pillar{
			X0:    x0,
			X1:    x0 + width,
			Top:   base - height,
			Base:  base,
			Depth: depth,
			Color: palette[idx%len(palette)],
		})
	}

	return pillars
}

// floorDepth returns the depth of the floor at the given row.
func floorDepth(y, horizonRow, height int) float32 {
	t := float32(y-horizonRow) / float32(max(1, height-horizonRow))
	return floorFar + (floorNear-floorFar)*t
}

// floorRow is the inverse of floorDepth.
func floorRow(depth float32, horizonRow, height int) int {
	t := (depth - floorFar) / (floorNear - floorFar)
	return horizonRow + int(t*float32(height-horizonRow))
}

func encodeNormal(n mgl32.Vec3, smoothness float32) color.RGBA {
	encoded := n.Mul(0.5).Add(mgl32.Vec3{0.5, 0.5, 0.5})
	return rgba(encoded, smoothness)
}

func rgba(c mgl32.Vec3, a float32) color.RGBA {
	return color.RGBA{
		R: toByte(c[0]),
		G: toByte(c[1]),
		B: toByte(c[2]),
		A: toByte(a),
	}
}

func toByte(value float32) uint8 {
	return uint8(mgl32.Clamp(value, 0, 1)*255 + 0.5)
}

func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
