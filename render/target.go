package render

import (
	"fmt"
	"sync"
)

// TargetID is a stable handle for a render target. Names are resolved to ids
// once, normally in a package level var, and ids are used from then on.
type TargetID uint32

var targetNames = struct {
	sync.Mutex
	byName map[string]TargetID
	byID   []string
}{
	byName: map[string]TargetID{},
}

// The camera buffers provided by the host for every camera.
var (
	CameraColor   = NewTargetID("_CameraColorTexture")
	CameraDepth   = NewTargetID("_CameraDepthTexture")
	CameraNormals = NewTargetID("_CameraNormalsTexture")
)

// NewTargetID returns the id for the given name. Calling it twice with the
// same name returns the same id.
func NewTargetID(name string) TargetID {
	targetNames.Lock()
	defer targetNames.Unlock()

	if id, ok := targetNames.byName[name]; ok {
		return id
	}

	id := TargetID(len(targetNames.byID))
	targetNames.byID = append(targetNames.byID, name)
	targetNames.byName[name] = id

	return id
}

func (id TargetID) String() string {
	targetNames.Lock()
	defer targetNames.Unlock()

	if int(id) < len(targetNames.byID) {
		return targetNames.byID[id]
	}

	return fmt.Sprintf("TargetID(%d)", uint32(id))
}

// ColorFormat is the logical color format of a render target. Backends map it to
// the closest format they support.
type ColorFormat uint8

const (
	// ColorFormatARGB32 uses 8 bits per channel.
	ColorFormatARGB32 ColorFormat = iota

	// ColorFormatARGB4444 uses 4 bits per channel.
	ColorFormatARGB4444

	// ColorFormatARGBHalf uses a 16 bit float per channel.
	ColorFormatARGBHalf
)

//go:generate go tool stringer -type=ColorFormat -trimprefix=ColorFormat

// FilterMode selects how a render target is sampled.
type FilterMode uint8

const (
	FilterPoint FilterMode = iota
	FilterBilinear
)

// TextureDescriptor describes the size and layout of a render target.
type TextureDescriptor struct {
	Width  uint32
	Height uint32
	Format ColorFormat

	// Number of bits of an attached depth buffer, zero for none.
	DepthBits int

	SampleCount uint32
}

// Downsampled returns a copy of the descriptor with width and height divided
// by 2^n, rounded down.
func (d TextureDescriptor) Downsampled(n int) TextureDescriptor {
	if n <= 0 {
		return d
	}

	d.Width >>= uint(n)
	d.Height >>= uint(n)

	return d
}
