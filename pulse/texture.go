package pulse

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/oliverbestmann/ssr/render"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// Texture wraps a wgpu.Texture and an identity wgpu.TextureView.
type Texture struct {
	texture     *wgpu.Texture
	textureView *wgpu.TextureView

	// equal to texture.GetFormat()
	format wgpu.TextureFormat

	width  uint32
	height uint32

	// false for wrapped textures, e.g. the surface texture
	owned bool
}

type NewTextureOptions struct {
	Format wgpu.TextureFormat
	Width  uint32
	Height uint32
	Label  string
}

func NewTexture(ctx *Context, opts NewTextureOptions) *Texture {
	desc := &wgpu.TextureDescriptor{
		Label:         opts.Label,
		Format:        opts.Format,
		SampleCount:   1,
		MipLevelCount: 1,

		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              opts.Width,
			Height:             opts.Height,
			DepthOrArrayLayers: 1,
		},

		// allow to do almost everything with this texture
		Usage: wgpu.TextureUsageTextureBinding |
			wgpu.TextureUsageRenderAttachment |
			wgpu.TextureUsageCopyDst |
			wgpu.TextureUsageCopySrc,
	}

	return NewTextureFromDesc(ctx, desc)
}

// NewTextureFromDesc gives you full control and creates a texture directly from
// a texture descriptor
func NewTextureFromDesc(ctx *Context, desc *wgpu.TextureDescriptor) *Texture {
	texture := ctx.Device.CreateTexture(desc)

	return &Texture{
		texture:     texture,
		textureView: texture.CreateView(nil),
		format:      desc.Format,
		width:       desc.Size.Width,
		height:      desc.Size.Height,
		owned:       true,
	}
}

// WrapTexture creates a texture from an existing wgpu.Texture and wgpu.TextureView.
// Release does not free the wrapped texture, the owner stays responsible.
func WrapTexture(texture *wgpu.Texture, textureView *wgpu.TextureView) *Texture {
	return &Texture{
		texture:     texture,
		textureView: textureView,
		format:      texture.GetFormat(),
		width:       texture.GetWidth(),
		height:      texture.GetHeight(),
	}
}

func (t *Texture) Width() uint32 {
	return t.width
}

func (t *Texture) Height() uint32 {
	return t.height
}

func (t *Texture) Format() wgpu.TextureFormat {
	return t.format
}

func (t *Texture) View() *wgpu.TextureView {
	return t.textureView
}

func (t *Texture) ToWGPUTexture() *wgpu.Texture {
	return t.texture
}

// Release releases the texture and its view. You must be sure to not use
// the texture after calling release.
func (t *Texture) Release() {
	if t.owned {
		t.textureView.Release()
		t.texture.Release()
	}
}

// WritePixels uploads the full texture content. pixels must be tightly packed
// rows of bytesPerPixel bytes each.
func (t *Texture) WritePixels(ctx *Context, pixels []byte, bytesPerPixel uint32) error {
	if err := checkPixelCount(t.width, t.height, bytesPerPixel, len(pixels)); err != nil {
		return err
	}

	stride := t.width * bytesPerPixel

	layout := &wgpu.TexelCopyBufferLayout{
		Offset:       0,
		BytesPerRow:  stride,
		RowsPerImage: t.height,
	}

	size := &wgpu.Extent3D{
		Width:              t.width,
		Height:             t.height,
		DepthOrArrayLayers: 1,
	}

	dest := &wgpu.TexelCopyTextureInfo{
		Texture:  t.texture,
		MipLevel: 0,
		Aspect:   wgpu.TextureAspectAll,
	}

	// send data to the gpu
	ctx.WriteTexture(dest, pixels, layout, size)

	return nil
}

// NewTextureFromImage uploads src into a new RGBA8 texture.
func NewTextureFromImage(ctx *Context, src image.Image, label string) (*Texture, error) {
	iw, ih := src.Bounds().Dx(), src.Bounds().Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, iw, ih))

	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)

	t := NewTexture(ctx, NewTextureOptions{
		Format: wgpu.TextureFormatRGBA8Unorm,
		Width:  uint32(iw),
		Height: uint32(ih),
		Label:  label,
	})

	if err := t.WritePixels(ctx, rgba.Pix, 4); err != nil {
		t.Release()
		return nil, fmt.Errorf("upload texture: %w", err)
	}

	return t, nil
}

var warnPackedFormat sync.Once

// TextureFormatOf maps a render color format to the webgpu format backing it.
func TextureFormatOf(format render.ColorFormat) wgpu.TextureFormat {
	switch format {
	case render.ColorFormatARGBHalf:
		return wgpu.TextureFormatRGBA16Float

	case render.ColorFormatARGB4444:
		// webgpu has no packed 16 bit color format
		warnPackedFormat.Do(func() {
			slog.Warn("Format not supported, using RGBA8Unorm instead", slog.String("format", format.String()))
		})

		return wgpu.TextureFormatRGBA8Unorm

	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

func checkPixelCount(width, height, bytesPerPixel uint32, count int) error {
	expected := uint64(width) * uint64(height) * uint64(bytesPerPixel)
	if uint64(count) != expected {
		return fmt.Errorf("expected %d bytes for a %dx%d texture, got %d", expected, width, height, count)
	}

	return nil
}
