package scene

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample scales src down by 2^n using bilinear filtering. The size is
// rounded down but never drops below one pixel. n <= 0 returns a copy.
func Downsample(src image.Image, n int) *image.RGBA {
	bounds := src.Bounds()

	w, h := bounds.Dx(), bounds.Dy()
	if n > 0 {
		w, h = max(1, w>>n), max(1, h>>n)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if n <= 0 {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
		return dst
	}

	draw.BiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	return dst
}
