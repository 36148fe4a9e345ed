package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// OpaqueBounds returns the tight bounding box of pixels whose alpha is
// non-zero. ok is false when every pixel is fully transparent.
func OpaqueBounds(img *image.NRGBA) (r image.Rectangle, ok bool) {
	b := img.Rect
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			px := b.Min.X + x
			if px < minX {
				minX = px
			}
			if px > maxX {
				maxX = px
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// CropPadding removes fully transparent borders. The returned image is a
// fresh copy of exactly the opaque bounding box, anchored at (0,0).
// A fully transparent image is returned as is together with its bounds.
func CropPadding(img *image.NRGBA) (*image.NRGBA, image.Rectangle) {
	r, ok := OpaqueBounds(img)
	if !ok {
		return img, img.Rect
	}
	return imaging.Crop(img, r), r
}
