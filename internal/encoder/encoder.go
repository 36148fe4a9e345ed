package encoder

import (
	"image"
)

// Encoder turns a rendered bitmap into the bytes stored in an icon entry.
type Encoder interface {
	// Format returns the payload format name (e.g. "png").
	Format() string

	// Encode serializes img, preserving its alpha channel.
	Encode(img image.Image) ([]byte, error)
}
