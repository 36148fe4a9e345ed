package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sort"
	"strings"
)

// PNGEncoder encodes icon payloads as PNG using Go's standard library.
type PNGEncoder struct {
	Level png.CompressionLevel
}

func (e *PNGEncoder) Format() string { return "png" }

func (e *PNGEncoder) Encode(img image.Image) ([]byte, error) {
	b := img.Bounds()
	var buf bytes.Buffer
	buf.Grow(b.Dx()*b.Dy() + 1024) // ~1 byte/px covers most icon art at default level

	enc := &png.Encoder{CompressionLevel: e.Level}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var levels = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"best":    png.BestCompression,
	"fast":    png.BestSpeed,
	"none":    png.NoCompression,
}

// ParseLevel maps a compression level name to its png constant.
// An empty name selects the default level.
func ParseLevel(name string) (png.CompressionLevel, error) {
	if name == "" {
		return png.DefaultCompression, nil
	}
	l, ok := levels[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(levels))
		for n := range levels {
			names = append(names, n)
		}
		sort.Strings(names)
		return 0, fmt.Errorf("unknown compression %q (have %s)", name, strings.Join(names, ", "))
	}
	return l, nil
}

// NewPNG returns a PNG encoder for the named compression level.
func NewPNG(level string) (*PNGEncoder, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return &PNGEncoder{Level: l}, nil
}
