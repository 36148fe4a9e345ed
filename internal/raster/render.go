// Package raster normalizes a source icon and re-renders it at each size
// of an ICO size ladder.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/AnyUserName/icns2ico/internal/encoder"
	"github.com/disintegration/imaging"
)

// MaxSize is the largest canvas Render will allocate.
const MaxSize = 1024

// DefaultSizes is the standard ladder, largest first.
var DefaultSizes = []int{512, 256, 128, 64, 48, 32, 24, 16}

// Variant is one rendered size of the icon.
type Variant struct {
	Size int    // canvas edge in pixels
	PNG  []byte // encoded payload
}

// ResourceError reports a canvas that cannot be produced.
type ResourceError struct {
	Size int
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("render %dx%d: %v", e.Size, e.Size, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Options configures Render. Zero values select lanczos and default PNG compression.
type Options struct {
	Resampler Resampler
	Encoder   encoder.Encoder
}

// Render produces one Variant per entry of sizes, in the same order.
func Render(ctx context.Context, img *image.NRGBA, sizes []int, opts Options) ([]Variant, error) {
	if opts.Resampler == nil {
		opts.Resampler, _ = Filter(DefaultFilter)
	}
	if opts.Encoder == nil {
		opts.Encoder = &encoder.PNGEncoder{}
	}
	if img.Rect.Empty() {
		return nil, &ResourceError{Err: fmt.Errorf("source image is empty")}
	}

	out := make([]Variant, 0, len(sizes))
	for _, s := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		canvas, err := Fit(img, s, opts.Resampler)
		if err != nil {
			return nil, err
		}
		data, err := opts.Encoder.Encode(canvas)
		if err != nil {
			return nil, &ResourceError{Size: s, Err: fmt.Errorf("encode %s: %w", opts.Encoder.Format(), err)}
		}
		out = append(out, Variant{Size: s, PNG: data})
	}
	return out, nil
}

// Fit scales img uniformly to fit inside a transparent size×size canvas
// and centers it there.
func Fit(img *image.NRGBA, size int, r Resampler) (*image.NRGBA, error) {
	if size < 1 || size > MaxSize {
		return nil, &ResourceError{Size: size, Err: fmt.Errorf("size outside 1..%d", MaxSize)}
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, &ResourceError{Size: size, Err: fmt.Errorf("source image is empty")}
	}

	dw, dh := FitDims(w, h, size)
	scaled := r.Resample(img, dw, dh)

	canvas := imaging.New(size, size, color.NRGBA{})
	return imaging.Paste(canvas, scaled, image.Pt((size-dw)/2, (size-dh)/2)), nil
}

// FitDims returns the draw size of a w×h image scaled by
// min(size/w, size/h), rounded to whole pixels and never below 1.
func FitDims(w, h, size int) (dw, dh int) {
	scale := math.Min(float64(size)/float64(w), float64(size)/float64(h))
	dw = clamp(int(math.Round(float64(w)*scale)), 1, size)
	dh = clamp(int(math.Round(float64(h)*scale)), 1, size)
	return dw, dh
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
