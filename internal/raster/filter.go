package raster

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Resampler scales src to exactly w×h pixels.
type Resampler interface {
	Resample(src image.Image, w, h int) *image.NRGBA
}

// imagingFilter resamples with one of disintegration/imaging's kernels.
type imagingFilter struct{ f imaging.ResampleFilter }

func (r imagingFilter) Resample(src image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(src, w, h, r.f)
}

// drawKernel resamples with golang.org/x/image/draw.
type drawKernel struct{ s draw.Scaler }

func (r drawKernel) Resample(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.s.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return dst
}

// DefaultFilter is the resampler used when none is configured.
const DefaultFilter = "lanczos"

var filters = map[string]Resampler{
	"lanczos":    imagingFilter{imaging.Lanczos},
	"box":        imagingFilter{imaging.Box},
	"nearest":    imagingFilter{imaging.NearestNeighbor},
	"catmullrom": drawKernel{draw.CatmullRom},
	"bilinear":   drawKernel{draw.BiLinear},
}

// Filter looks up a resampler by name. An empty name selects DefaultFilter.
func Filter(name string) (Resampler, error) {
	if name == "" {
		name = DefaultFilter
	}
	r, ok := filters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q (have %s)", name, strings.Join(Filters(), ", "))
	}
	return r, nil
}

// Filters lists the registered filter names.
func Filters() []string {
	names := make([]string, 0, len(filters))
	for n := range filters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
