//go:build ignore

// gen_fixtures creates small icon containers for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/AnyUserName/icns2ico/internal/icns"
	encicns "github.com/jackmordaunt/icns/v3"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "apps"), 0o755)

	// Full icon family encoded the way macOS tooling does it.
	writeFamily(filepath.Join(dir, "apps", "Gradient.icns"), gradient(1024, 1024))

	// Square art with wide transparent margins.
	writeFamily(filepath.Join(dir, "apps", "padded.icns"), padded(512, 96))

	// Hand-assembled: mask chunk, broken PNG chunk, then one good 128px chunk.
	good := encodePNG(alphaGradient(128, 128))
	writeFile(filepath.Join(dir, "mixed.icns"), icns.Pack(
		icns.Chunk{Tag: "s8mk", Payload: make([]byte, 256)},
		icns.Chunk{Tag: "ic10", Payload: good[:32]},
		icns.Chunk{Tag: "ic07", Payload: good},
	))

	// No usable images at all; conversion must fail for this one only.
	writeFile(filepath.Join(dir, "empty.icns"), icns.Pack(
		icns.Chunk{Tag: "TOC ", Payload: []byte{0, 0, 0, 0}},
	))

	// Plain raster input.
	writeFile(filepath.Join(dir, "logo.png"), encodePNG(alphaGradient(100, 100)))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func padded(size, margin int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := margin; y < size-margin; y++ {
		for x := margin; x < size-margin; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 40, G: 120, B: 220, A: 255})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func writeFamily(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := encicns.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeFile(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		panic(err)
	}
}
