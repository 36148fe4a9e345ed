package ico

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/AnyUserName/icns2ico/internal/raster"
	"github.com/google/go-cmp/cmp"
)

func fakeVariant(size int, n int) raster.Variant {
	return raster.Variant{Size: size, PNG: bytes.Repeat([]byte{byte(size)}, n)}
}

func TestEncode_Layout(t *testing.T) {
	in := []raster.Variant{
		fakeVariant(512, 5),
		fakeVariant(16, 3),
		fakeVariant(256, 4),
		fakeVariant(32, 2),
	}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	wantLen := HeaderSize + 4*EntrySize + 5 + 3 + 4 + 2
	if len(data) != wantLen {
		t.Fatalf("length: got %d want %d", len(data), wantLen)
	}
	if !bytes.Equal(data[:6], []byte{0, 0, 1, 0, 4, 0}) {
		t.Errorf("header: got % x", data[:6])
	}

	_, entries, err := ReadDirectory(data)
	if err != nil {
		t.Fatalf("read directory: %v", err)
	}
	want := []Entry{
		{Width: 16, Height: 16, Planes: 1, BitCount: 32, Size: 3, Offset: 70},
		{Width: 32, Height: 32, Planes: 1, BitCount: 32, Size: 2, Offset: 73},
		{Width: 0, Height: 0, Planes: 1, BitCount: 32, Size: 4, Offset: 75},
		{Width: 0, Height: 0, Planes: 1, BitCount: 32, Size: 5, Offset: 79},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}

	// Raw bytes of the first entry, little-endian throughout.
	wantEntry := []byte{16, 16, 0, 0, 1, 0, 32, 0, 3, 0, 0, 0, 70, 0, 0, 0}
	if !bytes.Equal(data[6:22], wantEntry) {
		t.Errorf("entry 0 bytes: got % x want % x", data[6:22], wantEntry)
	}

	for _, e := range entries {
		p, err := Payload(data, e)
		if err != nil {
			t.Fatalf("payload: %v", err)
		}
		if len(p) == 0 || !bytes.Equal(p, bytes.Repeat(p[:1], len(p))) {
			t.Errorf("payload at %d mixes variants: % x", e.Offset, p)
		}
	}

	if in[0].Size != 512 || in[1].Size != 16 {
		t.Error("Encode reordered its input")
	}
}

func TestEncode_Empty(t *testing.T) {
	if _, err := Encode(nil); err == nil {
		t.Error("expected error for empty variant list")
	}
}

type variantSet []raster.Variant

func (variantSet) Generate(r *rand.Rand, n int) reflect.Value {
	count := 1 + r.Intn(12)
	vs := make(variantSet, count)
	for i := range vs {
		vs[i] = fakeVariant(1+r.Intn(raster.MaxSize), 1+r.Intn(64))
	}
	return reflect.ValueOf(vs)
}

// **Property: offsets are cumulative, in bounds, and follow ascending size order.**
func TestEncode_OffsetProperty(t *testing.T) {
	f := func(vs variantSet) bool {
		data, err := Encode(vs)
		if err != nil {
			return false
		}
		_, entries, err := ReadDirectory(data)
		if err != nil || len(entries) != len(vs) {
			return false
		}

		next := uint32(HeaderSize + EntrySize*len(vs))
		prev := 0
		for _, e := range entries {
			if e.Offset != next || uint64(e.Offset)+uint64(e.Size) > uint64(len(data)) {
				return false
			}
			p, _ := Payload(data, e)
			size := int(p[0])
			if e.Width != 0 && int(e.Width) != size%256 {
				return false
			}
			// Payload bytes carry the low byte of the size; sizes must not decrease.
			if e.Width != 0 && e.PixelWidth() < prev {
				return false
			}
			if e.Width != 0 {
				prev = e.PixelWidth()
			}
			next += e.Size
		}
		return int(next) == len(data)
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}

func renderLadder(t *testing.T, w, h int) []raster.Variant {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 30, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	vs, err := raster.Render(context.Background(), img, raster.DefaultSizes, raster.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return vs
}

func TestValidate_RenderedLadder(t *testing.T) {
	vs := renderLadder(t, 96, 64)
	data, err := Encode(vs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if errs := Validate(data); len(errs) > 0 {
		t.Fatalf("validate: %v", errs)
	}

	sum := 0
	for _, v := range vs {
		sum += len(v.PNG)
	}
	if want := HeaderSize + len(vs)*EntrySize + sum; len(data) != want {
		t.Errorf("total size: got %d want %d", len(data), want)
	}

	_, entries, _ := ReadDirectory(data)
	var widths []uint8
	for _, e := range entries {
		widths = append(widths, e.Width)
	}
	if diff := cmp.Diff([]uint8{16, 24, 32, 48, 64, 128, 0, 0}, widths); diff != "" {
		t.Errorf("declared widths (-want +got):\n%s", diff)
	}
}

func TestValidate_DetectsDamage(t *testing.T) {
	good, err := Encode(renderLadder(t, 32, 32)[5:]) // 32, 24, 16
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"offset past end", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[6+12:], uint32(len(b)))
			return b
		}},
		{"offset inside directory", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[6+12:], 2)
			return b
		}},
		{"wrong declared width", func(b []byte) []byte {
			b[6] = 17
			return b
		}},
		{"entries out of order", func(b []byte) []byte {
			first := append([]byte(nil), b[6:22]...)
			copy(b[6:22], b[22:38])
			copy(b[22:38], first)
			return b
		}},
		{"payload not png", func(b []byte) []byte {
			off := binary.LittleEndian.Uint32(b[6+12:])
			b[off] = 'X'
			return b
		}},
		{"truncated", func(b []byte) []byte { return b[:len(b)-10] }},
		{"bad type", func(b []byte) []byte {
			b[2] = 2
			return b
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(append([]byte(nil), good...))
			if errs := Validate(data); len(errs) == 0 {
				t.Error("damage not detected")
			}
		})
	}
}

func TestReadDirectory_Errors(t *testing.T) {
	tests := map[string][]byte{
		"short":        {0, 0, 1},
		"reserved":     {1, 0, 1, 0, 1, 0},
		"cursor type":  {0, 0, 2, 0, 1, 0},
		"no images":    {0, 0, 1, 0, 0, 0},
		"no directory": {0, 0, 1, 0, 2, 0, 16, 16},
	}
	for name, data := range tests {
		if _, _, err := ReadDirectory(data); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
