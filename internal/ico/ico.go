// Package ico writes and inspects Windows icon containers whose images
// are stored as PNG payloads.
package ico

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/AnyUserName/icns2ico/internal/raster"
)

const (
	HeaderSize = 6
	EntrySize  = 16

	typeIcon = 1
)

// Header is the ICONDIR record.
type Header struct {
	Reserved uint16 // Must be 0
	Type     uint16 // 1 = ICO, 2 = CUR
	Count    uint16 // Number of images
}

// Entry is an ICONDIRENTRY record.
type Entry struct {
	Width      uint8  // 0 means 256 or more
	Height     uint8  // 0 means 256 or more
	ColorCount uint8  // 0 for true-colour images
	Reserved   uint8  // Must be 0
	Planes     uint16 // Colour planes
	BitCount   uint16 // Bits per pixel
	Size       uint32 // Payload length in bytes
	Offset     uint32 // Payload offset from the start of the file
}

// PixelWidth returns the declared width, treating 0 as 256.
func (e Entry) PixelWidth() int {
	if e.Width == 0 {
		return 256
	}
	return int(e.Width)
}

// PixelHeight returns the declared height, treating 0 as 256.
func (e Entry) PixelHeight() int {
	if e.Height == 0 {
		return 256
	}
	return int(e.Height)
}

// dimByte stores a pixel dimension in the single byte an entry allows.
// Anything that does not fit is written as 0.
func dimByte(size int) uint8 {
	if size >= 256 {
		return 0
	}
	return uint8(size)
}

// Encode lays out variants as an ICO file sorted ascending by size.
// The input slice is not reordered.
func Encode(variants []raster.Variant) ([]byte, error) {
	if len(variants) == 0 {
		return nil, errors.New("ico: no images to encode")
	}
	if len(variants) > math.MaxUint16 {
		return nil, fmt.Errorf("ico: %d images exceed the directory limit", len(variants))
	}

	sorted := make([]raster.Variant, len(variants))
	copy(sorted, variants)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Size < sorted[j].Size })

	dataStart := HeaderSize + EntrySize*len(sorted)
	total := dataStart
	for _, v := range sorted {
		total += len(v.PNG)
	}
	if uint64(total) > math.MaxUint32 {
		return nil, fmt.Errorf("ico: %d bytes exceed the 32-bit offset range", total)
	}

	out := make([]byte, 0, total)
	out = Header{Type: typeIcon, Count: uint16(len(sorted))}.appendTo(out)

	offset := uint32(dataStart)
	for _, v := range sorted {
		e := Entry{
			Width:    dimByte(v.Size),
			Height:   dimByte(v.Size),
			Planes:   1,
			BitCount: 32,
			Size:     uint32(len(v.PNG)),
			Offset:   offset,
		}
		out = e.appendTo(out)
		offset += e.Size
	}
	for _, v := range sorted {
		out = append(out, v.PNG...)
	}
	return out, nil
}

func (h Header) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint16(b, h.Reserved)
	b = binary.LittleEndian.AppendUint16(b, h.Type)
	return binary.LittleEndian.AppendUint16(b, h.Count)
}

func (e Entry) appendTo(b []byte) []byte {
	b = append(b, e.Width, e.Height, e.ColorCount, e.Reserved)
	b = binary.LittleEndian.AppendUint16(b, e.Planes)
	b = binary.LittleEndian.AppendUint16(b, e.BitCount)
	b = binary.LittleEndian.AppendUint32(b, e.Size)
	return binary.LittleEndian.AppendUint32(b, e.Offset)
}

// ReadDirectory parses the header and directory entries of an ICO file.
func ReadDirectory(data []byte) (Header, []Entry, error) {
	if len(data) < HeaderSize {
		return Header{}, nil, fmt.Errorf("invalid ICO file: too short for header")
	}

	h := Header{
		Reserved: binary.LittleEndian.Uint16(data[0:2]),
		Type:     binary.LittleEndian.Uint16(data[2:4]),
		Count:    binary.LittleEndian.Uint16(data[4:6]),
	}
	if h.Reserved != 0 {
		return h, nil, fmt.Errorf("invalid ICO file: reserved field must be 0, got %d", h.Reserved)
	}
	if h.Type != typeIcon {
		return h, nil, fmt.Errorf("invalid ICO file: type must be 1 for ICO, got %d", h.Type)
	}
	if h.Count == 0 {
		return h, nil, fmt.Errorf("invalid ICO file: no images in file")
	}

	dirEnd := HeaderSize + int(h.Count)*EntrySize
	if len(data) < dirEnd {
		return h, nil, fmt.Errorf("invalid ICO file: too short for %d directory entries", h.Count)
	}

	entries := make([]Entry, h.Count)
	for i := range entries {
		entries[i] = parseEntry(data[HeaderSize+i*EntrySize:])
	}
	return h, entries, nil
}

func parseEntry(b []byte) Entry {
	return Entry{
		Width:      b[0],
		Height:     b[1],
		ColorCount: b[2],
		Reserved:   b[3],
		Planes:     binary.LittleEndian.Uint16(b[4:6]),
		BitCount:   binary.LittleEndian.Uint16(b[6:8]),
		Size:       binary.LittleEndian.Uint32(b[8:12]),
		Offset:     binary.LittleEndian.Uint32(b[12:16]),
	}
}

// Payload returns the bytes an entry points at, bound-checked against data.
func Payload(data []byte, e Entry) ([]byte, error) {
	end := uint64(e.Offset) + uint64(e.Size)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("payload [%d,%d) exceeds file length %d", e.Offset, end, len(data))
	}
	return data[e.Offset:end], nil
}
