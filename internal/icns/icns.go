// Package icns reads Apple Icon Image containers and extracts the
// PNG-encoded icon-family images they carry.
//
// An ICNS file is an 8-byte header ("icns" + big-endian total length)
// followed by chunks of the form {4-byte tag}{u32 big-endian length}{payload},
// where length includes the 8-byte chunk header.
package icns

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	fileHeaderLen  = 8
	chunkHeaderLen = 8
)

// Magic is the four-byte ICNS file signature.
var Magic = []byte("icns")

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Chunk is a view into the input buffer. Payload aliases the input.
type Chunk struct {
	Tag     string
	Offset  int    // offset of the chunk header
	Length  uint32 // total length including the header
	Payload []byte
}

// Candidate is a decoded icon-family image.
type Candidate struct {
	Tag   string
	Index int // position among the container's chunks
	Image *image.NRGBA
}

func (c Candidate) Width() int  { return c.Image.Rect.Dx() }
func (c Candidate) Height() int { return c.Image.Rect.Dy() }
func (c Candidate) Area() int   { return c.Width() * c.Height() }

// IsIconFamily reports whether a chunk tag denotes a PNG icon-family entry.
func IsIconFamily(tag string) bool {
	return strings.HasPrefix(tag, "ic") || strings.HasPrefix(tag, "it")
}

// Chunks walks the chunk stream after the file header. Every length field
// is bound-checked before the payload is sliced.
func Chunks(data []byte) ([]Chunk, error) {
	if len(data) < fileHeaderLen {
		return nil, truncated(0, "file header needs %d bytes, have %d", fileHeaderLen, len(data))
	}

	var chunks []Chunk
	offset := fileHeaderLen
	for offset < len(data) {
		if offset+chunkHeaderLen > len(data) {
			return nil, truncated(offset, "chunk header needs %d bytes, have %d",
				chunkHeaderLen, len(data)-offset)
		}
		tag := string(data[offset : offset+4])
		length := binary.BigEndian.Uint32(data[offset+4 : offset+8])
		if length < chunkHeaderLen {
			return nil, &FormatError{Kind: Truncated, Tag: tag, Offset: offset,
				Err: fmt.Errorf("chunk length %d is shorter than its header", length)}
		}
		if uint64(offset)+uint64(length) > uint64(len(data)) {
			return nil, &FormatError{Kind: Truncated, Tag: tag, Offset: offset,
				Err: fmt.Errorf("chunk length %d exceeds remaining %d bytes", length, len(data)-offset)}
		}
		end := offset + int(length)
		chunks = append(chunks, Chunk{
			Tag:     tag,
			Offset:  offset,
			Length:  length,
			Payload: data[offset+chunkHeaderLen : end],
		})
		offset = end
	}
	return chunks, nil
}

// ParseOption tunes Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	onSkip func(Chunk, error)
}

// WithSkipHook registers fn to observe icon-family chunks that were
// excluded because their payload could not be decoded.
func WithSkipHook(fn func(Chunk, error)) ParseOption {
	return func(o *parseOptions) { o.onSkip = fn }
}

// Parse extracts every decodable icon-family image from an ICNS buffer.
// Undecodable payloads are dropped; only a container with no survivors fails.
func Parse(data []byte, opts ...ParseOption) ([]Candidate, error) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}

	chunks, err := Chunks(data)
	if err != nil {
		return nil, err
	}

	var cands []Candidate
	for i, c := range chunks {
		if !IsIconFamily(c.Tag) {
			continue
		}
		img, err := DecodeChunk(c)
		if err != nil {
			if o.onSkip != nil {
				o.onSkip(c, err)
			}
			continue
		}
		cands = append(cands, Candidate{Tag: c.Tag, Index: i, Image: img})
	}

	if len(cands) == 0 {
		return nil, &FormatError{Kind: NoCandidates, Offset: -1,
			Err: fmt.Errorf("%d chunks, none decodable as PNG", len(chunks))}
	}
	return cands, nil
}

// DecodeChunk decodes a chunk payload as PNG into a non-premultiplied
// RGBA bitmap. Legacy bitmap, RLE and JPEG 2000 payloads are rejected.
func DecodeChunk(c Chunk) (*image.NRGBA, error) {
	if !bytes.HasPrefix(c.Payload, pngSignature) {
		return nil, &FormatError{Kind: CorruptCandidate, Tag: c.Tag, Offset: c.Offset,
			Err: errors.New("payload is not PNG")}
	}
	img, err := png.Decode(bytes.NewReader(c.Payload))
	if err != nil {
		return nil, &FormatError{Kind: CorruptCandidate, Tag: c.Tag, Offset: c.Offset, Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &FormatError{Kind: CorruptCandidate, Tag: c.Tag, Offset: c.Offset,
			Err: errors.New("empty image")}
	}
	return imaging.Clone(img), nil
}
