package ico

import (
	"bytes"
	"fmt"
	"image/png"
	"sort"
)

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Validate checks the structural invariants of an ICO file produced by
// Encode: every payload lies inside the file after the directory without
// overlapping another, is a PNG of the declared dimensions, and entries
// are strictly ascending by size. It returns every problem found.
func Validate(data []byte) []error {
	_, entries, err := ReadDirectory(data)
	if err != nil {
		return []error{err}
	}

	var errs []error
	dirEnd := uint64(HeaderSize + len(entries)*EntrySize)

	type span struct{ start, end uint64 }
	var spans []span
	prevSize := 0

	for i, e := range entries {
		payload, err := Payload(data, e)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if uint64(e.Offset) < dirEnd {
			errs = append(errs, fmt.Errorf("entry %d: payload offset %d inside directory (ends at %d)", i, e.Offset, dirEnd))
		}
		spans = append(spans, span{uint64(e.Offset), uint64(e.Offset) + uint64(e.Size)})

		if !bytes.HasPrefix(payload, pngSignature) {
			errs = append(errs, fmt.Errorf("entry %d: payload is not PNG", i))
			continue
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(payload))
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if !dimMatches(e.Width, cfg.Width) || !dimMatches(e.Height, cfg.Height) {
			errs = append(errs, fmt.Errorf("entry %d: declared %dx%d, payload is %dx%d",
				i, e.PixelWidth(), e.PixelHeight(), cfg.Width, cfg.Height))
		}

		// Order is judged on real pixel sizes: 0 in the directory covers
		// every size from 256 up.
		if i > 0 && cfg.Width <= prevSize {
			errs = append(errs, fmt.Errorf("entry %d: size %d does not follow %d in ascending order", i, cfg.Width, prevSize))
		}
		prevSize = cfg.Width
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			errs = append(errs, fmt.Errorf("payloads overlap at offset %d", spans[i].start))
		}
	}
	return errs
}

func dimMatches(declared uint8, actual int) bool {
	if declared == 0 {
		return actual >= 256
	}
	return int(declared) == actual
}
