package pipeline

import "bytes"

// ImageFormat is a plain raster format accepted in place of an ICNS file.
type ImageFormat int

const (
	FormatUnknown ImageFormat = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatWebP
	FormatBMP
	FormatTIFF
)

// String returns the lower-case format name.
func (f ImageFormat) String() string {
	names := []string{"unknown", "png", "jpeg", "gif", "webp", "bmp", "tiff"}
	if int(f) < len(names) {
		return names[f]
	}
	return "unknown"
}

// Magic bytes for format detection
var (
	magicPNG    = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	magicJPEG   = []byte{0xFF, 0xD8, 0xFF}
	magicGIF    = []byte("GIF8")
	magicRIFF   = []byte("RIFF")
	magicWEBP   = []byte("WEBP") // at offset 8
	magicBMP    = []byte("BM")
	magicTIFFLE = []byte{'I', 'I', 0x2A, 0x00}
	magicTIFFBE = []byte{'M', 'M', 0x00, 0x2A}
)

// detectFormat sniffs raster signatures. ICNS data, and anything not
// recognised, reports FormatUnknown.
func detectFormat(data []byte) ImageFormat {
	switch {
	case bytes.HasPrefix(data, magicPNG):
		return FormatPNG
	case bytes.HasPrefix(data, magicJPEG):
		return FormatJPEG
	case bytes.HasPrefix(data, magicGIF):
		return FormatGIF
	case len(data) >= 12 && bytes.HasPrefix(data, magicRIFF) && bytes.Equal(data[8:12], magicWEBP):
		return FormatWebP
	case bytes.HasPrefix(data, magicTIFFLE), bytes.HasPrefix(data, magicTIFFBE):
		return FormatTIFF
	case bytes.HasPrefix(data, magicBMP):
		return FormatBMP
	}
	return FormatUnknown
}
