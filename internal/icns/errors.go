package icns

import (
	"errors"
	"fmt"
)

// Kind classifies a FormatError.
type Kind int

const (
	// NoCandidates means the container held no decodable icon-family image.
	NoCandidates Kind = iota + 1
	// CorruptCandidate means an icon-family payload failed to decode.
	CorruptCandidate
	// Truncated means a chunk header or length would read past the buffer.
	Truncated
)

func (k Kind) String() string {
	switch k {
	case NoCandidates:
		return "no usable images"
	case CorruptCandidate:
		return "corrupt candidate"
	case Truncated:
		return "truncated container"
	}
	return "unknown"
}

// Sentinels for errors.Is matching against a FormatError of the same kind.
var (
	ErrNoCandidates = &FormatError{Kind: NoCandidates}
	ErrCorrupt      = &FormatError{Kind: CorruptCandidate}
	ErrTruncated    = &FormatError{Kind: Truncated}
)

// FormatError reports a problem with the ICNS container or one of its chunks.
type FormatError struct {
	Kind   Kind
	Tag    string // chunk tag, empty when not chunk specific
	Offset int    // byte offset of the chunk header, -1 when unknown
	Err    error
}

func (e *FormatError) Error() string {
	msg := "icns: " + e.Kind.String()
	if e.Tag != "" {
		msg += fmt.Sprintf(" (chunk %q at offset %d)", e.Tag, e.Offset)
	} else if e.Offset > 0 {
		msg += fmt.Sprintf(" (offset %d)", e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is matches any FormatError with the same Kind.
func (e *FormatError) Is(target error) bool {
	var fe *FormatError
	if !errors.As(target, &fe) {
		return false
	}
	return fe.Kind == e.Kind
}

func truncated(offset int, format string, args ...any) error {
	return &FormatError{Kind: Truncated, Offset: offset, Err: fmt.Errorf(format, args...)}
}
