package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/AnyUserName/icns2ico/internal/icns"
	"github.com/AnyUserName/icns2ico/internal/ico"
	"github.com/AnyUserName/icns2ico/internal/raster"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Input is a named file already loaded into memory.
type Input struct {
	Name string
	Data []byte
}

// Result is the converted icon handed back to the caller.
type Result struct {
	FileName string
	Data     []byte
}

// Conversion is a Result plus what the pipeline decided on the way.
type Conversion struct {
	Result Result

	SourceTag    string // chunk tag, or the raster format for plain images
	SourceWidth  int
	SourceHeight int
	Crop         image.Rectangle // region of the source kept after padding removal
	Entries      []ico.Entry     // directory of Result.Data
}

const icnsExt = ".icns"

// OutputName replaces a trailing ".icns" (any case) with ".ico", or
// appends ".ico" when the name has no such suffix.
func OutputName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), icnsExt) {
		name = name[:len(name)-len(icnsExt)]
	}
	return name + ".ico"
}

// Convert runs parse, select, crop, render and encode for one input.
func (c *Converter) Convert(ctx context.Context, in Input) (*Conversion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cands, err := c.candidates(in)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	src, err := icns.Largest(cands)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	conv := &Conversion{
		SourceTag:    src.Tag,
		SourceWidth:  src.Width(),
		SourceHeight: src.Height(),
	}

	img := src.Image
	conv.Crop = img.Rect
	if !c.cfg.Profile.KeepPadding {
		img, conv.Crop = raster.CropPadding(img)
	}
	c.log.Debug("source selected", "file", in.Name, "tag", src.Tag,
		"width", conv.SourceWidth, "height", conv.SourceHeight, "crop", conv.Crop.String())

	variants, err := raster.Render(ctx, img, c.cfg.Profile.Sizes, c.opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	data, err := ico.Encode(variants)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	_, conv.Entries, err = ico.ReadDirectory(data)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	conv.Result = Result{FileName: OutputName(in.Name), Data: data}
	return conv, nil
}

// candidates decodes plain raster images directly and sends everything
// else through the ICNS parser.
func (c *Converter) candidates(in Input) ([]icns.Candidate, error) {
	if f := detectFormat(in.Data); f != FormatUnknown {
		img, _, err := image.Decode(bytes.NewReader(in.Data))
		if err != nil {
			return nil, &icns.FormatError{Kind: icns.NoCandidates, Offset: -1,
				Err: fmt.Errorf("decode %s: %w", f, err)}
		}
		return []icns.Candidate{{Tag: f.String(), Image: imaging.Clone(img)}}, nil
	}

	return icns.Parse(in.Data, icns.WithSkipHook(func(ch icns.Chunk, err error) {
		c.log.Debug("skipping chunk", "file", in.Name, "tag", ch.Tag,
			"offset", ch.Offset, "error", err)
	}))
}
