package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/AnyUserName/icns2ico/internal/encoder"
	"github.com/AnyUserName/icns2ico/internal/profile"
	"github.com/AnyUserName/icns2ico/internal/raster"
	"golang.org/x/sync/errgroup"
)

// Config holds all parameters for a conversion run.
type Config struct {
	Profile profile.Profile
	Workers int          // concurrent files, 0 = NumCPU
	Logger  *slog.Logger // nil discards

	// OnDone, when set, observes each outcome as soon as its file finishes,
	// in completion order. Calls are serialized.
	OnDone func(Outcome)
}

// Converter turns icon containers into ICO files.
type Converter struct {
	cfg  Config
	opts raster.Options
	log  *slog.Logger
}

// New validates cfg and resolves its filter and encoder.
func New(cfg Config) (*Converter, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := cfg.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", cfg.Profile.Name, err)
	}
	r, err := raster.Filter(cfg.Profile.Filter)
	if err != nil {
		return nil, err
	}
	enc, err := encoder.NewPNG(cfg.Profile.Compression)
	if err != nil {
		return nil, err
	}
	return &Converter{
		cfg:  cfg,
		opts: raster.Options{Resampler: r, Encoder: enc},
		log:  cfg.Logger,
	}, nil
}

// Workers returns the effective concurrency limit.
func (c *Converter) Workers() int { return c.cfg.Workers }

// Outcome is the per-file result of a batch. Exactly one of Conversion
// and Err is set.
type Outcome struct {
	Input      string
	Conversion *Conversion
	Err        error
}

// ConvertAll converts every input independently, at most Workers at a
// time. One file failing never affects another. The returned slice is in
// submission order. Workers record failures in their Outcome and never
// return an error to the group.
func (c *Converter) ConvertAll(ctx context.Context, inputs []Input) []Outcome {
	results := make([]Outcome, len(inputs))

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(c.cfg.Workers)

	c.log.Debug("batch started", "files", len(inputs), "workers", c.cfg.Workers)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			c.log.Debug("processing", "file", in.Name)

			conv, err := c.Convert(ctx, in)
			o := Outcome{Input: in.Name, Conversion: conv, Err: err}
			results[i] = o

			if err != nil {
				c.log.Warn("conversion failed", "file", in.Name, "error", err)
			} else {
				c.log.Debug("done", "file", in.Name, "output", conv.Result.FileName,
					"bytes", len(conv.Result.Data))
			}
			if c.cfg.OnDone != nil {
				mu.Lock()
				c.cfg.OnDone(o)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()
	return results
}
