package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnyUserName/icns2ico/internal/hasher"
	"github.com/AnyUserName/icns2ico/internal/manifest"
	"github.com/AnyUserName/icns2ico/internal/pipeline"
	"github.com/AnyUserName/icns2ico/internal/profile"
	"github.com/spf13/cobra"
)

var (
	convertOutDir      string
	convertProfile     string
	convertProfileFile string
	convertSizes       []int
	convertFilter      string
	convertWorkers     int
	convertKeepPadding bool
	convertReport      string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file_or_dir>...",
	Short: "Convert .icns files into .ico files",
	Long: `Converts each .icns file (directories are scanned recursively) into a
.ico with one PNG entry per ladder size, smallest first.

Files are processed concurrently; a file that cannot be converted is
reported and skipped without affecting the others. Plain PNG, JPEG, GIF,
WebP, BMP and TIFF files given explicitly are converted too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutDir, "out", "o", "./ico_out", "output directory")
	convertCmd.Flags().StringVarP(&convertProfile, "profile", "p", "default", "size profile (default, windows, favicon)")
	convertCmd.Flags().StringVar(&convertProfileFile, "profile-file", "", "YAML profile file (overrides --profile)")
	convertCmd.Flags().IntSliceVar(&convertSizes, "sizes", nil, "custom size ladder (overrides profile)")
	convertCmd.Flags().StringVar(&convertFilter, "filter", "", "resampling filter (lanczos, catmullrom, bilinear, box, nearest)")
	convertCmd.Flags().IntVarP(&convertWorkers, "workers", "w", 0, "parallel files (0 = NumCPU)")
	convertCmd.Flags().BoolVar(&convertKeepPadding, "keep-padding", false, "keep transparent margins instead of cropping")
	convertCmd.Flags().StringVar(&convertReport, "report", "icns2ico.manifest.json", "report file name inside the output dir (empty disables)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	start := time.Now()
	logger := newLogger()

	prof, err := resolveProfile(cmd)
	if err != nil {
		return err
	}

	absOutput, err := filepath.Abs(convertOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	m := manifest.New(prof.Name, prof.Sizes)

	// Gather inputs. Unreadable files are reported, not fatal.
	var sources []pipeline.Source
	for _, arg := range args {
		found, err := pipeline.ScanIcons(arg)
		if err != nil {
			return fmt.Errorf("scan %s: %w", arg, err)
		}
		sources = append(sources, found...)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no .icns files found in %v", args)
	}

	sources, clashes := dropCollisions(sources)
	for _, f := range clashes {
		fmt.Printf("  ✗ %s: %s\n", f.Input, f.Error)
	}
	m.Files = append(m.Files, clashes...)

	var inputs []pipeline.Input
	var sizes []int64
	for _, s := range sources {
		in, err := s.Load()
		if err != nil {
			m.Files = append(m.Files, manifest.File{Input: s.RelPath, InputSize: s.Size, Error: err.Error()})
			continue
		}
		inputs = append(inputs, in)
		sizes = append(sizes, s.Size)
	}

	logger.Debug("starting conversion", "files", len(inputs), "profile", prof.Name,
		"sizes", prof.Sizes, "filter", prof.Filter, "output", absOutput)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	conv, err := pipeline.New(pipeline.Config{
		Profile: prof,
		Workers: convertWorkers,
		Logger:  logger,
		OnDone: func(o pipeline.Outcome) {
			if o.Err != nil {
				fmt.Printf("  ✗ %s: %v\n", o.Input, o.Err)
				return
			}
			fmt.Printf("  ✓ %s → %s (%s)\n", o.Input, o.Conversion.Result.FileName,
				formatBytes(int64(len(o.Conversion.Result.Data))))
		},
	})
	if err != nil {
		return err
	}
	m.BuildInfo = &manifest.BuildInfo{Workers: conv.Workers(), Filter: prof.Filter}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes := conv.ConvertAll(ctx, inputs)
	for i, o := range outcomes {
		f := manifest.File{Input: o.Input, InputSize: sizes[i]}
		if o.Err == nil {
			o.Err = writeResult(absOutput, o.Conversion.Result)
		}
		if o.Err != nil {
			f.Error = o.Err.Error()
		} else {
			fillFile(&f, o.Conversion)
		}
		m.Files = append(m.Files, f)
	}
	m.ComputeStats()

	if convertReport != "" {
		if err := manifest.WriteJSON(m, filepath.Join(absOutput, convertReport)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	printConvertReport(m, time.Since(start))

	if m.Stats.Converted == 0 {
		return fmt.Errorf("all %d files failed to convert", m.Stats.Failed)
	}
	return nil
}

// resolveProfile applies --profile-file or --profile, then flag overrides.
func resolveProfile(cmd *cobra.Command) (profile.Profile, error) {
	var prof profile.Profile
	if convertProfileFile != "" {
		p, err := profile.Load(convertProfileFile)
		if err != nil {
			return profile.Profile{}, err
		}
		prof = p
	} else {
		prof = profile.Get(convertProfile)
	}
	if convertSizes != nil {
		prof.Sizes = convertSizes
	}
	if convertFilter != "" {
		prof.Filter = convertFilter
	}
	if cmd.Flags().Changed("keep-padding") {
		prof.KeepPadding = convertKeepPadding
	}
	if err := prof.Validate(); err != nil {
		return profile.Profile{}, fmt.Errorf("profile %s: %w", prof.Name, err)
	}
	return prof, nil
}

// dropCollisions keeps the first source for each output name and reports
// the rest as failures. Names compare case-insensitively since macOS and
// Windows file systems would merge them.
func dropCollisions(sources []pipeline.Source) ([]pipeline.Source, []manifest.File) {
	claimed := make(map[string]pipeline.Source, len(sources))
	var kept []pipeline.Source
	var clashes []manifest.File
	for _, s := range sources {
		out := pipeline.OutputName(s.RelPath)
		key := strings.ToLower(out)
		if prev, ok := claimed[key]; ok {
			clashes = append(clashes, manifest.File{
				Input:     s.RelPath,
				InputSize: s.Size,
				Error:     fmt.Sprintf("output name %s collides with %s (from %s)", out, prev.RelPath, prev.AbsPath),
			})
			continue
		}
		claimed[key] = s
		kept = append(kept, s)
	}
	return kept, clashes
}

func writeResult(outDir string, r pipeline.Result) error {
	path := filepath.Join(outDir, filepath.FromSlash(r.FileName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, r.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.FileName, err)
	}
	return nil
}

func fillFile(f *manifest.File, c *pipeline.Conversion) {
	f.Output = c.Result.FileName
	f.OutputSize = int64(len(c.Result.Data))
	f.Hash = hasher.ContentHash(c.Result.Data, 16)
	f.Source = &manifest.Source{Tag: c.SourceTag, Width: c.SourceWidth, Height: c.SourceHeight}
	f.Crop = &manifest.Rect{
		X: c.Crop.Min.X, Y: c.Crop.Min.Y,
		Width: c.Crop.Dx(), Height: c.Crop.Dy(),
	}
	for _, e := range c.Entries {
		f.Variants = append(f.Variants, manifest.Variant{
			Size:   e.PixelWidth(),
			Bytes:  int64(e.Size),
			Offset: int64(e.Offset),
		})
	}
}

func printConvertReport(m *manifest.Manifest, elapsed time.Duration) {
	s := m.Stats
	fmt.Println()
	fmt.Printf("  Files:       %d (%d converted, %d failed)\n", s.TotalFiles, s.Converted, s.Failed)
	fmt.Printf("  Sizes:       %v\n", m.Sizes)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d  (filter %s)\n", m.BuildInfo.Workers, m.BuildInfo.Filter)
	}
	if s.Failed > 0 {
		fmt.Println()
		fmt.Printf("  Failed (%d):\n", s.Failed)
		for _, f := range m.Files {
			if f.Failed() {
				fmt.Printf("    ⚠ %s: %s\n", f.Input, f.Error)
			}
		}
	}
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
