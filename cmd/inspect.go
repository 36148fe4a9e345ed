package cmd

import (
	"bytes"
	"fmt"
	"image/png"
	"os"

	"github.com/AnyUserName/icns2ico/internal/icns"
	"github.com/AnyUserName/icns2ico/internal/ico"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List the chunks of an .icns or the entries of an .ico",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if bytes.HasPrefix(data, []byte{0, 0, 1, 0}) {
		return inspectICO(data)
	}
	return inspectICNS(data)
}

func inspectICNS(data []byte) error {
	chunks, err := icns.Chunks(data)
	if err != nil {
		return err
	}

	fmt.Printf("  ICNS, %s, %d chunks\n\n", formatBytes(int64(len(data))), len(chunks))
	fmt.Printf("  %-6s %10s %10s  %s\n", "TAG", "OFFSET", "LENGTH", "CONTENT")

	best := -1
	bestArea := 0
	for i, c := range chunks {
		content := "-"
		if icns.IsIconFamily(c.Tag) {
			img, err := icns.DecodeChunk(c)
			if err != nil {
				content = "skipped: " + err.Error()
			} else {
				w, h := img.Rect.Dx(), img.Rect.Dy()
				content = fmt.Sprintf("PNG %dx%d", w, h)
				if w*h > bestArea {
					best, bestArea = i, w*h
				}
			}
		}
		fmt.Printf("  %-6q %10d %10d  %s\n", c.Tag, c.Offset, c.Length, content)
	}
	fmt.Println()
	if best < 0 {
		fmt.Println("  ⚠ no usable PNG candidate")
		return nil
	}
	fmt.Printf("  Source: %q\n", chunks[best].Tag)
	return nil
}

func inspectICO(data []byte) error {
	h, entries, err := ico.ReadDirectory(data)
	if err != nil {
		return err
	}

	fmt.Printf("  ICO, %s, %d entries\n\n", formatBytes(int64(len(data))), h.Count)
	fmt.Printf("  %3s %5s %5s %4s %10s %10s  %s\n", "#", "W", "H", "BPP", "OFFSET", "SIZE", "PAYLOAD")
	for i, e := range entries {
		payload := "out of bounds"
		if p, err := ico.Payload(data, e); err == nil {
			if cfg, err := png.DecodeConfig(bytes.NewReader(p)); err == nil {
				payload = fmt.Sprintf("PNG %dx%d", cfg.Width, cfg.Height)
			} else {
				payload = "not PNG"
			}
		}
		fmt.Printf("  %3d %5d %5d %4d %10d %10d  %s\n",
			i, e.Width, e.Height, e.BitCount, e.Offset, e.Size, payload)
	}
	return nil
}
