package cmd

import (
	"fmt"
	"os"

	"github.com/AnyUserName/icns2ico/internal/ico"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.ico>...",
	Short: "Check that .ico files are well formed PNG icons",
	Long: `Checks every directory entry of each .ico: payload bounds and overlap,
PNG signature, declared versus actual dimensions and ascending order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	bad := 0
	for _, path := range args {
		errs := validateFile(path)
		if len(errs) == 0 {
			fmt.Printf("  ✓ %s\n", path)
			continue
		}
		bad++
		fmt.Printf("  ✗ %s has %d error(s):\n", path, len(errs))
		for _, e := range errs {
			fmt.Printf("    • %s\n", e)
		}
	}
	if bad > 0 {
		return fmt.Errorf("validation failed for %d of %d files", bad, len(args))
	}
	return nil
}

func validateFile(path string) []error {
	data, err := os.ReadFile(path)
	if err != nil {
		return []error{fmt.Errorf("read: %w", err)}
	}
	return ico.Validate(data)
}
