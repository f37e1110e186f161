package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skylar-Youn/subpreview/internal/subtitle"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [srt_file]",
	Short: "Rewrite an SRT file with clean indices and formatting",
	Long: `Parse an SRT file, dropping malformed blocks, and write it back out
with sequential indices and canonical timestamp formatting.

Examples:
  subpreview normalize subs.srt -o clean.srt
  subpreview normalize subs.srt          (writes to stdout)`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	path := args[0]

	entries, err := subtitle.ParseFile(path)
	if err != nil {
		return err
	}
	for i := range entries {
		entries[i].Index = i + 1
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		if err := subtitle.Write(os.Stdout, entries); err != nil {
			return err
		}
		return nil
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := subtitle.Write(f, entries); err != nil {
		return err
	}
	logger.Infow("subtitles normalized", "input", path, "output", outputPath, "entries", len(entries))
	return nil
}
