package cli

import (
	"github.com/skylar-Youn/subpreview/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subpreview",
	Short: "Subtitle preview compositor for videos",
	Long: `Subpreview composites subtitle tracks and text overlays onto video
frames, matching the output of the export renderer pixel for pixel.

It renders preview frames from a video plus SRT subtitle tracks, with
per-track styling, entrance animations, and global text effects.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output path")
}
