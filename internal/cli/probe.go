package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skylar-Youn/subpreview/internal/video"
)

var probeCmd = &cobra.Command{
	Use:   "probe [video_file]",
	Short: "Show media information for a video file",
	Long: `Probe a video file and print its duration, dimensions, frame rate,
and codec.

Examples:
  subpreview probe video.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	path := args[0]

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", path)
	}

	info, err := video.Probe(context.Background(), path)
	if err != nil {
		return err
	}

	fmt.Printf("Path:       %s\n", info.Path)
	fmt.Printf("Duration:   %s\n", info.Duration)
	fmt.Printf("Dimensions: %dx%d\n", info.Width, info.Height)
	fmt.Printf("Frame rate: %.3f fps\n", info.FrameRate)
	fmt.Printf("Codec:      %s\n", info.Codec)
	return nil
}
