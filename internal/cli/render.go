package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skylar-Youn/subpreview/internal/compositor"
	"github.com/skylar-Youn/subpreview/internal/config"
	"github.com/skylar-Youn/subpreview/internal/playback"
	"github.com/skylar-Youn/subpreview/internal/subtitle"
	"github.com/skylar-Youn/subpreview/internal/video"
)

var renderCmd = &cobra.Command{
	Use:   "render [video_file]",
	Short: "Render preview frames with composited subtitles",
	Long: `Render preview frames of a video with subtitle tracks composited on
top, exactly as the live preview draws them.

Each track loads from its own SRT file. Frames are sampled at the given
timestamps and written as PNG files.

Examples:
  subpreview render video.mp4 --main subs.srt --at 1.5
  subpreview render video.mp4 --main ko.srt --translation en.srt --at 0,5,10 -o frames/
  subpreview render video.mp4 --main subs.srt --config preview.yaml --at 2.5`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().String("main", "", "SRT file for the main track")
	renderCmd.Flags().String("translation", "", "SRT file for the translation track")
	renderCmd.Flags().String("description", "", "SRT file for the description track")
	renderCmd.Flags().String("legacy", "", "SRT file for the legacy subtitle channel")
	renderCmd.Flags().StringP("config", "c", "", "Preview config file (YAML)")
	renderCmd.Flags().String("fonts", "", "Directory of font files to load")
	renderCmd.Flags().
		String("at", "0", "Comma-separated timestamps in seconds to render")
}

func runRender(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}

	configPath, _ := cmd.Flags().GetString("config")
	fontsDir, _ := cmd.Flags().GetString("fonts")
	atSpec, _ := cmd.Flags().GetString("at")
	outputDir, _ := cmd.Flags().GetString("output")
	legacyPath, _ := cmd.Flags().GetString("legacy")

	timestamps, err := parseTimestamps(atSpec)
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	src, err := video.NewFileSource(ctx, videoPath, logger)
	if err != nil {
		return err
	}

	comp := compositor.New(src, compositor.Options{Logger: logger})

	if fontsDir == "" {
		fontsDir = cfg.FontsDir
	}
	if fontsDir != "" {
		comp.LoadFonts(fontsDir)
	}

	cfg.Apply(comp, logger)

	for _, tr := range subtitle.Tracks() {
		path, _ := cmd.Flags().GetString(tr.String())
		if path == "" {
			continue
		}
		entries, err := subtitle.ParseFile(path)
		if err != nil {
			return fmt.Errorf("load %s track: %w", tr, err)
		}
		comp.SetTimelineSubtitles(tr, entries)
		logger.Infow("track loaded", "track", tr.String(), "entries", len(entries))
	}

	if legacyPath != "" {
		f, err := os.Open(legacyPath)
		if err != nil {
			return fmt.Errorf("open legacy subtitles: %w", err)
		}
		err = comp.LoadLegacySRT(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	comp.HandleEvent(playback.EventMetadataReady)

	info := src.Info()
	logger.Infow("rendering preview frames",
		"input", videoPath,
		"size", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"duration", info.Duration,
		"frames", len(timestamps),
	)

	for i, t := range timestamps {
		src.Seek(t)
		comp.HandleEvent(playback.EventSeeked)

		data, err := comp.CaptureFrame()
		if err != nil {
			return fmt.Errorf("capture frame at %v: %w", t, err)
		}

		outPath := filepath.Join(outputDir, fmt.Sprintf("preview_%05d.png", i))
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		logger.Infow("frame written", "at", t, "path", outPath)
	}

	return nil
}

// parseTimestamps reads a comma-separated list of seconds.
func parseTimestamps(spec string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		seconds, err := strconv.ParseFloat(part, 64)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("invalid timestamp %q", part)
		}
		out = append(out, time.Duration(seconds*float64(time.Second)))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no timestamps in %q", spec)
	}
	return out, nil
}
