package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/skylar-Youn/subpreview/internal/ffmpeg"
	"github.com/skylar-Youn/subpreview/internal/logging"
)

// Info describes a media file.
type Info struct {
	Path      string
	Duration  time.Duration
	Width     int
	Height    int
	FrameRate float64
	Codec     string
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe reads duration, dimensions, and codec of a media file via ffprobe.
func Probe(ctx context.Context, path string) (*Info, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &Info{Path: path}
	if probe.Format.Duration != "" {
		var seconds float64
		if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
			return nil, fmt.Errorf("failed to parse duration: %w", err)
		}
		info.Duration = time.Duration(seconds * float64(time.Second))
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		info.Width = stream.Width
		info.Height = stream.Height
		info.Codec = stream.CodecName
		info.FrameRate = parseFrameRate(stream.RFrameRate)
		break
	}
	if info.Width == 0 || info.Height == 0 {
		return nil, fmt.Errorf("no video stream in %s", path)
	}
	return info, nil
}

// parseFrameRate handles ffprobe's rational form, e.g. "30000/1001".
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// FileSource is an offline playback source over a media file. Frames decode
// on demand through ffmpeg, so preview rendering works without a browser
// video element. It implements playback.Source and playback.Seeker.
type FileSource struct {
	log  *logging.Logger
	info *Info
	pos  time.Duration

	// single-frame cache; consecutive renders at one position re-decode
	// nothing
	cachedAt    time.Duration
	cachedFrame image.Image
}

func NewFileSource(ctx context.Context, path string, log *logging.Logger) (*FileSource, error) {
	if log == nil {
		log = logging.NewNop()
	}
	info, err := Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	return &FileSource{log: log, info: info}, nil
}

// Info returns the probed media description.
func (s *FileSource) Info() *Info {
	return s.info
}

func (s *FileSource) CurrentTime() time.Duration {
	return s.pos
}

func (s *FileSource) Duration() time.Duration {
	return s.info.Duration
}

func (s *FileSource) Size() (int, int) {
	return s.info.Width, s.info.Height
}

// Seek clamps the position into the media's duration.
func (s *FileSource) Seek(t time.Duration) {
	if t < 0 {
		t = 0
	}
	if s.info.Duration > 0 && t > s.info.Duration {
		t = s.info.Duration
	}
	s.pos = t
}

// Frame decodes the frame at t. Decoding failures are logged and yield nil
// so the compositor paints bars instead of halting.
func (s *FileSource) Frame(t time.Duration) image.Image {
	if s.cachedFrame != nil && s.cachedAt == t {
		return s.cachedFrame
	}

	img, err := s.decodeFrame(t)
	if err != nil {
		s.log.Warnw("frame decode failed", "path", s.info.Path, "at", t, "error", err)
		return nil
	}
	s.cachedAt = t
	s.cachedFrame = img
	return img
}

func (s *FileSource) decodeFrame(t time.Duration) (image.Image, error) {
	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = ffmpeg.Input(s.info.Path, ffmpeg.KwArgs{
		"ss": fmt.Sprintf("%.3f", t.Seconds()),
	}).
		Output("pipe:", ffmpeg.KwArgs{
			"vframes": 1,
			"format":  "image2",
			"vcodec":  "png",
		}).
		WithOutput(&buf).
		SetFfmpegPath(ffmpegPath).
		Silent(true).
		Run()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame extraction: %w", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode extracted frame: %w", err)
	}
	return img, nil
}
