package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skylar-Youn/subpreview/internal/compositor"
	"github.com/skylar-Youn/subpreview/internal/logging"
	"github.com/skylar-Youn/subpreview/internal/style"
	"github.com/skylar-Youn/subpreview/internal/subtitle"
)

// TrackStyleConfig is a partial per-track style; absent fields keep the
// compositor defaults.
type TrackStyleConfig struct {
	YPosition   *float64 `yaml:"y_position"`
	FontSize    *float64 `yaml:"font_size"`
	Color       *string  `yaml:"color"`
	BorderWidth *float64 `yaml:"border_width"`
	BorderColor *string  `yaml:"border_color"`
	Enabled     *bool    `yaml:"enabled"`
}

type AnimationConfig struct {
	Type     string  `yaml:"type"`
	Duration float64 `yaml:"duration"` // seconds
	Delay    float64 `yaml:"delay"`    // seconds
}

type ShadowConfig struct {
	Enabled bool     `yaml:"enabled"`
	Blur    *float64 `yaml:"blur"`
	Opacity *float64 `yaml:"opacity"`
	Color   *string  `yaml:"color"`
}

type BackgroundConfig struct {
	Enabled bool     `yaml:"enabled"`
	Color   *string  `yaml:"color"`
	Opacity *float64 `yaml:"opacity"`
	Padding *float64 `yaml:"padding"`
}

type EffectsConfig struct {
	Shadow        ShadowConfig     `yaml:"shadow"`
	Background    BackgroundConfig `yaml:"background"`
	GlobalOpacity *float64         `yaml:"global_opacity"`
}

// Config is the preview settings file consumed by the CLI.
type Config struct {
	Tracks    map[string]TrackStyleConfig `yaml:"tracks"`
	Animation *AnimationConfig            `yaml:"animation"`
	Effects   *EffectsConfig              `yaml:"effects"`
	FontsDir  string                      `yaml:"fonts_dir"`
}

// Load reads a preview config file. A missing path yields an empty config
// so every setting falls back to the compositor defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Apply pushes the config into a compositor through its mutator API.
// Unknown track names and animation types are logged and skipped rather
// than failing the whole config.
func (c *Config) Apply(comp *compositor.Compositor, log *logging.Logger) {
	if log == nil {
		log = logging.NewNop()
	}

	for name, tc := range c.Tracks {
		tr, err := subtitle.ParseTrack(name)
		if err != nil {
			log.Warnw("skipping track config", "error", err)
			continue
		}
		comp.UpdateSubtitleStyle(tr, style.TrackStyleUpdate{
			YPosition:   tc.YPosition,
			FontSize:    tc.FontSize,
			Color:       tc.Color,
			BorderWidth: tc.BorderWidth,
			BorderColor: tc.BorderColor,
		})
		if tc.Enabled != nil {
			comp.SetSubtitleEnabled(tr, *tc.Enabled)
		}
	}

	if c.Animation != nil {
		if typ, ok := style.ParseAnimationType(c.Animation.Type); ok {
			comp.SetAnimationType(typ)
		} else if c.Animation.Type != "" {
			log.Warnw("skipping unknown animation type", "type", c.Animation.Type)
		}
		if c.Animation.Duration > 0 {
			comp.SetAnimationDuration(time.Duration(c.Animation.Duration * float64(time.Second)))
		}
		if c.Animation.Delay >= 0 {
			comp.SetAnimationDelay(time.Duration(c.Animation.Delay * float64(time.Second)))
		}
	}

	if c.Effects != nil {
		comp.SetEffectEnabled(style.EffectShadow, c.Effects.Shadow.Enabled)
		comp.UpdateShadowEffect(style.ShadowUpdate{
			Blur:    c.Effects.Shadow.Blur,
			Opacity: c.Effects.Shadow.Opacity,
			Color:   c.Effects.Shadow.Color,
		})
		comp.SetEffectEnabled(style.EffectBackground, c.Effects.Background.Enabled)
		comp.UpdateBackgroundEffect(style.BackgroundUpdate{
			Color:   c.Effects.Background.Color,
			Opacity: c.Effects.Background.Opacity,
			Padding: c.Effects.Background.Padding,
		})
		if c.Effects.GlobalOpacity != nil {
			comp.SetGlobalOpacity(*c.Effects.GlobalOpacity)
		}
	}
}
