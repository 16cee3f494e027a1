package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures encoder, render, and audio settings for the composition
// engine.
type Config struct {
	Version  int                `yaml:"version"`
	Encoder  EncoderConfig      `yaml:"encoder"`
	Render   RenderConfig       `yaml:"render"`
	Audio    AudioConfig        `yaml:"audio"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// EncoderConfig locates the external encoder binaries. Empty values fall back
// to PATH lookup.
type EncoderConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// RenderConfig holds timing constants and workspace placement.
type RenderConfig struct {
	FPS              int     `yaml:"fps"`
	TransitionSec    float64 `yaml:"transition_s"`
	StallTimeoutSec  int     `yaml:"stall_timeout_s"`
	CleanupDelaySec  int     `yaml:"cleanup_delay_s"`
	WorkDir          string  `yaml:"work_dir"`
	AssetTimeoutSec  int     `yaml:"asset_timeout_s"`
	AssetConcurrency int     `yaml:"asset_concurrency"`
	DefaultProfile   string  `yaml:"default_profile"`
}

// AudioConfig describes audio encoding parameters for the output container.
type AudioConfig struct {
	ACodec      string `yaml:"acodec"`
	BitrateKbps int    `yaml:"bitrate_kbps"`
	SampleRate  int    `yaml:"sample_rate"`
}

// Profile is one output resolution/quality preset.
type Profile struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Preset string `yaml:"preset"`
	CRF    int    `yaml:"crf"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Render: RenderConfig{
			FPS:              25,
			TransitionSec:    0.8,
			StallTimeoutSec:  60,
			CleanupDelaySec:  300,
			AssetTimeoutSec:  30,
			AssetConcurrency: 4,
			DefaultProfile:   "preview",
		},
		Audio: AudioConfig{
			ACodec:      "aac",
			BitrateKbps: 192,
			SampleRate:  44100,
		},
		Profiles: map[string]Profile{
			"preview": {Width: 1280, Height: 720, Preset: "veryfast", CRF: 28},
			"final":   {Width: 1920, Height: 1080, Preset: "medium", CRF: 20},
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Render.FPS == 0 {
		c.Render.FPS = defaults.Render.FPS
	}
	if c.Render.TransitionSec == 0 {
		c.Render.TransitionSec = defaults.Render.TransitionSec
	}
	if c.Render.StallTimeoutSec == 0 {
		c.Render.StallTimeoutSec = defaults.Render.StallTimeoutSec
	}
	if c.Render.CleanupDelaySec == 0 {
		c.Render.CleanupDelaySec = defaults.Render.CleanupDelaySec
	}
	if c.Render.AssetTimeoutSec == 0 {
		c.Render.AssetTimeoutSec = defaults.Render.AssetTimeoutSec
	}
	if c.Render.AssetConcurrency == 0 {
		c.Render.AssetConcurrency = defaults.Render.AssetConcurrency
	}
	if c.Render.DefaultProfile == "" {
		c.Render.DefaultProfile = defaults.Render.DefaultProfile
	}
	if c.Audio.ACodec == "" {
		c.Audio.ACodec = defaults.Audio.ACodec
	}
	if c.Audio.BitrateKbps == 0 {
		c.Audio.BitrateKbps = defaults.Audio.BitrateKbps
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = defaults.Audio.SampleRate
	}
	if c.Profiles == nil {
		c.Profiles = map[string]Profile{}
	}
	for name, p := range defaults.Profiles {
		if _, ok := c.Profiles[name]; !ok {
			c.Profiles[name] = p
		}
	}
}

// Validate checks structural constraints that cannot be defaulted away.
func (c Config) Validate() error {
	if c.Render.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.Render.FPS)
	}
	if c.Render.TransitionSec < 0 {
		return fmt.Errorf("config: transition_s must not be negative, got %v", c.Render.TransitionSec)
	}
	if _, ok := c.Profiles[c.Render.DefaultProfile]; !ok {
		return fmt.Errorf("config: default_profile %q is not a configured profile", c.Render.DefaultProfile)
	}
	for name, p := range c.Profiles {
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("config: profile %q has invalid dimensions %dx%d", name, p.Width, p.Height)
		}
		if p.CRF < 0 || p.CRF > 51 {
			return fmt.Errorf("config: profile %q crf %d outside 0..51", name, p.CRF)
		}
	}
	return nil
}

// ProfileNamed returns the named profile, falling back to the configured
// default when name is empty.
func (c Config) ProfileNamed(name string) (Profile, error) {
	if name == "" {
		name = c.Render.DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
