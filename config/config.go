package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is the config file used when none is given on the command line.
const DefaultPath = "timelapse.json"

// Source kinds.
const (
	SourceCamera = "camera"
	SourceScreen = "screen"
)

// Config holds runtime configuration for capture sessions and app behavior.
// Fields are loaded from a JSON file and may be overridden by environment
// variables.
type Config struct {
	Debug    bool   `json:"debug" env:"TIMELAPSE_DEBUG"`
	LogLevel string `json:"log_level" env:"TIMELAPSE_LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Session
	MediaRoot       string `json:"media_root" env:"TIMELAPSE_MEDIA_ROOT" validate:"required"`
	IntervalSeconds int    `json:"interval_seconds" env:"TIMELAPSE_INTERVAL" validate:"gte=1"`
	DurationSeconds int    `json:"duration_seconds" env:"TIMELAPSE_DURATION" validate:"gte=1"`
	KeepFrames      bool   `json:"keep_frames" env:"TIMELAPSE_KEEP_FRAMES"`

	// Devices
	Source        string `json:"source" env:"TIMELAPSE_SOURCE" validate:"oneof=camera screen"`
	Backend       string `json:"backend" env:"TIMELAPSE_BACKEND" validate:"oneof=any dshow v4l2"`
	CameraIndices []int  `json:"camera_indices" env:"TIMELAPSE_CAMERAS" env-separator:"," validate:"min=1,dive,gte=0"`
	PreviewIndex  int    `json:"preview_index" env:"TIMELAPSE_PREVIEW_INDEX" validate:"gte=0"`
	SettleDelayMs int    `json:"settle_delay_ms" env:"TIMELAPSE_SETTLE_DELAY_MS" validate:"gte=0"`
	PreviewPaceMs int    `json:"preview_interval_ms" env:"TIMELAPSE_PREVIEW_INTERVAL_MS" validate:"gte=1"`

	// Output encoding
	Codec       string  `json:"codec" env:"TIMELAPSE_CODEC" validate:"len=4"`
	FPS         float64 `json:"fps" env:"TIMELAPSE_FPS" validate:"gt=0"`
	JPEGQuality int     `json:"jpeg_quality" env:"TIMELAPSE_JPEG_QUALITY" validate:"gte=1,lte=100"`

	// Window
	WindowWidth  int `json:"window_width" env:"TIMELAPSE_WINDOW_WIDTH" validate:"gte=200"`
	WindowHeight int `json:"window_height" env:"TIMELAPSE_WINDOW_HEIGHT" validate:"gte=200"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:           false,
		LogLevel:        "info",
		MediaRoot:       "media",
		IntervalSeconds: 1,
		DurationSeconds: 10,
		KeepFrames:      true,
		Source:          SourceCamera,
		Backend:         "any",
		CameraIndices:   []int{1, 0},
		PreviewIndex:    1,
		SettleDelayMs:   1000,
		PreviewPaceMs:   33,
		Codec:           "XVID",
		FPS:             1,
		JPEGQuality:     95,
		WindowWidth:     720,
		WindowHeight:    640,
	}
}

// Validate clamps/normalizes values to safe ranges, then checks the rest.
// Session timing is not clamped: a bad interval or duration is reported.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	if c.Source == "" {
		c.Source = SourceCamera
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = "any"
	}
	if len(c.CameraIndices) == 0 {
		c.CameraIndices = []int{1, 0}
	}
	if c.PreviewPaceMs <= 0 {
		c.PreviewPaceMs = 33
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = 95
	}
	if c.FPS <= 0 {
		c.FPS = 1
	}
	if c.WindowWidth < 200 {
		c.WindowWidth = 720
	}
	if c.WindowHeight < 200 {
		c.WindowHeight = 640
	}
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validationError(verrs)
		}
		return err
	}
	return nil
}

func validationError(errs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid (%s=%s)", err.Field(), err.ActualTag(), err.Param()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
}

// DeviceIndices returns the session candidates and the preview index. The
// screen source has a single display, index 0.
func (c *Config) DeviceIndices() (candidates []int, preview int) {
	if c.Source == SourceScreen {
		return []int{0}, 0
	}
	return c.CameraIndices, c.PreviewIndex
}

// Load reads configuration from the given JSON file path and applies
// environment overrides. If the file does not exist only defaults and the
// environment are used. On error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return DefaultConfig(), err
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return DefaultConfig(), err
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return DefaultConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
