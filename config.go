package leafmark

// Run configuration. Values may come from a YAML file, with CLI flags
// applied on top by the caller.

import (
	"fmt"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// AutoColor selects a per-screenshot contrast color instead of a fixed one.
const AutoColor = "auto"

// Config holds the tunable settings for one run.
type Config struct {
	Stroke        int    `yaml:"stroke"`         // Outline width in pixels.
	Color         string `yaml:"color"`          // Hex "#rrggbb" or "auto".
	SkipInvisible bool   `yaml:"skip-invisible"` // Exclude nodes marked as not visible.
	JPEGQuality   int    `yaml:"jpeg-quality"`

	// Optional output resizing. Zero values keep the original dimensions.
	ResizeLonger     int    `yaml:"resize-longer"`
	ResizeShorter    int    `yaml:"resize-shorter"`
	DownsampleFilter string `yaml:"downsample-filter"`
	UpsampleFilter   string `yaml:"upsample-filter"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Stroke:           5,
		Color:            "#ffff00",
		JPEGQuality:      90,
		DownsampleFilter: "box",
		UpsampleFilter:   "linear",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %q: %v", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration for values no run can work with.
func (c Config) Validate() error {
	if c.Stroke < 1 {
		return fmt.Errorf("invalid stroke width %d", c.Stroke)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("invalid JPEG quality %d, must be in [1, 100]", c.JPEGQuality)
	}
	if c.Color != AutoColor {
		if _, err := colorful.Hex(c.Color); err != nil {
			return fmt.Errorf("invalid color %q: %v", c.Color, err)
		}
	}
	if c.ResizeLonger < 0 || c.ResizeShorter < 0 {
		return fmt.Errorf("invalid resize target")
	}
	for _, name := range []string{c.DownsampleFilter, c.UpsampleFilter} {
		if _, err := resampleFilterByName(name); err != nil {
			return err
		}
	}

	return nil
}
