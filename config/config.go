// Package config loads the YAML configuration that drives a meteorcam run.
//
// Grounded on lkumar3-iitr-Sensor-Logger/utils/config_loader.go
// (_examples/lkumar3-iitr-Sensor-Logger/utils/config_loader.go)'s
// struct-tagged-YAML-plus-os.ReadFile loader shape, using the same
// gopkg.in/yaml.v3 dependency.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"meteorcam/v4l2"
)

// Config is the top-level structure for meteorcam.yaml. It covers the
// recognized detection options plus the ambient options (device path,
// logging, metrics, analysis worker count) a real deployment needs.
type Config struct {
	// Detection tuning.
	DetectionHead            int `yaml:"detection_head"`
	DetectionTail            int `yaml:"detection_tail"`
	PixelDifferenceThreshold int `yaml:"pixel_difference_threshold"`
	NChangedPixelsForTrigger int `yaml:"n_changed_pixels_for_trigger"`

	Headless bool `yaml:"headless"`

	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	PixelFormat string `yaml:"pixel_format"`
	BufferCount int    `yaml:"buffer_count"`

	// DevicePath is the ambient stand-in for the out-of-scope Enumeration
	// collaborator, which in the original system hands the pipeline an
	// already-opened device handle.
	DevicePath string `yaml:"device_path"`

	LogLevel string `yaml:"log_level"`
	LogPath  string `yaml:"log_path"`

	MetricsAddr string `yaml:"metrics_addr"`

	AnalysisWorkers int `yaml:"analysis_workers"`
}

// Default returns a Config populated with the values the original system
// used in practice (per original_source's MeteorCaptureQt default INI
// entries), overridden by whatever Load reads from disk.
func Default() Config {
	return Config{
		DetectionHead:            10,
		DetectionTail:            20,
		PixelDifferenceThreshold: 10,
		NChangedPixelsForTrigger: 10,
		Headless:                 false,
		Width:                    640,
		Height:                   480,
		PixelFormat:              "GREY",
		BufferCount:              32,
		DevicePath:               "/dev/video0",
		LogLevel:                 "info",
		MetricsAddr:              "",
		AnalysisWorkers:          2,
	}
}

// Load reads and parses a meteorcam YAML config file, starting from
// Default and overwriting only the fields present in the file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configuration values the pipeline could not act on.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.DetectionHead <= 0 {
		return fmt.Errorf("config: detection_head must be positive, got %d", c.DetectionHead)
	}
	if c.DetectionTail <= 0 {
		return fmt.Errorf("config: detection_tail must be positive, got %d", c.DetectionTail)
	}
	if c.PixelDifferenceThreshold < 0 || c.PixelDifferenceThreshold > 255 {
		return fmt.Errorf("config: pixel_difference_threshold must be in 0..255, got %d", c.PixelDifferenceThreshold)
	}
	if c.NChangedPixelsForTrigger < 0 {
		return fmt.Errorf("config: n_changed_pixels_for_trigger must be non-negative, got %d", c.NChangedPixelsForTrigger)
	}
	switch c.PixelFormat {
	case "GREY", "YUYV", "MJPEG":
	default:
		return fmt.Errorf("config: unrecognized pixel_format %q", c.PixelFormat)
	}
	if c.AnalysisWorkers <= 0 {
		return fmt.Errorf("config: analysis_workers must be positive, got %d", c.AnalysisWorkers)
	}
	return nil
}

// FourCC maps PixelFormat to the v4l2 FourCC it names.
func (c Config) FourCC() (v4l2.FourCC, error) {
	switch c.PixelFormat {
	case "GREY":
		return v4l2.PixFmtGrey, nil
	case "YUYV":
		return v4l2.PixFmtYUYV, nil
	case "MJPEG":
		return v4l2.PixFmtMJPEG, nil
	default:
		return 0, fmt.Errorf("config: unrecognized pixel_format %q", c.PixelFormat)
	}
}
