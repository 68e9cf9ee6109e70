// Package config provides configuration loading and validation for strand-counter.
// It handles loading configuration from YAML files and provides default values.
//
// Configuration is fixed when the engine is constructed; nothing in this package
// is meant to be changed mid-session.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Band is the horizontal strip of the frame, rows [Top, Bottom), where
	// strand crossings are expected.
	Band struct {
		Top    int `yaml:"top"`
		Bottom int `yaml:"bottom"`
	} `yaml:"band"`

	// Threshold is the greyscale level below which a pixel counts as strand material.
	Threshold int `yaml:"threshold"`

	// Strands is the number of physical strands in the rope (N).
	Strands int `yaml:"strands"`

	// Blur parameters applied before thresholding
	Blur struct {
		// KernelSize must be odd and positive.
		KernelSize int `yaml:"kernelSize"`

		// Sigma of the Gaussian. Zero derives it from KernelSize.
		Sigma float64 `yaml:"sigma"`
	} `yaml:"blur"`

	// Detection parameters for the convolution response and peak finder
	Detection struct {
		MinHeight float64 `yaml:"minHeight"`
		MinWidth  float64 `yaml:"minWidth"`

		// TrailingMargin is the number of columns dropped from the right edge
		// of the band before convolving.
		TrailingMargin int `yaml:"trailingMargin"`

		// SampleRow is the band row the response profile is read from.
		SampleRow int `yaml:"sampleRow"`

		// ExpectedFrameWidth enables the template/window width check at
		// construction time. Zero means unknown; the check then happens per step.
		ExpectedFrameWidth int `yaml:"expectedFrameWidth"`
	} `yaml:"detection"`

	// Template geometry of the matched filter
	Template struct {
		Height    int     `yaml:"height"`
		Width     int     `yaml:"width"`
		Columns   int     `yaml:"columns"`
		Slope     float64 `yaml:"slope"`
		Thickness int     `yaml:"thickness"`
		Offset    int     `yaml:"offset"`
	} `yaml:"template"`

	// Markers control overlay rendering
	Markers struct {
		Radius int `yaml:"radius"`

		// Colors holds one hex color per strand, indexed by strand index - 1.
		Colors []string `yaml:"colors"`
	} `yaml:"markers"`

	source string
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{source: "defaults"}

	cfg.Band.Top = 1800
	cfg.Band.Bottom = 2340

	cfg.Threshold = 25
	cfg.Strands = 6

	cfg.Blur.KernelSize = 7
	cfg.Blur.Sigma = 0

	cfg.Detection.MinHeight = 300
	cfg.Detection.MinWidth = 20
	cfg.Detection.TrailingMargin = 150
	cfg.Detection.SampleRow = 300
	cfg.Detection.ExpectedFrameWidth = 0

	cfg.Template.Height = 83
	cfg.Template.Width = 770
	cfg.Template.Columns = 200
	cfg.Template.Slope = 0.4
	cfg.Template.Thickness = 10
	cfg.Template.Offset = 555

	cfg.Markers.Radius = 15
	cfg.Markers.Colors = []string{"#FF0000", "#FFA500", "#FFFF00", "#00FF00", "#0000FF", "#FF00FF"}

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.source = fmt.Sprintf("defaults (%s not found)", configPath)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.source = configPath
	return cfg, nil
}

// Source describes where the configuration came from: the file it was read
// from, or the defaults and the path that was missing.
func (c *Config) Source() string {
	return c.source
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// BandHeight returns the number of rows in the configured band.
func (c *Config) BandHeight() int {
	return c.Band.Bottom - c.Band.Top
}

// MarkerRow returns the frame row overlays are drawn on: the vertical middle of the band.
func (c *Config) MarkerRow() int {
	return c.BandHeight()/2 + c.Band.Top
}
