// Package config provides configuration loading and management for custommlc.
// It handles loading the device geometry from YAML files and provides the
// default values of the interactive and batch export paths.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSSD       = errors.New("SSD must be greater than zero")
	ErrInvalidLeafCount = errors.New("number of leaf pairs must be greater than zero")
	ErrInvalidLeafWidth = errors.New("leaf width must be greater than zero")
	ErrInvalidHalfField = errors.New("maximum half field must be greater than zero")
	ErrInvalidRendered  = errors.New("maximum rendered pairs must not be negative")
	ErrInvalidPosition  = errors.New("device position must be a finite number")
)

// Device holds the geometry of the collimator for one export run
type Device struct {
	// LeafSTLPath is the single leaf shape asset referenced by every leaf
	LeafSTLPath string `yaml:"leafSTLPath"`

	// NumberOfLeafPairs is the device capacity
	NumberOfLeafPairs int `yaml:"numberOfLeafPairs"`

	// MLCTransZ is the axial translation of the whole device in cm
	MLCTransZ float64 `yaml:"mlcTransZ"`

	// SSD is the source to reference plane distance in cm
	SSD float64 `yaml:"ssd"`

	// TopEdgeOffset corrects asset coordinates along z, in mm
	TopEdgeOffset float64 `yaml:"topEdgeOffset"`

	// InnerEdgeOffset corrects asset coordinates along x/y, in mm
	InnerEdgeOffset float64 `yaml:"innerEdgeOffset"`

	// LeafWidth is the pitch between neighbouring leaves in mm
	LeafWidth float64 `yaml:"leafWidth"`

	// MaxRenderedPairs limits how many pairs the editor shows
	MaxRenderedPairs int `yaml:"maxRenderedPairs"`

	// MaxHalfField is the largest edge position accepted by the editor, in cm
	MaxHalfField float64 `yaml:"maxHalfField"`
}

// Leaves holds optional per-leaf orientation profiles
type Leaves struct {
	// RotXStart and RotXEnd span the leaf tilt across the bank in degrees
	RotXStart float64 `yaml:"rotXStart"`
	RotXEnd   float64 `yaml:"rotXEnd"`

	// CurvatureAmplitude and CurvatureFrequency give TransZ = A*cos(f*i)
	CurvatureAmplitude float64 `yaml:"curvatureAmplitude"`
	CurvatureFrequency float64 `yaml:"curvatureFrequency"`
}

// Output holds output file names and verbosity
type Output struct {
	InteractiveFile string `yaml:"interactiveFile"`
	BatchFile       string `yaml:"batchFile"`
	Verbose         bool   `yaml:"verbose"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	Device Device `yaml:"device"`
	Leaves Leaves `yaml:"leaves"`
	Output Output `yaml:"output"`
}

// DefaultConfig returns the configuration of the interactive path
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Device.NumberOfLeafPairs = 64
	cfg.Device.SSD = 100
	cfg.Device.LeafWidth = 2
	cfg.Device.MaxRenderedPairs = 64
	cfg.Device.MaxHalfField = 20

	cfg.Leaves.RotXStart = 180
	cfg.Leaves.RotXEnd = 180

	cfg.Output.InteractiveFile = "Custom_MLC.txt"
	cfg.Output.BatchFile = "DICOM_MLC_POS.txt"

	return cfg
}

// DefaultInteractive is an alias of DefaultConfig kept for symmetry with
// DefaultBatch
func DefaultInteractive() *Config {
	return DefaultConfig()
}

// DefaultBatch returns the configuration of the batch path, which models a
// larger device than the interactive one
func DefaultBatch() *Config {
	cfg := DefaultConfig()
	cfg.Device.NumberOfLeafPairs = 80
	return cfg
}

// Validate rejects geometry that would make the projection degenerate
func (c *Config) Validate() error {
	// NaN fails every comparison
	if !(c.Device.SSD > 0) || math.IsInf(c.Device.SSD, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidSSD, c.Device.SSD)
	}
	if c.Device.NumberOfLeafPairs <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLeafCount, c.Device.NumberOfLeafPairs)
	}
	if !(c.Device.LeafWidth > 0) || math.IsInf(c.Device.LeafWidth, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidLeafWidth, c.Device.LeafWidth)
	}
	if !(c.Device.MaxHalfField > 0) || math.IsInf(c.Device.MaxHalfField, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidHalfField, c.Device.MaxHalfField)
	}
	if c.Device.MaxRenderedPairs < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRendered, c.Device.MaxRenderedPairs)
	}
	positions := map[string]float64{
		"mlcTransZ":       c.Device.MLCTransZ,
		"topEdgeOffset":   c.Device.TopEdgeOffset,
		"innerEdgeOffset": c.Device.InnerEdgeOffset,
	}
	for name, v := range positions {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is %g", ErrInvalidPosition, name, v)
		}
	}
	return nil
}

// RenderedPairs is the number of pairs that can be edited interactively
func (c *Config) RenderedPairs() int {
	if c.Device.MaxRenderedPairs > 0 && c.Device.NumberOfLeafPairs > c.Device.MaxRenderedPairs {
		return c.Device.MaxRenderedPairs
	}
	return c.Device.NumberOfLeafPairs
}

// LoadConfig loads configuration from a YAML file on top of base.
// If the file doesn't exist, base is returned unchanged.
func LoadConfig(configPath string, base *Config) (*Config, error) {
	cfg := base
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if configPath == "" {
		return cfg, nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
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
