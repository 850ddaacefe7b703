// Package config loads the settings of the vdafs command from YAML.
//
// Every field has a default, so a configuration file only names what it
// changes:
//
//	sampling:
//	  loop_samples: 64
//	  parameterization: shifted
//	render:
//	  projection: iso
//	workers: 8
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/vdafs/model"
)

// Config is the complete tool configuration
type Config struct {
	Sampling Sampling `yaml:"sampling"`
	Render   Render   `yaml:"render"`
	Export   Export   `yaml:"export"`

	// Workers bounds the number of files processed in parallel
	Workers int `yaml:"workers"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// Sampling controls how geometry is turned into points
type Sampling struct {
	CurveSamples int     `yaml:"curve_samples"` // per curve segment
	IsoLines     int     `yaml:"iso_lines"`     // per surface direction
	LineSamples  int     `yaml:"line_samples"`  // per iso line
	LoopSamples  int     `yaml:"loop_samples"`  // per FACE edge
	Tolerance    float64 `yaml:"tolerance"`     // absolute loop tolerance, 0 = relative to the surface box
	GapTolerance float64 `yaml:"gap_tolerance"` // continuity checks report distances above this

	// Parameterization is "normalized" or "shifted"
	Parameterization string `yaml:"parameterization"`

	// UVGlobal treats p-curve values as global surface parameters
	UVGlobal bool `yaml:"uv_global"`
}

// Render controls PNG output
type Render struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Projection string  `yaml:"projection"` // xy, yz, xz or iso
	Margin     int     `yaml:"margin"`
	LineWidth  float64 `yaml:"line_width"`
}

// Export controls file output
type Export struct {
	OutDir string `yaml:"out_dir"`
}

// LoadError describes a configuration that could not be loaded
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		Sampling: Sampling{
			CurveSamples:     16,
			IsoLines:         10,
			LineSamples:      50,
			LoopSamples:      32,
			GapTolerance:     1e-6,
			Parameterization: model.Normalized.String(),
		},
		Render: Render{
			Width:      800,
			Height:     800,
			Projection: "xy",
			Margin:     20,
			LineWidth:  1,
		},
		Export: Export{
			OutDir: ".",
		},
		Workers:  runtime.NumCPU(),
		LogLevel: "info",
	}
}

// Parse reads YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Message: "invalid configuration", Cause: err}
	}
	return cfg, nil
}

// Load reads a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	s := c.Sampling
	switch {
	case s.CurveSamples < 1:
		return fmt.Errorf("sampling.curve_samples must be at least 1, got %d", s.CurveSamples)
	case s.IsoLines < 1:
		return fmt.Errorf("sampling.iso_lines must be at least 1, got %d", s.IsoLines)
	case s.LineSamples < 2:
		return fmt.Errorf("sampling.line_samples must be at least 2, got %d", s.LineSamples)
	case s.LoopSamples < 2:
		return fmt.Errorf("sampling.loop_samples must be at least 2, got %d", s.LoopSamples)
	case s.Tolerance < 0:
		return fmt.Errorf("sampling.tolerance must not be negative, got %g", s.Tolerance)
	case s.GapTolerance < 0:
		return fmt.Errorf("sampling.gap_tolerance must not be negative, got %g", s.GapTolerance)
	}
	if _, err := model.ParseParameterization(s.Parameterization); err != nil {
		return fmt.Errorf("sampling.parameterization: %w", err)
	}

	r := c.Render
	if r.Width < 16 || r.Height < 16 {
		return fmt.Errorf("render size %dx%d is too small", r.Width, r.Height)
	}
	if r.Margin < 0 || 2*r.Margin >= r.Width || 2*r.Margin >= r.Height {
		return fmt.Errorf("render.margin %d does not fit %dx%d", r.Margin, r.Width, r.Height)
	}
	if r.LineWidth <= 0 {
		return fmt.Errorf("render.line_width must be positive, got %g", r.LineWidth)
	}
	switch strings.ToLower(r.Projection) {
	case "xy", "yz", "xz", "iso":
	default:
		return fmt.Errorf("render.projection must be xy, yz, xz or iso, got %q", r.Projection)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// Param returns the configured local parameter convention
func (c *Config) Param() model.Parameterization {
	p, err := model.ParseParameterization(c.Sampling.Parameterization)
	if err != nil {
		return model.Normalized
	}
	return p
}
