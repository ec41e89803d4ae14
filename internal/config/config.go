// Package config loads tracer configuration from YAML files and maps it to
// trace parameters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/uliss/scantailor/internal/trace"
)

// Config is the application configuration. Zero values in the file fall
// back to the defaults, so a config file only needs the keys it overrides.
type Config struct {
	// Input resolution, used when the image format does not carry DPI.
	DPI struct {
		X int `yaml:"x"`
		Y int `yaml:"y"`
	} `yaml:"dpi"`

	Trace struct {
		// Peak detection window, wide and short like a piece of a text line.
		PeakWindowW int `yaml:"peakWindowW"`
		PeakWindowH int `yaml:"peakWindowH"`

		// SeedDilationRadius merges nearby seed peaks into one region.
		SeedDilationRadius float64 `yaml:"seedDilationRadius"`

		// Anisotropic blur sigmas applied before peak detection.
		BlurSigmaH float64 `yaml:"blurSigmaH"`
		BlurSigmaV float64 `yaml:"blurSigmaV"`

		// Thick mask parameters.
		ErodeRadius float64 `yaml:"erodeRadius"`
		MaskDelta   uint8   `yaml:"maskDelta"`

		// Sauvola binarization parameters.
		BinarizeWindow int     `yaml:"binarizeWindow"`
		BinarizeK      float64 `yaml:"binarizeK"`

		// Angular tolerances, in degrees.
		CollinearityToleranceDeg float64 `yaml:"collinearityToleranceDeg"`
		CurvatureToleranceDeg    float64 `yaml:"curvatureToleranceDeg"`

		// Maximum polyline end extension, in working-resolution pixels.
		MaxExtension float64 `yaml:"maxExtension"`
	} `yaml:"trace"`

	Output struct {
		// DebugDir, when set, receives numbered PNGs of intermediate images.
		DebugDir string `yaml:"debugDir"`

		// Chart, when set, is the path of a rendered baseline chart PNG.
		Chart string `yaml:"chart"`
	} `yaml:"output"`
}

// Default returns a configuration matching trace.DefaultParams at 300 DPI.
func Default() *Config {
	cfg := &Config{}
	cfg.DPI.X = 300
	cfg.DPI.Y = 300

	p := trace.DefaultParams()
	cfg.Trace.PeakWindowW = p.PeakWindowW
	cfg.Trace.PeakWindowH = p.PeakWindowH
	cfg.Trace.SeedDilationRadius = p.SeedDilationRadius
	cfg.Trace.BlurSigmaH = p.BlurSigmaH
	cfg.Trace.BlurSigmaV = p.BlurSigmaV
	cfg.Trace.ErodeRadius = p.ErodeRadius
	cfg.Trace.MaskDelta = p.MaskDelta
	cfg.Trace.BinarizeWindow = p.BinarizeWindow
	cfg.Trace.BinarizeK = p.BinarizeK
	cfg.Trace.CollinearityToleranceDeg = p.CollinearityToleranceDeg
	cfg.Trace.CurvatureToleranceDeg = p.CurvatureToleranceDeg
	cfg.Trace.MaxExtension = p.MaxExtension

	return cfg
}

// Load reads a YAML config file over the defaults. A missing file yields the
// defaults without error; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Params maps the trace section onto tracer parameters.
func (c *Config) Params() trace.Params {
	return trace.Params{
		PeakWindowW:              c.Trace.PeakWindowW,
		PeakWindowH:              c.Trace.PeakWindowH,
		SeedDilationRadius:       c.Trace.SeedDilationRadius,
		BlurSigmaH:               c.Trace.BlurSigmaH,
		BlurSigmaV:               c.Trace.BlurSigmaV,
		ErodeRadius:              c.Trace.ErodeRadius,
		MaskDelta:                c.Trace.MaskDelta,
		BinarizeWindow:           c.Trace.BinarizeWindow,
		BinarizeK:                c.Trace.BinarizeK,
		CollinearityToleranceDeg: c.Trace.CollinearityToleranceDeg,
		CurvatureToleranceDeg:    c.Trace.CurvatureToleranceDeg,
		MaxExtension:             c.Trace.MaxExtension,
	}
}
