package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-stft/dsp/capture"
	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/dsp/fft"
	"github.com/cwbudde/algo-stft/dsp/window"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path on top of [Default] and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r on top of [Default] and validates the
// result. Unknown keys are rejected. An empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field of cfg and returns all failures joined.
// Each failure wraps [core.ErrInvalidParameter].
func Validate(cfg *Config) error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), core.ErrInvalidParameter))
	}

	a := cfg.Analysis
	if a.WindowSize <= 0 {
		invalid("analysis.window_size must be > 0, got %d", a.WindowSize)
	}
	if !(a.Overlap >= 0 && a.Overlap < 1) {
		invalid("analysis.overlap must be in [0, 1), got %v", a.Overlap)
	}
	if _, err := window.ParseType(a.Window); err != nil {
		invalid("analysis.window %q is unknown", a.Window)
	}
	if a.Workers < 0 {
		invalid("analysis.workers must be >= 0, got %d", a.Workers)
	}
	if _, err := fft.ParseBackend(a.Backend); err != nil {
		invalid("analysis.backend %q is unknown", a.Backend)
	}

	in := cfg.Input
	if in.SampleRate <= 0 {
		invalid("input.sample_rate must be > 0, got %d", in.SampleRate)
	}
	if in.Channels < 1 {
		invalid("input.channels must be >= 1, got %d", in.Channels)
	}
	if _, err := capture.ParseFormat(in.Format); err != nil {
		invalid("input.format %q is unknown; valid values: s16le, f32le", in.Format)
	}

	if !cfg.Output.Mode.IsValid() {
		invalid("output.mode %q is unknown; valid values: average, peak, frames, json", cfg.Output.Mode)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		invalid("log_level %q is invalid", cfg.LogLevel)
	}

	return errors.Join(errs...)
}
