package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvWindowSize = "STFT_WINDOW_SIZE"
	EnvOverlap    = "STFT_OVERLAP"
	EnvWindow     = "STFT_WINDOW"
	EnvNormalize  = "STFT_NORMALIZE"
	EnvWorkers    = "STFT_WORKERS"
	EnvBackend    = "STFT_BACKEND"
	EnvSampleRate = "STFT_SAMPLE_RATE"
	EnvChannels   = "STFT_CHANNELS"
	EnvFormat     = "STFT_FORMAT"
	EnvLogLevel   = "STFT_LOG_LEVEL"
)

// LoadEnv loads an optional .env file from the working directory and
// applies the process environment to cfg.
func LoadEnv(cfg *Config) error {
	// .env is optional
	_ = godotenv.Load()
	return ApplyEnv(cfg, os.LookupEnv)
}

// ApplyEnv overrides cfg with every STFT_* variable lookup reports as set,
// then validates the result. Unparsable values are reported together.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	parse := func(key string, set func(string) error) {
		v, ok := lookup(key)
		if !ok {
			return
		}
		if err := set(v); err != nil {
			errs = append(errs, fmt.Errorf("config: %s=%q: %w", key, v, err))
		}
	}
	intVar := func(dst *int) func(string) error {
		return func(v string) error {
			n, err := strconv.Atoi(v)
			*dst = n
			return err
		}
	}
	stringVar := func(dst *string) func(string) error {
		return func(v string) error {
			*dst = v
			return nil
		}
	}

	parse(EnvWindowSize, intVar(&cfg.Analysis.WindowSize))
	parse(EnvWorkers, intVar(&cfg.Analysis.Workers))
	parse(EnvSampleRate, intVar(&cfg.Input.SampleRate))
	parse(EnvChannels, intVar(&cfg.Input.Channels))
	parse(EnvWindow, stringVar(&cfg.Analysis.Window))
	parse(EnvBackend, stringVar(&cfg.Analysis.Backend))
	parse(EnvFormat, stringVar(&cfg.Input.Format))
	parse(EnvLogLevel, stringVar(&cfg.LogLevel))
	parse(EnvOverlap, func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		cfg.Analysis.Overlap = f
		return err
	})
	parse(EnvNormalize, func(v string) error {
		b, err := strconv.ParseBool(v)
		cfg.Analysis.Normalize = b
		return err
	})

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return Validate(cfg)
}
