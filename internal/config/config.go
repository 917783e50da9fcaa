// Package config loads the settings of the stft command from a YAML file,
// a .env file and STFT_* environment variables.
package config

// Mode selects what the command prints.
type Mode string

const (
	ModeAverage Mode = "average"
	ModePeak    Mode = "peak"
	ModeFrames  Mode = "frames"
	ModeJSON    Mode = "json"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeAverage, ModePeak, ModeFrames, ModeJSON:
		return true
	}
	return false
}

// Config is the complete command configuration.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	LogLevel string         `yaml:"log_level"`
}

// AnalysisConfig mirrors the analyzer options.
type AnalysisConfig struct {
	WindowSize int     `yaml:"window_size"`
	Overlap    float64 `yaml:"overlap"`
	Window     string  `yaml:"window"`
	Normalize  bool    `yaml:"normalize"`
	// Workers is the number of frame workers; 0 selects GOMAXPROCS.
	Workers int    `yaml:"workers"`
	Backend string `yaml:"backend"`
}

// InputConfig describes the raw PCM input.
type InputConfig struct {
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
	Format     string `yaml:"format"`
}

// OutputConfig controls what is printed.
type OutputConfig struct {
	Mode Mode `yaml:"mode"`
	DB   bool `yaml:"db"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			WindowSize: 2048,
			Overlap:    0.5,
			Window:     "hann",
			Backend:    "algofft",
		},
		Input: InputConfig{
			SampleRate: 44100,
			Channels:   1,
			Format:     "s16le",
		},
		Output: OutputConfig{
			Mode: ModeAverage,
		},
		LogLevel: "info",
	}
}
