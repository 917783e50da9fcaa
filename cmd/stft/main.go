// Command stft analyzes raw PCM audio with a short-time Fourier transform.
//
// Usage:
//
//	stft [flags] [-in file]
//
// Input is raw interleaved little-endian PCM read from -in or stdin. Settings
// come from defaults, then the -config YAML file, then a .env file and STFT_*
// environment variables, then flags.
//
// Examples:
//
//	stft -in tone.raw -rate 44100 -size 2048 -overlap 0
//	arecord -f S16_LE -r 48000 -c 2 -d 5 | stft -rate 48000 -channels 2 -mode peak
//	stft -in song.f32 -format f32le -mode json > frames.json
//	stft -list
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/cwbudde/algo-stft/dsp/fft"
	"github.com/cwbudde/algo-stft/dsp/window"
	"github.com/cwbudde/algo-stft/internal/config"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so deferred cleanup runs before exit.
func realMain() int {
	configPath := flag.String("config", "", "YAML configuration file")
	inPath := flag.String("in", "-", `input file with raw PCM, "-" for stdin`)
	list := flag.Bool("list", false, "list window types, FFT backends and output modes")

	def := config.Default()
	format := flag.String("format", def.Input.Format, "sample format: s16le or f32le")
	rate := flag.Int("rate", def.Input.SampleRate, "sample rate in Hz")
	channels := flag.Int("channels", def.Input.Channels, "interleaved channel count")
	size := flag.Int("size", def.Analysis.WindowSize, "window size in samples")
	overlap := flag.Float64("overlap", def.Analysis.Overlap, "window overlap fraction in [0, 1)")
	win := flag.String("window", def.Analysis.Window, "window type")
	normalize := flag.Bool("normalize", def.Analysis.Normalize, "divide intensities by the window size")
	backend := flag.String("backend", def.Analysis.Backend, "FFT backend")
	workers := flag.Int("workers", def.Analysis.Workers, "frame workers, 0 for GOMAXPROCS")
	mode := flag.String("mode", string(def.Output.Mode), "output: average, peak, frames or json")
	db := flag.Bool("db", def.Output.DB, "print intensities in dB")
	logLevel := flag.String("log-level", def.LogLevel, "log level")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stft [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the short-time spectrum of raw PCM audio.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stft -in tone.raw -rate 44100 -size 2048 -overlap 0\n")
		fmt.Fprintf(os.Stderr, "  stft -in song.f32 -format f32le -mode json\n")
		fmt.Fprintf(os.Stderr, "  stft -list\n")
	}
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stderr)

	if *list {
		if err := printList(os.Stdout); err != nil {
			logger.WithError(err).Error("Failed to list options")
			return 1
		}
		return 0
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.WithError(err).Error("Failed to load configuration")
			return 1
		}
		cfg = loaded
	}
	if err := config.LoadEnv(cfg); err != nil {
		logger.WithError(err).Error("Invalid environment configuration")
		return 1
	}

	// Explicit flags win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Input.Format = *format
		case "rate":
			cfg.Input.SampleRate = *rate
		case "channels":
			cfg.Input.Channels = *channels
		case "size":
			cfg.Analysis.WindowSize = *size
		case "overlap":
			cfg.Analysis.Overlap = *overlap
		case "window":
			cfg.Analysis.Window = *win
		case "normalize":
			cfg.Analysis.Normalize = *normalize
		case "backend":
			cfg.Analysis.Backend = *backend
		case "workers":
			cfg.Analysis.Workers = *workers
		case "mode":
			cfg.Output.Mode = config.Mode(*mode)
		case "db":
			cfg.Output.DB = *db
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := config.Validate(cfg); err != nil {
		logger.WithError(err).Error("Invalid configuration")
		return 1
	}

	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logger.SetLevel(level)

	in, closeIn, err := openInput(*inPath)
	if err != nil {
		logger.WithError(err).Error("Failed to open input")
		return 1
	}
	defer closeIn()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, in, os.Stdout, logger); err != nil {
		logger.WithError(err).Error("Analysis failed")
		return 1
	}
	return 0
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// listWindowSize is the window length used to measure responses for -list.
const listWindowSize = 256

func printList(w io.Writer) error {
	names := []string{"rectangular", "hann", "hamming", "blackman", "blackman-harris"}
	sort.Strings(names)

	fmt.Fprintf(w, "windows (measured at N=%d):\n", listWindowSize)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Name\tGain\tENBW\t3 dB BW\tFirst null\tSidelobe [dB]\tScallop [dB]\n")
	for _, n := range names {
		typ, err := window.ParseType(n)
		if err != nil {
			return err
		}
		r, err := window.Measure(window.Generate(typ, listWindowSize))
		if err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
		fmt.Fprintf(tw, "  %s\t%.4f\t%.4f\t%.3f\t%.3f\t%.1f\t%.2f\n", n,
			r.CoherentGain, r.ENBW, r.Bandwidth3dB, r.FirstNullBins, r.HighestSidelobedB, r.ScallopLossdB)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "backends:")
	for i, b := range fft.Backends() {
		suffix := ""
		if i == 0 {
			suffix = " (default)"
		}
		fmt.Fprintf(w, "  %s%s\n", b.Name(), suffix)
	}

	fmt.Fprintln(w, "modes:")
	for _, m := range []config.Mode{config.ModeAverage, config.ModePeak, config.ModeFrames, config.ModeJSON} {
		fmt.Fprintf(w, "  %s\n", m)
	}
	return nil
}
