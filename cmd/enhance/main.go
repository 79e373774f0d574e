package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/neurlang/goenhance/config"
	"github.com/neurlang/goenhance/model"
	"github.com/neurlang/goenhance/runner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	logLevel   string
	logJSON    bool
	dryRun     bool
	flags      config.Config
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := &options{flags: config.Default()}

	cmd := &cobra.Command{
		Use:           "enhance",
		Short:         "Enhance noisy speech recordings",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level")
	f.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")
	f.BoolVar(&opts.dryRun, "dry-run", false, "skip the model and pass spectra through unchanged")

	c := &opts.flags
	f.StringVar(&c.ModelPath, "model-path", c.ModelPath, "the path where the model is saved")
	f.StringVar(&c.TestDir, "test-dir", c.TestDir, "dataset dir, noisy tracks are read from its noisy subdir")
	f.StringVar(&c.NoisyDir, "noisy-dir", c.NoisyDir, "noisy tracks dir to be enhanced, overrides --test-dir")
	f.StringVar(&c.SaveDir, "save-dir", c.SaveDir, "where enhanced tracks are saved")
	f.BoolVar(&c.SaveTracks, "save-tracks", c.SaveTracks, "save enhanced tracks or not")
	f.IntVar(&c.CutLen, "cut-len", c.CutLen, "longest row given to the model, in samples")
	f.IntVar(&c.NFFT, "n-fft", c.NFFT, "STFT window length")
	f.IntVar(&c.Hop, "hop", c.Hop, "STFT hop size")
	f.Float64Var(&c.Exponent, "exponent", c.Exponent, "magnitude compression exponent")
	f.StringVar(&c.Window, "window", c.Window, "STFT window, hamming or hann")
	f.StringVar((*string)(&c.Silence), "silence", string(c.Silence), "silent files: identity or reject")
	f.BoolVar(&c.UseCUDA, "use-cuda", c.UseCUDA, "run the model on CUDA")
	f.IntVar(&c.Workers, "workers", c.Workers, "files processed at once")
	f.StringVar(&c.ONNX.LibraryPath, "onnx-lib", c.ONNX.LibraryPath, "onnxruntime shared library")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	log := logrus.New()
	level, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if opts.logJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	override(cmd, &cfg, &opts.flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var m model.Adapter = model.Identity{}
	if !opts.dryRun {
		onnx, err := model.NewONNX(cfg.ModelConfig(), log)
		if err != nil {
			return err
		}
		defer onnx.Close()
		m = onnx
	}

	e, err := cfg.Enhancer(m)
	if err != nil {
		return err
	}
	e.Log = log

	r := runner.New(e, log)
	r.SaveTracks = cfg.SaveTracks
	r.SaveDir = cfg.SaveDir
	r.Workers = cfg.Workers

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := r.Run(ctx, cfg.InputDir())
	if err != nil {
		return err
	}
	report(log, results, cfg.SampleRate)
	return nil
}

// override copies every flag given on the command line over cfg.
func override(cmd *cobra.Command, cfg, flags *config.Config) {
	set := map[string]func(){
		"model-path":  func() { cfg.ModelPath = flags.ModelPath },
		"test-dir":    func() { cfg.TestDir = flags.TestDir },
		"noisy-dir":   func() { cfg.NoisyDir = flags.NoisyDir },
		"save-dir":    func() { cfg.SaveDir = flags.SaveDir },
		"save-tracks": func() { cfg.SaveTracks = flags.SaveTracks },
		"cut-len":     func() { cfg.CutLen = flags.CutLen },
		"n-fft":       func() { cfg.NFFT = flags.NFFT },
		"hop":         func() { cfg.Hop = flags.Hop },
		"exponent":    func() { cfg.Exponent = flags.Exponent },
		"window":      func() { cfg.Window = flags.Window },
		"silence":     func() { cfg.Silence = flags.Silence },
		"use-cuda":    func() { cfg.UseCUDA = flags.UseCUDA },
		"workers":     func() { cfg.Workers = flags.Workers },
		"onnx-lib":    func() { cfg.ONNX.LibraryPath = flags.ONNX.LibraryPath },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
}

func report(log logrus.FieldLogger, results []runner.Result, sampleRate int) {
	var failed, samples int
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		samples += r.Length
	}
	log.WithFields(logrus.Fields{
		"files":   len(results),
		"failed":  failed,
		"seconds": float64(samples) / float64(sampleRate),
	}).Info("Done")
}
