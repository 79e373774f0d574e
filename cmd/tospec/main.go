package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/neurlang/goenhance/audio"
	"github.com/neurlang/goenhance/config"
	"github.com/neurlang/goenhance/model"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	cfg := config.Default()
	var raw bool
	var reverse = true

	cmd := &cobra.Command{
		Use:           "tospec <audio_file>",
		Short:         "Write the compressed spectrogram of a recording as PNG",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, args[0], raw, reverse)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&raw, "raw", raw, "also write float16 magnitudes")
	f.BoolVar(&reverse, "reverse", reverse, "draw low frequencies at the bottom")
	f.IntVar(&cfg.CutLen, "cut-len", cfg.CutLen, "longest row, in samples")
	f.IntVar(&cfg.NFFT, "n-fft", cfg.NFFT, "STFT window length")
	f.IntVar(&cfg.Hop, "hop", cfg.Hop, "STFT hop size")
	f.Float64Var(&cfg.Exponent, "exponent", cfg.Exponent, "magnitude compression exponent")
	f.StringVar(&cfg.Window, "window", cfg.Window, "STFT window, hamming or hann")

	return cmd
}

func run(cfg config.Config, inputFile string, raw, reverse bool) error {
	e, err := cfg.Enhancer(model.Identity{})
	if err != nil {
		return err
	}

	noisy, err := audio.Load(inputFile)
	if err != nil {
		return err
	}
	if noisy.SampleRate != cfg.SampleRate {
		logrus.WithFields(logrus.Fields{
			"file":        inputFile,
			"sample_rate": noisy.SampleRate,
		}).Warn("Sample rate differs from the model rate")
	}

	spec, err := e.Spectrum(noisy.Samples)
	if err != nil {
		return err
	}

	for row := 0; row < spec.Rows; row++ {
		base := inputFile
		if spec.Rows > 1 {
			base = fmt.Sprintf("%s.%d", inputFile, row)
		}
		if err := spec.DumpPNG(base+".png", row, reverse); err != nil {
			return err
		}
		if raw {
			if err := dumpraw(base+".f16", spec.Image(row)); err != nil {
				return err
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"file":   inputFile,
		"rows":   spec.Rows,
		"frames": spec.Frames,
		"bins":   spec.Bins,
	}).Info("Spectrogram written")
	return nil
}

func dumpraw(name string, buf []uint16) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
