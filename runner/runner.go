// Package runner enhances every recording of a directory.
//
// Files are visited in natural order (2.wav before 10.wav). A file that
// fails to load or enhance is logged and recorded in its Result; the run
// goes on with the next one.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/facette/natsort"
	"github.com/neurlang/goenhance/audio"
	"github.com/neurlang/goenhance/enhance"
	"github.com/sirupsen/logrus"
)

// Result is the outcome for one file.
type Result struct {
	Name   string
	Length int
	Err    error
}

// Runner enhances directories with one shared Enhancer.
type Runner struct {
	Enhancer *enhance.Enhancer

	// SaveTracks writes every enhanced file to SaveDir under its
	// original name, as WAV.
	SaveTracks bool
	SaveDir    string

	// Workers is the number of files processed at once.
	Workers int

	Log logrus.FieldLogger
}

// New creates a new Runner processing one file at a time.
func New(e *enhance.Enhancer, log logrus.FieldLogger) *Runner {
	return &Runner{
		Enhancer: e,
		Workers:  1,
		Log:      log,
	}
}

// List returns the decodable files of dir in natural order.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && audio.Supported(e.Name()) {
			names = append(names, e.Name())
		}
	}
	natsort.Sort(names)
	return names, nil
}

// Run enhances every file of dir. Per-file failures are reported in the
// results; the error is only set when dir cannot be listed, the save
// directory cannot be created, or ctx ends the run early. Files not yet
// started when ctx is done are left out of the results.
func (r *Runner) Run(ctx context.Context, dir string) ([]Result, error) {
	names, err := List(dir)
	if err != nil {
		return nil, err
	}
	if r.SaveTracks {
		if err := os.MkdirAll(r.SaveDir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", r.SaveDir, err)
		}
	}

	r.logger().WithFields(logrus.Fields{
		"function": "Run",
		"dir":      dir,
		"files":    len(names),
		"workers":  r.Workers,
	}).Info("Enhancing directory")

	results := make([]Result, len(names))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < max(1, r.Workers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.process(filepath.Join(dir, names[i]))
			}
		}()
	}

	var fed int
feed:
	for fed < len(names) && ctx.Err() == nil {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- fed:
			fed++
		}
	}
	close(jobs)
	wg.Wait()

	return results[:fed], ctx.Err()
}

func (r *Runner) process(path string) Result {
	name := filepath.Base(path)
	log := r.logger().WithFields(logrus.Fields{
		"function": "process",
		"file":     name,
	})

	out, length, err := r.EnhanceFile(path)
	if err != nil {
		log.WithError(err).Error("Failed to enhance file")
		return Result{Name: name, Err: err}
	}

	log.WithFields(logrus.Fields{
		"length":   length,
		"duration": out.Duration().String(),
	}).Info("File enhanced")
	return Result{Name: name, Length: length}
}

// EnhanceFile loads one recording, enhances it and saves it when
// SaveTracks is set. It returns the enhanced signal and its length.
func (r *Runner) EnhanceFile(path string) (audio.Signal, int, error) {
	noisy, err := audio.Load(path)
	if err != nil {
		return audio.Signal{}, 0, err
	}

	est, err := r.Enhancer.EnhanceSignal(noisy)
	if err != nil {
		return audio.Signal{}, 0, fmt.Errorf("enhance %s: %w", path, err)
	}

	if r.SaveTracks {
		if err := audio.SaveWav(SavePath(r.SaveDir, path), est); err != nil {
			return audio.Signal{}, 0, err
		}
	}
	return est, est.Len(), nil
}

// SavePath returns where the enhanced version of path is written: the
// same file name under dir, with a .wav extension for other formats.
func SavePath(dir, path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); !strings.EqualFold(ext, ".wav") {
		name = strings.TrimSuffix(name, ext) + ".wav"
	}
	return filepath.Join(dir, name)
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}
