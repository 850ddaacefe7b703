// Package commands implements the subcommands of the vdafs tool.
package commands

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/vdafs"
	"github.com/tsawler/vdafs/config"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitFindings     = 2
)

// commonOptions are accepted by every subcommand
type commonOptions struct {
	ConfigPath string
	Verbose    bool
}

func (o *commonOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config", "", "YAML configuration file")
	fs.BoolVar(&o.Verbose, "v", false, "Verbose logging")
}

// env is what a subcommand runs with once its flags are parsed
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// setup loads the configuration and builds the logger
func setup(o commonOptions, stdout, stderr io.Writer) (*env, error) {
	cfg := config.Defaults()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(o.ConfigPath); err != nil {
			return nil, err
		}
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return &env{cfg: cfg, log: logger, stdout: stdout, stderr: stderr}, nil
}

// query opens path with the configured sampling settings
func (e *env) query(path string) *vdafs.Query {
	s := e.cfg.Sampling
	q := vdafs.Open(path).
		Parameterization(e.cfg.Param()).
		CurveSamples(s.CurveSamples).
		IsoLines(s.IsoLines).
		LineSamples(s.LineSamples).
		LoopSamples(s.LoopSamples).
		Tolerance(s.Tolerance).
		GapTolerance(s.GapTolerance)
	if s.UVGlobal {
		q = q.UVGlobal()
	}
	return q
}

// forEachFile runs fn for every file, at most cfg.Workers at a time. Output
// written by fn is buffered and copied to stdout in argument order. It
// returns the number of files for which fn or the copy failed.
func (e *env) forEachFile(files []string, fn func(path string, out io.Writer) error) int {
	outputs := make([]bytes.Buffer, len(files))
	errs := make([]error, len(files))

	var eg errgroup.Group
	eg.SetLimit(e.cfg.Workers)
	for i, path := range files {
		i, path := i, path
		eg.Go(func() error {
			e.log.Debug("processing file", "file", path)
			errs[i] = fn(path, &outputs[i])
			return nil
		})
	}
	_ = eg.Wait()

	failed := 0
	for i := range files {
		if _, err := io.Copy(e.stdout, &outputs[i]); err != nil && errs[i] == nil {
			errs[i] = fmt.Errorf("failed to write output: %w", err)
		}
		if errs[i] != nil {
			e.log.Error("file failed", "file", files[i], "error", errs[i])
			failed++
		}
	}
	return failed
}

// parseFlags parses args, reporting errors the way every command does
func parseFlags(fs *flag.FlagSet, args []string, stderr io.Writer) bool {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return false
	}
	return true
}
