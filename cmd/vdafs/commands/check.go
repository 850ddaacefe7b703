package commands

import (
	"flag"
	"fmt"
	"io"
	"sync/atomic"
)

// RunCheck runs the check command. It exits with 2 when any file has
// curve gaps, surface seams or entities that fail to decode.
func RunCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	var common commonOptions
	common.register(fs)
	var quiet bool
	fs.BoolVar(&quiet, "q", false, "Print only the summary line of each file")
	if !parseFlags(fs, args, stderr) {
		return exitCommandError
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printCheckUsage(stderr)
		return exitCommandError
	}

	e, err := setup(common, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	var findings atomic.Int64
	failed := e.forEachFile(files, func(path string, out io.Writer) error {
		warnings, err := e.query(path).Check()
		if err != nil {
			return err
		}
		if len(warnings) == 0 {
			fmt.Fprintf(out, "%s: OK\n", path)
			return nil
		}
		findings.Add(int64(len(warnings)))
		fmt.Fprintf(out, "%s: %d warning(s)\n", path, len(warnings))
		if !quiet {
			for _, w := range warnings {
				fmt.Fprintf(out, "  %s\n", w)
			}
		}
		for _, w := range warnings {
			e.log.Debug("finding", "file", path, "entity", w.Entity, "type", w.Type.String(), "distance", w.Distance)
		}
		return nil
	})

	switch {
	case failed > 0:
		return exitCommandError
	case findings.Load() > 0:
		return exitFindings
	}
	return exitSuccess
}

func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: vdafs check [options] <file>...

Options:
  -q         Print only the summary line of each file
  -config    YAML configuration file
  -v         Verbose logging`)
}
