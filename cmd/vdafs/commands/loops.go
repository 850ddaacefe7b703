package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tsawler/vdafs/export"
)

// LoopsOptions configures the loops command.
type LoopsOptions struct {
	commonOptions
	OutDir string
	CBOR   bool // also write FACE.cbor with every loop
	File   string
	Faces  []string
}

// RunLoops runs the loops command. Every boundary loop of each FACE is
// mapped into the surface parameter plane and written as FACE_loopN.csv.
func RunLoops(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("loops", flag.ContinueOnError)
	opts := LoopsOptions{}
	opts.register(fs)
	fs.StringVar(&opts.OutDir, "o", "", "Output directory [default: out_dir from config]")
	fs.BoolVar(&opts.CBOR, "cbor", false, "Also write all loops of a FACE as CBOR")
	if !parseFlags(fs, args, stderr) {
		return exitCommandError
	}
	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(stderr, "Error: need a file and at least one FACE name")
		printLoopsUsage(stderr)
		return exitCommandError
	}
	opts.File, opts.Faces = rest[0], rest[1:]

	e, err := setup(opts.commonOptions, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if opts.OutDir == "" {
		opts.OutDir = e.cfg.Export.OutDir
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	q := e.query(opts.File)
	code := exitSuccess
	for _, name := range opts.Faces {
		face, err := q.Face(name)
		if err != nil {
			e.log.Error("FACE failed", "entity", name, "error", err)
			code = exitCommandError
			continue
		}
		loops, warnings, err := q.Loops(name)
		if err != nil {
			e.log.Error("FACE failed", "entity", name, "error", err)
			code = exitCommandError
			continue
		}
		for _, w := range warnings {
			e.log.Warn("loop skipped", "entity", w.Entity, "error", w.Message)
			code = exitCommandError
		}

		info := export.LoopInfo{
			Face:    face.Name,
			Surface: face.SurfRef,
			Domain:  face.Surface.Domain(),
			Global:  e.cfg.Sampling.UVGlobal,
		}
		for i, pts := range loops {
			if pts == nil {
				continue
			}
			info.Loop = i + 1
			path := filepath.Join(opts.OutDir, export.LoopFileName(name, info.Loop))
			if err := writeFile(path, func(w io.Writer) error {
				return export.WriteLoopCSV(w, info, pts)
			}); err != nil {
				e.log.Error("write failed", "file", path, "error", err)
				code = exitCommandError
				continue
			}
			e.log.Debug("loop written", "entity", name, "loop", info.Loop, "points", len(pts))
			fmt.Fprintf(stdout, "Saved %s -> %s (%d points)\n", name, path, len(pts))
		}

		if opts.CBOR {
			path := filepath.Join(opts.OutDir, name+".cbor")
			dump := export.NewLoopDump(face, loops, e.cfg.Sampling.UVGlobal)
			if err := writeFile(path, func(w io.Writer) error {
				return export.WriteLoopsCBOR(w, dump)
			}); err != nil {
				e.log.Error("write failed", "file", path, "error", err)
				code = exitCommandError
				continue
			}
			fmt.Fprintf(stdout, "Saved %s -> %s\n", name, path)
		}
	}
	return code
}

// writeFile creates path and fills it with write
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printLoopsUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: vdafs loops [options] <file> <face>...

Options:
  -o         Output directory [default: out_dir from config]
  -cbor      Also write FACE.cbor with every loop
  -config    YAML configuration file
  -v         Verbose logging`)
}
