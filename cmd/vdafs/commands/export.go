package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/tsawler/vdafs/export"
)

// RunExportFaces runs the export-faces command. Each FACE is written with
// its dependencies to <dir>/FACE.vda.
func RunExportFaces(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("export-faces", flag.ContinueOnError)
	var common commonOptions
	common.register(fs)
	var outDir string
	fs.StringVar(&outDir, "o", "", "Output directory [default: out_dir from config]")
	if !parseFlags(fs, args, stderr) {
		return exitCommandError
	}
	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(stderr, "Error: need a file and at least one FACE name")
		printExportUsage(stderr)
		return exitCommandError
	}
	file, faces := rest[0], rest[1:]

	e, err := setup(common, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if outDir == "" {
		outDir = e.cfg.Export.OutDir
	}
	r, err := e.query(file).Reader()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	code := exitSuccess
	for _, face := range faces {
		path, err := export.ExportFace(outDir, r, face)
		if err != nil {
			e.log.Error("export failed", "entity", face, "error", err)
			code = exitCommandError
			continue
		}
		fmt.Fprintf(stdout, "Saved %s -> %s\n", face, path)
	}
	return code
}

func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: vdafs export-faces [options] <file> <face>...

Options:
  -o         Output directory [default: out_dir from config]
  -config    YAML configuration file
  -v         Verbose logging`)
}
