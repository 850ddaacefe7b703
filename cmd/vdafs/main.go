// vdafs is a command-line tool for inspecting VDA-FS files: listing and
// decoding entities, plotting geometry, mapping FACE loops and exporting
// FACEs with their dependencies.
package main

import (
	"fmt"
	"os"

	"github.com/tsawler/vdafs/cmd/vdafs/commands"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "list":
		exitCode = commands.RunList(args, os.Stdout, os.Stderr)
	case "show":
		exitCode = commands.RunShow(args, os.Stdout, os.Stderr)
	case "plot":
		exitCode = commands.RunPlot(args, os.Stdout, os.Stderr)
	case "plot-csv":
		exitCode = commands.RunPlotCSV(args, os.Stdout, os.Stderr)
	case "loops":
		exitCode = commands.RunLoops(args, os.Stdout, os.Stderr)
	case "export-faces":
		exitCode = commands.RunExportFaces(args, os.Stdout, os.Stderr)
	case "check":
		exitCode = commands.RunCheck(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "--version":
		fmt.Println("vdafs version 0.1.0")
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`vdafs - VDA-FS inspection tool

Usage:
  vdafs <command> [options] <file> [names...]

Commands:
  list          List entity names grouped by type
  show          Print the decoded data of entities
  plot          Plot curves, surfaces, points, CONS or FACE loops to PNG
  plot-csv      Plot loop CSV files to PNG
  loops         Write the (s,t) boundary loops of FACEs as CSV
  export-faces  Write each FACE with its dependencies to its own file
  check         Report curve gaps, surface seams and decode failures

Options:
  -h, --help     Show this help message
  --version      Show version information

Examples:
  vdafs list -type FACE part.vda
  vdafs show part.vda CV1 SR1
  vdafs plot -projection iso part.vda SR1 CV1
  vdafs loops -o out part.vda FA1
  vdafs plot-csv -o fa1.png 'out/FA1_loop*.csv'
  vdafs export-faces -o faces part.vda FA1 FA2
  vdafs check -config vdafs.yaml *.vda`)
}
