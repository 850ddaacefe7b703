package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// listWidth is the line width of wrapped name lists
const listWidth = 100

// ListOptions configures the list command.
type ListOptions struct {
	commonOptions
	Type  string // command word, or ALL
	Files []string
}

// RunList runs the list command.
func RunList(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	opts := ListOptions{}
	opts.register(fs)
	fs.StringVar(&opts.Type, "type", "ALL", "Entity type to list (CURVE, SURF, ...), or ALL")
	if !parseFlags(fs, args, stderr) {
		return exitCommandError
	}
	opts.Files = fs.Args()
	opts.Type = strings.ToUpper(strings.TrimSpace(opts.Type))

	if len(opts.Files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printListUsage(stderr)
		return exitCommandError
	}

	e, err := setup(opts.commonOptions, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	failed := e.forEachFile(opts.Files, func(path string, out io.Writer) error {
		r, err := e.query(path).Reader()
		if err != nil {
			return err
		}
		if len(opts.Files) > 1 {
			fmt.Fprintf(out, "== %s ==\n", path)
		}

		order, groups := r.Index().Commands()
		if opts.Type != "ALL" {
			printGroup(out, opts.Type, groups[opts.Type])
			return nil
		}

		if h := r.Header(); h != nil {
			fmt.Fprintf(out, "HEADER: %d lines\n", len(h.Lines))
		}
		for _, cmd := range order {
			printGroup(out, cmd, groups[cmd])
		}
		return nil
	})
	if failed > 0 {
		return exitCommandError
	}
	return exitSuccess
}

// printGroup prints "CMD (n):" followed by the wrapped names
func printGroup(w io.Writer, cmd string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(w, "%s: (none)\n", cmd)
		return
	}
	fmt.Fprintf(w, "%s (%d):\n", cmd, len(names))
	for _, line := range wrapNames(names, listWidth, "  ") {
		fmt.Fprintln(w, line)
	}
}

// wrapNames joins names with ", " into indented lines of at most width
// characters; a single long name still gets its own line
func wrapNames(names []string, width int, indent string) []string {
	var lines []string
	line := indent
	for i, name := range names {
		item := name
		if i < len(names)-1 {
			item += ","
		}
		switch {
		case line == indent:
			line += item
		case len(line)+1+len(item) > width:
			lines = append(lines, line)
			line = indent + item
		default:
			line += " " + item
		}
	}
	return append(lines, line)
}

func printListUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: vdafs list [options] <file>...

Options:
  -type      Entity type to list (CURVE, SURF, CONS, FACE, ...) [default: ALL]
  -config    YAML configuration file
  -v         Verbose logging`)
}
