package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/reader"
)

// continuationIndent starts every continuation line of a wrapped statement
const continuationIndent = "      "

// sectionOrder is the order of entity kinds in an exported file
var sectionOrder = []core.Kind{core.KindCurve, core.KindSurf, core.KindCons}

// FaceFileName returns the file name used for an exported FACE
func FaceFileName(face string) string {
	return face + ".vda"
}

// WriteFaceFile writes a minimal VDA-FS file holding the given FACEs and
// every entity they depend on: the source header, then CURVE, SURF and CONS
// entities sorted by name, then the FACEs in argument order, then END.
// Statements keep their original parameter text and are wrapped after
// commas so that no line exceeds 72 columns. Output is ISO 8859-1.
func WriteFaceFile(w io.Writer, r *reader.Reader, faces ...string) error {
	if len(faces) == 0 {
		return fmt.Errorf("no FACE to export")
	}
	res := r.Resolver()
	for _, name := range faces {
		e, err := res.Entity(name)
		if err != nil {
			return err
		}
		if err := core.CheckKind(e, core.KindFace); err != nil {
			return err
		}
	}

	deps, err := res.DependencyClosure(faces...)
	if err != nil {
		return fmt.Errorf("failed to collect dependencies: %w", err)
	}

	byKind := make(map[core.Kind][]*core.Entity)
	for _, name := range deps {
		e, _ := res.Entity(name)
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}

	var ordered []*core.Entity
	for _, kind := range sectionOrder {
		section := byKind[kind]
		sort.Slice(section, func(i, j int) bool { return section[i].Name < section[j].Name })
		ordered = append(ordered, section...)
	}
	seen := make(map[string]bool)
	for _, name := range faces {
		if seen[name] {
			continue
		}
		seen[name] = true
		e, _ := res.Entity(name)
		ordered = append(ordered, e)
	}

	enc := transform.NewWriter(w, charmap.ISO8859_1.NewEncoder())
	bw := bufio.NewWriter(enc)

	if h := r.Header(); h != nil {
		fmt.Fprintf(bw, "%s = HEADER / %d\n", h.Name, len(h.Lines))
		for _, line := range h.Lines {
			fmt.Fprintln(bw, line)
		}
	}
	for _, e := range ordered {
		for _, line := range WrapStatement(e.Raw) {
			fmt.Fprintln(bw, line)
		}
	}
	fmt.Fprintln(bw, "END")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write VDA-FS: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to write VDA-FS: %w", err)
	}
	return nil
}

// ExportFace writes one FACE with its dependencies to dir/FACE.vda and
// returns the path
func ExportFace(dir string, r *reader.Reader, face string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, FaceFileName(face))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteFaceFile(f, r, face); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// WrapStatement splits merged statement text ("NAME = CMD / p1,p2,...") into
// lines of at most 72 columns. Lines are broken only after a comma, so every
// line but the last ends in a separator.
func WrapStatement(raw string) []string {
	head, rest, ok := strings.Cut(raw, "/")
	head = strings.TrimSpace(head)
	params := splitParams(rest)
	if !ok || len(params) == 0 {
		return []string{head}
	}

	var lines []string
	line := head + " / " + params[0]
	for _, tok := range params[1:] {
		// Keep one column free for the trailing comma of a broken line
		if utf8.RuneCountInString(line)+2+utf8.RuneCountInString(tok) >= core.DataColumns {
			lines = append(lines, line+",")
			line = continuationIndent + tok
			continue
		}
		line += ", " + tok
	}
	return append(lines, line)
}

// splitParams splits parameter text on commas outside quoted text
func splitParams(s string) []string {
	var out []string
	start := 0
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			quoted = !quoted
		case ',':
			if !quoted {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" || len(out) > 0 {
		out = append(out, last)
	}
	return out
}
