package core

import (
	"errors"
	"strings"
	"testing"
)

const sampleFile = `HD       = HEADER / 3
SENDERFIRMA      : TEST
VDAFS VERSION    : 2.0
ERZEUGUNGSDATUM  : 2024-01-01
$$ curves
CV1      = CURVE / 1, 0., 1.,
           2, 0., 1., 0., 0., 0., 0.
P1       = POINT / 1.5, 2.5, 3.5
TM1      = TMAT / 1., 0., 0.
CN1      = CONS / SR1, CV1, 0., 1.
EE       = END
`

// TestParseSample tests parsing a small complete file
func TestParseSample(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Header == nil {
		t.Fatal("expected header")
	}
	if m.Header.Declared != 3 || len(m.Header.Lines) != 3 {
		t.Errorf("header records = %d/%d, want 3/3", m.Header.Declared, len(m.Header.Lines))
	}
	if m.Version != Version2 {
		t.Errorf("version = %s, want 2.0", m.Version)
	}

	wantNames := []string{"CV1", "P1", "TM1", "CN1"}
	if m.Len() != len(wantNames) {
		t.Fatalf("entities = %d, want %d", m.Len(), len(wantNames))
	}
	for i, name := range wantNames {
		if m.Entities[i].Name != name {
			t.Errorf("entity %d = %s, want %s", i, m.Entities[i].Name, name)
		}
	}

	cv := m.Entities[0]
	if cv.Kind != KindCurve {
		t.Errorf("CV1 kind = %s, want CURVE", cv.Kind)
	}
	if len(cv.Params) != 10 {
		t.Errorf("CV1 params = %d, want 10", len(cv.Params))
	}
	if cv.Line != 6 || cv.EndLine != 7 {
		t.Errorf("CV1 lines = %d-%d, want 6-7", cv.Line, cv.EndLine)
	}

	if m.Entities[2].Kind != KindUnknown || m.Entities[2].Command != "TMAT" {
		t.Errorf("TM1 = %s/%s, want UNKNOWN/TMAT", m.Entities[2].Kind, m.Entities[2].Command)
	}

	refs := m.Entities[3].Params
	if n, ok := AsName(refs[0]); !ok || n != "SR1" {
		t.Errorf("CN1 first param = %v, want SR1", refs[0])
	}
}

// TestParseVersion1Keywords tests that CONS and FACE are unknown kinds in 1.0 files
func TestParseVersion1Keywords(t *testing.T) {
	input := "HD = HEADER / 1\nVDAFS VERSION : 1.0\nCN1 = CONS / SR1, CV1, 0., 1.\nEND\n"
	m, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Version != Version1 {
		t.Errorf("version = %s, want 1.0", m.Version)
	}
	if m.Entities[0].Kind != KindUnknown {
		t.Errorf("CONS kind in 1.0 = %s, want UNKNOWN", m.Entities[0].Kind)
	}
}

// TestParseSequenceColumns tests that columns 73..80 are ignored
func TestParseSequenceColumns(t *testing.T) {
	line1 := "P1 = POINT / 1., 2.,"
	line2 := "  3."
	pad := func(s, seq string) string {
		return s + strings.Repeat(" ", DataColumns-len(s)) + seq
	}
	input := pad(line1, "00000001") + "\n" + pad(line2, "00000002") + "\n" + pad("END", "00000003") + "\n"

	m, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(m.Entities[0].Params); got != 3 {
		t.Fatalf("params = %d, want 3", got)
	}
	if f, _ := AsFloat(m.Entities[0].Params[2]); f != 3 {
		t.Errorf("z = %g, want 3", f)
	}
}

// TestParseSplitNumber tests a number cut at column 72 and continued on the
// next line
func TestParseSplitNumber(t *testing.T) {
	// fill pads head so that tail ends exactly at column 72
	fill := func(head, tail string) string {
		return head + strings.Repeat(" ", DataColumns-len(head)-len(tail)) + tail
	}
	line1 := fill("P1 = POINT / 1.25, 2.5,", "0.12")

	tests := []struct {
		name  string
		input string
	}{
		{"bare lines", line1 + "\n  34\nEND\n"},
		{"sequence numbers", line1 + "00000001\n  34" + strings.Repeat(" ", DataColumns-4) + "00000002\nEND\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			e := m.Entities[0]
			if len(e.Params) != 3 {
				t.Fatalf("params = %d, want 3", len(e.Params))
			}
			if f, _ := AsFloat(e.Params[2]); f != 0.1234 {
				t.Errorf("z = %g, want 0.1234", f)
			}
			if e.EndLine != 2 {
				t.Errorf("end line = %d, want 2", e.EndLine)
			}
		})
	}
}

// TestParseFilledLineThenStatement tests that a statement filling column 72
// still ends when the next line starts a new statement
func TestParseFilledLineThenStatement(t *testing.T) {
	line1 := "P1 = POINT / 1., 2.,"
	line1 += strings.Repeat(" ", DataColumns-len(line1)-2) + "3."
	input := line1 + "\nP2 = POINT / 4., 5., 6.\nEND\n"

	m, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Entities) != 2 {
		t.Fatalf("entities = %d, want 2", len(m.Entities))
	}
	if f, _ := AsFloat(m.Entities[0].Params[2]); f != 3 {
		t.Errorf("z = %g, want 3", f)
	}
}

// TestParseParametersOnNextLine tests a statement line that ends at the "/"
func TestParseParametersOnNextLine(t *testing.T) {
	m, err := Parse(strings.NewReader("P1 = POINT /\n  1., 2., 3.\nEND\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := m.Entities[0]
	if len(e.Params) != 3 {
		t.Fatalf("params = %d, want 3", len(e.Params))
	}
	if e.Line != 1 || e.EndLine != 2 {
		t.Errorf("lines = %d..%d, want 1..2", e.Line, e.EndLine)
	}
	if f, _ := AsFloat(e.Params[0]); f != 1 {
		t.Errorf("x = %g, want 1", f)
	}
}

// TestParseErrors tests the fatal error cases
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		reason   string
	}{
		{"missing END", "P1 = POINT / 1., 2., 3.\n", 1, "missing END"},
		{"open statement at EOF", "P1 = POINT / 1., 2.,\n", 1, "incomplete"},
		{"open statement before next", "P1 = POINT / 1., 2.,\nP2 = POINT / 1., 2., 3.\nEND\n", 2, "incomplete"},
		{"stray continuation", "P1 = POINT / 1., 2., 3.\n 4., 5.\nEND\n", 2, "unexpected continuation"},
		{"slash without parameters", "P1 = POINT /\nEND\n", 2, "incomplete"},
		{"malformed number", "P1 = POINT / 1., 2.x5, 3.\nEND\n", 1, "malformed number"},
		{"malformed number on continuation", "P1 = POINT / 1.,\n 2.x5, 3.\nEND\n", 2, "malformed number"},
		{"empty parameter", "P1 = POINT / 1.,, 3.\nEND\n", 1, "empty parameter"},
		{"unsupported version", "HD = HEADER / 1\nVDAFS VERSION : 3.0\nEND\n", 2, "unsupported"},
		{"truncated header", "HD = HEADER / 5\nline\n", 2, "HEADER declares"},
		{"header after entity", "P1 = POINT / 1., 2., 3.\nHD = HEADER / 0\nEND\n", 2, "precede"},
		{"bad header count", "HD = HEADER / x\nEND\n", 1, "record count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("expected error, got model with %d entities", m.Len())
			}
			if m != nil {
				t.Errorf("expected no partial model")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("line = %d, want %d (%v)", pe.Line, tt.wantLine, err)
			}
			if !strings.Contains(pe.Reason, tt.reason) {
				t.Errorf("reason = %q, want it to contain %q", pe.Reason, tt.reason)
			}
		})
	}
}

// TestParseBareEnd tests that text after END is ignored
func TestParseBareEnd(t *testing.T) {
	input := "P1 = POINT / 1., 2., 3.\nEND\ngarbage that is never read\n"
	m, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("entities = %d, want 1", m.Len())
	}
	if m.Header != nil {
		t.Errorf("expected no header")
	}
}

// TestParseRaw tests the merged statement text
func TestParseRaw(t *testing.T) {
	input := "CV1      = CURVE / 1, 0., 1.,\n    2, 0., 1.\nEND\n"
	m, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "CV1      = CURVE / 1, 0., 1.,2, 0., 1."
	if got := m.Entities[0].Raw; got != want {
		t.Errorf("Raw = %q, want %q", got, want)
	}
}
