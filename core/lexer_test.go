package core

import (
	"math"
	"strings"
	"testing"
)

// TestParseNumber tests the numeric token forms
func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		wantType ParamType
		want     float64
	}{
		{"0", ParamInt, 0},
		{"-12", ParamInt, -12},
		{"+7", ParamInt, 7},
		{"1.5", ParamReal, 1.5},
		{"-.25", ParamReal, -0.25},
		{"3.", ParamReal, 3},
		{"1.0E+02", ParamReal, 100},
		{"1.0e-2", ParamReal, 0.01},
		{"2.5D+01", ParamReal, 25},
		{"0.123-04", ParamReal, 0.123e-4},
		{"0.5+1", ParamReal, 5},
		{"1 2.5", ParamReal, 12.5},
		{"99999999999999999999", ParamReal, 1e20},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParseNumber(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Type() != tt.wantType {
				t.Errorf("type = %s, want %s", p.Type(), tt.wantType)
			}
			got, _ := AsFloat(p)
			if math.Abs(got-tt.want) > 1e-12*math.Max(1, math.Abs(tt.want)) {
				t.Errorf("value = %g, want %g", got, tt.want)
			}
		})
	}
}

// TestParseNumberMalformed tests that malformed numbers are rejected
func TestParseNumberMalformed(t *testing.T) {
	for _, input := range []string{"", "1.2.3", "--1", "1E", "E5x", "0x10", "1.5E+", "1e999", "."} {
		t.Run(input, func(t *testing.T) {
			if p, err := ParseNumber(input); err == nil {
				t.Errorf("expected error, got %v", p)
			}
		})
	}
}

// TestParseParam tests token classification
func TestParseParam(t *testing.T) {
	tests := []struct {
		input string
		want  ParamType
	}{
		{"CV57", ParamName},
		{"SR85", ParamName},
		{"E", ParamName},
		{"'hello, world'", ParamText},
		{"12", ParamInt},
		{"1.25", ParamReal},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParseParam(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Type() != tt.want {
				t.Errorf("type = %s, want %s", p.Type(), tt.want)
			}
		})
	}
}

// TestTokenizeQuotedComma tests that commas inside text do not split tokens
func TestTokenizeQuotedComma(t *testing.T) {
	input := "T1 = TEXT / 'a, b', 2\nEND\n"
	m, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params := m.Entities[0].Params
	if len(params) != 2 {
		t.Fatalf("params = %d, want 2", len(params))
	}
	if params[0] != Text("a, b") {
		t.Errorf("text = %v, want 'a, b'", params[0])
	}
}

// TestLexerRecords tests record classification
func TestLexerRecords(t *testing.T) {
	input := "\n$$ comment\nCV1 = CURVE / 1,\n 2\nEND\n"
	lexer := NewLexer(strings.NewReader(input))
	want := []RecordType{RecordBlank, RecordComment, RecordStatement, RecordContinuation, RecordEnd, RecordEOF}
	for i, w := range want {
		rec, err := lexer.NextRecord()
		if err != nil {
			t.Fatalf("record %d: unexpected error: %v", i, err)
		}
		if rec.Type != w {
			t.Errorf("record %d type = %s, want %s", i, rec.Type, w)
		}
		if rec.Type == RecordStatement && (rec.Name != "CV1" || rec.Command != "CURVE") {
			t.Errorf("statement = %s/%s, want CV1/CURVE", rec.Name, rec.Command)
		}
	}
}

// TestLexerStatementFlags tests the slash and column 72 flags
func TestLexerStatementFlags(t *testing.T) {
	full := "P1 = POINT / 1., 2.," + strings.Repeat(" ", DataColumns-22) + "3."
	tests := []struct {
		line       string
		wantSlash  bool
		wantFilled bool
	}{
		{"P1 = POINT /", true, false},
		{"P1 = POINT", false, false},
		{full, true, true},
		{full + "00000001", true, true},
		{"P1 = POINT / 1." + strings.Repeat(" ", DataColumns) + "00000001", true, false},
	}
	for _, tt := range tests {
		rec, err := NewLexer(strings.NewReader(tt.line + "\n")).NextRecord()
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.line, err)
		}
		if rec.Type != RecordStatement {
			t.Fatalf("%q: type = %s, want Statement", tt.line, rec.Type)
		}
		if rec.Slash != tt.wantSlash || rec.Filled != tt.wantFilled {
			t.Errorf("%q: slash/filled = %v/%v, want %v/%v", tt.line, rec.Slash, rec.Filled, tt.wantSlash, tt.wantFilled)
		}
	}
}

// TestAsInt tests integral conversion of parameters
func TestAsInt(t *testing.T) {
	if n, ok := AsInt(Real(4)); !ok || n != 4 {
		t.Errorf("AsInt(4.0) = %d, %v", n, ok)
	}
	if _, ok := AsInt(Real(4.5)); ok {
		t.Errorf("AsInt(4.5) should fail")
	}
	if _, ok := AsInt(Name("CV1")); ok {
		t.Errorf("AsInt(CV1) should fail")
	}
}
