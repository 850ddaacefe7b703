package core

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DataColumns is the number of columns that carry data. Columns 73..80 hold
// sequence numbers and are ignored.
const DataColumns = 72

// RecordType represents the classification of one source line
type RecordType int

const (
	RecordEOF RecordType = iota
	RecordBlank
	RecordComment      // $$ ...
	RecordStatement    // NAME = COMMAND [/ params]
	RecordContinuation // more parameters of the current statement
	RecordEnd          // bare END terminator
)

// String returns the string representation of the record type
func (t RecordType) String() string {
	switch t {
	case RecordEOF:
		return "EOF"
	case RecordBlank:
		return "Blank"
	case RecordComment:
		return "Comment"
	case RecordStatement:
		return "Statement"
	case RecordContinuation:
		return "Continuation"
	case RecordEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// Record is one classified source line
type Record struct {
	Type RecordType
	Line int
	Data string // columns 1..72

	// Filled is set when column 72 holds a non-blank character. Such a line
	// may end inside a number that continues on the next line.
	Filled bool

	// Set for RecordStatement
	Name    string
	Command string
	Rest    string // text after the "/" on the statement line
	Slash   bool   // the statement line has a "/"
}

var statementPattern = regexp.MustCompile(`^\s*([A-Z][A-Z0-9]{0,7})\s*=\s*([A-Z]+)\s*(?:/(.*))?$`)

var namePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,7}$`)

// Lexer splits VDA-FS input into classified records
type Lexer struct {
	reader *bufio.Reader
	line   int
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
	}
}

// Line returns the number of the last line read
func (l *Lexer) Line() int {
	return l.line
}

// readLine reads one physical line without its terminator
func (l *Lexer) readLine() (string, error) {
	s, err := l.reader.ReadString('\n')
	if err == io.EOF && s == "" {
		return "", io.EOF
	}
	if err != nil && err != io.EOF {
		return "", err
	}
	l.line++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}

// NextRecord returns the next classified record. At end of input it returns
// a record of type RecordEOF.
func (l *Lexer) NextRecord() (*Record, error) {
	raw, err := l.readLine()
	if err == io.EOF {
		return &Record{Type: RecordEOF, Line: l.line}, nil
	}
	if err != nil {
		return nil, err
	}

	data := dataColumns(raw)
	rec := &Record{Line: l.line, Data: data, Filled: filled(data)}
	trimmed := strings.TrimSpace(data)

	switch {
	case trimmed == "":
		rec.Type = RecordBlank
	case strings.HasPrefix(trimmed, "$$"):
		rec.Type = RecordComment
	case strings.ToUpper(trimmed) == "END":
		rec.Type = RecordEnd
	default:
		if m := statementPattern.FindStringSubmatchIndex(data); m != nil {
			rec.Type = RecordStatement
			rec.Name = data[m[2]:m[3]]
			rec.Command = data[m[4]:m[5]]
			if m[6] >= 0 {
				rec.Slash = true
				rec.Rest = data[m[6]:m[7]]
			}
		} else {
			rec.Type = RecordContinuation
		}
	}
	return rec, nil
}

// RawLine returns the data columns of the next line without classifying it.
// It is used for the free-text records that follow a HEADER statement.
func (l *Lexer) RawLine() (string, error) {
	raw, err := l.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(dataColumns(raw), " \t"), nil
}

// dataColumns returns the first DataColumns characters of a line
func dataColumns(s string) string {
	if len(s) <= DataColumns {
		return s
	}
	if utf8.RuneCountInString(s) <= DataColumns {
		return s
	}
	n := 0
	for i := range s {
		if n == DataColumns {
			return s[:i]
		}
		n++
	}
	return s
}

// filled reports whether the data columns run through column 72 without
// trailing blanks
func filled(data string) bool {
	if utf8.RuneCountInString(data) < DataColumns {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(data)
	return last != ' ' && last != '\t'
}

// fragment is the part of a statement's parameter text contributed by one line
type fragment struct {
	line   int
	offset int // offset into the merged parameter text
}

// paramText accumulates the parameter text of a statement across lines
type paramText struct {
	text  strings.Builder
	frags []fragment

	pending bool // a "/" was seen but no parameters yet
	split   bool // the last line filled column 72 without a separator
}

// add appends the text of one line. Lines are joined without a separator,
// so a number cut at column 72 is rejoined with its remainder. filled
// tells whether the line reached column 72.
func (p *paramText) add(line int, s string, filled bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	p.frags = append(p.frags, fragment{line: line, offset: p.text.Len()})
	p.text.WriteString(s)
	p.pending = false
	p.split = filled && !strings.HasSuffix(s, ",")
}

// lineAt maps an offset in the merged text back to its source line
func (p *paramText) lineAt(offset int) int {
	line := 0
	for _, f := range p.frags {
		if f.offset > offset {
			break
		}
		line = f.line
	}
	return line
}

// open reports whether more parameters must follow on a continuation line:
// the text ends in a comma or nothing followed the "/"
func (p *paramText) open() bool {
	return p.pending || strings.HasSuffix(p.text.String(), ",")
}

// continues reports whether a continuation line belongs to the text. Besides
// open text this accepts text whose last line was cut at column 72.
func (p *paramText) continues() bool {
	return p.open() || p.split
}

// tokenize splits the merged parameter text on commas and converts every
// token to a Param
func (p *paramText) tokenize() ([]Param, error) {
	s := p.text.String()
	if s == "" {
		return nil, nil
	}

	var params []Param
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ',' {
			if s[i] == '\'' {
				// Quoted text may contain commas
				end := strings.IndexByte(s[i+1:], '\'')
				if end < 0 {
					return nil, &ParseError{Line: p.lineAt(i), Reason: "unterminated text parameter"}
				}
				i += end + 1
			}
			continue
		}
		tok := strings.TrimSpace(s[start:i])
		if tok == "" {
			return nil, &ParseError{Line: p.lineAt(start), Reason: "empty parameter"}
		}
		param, err := ParseParam(tok)
		if err != nil {
			return nil, &ParseError{Line: p.lineAt(start), Reason: err.Error()}
		}
		params = append(params, param)
		start = i + 1
	}
	return params, nil
}

// ParseParam converts a single token into a Param. Entity names become Name,
// quoted strings become Text, everything else must be a valid number.
func ParseParam(tok string) (Param, error) {
	if strings.HasPrefix(tok, "'") {
		if len(tok) < 2 || !strings.HasSuffix(tok, "'") {
			return nil, fmt.Errorf("malformed text parameter %q", tok)
		}
		return Text(tok[1 : len(tok)-1]), nil
	}
	if namePattern.MatchString(tok) {
		return Name(tok), nil
	}
	return ParseNumber(tok)
}

var (
	intPattern    = regexp.MustCompile(`^[+-]?\d+$`)
	numberPattern = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+))(?:([EeDd])([+-]?\d+)|([+-]\d+))?$`)
)

// ParseNumber parses a numeric token. Interior blanks left over from fixed
// columns are removed. Besides plain integers and reals it accepts the D
// exponent marker and the packed legacy form without a marker
// ("0.123-04" is 0.123E-04).
func ParseNumber(tok string) (Param, error) {
	s := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, tok)

	if intPattern.MatchString(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return Int(n), nil
		}
		// Too large for an integer; fall through to real
	}

	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("malformed number %q", tok)
	}

	norm := m[1]
	switch {
	case m[2] != "":
		norm += "E" + m[3]
	case m[4] != "":
		norm += "E" + m[4]
	}

	f, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed number %q", tok)
	}
	return Real(f), nil
}
