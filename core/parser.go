package core

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var versionPattern = regexp.MustCompile(`(?i)VDA-?FS\s+VERSION\s*:\s*(\d+)\s*\.\s*(\d+)`)

// statement is an entity statement that is still collecting parameters
type statement struct {
	name    string
	command string
	line    int
	endLine int
	head    string // "NAME = COMMAND" as written
	params  paramText
}

// Parser turns VDA-FS text into a Model.
//
// The grammar is HEADER? (STATEMENT CONTINUATION*)* END. A statement whose
// data ends with a comma or a bare "/" continues on the next data line, and
// so may one whose last line fills column 72; any other statement is
// complete. The first malformed construct aborts the parse.
type Parser struct {
	lexer   *Lexer
	model   *Model
	pending *statement
}

// NewParser creates a new VDA-FS parser for the given reader
func NewParser(r io.Reader) *Parser {
	return &Parser{
		lexer: NewLexer(r),
	}
}

// Parse is a convenience wrapper around NewParser(r).Parse()
func Parse(r io.Reader) (*Model, error) {
	return NewParser(r).Parse()
}

// Parse reads the whole input and returns the entity table
func (p *Parser) Parse() (*Model, error) {
	p.model = &Model{Version: Version2}
	p.pending = nil

	for {
		rec, err := p.lexer.NextRecord()
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", p.lexer.Line()+1, err)
		}

		switch rec.Type {
		case RecordEOF:
			if p.pending != nil && p.pending.params.open() {
				return nil, &ParseError{Line: p.pending.endLine, Reason: fmt.Sprintf("statement %s incomplete at end of input", p.pending.name)}
			}
			return nil, &ParseError{Line: rec.Line, Reason: "missing END"}

		case RecordBlank, RecordComment:
			continue

		case RecordEnd:
			if err := p.flush(rec.Line); err != nil {
				return nil, err
			}
			return p.model, nil

		case RecordContinuation:
			if p.pending == nil || !p.pending.params.continues() {
				return nil, &ParseError{Line: rec.Line, Reason: "unexpected continuation line"}
			}
			p.pending.params.add(rec.Line, rec.Data, rec.Filled)
			p.pending.endLine = rec.Line

		case RecordStatement:
			if err := p.flush(rec.Line); err != nil {
				return nil, err
			}

			switch rec.Command {
			case "END":
				return p.model, nil
			case "HEADER":
				if err := p.parseHeader(rec); err != nil {
					return nil, err
				}
				continue
			}

			p.pending = &statement{
				name:    rec.Name,
				command: rec.Command,
				line:    rec.Line,
				endLine: rec.Line,
				head:    strings.TrimSpace(strings.SplitN(rec.Data, "/", 2)[0]),
			}
			p.pending.params.pending = rec.Slash
			p.pending.params.add(rec.Line, rec.Rest, rec.Filled)
		}
	}
}

// flush completes the pending statement, if any, and appends its entity.
// line is the line that ended the statement.
func (p *Parser) flush(line int) error {
	st := p.pending
	if st == nil {
		return nil
	}
	if st.params.open() {
		return &ParseError{Line: line, Reason: fmt.Sprintf("statement %s incomplete", st.name)}
	}
	p.pending = nil

	params, err := st.params.tokenize()
	if err != nil {
		return err
	}

	raw := st.head
	if text := st.params.text.String(); text != "" {
		raw += " / " + text
	}

	p.model.Entities = append(p.model.Entities, &Entity{
		Name:    st.name,
		Command: st.command,
		Kind:    KindOf(st.command, p.model.Version),
		Version: p.model.Version,
		Params:  params,
		Raw:     raw,
		Line:    st.line,
		EndLine: st.endLine,
	})
	return nil
}

// parseHeader reads the HEADER statement and the raw records it declares,
// and detects the format version declared in them
func (p *Parser) parseHeader(rec *Record) error {
	if p.model.Header != nil {
		return &ParseError{Line: rec.Line, Reason: "duplicate HEADER"}
	}
	if len(p.model.Entities) > 0 {
		return &ParseError{Line: rec.Line, Reason: "HEADER must precede all entities"}
	}

	countText := strings.TrimSpace(rec.Rest)
	n, err := strconv.Atoi(countText)
	if err != nil || n < 0 {
		return &ParseError{Line: rec.Line, Reason: fmt.Sprintf("invalid HEADER record count %q", countText)}
	}

	header := &Header{
		Name:     rec.Name,
		Declared: n,
		Line:     rec.Line,
	}
	for i := 0; i < n; i++ {
		line, err := p.lexer.RawLine()
		if err == io.EOF {
			return &ParseError{Line: p.lexer.Line(), Reason: fmt.Sprintf("HEADER declares %d records, found %d", n, i)}
		}
		if err != nil {
			return fmt.Errorf("failed to read header: %w", err)
		}
		header.Lines = append(header.Lines, line)

		if m := versionPattern.FindStringSubmatch(line); m != nil {
			major, _ := strconv.Atoi(m[1])
			minor, _ := strconv.Atoi(m[2])
			v := Version{Major: major, Minor: minor}
			if !v.Supported() {
				return &ParseError{Line: p.lexer.Line(), Reason: fmt.Sprintf("unsupported VDA-FS version %s", v)}
			}
			p.model.Version = v
		}
	}

	p.model.Header = header
	return nil
}
