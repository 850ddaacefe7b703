package core

import (
	"errors"
	"fmt"
)

// ErrKindMismatch is returned when an entity is decoded as a kind it is not
var ErrKindMismatch = errors.New("entity kind mismatch")

// ParseError reports the first malformed construct of a file. Parsing is
// all-or-nothing: no Model is returned alongside a ParseError.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Reason)
}

// ReferenceError reports a referenced entity name that does not exist
type ReferenceError struct {
	Name string
	From string // referencing entity, empty for direct lookups
}

func (e *ReferenceError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("%s: unresolved reference %q", e.From, e.Name)
	}
	return fmt.Sprintf("no such entity: %q", e.Name)
}

// DomainError reports a parameter outside an entity's valid domain
type DomainError struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: parameter %g outside domain [%g, %g]", e.Name, e.Value, e.Min, e.Max)
}

// MalformedEntityError reports a parameter stream that does not match the
// layout of its kind
type MalformedEntityError struct {
	Name   string
	Kind   Kind
	Reason string
}

func (e *MalformedEntityError) Error() string {
	return fmt.Sprintf("malformed %s %s: %s", e.Kind, e.Name, e.Reason)
}

// CheckKind returns a wrapped ErrKindMismatch unless e has the wanted kind
func CheckKind(e *Entity, want Kind) error {
	if e.Kind != want {
		return fmt.Errorf("%s is %s, not %s: %w", e.Name, e.Command, want, ErrKindMismatch)
	}
	return nil
}
