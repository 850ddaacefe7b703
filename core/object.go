package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Param represents a single token of an entity's parameter stream
type Param interface {
	Type() ParamType
	String() string
}

// ParamType represents the type of a parameter token
type ParamType int

const (
	ParamInt ParamType = iota
	ParamReal
	ParamName
	ParamText
)

// String returns the string representation of the parameter type
func (t ParamType) String() string {
	switch t {
	case ParamInt:
		return "Int"
	case ParamReal:
		return "Real"
	case ParamName:
		return "Name"
	case ParamText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Int represents an integer parameter (counts, orders)
type Int int64

func (i Int) Type() ParamType { return ParamInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

// Real represents a real parameter
type Real float64

func (r Real) Type() ParamType { return ParamReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'g', -1, 64) }

// Name represents a reference to another entity (e.g. CV57, SR85)
type Name string

func (n Name) Type() ParamType { return ParamName }
func (n Name) String() string   { return string(n) }

// Text represents a quoted text parameter
type Text string

func (s Text) Type() ParamType { return ParamText }
func (s Text) String() string   { return "'" + string(s) + "'" }

// AsFloat returns the numeric value of an Int or Real parameter
func AsFloat(p Param) (float64, bool) {
	switch v := p.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

// AsInt returns the value of an Int parameter. Reals with an integral value
// are accepted too, since some writers emit counts as "4." or "4.0".
func AsInt(p Param) (int, bool) {
	switch v := p.(type) {
	case Int:
		return int(v), true
	case Real:
		f := float64(v)
		if f == float64(int(f)) {
			return int(f), true
		}
	}
	return 0, false
}

// AsName returns the referenced entity name of a Name parameter
func AsName(p Param) (string, bool) {
	if n, ok := p.(Name); ok {
		return string(n), true
	}
	return "", false
}

// Kind identifies the command of an entity statement
type Kind int

const (
	KindUnknown Kind = iota
	KindCurve
	KindSurf
	KindPoint
	KindPSet
	KindMDI
	KindCons
	KindFace
)

// Kinds lists every decodable kind in a stable order.
var Kinds = []Kind{KindCurve, KindSurf, KindPoint, KindPSet, KindMDI, KindCons, KindFace}

// String returns the VDA-FS command word of the kind
func (k Kind) String() string {
	switch k {
	case KindCurve:
		return "CURVE"
	case KindSurf:
		return "SURF"
	case KindPoint:
		return "POINT"
	case KindPSet:
		return "PSET"
	case KindMDI:
		return "MDI"
	case KindCons:
		return "CONS"
	case KindFace:
		return "FACE"
	default:
		return "UNKNOWN"
	}
}

// KindOf maps a command word to its Kind under the keyword rules of the
// given format version. Words that are not entity kinds in that version
// map to KindUnknown.
func KindOf(command string, v Version) Kind {
	switch strings.ToUpper(command) {
	case "CURVE":
		return KindCurve
	case "SURF":
		return KindSurf
	case "POINT":
		return KindPoint
	case "PSET":
		return KindPSet
	case "MDI":
		return KindMDI
	case "CONS":
		if v.Major >= 2 {
			return KindCons
		}
	case "FACE":
		if v.Major >= 2 {
			return KindFace
		}
	}
	return KindUnknown
}

// Version represents a VDA-FS format version
type Version struct {
	Major int
	Minor int
}

// Supported format versions.
var (
	Version1 = Version{Major: 1, Minor: 0}
	Version2 = Version{Major: 2, Minor: 0}
)

// String returns the version as a string (e.g., "2.0")
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Supported reports whether the parser knows the column and keyword rules of v
func (v Version) Supported() bool {
	return v == Version1 || v == Version2
}

// Entity is one parsed statement: NAME = COMMAND / params.
// Entities are immutable once the parser has returned them.
type Entity struct {
	Name    string
	Command string // command word as written, e.g. "CURVE" or "TMAT"
	Kind    Kind
	Version Version
	Params  []Param

	Raw     string // merged statement text, continuation lines joined
	Line    int    // first source line
	EndLine int    // last source line
}

// String returns a short description of the entity
func (e *Entity) String() string {
	return fmt.Sprintf("%s = %s (%d params, line %d)", e.Name, e.Command, len(e.Params), e.Line)
}

// Header holds the free-text header block of a file
type Header struct {
	Name     string   // statement name, e.g. "HD"
	Declared int      // number of header records declared in the HEADER statement
	Lines    []string // the raw header records
	Line     int      // source line of the HEADER statement
}

// Model is the ordered entity table of one parsed file
type Model struct {
	Header   *Header
	Version  Version
	Entities []*Entity
}

// Len returns the number of entities
func (m *Model) Len() int {
	return len(m.Entities)
}
