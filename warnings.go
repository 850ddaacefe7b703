package vdafs

import (
	"fmt"
	"strings"
)

// WarningType classifies a non-fatal finding
type WarningType int

const (
	// WarnCurveGap: two curve segments do not meet at their breakpoint
	WarnCurveGap WarningType = iota
	// WarnSurfaceSeam: neighbouring surface patches do not meet at their shared border
	WarnSurfaceSeam
	// WarnDecodeFailed: an entity could not be decoded or evaluated
	WarnDecodeFailed
)

// String returns a short name for the warning type
func (t WarningType) String() string {
	switch t {
	case WarnCurveGap:
		return "curve gap"
	case WarnSurfaceSeam:
		return "surface seam"
	case WarnDecodeFailed:
		return "decode failed"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found while the requested operation succeeded
type Warning struct {
	Type     WarningType
	Entity   string
	Message  string
	Distance float64 // gap or seam size; 0 for decode failures
}

// String formats the warning as "ENTITY: type: message"
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Entity, w.Type, w.Message)
}

// FormatWarnings formats warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
