package model

import (
	"fmt"
	"strings"
)

// Parameterization selects how the polynomial parameter of one curve segment
// or surface patch is derived from a global parameter t in [t0, t1]
type Parameterization int

const (
	// Normalized maps [t0, t1] onto [0, 1]: u = (t - t0) / (t1 - t0)
	Normalized Parameterization = iota
	// Shifted keeps the segment length: u = t - t0
	Shifted
)

// String returns the configuration name of the parameterization
func (p Parameterization) String() string {
	switch p {
	case Normalized:
		return "normalized"
	case Shifted:
		return "shifted"
	default:
		return "unknown"
	}
}

// Local converts a global parameter into the local polynomial parameter
func (p Parameterization) Local(t, t0, t1 float64) float64 {
	if p == Shifted {
		return t - t0
	}
	return (t - t0) / (t1 - t0)
}

// ParseParameterization parses a configuration name
func ParseParameterization(s string) (Parameterization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normalized":
		return Normalized, nil
	case "shifted":
		return Shifted, nil
	default:
		return Normalized, fmt.Errorf("unknown parameterization %q (supported: normalized, shifted)", s)
	}
}
