package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/tsawler/vdafs/model"
)

// Projection maps model space onto the drawing plane
type Projection int

const (
	// XY looks down the z axis
	XY Projection = iota
	// YZ looks down the x axis
	YZ
	// XZ looks down the y axis
	XZ
	// Iso is an isometric view with z up
	Iso
)

var (
	isoCos = math.Cos(math.Pi / 6)
	isoSin = math.Sin(math.Pi / 6)
)

// String returns the configuration name of the projection
func (p Projection) String() string {
	switch p {
	case XY:
		return "xy"
	case YZ:
		return "yz"
	case XZ:
		return "xz"
	case Iso:
		return "iso"
	default:
		return "unknown"
	}
}

// ParseProjection parses a configuration name
func ParseProjection(s string) (Projection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xy":
		return XY, nil
	case "yz":
		return YZ, nil
	case "xz":
		return XZ, nil
	case "iso":
		return Iso, nil
	default:
		return XY, fmt.Errorf("unknown projection %q (supported: xy, yz, xz, iso)", s)
	}
}

// Project maps one point
func (p Projection) Project(v model.Vec3) model.Point {
	switch p {
	case YZ:
		return model.Point{X: v.Y, Y: v.Z}
	case XZ:
		return model.Point{X: v.X, Y: v.Z}
	case Iso:
		return model.Point{X: (v.X - v.Y) * isoCos, Y: v.Z + (v.X+v.Y)*isoSin}
	default:
		return model.Point{X: v.X, Y: v.Y}
	}
}

// Polyline maps a 3D polyline
func (p Projection) Polyline(line model.Polyline) []model.Point {
	out := make([]model.Point, len(line))
	for i, v := range line {
		out[i] = p.Project(v)
	}
	return out
}

// Polylines maps several 3D polylines
func (p Projection) Polylines(lines []model.Polyline) [][]model.Point {
	out := make([][]model.Point, len(lines))
	for i, line := range lines {
		out[i] = p.Polyline(line)
	}
	return out
}
