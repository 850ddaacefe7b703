package topology

import (
	"fmt"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/internal/poly"
	"github.com/tsawler/vdafs/model"
)

// RelativeTolerance scales the surface box diagonal into the default
// deduplication tolerance of MapLoopToUV
const RelativeTolerance = 1e-6

// MapLoopToUV samples loop loopIndex of the face in the (s, t) parameter
// plane of its surface.
//
// Every edge is sampled at samplesPerSegment evenly spaced parameters of its
// range, in the edge's direction. Each sample is evaluated on the CONS
// p-curve and mapped from unit coordinates into the surface box (see
// UVGlobal). Where consecutive edges meet, a sample closer than the tolerance
// to the previous one is dropped, and a final sample that closes onto the
// first is dropped as well: the result is an open list whose closing segment
// runs from the last point back to the first.
func MapLoopToUV(face *Face, loopIndex, samplesPerSegment int, opts ...Option) ([]model.Point, error) {
	if loopIndex < 0 || loopIndex >= len(face.Loops) {
		return nil, fmt.Errorf("FACE %s has no loop %d (%d loops)", face.Name, loopIndex, len(face.Loops))
	}
	if samplesPerSegment < 2 {
		return nil, fmt.Errorf("samples per segment must be at least 2, got %d", samplesPerSegment)
	}
	o := newOptions(opts)

	box := face.Surface.Domain()
	eps := o.tolerance
	if eps <= 0 {
		eps = RelativeTolerance * box.Diagonal()
	}

	var out []model.Point
	for i, edge := range face.Loops[loopIndex] {
		pts, err := sampleEdge(edge, samplesPerSegment)
		if err != nil {
			return nil, fmt.Errorf("FACE %s loop %d edge %d: %w", face.Name, loopIndex, i+1, err)
		}
		if !o.global {
			for k, p := range pts {
				pts[k] = box.Map(p.X, p.Y)
			}
		}
		if len(out) > 0 && out[len(out)-1].Distance(pts[0]) < eps {
			pts = pts[1:]
		}
		out = append(out, pts...)
	}

	if len(out) > 1 && out[len(out)-1].Distance(out[0]) < eps {
		out = out[:len(out)-1]
	}
	return out, nil
}

// sampleEdge evaluates the p-curve of an edge's CONS at evenly spaced curve
// parameters. Curve parameters are carried onto the p-curve domain by the
// affine map between the two domains, which is the identity when they agree.
func sampleEdge(edge Edge, n int) ([]model.Point, error) {
	cons := edge.Cons
	if cons == nil {
		return nil, fmt.Errorf("CONS %s is not resolved", edge.ConsRef)
	}
	if cons.PCurve == nil {
		return nil, &core.MalformedEntityError{Name: cons.Name, Kind: core.KindCons, Reason: "no parameter-space curve"}
	}

	from, to := edge.Range()
	c0, c1 := cons.Curve.Domain()
	for _, w := range []float64{from, to} {
		if !(w >= c0 && w <= c1) {
			return nil, &core.DomainError{Name: cons.Name, Value: w, Min: c0, Max: c1}
		}
	}
	p0, p1 := cons.PCurve.Domain()

	ws := poly.Steps(from, to, n-1)
	pts := make([]model.Point, len(ws))
	for i, w := range ws {
		pw := p0 + (w-c0)/(c1-c0)*(p1-p0)
		switch w {
		case c0:
			pw = p0
		case c1:
			pw = p1
		}
		p, err := cons.PCurve.Evaluate(pw)
		if err != nil {
			return nil, err
		}
		pts[i] = p
	}
	return pts, nil
}
