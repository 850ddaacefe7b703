package topology

import (
	"errors"
	"fmt"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/curve"
	"github.com/tsawler/vdafs/internal/cursor"
	"github.com/tsawler/vdafs/internal/poly"
	"github.com/tsawler/vdafs/model"
	"github.com/tsawler/vdafs/surface"
)

// Orientation is the direction in which a parameter range is traversed
type Orientation int

const (
	// Forward traverses the range with increasing parameter
	Forward Orientation = iota
	// Reverse traverses the range with decreasing parameter
	Reverse
)

// String returns the string representation of the orientation
func (o Orientation) String() string {
	if o == Reverse {
		return "reverse"
	}
	return "forward"
}

func orientationOf(from, to float64) Orientation {
	if from > to {
		return Reverse
	}
	return Forward
}

// CurveSource resolves CURVE references
type CurveSource interface {
	Curve(name string) (*curve.Curve, error)
}

// Source resolves every reference a FACE needs
type Source interface {
	Surface(name string) (*surface.Surface, error)
	Cons(name string) (*Cons, error)
}

// PSegment is one polynomial piece of a p-curve. S and T hold Order
// coefficients each, lowest degree first.
type PSegment struct {
	Order int
	T0    float64
	T1    float64
	S     []float64
	T     []float64
}

// PCurve is the image of a CONS in its surface's parameter plane
type PCurve struct {
	Params   []float64
	Segments []PSegment

	param model.Parameterization
}

// Domain returns the parameter range of the p-curve
func (pc *PCurve) Domain() (float64, float64) {
	return pc.Params[0], pc.Params[len(pc.Params)-1]
}

// Evaluate returns the (s, t) point at parameter w, located with the same
// half-open segment rule as a CURVE
func (pc *PCurve) Evaluate(w float64) (model.Point, error) {
	k, ok := poly.Locate(pc.Params, w)
	if !ok {
		lo, hi := pc.Domain()
		return model.Point{}, &core.DomainError{Name: "p-curve", Value: w, Min: lo, Max: hi}
	}
	seg := &pc.Segments[k]
	u := pc.param.Local(w, seg.T0, seg.T1)
	return model.Point{X: poly.Horner(seg.S, u), Y: poly.Horner(seg.T, u)}, nil
}

// Cons is a decoded CONS: a bounded piece of a CURVE lying on a SURF
type Cons struct {
	Name        string
	SurfRef     string
	CurveRef    string
	TStart      float64
	TEnd        float64
	Orientation Orientation
	Curve       *curve.Curve
	PCurve      *PCurve // nil when the record carries no parameter-space image
}

// Option configures decoding and loop mapping
type Option func(*options)

type options struct {
	param     model.Parameterization
	tolerance float64 // <= 0 means relative to the surface box
	global    bool
}

func newOptions(opts []Option) options {
	o := options{param: model.Normalized}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithParameterization sets the local parameter convention of p-curve
// segments (default: model.Normalized)
func WithParameterization(p model.Parameterization) Option {
	return func(o *options) {
		o.param = p
	}
}

// WithTolerance sets an absolute deduplication tolerance for MapLoopToUV
// instead of 1e-6 times the surface box diagonal
func WithTolerance(eps float64) Option {
	return func(o *options) {
		o.tolerance = eps
	}
}

// UVGlobal makes MapLoopToUV treat p-curve values as global surface
// parameters instead of unit coordinates of the surface box
func UVGlobal() Option {
	return func(o *options) {
		o.global = true
	}
}

// DecodeCons decodes a CONS entity and resolves its CURVE. The layout is
//
//	SURF, CURVE, t_start, t_end [, n, par[0..n], per segment: K, K s-coefficients, K t-coefficients]
//
// A dangling CURVE is a *core.ReferenceError. A [t_start, t_end] range
// reaching outside the curve's domain is a *core.DomainError.
func DecodeCons(e *core.Entity, curves CurveSource, opts ...Option) (*Cons, error) {
	if err := core.CheckKind(e, core.KindCons); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	fail := func(err error) (*Cons, error) {
		return nil, &core.MalformedEntityError{Name: e.Name, Kind: core.KindCons, Reason: err.Error()}
	}

	c := cursor.New(e)
	surfRef, err := c.Name("SURF reference")
	if err != nil {
		return fail(err)
	}
	curveRef, err := c.Name("CURVE reference")
	if err != nil {
		return fail(err)
	}
	tStart, err := c.Float("t_start")
	if err != nil {
		return fail(err)
	}
	tEnd, err := c.Float("t_end")
	if err != nil {
		return fail(err)
	}

	var pc *PCurve
	if c.Remaining() > 0 {
		pc, err = decodePCurve(c, o.param)
		if err != nil {
			return fail(err)
		}
	}
	if err := c.Done(); err != nil {
		return fail(err)
	}

	cv, err := curves.Curve(curveRef)
	if err != nil {
		var re *core.ReferenceError
		if errors.As(err, &re) {
			return nil, &core.ReferenceError{Name: re.Name, From: e.Name}
		}
		return nil, fmt.Errorf("CONS %s: %w", e.Name, err)
	}

	lo, hi := cv.Domain()
	for _, t := range []float64{tStart, tEnd} {
		if !(t >= lo && t <= hi) {
			return nil, &core.DomainError{Name: e.Name, Value: t, Min: lo, Max: hi}
		}
	}

	return &Cons{
		Name:        e.Name,
		SurfRef:     surfRef,
		CurveRef:    curveRef,
		TStart:      tStart,
		TEnd:        tEnd,
		Orientation: orientationOf(tStart, tEnd),
		Curve:       cv,
		PCurve:      pc,
	}, nil
}

func decodePCurve(c *cursor.Cursor, param model.Parameterization) (*PCurve, error) {
	n, err := c.Count("p-curve segment count")
	if err != nil {
		return nil, err
	}
	pars, err := c.Floats(n+1, "p-curve parameters")
	if err != nil {
		return nil, err
	}
	if !poly.Increasing(pars) {
		return nil, fmt.Errorf("p-curve parameters not strictly increasing: %v", pars)
	}
	segs := make([]PSegment, n)
	for k := range segs {
		order, err := c.Count(fmt.Sprintf("order of p-curve segment %d", k+1))
		if err != nil {
			return nil, err
		}
		coeffs, err := c.Blocks(2, order, fmt.Sprintf("coefficients of p-curve segment %d", k+1))
		if err != nil {
			return nil, err
		}
		segs[k] = PSegment{
			Order: order,
			T0:    pars[k],
			T1:    pars[k+1],
			S:     coeffs[:order],
			T:     coeffs[order:],
		}
	}
	return &PCurve{Params: pars, Segments: segs, param: param}, nil
}

// Sample evaluates the underlying curve at n evenly spaced parameters from
// TStart to TEnd, following the orientation
func (c *Cons) Sample(n int) (model.Polyline, error) {
	ts := poly.Steps(c.TStart, c.TEnd, max(n, 2)-1)
	pts := make(model.Polyline, len(ts))
	for i, t := range ts {
		p, err := c.Curve.Evaluate(t)
		if err != nil {
			return nil, err
		}
		pts[i] = p
	}
	return pts, nil
}

// EntityName returns the name of the CONS entity
func (c *Cons) EntityName() string {
	return c.Name
}
