package curve

import (
	"fmt"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/internal/cursor"
	"github.com/tsawler/vdafs/internal/poly"
	"github.com/tsawler/vdafs/model"
)

// MalformedCurveError reports a CURVE whose parameter stream is inconsistent
// with its declared counts and orders
type MalformedCurveError struct {
	Name   string
	Reason string
}

func (e *MalformedCurveError) Error() string {
	return fmt.Sprintf("malformed CURVE %s: %s", e.Name, e.Reason)
}

// Segment is one polynomial piece of a curve. X, Y and Z hold Order
// coefficients each, lowest degree first.
type Segment struct {
	Order int
	T0    float64
	T1    float64
	X     []float64
	Y     []float64
	Z     []float64
}

// Curve is a decoded multi-segment CURVE entity
type Curve struct {
	Name     string
	Params   []float64 // breakpoints, len(Segments)+1, strictly increasing
	Segments []Segment

	param model.Parameterization
}

// Option configures decoding
type Option func(*options)

type options struct {
	param model.Parameterization
}

// WithParameterization sets the local parameter convention used for
// evaluation (default: model.Normalized)
func WithParameterization(p model.Parameterization) Option {
	return func(o *options) {
		o.param = p
	}
}

// Decode decodes a CURVE entity. The parameter layout is
//
//	n, par[0..n], then per segment: K, K x-coefficients, K y-coefficients, K z-coefficients
func Decode(e *core.Entity, opts ...Option) (*Curve, error) {
	if err := core.CheckKind(e, core.KindCurve); err != nil {
		return nil, err
	}

	o := options{param: model.Normalized}
	for _, opt := range opts {
		opt(&o)
	}

	fail := func(err error) (*Curve, error) {
		return nil, &MalformedCurveError{Name: e.Name, Reason: err.Error()}
	}

	c := cursor.New(e)
	n, err := c.Count("segment count")
	if err != nil {
		return fail(err)
	}
	pars, err := c.Floats(n+1, "global parameters")
	if err != nil {
		return fail(err)
	}
	if !poly.Increasing(pars) {
		return fail(fmt.Errorf("global parameters not strictly increasing: %v", pars))
	}

	segs := make([]Segment, n)
	for k := range segs {
		order, err := c.Count(fmt.Sprintf("order of segment %d", k+1))
		if err != nil {
			return fail(err)
		}
		coeffs, err := c.Blocks(3, order, fmt.Sprintf("coefficients of segment %d", k+1))
		if err != nil {
			return fail(err)
		}
		segs[k] = Segment{
			Order: order,
			T0:    pars[k],
			T1:    pars[k+1],
			X:     coeffs[:order],
			Y:     coeffs[order : 2*order],
			Z:     coeffs[2*order:],
		}
	}
	if err := c.Done(); err != nil {
		return fail(err)
	}

	return &Curve{
		Name:     e.Name,
		Params:   pars,
		Segments: segs,
		param:    o.param,
	}, nil
}

// Domain returns the global parameter range [Params[0], Params[n]]
func (c *Curve) Domain() (float64, float64) {
	return c.Params[0], c.Params[len(c.Params)-1]
}

// Parameterization returns the local parameter convention of the curve
func (c *Curve) Parameterization() model.Parameterization {
	return c.param
}

// Evaluate returns the point at global parameter t. The segment containing t
// is found with the half-open convention [T0, T1); the last segment is closed.
// A t outside the domain is a *core.DomainError; there is no clamping.
func (c *Curve) Evaluate(t float64) (model.Vec3, error) {
	k, ok := poly.Locate(c.Params, t)
	if !ok {
		lo, hi := c.Domain()
		return model.Vec3{}, &core.DomainError{Name: c.Name, Value: t, Min: lo, Max: hi}
	}
	return c.at(k, t), nil
}

// EvaluateSegment evaluates segment k at global parameter t, where t may be
// either end of the segment's closed range. It lets callers compare both
// sides of a breakpoint.
func (c *Curve) EvaluateSegment(k int, t float64) (model.Vec3, error) {
	if k < 0 || k >= len(c.Segments) {
		return model.Vec3{}, fmt.Errorf("curve %s has no segment %d", c.Name, k)
	}
	seg := c.Segments[k]
	if !(t >= seg.T0 && t <= seg.T1) {
		return model.Vec3{}, &core.DomainError{Name: c.Name, Value: t, Min: seg.T0, Max: seg.T1}
	}
	return c.at(k, t), nil
}

func (c *Curve) at(k int, t float64) model.Vec3 {
	seg := &c.Segments[k]
	u := c.param.Local(t, seg.T0, seg.T1)
	return model.Vec3{
		X: poly.Horner(seg.X, u),
		Y: poly.Horner(seg.Y, u),
		Z: poly.Horner(seg.Z, u),
	}
}

// Sample evaluates every segment at perSegment+1 evenly spaced parameters.
// Interior breakpoints appear once.
func (c *Curve) Sample(perSegment int) model.Polyline {
	if perSegment < 1 {
		perSegment = 1
	}
	pts := make(model.Polyline, 0, len(c.Segments)*perSegment+1)
	for k, seg := range c.Segments {
		for j, t := range poly.Steps(seg.T0, seg.T1, perSegment) {
			if j == 0 && k > 0 {
				continue
			}
			pts = append(pts, c.at(k, t))
		}
	}
	return pts
}

// Gap is the distance between the two segments meeting at an interior
// breakpoint
type Gap struct {
	Breakpoint int
	T          float64
	Distance   float64
}

// CheckContinuity evaluates both segments at every interior breakpoint.
// Well-formed input yields distances near zero.
func (c *Curve) CheckContinuity() []Gap {
	var gaps []Gap
	for i := 1; i < len(c.Params)-1; i++ {
		t := c.Params[i]
		left := c.at(i-1, t)
		right := c.at(i, t)
		gaps = append(gaps, Gap{Breakpoint: i, T: t, Distance: left.Distance(right)})
	}
	return gaps
}

// EntityName returns the name of the CURVE entity
func (c *Curve) EntityName() string {
	return c.Name
}
