package curve

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/model"
)

const tol = 1e-9

// seg is a test segment in local coefficients
type seg struct {
	x, y, z []float64
}

// curveEntity builds a CURVE statement and parses it
func curveEntity(t *testing.T, name string, pars []float64, segs []seg) *core.Entity {
	t.Helper()
	var parts []string
	parts = append(parts, fmt.Sprint(len(segs)))
	for _, p := range pars {
		parts = append(parts, fmt.Sprintf("%g", p))
	}
	for _, s := range segs {
		parts = append(parts, fmt.Sprint(len(s.x)))
		for _, arr := range [][]float64{s.x, s.y, s.z} {
			for _, v := range arr {
				parts = append(parts, fmt.Sprintf("%.17g", v))
			}
		}
	}
	return parseEntity(t, name+" = CURVE / "+strings.Join(parts, ","))
}

// parseEntity parses a one-statement file, wrapping long statements at commas
func parseEntity(t *testing.T, stmt string) *core.Entity {
	t.Helper()
	var lines []string
	for len(stmt) > 60 {
		i := strings.LastIndex(stmt[:60], ",")
		if i < 0 {
			break
		}
		lines = append(lines, stmt[:i+1])
		stmt = "  " + stmt[i+1:]
	}
	lines = append(lines, stmt, "END")
	m, err := core.Parse(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return m.Entities[0]
}

// pad extends c with zeros to length n
func pad(c []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, c)
	return out
}

// canonicalSegments expresses x=t, y=t^2, z=1-t over the given breakpoints
// in local normalized coefficients, padded to the given orders
func canonicalSegments(pars []float64, orders []int) []seg {
	segs := make([]seg, len(orders))
	for k, order := range orders {
		t0, h := pars[k], pars[k+1]-pars[k]
		segs[k] = seg{
			x: pad([]float64{t0, h}, order),
			y: pad([]float64{t0 * t0, 2 * t0 * h, h * h}, order),
			z: pad([]float64{1 - t0, -h}, order),
		}
	}
	return segs
}

var (
	canonicalPars   = []float64{0, 1, 2, 2.7, 4}
	canonicalOrders = []int{5, 3, 4, 3}
)

func canonical(t *testing.T) *Curve {
	t.Helper()
	e := curveEntity(t, "CV1", canonicalPars, canonicalSegments(canonicalPars, canonicalOrders))
	c, err := Decode(e)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return c
}

func near(a, b model.Vec3) bool {
	return a.Distance(b) <= tol
}

// TestDecode tests the decoded structure of the canonical curve
func TestDecode(t *testing.T) {
	c := canonical(t)

	if c.Name != "CV1" {
		t.Errorf("Name = %s", c.Name)
	}
	if len(c.Segments) != 4 || len(c.Params) != 5 {
		t.Fatalf("segments/params = %d/%d, want 4/5", len(c.Segments), len(c.Params))
	}
	for i, s := range c.Segments {
		if s.Order != canonicalOrders[i] {
			t.Errorf("segment %d order = %d, want %d", i, s.Order, canonicalOrders[i])
		}
		if s.T0 != c.Params[i] || s.T1 != c.Params[i+1] {
			t.Errorf("segment %d range = [%g,%g], want [%g,%g]", i, s.T0, s.T1, c.Params[i], c.Params[i+1])
		}
		if len(s.X) != s.Order || len(s.Y) != s.Order || len(s.Z) != s.Order {
			t.Errorf("segment %d coefficient counts = %d/%d/%d", i, len(s.X), len(s.Y), len(s.Z))
		}
	}
	lo, hi := c.Domain()
	if lo != 0 || hi != 4 {
		t.Errorf("Domain = [%g,%g], want [0,4]", lo, hi)
	}
}

// TestEvaluate tests evaluation against the generating polynomial
func TestEvaluate(t *testing.T) {
	c := canonical(t)
	for _, tt := range []float64{0, 0.25, 1, 1.5, 2, 2.35, 2.7, 3.9, 4} {
		got, err := c.Evaluate(tt)
		if err != nil {
			t.Fatalf("Evaluate(%g): %v", tt, err)
		}
		want := model.Vec3{X: tt, Y: tt * tt, Z: 1 - tt}
		if !near(got, want) {
			t.Errorf("Evaluate(%g) = %+v, want %+v", tt, got, want)
		}
	}
}

// TestBreakpointContinuity tests that both segments agree at each interior breakpoint
func TestBreakpointContinuity(t *testing.T) {
	c := canonical(t)
	for k := 1; k < len(c.Params)-1; k++ {
		bp := c.Params[k]
		left, err := c.EvaluateSegment(k-1, bp)
		if err != nil {
			t.Fatalf("left segment: %v", err)
		}
		right, err := c.EvaluateSegment(k, bp)
		if err != nil {
			t.Fatalf("right segment: %v", err)
		}
		if left.Distance(right) > 1e-6 {
			t.Errorf("breakpoint %g: %+v vs %+v", bp, left, right)
		}
	}

	for _, g := range c.CheckContinuity() {
		if g.Distance > 1e-6 {
			t.Errorf("gap at breakpoint %d: %g", g.Breakpoint, g.Distance)
		}
	}
	if n := len(c.CheckContinuity()); n != 3 {
		t.Errorf("gaps = %d, want 3", n)
	}
}

// TestEvaluateAtBreakpointUsesRightSegment tests the half-open convention
func TestEvaluateAtBreakpointUsesRightSegment(t *testing.T) {
	segs := canonicalSegments(canonicalPars, canonicalOrders)
	// Break continuity: shift segment 2 (starting at t=1) by +10 in x
	segs[1].x[0] += 10
	c, err := Decode(curveEntity(t, "CV2", canonicalPars, segs))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	p, err := c.Evaluate(1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.X-11) > tol {
		t.Errorf("Evaluate(1).X = %g, want 11 from the segment starting at 1", p.X)
	}
	gaps := c.CheckContinuity()
	if math.Abs(gaps[0].Distance-10) > tol || math.Abs(gaps[1].Distance-10) > tol {
		t.Errorf("gaps = %+v", gaps)
	}
}

// TestEvaluateDomain tests that parameters outside the domain fail
func TestEvaluateDomain(t *testing.T) {
	c := canonical(t)
	for _, tt := range []float64{-1e-9, -1, 4.000001, 100, math.NaN(), math.Inf(1)} {
		_, err := c.Evaluate(tt)
		var de *core.DomainError
		if !errors.As(err, &de) {
			t.Errorf("Evaluate(%g): expected *core.DomainError, got %v", tt, err)
			continue
		}
		if de.Min != 0 || de.Max != 4 {
			t.Errorf("domain = [%g,%g], want [0,4]", de.Min, de.Max)
		}
	}

	if _, err := c.EvaluateSegment(0, 1.5); err == nil {
		t.Errorf("EvaluateSegment outside segment should fail")
	}
	if _, err := c.EvaluateSegment(7, 1); err == nil {
		t.Errorf("EvaluateSegment with bad index should fail")
	}
}

// TestShiftedParameterization tests the u = t - t0 convention
func TestShiftedParameterization(t *testing.T) {
	pars := []float64{0, 2, 3}
	segs := []seg{
		{x: []float64{0, 1}, y: []float64{0, 0, 1}, z: []float64{0, 0}},
		{x: []float64{2, 1}, y: []float64{4, 4, 1}, z: []float64{0, 0}},
	}
	c, err := Decode(curveEntity(t, "CV3", pars, padOrders(segs)), WithParameterization(model.Shifted))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if c.Parameterization() != model.Shifted {
		t.Errorf("Parameterization = %s", c.Parameterization())
	}
	for _, tt := range []float64{0, 1, 2, 2.5, 3} {
		p, err := c.Evaluate(tt)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(p.X-tt) > tol || math.Abs(p.Y-tt*tt) > tol {
			t.Errorf("Evaluate(%g) = %+v", tt, p)
		}
	}
}

// padOrders pads x, y and z of each segment to a common order
func padOrders(segs []seg) []seg {
	for i, s := range segs {
		n := len(s.x)
		if len(s.y) > n {
			n = len(s.y)
		}
		if len(s.z) > n {
			n = len(s.z)
		}
		segs[i] = seg{x: pad(s.x, n), y: pad(s.y, n), z: pad(s.z, n)}
	}
	return segs
}

// TestSample tests uniform sampling
func TestSample(t *testing.T) {
	c := canonical(t)
	pts := c.Sample(10)
	if len(pts) != 4*10+1 {
		t.Fatalf("samples = %d, want 41", len(pts))
	}
	if !near(pts[0], model.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Errorf("first sample = %+v", pts[0])
	}
	if !near(pts[len(pts)-1], model.Vec3{X: 4, Y: 16, Z: -3}) {
		t.Errorf("last sample = %+v", pts[len(pts)-1])
	}
}

// TestDecodeMalformed tests the layout checks
func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		stmt   string
		reason string
	}{
		{"no params", "CV9 = CURVE", "segment count"},
		{"zero segments", "CV9 = CURVE / 0, 0.", "positive"},
		{"missing parameters", "CV9 = CURVE / 2, 0., 1.", "global parameters"},
		{"decreasing parameters", "CV9 = CURVE / 1, 1., 0., 1, 0., 0., 0.", "increasing"},
		{"repeated parameters", "CV9 = CURVE / 2, 0., 1., 1., 1, 0., 0., 0., 1, 0., 0., 0.", "increasing"},
		{"missing segment", "CV9 = CURVE / 2, 0., 1., 2., 1, 0., 0., 0.", "order of segment 2"},
		{"short coefficients", "CV9 = CURVE / 1, 0., 1., 2, 0., 1., 0., 0., 0.", "coefficients of segment 1"},
		{"trailing data", "CV9 = CURVE / 1, 0., 1., 1, 0., 0., 0., 5.", "trailing"},
		{"non-numeric coefficient", "CV9 = CURVE / 1, 0., 1., 1, CV1, 0., 0.", "numeric"},
		{"fractional order", "CV9 = CURVE / 1, 0., 1., 1.5, 0., 0., 0.", "integer"},
		{"huge segment count", "CV9 = CURVE / 9223372036854775807, 0., 1.", "segment count"},
		{"huge order", "CV9 = CURVE / 1, 0., 1., 6148914691236517206, 1., 2.", "order of segment 1"},
		{"order beyond data", "CV9 = CURVE / 1, 0., 1., 3, 0., 1., 0., 0., 0., 0.", "coefficients of segment 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(parseEntity(t, tt.stmt))
			var me *MalformedCurveError
			if !errors.As(err, &me) {
				t.Fatalf("expected *MalformedCurveError, got %v", err)
			}
			if me.Name != "CV9" {
				t.Errorf("Name = %s", me.Name)
			}
			if !strings.Contains(me.Reason, tt.reason) {
				t.Errorf("reason = %q, want it to contain %q", me.Reason, tt.reason)
			}
		})
	}
}

// TestDecodeWrongKind tests decoding a non-CURVE entity
func TestDecodeWrongKind(t *testing.T) {
	_, err := Decode(parseEntity(t, "P1 = POINT / 1., 2., 3."))
	if !errors.Is(err, core.ErrKindMismatch) {
		t.Errorf("expected ErrKindMismatch, got %v", err)
	}
}
