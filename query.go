package vdafs

import (
	"fmt"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/curve"
	"github.com/tsawler/vdafs/model"
	"github.com/tsawler/vdafs/points"
	"github.com/tsawler/vdafs/reader"
	"github.com/tsawler/vdafs/surface"
	"github.com/tsawler/vdafs/topology"
)

// Query provides a fluent interface for evaluating the geometry of one
// VDA-FS file. Each configuration method returns a new Query instance,
// allowing method chaining without affecting the receiver.
//
// A Query reads its file once, on the first terminal operation, and keeps
// the decoded entities for later operations on the same instance. A Query
// must not be used from several goroutines at once.
type Query struct {
	// Source
	filename string
	reader   *reader.Reader
	external bool // reader supplied by FromReader

	// Configuration
	options QueryOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Query with its own options.
func (q *Query) clone() *Query {
	return &Query{
		filename: q.filename,
		reader:   q.reader,
		external: q.external,
		options:  q.options.clone(),
		err:      q.err,
	}
}

// reopen drops a reader opened with settings that no longer apply.
func (q *Query) reopen() *Query {
	if !q.external {
		q.reader = nil
	}
	return q
}

// ensureReader reads the file if not already read.
func (q *Query) ensureReader() error {
	if q.err != nil {
		return q.err
	}
	if q.reader != nil {
		return nil
	}
	if q.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	r, err := reader.Open(q.filename,
		reader.WithParameterization(q.options.param),
		reader.WithMaxDepth(q.options.maxDepth))
	if err != nil {
		return fmt.Errorf("failed to read VDA-FS file: %w", err)
	}
	q.reader = r
	return nil
}

// ============================================================================
// Configuration Methods (return new Query instance)
// ============================================================================

// Parameterization selects the local parameter convention of curve
// segments, surface patches and p-curves.
//
// Example:
//
//	pt, err := vdafs.Open("part.vda").Parameterization(model.Shifted).Point("CV1", 0.5)
func (q *Query) Parameterization(p model.Parameterization) *Query {
	newQ := q.clone().reopen()
	newQ.options.param = p
	return newQ
}

// MaxDepth limits the reference depth followed by Closure.
func (q *Query) MaxDepth(depth int) *Query {
	newQ := q.clone().reopen()
	if depth < 1 && newQ.err == nil {
		newQ.err = fmt.Errorf("max depth must be at least 1, got %d", depth)
	}
	newQ.options.maxDepth = depth
	return newQ
}

// CurveSamples sets the number of samples per curve segment.
func (q *Query) CurveSamples(n int) *Query {
	newQ := q.clone()
	if n < 1 && newQ.err == nil {
		newQ.err = fmt.Errorf("curve samples must be at least 1, got %d", n)
	}
	newQ.options.curveSamples = n
	return newQ
}

// IsoLines sets the number of iso-parameter lines per surface direction.
func (q *Query) IsoLines(n int) *Query {
	newQ := q.clone()
	if n < 1 && newQ.err == nil {
		newQ.err = fmt.Errorf("iso lines must be at least 1, got %d", n)
	}
	newQ.options.isoLines = n
	return newQ
}

// LineSamples sets the number of samples along each iso-parameter line.
func (q *Query) LineSamples(n int) *Query {
	newQ := q.clone()
	if n < 2 && newQ.err == nil {
		newQ.err = fmt.Errorf("line samples must be at least 2, got %d", n)
	}
	newQ.options.lineSamples = n
	return newQ
}

// LoopSamples sets the number of samples per FACE edge.
//
// Example:
//
//	loop, err := vdafs.Open("part.vda").LoopSamples(64).Loop("FA1", 0)
func (q *Query) LoopSamples(n int) *Query {
	newQ := q.clone()
	if n < 2 && newQ.err == nil {
		newQ.err = fmt.Errorf("loop samples must be at least 2, got %d", n)
	}
	newQ.options.loopSamples = n
	return newQ
}

// Tolerance sets the absolute distance below which consecutive loop samples
// are merged. Zero restores the default, relative to the surface box.
func (q *Query) Tolerance(eps float64) *Query {
	newQ := q.clone()
	if eps < 0 && newQ.err == nil {
		newQ.err = fmt.Errorf("tolerance must not be negative, got %g", eps)
	}
	newQ.options.tolerance = eps
	return newQ
}

// UVGlobal treats p-curve values as global surface parameters instead of
// unit coordinates of the surface box.
func (q *Query) UVGlobal() *Query {
	newQ := q.clone()
	newQ.options.uvGlobal = true
	return newQ
}

// GapTolerance sets the distance above which Check reports curve gaps and
// surface seams.
func (q *Query) GapTolerance(eps float64) *Query {
	newQ := q.clone()
	if eps < 0 && newQ.err == nil {
		newQ.err = fmt.Errorf("gap tolerance must not be negative, got %g", eps)
	}
	newQ.options.gapTolerance = eps
	return newQ
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Reader returns the underlying reader, reading the file if needed.
func (q *Query) Reader() (*reader.Reader, error) {
	if err := q.ensureReader(); err != nil {
		return nil, err
	}
	return q.reader, nil
}

// Version returns the format version declared by the file.
func (q *Query) Version() (core.Version, error) {
	if err := q.ensureReader(); err != nil {
		return core.Version{}, err
	}
	return q.reader.Version(), nil
}

// Names returns the names of all entities of a kind in file order.
func (q *Query) Names(kind core.Kind) ([]string, error) {
	if err := q.ensureReader(); err != nil {
		return nil, err
	}
	return q.reader.Index().Names(kind), nil
}

// Entity returns the raw entity with the given name.
func (q *Query) Entity(name string) (*core.Entity, error) {
	if err := q.ensureReader(); err != nil {
		return nil, err
	}
	return q.reader.Resolver().Entity(name)
}

// Curve returns the decoded CURVE with the given name.
func (q *Query) Curve(name string) (*curve.Curve, error) {
	if err := q.ensureReader(); err != nil {
		return nil, err
	}
	return q.reader.Resolver().Curve(name)
}

// Point evaluates a CURVE at a global parameter.
func (q *Query) Point(name string, t float64) (model.Vec3, error) {
	c, err := q.Curve(name)
	if err != nil {
		return model.Vec3{}, err
	}
	return c.Evaluate(t)
}

// CurvePoints samples a CURVE with the configured samples per segment.
func (q *Query) CurvePoints(name string) (model.Polyline, error) {
	c, err := q.Curve(name)
	if err != nil {
		return nil, err
	}
	return c.Sample(q.options.curveSamples), nil
}

// Surface returns the decoded SURF with the given name.
func (q *Query) Surface(name string) (*surface.Surface, error) {
	if err := q.ensureReader(); err != nil {
		return nil, err
	}
	return q.reader.Resolver().Surface(name)
}

// Wireframe samples iso-parameter lines of a SURF.
//
// Example:
//
//	wire, err := vdafs.Open("part.vda").IsoLines(5).Wireframe("SR1")
func (q *Query) Wireframe(name string) (surface.Wireframe, error) {
	s, err := q.Surface(name)
	if err != nil {
		return surface.Wireframe{}, err
	}
	return surface.SampleWireframe(s, q.options.isoLines, q.options.lineSamples)
}

// Cons returns the decoded CONS with the given name.
func (q *Query) Cons(name string) (*topology.Cons, error) {
	if err := q.ensureReader(); err != nil {
		return nil, err
	}
	return q.reader.Resolver().Cons(name)
}

// Face returns the decoded FACE with the given name.
func (q *Query) Face(name string) (*topology.Face, error) {
	if err := q.ensureReader(); err != nil {
		return nil, err
	}
	return q.reader.Resolver().Face(name)
}

// Points returns the decoded POINT, PSET or MDI entity with the given name.
func (q *Query) Points(name string) (*points.Set, error) {
	if err := q.ensureReader(); err != nil {
		return nil, err
	}
	return q.reader.Resolver().Points(name)
}

// loopOptions converts the query options into loop mapping options.
func (q *Query) loopOptions() []topology.Option {
	var opts []topology.Option
	if q.options.tolerance > 0 {
		opts = append(opts, topology.WithTolerance(q.options.tolerance))
	}
	if q.options.uvGlobal {
		opts = append(opts, topology.UVGlobal())
	}
	return opts
}

// Loop maps boundary loop index of a FACE into the (s, t) box of its
// surface. Index 0 is the first loop of the record.
//
// Example:
//
//	outer, err := vdafs.Open("part.vda").Loop("FA1", 0)
func (q *Query) Loop(face string, index int) ([]model.Point, error) {
	f, err := q.Face(face)
	if err != nil {
		return nil, err
	}
	return topology.MapLoopToUV(f, index, q.options.loopSamples, q.loopOptions()...)
}

// Loops maps every boundary loop of a FACE. A loop that cannot be mapped
// is left nil and reported as a warning; the other loops are still returned.
func (q *Query) Loops(face string) ([][]model.Point, []Warning, error) {
	f, err := q.Face(face)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	loops := make([][]model.Point, len(f.Loops))
	for i := range f.Loops {
		pts, err := topology.MapLoopToUV(f, i, q.options.loopSamples, q.loopOptions()...)
		if err != nil {
			warnings = append(warnings, Warning{Type: WarnDecodeFailed, Entity: face, Message: err.Error()})
			continue
		}
		loops[i] = pts
	}
	return loops, warnings, nil
}

// Closure returns the given entities and everything they depend on, each
// once, in first-visit order.
//
// Example:
//
//	names, err := vdafs.Open("part.vda").Closure("FA1", "FA2")
func (q *Query) Closure(names ...string) ([]string, error) {
	if err := q.ensureReader(); err != nil {
		return nil, err
	}
	return q.reader.Resolver().DependencyClosure(names...)
}

// Check decodes every CURVE, SURF, CONS and FACE of the file. Curve
// breakpoint gaps and surface seams larger than the gap tolerance, and
// entities that fail to decode, are returned as warnings. The error is
// non-nil only when the file itself cannot be read.
func (q *Query) Check() ([]Warning, error) {
	if err := q.ensureReader(); err != nil {
		return nil, err
	}
	res := q.reader.Resolver()
	idx := q.reader.Index()
	var warnings []Warning

	failed := func(name string, err error) {
		warnings = append(warnings, Warning{Type: WarnDecodeFailed, Entity: name, Message: err.Error()})
	}

	for _, name := range idx.Names(core.KindCurve) {
		c, err := res.Curve(name)
		if err != nil {
			failed(name, err)
			continue
		}
		for _, g := range c.CheckContinuity() {
			if g.Distance > q.options.gapTolerance {
				warnings = append(warnings, Warning{
					Type:     WarnCurveGap,
					Entity:   name,
					Message:  fmt.Sprintf("breakpoint %d (t=%g) gap %.6g", g.Breakpoint, g.T, g.Distance),
					Distance: g.Distance,
				})
			}
		}
	}

	for _, name := range idx.Names(core.KindSurf) {
		s, err := res.Surface(name)
		if err != nil {
			failed(name, err)
			continue
		}
		for _, seam := range surface.CheckSeams(s, q.options.lineSamples) {
			if seam.Max > q.options.gapTolerance {
				warnings = append(warnings, Warning{
					Type:     WarnSurfaceSeam,
					Entity:   name,
					Message:  seam.String(),
					Distance: seam.Max,
				})
			}
		}
	}

	for _, name := range idx.Names(core.KindCons) {
		if _, err := res.Cons(name); err != nil {
			failed(name, err)
		}
	}

	for _, name := range idx.Names(core.KindFace) {
		f, err := res.Face(name)
		if err != nil {
			failed(name, err)
			continue
		}
		for i := range f.Loops {
			if _, err := topology.MapLoopToUV(f, i, q.options.loopSamples, q.loopOptions()...); err != nil {
				failed(name, err)
			}
		}
	}

	return warnings, nil
}
