package resolver

import (
	"fmt"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/curve"
	"github.com/tsawler/vdafs/index"
	"github.com/tsawler/vdafs/model"
	"github.com/tsawler/vdafs/points"
	"github.com/tsawler/vdafs/surface"
	"github.com/tsawler/vdafs/topology"
)

// Decoded is the result of decoding an entity. It is one of *curve.Curve,
// *surface.Surface, *topology.Cons, *topology.Face, *points.Set or Unknown.
type Decoded interface {
	EntityName() string
}

// Unknown wraps an entity whose kind has no decoder
type Unknown struct {
	Entity *core.Entity
}

// EntityName returns the name of the wrapped entity
func (u Unknown) EntityName() string {
	return u.Entity.Name
}

// Resolver decodes the entities of one Index on demand and memoizes the
// results by name. Failed decodes are not cached.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	index        *index.Index
	cache        map[string]Decoded
	param        model.Parameterization
	visited      map[string]bool // Cycle detection
	maxDepth     int             // Maximum recursion depth
	currentDepth int             // Current recursion depth
}

// Option configures the resolver
type Option func(*Resolver)

// WithMaxDepth sets the maximum reference depth followed by
// DependencyClosure (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		r.maxDepth = depth
	}
}

// WithParameterization sets the local parameter convention used for every
// decoded curve, surface and p-curve (default: model.Normalized)
func WithParameterization(p model.Parameterization) Option {
	return func(r *Resolver) {
		r.param = p
	}
}

// New creates a resolver over idx
func New(idx *index.Index, opts ...Option) *Resolver {
	r := &Resolver{
		index:    idx,
		cache:    make(map[string]Decoded),
		visited:  make(map[string]bool),
		maxDepth: 100,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Index returns the index the resolver reads from
func (r *Resolver) Index() *index.Index {
	return r.index
}

// Entity returns the raw entity with the given name, or a *core.ReferenceError
func (r *Resolver) Entity(name string) (*core.Entity, error) {
	return r.index.Get(name)
}

// Names returns the names of all entities of a kind in file order
func (r *Resolver) Names(kind core.Kind) []string {
	return r.index.Names(kind)
}

// Decode decodes the named entity according to its kind
func (r *Resolver) Decode(name string) (Decoded, error) {
	if d, ok := r.cache[name]; ok {
		return d, nil
	}

	e, err := r.index.Get(name)
	if err != nil {
		return nil, err
	}

	var d Decoded
	switch e.Kind {
	case core.KindCurve:
		d, err = curve.Decode(e, curve.WithParameterization(r.param))
	case core.KindSurf:
		d, err = surface.Decode(e, surface.WithParameterization(r.param))
	case core.KindCons:
		d, err = topology.DecodeCons(e, r, topology.WithParameterization(r.param))
	case core.KindFace:
		d, err = topology.DecodeFace(e, r)
	case core.KindPoint, core.KindPSet, core.KindMDI:
		d, err = points.Decode(e)
	default:
		d = Unknown{Entity: e}
	}
	if err != nil {
		return nil, err
	}

	r.cache[name] = d
	return d, nil
}

// decodeAs decodes name after checking that it has the wanted kind
func (r *Resolver) decodeAs(name string, want core.Kind) (Decoded, error) {
	e, err := r.index.Get(name)
	if err != nil {
		return nil, err
	}
	if err := core.CheckKind(e, want); err != nil {
		return nil, err
	}
	return r.Decode(name)
}

// Curve returns the decoded CURVE with the given name
func (r *Resolver) Curve(name string) (*curve.Curve, error) {
	d, err := r.decodeAs(name, core.KindCurve)
	if err != nil {
		return nil, err
	}
	return d.(*curve.Curve), nil
}

// Surface returns the decoded SURF with the given name
func (r *Resolver) Surface(name string) (*surface.Surface, error) {
	d, err := r.decodeAs(name, core.KindSurf)
	if err != nil {
		return nil, err
	}
	return d.(*surface.Surface), nil
}

// Cons returns the decoded CONS with the given name
func (r *Resolver) Cons(name string) (*topology.Cons, error) {
	d, err := r.decodeAs(name, core.KindCons)
	if err != nil {
		return nil, err
	}
	return d.(*topology.Cons), nil
}

// Face returns the decoded FACE with the given name
func (r *Resolver) Face(name string) (*topology.Face, error) {
	d, err := r.decodeAs(name, core.KindFace)
	if err != nil {
		return nil, err
	}
	return d.(*topology.Face), nil
}

// Points returns the decoded POINT, PSET or MDI entity with the given name
func (r *Resolver) Points(name string) (*points.Set, error) {
	e, err := r.index.Get(name)
	if err != nil {
		return nil, err
	}
	switch e.Kind {
	case core.KindPoint, core.KindPSet, core.KindMDI:
	default:
		return nil, fmt.Errorf("%s is %s, not a point entity: %w", name, e.Command, core.ErrKindMismatch)
	}
	d, err := r.Decode(name)
	if err != nil {
		return nil, err
	}
	return d.(*points.Set), nil
}

// references returns the names an entity refers to, without decoding
// geometry: FACE -> SURF, CONS...; CONS -> SURF, CURVE
func references(e *core.Entity) ([]string, error) {
	switch e.Kind {
	case core.KindFace:
		surf, cons, err := topology.FaceRefs(e)
		if err != nil {
			return nil, err
		}
		return append([]string{surf}, cons...), nil
	case core.KindCons:
		surf, crv, err := topology.ConsRefs(e)
		if err != nil {
			return nil, err
		}
		return []string{surf, crv}, nil
	default:
		return nil, nil
	}
}

// DependencyClosure returns the given names and every entity they reach
// through FACE -> SURF, FACE -> CONS, CONS -> CURVE and CONS -> SURF, each
// once, in first-visit order. A dangling reference is a *core.ReferenceError.
func (r *Resolver) DependencyClosure(names ...string) ([]string, error) {
	defer r.Reset()

	seen := make(map[string]bool)
	var out []string
	for _, name := range names {
		if err := r.collect(name, "", seen, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// collect is the internal closure walk
func (r *Resolver) collect(name, from string, seen map[string]bool, out *[]string) error {
	// Check depth limit
	if r.currentDepth >= r.maxDepth {
		return fmt.Errorf("maximum reference depth (%d) exceeded at %s", r.maxDepth, name)
	}

	// Check for cycles
	if r.visited[name] {
		return fmt.Errorf("circular reference detected at %s", name)
	}
	if seen[name] {
		return nil
	}

	e, ok := r.index.Lookup(name)
	if !ok {
		return &core.ReferenceError{Name: name, From: from}
	}
	seen[name] = true
	*out = append(*out, name)

	refs, err := references(e)
	if err != nil {
		return err
	}

	r.visited[name] = true
	defer delete(r.visited, name)

	for _, ref := range refs {
		r.currentDepth++
		err := r.collect(ref, name, seen, out)
		r.currentDepth--
		if err != nil {
			return err
		}
	}
	return nil
}

// Reset clears the visited map and depth counter
func (r *Resolver) Reset() {
	r.visited = make(map[string]bool)
	r.currentDepth = 0
}

// Purge drops every memoized decode
func (r *Resolver) Purge() {
	r.cache = make(map[string]Decoded)
}
