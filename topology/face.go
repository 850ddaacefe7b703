package topology

import (
	"errors"
	"fmt"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/internal/cursor"
	"github.com/tsawler/vdafs/surface"
)

// Edge is one CONS of a FACE loop, traversed from From to To
type Edge struct {
	ConsRef     string
	Cons        *Cons
	From        float64
	To          float64
	Orientation Orientation
}

// Range returns the parameter range the edge traverses. An edge whose
// From and To coincide uses the full range of its CONS.
func (e Edge) Range() (float64, float64) {
	if e.From == e.To && e.Cons != nil {
		return e.Cons.TStart, e.Cons.TEnd
	}
	return e.From, e.To
}

// Face is a decoded FACE: a SURF bounded by loops of CONS edges. The first
// loop is conventionally the outer boundary.
type Face struct {
	Name    string
	SurfRef string
	Surface *surface.Surface
	Loops   [][]Edge
}

// ConsRefs returns the distinct CONS names of all loops in first-use order
func (f *Face) ConsRefs() []string {
	seen := make(map[string]bool)
	var names []string
	for _, loop := range f.Loops {
		for _, e := range loop {
			if !seen[e.ConsRef] {
				seen[e.ConsRef] = true
				names = append(names, e.ConsRef)
			}
		}
	}
	return names
}

// FaceRefs extracts the references of a FACE without resolving them: its
// SURF followed by its CONS names in first-use order
func FaceRefs(e *core.Entity) (string, []string, error) {
	surf, loops, err := decodeFaceLayout(e)
	if err != nil {
		return "", nil, err
	}
	f := &Face{Loops: loops}
	return surf, f.ConsRefs(), nil
}

// ConsRefs extracts the SURF and CURVE references of a CONS without
// resolving them
func ConsRefs(e *core.Entity) (surf, crv string, err error) {
	if err := core.CheckKind(e, core.KindCons); err != nil {
		return "", "", err
	}
	c := cursor.New(e)
	if surf, err = c.Name("SURF reference"); err != nil {
		return "", "", &core.MalformedEntityError{Name: e.Name, Kind: core.KindCons, Reason: err.Error()}
	}
	if crv, err = c.Name("CURVE reference"); err != nil {
		return "", "", &core.MalformedEntityError{Name: e.Name, Kind: core.KindCons, Reason: err.Error()}
	}
	return surf, crv, nil
}

// DecodeFace decodes a FACE entity and resolves its SURF and every CONS.
// The layout is
//
//	SURF [, m], then per loop: count, count x (CONS, w1, w2)
//
// The loop count m is optional. Any dangling reference is a
// *core.ReferenceError naming the FACE.
func DecodeFace(e *core.Entity, refs Source) (*Face, error) {
	surfRef, loops, err := decodeFaceLayout(e)
	if err != nil {
		return nil, err
	}

	resolveErr := func(err error) error {
		var re *core.ReferenceError
		if errors.As(err, &re) && re.From == "" {
			return &core.ReferenceError{Name: re.Name, From: e.Name}
		}
		return fmt.Errorf("FACE %s: %w", e.Name, err)
	}

	srf, err := refs.Surface(surfRef)
	if err != nil {
		return nil, resolveErr(err)
	}
	for _, loop := range loops {
		for i := range loop {
			cons, err := refs.Cons(loop[i].ConsRef)
			if err != nil {
				return nil, resolveErr(err)
			}
			loop[i].Cons = cons
		}
	}

	return &Face{
		Name:    e.Name,
		SurfRef: surfRef,
		Surface: srf,
		Loops:   loops,
	}, nil
}

// decodeFaceLayout reads the FACE parameter stream without resolving names
func decodeFaceLayout(e *core.Entity) (string, [][]Edge, error) {
	if err := core.CheckKind(e, core.KindFace); err != nil {
		return "", nil, err
	}
	fail := func(err error) (string, [][]Edge, error) {
		return "", nil, &core.MalformedEntityError{Name: e.Name, Kind: core.KindFace, Reason: err.Error()}
	}

	c := cursor.New(e)
	surfRef, err := c.Name("SURF reference")
	if err != nil {
		return fail(err)
	}

	// An explicit loop count is followed by the first loop's edge count;
	// without it the next integer is already an edge count.
	loopCount := -1
	if c.Remaining() >= 2 {
		first, _ := c.Peek()
		if _, ok := core.AsInt(first); ok && isCountAt(e, c.Pos()+1) {
			if loopCount, err = c.Count("loop count"); err != nil {
				return fail(err)
			}
		}
	}

	var loops [][]Edge
	for n := 0; (loopCount < 0 && c.Remaining() > 0) || n < loopCount; n++ {
		count, err := c.Count(fmt.Sprintf("edge count of loop %d", n+1))
		if err != nil {
			return fail(err)
		}
		loop := make([]Edge, count)
		for i := range loop {
			what := fmt.Sprintf("edge %d of loop %d", i+1, n+1)
			ref, err := c.Name("CONS reference of " + what)
			if err != nil {
				return fail(err)
			}
			w1, err := c.Float("start parameter of " + what)
			if err != nil {
				return fail(err)
			}
			w2, err := c.Float("end parameter of " + what)
			if err != nil {
				return fail(err)
			}
			loop[i] = Edge{ConsRef: ref, From: w1, To: w2, Orientation: orientationOf(w1, w2)}
		}
		loops = append(loops, loop)
	}
	if err := c.Done(); err != nil {
		return fail(err)
	}
	if len(loops) == 0 {
		return fail(errors.New("no boundary loops"))
	}
	return surfRef, loops, nil
}

// isCountAt reports whether parameter i of e is an integer count
func isCountAt(e *core.Entity, i int) bool {
	if i >= len(e.Params) {
		return false
	}
	_, ok := core.AsInt(e.Params[i])
	return ok
}

// EntityName returns the name of the FACE entity
func (f *Face) EntityName() string {
	return f.Name
}
