package surface

import (
	"fmt"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/internal/cursor"
	"github.com/tsawler/vdafs/internal/poly"
	"github.com/tsawler/vdafs/model"
)

// MalformedSurfaceError reports a SURF whose parameter stream does not match
// its declared patch counts and orders
type MalformedSurfaceError struct {
	Name   string
	Reason string
}

func (e *MalformedSurfaceError) Error() string {
	return fmt.Sprintf("malformed SURF %s: %s", e.Name, e.Reason)
}

// Patch is one polynomial piece of a surface. X, Y and Z are OrderU rows of
// OrderV coefficients; row i column j multiplies u^i v^j.
type Patch struct {
	UIndex int
	VIndex int
	OrderU int
	OrderV int
	U0, U1 float64
	V0, V1 float64
	X      [][]float64
	Y      [][]float64
	Z      [][]float64
}

// Surface is a decoded SURF entity: a grid of patches over the breakpoints
// UParams x VParams
type Surface struct {
	Name    string
	UParams []float64
	VParams []float64
	Patches []Patch // u-major: patch (i, j) is Patches[i*NV()+j]

	param model.Parameterization
}

// Option configures decoding
type Option func(*options)

type options struct {
	param model.Parameterization
}

// WithParameterization sets the local parameter convention of the patches
// (default: model.Normalized)
func WithParameterization(p model.Parameterization) Option {
	return func(o *options) {
		o.param = p
	}
}

// Decode decodes a SURF entity. The parameter layout is
//
//	nu, nv, upar[0..nu], vpar[0..nv],
//	then nu*nv patches in u-major order, each: Ku, Kv, Ku*Kv X, Ku*Kv Y, Ku*Kv Z
func Decode(e *core.Entity, opts ...Option) (*Surface, error) {
	if err := core.CheckKind(e, core.KindSurf); err != nil {
		return nil, err
	}

	o := options{param: model.Normalized}
	for _, opt := range opts {
		opt(&o)
	}

	fail := func(err error) (*Surface, error) {
		return nil, &MalformedSurfaceError{Name: e.Name, Reason: err.Error()}
	}

	c := cursor.New(e)
	nu, err := c.Count("u patch count")
	if err != nil {
		return fail(err)
	}
	nv, err := c.Count("v patch count")
	if err != nil {
		return fail(err)
	}
	upar, err := c.Floats(nu+1, "u parameters")
	if err != nil {
		return fail(err)
	}
	vpar, err := c.Floats(nv+1, "v parameters")
	if err != nil {
		return fail(err)
	}
	if !poly.Increasing(upar) {
		return fail(fmt.Errorf("u parameters not strictly increasing: %v", upar))
	}
	if !poly.Increasing(vpar) {
		return fail(fmt.Errorf("v parameters not strictly increasing: %v", vpar))
	}

	var patches []Patch
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			where := fmt.Sprintf("patch (%d,%d)", i+1, j+1)
			ku, err := c.Count("u order of " + where)
			if err != nil {
				return fail(err)
			}
			kv, err := c.Count("v order of " + where)
			if err != nil {
				return fail(err)
			}
			coeffs, err := c.Blocks(ku, 3*kv, "coefficients of "+where)
			if err != nil {
				return fail(err)
			}
			patches = append(patches, Patch{
				UIndex: i,
				VIndex: j,
				OrderU: ku,
				OrderV: kv,
				U0:     upar[i],
				U1:     upar[i+1],
				V0:     vpar[j],
				V1:     vpar[j+1],
				X:      matrix(coeffs[:ku*kv], ku, kv),
				Y:      matrix(coeffs[ku*kv:2*ku*kv], ku, kv),
				Z:      matrix(coeffs[2*ku*kv:], ku, kv),
			})
		}
	}
	if err := c.Done(); err != nil {
		return fail(err)
	}

	return &Surface{
		Name:    e.Name,
		UParams: upar,
		VParams: vpar,
		Patches: patches,
		param:   o.param,
	}, nil
}

// matrix slices flat row-major data into rows of cols values
func matrix(flat []float64, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = flat[i*cols : (i+1)*cols]
	}
	return m
}

// NU returns the number of patches along u
func (s *Surface) NU() int {
	return len(s.UParams) - 1
}

// NV returns the number of patches along v
func (s *Surface) NV() int {
	return len(s.VParams) - 1
}

// Patch returns patch (i, j), or nil when the indices are out of range
func (s *Surface) Patch(i, j int) *Patch {
	if i < 0 || i >= s.NU() || j < 0 || j >= s.NV() {
		return nil
	}
	return &s.Patches[i*s.NV()+j]
}

// Domain returns the global parameter box. X/Width span u, Y/Height span v.
func (s *Surface) Domain() model.BBox {
	u0, u1 := s.UParams[0], s.UParams[len(s.UParams)-1]
	v0, v1 := s.VParams[0], s.VParams[len(s.VParams)-1]
	return model.NewBBox(u0, v0, u1-u0, v1-v0)
}

// Parameterization returns the local parameter convention of the patches
func (s *Surface) Parameterization() model.Parameterization {
	return s.param
}

// Evaluate returns the point at global parameters (u, v). Each axis is
// located like a curve parameter: patches are lower-closed and only the last
// patch along an axis is upper-closed. A parameter outside the box is a
// *core.DomainError.
func (s *Surface) Evaluate(u, v float64) (model.Vec3, error) {
	i, ok := poly.Locate(s.UParams, u)
	if !ok {
		return model.Vec3{}, &core.DomainError{Name: s.Name + " u", Value: u, Min: s.UParams[0], Max: s.UParams[len(s.UParams)-1]}
	}
	j, ok := poly.Locate(s.VParams, v)
	if !ok {
		return model.Vec3{}, &core.DomainError{Name: s.Name + " v", Value: v, Min: s.VParams[0], Max: s.VParams[len(s.VParams)-1]}
	}
	p := s.Patch(i, j)
	return p.at(s.param.Local(u, p.U0, p.U1), s.param.Local(v, p.V0, p.V1)), nil
}

// at evaluates the patch at local parameters
func (p *Patch) at(lu, lv float64) model.Vec3 {
	return model.Vec3{
		X: poly.Horner2(p.X, lu, lv),
		Y: poly.Horner2(p.Y, lu, lv),
		Z: poly.Horner2(p.Z, lu, lv),
	}
}

// Local evaluates the patch at local parameters in [0, 1] along both axes,
// whatever the surface's parameterization
func (s *Surface) Local(p *Patch, fu, fv float64) model.Vec3 {
	u := p.U0 + fu*(p.U1-p.U0)
	v := p.V0 + fv*(p.V1-p.V0)
	return p.at(s.param.Local(u, p.U0, p.U1), s.param.Local(v, p.V0, p.V1))
}

// EntityName returns the name of the SURF entity
func (s *Surface) EntityName() string {
	return s.Name
}
