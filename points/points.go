// Package points decodes the VDA-FS point entities POINT, PSET and MDI.
package points

import (
	"fmt"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/model"
)

// Set is a decoded point entity. POINT holds exactly one point. MDI entities
// that carry a count also carry one direction per point.
type Set struct {
	Name       string
	Kind       core.Kind
	Points     []model.Vec3
	Directions []model.Vec3
}

// Decode decodes a POINT, PSET or MDI entity.
//
// POINT is x, y, z. PSET is an optional point count n followed by the
// coordinate triples. MDI is either n followed by n (point, direction)
// sextuples, or plain coordinate triples.
func Decode(e *core.Entity) (*Set, error) {
	switch e.Kind {
	case core.KindPoint, core.KindPSet, core.KindMDI:
	default:
		return nil, fmt.Errorf("%s is %s, not a point entity: %w", e.Name, e.Command, core.ErrKindMismatch)
	}

	fail := func(format string, args ...any) (*Set, error) {
		return nil, &core.MalformedEntityError{Name: e.Name, Kind: e.Kind, Reason: fmt.Sprintf(format, args...)}
	}

	nums := make([]float64, len(e.Params))
	for i, p := range e.Params {
		f, ok := core.AsFloat(p)
		if !ok {
			return fail("parameter %d must be numeric, got %s", i+1, p)
		}
		nums[i] = f
	}

	set := &Set{Name: e.Name, Kind: e.Kind}

	if e.Kind == core.KindPoint {
		if len(nums) != 3 {
			return fail("expected 3 coordinates, got %d", len(nums))
		}
		set.Points = triples(nums)
		return set, nil
	}

	if n, ok := leadingCount(e.Params); ok {
		switch {
		case len(nums)-1 == 3*n:
			set.Points = triples(nums[1:])
			return set, nil
		case e.Kind == core.KindMDI && len(nums)-1 == 6*n:
			for i := 0; i < n; i++ {
				b := 1 + 6*i
				set.Points = append(set.Points, model.Vec3{X: nums[b], Y: nums[b+1], Z: nums[b+2]})
				set.Directions = append(set.Directions, model.Vec3{X: nums[b+3], Y: nums[b+4], Z: nums[b+5]})
			}
			return set, nil
		}
	}

	if len(nums) == 0 || len(nums)%3 != 0 {
		return fail("%d values do not form complete coordinate triples", len(nums))
	}
	set.Points = triples(nums)
	return set, nil
}

// leadingCount reports whether the first parameter is a positive integer token
func leadingCount(params []core.Param) (int, bool) {
	if len(params) == 0 {
		return 0, false
	}
	n, ok := params[0].(core.Int)
	if !ok || n <= 0 {
		return 0, false
	}
	return int(n), true
}

func triples(nums []float64) []model.Vec3 {
	pts := make([]model.Vec3, 0, len(nums)/3)
	for i := 0; i+2 < len(nums); i += 3 {
		pts = append(pts, model.Vec3{X: nums[i], Y: nums[i+1], Z: nums[i+2]})
	}
	return pts
}

// Bounds returns the component-wise minimum and maximum of the points
func (s *Set) Bounds() (lo, hi model.Vec3) {
	for i, p := range s.Points {
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo = model.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = model.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}

// EntityName returns the name of the point entity
func (s *Set) EntityName() string {
	return s.Name
}
