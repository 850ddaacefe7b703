package surface

import (
	"fmt"

	"github.com/tsawler/vdafs/internal/poly"
	"github.com/tsawler/vdafs/model"
)

// Wireframe is a set of iso-parameter polylines of a surface
type Wireframe struct {
	ULines []model.Polyline // constant u, swept along v
	VLines []model.Polyline // constant v, swept along u
}

// Lines returns all polylines, ULines first
func (w Wireframe) Lines() []model.Polyline {
	out := make([]model.Polyline, 0, len(w.ULines)+len(w.VLines))
	out = append(out, w.ULines...)
	return append(out, w.VLines...)
}

// isoValues returns n equally spaced values covering [lo, hi] including both
// ends. A single value lies mid-domain.
func isoValues(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{(lo + hi) / 2}
	}
	return poly.Steps(lo, hi, n-1)
}

// SampleWireframe returns isoLines lines per parameter direction, each
// sampled at samplesPerLine points through Evaluate. The result depends only
// on the arguments.
func SampleWireframe(s *Surface, isoLines, samplesPerLine int) (Wireframe, error) {
	if isoLines < 1 {
		return Wireframe{}, fmt.Errorf("iso lines per axis must be positive, got %d", isoLines)
	}
	if samplesPerLine < 2 {
		return Wireframe{}, fmt.Errorf("samples per line must be at least 2, got %d", samplesPerLine)
	}

	// Bounds come from the breakpoints themselves; the domain box stores a
	// width and height that do not round-trip to the upper ends.
	u0, u1 := s.UParams[0], s.UParams[len(s.UParams)-1]
	v0, v1 := s.VParams[0], s.VParams[len(s.VParams)-1]
	us := isoValues(u0, u1, isoLines)
	vs := isoValues(v0, v1, isoLines)
	sweepU := poly.Steps(u0, u1, samplesPerLine-1)
	sweepV := poly.Steps(v0, v1, samplesPerLine-1)

	var w Wireframe
	for _, u := range us {
		line := make(model.Polyline, len(sweepV))
		for k, v := range sweepV {
			p, err := s.Evaluate(u, v)
			if err != nil {
				return Wireframe{}, err
			}
			line[k] = p
		}
		w.ULines = append(w.ULines, line)
	}
	for _, v := range vs {
		line := make(model.Polyline, len(sweepU))
		for k, u := range sweepU {
			p, err := s.Evaluate(u, v)
			if err != nil {
				return Wireframe{}, err
			}
			line[k] = p
		}
		w.VLines = append(w.VLines, line)
	}
	return w, nil
}

// SamplePatches samples every patch on its own local grid: mu+1 lines of
// constant u and mv+1 lines of constant v per patch, patch borders included.
// Values below 2 are raised to 2.
func SamplePatches(s *Surface, mu, mv int) Wireframe {
	mu = max(mu, 2)
	mv = max(mv, 2)
	fu := poly.Steps(0, 1, mu)
	fv := poly.Steps(0, 1, mv)

	var w Wireframe
	for pi := range s.Patches {
		p := &s.Patches[pi]
		for _, b := range fv {
			line := make(model.Polyline, len(fu))
			for k, a := range fu {
				line[k] = s.Local(p, a, b)
			}
			w.VLines = append(w.VLines, line)
		}
		for _, a := range fu {
			line := make(model.Polyline, len(fv))
			for k, b := range fv {
				line[k] = s.Local(p, a, b)
			}
			w.ULines = append(w.ULines, line)
		}
	}
	return w
}

// Seam is the gap between two neighbouring patches along their shared edge.
// Axis is "u" for patches (UIndex, VIndex) and (UIndex+1, VIndex), "v" for
// patches (UIndex, VIndex) and (UIndex, VIndex+1).
type Seam struct {
	Axis   string
	UIndex int
	VIndex int
	Max    float64
	Mean   float64
}

// String returns a one-line report of the seam
func (s Seam) String() string {
	if s.Axis == "v" {
		return fmt.Sprintf("seam (u_idx=%d, v=%d|%d) max=%.6g mean=%.6g", s.UIndex, s.VIndex, s.VIndex+1, s.Max, s.Mean)
	}
	return fmt.Sprintf("seam (v_idx=%d, u=%d|%d) max=%.6g mean=%.6g", s.VIndex, s.UIndex, s.UIndex+1, s.Max, s.Mean)
}

// CheckSeams compares both sides of every interior patch edge at samples
// evenly spaced points. A continuous surface reports zero gaps.
func CheckSeams(s *Surface, samples int) []Seam {
	samples = max(samples, 2)
	steps := poly.Steps(0, 1, samples-1)

	measure := func(a, b *Patch, onA, onB func(t float64) (float64, float64)) (float64, float64) {
		var maxGap, sum float64
		for _, t := range steps {
			au, av := onA(t)
			bu, bv := onB(t)
			d := s.Local(a, au, av).Distance(s.Local(b, bu, bv))
			maxGap = max(maxGap, d)
			sum += d
		}
		return maxGap, sum / float64(len(steps))
	}

	var seams []Seam
	for i := 0; i < s.NU(); i++ {
		for j := 0; j+1 < s.NV(); j++ {
			mx, mean := measure(s.Patch(i, j), s.Patch(i, j+1),
				func(t float64) (float64, float64) { return t, 1 },
				func(t float64) (float64, float64) { return t, 0 })
			seams = append(seams, Seam{Axis: "v", UIndex: i, VIndex: j, Max: mx, Mean: mean})
		}
	}
	for j := 0; j < s.NV(); j++ {
		for i := 0; i+1 < s.NU(); i++ {
			mx, mean := measure(s.Patch(i, j), s.Patch(i+1, j),
				func(t float64) (float64, float64) { return 1, t },
				func(t float64) (float64, float64) { return 0, t })
			seams = append(seams, Seam{Axis: "u", UIndex: i, VIndex: j, Max: mx, Mean: mean})
		}
	}
	return seams
}
