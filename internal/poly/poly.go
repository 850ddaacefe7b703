// Package poly evaluates monomial-basis polynomials and locates parameters
// in breakpoint sequences.
package poly

// Horner evaluates c[0] + c[1]u + ... + c[n-1]u^(n-1)
func Horner(c []float64, u float64) float64 {
	s := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		s = s*u + c[i]
	}
	return s
}

// Horner2 evaluates the bivariate polynomial sum c[i][j] u^i v^j.
// Each row is reduced in v first, then the row values are combined in u.
func Horner2(c [][]float64, u, v float64) float64 {
	s := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		s = s*u + Horner(c[i], v)
	}
	return s
}

// Locate returns the index k of the interval [b[k], b[k+1]) containing t.
// The last interval is closed on the right. ok is false when t lies outside
// [b[0], b[len(b)-1]] or is NaN.
func Locate(b []float64, t float64) (k int, ok bool) {
	n := len(b) - 1
	if n < 1 || !(t >= b[0] && t <= b[n]) {
		return 0, false
	}
	lo, hi := 0, n-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b[mid] <= t {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, true
}

// Increasing reports whether b is strictly increasing
func Increasing(b []float64) bool {
	for i := 1; i < len(b); i++ {
		if !(b[i] > b[i-1]) {
			return false
		}
	}
	return true
}

// Steps returns n+1 evenly spaced values from a to b. The last value is b
// exactly, so sampling never steps past a domain end through rounding.
func Steps(a, b float64, n int) []float64 {
	if n < 1 {
		return []float64{a}
	}
	out := make([]float64, n+1)
	for i := 0; i < n; i++ {
		out[i] = a + (b-a)*float64(i)/float64(n)
	}
	out[n] = b
	return out
}
