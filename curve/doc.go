// Package curve decodes and evaluates VDA-FS CURVE entities.
//
// A CURVE is a sequence of polynomial segments in the monomial basis. The
// segment boundaries are given by a strictly increasing list of global
// parameters; segment k covers [par[k], par[k+1]). The last segment also
// covers its right end.
//
// Evaluation maps the global parameter to the segment's local parameter
// (see [model.Parameterization]) and evaluates each coordinate with Horner's
// rule:
//
//	c, err := curve.Decode(entity)
//	p, err := c.Evaluate(1.5) // *core.DomainError outside the domain
//
// Continuity across breakpoints is a property of the input, not something
// the evaluator enforces. [Curve.CheckContinuity] measures it.
package curve
