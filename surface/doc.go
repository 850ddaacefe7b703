// Package surface decodes and evaluates VDA-FS SURF entities.
//
// A SURF is a rectangular grid of polynomial patches. Patch (i, j) covers
// [upar[i], upar[i+1]) x [vpar[j], vpar[j+1]) in global parameters and holds
// one coefficient matrix per coordinate. Evaluation locates the patch on each
// axis with the same boundary rule as a curve, then evaluates the matrix with
// a double-nested Horner scheme.
//
// [SampleWireframe] produces global iso-line grids for drawing,
// [SamplePatches] draws each patch separately and [CheckSeams] measures
// gaps along interior patch edges.
package surface
