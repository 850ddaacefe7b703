// Package topology decodes the VDA-FS topology entities CONS and FACE and
// maps face boundary loops into a surface's parameter plane.
//
// A CONS bounds a piece [t_start, t_end] of a CURVE and may carry a p-curve:
// the same piece expressed in the (s, t) parameters of the SURF it lies on.
// A FACE names a SURF and one or more loops of CONS edges; the first loop is
// the outer boundary.
//
// Decoding resolves references through a [Source], normally a
// resolver.Resolver:
//
//	face, err := topology.DecodeFace(entity, res)
//	uv, err := topology.MapLoopToUV(face, 0, 20)
//
// The returned loop is deduplicated at edge junctions and implicitly closed.
package topology
