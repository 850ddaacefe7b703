// Package model provides the geometric value types shared by the decoders
// and their consumers.
//
// [Vec3] and [Polyline] hold model-space samples produced by curve and
// surface evaluation. [Point] holds 2D points, either (s,t) coordinates in a
// surface's parameter plane or projected model-space points. [BBox] is used
// both for a surface's parameter box and for drawing extents, and [Matrix]
// maps drawing coordinates onto an image.
package model
