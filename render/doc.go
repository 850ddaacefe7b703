// Package render draws plane geometry into PNG images.
//
// Callers project model space with a [Projection], group the results into
// [Series] and render a [Plot]:
//
//	plot := &render.Plot{Title: "CURVE CV1"}
//	plot.Add(render.Series{Name: "CV1", Lines: [][]model.Point{render.Iso.Polyline(pts)}})
//	err := plot.SavePNG("cv1.png", render.DefaultOptions())
//
// Plots keep equal scale on both axes. Lines are stroked with
// golang.org/x/image/vector and text uses the fixed 7x13 face of
// golang.org/x/image/font/basicfont.
package render
