package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/vdafs/model"
)

func isBackground(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func square() []model.Point {
	return []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
}

func TestProjection(t *testing.T) {
	v := model.Vec3{X: 1, Y: 2, Z: 3}

	tests := []struct {
		name string
		want model.Point
	}{
		{"xy", model.Point{X: 1, Y: 2}},
		{"YZ", model.Point{X: 2, Y: 3}},
		{"xz", model.Point{X: 1, Y: 3}},
		{"iso", model.Point{X: -math.Cos(math.Pi / 6), Y: 3 + 3*math.Sin(math.Pi/6)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseProjection(tt.name)
			require.NoError(t, err)
			got := p.Project(v)
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
		})
	}

	_, err := ParseProjection("top")
	assert.Error(t, err)
	assert.Equal(t, "iso", Iso.String())

	lines := XY.Polylines([]model.Polyline{{v, v}})
	require.Len(t, lines, 1)
	assert.Equal(t, []model.Point{{X: 1, Y: 2}, {X: 1, Y: 2}}, lines[0])
}

func TestRenderClosedLoop(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height, opts.Margin = 100, 100, 10
	opts.LineWidth = 2
	opts.Legend = false

	plot := &Plot{}
	plot.Add(Series{Name: "loop", Lines: [][]model.Point{square()}, Closed: true})

	img, err := plot.Render(opts)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())

	// The unit square fills the area inside the margins
	assert.False(t, isBackground(img.At(50, 90)), "bottom edge")
	assert.False(t, isBackground(img.At(90, 50)), "right edge")
	assert.False(t, isBackground(img.At(50, 10)), "top edge")
	assert.False(t, isBackground(img.At(10, 50)), "closing edge")
	assert.True(t, isBackground(img.At(50, 50)), "interior")
	assert.True(t, isBackground(img.At(2, 2)), "margin")

	// Without closing, the left edge is missing
	open := &Plot{Series: []Series{{Lines: [][]model.Point{square()}}}}
	img, err = open.Render(opts)
	require.NoError(t, err)
	assert.True(t, isBackground(img.At(10, 50)))
}

func TestRenderPointsAndTitle(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 200, 200

	plot := &Plot{Title: "PSET P1"}
	plot.Add(Series{Name: "P1", Points: []model.Point{{X: 0, Y: 0}, {X: 4, Y: 2}}})

	img, err := plot.Render(opts)
	require.NoError(t, err)

	titleInk := false
	for x := opts.Margin; x < opts.Margin+60; x++ {
		for y := 2; y < 16; y++ {
			if !isBackground(img.At(x, y)) {
				titleInk = true
			}
		}
	}
	assert.True(t, titleInk, "title should be drawn")

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, img))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestRenderDegenerate(t *testing.T) {
	opts := DefaultOptions()

	_, err := (&Plot{}).Render(opts)
	assert.True(t, errors.Is(err, ErrEmptyPlot))

	// A single point still renders
	single := &Plot{Series: []Series{{Points: []model.Point{{X: 3, Y: 3}}}}}
	img, err := single.Render(opts)
	require.NoError(t, err)
	assert.False(t, isBackground(img.At(opts.Width/2, opts.Height/2)))

	opts.Margin = opts.Width
	_, err = single.Render(opts)
	assert.Error(t, err)
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.png")
	plot := &Plot{Series: []Series{{Lines: [][]model.Point{square()}}}}
	require.NoError(t, plot.SavePNG(path, DefaultOptions()))
	assert.FileExists(t, path)
}
