package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/tsawler/vdafs/model"
)

// ErrEmptyPlot is returned when a plot holds no points to draw
var ErrEmptyPlot = errors.New("nothing to plot")

// Palette is the series color cycle
var Palette = []color.RGBA{
	{0x1f, 0x77, 0xb4, 0xff}, // blue
	{0xff, 0x7f, 0x0e, 0xff}, // orange
	{0x2c, 0xa0, 0x2c, 0xff}, // green
	{0xd6, 0x27, 0x28, 0xff}, // red
	{0x94, 0x67, 0xbd, 0xff}, // purple
	{0x8c, 0x56, 0x4b, 0xff}, // brown
	{0xe3, 0x77, 0xc2, 0xff}, // pink
	{0x7f, 0x7f, 0x7f, 0xff}, // gray
	{0xbc, 0xbd, 0x22, 0xff}, // olive
	{0x17, 0xbe, 0xcf, 0xff}, // cyan
}

// Series is one named, single-colored set of drawing primitives in plane
// coordinates
type Series struct {
	Name   string
	Lines  [][]model.Point
	Points []model.Point
	Closed bool // draw a segment from the last point of each line back to the first
}

// Plot is a titled collection of series
type Plot struct {
	Title  string
	Series []Series
}

// Options controls rasterization
type Options struct {
	Width      int
	Height     int
	Margin     int
	LineWidth  float64
	Background color.Color
	Legend     bool
}

// DefaultOptions returns the default rendering options
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     800,
		Margin:     20,
		LineWidth:  1,
		Background: color.White,
		Legend:     true,
	}
}

// Add appends a series and returns the plot for chaining
func (p *Plot) Add(s Series) *Plot {
	p.Series = append(p.Series, s)
	return p
}

// Bounds returns the box around every line and point of the plot
func (p *Plot) Bounds() (model.BBox, bool) {
	var all []model.Point
	for _, s := range p.Series {
		for _, line := range s.Lines {
			all = append(all, line...)
		}
		all = append(all, s.Points...)
	}
	return model.BoundsOf(all)
}

// viewport maps plane coordinates into pixels: box fitted into the area
// inside the margins with equal scale on both axes, y pointing up
func viewport(box model.BBox, opts Options) model.Matrix {
	if box.Width <= 0 {
		box = model.NewBBox(box.X-0.5, box.Y, 1, box.Height)
	}
	if box.Height <= 0 {
		box = model.NewBBox(box.X, box.Y-0.5, box.Width, 1)
	}
	areaW := float64(opts.Width - 2*opts.Margin)
	areaH := float64(opts.Height - 2*opts.Margin)
	scale := math.Min(areaW/box.Width, areaH/box.Height)

	offX := float64(opts.Margin) + (areaW-box.Width*scale)/2
	offY := float64(opts.Margin) + (areaH-box.Height*scale)/2

	return model.Translate(-box.X, -box.Y).
		Multiply(model.Scale(scale, -scale)).
		Multiply(model.Translate(offX, float64(opts.Height)-offY))
}

// Render rasterizes the plot. Series are drawn in order, each in the next
// palette color; the title is drawn on top.
func (p *Plot) Render(opts Options) (*image.RGBA, error) {
	if opts.Width <= 2*opts.Margin || opts.Height <= 2*opts.Margin {
		return nil, fmt.Errorf("image size %dx%d leaves no room inside margin %d", opts.Width, opts.Height, opts.Margin)
	}
	if opts.LineWidth <= 0 {
		return nil, fmt.Errorf("line width must be positive, got %g", opts.LineWidth)
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	box, ok := p.Bounds()
	if !ok {
		return nil, ErrEmptyPlot
	}
	m := viewport(box, opts)

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	ras := vector.NewRasterizer(opts.Width, opts.Height)
	half := float32(opts.LineWidth / 2)
	for i, s := range p.Series {
		ras.Reset(opts.Width, opts.Height)
		for _, line := range s.Lines {
			px := make([]model.Point, len(line))
			for k, pt := range line {
				px[k] = m.Transform(pt)
			}
			for k := 0; k+1 < len(px); k++ {
				stroke(ras, px[k], px[k+1], half)
			}
			if s.Closed && len(px) > 2 {
				stroke(ras, px[len(px)-1], px[0], half)
			}
		}
		for _, pt := range s.Points {
			dot(ras, m.Transform(pt), half+1.5)
		}
		ras.Draw(img, img.Bounds(), image.NewUniform(Palette[i%len(Palette)]), image.Point{})
	}

	if p.Title != "" {
		label(img, opts.Margin, 14, p.Title, color.Black)
	}
	if opts.Legend {
		y := 14 + 16
		for i, s := range p.Series {
			if s.Name == "" {
				continue
			}
			label(img, opts.Margin, y, s.Name, Palette[i%len(Palette)])
			y += 14
		}
	}
	return img, nil
}

// stroke adds a segment of half-width w as a quad
func stroke(ras *vector.Rasterizer, a, b model.Point, w float32) {
	dx, dy := float32(b.X-a.X), float32(b.Y-a.Y)
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		dot(ras, a, w)
		return
	}
	nx, ny := -dy/length*w, dx/length*w
	ax, ay := float32(a.X), float32(a.Y)
	bx, by := float32(b.X), float32(b.Y)

	ras.MoveTo(ax+nx, ay+ny)
	ras.LineTo(bx+nx, by+ny)
	ras.LineTo(bx-nx, by-ny)
	ras.LineTo(ax-nx, ay-ny)
	ras.ClosePath()
}

// dot adds a square marker of half-size r
func dot(ras *vector.Rasterizer, p model.Point, r float32) {
	x, y := float32(p.X), float32(p.Y)
	ras.MoveTo(x-r, y-r)
	ras.LineTo(x+r, y-r)
	ras.LineTo(x+r, y+r)
	ras.LineTo(x-r, y+r)
	ras.ClosePath()
}

// label draws text with its baseline at y
func label(img draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// WritePNG encodes an image as PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SavePNG renders the plot and writes it to path
func (p *Plot) SavePNG(path string, opts Options) error {
	img, err := p.Render(opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
