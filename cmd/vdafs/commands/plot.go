package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/vdafs"
	"github.com/tsawler/vdafs/config"
	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/curve"
	"github.com/tsawler/vdafs/export"
	"github.com/tsawler/vdafs/model"
	"github.com/tsawler/vdafs/points"
	"github.com/tsawler/vdafs/render"
	"github.com/tsawler/vdafs/resolver"
	"github.com/tsawler/vdafs/surface"
	"github.com/tsawler/vdafs/topology"
)

// PlotOptions configures the plot command.
type PlotOptions struct {
	commonOptions
	Projection string
	Output     string
	Title      string
	All        bool // every CONS and SURF of the file
	File       string
	Names      []string
}

// renderOptions converts the render settings of the configuration
func renderOptions(cfg *config.Config) render.Options {
	opts := render.DefaultOptions()
	opts.Width = cfg.Render.Width
	opts.Height = cfg.Render.Height
	opts.Margin = cfg.Render.Margin
	opts.LineWidth = cfg.Render.LineWidth
	return opts
}

// RunPlot runs the plot command.
func RunPlot(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	opts := PlotOptions{}
	opts.register(fs)
	fs.StringVar(&opts.Projection, "projection", "", "Projection: xy, yz, xz or iso [default: from config]")
	fs.StringVar(&opts.Output, "o", "", "Output PNG file [default: <out_dir>/<name>.png]")
	fs.StringVar(&opts.Title, "title", "", "Plot title")
	fs.BoolVar(&opts.All, "all", false, "Plot every CONS and SURF")
	if !parseFlags(fs, args, stderr) {
		return exitCommandError
	}
	rest := fs.Args()
	if len(rest) == 0 || (len(rest) < 2 && !opts.All) {
		fmt.Fprintln(stderr, "Error: need a file and at least one entity name (or -all)")
		printPlotUsage(stderr)
		return exitCommandError
	}
	opts.File, opts.Names = rest[0], rest[1:]

	e, err := setup(opts.commonOptions, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if opts.Projection == "" {
		opts.Projection = e.cfg.Render.Projection
	}
	proj, err := render.ParseProjection(opts.Projection)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	q := e.query(opts.File)
	r, err := q.Reader()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	names := opts.Names
	if opts.All {
		names = append(names, r.Index().Names(core.KindCons)...)
		names = append(names, r.Index().Names(core.KindSurf)...)
	}

	plot := &render.Plot{Title: opts.Title}
	if plot.Title == "" {
		plot.Title = fmt.Sprintf("%s (%s)", filepath.Base(opts.File), proj)
	}
	uvPlot := false
	for _, name := range names {
		series, uv, err := e.seriesFor(q, name, proj)
		if err != nil {
			e.log.Warn("skipping entity", "entity", name, "error", err)
			continue
		}
		if len(plot.Series) > 0 && uv != uvPlot {
			fmt.Fprintf(stderr, "Error: FACE loops are drawn in (s,t) and cannot share a plot with model-space entities (%s)\n", name)
			return exitCommandError
		}
		uvPlot = uv
		plot.Add(series)
	}
	if len(plot.Series) == 0 {
		fmt.Fprintln(stderr, "Error: nothing to plot")
		return exitCommandError
	}

	out := opts.Output
	if out == "" {
		base := "all"
		if len(opts.Names) > 0 {
			base = strings.Join(opts.Names, "_")
		}
		out = filepath.Join(e.cfg.Export.OutDir, base+".png")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if err := plot.SavePNG(out, renderOptions(e.cfg)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	e.log.Info("plot written", "file", out, "series", len(plot.Series))
	fmt.Fprintf(stdout, "Saved plot -> %s\n", out)
	return exitSuccess
}

// seriesFor builds the drawing of one entity. The second result reports
// whether the series lives in a surface's (s,t) plane rather than model
// space.
func (e *env) seriesFor(q *vdafs.Query, name string, proj render.Projection) (render.Series, bool, error) {
	r, err := q.Reader()
	if err != nil {
		return render.Series{}, false, err
	}
	d, err := r.Resolver().Decode(name)
	if err != nil {
		return render.Series{}, false, err
	}
	s := e.cfg.Sampling
	series := render.Series{Name: name}

	switch v := d.(type) {
	case *curve.Curve:
		series.Lines = [][]model.Point{proj.Polyline(v.Sample(s.CurveSamples))}
	case *surface.Surface:
		wire, err := surface.SampleWireframe(v, s.IsoLines, s.LineSamples)
		if err != nil {
			return series, false, err
		}
		series.Lines = proj.Polylines(wire.Lines())
	case *points.Set:
		for _, p := range v.Points {
			series.Points = append(series.Points, proj.Project(p))
		}
	case *topology.Cons:
		pts, err := v.Sample(s.CurveSamples * max(len(v.Curve.Segments), 1))
		if err != nil {
			return series, false, err
		}
		series.Lines = [][]model.Point{proj.Polyline(pts)}
	case *topology.Face:
		loops, warnings, err := q.Loops(name)
		if err != nil {
			return series, true, err
		}
		if len(warnings) > 0 {
			return series, true, errors.New(vdafs.FormatWarnings(warnings))
		}
		series.Lines = loops
		series.Closed = true
		return series, true, nil
	case resolver.Unknown:
		return series, false, fmt.Errorf("%s entities cannot be plotted", v.Entity.Command)
	default:
		return series, false, fmt.Errorf("%s cannot be plotted", d.EntityName())
	}
	return series, false, nil
}

// RunPlotCSV runs the plot-csv command.
func RunPlotCSV(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plot-csv", flag.ContinueOnError)
	var common commonOptions
	common.register(fs)
	var output, title string
	var open bool
	fs.StringVar(&output, "o", "loops.png", "Output PNG file")
	fs.StringVar(&title, "title", "", "Plot title")
	fs.BoolVar(&open, "open", false, "Do not close the loops")
	if !parseFlags(fs, args, stderr) {
		return exitCommandError
	}

	var files []string
	for _, pattern := range fs.Args() {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "Error: no files matched")
		printPlotCSVUsage(stderr)
		return exitCommandError
	}

	e, err := setup(common, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	plot := &render.Plot{Title: title}
	for _, path := range files {
		pts, err := readCSVFile(path)
		if err != nil {
			e.log.Warn("skipping CSV", "file", path, "error", err)
			continue
		}
		if len(pts) == 0 {
			e.log.Warn("empty CSV", "file", path)
			continue
		}
		plot.Add(render.Series{Name: filepath.Base(path), Lines: [][]model.Point{pts}, Closed: !open})
	}

	if err := plot.SavePNG(output, renderOptions(e.cfg)); err != nil {
		if errors.Is(err, render.ErrEmptyPlot) {
			fmt.Fprintln(stderr, "Error: no valid data to plot")
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitCommandError
	}
	fmt.Fprintf(stdout, "Saved figure -> %s\n", output)
	return exitSuccess
}

func readCSVFile(path string) ([]model.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return export.ReadLoopCSV(f)
}

func printPlotUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: vdafs plot [options] <file> [name...]

Options:
  -projection  Projection: xy, yz, xz or iso
  -o           Output PNG file
  -title       Plot title
  -all         Plot every CONS and SURF
  -config      YAML configuration file
  -v           Verbose logging`)
}

func printPlotCSVUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: vdafs plot-csv [options] <file.csv|pattern>...

Options:
  -o         Output PNG file [default: loops.png]
  -title     Plot title
  -open      Do not close the loops
  -config    YAML configuration file
  -v         Verbose logging`)
}
