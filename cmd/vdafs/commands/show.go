package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/curve"
	"github.com/tsawler/vdafs/points"
	"github.com/tsawler/vdafs/resolver"
	"github.com/tsawler/vdafs/surface"
	"github.com/tsawler/vdafs/topology"
)

// RunShow runs the show command.
func RunShow(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	var common commonOptions
	common.register(fs)
	if !parseFlags(fs, args, stderr) {
		return exitCommandError
	}

	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(stderr, "Error: need a file and at least one entity name")
		printShowUsage(stderr)
		return exitCommandError
	}
	file, names := rest[0], rest[1:]

	e, err := setup(common, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	r, err := e.query(file).Reader()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	code := exitSuccess
	res := r.Resolver()
	for i, name := range names {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		ent, err := res.Entity(name)
		if err != nil {
			e.log.Error("lookup failed", "entity", name, "error", err)
			code = exitCommandError
			continue
		}
		fmt.Fprintf(stdout, "Entity: %s\nType: %s\nLines: %d-%d\n\n", ent.Name, ent.Command, ent.Line, ent.EndLine)

		d, err := res.Decode(name)
		if err != nil {
			e.log.Warn("decode failed", "entity", name, "error", err)
			printRaw(stdout, ent)
			code = exitCommandError
			continue
		}
		printDecoded(stdout, d)
	}
	return code
}

// printDecoded prints the decoded data of one entity
func printDecoded(w io.Writer, d resolver.Decoded) {
	switch v := d.(type) {
	case *curve.Curve:
		printCurve(w, v)
	case *surface.Surface:
		printSurface(w, v)
	case *points.Set:
		printPoints(w, v)
	case *topology.Cons:
		printCons(w, v)
	case *topology.Face:
		printFace(w, v)
	case resolver.Unknown:
		fmt.Fprintf(w, "No decoder for %s.\n", v.Entity.Command)
		printRaw(w, v.Entity)
	}
}

func printCurve(w io.Writer, c *curve.Curve) {
	fmt.Fprintln(w, "=== CURVE DETAILS ===")
	fmt.Fprintf(w, "Number of segments: %d\n", len(c.Segments))
	fmt.Fprintf(w, "Global parameters: %v\n", c.Params)
	fmt.Fprintf(w, "Parameterization: %s\n\n", c.Parameterization())
	for i, seg := range c.Segments {
		fmt.Fprintf(w, "--- Segment %d ---\n", i+1)
		fmt.Fprintf(w, "Order: %d\n", seg.Order)
		fmt.Fprintf(w, "Parameter range: [%g, %g]\n", seg.T0, seg.T1)
		fmt.Fprintf(w, "X coefficients: %v\n", seg.X)
		fmt.Fprintf(w, "Y coefficients: %v\n", seg.Y)
		fmt.Fprintf(w, "Z coefficients: %v\n\n", seg.Z)
	}
}

func printSurface(w io.Writer, s *surface.Surface) {
	fmt.Fprintln(w, "=== SURF DETAILS ===")
	fmt.Fprintf(w, "Number of patches: %d x %d (u x v)\n", s.NU(), s.NV())
	fmt.Fprintf(w, "U parameters: %v\n", s.UParams)
	fmt.Fprintf(w, "V parameters: %v\n\n", s.VParams)
	for i, p := range s.Patches {
		fmt.Fprintf(w, "--- Patch %d (u_idx=%d, v_idx=%d) ---\n", i+1, p.UIndex, p.VIndex)
		fmt.Fprintf(w, "Orders: %d x %d (u x v)\n", p.OrderU, p.OrderV)
		fmt.Fprintf(w, "U parameter range: [%g, %g]\n", p.U0, p.U1)
		fmt.Fprintf(w, "V parameter range: [%g, %g]\n\n", p.V0, p.V1)
		for _, m := range []struct {
			axis string
			rows [][]float64
		}{{"X", p.X}, {"Y", p.Y}, {"Z", p.Z}} {
			fmt.Fprintf(w, "%s coefficients:\n", m.axis)
			for k, row := range m.rows {
				fmt.Fprintf(w, "  u^%d: %v\n", k, row)
			}
			fmt.Fprintln(w)
		}
	}
}

func printPoints(w io.Writer, s *points.Set) {
	fmt.Fprintf(w, "=== %s DETAILS ===\n", s.Kind)
	fmt.Fprintf(w, "Number of points: %d\n\n", len(s.Points))
	for i, p := range s.Points {
		fmt.Fprintf(w, "Point %d: (%g, %g, %g)", i+1, p.X, p.Y, p.Z)
		if i < len(s.Directions) {
			d := s.Directions[i]
			fmt.Fprintf(w, " direction (%g, %g, %g)", d.X, d.Y, d.Z)
		}
		fmt.Fprintln(w)
	}
}

func printCons(w io.Writer, c *topology.Cons) {
	fmt.Fprintln(w, "=== CONS DETAILS ===")
	fmt.Fprintf(w, "Surface: %s\nCurve: %s\n", c.SurfRef, c.CurveRef)
	fmt.Fprintf(w, "Range: [%g, %g] (%s)\n", c.TStart, c.TEnd, c.Orientation)
	if c.PCurve == nil {
		fmt.Fprintln(w, "Parameter-space curve: none")
		return
	}
	fmt.Fprintf(w, "Parameter-space curve: %d segments, parameters %v\n\n", len(c.PCurve.Segments), c.PCurve.Params)
	for i, seg := range c.PCurve.Segments {
		fmt.Fprintf(w, "--- Segment %d ---\n", i+1)
		fmt.Fprintf(w, "Order: %d\n", seg.Order)
		fmt.Fprintf(w, "Parameter range: [%g, %g]\n", seg.T0, seg.T1)
		fmt.Fprintf(w, "S coefficients: %v\n", seg.S)
		fmt.Fprintf(w, "T coefficients: %v\n\n", seg.T)
	}
}

func printFace(w io.Writer, f *topology.Face) {
	fmt.Fprintln(w, "=== FACE DETAILS ===")
	dom := f.Surface.Domain()
	fmt.Fprintf(w, "Surface: %s, domain [%g, %g] x [%g, %g]\n", f.SurfRef, dom.Left(), dom.Right(), dom.Bottom(), dom.Top())
	fmt.Fprintf(w, "Loops: %d\n", len(f.Loops))
	for i, loop := range f.Loops {
		fmt.Fprintf(w, "--- Loop %d (%d edges) ---\n", i+1, len(loop))
		for _, edge := range loop {
			from, to := edge.Range()
			fmt.Fprintf(w, "  %s [%g, %g] %s\n", edge.ConsRef, from, to, edge.Orientation)
		}
	}
}

// printRaw prints the parameter stream of an entity that could not be decoded
func printRaw(w io.Writer, e *core.Entity) {
	fmt.Fprintf(w, "Number of parameters: %d\nParameters:\n", len(e.Params))
	for i, p := range e.Params {
		fmt.Fprintf(w, "  [%d]: %s (%s)\n", i, p, p.Type())
	}
}

func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: vdafs show [options] <file> <name>...

Options:
  -config    YAML configuration file
  -v         Verbose logging`)
}
