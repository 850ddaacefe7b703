package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tsawler/vdafs/model"
)

// LoopInfo describes the loop written to a CSV file
type LoopInfo struct {
	Face    string
	Surface string
	Loop    int // 1-based, as in the file name
	Domain  model.BBox
	Global  bool // points are global surface parameters rather than box-mapped
}

// LoopFileName returns the CSV file name of a FACE loop, e.g. FA1_loop2.csv
func LoopFileName(face string, loop int) string {
	return fmt.Sprintf("%s_loop%d.csv", face, loop)
}

// WriteLoopCSV writes loop samples as "s,t" rows preceded by "#" comment
// lines and an "s,t" header. Values are written with full precision.
func WriteLoopCSV(w io.Writer, info LoopInfo, pts []model.Point) error {
	space := "surface box"
	if info.Global {
		space = "global"
	}
	comments := []string{
		fmt.Sprintf("# FACE %s loop %d", info.Face, info.Loop),
		fmt.Sprintf("# SURF %s domain [%g, %g] x [%g, %g] (%s)",
			info.Surface, info.Domain.Left(), info.Domain.Right(), info.Domain.Bottom(), info.Domain.Top(), space),
		fmt.Sprintf("# points %d", len(pts)),
	}
	if _, err := io.WriteString(w, strings.Join(comments, "\n")+"\n"); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"s", "t"}); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	for _, p := range pts {
		row := []string{
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// ReadLoopCSV reads the points of a loop CSV file. Comment lines and a
// leading "s,t" header are skipped; any other row must hold two numbers.
func ReadLoopCSV(r io.Reader) ([]model.Point, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var pts []model.Point
	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return pts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if header && len(rec) == 2 && strings.EqualFold(rec[0], "s") && strings.EqualFold(rec[1], "t") {
			header = false
			continue
		}
		header = false

		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: expected s,t values, got %d fields", line, len(rec))
		}
		s, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid s value %q", line, rec[0])
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid t value %q", line, rec[1])
		}
		pts = append(pts, model.Point{X: s, Y: t})
	}
}
