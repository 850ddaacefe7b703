package export

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/tsawler/vdafs/model"
	"github.com/tsawler/vdafs/topology"
)

// loopEncMode is the CBOR encoder mode for loop dumps.
// Configured for deterministic encoding.
var loopEncMode cbor.EncMode

// loopDecMode is the CBOR decoder mode for loop dumps.
var loopDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		ShortestFloat: cbor.ShortestFloat16,
	}
	loopEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create loop CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	loopDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create loop CBOR decoder mode: %v", err))
	}
}

// LoopDump holds every mapped loop of one FACE. Integer keys keep the
// encoding compact.
type LoopDump struct {
	Face    string         `cbor:"1,keyasint"`
	Surface string         `cbor:"2,keyasint"`
	Domain  [4]float64     `cbor:"3,keyasint"` // s0, s1, t0, t1
	Global  bool           `cbor:"4,keyasint,omitempty"`
	Loops   [][][2]float64 `cbor:"5,keyasint"`
}

// NewLoopDump collects mapped loops of a FACE. A nil loop (one that could
// not be mapped) is kept as an empty entry so indices still match.
func NewLoopDump(face *topology.Face, loops [][]model.Point, global bool) LoopDump {
	dom := face.Surface.Domain()
	dump := LoopDump{
		Face:    face.Name,
		Surface: face.SurfRef,
		Domain:  [4]float64{dom.Left(), dom.Right(), dom.Bottom(), dom.Top()},
		Global:  global,
		Loops:   make([][][2]float64, len(loops)),
	}
	for i, loop := range loops {
		pts := make([][2]float64, len(loop))
		for k, p := range loop {
			pts[k] = [2]float64{p.X, p.Y}
		}
		dump.Loops[i] = pts
	}
	return dump
}

// Points returns loop i as points
func (d LoopDump) Points(i int) []model.Point {
	if i < 0 || i >= len(d.Loops) {
		return nil
	}
	pts := make([]model.Point, len(d.Loops[i]))
	for k, p := range d.Loops[i] {
		pts[k] = model.Point{X: p[0], Y: p[1]}
	}
	return pts
}

// WriteLoopsCBOR writes a loop dump as one canonical CBOR item
func WriteLoopsCBOR(w io.Writer, dump LoopDump) error {
	if err := loopEncMode.NewEncoder(w).Encode(dump); err != nil {
		return fmt.Errorf("failed to encode loops of %s: %w", dump.Face, err)
	}
	return nil
}

// ReadLoopsCBOR reads one loop dump
func ReadLoopsCBOR(r io.Reader) (LoopDump, error) {
	var dump LoopDump
	if err := loopDecMode.NewDecoder(r).Decode(&dump); err != nil {
		return LoopDump{}, fmt.Errorf("failed to decode loops: %w", err)
	}
	return dump, nil
}
