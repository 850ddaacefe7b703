package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/model"
	"github.com/tsawler/vdafs/reader"
	"github.com/tsawler/vdafs/topology"
)

const partFile = "HD  = HEADER / 2\n" +
	"VDAFS VERSION    : 2.0\n" +
	"SENDER           : M\xdcLLER\n" +
	`SR1 = SURF / 1, 1, 0., 2., 0., 4., 1, 1, 0., 0., 0.
CV2 = CURVE / 1, 0., 1., 2, 0., 1., 0., 0., 0., 0.
CV1 = CURVE / 1, 0., 1., 2, 0., 1., 0., 0., 0.,
      0.
CV3 = CURVE / 1, 0., 1., 1, 7., 7., 7.
CN2 = CONS / SR1, CV2, 0., 1., 1, 0., 1., 2, 0.5, -0.38, 0.3, 0.0401
CN1 = CONS / SR1, CV1, 0., 1., 1, 0., 1., 2, 0.12, 0.38, 0.34, -0.04
FA1 = FACE / SR1, 1, 2, CN1, 0., 1., CN2, 0., 1.
FA2 = FACE / SR1, 1, 1, CN1, 0., 1.
P1  = POINT / 1., 2., 3.
END
`

func openPart(t *testing.T) *reader.Reader {
	t.Helper()
	r, err := reader.NewReader(strings.NewReader(partFile), "part")
	require.NoError(t, err)
	return r
}

func TestWrapStatement(t *testing.T) {
	raw := "CV1 = CURVE / " + strings.Repeat("0.123456789,", 20) + "1."
	lines := WrapStatement(raw)
	require.Greater(t, len(lines), 1)

	for i, line := range lines {
		assert.LessOrEqual(t, len(line), core.DataColumns, "line %d too long", i)
		if i < len(lines)-1 {
			assert.True(t, strings.HasSuffix(line, ","), "line %d should end with a comma: %q", i, line)
		}
	}
	assert.True(t, strings.HasPrefix(lines[0], "CV1 = CURVE / 0.123456789"))
	assert.True(t, strings.HasPrefix(lines[1], continuationIndent))

	// Commas inside quoted text are not break points
	assert.Equal(t, []string{"TX1 = TEXT / 'a,b', 1"}, WrapStatement("TX1 = TEXT / 'a,b',1"))
	assert.Equal(t, []string{"FA7 = FACE"}, WrapStatement("FA7 = FACE"))
}

func TestWriteFaceFile(t *testing.T) {
	r := openPart(t)

	var buf bytes.Buffer
	require.NoError(t, WriteFaceFile(&buf, r, "FA1"))
	out := buf.String()

	// Header copied and encoded back to ISO 8859-1
	assert.True(t, strings.HasPrefix(out, "HD = HEADER / 2\nVDAFS VERSION    : 2.0\n"))
	assert.Contains(t, out, "M\xdcLLER")
	assert.True(t, strings.HasSuffix(out, "\nEND\n"))

	// CURVE, SURF, CONS sorted by name, FACE last
	var order []string
	for _, line := range strings.Split(out, "\n") {
		if name, _, ok := strings.Cut(line, " = "); ok && !strings.HasPrefix(line, " ") {
			order = append(order, name)
		}
	}
	assert.Equal(t, []string{"HD", "CV1", "CV2", "SR1", "CN1", "CN2", "FA1"}, order)
	assert.NotContains(t, out, "CV3")
	assert.NotContains(t, out, "P1")

	// The export parses back to the same closure with the same parameters
	back, err := reader.NewReader(&buf, "export")
	require.NoError(t, err)
	got, err := back.Resolver().DependencyClosure("FA1")
	require.NoError(t, err)
	want, err := r.Resolver().DependencyClosure("FA1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for _, name := range want {
		orig, _ := r.Resolver().Entity(name)
		copied, _ := back.Resolver().Entity(name)
		assert.Equal(t, orig.Params, copied.Params, name)
	}
	assert.Equal(t, r.Header().Lines, back.Header().Lines)
}

func TestWriteFaceFileErrors(t *testing.T) {
	r := openPart(t)
	var buf bytes.Buffer

	assert.Error(t, WriteFaceFile(&buf, r))

	err := WriteFaceFile(&buf, r, "CV1")
	assert.True(t, errors.Is(err, core.ErrKindMismatch), "got %v", err)

	err = WriteFaceFile(&buf, r, "FA9")
	var re *core.ReferenceError
	assert.True(t, errors.As(err, &re), "got %v", err)
}

func TestExportFace(t *testing.T) {
	r := openPart(t)
	dir := filepath.Join(t.TempDir(), "faces")

	path, err := ExportFace(dir, r, "FA2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "FA2.vda"), path)

	back, err := reader.Open(path)
	require.NoError(t, err)
	names := back.Index().Names(core.KindFace)
	assert.Equal(t, []string{"FA2"}, names)
	assert.Len(t, back.Index().Names(core.KindCurve), 1)
}

func TestLoopCSVRoundTrip(t *testing.T) {
	r := openPart(t)
	face, err := r.Resolver().Face("FA1")
	require.NoError(t, err)
	pts, err := topology.MapLoopToUV(face, 0, 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	info := LoopInfo{Face: "FA1", Surface: "SR1", Loop: 1, Domain: face.Surface.Domain()}
	require.NoError(t, WriteLoopCSV(&buf, info, pts))

	text := buf.String()
	assert.True(t, strings.HasPrefix(text, "# FACE FA1 loop 1\n"))
	assert.Contains(t, text, "\ns,t\n")

	back, err := ReadLoopCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, pts, back)

	assert.Equal(t, "FA1_loop1.csv", LoopFileName("FA1", 1))
}

func TestReadLoopCSV(t *testing.T) {
	pts, err := ReadLoopCSV(strings.NewReader("# comment\n0.5, 1\n2,3.25\n"))
	require.NoError(t, err)
	assert.Equal(t, []model.Point{{X: 0.5, Y: 1}, {X: 2, Y: 3.25}}, pts)

	_, err = ReadLoopCSV(strings.NewReader("s,t\n1,x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ReadLoopCSV(strings.NewReader("s,t\n1\n"))
	assert.Error(t, err)
}

func TestLoopsCBOR(t *testing.T) {
	r := openPart(t)
	face, err := r.Resolver().Face("FA1")
	require.NoError(t, err)
	pts, err := topology.MapLoopToUV(face, 0, 5)
	require.NoError(t, err)

	dump := NewLoopDump(face, [][]model.Point{pts}, false)
	assert.Equal(t, [4]float64{0, 2, 0, 4}, dump.Domain)

	var first, second bytes.Buffer
	require.NoError(t, WriteLoopsCBOR(&first, dump))
	require.NoError(t, WriteLoopsCBOR(&second, dump))
	assert.Equal(t, first.Bytes(), second.Bytes(), "encoding should be deterministic")

	back, err := ReadLoopsCBOR(&first)
	require.NoError(t, err)
	assert.Equal(t, "FA1", back.Face)
	assert.Equal(t, "SR1", back.Surface)
	assert.Equal(t, pts, back.Points(0))
	assert.Nil(t, back.Points(1))
}

func TestReadLoopsCBORInvalid(t *testing.T) {
	_, err := ReadLoopsCBOR(bytes.NewReader([]byte{0xff}))
	assert.Error(t, err)

	_, err = ReadLoopsCBOR(bytes.NewReader(nil))
	assert.Error(t, err)
}
