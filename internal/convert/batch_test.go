// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package convert

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mlnoga/gaialas/internal/blackbody"
	"github.com/mlnoga/gaialas/internal/gaia"
)

const testHeader = "solution_id,designation,source_id,l,b,parallax,nu_eff_used_in_astrometry,pseudocolour,pm,phot_g_mean_mag,phot_g_mean_flux\n"

const validRow = "1636148068921376768,Gaia EDR3  4295806720,4295806720,0.0,0.0,2.0,1.5,,6.5,17.64,1675.6\n"

// One valid row, one without parallax, one with a broken longitude
const testCatalog = "# preamble\n" + testHeader + validRow +
	"1636148068921376768,Gaia EDR3  4295806721,4295806721,10.0,5.0,,1.5,,6.5,17.64,1675.6\n" +
	"1636148068921376768,Gaia EDR3  4295806722,4295806722,abc,5.0,1.0,1.5,,6.5,17.64,1675.6\n"

func testTransformer(t *testing.T, extras bool) *gaia.Transformer {
	t.Helper()
	s, err := blackbody.New(blackbody.KindLookup, nil)
	require.NoError(t, err)
	return gaia.NewTransformer(s, gaia.DefaultDesignationPrefixLen, extras)
}

type rowKind struct {
	Row, Line int
	Kind      gaia.Kind
}

func rowKinds(failures []Failure) []rowKind {
	res := make([]rowKind, len(failures))
	for i, f := range failures {
		res[i] = rowKind{f.Row, f.Line, gaia.KindOf(f.Err)}
	}
	return res
}

func TestConvertStreamRows(t *testing.T) {
	stream, err := NewCSVStream(strings.NewReader(testCatalog))
	require.NoError(t, err)
	batch, failures, err := ConvertStream(context.Background(), stream, testTransformer(t, false))
	require.NoError(t, err)

	require.Equal(t, 1, batch.Len())
	require.InDelta(t, 0.5, batch.X[0], 1e-12)
	require.Equal(t, uint64(4295806720), batch.Designation[0])
	require.Empty(t, batch.Parallax)

	want := []rowKind{
		{Row: 2, Line: 4, Kind: gaia.MissingParallax},
		{Row: 3, Line: 5, Kind: gaia.InvalidNumeric},
	}
	if diff := cmp.Diff(want, rowKinds(failures)); diff != "" {
		t.Errorf("failures mismatch (-want +got):\n%s", diff)
	}
	counts := CountByKind(failures)
	require.Equal(t, map[gaia.Kind]int{gaia.MissingParallax: 1, gaia.InvalidNumeric: 1}, counts)
}

func TestConvertStreamExtras(t *testing.T) {
	stream, err := NewCSVStream(strings.NewReader(testHeader + validRow))
	require.NoError(t, err)
	batch, failures, err := ConvertStream(context.Background(), stream, testTransformer(t, true))
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Equal(t, []float64{2.0}, batch.Parallax)
	require.Equal(t, []float64{6.5}, batch.PM)
	require.Equal(t, []float64{17.64}, batch.GMag)
	require.Equal(t, []float64{1675.6}, batch.GFlux)
}

func TestConvertStreamCancelled(t *testing.T) {
	stream, err := NewCSVStream(strings.NewReader(testCatalog))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = ConvertStream(ctx, stream, testTransformer(t, false))
	require.ErrorIs(t, err, context.Canceled)
}

// Yields the given errors, then io.EOF
type errStream struct {
	errs []error
}

func (s *errStream) Next() (gaia.Record, error) {
	if len(s.errs) == 0 {
		return gaia.Record{}, io.EOF
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return gaia.Record{}, err
}

func TestConvertStreamErrors(t *testing.T) {
	broken := errors.New("broken pipe")
	stream := &errStream{errs: []error{
		&gaia.RecordError{Kind: gaia.InvalidNumeric, Field: "l"},
		broken,
		&gaia.RecordError{Kind: gaia.MissingParallax},
	}}
	_, failures, err := ConvertStream(context.Background(), stream, testTransformer(t, false))
	require.ErrorIs(t, err, broken)
	require.Equal(t, []rowKind{{Row: 1, Kind: gaia.InvalidNumeric}}, rowKinds(failures))
}

// An errStream which reports input lines, starting after a two line preamble
type linedErrStream struct {
	errStream
	line int
}

func (s *linedErrStream) Next() (gaia.Record, error) {
	s.line++
	return s.errStream.Next()
}

func (s *linedErrStream) Line() int { return s.line + 2 }

func TestConvertStreamErrorLines(t *testing.T) {
	stream := &linedErrStream{errStream: errStream{errs: []error{
		&gaia.RecordError{Kind: gaia.InvalidNumeric, Field: "b"},
		&gaia.RecordError{Kind: gaia.MissingParallax},
	}}}
	_, failures, err := ConvertStream(context.Background(), stream, testTransformer(t, false))
	require.NoError(t, err)
	want := []rowKind{
		{Row: 1, Line: 3, Kind: gaia.InvalidNumeric},
		{Row: 2, Line: 4, Kind: gaia.MissingParallax},
	}
	if diff := cmp.Diff(want, rowKinds(failures)); diff != "" {
		t.Errorf("failures mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "row 2 (line 4): "+failures[1].Err.Error(), failures[1].String())
}

func TestSampling(t *testing.T) {
	text := testHeader + strings.Repeat(validRow, 1000)
	convert := func(seed uint32) int {
		stream, err := NewCSVStream(strings.NewReader(text))
		require.NoError(t, err)
		c := Converter{Transformer: testTransformer(t, false), Sample: 0.5, Seed: seed}
		batch, failures, err := c.Convert(context.Background(), stream)
		require.NoError(t, err)
		require.Empty(t, failures)
		return batch.Len()
	}
	n := convert(42)
	if n < 400 || n > 600 {
		t.Errorf("kept %d of 1000 points; want about 500", n)
	}
	require.Equal(t, n, convert(42), "same seed keeps the same points")
}

func TestBatchTemperatures(t *testing.T) {
	b := NewBatch(false)
	require.Equal(t, TempStats{}, b.Temperatures())
	for _, temp := range []float64{3000, 5000, 7000} {
		b.Append(gaia.Point{Temperature: temp})
	}
	s := b.Temperatures()
	require.Equal(t, 3000.0, s.Min)
	require.Equal(t, 7000.0, s.Max)
	require.InDelta(t, 5000, s.Mean, 1e-9)
	require.Equal(t, 5000.0, s.Median)
	require.InDelta(t, 2000, s.StdDev, 1e-9)
}

func writeGzip(t *testing.T, fileName, text string) {
	t.Helper()
	f, err := os.Create(fileName)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestOpenCSVGzip(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "part.csv.gz")
	writeGzip(t, fileName, testCatalog)
	stream, closeFn, err := OpenCSV(fileName)
	require.NoError(t, err)
	defer closeFn()

	rows := 0
	for {
		_, err := stream.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows++
	}
	require.Equal(t, 3, rows)
}

func TestOpenCSVErrors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := OpenCSV(filepath.Join(dir, "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)

	noParallax := filepath.Join(dir, "noparallax.csv")
	require.NoError(t, os.WriteFile(noParallax, []byte("solution_id,designation,source_id,l,b,pseudocolour\n"), 0666))
	_, _, err = OpenCSV(noParallax)
	require.ErrorIs(t, err, gaia.ErrMissingColumns)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0666))
	_, _, err = OpenCSV(empty)
	require.ErrorIs(t, err, gaia.ErrMissingColumns)
}

func TestLASSinkCloud(t *testing.T) {
	b := NewBatch(true)
	b.Append(gaia.Point{
		Color:       blackbody.RGB{R: 255, G: 127.6, B: 0},
		Designation: 7,
		Parallax:    1.5,
		PM:          math.NaN(),
	})
	for _, test := range []struct {
		depth   int
		r, g, b uint16
	}{
		{8, 255, 128, 0},
		{16, 65535, 128 * 257, 0},
	} {
		s := LASSink{ColorDepth: test.depth}
		c, err := s.Cloud(b)
		require.NoError(t, err)
		if c.Red[0] != test.r || c.Green[0] != test.g || c.Blue[0] != test.b {
			t.Errorf("depth %d: color %d,%d,%d; want %d,%d,%d", test.depth,
				c.Red[0], c.Green[0], c.Blue[0], test.r, test.g, test.b)
		}
		require.Len(t, c.Extra, 7)
		require.NoError(t, c.Validate())
	}
	_, err := (&LASSink{ColorDepth: 12}).Cloud(b)
	require.Error(t, err)
}
