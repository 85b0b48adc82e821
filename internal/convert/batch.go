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

// Package convert turns streams of catalog records into batches of colored
// points and writes them as point cloud files, one file at a time or many in
// parallel.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mlnoga/gaialas/internal/astro"
	"github.com/mlnoga/gaialas/internal/blackbody"
	"github.com/mlnoga/gaialas/internal/gaia"
	"github.com/mlnoga/gaialas/internal/qsort"
)

// Converted points of one input, as parallel columns in stream order
type Batch struct {
	X, Y, Z          []float64
	Red, Green, Blue []float64
	SolutionID       []uint64
	Designation      []uint64
	SourceID         []uint64
	Temperature      []float64

	// Only filled with extras enabled
	Extras   bool
	Parallax []float64
	PM       []float64
	GMag     []float64
	GFlux    []float64
}

func NewBatch(extras bool) *Batch {
	return &Batch{Extras: extras}
}

// Returns the number of points in the batch
func (b *Batch) Len() int { return len(b.X) }

// Appends a point to all columns
func (b *Batch) Append(p gaia.Point) {
	b.X = append(b.X, p.X)
	b.Y = append(b.Y, p.Y)
	b.Z = append(b.Z, p.Z)
	b.Red = append(b.Red, p.Color.R)
	b.Green = append(b.Green, p.Color.G)
	b.Blue = append(b.Blue, p.Color.B)
	b.SolutionID = append(b.SolutionID, p.SolutionID)
	b.Designation = append(b.Designation, p.Designation)
	b.SourceID = append(b.SourceID, p.SourceID)
	b.Temperature = append(b.Temperature, p.Temperature)
	if b.Extras {
		b.Parallax = append(b.Parallax, p.Parallax)
		b.PM = append(b.PM, p.PM)
		b.GMag = append(b.GMag, p.GMag)
		b.GFlux = append(b.GFlux, p.GFlux)
	}
}

// Returns the position of the i-th point
func (b *Batch) Point3D(i int) astro.Point3D {
	return astro.Point3D{X: b.X[i], Y: b.Y[i], Z: b.Z[i]}
}

// Returns the color of the i-th point
func (b *Batch) Color(i int) blackbody.RGB {
	return blackbody.RGB{R: b.Red[i], G: b.Green[i], B: b.Blue[i]}
}

// Summary of the temperatures in a batch
type TempStats struct {
	Min, Max, Mean, Median, StdDev float64
}

func (s TempStats) String() string {
	return fmt.Sprintf("min %.0fK max %.0fK mean %.0fK median %.0fK stddev %.0fK", s.Min, s.Max, s.Mean, s.Median, s.StdDev)
}

// Returns statistics on the temperatures of the batch, zero for an empty batch
func (b *Batch) Temperatures() TempStats {
	if len(b.Temperature) == 0 {
		return TempStats{}
	}
	mean, std := stat.MeanStdDev(b.Temperature, nil)
	if len(b.Temperature) == 1 {
		std = 0
	}
	return TempStats{
		Min:    floats.Min(b.Temperature),
		Max:    floats.Max(b.Temperature),
		Mean:   mean,
		Median: qsort.Median(append([]float64(nil), b.Temperature...)),
		StdDev: std,
	}
}

// A rejected record. Row is the 1-based index among the data rows of the input,
// Line the line in the input file if the stream knows it, else 0.
type Failure struct {
	Row  int
	Line int
	Err  error
}

func (f Failure) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("row %d (line %d): %v", f.Row, f.Line, f.Err)
	}
	return fmt.Sprintf("row %d: %v", f.Row, f.Err)
}

// Implemented by streams which track line numbers in their input
type liner interface {
	Line() int
}

// Source of catalog records. Next returns io.EOF after the last record.
// A *gaia.RecordError from Next rejects that row only, any other error ends the stream.
type RecordStream interface {
	Next() (gaia.Record, error)
}

// Converts records one by one
type Converter struct {
	Transformer *gaia.Transformer
	Sample      float64 // probability to keep a valid point, 1 or 0 keeps all
	Seed        uint32  // seed for sampling, 0=random
}

// Converts all records of the stream with the given transformer
func ConvertStream(ctx context.Context, stream RecordStream, tr *gaia.Transformer) (*Batch, []Failure, error) {
	c := Converter{Transformer: tr}
	return c.Convert(ctx, stream)
}

// Converts all records of the stream into a batch. Records which fail to
// transform are collected as failures and never abort the stream. Returns
// ctx.Err() if cancelled, in which case the partial batch must be discarded.
func (c *Converter) Convert(ctx context.Context, stream RecordStream) (*Batch, []Failure, error) {
	batch := NewBatch(c.Transformer.Extras)
	failures := []Failure{}
	sampling := c.Sample > 0 && c.Sample < 1
	var rng fastrand.RNG
	if sampling && c.Seed != 0 {
		rng.Seed(c.Seed)
	}
	threshold := uint32(c.Sample * (1<<32 - 1))
	lines, _ := stream.(liner)
	reject := func(row int, err error) {
		f := Failure{Row: row, Err: err}
		if lines != nil {
			f.Line = lines.Line()
		}
		failures = append(failures, f)
	}

	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return batch, failures, err
		}
		rec, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var re *gaia.RecordError
			if errors.As(err, &re) {
				reject(row, err)
				continue
			}
			return batch, failures, fmt.Errorf("row %d: %w", row, err)
		}
		p, err := c.Transformer.Transform(rec)
		if err != nil {
			reject(row, err)
			continue
		}
		if sampling && rng.Uint32() > threshold {
			continue
		}
		batch.Append(p)
	}
	return batch, failures, nil
}

// Counts failures by kind
func CountByKind(failures []Failure) map[gaia.Kind]int {
	counts := map[gaia.Kind]int{}
	for _, f := range failures {
		counts[gaia.KindOf(f.Err)]++
	}
	return counts
}
