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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mlnoga/gaialas/internal/config"
	"github.com/mlnoga/gaialas/internal/las"
)

const generatingSoftware = "gaialas"

// Maximum number of rejected records logged individually per file
const maxReportedFailures = 20

// Converts catalog files into outputs next to them or in OutDir
type Job struct {
	Converter     Converter
	Sinks         []Sink // the first sink names the primary output
	OutDir        string
	Force         bool
	ReportRecords bool
}

// Creates a job from validated settings
func NewJob(s config.Settings) (*Job, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	tr, err := s.NewTransformer()
	if err != nil {
		return nil, err
	}
	j := &Job{
		Converter: Converter{Transformer: tr, Sample: s.Sample, Seed: s.Seed},
		Sinks: []Sink{&LASSink{
			ColorDepth: s.ColorDepth,
			Options:    las.WriteOptions{GeneratingSoftware: generatingSoftware},
		}},
		OutDir:        s.OutDir,
		Force:         s.Force,
		ReportRecords: s.ReportRecords,
	}
	if s.Preview {
		j.Sinks = append(j.Sinks, &PreviewSink{Width: s.PreviewWidth})
	}
	return j, nil
}

// Returns the output file name of the given sink for an input file
func (j *Job) OutputName(input string, sink Sink) string {
	dir := j.OutDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, filepath.Base(input)+sink.Suffix())
}

// Outcome of converting one file
type FileResult struct {
	Input    string
	Output   string
	Points   int
	Failures []Failure
	Temps    TempStats
	Skipped  bool  // outputs existed already
	Err      error // file scoped failure, nothing was written
	Duration time.Duration
}

// Converts one file and writes all sink outputs. Record failures are
// collected in the result, file scoped failures end the conversion of this
// file only. On cancellation nothing is written.
func (j *Job) ConvertFile(ctx context.Context, input string, logWriter io.Writer) (res FileResult) {
	start := time.Now()
	res = FileResult{Input: input, Output: j.OutputName(input, j.Sinks[0])}
	defer func() { res.Duration = time.Since(start) }()

	if !j.Force && j.outputsExist(input) {
		fmt.Fprintf(logWriter, "%s: skipping, %s exists\n", input, res.Output)
		res.Skipped = true
		return res
	}

	stream, closeFn, err := OpenCSV(input)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", input, err)
		fmt.Fprintf(logWriter, "%v\n", res.Err)
		return res
	}
	batch, failures, err := j.Converter.Convert(ctx, stream)
	closeFn()
	res.Failures = failures
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", input, err)
		fmt.Fprintf(logWriter, "%v\n", res.Err)
		return res
	}
	res.Points, res.Temps = batch.Len(), batch.Temperatures()

	for _, sink := range j.Sinks {
		out := j.OutputName(input, sink)
		if err := sink.WriteBatch(out, batch); err != nil {
			res.Err = fmt.Errorf("%s: writing %s: %w", input, out, err)
			fmt.Fprintf(logWriter, "%v\n", res.Err)
			return res
		}
	}

	if j.ReportRecords {
		for i, f := range failures {
			if i == maxReportedFailures {
				fmt.Fprintf(logWriter, "%s: ... and %d more rejected records\n", input, len(failures)-i)
				break
			}
			fmt.Fprintf(logWriter, "%s: %v\n", input, f)
		}
	}
	fmt.Fprintf(logWriter, "%s: wrote %d points to %s, rejected %d records, %v, in %v\n",
		input, res.Points, res.Output, len(failures), res.Temps, time.Since(start).Round(time.Millisecond))
	return res
}

func (j *Job) outputsExist(input string) bool {
	for _, sink := range j.Sinks {
		if _, err := os.Stat(j.OutputName(input, sink)); errors.Is(err, os.ErrNotExist) {
			return false
		}
	}
	return true
}
