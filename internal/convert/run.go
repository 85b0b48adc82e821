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
	"runtime"
	"sort"
	"strings"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
	"golang.org/x/sync/errgroup"

	"github.com/mlnoga/gaialas/internal/config"
	"github.com/mlnoga/gaialas/internal/gaia"
)

// Estimated bytes of memory per input byte while converting a file.
// Gzip catalogs inflate several times.
const (
	bytesPerCSVByte = 1
	bytesPerGzByte  = 6
	minFileBytes    = 1 << 20
)

// Outcome of converting a set of files
type Summary struct {
	Files     int
	Converted int
	Skipped   int
	Failed    int
	Cancelled int // files never started or aborted
	Points    int
	Rejected  int
	ByKind    map[gaia.Kind]int
	Results   []FileResult
}

// Returns the file scoped errors of the run, joined
func (s *Summary) Err() error {
	errs := []error{}
	for _, r := range s.Results {
		if r.Err != nil && !errors.Is(r.Err, context.Canceled) && !errors.Is(r.Err, context.DeadlineExceeded) {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "\nConverted %d of %d files into %d points, skipped %d, failed %d, cancelled %d.\n",
		s.Converted, s.Files, s.Points, s.Skipped, s.Failed, s.Cancelled)
	if s.Rejected == 0 {
		return
	}
	kinds := make([]gaia.Kind, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%v %d", k, s.ByKind[k])
	}
	fmt.Fprintf(w, "Rejected %d records: %s.\n", s.Rejected, strings.Join(parts, ", "))
}

func (s *Summary) add(r FileResult) {
	s.Results = append(s.Results, r)
	switch {
	case r.Skipped:
		s.Skipped++
	case r.Err != nil && (errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded)):
		s.Cancelled++
	case r.Err != nil:
		s.Failed++
	default:
		s.Converted++
		s.Points += r.Points
		s.Rejected += len(r.Failures)
		for k, n := range CountByKind(r.Failures) {
			s.ByKind[k] += n
		}
	}
}

// Converts the given files with the given settings in parallel
func Run(ctx context.Context, files []string, s config.Settings, logWriter io.Writer) (Summary, error) {
	j, err := NewJob(s)
	if err != nil {
		return Summary{}, err
	}
	return j.Run(ctx, files, Workers(files, s.Threads, s.MemoryMB, logWriter), logWriter), nil
}

// Converts the given files with up to the given number of concurrent workers.
// A file which fails does not stop the others. Cancellation stops starting
// new files and aborts running ones.
func (j *Job) Run(ctx context.Context, files []string, workers int, logWriter io.Writer) Summary {
	results := make([]FileResult, len(files))
	started := make([]bool, len(files))

	g := errgroup.Group{}
	g.SetLimit(workers)
	for i, f := range files {
		if ctx.Err() != nil {
			break
		}
		i, f := i, f
		started[i] = true
		g.Go(func() error {
			results[i] = j.ConvertFile(ctx, f, logWriter)
			return nil
		})
	}
	g.Wait()

	sum := Summary{Files: len(files), ByKind: map[gaia.Kind]int{}}
	for i, r := range results {
		if !started[i] {
			r = FileResult{Input: files[i], Err: fmt.Errorf("%s: %w", files[i], ctx.Err())}
		}
		sum.add(r)
	}
	return sum
}

// Returns the number of concurrent workers for converting the given files,
// limited by threads and by the memory budget. Zero threads means one per
// logical core, zero memory means 70% of physical memory.
func Workers(files []string, threads, memoryMB int, logWriter io.Writer) int {
	if threads <= 0 {
		threads = cpuid.CPU.LogicalCores
		if threads <= 0 {
			threads = runtime.GOMAXPROCS(0)
		}
	}
	budget := int64(memoryMB) * 1024 * 1024
	if budget <= 0 {
		budget = int64(memory.TotalMemory()) / 10 * 7
	}

	largest := int64(minFileBytes)
	for _, f := range files {
		if n := estimateBytes(f); n > largest {
			largest = n
		}
	}
	workers := threads
	if byMemory := int(budget / largest); byMemory < workers {
		workers = byMemory
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}
	fmt.Fprintf(logWriter, "Using %d workers for %d files: %d threads, %d MB memory budget, largest file needs about %d MB.\n",
		workers, len(files), threads, budget/1024/1024, largest/1024/1024)
	return workers
}

// Estimates the memory needed to convert the given file
func estimateBytes(fileName string) int64 {
	info, err := os.Stat(fileName)
	if err != nil {
		return minFileBytes
	}
	factor := int64(bytesPerCSVByte)
	if isGzip(fileName) {
		factor = bytesPerGzByte
	}
	if n := info.Size() * factor; n > minFileBytes {
		return n
	}
	return minFileBytes
}
