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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"

	gl "github.com/mlnoga/gaialas/internal"
	"github.com/mlnoga/gaialas/internal/blackbody"
	"github.com/mlnoga/gaialas/internal/config"
	"github.com/mlnoga/gaialas/internal/convert"
	"github.com/mlnoga/gaialas/internal/gaia"
	"github.com/mlnoga/gaialas/internal/las"
	"github.com/mlnoga/gaialas/internal/rest"
)

const version = "0.1.0"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var configFile = flag.String("config", "", "load settings from YAML `file`, flags given explicitly override it")
var logFile = flag.String("log", "%auto", "save log output to `file`. `%auto` writes gaialas.log into the output directory, if one is given")

var strategy = flag.String("strategy", "lookup", "temperature to color strategy, one of exact, polynomial, lookup")
var minKelvin = flag.Float64("minKelvin", 0, "lowest temperature the strategy accepts, overrides the strategy default together with -maxKelvin")
var maxKelvin = flag.Float64("maxKelvin", 0, "highest temperature the strategy accepts, overrides the strategy default together with -minKelvin")
var prefix = flag.Int("prefix", gaia.DefaultDesignationPrefixLen, "length of the catalog prefix of designations, e.g. 9 for 'Gaia DR3 '")
var extras = flag.Bool("extras", false, "also write parallax, pm, phot_g_mean_mag and phot_g_mean_flux per point")
var sample = flag.Float64("sample", 1, "keep this fraction of valid stars, in (0,1]")
var seed = flag.Uint("seed", 0, "seed for -sample, 0=random")
var out = flag.String("out", "", "write outputs into `dir` instead of next to the inputs")
var depth = flag.Int("depth", 8, "color depth of outputs, 8 stores 0..255, 16 stores 0..65535")
var prev = flag.Bool("preview", false, "also write an all-sky 16-bit TIFF preview per input")
var prevWidth = flag.Int("previewWidth", 2048, "width of the preview in pixels")
var force = flag.Bool("force", false, "overwrite existing outputs")
var threads = flag.Int("threads", 0, "number of files to convert in parallel, 0=one per logical core")
var memoryMB = flag.Int("memory", 0, "MiB of memory to budget for conversion, 0=0.7x physical memory")
var quiet = flag.Bool("quiet", false, "only log counts of rejected records, not each one")

var debounce = flag.Duration("debounce", convert.DefaultDebounce, "watch: convert files once unchanged for this long")
var addr = flag.String("addr", ":8080", "serve: listen on this address")
var chroot = flag.String("chroot", "", "serve: change filesystem root to `dir` before serving (requires root)")
var setuid = flag.Int("setuid", -1, "serve: change user id to this after chroot, -1=keep")

func main() {
	logWriter := gl.LogWriter()
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(os.Stdout, `Gaialas Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (convert|watch|color|info|serve|legal|version) (args)

Commands:
  convert Convert Gaia catalog CSV files (file patterns or directories) into LAS point clouds
  watch   Watch a directory and convert catalog files as they arrive
  color   Show the color of blackbodies at the given temperatures in Kelvin
  info    Show the header of LAS files
  serve   Serve the REST API
  legal   Show license and attribution information
  version Show version information

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	s, err := settings()
	if err != nil {
		gl.LogFatalf("Error in settings: %s\n", err.Error())
	}

	// Initialize logging to file in addition to stdout, if selected
	if *logFile == "%auto" {
		*logFile = ""
		if s.OutDir != "" && (args[0] == "convert" || args[0] == "watch") {
			*logFile = filepath.Join(s.OutDir, "gaialas.log")
		}
	}
	if *logFile != "" {
		if err := gl.LogAlsoToFile(*logFile); err != nil {
			gl.LogFatalf("Unable to open logfile '%s'\n", *logFile)
		}
	}

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			gl.LogFatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			gl.LogFatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "convert":
		err = cmdConvert(ctx, args[1:], s, logWriter)
	case "watch":
		err = cmdWatch(ctx, args[1:], s, logWriter)
	case "color":
		err = cmdColor(args[1:], s, logWriter)
	case "info":
		err = cmdInfo(args[1:], logWriter)
	case "serve":
		if err = rest.Sandbox(*chroot, *setuid, logWriter); err == nil {
			err = rest.NewServer(s).Run(*addr)
		}
	case "legal":
		cmdLegal()
	case "version":
		fmt.Fprintf(logWriter, "Version %s\n", version)
	case "help", "?":
		flag.Usage()
	default:
		fmt.Fprintf(logWriter, "Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}
	if args[0] == "convert" || args[0] == "watch" {
		fmt.Fprintf(logWriter, "\nDone after %v\n", time.Since(start).Round(time.Millisecond))
	}

	// Store memory profile if flagged
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			gl.LogFatal("Could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			gl.LogFatal("Could not write allocation profile: ", err)
		}
	}
	if err != nil {
		gl.LogFatalf("Error: %s\n", err.Error())
	}
	gl.LogSync()
}

// Builds settings from defaults, the optional config file and explicitly given flags
func settings() (config.Settings, error) {
	s := config.Default()
	if *configFile != "" {
		var err error
		if s, err = config.Load(*configFile); err != nil {
			return s, err
		}
	}
	errs := []error{}
	domainGiven := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			k, err := blackbody.ParseKind(*strategy)
			if err != nil {
				errs = append(errs, err)
			}
			s.Strategy = k
		case "minKelvin", "maxKelvin":
			domainGiven = true
		case "prefix":
			s.DesignationPrefixLen = *prefix
		case "extras":
			s.Extras = *extras
		case "sample":
			s.Sample = *sample
		case "seed":
			s.Seed = uint32(*seed)
		case "out":
			s.OutDir = *out
		case "depth":
			s.ColorDepth = *depth
		case "preview":
			s.Preview = *prev
		case "previewWidth":
			s.PreviewWidth = *prevWidth
		case "force":
			s.Force = *force
		case "threads":
			s.Threads = *threads
		case "memory":
			s.MemoryMB = *memoryMB
		case "quiet":
			s.ReportRecords = !*quiet
		}
	})
	if domainGiven {
		d := blackbody.DefaultDomain(s.Strategy)
		d.Min, d.Max = *minKelvin, *maxKelvin
		s.Domain = &d
	}
	errs = append(errs, s.Validate())
	return s, errors.Join(errs...)
}

func printSettings(logWriter io.Writer, s config.Settings) error {
	m, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "Settings:\n%s\n", string(m))
	return nil
}

// Converts all files matching the given patterns
func cmdConvert(ctx context.Context, patterns []string, s config.Settings, logWriter io.Writer) error {
	if len(patterns) == 0 {
		return errors.New("no input files given")
	}
	files, err := convert.Discover(patterns)
	if err != nil {
		return err
	}
	if s.OutDir != "" {
		if err := os.MkdirAll(s.OutDir, 0777); err != nil {
			return err
		}
	}
	fmt.Fprintf(logWriter, "Running on %s with %d logical cores and %d MiB physical memory.\n",
		cpuid.CPU.BrandName, cpuid.CPU.LogicalCores, memory.TotalMemory()/1024/1024)
	if err := printSettings(logWriter, s); err != nil {
		return err
	}
	sum, err := convert.Run(ctx, files, s, logWriter)
	if err != nil {
		return err
	}
	sum.Print(logWriter)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return sum.Err()
}

// Watches a directory until interrupted
func cmdWatch(ctx context.Context, args []string, s config.Settings, logWriter io.Writer) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	j, err := convert.NewJob(s)
	if err != nil {
		return err
	}
	if err := printSettings(logWriter, s); err != nil {
		return err
	}
	err = j.Watch(ctx, dir, *debounce, logWriter, nil)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Prints the colors of the given temperatures
func cmdColor(args []string, s config.Settings, logWriter io.Writer) error {
	st, err := s.NewStrategy()
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "Strategy %v with domain %v:\n", st.Kind(), st.Domain())
	for _, arg := range args {
		kelvin, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature '%s'", arg)
		}
		c, err := st.RGB(kelvin)
		if err != nil {
			fmt.Fprintf(logWriter, "%10.1fK  %v\n", kelvin, err)
			continue
		}
		fmt.Fprintf(logWriter, "%10.1fK  %v\n", kelvin, c)
	}
	return nil
}

// Prints the headers of the given LAS files
func cmdInfo(args []string, logWriter io.Writer) error {
	for _, fileName := range args {
		f, err := os.Open(fileName)
		if err != nil {
			return err
		}
		h, err := las.ReadHeader(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", fileName, err)
		}
		fmt.Fprintf(logWriter, "%s:\n", fileName)
		h.Print(logWriter)
	}
	return nil
}
