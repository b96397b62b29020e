// rtudump inspects, exports and resizes RTU historian files.
//
//	rtudump info <file.dt>
//	rtudump export [flags] <file.dt>
//	rtudump resize [flags] <file.dt>
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/rtukit/export"
	"github.com/arloliu/rtukit/format"
	"github.com/arloliu/rtukit/rtu"
	"github.com/arloliu/rtukit/stream"
	"github.com/arloliu/rtukit/timefmt"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "resize":
		err = runResize(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "rtudump: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  rtudump info <file.dt>
  rtudump export [-shape flat|wide] [-start T] [-end T] [-tags FILE]
                 [-interval SECS] [-mode actual|interpolated] [-out FILE] [-v] <file.dt>
  rtudump resize [-start T -end T] [-gen BIN] [-out FILE] [-v] <file.dt>

time strings: 'dd/mm/yy HH:MM:SS' or 'yyyy/mm/dd HH:MM:SS'`)
}

func logger(verbose bool) *slog.Logger {
	if !verbose {
		return nil
	}

	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("info: exactly one file expected")
	}

	f, err := rtu.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	info := f.Info()
	fmt.Printf("file:            %s\n", info.Path)
	fmt.Printf("size:            %d bytes\n", info.Size)
	fmt.Printf("author:          %s\n", info.Author)
	fmt.Printf("valid points:    %d (declared %d)\n", info.TotalValidPoints, info.DeclaredPoints)
	if info.Truncated {
		fmt.Printf("truncated:       yes\n")
	}
	if info.TotalValidPoints > 0 {
		fmt.Printf("first timestamp: %s (%d)\n", info.FirstTime.Format(timefmt.LayoutCSV), info.FirstSeconds)
		fmt.Printf("last timestamp:  %s (%d)\n", info.LastTime.Format(timefmt.LayoutCSV), info.LastSeconds)
		fmt.Printf("duration:        %s\n", info.Duration())
	}
	fmt.Printf("tags:            %d\n", info.TagCount)
	for _, tag := range info.Tags {
		fmt.Printf("  %s\n", tag)
	}

	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	shape := fs.String("shape", "flat", "output shape: flat or wide")
	start := fs.String("start", "", "range start time string")
	end := fs.String("end", "", "range end time string")
	tags := fs.String("tags", "", "tag allow-list file")
	interval := fs.Int64("interval", 0, "sampling interval in seconds (wide only)")
	mode := fs.String("mode", "actual", "sampling mode: actual or interpolated")
	out := fs.String("out", "", "output file (default derived from input)")
	verbose := fs.Bool("v", false, "log progress to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("export: exactly one file expected")
	}
	input := fs.Arg(0)

	var opts []export.Option
	if *start != "" || *end != "" {
		if *start == "" || *end == "" {
			return fmt.Errorf("export: -start and -end must be given together")
		}
		opts = append(opts, export.WithTimeStrings(*start, *end))
	}
	if *tags != "" {
		opts = append(opts, export.WithAllowListFile(*tags))
	}

	sampleMode := format.SampleActual
	if *interval > 0 {
		switch *mode {
		case "actual":
		case "interpolated":
			sampleMode = format.SampleInterpolated
		default:
			return fmt.Errorf("export: unknown sampling mode %q", *mode)
		}
		opts = append(opts, export.WithSampling(*interval, sampleMode))
	}
	if log := logger(*verbose); log != nil {
		opts = append(opts, export.WithLogger(log))
	}

	shapeName, err := resolveShape(*shape, *interval > 0)
	if err != nil {
		return err
	}

	f, err := rtu.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	outPath := *out
	if outPath == "" {
		outPath = defaultOutputName(input, shapeName, *interval > 0, sampleMode,
			*start != "", *tags != "")
	}

	switch shapeName {
	case "flat":
		rows, err := export.Flat(f, outPath, opts...)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d rows to %s\n", rows, outPath)
	case "wide":
		rows, cols, err := export.Wide(f, outPath, opts...)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d rows x %d tag columns to %s\n", rows, cols, outPath)
	}

	return nil
}

// resolveShape picks the export engine. Sampling has no flat rendering, so a
// sampled flat request runs the sampled wide export instead.
func resolveShape(shape string, sampled bool) (string, error) {
	switch shape {
	case "flat":
		if sampled {
			return "wide", nil
		}

		return "flat", nil
	case "wide":
		return "wide", nil
	default:
		return "", fmt.Errorf("export: unknown shape %q", shape)
	}
}

func runResize(args []string) error {
	fs := flag.NewFlagSet("resize", flag.ExitOnError)
	start := fs.String("start", "", "range start time string")
	end := fs.String("end", "", "range end time string")
	gen := fs.String("gen", "rtugen", "generator binary")
	out := fs.String("out", "", "output file (default derived from input)")
	verbose := fs.Bool("v", false, "log progress to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("resize: exactly one file expected")
	}
	if (*start == "") != (*end == "") {
		return fmt.Errorf("resize: -start and -end must be given together")
	}
	input := fs.Arg(0)

	f, err := rtu.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	outPath := *out
	if outPath == "" {
		outPath = trimExt(input) + "_resized.dt"
	}

	var opts []stream.Option
	if log := logger(*verbose); log != nil {
		opts = append(opts, stream.WithLogger(log))
	}

	// No range means copy the whole file.
	var n int
	if *start == "" {
		n, err = stream.ResizeAll(f, *gen, outPath, opts...)
	} else {
		var startSec, endSec int64
		startSec, err = timefmt.ParseInput(*start)
		if err != nil {
			return err
		}
		endSec, err = timefmt.ParseInput(*end)
		if err != nil {
			return err
		}
		n, err = stream.Resize(f, *gen, outPath, startSec, endSec, opts...)
	}
	if err != nil {
		return err
	}
	fmt.Printf("streamed %d points to %s\n", n, outPath)

	return nil
}

// defaultOutputName derives the export file name from the input name plus
// suffixes describing what was applied, e.g. plant_timerange_filtered_flat.csv.
func defaultOutputName(input, shape string, sampled bool, mode format.SampleMode, ranged, filtered bool) string {
	base := trimExt(input)

	var suffixes []string
	if ranged {
		suffixes = append(suffixes, "timerange")
	}
	if filtered {
		suffixes = append(suffixes, "filtered")
	}
	if sampled {
		suffixes = append(suffixes, "sampled_"+mode.String())
	}
	suffixes = append(suffixes, shape)

	return base + "_" + strings.Join(suffixes, "_") + ".csv"
}

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
