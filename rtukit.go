// Package rtukit reads the proprietary RTU binary historian format: files of
// time-stamped, tagged scalar measurements addressed through a
// virtual-capacity record scheme.
//
// The package opens a historian file, parses its prologue and tag dictionary,
// loads and chronologically indexes its packed points, and exposes time-range
// queries over the result. On top of the queries it offers CSV export in
// three shapes (flat, wide, sampled wide) and a streaming path that feeds a
// filtered point set to the external generator binary that owns the write
// format.
//
// # Basic Usage
//
// Inspecting a file:
//
//	import "github.com/arloliu/rtukit"
//
//	f, _ := rtukit.Open("plant.dt")
//	defer f.Close()
//
//	info := f.Info()
//	fmt.Printf("%d points, %s to %s\n",
//	    info.TotalValidPoints, info.FirstTime, info.LastTime)
//
// Exporting a time range as flat CSV:
//
//	rows, _ := rtukit.ExportFlat(f, "plant_flat.csv",
//	    rtukit.WithTimeStrings("01/06/24 00:00:00", "02/06/24 00:00:00"))
//
// Resizing into a new historian file through the generator binary:
//
//	n, _ := rtukit.Resize(f, "rtugen", "plant_resized.dt", startSec, endSec)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the rtu, export
// and stream packages, simplifying the most common use cases. For
// fine-grained control, use those packages directly.
package rtukit

import (
	"github.com/arloliu/rtukit/export"
	"github.com/arloliu/rtukit/rtu"
	"github.com/arloliu/rtukit/stream"
	"github.com/arloliu/rtukit/timefmt"
)

// File is an open RTU historian file. See the rtu package for the full API.
type File = rtu.File

// Record is one resolved observation.
type Record = rtu.Record

// FileInfo summarizes an open file.
type FileInfo = rtu.FileInfo

// ExportOption configures the CSV export wrappers.
type ExportOption = export.Option

// Open opens a historian file with the default little-endian layout.
func Open(path string, opts ...rtu.Option) (*File, error) {
	return rtu.Open(path, opts...)
}

// ValidateFile checks that the file opens and parses structurally without
// loading its point data.
func ValidateFile(path string) error {
	return rtu.ValidateFile(path)
}

// ParseTime parses a boundary time string ('dd/mm/yy HH:MM:SS' or
// 'yyyy/mm/dd HH:MM:SS') into file-seconds.
func ParseTime(s string) (int64, error) {
	return timefmt.ParseInput(s)
}

// ExportFlat writes the file's points as flat CSV, one row per observation.
// Returns the number of data rows written.
func ExportFlat(f *File, outPath string, opts ...ExportOption) (int, error) {
	return export.Flat(f, outPath, opts...)
}

// ExportWide writes the file's points as wide CSV, one row per timestamp and
// one column per tag, optionally resampled. Returns the number of data rows
// and tag columns written.
func ExportWide(f *File, outPath string, opts ...ExportOption) (int, int, error) {
	return export.Wide(f, outPath, opts...)
}

// Resize extracts the points in [start, end] inclusive and streams them to
// the generator binary, which writes the new historian file at outPath.
// Returns the number of points streamed.
func Resize(f *File, generator, outPath string, start, end int64, opts ...stream.Option) (int, error) {
	return stream.Resize(f, generator, outPath, start, end, opts...)
}

// WithTimeRange restricts an export to [start, end] in file-seconds.
func WithTimeRange(start, end int64) ExportOption {
	return export.WithTimeRange(start, end)
}

// WithTimeStrings restricts an export to the range given as boundary time
// strings.
func WithTimeStrings(start, end string) ExportOption {
	return export.WithTimeStrings(start, end)
}

// WithAllowList restricts an export to the named tags.
func WithAllowList(tags []string) ExportOption {
	return export.WithAllowList(tags)
}

// WithAllowListFile loads the export allow-list from a file.
func WithAllowListFile(path string) ExportOption {
	return export.WithAllowListFile(path)
}
