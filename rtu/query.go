package rtu

import (
	"fmt"
	"sort"
	"time"

	"github.com/arloliu/rtukit/errs"
	"github.com/arloliu/rtukit/format"
	"github.com/arloliu/rtukit/timefmt"
)

// Record is one resolved observation.
type Record struct {
	Time    time.Time // local wall-clock time
	Seconds int64     // raw file-seconds
	Tag     string
	Value   float32
	Quality format.Quality
}

// FileInfo summarizes an open file: extent of its data, valid point count and
// tag dictionary.
type FileInfo struct {
	Path   string
	Size   int64
	Author string

	FirstSeconds int64
	LastSeconds  int64
	FirstTime    time.Time
	LastTime     time.Time

	TotalValidPoints int
	DeclaredPoints   int
	Truncated        bool

	TagCount int
	Tags     []string
}

// Duration returns the time span between the first and last valid points.
// Zero for files with fewer than two points.
func (i FileInfo) Duration() time.Duration {
	if i.TotalValidPoints == 0 {
		return 0
	}

	return time.Duration(i.LastSeconds-i.FirstSeconds) * time.Second
}

// Info loads the points if needed and returns the file summary. Files with no
// valid points report zero timestamps and a zero count, not an error.
func (f *File) Info() FileInfo {
	f.ensureLoaded()

	info := FileInfo{
		Path:             f.path,
		Size:             f.size,
		Author:           f.bsio.AuthorNames,
		TotalValidPoints: len(f.phys),
		DeclaredPoints:   int(f.header.TotalPoints),
		Truncated:        f.truncated,
		TagCount:         len(f.header.Dictionary),
		Tags:             f.header.Dictionary,
	}

	if len(f.sorted) > 0 {
		info.FirstSeconds = int64(f.sorted[0])
		info.LastSeconds = int64(f.sorted[len(f.sorted)-1])
		info.FirstTime = timefmt.FromFileSeconds(info.FirstSeconds)
		info.LastTime = timefmt.FromFileSeconds(info.LastSeconds)
	}

	return info
}

// rangeBounds returns the half-open index interval [lo, hi) of the sorted
// timestamps inside [start, end] inclusive.
func (f *File) rangeBounds(start, end int64) (int, int) {
	lo := sort.Search(len(f.sorted), func(i int) bool {
		return int64(f.sorted[i]) >= start
	})
	hi := sort.Search(len(f.sorted), func(i int) bool {
		return int64(f.sorted[i]) > end
	})

	return lo, hi
}

// CountBetween counts points with timestamps in [start, end] inclusive, both
// in file-seconds. No match is 0, not an error.
//
// Returns errs.ErrInvalidTimeRange when start > end, before any scan.
func (f *File) CountBetween(start, end int64) (int, error) {
	if start > end {
		return 0, fmt.Errorf("%w: %d > %d", errs.ErrInvalidTimeRange, start, end)
	}

	f.ensureLoaded()
	lo, hi := f.rangeBounds(start, end)

	return hi - lo, nil
}

// ExtractBetween materializes the points with timestamps in [start, end]
// inclusive, in non-decreasing timestamp order, each resolved to its tag
// name, local time and quality. No match is an empty slice, not an error.
//
// Returns errs.ErrInvalidTimeRange when start > end, before any scan.
func (f *File) ExtractBetween(start, end int64) ([]Record, error) {
	if start > end {
		return nil, fmt.Errorf("%w: %d > %d", errs.ErrInvalidTimeRange, start, end)
	}

	f.ensureLoaded()
	lo, hi := f.rangeBounds(start, end)

	records := make([]Record, 0, hi-lo)
	for i := lo; i < hi; i++ {
		p := f.phys[i]
		id := f.ids[p]
		sec := int64(f.times[p])

		records = append(records, Record{
			Time:    timefmt.FromFileSeconds(sec),
			Seconds: sec,
			Tag:     f.tagName(id),
			Value:   f.values[p],
			Quality: format.Quality(id >> format.QualityShift),
		})
	}

	return records, nil
}

// tagName resolves a point id to its dictionary entry. Ids reference tags
// with a 1-based index; out-of-dictionary ids resolve to a synthetic name.
func (f *File) tagName(id uint32) string {
	idx := id & format.TagIndexMask
	if idx >= 1 && int(idx) <= len(f.header.Dictionary) {
		return f.header.Dictionary[idx-1]
	}

	return fmt.Sprintf("UNKNOWN_%d", idx)
}
