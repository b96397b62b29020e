// Package timefmt converts between RTU file-seconds and wall-clock time.
//
// Point timestamps are stored as integer seconds since a custom epoch,
// 1967-12-31T00:00:00Z. Externally visible datetimes are rendered in the
// process local zone, so conversions pass through UTC and pick up DST
// transitions from the local zone database.
package timefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/rtukit/errs"
)

// Epoch is the zero point of RTU file-seconds.
var Epoch = time.Date(1967, time.December, 31, 0, 0, 0, 0, time.UTC)

// Layouts accepted at the API boundary for start/end time strings.
const (
	LayoutShortYear = "02/01/06 15:04:05"   // dd/mm/yy HH:MM:SS
	LayoutFullYear  = "2006/01/02 15:04:05" // yyyy/mm/dd HH:MM:SS

	// LayoutCSV is the datetime column format of the CSV exporters.
	LayoutCSV = "2006-01-02 15:04:05"

	// LayoutStream is the datetime field format of the generator stream
	// protocol.
	LayoutStream = "06/01/02 15:04:05"
)

// ParseInput parses a boundary time string in either of the accepted layouts
// and returns its file-seconds value. The string is interpreted as local
// wall-clock time.
//
// Returns errs.ErrInvalidTimeFormat when the string matches neither layout.
func ParseInput(s string) (int64, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{LayoutShortYear, LayoutFullYear} {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return ToFileSeconds(t), nil
		}
	}

	return 0, fmt.Errorf("%w: %q (want 'dd/mm/yy HH:MM:SS' or 'yyyy/mm/dd HH:MM:SS')",
		errs.ErrInvalidTimeFormat, s)
}

// ToFileSeconds converts a time to integer seconds since the custom epoch.
// Times without an explicit zone are assumed to already carry the intended
// location (ParseInput attaches time.Local).
func ToFileSeconds(t time.Time) int64 {
	return int64(t.UTC().Sub(Epoch) / time.Second)
}

// FromFileSeconds converts file-seconds to local wall-clock time. The result
// is DST-aware: the epoch offset is applied in UTC and the sum converted to
// the process local zone.
func FromFileSeconds(sec int64) time.Time {
	return Epoch.Add(time.Duration(sec) * time.Second).In(time.Local)
}

// FormatCSV renders file-seconds as the CSV datetime column value.
func FormatCSV(sec int64) string {
	return FromFileSeconds(sec).Format(LayoutCSV)
}

// FormatStream renders file-seconds as the generator stream datetime field.
func FormatStream(sec int64) string {
	return FromFileSeconds(sec).Format(LayoutStream)
}
