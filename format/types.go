// Package format defines the fixed constants of the RTU historian point
// layout along with the small enums shared by the query and export layers.
package format

type (
	// Quality is the per-point status code packed into the high byte of the
	// point id field. Zero means GOOD; any nonzero value means the point was
	// entered manually or flagged bad.
	Quality uint8

	// SampleMode selects the resampling strategy for sampled wide exports.
	SampleMode uint8

	// Shape selects the CSV layout.
	Shape uint8

	// CompressionType selects the optional compression applied to export
	// output streams.
	CompressionType uint8
)

// Point layout constants. A point is a packed 12-byte triple: uint32 id,
// int32 file-seconds, float32 value.
const (
	PointSize = 12

	// TagIndexMask extracts the 1-based tag dictionary index from a point id
	// (bits 0-23). QualityShift moves the quality code (bits 24-31) down.
	TagIndexMask = 0x00FFFFFF
	QualityShift = 24
)

const (
	QualityGood Quality = 0 // any nonzero quality is manual/bad
)

const (
	SampleActual       SampleMode = 0x1 // SampleActual selects the nearest real observation per tick.
	SampleInterpolated SampleMode = 0x2 // SampleInterpolated linearly interpolates onto the nominal grid.
)

const (
	ShapeFlat Shape = 0x1 // ShapeFlat is one row per observation.
	ShapeWide Shape = 0x2 // ShapeWide is one row per timestamp, one column per tag.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone writes plain output.
	CompressionGzip CompressionType = 0x2 // CompressionGzip wraps output in a gzip stream.
	CompressionZstd CompressionType = 0x3 // CompressionZstd wraps output in a Zstandard stream.
	CompressionS2   CompressionType = 0x4 // CompressionS2 wraps output in an S2 stream.
	CompressionLZ4  CompressionType = 0x5 // CompressionLZ4 wraps output in an LZ4 frame stream.
)

// IsGood reports whether the quality code marks a good observation.
func (q Quality) IsGood() bool {
	return q == QualityGood
}

// CSVString returns the quality label used by the CSV exporters.
func (q Quality) CSVString() string {
	if q.IsGood() {
		return "GOOD"
	}

	return "BAD"
}

// StreamString returns the quality label used by the generator stream
// protocol.
func (q Quality) StreamString() string {
	if q.IsGood() {
		return "GOOD"
	}

	return "MANUAL"
}

func (m SampleMode) String() string {
	switch m {
	case SampleActual:
		return "actual"
	case SampleInterpolated:
		return "interpolated"
	default:
		return "unknown"
	}
}

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeWide:
		return "wide"
	default:
		return "unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionGzip:
		return "Gzip"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
