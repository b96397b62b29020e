package compress

// ZstdCodec wraps output in a Zstandard stream, the best ratio/speed balance
// for archived exports.
//
// Two implementations exist behind build tags: a cgo binding (valyala/gozstd)
// when cgo is available, and a pure-Go fallback (klauspost/compress/zstd)
// otherwise. Both produce standard zstd frames and read each other's output.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
