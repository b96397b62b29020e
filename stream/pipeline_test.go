package stream

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rtukit/errs"
	"github.com/arloliu/rtukit/format"
	"github.com/arloliu/rtukit/rtu"
	"github.com/arloliu/rtukit/timefmt"
)

// memorySink collects everything written, for pipeline tests.
type memorySink struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

func (s *memorySink) Write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, p...)

	return nil
}

func (s *memorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true

	return nil
}

func (s *memorySink) Wait() error { return nil }

func (s *memorySink) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := strings.TrimSuffix(string(s.data), "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}

func makeRecords(n int) []rtu.Record {
	records := make([]rtu.Record, n)
	for i := range records {
		records[i] = rtu.Record{
			Seconds: int64(i),
			Tag:     fmt.Sprintf("TAG_%03d", i%7),
			Value:   float32(i) / 2,
			Quality: format.QualityGood,
		}
	}

	return records
}

func TestStreamLineFormat(t *testing.T) {
	sink := &memorySink{}
	records := []rtu.Record{
		{Seconds: 1_600_000_000, Tag: "FLOW_01", Value: 1.5, Quality: format.QualityGood},
		{Seconds: 1_600_000_001, Tag: "FLOW_01", Value: 2.25, Quality: format.Quality(3)},
	}

	require.NoError(t, Stream(records, sink))

	lines := sink.lines()
	require.Len(t, lines, 2)
	want := timefmt.FormatStream(1_600_000_000) + "  FLOW_01  1.5000  GOOD"
	require.Equal(t, want, lines[0])
	require.True(t, strings.HasSuffix(lines[1], "  2.2500  MANUAL"))
}

func TestStreamPreservesOrderAcrossChunks(t *testing.T) {
	sink := &memorySink{}
	records := makeRecords(1000)

	// Tiny chunks force many out-of-order completions.
	require.NoError(t, Stream(records, sink, WithChunkSize(3)))

	lines := sink.lines()
	require.Len(t, lines, len(records))
	for i, line := range lines {
		require.True(t, strings.HasPrefix(line, timefmt.FormatStream(int64(i))),
			"line %d out of order: %q", i, line)
	}
}

func TestStreamEmpty(t *testing.T) {
	sink := &memorySink{}
	require.NoError(t, Stream(nil, sink))
	require.Empty(t, sink.lines())
}

type failingSink struct{ writes int }

func (s *failingSink) Write(p []byte) error {
	s.writes++
	return fmt.Errorf("pipe broken")
}

func (s *failingSink) Close() error { return nil }
func (s *failingSink) Wait() error  { return nil }

func TestStreamSinkWriteError(t *testing.T) {
	sink := &failingSink{}
	err := Stream(makeRecords(100), sink, WithChunkSize(10))
	require.Error(t, err)
	require.Contains(t, err.Error(), "pipe broken")
	// One failed write stops delivery; later chunks are dropped, not retried.
	require.Equal(t, 1, sink.writes)
}

func TestCommandSinkSuccess(t *testing.T) {
	sink, err := NewCommandSink("sh", "-c", "cat >/dev/null")
	require.NoError(t, err)

	require.NoError(t, sink.Write([]byte("line one\n")))
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Wait())
}

func TestCommandSinkFailureSurfacesStderr(t *testing.T) {
	sink, err := NewCommandSink("sh", "-c", "cat >/dev/null; echo 'generator exploded' >&2; exit 3")
	require.NoError(t, err)

	require.NoError(t, sink.Write([]byte("line one\n")))
	require.NoError(t, sink.Close())

	err = sink.Wait()
	require.ErrorIs(t, err, errs.ErrExternalTool)
	require.Contains(t, err.Error(), "generator exploded")
}

func TestInvalidChunkSize(t *testing.T) {
	_, err := newConfig(WithChunkSize(0))
	require.Error(t, err)
}
