// Package stream feeds time-ordered point text to an external generator
// process.
//
// The generator owns the proprietary write format; this package only speaks
// its line-oriented stdin protocol. Formatting is fanned out across a small
// worker pool while a single writer releases chunks strictly in order, so the
// generator always sees a globally ordered stream.
package stream

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/arloliu/rtukit/errs"
)

// ExternalSink is the destination of the formatted point stream. Write
// delivers a block of complete lines; Close signals end of input; Wait blocks
// until the sink has fully consumed the stream and reports its final status.
type ExternalSink interface {
	Write(p []byte) error
	Close() error
	Wait() error
}

// CommandSink drives an external process, writing the stream to its standard
// input and capturing standard error for diagnostics.
type CommandSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
}

// NewCommandSink starts the command. The caller must Close and Wait even on
// write errors, or the process leaks.
func NewCommandSink(command string, args ...string) (*CommandSink, error) {
	cmd := exec.Command(command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	sink := &CommandSink{cmd: cmd, stdin: stdin}
	cmd.Stderr = &sink.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}

	return sink, nil
}

// NewGeneratorSink starts the generator binary with its conventional
// arguments: the target output path and the maximum point count.
func NewGeneratorSink(generator, outPath string, maxPoints int) (*CommandSink, error) {
	return NewCommandSink(generator, outPath, fmt.Sprintf("-MAXPTS=%d", maxPoints))
}

// Write sends a block of lines to the process.
func (s *CommandSink) Write(p []byte) error {
	_, err := s.stdin.Write(p)
	return err
}

// Close closes the process's standard input.
func (s *CommandSink) Close() error {
	return s.stdin.Close()
}

// Wait blocks until the process exits. A nonzero exit status is reported as
// errs.ErrExternalTool carrying the captured stderr text. A partially written
// output file is left in place.
func (s *CommandSink) Wait() error {
	err := s.cmd.Wait()
	if err == nil {
		return nil
	}

	detail := strings.TrimSpace(s.stderr.String())
	if detail == "" {
		detail = err.Error()
	}

	return fmt.Errorf("%w: %s", errs.ErrExternalTool, detail)
}

// Stderr returns the stderr text captured so far.
func (s *CommandSink) Stderr() string {
	return s.stderr.String()
}
