/*
NAME
  sink.go

DESCRIPTION
  sink.go provides the destinations that decoded pcm is written to: files,
  standard output, preallocated memory and a discarding sink.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package decode

import (
	"fmt"
	"io"
	"os"

	"github.com/ausocean/acm/codec/wav"
	"github.com/ausocean/utils/logging"
)

// Sink is a destination for decoded pcm. Close releases any resource the
// sink owns.
type Sink interface {
	io.Writer
	Close() error
}

// headerPutter is implemented by sinks that place the wav header in their
// storage directly rather than having it written through Write.
type headerPutter interface {
	PutHeader(h wav.Header) error
}

// fileSink implements Sink for a local file destination.
type fileSink struct {
	file *os.File
	path string
	log  logging.Logger
}

// NewFileSink creates, or truncates, the file at path and returns a Sink
// writing to it.
func NewFileSink(l logging.Logger, path string) (Sink, error) {
	l.Debug("creating output file", "path", path)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create output file: %w", err)
	}
	return &fileSink{file: f, path: path, log: l}, nil
}

// Write implements io.Writer. Fewer bytes written than given is an error.
func (s *fileSink) Write(d []byte) (int, error) {
	n, err := s.file.Write(d)
	if err == nil && n < len(d) {
		err = io.ErrShortWrite
	}
	return n, err
}

func (s *fileSink) Close() error {
	s.log.Debug("closing output file", "path", s.path)
	return s.file.Close()
}

// streamSink implements Sink for a stream it does not own, such as stdout.
type streamSink struct {
	w io.Writer
}

// NewStreamSink returns a Sink writing to w. Closing the sink does not close w.
func NewStreamSink(w io.Writer) Sink { return streamSink{w: w} }

func (s streamSink) Write(d []byte) (int, error) {
	n, err := s.w.Write(d)
	if err == nil && n < len(d) {
		err = io.ErrShortWrite
	}
	return n, err
}

func (s streamSink) Close() error { return nil }

// MemorySink is a Sink that copies into a region of fixed size at an
// advancing offset. It never grows.
type MemorySink struct {
	buf []byte
	off int
}

// NewMemorySink returns a MemorySink holding exactly size bytes.
func NewMemorySink(size int) *MemorySink {
	return &MemorySink{buf: make([]byte, size)}
}

// Write copies d at the current offset. If d does not fit, as much as fits
// is copied and io.ErrShortBuffer is returned.
func (s *MemorySink) Write(d []byte) (int, error) {
	n := copy(s.buf[s.off:], d)
	s.off += n
	if n < len(d) {
		return n, io.ErrShortBuffer
	}
	return n, nil
}

// PutHeader encodes h directly into the region at the current offset, which
// must be the start of the region.
func (s *MemorySink) PutHeader(h wav.Header) error {
	if s.off != 0 {
		return fmt.Errorf("header must start the region, offset is %d", s.off)
	}
	if err := h.Put(s.buf); err != nil {
		return err
	}
	s.off = wav.HeaderSize
	return nil
}

// Bytes returns the bytes written so far.
func (s *MemorySink) Bytes() []byte { return s.buf[:s.off] }

// Cap returns the size of the region.
func (s *MemorySink) Cap() int { return len(s.buf) }

func (s *MemorySink) Close() error { return nil }

// Discard is a Sink on which all writes succeed without doing anything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Write(d []byte) (int, error) { return len(d), nil }
func (discard) Close() error                 { return nil }
