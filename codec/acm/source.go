/*
NAME
  source.go

DESCRIPTION
  source.go provides Source, which pulls bounded chunks of decoded PCM from
  an ACM Stream.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acm

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/acm/codec/pcm"
)

// Source wraps an opened Stream and the resource it reads from.
type Source struct {
	info   Info
	s      Stream
	c      io.Closer
	eof    bool
	pulled int64
}

// NewSource returns a Source decoding s. c, which may be nil, is closed
// after s when the Source is closed.
func NewSource(info Info, s Stream, c io.Closer) *Source {
	return &Source{info: info, s: s, c: c}
}

// Info returns the properties of the stream.
func (s *Source) Info() Info { return s.info }

// Pulled returns the number of PCM bytes pulled so far.
func (s *Source) Pulled() int64 { return s.pulled }

// Pull decodes at most len(buf)/2 PCM words into buf and returns the number
// of bytes produced, which is always a multiple of the sample width; a
// count beyond the end of buf is clamped to len(buf). At the
// end of the stream Pull returns 0, io.EOF. A decoding error is returned
// as given by the codec together with any bytes produced before it; the
// error is not retried.
func (s *Source) Pull(buf []byte) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	buf = buf[:len(buf)/pcm.Width*pcm.Width]
	if len(buf) == 0 {
		return 0, io.ErrShortBuffer
	}

	n, err := s.s.Decode(buf)
	switch {
	case n < 0:
		return 0, errors.Wrapf(ErrOther, "codec produced %d bytes", n)
	case n > len(buf):
		n = len(buf)
	case n%pcm.Width != 0:
		return 0, errors.Wrapf(ErrCorrupt, "codec produced %d bytes, not a whole number of samples", n)
	}
	s.pulled += int64(n)

	switch {
	case err == io.EOF || (err == nil && n == 0):
		s.eof = true
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	case err != nil:
		return n, err
	}
	return n, nil
}

// Close closes the stream and then the underlying resource.
func (s *Source) Close() error {
	err := s.s.Close()
	if s.c != nil {
		if cerr := s.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
