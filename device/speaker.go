/*
DESCRIPTION
  speaker.go provides Speaker, an owned output device that is reused across
  playback sessions of the same format.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package device

import (
	"errors"
	"fmt"
	"io"

	"github.com/ausocean/acm/codec/pcm"
	"github.com/ausocean/utils/logging"
)

var errSpeakerClosed = errors.New("speaker is closed")

// Speaker owns at most one open output device from a Backend. Consecutive
// sessions that play the same format share the device; a change of format
// closes it and opens a new one. Speaker is not safe for concurrent use.
type Speaker struct {
	b      Backend
	l      logging.Logger
	out    io.WriteCloser
	f      pcm.BufferFormat
	closed bool
}

// NewSpeaker returns a Speaker that opens devices from b.
func NewSpeaker(b Backend, l logging.Logger) *Speaker {
	return &Speaker{b: b, l: l}
}

// Acquire returns a device playing format f, reusing the open device if it
// already plays f.
func (s *Speaker) Acquire(f pcm.BufferFormat) (io.Writer, error) {
	if s.closed {
		return nil, errSpeakerClosed
	}
	if s.out != nil {
		if s.f == f {
			s.l.Debug("reusing output device", "backend", s.b.Name(), "rate", f.Rate, "channels", f.Channels)
			return s.out, nil
		}
		s.l.Debug("output format changed, closing device", "backend", s.b.Name())
		err := s.release()
		if err != nil {
			s.l.Warning("could not close output device", "error", err)
		}
	}

	s.l.Debug("opening output device", "backend", s.b.Name(), "rate", f.Rate, "channels", f.Channels, "format", f.SFormat)
	out, err := s.b.Open(f)
	if err != nil {
		return nil, fmt.Errorf("could not open %s output: %w", s.b.Name(), err)
	}
	s.out, s.f = out, f
	return out, nil
}

// Format returns the format of the open device and whether one is open.
func (s *Speaker) Format() (pcm.BufferFormat, bool) {
	return s.f, s.out != nil
}

// Close closes any open device, waiting for queued audio to play out. The
// Speaker cannot be used afterwards.
func (s *Speaker) Close() error {
	s.closed = true
	return s.release()
}

func (s *Speaker) release() error {
	if s.out == nil {
		return nil
	}
	err := s.out.Close()
	s.out, s.f = nil, pcm.BufferFormat{}
	return err
}
