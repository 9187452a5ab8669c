/*
DESCRIPTION
  device.go provides Backend, an interface that describes an audio output
  device that can be opened for a given pcm format and written to.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides an interface and implementations for audio output
// devices to which decoded pcm can be written for playback.
package device

import (
	"errors"
	"fmt"
	"io"

	"github.com/ausocean/acm/codec/pcm"
)

// ErrFormat is returned by a Backend that cannot play the requested format.
var ErrFormat = errors.New("unsupported output format")

// Backend describes an audio output from which playback devices can be
// opened. Each opened device accepts interleaved pcm in exactly the format it
// was opened with; a write returns once the data has been queued for play.
type Backend interface {
	// Name returns the name of the Backend.
	Name() string

	// Open opens an output device playing audio in format f. Closing the
	// returned device waits for queued audio to finish playing.
	Open(f pcm.BufferFormat) (io.WriteCloser, error)
}

// MultiError implements the built in error interface. MultiError is used to
// collect multiple errors during validation of configuration parameters.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}
