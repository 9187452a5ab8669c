/*
NAME
  oto.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package oto provides audio output through the platform's default device
// using the oto library.
package oto

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ausocean/acm/codec/pcm"
	"github.com/ausocean/acm/device"
	"github.com/ausocean/utils/logging"
)

const pkg = "oto: "

// Name is the name of the backend.
const Name = "oto"

// drainPoll is how often Close checks whether queued audio has played out.
const drainPoll = 10 * time.Millisecond

// Backend opens players on a single oto context. oto allows one context per
// process, so once a context exists the Backend can only open players of the
// format it was created with.
type Backend struct {
	l   logging.Logger
	ctx *oto.Context
	f   pcm.BufferFormat
}

// New returns a new Backend.
func New(l logging.Logger) *Backend { return &Backend{l: l} }

// Name returns the name of the backend.
func (b *Backend) Name() string { return Name }

// Open returns a player for format f, creating the oto context on first use.
func (b *Backend) Open(f pcm.BufferFormat) (io.WriteCloser, error) {
	if f.SFormat != pcm.S16_LE {
		return nil, fmt.Errorf("%w: %v", device.ErrFormat, f.SFormat)
	}

	if b.ctx == nil {
		b.l.Debug(pkg+"creating context", "rate", f.Rate, "channels", f.Channels)
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   int(f.Rate),
			ChannelCount: int(f.Channels),
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create oto context: %w", err)
		}
		<-ready
		b.ctx, b.f = ctx, f
	} else if b.f != f {
		return nil, fmt.Errorf("%w: context plays %d Hz %d channels, cannot play %d Hz %d channels",
			device.ErrFormat, b.f.Rate, b.f.Channels, f.Rate, f.Channels)
	} else if err := b.ctx.Resume(); err != nil {
		return nil, fmt.Errorf("could not resume oto context: %w", err)
	}

	r, w := io.Pipe()
	p := b.ctx.NewPlayer(r)
	p.Play()
	return &output{ctx: b.ctx, p: p, r: r, w: w, l: b.l}, nil
}

// output feeds a player through a pipe.
type output struct {
	ctx *oto.Context
	p   *oto.Player
	r   *io.PipeReader
	w   *io.PipeWriter
	l   logging.Logger
}

// Write queues p for playing. It blocks until the player has taken all of p.
func (o *output) Write(p []byte) (int, error) {
	n, err := o.w.Write(p)
	if err != nil {
		return n, fmt.Errorf("pipe write failed: %w", err)
	}
	return n, nil
}

// Close waits for queued audio to play out and releases the player.
func (o *output) Close() error {
	o.w.Close()
	for o.p.IsPlaying() {
		time.Sleep(drainPoll)
	}
	err := o.p.Close()
	o.r.Close()
	if serr := o.ctx.Suspend(); err == nil {
		err = serr
	}
	o.l.Debug(pkg + "player closed")
	return err
}
