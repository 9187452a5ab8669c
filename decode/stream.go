/*
NAME
  stream.go

DESCRIPTION
  stream.go provides Stream, which pulls decoded pcm from a source into a
  sink until a declared number of bytes has been delivered, padding with
  silence when the source falls short.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/ausocean/acm/codec/pcm"
	"github.com/ausocean/utils/logging"
)

// Session errors.
var (
	ErrWrite  = errors.New("write to output failed")
	ErrHeader = errors.New("could not emit wav header")
)

var errNoBuffer = errors.New("decode buffer holds no whole sample")

// Puller is a source of decoded pcm. Pull returns 0, io.EOF at the end of the
// stream and otherwise a whole number of samples, possibly with an error.
type Puller interface {
	Pull(buf []byte) (int, error)
}

// Result describes the bytes delivered by Stream.
type Result struct {
	Total    int64 // Bytes the source declared.
	Decoded  int64 // Decoded bytes delivered.
	Padded   int64 // Zero bytes delivered after decoding stopped.
	CodecErr error // Error that stopped decoding early, if any.
}

// Delivered returns the number of pcm bytes written to the sink.
func (r Result) Delivered() int64 { return r.Decoded + r.Padded }

// Stream pulls from src into buf and writes to dst until total bytes have
// been delivered. Decoding stops early at the end of the stream or on a
// source error, which is recorded in the Result; the shortfall is then made
// up with zero bytes. A write error stops Stream and is returned wrapped in
// ErrWrite.
func Stream(src Puller, dst io.Writer, total int64, buf []byte, l logging.Logger) (Result, error) {
	res := Result{Total: total}
	buf = buf[:len(buf)/pcm.Width*pcm.Width]
	if len(buf) == 0 {
		return res, errNoBuffer
	}

	for res.Decoded < total {
		want := buf
		if rem := total - res.Decoded; rem < int64(len(want)) {
			want = want[:rem]
		}

		n, err := src.Pull(want)
		switch {
		case n < 0:
			n = 0
		case n > len(want):
			n = len(want)
		}
		if n > 0 {
			if _, werr := dst.Write(want[:n]); werr != nil {
				return res, fmt.Errorf("%w: %w", ErrWrite, werr)
			}
			res.Decoded += int64(n)
		}
		if err == io.EOF || (err == nil && n == 0) {
			l.Debug("end of stream", "decoded", res.Decoded, "total", total)
			break
		}
		if err != nil {
			l.Error("decoding failed", "error", err, "decoded", res.Decoded)
			res.CodecErr = err
			break
		}
	}

	if res.Decoded >= total {
		return res, nil
	}

	short := total - res.Decoded
	l.Warning("adding filler samples", "bytes", short, "samples", short/pcm.Width)
	clear(buf)
	for res.Padded < short {
		pad := buf
		if rem := short - res.Padded; rem < int64(len(pad)) {
			pad = pad[:rem]
		}
		if _, err := dst.Write(pad); err != nil {
			return res, fmt.Errorf("%w: %w", ErrWrite, err)
		}
		res.Padded += int64(len(pad))
	}
	return res, nil
}
