/*
NAME
  driver.go

DESCRIPTION
  driver.go provides Driver, which runs decode sessions from ACM files to
  files, memory or an audio output.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package decode drives ACM decoding sessions. A session opens the ACM
// stream, optionally emits a wav header, streams the decoded pcm to a sink,
// pads any shortfall with silence so that the sink receives exactly the
// declared amount of pcm, and closes everything it opened.
package decode

import (
	"fmt"
	"io"

	"github.com/ausocean/acm/codec/acm"
	"github.com/ausocean/acm/codec/pcm"
	"github.com/ausocean/acm/codec/wav"
	"github.com/ausocean/acm/decode/config"
	"github.com/ausocean/acm/device"
	"github.com/ausocean/utils/logging"
)

// Driver runs decode sessions one at a time.
type Driver struct {
	cfg    config.Config
	l      logging.Logger
	stdout io.Writer // Destination of summary lines and config.StdoutPath output.
}

// New returns a Driver configured by cfg, which must have been validated.
// Stream summaries, and output directed to config.StdoutPath, are written
// to stdout.
func New(cfg config.Config, stdout io.Writer) *Driver {
	return &Driver{cfg: cfg, l: cfg.Logger, stdout: stdout}
}

// open opens the ACM file at path using the configured codec.
func (d *Driver) open(path string) (*acm.Source, error) {
	d.l.Debug("opening input", "path", path, "codec", d.cfg.Codec, "forceChannels", d.cfg.ForceChannels)
	src, err := acm.Open(path, int(d.cfg.ForceChannels), d.cfg.Codec)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	return src, nil
}

// close closes src, logging any failure.
func (d *Driver) close(src *acm.Source) {
	d.l.Debug("closing input", "name", src.Info().Name, "pulled", src.Pulled())
	if err := src.Close(); err != nil {
		d.l.Warning("could not close input", "error", err)
	}
}

// show writes the summary of src unless quiet.
func (d *Driver) show(src *acm.Source, quiet bool) {
	if quiet {
		return
	}
	fmt.Fprintln(d.stdout, src.Info().String())
}

// ShowInfo writes the summary line of the ACM file at in. Only the header
// and the file size are read, so no codec is needed.
func (d *Driver) ShowInfo(in string) error {
	info, err := acm.Stat(in, int(d.cfg.ForceChannels))
	if err != nil {
		return fmt.Errorf("could not open %s: %w", in, err)
	}
	if !d.cfg.Quiet {
		fmt.Fprintln(d.stdout, info.String())
	}
	return nil
}

// DecodeFile decodes the ACM file at in to the file at out. An out of
// config.StdoutPath writes to the driver's stdout and suppresses the summary
// line. With NoOutput set nothing is written, but the input is still fully
// decoded.
func (d *Driver) DecodeFile(in, out string) (Result, error) {
	src, err := d.open(in)
	if err != nil {
		return Result{}, err
	}
	defer d.close(src)

	quiet := d.cfg.Quiet
	var sink Sink
	switch {
	case d.cfg.NoOutput:
		sink = Discard
	case out == config.StdoutPath:
		sink = NewStreamSink(d.stdout)
		quiet = true
	default:
		sink, err = NewFileSink(d.l, out)
		if err != nil {
			return Result{}, err
		}
	}

	d.show(src, quiet)
	return d.session(src, sink, !d.cfg.Raw && !d.cfg.NoOutput, d.cfg.ChunkSize())
}

// DecodeMemory decodes the ACM file at in into memory and returns the wav
// file, or raw pcm if Raw is set.
func (d *Driver) DecodeMemory(in string) ([]byte, Result, error) {
	src, err := d.open(in)
	if err != nil {
		return nil, Result{}, err
	}
	defer d.close(src)

	size := src.Info().PCMBytes()
	if !d.cfg.Raw {
		size += wav.HeaderSize
	}
	sink := NewMemorySink(int(size))
	res, err := d.session(src, sink, !d.cfg.Raw, d.cfg.ChunkSize())
	return sink.Bytes(), res, err
}

// DecodeBuffer decodes the ACM file at in into a pcm Buffer.
func (d *Driver) DecodeBuffer(in string) (pcm.Buffer, Result, error) {
	src, err := d.open(in)
	if err != nil {
		return pcm.Buffer{}, Result{}, err
	}
	defer d.close(src)

	info := src.Info()
	sink := NewMemorySink(int(info.PCMBytes()))
	res, err := d.session(src, sink, false, d.cfg.ChunkSize())
	return pcm.Buffer{Format: info.Format(), Data: sink.Bytes()}, res, err
}

// Play decodes the ACM file at in and plays it on spk. The device is
// acquired for the stream's format and left open for following sessions.
func (d *Driver) Play(in string, spk *device.Speaker) (Result, error) {
	src, err := d.open(in)
	if err != nil {
		return Result{}, err
	}
	defer d.close(src)

	d.show(src, d.cfg.Quiet)
	out, err := spk.Acquire(src.Info().Format())
	if err != nil {
		return Result{}, err
	}
	buf := make([]byte, d.cfg.ChunkSize())
	res, err := Stream(src, out, src.Info().PCMBytes(), buf, d.l)
	d.l.Debug("played input", "name", src.Info().Name, "decoded", res.Decoded, "padded", res.Padded)
	return res, err
}

// session emits the header if wanted, streams src to sink and closes sink.
// sink is closed whatever the outcome.
func (d *Driver) session(src *acm.Source, sink Sink, header bool, chunk int) (res Result, err error) {
	defer func() {
		cerr := sink.Close()
		if err == nil && cerr != nil {
			err = fmt.Errorf("%w: %w", ErrWrite, cerr)
		}
	}()

	info := src.Info()
	total := info.PCMBytes()
	if header {
		if err := d.emitHeader(sink, info, total); err != nil {
			return Result{Total: total}, err
		}
	}

	res, err = Stream(src, sink, total, make([]byte, chunk), d.l)
	d.l.Debug("decoded input", "name", info.Name, "decoded", res.Decoded, "padded", res.Padded)
	return res, err
}

// emitHeader writes the wav header for total bytes of the stream described
// by info, in place when the sink supports it.
func (d *Driver) emitHeader(sink Sink, info acm.Info, total int64) error {
	dataLen := total
	if dataLen > wav.MaxDataLen {
		d.l.Warning("stream too long for a wav header, length field capped", "bytes", total)
		dataLen = wav.MaxDataLen
	}
	h := wav.NewHeader(info.Channels, info.Rate, uint32(dataLen))

	var err error
	if p, ok := sink.(headerPutter); ok {
		err = p.PutHeader(h)
	} else {
		_, err = h.WriteTo(sink)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHeader, err)
	}
	d.l.Debug("wav header emitted", "channels", info.Channels, "rate", info.Rate, "dataLen", dataLen)
	return nil
}
