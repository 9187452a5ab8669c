/*
NAME
  alsa.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package alsa provides audio output through ALSA playback devices.
package alsa

import (
	"errors"
	"fmt"
	"io"

	yalsa "github.com/yobert/alsa"

	"github.com/ausocean/acm/codec/pcm"
	"github.com/ausocean/acm/device"
	"github.com/ausocean/utils/logging"
)

const pkg = "alsa: "

// Name is the name of the backend.
const Name = "alsa"

// A 50ms period is a sensible value for low-ish latency.
const wantPeriod = 0.05 // seconds

// Configuration errors.
var (
	errInvalidSampleRate = errors.New("invalid sample rate")
	errInvalidChannels   = errors.New("invalid number of channels")
	errNoDevice          = errors.New("no ALSA playback device found")
)

// Backend opens ALSA playback devices.
type Backend struct {
	l     logging.Logger // Logger for opened devices to log to.
	title string         // Name of audio title, or empty for the first playback device.
}

// New returns a Backend that plays through the device with the given title,
// or through the first playback device if title is empty.
func New(l logging.Logger, title string) *Backend { return &Backend{l: l, title: title} }

// Name returns the name of the backend.
func (b *Backend) Name() string { return Name }

// Open opens and prepares a playback device for format f. The device must
// accept f exactly; no conversion is done.
func (b *Backend) Open(f pcm.BufferFormat) (io.WriteCloser, error) {
	if err := check(f); err != nil {
		return nil, err
	}

	// Open sound card and find playback device.
	b.l.Debug(pkg + "opening sound card")
	cards, err := yalsa.OpenCards()
	if err != nil {
		return nil, err
	}
	defer yalsa.CloseCards(cards)

	b.l.Debug(pkg+"finding audio device", "title", b.title)
	dev := find(cards, b.title)
	if dev == nil {
		return nil, errNoDevice
	}

	b.l.Debug(pkg+"opening ALSA device", "title", dev.Title)
	err = dev.Open()
	if err != nil {
		return nil, err
	}
	err = b.negotiate(dev, f)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return &output{dev: dev, l: b.l, frame: f.BytesPerFrame()}, nil
}

// check returns an error if f cannot be played.
func check(f pcm.BufferFormat) error {
	var errs device.MultiError
	if f.Rate == 0 {
		errs = append(errs, errInvalidSampleRate)
	}
	if f.Channels == 0 {
		errs = append(errs, errInvalidChannels)
	}
	if f.SFormat != pcm.S16_LE && f.SFormat != pcm.S32_LE {
		errs = append(errs, fmt.Errorf("%w: %v", device.ErrFormat, f.SFormat))
	}
	if len(errs) != 0 {
		return errs
	}
	return nil
}

// find returns the playback device with the given title, or the first
// playback device if title is empty.
func find(cards []*yalsa.Card, title string) *yalsa.Device {
	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			continue
		}
		for _, dev := range devices {
			if dev.Type != yalsa.PCM || !dev.Play {
				continue
			}
			if dev.Title == title || title == "" {
				return dev
			}
		}
	}
	return nil
}

// negotiate configures dev to play f and prepares it.
func (b *Backend) negotiate(dev *yalsa.Device, f pcm.BufferFormat) error {
	channels, err := dev.NegotiateChannels(int(f.Channels))
	if err != nil {
		return fmt.Errorf("device is unable to play with requested number of channels: %w", err)
	}
	b.l.Debug(pkg+"alsa device channels set", "channels", channels)

	rate, err := dev.NegotiateRate(int(f.Rate))
	if err != nil {
		return fmt.Errorf("device is unable to play at requested rate: %w", err)
	}
	b.l.Debug(pkg+"alsa device sample rate set", "rate", rate)

	aFmt := yalsa.S16_LE
	if f.SFormat == pcm.S32_LE {
		aFmt = yalsa.S32_LE
	}
	devFmt, err := dev.NegotiateFormat(aFmt)
	if err != nil {
		return err
	}
	if devFmt != aFmt {
		return fmt.Errorf("%w: device negotiated %v", device.ErrFormat, devFmt)
	}
	b.l.Debug(pkg+"alsa device format set", "format", devFmt)

	// Some devices only accept even period sizes while others want powers of 2.
	// So we will find the closest power of 2 to the desired period size.
	wantPeriodSize := pcm.DataSize(uint(rate), uint(channels), uint(f.SFormat.BitDepth()), wantPeriod)
	periodSize, err := dev.NegotiatePeriodSize(nearestPowerOfTwo(wantPeriodSize))
	if err != nil {
		return err
	}
	b.l.Debug(pkg+"alsa device period size set", "periodsize", periodSize)

	// At least four period sizes should fit within the buffer.
	bufSize, err := dev.NegotiateBufferSize(periodSize * 4)
	if err != nil {
		return err
	}
	b.l.Debug(pkg+"alsa device buffer size set", "buffersize", bufSize)

	if err = dev.Prepare(); err != nil {
		return err
	}
	b.l.Debug(pkg + "successfully negotiated device params")
	return nil
}

// output is an opened playback device.
type output struct {
	dev   *yalsa.Device
	l     logging.Logger
	frame int // Bytes per frame.
	tail  []byte
}

// Write plays p. Bytes that do not complete a frame are held until the next
// write.
func (o *output) Write(p []byte) (int, error) {
	n := len(p)
	if len(o.tail) != 0 {
		p = append(o.tail, p...)
		o.tail = nil
	}
	whole := len(p) / o.frame * o.frame
	if whole < len(p) {
		o.tail = append([]byte(nil), p[whole:]...)
	}
	if whole == 0 {
		return n, nil
	}
	err := o.dev.Write(p[:whole], whole/o.frame)
	if err != nil {
		o.l.Error(pkg+"write failed", "error", err)
		return 0, err
	}
	return n, nil
}

// Close closes the device. Any incomplete trailing frame is dropped.
func (o *output) Close() error {
	if len(o.tail) != 0 {
		o.l.Debug(pkg+"dropping partial frame", "length", len(o.tail))
	}
	o.l.Debug(pkg+"closing ALSA device", "title", o.dev.Title)
	o.dev.Close()
	return nil
}

// nearestPowerOfTwo finds and returns the nearest power of two to the given integer.
// If the lower and higher power of two are the same distance, it returns the higher power.
// For negative values, 1 is returned.
// Source: https://stackoverflow.com/a/45859570
func nearestPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	if n == 1 {
		return 2
	}
	v := n
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++         // higher power of 2
	x := v >> 1 // lower power of 2
	if (v - n) > (n - x) {
		return x
	}
	return v
}
