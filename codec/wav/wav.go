/*
NAME
  wav.go

DESCRIPTION
  wav.go contains functions for building the canonical 44 byte wav header.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wav provides functions for wrapping pcm audio in a wav container.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

const PCMFormat = 1 // PCMFormat defines the value for pcm audio as defined by the wav std.

// HeaderSize is the size of the header produced by Header.
const HeaderSize = 44

const fmtChunkSize = 16

// MaxDataLen is the largest data chunk a wav header can describe.
const MaxDataLen = 1<<32 - 1 - (HeaderSize - 8)

var (
	errInvalidFormat   = fmt.Errorf("invalid or no format defined")
	errInvalidRate     = fmt.Errorf("invalid or no sample rate defined")
	errInvalidChannels = fmt.Errorf("invalid or no number of channels defined")
	errInvalidBitDepth = fmt.Errorf("invalid or no bit depth defined")
)

// Metadata defines the format of the audio.
type Metadata struct {
	AudioFormat int
	Channels    int
	SampleRate  int
	BitDepth    int
}

// BlockAlign returns the size in bytes of one sample for every channel.
func (m Metadata) BlockAlign() int { return m.Channels * m.BitDepth / 8 }

// ByteRate returns the number of bytes per second of audio.
func (m Metadata) ByteRate() int { return m.SampleRate * m.BlockAlign() }

func (m Metadata) validate() error {
	switch {
	case m.AudioFormat != PCMFormat: // TODO: allow for more encoding formats.
		return errInvalidFormat
	case m.Channels <= 0:
		return errInvalidChannels
	case m.SampleRate <= 0:
		return errInvalidRate
	case m.BitDepth <= 0:
		return errInvalidBitDepth
	}
	return nil
}

// Header describes a wav header for a known amount of audio.
type Header struct {
	Metadata
	DataLen uint32 // Size in bytes of the audio following the header.
}

// NewHeader returns the header for dataLen bytes of 16 bit pcm audio.
func NewHeader(channels, rate int, dataLen uint32) Header {
	return Header{
		Metadata: Metadata{AudioFormat: PCMFormat, Channels: channels, SampleRate: rate, BitDepth: 16},
		DataLen:  dataLen,
	}
}

// Bytes returns the encoded header.
func (h Header) Bytes() ([HeaderSize]byte, error) {
	var b [HeaderSize]byte
	if err := h.validate(); err != nil {
		return b, err
	}

	// RIFF chunk; its size counts everything after the size field.
	copy(b[0:4], "RIFF")
	binary.LittleEndian.PutUint32(b[4:8], 4+8+fmtChunkSize+8+h.DataLen)
	copy(b[8:12], "WAVE")

	// fmt chunk.
	copy(b[12:16], "fmt ")
	binary.LittleEndian.PutUint32(b[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(b[20:22], uint16(h.AudioFormat))
	binary.LittleEndian.PutUint16(b[22:24], uint16(h.Channels))
	binary.LittleEndian.PutUint32(b[24:28], uint32(h.SampleRate))
	binary.LittleEndian.PutUint32(b[28:32], uint32(h.ByteRate()))
	binary.LittleEndian.PutUint16(b[32:34], uint16(h.BlockAlign()))
	binary.LittleEndian.PutUint16(b[34:36], uint16(h.BitDepth))

	// Mark start of data.
	copy(b[36:40], "data")
	binary.LittleEndian.PutUint32(b[40:44], h.DataLen)
	return b, nil
}

// WriteTo writes the encoded header to w. It fails with io.ErrShortWrite if
// w accepts fewer than HeaderSize bytes.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	b, err := h.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b[:])
	if err == nil && n != HeaderSize {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// Put copies the encoded header to the start of dst. dst must hold at least
// HeaderSize bytes.
func (h Header) Put(dst []byte) error {
	if len(dst) < HeaderSize {
		return io.ErrShortBuffer
	}
	b, err := h.Bytes()
	if err != nil {
		return err
	}
	copy(dst, b[:])
	return nil
}
