/*
NAME
  pcm.go

DESCRIPTION
  pcm.go contains types and functions for describing pcm audio.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pcm provides types and functions for describing pcm audio.
package pcm

import (
	"encoding/binary"

	"github.com/go-audio/audio"
	"github.com/pkg/errors"
)

// Width is the size in bytes of a 16 bit sample, the only sample size
// produced by ACM decoding.
const Width = 2

// SampleFormat is the format that a PCM Buffer's samples can be in.
type SampleFormat int

// Used to represent an unknown format.
const (
	Unknown SampleFormat = -1
)

// Sample formats that we use.
const (
	S16_LE SampleFormat = iota
	S32_LE
	// There are many more:
	// https://linux.die.net/man/1/arecord
	// https://trac.ffmpeg.org/wiki/audio%20types
)

// BufferFormat contains the format for a PCM Buffer.
type BufferFormat struct {
	SFormat  SampleFormat
	Rate     uint
	Channels uint
}

// Buffer contains a buffer of PCM data and the format that it is in.
type Buffer struct {
	Format BufferFormat
	Data   []byte
}

// BitDepth returns the number of bits in a sample of format f, or 0 if
// the format is unknown.
func (f SampleFormat) BitDepth() int {
	switch f {
	case S16_LE:
		return 16
	case S32_LE:
		return 32
	default:
		return 0
	}
}

// BytesPerFrame returns the size of one sample for every channel.
func (f BufferFormat) BytesPerFrame() int {
	return int(f.Channels) * f.SFormat.BitDepth() / 8
}

// DataSize takes audio attributes describing PCM audio data and returns the size of that data.
func DataSize(rate, channels, bitDepth uint, period float64) int {
	s := int(float64(channels) * float64(rate) * float64(bitDepth/8) * period)
	return s
}

// TotalBytes returns the size of samples samples per channel of 16 bit audio.
func TotalBytes(samples int64, channels int) int64 {
	return samples * int64(channels) * Width
}

// AsIntBuffer returns the samples of b as a go-audio IntBuffer.
func (b Buffer) AsIntBuffer() (*audio.IntBuffer, error) {
	depth := b.Format.SFormat.BitDepth()
	if depth == 0 {
		return nil, errors.Errorf("unhandled sample format (%v)", b.Format.SFormat)
	}
	size := depth / 8
	data := make([]int, len(b.Data)/size)
	for i := range data {
		s := b.Data[i*size : (i+1)*size]
		switch b.Format.SFormat {
		case S16_LE:
			data[i] = int(int16(binary.LittleEndian.Uint16(s)))
		case S32_LE:
			data[i] = int(int32(binary.LittleEndian.Uint32(s)))
		}
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: int(b.Format.Channels), SampleRate: int(b.Format.Rate)},
		Data:           data,
		SourceBitDepth: depth,
	}, nil
}

// String returns the string representation of a SampleFormat.
func (f SampleFormat) String() string {
	switch f {
	case S16_LE:
		return "S16_LE"
	case S32_LE:
		return "S32_LE"
	default:
		return "Unknown"
	}
}
