/*
NAME
  header.go

DESCRIPTION
  header.go provides parsing and encoding of the fixed 14 byte ACM file
  header.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package acm provides the boundary to ACM compressed audio streams: header
// parsing, stream information, a registry of codecs that decode the ACM
// bitstream, a pull based PCM source and the channel count patcher.
package acm

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// HeaderSize is the size in bytes of the ACM file header.
const HeaderSize = 14

// Header field offsets.
const (
	valuesOffset   = 4
	channelsOffset = 8
	rateOffset     = 10
	packingOffset  = 12
)

// Magic identifies an ACM file. The last byte is the format version.
var Magic = [4]byte{0x97, 0x28, 0x03, 0x01}

// Header holds the fields of an ACM file header.
type Header struct {
	Values   uint32 // Total number of samples over all channels.
	Channels uint16 // Stored channel count; frequently wrong in the wild.
	Rate     uint16 // Sample rate in Hz.
	Level    uint8  // Subband decomposition level, 4 bits.
	Rows     uint16 // Rows per block, 12 bits.
}

// ParseHeader parses the ACM header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, errors.Wrapf(ErrUnexpectedEOF, "header needs %d bytes, have %d", HeaderSize, len(b))
	}
	if !bytes.Equal(b[:len(Magic)], Magic[:]) {
		return Header{}, errors.Wrapf(ErrNotACM, "bad magic % x", b[:len(Magic)])
	}
	packing := binary.LittleEndian.Uint16(b[packingOffset:])
	return Header{
		Values:   binary.LittleEndian.Uint32(b[valuesOffset:]),
		Channels: binary.LittleEndian.Uint16(b[channelsOffset:]),
		Rate:     binary.LittleEndian.Uint16(b[rateOffset:]),
		Level:    uint8(packing & 0x0f),
		Rows:     packing >> 4,
	}, nil
}

// ReadHeader reads and parses an ACM header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var b [HeaderSize]byte
	_, err := io.ReadFull(r, b[:])
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		return Header{}, errors.Wrap(ErrUnexpectedEOF, "cannot read header")
	default:
		return Header{}, errors.Wrapf(ErrRead, "cannot read header: %v", err)
	}
	return ParseHeader(b[:])
}

// Bytes returns the encoded form of h.
func (h Header) Bytes() [HeaderSize]byte {
	var b [HeaderSize]byte
	copy(b[:], Magic[:])
	binary.LittleEndian.PutUint32(b[valuesOffset:], h.Values)
	binary.LittleEndian.PutUint16(b[channelsOffset:], h.Channels)
	binary.LittleEndian.PutUint16(b[rateOffset:], h.Rate)
	binary.LittleEndian.PutUint16(b[packingOffset:], uint16(h.Level&0x0f)|h.Rows<<4)
	return b
}
