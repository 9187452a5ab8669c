/*
NAME
  patch.go

DESCRIPTION
  patch.go provides SetChannels, which rewrites the channel count stored in
  an ACM file header.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acm

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/pkg/errors"
)

var (
	ErrSuspiciousChannels = errors.New("suspicious number of channels")
	errInvalidChannels    = errors.New("invalid number of channels")
)

// SetChannels sets the channel count stored in the header of the ACM file at
// path to n. The header is read, checked and written back as one unit; the
// file is left unmodified unless it carries the ACM magic and its current
// channel count is 1 or 2.
func SetChannels(path string, n int) error {
	if n < 1 || n > math.MaxUint16 {
		return errors.Wrapf(errInvalidChannels, "%d", n)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return errors.Wrapf(ErrOpen, "%v", err)
	}
	defer f.Close()

	var hdr [HeaderSize]byte
	if _, err := f.ReadAt(hdr[:], 0); err != nil {
		return errors.Wrapf(ErrRead, "cannot read header: %v", err)
	}
	if _, err := ParseHeader(hdr[:]); err != nil {
		return err
	}

	old := binary.LittleEndian.Uint16(hdr[channelsOffset:])
	if old != 1 && old != 2 {
		return errors.Wrapf(ErrSuspiciousChannels, "%d", old)
	}

	binary.LittleEndian.PutUint16(hdr[channelsOffset:], uint16(n))
	if _, err := f.WriteAt(hdr[:], 0); err != nil {
		return errors.Wrap(err, "could not write header")
	}
	return f.Close()
}
