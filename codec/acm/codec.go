/*
NAME
  codec.go

DESCRIPTION
  codec.go provides the Codec and Stream interfaces through which the ACM
  bitstream decoder is consumed, a registry of codecs, Open and Stat.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acm

import (
	"io"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Stream is an opened ACM bitstream decoder.
type Stream interface {
	// Decode decodes interleaved 16 bit little-endian PCM into p and returns
	// the number of bytes written. At the end of the stream Decode returns
	// 0, io.EOF. Any other error is a decoding failure, preferably a Code.
	Decode(p []byte) (int, error)

	// Close releases the decoder.
	Close() error
}

// Codec opens Streams. r is positioned immediately after the ACM header
// described by info.
type Codec interface {
	Open(r io.ReadSeeker, info Info) (Stream, error)
}

var (
	codecsMu sync.Mutex
	codecs   = make(map[string]Codec)
)

// Register makes a codec available by the provided name. Registering a name
// twice replaces the earlier codec.
func Register(name string, c Codec) {
	if c == nil {
		panic("acm: Register codec is nil")
	}
	codecsMu.Lock()
	defer codecsMu.Unlock()
	codecs[name] = c
}

// Lookup returns the codec registered under name. An empty name selects the
// only registered codec, if there is exactly one.
func Lookup(name string) (Codec, bool) {
	codecsMu.Lock()
	defer codecsMu.Unlock()
	if name == "" && len(codecs) == 1 {
		for _, c := range codecs {
			return c, true
		}
	}
	c, ok := codecs[name]
	return c, ok
}

// Codecs returns the sorted names of the registered codecs.
func Codecs() []string {
	codecsMu.Lock()
	defer codecsMu.Unlock()
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the ACM file at path using the named codec. If forceChans is
// greater than zero it overrides the stored channel count.
func Open(path string, forceChans int, codec string) (*Source, error) {
	c, ok := Lookup(codec)
	if !ok {
		return nil, errors.Wrapf(ErrOther, "no ACM codec registered as %q", codec)
	}

	f, info, err := openFile(path, forceChans)
	if err != nil {
		return nil, err
	}

	s, err := c.Open(f, info)
	if err != nil {
		f.Close()
		return nil, err
	}
	return NewSource(info, s, f), nil
}

// Stat returns the Info of the ACM file at path from its header and size
// alone; no codec is involved.
func Stat(path string, forceChans int) (Info, error) {
	f, info, err := openFile(path, forceChans)
	if err != nil {
		return Info{}, err
	}
	f.Close()
	return info, nil
}

// openFile opens the ACM file at path and reads its header, leaving the file
// positioned at the start of the compressed data.
func openFile(path string, forceChans int) (*os.File, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, errors.Wrapf(ErrOpen, "%v", err)
	}

	h, err := ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, Info{}, err
	}

	dataLen := int64(-1)
	fi, err := f.Stat()
	if err == nil && fi.Mode().IsRegular() {
		dataLen = fi.Size() - HeaderSize
	}

	info, err := NewInfo(path, h, forceChans, dataLen)
	if err != nil {
		f.Close()
		return nil, Info{}, err
	}
	return f, info, nil
}
