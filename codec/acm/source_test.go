/*
NAME
  source_test.go

DESCRIPTION
  source_test.go contains tests for Source, Open and the codec registry.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acm

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// result is one scripted return from a scriptStream.
type result struct {
	n   int
	err error
}

// scriptStream returns scripted results from Decode and records the buffer
// sizes it was offered.
type scriptStream struct {
	script  []result
	offered []int
	closed  bool
}

func (s *scriptStream) Decode(p []byte) (int, error) {
	s.offered = append(s.offered, len(p))
	if len(s.script) == 0 {
		return 0, io.EOF
	}
	r := s.script[0]
	s.script = s.script[1:]
	return r.n, r.err
}

func (s *scriptStream) Close() error { s.closed = true; return nil }

func TestPull(t *testing.T) {
	tests := []struct {
		name    string
		bufLen  int
		script  []result
		want    []result
		offered []int
	}{
		{
			name:    "whole words only",
			bufLen:  9,
			script:  []result{{8, nil}},
			want:    []result{{8, nil}, {0, io.EOF}},
			offered: []int{8, 8},
		},
		{
			name:   "zero without error ends the stream",
			bufLen: 16,
			script: []result{{16, nil}, {0, nil}, {16, nil}},
			want:   []result{{16, nil}, {0, io.EOF}, {0, io.EOF}},
		},
		{
			name:   "data with EOF",
			bufLen: 16,
			script: []result{{6, io.EOF}},
			want:   []result{{6, nil}, {0, io.EOF}},
		},
		{
			name:   "codec error forwarded",
			bufLen: 16,
			script: []result{{4, ErrCorrupt}, {0, ErrRead}},
			want:   []result{{4, ErrCorrupt}, {0, ErrRead}},
		},
		{
			name:   "odd count",
			bufLen: 16,
			script: []result{{3, nil}},
			want:   []result{{0, ErrCorrupt}},
		},
		{
			name:   "overlong count clamped",
			bufLen: 16,
			script: []result{{18, nil}},
			want:   []result{{16, nil}, {0, io.EOF}},
		},
		{
			name:   "negative count",
			bufLen: 16,
			script: []result{{-2, nil}},
			want:   []result{{0, ErrOther}},
		},
		{
			name:   "no room",
			bufLen: 1,
			want:   []result{{0, io.ErrShortBuffer}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &scriptStream{script: tt.script}
			src := NewSource(Info{Channels: 1, Rate: 22050}, s, nil)
			buf := make([]byte, tt.bufLen)
			for i, w := range tt.want {
				n, err := src.Pull(buf)
				if n != w.n || !errors.Is(err, w.err) {
					t.Errorf("pull %d = %d, %v, want %d, %v", i, n, err, w.n, w.err)
				}
			}
			if tt.offered != nil && len(s.offered) > 0 && s.offered[0] != tt.offered[0] {
				t.Errorf("codec offered %d bytes, want %d", s.offered[0], tt.offered[0])
			}
		})
	}
}

// fileCodec decodes nothing; it reports the reader offset it was opened at.
type fileCodec struct{ offset *int64 }

func (c fileCodec) Open(r io.ReadSeeker, info Info) (Stream, error) {
	off, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	*c.offset = off
	return &scriptStream{}, nil
}

type failCodec struct{}

func (failCodec) Open(io.ReadSeeker, Info) (Stream, error) { return nil, ErrCorrupt }

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("could not write fixture: %v", err)
	}
	return path
}

func TestOpen(t *testing.T) {
	var off int64
	Register("acm-test-file", fileCodec{offset: &off})
	Register("acm-test-fail", failCodec{})

	h := Header{Values: 200, Channels: 2, Rate: 22050}.Bytes()
	path := writeFile(t, "a.acm", append(h[:], make([]byte, 50)...))

	src, err := Open(path, 0, "acm-test-file")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer src.Close()
	if off != HeaderSize {
		t.Errorf("codec opened at offset %d, want %d", off, HeaderSize)
	}
	info := src.Info()
	if info.DataLen != 50 || info.Channels != 2 || info.PCMBytes() != 400 {
		t.Errorf("info = %+v", info)
	}
	if n, err := src.Pull(make([]byte, 8)); n != 0 || err != io.EOF {
		t.Errorf("Pull() = %d, %v, want 0, EOF", n, err)
	}

	notACM := writeFile(t, "b.acm", []byte("RIFF0000WAVEfmt "))
	tests := []struct {
		name  string
		path  string
		codec string
		want  Code
	}{
		{"missing file", filepath.Join(t.TempDir(), "none.acm"), "acm-test-file", ErrOpen},
		{"not acm", notACM, "acm-test-file", ErrNotACM},
		{"codec failure", path, "acm-test-fail", ErrCorrupt},
		{"unknown codec", path, "acm-test-none", ErrOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path, 0, tt.codec)
			if !errors.Is(err, tt.want) {
				t.Errorf("Open() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStat(t *testing.T) {
	h := Header{Values: 44100, Channels: 1, Rate: 22050, Level: 7, Rows: 16}.Bytes()
	path := writeFile(t, "c.acm", append(h[:], make([]byte, 30)...))

	info, err := Stat(path, 2)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	want := Info{
		Name:           path,
		Channels:       2,
		StoredChannels: 1,
		Rate:           22050,
		Level:          7,
		Rows:           16,
		Values:         44100,
		DataLen:        30,
	}
	if info != want {
		t.Errorf("Stat() = %+v, want %+v", info, want)
	}

	notACM := writeFile(t, "d.acm", []byte("RIFF0000WAVEfmt "))
	tests := []struct {
		name string
		path string
		want Code
	}{
		{"missing file", filepath.Join(t.TempDir(), "none.acm"), ErrOpen},
		{"not acm", notACM, ErrNotACM},
		{"short file", writeFile(t, "e.acm", Magic[:]), ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Stat(tt.path, 0); !errors.Is(err, tt.want) {
				t.Errorf("Stat() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCodecs(t *testing.T) {
	Register("acm-test-listed", failCodec{})
	names := Codecs()
	found := false
	for i, n := range names {
		if i > 0 && names[i-1] > n {
			t.Errorf("Codecs() not sorted: %v", names)
		}
		if n == "acm-test-listed" {
			found = true
		}
	}
	if !found {
		t.Errorf("Codecs() = %v, missing acm-test-listed", names)
	}
	if _, ok := Lookup("acm-test-listed"); !ok {
		t.Error("Lookup() did not find registered codec")
	}
}
