/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/acm/codec/acm"
	"github.com/ausocean/acm/codec/wav"
	"github.com/ausocean/acm/decode/config"
)

const testCodec = "acmtool-test"

// rawStream returns the stored data as pcm.
type rawStream struct{ r io.Reader }

func (s rawStream) Decode(p []byte) (int, error) {
	n, err := io.ReadFull(s.r, p)
	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	return n, err
}

func (rawStream) Close() error { return nil }

type rawCodec struct{}

func (rawCodec) Open(r io.ReadSeeker, info acm.Info) (acm.Stream, error) {
	return rawStream{r}, nil
}

func init() { acm.Register(testCodec, rawCodec{}) }

func writeACM(t *testing.T, name string, chans uint16, data []byte) string {
	t.Helper()
	h := acm.Header{Values: uint32(len(data) / 2), Channels: chans, Rate: 22050, Level: 7, Rows: 16}.Bytes()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, append(h[:], data...), 0o644); err != nil {
		t.Fatalf("could not write fixture: %v", err)
	}
	return path
}

func TestOutName(t *testing.T) {
	tests := []struct {
		in   string
		raw  bool
		want string
	}{
		{in: "music.acm", want: "music.wav"},
		{in: "music.acm", raw: true, want: "music.raw"},
		{in: "dir.v2/music", want: "dir.v2/music.wav"},
		{in: "a.b.acm", want: "a.b.wav"},
	}
	for _, tt := range tests {
		if got := outName(tt.in, tt.raw); got != tt.want {
			t.Errorf("outName(%q, %v) = %q, want %q", tt.in, tt.raw, got, tt.want)
		}
	}
}

func TestFlagVars(t *testing.T) {
	modes := map[string]string{"d": "decode", "p": "play", "i": "info", "M": "mono", "S": "stereo"}
	newSet := func() *flag.FlagSet {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		for _, n := range []string{"d", "p", "i", "M", "S", "m", "s", "r", "q", "n"} {
			fs.Bool(n, false, "")
		}
		for _, n := range []string{"o", "codec", "backend", "device", "loglevel", "logpath"} {
			fs.String(n, "", "")
		}
		fs.Uint("buffer", 0, "")
		return fs
	}

	tests := []struct {
		name    string
		args    []string
		start   map[string]string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "flags override file",
			args: []string{"-p", "-s", "-backend", "oto", "-buffer", "512"},
			start: map[string]string{
				config.KeyMode:    "info",
				config.KeyBackend: "alsa",
				config.KeyQuiet:   "true",
			},
			want: map[string]string{
				config.KeyMode:          "play",
				config.KeyBackend:       "oto",
				config.KeyQuiet:         "true",
				config.KeyForceChannels: "2",
				config.KeyBufferWords:   "512",
			},
		},
		{
			name: "output",
			args: []string{"-r", "-o", "-"},
			want: map[string]string{
				config.KeyRaw:        "true",
				config.KeyOutputPath: "-",
			},
		},
		{
			name:    "two modes",
			args:    []string{"-i", "-M"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newSet()
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("could not parse flags: %v", err)
			}
			vars := map[string]string{}
			for k, v := range tt.start {
				vars[k] = v
			}
			err := flagVars(fs, modes, vars)
			if (err != nil) != tt.wantErr {
				t.Fatalf("flagVars() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, vars); diff != "" {
				t.Errorf("vars mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunDecode(t *testing.T) {
	data := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	in := writeACM(t, "tune.acm", 2, data)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-codec", testCodec, in}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	got, err := os.ReadFile(strings.TrimSuffix(in, ".acm") + ".wav")
	if err != nil {
		t.Fatalf("could not read output: %v", err)
	}
	if len(got) != wav.HeaderSize+len(data) || !bytes.Equal(got[wav.HeaderSize:], data) {
		t.Errorf("output holds % x", got)
	}
	if !strings.HasPrefix(stdout.String(), in+": Length: ") {
		t.Errorf("unexpected summary %q", stdout.String())
	}

	// A second run overwrites the existing output with a warning.
	stderr.Reset()
	if code := run([]string{"-codec", testCodec, "-q", in}, &stdout, &stderr); code != 0 {
		t.Fatalf("second run() = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "overwriting existing file") {
		t.Errorf("no overwrite warning in %q", stderr.String())
	}
}

func TestRunStdout(t *testing.T) {
	data := []byte{9, 0, 8, 0}
	in := writeACM(t, "tune.acm", 1, data)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-codec", testCodec, "-r", "-o", "-", in}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	if !bytes.Equal(stdout.Bytes(), data) {
		t.Errorf("stdout holds % x, want % x", stdout.Bytes(), data)
	}
	if _, err := os.Stat(strings.TrimSuffix(in, ".acm") + ".raw"); !os.IsNotExist(err) {
		t.Errorf("unexpected output file, stat error: %v", err)
	}
}

func TestRunPatch(t *testing.T) {
	in := writeACM(t, "tune.acm", 1, []byte{1, 0, 2, 0})

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-S", in}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	b, err := os.ReadFile(in)
	if err != nil {
		t.Fatalf("could not read patched file: %v", err)
	}
	h, err := acm.ParseHeader(b)
	if err != nil {
		t.Fatalf("could not parse patched header: %v", err)
	}
	if h.Channels != 2 {
		t.Errorf("stored channels = %d, want 2", h.Channels)
	}
}

func TestRunFailures(t *testing.T) {
	good := writeACM(t, "good.acm", 1, []byte{1, 0})
	bad := filepath.Join(t.TempDir(), "bad.acm")
	if err := os.WriteFile(bad, []byte("not an acm file at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{name: "no inputs", args: []string{"-codec", testCodec}},
		{name: "missing input", args: []string{"-codec", testCodec, "-i", filepath.Join(t.TempDir(), "none.acm")}},
		{name: "not acm", args: []string{"-codec", testCodec, "-i", good, bad}},
		{name: "output with many inputs", args: []string{"-codec", testCodec, "-o", "x.wav", good, good}},
		{name: "two modes", args: []string{"-i", "-p", good}},
		{name: "bad flag", args: []string{"-z", good}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("run() = %d, want 1", code)
			}
		})
	}
}

func TestRunConfigFile(t *testing.T) {
	in := writeACM(t, "tune.acm", 1, []byte{1, 0, 2, 0})
	cfg := filepath.Join(t.TempDir(), "acmtool.toml")
	const file = "mode = \"info\"\nCodec = \"" + testCodec + "\"\n"
	if err := os.WriteFile(cfg, []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", cfg, in}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), in+": Length: ") {
		t.Errorf("unexpected summary %q", stdout.String())
	}
	if _, err := os.Stat(strings.TrimSuffix(in, ".acm") + ".wav"); !os.IsNotExist(err) {
		t.Errorf("info mode wrote output, stat error: %v", err)
	}
}

func TestRunInfoWithoutCodec(t *testing.T) {
	in := writeACM(t, "tune.acm", 2, make([]byte, 8))

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-i", "-codec", "no-such-codec", in}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), in+": Length: ") {
		t.Errorf("unexpected summary %q", stdout.String())
	}
}

func TestRunFillerNotice(t *testing.T) {
	// The header declares four samples but only two are stored.
	h := acm.Header{Values: 4, Channels: 1, Rate: 22050, Level: 7, Rows: 16}.Bytes()
	in := filepath.Join(t.TempDir(), "short.acm")
	if err := os.WriteFile(in, append(h[:], 1, 0, 2, 0), 0o644); err != nil {
		t.Fatalf("could not write fixture: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-codec", testCodec, "-q", "-r", "-o", "-", in}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	if !bytes.Equal(stdout.Bytes(), []byte{1, 0, 2, 0, 0, 0, 0, 0}) {
		t.Errorf("stdout holds % x", stdout.Bytes())
	}
	if !strings.Contains(stderr.String(), in+": adding filler samples: 2") {
		t.Errorf("stderr lacks filler notice: %q", stderr.String())
	}
}
