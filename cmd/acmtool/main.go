/*
DESCRIPTION
  acmtool decodes ACM audio files to wav or raw pcm, plays them, shows their
  properties and patches the channel count stored in their headers.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package acmtool is a command line tool for ACM audio files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/acm/codec/acm"
	"github.com/ausocean/acm/codec/pcm"
	"github.com/ausocean/acm/decode"
	"github.com/ausocean/acm/decode/config"
	"github.com/ausocean/acm/device"
	"github.com/ausocean/acm/device/alsa"
	"github.com/ausocean/acm/device/oto"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

var errMultipleModes = errors.New("only one of -d, -p, -i, -M and -S may be given")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run runs the tool with the given arguments and returns the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("acmtool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs, stderr) }

	var (
		showVersion = fs.Bool("version", false, "show version")
		cfgPath     = fs.String("config", "", "TOML file of configuration variables")
	)
	modeFlags := map[string]string{
		"d": "decode",
		"p": "play",
		"i": "info",
		"M": "mono",
		"S": "stereo",
	}
	fs.Bool("d", false, "decode to wav (default)")
	fs.Bool("p", false, "play through the audio output")
	fs.Bool("i", false, "show stream information only")
	fs.Bool("M", false, "set the stored channel count to mono")
	fs.Bool("S", false, "set the stored channel count to stereo")
	fs.Bool("m", false, "force mono decoding")
	fs.Bool("s", false, "force stereo decoding")
	fs.Bool("r", false, "write raw pcm without a wav header")
	fs.Bool("q", false, "be quiet")
	fs.Bool("n", false, "decode without writing output")
	fs.String("o", "", "output file, - for stdout (single input only)")
	fs.String("codec", "", "ACM codec name")
	fs.String("backend", config.BackendALSA, "audio output backend: alsa or oto")
	fs.String("device", "", "ALSA playback device title")
	fs.Uint("buffer", 0, "decode buffer size in 16 bit words")
	fs.String("loglevel", "Info", "log level: Debug, Info, Warning, Error or Fatal")
	fs.String("logpath", "", "file to write logs to, with rotation")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if *showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	vars := map[string]string{
		config.KeyMode:    "decode",
		config.KeyBackend: config.BackendALSA,
		config.KeyLogging: "Info",
	}
	if *cfgPath != "" {
		fileVars, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", *cfgPath, err)
			return 1
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	err := flagVars(fs, modeFlags, vars)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	l := newLogger(vars[config.KeyLogPath], stderr)
	cfg := config.Config{Logger: l, LogLevel: logVerbosity}
	cfg.Update(vars)
	cfg.Validate()
	l.SetLevel(cfg.LogLevel)

	inputs := fs.Args()
	if len(inputs) == 0 {
		fs.Usage()
		return 1
	}
	if cfg.OutputPath != "" && len(inputs) > 1 {
		fmt.Fprintln(stderr, "-o may only be used with a single input")
		return 1
	}

	l.Debug("starting acmtool", "version", version, "mode", cfg.Mode, "inputs", len(inputs))
	t := &tool{cfg: cfg, l: l, d: decode.New(cfg, stdout), stderr: stderr}
	defer t.close()

	status := 0
	for _, in := range inputs {
		if err := t.process(in); err != nil {
			l.Error("processing failed", "input", in, "error", err)
			fmt.Fprintf(stderr, "%s: %v\n", in, err)
			status = 1
		}
	}
	return status
}

// flagVars adds the configuration variables set by command line flags to vars.
func flagVars(fs *flag.FlagSet, modeFlags, vars map[string]string) error {
	var err error
	modes := 0
	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		if mode, ok := modeFlags[f.Name]; ok {
			if v == "true" {
				modes++
				vars[config.KeyMode] = mode
			}
			return
		}
		switch f.Name {
		case "m":
			if v == "true" {
				vars[config.KeyForceChannels] = "1"
			}
		case "s":
			if v == "true" {
				vars[config.KeyForceChannels] = "2"
			}
		case "r":
			vars[config.KeyRaw] = v
		case "q":
			vars[config.KeyQuiet] = v
		case "n":
			vars[config.KeyNoOutput] = v
		case "o":
			vars[config.KeyOutputPath] = v
		case "codec":
			vars[config.KeyCodec] = v
		case "backend":
			vars[config.KeyBackend] = v
		case "device":
			vars[config.KeyDeviceTitle] = v
		case "buffer":
			vars[config.KeyBufferWords] = v
		case "loglevel":
			vars[config.KeyLogging] = v
		case "logpath":
			vars[config.KeyLogPath] = v
		}
	})
	if modes > 1 {
		err = errMultipleModes
	}
	return err
}

// newLogger returns a logger writing to a rotated file at path, or to w if
// path is empty.
func newLogger(path string, w io.Writer) logging.Logger {
	if path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
	}
	return logging.New(logVerbosity, w, logSuppress)
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "acmtool %s\n", version)
	fmt.Fprintln(w, "usage: acmtool [flags] input.acm ...")
	fs.PrintDefaults()
	if codecs := acm.Codecs(); len(codecs) != 0 {
		fmt.Fprintf(w, "codecs: %s\n", strings.Join(codecs, ", "))
	} else {
		fmt.Fprintln(w, "codecs: none registered")
	}
}

// tool processes inputs one at a time, sharing one speaker between playback
// sessions.
type tool struct {
	cfg    config.Config
	l      logging.Logger
	d      *decode.Driver
	spk    *device.Speaker
	stderr io.Writer
}

// process performs the configured operation on the input at in.
func (t *tool) process(in string) error {
	switch t.cfg.Mode {
	case config.ModeMono:
		return acm.SetChannels(in, 1)
	case config.ModeStereo:
		return acm.SetChannels(in, 2)
	case config.ModeInfo:
		return t.d.ShowInfo(in)
	case config.ModePlay:
		res, err := t.d.Play(in, t.speaker())
		return t.report(in, res, err)
	default:
		out := t.cfg.OutputPath
		if out == "" {
			out = outName(in, t.cfg.Raw)
		}
		if !t.cfg.NoOutput && out != config.StdoutPath {
			if osutil.Exists(out) {
				t.l.Warning("overwriting existing file", "path", out)
			}
		}
		res, err := t.d.DecodeFile(in, out)
		return t.report(in, res, err)
	}
}

// report logs the outcome of a decode session and returns the error that
// makes it a failure, if any.
func (t *tool) report(in string, res decode.Result, err error) error {
	if err != nil {
		return err
	}
	if res.Padded != 0 {
		fmt.Fprintf(t.stderr, "%s: adding filler samples: %d\n", in, res.Padded/pcm.Width)
	}
	if res.CodecErr != nil {
		return res.CodecErr
	}
	t.l.Debug("session complete", "input", in, "bytes", res.Delivered())
	return nil
}

// speaker returns the tool's speaker, creating it on first use.
func (t *tool) speaker() *device.Speaker {
	if t.spk == nil {
		var b device.Backend
		switch t.cfg.Backend {
		case config.BackendOto:
			b = oto.New(t.l)
		default:
			b = alsa.New(t.l, t.cfg.DeviceTitle)
		}
		t.spk = device.NewSpeaker(b, t.l)
	}
	return t.spk
}

func (t *tool) close() {
	if t.spk == nil {
		return
	}
	if err := t.spk.Close(); err != nil {
		t.l.Warning("could not close audio output", "error", err)
	}
}

// outName returns the default output path for the input at in.
func outName(in string, raw bool) string {
	if raw {
		return pathutil.TrimExt(in) + ".raw"
	}
	return pathutil.TrimExt(in) + ".wav"
}
