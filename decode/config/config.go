/*
NAME
  config.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for ACM decoding.
package config

import (
	"github.com/ausocean/utils/logging"
)

// Enums to define modes of operation.
const (
	// Indicates no option has been set.
	NothingDefined = iota

	ModeDecode // Decode to a wav or raw file.
	ModePlay   // Play through an audio output.
	ModeInfo   // Only show stream information.
	ModeMono   // Set the stored channel count to 1.
	ModeStereo // Set the stored channel count to 2.
)

// Audio output backends.
const (
	BackendALSA = "alsa"
	BackendOto  = "oto"
)

// StdoutPath is the output path that selects standard output.
const StdoutPath = "-"

// Config provides parameters for decoding, playing and inspecting ACM files.
// Default values for these fields are defined in variables.go.
type Config struct {
	// Mode defines the operation performed on each input.
	//
	// Valid values are defined by enums:
	// ModeDecode:
	//		Decode to OutputPath, or to the input path with a .wav or .raw
	//		extension.
	// ModePlay:
	//		Play through the Backend output.
	// ModeInfo:
	//		Print the stream summary only.
	// ModeMono & ModeStereo:
	//		Patch the channel count stored in the input's header.
	Mode uint8

	Raw      bool // Raw suppresses the wav header.
	Quiet    bool // Quiet suppresses the stream summary line.
	NoOutput bool // NoOutput decodes without writing the result anywhere.

	// ForceChannels overrides the channel count stored in the input header if
	// non-zero. Only 1 and 2 are valid.
	ForceChannels uint

	// OutputPath defines the output file for ModeDecode. It may only be used
	// with a single input. StdoutPath selects standard output, which also
	// sets Quiet.
	OutputPath string

	Codec       string // Name of the registered ACM codec, or empty for the only one.
	Backend     string // Audio output backend for ModePlay.
	DeviceTitle string // ALSA device title, or empty for the first playback device.

	// BufferWords is the size of the decode buffer in 16 bit words. Zero
	// selects a default suited to the mode.
	BufferWords uint

	// Logger holds an implementation of the Logger interface.
	// This must be set for the config to be updated or validated.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8

	LogPath string // LogPath is a file to which logs are also written, with rotation.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// ChunkSize returns the decode buffer size in bytes for the configured mode.
func (c *Config) ChunkSize() int {
	if c.BufferWords != 0 {
		return int(c.BufferWords) * 2
	}
	if c.Mode == ModePlay {
		return defaultPlayChunk
	}
	return defaultDecodeChunk
}
