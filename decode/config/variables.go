/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyBackend       = "Backend"
	KeyBufferWords   = "BufferWords"
	KeyCodec         = "Codec"
	KeyDeviceTitle   = "DeviceTitle"
	KeyForceChannels = "ForceChannels"
	KeyLogging       = "logging"
	KeyLogPath       = "LogPath"
	KeyMode          = "mode"
	KeyNoOutput      = "NoOutput"
	KeyOutputPath    = "OutputPath"
	KeyQuiet         = "Quiet"
	KeyRaw           = "Raw"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
)

// Default variable values.
const (
	defaultMode      = ModeDecode
	defaultBackend   = BackendALSA
	defaultVerbosity = logging.Info

	// Decode buffer sizes in bytes.
	defaultDecodeChunk = 16 << 10
	defaultPlayChunk   = 4 << 10
	maxBufferWords     = 1 << 20
)

// Variables describes the variables that can be used for control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyBackend,
		Type:   "enum:alsa,oto",
		Update: func(c *Config, v string) { c.Backend = strings.ToLower(v) },
		Validate: func(c *Config) {
			switch c.Backend {
			case BackendALSA, BackendOto:
			default:
				c.LogInvalidField(KeyBackend, defaultBackend)
				c.Backend = defaultBackend
			}
		},
	},
	{
		Name:   KeyBufferWords,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.BufferWords = parseUint(KeyBufferWords, v, c) },
		Validate: func(c *Config) {
			if c.BufferWords > maxBufferWords {
				c.LogInvalidField(KeyBufferWords, 0)
				c.BufferWords = 0
			}
		},
	},
	{
		Name:   KeyCodec,
		Type:   typeString,
		Update: func(c *Config, v string) { c.Codec = v },
	},
	{
		Name:   KeyDeviceTitle,
		Type:   typeString,
		Update: func(c *Config, v string) { c.DeviceTitle = v },
	},
	{
		Name:   KeyForceChannels,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.ForceChannels = parseUint(KeyForceChannels, v, c) },
		Validate: func(c *Config) {
			if c.ForceChannels > 2 {
				c.LogInvalidField(KeyForceChannels, 0)
				c.ForceChannels = 0
			}
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyLogPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.LogPath = v },
	},
	{
		Name: KeyMode,
		Type: "enum:decode,play,info,mono,stereo",
		Update: func(c *Config, v string) {
			c.Mode = parseEnum(
				KeyMode,
				v,
				map[string]uint8{
					"decode": ModeDecode,
					"play":   ModePlay,
					"info":   ModeInfo,
					"mono":   ModeMono,
					"stereo": ModeStereo,
				},
				c,
			)
		},
		Validate: func(c *Config) {
			switch c.Mode {
			case ModeDecode, ModePlay, ModeInfo, ModeMono, ModeStereo:
			default:
				c.LogInvalidField(KeyMode, defaultMode)
				c.Mode = defaultMode
			}
		},
	},
	{
		Name:   KeyNoOutput,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.NoOutput = parseBool(KeyNoOutput, v, c) },
	},
	{
		Name:   KeyOutputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.OutputPath = v },
		Validate: func(c *Config) {
			if c.OutputPath == StdoutPath && !c.Quiet {
				c.Logger.Debug("output is stdout, forcing quiet")
				c.Quiet = true
			}
		},
	},
	{
		Name:   KeyQuiet,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Quiet = parseBool(KeyQuiet, v, c) },
	},
	{
		Name:   KeyRaw,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Raw = parseBool(KeyRaw, v, c) },
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
	}
	return _v
}
