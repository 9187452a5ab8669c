/*
NAME
  info.go

DESCRIPTION
  info.go provides Info, the properties of an opened ACM stream that are
  needed to size and describe its decoded output.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acm

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/acm/codec/pcm"
)

// defaultBitrate is reported when the compressed length is not known.
const defaultBitrate = 13000

// Info describes an ACM stream.
type Info struct {
	Name           string // Name of the stream, usually its path.
	Channels       int    // Channels in the decoded output.
	StoredChannels int    // Channels as stored in the header.
	Rate           int    // Sample rate in Hz.
	Level          int
	Rows           int
	Values         int64 // Total samples over all channels.
	DataLen        int64 // Length of the compressed data in bytes, or -1 if unknown.
}

// NewInfo returns the Info for a stream with header h. If forceChans is
// greater than zero it overrides the channel count stored in the header.
func NewInfo(name string, h Header, forceChans int, dataLen int64) (Info, error) {
	chans := int(h.Channels)
	if forceChans > 0 {
		chans = forceChans
	}
	if chans <= 0 {
		return Info{}, errors.Wrap(ErrBadFormat, "no channels")
	}
	if h.Rate == 0 {
		return Info{}, errors.Wrap(ErrBadFormat, "zero sample rate")
	}
	return Info{
		Name:           name,
		Channels:       chans,
		StoredChannels: int(h.Channels),
		Rate:           int(h.Rate),
		Level:          int(h.Level),
		Rows:           int(h.Rows),
		Values:         int64(h.Values),
		DataLen:        dataLen,
	}, nil
}

// Samples returns the number of samples per channel.
func (i Info) Samples() int64 { return i.Values / int64(i.Channels) }

// PCMBytes returns the number of bytes of 16 bit PCM the stream decodes to.
func (i Info) PCMBytes() int64 { return pcm.TotalBytes(i.Samples(), i.Channels) }

// Format returns the PCM format of the decoded stream.
func (i Info) Format() pcm.BufferFormat {
	return pcm.BufferFormat{SFormat: pcm.S16_LE, Rate: uint(i.Rate), Channels: uint(i.Channels)}
}

// Duration returns the playing time of the stream.
func (i Info) Duration() time.Duration {
	return time.Duration(i.Samples()) * time.Second / time.Duration(i.Rate)
}

// Bitrate returns the average bitrate of the compressed data in bits per second.
func (i Info) Bitrate() int {
	if i.DataLen < 0 {
		return defaultBitrate
	}
	ms := i.Values * 1000 / int64(i.Rate*i.Channels)
	if ms <= 0 {
		return 0
	}
	return int(i.DataLen * 8 * 1000 / ms)
}

// String returns a one line summary of the stream.
func (i Info) String() string {
	secs := int(i.Duration() / time.Second)
	return fmt.Sprintf("%s: Length:%2d:%02d Chans:%d(%d) Freq:%d A:%d/%d kbps:%d",
		i.Name, secs/60, secs%60, i.Channels, i.StoredChannels, i.Rate, i.Level, i.Rows, i.Bitrate()/1000)
}
