/*
NAME
  errors.go

DESCRIPTION
  errors.go provides the error codes reported by ACM codecs and their
  descriptions.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package acm

// Code is a negative error code reported by an ACM codec. Code implements
// error so codecs may return it directly; use errors.As to recover it from a
// wrapped error.
type Code int

// ACM error codes.
const (
	ErrOther Code = -(iota + 1)
	ErrOpen
	ErrNotACM
	ErrRead
	ErrBadFormat
	ErrCorrupt
	ErrUnexpectedEOF
	ErrNotSeekable
)

// codeText is indexed by the negated code.
var codeText = [...]string{
	"No error",
	"ACM error",
	"Cannot open file",
	"Not an ACM file",
	"Read error",
	"Bad format",
	"Corrupt file",
	"Unexpected end of file",
	"Stream not seekable",
}

// Error implements the error interface.
func (c Code) Error() string { return Describe(int(c)) }

// Describe returns the description of the given error code. Codes outside of
// the known table are described as "Unknown error".
func Describe(code int) string {
	i := -code
	if i < 0 || i >= len(codeText) {
		return "Unknown error"
	}
	return codeText[i]
}
