package jsonquery

import (
	"errors"
)

// The three failure classes every operation reports through.
var (
	// ErrInvalidArgument is returned synchronously, before any network call,
	// for arguments that can never succeed (a negative null array length, an
	// attachment path that is not a readable file).
	ErrInvalidArgument = errors.New("jsonquery: invalid argument")

	// ErrTransportFailed is carried by a [Result] when no interpretable
	// response was received.
	ErrTransportFailed = errors.New("jsonquery: transport failed")

	// ErrParsingFailed is returned by the parser and loader, and carried by a
	// [Result], when text could not be decoded into a [Document].
	ErrParsingFailed = errors.New("jsonquery: parsing failed")
)

var (
	// ErrClientClosed is carried by calls issued after [Client.Close].
	ErrClientClosed = errors.New("jsonquery: client closed")

	// ErrEmptyInput is wrapped by parse errors for blank input.
	ErrEmptyInput = errors.New("jsonquery: input is empty")

	// ErrNotObject is wrapped by parse errors when the top-level value is not an object.
	ErrNotObject = errors.New("jsonquery: top-level value is not an object")

	// ErrTrailingData is wrapped by parse errors when anything but whitespace follows the object.
	ErrTrailingData = errors.New("jsonquery: unexpected data after top-level object")

	// ErrUnknownBase is returned for a [BaseLocation] with no directory.
	ErrUnknownBase = errors.New("jsonquery: unknown base location")
)
