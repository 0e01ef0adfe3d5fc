package commands

import "errors"

var (
	// ErrParse is returned when a command line does not match the command's
	// parameters, or when help was requested. The parser has already printed
	// its own feedback and the handler was not run.
	ErrParse = errors.New("parse error")

	// ErrUnsupportedType is returned when a flag default has a type no parser
	// exists for.
	ErrUnsupportedType = errors.New("unsupported flag type")

	// ErrInvalidCommand is returned when registering a command without a name
	// or handler.
	ErrInvalidCommand = errors.New("invalid command")
)
