package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrOpen          = errors.New("cannot open athlete data")
	ErrRead          = errors.New("cannot read athlete data")
	ErrMissingColumn = errors.New("required column missing")
	ErrUnknownDriver = errors.New("unknown source driver")
)
