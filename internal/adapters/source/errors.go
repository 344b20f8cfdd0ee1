package source

import "errors"

// Sentinel kinds for loader errors. Every failure of Load wraps ErrLoad.
var (
	ErrLoad          = errors.New("dataset load failed")
	ErrMissingColumn = errors.New("missing required column")
	ErrBadStatus     = errors.New("unexpected response status")
	ErrUnknownPolicy = errors.New("unknown invalid-row policy")
)
