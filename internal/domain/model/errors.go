package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownSlot    = errors.New("unknown filter slot")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidCommand = errors.New("invalid command")
)
