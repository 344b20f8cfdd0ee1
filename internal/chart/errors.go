package chart

import "errors"

// Sentinel kinds for chart errors.
var (
	ErrUnknownKey   = errors.New("no slice with that key")
	ErrUnknownChart = errors.New("unknown chart")
)
