package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrBackpressure = errors.New("command queue is full")
	ErrStopped      = errors.New("service stopped")
	ErrNoLoader     = errors.New("no data loader configured")
)
