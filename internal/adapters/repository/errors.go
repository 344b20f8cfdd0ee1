package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNilRecords = errors.New("nil record collection")
)
