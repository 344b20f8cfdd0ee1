package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrEmptyChart = errors.New("nothing to draw")
)
