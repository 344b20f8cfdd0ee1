package config

import "errors"

// ErrInvalidConfig marks a configuration that failed Validate.
var ErrInvalidConfig = errors.New("invalid crossdash configuration")

// ErrLoadConfig marks a file or environment source that could not be read.
var ErrLoadConfig = errors.New("cannot load crossdash configuration")
