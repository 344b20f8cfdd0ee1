package dashctl

import "time"

// Defaults for the dataset generator.
const (
	defaultRows      = 1000
	defaultCountries = 20
	defaultYearFrom  = 1985
	defaultYearTo    = 2016
)

// Bench defaults.
const (
	defaultToggles        = 200
	defaultWorkers        = 8
	workerChannelMultiple = 2
	progressInterval      = time.Second
)

// DefaultBaseURL is where a locally started crossdash listens.
const DefaultBaseURL = "http://localhost:9080"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second
