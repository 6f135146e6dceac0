package runner

import "time"

const (
	// DefaultProgressInterval is how often the console progress indicator logs
	DefaultProgressInterval = 30 * time.Second

	// tracerName identifies the spans emitted by the runner
	tracerName = "qunit runner"
)
