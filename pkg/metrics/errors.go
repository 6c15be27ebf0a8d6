package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrInvalidInterval = errors.New("metrics update interval must be positive")
)
