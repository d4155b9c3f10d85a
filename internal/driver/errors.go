package driver

import "errors"

var (
	// ErrTickLimit is returned by RunHeadless when the drawing was still
	// growing after the allowed number of ticks.
	ErrTickLimit = errors.New("driver: tick limit reached")

	ErrNotHeadless = errors.New("driver: Drain needs a manual clock")
)
