// Package driver runs a [plum.Scheduler] from a display-synchronised callback.
//
// The driver is a small state machine:
//
//	Idle --Start--> Running --(queue empty | Cancel)--> Stopped
//
// Each display refresh calls [Driver.Frame]. Frames that arrive before the
// tick interval has elapsed re-arm without doing work, so the drawing grows
// at a fixed 40 Hz whatever the refresh rate. When a tick finds the queue
// empty the driver stops and the finished drawing stays on its surface.
// Cancel stops the driver from any state and releases the surface.
//
// A Driver is not safe for concurrent use; every method is meant to be called
// from the one loop that owns the display.
package driver
