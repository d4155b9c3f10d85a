// Package viz is the terminal front-end of the branch drawing.
//
// A bubbletea [Model] refreshes at 60 Hz and forwards every refresh to a
// hero view. Segments are mirrored onto a braille [Canvas] through a driver
// observer, next to a status panel and an asciigraph of pending steps.
//
// # Key Bindings
//
//	R - Restart the drawing
//	T - Cycle color themes
//	G - Toggle GIF recording
//	? - Show help overlay
//	Q - Quit
package viz
