// Package gui shows the branch drawing in a native window. Two back-ends are
// available: raylib and ebiten. Both feed the hero view one update per
// display refresh and upload its composited frame as a texture.
package gui

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/san-kum/artplum/internal/hero"
)

const (
	BackendRaylib = "raylib"
	BackendEbiten = "ebiten"

	title = "artplum"
	// scrollStep is how much one wheel notch moves the simulated page.
	scrollStep = 0.05
	// The page lightens from bgDark to white over this scroll band.
	fadeFrom  = 0.1
	fadeWidth = 0.1
	bgDark    = 10
)

var ErrUnknownBackend = errors.New("gui: unknown backend")

// Backends lists the available window back-ends.
func Backends() []string { return []string{BackendRaylib, BackendEbiten} }

type Options struct {
	Backend string
	Logger  *log.Logger
}

// Run opens a window for cfg and blocks until it is closed. The surface
// ratio is probed from the monitor unless cfg fixes one.
func Run(cfg hero.Config, opts Options) error {
	switch opts.Backend {
	case "", BackendRaylib:
		return runRaylib(cfg, opts)
	case BackendEbiten:
		return runEbiten(cfg, opts)
	}
	return fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

// scroller stands in for page scrolling: the wheel moves a scroll position in
// [0, 1] and the decoration fades out as the page scrolls down.
type scroller struct {
	pos float64
}

func (s *scroller) wheel(dy float64) (float64, bool) {
	if dy == 0 {
		return 1 - s.pos, false
	}
	s.pos = math.Max(0, math.Min(1, s.pos-dy*scrollStep))
	return 1 - s.pos, true
}

// background is the page colour at the scroll position.
func (s *scroller) background() color.RGBA {
	p := math.Max(0, math.Min(1, (s.pos-fadeFrom)/fadeWidth))
	v := uint8(math.Round(bgDark + (255-bgDark)*p))
	return color.RGBA{v, v, v, 255}
}

func windowSize(cfg hero.Config) (int, int) {
	w, h := int(math.Ceil(cfg.Driver.Width)), int(math.Ceil(cfg.Driver.Height))
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

func newView(cfg hero.Config, opts Options) *hero.View {
	var hopts []hero.Option
	if opts.Logger != nil {
		hopts = append(hopts, hero.WithLogger(opts.Logger))
	}
	v := hero.New(cfg, hopts...)
	v.SetLoading(false)
	return v
}

func sameSize(a, b image.Rectangle) bool {
	return a.Dx() == b.Dx() && a.Dy() == b.Dy()
}
