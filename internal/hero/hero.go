// Package hero hosts the branch drawing behind a page header. It defers the
// start until the intro has finished, eases the scroll-driven opacity, and
// composites the surface with its radial mask every frame.
package hero

import (
	"image"
	"io"
	"log"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/san-kum/artplum/internal/driver"
	"github.com/san-kum/artplum/internal/surface"
)

const (
	DefaultStartDelay  = time.Second
	DefaultOpacityEase = 200 * time.Millisecond
)

type Config struct {
	Driver driver.Config
	// StartDelay separates the end of loading from the first origin so the
	// header text animates in first.
	StartDelay time.Duration
	// OpacityEase is how long the displayed opacity takes to reach a new
	// scroll target. Zero applies targets immediately.
	OpacityEase time.Duration
}

func DefaultConfig(d driver.Config) Config {
	return Config{
		Driver:      d,
		StartDelay:  DefaultStartDelay,
		OpacityEase: DefaultOpacityEase,
	}
}

type Option func(*View)

func WithClock(c driver.Clock) Option { return func(v *View) { v.clock = c } }

func WithLogger(l *log.Logger) Option { return func(v *View) { v.logger = l } }

// WithDriverOptions forwards options to the driver the view creates.
func WithDriverOptions(opts ...driver.Option) Option {
	return func(v *View) { v.driverOpts = append(v.driverOpts, opts...) }
}

type View struct {
	cfg        Config
	clock      driver.Clock
	logger     *log.Logger
	driverOpts []driver.Option
	driver     *driver.Driver

	loading  bool
	armed    bool
	startAt  time.Time
	disabled bool
	closed   bool

	target  float64
	opacity float64
	fade    *gween.Tween

	intro      *Intro
	lastUpdate time.Time
}

// New returns a view in the loading state with full opacity.
func New(cfg Config, opts ...Option) *View {
	v := &View{
		cfg:     cfg,
		clock:   wallClock{},
		logger:  log.New(io.Discard, "", 0),
		loading: true,
		target:  1,
		opacity: 1,
	}
	for _, opt := range opts {
		opt(v)
	}

	dopts := append([]driver.Option{driver.WithClock(v.clock), driver.WithLogger(v.logger)}, v.driverOpts...)
	v.driver = driver.New(cfg.Driver, dopts...)
	return v
}

func (v *View) Driver() *driver.Driver { return v.driver }
func (v *View) Loading() bool          { return v.loading }
func (v *View) Opacity() float64       { return v.opacity }

// Disabled reports whether the last start attempt found no drawing surface.
func (v *View) Disabled() bool { return v.disabled }

// SetLoading is the defer-start signal. Clearing it arms the start timer;
// setting it again disarms the timer and stops a running drawing.
func (v *View) SetLoading(loading bool) {
	if v.closed || loading == v.loading {
		return
	}
	v.loading = loading

	if loading {
		v.armed = false
		if v.driver.State() == driver.Running {
			v.driver.Cancel()
		}
		return
	}

	v.armed = true
	v.startAt = v.clock.Now().Add(v.cfg.StartDelay)
}

// SetScrollOpacity maps the host's scroll progress onto the decoration
// opacity, clamped to [0, 1].
func (v *View) SetScrollOpacity(value float64) {
	target := surface.Clamp01(value)
	if target == v.target && v.fade == nil {
		return
	}
	v.target = target

	if v.cfg.OpacityEase <= 0 {
		v.opacity = target
		v.fade = nil
		return
	}
	v.fade = gween.New(float32(v.opacity), float32(target), float32(v.cfg.OpacityEase.Seconds()), ease.OutQuad)
}

// Attach gates loading on intro: the view stays loading until the intro
// finishes.
func (v *View) Attach(intro *Intro) {
	v.intro = intro
	v.SetLoading(true)
}

// Update is the display-refresh callback. It fires a due start, eases the
// opacity and forwards the frame to the driver. It reports whether the
// drawing is still growing.
func (v *View) Update() bool {
	if v.closed {
		return false
	}

	// The first refresh only sets the reference time.
	now := v.clock.Now()
	var dt time.Duration
	if !v.lastUpdate.IsZero() {
		dt = now.Sub(v.lastUpdate)
	}
	v.lastUpdate = now

	if v.intro != nil {
		if _, done := v.intro.Update(dt); done {
			v.intro = nil
			v.SetLoading(false)
		}
	}

	if v.fade != nil {
		val, done := v.fade.Update(float32(dt.Seconds()))
		v.opacity = float64(val)
		if done {
			v.opacity = v.target
			v.fade = nil
		}
	}

	if v.armed && !now.Before(v.startAt) {
		v.armed = false
		v.start()
	}

	return v.driver.Frame()
}

// Restart drops the current drawing and grows a new one right away, skipping
// any pending start. A failed start disables the view as on first start.
func (v *View) Restart() error {
	if v.closed {
		return nil
	}
	v.intro = nil
	v.loading = false
	v.armed = false
	v.driver.Cancel()
	return v.start()
}

func (v *View) start() error {
	if err := v.driver.Start(); err != nil {
		v.disabled = true
		v.logger.Printf("hero: branches disabled: %v", err)
		return err
	}
	v.disabled = false
	return nil
}

// Frame returns the masked, faded drawing, or nil while there is nothing to
// show.
func (v *View) Frame() *image.RGBA {
	surf := v.driver.Surface()
	if surf == nil {
		return nil
	}
	return surf.Composite(v.opacity)
}

// Close tears the view down: the pending start is dropped and the driver is
// cancelled. Safe to call more than once.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.armed = false
	v.intro = nil
	v.driver.Cancel()
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }
