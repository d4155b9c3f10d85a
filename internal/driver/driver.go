package driver

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/san-kum/artplum/internal/plum"
	"github.com/san-kum/artplum/internal/surface"
)

// DefaultInterval caps processing at 40 ticks per second.
const DefaultInterval = time.Second / 40

type State uint8

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

type Config struct {
	Width, Height float64
	Interval      time.Duration
	Seed          int64
	Params        plum.Params
	Surface       surface.Options
}

// Stats counts what the driver has done since it was created.
type Stats struct {
	Frames      int
	Ticks       int
	Segments    int
	PeakPending int
	Starts      int
}

type Option func(*Driver)

func WithClock(c Clock) Option { return func(d *Driver) { d.clock = c } }

// WithRand replaces the source seeded from Config.Seed.
func WithRand(r plum.Rand) Option { return func(d *Driver) { d.rng = r } }

func WithLogger(l *log.Logger) Option { return func(d *Driver) { d.logger = l } }

func WithObserver(o plum.Observer) Option {
	return func(d *Driver) { d.observers = append(d.observers, o) }
}

type Driver struct {
	cfg       Config
	clock     Clock
	rng       plum.Rand
	logger    *log.Logger
	observers []plum.Observer

	state   State
	surface *surface.Surface
	sched   *plum.Scheduler
	last    time.Time
	stats   Stats
}

func New(cfg Config, opts ...Option) *Driver {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	d := &Driver{
		cfg:    cfg,
		clock:  systemClock{},
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = plum.NewRand(cfg.Seed)
	}
	return d
}

func (d *Driver) State() State               { return d.state }
func (d *Driver) Stats() Stats               { return d.stats }
func (d *Driver) Config() Config             { return d.cfg }
func (d *Driver) Surface() *surface.Surface  { return d.surface }
func (d *Driver) Scheduler() *plum.Scheduler { return d.sched }

// Start acquires a surface, seeds the origins and enters Running. Starting a
// stopped driver restarts the drawing on a fresh surface. If no surface can
// be acquired the state is left unchanged and the error is returned for the
// host to swallow.
func (d *Driver) Start() error {
	if d.state == Running {
		return nil
	}
	if err := d.cfg.Params.Validate(); err != nil {
		return err
	}

	surf, err := surface.New(d.cfg.Width, d.cfg.Height, d.cfg.Surface)
	if err != nil {
		d.logger.Printf("driver: decoration disabled: %v", err)
		return err
	}

	d.surface = surf
	d.sched = plum.New(d.cfg.Width, d.cfg.Height, surf, d.rng, d.cfg.Params)
	for _, o := range d.observers {
		d.sched.AddObserver(o)
	}
	origins := d.sched.Seed()

	d.last = d.clock.Now()
	d.state = Running
	d.stats.Starts++
	d.logger.Printf("driver: started %gx%g at ratio %g with %d origins",
		d.cfg.Width, d.cfg.Height, surf.Ratio(), len(origins))
	return nil
}

// Frame handles one display refresh and reports whether the caller should
// schedule another.
func (d *Driver) Frame() bool {
	if d.state != Running {
		return false
	}
	d.stats.Frames++

	now := d.clock.Now()
	if now.Sub(d.last) < d.cfg.Interval {
		return true
	}
	d.last = now

	st := d.sched.Tick()
	if st.Empty {
		d.state = Stopped
		d.logger.Printf("driver: finished after %d ticks, %d segments", d.stats.Ticks, d.stats.Segments)
		return false
	}

	d.stats.Ticks++
	d.stats.Segments += st.Executed
	if st.Pending > d.stats.PeakPending {
		d.stats.PeakPending = st.Pending
	}
	return true
}

// Cancel stops the driver and releases its surface. It is safe to call in
// any state and more than once.
func (d *Driver) Cancel() {
	if d.state == Stopped && d.surface == nil {
		return
	}
	d.state = Stopped
	if d.sched != nil {
		d.sched.SetCanvas(nil)
	}
	d.surface = nil
	d.logger.Printf("driver: cancelled")
}

// Run consumes display refresh signals from frames until the drawing
// finishes, frames is closed, or ctx is done. An idle driver is started
// first. Cancellation cancels the driver and returns ctx.Err().
func (d *Driver) Run(ctx context.Context, frames <-chan time.Time) error {
	if d.state == Idle {
		if err := d.Start(); err != nil {
			return err
		}
	}
	if d.state != Running {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			d.Cancel()
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			if !d.Frame() {
				return nil
			}
		}
	}
}

// NewHeadless returns a driver on a manual clock, ready for Drain.
func NewHeadless(cfg Config, opts ...Option) *Driver {
	clk := NewManualClock(time.Unix(0, 0))
	return New(cfg, append(opts, WithClock(clk))...)
}

// Drain grows the drawing without a display: an idle driver is started and
// the manual clock advances one interval per frame so every frame is a tick.
// If the drawing is still growing after maxTicks more ticks the driver is
// left Running and ErrTickLimit is returned; maxTicks <= 0 means no limit.
func (d *Driver) Drain(ctx context.Context, maxTicks int) error {
	clk, ok := d.clock.(*ManualClock)
	if !ok {
		return ErrNotHeadless
	}
	if d.state == Idle {
		if err := d.Start(); err != nil {
			return err
		}
	}
	if d.state != Running {
		return nil
	}

	base := d.stats.Ticks
	interval := d.cfg.Interval
	for maxTicks <= 0 || d.stats.Ticks-base < maxTicks {
		select {
		case <-ctx.Done():
			d.Cancel()
			return ctx.Err()
		default:
		}

		clk.Advance(interval)
		if !d.Frame() {
			return nil
		}
	}
	return ErrTickLimit
}

// RunHeadless is NewHeadless followed by Drain.
func RunHeadless(ctx context.Context, cfg Config, maxTicks int, opts ...Option) (*Driver, error) {
	d := NewHeadless(cfg, opts...)
	return d, d.Drain(ctx, maxTicks)
}
