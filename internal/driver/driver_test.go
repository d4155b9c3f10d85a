package driver_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/artplum/internal/driver"
	"github.com/san-kum/artplum/internal/plum"
	"github.com/san-kum/artplum/internal/surface"
)

type tickLog struct {
	segments int
	ticks    []plum.TickStats
}

func (l *tickLog) OnSegment(plum.Segment)   { l.segments++ }
func (l *tickLog) OnTick(st plum.TickStats) { l.ticks = append(l.ticks, st) }

// surfaceWatch counts segments seen while the driver has a surface.
type surfaceWatch struct {
	get  func() *driver.Driver
	seen int
}

func (p *surfaceWatch) OnSegment(plum.Segment) {
	if p.get().Surface() != nil {
		p.seen++
	}
}
func (p *surfaceWatch) OnTick(plum.TickStats) {}

func stillParams() plum.Params {
	p := plum.DefaultParams()
	p.YoungRate, p.OldRate = 0, 0
	p.HoldProbability = 0
	return p
}

var _ = Describe("Driver", func() {
	var (
		clk *driver.ManualClock
		cfg driver.Config
	)

	BeforeEach(func() {
		clk = driver.NewManualClock(time.Unix(1000, 0))
		cfg = driver.Config{
			Width:  800,
			Height: 600,
			Seed:   1,
			Params: plum.DefaultParams(),
		}
	})

	newDriver := func(opts ...driver.Option) *driver.Driver {
		return driver.New(cfg, append(opts, driver.WithClock(clk))...)
	}

	Describe("Idle", func() {
		It("does no work before Start", func() {
			d := newDriver()
			Expect(d.State()).To(Equal(driver.Idle))
			Expect(d.Frame()).To(BeFalse())
			Expect(d.Surface()).To(BeNil())
			Expect(d.Stats().Frames).To(BeZero())
		})

		It("defaults the interval to 40 Hz", func() {
			Expect(newDriver().Config().Interval).To(Equal(25 * time.Millisecond))
		})
	})

	Describe("Start", func() {
		It("acquires a surface and seeds four origins", func() {
			d := newDriver()
			Expect(d.Start()).To(Succeed())
			Expect(d.State()).To(Equal(driver.Running))
			Expect(d.Surface()).NotTo(BeNil())
			Expect(d.Scheduler().Len()).To(Equal(4))
		})

		It("seeds only two origins on a narrow surface", func() {
			cfg.Width = 400
			d := newDriver()
			Expect(d.Start()).To(Succeed())
			Expect(d.Scheduler().Len()).To(Equal(2))
		})

		It("honours the ratio override", func() {
			cfg.Surface = surface.Options{Ratio: 2}
			d := newDriver()
			Expect(d.Start()).To(Succeed())
			Expect(d.Surface().Bounds().Dx()).To(Equal(1600))
		})

		It("stays idle when no surface is available", func() {
			cfg.Width = 0
			d := newDriver()
			err := d.Start()
			Expect(err).To(MatchError(surface.ErrUnavailable))
			Expect(d.State()).To(Equal(driver.Idle))
			Expect(d.Frame()).To(BeFalse())
		})

		It("rejects invalid params", func() {
			cfg.Params.HoldProbability = 1
			d := newDriver()
			Expect(d.Start()).To(MatchError(plum.ErrInvalidParams))
			Expect(d.State()).To(Equal(driver.Idle))
		})

		It("is a no-op while running", func() {
			d := newDriver()
			Expect(d.Start()).To(Succeed())
			Expect(d.Start()).To(Succeed())
			Expect(d.Stats().Starts).To(Equal(1))
		})
	})

	Describe("Frame", func() {
		It("re-arms without work until the interval elapses", func() {
			d := newDriver()
			Expect(d.Start()).To(Succeed())

			clk.Advance(10 * time.Millisecond)
			Expect(d.Frame()).To(BeTrue())
			Expect(d.Scheduler().Ticks()).To(BeZero())

			clk.Advance(15 * time.Millisecond)
			Expect(d.Frame()).To(BeTrue())
			Expect(d.Scheduler().Ticks()).To(Equal(1))
		})

		It("throttles to the tick interval", func() {
			d := newDriver()
			Expect(d.Start()).To(Succeed())

			for i := 0; i < 9; i++ {
				clk.Advance(10 * time.Millisecond)
				Expect(d.Frame()).To(BeTrue())
			}
			Expect(d.Stats().Frames).To(Equal(9))
			Expect(d.Stats().Ticks).To(Equal(3))
		})

		It("stops after one productive tick when nothing continues", func() {
			cfg.Params = stillParams()
			log := &tickLog{}
			d := newDriver(driver.WithObserver(log))
			Expect(d.Start()).To(Succeed())

			clk.Advance(driver.DefaultInterval)
			Expect(d.Frame()).To(BeTrue())

			clk.Advance(driver.DefaultInterval)
			Expect(d.Frame()).To(BeFalse())

			Expect(d.State()).To(Equal(driver.Stopped))
			Expect(d.Stats().Ticks).To(Equal(1))
			Expect(d.Stats().Segments).To(Equal(4))
			Expect(log.segments).To(Equal(4))
			Expect(d.Surface()).NotTo(BeNil(), "a finished drawing keeps its surface")

			clk.Advance(driver.DefaultInterval)
			Expect(d.Frame()).To(BeFalse())
		})

		It("draws onto the surface", func() {
			cfg.Params = stillParams()
			d := newDriver()
			Expect(d.Start()).To(Succeed())
			clk.Advance(driver.DefaultInterval)
			d.Frame()

			painted := false
			for _, v := range d.Surface().Image().Pix {
				if v != 0 {
					painted = true
					break
				}
			}
			Expect(painted).To(BeTrue())
		})
	})

	Describe("Cancel", func() {
		It("is idempotent", func() {
			d := newDriver()
			Expect(d.Start()).To(Succeed())

			Expect(d.Cancel).NotTo(Panic())
			Expect(d.Cancel).NotTo(Panic())
			Expect(d.State()).To(Equal(driver.Stopped))
			Expect(d.Surface()).To(BeNil())
			Expect(d.Frame()).To(BeFalse())
		})

		It("stops an idle driver", func() {
			d := newDriver()
			d.Cancel()
			Expect(d.State()).To(Equal(driver.Stopped))
		})

		It("allows a restart with fresh origins", func() {
			d := newDriver()
			Expect(d.Start()).To(Succeed())
			clk.Advance(driver.DefaultInterval)
			d.Frame()
			d.Cancel()

			Expect(d.Start()).To(Succeed())
			Expect(d.State()).To(Equal(driver.Running))
			Expect(d.Scheduler().Len()).To(Equal(4))
			Expect(d.Scheduler().Ticks()).To(BeZero())
			Expect(d.Stats().Starts).To(Equal(2))
		})
	})

	Describe("Run", func() {
		It("returns the context error and cancels", func() {
			d := newDriver()
			ctx, cancel := context.WithCancel(context.Background())
			frames := make(chan time.Time)

			done := make(chan error, 1)
			go func() { done <- d.Run(ctx, frames) }()
			cancel()

			Eventually(done).Should(Receive(MatchError(context.Canceled)))
			Expect(d.State()).To(Equal(driver.Stopped))
		})

		It("returns when the frame source closes", func() {
			d := newDriver()
			frames := make(chan time.Time)
			close(frames)
			Expect(d.Run(context.Background(), frames)).To(Succeed())
			Expect(d.State()).To(Equal(driver.Running))
		})

		It("runs until the drawing finishes", func() {
			cfg.Params = stillParams()
			cfg.Interval = time.Microsecond
			d := driver.New(cfg)

			frames := make(chan time.Time)
			stop := make(chan struct{})
			defer close(stop)
			go func() {
				for i := 0; i < 100; i++ {
					time.Sleep(2 * time.Millisecond)
					select {
					case frames <- time.Now():
					case <-stop:
						return
					}
				}
				close(frames)
			}()

			Expect(d.Run(context.Background(), frames)).To(Succeed())
			Expect(d.State()).To(Equal(driver.Stopped))
			Expect(d.Stats().Segments).To(Equal(4))
		})

		It("reports a missing surface", func() {
			cfg.Height = -1
			d := newDriver()
			Expect(d.Run(context.Background(), nil)).To(MatchError(surface.ErrUnavailable))
		})
	})

	Describe("RunHeadless", func() {
		It("finishes a still drawing", func() {
			cfg.Params = stillParams()
			d, err := driver.RunHeadless(context.Background(), cfg, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.State()).To(Equal(driver.Stopped))
			Expect(d.Stats().Segments).To(Equal(4))
		})

		It("honours the tick limit", func() {
			d, err := driver.RunHeadless(context.Background(), cfg, 5)
			Expect(err).To(MatchError(driver.ErrTickLimit))
			Expect(d.Stats().Ticks).To(Equal(5))
			Expect(d.State()).To(Equal(driver.Running))
		})

		It("is reproducible for a seed", func() {
			a, _ := driver.RunHeadless(context.Background(), cfg, 200)
			b, _ := driver.RunHeadless(context.Background(), cfg, 200)
			Expect(a.Stats()).To(Equal(b.Stats()))
			Expect(a.Surface().Image().Pix).To(Equal(b.Surface().Image().Pix))
		})

		It("stops on a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			d, err := driver.RunHeadless(ctx, cfg, 0)
			Expect(err).To(MatchError(context.Canceled))
			Expect(d.State()).To(Equal(driver.Stopped))
		})
	})

	Describe("Drain", func() {
		It("needs a manual clock", func() {
			d := driver.New(cfg)
			Expect(d.Drain(context.Background(), 1)).To(MatchError(driver.ErrNotHeadless))
			Expect(d.State()).To(Equal(driver.Idle))
		})

		It("lets observers reach the surface while draining", func() {
			cfg.Params = stillParams()
			var d *driver.Driver
			watch := &surfaceWatch{get: func() *driver.Driver { return d }}
			d = driver.NewHeadless(cfg, driver.WithObserver(watch))
			Expect(d.Drain(context.Background(), 0)).To(Succeed())
			Expect(watch.seen).To(Equal(4))
		})

		It("is a no-op on a stopped driver", func() {
			cfg.Params = stillParams()
			d := driver.NewHeadless(cfg)
			Expect(d.Drain(context.Background(), 0)).To(Succeed())
			Expect(d.Drain(context.Background(), 0)).To(Succeed())
			Expect(d.Stats().Starts).To(Equal(1))
		})

		It("honours the tick limit after a restart", func() {
			cfg.Params = stillParams()
			d := driver.NewHeadless(cfg)
			Expect(d.Drain(context.Background(), 0)).To(Succeed())
			ticks := d.Stats().Ticks
			Expect(ticks).To(BeNumerically(">", 0))

			Expect(d.Start()).To(Succeed())
			Expect(d.Drain(context.Background(), 1)).To(MatchError(driver.ErrTickLimit))
			Expect(d.Stats().Ticks).To(Equal(ticks + 1))
			Expect(d.State()).To(Equal(driver.Running))

			Expect(d.Drain(context.Background(), 1)).To(Succeed())
			Expect(d.State()).To(Equal(driver.Stopped))
		})
	})
})
