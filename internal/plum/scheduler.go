package plum

import (
	"math"

	"github.com/san-kum/artplum/internal/geom"
)

type Scheduler struct {
	width, height float64
	params        Params
	canvas        Canvas
	rng           Rand
	bounds        geom.Rect
	counters      []int
	pending       []Step
	observers     []Observer
	ticks         int
}

// New creates a scheduler for a width x height logical surface. canvas may be
// nil when only the segment stream is of interest.
func New(width, height float64, canvas Canvas, rng Rand, p Params) *Scheduler {
	if !positive(width) {
		width = 0
	}
	if !positive(height) {
		height = 0
	}
	return &Scheduler{
		width:     width,
		height:    height,
		params:    p,
		canvas:    canvas,
		rng:       rng,
		bounds:    geom.Rect{Width: width, Height: height}.Expand(p.Margin),
		observers: make([]Observer, 0),
	}
}

func (s *Scheduler) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Scheduler) SetCanvas(c Canvas)     { s.canvas = c }

func (s *Scheduler) Params() Params { return s.params }
func (s *Scheduler) Ticks() int     { return s.ticks }
func (s *Scheduler) Len() int       { return len(s.pending) }

// Pending returns a copy of the queue scheduled for the next tick.
func (s *Scheduler) Pending() []Step {
	out := make([]Step, len(s.pending))
	copy(out, s.pending)
	return out
}

// Lineages returns the number of lineages seeded so far.
func (s *Scheduler) Lineages() int { return len(s.counters) }

// Counter returns how many segments lineage has drawn.
func (s *Scheduler) Counter(lineage int) int {
	if lineage < 0 || lineage >= len(s.counters) {
		return 0
	}
	return s.counters[lineage]
}

// Origins draws one randomised origin per edge in top, bottom, left, right
// order and keeps the first two on narrow surfaces.
func (s *Scheduler) Origins() []Origin {
	mid := func() float64 {
		return s.rng.Float64()*s.params.MiddleSpan + s.params.MiddleOffset
	}
	w, h, in := s.width, s.height, s.params.EdgeInset

	origins := []Origin{
		{Edge: EdgeTop, Point: geom.Point{X: mid() * w, Y: -in}},
		{Edge: EdgeBottom, Point: geom.Point{X: mid() * w, Y: h + in}},
		{Edge: EdgeLeft, Point: geom.Point{X: -in, Y: mid() * h}},
		{Edge: EdgeRight, Point: geom.Point{X: w + in, Y: mid() * h}},
	}
	for i := range origins {
		origins[i].Angle = origins[i].Edge.Direction()
	}

	if w < s.params.NarrowCutoff {
		origins = origins[:2]
	}
	return origins
}

// Seed discards any previous state and queues one step per origin, each on a
// fresh lineage whose counter starts at 0. A degenerate surface seeds nothing.
func (s *Scheduler) Seed() []Step {
	s.counters = s.counters[:0]
	s.pending = nil
	s.ticks = 0

	if s.width == 0 || s.height == 0 {
		return nil
	}

	for _, o := range s.Origins() {
		s.pending = append(s.pending, Step{
			From:    o.Point,
			Angle:   o.Angle,
			Lineage: s.newLineage(),
		})
	}
	return s.Pending()
}

// Execute draws the step's segment and enqueues its children.
func (s *Scheduler) Execute(step Step) Segment {
	p := s.params
	if step.Lineage < 0 {
		step.Lineage = s.newLineage()
	}
	s.ensureLineage(step.Lineage)

	length := s.rng.Float64() * p.MaxSegmentLength
	s.counters[step.Lineage]++
	count := s.counters[step.Lineage]

	to := geom.Polar2Cart(step.From, length, step.Angle)
	if s.canvas != nil {
		s.canvas.StrokeLine(step.From.X, step.From.Y, to.X, to.Y)
	}

	left := step.Angle + s.rng.Float64()*p.MaxDeflection
	right := step.Angle - s.rng.Float64()*p.MaxDeflection

	seg := Segment{
		From:    step.From,
		To:      to,
		Angle:   step.Angle,
		Length:  length,
		Lineage: step.Lineage,
		Count:   count,
	}

	if !s.bounds.Contains(to) {
		seg.Pruned = true
		s.notifySegment(seg)
		return seg
	}

	seg.Rate = p.Rate(count)
	for _, angle := range [2]float64{left, right} {
		if s.rng.Float64() < seg.Rate {
			s.pending = append(s.pending, Step{From: to, Angle: angle, Lineage: step.Lineage})
			seg.Children++
		}
	}

	s.notifySegment(seg)
	return seg
}

// Tick runs one processing pass: the queue is snapshotted and cleared, and
// each snapshotted step is either held for the next tick or executed now.
// An empty snapshot means the drawing is finished.
func (s *Scheduler) Tick() TickStats {
	snapshot := s.pending
	s.pending = nil

	stats := TickStats{Tick: s.ticks, Snapshot: len(snapshot)}
	if len(snapshot) == 0 {
		stats.Empty = true
		s.notifyTick(stats)
		return stats
	}

	s.ticks++
	stats.Tick = s.ticks
	for _, step := range snapshot {
		if s.rng.Float64() < s.params.HoldProbability {
			s.pending = append(s.pending, step)
			stats.Held++
			continue
		}
		s.Execute(step)
		stats.Executed++
	}

	stats.Pending = len(s.pending)
	s.notifyTick(stats)
	return stats
}

func (s *Scheduler) newLineage() int {
	s.counters = append(s.counters, 0)
	return len(s.counters) - 1
}

func (s *Scheduler) ensureLineage(lineage int) {
	for lineage >= len(s.counters) {
		s.counters = append(s.counters, 0)
	}
}

func (s *Scheduler) notifySegment(seg Segment) {
	for _, o := range s.observers {
		o.OnSegment(seg)
	}
}

func (s *Scheduler) notifyTick(stats TickStats) {
	for _, o := range s.observers {
		o.OnTick(stats)
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
