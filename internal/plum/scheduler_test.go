package plum

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/san-kum/artplum/internal/geom"
)

type scriptedRand struct {
	vals     []float64
	i        int
	fallback float64
}

func (r *scriptedRand) Float64() float64 {
	if r.i < len(r.vals) {
		v := r.vals[r.i]
		r.i++
		return v
	}
	return r.fallback
}

type line struct{ x0, y0, x1, y1 float64 }

type recordingCanvas struct {
	lines []line
}

func (c *recordingCanvas) StrokeLine(x0, y0, x1, y1 float64) {
	c.lines = append(c.lines, line{x0, y0, x1, y1})
}

type segmentLog struct {
	segments []Segment
	ticks    []TickStats
}

func (l *segmentLog) OnSegment(seg Segment)  { l.segments = append(l.segments, seg) }
func (l *segmentLog) OnTick(stats TickStats) { l.ticks = append(l.ticks, stats) }

func runTicks(s *Scheduler, max int) {
	for i := 0; i < max; i++ {
		if s.Tick().Empty {
			return
		}
	}
}

func TestSegmentLengthBounded(t *testing.T) {
	p := DefaultParams()
	log := &segmentLog{}
	s := New(800, 600, nil, NewRand(7), p)
	s.AddObserver(log)
	s.Seed()
	runTicks(s, 400)

	if len(log.segments) == 0 {
		t.Fatal("expected segments")
	}
	for i, seg := range log.segments {
		if seg.Length < 0 || seg.Length >= p.MaxSegmentLength {
			t.Fatalf("segment %d: length %f outside [0, %f)", i, seg.Length, p.MaxSegmentLength)
		}
		if d := seg.From.Dist(seg.To); math.Abs(d-seg.Length) > 1e-9 {
			t.Fatalf("segment %d: endpoint distance %f does not match length %f", i, d, seg.Length)
		}
	}
}

func TestChildDeflectionBounded(t *testing.T) {
	p := DefaultParams()
	p.YoungRate, p.OldRate = 1, 1
	s := New(800, 600, nil, NewRand(3), p)
	rng := NewRand(11)

	for i := 0; i < 500; i++ {
		parent := Step{
			From:    geom.Point{X: rng.Float64() * 800, Y: rng.Float64() * 600},
			Angle:   (rng.Float64()*2 - 1) * math.Pi,
			Lineage: 0,
		}
		s.Execute(parent)
		children := s.Pending()
		s.pending = nil

		if len(children) != 2 {
			t.Fatalf("iteration %d: expected 2 children with rate 1, got %d", i, len(children))
		}
		for _, c := range children {
			d := c.Angle - parent.Angle
			if d < -p.MaxDeflection || d > p.MaxDeflection {
				t.Fatalf("iteration %d: deflection %f outside ±%f", i, d, p.MaxDeflection)
			}
		}
		if children[0].Angle < parent.Angle || children[1].Angle > parent.Angle {
			t.Fatalf("iteration %d: expected one child on each side of %f, got %f and %f",
				i, parent.Angle, children[0].Angle, children[1].Angle)
		}
	}
}

func TestPruneOutsideMargin(t *testing.T) {
	p := DefaultParams()
	p.YoungRate, p.OldRate = 1, 1

	tests := []struct {
		name string
		from geom.Point
	}{
		{"far left", geom.Point{X: -500, Y: 300}},
		{"far right", geom.Point{X: 1000, Y: 300}},
		{"far above", geom.Point{X: 400, Y: -250}},
		{"far below", geom.Point{X: 400, Y: 900}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(800, 600, nil, NewRand(1), p)
			seg := s.Execute(Step{From: tt.from, Angle: 0, Lineage: 0})
			if !seg.Pruned {
				t.Error("expected segment to be pruned")
			}
			if seg.Children != 0 || s.Len() != 0 {
				t.Errorf("expected no children, got %d (queue %d)", seg.Children, s.Len())
			}
		})
	}
}

func TestMarginEdgeIsInside(t *testing.T) {
	p := DefaultParams()
	p.YoungRate, p.OldRate = 1, 1
	// Zero length keeps the endpoint exactly on the margin.
	r := &scriptedRand{vals: []float64{0, 0, 0, 0, 0}}
	s := New(800, 600, nil, r, p)

	seg := s.Execute(Step{From: geom.Point{X: -100, Y: 700}, Angle: 0, Lineage: 0})
	if seg.Pruned {
		t.Error("endpoint on the margin should not be pruned")
	}
	if seg.Children != 2 {
		t.Errorf("expected 2 children, got %d", seg.Children)
	}
}

func TestLineageCounterMonotonic(t *testing.T) {
	log := &segmentLog{}
	s := New(800, 600, nil, NewRand(99), DefaultParams())
	s.AddObserver(log)
	s.Seed()
	runTicks(s, 600)

	last := make(map[int]int)
	for i, seg := range log.segments {
		if seg.Count != last[seg.Lineage]+1 {
			t.Fatalf("segment %d: lineage %d count %d does not follow %d", i, seg.Lineage, seg.Count, last[seg.Lineage])
		}
		last[seg.Lineage] = seg.Count
	}
	for lineage, count := range last {
		if s.Counter(lineage) != count {
			t.Errorf("lineage %d: counter %d, last segment count %d", lineage, s.Counter(lineage), count)
		}
	}
}

func TestReproducibleWithSeed(t *testing.T) {
	run := func() ([]line, []Segment) {
		c := &recordingCanvas{}
		log := &segmentLog{}
		s := New(1024, 768, c, NewRand(42), DefaultParams())
		s.AddObserver(log)
		s.Seed()
		runTicks(s, 300)
		return c.lines, log.segments
	}

	lines1, segs1 := run()
	lines2, segs2 := run()

	if len(lines1) == 0 {
		t.Fatal("expected drawn lines")
	}
	if !reflect.DeepEqual(lines1, lines2) {
		t.Error("drawn lines differ between identical runs")
	}
	if !reflect.DeepEqual(segs1, segs2) {
		t.Error("segments differ between identical runs")
	}
	if len(lines1) != len(segs1) {
		t.Errorf("expected one stroke per segment, got %d strokes for %d segments", len(lines1), len(segs1))
	}
}

func TestNoContinuationDrawsOnlyOrigins(t *testing.T) {
	p := DefaultParams()
	p.YoungRate, p.OldRate = 0, 0
	p.HoldProbability = 0

	c := &recordingCanvas{}
	s := New(800, 600, c, NewRand(5), p)
	if steps := s.Seed(); len(steps) != 4 {
		t.Fatalf("expected 4 origins, got %d", len(steps))
	}

	first := s.Tick()
	if first.Empty || first.Executed != 4 || first.Pending != 0 {
		t.Errorf("expected one productive tick executing 4 steps, got %+v", first)
	}
	if !s.Tick().Empty {
		t.Error("expected the second tick to find an empty queue")
	}
	if len(c.lines) != 4 {
		t.Errorf("expected 4 segments, got %d", len(c.lines))
	}
}

func TestNoContinuationWithHolds(t *testing.T) {
	p := DefaultParams()
	p.YoungRate, p.OldRate = 0, 0

	c := &recordingCanvas{}
	s := New(800, 600, c, NewRand(17), p)
	s.Seed()
	runTicks(s, 1000)

	if s.Len() != 0 {
		t.Fatalf("expected an empty queue, got %d", s.Len())
	}
	if len(c.lines) != 4 {
		t.Errorf("expected exactly 4 origin segments, got %d", len(c.lines))
	}
}

func TestNarrowSurfaceSeedsTwoOrigins(t *testing.T) {
	s := New(400, 800, nil, NewRand(1), DefaultParams())
	steps := s.Seed()

	if len(steps) != 2 {
		t.Fatalf("expected 2 origins, got %d", len(steps))
	}
	if steps[0].Angle != math.Pi/2 || steps[0].From.Y != -5 {
		t.Errorf("expected top origin first, got %+v", steps[0])
	}
	if steps[1].Angle != -math.Pi/2 || steps[1].From.Y != 805 {
		t.Errorf("expected bottom origin second, got %+v", steps[1])
	}
	if s.Lineages() != 2 {
		t.Errorf("expected 2 lineages, got %d", s.Lineages())
	}
}

func TestSeedPositions(t *testing.T) {
	tests := []struct {
		name string
		u    float64
		frac float64
	}{
		{"low", 0, 0.2},
		{"mid", 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &scriptedRand{fallback: tt.u}
			s := New(1000, 500, nil, r, DefaultParams())
			steps := s.Seed()
			if len(steps) != 4 {
				t.Fatalf("expected 4 origins, got %d", len(steps))
			}

			want := []Step{
				{From: geom.Point{X: tt.frac * 1000, Y: -5}, Angle: math.Pi / 2, Lineage: 0},
				{From: geom.Point{X: tt.frac * 1000, Y: 505}, Angle: -math.Pi / 2, Lineage: 1},
				{From: geom.Point{X: -5, Y: tt.frac * 500}, Angle: 0, Lineage: 2},
				{From: geom.Point{X: 1005, Y: tt.frac * 500}, Angle: math.Pi, Lineage: 3},
			}
			for i := range want {
				got := steps[i]
				if math.Abs(got.From.X-want[i].From.X) > 1e-9 || math.Abs(got.From.Y-want[i].From.Y) > 1e-9 ||
					got.Angle != want[i].Angle || got.Lineage != want[i].Lineage {
					t.Errorf("origin %d: expected %+v, got %+v", i, want[i], got)
				}
				if s.Counter(got.Lineage) != 0 {
					t.Errorf("origin %d: expected fresh counter", i)
				}
			}
		})
	}
}

func TestSeedResetsState(t *testing.T) {
	s := New(800, 600, nil, NewRand(2), DefaultParams())
	s.Seed()
	runTicks(s, 50)

	steps := s.Seed()
	if len(steps) != 4 || s.Len() != 4 {
		t.Errorf("expected a fresh queue of 4, got %d", s.Len())
	}
	if s.Lineages() != 4 || s.Ticks() != 0 {
		t.Errorf("expected 4 lineages and 0 ticks, got %d and %d", s.Lineages(), s.Ticks())
	}
	for i := 0; i < 4; i++ {
		if s.Counter(i) != 0 {
			t.Errorf("lineage %d: expected counter reset, got %d", i, s.Counter(i))
		}
	}
}

func TestDegenerateSurfaceSeedsNothing(t *testing.T) {
	for _, size := range [][2]float64{{0, 600}, {800, 0}, {-1, -1}, {math.NaN(), 600}} {
		s := New(size[0], size[1], nil, NewRand(1), DefaultParams())
		if steps := s.Seed(); len(steps) != 0 {
			t.Errorf("size %v: expected no origins, got %d", size, len(steps))
		}
		if !s.Tick().Empty {
			t.Errorf("size %v: expected an empty first tick", size)
		}
	}
}

func TestOldLineageRate(t *testing.T) {
	tests := []struct {
		name     string
		counter  int
		draws    []float64
		rate     float64
		children int
	}{
		// length, left, right, continue, continue
		{"old lineage skips above 0.5", 31, []float64{0.5, 0.5, 0.5, 0.6, 0.6}, 0.5, 0},
		{"young lineage keeps below 0.8", 5, []float64{0.5, 0.5, 0.5, 0.6, 0.6}, 0.8, 2},
		{"old lineage mixed draws", 31, []float64{0.5, 0.5, 0.5, 0.49, 0.79}, 0.5, 1},
		{"threshold is inclusive", 29, []float64{0.5, 0.5, 0.5, 0.79, 0.8}, 0.8, 1},
		{"one past threshold", 30, []float64{0.5, 0.5, 0.5, 0.79, 0.5}, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &scriptedRand{vals: tt.draws}
			s := New(800, 600, nil, r, DefaultParams())
			s.counters = []int{tt.counter}

			seg := s.Execute(Step{From: geom.Point{X: 400, Y: 300}, Angle: 0, Lineage: 0})
			if seg.Rate != tt.rate {
				t.Errorf("expected rate %v, got %v", tt.rate, seg.Rate)
			}
			if seg.Children != tt.children || s.Len() != tt.children {
				t.Errorf("expected %d children, got %d (queue %d)", tt.children, seg.Children, s.Len())
			}
			if s.Counter(0) != tt.counter+1 {
				t.Errorf("expected counter %d, got %d", tt.counter+1, s.Counter(0))
			}
			for _, c := range s.Pending() {
				if c.Lineage != 0 {
					t.Errorf("child left its lineage: %d", c.Lineage)
				}
			}
		})
	}
}

func TestTickHoldsStepUnchanged(t *testing.T) {
	// Seed draws four positions, then the tick draws: hold (0.3) for the first
	// step and execute (0.7) for the rest.
	r := &scriptedRand{vals: []float64{0.5, 0.5, 0.5, 0.5, 0.3}, fallback: 0.7}
	p := DefaultParams()
	p.YoungRate, p.OldRate = 0, 0

	s := New(800, 600, nil, r, p)
	seeded := s.Seed()

	stats := s.Tick()
	if stats.Held != 1 || stats.Executed != 3 {
		t.Errorf("expected 1 held and 3 executed, got %+v", stats)
	}
	pending := s.Pending()
	if len(pending) != 1 || pending[0] != seeded[0] {
		t.Errorf("expected the first origin to be held unchanged, got %+v", pending)
	}
	if s.Counter(0) != 0 || s.Counter(1) != 1 {
		t.Errorf("expected held lineage untouched, got counters %d and %d", s.Counter(0), s.Counter(1))
	}
}

func TestTickStatsReported(t *testing.T) {
	log := &segmentLog{}
	s := New(800, 600, nil, NewRand(8), DefaultParams())
	s.AddObserver(log)
	s.Seed()
	runTicks(s, 20)

	if len(log.ticks) == 0 {
		t.Fatal("expected tick stats")
	}
	executed := 0
	for i, st := range log.ticks {
		if !st.Empty && st.Tick != i+1 {
			t.Errorf("tick %d reported as %d", i+1, st.Tick)
		}
		if st.Executed+st.Held != st.Snapshot {
			t.Errorf("tick %d: executed %d + held %d != snapshot %d", st.Tick, st.Executed, st.Held, st.Snapshot)
		}
		executed += st.Executed
	}
	if executed != len(log.segments) {
		t.Errorf("expected %d segments, got %d", executed, len(log.segments))
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"negative length", func(p *Params) { p.MaxSegmentLength = -1 }},
		{"nan deflection", func(p *Params) { p.MaxDeflection = math.NaN() }},
		{"inf margin", func(p *Params) { p.Margin = math.Inf(1) }},
		{"rate above one", func(p *Params) { p.YoungRate = 1.5 }},
		{"negative rate", func(p *Params) { p.OldRate = -0.1 }},
		{"hold of one", func(p *Params) { p.HoldProbability = 1 }},
		{"negative threshold", func(p *Params) { p.YoungThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestEdgeDirections(t *testing.T) {
	tests := []struct {
		edge  Edge
		angle float64
		name  string
	}{
		{EdgeTop, math.Pi / 2, "top"},
		{EdgeBottom, -math.Pi / 2, "bottom"},
		{EdgeLeft, 0, "left"},
		{EdgeRight, math.Pi, "right"},
	}
	for _, tt := range tests {
		if tt.edge.Direction() != tt.angle {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.angle, tt.edge.Direction())
		}
		if tt.edge.String() != tt.name {
			t.Errorf("expected %s, got %s", tt.name, tt.edge.String())
		}
	}
}
