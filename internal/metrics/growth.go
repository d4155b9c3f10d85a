package metrics

import "github.com/san-kum/artplum/internal/plum"

// Depth is the largest lineage counter seen.
type Depth struct {
	name string
	max  int
}

func NewDepth() *Depth {
	return &Depth{name: "max_lineage"}
}

func (d *Depth) Name() string {
	return d.name
}

func (d *Depth) OnSegment(seg plum.Segment) {
	if seg.Count > d.max {
		d.max = seg.Count
	}
}

func (d *Depth) OnTick(stats plum.TickStats) {}

func (d *Depth) Value() float64 {
	return float64(d.max)
}

func (d *Depth) Reset() {
	d.max = 0
}

// PeakPending is the longest queue left behind by a tick. It also keeps the
// per-tick queue lengths for plotting.
type PeakPending struct {
	name    string
	peak    int
	history []float64
}

func NewPeakPending() *PeakPending {
	return &PeakPending{name: "peak_pending"}
}

func (p *PeakPending) Name() string {
	return p.name
}

func (p *PeakPending) OnSegment(seg plum.Segment) {}

func (p *PeakPending) OnTick(stats plum.TickStats) {
	if stats.Empty {
		return
	}
	p.history = append(p.history, float64(stats.Pending))
	if stats.Pending > p.peak {
		p.peak = stats.Pending
	}
}

func (p *PeakPending) Value() float64 {
	return float64(p.peak)
}

// History returns the queue length after every productive tick.
func (p *PeakPending) History() []float64 {
	return p.history
}

func (p *PeakPending) Reset() {
	p.peak = 0
	p.history = nil
}
