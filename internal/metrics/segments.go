package metrics

import "github.com/san-kum/artplum/internal/plum"

type Segments struct {
	name  string
	count int
}

func NewSegments() *Segments {
	return &Segments{name: "segments"}
}

func (s *Segments) Name() string                { return s.name }
func (s *Segments) OnSegment(seg plum.Segment)  { s.count++ }
func (s *Segments) OnTick(stats plum.TickStats) {}
func (s *Segments) Value() float64              { return float64(s.count) }
func (s *Segments) Reset()                      { s.count = 0 }

// Pruned is the fraction of segments that ended outside the margin.
type Pruned struct {
	name    string
	pruned  int
	samples int
}

func NewPruned() *Pruned {
	return &Pruned{name: "pruned_ratio"}
}

func (p *Pruned) Name() string {
	return p.name
}

func (p *Pruned) OnSegment(seg plum.Segment) {
	p.samples++
	if seg.Pruned {
		p.pruned++
	}
}

func (p *Pruned) OnTick(stats plum.TickStats) {}

func (p *Pruned) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return float64(p.pruned) / float64(p.samples)
}

func (p *Pruned) Reset() {
	p.pruned = 0
	p.samples = 0
}

type MeanLength struct {
	name    string
	sum     float64
	samples int
}

func NewMeanLength() *MeanLength {
	return &MeanLength{name: "mean_length"}
}

func (m *MeanLength) Name() string {
	return m.name
}

func (m *MeanLength) OnSegment(seg plum.Segment) {
	m.sum += seg.Length
	m.samples++
}

func (m *MeanLength) OnTick(stats plum.TickStats) {}

func (m *MeanLength) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanLength) Reset() {
	m.sum = 0
	m.samples = 0
}
