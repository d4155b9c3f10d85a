package plum

import (
	"math"

	"github.com/san-kum/artplum/internal/geom"
)

// Edge identifies which side of the surface an origin grows from.
type Edge uint8

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	}
	return "unknown"
}

// Direction is the initial growth angle for an origin on this edge: into the
// surface.
func (e Edge) Direction() float64 {
	switch e {
	case EdgeTop:
		return math.Pi / 2
	case EdgeBottom:
		return -math.Pi / 2
	case EdgeRight:
		return math.Pi
	}
	return 0
}

// Origin is an edge-anchored starting point of a lineage.
type Origin struct {
	Edge  Edge
	Point geom.Point
	Angle float64
}

// Step is one deferred "draw a segment, maybe fork" unit of work. The
// segment's length and the children's angles are only decided when the step
// executes.
type Step struct {
	From    geom.Point
	Angle   float64
	Lineage int
}

// Segment records one executed step.
type Segment struct {
	From, To geom.Point
	Angle    float64
	Length   float64
	Lineage  int
	// Count is the lineage counter after this segment.
	Count int
	// Rate is the continuation probability that applied; zero when pruned.
	Rate     float64
	Pruned   bool
	Children int
}

// TickStats summarises one processing pass over the pending queue.
type TickStats struct {
	Tick     int
	Snapshot int
	Executed int
	Held     int
	Pending  int
	Empty    bool
}

// Canvas receives every stroked segment in logical coordinates.
type Canvas interface {
	StrokeLine(x0, y0, x1, y1 float64)
}

type Observer interface {
	OnSegment(seg Segment)
	OnTick(stats TickStats)
}
