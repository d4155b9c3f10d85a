package metrics

import (
	"sort"

	"github.com/san-kum/artplum/internal/plum"
)

// Metric observes a drawing as it grows and reduces it to one number.
type Metric interface {
	plum.Observer
	Name() string
	Value() float64
	Reset()
}

// Default returns the metrics reported by the CLI.
func Default() []Metric {
	return []Metric{
		NewSegments(),
		NewPruned(),
		NewMeanLength(),
		NewDepth(),
		NewPeakPending(),
	}
}

// Collect returns the current value of every metric keyed by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the metric names of out in sorted order.
func Names(values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
