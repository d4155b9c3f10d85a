package plum

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParams = errors.New("plum: invalid params")

// Params are the tunables of the growth process.
type Params struct {
	// MaxSegmentLength bounds the length of one segment, drawn from [0, max).
	MaxSegmentLength float64 `yaml:"max_segment_length"`
	// MaxDeflection bounds how far (radians) a child turns from its parent.
	MaxDeflection float64 `yaml:"max_deflection"`
	// Margin is how far past the surface edge a branch may reach before it is pruned.
	Margin float64 `yaml:"margin"`
	// YoungThreshold is the lineage segment count up to which YoungRate applies.
	YoungThreshold int     `yaml:"young_threshold"`
	YoungRate      float64 `yaml:"young_rate"`
	OldRate        float64 `yaml:"old_rate"`
	// NarrowCutoff is the surface width below which only the top and bottom
	// origins are seeded.
	NarrowCutoff float64 `yaml:"narrow_cutoff"`
	// EdgeInset places origins just outside their edge.
	EdgeInset float64 `yaml:"edge_inset"`
	// Origins sit at U*MiddleSpan+MiddleOffset of their edge length.
	MiddleSpan   float64 `yaml:"middle_span"`
	MiddleOffset float64 `yaml:"middle_offset"`
	// HoldProbability is the chance a pending step waits one more tick.
	HoldProbability float64 `yaml:"hold_probability"`
}

func DefaultParams() Params {
	return Params{
		MaxSegmentLength: 6,
		MaxDeflection:    math.Pi / 12,
		Margin:           100,
		YoungThreshold:   30,
		YoungRate:        0.8,
		OldRate:          0.5,
		NarrowCutoff:     500,
		EdgeInset:        5,
		MiddleSpan:       0.6,
		MiddleOffset:     0.2,
		HoldProbability:  0.5,
	}
}

// Rate returns the continuation probability for a lineage that has produced
// count segments.
func (p Params) Rate(count int) float64 {
	if count <= p.YoungThreshold {
		return p.YoungRate
	}
	return p.OldRate
}

// Validate reports the first out-of-range field.
func (p Params) Validate() error {
	nonNeg := []struct {
		name string
		v    float64
	}{
		{"max_segment_length", p.MaxSegmentLength},
		{"max_deflection", p.MaxDeflection},
		{"margin", p.Margin},
		{"narrow_cutoff", p.NarrowCutoff},
		{"edge_inset", p.EdgeInset},
		{"middle_span", p.MiddleSpan},
		{"middle_offset", p.MiddleOffset},
	}
	for _, f := range nonNeg {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidParams, f.name, f.v)
		}
	}

	probs := []struct {
		name string
		v    float64
	}{
		{"young_rate", p.YoungRate},
		{"old_rate", p.OldRate},
	}
	for _, f := range probs {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrInvalidParams, f.name, f.v)
		}
	}

	// A hold probability of 1 would never execute anything.
	if math.IsNaN(p.HoldProbability) || p.HoldProbability < 0 || p.HoldProbability >= 1 {
		return fmt.Errorf("%w: hold_probability must be in [0, 1), got %v", ErrInvalidParams, p.HoldProbability)
	}
	if p.YoungThreshold < 0 {
		return fmt.Errorf("%w: young_threshold must be non-negative, got %d", ErrInvalidParams, p.YoungThreshold)
	}
	return nil
}
