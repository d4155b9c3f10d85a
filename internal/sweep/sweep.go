// Package sweep grows many headless drawings to study the growth
// parameters: an ensemble repeats one configuration over consecutive seeds,
// and a sweep runs an ensemble for each value of one parameter.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/artplum/internal/driver"
	"github.com/san-kum/artplum/internal/metrics"
	"github.com/san-kum/artplum/internal/plum"
)

var (
	ErrUnknownParam = errors.New("sweep: unknown parameter")
	ErrInvalidPlan  = errors.New("sweep: invalid plan")
)

// Plan describes a sweep. With Steps == 1 only Min is used.
type Plan struct {
	Param     string  `yaml:"param"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Steps     int     `yaml:"steps"`
	Runs      int     `yaml:"runs"`
	SeedStart int64   `yaml:"seed_start"`
	MaxTicks  int     `yaml:"max_ticks"`
	Workers   int     `yaml:"workers"`
}

func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (p Plan) Validate() error {
	if _, ok := params(&plum.Params{})[p.Param]; !ok && p.Param != "young_threshold" {
		return fmt.Errorf("%w: %q (available: %v)", ErrUnknownParam, p.Param, ParamNames())
	}
	if p.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", ErrInvalidPlan, p.Steps)
	}
	if p.Runs < 1 {
		return fmt.Errorf("%w: runs must be at least 1, got %d", ErrInvalidPlan, p.Runs)
	}
	return nil
}

// Values returns the Steps evenly spaced parameter values of the plan.
func (p Plan) Values() []float64 {
	if p.Steps <= 1 {
		return []float64{p.Min}
	}
	step := (p.Max - p.Min) / float64(p.Steps-1)
	out := make([]float64, p.Steps)
	for i := range out {
		out[i] = p.Min + float64(i)*step
	}
	return out
}

func params(p *plum.Params) map[string]*float64 {
	return map[string]*float64{
		"max_segment_length": &p.MaxSegmentLength,
		"max_deflection":     &p.MaxDeflection,
		"margin":             &p.Margin,
		"young_rate":         &p.YoungRate,
		"old_rate":           &p.OldRate,
		"narrow_cutoff":      &p.NarrowCutoff,
		"edge_inset":         &p.EdgeInset,
		"middle_span":        &p.MiddleSpan,
		"middle_offset":      &p.MiddleOffset,
		"hold_probability":   &p.HoldProbability,
	}
}

// ParamNames lists the parameters a plan can vary.
func ParamNames() []string {
	names := []string{"young_threshold"}
	for name := range params(&plum.Params{}) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam sets the parameter with the given config key. young_threshold is
// rounded to the nearest integer.
func SetParam(p *plum.Params, name string, v float64) error {
	if name == "young_threshold" {
		p.YoungThreshold = int(math.Round(v))
		return nil
	}
	field, ok := params(p)[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	*field = v
	return nil
}

// Result is one headless drawing of an ensemble.
type Result struct {
	Seed    int64
	Stats   driver.Stats
	Metrics map[string]float64
	// Finished is false when the drawing hit the tick limit.
	Finished bool
}

// Ensemble grows runs drawings of cfg with seeds SeedStart, SeedStart+1, ...
// at most workers at a time. Results are in seed order.
func Ensemble(ctx context.Context, cfg driver.Config, runs int, seedStart int64, maxTicks, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, runs)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < runs; i++ {
		idx := i
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = seedStart + int64(idx)

			ms := metrics.Default()
			opts := make([]driver.Option, 0, len(ms))
			for _, m := range ms {
				opts = append(opts, driver.WithObserver(m))
			}

			d, err := driver.RunHeadless(ctx, cfgCopy, maxTicks, opts...)
			if err != nil && !errors.Is(err, driver.ErrTickLimit) {
				return fmt.Errorf("seed %d: %w", cfgCopy.Seed, err)
			}
			results[idx] = Result{
				Seed:     cfgCopy.Seed,
				Stats:    d.Stats(),
				Metrics:  metrics.Collect(ms),
				Finished: err == nil,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Point is the ensemble grown for one parameter value.
type Point struct {
	Value    float64
	Results  []Result
	Mean     map[string]float64
	Finished int
}

// Run executes plan on top of base, one ensemble per value.
func Run(ctx context.Context, base driver.Config, plan Plan) ([]Point, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	values := plan.Values()
	points := make([]Point, 0, len(values))
	for _, v := range values {
		cfg := base
		if err := SetParam(&cfg.Params, plan.Param, v); err != nil {
			return nil, err
		}
		if err := cfg.Params.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", plan.Param, v, err)
		}

		results, err := Ensemble(ctx, cfg, plan.Runs, plan.SeedStart, plan.MaxTicks, plan.Workers)
		if err != nil {
			return nil, err
		}
		points = append(points, summarize(v, results))
	}
	return points, nil
}

func summarize(v float64, results []Result) Point {
	p := Point{Value: v, Results: results, Mean: map[string]float64{}}
	for _, r := range results {
		if r.Finished {
			p.Finished++
		}
		for name, val := range r.Metrics {
			p.Mean[name] += val
		}
	}
	if len(results) > 0 {
		for name := range p.Mean {
			p.Mean[name] /= float64(len(results))
		}
	}
	return p
}

// Best returns the point whose mean metric is smallest, or largest when
// maximize is set. ok is false when points is empty or lacks the metric.
func Best(points []Point, metric string, maximize bool) (Point, bool) {
	var best Point
	found := false
	for _, p := range points {
		v, has := p.Mean[metric]
		if !has {
			continue
		}
		if !found || (maximize && v > best.Mean[metric]) || (!maximize && v < best.Mean[metric]) {
			best, found = p, true
		}
	}
	return best, found
}

// Series extracts one mean metric per point, for plotting.
func Series(points []Point, metric string) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Mean[metric]
	}
	return out
}
