package algorithm

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

// Observer receives every finished result, e.g. to export metrics
type Observer interface {
	ObserveResult(r *Result)
}

// Report summarizes a campaign
type Report struct {
	Results    []*Result // In fault order
	Detected   int
	Untestable int
	Aborted    int
	Stats      Stats
}

// Total is the number of faults targeted
func (r *Report) Total() int {
	return len(r.Results)
}

// Coverage is detected / total
func (r *Report) Coverage() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Detected) / float64(r.Total())
}

// Efficiency is (detected + untestable) / total
func (r *Report) Efficiency() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Detected+r.Untestable) / float64(r.Total())
}

// Campaign runs the engine over a fault list with bounded parallelism
type Campaign struct {
	Engine    *Engine
	Workers   int // Defaults to GOMAXPROCS
	Logger    *utils.Logger
	Observers []Observer
}

// NewCampaign creates a campaign sharing the engine's logger
func NewCampaign(e *Engine, workers int, observers ...Observer) *Campaign {
	return &Campaign{Engine: e, Workers: workers, Logger: e.Logger, Observers: observers}
}

// Run generates tests for every fault. The first structural error cancels
// the remaining work.
func (c *Campaign) Run(ctx context.Context, faults []Fault) (*Report, error) {
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	c.Logger.Info("Starting test generation for %d faults with %d workers", len(faults), workers)

	results := make([]*Result, len(faults))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range faults {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := c.Engine.Run(f)
			if err != nil {
				return err
			}
			results[i] = r
			for _, o := range c.Observers {
				o.ObserveResult(r)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results}
	for _, r := range results {
		switch r.Outcome {
		case Detected:
			report.Detected++
		case Untestable:
			report.Untestable++
		default:
			report.Aborted++
		}
		report.Stats.Add(r.Stats)
	}

	c.Logger.Info("Test generation completed for %d faults", report.Total())
	c.Logger.Info("Detected: %d, untestable: %d, aborted: %d", report.Detected, report.Untestable, report.Aborted)
	if report.Stats.Unverified > 0 {
		c.Logger.Warning("%d detected vector(s) failed fault simulation", report.Stats.Unverified)
	}
	c.Logger.Info("Fault coverage: %.2f%%, test efficiency: %.2f%%", report.Coverage()*100, report.Efficiency()*100)
	return report, nil
}
