// Package analysis wires the full pipeline: path sampling, sweep, transects,
// height sampling, obstacle detection, envelope assembly, and aggregation.
// The run is a pure transformation of its inputs; per-station work fans out
// over a worker pool and joins before the envelope is built, with outputs
// slotted by station index so scheduling never changes the result.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/windroute/gabarit/internal/config"
	"github.com/windroute/gabarit/internal/envelope"
	"github.com/windroute/gabarit/internal/feedback"
	"github.com/windroute/gabarit/internal/geo"
	"github.com/windroute/gabarit/internal/heights"
	"github.com/windroute/gabarit/internal/obstacle"
	"github.com/windroute/gabarit/internal/raster"
	"github.com/windroute/gabarit/internal/sampler"
	"github.com/windroute/gabarit/internal/sweep"
	"github.com/windroute/gabarit/internal/transect"
	"github.com/windroute/gabarit/pkg/core"
)

// Analyzer runs clearance analyses with a fixed configuration and raster
// provider. Safe for repeated runs; each run owns its own state.
type Analyzer struct {
	cfg      config.Analysis
	provider raster.Provider
	log      *slog.Logger
	bus      *feedback.Bus

	stationsProcessed metric.Int64Counter
	obstaclesFound    metric.Int64Counter
	runDuration       metric.Float64Histogram
}

// New creates an Analyzer. The bus may be nil when no progress feedback is
// wanted. The provider is wrapped with the configured per-call timeout.
func New(cfg config.Analysis, provider raster.Provider, logger *slog.Logger, bus *feedback.Bus) (*Analyzer, error) {
	if provider == nil {
		return nil, &core.InvalidParameterError{Param: "provider", Reason: "height raster provider is required"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := meter()

	stationsProcessed, err := m.Int64Counter(
		"analysis.stations.processed",
		metric.WithDescription("Total stations processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stations counter: %w", err)
	}
	obstaclesFound, err := m.Int64Counter(
		"analysis.obstacles.found",
		metric.WithDescription("Total obstacle stations detected"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating obstacles counter: %w", err)
	}
	runDuration, err := m.Float64Histogram(
		"analysis.run.duration",
		metric.WithDescription("Analysis run wall time"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &Analyzer{
		cfg:               cfg,
		provider:          raster.WithTimeout(provider, cfg.RasterTimeout),
		log:               logger,
		bus:               bus,
		stationsProcessed: stationsProcessed,
		obstaclesFound:    obstaclesFound,
		runDuration:       runDuration,
	}, nil
}

// stationOutcome is the per-station result slot, written by exactly one
// worker and read only after the join.
type stationOutcome struct {
	sweep     core.SweepResult
	transect  core.Transect
	detection obstacle.Detection
	err       error
}

// Run executes the full pipeline on a path polyline. The path must already
// be in the raster's CRS unless auto-reprojection is enabled.
func (a *Analyzer) Run(ctx context.Context, path core.Polyline) (*core.Result, error) {
	start := time.Now()

	path, err := a.preparePath(path)
	if err != nil {
		return nil, err
	}

	stations, err := sampler.Stations(path, a.cfg.Spacing)
	if err != nil {
		return nil, err
	}
	a.log.Info("path sampled",
		"stations", len(stations),
		"lengthM", stations[len(stations)-1].Distance,
		"spacingM", a.cfg.Spacing)

	outcomes, err := a.processStations(ctx, stations)
	if err != nil {
		return nil, err
	}

	result, err := a.aggregate(stations, outcomes)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	a.stationsProcessed.Add(ctx, int64(len(stations)),
		metric.WithAttributes(attribute.String("bladeType", a.cfg.BladeType)))
	a.obstaclesFound.Add(ctx, int64(result.Summary.ObstacleCount),
		metric.WithAttributes(attribute.String("bladeType", a.cfg.BladeType)))
	a.runDuration.Record(ctx, elapsed.Seconds())

	a.log.Info("analysis complete",
		"stations", result.Summary.StationCount,
		"obstacles", result.Summary.ObstacleCount,
		"noData", result.Summary.NoDataCount,
		"passable", result.Summary.Passable,
		"duration", elapsed)

	if a.bus != nil {
		a.bus.Publish(feedback.Event{Kind: feedback.KindRunComplete, Fraction: 1, Payload: result.Summary})
	}

	return result, nil
}

// preparePath enforces the CRS contract before any station work.
func (a *Analyzer) preparePath(path core.Polyline) (core.Polyline, error) {
	crs := a.cfg.CRS
	if crs.PathEPSG == crs.RasterEPSG {
		return path, nil
	}
	if !crs.AutoReproject {
		return nil, geo.CheckCRS(crs.PathEPSG, crs.RasterEPSG)
	}
	a.log.Info("reprojecting path", "fromEpsg", crs.PathEPSG, "toEpsg", crs.RasterEPSG)
	return geo.Reproject(path, crs.PathEPSG, crs.RasterEPSG), nil
}

// processStations fans the per-station work out over the worker pool and
// joins. Outcomes land in a slice indexed by station number, so the caller
// sees the same ordering regardless of scheduling.
func (a *Analyzer) processStations(ctx context.Context, stations []core.Station) ([]stationOutcome, error) {
	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(stations) {
		workers = len(stations)
	}

	outcomes := make([]stationOutcome, len(stations))
	jobs := make(chan int)
	var done int64
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = a.processStation(stations[i])

				mu.Lock()
				done++
				completed := done
				mu.Unlock()
				if a.bus != nil {
					a.bus.Publish(feedback.Event{
						Kind:         feedback.KindProgress,
						StationIndex: i,
						Fraction:     float64(completed) / float64(len(stations)),
					})
				}
			}
		}()
	}

feed:
	for i := range stations {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis canceled: %w", err)
	}

	// First error in station order wins, so failures are reproducible too.
	for i := range outcomes {
		if outcomes[i].err != nil {
			return nil, outcomes[i].err
		}
	}
	return outcomes, nil
}

// processStation runs sweep, transect, height sampling, and obstacle
// detection for one station. No shared state is touched.
func (a *Analyzer) processStation(st core.Station) stationOutcome {
	sw := sweep.Calc(st, a.cfg.Profile, a.cfg.Sweep)

	tr, err := transect.Build(st, sw.HalfWidth, a.cfg.SamplePoints)
	if err != nil {
		return stationOutcome{err: err}
	}

	samples, err := heights.Sample(tr, a.provider, a.cfg.Filter)
	if err != nil {
		return stationOutcome{err: err}
	}

	det := obstacle.Detect(st, sw, samples, a.cfg.Clearance)

	return stationOutcome{sweep: sw, transect: tr, detection: det}
}

// aggregate merges the ordered station outcomes and the envelope into the
// immutable run result.
func (a *Analyzer) aggregate(stations []core.Station, outcomes []stationOutcome) (*core.Result, error) {
	transects := make([]core.Transect, len(outcomes))
	for i := range outcomes {
		transects[i] = outcomes[i].transect
	}

	env, err := envelope.Build(transects)
	if err != nil {
		return nil, err
	}

	result := &core.Result{
		Profile:   a.cfg.Profile,
		Clearance: a.cfg.Clearance,
		Spacing:   a.cfg.Spacing,
		Stations:  make([]core.StationResult, len(stations)),
		Envelope:  env,
	}

	summary := core.Summary{
		TotalLength:  stations[len(stations)-1].Distance,
		StationCount: len(stations),
		MaxHeight:    math.NaN(),
		EnvelopeArea: geo.RingArea(env.Ring),
	}

	for i, st := range stations {
		out := outcomes[i]
		result.Stations[i] = core.StationResult{
			Station:      st,
			Sweep:        out.sweep,
			Status:       out.detection.Status,
			MaxHeight:    out.detection.MaxHeight,
			MeanHeight:   out.detection.MeanHeight,
			ValidSamples: out.detection.ValidSamples,
		}

		if out.sweep.HalfWidth > summary.MaxHalfWidth {
			summary.MaxHalfWidth = out.sweep.HalfWidth
		}
		switch out.detection.Status {
		case core.StatusNoData:
			summary.NoDataCount++
		case core.StatusObstacle:
			summary.ObstacleCount++
		}
		if out.detection.ValidSamples > 0 && (math.IsNaN(summary.MaxHeight) || out.detection.MaxHeight > summary.MaxHeight) {
			summary.MaxHeight = out.detection.MaxHeight
		}

		if out.detection.Record != nil {
			result.Obstacles = append(result.Obstacles, *out.detection.Record)
			if a.bus != nil {
				a.bus.Publish(feedback.Event{
					Kind:         feedback.KindObstacle,
					StationIndex: st.Index,
					Message:      fmt.Sprintf("obstacle at station %d: height %.2fm exceeds clearance by %.2fm", st.Index, out.detection.Record.Height, out.detection.Record.Exceedance),
					Payload:      *out.detection.Record,
				})
			}
		}
	}

	summary.Passable = summary.ObstacleCount == 0
	result.Summary = summary
	return result, nil
}
