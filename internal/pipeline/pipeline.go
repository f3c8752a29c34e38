// Package pipeline orchestrates one ingestion run: parallel source
// fetch, per-record normalization and validation, batch deduplication,
// and the atomic dataset commit.
package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"eventpipe/internal/config"
	"eventpipe/internal/dataset"
	"eventpipe/internal/dedup"
	"eventpipe/internal/logger"
	"eventpipe/internal/metrics"
	"eventpipe/internal/models"
	"eventpipe/internal/normalizer"
	"eventpipe/internal/sources"
)

// ErrAllSourcesFailed is returned when no source produced any data;
// it is one of the two run-fatal conditions, the other being a
// dataset write failure.
var ErrAllSourcesFailed = errors.New("all sources failed")

// RunStats accounts for one pipeline run.
type RunStats struct {
	StartedAt       time.Time
	Duration        time.Duration
	Sources         []models.SourceResult
	Scraped         int
	Admitted        int
	Rejected        int
	Flagged         int
	RejectsByReason map[string]int
	FlagsByReason   map[string]int
	Clusters        int
	Published       int
}

// Pipeline wires the stages together for a single run.
type Pipeline struct {
	cfg        *config.Config
	log        *logger.Logger
	adapters   []sources.Adapter
	processor  *normalizer.Processor
	judge      *dedup.Judge
	writer     *dataset.Writer
	priorities map[string]int
}

// New creates a pipeline over the given adapters and writer.
func New(cfg *config.Config, log *logger.Logger, adapters []sources.Adapter, writer *dataset.Writer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		log:      log,
		adapters: adapters,
		processor: normalizer.NewProcessor(
			cfg.Location(),
			cfg.Pipeline.DefaultCity,
			cfg.Pipeline.DefaultState,
			time.Duration(cfg.Pipeline.PastToleranceDays)*24*time.Hour,
		),
		judge:      dedup.NewJudge(cfg.Dedup),
		writer:     writer,
		priorities: cfg.SourcePriorities(),
	}
}

// Run executes one complete pipeline run. Per-source and per-record
// failures degrade completeness but never abort the run; only a write
// failure or a total source blackout is fatal, and a failed run leaves
// the previously committed dataset untouched.
func (p *Pipeline) Run(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{
		StartedAt:       time.Now(),
		RejectsByReason: make(map[string]int),
		FlagsByReason:   make(map[string]int),
	}

	defer func() {
		stats.Duration = time.Since(stats.StartedAt)
		metrics.RunDuration.Observe(stats.Duration.Seconds())
	}()

	raws := p.intake(ctx, stats)

	if len(raws) == 0 && allFailed(stats.Sources) {
		metrics.RunsTotal.WithLabelValues("failed").Inc()

		return stats, ErrAllSourcesFailed
	}

	admitted := p.normalize(raws, stats)

	events := dedup.Finalize(dedup.Deduplicate(admitted, p.judge))
	stats.Clusters = len(events)
	stats.Published = len(events)
	metrics.DuplicatesMerged.Add(float64(stats.Admitted - len(events)))

	p.log.Info("deduplicated admitted candidates",
		"admitted", stats.Admitted, "events", len(events))

	if err := p.writer.Write(events); err != nil {
		metrics.RunsTotal.WithLabelValues("failed").Inc()
		p.log.Error("dataset commit failed, previous dataset preserved", "error", err)

		return stats, err
	}

	metrics.RunsTotal.WithLabelValues("success").Inc()
	metrics.EventsPublished.Set(float64(len(events)))
	metrics.LastRunTimestamp.SetToCurrentTime()

	p.log.Info("dataset committed", "path", p.writer.Path(), "events", len(events))

	return stats, nil
}

// intake fetches all sources in parallel with bounded workers. Each
// source's failure is isolated; partial extractions are kept.
func (p *Pipeline) intake(ctx context.Context, stats *RunStats) []models.RawCandidate {
	type fetchResult struct {
		candidates []models.RawCandidate
		result     models.SourceResult
	}

	results := make([]fetchResult, len(p.adapters))

	workers := p.cfg.Pipeline.MaxWorkers
	if workers > len(p.adapters) {
		workers = len(p.adapters)
	}

	jobs := make(chan int, len(p.adapters))

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				adapter := p.adapters[idx]
				started := time.Now()

				candidates, err := adapter.Fetch(ctx)

				result := models.SourceResult{
					SourceName: adapter.Name(),
					Status:     models.SourceSuccess,
					Candidates: len(candidates),
					Duration:   time.Since(started),
				}

				if err != nil {
					result.Error = err.Error()
					result.Status = models.SourceFailed

					if len(candidates) > 0 {
						result.Status = models.SourcePartial
					}

					metrics.AdapterFailures.WithLabelValues(adapter.Name(), string(result.Status)).Inc()
					p.log.Error("source fetch failed", "source", adapter.Name(),
						"status", result.Status, "error", err)
				} else {
					p.log.Info("source fetched", "source", adapter.Name(),
						"candidates", len(candidates), "duration", result.Duration)
				}

				metrics.CandidatesScraped.WithLabelValues(adapter.Name()).Add(float64(len(candidates)))

				results[idx] = fetchResult{candidates: candidates, result: result}
			}
		}()
	}

	for i := range p.adapters {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	var raws []models.RawCandidate

	for _, r := range results {
		raws = append(raws, r.candidates...)
		stats.Sources = append(stats.Sources, r.result)
	}

	sort.SliceStable(stats.Sources, func(i, j int) bool {
		return stats.Sources[i].SourceName < stats.Sources[j].SourceName
	})

	stats.Scraped = len(raws)

	return raws
}

// normalize runs the per-record normalize+validate stage in parallel.
// The stage is pure per record, so ordering between workers is free;
// results are collected by input index to keep accounting stable.
func (p *Pipeline) normalize(raws []models.RawCandidate, stats *RunStats) []models.Candidate {
	results := make([]normalizer.Result, len(raws))

	workers := p.cfg.Pipeline.MaxWorkers
	if workers > len(raws) {
		workers = len(raws)
	}

	jobs := make(chan int, len(raws))

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				results[idx] = p.processor.Process(raws[idx])
			}
		}()
	}

	for i := range raws {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	var admitted []models.Candidate

	for i, result := range results {
		outcome := result.Outcome

		switch outcome.Decision {
		case normalizer.DecisionReject:
			stats.Rejected++

			for _, reason := range outcome.Reasons {
				stats.RejectsByReason[reason]++
				metrics.RecordsRejected.WithLabelValues(reason).Inc()
			}

			p.log.Warn("candidate rejected",
				"source", raws[i].SourceName,
				"title", raws[i].Title,
				"reasons", outcome.Reasons,
				"parse_error", result.ParseError)

			continue

		case normalizer.DecisionFlag:
			stats.Flagged++

			for _, reason := range outcome.Reasons {
				stats.FlagsByReason[reason]++
				metrics.RecordsFlagged.WithLabelValues(reason).Inc()
			}

			p.log.Warn("candidate flagged for review",
				"source", raws[i].SourceName,
				"title", result.Candidate.Event.Title,
				"reasons", outcome.Reasons)
		}

		candidate := *result.Candidate
		candidate.SourcePriority = p.priorities[raws[i].SourceName]
		admitted = append(admitted, candidate)
	}

	stats.Admitted = len(admitted)

	return admitted
}

func allFailed(results []models.SourceResult) bool {
	for _, r := range results {
		if r.Status != models.SourceFailed {
			return false
		}
	}

	return len(results) > 0
}
