// Package pipeline runs one batch pass: acquire, extract, classify,
// snapshot, dedup and dispatch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Vodeneev/cornerwatch/internal/alert"
	"github.com/Vodeneev/cornerwatch/internal/classify"
	"github.com/Vodeneev/cornerwatch/internal/extract"
	"github.com/Vodeneev/cornerwatch/internal/feed"
	"github.com/Vodeneev/cornerwatch/internal/pkg/models"
	"github.com/Vodeneev/cornerwatch/internal/snapshot"
)

// ErrAcquire wraps every failure to obtain the feed. It is the only fatal run error.
var ErrAcquire = errors.New("pipeline: feed acquisition failed")

// UnsentFilter is the dedup step.
type UnsentFilter interface {
	FilterUnsent(ctx context.Context, matches []models.AlertedMatch) []models.AlertedMatch
}

// Notifier is the dispatch step.
type Notifier interface {
	Dispatch(ctx context.Context, matches []models.AlertedMatch) alert.Report
}

// Config wires the collaborators. Snapshot, Summary, Dedup and Notifier are optional.
// Without a Notifier the dedup step is skipped too, so nothing is stamped as sent.
type Config struct {
	Source     feed.Source
	Classifier *classify.Classifier
	Snapshot   snapshot.Sink
	Summary    io.Writer
	Dedup      UnsentFilter
	Notifier   Notifier
	Now        func() time.Time
	Logger     *slog.Logger
}

// Result is the outcome of a run. Eligible is the pre-dedup set.
type Result struct {
	Rows            int
	Records         int
	Eligible        []models.AlertedMatch
	Unsent          []models.AlertedMatch
	Report          alert.Report
	SnapshotWritten bool
}

type Pipeline struct {
	cfg       Config
	extractor *extract.Extractor
	logger    *slog.Logger
}

func New(cfg Config) *Pipeline {
	if cfg.Classifier == nil {
		cfg.Classifier = classify.New(classify.DefaultMinMinute, classify.DefaultMaxMinute)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		extractor: extract.NewExtractor(cfg.Logger),
		logger:    cfg.Logger,
	}
}

// Run executes one pass. Only acquisition failures are returned as errors;
// snapshot, store and delivery problems are logged and the run continues.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.cfg.Now()
	result := &Result{}

	if p.cfg.Source == nil {
		return result, fmt.Errorf("%w: no feed source configured", ErrAcquire)
	}

	p.logger.Info("Acquiring live feed", "source", p.cfg.Source.Name())
	rows, err := p.cfg.Source.Rows(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %s: %w", ErrAcquire, p.cfg.Source.Name(), err)
	}
	result.Rows = len(rows)

	records := p.extractor.ExtractAll(rows)
	result.Records = len(records)

	result.Eligible = p.classify(records)
	p.logger.Info("Matches classified", "records", len(records), "eligible", len(result.Eligible))

	if p.cfg.Summary != nil {
		if err := alert.WriteSummary(p.cfg.Summary, result.Eligible, p.cfg.Classifier.MinMinute, p.cfg.Classifier.MaxMinute); err != nil {
			p.logger.Warn("Failed to write console summary", "error", err)
		}
	}

	result.SnapshotWritten = p.writeSnapshot(ctx, start, result.Eligible)

	if p.cfg.Notifier == nil {
		p.logger.Warn("Telegram is not configured, alerts will not be sent")
		return result, nil
	}

	result.Unsent = result.Eligible
	if p.cfg.Dedup != nil {
		result.Unsent = p.cfg.Dedup.FilterUnsent(ctx, result.Eligible)
	}
	if len(result.Unsent) == 0 {
		p.logger.Info("No new matches to send")
		return result, nil
	}

	result.Report = p.cfg.Notifier.Dispatch(ctx, result.Unsent)
	p.logger.Info("Run finished",
		"eligible", len(result.Eligible),
		"unsent", len(result.Unsent),
		"sent", result.Report.Sent,
		"failed", result.Report.Failed,
		"duration", time.Since(start).Round(time.Millisecond))
	return result, nil
}

func (p *Pipeline) classify(records []models.MatchRecord) []models.AlertedMatch {
	eligible := make([]models.AlertedMatch, 0)
	for _, rec := range records {
		outcome := p.cfg.Classifier.Classify(rec)
		if !outcome.IsMatch {
			p.logger.Debug("Match not eligible", "match", rec.Name(), "league", rec.League, "reason", outcome.Reason)
			continue
		}
		eligible = append(eligible, models.AlertedMatch{MatchRecord: rec, FilterReason: outcome.Reason})
	}
	return eligible
}

func (p *Pipeline) writeSnapshot(ctx context.Context, at time.Time, eligible []models.AlertedMatch) bool {
	if p.cfg.Snapshot == nil {
		return false
	}
	if len(eligible) == 0 {
		p.logger.Info("No eligible matches, snapshot skipped")
		return false
	}
	doc := snapshot.NewDocument(at, p.cfg.Classifier.MinMinute, p.cfg.Classifier.MaxMinute, eligible)
	if err := p.cfg.Snapshot.Write(ctx, doc); err != nil {
		p.logger.Error("Failed to write snapshot", "error", err)
		return false
	}
	p.logger.Info("Snapshot written", "matches", len(eligible))
	return true
}
