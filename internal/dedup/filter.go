package dedup

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vodeneev/cornerwatch/internal/pkg/models"
)

// Filter drops eligible matches whose fixture was alerted within RearmWindow.
type Filter struct {
	store       Store
	rearmWindow time.Duration
	retention   time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Filter.
type Option func(*Filter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Filter) { f.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFilter creates a filter over store. Non-positive durations fall back to defaults.
func NewFilter(store Store, rearmWindow, retention time.Duration, opts ...Option) *Filter {
	if rearmWindow <= 0 {
		rearmWindow = DefaultRearmWindow
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	f := &Filter{
		store:       store,
		rearmWindow: rearmWindow,
		retention:   retention,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FilterUnsent returns the matches not alerted within the re-arm window and
// stamps each of them with the current time. The history is saved every call,
// including when nothing was stamped, so pruning is persisted too.
// Store errors never fail the call: an unreadable history counts as empty.
func (f *Filter) FilterUnsent(ctx context.Context, matches []models.AlertedMatch) []models.AlertedMatch {
	now := f.now()

	history, err := f.store.Load(ctx)
	if err != nil {
		f.logger.Warn("Failed to load sent history, treating as empty", "store", f.store.Name(), "error", err)
		history = History{}
	}
	if history == nil {
		history = History{}
	}

	if pruned := history.Prune(now, f.retention); pruned > 0 {
		f.logger.Debug("Pruned sent history", "removed", pruned, "remaining", len(history))
	}

	stamp := Unix(now)
	window := f.rearmWindow.Seconds()
	unsent := make([]models.AlertedMatch, 0, len(matches))
	for _, m := range matches {
		key := models.MatchKey(m.HomeTeam, m.AwayTeam)
		last, seen := history[key]
		if seen && stamp-last <= window {
			f.logger.Debug("Match already alerted", "match", m.Name(), "age", time.Duration((stamp-last)*float64(time.Second)).Round(time.Second))
			continue
		}
		history[key] = stamp
		unsent = append(unsent, m)
	}

	if err := f.store.Save(ctx, history); err != nil {
		f.logger.Error("Failed to save sent history", "store", f.store.Name(), "error", err)
	}

	f.logger.Info("Dedup filter applied", "eligible", len(matches), "unsent", len(unsent), "history_size", len(history))
	return unsent
}
