package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/Vodeneev/cornerwatch/internal/pkg/models"
)

const (
	DefaultMessageDelay = 500 * time.Millisecond
	DefaultSendTimeout  = 30 * time.Second
)

// MessageKind labels what a delivery carried.
type MessageKind string

const (
	KindHeader MessageKind = "header"
	KindLeague MessageKind = "league"
	KindMatch  MessageKind = "match"
)

// Failure is one failed delivery.
type Failure struct {
	Kind  MessageKind
	Label string
	Err   error
}

// Report aggregates a batch. Deliveries are independent, so a batch can partially succeed.
type Report struct {
	Attempted int
	Sent      int
	Failed    int
	Failures  []Failure
}

func (r *Report) record(kind MessageKind, label string, err error) {
	r.Attempted++
	if err != nil {
		r.Failed++
		r.Failures = append(r.Failures, Failure{Kind: kind, Label: label, Err: err})
		return
	}
	r.Sent++
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	DestinationID string
	Composer      Composer
	MessageDelay  time.Duration
	SendTimeout   time.Duration
	Now           func() time.Time
	Logger        *slog.Logger
}

// Dispatcher sends a header, league banners and one message per match, best-effort.
type Dispatcher struct {
	transport   Transport
	destination string
	composer    Composer
	limiter     *rate.Limiter
	sendTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

func NewDispatcher(transport Transport, cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		transport:   transport,
		destination: cfg.DestinationID,
		composer:    cfg.Composer,
		sendTimeout: cfg.SendTimeout,
		now:         cfg.Now,
		logger:      cfg.Logger,
	}
	if d.sendTimeout <= 0 {
		d.sendTimeout = DefaultSendTimeout
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if cfg.MessageDelay > 0 {
		d.limiter = rate.NewLimiter(rate.Every(cfg.MessageDelay), 1)
	} else {
		d.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return d
}

// Dispatch delivers matches in order. A league banner is sent whenever the
// league differs from the previous match's, except for matches without a
// league. Nothing is sent for an empty batch.
func (d *Dispatcher) Dispatch(ctx context.Context, matches []models.AlertedMatch) Report {
	var report Report
	if len(matches) == 0 {
		d.logger.Info("No matches to alert")
		return report
	}

	d.logger.Info("Sending Telegram alerts", "matches", len(matches))
	err := d.send(ctx, d.composer.Header(d.now()))
	if err != nil {
		d.logger.Error("Failed to send header message", "error", err)
	}
	report.record(KindHeader, "header", err)

	currentLeague := ""
	for _, m := range matches {
		if m.League != currentLeague {
			currentLeague = m.League
			if m.League != "" {
				err := d.send(ctx, d.composer.League(m.League))
				if err != nil {
					d.logger.Error("Failed to send league banner", "league", m.League, "error", err)
				}
				report.record(KindLeague, m.League, err)
			}
		}

		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.Error("Failed to send match alert", "match", m.Name(), "error", err)
			report.record(KindMatch, m.Name(), err)
			continue
		}
		if err := d.send(ctx, d.composer.Match(m)); err != nil {
			d.logger.Error("Failed to send match alert", "match", m.Name(), "league", m.League, "error", err)
			report.record(KindMatch, m.Name(), err)
			continue
		}
		d.logger.Info("Match alert sent", "match", m.Name(), "league", m.League)
		report.record(KindMatch, m.Name(), nil)
	}

	d.logger.Info("Telegram dispatch finished", "attempted", report.Attempted, "sent", report.Sent, "failed", report.Failed)
	return report
}

func (d *Dispatcher) send(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	err := d.transport.Send(ctx, Message{
		DestinationID:      d.destination,
		Text:               text,
		ParseMode:          tgbotapi.ModeMarkdownV2,
		DisableLinkPreview: true,
	})
	if err != nil {
		return fmt.Errorf("deliver to %s: %w", d.destination, err)
	}
	return nil
}
