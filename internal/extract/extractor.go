// Package extract turns feed rows into typed match records.
//
// Extraction is a fold over the rows in document order: league header rows
// update the carried league label, match rows produce records tagged with it.
// No single field can make a row fail; a row is only dropped when it has
// neither team names nor a score.
package extract

import (
	"log/slog"
	"strings"

	"github.com/Vodeneev/cornerwatch/internal/feed"
	"github.com/Vodeneev/cornerwatch/internal/pkg/models"
)

// DefaultLeague labels match rows seen before any league header.
const DefaultLeague = "Unknown league"

// State is the accumulator carried across rows.
type State struct {
	League string
}

// InitialState returns the state before the first row.
func InitialState() State {
	return State{League: DefaultLeague}
}

// Step consumes one row. It returns the next state and, for match rows with
// an identity, the extracted record.
func Step(state State, row feed.Row) (State, *models.MatchRecord) {
	switch row.Kind() {
	case feed.RowLeague:
		if name, ok := row.Lookup(feed.FieldLeague); ok {
			state.League = strings.TrimSpace(name)
		}
		return state, nil
	case feed.RowMatch:
		rec := Record(row, state.League)
		if !rec.HasIdentity() {
			return state, nil
		}
		return state, &rec
	default:
		return state, nil
	}
}

// Record extracts every sub-field of a match row independently.
func Record(row feed.Row, league string) models.MatchRecord {
	rec := models.MatchRecord{League: league}

	text := func(f feed.Field) string {
		v, _ := row.Lookup(f)
		return strings.TrimSpace(v)
	}

	rec.KickoffTime = text(feed.FieldKickoff)
	rec.HomeTeam = StripNeutralMarker(text(feed.FieldHomeTeam))
	rec.Link = text(feed.FieldHomeLink)
	rec.AwayTeam = text(feed.FieldAwayTeam)
	rec.Score = text(feed.FieldScore)

	rec.StatusText = text(feed.FieldStatus)
	if minute, ok := ParseMinute(rec.StatusText); ok {
		rec.Minute = models.IntPtr(minute)
	}

	rec.HalfTimeScore = text(feed.FieldHalfTime)

	rec.CornersRaw = text(feed.FieldCorners)
	if home, away, ok := ParseCorners(rec.CornersRaw); ok {
		rec.CornersHome, rec.CornersAway = home, away
	}

	rec.YellowHome = ParseIntOr(text(feed.FieldYellowHome), 0).Value
	rec.YellowAway = ParseIntOr(text(feed.FieldYellowAway), 0).Value
	rec.RedHome = ParseIntOr(text(feed.FieldRedHome), 0).Value
	rec.RedAway = ParseIntOr(text(feed.FieldRedAway), 0).Value

	rec.OddsHome, rec.OddsDraw, rec.OddsAway = NormalizeOdds(row.Values(feed.FieldOdds))

	return rec
}

// Extractor runs the fold over a whole snapshot.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an extractor; a nil logger uses slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractAll processes rows in order and returns the match records found.
func (e *Extractor) ExtractAll(rows []feed.Row) []models.MatchRecord {
	state := InitialState()
	var (
		out     []models.MatchRecord
		skipped int
	)
	for _, row := range rows {
		var rec *models.MatchRecord
		state, rec = Step(state, row)
		if rec != nil {
			out = append(out, *rec)
			continue
		}
		if row.Kind() == feed.RowMatch {
			skipped++
		}
	}
	e.logger.Info("Rows extracted", "rows", len(rows), "matches", len(out), "skipped_match_rows", skipped)
	return out
}
