// Package feed acquires the live-scores table and exposes it as an ordered
// sequence of rows that can be queried field by field.
package feed

import (
	"context"
	"errors"
)

// ErrNoMatchTable is returned when the page has no live matches table at all.
var ErrNoMatchTable = errors.New("feed: matches table not found")

// RowKind tells league header rows apart from match rows.
type RowKind int

const (
	RowOther RowKind = iota
	RowLeague
	RowMatch
)

func (k RowKind) String() string {
	switch k {
	case RowLeague:
		return "league"
	case RowMatch:
		return "match"
	default:
		return "other"
	}
}

// Field names a sub-field of a row.
type Field string

const (
	FieldLeague     Field = "league"
	FieldKickoff    Field = "kickoff"
	FieldHomeTeam   Field = "home_team"
	FieldHomeLink   Field = "home_link"
	FieldAwayTeam   Field = "away_team"
	FieldScore      Field = "score"
	FieldStatus     Field = "status"
	FieldHalfTime   Field = "half_time_score"
	FieldCorners    Field = "corners"
	FieldYellowHome Field = "yellow_home"
	FieldYellowAway Field = "yellow_away"
	FieldRedHome    Field = "red_home"
	FieldRedAway    Field = "red_away"
	FieldOdds       Field = "odds"
)

// Row is one table row. Lookup reports false when the sub-field is absent;
// it never fails. Values is used for repeated sub-fields such as odds.
type Row interface {
	Kind() RowKind
	Lookup(f Field) (string, bool)
	Values(f Field) []string
}

// Source supplies the rows of one feed snapshot in document order.
type Source interface {
	Name() string
	Rows(ctx context.Context) ([]Row, error)
}

// StaticRow is a map-backed Row, used for replays and tests.
type StaticRow struct {
	RowKind RowKind
	Fields  map[Field]string
	Lists   map[Field][]string
}

func (r StaticRow) Kind() RowKind { return r.RowKind }

func (r StaticRow) Lookup(f Field) (string, bool) {
	v, ok := r.Fields[f]
	return v, ok
}

func (r StaticRow) Values(f Field) []string {
	return r.Lists[f]
}

// LeagueRow builds a header row.
func LeagueRow(name string) StaticRow {
	return StaticRow{RowKind: RowLeague, Fields: map[Field]string{FieldLeague: name}}
}
