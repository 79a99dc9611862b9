package models

// MatchRecord is one observed snapshot of a live match row.
// Numeric fields default to 0 when the source text is missing or malformed.
type MatchRecord struct {
	League        string `json:"league"`
	KickoffTime   string `json:"time"`
	HomeTeam      string `json:"home_team"`
	AwayTeam      string `json:"away_team"`
	Score         string `json:"score"`
	StatusText    string `json:"status"`
	Minute        *int   `json:"minute_actual,omitempty"`
	HalfTimeScore string `json:"half_time_score"`

	CornersRaw  string `json:"corners"`
	CornersHome int    `json:"corners_home"`
	CornersAway int    `json:"corners_away"`

	YellowHome int `json:"yellow_home"`
	YellowAway int `json:"yellow_away"`
	RedHome    int `json:"red_home"`
	RedAway    int `json:"red_away"`

	OddsHome string `json:"odds_full_time_home_win"`
	OddsDraw string `json:"odds_full_time_draw"`
	OddsAway string `json:"odds_full_time_away_win"`

	Link string `json:"link"`
}

// HasIdentity reports whether the row carried enough to be a real match
// rather than a stray header or advert row.
func (m MatchRecord) HasIdentity() bool {
	return m.HomeTeam != "" || m.AwayTeam != "" || m.Score != ""
}

// Name returns "Home vs Away".
func (m MatchRecord) Name() string {
	return m.HomeTeam + " vs " + m.AwayTeam
}

// FilterOutcome is the classifier verdict. Reason is reused verbatim in alerts.
type FilterOutcome struct {
	IsMatch bool
	Reason  string
}

// AlertedMatch is a record that passed the classifier, with its reason attached.
type AlertedMatch struct {
	MatchRecord
	FilterReason string `json:"filter_reason"`
}

// IntPtr is a small helper for optional integer fields.
func IntPtr(v int) *int {
	return &v
}
