package feed

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
)

func loadFixture(t *testing.T) []Row {
	t.Helper()
	f, err := os.Open("testdata/live.html")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()
	rows, err := ParseTable(f, "")
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	return rows
}

func TestParseTable_RowKindsInDocumentOrder(t *testing.T) {
	rows := loadFixture(t)

	want := []RowKind{RowLeague, RowMatch, RowOther, RowMatch, RowLeague, RowMatch}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, r := range rows {
		if r.Kind() != want[i] {
			t.Errorf("row %d kind = %v, want %v", i, r.Kind(), want[i])
		}
	}
}

func TestParseTable_MatchRowFields(t *testing.T) {
	rows := loadFixture(t)
	row := rows[1]

	tests := []struct {
		field Field
		want  string
	}{
		{FieldKickoff, "2026-10-14 19:00"},
		{FieldStatus, "41"},
		{FieldHomeTeam, "Arsenal (N)"},
		{FieldHomeLink, "https://live.example.com/match/100"},
		{FieldAwayTeam, "Chelsea"},
		{FieldScore, "1 - 2"},
		{FieldHalfTime, "0-1"},
		{FieldCorners, "4-3"},
		{FieldYellowHome, "2"},
		{FieldYellowAway, "1"},
		{FieldRedAway, "1"},
	}
	for _, tt := range tests {
		got, ok := row.Lookup(tt.field)
		if !ok {
			t.Errorf("Lookup(%s) reported absent", tt.field)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%s) = %q, want %q", tt.field, got, tt.want)
		}
	}

	if got, want := row.Values(FieldOdds), []string{"3,10", "3,40", "2,25"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Values(odds) = %v, want %v", got, want)
	}
}

func TestParseTable_AbsentFields(t *testing.T) {
	rows := loadFixture(t)
	row := rows[3]

	for _, f := range []Field{FieldKickoff, FieldHomeLink, FieldHalfTime, FieldRedHome, FieldYellowHome} {
		if v, ok := row.Lookup(f); ok {
			t.Errorf("Lookup(%s) = %q, want absent", f, v)
		}
	}
	if got := row.Values(FieldOdds); len(got) != 0 {
		t.Errorf("Values(odds) = %v, want empty", got)
	}
	if _, ok := row.Lookup(Field("unknown")); ok {
		t.Errorf("unknown field reported present")
	}
}

func TestParseTable_LeagueName(t *testing.T) {
	rows := loadFixture(t)
	if got, _ := rows[4].Lookup(FieldLeague); got != "ESP D1" {
		t.Errorf("league = %q, want %q", got, "ESP D1")
	}
}

func TestParseTable_NoTable(t *testing.T) {
	_, err := ParseTable(strings.NewReader("<html><body><p>maintenance</p></body></html>"), "")
	if !errors.Is(err, ErrNoMatchTable) {
		t.Errorf("err = %v, want ErrNoMatchTable", err)
	}
}

func TestParseTable_TableFragment(t *testing.T) {
	markup := `<table id="mintable"><tr class="tds"><td class="status">12</td></tr></table>`
	rows, err := ParseTable(strings.NewReader(markup), "")
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if len(rows) != 1 || rows[0].Kind() != RowMatch {
		t.Fatalf("rows = %v, want one match row", rows)
	}
	if got, _ := rows[0].Lookup(FieldStatus); got != "12" {
		t.Errorf("status = %q, want 12", got)
	}
}

func TestParseTable_HomeLinkResolution(t *testing.T) {
	tests := []struct {
		name string
		href string
		base string
		want string
	}{
		{"root relative", "/match/live-1", "https://www.nowgoal.com/", "https://www.nowgoal.com/match/live-1"},
		{"path relative", "match/live-1", "https://www.nowgoal.com/live/index.htm", "https://www.nowgoal.com/live/match/live-1"},
		{"protocol relative", "//live.nowgoal.com/match/7", "https://www.nowgoal.com/", "https://live.nowgoal.com/match/7"},
		{"already absolute", "https://live.example.com/match/100", "https://www.nowgoal.com/", "https://live.example.com/match/100"},
		{"no base", "/match/live-1", "", "/match/live-1"},
		{"relative base ignored", "/match/live-1", "pages/live.html", "/match/live-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markup := `<table id="mintable"><tr class="tds"><td id="ht_1"><a id="team1_1" href="` + tt.href + `">Arsenal</a></td></tr></table>`
			rows, err := ParseTable(strings.NewReader(markup), tt.base)
			if err != nil {
				t.Fatalf("ParseTable: %v", err)
			}
			got, ok := rows[0].Lookup(FieldHomeLink)
			if !ok || got != tt.want {
				t.Errorf("link = %q (%v), want %q", got, ok, tt.want)
			}
		})
	}
}
