package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Vodeneev/cornerwatch/internal/pkg/models"
)

func TestFileSinkWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DefaultFileName)
	sink := NewFileSink(path)

	matches := []models.AlertedMatch{{
		MatchRecord: models.MatchRecord{
			League:   "ENG PR",
			HomeTeam: "Brighton & Hove",
			AwayTeam: "Chelsea",
			Score:    "1 - 2",
			Minute:   models.IntPtr(41),
		},
		FilterReason: "home trails by 1 goal (1-2) with >= corners (4-3)",
	}}
	doc := NewDocument(time.Date(2026, 10, 14, 19, 41, 0, 0, time.Local), 30, 60, matches)

	if err := sink.Write(context.Background(), doc); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Brighton & Hove") {
		t.Errorf("snapshot should not HTML-escape text:\n%s", data)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	checks := map[string]any{
		"timestamp":                          "2026-10-14 19:41:00",
		"filter_minute_range":                "30-60",
		"total_matches_filtered_by_criteria": float64(1),
	}
	for k, want := range checks {
		if got[k] != want {
			t.Errorf("%s = %v, want %v", k, got[k], want)
		}
	}

	first := got["matches"].([]any)[0].(map[string]any)
	if first["filter_reason"] != matches[0].FilterReason {
		t.Errorf("filter_reason = %v", first["filter_reason"])
	}
	if first["minute_actual"] != float64(41) {
		t.Errorf("minute_actual = %v", first["minute_actual"])
	}
	if first["home_team"] != "Brighton & Hove" {
		t.Errorf("home_team = %v", first["home_team"])
	}
}

func TestNewDocumentEmpty(t *testing.T) {
	doc := NewDocument(time.Now(), 30, 60, nil)
	if doc.Matches == nil || doc.TotalMatches != 0 {
		t.Errorf("NewDocument(nil) = %+v", doc)
	}
}
