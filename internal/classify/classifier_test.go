package classify

import (
	"strings"
	"testing"

	"github.com/Vodeneev/cornerwatch/internal/pkg/models"
)

func record(score string, minute *int, hc, ac int) models.MatchRecord {
	return models.MatchRecord{
		HomeTeam:    "Home",
		AwayTeam:    "Away",
		Score:       score,
		Minute:      minute,
		CornersHome: hc,
		CornersAway: ac,
	}
}

func TestClassify_ExampleTable(t *testing.T) {
	c := New(30, 60)
	tests := []struct {
		name       string
		score      string
		minute     int
		hc, ac     int
		want       bool
		wantReason string
	}{
		{"home trails, corners tie", "1 - 2", 40, 3, 3, true, "home trails by 1 goal (1-2) with >= corners (3-3)"},
		{"away trails, more corners", "2 - 1", 40, 2, 5, true, "away trails by 1 goal (2-1) with >= corners (2-5)"},
		{"draw always eligible", "1 - 1", 50, 0, 0, true, "draw (1-1), corners (0-0)"},
		{"three goal gap", "0 - 3", 40, 9, 1, false, "scoreline not covered"},
		{"minute out of range", "1 - 2", 70, 3, 3, false, "minute 70 outside range 30-60"},
		{"home trails, fewer corners", "0 - 1", 35, 1, 4, false, "home trails by 1 goal (0-1) with fewer corners (1-4)"},
		{"away trails, fewer corners", "3 - 2", 35, 6, 2, false, "away trails by 1 goal (3-2) with fewer corners (6-2)"},
		{"two goal lead", "2 - 0", 45, 0, 8, false, "scoreline not covered"},
		{"lopsided draw", "2 - 2", 59, 11, 0, true, "draw (2-2), corners (11-0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(record(tt.score, models.IntPtr(tt.minute), tt.hc, tt.ac))
			if got.IsMatch != tt.want {
				t.Errorf("IsMatch = %v, want %v (reason %q)", got.IsMatch, tt.want, got.Reason)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestClassify_WindowIsInclusive(t *testing.T) {
	c := New(30, 60)
	for _, minute := range []int{30, 45, 60} {
		if got := c.Classify(record("0 - 0", models.IntPtr(minute), 0, 0)); !got.IsMatch {
			t.Errorf("minute %d: IsMatch = false, want true", minute)
		}
	}
}

func TestClassify_OutsideWindowAlwaysIneligible(t *testing.T) {
	c := New(30, 60)
	scores := []string{"0 - 0", "1 - 2", "2 - 1", "0 - 3"}
	corners := [][2]int{{0, 0}, {5, 0}, {0, 5}, {3, 3}}
	for _, minute := range []int{0, 1, 29, 61, 89, 90, 120} {
		for _, score := range scores {
			for _, cc := range corners {
				got := c.Classify(record(score, models.IntPtr(minute), cc[0], cc[1]))
				if got.IsMatch {
					t.Errorf("minute %d score %q corners %v: eligible, want ineligible", minute, score, cc)
				}
				if !strings.Contains(got.Reason, "outside range") {
					t.Errorf("minute %d: reason %q does not state the range", minute, got.Reason)
				}
			}
		}
	}
}

func TestClassify_DrawBranchIsUnconditional(t *testing.T) {
	c := New(30, 60)
	for hc := 0; hc <= 12; hc++ {
		for ac := 0; ac <= 12; ac++ {
			if got := c.Classify(record("1 - 1", models.IntPtr(45), hc, ac)); !got.IsMatch {
				t.Fatalf("draw with corners %d-%d ineligible: %q", hc, ac, got.Reason)
			}
		}
	}
}

func TestClassify_InvalidInputs(t *testing.T) {
	c := New(30, 60)
	tests := []struct {
		name       string
		rec        models.MatchRecord
		wantReason string
	}{
		{"no minute", record("1 - 1", nil, 0, 0), "minute not available or match not in progress"},
		{"placeholder score", record("-", models.IntPtr(40), 0, 0), "invalid score"},
		{"empty score", record("", models.IntPtr(40), 0, 0), "invalid score"},
		{"no spaces", record("1-1", models.IntPtr(40), 0, 0), "invalid score"},
		{"text score", record("a - b", models.IntPtr(40), 0, 0), "invalid score"},
		{"three parts", record("1 - 1 - 1", models.IntPtr(40), 0, 0), "invalid score"},
		{"negative corners", record("1 - 1", models.IntPtr(40), -1, 0), "invalid corners (-1-0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.rec)
			if got.IsMatch {
				t.Errorf("IsMatch = true, want false")
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestClassify_CustomWindow(t *testing.T) {
	c := New(10, 20)
	if got := c.Classify(record("0 - 0", models.IntPtr(15), 0, 0)); !got.IsMatch {
		t.Errorf("minute 15 in [10,20] should be eligible: %q", got.Reason)
	}
	if got := c.Classify(record("0 - 0", models.IntPtr(40), 0, 0)); got.IsMatch || got.Reason != "minute 40 outside range 10-20" {
		t.Errorf("got %+v", got)
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		in         string
		home, away int
		ok         bool
	}{
		{"1 - 2", 1, 2, true},
		{" 10 - 0 ", 10, 0, true},
		{"-", 0, 0, false},
		{"1 -2", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		h, a, ok := ParseScore(tt.in)
		if h != tt.home || a != tt.away || ok != tt.ok {
			t.Errorf("ParseScore(%q) = (%d, %d, %v), want (%d, %d, %v)", tt.in, h, a, ok, tt.home, tt.away, tt.ok)
		}
	}
}
