package alert

import (
	"fmt"
	"io"
	"strings"

	"github.com/Vodeneev/cornerwatch/internal/pkg/models"
)

// WriteSummary prints the eligible matches grouped by league for console runs.
func WriteSummary(w io.Writer, matches []models.AlertedMatch, minMinute, maxMinute int) error {
	wide := strings.Repeat("=", 100)
	narrow := strings.Repeat("=", 80)
	rule := strings.Repeat("-", 80)

	var b strings.Builder
	b.WriteString("\n" + wide + "\n")
	if len(matches) == 0 {
		fmt.Fprintf(&b, "No matches found trailing by one or drawing with equal or more corners (min. %d-%d).\n", minMinute, maxMinute)
		b.WriteString(wide + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("⚽ LIVE MATCH ALERT\n")
	b.WriteString("   Criteria: team drawing or trailing by one with >= corners\n")
	fmt.Fprintf(&b, "   Minute range: %d-%d\n", minMinute, maxMinute)
	b.WriteString(wide + "\n")

	currentLeague := ""
	for i, m := range matches {
		if i == 0 || m.League != currentLeague {
			currentLeague = m.League
			fmt.Fprintf(&b, "\n🏆 LEAGUE: %s\n%s\n", currentLeague, narrow)
		}
		home, away := splitScore(m.Score)

		fmt.Fprintf(&b, "\n📍 MATCH %d:\n", i+1)
		fmt.Fprintf(&b, "   🏠 Home:          %s\n", orNA(m.HomeTeam))
		fmt.Fprintf(&b, "   ✈️  Away:          %s\n", orNA(m.AwayTeam))
		fmt.Fprintf(&b, "   ⚽ Score:         %s - %s\n", home, away)
		fmt.Fprintf(&b, "   📊 Minute:        %s\n", minuteText(m.Minute))
		fmt.Fprintf(&b, "   📐 Corners (H-A): %d - %d\n", m.CornersHome, m.CornersAway)
		fmt.Fprintf(&b, "   ✅ Reason:        %s\n", orNA(m.FilterReason))
		fmt.Fprintf(&b, "   🟨 Yellow cards:  H:%d A:%d\n", m.YellowHome, m.YellowAway)
		fmt.Fprintf(&b, "   🟥 Red cards:     H:%d A:%d\n", m.RedHome, m.RedAway)
		fmt.Fprintf(&b, "   💰 Odds (1X2):    H:%s X:%s A:%s\n", orNA(m.OddsHome), orNA(m.OddsDraw), orNA(m.OddsAway))
		fmt.Fprintf(&b, "   🔗 Link:          %s\n", orNA(m.Link))
		b.WriteString(rule + "\n")
	}

	fmt.Fprintf(&b, "\n📊 Total matches meeting the criteria (min. %d-%d): %d\n", minMinute, maxMinute, len(matches))
	b.WriteString(wide + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}
