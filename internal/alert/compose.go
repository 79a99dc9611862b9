package alert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Vodeneev/cornerwatch/internal/pkg/models"
)

const (
	reportTimeLayout = "2006-01-02 15:04:05"
	notAvailable     = "N/A"
)

var scoreSplit = regexp.MustCompile(`^\s*(\d+) - (\d+)\s*$`)

// Composer renders MarkdownV2 messages. Every interpolated value goes through Escape.
type Composer struct {
	MinMinute int
	MaxMinute int
}

// Header is the first message of a batch: the filter configuration and report time.
func (c Composer) Header(at time.Time) string {
	var b strings.Builder
	b.WriteString("🎯 *CORNERWATCH LIVE MATCH ALERT*\n\n")
	b.WriteString("📋 *Criteria:*\n")
	b.WriteString("• Team trailing by 1 goal or drawing\n")
	b.WriteString("• With equal or more corners than the opponent\n")
	b.WriteString(fmt.Sprintf("• Minute: %s\n\n", Escape(fmt.Sprintf("%d-%d", c.MinMinute, c.MaxMinute))))
	b.WriteString(fmt.Sprintf("⏰ Report: %s", Escape(at.Format(reportTimeLayout))))
	return b.String()
}

// League is the banner sent before the first match of each league group.
func (c Composer) League(league string) string {
	return fmt.Sprintf("🏆 *%s*", Escape(strings.ToUpper(league)))
}

// Match renders one alert.
func (c Composer) Match(m models.AlertedMatch) string {
	home, away := splitScore(m.Score)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚽ *%s vs %s*\n\n", Escape(m.HomeTeam), Escape(m.AwayTeam)))

	b.WriteString("📊 *Match state:*\n")
	b.WriteString(fmt.Sprintf("• Score: %s\n", Escape(home+"-"+away)))
	b.WriteString(fmt.Sprintf("• Minute: %s\n", Escape(minuteText(m.Minute))))
	b.WriteString(fmt.Sprintf("• Corners: %s \\- %s\n\n", Escape(strconv.Itoa(m.CornersHome)), Escape(strconv.Itoa(m.CornersAway))))

	b.WriteString("🎯 *Analysis:*\n")
	b.WriteString(fmt.Sprintf("• %s\n\n", Escape(orNA(m.FilterReason))))

	b.WriteString("📈 *Odds:*\n")
	b.WriteString(fmt.Sprintf("• Home: %s\n", Escape(orNA(m.OddsHome))))
	b.WriteString(fmt.Sprintf("• Draw: %s\n", Escape(orNA(m.OddsDraw))))
	b.WriteString(fmt.Sprintf("• Away: %s\n\n", Escape(orNA(m.OddsAway))))

	b.WriteString(fmt.Sprintf("🟨 *Yellow cards:* H:%s A:%s\n", Escape(strconv.Itoa(m.YellowHome)), Escape(strconv.Itoa(m.YellowAway))))
	b.WriteString(fmt.Sprintf("🟥 *Red cards:* H:%s A:%s", Escape(strconv.Itoa(m.RedHome)), Escape(strconv.Itoa(m.RedAway))))

	if m.Link != "" && m.Link != notAvailable {
		b.WriteString(fmt.Sprintf("\n\n🔗 [View details](%s)", EscapeLinkURL(m.Link)))
	}
	return b.String()
}

// splitScore returns the two goal counts, or "?" for both when the score is not "H - A".
func splitScore(score string) (string, string) {
	parts := scoreSplit.FindStringSubmatch(score)
	if parts == nil {
		return "?", "?"
	}
	return parts[1], parts[2]
}

func minuteText(minute *int) string {
	if minute == nil {
		return notAvailable
	}
	return strconv.Itoa(*minute)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
