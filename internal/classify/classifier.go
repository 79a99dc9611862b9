// Package classify decides which live matches fit the in-play corner rule:
// inside the minute window, a side trailing by exactly one goal that has at
// least as many corners as the leader, or a level score.
package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Vodeneev/cornerwatch/internal/pkg/models"
)

const (
	DefaultMinMinute = 30
	DefaultMaxMinute = 60
)

var scoreShape = regexp.MustCompile(`^(\d+) - (\d+)$`)

// Classifier holds the inclusive minute window.
type Classifier struct {
	MinMinute int
	MaxMinute int
}

// New returns a classifier for [minMinute, maxMinute].
func New(minMinute, maxMinute int) *Classifier {
	return &Classifier{MinMinute: minMinute, MaxMinute: maxMinute}
}

// Classify evaluates one record. It never fails: malformed input yields an
// ineligible outcome with a descriptive reason.
func (c *Classifier) Classify(m models.MatchRecord) models.FilterOutcome {
	if m.Minute == nil {
		return reject("minute not available or match not in progress")
	}
	minute := *m.Minute
	if minute < c.MinMinute || minute > c.MaxMinute {
		return reject(fmt.Sprintf("minute %d outside range %d-%d", minute, c.MinMinute, c.MaxMinute))
	}

	home, away, ok := ParseScore(m.Score)
	if !ok {
		return reject("invalid score")
	}

	hc, ac := m.CornersHome, m.CornersAway
	if hc < 0 || ac < 0 {
		return reject(fmt.Sprintf("invalid corners (%d-%d)", hc, ac))
	}

	switch {
	case away-home == 1:
		if hc >= ac {
			return accept(fmt.Sprintf("home trails by 1 goal (%d-%d) with >= corners (%d-%d)", home, away, hc, ac))
		}
		return reject(fmt.Sprintf("home trails by 1 goal (%d-%d) with fewer corners (%d-%d)", home, away, hc, ac))
	case home-away == 1:
		if ac >= hc {
			return accept(fmt.Sprintf("away trails by 1 goal (%d-%d) with >= corners (%d-%d)", home, away, hc, ac))
		}
		return reject(fmt.Sprintf("away trails by 1 goal (%d-%d) with fewer corners (%d-%d)", home, away, hc, ac))
	case home == away:
		// Always true for integers, so every draw in the window passes. Kept
		// literally; tightening it needs a product decision.
		if hc >= ac || ac >= hc {
			return accept(fmt.Sprintf("draw (%d-%d), corners (%d-%d)", home, away, hc, ac))
		}
		return reject(fmt.Sprintf("draw (%d-%d), corners not valid (%d-%d)", home, away, hc, ac))
	}
	return reject("scoreline not covered")
}

// ParseScore splits an "H - A" score. Placeholders such as "-" and any
// other shape report false.
func ParseScore(score string) (home, away int, ok bool) {
	m := scoreShape.FindStringSubmatch(strings.TrimSpace(score))
	if m == nil {
		return 0, 0, false
	}
	h, errH := strconv.Atoi(m[1])
	a, errA := strconv.Atoi(m[2])
	if errH != nil || errA != nil {
		return 0, 0, false
	}
	return h, a, true
}

func accept(reason string) models.FilterOutcome {
	return models.FilterOutcome{IsMatch: true, Reason: reason}
}

func reject(reason string) models.FilterOutcome {
	return models.FilterOutcome{IsMatch: false, Reason: reason}
}
