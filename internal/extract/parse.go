package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingDigits = regexp.MustCompile(`^\d+`)
	cornerToken   = regexp.MustCompile(`^\s*(\d+)\s*-\s*(\d+)\s*$`)
	neutralMarker = regexp.MustCompile(`\s*\(N\)\s*$`)
)

// halfTimeMinute is the minute reported for a match at the interval.
const halfTimeMinute = 45

var halfTimeTokens = map[string]struct{}{
	"ht":        {},
	"half-time": {},
	"pausa":     {},
}

// Int is the result of a parse-or-default: Value holds the parsed number, or
// the default when Parsed is false.
type Int struct {
	Value  int
	Parsed bool
}

// ParseIntOr parses a non-negative integer, falling back to def.
func ParseIntOr(s string, def int) Int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return Int{Value: def}
	}
	return Int{Value: v, Parsed: true}
}

// ParseMinute normalizes the status text of a row. A leading run of digits is
// the minute; the half-time tokens map to 45; anything else is unknown.
func ParseMinute(status string) (int, bool) {
	status = strings.TrimSpace(status)
	if m := leadingDigits.FindString(status); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	if _, ok := halfTimeTokens[strings.ToLower(status)]; ok {
		return halfTimeMinute, true
	}
	return 0, false
}

// ParseCorners splits an "H-A" corner token. Any other shape reports false
// and both counts stay 0.
func ParseCorners(token string) (home, away int, ok bool) {
	m := cornerToken.FindStringSubmatch(token)
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

// NormalizeOdds returns the 1X2 odds with decimal commas replaced by points.
// Fewer than three tokens leave all three empty.
func NormalizeOdds(tokens []string) (home, draw, away string) {
	if len(tokens) < 3 {
		return "", "", ""
	}
	norm := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	return norm(tokens[0]), norm(tokens[1]), norm(tokens[2])
}

// StripNeutralMarker removes the trailing "(N)" the feed adds for neutral venues.
func StripNeutralMarker(team string) string {
	return neutralMarker.ReplaceAllString(strings.TrimSpace(team), "")
}
