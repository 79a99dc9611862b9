package dedup

import "time"

// Stats summarizes the history relative to a point in time.
type Stats struct {
	Total     int
	Last24h   int
	OldestAge time.Duration
	NewestAge time.Duration
	// PerHour[i] counts entries sent between i+1 and i hours ago.
	PerHour [24]int
}

// ComputeStats returns the zero Stats for an empty history.
func ComputeStats(h History, now time.Time) Stats {
	var st Stats
	if len(h) == 0 {
		return st
	}

	nowTS := Unix(now)
	dayAgo := nowTS - 24*3600
	oldest, newest := nowTS, 0.0
	first := true
	for _, ts := range h {
		st.Total++
		if first || ts < oldest {
			oldest = ts
		}
		if first || ts > newest {
			newest = ts
		}
		first = false

		if ts > dayAgo {
			st.Last24h++
		}
		for i := 0; i < 24; i++ {
			start := nowTS - float64(i+1)*3600
			end := nowTS - float64(i)*3600
			if start < ts && ts <= end {
				st.PerHour[i]++
				break
			}
		}
	}
	st.OldestAge = secondsToDuration(nowTS - oldest)
	st.NewestAge = secondsToDuration(nowTS - newest)
	return st
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
