// Package dedup keeps the persisted "already alerted" history and filters
// eligible matches down to the ones not alerted within the re-arm window.
package dedup

import (
	"context"
	"sort"
	"time"
)

const (
	DefaultRearmWindow          = time.Hour
	DefaultRetention            = 6 * time.Hour
	DefaultMaintenanceRetention = 24 * time.Hour
)

// History maps a match key to the unix time (seconds) of its last alert.
type History map[string]float64

// Unix converts t to the persisted timestamp format.
func Unix(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

// Time converts a persisted timestamp back to time.Time.
func Time(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// Prune drops entries not newer than now-horizon and returns how many were removed.
func (h History) Prune(now time.Time, horizon time.Duration) int {
	cutoff := Unix(now.Add(-horizon))
	removed := 0
	for key, ts := range h {
		if ts <= cutoff {
			delete(h, key)
			removed++
		}
	}
	return removed
}

// Entry is one history record, used for listing.
type Entry struct {
	Key        string
	LastSentAt time.Time
}

// Entries returns the records newest first.
func (h History) Entries() []Entry {
	out := make([]Entry, 0, len(h))
	for key, ts := range h {
		out = append(out, Entry{Key: key, LastSentAt: Time(ts)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastSentAt.Equal(out[j].LastSentAt) {
			return out[i].Key < out[j].Key
		}
		return out[i].LastSentAt.After(out[j].LastSentAt)
	})
	return out
}

// Store is the persisted backing of the history. Load and Save always move
// the whole map; there is no locking, so only one run may use a store at a time.
type Store interface {
	Name() string
	Load(ctx context.Context) (History, error)
	Save(ctx context.Context, h History) error
	Reset(ctx context.Context) error
	Close() error
}
