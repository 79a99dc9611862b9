// Package snapshot persists the eligible matches of a run as a JSON document.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Vodeneev/cornerwatch/internal/pkg/models"
)

const (
	DefaultFileName = "nowgoal_matches_losing_or_drawing_more_corners_filtered.json"
	timestampLayout = "2006-01-02 15:04:05"
)

// Document is the snapshot layout.
type Document struct {
	Timestamp         string                `json:"timestamp"`
	FilterMinuteRange string                `json:"filter_minute_range"`
	TotalMatches      int                   `json:"total_matches_filtered_by_criteria"`
	Matches           []models.AlertedMatch `json:"matches"`
}

// NewDocument builds the document for one run.
func NewDocument(at time.Time, minMinute, maxMinute int, matches []models.AlertedMatch) Document {
	if matches == nil {
		matches = []models.AlertedMatch{}
	}
	return Document{
		Timestamp:         at.Format(timestampLayout),
		FilterMinuteRange: fmt.Sprintf("%d-%d", minMinute, maxMinute),
		TotalMatches:      len(matches),
		Matches:           matches,
	}
}

// Sink accepts a snapshot document.
type Sink interface {
	Write(ctx context.Context, doc Document) error
}

// FileSink overwrites a local JSON file on every write.
type FileSink struct {
	Path string
}

func NewFileSink(path string) *FileSink {
	if path == "" {
		path = DefaultFileName
	}
	return &FileSink{Path: path}
}

func (s *FileSink) Write(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot dir: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
