package feed

import (
	"context"
	"fmt"
	"os"
)

// FileSource replays a saved copy of the live page. BaseURL is the address
// the page was saved from, used for relative match links.
type FileSource struct {
	Path    string
	BaseURL string
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Rows(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()
	return ParseTable(f, s.BaseURL)
}
