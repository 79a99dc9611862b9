package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// HTTPSource fetches the page with a plain GET. It only sees server-rendered
// markup, so it suits mirrors and static snapshots of the live table.
type HTTPSource struct {
	URL        string
	UserAgent  string
	httpClient *http.Client
}

// NewHTTPSource creates a source whose requests fail after timeout.
func NewHTTPSource(url, userAgent string, timeout time.Duration) *HTTPSource {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPSource{
		URL:        url,
		UserAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Rows(ctx context.Context) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Encoding", "gzip, br, zstd")
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.URL)
	}

	body, err := readBodyDecode(resp)
	if err != nil {
		return nil, err
	}
	// links are relative to the final URL after redirects
	return ParseTable(bytes.NewReader(body), resp.Request.URL.String())
}

// readBodyDecode reads the response body and decompresses it based on Content-Encoding.
func readBodyDecode(resp *http.Response) ([]byte, error) {
	enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch {
	case strings.Contains(enc, "br"):
		return io.ReadAll(brotli.NewReader(resp.Body))
	case strings.Contains(enc, "zstd"):
		r, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case strings.Contains(enc, "gzip"):
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer r.Close()
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read gzip body: %w", err)
		}
		return b, nil
	default:
		return io.ReadAll(resp.Body)
	}
}
