package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// liveFilterSelectors are tried in order until one of them can be clicked.
// Entries starting with "/" are XPath expressions, the rest CSS selectors.
var liveFilterSelectors = []string{
	"#li_FilterLive",
	`li[onclick*="FilterByOption(2)"]`,
	"//span[text()='Live']/parent::li",
	"//li[contains(@class, 'on') and .//span[text()='Live']]",
}

const clickScript = `(function(sel) {
	var el = null;
	if (sel.charAt(0) === '/') {
		el = document.evaluate(sel, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	} else {
		el = document.querySelector(sel);
	}
	if (!el) { return false; }
	el.scrollIntoView(true);
	el.click();
	return true;
})(%q)`

// BrowserSource drives headless Chrome: it opens the page, switches the
// table to live matches and reads the rendered #mintable markup.
type BrowserSource struct {
	BaseURL   string
	Headless  bool
	UserAgent string
	// Timeout bounds the whole browser session.
	Timeout time.Duration
	// TableTimeout bounds the wait for the live filter button and, separately,
	// the wait for the table after the click.
	TableTimeout time.Duration
	SettleDelay  time.Duration
	ClickDelay   time.Duration
	Logger       *slog.Logger
}

func (s *BrowserSource) Name() string { return "browser" }

func (s *BrowserSource) Rows(ctx context.Context) ([]Row, error) {
	markup, pageURL, err := s.fetchTable(ctx)
	if err != nil {
		return nil, err
	}
	if pageURL == "" {
		pageURL = s.BaseURL
	}
	return ParseTable(strings.NewReader(markup), pageURL)
}

func (s *BrowserSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *BrowserSource) fetchTable(parent context.Context) (string, string, error) {
	chromeDir, err := os.MkdirTemp("", "cornerwatch_chrome_")
	if err != nil {
		return "", "", fmt.Errorf("create chrome temp dir: %w", err)
	}
	defer os.RemoveAll(chromeDir)

	timeout, tableTimeout := s.Timeout, s.TableTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	if tableTimeout <= 0 {
		tableTimeout = 15 * time.Second
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	userAgent := s.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserDataDir(chromeDir),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		s.logger().Debug("chromedp", "message", fmt.Sprintf(format, v...))
	}))
	defer cancel()

	s.logger().Info("Opening live page", "url", s.BaseURL, "headless", s.Headless)
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(s.BaseURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`, nil),
		chromedp.Sleep(s.SettleDelay),
	)
	if err != nil {
		return "", "", fmt.Errorf("chromedp navigation: %w", err)
	}

	if err := s.clickLiveFilter(browserCtx, tableTimeout); err != nil {
		return "", "", err
	}

	tableCtx, cancelTable := context.WithTimeout(browserCtx, tableTimeout)
	defer cancelTable()
	var markup, pageURL string
	err = chromedp.Run(tableCtx,
		chromedp.WaitReady(tableSelector, chromedp.ByQuery),
		chromedp.OuterHTML(tableSelector, &markup, chromedp.ByQuery),
		chromedp.Location(&pageURL),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil && ctx.Err() == nil {
			return "", "", ErrNoMatchTable
		}
		return "", "", fmt.Errorf("chromedp read table: %w", err)
	}
	return markup, pageURL, nil
}

func (s *BrowserSource) clickLiveFilter(ctx context.Context, wait time.Duration) error {
	try := func(ctx context.Context, sel string) (bool, error) {
		var clicked bool
		if err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(clickScript, sel), &clicked)); err != nil {
			return false, fmt.Errorf("chromedp click live filter: %w", err)
		}
		return clicked, nil
	}

	sel, err := pollClick(ctx, liveFilterSelectors, wait, clickPollInterval, try)
	if err != nil {
		return err
	}
	s.logger().Info("Live filter clicked", "selector", sel)
	return chromedp.Run(ctx, chromedp.Sleep(s.ClickDelay))
}

const clickPollInterval = 500 * time.Millisecond

// errLiveFilterNotFound is returned when no selector matched before the wait ran out.
var errLiveFilterNotFound = errors.New("feed: live filter button not found")

// pollClick tries every selector in order, round after round, until one
// reports a click or wait elapses. The button often renders after the page
// reports ready.
func pollClick(ctx context.Context, selectors []string, wait, interval time.Duration, try func(context.Context, string) (bool, error)) (string, error) {
	deadline := time.Now().Add(wait)
	for {
		for _, sel := range selectors {
			clicked, err := try(ctx, sel)
			if err != nil {
				return "", err
			}
			if clicked {
				return sel, nil
			}
		}
		if !time.Now().Add(interval).Before(deadline) {
			return "", errLiveFilterNotFound
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for live filter: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}
