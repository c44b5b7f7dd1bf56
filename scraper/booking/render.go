package booking

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"travel-planner/utils"

	"github.com/chromedp/chromedp"
)

const defaultRenderWait = 3 * time.Second

// BrowserTransport is an http.RoundTripper that loads pages in headless Chrome
// and answers with the rendered document, for listing pages built by
// JavaScript. One browser is shared; every request opens its own tab.
type BrowserTransport struct {
	browserCtx context.Context
	cancel     context.CancelFunc
	wait       time.Duration
	logger     *utils.Logger
}

// NewBrowserTransport starts a headless browser. Close releases it.
func NewBrowserTransport(ctx context.Context, userAgent string, wait time.Duration, logger *utils.Logger) (*BrowserTransport, error) {
	if wait <= 0 {
		wait = defaultRenderWait
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.WindowSize(1280, 900),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// the browser starts on first Run; tabs can only be opened after that
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("browser start failed: %w", err)
	}
	logger.Info("Headless browser started, render wait %s", wait)

	return &BrowserTransport{browserCtx: browserCtx, cancel: cancel, wait: wait, logger: logger}, nil
}

// RoundTrip renders req.URL in a new tab. Only GET is supported.
func (t *BrowserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return nil, fmt.Errorf("browser transport: method %s not supported", req.Method)
	}
	if t.browserCtx == nil {
		return nil, fmt.Errorf("browser transport: not started")
	}

	tabCtx, cancelTab := chromedp.NewContext(t.browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(req.Context(), cancelTab)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(req.URL.String()),
		chromedp.Sleep(t.wait), // give JS time to render
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", req.URL, err)
	}
	t.logger.Debug("Rendered %s (%d bytes)", req.URL, len(html))

	header := http.Header{}
	header.Set("Content-Type", "text/html; charset=utf-8")
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(html)),
		ContentLength: int64(len(html)),
		Request:       req,
	}, nil
}

// Close shuts the browser down
func (t *BrowserTransport) Close() {
	if t.cancel != nil {
		t.cancel()
	}
}
