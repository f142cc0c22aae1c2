package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ErrClosed is returned when attempting to use a closed [Converter].
var ErrClosed = errors.New("render: converter is closed")

// Converter prints HTML documents to PDF with headless Chrome.
//
// The browser process is started on first use (or by [Converter.Start]) and
// reused across conversions; each conversion runs in its own tab. A Converter
// is safe for concurrent use. Call [Converter.Close] to release the browser.
type Converter struct {
	cfg converterConfig

	mu            sync.Mutex
	closed        bool
	started       bool
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewConverter creates a Converter with the given options. No browser is
// launched until the first conversion or an explicit Start.
func NewConverter(opts ...Option) *Converter {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Converter{cfg: cfg}
}

// Start launches the browser if it is not running yet.
func (c *Converter) Start() error {
	_, err := c.browser()
	return err
}

// Started reports whether the browser is running.
func (c *Converter) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started && !c.closed
}

func (c *Converter) browser() (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if c.started {
		return c.browserCtx, nil
	}

	execPath, err := c.cfg.browserPath()
	if err != nil {
		return nil, err
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", c.cfg.headless),
	)
	if execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(execPath))
	}
	if c.cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("render: starting browser: %w", err)
	}

	c.allocCancel = allocCancel
	c.browserCtx = browserCtx
	c.browserCancel = browserCancel
	c.started = true
	return browserCtx, nil
}

// Close releases the browser process. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.started {
		c.browserCancel()
		c.allocCancel()
	}
	return nil
}

// ConvertHTML prints a complete HTML document to PDF.
// If pg is nil, [DefaultPageConfig] values are used.
func (c *Converter) ConvertHTML(ctx context.Context, html string, pg *PageConfig) (*Result, error) {
	browserCtx, err := c.browser()
	if err != nil {
		return nil, err
	}

	// Navigating to a file keeps large documents out of the DevTools URL.
	f, err := os.CreateTemp("", "bionic-*.html")
	if err != nil {
		return nil, fmt.Errorf("render: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return nil, fmt.Errorf("render: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("render: closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("render: resolving path: %w", err)
	}
	return c.print(ctx, browserCtx, "file://"+abs, pg)
}

func (c *Converter) print(ctx, browserCtx context.Context, targetURL string, pg *PageConfig) (*Result, error) {
	resolved := pg.resolved()

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()

	// The tab lives under the browser context; tie it to the request as well.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	width, height := resolved.paperDimensions()
	marginTop, marginRight, marginBottom, marginLeft := resolved.marginInches()

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(marginTop).
				WithMarginRight(marginRight).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithScale(resolved.Scale).
				WithPrintBackground(resolved.PrintBackground).
				WithLandscape(resolved.Orientation == Landscape).
				WithPreferCSSPageSize(resolved.PreferCSSPageSize).
				Do(ctx)
			return err
		}),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("render: conversion failed: %w", ctxErr)
		}
		return nil, fmt.Errorf("render: conversion failed: %w", err)
	}

	return &Result{data: buf}, nil
}
