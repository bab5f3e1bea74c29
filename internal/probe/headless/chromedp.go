// Package headless implements the browser probe on chromedp.
package headless

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"sitescout/internal/probe"
	"sitescout/internal/scout"
)

// Config controls the behavior of the headless probe.
type Config struct {
	MaxParallel       int
	UserAgent         string
	NavigationTimeout time.Duration
	SignalMaxBytes    int
}

// Probe implements scout.Probe using chromedp and headless Chrome. A single
// browser process is shared via the allocator; each Visit opens its own tab
// and tears it down on every exit path.
type Probe struct {
	cfg         Config
	limiter     chan struct{}
	allocator   context.Context
	allocCancel context.CancelFunc
}

// New creates a headless probe backed by chromedp.
func New(cfg Config) (*Probe, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}
	if cfg.SignalMaxBytes <= 0 {
		cfg.SignalMaxBytes = 4096
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Probe{
		cfg:         cfg,
		limiter:     limiter,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Close cancels the allocator context, shutting down the browser.
func (p *Probe) Close() {
	p.allocCancel()
}

// Visit navigates to the URL in a fresh tab and returns the observed signal.
// The navigation timeout is enforced here, not by the caller.
func (p *Probe) Visit(ctx context.Context, url string) (scout.Observation, error) {
	if err := p.acquire(ctx); err != nil {
		return scout.Observation{}, err
	}
	defer p.release()

	tabCtx, tabCancel := chromedp.NewContext(p.allocator)
	defer tabCancel()

	tabCtx, cancel := context.WithTimeout(tabCtx, p.cfg.NavigationTimeout)
	defer cancel()

	// The tab context descends from the allocator, not the caller; propagate
	// caller cancellation so shutdown tears down in-flight navigations.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			tabCancel()
		case <-done:
		}
	}()

	meta := newNavMeta()
	chromedp.ListenTarget(tabCtx, meta.captureEvent)

	start := time.Now()
	title, bodyText, finalURL, err := p.navigate(tabCtx, url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return scout.Observation{}, fmt.Errorf("navigate %s: %w", url, ctxErr)
		}
		return scout.Observation{}, fmt.Errorf("navigate %s: %w", url, err)
	}

	status, responseURL := meta.snapshotWithFallbacks(url, finalURL)

	return scout.Observation{
		Reachable:  true,
		StatusCode: status,
		FinalURL:   responseURL,
		Signal:     probe.BuildSignal(status, responseURL, title, bodyText, p.cfg.SignalMaxBytes),
		Latency:    time.Since(start),
	}, nil
}

func (p *Probe) navigate(ctx context.Context, url string) (title, bodyText, finalURL string, err error) {
	actions := []chromedp.Action{
		p.networkSetupAction(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.Location(&finalURL),
		chromedp.Title(&title),
		chromedp.Text("body", &bodyText, chromedp.ByQuery),
	}
	if err := chromedp.Run(ctx, actions...); err != nil {
		return "", "", "", fmt.Errorf("chromedp run: %w", err)
	}
	return title, bodyText, finalURL, nil
}

func (p *Probe) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if p.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(p.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}

func (p *Probe) acquire(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	select {
	case p.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("tab slot wait canceled: %w", ctx.Err())
	}
}

func (p *Probe) release() {
	if p.limiter == nil {
		return
	}
	select {
	case <-p.limiter:
	default:
	}
}

// navMeta captures the main document response as CDP network events arrive.
type navMeta struct {
	mu     sync.RWMutex
	status int
	url    string
}

func newNavMeta() *navMeta {
	return &navMeta{}
}

func (m *navMeta) captureEvent(ev any) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok || resp.Type != network.ResourceTypeDocument || resp.Response == nil {
		return
	}
	m.mu.Lock()
	m.status = int(resp.Response.Status)
	m.url = resp.Response.URL
	m.mu.Unlock()
}

func (m *navMeta) snapshotWithFallbacks(requestURL, finalURL string) (int, string) {
	m.mu.RLock()
	status, url := m.status, m.url
	m.mu.RUnlock()

	switch {
	case url != "":
	case finalURL != "":
		url = finalURL
	default:
		url = requestURL
	}
	if status == 0 {
		status = http.StatusOK
	}
	return status, url
}
