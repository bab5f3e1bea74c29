// Package web implements the probe with a plain HTTP client via Colly, for
// environments without a Chrome install. JavaScript-rendered content is
// invisible to this engine; the headless probe is the default.
package web

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"sitescout/internal/probe"
	"sitescout/internal/scout"
)

// Config controls collector behavior.
type Config struct {
	UserAgent      string
	Timeout        time.Duration
	MaxParallel    int
	SignalMaxBytes int
}

// Probe implements scout.Probe using the Colly collector.
type Probe struct {
	cfg           Config
	limiter       chan struct{}
	baseCollector *colly.Collector
}

// New builds a Probe.
func New(cfg Config) *Probe {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.SignalMaxBytes <= 0 {
		cfg.SignalMaxBytes = 4096
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	c := colly.NewCollector(colly.Async(false))
	// Catalog URLs are operator-configured targets, not a crawl frontier.
	c.IgnoreRobotsTxt = true
	// An HTTP error page is still a page; the classifier judges it.
	c.ParseHTTPErrorResponse = true
	c.WithTransport(newHTTPTransport())

	return &Probe{
		cfg:           cfg,
		limiter:       limiter,
		baseCollector: c,
	}
}

// Close implements scout.Probe; the underlying transport needs no teardown.
func (p *Probe) Close() {}

// Visit executes a single HTTP GET and builds an Observation from the
// response document.
func (p *Probe) Visit(ctx context.Context, url string) (scout.Observation, error) {
	if err := p.acquire(ctx); err != nil {
		return scout.Observation{}, err
	}
	defer p.release()

	collector := p.baseCollector.Clone()
	collector.IgnoreRobotsTxt = true
	collector.ParseHTTPErrorResponse = true
	if p.cfg.UserAgent != "" {
		collector.UserAgent = p.cfg.UserAgent
	}
	collector.SetRequestTimeout(p.cfg.Timeout)

	var (
		obs      scout.Observation
		fetchErr error
	)
	start := time.Now()

	collector.OnResponse(func(r *colly.Response) {
		obs = p.buildObservation(r, start)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return scout.Observation{}, fmt.Errorf("visit %s canceled: %w", url, ctx.Err())
	case err := <-done:
		if err != nil {
			return scout.Observation{}, fmt.Errorf("visit %s: %w", url, err)
		}
		if fetchErr != nil {
			return scout.Observation{}, fmt.Errorf("visit %s: %w", url, fetchErr)
		}
		return obs, nil
	}
}

func (p *Probe) buildObservation(r *colly.Response, start time.Time) scout.Observation {
	title, body := extractText(r.Body)
	finalURL := r.Request.URL.String()
	return scout.Observation{
		Reachable:  true,
		StatusCode: r.StatusCode,
		FinalURL:   finalURL,
		Signal:     probe.BuildSignal(r.StatusCode, finalURL, title, body, p.cfg.SignalMaxBytes),
		Latency:    time.Since(start),
	}
}

// extractText pulls the title and visible body text out of an HTML payload.
// Unparsable payloads fall back to the raw bytes.
func extractText(payload []byte) (title, body string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return "", string(payload)
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Find("title").First().Text(), doc.Find("body").Text()
}

func (p *Probe) acquire(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	select {
	case p.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("probe slot wait canceled: %w", ctx.Err())
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

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
