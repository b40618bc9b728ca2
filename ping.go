package sitemaps

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Pinger notifies search engines that the sitemap changed. Failures are
// logged and never returned to the caller.
type Pinger struct {
	enabled   bool
	endpoints []string
	sitemap   string
	timeout   time.Duration
	client    *http.Client
	limiter   *rate.Limiter
	log       *logrus.Entry
}

// NewPinger creates a Pinger announcing sitemapURL to the configured
// endpoints. Pings closer together than cfg.MinInterval are dropped.
func NewPinger(cfg PingConfig, sitemapURL string, log *logrus.Entry) *Pinger {
	interval := cfg.MinInterval
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Pinger{
		enabled:   cfg.Enabled && len(cfg.Endpoints) > 0,
		endpoints: cfg.Endpoints,
		sitemap:   sitemapURL,
		timeout:   timeout,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		log:       log,
	}
}

// Enabled reports whether pings are sent at all.
func (p *Pinger) Enabled() bool {
	return p != nil && p.enabled
}

// Ping sends one notification to every endpoint and reports whether all
// of them answered with a 2xx status. It returns false without contacting
// anyone when pinging is disabled or throttled.
func (p *Pinger) Ping(ctx context.Context) bool {
	if !p.Enabled() {
		return false
	}
	if !p.limiter.Allow() {
		p.log.Debug("ping throttled")
		return false
	}
	ok := true
	for _, endpoint := range p.endpoints {
		if err := p.send(ctx, endpoint); err != nil {
			p.log.WithError(err).WithField("endpoint", endpoint).Warn("ping failed")
			ok = false
			continue
		}
		p.log.WithField("endpoint", endpoint).Info("ping sent")
	}
	return ok
}

// Notify pings in the background.
func (p *Pinger) Notify() {
	if !p.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout*time.Duration(len(p.endpoints)))
		defer cancel()
		p.Ping(ctx)
	}()
}

func (p *Pinger) send(ctx context.Context, endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("sitemaps: ping endpoint: %w", err)
	}
	q := u.Query()
	q.Set("sitemap", p.sitemap)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sitemaps: ping %s: status %d", u.Host, resp.StatusCode)
	}
	return nil
}
