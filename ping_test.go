package sitemaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

const pingSitemap = "https://example.com/sitemap.xml"

type pingRecorder struct {
	mu       sync.Mutex
	sitemaps []string
	status   int
}

func (p *pingRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sitemaps = append(p.sitemaps, r.URL.Query().Get("sitemap"))
	w.WriteHeader(p.status)
}

func (p *pingRecorder) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sitemaps)
}

func pingLog() *logrus.Entry {
	return logrus.NewEntry(quietLogger())
}

func TestPingSendsSitemapURL(t *testing.T) {
	rec := &pingRecorder{status: http.StatusOK}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	p := NewPinger(PingConfig{Enabled: true, Endpoints: []string{srv.URL + "/ping"}}, pingSitemap, pingLog())
	if !p.Ping(context.Background()) {
		t.Fatal("Ping reported failure")
	}
	if rec.count() != 1 || rec.sitemaps[0] != pingSitemap {
		t.Errorf("endpoint received %v", rec.sitemaps)
	}
}

func TestPingDisabled(t *testing.T) {
	rec := &pingRecorder{status: http.StatusOK}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	for _, cfg := range []PingConfig{
		{Enabled: false, Endpoints: []string{srv.URL}},
		{Enabled: true},
	} {
		p := NewPinger(cfg, pingSitemap, pingLog())
		if p.Enabled() {
			t.Errorf("%+v: pinger should be disabled", cfg)
		}
		if p.Ping(context.Background()) {
			t.Errorf("%+v: disabled ping reported success", cfg)
		}
		p.Notify()
	}
	var nilPinger *Pinger
	if nilPinger.Enabled() {
		t.Error("nil pinger reports enabled")
	}
	if rec.count() != 0 {
		t.Errorf("disabled pinger sent %d requests", rec.count())
	}
}

func TestPingThrottled(t *testing.T) {
	rec := &pingRecorder{status: http.StatusOK}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	p := NewPinger(PingConfig{Enabled: true, Endpoints: []string{srv.URL}, MinInterval: time.Hour}, pingSitemap, pingLog())
	if !p.Ping(context.Background()) {
		t.Fatal("first ping failed")
	}
	if p.Ping(context.Background()) {
		t.Error("second ping inside the interval was sent")
	}
	if rec.count() != 1 {
		t.Errorf("endpoint received %d pings, want 1", rec.count())
	}
}

func TestPingFailingEndpoint(t *testing.T) {
	bad := &pingRecorder{status: http.StatusServiceUnavailable}
	good := &pingRecorder{status: http.StatusOK}
	badSrv := httptest.NewServer(bad)
	defer badSrv.Close()
	goodSrv := httptest.NewServer(good)
	defer goodSrv.Close()

	p := NewPinger(PingConfig{Enabled: true, Endpoints: []string{badSrv.URL, goodSrv.URL}}, pingSitemap, pingLog())
	if p.Ping(context.Background()) {
		t.Error("Ping reported success with a failing endpoint")
	}
	if good.count() != 1 {
		t.Error("a failing endpoint stopped later endpoints from being pinged")
	}
}
