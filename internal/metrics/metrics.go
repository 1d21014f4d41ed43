package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tradmin/internal/config"
)

// Manager accumulates counters and writes them in prometheus textfile
// format. A nil manager is valid and all methods are no-ops, so callers
// never need to branch on whether metrics are enabled.
type Manager struct {
	path string
	mu   sync.Mutex
	// counters
	requests      int64
	requestErrors int64
	previewFetch  int64
	previewHits   int64
	downloads     int64
}

func New(cfg *config.Config) *Manager {
	if cfg == nil || !cfg.Metrics.PrometheusTextfile.Enabled || cfg.Metrics.PrometheusTextfile.Path == "" {
		return nil
	}
	p := cfg.Metrics.PrometheusTextfile.Path
	_ = os.MkdirAll(filepath.Dir(p), 0o755)
	return &Manager{path: p}
}

func (m *Manager) IncRequests() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.requests++
	m.mu.Unlock()
}

func (m *Manager) IncRequestErrors() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.requestErrors++
	m.mu.Unlock()
}

func (m *Manager) IncPreviewFetches() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.previewFetch++
	m.mu.Unlock()
}

func (m *Manager) IncPreviewCacheHits() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.previewHits++
	m.mu.Unlock()
}

func (m *Manager) IncDownloads() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.downloads++
	m.mu.Unlock()
}

func (m *Manager) Write() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := os.CreateTemp(filepath.Dir(m.path), ".metrics.tmp.*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	fmt.Fprintf(f, "# HELP tradmin_api_requests_total Total backend API requests issued.\n")
	fmt.Fprintf(f, "# TYPE tradmin_api_requests_total counter\n")
	fmt.Fprintf(f, "tradmin_api_requests_total %d\n", m.requests)

	fmt.Fprintf(f, "# HELP tradmin_api_request_errors_total Total failed API requests.\n")
	fmt.Fprintf(f, "# TYPE tradmin_api_request_errors_total counter\n")
	fmt.Fprintf(f, "tradmin_api_request_errors_total %d\n", m.requestErrors)

	fmt.Fprintf(f, "# HELP tradmin_preview_fetches_total Total authenticated image fetches.\n")
	fmt.Fprintf(f, "# TYPE tradmin_preview_fetches_total counter\n")
	fmt.Fprintf(f, "tradmin_preview_fetches_total %d\n", m.previewFetch)

	fmt.Fprintf(f, "# HELP tradmin_preview_cache_hits_total Image fetches served from the preview cache.\n")
	fmt.Fprintf(f, "# TYPE tradmin_preview_cache_hits_total counter\n")
	fmt.Fprintf(f, "tradmin_preview_cache_hits_total %d\n", m.previewHits)

	fmt.Fprintf(f, "# HELP tradmin_image_downloads_total Images saved to disk.\n")
	fmt.Fprintf(f, "# TYPE tradmin_image_downloads_total counter\n")
	fmt.Fprintf(f, "tradmin_image_downloads_total %d\n", m.downloads)

	fmt.Fprintf(f, "# HELP tradmin_metrics_timestamp_seconds UNIX timestamp when this file was written.\n")
	fmt.Fprintf(f, "# TYPE tradmin_metrics_timestamp_seconds gauge\n")
	fmt.Fprintf(f, "tradmin_metrics_timestamp_seconds %d\n", time.Now().Unix())

	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), m.path)
}
