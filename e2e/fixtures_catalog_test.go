//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
)

// CatalogOption is a function that configures the fake catalog
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	titles  []string
	failing int // status for every request, 0 to serve normally
	variant string
}

// WithProducts serves one product per title
func WithProducts(titles ...string) CatalogOption {
	return func(opts *catalogOptions) {
		opts.titles = append(opts.titles, titles...)
	}
}

// WithNumberedProducts serves n products titled "<prefix> <i>"
func WithNumberedProducts(prefix string, n int) CatalogOption {
	return func(opts *catalogOptions) {
		for i := 1; i <= n; i++ {
			opts.titles = append(opts.titles, fmt.Sprintf("%s %d", prefix, i))
		}
	}
}

// WithFailure answers every request with status
func WithFailure(status int) CatalogOption {
	return func(opts *catalogOptions) {
		opts.failing = status
	}
}

// WithVariant selects the dropdown behaviour written to the config
func WithVariant(variant string) CatalogOption {
	return func(opts *catalogOptions) {
		opts.variant = variant
	}
}

// FakeCatalog is an offset/limit product API in the shape of the real one
type FakeCatalog struct {
	server   *httptest.Server
	opts     catalogOptions
	requests atomic.Int64
}

func newFakeCatalog(opts catalogOptions) *FakeCatalog {
	c := &FakeCatalog{opts: opts}
	c.server = httptest.NewServer(http.HandlerFunc(c.serve))
	return c
}

// URL returns the products endpoint
func (c *FakeCatalog) URL() string {
	return c.server.URL + "/products"
}

// Requests returns how many requests were served
func (c *FakeCatalog) Requests() int64 {
	return c.requests.Load()
}

// Close shuts the server down
func (c *FakeCatalog) Close() {
	c.server.Close()
}

func (c *FakeCatalog) serve(w http.ResponseWriter, r *http.Request) {
	c.requests.Add(1)
	if c.opts.failing != 0 {
		http.Error(w, "unavailable", c.opts.failing)
		return
	}

	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	title := strings.ToLower(q.Get("title"))

	type product struct {
		ID       int     `json:"id"`
		Title    string  `json:"title"`
		Price    float64 `json:"price"`
		Category struct {
			Name string `json:"name"`
		} `json:"category"`
	}
	var matches []product
	for i, t := range c.opts.titles {
		if strings.Contains(strings.ToLower(t), title) {
			p := product{ID: i + 1, Title: t, Price: float64(10 + i)}
			p.Category.Name = "Clothes"
			matches = append(matches, p)
		}
	}

	page := []product{}
	for i := offset; i < len(matches) && i < offset+limit; i++ {
		page = append(page, matches[i])
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

// CreateTestWorkspace creates a temporary home with a config pointing at a
// fresh fake catalog
func (s *Session) CreateTestWorkspace(options ...CatalogOption) (string, error) {
	opts := catalogOptions{variant: "combobox"}
	for _, opt := range options {
		opt(&opts)
	}

	tmpDir := s.t.TempDir()
	s.workspace = tmpDir
	s.catalog = newFakeCatalog(opts)

	config := fmt.Sprintf(`version = 1

[source]
kind = "offset"
base_url = %q
page_size = 10

[search]
debounce_ms = 50
min_query_length = 1
blur_delay_ms = 50
preload_on_open = false
cache_ttl_seconds = 0

[client]
timeout_seconds = 2
requests_per_second = 0.0
burst = 1
retries = 0
user_agent = "combosearch-e2e"

[ui]
variant = %q
max_visible_items = 6
placeholder = "Search products"

[log]
file = %q
level = "debug"
`, s.catalog.URL(), opts.variant, filepath.Join(tmpDir, "combosearch.log"))

	if err := os.WriteFile(s.ConfigPath(), []byte(config), 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return tmpDir, nil
}

// ConfigPath returns the config file used by StartSearch
func (s *Session) ConfigPath() string {
	return filepath.Join(s.workspace, "config.toml")
}

// StartSearch launches the app against the workspace config
func (s *Session) StartSearch(args ...string) error {
	return s.StartApp(append([]string{"-config", s.ConfigPath()}, args...)...)
}
