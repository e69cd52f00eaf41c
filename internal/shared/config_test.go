package shared_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"roomreviews/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Workers != 2 || cfg.MaxItems != 200 {
		t.Fatalf("scrape defaults: %+v", cfg)
	}
	if cfg.FeedRPS != 5 || cfg.FeedRetryMax != 4 || cfg.FeedPageSize != 50 {
		t.Fatalf("feed defaults: %+v", cfg)
	}
	if cfg.FeedTimeout.Std() != 20*time.Second {
		t.Fatalf("feed timeout: %v", cfg.FeedTimeout.Std())
	}
	if !strings.Contains(cfg.UserAgent, "RoomReviewsBot") {
		t.Fatalf("user agent: %q", cfg.UserAgent)
	}
	if cfg.ProxyMode != "none" || cfg.MaxRooms != 20 {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCRAPE_WORKERS", "7")
	t.Setenv("FEED_TIMEOUT", "3s")
	t.Setenv("SCRAPE_PROXY_MODE", "pool")
	t.Setenv("SCRAPE_PROXY_URLS", "http://p1:8080,http://p2:8080")

	cfg, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Workers != 7 || cfg.FeedTimeout.Std() != 3*time.Second {
		t.Fatalf("overrides: %+v", cfg)
	}
	if cfg.ProxyMode != "pool" || len(cfg.ProxyURLs) != 2 || cfg.ProxyURLs[1] != "http://p2:8080" {
		t.Fatalf("proxies: %+v", cfg.ProxyURLs)
	}
}

func TestLoad_RejectsNonPositive(t *testing.T) {
	t.Setenv("SCRAPE_WORKERS", "0")
	if _, err := shared.Load(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadFile_YAMLOverlay(t *testing.T) {
	t.Setenv("FEED_RPS", "9") // yaml below does not name feed_rps

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `workers: 4
feed_timeout: 45s
redis_addr: localhost:6379
cache_ttl: 1h
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	cfg, err := shared.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Workers != 4 || cfg.FeedTimeout.Std() != 45*time.Second {
		t.Fatalf("yaml values: %+v", cfg)
	}
	if cfg.CacheTTL.Std() != time.Hour || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("yaml values: %+v", cfg)
	}
	if cfg.FeedRPS != 9 {
		t.Fatalf("env value lost under overlay: %d", cfg.FeedRPS)
	}
	if cfg.MaxItems != 200 {
		t.Fatalf("default lost under overlay: %d", cfg.MaxItems)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := shared.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	doc := `{
		"roomUrls": ["https://rooms.example.com/rooms/1/reviews"],
		"maxItems": 50,
		"output": {"format": "csv", "path": "out/reviews.csv"}
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	in, err := shared.LoadInput(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(in.RoomURLs) != 1 || in.MaxItems != 50 {
		t.Fatalf("input: %+v", in)
	}
	if in.Output == nil || in.Output.Format != "csv" || in.Output.Path != "out/reviews.csv" {
		t.Fatalf("output spec: %+v", in.Output)
	}
}

func TestLoadInput_Rejects(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty urls":        `{"roomUrls": []}`,
		"negative maxItems": `{"roomUrls": ["https://x/rooms/1"], "maxItems": -1}`,
		"not json":          `roomUrls=1`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".json")
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := shared.LoadInput(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := shared.LoadInput(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
