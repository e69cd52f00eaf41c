package shared

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v8"
	"gopkg.in/yaml.v3"

	"roomreviews/internal/domain"
)

// Duration parses "20s"-style strings from both env vars and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config carries everything both run modes need. Env vars fill it
// first; an optional YAML file overlays the keys it names.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"prod" yaml:"app_env"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080" yaml:"http_addr"`

	UserAgent    string   `env:"SCRAPER_USER_AGENT" envDefault:"Mozilla/5.0 (compatible; RoomReviewsBot/1.0)" yaml:"user_agent"`
	FeedTimeout  Duration `env:"FEED_TIMEOUT" envDefault:"20s" yaml:"feed_timeout"`
	FeedRetryMax int      `env:"FEED_RETRY_MAX" envDefault:"4" yaml:"feed_retry_max"`
	FeedRPS      int      `env:"FEED_RPS" envDefault:"5" yaml:"feed_rps"`
	FeedPageSize int      `env:"FEED_PAGE_SIZE" envDefault:"50" yaml:"feed_page_size"`

	Workers  int `env:"SCRAPE_WORKERS" envDefault:"2" yaml:"workers"`
	MaxItems int `env:"SCRAPE_MAX_ITEMS" envDefault:"200" yaml:"max_items"`

	ProxyMode string   `env:"SCRAPE_PROXY_MODE" envDefault:"none" yaml:"proxy_mode"`
	ProxyURLs []string `env:"SCRAPE_PROXY_URLS" envSeparator:"," yaml:"proxy_urls"`

	RedisAddr string   `env:"REDIS_ADDR" yaml:"redis_addr"`
	RedisPass string   `env:"REDIS_PASSWORD" yaml:"redis_password"`
	RedisDB   int      `env:"REDIS_DB" yaml:"redis_db"`
	CacheTTL  Duration `env:"CACHE_TTL" envDefault:"15m" yaml:"cache_ttl"`

	ScrapeTimeout Duration `env:"SERVE_SCRAPE_TIMEOUT" envDefault:"2m" yaml:"scrape_timeout"`
	MaxRooms      int      `env:"SERVE_MAX_ROOMS" envDefault:"20" yaml:"max_rooms"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, c.validate()
}

// LoadFile reads env config, then overlays the keys a YAML file names.
// Anything the file omits keeps its env (or default) value.
func LoadFile(path string) (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, c.validate()
}

func (c Config) validate() error {
	if c.Workers <= 0 {
		return &domain.ConfigError{Reason: "workers must be positive"}
	}
	if c.FeedRPS <= 0 {
		return &domain.ConfigError{Reason: "feed rps must be positive"}
	}
	if c.FeedPageSize <= 0 {
		return &domain.ConfigError{Reason: "feed page size must be positive"}
	}
	if c.FeedRetryMax <= 0 {
		return &domain.ConfigError{Reason: "feed retry max must be positive"}
	}
	if c.MaxRooms <= 0 {
		return &domain.ConfigError{Reason: "max rooms must be positive"}
	}
	return nil
}
