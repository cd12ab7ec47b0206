// Package toml loads webkb configuration files using
// github.com/pelletier/go-toml/v2.
package toml

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/webkb/webkb"
)

// Config is the on-disk configuration layout: a [crawl] table and a
// [retrieve] table. Durations are strings ("500ms", "2s") since they read
// better in TOML than nanosecond integers.
type Config struct {
	Crawl    CrawlSection         `toml:"crawl"`
	Retrieve webkb.RetrieveConfig `toml:"retrieve"`
}

// CrawlSection wraps webkb.CrawlConfig with string-typed durations.
type CrawlSection struct {
	webkb.CrawlConfig
	Delay   string `toml:"delay"`
	Timeout string `toml:"timeout"`
}

// Load reads a TOML config file. Missing fields keep their defaults from
// webkb.DefaultCrawlConfig and webkb.DefaultRetrieveConfig.
func Load(path string) (webkb.CrawlConfig, webkb.RetrieveConfig, error) {
	cfg := Config{
		Crawl:    CrawlSection{CrawlConfig: webkb.DefaultCrawlConfig()},
		Retrieve: webkb.DefaultRetrieveConfig(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return webkb.CrawlConfig{}, webkb.RetrieveConfig{}, webkb.Errorf(webkb.ENOTFOUND, "config file %q not found", path)
		}
		return webkb.CrawlConfig{}, webkb.RetrieveConfig{}, webkb.Errorf(webkb.EINTERNAL, "failed to read config file: %v", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return webkb.CrawlConfig{}, webkb.RetrieveConfig{}, webkb.Errorf(webkb.EINVALID, "failed to parse config file: %v", err)
	}

	crawl := cfg.Crawl.CrawlConfig
	if cfg.Crawl.Delay != "" {
		d, err := time.ParseDuration(cfg.Crawl.Delay)
		if err != nil {
			return webkb.CrawlConfig{}, webkb.RetrieveConfig{}, webkb.Errorf(webkb.EINVALID, "invalid crawl delay %q: %v", cfg.Crawl.Delay, err)
		}
		crawl.Delay = d
	}
	if cfg.Crawl.Timeout != "" {
		d, err := time.ParseDuration(cfg.Crawl.Timeout)
		if err != nil {
			return webkb.CrawlConfig{}, webkb.RetrieveConfig{}, webkb.Errorf(webkb.EINVALID, "invalid crawl timeout %q: %v", cfg.Crawl.Timeout, err)
		}
		crawl.Timeout = d
	}

	return crawl, cfg.Retrieve, nil
}
