package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Storage struct {
		DataDir    string `yaml:"data_dir"`
		DocsDir    string `yaml:"docs_dir"`
		MapsFile   string `yaml:"maps_file"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Report struct {
		DefaultDays   int     `yaml:"default_days"`
		MinTradeCount float64 `yaml:"min_trade_count"`
	} `yaml:"report"`
	Fetch struct {
		DaysToFetch   int `yaml:"days_to_fetch"`
		PointsMaxDays int `yaml:"points_max_days"`
		KeepDays      int `yaml:"keep_days"`
		RawKeepDays   int `yaml:"raw_keep_days"`
		DelayMinMs    int `yaml:"delay_min_ms"`
		DelayMaxMs    int `yaml:"delay_max_ms"`
	} `yaml:"fetch"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("MASHOP_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("DOCS_DIR"); v != "" {
		cfg.Storage.DocsDir = v
	}
	if v := os.Getenv("MAPS_JSON_PATH"); v != "" {
		cfg.Storage.MapsFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	applyIntEnv("DAYS_FOR_REPORT", &cfg.Report.DefaultDays)
	applyIntEnv("DAYS_TO_FETCH", &cfg.Fetch.DaysToFetch)
	applyIntEnv("POINTS_MAX_DAYS", &cfg.Fetch.PointsMaxDays)
	applyIntEnv("KEEP_DAYS", &cfg.Fetch.KeepDays)
	applyIntEnv("RAW_KEEP_DAYS", &cfg.Fetch.RawKeepDays)
	if v := os.Getenv("MIN_TRADECOUNT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Report.MinTradeCount = f
		}
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.mashop.kr"
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 60
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.DocsDir == "" {
		cfg.Storage.DocsDir = "docs"
	}
	if cfg.Storage.MapsFile == "" {
		cfg.Storage.MapsFile = "maps.json"
	}
	if cfg.Report.DefaultDays == 0 {
		cfg.Report.DefaultDays = 14
	}
	if cfg.Report.MinTradeCount == 0 {
		cfg.Report.MinTradeCount = 5
	}
	if cfg.Fetch.DaysToFetch == 0 {
		cfg.Fetch.DaysToFetch = 7
	}
	if cfg.Fetch.PointsMaxDays == 0 {
		cfg.Fetch.PointsMaxDays = 60
	}
	if cfg.Fetch.KeepDays == 0 {
		cfg.Fetch.KeepDays = 180
	}
	if cfg.Fetch.RawKeepDays == 0 {
		cfg.Fetch.RawKeepDays = 14
	}
	if cfg.Fetch.DelayMinMs == 0 {
		cfg.Fetch.DelayMinMs = 800
	}
	if cfg.Fetch.DelayMaxMs == 0 {
		cfg.Fetch.DelayMaxMs = 1800
	}

	return cfg, nil
}

func applyIntEnv(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks that all required fields are sane.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Fetch.DaysToFetch < 1 {
		return fmt.Errorf("fetch.days_to_fetch must be at least 1")
	}
	if c.Fetch.KeepDays < 1 {
		return fmt.Errorf("fetch.keep_days must be at least 1")
	}
	if c.Fetch.DelayMinMs < 0 || c.Fetch.DelayMaxMs < c.Fetch.DelayMinMs {
		return fmt.Errorf("fetch delay bounds are invalid: min=%d max=%d", c.Fetch.DelayMinMs, c.Fetch.DelayMaxMs)
	}
	return nil
}
