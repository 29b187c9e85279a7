package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"twap-engine-go/infrastructure/logger"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env     string        `yaml:"env"`
	Engine  EngineConfig  `yaml:"engine"`
	Feed    FeedConfig    `yaml:"feed"`
	API     APIConfig     `yaml:"api"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logger  logger.Config `yaml:"logger"`
}

type EngineConfig struct {
	Identity       string `yaml:"identity"`       // 引擎在活动流中的身份,递归保护依赖它
	Owner          string `yaml:"owner"`          // 管理参数的 owner
	MaxDurationSec int64  `yaml:"maxDurationSec"` // 订单最大总时长(秒)
	Treasury       string `yaml:"treasury"`
}

// MaxAllowedDuration 配置的最大订单时长。
func (c EngineConfig) MaxAllowedDuration() time.Duration {
	return time.Duration(c.MaxDurationSec) * time.Second
}

type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

type APIConfig struct {
	Addr string `yaml:"addr"`
}

type StoreConfig struct {
	// BadgerPath 订单快照目录,留空则纯内存运行
	BadgerPath string `yaml:"badgerPath"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // 留空则关闭
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides selected fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("TWAP_FEED_URL"); v != "" {
		cfg.Feed.URL = v
	}
	if v := os.Getenv("TWAP_BADGER_PATH"); v != "" {
		cfg.Store.BadgerPath = v
	}
	if v := os.Getenv("TWAP_API_ADDR"); v != "" {
		cfg.API.Addr = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Engine.Identity == "" {
		return errors.New("engine.identity is required")
	}
	if cfg.Engine.Owner == "" {
		return errors.New("engine.owner is required")
	}
	if cfg.Engine.MaxDurationSec <= 0 {
		return errors.New("engine.maxDurationSec must be > 0")
	}
	if cfg.Feed.Enabled && cfg.Feed.URL == "" {
		return errors.New("feed.url is required when feed is enabled")
	}
	if cfg.API.Addr == "" {
		return errors.New("api.addr is required")
	}
	return nil
}
