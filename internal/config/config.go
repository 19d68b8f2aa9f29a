package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token"`
	Workers int    `yaml:"workers"` // polling workers
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type StoreConfig struct {
	Backend  string `yaml:"backend"` // couch | redis
	URL      string `yaml:"url"`
	Database string `yaml:"database"` // couch database name / redis db index via DB
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"` // redis logical db
}

type GateConfig struct {
	WindowRaw string `yaml:"window"` // e.g. "1h"
	TickRaw   string `yaml:"tick"`   // e.g. "1s"

	// Window is how long past sends are held against duplicates.
	Window time.Duration `yaml:"-"`
	// Tick is the per-recipient throttle granularity.
	Tick time.Duration `yaml:"-"`
}

type Config struct {
	Bot    BotConfig    `yaml:"bot"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	Gate   GateConfig   `yaml:"gate"`

	Runtime RuntimeConfig `yaml:"-"`
}

const (
	DefaultPort     = 4321
	minTokenLength  = 45
	defaultWorkers  = 8
	defaultStoreURL = "https://kokarn.cloudant.com"
	defaultDatabase = "notifyy-users"
)

// LoadConfig reads the optional YAML file, then applies environment
// overrides. The env variables match the original deployment: TELEGRAM_TOKEN,
// DATABASE_USER, DATABASE_PASSWORD and PORT.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// env-only deployments have no config file
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// env overrides
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("DATABASE_USER"); v != "" {
		cfg.Store.Username = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.Store.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse PORT: %w", err)
		}
		cfg.Server.Port = port
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = defaultWorkers
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "couch"
	}
	if cfg.Store.URL == "" && cfg.Store.Backend == "couch" {
		cfg.Store.URL = defaultStoreURL
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = defaultDatabase
	}
	cfg.Gate.Window, err = parseDurationOrDefault("gate.window", cfg.Gate.WindowRaw, time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.Gate.Tick, err = parseDurationOrDefault("gate.tick", cfg.Gate.TickRaw, time.Second)
	if err != nil {
		return nil, err
	}

	// validation: the process refuses to serve with a broken config
	if cfg.Bot.Token == "" {
		return nil, errors.New("missing telegram token: set bot.token or TELEGRAM_TOKEN")
	}
	if len(cfg.Bot.Token) < minTokenLength {
		return nil, errors.New("invalid telegram token: shorter than 45 characters")
	}
	switch cfg.Store.Backend {
	case "couch":
		if cfg.Store.Username == "" {
			return nil, errors.New("missing store username: set store.username or DATABASE_USER")
		}
		if cfg.Store.Password == "" {
			return nil, errors.New("missing store password: set store.password or DATABASE_PASSWORD")
		}
	case "redis":
		if cfg.Store.URL == "" {
			return nil, errors.New("store.url is required for the redis backend")
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
