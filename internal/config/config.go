package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

type Config struct {
	Source  string        `yaml:"source"`
	Store   StoreConfig   `yaml:"store"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Ranking RankingConfig `yaml:"ranking"`
	Trend   TrendConfig   `yaml:"trend"`
	Chart   ChartConfig   `yaml:"chart"`
	Server  ServerConfig  `yaml:"server"`
	Daemon  DaemonConfig  `yaml:"daemon"`
	Log     LogConfig     `yaml:"log"`
}

type StoreConfig struct {
	Backend         string `yaml:"backend"`
	ProjectID       string `yaml:"project_id,omitempty"`
	CredentialsFile string `yaml:"credentials_file,omitempty"`
}

type FetchConfig struct {
	Concurrency    int `yaml:"concurrency"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type RankingConfig struct {
	Limit int `yaml:"limit"`
}

type TrendConfig struct {
	Window int `yaml:"window"`
}

type ChartConfig struct {
	LabelWidth int `yaml:"label_width"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DaemonConfig struct {
	Schedule string `yaml:"schedule"`
	SyncDays int    `yaml:"sync_days"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Source: "temasekpoly",
		Store: StoreConfig{
			Backend: BackendSQLite,
		},
		Fetch: FetchConfig{
			Concurrency:    8,
			TimeoutSeconds: 30,
		},
		Ranking: RankingConfig{
			Limit: 10,
		},
		Trend: TrendConfig{
			Window: 7,
		},
		Chart: ChartConfig{
			LabelWidth: 20,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Daemon: DaemonConfig{
			Schedule: "@every 6h",
			SyncDays: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "cli",
		},
	}
}

func Dir() string {
	if dir := os.Getenv("SENTIMON_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sentimon")
}

func DBPath() string {
	return filepath.Join(Dir(), "sentimon.db")
}

func configPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads config.yaml (defaults when absent), after loading .env files
// from the config dir and the working directory. Environment variables
// override file values.
func Load() (*Config, error) {
	for _, path := range []string{filepath.Join(Dir(), ".env"), ".env"} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(configPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath(), data, 0644)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SENTIMON_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("SENTIMON_SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv("FIRESTORE_PROJECT_ID"); v != "" {
		c.Store.ProjectID = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		c.Store.CredentialsFile = v
	}
	if v := os.Getenv("SENTIMON_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) normalize() {
	def := Default()
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if c.Fetch.Concurrency <= 0 {
		c.Fetch.Concurrency = def.Fetch.Concurrency
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = def.Fetch.TimeoutSeconds
	}
	if c.Ranking.Limit <= 0 {
		c.Ranking.Limit = def.Ranking.Limit
	}
	if c.Trend.Window <= 0 {
		c.Trend.Window = def.Trend.Window
	}
	if c.Chart.LabelWidth <= 0 {
		c.Chart.LabelWidth = def.Chart.LabelWidth
	}
	if c.Daemon.Schedule == "" {
		c.Daemon.Schedule = def.Daemon.Schedule
	}
	if c.Daemon.SyncDays <= 0 {
		c.Daemon.SyncDays = def.Daemon.SyncDays
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
}
