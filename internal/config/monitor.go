package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Environment string

const (
	Live Environment = "live"
	Demo Environment = "demo"
)

func (e Environment) BaseURL() string {
	if e == Demo {
		return "https://demo.trading212.com"
	}
	return "https://live.trading212.com"
}

type APIConfig struct {
	Environment Environment   `yaml:"environment"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Key         string        `yaml:"-"`
}

const (
	_environmentDefault = Live
	_apiTimeoutDefault  = 30 * time.Second
)

func (c *APIConfig) Setup() error {
	switch c.Environment {
	case "":
		c.Environment = _environmentDefault
	case Live, Demo:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}

	if c.BaseURL == "" {
		c.BaseURL = c.Environment.BaseURL()
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		c.Timeout = _apiTimeoutDefault
	}

	return nil
}

type PollingConfig struct {
	Interval time.Duration `yaml:"interval"`
	MaxAge   time.Duration `yaml:"max_age"` // a stored fetch younger than this is served without calling the API
}

const (
	_pollingIntervalDefault = 5 * time.Minute
	_minPollingInterval     = 10 * time.Second
)

func (c *PollingConfig) Setup() {
	if c.Interval <= 0 {
		c.Interval = _pollingIntervalDefault
	}
	if c.Interval < _minPollingInterval {
		c.Interval = _minPollingInterval
	}
	if c.MaxAge <= 0 {
		c.MaxAge = c.Interval
	}
}

// AlertsConfig thresholds are percentages. A nil threshold disables that
// alert kind.
type AlertsConfig struct {
	DailyLossPercent *float64 `yaml:"daily_loss_percent"`
	DailyGainPercent *float64 `yaml:"daily_gain_percent"`
}

func (c *AlertsConfig) Validate() error {
	if c.DailyLossPercent != nil && *c.DailyLossPercent > 0 {
		return fmt.Errorf("daily_loss_percent must be negative, got %v", *c.DailyLossPercent)
	}
	if c.DailyGainPercent != nil && *c.DailyGainPercent < 0 {
		return fmt.Errorf("daily_gain_percent must be positive, got %v", *c.DailyGainPercent)
	}
	return nil
}

type TrendConfig struct {
	Days        int      `yaml:"days"`
	DownPercent *float64 `yaml:"down_percent"`
	UpPercent   *float64 `yaml:"up_percent"`
}

const (
	_trendDaysDefault = 7
)

func (c *TrendConfig) Setup() error {
	if c.Days <= 0 {
		c.Days = _trendDaysDefault
	}
	if c.Days < 2 {
		return fmt.Errorf("trend days must be at least 2")
	}
	if c.DownPercent != nil && *c.DownPercent >= 0 {
		return fmt.Errorf("trend down_percent must be negative, got %v", *c.DownPercent)
	}
	if c.UpPercent != nil && *c.UpPercent <= 0 {
		return fmt.Errorf("trend up_percent must be positive, got %v", *c.UpPercent)
	}
	return nil
}

type StorageDriver string

const (
	FileStorage     StorageDriver = "file"
	PostgresStorage StorageDriver = "postgres"
)

type StorageConfig struct {
	Driver        StorageDriver `yaml:"driver"`
	Path          string        `yaml:"path"`
	RetentionDays int           `yaml:"retention_days"`
	Installation  string        `yaml:"installation"` // row key for the postgres driver
}

const (
	_storageDriverDefault = FileStorage
	_retentionDaysDefault = 90
	_stateFileName        = "state.json"
	_installationDefault  = "default"
)

func (c *StorageConfig) Setup() error {
	if c.Driver == "" {
		c.Driver = _storageDriverDefault
	}
	switch c.Driver {
	case FileStorage:
		if c.Path == "" {
			c.Path = defaultStatePath()
		}
	case PostgresStorage:
		if c.Installation == "" {
			c.Installation = _installationDefault
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = _retentionDaysDefault
	}
	return nil
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return _stateFileName
	}
	return filepath.Join(dir, "t212-monitor", _stateFileName)
}

type InstrumentsConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

const (
	_instrumentsTTLDefault = 24 * time.Hour
)

func (c *InstrumentsConfig) Setup() {
	if c.TTL <= 0 {
		c.TTL = _instrumentsTTLDefault
	}
}

type NotificationsConfig struct {
	Desktop     bool   `yaml:"desktop"`
	WebhookURL  string `yaml:"webhook_url"`
	TitlePrefix string `yaml:"title_prefix"`
}

type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

const (
	_serverPortDefault = "8212"
)

func (c *ServerConfig) Setup() {
	if c.Port == "" {
		c.Port = _serverPortDefault
	}
}

type MonitorConfig struct {
	API           APIConfig           `yaml:"api"`
	Polling       PollingConfig       `yaml:"polling"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Trend         TrendConfig         `yaml:"trend"`
	Storage       StorageConfig       `yaml:"storage"`
	Instruments   InstrumentsConfig   `yaml:"instruments"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Server        ServerConfig        `yaml:"server"`
	Timezone      string              `yaml:"timezone"`
	LogLevel      string              `yaml:"log_level"`
}

func (c *MonitorConfig) ValidateAndSetup() error {
	if err := c.API.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup api", err)
	}
	c.Polling.Setup()
	if err := c.Alerts.Validate(); err != nil {
		return fmt.Errorf("%w: can't setup alerts", err)
	}
	if err := c.Trend.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup trend", err)
	}
	if err := c.Storage.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup storage", err)
	}
	c.Instruments.Setup()
	c.Server.Setup()

	if c.Notifications.WebhookURL != "" {
		if _, err := url.ParseRequestURI(c.Notifications.WebhookURL); err != nil {
			return fmt.Errorf("%w: invalid webhook url", err)
		}
	}

	return nil
}

// Default returns a configuration with every default applied.
func Default() MonitorConfig {
	var cfg MonitorConfig
	if err := cfg.ValidateAndSetup(); err != nil {
		panic(err)
	}
	return cfg
}

func ParseMonitorConfig(input []byte) (MonitorConfig, error) {
	var cfg MonitorConfig
	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: can't unmarshal config", err)
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}

func LoadMonitorConfig(filename string) (MonitorConfig, error) {
	input, err := os.ReadFile(filename)
	if err != nil {
		return MonitorConfig{}, fmt.Errorf("%w: can't read file", err)
	}
	return ParseMonitorConfig(input)
}
