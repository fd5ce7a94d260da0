package appconf

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMonitorURL            = "https://www.wienerlinien.at/ogd_realtime/monitor"
	DefaultPollIntervalSeconds   = 30
	DefaultRequestTimeoutSeconds = 10
)

// ServerConfig contains HTTP server configuration
// APIKeys guard the watch-set mutation endpoints; with no keys configured
// they are open. RateLimit is requests per second per client, 0 disables it.
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gt=0,lte=65535"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	APIKeys        []string `yaml:"apiKeys" validate:"dive,required"`
	RateLimit      int      `yaml:"rateLimit" validate:"gte=0"`
}

// StaticConfig points at the JSON snapshot produced by generate-json
type StaticConfig struct {
	SnapshotPath string `yaml:"snapshotPath" validate:"required"`
}

// RealtimeConfig contains monitor feed polling configuration
type RealtimeConfig struct {
	BaseURL               string `yaml:"baseURL" validate:"required,url"`
	PollIntervalSeconds   int    `yaml:"pollIntervalSeconds" validate:"gte=0"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds" validate:"gte=0"`
	AutoStart             bool   `yaml:"autoStart"`
	Watch                 []int  `yaml:"watch" validate:"dive,gte=0"`
}

// PollInterval returns the configured polling period, or the default when unset.
func (c RealtimeConfig) PollInterval() time.Duration {
	if c.PollIntervalSeconds == 0 {
		return DefaultPollIntervalSeconds * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// RequestTimeout returns the per-request transport timeout.
func (c RealtimeConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds == 0 {
		return DefaultRequestTimeoutSeconds * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// MQTTConfig enables publishing every validated snapshot to a broker.
// Publishing is disabled while Broker is empty.
type MQTTConfig struct {
	Broker                string `yaml:"broker" validate:"omitempty,url"`
	ClientID              string `yaml:"clientID"`
	Username              string `yaml:"username"`
	Password              string `yaml:"password"`
	Topic                 string `yaml:"topic" validate:"required_with=Broker"`
	QoS                   int    `yaml:"qos" validate:"gte=0,lte=2"`
	Retained              bool   `yaml:"retained"`
	PublishTimeoutSeconds int    `yaml:"publishTimeoutSeconds" validate:"gte=0"`
}

func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

func (c MQTTConfig) PublishTimeout() time.Duration {
	if c.PublishTimeoutSeconds == 0 {
		return 5 * time.Second
	}
	return time.Duration(c.PublishTimeoutSeconds) * time.Second
}

// Config is the root configuration structure
type Config struct {
	Env      Environment    `yaml:"env" validate:"oneof=development test production"`
	LogLevel string         `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Server   ServerConfig   `yaml:"server"`
	Static   StaticConfig   `yaml:"static"`
	Realtime RealtimeConfig `yaml:"realtime"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
}

// Default returns the configuration used when no file overrides a value.
func Default() Config {
	return Config{
		Env:      Development,
		LogLevel: "info",
		Server: ServerConfig{
			Port: 4000,
		},
		Static: StaticConfig{
			SnapshotPath: "data/wl-data.json",
		},
		Realtime: RealtimeConfig{
			BaseURL:               DefaultMonitorURL,
			PollIntervalSeconds:   DefaultPollIntervalSeconds,
			RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
			AutoStart:             true,
		},
		MQTT: MQTTConfig{
			ClientID: "wlmonitor",
			Topic:    "wlmonitor/monitor",
		},
	}
}

// Load reads a YAML config file over the defaults and validates the result.
// An empty path yields the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags of the whole configuration tree.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
