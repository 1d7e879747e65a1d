package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/urmzd/eyecare/pkg/device/schema"
)

// DefaultName is the display name given to lamps configured without one.
const DefaultName = "Xiaomi Philips Eyecare Smart Lamp 2"

// DefaultDriver is the client driver used when a lamp names none.
const DefaultDriver = "simulated"

// DefaultTopicPrefix is the MQTT topic prefix used when none is configured.
const DefaultTopicPrefix = "eyecare"

// Config is the lamp configuration file.
type Config struct {
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	PollInterval   string `yaml:"poll_interval"`
	CommandTimeout string `yaml:"command_timeout"`
	Lamps          []Lamp `yaml:"lamps"`
	MQTT           MQTT   `yaml:"mqtt"`
}

// Lamp is one configured lamp.
type Lamp struct {
	ID     string `yaml:"id"`
	Host   string `yaml:"host"`
	Token  string `yaml:"token"`
	Name   string `yaml:"name"`
	Driver string `yaml:"driver"`
}

// MQTT holds the MQTT bridge settings.
type MQTT struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// Key returns the identifier the lamp is registered under.
func (l Lamp) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return l.Host
}

// MaskedToken returns the first five token characters, safe for logging.
func (l Lamp) MaskedToken() string {
	if len(l.Token) <= 5 {
		return "..."
	}
	return l.Token[:5] + "..."
}

// Load reads, validates and defaults the configuration file at path.
func Load(path string, validator *schema.Validator) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, validator)
}

// Parse validates and defaults a YAML configuration document.
func Parse(data []byte, validator *schema.Validator) (*Config, error) {
	if validator != nil {
		doc, err := toJSONDocument(data)
		if err != nil {
			return nil, err
		}
		if err := validator.ValidateValue(schema.ConfigSchema, doc); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// PollIntervalDuration returns the configured poll interval, or zero when unset.
func (c *Config) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// CommandTimeoutDuration returns the configured per-call timeout, or zero when unset.
func (c *Config) CommandTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.CommandTimeout)
	return d
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = DefaultTopicPrefix
	}
	for i := range c.Lamps {
		if c.Lamps[i].Name == "" {
			c.Lamps[i].Name = DefaultName
		}
		if c.Lamps[i].Driver == "" {
			c.Lamps[i].Driver = DefaultDriver
		}
	}
}

func (c *Config) validate() error {
	for _, field := range []struct{ name, value string }{
		{"poll_interval", c.PollInterval},
		{"command_timeout", c.CommandTimeout},
	} {
		if field.value == "" {
			continue
		}
		d, err := time.ParseDuration(field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", field.name, d)
		}
	}

	seen := make(map[string]bool, len(c.Lamps))
	for i, l := range c.Lamps {
		if l.Host == "" {
			return fmt.Errorf("lamps[%d].host is required", i)
		}
		if len(l.Token) != 32 {
			return fmt.Errorf("lamps[%d].token must be 32 characters", i)
		}
		if seen[l.Key()] {
			return fmt.Errorf("lamps[%d]: duplicate lamp %q", i, l.Key())
		}
		seen[l.Key()] = true
	}

	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
	}
	return nil
}

// toJSONDocument converts a YAML document into the value encoding/json
// would produce, which is what the schema validator expects.
func toJSONDocument(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("convert config: %w", err)
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("convert config: %w", err)
	}
	return doc, nil
}
