package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/indusnetwork/bridge/internal/model"
)

// Config is the static configuration for the bridge. It is loaded once
// at startup and read-only afterwards.
type Config struct {
	Website   Website         `yaml:"website"`
	Settings  Settings        `yaml:"settings"`
	Intervals Intervals       `yaml:"intervals"`
	Ranks     map[string]Rank `yaml:"ranks"`
}

// Website holds the remote web service endpoint and credential.
type Website struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// Settings holds miscellaneous gameplay settings.
type Settings struct {
	StartingCoins int `yaml:"starting_coins"`
	DailyBonus    int `yaml:"daily_bonus"`
}

// Intervals configures the reconciliation timers.
type Intervals struct {
	StatusSync    Duration `yaml:"status_sync"`
	DeliverySweep Duration `yaml:"delivery_sweep"`
	StatsFlush    Duration `yaml:"stats_flush"`
}

// Duration wraps time.Duration so intervals can be written as "30s" or
// "5m" in the YAML file.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Rank is the YAML shape of a rank table entry. CoinsMultiplier is a
// pointer so an explicit 0 (a rank that earns nothing) is distinct from
// the field being absent, which defaults to 1.0.
type Rank struct {
	DisplayName     string   `yaml:"display_name"`
	PermissionGroup string   `yaml:"permission_group"`
	CoinsMultiplier *float64 `yaml:"coins_multiplier"`
}

// Default returns the configuration defaults used when fields are absent
// from the loaded file.
func Default() Config {
	return Config{
		Website: Website{
			URL: "https://indusnetwork.highms.pro",
		},
		Settings: Settings{
			StartingCoins: 100,
			DailyBonus:    50,
		},
		Intervals: Intervals{
			StatusSync:    Duration(5 * time.Minute),
			DeliverySweep: Duration(30 * time.Second),
			StatsFlush:    Duration(10 * time.Minute),
		},
		Ranks: map[string]Rank{
			model.DefaultRank: {
				DisplayName:     "Default",
				PermissionGroup: model.DefaultRank,
				CoinsMultiplier: multiplierOf(1.0),
			},
		},
	}
}

// Load reads the YAML config file at path, applies defaults for absent
// fields, and applies environment overrides (INDUSBRIDGE_URL,
// INDUSBRIDGE_API_KEY).
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults
// (with environment overrides still applied).
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	def := Default()
	def.applyEnv()
	if err := def.validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("INDUSBRIDGE_URL"); v != "" {
		c.Website.URL = v
	}
	if v := os.Getenv("INDUSBRIDGE_API_KEY"); v != "" {
		c.Website.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Website.URL == "" {
		return fmt.Errorf("website.url is required")
	}
	if c.Settings.StartingCoins < 0 {
		return fmt.Errorf("settings.starting_coins must not be negative")
	}
	for id, r := range c.Ranks {
		if r.CoinsMultiplier != nil && *r.CoinsMultiplier < 0 {
			return fmt.Errorf("rank %q: coins_multiplier must not be negative", id)
		}
	}
	return nil
}

func multiplierOf(v float64) *float64 {
	return &v
}

// RankTable converts the configured ranks into the domain rank table,
// keyed by lowercase rank id.
func (c *Config) RankTable() map[string]model.Rank {
	table := make(map[string]model.Rank, len(c.Ranks))
	for id, r := range c.Ranks {
		key := strings.ToLower(id)
		display := r.DisplayName
		if display == "" {
			display = id
		}
		group := r.PermissionGroup
		if group == "" {
			group = key
		}
		multiplier := 1.0
		if r.CoinsMultiplier != nil {
			multiplier = *r.CoinsMultiplier
		}
		table[key] = model.Rank{
			ID:              key,
			DisplayName:     display,
			PermissionGroup: group,
			CoinsMultiplier: multiplier,
		}
	}
	return table
}
