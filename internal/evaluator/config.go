// Package evaluator wires the currency, regional, screening, risk,
// routing, rates, and compliance components into the single evaluation
// pipeline exposed to callers.
package evaluator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/payrail/riskcore/internal/compliance"
	"github.com/payrail/riskcore/internal/currency"
	"github.com/payrail/riskcore/internal/regional"
	"github.com/payrail/riskcore/internal/risk"
	"github.com/payrail/riskcore/internal/routing"
	"github.com/payrail/riskcore/internal/screening"
)

// RedisConfig selects the optional Redis-backed rate cache.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Addr     string `yaml:"addr" json:"addr" mapstructure:"addr"`
	Password string `yaml:"password" json:"password" mapstructure:"password"`
	DB       int    `yaml:"db" json:"db" mapstructure:"db"`
}

// RatesConfig controls the exchange-rate cache.
type RatesConfig struct {
	Freshness time.Duration `yaml:"freshness" json:"freshness" mapstructure:"freshness"`
	Redis     RedisConfig   `yaml:"redis" json:"redis" mapstructure:"redis"`
}

// Config aggregates every component's configuration into one versioned
// document.
type Config struct {
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`

	Currencies []currency.Rule        `yaml:"currencies" json:"currencies" mapstructure:"currencies"`
	Countries  []regional.CountryRule `yaml:"countries" json:"countries" mapstructure:"countries"`
	Screening  screening.Lists        `yaml:"screening" json:"screening" mapstructure:"screening"`
	Risk       risk.Config            `yaml:"risk" json:"risk" mapstructure:"risk"`
	Routing    routing.Config         `yaml:"routing" json:"routing" mapstructure:"routing"`
	Compliance compliance.Config      `yaml:"compliance" json:"compliance" mapstructure:"compliance"`
	Rates      RatesConfig            `yaml:"rates" json:"rates" mapstructure:"rates"`
}

// DefaultConfig assembles the built-in tables and heuristic constants.
func DefaultConfig() Config {
	return Config{
		LogLevel:   "info",
		Currencies: currency.DefaultRules(),
		Countries:  regional.DefaultRules(),
		Screening:  screening.DefaultLists(),
		Risk:       risk.DefaultConfig(),
		Routing:    routing.DefaultConfig(),
		Compliance: compliance.DefaultConfig(),
		Rates:      RatesConfig{Freshness: 5 * time.Minute},
	}
}

// LoadConfig reads a YAML document over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		// Monetary fields are quoted strings; decimal.Decimal implements
		// encoding.TextUnmarshaler.
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.restoreMapKeys()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// restoreMapKeys undoes viper's case-folding of map keys. Factor tags,
// tier names, and sanction list names are uppercase identifiers; a merged
// document leaves its overrides under lowercase keys the components never
// look up.
func (c *Config) restoreMapKeys() {
	c.Risk.FactorPoints = upperKeys(c.Risk.FactorPoints)
	c.Risk.FactorWeights = upperKeys(c.Risk.FactorWeights)
	c.Compliance.CountryTierPoints = upperKeys(c.Compliance.CountryTierPoints)
	c.Screening.SanctionedCountries = upperKeys(c.Screening.SanctionedCountries)
}

// upperKeys re-keys a map by the uppercase form of each key. Keys that were
// lowercased during the merge carry the document's values, so they overlay
// the defaults that kept their canonical form.
func upperKeys[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		if strings.ToUpper(k) == k {
			out[k] = v
		}
	}
	for k, v := range m {
		if u := strings.ToUpper(k); u != k {
			out[u] = v
		}
	}
	return out
}

// Validate checks every component section. Malformed static tables are
// startup failures, never per-request errors.
func (c Config) Validate() error {
	if _, err := currency.NewCatalog(c.Currencies); err != nil {
		return fmt.Errorf("currencies: %w", err)
	}
	if _, err := regional.NewTable(c.Countries); err != nil {
		return fmt.Errorf("countries: %w", err)
	}
	if _, err := screening.NewScreener(c.Screening, nil, nil); err != nil {
		return fmt.Errorf("screening: %w", err)
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	if err := c.Routing.Validate(); err != nil {
		return fmt.Errorf("routing: %w", err)
	}
	if err := c.Compliance.Validate(); err != nil {
		return fmt.Errorf("compliance: %w", err)
	}
	if c.Rates.Freshness < 0 {
		return fmt.Errorf("rates: freshness must not be negative")
	}
	if c.Rates.Redis.Enabled && c.Rates.Redis.Addr == "" {
		return fmt.Errorf("rates: redis enabled without an address")
	}
	return nil
}
