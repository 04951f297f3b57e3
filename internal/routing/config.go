// Package routing selects a payment rail for a transfer by scoring every
// compatible route on cost, speed, and reliability.
package routing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/payrail/riskcore/pkg/models"
)

// Sentinel values usable in route definitions.
const (
	// AnyCountry in a route's country list makes it available everywhere.
	AnyCountry = "ALL"
	// SameCurrency restricts a route to transfers that keep the source
	// currency, the way domestic clearing networks do.
	SameCurrency = "SAME"
)

// Route is one configured payment rail.
type Route struct {
	Name           string          `yaml:"name" json:"name" mapstructure:"name"`
	FeePercent     decimal.Decimal `yaml:"fee_percent" json:"fee_percent" mapstructure:"fee_percent"`
	EstimatedHours float64         `yaml:"estimated_hours" json:"estimated_hours" mapstructure:"estimated_hours"`
	SuccessRate    float64         `yaml:"success_rate" json:"success_rate" mapstructure:"success_rate"`
	Currencies     []string        `yaml:"currencies" json:"currencies" mapstructure:"currencies"`
	Countries      []string        `yaml:"countries" json:"countries" mapstructure:"countries"`
}

// Weights set the relative importance of each scoring criterion. They are
// renormalized over the criteria actually requested, so they need not sum
// to one.
type Weights struct {
	Cost        float64 `yaml:"cost" json:"cost" mapstructure:"cost"`
	Speed       float64 `yaml:"speed" json:"speed" mapstructure:"speed"`
	Reliability float64 `yaml:"reliability" json:"reliability" mapstructure:"reliability"`
}

// Config holds the route catalog and scoring parameters.
type Config struct {
	Routes  []Route `yaml:"routes" json:"routes" mapstructure:"routes"`
	Weights Weights `yaml:"weights" json:"weights" mapstructure:"weights"`

	// Fee and timing adjustments applied before scoring.
	BulkDiscountAboveUSD decimal.Decimal `yaml:"bulk_discount_above_usd" json:"bulk_discount_above_usd" mapstructure:"bulk_discount_above_usd"`
	SmallSurchargeBelow  decimal.Decimal `yaml:"small_surcharge_below" json:"small_surcharge_below" mapstructure:"small_surcharge_below"`
	HighRiskCountries    []string        `yaml:"high_risk_countries" json:"high_risk_countries" mapstructure:"high_risk_countries"`
}

// DefaultConfig returns the built-in route catalog.
func DefaultConfig() Config {
	return Config{
		Routes: []Route{
			{
				Name:           "SWIFT",
				FeePercent:     decimal.NewFromFloat(0.01),
				EstimatedHours: 24,
				SuccessRate:    0.98,
				Currencies:     nil,
				Countries:      []string{AnyCountry},
			},
			{
				Name:           "SEPA",
				FeePercent:     decimal.NewFromFloat(0.005),
				EstimatedHours: 1,
				SuccessRate:    0.99,
				Currencies:     []string{string(models.CurrencyEUR)},
				Countries:      []string{"DE", "FR", "IT", "ES"},
			},
			{
				Name:           "LOCAL_NETWORK",
				FeePercent:     decimal.NewFromFloat(0.002),
				EstimatedHours: 2,
				SuccessRate:    0.995,
				Currencies:     []string{SameCurrency},
				Countries:      []string{AnyCountry},
			},
			{
				Name:           "DIGITAL_WALLET",
				FeePercent:     decimal.NewFromFloat(0.015),
				EstimatedHours: 0.5,
				SuccessRate:    0.97,
				Currencies:     []string{string(models.CurrencyUSD), string(models.CurrencyEUR), string(models.CurrencyGBP)},
				Countries:      []string{"US", "GB", "CA", "AU"},
			},
		},
		Weights:              Weights{Cost: 0.4, Speed: 0.3, Reliability: 0.3},
		BulkDiscountAboveUSD: decimal.NewFromInt(10000),
		SmallSurchargeBelow:  decimal.NewFromInt(100),
		HighRiskCountries:    []string{"RU", "AR", "MX", "NG"},
	}
}

// Validate rejects malformed routing configuration at startup.
func (c Config) Validate() error {
	if len(c.Routes) == 0 {
		return fmt.Errorf("route catalog is empty")
	}
	seen := make(map[string]struct{}, len(c.Routes))
	for _, r := range c.Routes {
		if r.Name == "" {
			return fmt.Errorf("route with empty name")
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("duplicate route %s", r.Name)
		}
		seen[r.Name] = struct{}{}
		if r.FeePercent.IsNegative() {
			return fmt.Errorf("route %s: negative fee", r.Name)
		}
		if r.EstimatedHours <= 0 {
			return fmt.Errorf("route %s: estimated hours must be positive", r.Name)
		}
		if r.SuccessRate <= 0 || r.SuccessRate > 1 {
			return fmt.Errorf("route %s: success rate out of range (0,1]", r.Name)
		}
	}
	if c.Weights.Cost < 0 || c.Weights.Speed < 0 || c.Weights.Reliability < 0 {
		return fmt.Errorf("route weights must be non-negative")
	}
	if c.Weights.Cost+c.Weights.Speed+c.Weights.Reliability == 0 {
		return fmt.Errorf("at least one route weight must be positive")
	}
	return nil
}

// supportsCountries reports whether the route serves both endpoints.
func (r Route) supportsCountries(sender, recipient string) bool {
	covers := func(country string) bool {
		for _, cc := range r.Countries {
			if cc == AnyCountry || cc == country {
				return true
			}
		}
		return false
	}
	if len(r.Countries) == 0 {
		return true
	}
	return covers(sender) && covers(recipient)
}

// supportsCurrency reports whether the route can settle in the target
// currency. An empty currency list means the route settles anything.
func (r Route) supportsCurrency(source, target models.Currency) bool {
	if len(r.Currencies) == 0 {
		return true
	}
	for _, c := range r.Currencies {
		if c == SameCurrency {
			if target == source {
				return true
			}
			continue
		}
		if c == string(target) {
			return true
		}
	}
	return false
}
