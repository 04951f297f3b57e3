package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Factor tags accumulated by the scorer. Each triggered factor contributes
// its configured points; contributions are never negative.
const (
	FactorRoundAmount        = "ROUND_AMOUNT"
	FactorJustBelowThreshold = "JUST_BELOW_THRESHOLD"
	FactorLargeAmount        = "LARGE_AMOUNT"
	FactorHighRiskCountry    = "HIGH_RISK_COUNTRY"
	FactorUnusualRoute       = "UNUSUAL_GEOGRAPHIC_ROUTE"
	FactorCrossBorder        = "CROSS_BORDER_TRANSACTION"
	FactorHighFrequency      = "HIGH_TRANSACTION_FREQUENCY"
	FactorRapidSuccession    = "RAPID_SUCCESSIVE_TRANSACTIONS"
	FactorHighDailyVolume    = "HIGH_DAILY_VOLUME"
	FactorNewRecipients      = "MULTIPLE_NEW_RECIPIENTS"
	FactorOffHours           = "OFF_HOURS_TRANSACTION"
	FactorWeekend            = "WEEKEND_TRANSACTION"
	FactorSuspiciousIP       = "SUSPICIOUS_IP"
	FactorMissingFingerprint = "MISSING_DEVICE_FINGERPRINT"
)

// Thresholds maps a total score to a risk level.
type Thresholds struct {
	High   int `yaml:"high" json:"high" mapstructure:"high"`
	Medium int `yaml:"medium" json:"medium" mapstructure:"medium"`
	Low    int `yaml:"low" json:"low" mapstructure:"low"`
}

// VelocityLimits bound per-user transaction velocity before the behavior
// analyzer starts flagging.
type VelocityLimits struct {
	DailyAmountUSD      decimal.Decimal `yaml:"daily_amount_usd" json:"daily_amount_usd" mapstructure:"daily_amount_usd"`
	DailyCount          int             `yaml:"daily_count" json:"daily_count" mapstructure:"daily_count"`
	HourlyCount         int             `yaml:"hourly_count" json:"hourly_count" mapstructure:"hourly_count"`
	NewRecipientsPerDay int             `yaml:"new_recipients_per_day" json:"new_recipients_per_day" mapstructure:"new_recipients_per_day"`
}

// CountryPair is an ordered sender/recipient country combination.
type CountryPair struct {
	From string `yaml:"from" json:"from" mapstructure:"from"`
	To   string `yaml:"to" json:"to" mapstructure:"to"`
}

// Config holds every heuristic constant the scorer uses. The defaults are
// historical values, not calibrated ones; treat them as tunables.
type Config struct {
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds" mapstructure:"thresholds"`

	FactorPoints map[string]int `yaml:"factor_points" json:"factor_points" mapstructure:"factor_points"`

	RoundAmounts     []decimal.Decimal `yaml:"round_amounts" json:"round_amounts" mapstructure:"round_amounts"`
	JustBelowAmounts []decimal.Decimal `yaml:"just_below_amounts" json:"just_below_amounts" mapstructure:"just_below_amounts"`
	LargeAmountUSD   decimal.Decimal   `yaml:"large_amount_usd" json:"large_amount_usd" mapstructure:"large_amount_usd"`

	HighRiskCountries []string      `yaml:"high_risk_countries" json:"high_risk_countries" mapstructure:"high_risk_countries"`
	UnusualRoutes     []CountryPair `yaml:"unusual_routes" json:"unusual_routes" mapstructure:"unusual_routes"`

	Velocity VelocityLimits `yaml:"velocity" json:"velocity" mapstructure:"velocity"`

	OffHoursUTC          []int    `yaml:"off_hours_utc" json:"off_hours_utc" mapstructure:"off_hours_utc"`
	SuspiciousIPPrefixes []string `yaml:"suspicious_ip_prefixes" json:"suspicious_ip_prefixes" mapstructure:"suspicious_ip_prefixes"`

	// FactorWeights feed the confidence estimate; tags not listed use
	// DefaultFactorWeight.
	FactorWeights       map[string]float64 `yaml:"factor_weights" json:"factor_weights" mapstructure:"factor_weights"`
	DefaultFactorWeight float64            `yaml:"default_factor_weight" json:"default_factor_weight" mapstructure:"default_factor_weight"`
}

// DefaultConfig returns the historical scoring constants.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{High: 70, Medium: 40, Low: 20},
		FactorPoints: map[string]int{
			FactorRoundAmount:        15,
			FactorJustBelowThreshold: 20,
			FactorLargeAmount:        25,
			FactorHighRiskCountry:    30,
			FactorUnusualRoute:       25,
			FactorCrossBorder:        10,
			FactorHighFrequency:      20,
			FactorRapidSuccession:    25,
			FactorHighDailyVolume:    30,
			FactorNewRecipients:      15,
			FactorOffHours:           15,
			FactorWeekend:            10,
			FactorSuspiciousIP:       25,
			FactorMissingFingerprint: 10,
		},
		RoundAmounts: []decimal.Decimal{
			decimal.NewFromInt(1000), decimal.NewFromInt(5000), decimal.NewFromInt(10000),
		},
		JustBelowAmounts: []decimal.Decimal{
			decimal.NewFromInt(999), decimal.NewFromInt(4999), decimal.NewFromInt(9999),
		},
		LargeAmountUSD:    decimal.NewFromInt(10000),
		HighRiskCountries: []string{"RU", "AR", "MX", "NG", "VE"},
		UnusualRoutes: []CountryPair{
			{From: "US", To: "RU"},
			{From: "GB", To: "VE"},
			{From: "DE", To: "NG"},
		},
		Velocity: VelocityLimits{
			DailyAmountUSD:      decimal.NewFromInt(50000),
			DailyCount:          10,
			HourlyCount:         3,
			NewRecipientsPerDay: 3,
		},
		OffHoursUTC:          []int{0, 1, 2, 3, 4, 5},
		SuspiciousIPPrefixes: []string{"192.168.", "10.0.", "172.16."},
		FactorWeights: map[string]float64{
			FactorHighRiskCountry:    0.8,
			FactorLargeAmount:        0.7,
			FactorRapidSuccession:    0.75,
			FactorSuspiciousIP:       0.9,
			FactorJustBelowThreshold: 0.6,
		},
		DefaultFactorWeight: 0.5,
	}
}

// Validate rejects malformed scoring configuration at startup.
func (c Config) Validate() error {
	if c.Thresholds.High <= c.Thresholds.Medium || c.Thresholds.Medium <= c.Thresholds.Low || c.Thresholds.Low <= 0 {
		return fmt.Errorf("risk thresholds must satisfy 0 < low < medium < high")
	}
	for tag, points := range c.FactorPoints {
		if points < 0 {
			return fmt.Errorf("risk factor %s: negative point contribution", tag)
		}
	}
	if c.DefaultFactorWeight <= 0 || c.DefaultFactorWeight > 1 {
		return fmt.Errorf("default factor weight must be in (0,1]")
	}
	for tag, w := range c.FactorWeights {
		if w <= 0 || w > 1 {
			return fmt.Errorf("factor weight %s out of range (0,1]", tag)
		}
	}
	for _, h := range c.OffHoursUTC {
		if h < 0 || h > 23 {
			return fmt.Errorf("off hour %d out of range", h)
		}
	}
	if !c.LargeAmountUSD.IsPositive() {
		return fmt.Errorf("large amount threshold must be positive")
	}
	return nil
}

func (c Config) points(tag string) int {
	return c.FactorPoints[tag]
}
