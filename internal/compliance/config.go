// Package compliance combines sanctions screening, AML heuristics, and
// regional limits into a single transfer verdict.
package compliance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/payrail/riskcore/pkg/models"
)

// AML flag tags recorded on the verdict.
const (
	FlagHighAmount           = "HIGH_AMOUNT"
	FlagHighRiskJurisdiction = "HIGH_RISK_JURISDICTION"
	FlagPEP                  = "POLITICALLY_EXPOSED_PERSON"
)

// Pair is an ordered sender/recipient country combination.
type Pair struct {
	From string `yaml:"from" json:"from" mapstructure:"from"`
	To   string `yaml:"to" json:"to" mapstructure:"to"`
}

// TierThresholds map an accumulated compliance risk score to a tier.
type TierThresholds struct {
	High   int `yaml:"high" json:"high" mapstructure:"high"`
	Medium int `yaml:"medium" json:"medium" mapstructure:"medium"`
	Low    int `yaml:"low" json:"low" mapstructure:"low"`
}

// Config holds the compliance rule set.
type Config struct {
	// HighRiskJurisdictions auto-reject the AML check when the recipient
	// country is listed.
	HighRiskJurisdictions []string `yaml:"high_risk_jurisdictions" json:"high_risk_jurisdictions" mapstructure:"high_risk_jurisdictions"`
	// RestrictedPairs are corridors rejected outright by the regional check.
	RestrictedPairs []Pair `yaml:"restricted_pairs" json:"restricted_pairs" mapstructure:"restricted_pairs"`

	// EnhancedDueDiligenceUSD triggers the HIGH_AMOUNT flag and the
	// supplementary document set.
	EnhancedDueDiligenceUSD decimal.Decimal `yaml:"enhanced_due_diligence_usd" json:"enhanced_due_diligence_usd" mapstructure:"enhanced_due_diligence_usd"`
	// ReportableAmountUSD adds the larger amount-band score contribution.
	ReportableAmountUSD decimal.Decimal `yaml:"reportable_amount_usd" json:"reportable_amount_usd" mapstructure:"reportable_amount_usd"`
	// SupplementaryDocuments are required above the due-diligence amount.
	SupplementaryDocuments []string `yaml:"supplementary_documents" json:"supplementary_documents" mapstructure:"supplementary_documents"`

	// Tier scoring parameters.
	TierThresholds       TierThresholds `yaml:"tier_thresholds" json:"tier_thresholds" mapstructure:"tier_thresholds"`
	CountryTierPoints    map[string]int `yaml:"country_tier_points" json:"country_tier_points" mapstructure:"country_tier_points"`
	SanctionsFailPoints  int            `yaml:"sanctions_fail_points" json:"sanctions_fail_points" mapstructure:"sanctions_fail_points"`
	AMLFlagPoints        int            `yaml:"aml_flag_points" json:"aml_flag_points" mapstructure:"aml_flag_points"`
	AmountBandPoints     int            `yaml:"amount_band_points" json:"amount_band_points" mapstructure:"amount_band_points"`
	ReportableBandPoints int            `yaml:"reportable_band_points" json:"reportable_band_points" mapstructure:"reportable_band_points"`
}

// DefaultConfig returns the historical compliance rule set.
func DefaultConfig() Config {
	return Config{
		HighRiskJurisdictions: []string{"RU", "AR", "MX", "NG", "VE"},
		RestrictedPairs: []Pair{
			{From: "US", To: "CU"},
			{From: "US", To: "IR"},
			{From: "US", To: "SY"},
			{From: "US", To: "KP"},
		},
		EnhancedDueDiligenceUSD: decimal.NewFromInt(10000),
		ReportableAmountUSD:     decimal.NewFromInt(50000),
		SupplementaryDocuments:  []string{"source_of_funds", "purpose_of_payment"},
		TierThresholds:          TierThresholds{High: 70, Medium: 40, Low: 20},
		CountryTierPoints: map[string]int{
			string(models.RiskLevelLow):    0,
			string(models.RiskLevelMedium): 20,
			string(models.RiskLevelHigh):   40,
		},
		SanctionsFailPoints:  60,
		AMLFlagPoints:        15,
		AmountBandPoints:     15,
		ReportableBandPoints: 30,
	}
}

// Validate rejects malformed compliance configuration at startup.
func (c Config) Validate() error {
	if c.TierThresholds.High <= c.TierThresholds.Medium || c.TierThresholds.Medium <= c.TierThresholds.Low || c.TierThresholds.Low <= 0 {
		return fmt.Errorf("tier thresholds must satisfy 0 < low < medium < high")
	}
	if !c.EnhancedDueDiligenceUSD.IsPositive() || !c.ReportableAmountUSD.IsPositive() {
		return fmt.Errorf("amount bands must be positive")
	}
	if c.ReportableAmountUSD.LessThanOrEqual(c.EnhancedDueDiligenceUSD) {
		return fmt.Errorf("reportable amount must exceed the due-diligence amount")
	}
	for _, cc := range c.HighRiskJurisdictions {
		if len(cc) != 2 {
			return fmt.Errorf("high-risk jurisdiction: invalid country code %q", cc)
		}
	}
	for _, p := range c.RestrictedPairs {
		if len(p.From) != 2 || len(p.To) != 2 {
			return fmt.Errorf("restricted pair %s->%s: invalid country code", p.From, p.To)
		}
	}
	return nil
}
