// Package regional holds the per-country compliance rule table. The table
// is a versioned configuration document loaded once at startup and never
// mutated afterwards; lookups for unknown country codes return no rule and
// the caller must treat the country as unrestricted.
package regional

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/payrail/riskcore/pkg/models"
)

// CountryRule describes the regulatory constraints for one country. All
// monetary limits are USD-equivalent.
type CountryRule struct {
	Country           string          `yaml:"country" json:"country" mapstructure:"country"`
	MaxAmount         decimal.Decimal `yaml:"max_amount" json:"max_amount" mapstructure:"max_amount"`
	KYCRequired       bool            `yaml:"kyc_required" json:"kyc_required" mapstructure:"kyc_required"`
	RequiredDocuments []string        `yaml:"required_documents" json:"required_documents" mapstructure:"required_documents"`
	RiskTier          models.RiskLevel `yaml:"risk_tier" json:"risk_tier" mapstructure:"risk_tier"`
	// ReportingThreshold defaults to MaxAmount when zero: documents are
	// demanded only for amounts strictly above it.
	ReportingThreshold decimal.Decimal `yaml:"reporting_threshold" json:"reporting_threshold" mapstructure:"reporting_threshold"`
	AdditionalChecks   []string        `yaml:"additional_checks" json:"additional_checks" mapstructure:"additional_checks"`
}

// threshold resolves the effective reporting threshold.
func (r CountryRule) threshold() decimal.Decimal {
	if r.ReportingThreshold.IsPositive() {
		return r.ReportingThreshold
	}
	return r.MaxAmount
}

// Table is a read-only country rule lookup.
type Table struct {
	rules map[string]CountryRule
}

// NewTable validates the rule document at load time and builds a table.
func NewTable(rules []CountryRule) (*Table, error) {
	byCountry := make(map[string]CountryRule, len(rules))
	for _, r := range rules {
		if len(r.Country) != 2 {
			return nil, fmt.Errorf("country rule %q: code must be two letters", r.Country)
		}
		if _, dup := byCountry[r.Country]; dup {
			return nil, fmt.Errorf("duplicate country rule for %s", r.Country)
		}
		if !r.MaxAmount.IsPositive() {
			return nil, fmt.Errorf("country rule %s: max_amount must be positive", r.Country)
		}
		switch r.RiskTier {
		case models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh:
		default:
			return nil, fmt.Errorf("country rule %s: unknown risk tier %q", r.Country, r.RiskTier)
		}
		byCountry[r.Country] = r
	}
	return &Table{rules: byCountry}, nil
}

// DefaultTable returns the built-in country rule document.
func DefaultTable() *Table {
	t, err := NewTable(DefaultRules())
	if err != nil {
		panic(err)
	}
	return t
}

// Get returns the rule for a country. ok is false for unknown codes, which
// callers must treat as unrestricted, never as an error.
func (t *Table) Get(country string) (CountryRule, bool) {
	r, ok := t.rules[country]
	return r, ok
}

// RequiredDocuments returns the country's document set when amountUSD
// exceeds its reporting threshold, otherwise an empty set.
func (t *Table) RequiredDocuments(country string, amountUSD decimal.Decimal) []string {
	rule, ok := t.rules[country]
	if !ok {
		return nil
	}
	if amountUSD.GreaterThan(rule.threshold()) {
		docs := make([]string, len(rule.RequiredDocuments))
		copy(docs, rule.RequiredDocuments)
		return docs
	}
	return nil
}

// Countries returns the covered country codes in sorted order.
func (t *Table) Countries() []string {
	codes := make([]string, 0, len(t.rules))
	for c := range t.rules {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// DefaultRules returns the built-in per-country rule set.
func DefaultRules() []CountryRule {
	usd := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	return []CountryRule{
		{
			Country: "US", MaxAmount: usd(10000), KYCRequired: true,
			RequiredDocuments: []string{"id", "proof_of_address"},
			RiskTier:          models.RiskLevelMedium,
			AdditionalChecks:  []string{"ofac_screening", "source_of_funds"},
		},
		{
			Country: "RU", MaxAmount: usd(1000000), KYCRequired: true,
			RequiredDocuments:  []string{"passport", "tax_id"},
			RiskTier:           models.RiskLevelHigh,
			ReportingThreshold: usd(600000),
			AdditionalChecks:   []string{"sanctions_check", "enhanced_kyc"},
		},
		{
			Country: "CH", MaxAmount: usd(10000), KYCRequired: true,
			RequiredDocuments: []string{"id_card", "residence_proof"},
			RiskTier:          models.RiskLevelLow,
			AdditionalChecks:  []string{"bank_reference"},
		},
		{
			Country: "AR", MaxAmount: usd(1000), KYCRequired: true,
			RequiredDocuments: []string{"dni", "cuit"},
			RiskTier:          models.RiskLevelMedium,
			AdditionalChecks:  []string{"central_bank_approval"},
		},
		{
			Country: "MX", MaxAmount: usd(2000), KYCRequired: true,
			RequiredDocuments: []string{"ine", "rfc"},
			RiskTier:          models.RiskLevelMedium,
			AdditionalChecks:  []string{"sat_notification"},
		},
		{
			Country: "ES", MaxAmount: usd(5000), KYCRequired: true,
			RequiredDocuments: []string{"dni", "nie"},
			RiskTier:          models.RiskLevelLow,
			AdditionalChecks:  []string{"sepblac_report"},
		},
		{
			Country: "JP", MaxAmount: usd(1000000), KYCRequired: true,
			RequiredDocuments: []string{"my_number", "residence_card"},
			RiskTier:          models.RiskLevelLow,
			AdditionalChecks:  []string{"fsa_compliance"},
		},
		{
			Country: "KR", MaxAmount: usd(10000), KYCRequired: true,
			RequiredDocuments: []string{"resident_id", "business_registration"},
			RiskTier:          models.RiskLevelMedium,
			AdditionalChecks:  []string{"fss_approval"},
		},
		{
			Country: "DE", MaxAmount: usd(12500), KYCRequired: true,
			RequiredDocuments: []string{"personalausweis", "steuer_id"},
			RiskTier:          models.RiskLevelLow,
			AdditionalChecks:  []string{"bundesbank_report"},
		},
		{
			Country: "FR", MaxAmount: usd(3000), KYCRequired: true,
			RequiredDocuments: []string{"carte_identite", "tax_notice"},
			RiskTier:          models.RiskLevelLow,
			AdditionalChecks:  []string{"tracfin_notification"},
		},
		{
			Country: "IT", MaxAmount: usd(5000), KYCRequired: true,
			RequiredDocuments: []string{"carta_identita", "codice_fiscale"},
			RiskTier:          models.RiskLevelLow,
			AdditionalChecks:  []string{"uif_report"},
		},
		{
			Country: "IN", MaxAmount: usd(250000), KYCRequired: true,
			RequiredDocuments: []string{"aadhaar", "pan_card"},
			RiskTier:          models.RiskLevelMedium,
			AdditionalChecks:  []string{"rbi_approval", "fema_compliance"},
		},
	}
}
