package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code supported by the evaluator.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyKRW Currency = "KRW"
	CurrencyRUB Currency = "RUB"
	CurrencyCHF Currency = "CHF"
	CurrencyARS Currency = "ARS"
	CurrencyMXN Currency = "MXN"
	CurrencyINR Currency = "INR"
)

// SupportedCurrencies lists every currency the evaluator knows about.
func SupportedCurrencies() []Currency {
	return []Currency{
		CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY, CurrencyKRW,
		CurrencyRUB, CurrencyCHF, CurrencyARS, CurrencyMXN, CurrencyINR,
	}
}

// RiskLevel represents the assessed risk of a transfer or jurisdiction.
type RiskLevel string

const (
	RiskLevelMinimal RiskLevel = "MINIMAL"
	RiskLevelLow     RiskLevel = "LOW"
	RiskLevelMedium  RiskLevel = "MEDIUM"
	RiskLevelHigh    RiskLevel = "HIGH"
)

func (r RiskLevel) rank() int {
	switch r {
	case RiskLevelLow:
		return 1
	case RiskLevelMedium:
		return 2
	case RiskLevelHigh:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r is at or above the given level.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.rank() >= other.rank()
}

// Max returns the higher of two risk levels.
func (r RiskLevel) Max(other RiskLevel) RiskLevel {
	if other.rank() > r.rank() {
		return other
	}
	return r
}

// Recommendation is the primary action derived from a risk assessment.
type Recommendation string

const (
	RecommendationProceed      Recommendation = "PROCEED"
	RecommendationRequire2FA   Recommendation = "REQUIRE_2FA"
	RecommendationManualReview Recommendation = "MANUAL_REVIEW"
	RecommendationBlock        Recommendation = "BLOCK"
)

// Party identifies one side of a transfer.
type Party struct {
	Name      string `json:"name" validate:"required"`
	AccountID string `json:"account_id" validate:"required"`
	Country   string `json:"country" validate:"required,len=2,uppercase"`
	// Currency is the party's account currency (sender side).
	Currency Currency `json:"currency,omitempty"`
	// BankCode routes to the recipient's institution (recipient side).
	BankCode string `json:"bank_code,omitempty"`
}

// TransferRequest is an immutable description of a proposed cross-border
// transfer. Amount is always expressed in SourceCurrency.
type TransferRequest struct {
	Sender         Party           `json:"sender" validate:"required"`
	Recipient      Party           `json:"recipient" validate:"required"`
	Amount         decimal.Decimal `json:"amount"`
	SourceCurrency Currency        `json:"source_currency" validate:"required"`
	TargetCurrency Currency        `json:"target_currency" validate:"required"`
	RequestedAt    time.Time       `json:"requested_at"`
}

// Domestic reports whether sender and recipient are in the same country.
func (t TransferRequest) Domestic() bool {
	return t.Sender.Country == t.Recipient.Country
}

// SecurityContext carries device and network signals captured by the caller.
type SecurityContext struct {
	UserIP            string            `json:"user_ip"`
	UserAgent         string            `json:"user_agent"`
	DeviceFingerprint map[string]string `json:"device_fingerprint"`
	SessionID         string            `json:"session_id"`
}
