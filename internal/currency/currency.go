// Package currency normalizes, validates, and renders monetary amounts
// according to per-currency formatting rules. All operations are pure
// functions over the catalog; nothing here performs I/O.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/payrail/riskcore/pkg/models"
)

// ValidationResult reports whether an amount is acceptable for a currency.
// Warnings are informational and never fail validation.
type ValidationResult struct {
	Valid         bool            `json:"valid"`
	Errors        []string        `json:"errors,omitempty"`
	Warnings      []string        `json:"warnings,omitempty"`
	RoundedAmount decimal.Decimal `json:"rounded_amount"`
}

// Info is a presentational summary of a currency's rules.
type Info struct {
	Code              models.Currency `json:"code"`
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	DecimalPlaces     int32           `json:"decimal_places"`
	FormatExample     string          `json:"format_example"`
	MinimumAmount     decimal.Decimal `json:"minimum_amount"`
	MaximumAmount     decimal.Decimal `json:"maximum_amount"`
	IsDecimalCurrency bool            `json:"is_decimal_currency"`
}

// ConversionLeg is one side of a dual-currency render.
type ConversionLeg struct {
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
	Currency  models.Currency `json:"currency"`
}

// Conversion is the result of converting and formatting across currencies.
type Conversion struct {
	Original     ConversionLeg   `json:"original"`
	Converted    ConversionLeg   `json:"converted"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	// IsAccurate is false when rounding to the target currency's decimal
	// places lost precision.
	IsAccurate bool `json:"is_accurate"`
}

// Rule returns the rule for a currency, falling back to USD for unknown
// codes.
func (c *Catalog) Rule(code models.Currency) Rule {
	if r, ok := c.rules[code]; ok {
		return r
	}
	return c.rules[models.CurrencyUSD]
}

// Round truncates an amount to the currency's decimal places using
// round-half-up. The result is never negative zero.
func (c *Catalog) Round(amount decimal.Decimal, code models.Currency) decimal.Decimal {
	rule := c.Rule(code)
	rounded := amount.Round(rule.DecimalPlaces)
	if rounded.IsZero() {
		return decimal.Zero
	}
	return rounded
}

// Validate checks an amount against the currency's minimum, maximum, and
// decimal precision. A non-denomination amount only yields a warning.
func (c *Catalog) Validate(amount decimal.Decimal, code models.Currency) ValidationResult {
	rule := c.Rule(code)
	result := ValidationResult{
		Valid:         true,
		RoundedAmount: c.Round(amount, code),
	}

	if amount.LessThan(rule.MinimumAmount) {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("amount below minimum %s", c.Format(rule.MinimumAmount, code)))
	}
	if amount.GreaterThan(rule.MaximumAmount) {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("amount above maximum %s", c.Format(rule.MaximumAmount, code)))
	}
	if !amount.Equal(amount.Truncate(rule.DecimalPlaces)) {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("amount has too many decimal places (max %d)", rule.DecimalPlaces))
	}
	if !amount.Mod(rule.SmallestDenomination).IsZero() {
		result.Warnings = append(result.Warnings,
			"amount is not a multiple of the smallest common denomination")
	}

	return result
}

// Format renders an amount with the currency's separators and symbol
// placement. Purely presentational.
func (c *Catalog) Format(amount decimal.Decimal, code models.Currency) string {
	rule := c.Rule(code)
	number := c.formatNumber(c.Round(amount, code), rule)

	switch rule.Placement {
	case PlacementPrefixSpace:
		return rule.Symbol + " " + number
	case PlacementSuffix:
		return number + " " + rule.Symbol
	default:
		return rule.Symbol + number
	}
}

func (c *Catalog) formatNumber(amount decimal.Decimal, rule Rule) string {
	fixed := amount.StringFixed(rule.DecimalPlaces)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	integerPart := fixed
	fractionPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		integerPart, fractionPart = fixed[:idx], fixed[idx+1:]
	}

	var grouped strings.Builder
	for i, digit := range integerPart {
		if i > 0 && (len(integerPart)-i)%3 == 0 {
			grouped.WriteString(rule.ThousandsSeparator)
		}
		grouped.WriteRune(digit)
	}

	out := grouped.String()
	if fractionPart != "" {
		out += rule.DecimalSeparator + fractionPart
	}
	if negative {
		out = "-" + out
	}
	return out
}

// Info returns a presentational summary for a currency.
func (c *Catalog) Info(code models.Currency) Info {
	rule := c.Rule(code)
	return Info{
		Code:              rule.Code,
		Symbol:            rule.Symbol,
		Name:              rule.Name,
		DecimalPlaces:     rule.DecimalPlaces,
		FormatExample:     c.Format(decimal.RequireFromString("1234.56"), code),
		MinimumAmount:     rule.MinimumAmount,
		MaximumAmount:     rule.MaximumAmount,
		IsDecimalCurrency: rule.DecimalPlaces > 0,
	}
}

// ConvertAndFormat converts an amount at the given rate and renders both
// legs. IsAccurate is false when target-currency rounding lost precision.
func (c *Catalog) ConvertAndFormat(amount decimal.Decimal, from, to models.Currency, rate decimal.Decimal) Conversion {
	converted := amount.Mul(rate)
	rounded := c.Round(converted, to)

	return Conversion{
		Original: ConversionLeg{
			Amount:    amount,
			Formatted: c.Format(amount, from),
			Currency:  from,
		},
		Converted: ConversionLeg{
			Amount:    rounded,
			Formatted: c.Format(rounded, to),
			Currency:  to,
		},
		ExchangeRate: rate,
		IsAccurate:   converted.Equal(rounded),
	}
}
