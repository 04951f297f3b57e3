package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrail/riskcore/internal/currency"
	"github.com/payrail/riskcore/pkg/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRoundIdempotent(t *testing.T) {
	catalog := currency.DefaultCatalog()

	amounts := []string{"0.01", "1.005", "99.999", "1234.5", "1000000"}
	for _, code := range models.SupportedCurrencies() {
		for _, raw := range amounts {
			once := catalog.Round(d(raw), code)
			twice := catalog.Round(once, code)
			if !once.Equal(twice) {
				t.Errorf("%s: round not idempotent for %s: %s != %s", code, raw, once, twice)
			}
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	catalog := currency.DefaultCatalog()

	assert.True(t, catalog.Round(d("1.005"), models.CurrencyUSD).Equal(d("1.01")))
	assert.True(t, catalog.Round(d("1.004"), models.CurrencyUSD).Equal(d("1.00")))
	assert.True(t, catalog.Round(d("1234.5"), models.CurrencyJPY).Equal(d("1235")))
}

func TestValidateNonPositiveAmounts(t *testing.T) {
	catalog := currency.DefaultCatalog()

	for _, raw := range []string{"0", "-1", "-0.01", "-5000"} {
		result := catalog.Validate(d(raw), models.CurrencyUSD)
		if result.Valid {
			t.Errorf("expected %s to be invalid", raw)
		}
		assert.NotEmpty(t, result.Errors)
	}
}

func TestValidateBounds(t *testing.T) {
	catalog := currency.DefaultCatalog()

	result := catalog.Validate(d("2000000"), models.CurrencyUSD)
	assert.False(t, result.Valid)

	result = catalog.Validate(d("0.5"), models.CurrencyJPY)
	assert.False(t, result.Valid, "below JPY minimum of 1")
}

func TestValidatePrecision(t *testing.T) {
	catalog := currency.DefaultCatalog()

	result := catalog.Validate(d("10.005"), models.CurrencyUSD)
	assert.False(t, result.Valid)

	result = catalog.Validate(d("10.5"), models.CurrencyJPY)
	assert.False(t, result.Valid, "JPY allows no decimals")

	result = catalog.Validate(d("10.50"), models.CurrencyUSD)
	assert.True(t, result.Valid)
}

func TestValidateDenominationWarning(t *testing.T) {
	catalog := currency.DefaultCatalog()

	// RUB's smallest common denomination is 1; fractional amounts are
	// legal but unusual.
	result := catalog.Validate(d("10.50"), models.CurrencyRUB)
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)

	result = catalog.Validate(d("10.00"), models.CurrencyRUB)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestFormat(t *testing.T) {
	catalog := currency.DefaultCatalog()

	cases := []struct {
		code   models.Currency
		amount string
		want   string
	}{
		{models.CurrencyUSD, "1234567.89", "$1,234,567.89"},
		{models.CurrencyEUR, "1234.56", "€1.234,56"},
		{models.CurrencyGBP, "999.99", "£999.99"},
		{models.CurrencyJPY, "1234567", "¥1,234,567"},
		{models.CurrencyRUB, "1234.56", "1 234,56 ₽"},
		{models.CurrencyCHF, "1234.56", "CHF 1'234.56"},
		{models.CurrencyINR, "50000", "₹50,000.00"},
	}

	for _, tc := range cases {
		got := catalog.Format(d(tc.amount), tc.code)
		if got != tc.want {
			t.Errorf("Format(%s, %s) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestInfo(t *testing.T) {
	catalog := currency.DefaultCatalog()

	info := catalog.Info(models.CurrencyEUR)
	assert.Equal(t, models.CurrencyEUR, info.Code)
	assert.Equal(t, "€1.234,56", info.FormatExample)
	assert.True(t, info.IsDecimalCurrency)

	info = catalog.Info(models.CurrencyJPY)
	assert.False(t, info.IsDecimalCurrency)
}

func TestUnknownCurrencyFallsBackToUSD(t *testing.T) {
	catalog := currency.DefaultCatalog()

	got := catalog.Format(d("1000"), models.Currency("XXX"))
	assert.Equal(t, "$1,000.00", got)
}

func TestConvertAndFormat(t *testing.T) {
	catalog := currency.DefaultCatalog()

	conv := catalog.ConvertAndFormat(d("100"), models.CurrencyUSD, models.CurrencyEUR, d("0.85"))
	require.True(t, conv.Converted.Amount.Equal(d("85.00")))
	assert.Equal(t, "€85,00", conv.Converted.Formatted)
	assert.True(t, conv.IsAccurate)

	// A rate that produces sub-cent precision loses accuracy on rounding.
	conv = catalog.ConvertAndFormat(d("100"), models.CurrencyUSD, models.CurrencyEUR, d("0.853333"))
	assert.False(t, conv.IsAccurate)
}

func TestNewCatalogRejectsBadRules(t *testing.T) {
	rules := currency.DefaultRules()
	rules[0].MaximumAmount = decimal.Zero

	_, err := currency.NewCatalog(rules)
	require.Error(t, err)
}
