// Package rates supplies exchange rates with a cache in front of a
// pluggable provider. Rates older than the freshness window are refreshed;
// when the provider is down the last known rate is served as a degraded
// fallback.
package rates

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/payrail/riskcore/pkg/models"
)

// Provider fetches an exchange rate for a currency pair.
type Provider interface {
	Rate(ctx context.Context, base, quote models.Currency) (decimal.Decimal, error)
}

// StaticProvider serves rates from a fixed table. It resolves pairs
// directly, by inverting the opposite pair, or by crossing through USD.
type StaticProvider struct {
	rates map[string]decimal.Decimal
}

// NewStaticProvider returns a provider backed by the built-in rate table.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{rates: map[string]decimal.Decimal{
		"USD_EUR": decimal.RequireFromString("0.85"),
		"USD_GBP": decimal.RequireFromString("0.73"),
		"USD_JPY": decimal.RequireFromString("110.5"),
		"USD_KRW": decimal.RequireFromString("1180"),
		"USD_RUB": decimal.RequireFromString("75"),
		"USD_CHF": decimal.RequireFromString("0.92"),
		"USD_ARS": decimal.RequireFromString("95"),
		"USD_MXN": decimal.RequireFromString("20"),
		"USD_INR": decimal.RequireFromString("74"),
		"EUR_USD": decimal.RequireFromString("1.18"),
		"EUR_GBP": decimal.RequireFromString("0.86"),
	}}
}

// NewStaticProviderWithRates returns a provider over a caller-supplied
// table keyed as BASE_QUOTE.
func NewStaticProviderWithRates(rates map[string]decimal.Decimal) *StaticProvider {
	table := make(map[string]decimal.Decimal, len(rates))
	for pair, rate := range rates {
		table[pair] = rate
	}
	return &StaticProvider{rates: table}
}

func pairKey(base, quote models.Currency) string {
	return string(base) + "_" + string(quote)
}

// Rate resolves the pair. Identical currencies convert at 1.
func (p *StaticProvider) Rate(_ context.Context, base, quote models.Currency) (decimal.Decimal, error) {
	if base == quote {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := p.lookup(base, quote); ok {
		return rate, nil
	}
	// Cross through USD.
	toUSD, ok := p.lookup(base, models.CurrencyUSD)
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s/%s", base, quote)
	}
	fromUSD, ok := p.lookup(models.CurrencyUSD, quote)
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s/%s", base, quote)
	}
	return toUSD.Mul(fromUSD), nil
}

// lookup resolves a pair directly or by inverting the opposite entry.
func (p *StaticProvider) lookup(base, quote models.Currency) (decimal.Decimal, bool) {
	if rate, ok := p.rates[pairKey(base, quote)]; ok {
		return rate, true
	}
	if inverse, ok := p.rates[pairKey(quote, base)]; ok && inverse.IsPositive() {
		return decimal.NewFromInt(1).Div(inverse), true
	}
	return decimal.Zero, false
}
