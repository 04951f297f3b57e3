package rates_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrail/riskcore/internal/rates"
	"github.com/payrail/riskcore/pkg/errors"
	"github.com/payrail/riskcore/pkg/models"
)

type countingProvider struct {
	inner rates.Provider
	calls int
	fail  bool
}

func (p *countingProvider) Rate(ctx context.Context, base, quote models.Currency) (decimal.Decimal, error) {
	p.calls++
	if p.fail {
		return decimal.Zero, fmt.Errorf("provider down")
	}
	return p.inner.Rate(ctx, base, quote)
}

func TestStaticProviderResolution(t *testing.T) {
	p := rates.NewStaticProvider()
	ctx := context.Background()

	rate, err := p.Rate(ctx, models.CurrencyUSD, models.CurrencyEUR)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.85")))

	// Identity.
	rate, err = p.Rate(ctx, models.CurrencyJPY, models.CurrencyJPY)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))

	// Inverse of USD_JPY.
	rate, err = p.Rate(ctx, models.CurrencyJPY, models.CurrencyUSD)
	require.NoError(t, err)
	one := decimal.NewFromInt(1)
	assert.True(t, rate.Equal(one.Div(decimal.RequireFromString("110.5"))))

	// GBP->JPY crosses through USD.
	rate, err = p.Rate(ctx, models.CurrencyGBP, models.CurrencyJPY)
	require.NoError(t, err)
	expected := one.Div(decimal.RequireFromString("0.73")).Mul(decimal.RequireFromString("110.5"))
	assert.True(t, rate.Equal(expected), "got %s want %s", rate, expected)
}

func TestStaticProviderUnknownPair(t *testing.T) {
	p := rates.NewStaticProviderWithRates(map[string]decimal.Decimal{
		"USD_EUR": decimal.RequireFromString("0.85"),
	})
	_, err := p.Rate(context.Background(), models.CurrencyJPY, models.CurrencyKRW)
	assert.Error(t, err)
}

func TestServiceCachesWithinFreshnessWindow(t *testing.T) {
	p := &countingProvider{inner: rates.NewStaticProvider()}
	svc := rates.NewService(p, nil, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rate, err := svc.Rate(ctx, models.CurrencyUSD, models.CurrencyEUR)
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.RequireFromString("0.85")))
	}
	assert.Equal(t, 1, p.calls)
}

func TestServiceStaleFallback(t *testing.T) {
	p := &countingProvider{inner: rates.NewStaticProvider()}
	store := rates.NewMemoryStore()
	svc := rates.NewService(p, store, time.Minute, nil)
	ctx := context.Background()

	_, err := svc.Rate(ctx, models.CurrencyUSD, models.CurrencyEUR)
	require.NoError(t, err)

	// Age the cached entry past the freshness window, then kill the
	// provider: the stale rate is still served.
	require.NoError(t, store.Set(ctx, "USD_EUR", rates.Entry{
		Rate:      decimal.RequireFromString("0.85"),
		FetchedAt: time.Now().Add(-time.Hour),
	}))
	p.fail = true

	rate, err := svc.Rate(ctx, models.CurrencyUSD, models.CurrencyEUR)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.85")))
}

func TestServiceUnavailableWithoutCache(t *testing.T) {
	p := &countingProvider{inner: rates.NewStaticProvider(), fail: true}
	svc := rates.NewService(p, nil, time.Minute, nil)

	_, err := svc.Rate(context.Background(), models.CurrencyUSD, models.CurrencyEUR)
	require.Error(t, err)
	assert.True(t, errors.IsRateUnavailable(err))
	assert.Equal(t, errors.CodeRateUnavailable, errors.CodeOf(err))
}

func TestServiceConvert(t *testing.T) {
	svc := rates.NewService(rates.NewStaticProvider(), nil, time.Minute, nil)

	converted, rate, err := svc.Convert(context.Background(), decimal.NewFromInt(100), models.CurrencyUSD, models.CurrencyEUR)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.85")))
	assert.True(t, converted.Equal(decimal.NewFromInt(85)))
}

func TestServiceIdentityPairSkipsProvider(t *testing.T) {
	p := &countingProvider{inner: rates.NewStaticProvider(), fail: true}
	svc := rates.NewService(p, nil, time.Minute, nil)

	rate, err := svc.Rate(context.Background(), models.CurrencyEUR, models.CurrencyEUR)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	assert.Zero(t, p.calls)
}
