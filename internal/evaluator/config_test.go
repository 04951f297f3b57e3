package evaluator_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrail/riskcore/internal/evaluator"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := evaluator.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Currencies, 10)
	assert.Len(t, cfg.Routing.Routes, 4)
	assert.Equal(t, 5*time.Minute, cfg.Rates.Freshness)
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := evaluator.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	doc := `
log_level: debug
risk:
  large_amount_usd: "20000"
  thresholds:
    high: 80
    medium: 50
    low: 25
rates:
  freshness: 10m
`
	path := filepath.Join(t.TempDir(), "riskcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := evaluator.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Risk.LargeAmountUSD.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, 80, cfg.Risk.Thresholds.High)
	assert.Equal(t, 10*time.Minute, cfg.Rates.Freshness)
	// Untouched sections keep their defaults.
	assert.Len(t, cfg.Routing.Routes, 4)
	assert.Equal(t, 25, cfg.Risk.FactorPoints["LARGE_AMOUNT"])
}

func TestLoadConfigOverridesHeuristicMaps(t *testing.T) {
	doc := `
risk:
  factor_points:
    LARGE_AMOUNT: 99
  factor_weights:
    SUSPICIOUS_IP: 0.95
compliance:
  country_tier_points:
    HIGH: 50
screening:
  sanctioned_countries:
    OFAC: [CU, IR]
`
	path := filepath.Join(t.TempDir(), "riskcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := evaluator.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.Risk.FactorPoints["LARGE_AMOUNT"])
	assert.NotContains(t, cfg.Risk.FactorPoints, "large_amount")
	assert.InDelta(t, 0.95, cfg.Risk.FactorWeights["SUSPICIOUS_IP"], 1e-9)
	assert.Equal(t, 50, cfg.Compliance.CountryTierPoints["HIGH"])
	assert.Equal(t, []string{"CU", "IR"}, cfg.Screening.SanctionedCountries["OFAC"])
	assert.NotContains(t, cfg.Screening.SanctionedCountries, "ofac")
	// Untouched entries keep their defaults.
	assert.Equal(t, 15, cfg.Risk.FactorPoints["ROUND_AMOUNT"])
	assert.Equal(t, 20, cfg.Compliance.CountryTierPoints["MEDIUM"])
	assert.Contains(t, cfg.Screening.SanctionedCountries, "EU_SANCTIONS")
}

func TestLoadConfigRejectsInvalidDocument(t *testing.T) {
	doc := `
risk:
  thresholds:
    high: 10
    medium: 50
    low: 25
`
	path := filepath.Join(t.TempDir(), "riskcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := evaluator.LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := evaluator.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsRedisWithoutAddr(t *testing.T) {
	cfg := evaluator.DefaultConfig()
	cfg.Rates.Redis.Enabled = true
	assert.Error(t, cfg.Validate())
}
