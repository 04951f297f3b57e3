package risk_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrail/riskcore/internal/risk"
	"github.com/payrail/riskcore/pkg/models"
)

// Tuesday, 12:00 UTC. Keeps temporal factors out of scenarios that do not
// exercise them.
var quietTuesday = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

func newScorer(t *testing.T, at time.Time) *risk.Scorer {
	t.Helper()
	cfg := risk.DefaultConfig()
	require.NoError(t, cfg.Validate())
	return risk.NewScorer(cfg, nil).WithClock(func() time.Time { return at })
}

func transfer(from, to string, amount string) models.TransferRequest {
	return models.TransferRequest{
		Sender:    models.Party{Name: "Alice Sender", AccountID: "acc-1", Country: from, Currency: models.CurrencyUSD},
		Recipient: models.Party{Name: "Bob Recipient", AccountID: "acc-2", Country: to, Currency: models.CurrencyEUR},
		Amount:    decimal.RequireFromString(amount),
	}
}

func TestScoreDomesticSmallTransfer(t *testing.T) {
	s := newScorer(t, quietTuesday)

	req := transfer("US", "US", "50")
	a := s.Score(risk.Input{Request: req, AmountUSD: decimal.NewFromInt(50)})

	assert.Equal(t, 0, a.Score)
	assert.Equal(t, models.RiskLevelMinimal, a.Level)
	assert.Equal(t, models.RecommendationProceed, a.Recommendation)
	assert.Empty(t, a.Factors)
	assert.InDelta(t, 0.95, a.Confidence, 1e-9)
}

func TestScoreHighRiskCorridor(t *testing.T) {
	s := newScorer(t, quietTuesday)

	req := transfer("US", "RU", "15000")
	a := s.Score(risk.Input{Request: req, AmountUSD: decimal.NewFromInt(15000)})

	assert.ElementsMatch(t, []string{
		risk.FactorLargeAmount,
		risk.FactorHighRiskCountry,
		risk.FactorUnusualRoute,
		risk.FactorCrossBorder,
	}, a.Factors)
	assert.Equal(t, 90, a.Score)
	assert.Equal(t, models.RiskLevelHigh, a.Level)
	assert.Equal(t, models.RecommendationBlock, a.Recommendation)
	assert.Contains(t, a.Actions, "REQUIRE_MANUAL_REVIEW")
	// Weights: 0.7 + 0.8 + 0.5 + 0.5 over 4 factors.
	assert.InDelta(t, 0.38, a.Confidence, 1e-9)
}

func TestScoreAmountHeuristics(t *testing.T) {
	s := newScorer(t, quietTuesday)

	a := s.Score(risk.Input{
		Request:   transfer("US", "US", "9999"),
		AmountUSD: decimal.NewFromInt(9999),
	})
	assert.Contains(t, a.Factors, risk.FactorJustBelowThreshold)
	assert.NotContains(t, a.Factors, risk.FactorLargeAmount)

	a = s.Score(risk.Input{
		Request:   transfer("US", "US", "10000"),
		AmountUSD: decimal.NewFromInt(10000),
	})
	assert.Contains(t, a.Factors, risk.FactorRoundAmount)
	// Large-amount triggers strictly above the threshold.
	assert.NotContains(t, a.Factors, risk.FactorLargeAmount)
}

func TestScoreVelocityFactors(t *testing.T) {
	s := newScorer(t, quietTuesday)

	profile := risk.BehaviorProfile{
		TransactionCount24h:   11,
		TransactionCount1h:    4,
		TotalAmount24hUSD:     decimal.NewFromInt(60000),
		RecipientCountries24h: 4,
	}
	a := s.Score(risk.Input{
		Request:   transfer("US", "US", "50"),
		AmountUSD: decimal.NewFromInt(50),
		Profile:   profile,
	})

	assert.ElementsMatch(t, []string{
		risk.FactorHighFrequency,
		risk.FactorRapidSuccession,
		risk.FactorHighDailyVolume,
		risk.FactorNewRecipients,
	}, a.Factors)
	assert.Equal(t, 90, a.Score)
}

func TestScoreVelocityAtLimitsDoesNotFlag(t *testing.T) {
	s := newScorer(t, quietTuesday)

	profile := risk.BehaviorProfile{
		TransactionCount24h:   10,
		TransactionCount1h:    3,
		TotalAmount24hUSD:     decimal.NewFromInt(50000),
		RecipientCountries24h: 3,
	}
	a := s.Score(risk.Input{
		Request:   transfer("US", "US", "50"),
		AmountUSD: decimal.NewFromInt(50),
		Profile:   profile,
	})
	assert.Empty(t, a.Factors)
}

func TestScoreTemporalFactors(t *testing.T) {
	// 03:00 UTC on a Saturday.
	weekendNight := time.Date(2024, time.March, 9, 3, 0, 0, 0, time.UTC)
	s := newScorer(t, weekendNight)

	a := s.Score(risk.Input{
		Request:   transfer("US", "US", "50"),
		AmountUSD: decimal.NewFromInt(50),
	})
	assert.ElementsMatch(t, []string{risk.FactorOffHours, risk.FactorWeekend}, a.Factors)
	assert.Equal(t, 25, a.Score)
	assert.Equal(t, models.RiskLevelLow, a.Level)
}

func TestScoreDeviceFactors(t *testing.T) {
	s := newScorer(t, quietTuesday)

	sec := &models.SecurityContext{UserIP: "192.168.1.9"}
	a := s.Score(risk.Input{
		Request:   transfer("US", "US", "50"),
		AmountUSD: decimal.NewFromInt(50),
		Security:  sec,
	})
	assert.ElementsMatch(t, []string{
		risk.FactorSuspiciousIP,
		risk.FactorMissingFingerprint,
	}, a.Factors)

	sec = &models.SecurityContext{
		UserIP:            "203.0.113.7",
		DeviceFingerprint: map[string]string{"browser": "firefox"},
	}
	a = s.Score(risk.Input{
		Request:   transfer("US", "US", "50"),
		AmountUSD: decimal.NewFromInt(50),
		Security:  sec,
	})
	assert.Empty(t, a.Factors)
}

func TestScoreMediumLevelRequires2FA(t *testing.T) {
	s := newScorer(t, quietTuesday)

	// HIGH_RISK_COUNTRY 30 + CROSS_BORDER 10 = 40.
	a := s.Score(risk.Input{
		Request:   transfer("FR", "MX", "50"),
		AmountUSD: decimal.NewFromInt(50),
	})
	assert.Equal(t, 40, a.Score)
	assert.Equal(t, models.RiskLevelMedium, a.Level)
	assert.Equal(t, models.RecommendationRequire2FA, a.Recommendation)
	assert.Contains(t, a.Actions, "ENHANCED_MONITORING")
}

func TestScoreMonotonicInTriggers(t *testing.T) {
	s := newScorer(t, quietTuesday)

	base := s.Score(risk.Input{
		Request:   transfer("US", "RU", "50"),
		AmountUSD: decimal.NewFromInt(50),
	})
	more := s.Score(risk.Input{
		Request:   transfer("US", "RU", "15000"),
		AmountUSD: decimal.NewFromInt(15000),
	})
	if more.Score < base.Score {
		t.Errorf("score dropped when a factor was added: %d -> %d", base.Score, more.Score)
	}
}

func TestConfidenceFloor(t *testing.T) {
	cfg := risk.DefaultConfig()
	for tag := range cfg.FactorPoints {
		cfg.FactorWeights[tag] = 1.0
	}
	require.NoError(t, cfg.Validate())
	s := risk.NewScorer(cfg, nil).WithClock(func() time.Time { return quietTuesday })

	a := s.Score(risk.Input{
		Request:   transfer("US", "RU", "15000"),
		AmountUSD: decimal.NewFromInt(15000),
	})
	assert.InDelta(t, 0.1, a.Confidence, 1e-9)
}
