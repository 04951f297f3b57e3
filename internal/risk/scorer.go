// Package risk scores a proposed transfer against independent heuristic
// analyzers (amount, geography, behavior, temporal, device). Scoring is a
// pure function of the request, the behavior snapshot, and the static
// configuration; no analyzer performs I/O.
package risk

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/payrail/riskcore/pkg/models"
)

// Assessment is the scorer's verdict for one transfer. It is recomputed
// per request and never persisted across requests.
type Assessment struct {
	Score          int                   `json:"score"`
	Level          models.RiskLevel      `json:"level"`
	Factors        []string              `json:"factors"`
	Recommendation models.Recommendation `json:"recommendation"`
	Actions        []string              `json:"actions"`
	Confidence     float64               `json:"confidence"`
	AssessedAt     time.Time             `json:"assessed_at"`
}

// Input bundles everything the scorer evaluates.
type Input struct {
	Request   models.TransferRequest
	AmountUSD decimal.Decimal
	Profile   BehaviorProfile
	Security  *models.SecurityContext
}

// Scorer evaluates transfer risk from configured heuristics.
type Scorer struct {
	cfg    Config
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewScorer builds a scorer. The configuration must already be validated.
func NewScorer(cfg Config, logger *zap.SugaredLogger) *Scorer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scorer{cfg: cfg, logger: logger, now: time.Now}
}

// WithClock overrides the scorer's clock. Intended for tests.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score runs every analyzer and folds the results into one assessment.
// Adding a triggering condition never lowers the total score.
func (s *Scorer) Score(input Input) *Assessment {
	score := 0
	var factors []string

	add := func(points int, tags []string) {
		score += points
		factors = append(factors, tags...)
	}

	add(s.analyzeAmount(input.Request.Amount, input.AmountUSD))
	add(s.analyzeGeography(input.Request))
	add(s.analyzeBehavior(input.Profile))
	add(s.analyzeTemporal())
	if input.Security != nil {
		add(s.analyzeDevice(input.Security))
	}

	level := s.levelFor(score)
	recommendation, actions := recommendationFor(level)

	assessment := &Assessment{
		Score:          score,
		Level:          level,
		Factors:        factors,
		Recommendation: recommendation,
		Actions:        actions,
		Confidence:     s.confidence(factors),
		AssessedAt:     s.now().UTC(),
	}

	s.logger.Debugw("transfer risk assessed",
		"score", score, "level", level, "factors", factors)
	return assessment
}

func (s *Scorer) analyzeAmount(amount, amountUSD decimal.Decimal) (int, []string) {
	points := 0
	var tags []string

	for _, round := range s.cfg.RoundAmounts {
		if amount.Equal(round) {
			points += s.cfg.points(FactorRoundAmount)
			tags = append(tags, FactorRoundAmount)
			break
		}
	}
	for _, below := range s.cfg.JustBelowAmounts {
		if amount.Equal(below) {
			points += s.cfg.points(FactorJustBelowThreshold)
			tags = append(tags, FactorJustBelowThreshold)
			break
		}
	}
	if amountUSD.GreaterThan(s.cfg.LargeAmountUSD) {
		points += s.cfg.points(FactorLargeAmount)
		tags = append(tags, FactorLargeAmount)
	}
	return points, tags
}

func (s *Scorer) analyzeGeography(req models.TransferRequest) (int, []string) {
	points := 0
	var tags []string

	for _, cc := range s.cfg.HighRiskCountries {
		if req.Recipient.Country == cc {
			points += s.cfg.points(FactorHighRiskCountry)
			tags = append(tags, FactorHighRiskCountry)
			break
		}
	}
	for _, pair := range s.cfg.UnusualRoutes {
		if req.Sender.Country == pair.From && req.Recipient.Country == pair.To {
			points += s.cfg.points(FactorUnusualRoute)
			tags = append(tags, FactorUnusualRoute)
			break
		}
	}
	if !req.Domestic() {
		points += s.cfg.points(FactorCrossBorder)
		tags = append(tags, FactorCrossBorder)
	}
	return points, tags
}

func (s *Scorer) analyzeBehavior(profile BehaviorProfile) (int, []string) {
	points := 0
	var tags []string

	if profile.TransactionCount24h > s.cfg.Velocity.DailyCount {
		points += s.cfg.points(FactorHighFrequency)
		tags = append(tags, FactorHighFrequency)
	}
	if profile.TransactionCount1h > s.cfg.Velocity.HourlyCount {
		points += s.cfg.points(FactorRapidSuccession)
		tags = append(tags, FactorRapidSuccession)
	}
	if profile.TotalAmount24hUSD.GreaterThan(s.cfg.Velocity.DailyAmountUSD) {
		points += s.cfg.points(FactorHighDailyVolume)
		tags = append(tags, FactorHighDailyVolume)
	}
	if profile.RecipientCountries24h > s.cfg.Velocity.NewRecipientsPerDay {
		points += s.cfg.points(FactorNewRecipients)
		tags = append(tags, FactorNewRecipients)
	}
	return points, tags
}

func (s *Scorer) analyzeTemporal() (int, []string) {
	points := 0
	var tags []string

	now := s.now().UTC()
	for _, hour := range s.cfg.OffHoursUTC {
		if now.Hour() == hour {
			points += s.cfg.points(FactorOffHours)
			tags = append(tags, FactorOffHours)
			break
		}
	}
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		points += s.cfg.points(FactorWeekend)
		tags = append(tags, FactorWeekend)
	}
	return points, tags
}

func (s *Scorer) analyzeDevice(sec *models.SecurityContext) (int, []string) {
	points := 0
	var tags []string

	for _, prefix := range s.cfg.SuspiciousIPPrefixes {
		if strings.HasPrefix(sec.UserIP, prefix) {
			points += s.cfg.points(FactorSuspiciousIP)
			tags = append(tags, FactorSuspiciousIP)
			break
		}
	}
	if len(sec.DeviceFingerprint) == 0 {
		points += s.cfg.points(FactorMissingFingerprint)
		tags = append(tags, FactorMissingFingerprint)
	}
	return points, tags
}

func (s *Scorer) levelFor(score int) models.RiskLevel {
	switch {
	case score >= s.cfg.Thresholds.High:
		return models.RiskLevelHigh
	case score >= s.cfg.Thresholds.Medium:
		return models.RiskLevelMedium
	case score >= s.cfg.Thresholds.Low:
		return models.RiskLevelLow
	default:
		return models.RiskLevelMinimal
	}
}

func recommendationFor(level models.RiskLevel) (models.Recommendation, []string) {
	switch level {
	case models.RiskLevelHigh:
		return models.RecommendationBlock,
			[]string{"BLOCK", "REQUIRE_MANUAL_REVIEW", "REQUEST_ADDITIONAL_VERIFICATION"}
	case models.RiskLevelMedium:
		return models.RecommendationRequire2FA,
			[]string{"REQUIRE_2FA", "LIMIT_AMOUNT", "ENHANCED_MONITORING"}
	default:
		return models.RecommendationProceed,
			[]string{"PROCEED", "STANDARD_MONITORING"}
	}
}

// confidence estimates how reliable the assessment is: 0.95 with no
// factors, otherwise 1 minus the average configured factor weight, floored
// at 0.1 and rounded to two decimals.
func (s *Scorer) confidence(factors []string) float64 {
	if len(factors) == 0 {
		return 0.95
	}
	total := 0.0
	for _, tag := range factors {
		w, ok := s.cfg.FactorWeights[tag]
		if !ok {
			w = s.cfg.DefaultFactorWeight
		}
		total += w
	}
	confidence := 1.0 - total/float64(len(factors))
	if confidence < 0.1 {
		confidence = 0.1
	}
	return math.Round(confidence*100) / 100
}
