package compliance

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/payrail/riskcore/internal/regional"
	"github.com/payrail/riskcore/internal/screening"
	"github.com/payrail/riskcore/pkg/models"
)

// CheckResult is the outcome of one sub-check.
type CheckResult struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
}

// AMLResult is the outcome of the anti-money-laundering check.
type AMLResult struct {
	Passed       bool     `json:"passed"`
	Flags        []string `json:"flags,omitempty"`
	SenderPEP    bool     `json:"sender_pep"`
	RecipientPEP bool     `json:"recipient_pep"`
}

// Verdict is the combined compliance decision for one transfer.
type Verdict struct {
	Approved          bool             `json:"approved"`
	Sanctions         CheckResult      `json:"sanctions"`
	AML               AMLResult        `json:"aml"`
	Regional          CheckResult      `json:"regional"`
	RiskTier          models.RiskLevel `json:"risk_tier"`
	RiskScore         int              `json:"risk_score"`
	KYCRequired       bool             `json:"kyc_required"`
	RequiredDocuments []string         `json:"required_documents,omitempty"`
	CheckedAt         time.Time        `json:"checked_at"`
}

// Reasons flattens every failing sub-check reason for error reporting.
func (v *Verdict) Reasons() []string {
	var reasons []string
	reasons = append(reasons, v.Sanctions.Reasons...)
	if !v.AML.Passed {
		for _, flag := range v.AML.Flags {
			if flag == FlagHighRiskJurisdiction {
				reasons = append(reasons, "recipient country is a high-risk jurisdiction")
			}
		}
	}
	reasons = append(reasons, v.Regional.Reasons...)
	return reasons
}

// Evaluator runs the sanctions, AML, and regional checks.
type Evaluator struct {
	cfg      Config
	screener *screening.Screener
	table    *regional.Table
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewEvaluator builds an evaluator over validated configuration, a
// screener, and a country rule table.
func NewEvaluator(cfg Config, screener *screening.Screener, table *regional.Table, logger *zap.SugaredLogger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Evaluator{
		cfg:      cfg,
		screener: screener,
		table:    table,
		logger:   logger,
		now:      time.Now,
	}
}

// Evaluate runs every sub-check and combines them. A rejected transfer
// still gets a complete verdict; the caller decides how to surface it.
func (e *Evaluator) Evaluate(req models.TransferRequest, amountUSD decimal.Decimal) *Verdict {
	sanctions := e.checkSanctions(req)
	aml := e.checkAML(req, amountUSD)
	regionalCheck := e.checkRegional(req, amountUSD)

	verdict := &Verdict{
		Approved:  sanctions.Passed && aml.Passed && regionalCheck.Passed,
		Sanctions: sanctions,
		AML:       aml,
		Regional:  regionalCheck,
		CheckedAt: e.now().UTC(),
	}
	verdict.RiskScore, verdict.RiskTier = e.assessTier(req, amountUSD, verdict)
	verdict.KYCRequired = e.kycRequired(req)
	verdict.RequiredDocuments = e.requiredDocuments(req, amountUSD)

	if !verdict.Approved {
		e.logger.Infow("transfer rejected by compliance",
			"sender_country", req.Sender.Country,
			"recipient_country", req.Recipient.Country,
			"amount_usd", amountUSD.String(),
			"reasons", verdict.Reasons())
	}
	return verdict
}

func (e *Evaluator) checkSanctions(req models.TransferRequest) CheckResult {
	var reasons []string

	if hit, match := e.screener.CountrySanctioned(req.Sender.Country); hit {
		reasons = append(reasons, fmt.Sprintf("sender country %s is sanctioned (%v)", match.Country, match.Lists))
	}
	if hit, match := e.screener.CountrySanctioned(req.Recipient.Country); hit {
		reasons = append(reasons, fmt.Sprintf("recipient country %s is sanctioned (%v)", match.Country, match.Lists))
	}
	if hit, _ := e.screener.NameSanctioned(req.Sender.Name); hit {
		reasons = append(reasons, "sender name matches sanctioned entity")
	}
	if hit, _ := e.screener.NameSanctioned(req.Recipient.Name); hit {
		reasons = append(reasons, "recipient name matches sanctioned entity")
	}
	return CheckResult{Passed: len(reasons) == 0, Reasons: reasons}
}

func (e *Evaluator) checkAML(req models.TransferRequest, amountUSD decimal.Decimal) AMLResult {
	result := AMLResult{Passed: true}

	if amountUSD.GreaterThan(e.cfg.EnhancedDueDiligenceUSD) {
		result.Flags = append(result.Flags, FlagHighAmount)
	}
	for _, cc := range e.cfg.HighRiskJurisdictions {
		if req.Recipient.Country == cc {
			result.Flags = append(result.Flags, FlagHighRiskJurisdiction)
			result.Passed = false
			break
		}
	}
	result.SenderPEP, _ = e.screener.IsPEP(req.Sender.Name)
	result.RecipientPEP, _ = e.screener.IsPEP(req.Recipient.Name)
	if result.SenderPEP || result.RecipientPEP {
		result.Flags = append(result.Flags, FlagPEP)
	}
	return result
}

func (e *Evaluator) checkRegional(req models.TransferRequest, amountUSD decimal.Decimal) CheckResult {
	var reasons []string

	for _, party := range []models.Party{req.Sender, req.Recipient} {
		rule, ok := e.table.Get(party.Country)
		if !ok {
			continue
		}
		if amountUSD.GreaterThan(rule.MaxAmount) {
			reasons = append(reasons, fmt.Sprintf("amount exceeds %s limit of %s", party.Country, rule.MaxAmount))
		}
	}
	for _, pair := range e.cfg.RestrictedPairs {
		if req.Sender.Country == pair.From && req.Recipient.Country == pair.To {
			reasons = append(reasons, fmt.Sprintf("restricted corridor %s -> %s", pair.From, pair.To))
			break
		}
	}
	return CheckResult{Passed: len(reasons) == 0, Reasons: reasons}
}

// assessTier accumulates a compliance risk score and maps it to a tier.
// Any failing sub-check or a HIGH base country tier escalates straight to
// HIGH regardless of the score.
func (e *Evaluator) assessTier(req models.TransferRequest, amountUSD decimal.Decimal, v *Verdict) (int, models.RiskLevel) {
	score := 0
	highBase := false

	for _, country := range []string{req.Sender.Country, req.Recipient.Country} {
		rule, ok := e.table.Get(country)
		if !ok {
			continue
		}
		score += e.cfg.CountryTierPoints[string(rule.RiskTier)]
		if rule.RiskTier == models.RiskLevelHigh {
			highBase = true
		}
	}
	if !v.Sanctions.Passed {
		score += e.cfg.SanctionsFailPoints
	}
	score += len(v.AML.Flags) * e.cfg.AMLFlagPoints
	if amountUSD.GreaterThan(e.cfg.ReportableAmountUSD) {
		score += e.cfg.ReportableBandPoints
	} else if amountUSD.GreaterThan(e.cfg.EnhancedDueDiligenceUSD) {
		score += e.cfg.AmountBandPoints
	}

	tier := models.RiskLevelMinimal
	switch {
	case score >= e.cfg.TierThresholds.High:
		tier = models.RiskLevelHigh
	case score >= e.cfg.TierThresholds.Medium:
		tier = models.RiskLevelMedium
	case score >= e.cfg.TierThresholds.Low:
		tier = models.RiskLevelLow
	}
	if !v.Approved || highBase {
		tier = models.RiskLevelHigh
	}
	return score, tier
}

func (e *Evaluator) kycRequired(req models.TransferRequest) bool {
	for _, country := range []string{req.Sender.Country, req.Recipient.Country} {
		if rule, ok := e.table.Get(country); ok && rule.KYCRequired {
			return true
		}
	}
	return false
}

// requiredDocuments unions both countries' document sets above their
// reporting thresholds, plus the supplementary set above the
// due-diligence amount. The result is deduplicated and sorted.
func (e *Evaluator) requiredDocuments(req models.TransferRequest, amountUSD decimal.Decimal) []string {
	seen := make(map[string]struct{})
	for _, country := range []string{req.Sender.Country, req.Recipient.Country} {
		for _, doc := range e.table.RequiredDocuments(country, amountUSD) {
			seen[doc] = struct{}{}
		}
	}
	if amountUSD.GreaterThan(e.cfg.EnhancedDueDiligenceUSD) {
		for _, doc := range e.cfg.SupplementaryDocuments {
			seen[doc] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	docs := make([]string, 0, len(seen))
	for doc := range seen {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	return docs
}
