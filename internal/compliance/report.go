package compliance

import (
	"fmt"
	"strings"
	"time"

	"github.com/payrail/riskcore/pkg/models"
)

// Report turns a verdict into reviewer-facing recommendations and an
// ordered list of next steps.
type Report struct {
	Verdict         *Verdict  `json:"verdict"`
	Recommendations []string  `json:"recommendations"`
	NextSteps       []string  `json:"next_steps"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// BuildReport derives the operational follow-up for a verdict.
func BuildReport(v *Verdict) *Report {
	return &Report{
		Verdict:         v,
		Recommendations: recommendations(v),
		NextSteps:       nextSteps(v),
		GeneratedAt:     time.Now().UTC(),
	}
}

func recommendations(v *Verdict) []string {
	var recs []string

	if !v.Approved {
		recs = append(recs, "transaction requires manual review by compliance team")
	}
	if v.KYCRequired {
		recs = append(recs, "verify sender KYC status before release")
	}
	if v.RiskTier == models.RiskLevelHigh {
		recs = append(recs, "enhanced due diligence required")
		recs = append(recs, "consider declining transaction")
	}
	if len(v.RequiredDocuments) > 0 {
		recs = append(recs, fmt.Sprintf("collect required documents: %s", strings.Join(v.RequiredDocuments, ", ")))
	}
	if len(recs) == 0 {
		recs = append(recs, "proceed with standard monitoring")
	}
	return recs
}

func nextSteps(v *Verdict) []string {
	switch {
	case !v.Sanctions.Passed:
		return []string{"DECLINE_TRANSACTION", "REPORT_TO_REGULATOR"}
	case !v.AML.Passed || !v.Regional.Passed:
		return []string{"MANUAL_REVIEW", "REQUEST_ADDITIONAL_DOCUMENTATION"}
	case v.RiskTier == models.RiskLevelHigh:
		return []string{"ENHANCED_MONITORING", "LIMIT_TRANSACTION_AMOUNT"}
	case len(v.RequiredDocuments) > 0:
		return []string{"REQUEST_DOCUMENTS", "PROCEED_AFTER_VERIFICATION"}
	default:
		return []string{"AUTO_APPROVE", "STANDARD_MONITORING"}
	}
}
