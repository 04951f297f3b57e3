package routing

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/payrail/riskcore/pkg/errors"
	"github.com/payrail/riskcore/pkg/models"
)

// Scoring criteria accepted by FindOptimal.
const (
	CriterionCost        = "cost"
	CriterionSpeed       = "speed"
	CriterionReliability = "reliability"
)

// Option is one scored route candidate.
type Option struct {
	Route          Route             `json:"route"`
	Cost           decimal.Decimal   `json:"cost"`
	EstimatedHours float64           `json:"estimated_hours"`
	SuccessRate    float64           `json:"success_rate"`
	Score          float64           `json:"score"`
	Ratings        map[string]string `json:"ratings"`
	Reasons        []string          `json:"reasons,omitempty"`
}

// Selection is the optimizer's result: the winning route plus the scored
// runners-up in descending score order.
type Selection struct {
	Best         Option   `json:"best"`
	Alternatives []Option `json:"alternatives,omitempty"`
}

// Optimizer scores configured routes for a given transfer.
type Optimizer struct {
	cfg    Config
	logger *zap.SugaredLogger
}

// NewOptimizer builds an optimizer from validated configuration.
func NewOptimizer(cfg Config, logger *zap.SugaredLogger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Optimizer{cfg: cfg, logger: logger}
}

// FindOptimal scores every route compatible with the transfer and returns
// the highest-scoring one. criteria restricts scoring to a subset of
// cost/speed/reliability; empty means all three. It returns a NoRouteError
// when no route serves the corridor.
func (o *Optimizer) FindOptimal(req models.TransferRequest, amountUSD decimal.Decimal, criteria []string) (*Selection, error) {
	weights := o.weightsFor(criteria)

	var options []Option
	for _, route := range o.cfg.Routes {
		if !route.supportsCountries(req.Sender.Country, req.Recipient.Country) {
			continue
		}
		if !route.supportsCurrency(req.SourceCurrency, req.TargetCurrency) {
			continue
		}
		options = append(options, o.evaluate(route, req, amountUSD, weights))
	}
	if len(options) == 0 {
		return nil, &errors.NoRouteError{
			TargetCurrency:   string(req.TargetCurrency),
			SenderCountry:    req.Sender.Country,
			RecipientCountry: req.Recipient.Country,
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})
	annotateBest(options)

	o.logger.Debugw("route selected",
		"route", options[0].Route.Name,
		"score", options[0].Score,
		"candidates", len(options))

	return &Selection{Best: options[0], Alternatives: options[1:]}, nil
}

// evaluate applies fee and timing adjustments, then scores the route.
func (o *Optimizer) evaluate(route Route, req models.TransferRequest, amountUSD decimal.Decimal, weights map[string]float64) Option {
	fee := route.FeePercent
	hours := route.EstimatedHours
	success := route.SuccessRate

	if amountUSD.GreaterThan(o.cfg.BulkDiscountAboveUSD) {
		fee = fee.Mul(decimal.NewFromFloat(0.8))
	} else if req.Amount.LessThan(o.cfg.SmallSurchargeBelow) {
		fee = fee.Mul(decimal.NewFromFloat(1.2))
	}
	if req.Domestic() {
		hours *= 0.5
	}
	for _, cc := range o.cfg.HighRiskCountries {
		if req.Recipient.Country == cc {
			hours *= 1.5
			success *= 0.95
			break
		}
	}

	cost := req.Amount.Mul(fee)

	scores := map[string]float64{
		CriterionCost:        costScore(cost, req.Amount),
		CriterionSpeed:       speedScore(hours),
		CriterionReliability: success,
	}

	total, weightSum := 0.0, 0.0
	ratings := make(map[string]string, len(weights))
	for criterion, w := range weights {
		total += w * scores[criterion]
		weightSum += w
		ratings[criterion] = rating(scores[criterion])
	}

	return Option{
		Route:          route,
		Cost:           cost,
		EstimatedHours: hours,
		SuccessRate:    success,
		Score:          math.Round(total/weightSum*1000) / 1000,
		Ratings:        ratings,
	}
}

// costScore compares the fee against a 5% ceiling of the transfer amount.
func costScore(cost, amount decimal.Decimal) float64 {
	if !amount.IsPositive() {
		return 0
	}
	ceiling := amount.Mul(decimal.NewFromFloat(0.05))
	ratio, _ := cost.Div(ceiling).Float64()
	if ratio > 1 {
		ratio = 1
	}
	return 1 - ratio
}

// speedScore scales settlement time against a 72 hour horizon.
func speedScore(hours float64) float64 {
	score := 1 - hours/72
	if score < 0 {
		return 0
	}
	return score
}

func rating(score float64) string {
	switch {
	case score >= 0.8:
		return "excellent"
	case score >= 0.6:
		return "good"
	case score >= 0.4:
		return "fair"
	default:
		return "poor"
	}
}

func (o *Optimizer) weightsFor(criteria []string) map[string]float64 {
	all := map[string]float64{
		CriterionCost:        o.cfg.Weights.Cost,
		CriterionSpeed:       o.cfg.Weights.Speed,
		CriterionReliability: o.cfg.Weights.Reliability,
	}
	if len(criteria) == 0 {
		return all
	}
	picked := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		if w, ok := all[c]; ok && w > 0 {
			picked[c] = w
		}
	}
	if len(picked) == 0 {
		return all
	}
	return picked
}

// annotateBest attaches human-readable reasons to the winning option.
func annotateBest(options []Option) {
	best := &options[0]
	cheapest, fastest, safest := true, true, true
	for _, alt := range options[1:] {
		if alt.Cost.LessThan(best.Cost) {
			cheapest = false
		}
		if alt.EstimatedHours < best.EstimatedHours {
			fastest = false
		}
		if alt.SuccessRate > best.SuccessRate {
			safest = false
		}
	}
	if cheapest {
		best.Reasons = append(best.Reasons, "lowest cost among compatible routes")
	}
	if fastest {
		best.Reasons = append(best.Reasons, "fastest settlement among compatible routes")
	}
	if safest {
		best.Reasons = append(best.Reasons, "highest success rate among compatible routes")
	}
	if len(best.Reasons) == 0 {
		best.Reasons = append(best.Reasons, "best weighted balance of cost, speed, and reliability")
	}
}
