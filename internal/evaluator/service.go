package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/payrail/riskcore/internal/compliance"
	"github.com/payrail/riskcore/internal/currency"
	"github.com/payrail/riskcore/internal/rates"
	"github.com/payrail/riskcore/internal/regional"
	"github.com/payrail/riskcore/internal/risk"
	"github.com/payrail/riskcore/internal/routing"
	"github.com/payrail/riskcore/internal/screening"
	"github.com/payrail/riskcore/pkg/errors"
	"github.com/payrail/riskcore/pkg/models"
)

// EvaluationResult is the aggregated decision record for one transfer.
type EvaluationResult struct {
	ID       uuid.UUID `json:"id"`
	Approved bool      `json:"approved"`

	AmountUSD       decimal.Decimal     `json:"amount_usd"`
	Conversion      currency.Conversion `json:"conversion"`
	FormattedAmount string              `json:"formatted_amount"`

	Risk       *risk.Assessment    `json:"risk"`
	Compliance *compliance.Verdict `json:"compliance"`
	Route      *routing.Selection  `json:"route"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Service is the evaluation pipeline. All collaborators are constructed
// once from validated configuration and shared safely across goroutines.
type Service struct {
	catalog    *currency.Catalog
	table      *regional.Table
	screener   *screening.Screener
	scorer     *risk.Scorer
	behavior   *risk.BehaviorStore
	optimizer  *routing.Optimizer
	compliance *compliance.Evaluator
	rates      *rates.Service
	validate   *validator.Validate
	metrics    *Metrics
	logger     *zap.SugaredLogger
	now        func() time.Time
}

// NewService builds the pipeline. A nil provider gets the static rate
// table; the Redis rate store is wired when configured.
func NewService(cfg Config, provider rates.Provider, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()

	catalog, err := currency.NewCatalog(cfg.Currencies)
	if err != nil {
		return nil, fmt.Errorf("build currency catalog: %w", err)
	}
	table, err := regional.NewTable(cfg.Countries)
	if err != nil {
		return nil, fmt.Errorf("build country table: %w", err)
	}
	screener, err := screening.NewScreener(cfg.Screening, nil, sugar)
	if err != nil {
		return nil, fmt.Errorf("build screener: %w", err)
	}

	if provider == nil {
		provider = rates.NewStaticProvider()
	}
	var store rates.Store
	if cfg.Rates.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Rates.Redis.Addr,
			Password: cfg.Rates.Redis.Password,
			DB:       cfg.Rates.Redis.DB,
		})
		store = rates.NewRedisStore(client)
	}

	return &Service{
		catalog:    catalog,
		table:      table,
		screener:   screener,
		scorer:     risk.NewScorer(cfg.Risk, sugar),
		behavior:   risk.NewBehaviorStore(),
		optimizer:  routing.NewOptimizer(cfg.Routing, sugar),
		compliance: compliance.NewEvaluator(cfg.Compliance, screener, table, sugar),
		rates:      rates.NewService(provider, store, cfg.Rates.Freshness, sugar),
		validate:   validator.New(),
		metrics:    NewMetrics(),
		logger:     sugar,
		now:        time.Now,
	}, nil
}

// Metrics exposes the pipeline's instrument registry.
func (s *Service) Metrics() *Metrics { return s.metrics }

// WithClock overrides the pipeline clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.scorer.WithClock(now)
	return s
}

// EvaluateTransfer runs the full pipeline: validate, normalize, convert,
// compliance, risk, route. Compliance rejections, missing routes, and rate
// failures return typed errors; a risk BLOCK recommendation yields an
// unapproved result, not an error.
func (s *Service) EvaluateTransfer(ctx context.Context, req models.TransferRequest, sec *models.SecurityContext) (*EvaluationResult, error) {
	start := s.now()

	result, err := s.evaluate(ctx, req, sec)
	s.metrics.observeDuration(s.now().Sub(start).Seconds())
	if err != nil {
		s.metrics.observeOutcome(false)
		s.metrics.observeRejection(string(errors.CodeOf(err)))
		return nil, err
	}
	s.metrics.observeOutcome(result.Approved)
	if !result.Approved {
		s.metrics.observeRejection("RISK_BLOCK")
	}
	return result, nil
}

func (s *Service) evaluate(ctx context.Context, req models.TransferRequest, sec *models.SecurityContext) (*EvaluationResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// Normalize the amount to the source currency's precision before any
	// downstream math.
	vr := s.catalog.Validate(req.Amount, req.SourceCurrency)
	if !vr.Valid {
		return nil, errors.NewInvalidAmountError(vr.Errors...)
	}
	for _, warning := range vr.Warnings {
		s.logger.Debugw("amount warning", "warning", warning)
	}
	req.Amount = vr.RoundedAmount

	amountUSD, err := s.amountInUSD(ctx, req)
	if err != nil {
		return nil, err
	}

	verdict := s.compliance.Evaluate(req, amountUSD)
	if !verdict.Approved {
		return nil, &errors.ComplianceRejectedError{
			Reasons:           verdict.Reasons(),
			RequiredDocuments: verdict.RequiredDocuments,
			RiskTier:          string(verdict.RiskTier),
		}
	}

	assessment := s.scorer.Score(risk.Input{
		Request:   req,
		AmountUSD: amountUSD,
		Profile:   s.behavior.Profile(req.Sender.AccountID),
		Security:  sec,
	})
	s.metrics.observeRiskScore(assessment.Score)

	selection, err := s.optimizer.FindOptimal(req, amountUSD, nil)
	if err != nil {
		return nil, err
	}

	rate, err := s.rates.Rate(ctx, req.SourceCurrency, req.TargetCurrency)
	if err != nil {
		return nil, err
	}
	conversion := s.catalog.ConvertAndFormat(req.Amount, req.SourceCurrency, req.TargetCurrency, rate)

	result := &EvaluationResult{
		ID:              uuid.New(),
		Approved:        assessment.Recommendation != models.RecommendationBlock,
		AmountUSD:       amountUSD,
		Conversion:      conversion,
		FormattedAmount: s.catalog.Format(req.Amount, req.SourceCurrency),
		Risk:            assessment,
		Compliance:      verdict,
		Route:           selection,
		EvaluatedAt:     s.now().UTC(),
	}

	s.logger.Infow("transfer evaluated",
		"evaluation_id", result.ID,
		"approved", result.Approved,
		"risk_score", assessment.Score,
		"risk_level", assessment.Level,
		"route", selection.Best.Route.Name,
		"amount_usd", amountUSD.String())
	return result, nil
}

// RecordTransaction feeds a completed transfer back into the sender's
// behavior window so velocity heuristics see it on the next evaluation.
func (s *Service) RecordTransaction(userID string, amountUSD decimal.Decimal, recipientCountry string) {
	s.behavior.Record(userID, amountUSD, recipientCountry)
}

func (s *Service) validateRequest(req models.TransferRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var errs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
		return errors.NewValidationError(errs...)
	}
	if !req.Amount.IsPositive() {
		return errors.NewInvalidAmountError("amount must be positive")
	}
	for _, code := range []models.Currency{req.SourceCurrency, req.TargetCurrency} {
		if !s.catalog.Supported(code) {
			return &errors.ValidationError{
				Code:   errors.CodeUnsupportedCurrency,
				Errors: []string{fmt.Sprintf("unsupported currency %s", code)},
			}
		}
	}
	return nil
}

func (s *Service) amountInUSD(ctx context.Context, req models.TransferRequest) (decimal.Decimal, error) {
	converted, _, err := s.rates.Convert(ctx, req.Amount, req.SourceCurrency, models.CurrencyUSD)
	if err != nil {
		return decimal.Zero, err
	}
	return converted, nil
}
