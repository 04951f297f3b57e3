package rates

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/payrail/riskcore/pkg/errors"
	"github.com/payrail/riskcore/pkg/models"
)

// DefaultFreshness is how long a fetched rate is served without asking the
// provider again.
const DefaultFreshness = 5 * time.Minute

// Service caches provider rates and degrades to the last known rate when
// the provider fails.
type Service struct {
	provider  Provider
	store     Store
	freshness time.Duration
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewService wraps a provider. A nil store defaults to an in-process one;
// a non-positive freshness defaults to DefaultFreshness.
func NewService(provider Provider, store Store, freshness time.Duration, logger *zap.SugaredLogger) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		provider:  provider,
		store:     store,
		freshness: freshness,
		logger:    logger,
		now:       time.Now,
	}
}

// Rate returns the exchange rate for base/quote, serving the cache while
// fresh and falling back to a stale entry when the provider is down.
func (s *Service) Rate(ctx context.Context, base, quote models.Currency) (decimal.Decimal, error) {
	if base == quote {
		return decimal.NewFromInt(1), nil
	}

	pair := pairKey(base, quote)
	cached, found, err := s.store.Get(ctx, pair)
	if err != nil {
		s.logger.Warnw("rate cache read failed", "pair", pair, "error", err)
		found = false
	}
	if found && s.now().Sub(cached.FetchedAt) < s.freshness {
		return cached.Rate, nil
	}

	rate, fetchErr := s.provider.Rate(ctx, base, quote)
	if fetchErr == nil {
		entry := Entry{Rate: rate, FetchedAt: s.now()}
		if err := s.store.Set(ctx, pair, entry); err != nil {
			s.logger.Warnw("rate cache write failed", "pair", pair, "error", err)
		}
		return rate, nil
	}

	if found {
		s.logger.Warnw("rate provider unavailable, serving stale rate",
			"pair", pair,
			"age", s.now().Sub(cached.FetchedAt).String(),
			"error", fetchErr)
		return cached.Rate, nil
	}
	return decimal.Zero, &errors.RateUnavailableError{
		Base:  string(base),
		Quote: string(quote),
		Cause: fetchErr,
	}
}

// Convert returns the amount converted into the quote currency along with
// the rate used.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, base, quote models.Currency) (decimal.Decimal, decimal.Decimal, error) {
	rate, err := s.Rate(ctx, base, quote)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return amount.Mul(rate), rate, nil
}
