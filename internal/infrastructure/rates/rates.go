package rates

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"
	"github.com/shopspring/decimal"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/singleflight"

	"github.com/shieldpay/sendflow/internal/core/ports"
)

var (
	// MaxNumOfFailingRequests ...
	MaxNumOfFailingRequests = 10
	// FailingRatio ...
	FailingRatio = 0.6
)

type service struct {
	provider ports.RateProvider
	breaker  *gobreaker.CircuitBreaker
	limiter  ratelimit.Limiter
	group    singleflight.Group
}

// NewService decorates a swap-rate provider with a circuit breaker, a
// request pacer and in-flight request deduplication. Identical concurrent
// quote requests share one upstream call; once the provider keeps
// failing, requests short-circuit to ErrQuoteUnavailable-style errors
// without hitting the network.
func NewService(provider ports.RateProvider, requestsPerSecond int) ports.RateProvider {
	return &service{
		provider: provider,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "rates",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
			},
		}),
		limiter: ratelimit.New(requestsPerSecond),
	}
}

func (s *service) GetQuote(
	ctx context.Context, fromAsset, toAsset string, amount decimal.Decimal,
) (ports.Quote, error) {
	key := fmt.Sprintf("%s:%s:%s", fromAsset, toAsset, amount.String())
	res, err, _ := s.group.Do(key, func() (interface{}, error) {
		s.limiter.Take()
		return s.breaker.Execute(func() (interface{}, error) {
			return s.provider.GetQuote(ctx, fromAsset, toAsset, amount)
		})
	})
	if err != nil {
		return ports.Quote{}, fmt.Errorf("fetching quote: %w", err)
	}
	return res.(ports.Quote), nil
}
