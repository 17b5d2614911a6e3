package rates_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shieldpay/sendflow/internal/core/ports"
	"github.com/shieldpay/sendflow/internal/infrastructure/rates"
)

type stubProvider struct {
	calls int32
	err   error
}

func (p *stubProvider) GetQuote(
	_ context.Context, fromAsset, toAsset string, amount decimal.Decimal,
) (ports.Quote, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.err != nil {
		return ports.Quote{}, p.err
	}
	return ports.Quote{
		FromAsset: fromAsset,
		ToAsset:   toAsset,
		AmountIn:  amount,
		AmountOut: amount.Mul(decimal.RequireFromString("0.0005")),
		Rate:      decimal.RequireFromString("0.0005"),
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil
}

func TestGetQuote(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}
	svc := rates.NewService(provider, 100)

	quote, err := svc.GetQuote(
		context.Background(), "ZEC", "BTC", decimal.RequireFromString("10"),
	)
	require.NoError(t, err)
	require.Equal(t, "ZEC", quote.FromAsset)
	require.Equal(t, "0.005", quote.AmountOut.String())
	require.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))
}

func TestGetQuoteWrapsProviderError(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{err: errors.New("upstream down")}
	svc := rates.NewService(provider, 100)

	_, err := svc.GetQuote(
		context.Background(), "ZEC", "BTC", decimal.RequireFromString("10"),
	)
	require.Error(t, err)
	require.ErrorContains(t, err, "fetching quote")
}

func TestBreakerShortCircuitsAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{err: errors.New("upstream down")}
	svc := rates.NewService(provider, 1000)

	// Distinct amounts bypass in-flight deduplication so every call reaches
	// the breaker.
	for i := 0; i < rates.MaxNumOfFailingRequests+2; i++ {
		_, err := svc.GetQuote(
			context.Background(), "ZEC", "BTC", decimal.NewFromInt(int64(i+1)),
		)
		require.Error(t, err)
	}

	callsBefore := atomic.LoadInt32(&provider.calls)
	_, err := svc.GetQuote(
		context.Background(), "ZEC", "BTC", decimal.RequireFromString("999"),
	)
	require.Error(t, err)
	require.Equal(t, callsBefore, atomic.LoadInt32(&provider.calls))
}
