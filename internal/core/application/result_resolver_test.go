package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shieldpay/sendflow/internal/core/application"
	"github.com/shieldpay/sendflow/internal/core/domain"
	"github.com/shieldpay/sendflow/internal/core/ports"
)

type stubProposal struct {
	fee   decimal.Decimal
	subtx int
}

func (p stubProposal) GetFeeTotal() decimal.Decimal { return p.fee }
func (p stubProposal) GetSubtxCount() int           { return p.subtx }

func confirmationContext(t *testing.T) domain.ConfirmationContext {
	t.Helper()
	recipient, err := domain.NewRecipient(validShielded(), domain.NetworkMainnet)
	require.NoError(t, err)
	return domain.ConfirmationContext{
		Recipient: recipient,
		Amount:    decimal.RequireFromString("1.5"),
		Proposal:  stubProposal{fee: decimal.RequireFromString("0.0001"), subtx: 1},
	}
}

func TestResolveResult(t *testing.T) {
	t.Parallel()

	cctx := confirmationContext(t)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		state := application.ResolveResult(ports.NewSuccessResult([]string{"txA"}), cctx)
		success, ok := state.(domain.ResultSuccessState)
		require.True(t, ok)
		require.Equal(t, "txA", success.TxId)
		require.Equal(t, cctx.Amount, success.Context.Amount)
	})

	t.Run("partial_keeps_all_txids", func(t *testing.T) {
		t.Parallel()

		state := application.ResolveResult(
			ports.NewPartialResult([]string{"txA", "txB"}, []string{"mined", "failed"}), cctx,
		)
		partial, ok := state.(domain.ResultPartialState)
		require.True(t, ok)
		require.Equal(t, []string{"txA", "txB"}, partial.TxIds)
		require.Equal(t, []string{"mined", "failed"}, partial.Statuses)
	})

	t.Run("fatal_failure", func(t *testing.T) {
		t.Parallel()

		state := application.ResolveResult(
			ports.NewFailureResult(nil, -1000, "invalid note", true), cctx,
		)
		failure, ok := state.(domain.ResultFailureState)
		require.True(t, ok)
		require.Equal(t, int32(-1000), failure.Code)
		require.Equal(t, "invalid note", failure.Description)
	})

	t.Run("transient_failure_is_resubmission", func(t *testing.T) {
		t.Parallel()

		state := application.ResolveResult(
			ports.NewFailureResult([]string{"txA"}, -2000, "relay error", false), cctx,
		)
		resubmission, ok := state.(domain.ResultResubmissionState)
		require.True(t, ok)
		require.Equal(t, []string{"txA"}, resubmission.TxIds)
	})

	t.Run("grpc_failure_is_resubmission", func(t *testing.T) {
		t.Parallel()

		state := application.ResolveResult(ports.NewGrpcFailureResult(nil), cctx)
		_, ok := state.(domain.ResultResubmissionState)
		require.True(t, ok)
	})

	t.Run("context_is_cloned", func(t *testing.T) {
		t.Parallel()

		memo, err := domain.NewMemo("hi")
		require.NoError(t, err)
		withMemo := cctx
		withMemo.Memo = memo

		state := application.ResolveResult(ports.NewSuccessResult([]string{"txA"}), withMemo)
		success := state.(domain.ResultSuccessState)
		require.NotSame(t, withMemo.Memo, success.Context.Memo)
		require.Equal(t, "hi", success.Context.Memo.Text())
	})
}

func TestClassifyBroadcastError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ports.SendResultKind
	}{
		{
			name: "unavailable_is_transport",
			err:  status.Error(codes.Unavailable, "connection refused"),
			want: ports.SendResultGrpcFailure,
		},
		{
			name: "deadline_is_transport",
			err:  status.Error(codes.DeadlineExceeded, "timeout"),
			want: ports.SendResultGrpcFailure,
		},
		{
			name: "context_deadline_is_transport",
			err:  context.DeadlineExceeded,
			want: ports.SendResultGrpcFailure,
		},
		{
			name: "plain_error_is_fatal",
			err:  errors.New("proposal rejected"),
			want: ports.SendResultFailure,
		},
		{
			name: "invalid_argument_is_fatal",
			err:  status.Error(codes.InvalidArgument, "bad tx"),
			want: ports.SendResultFailure,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := application.ClassifyBroadcastError(tt.err)
			require.Equal(t, tt.want, result.Kind)
			if tt.want == ports.SendResultGrpcFailure {
				require.False(t, result.IsFatal())
			} else {
				require.True(t, result.IsFatal())
			}
		})
	}
}
