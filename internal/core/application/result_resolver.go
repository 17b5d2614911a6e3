package application

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shieldpay/sendflow/internal/core/domain"
	"github.com/shieldpay/sendflow/internal/core/ports"
)

// ResolveResult maps a broadcast outcome and the confirmation context that
// produced it to the matching terminal screen state. The context is copied
// into the state so no two stack entries ever share mutable memory.
func ResolveResult(
	result ports.SendResult, cctx domain.ConfirmationContext,
) domain.ScreenState {
	cloned := cctx.Clone()
	switch result.Kind {
	case ports.SendResultSuccess:
		firstTxId := ""
		if len(result.TxIds) > 0 {
			firstTxId = result.TxIds[0]
		}
		return domain.ResultSuccessState{Context: cloned, TxId: firstTxId}
	case ports.SendResultPartial:
		txIds := append([]string(nil), result.TxIds...)
		statuses := append([]string(nil), result.Statuses...)
		return domain.ResultPartialState{
			Context: cloned, TxIds: txIds, Statuses: statuses,
		}
	case ports.SendResultFailure:
		if result.Fatal {
			return domain.ResultFailureState{
				Context:     cloned,
				Code:        result.Code,
				Description: result.Description,
			}
		}
		return domain.ResultResubmissionState{
			Context: cloned, TxIds: append([]string(nil), result.TxIds...),
		}
	default:
		// grpcFailure and resubmission carry no definitive on-chain
		// outcome and surface as "we'll keep trying".
		return domain.ResultResubmissionState{
			Context: cloned, TxIds: append([]string(nil), result.TxIds...),
		}
	}
}

// ClassifyBroadcastError converts an error returned by the synchronizer's
// broadcast call into a SendResult. Transport-level failures (grpc status
// with no definitive on-chain outcome) are non-fatal and route to
// resubmission; everything else is a fatal failure.
func ClassifyBroadcastError(err error) ports.SendResult {
	if st, ok := status.FromError(err); ok && st.Code() != codes.OK {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted,
			codes.ResourceExhausted, codes.Canceled:
			return ports.NewGrpcFailureResult(nil)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ports.NewGrpcFailureResult(nil)
	}
	return ports.NewFailureResult(nil, 0, err.Error(), true)
}
