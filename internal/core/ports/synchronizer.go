package ports

import (
	"context"

	"github.com/shieldpay/sendflow/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Synchronizer is the boundary to the cryptographic wallet engine. It owns
// key derivation, transaction building, proof generation and network
// broadcast; this subsystem only sequences calls to it.
type Synchronizer interface {
	// ProposeTransfer asks the engine for a fee-quoted draft of the
	// transfer. A nil memo means no memo at all.
	ProposeTransfer(
		ctx context.Context, accountId string, recipient domain.Recipient,
		amount decimal.Decimal, memo *domain.Memo,
	) (domain.Proposal, error)
	// SerializeProposal turns a proposal into a PCZT to be handed to an
	// air-gapped hardware signer.
	SerializeProposal(
		ctx context.Context, proposal domain.Proposal,
	) (domain.PCZT, error)
	// CreateProposedTransactions signs in-process and broadcasts every
	// sub-transaction of the proposal.
	CreateProposedTransactions(
		ctx context.Context, accountId string, proposal domain.Proposal,
	) (SendResult, error)
	// BroadcastSignedPczt broadcasts a transaction signed out-of-band by a
	// hardware signer.
	BroadcastSignedPczt(
		ctx context.Context, pczt domain.PCZT,
	) (SendResult, error)
}

// SendResultKind tags the outcome of a broadcast attempt.
type SendResultKind int

const (
	SendResultUndefined SendResultKind = iota
	SendResultSuccess
	SendResultPartial
	SendResultFailure
	// SendResultGrpcFailure is a transport-level failure with no definitive
	// on-chain outcome. Always treated as non-fatal.
	SendResultGrpcFailure
	SendResultResubmission
)

// SendResult is the tagged outcome of a broadcast attempt, produced exactly
// once per attempt. Partial and failure outcomes retain every produced
// txid, even for sub-transactions that did not fully succeed.
type SendResult struct {
	Kind        SendResultKind
	TxIds       []string
	Statuses    []string
	Code        int32
	Description string
	Fatal       bool
}

// NewSuccessResult ...
func NewSuccessResult(txIds []string) SendResult {
	return SendResult{Kind: SendResultSuccess, TxIds: txIds}
}

// NewPartialResult ...
func NewPartialResult(txIds, statuses []string) SendResult {
	return SendResult{Kind: SendResultPartial, TxIds: txIds, Statuses: statuses}
}

// NewFailureResult builds a failure outcome classified fatal or transient
// by the synchronizer's returned code.
func NewFailureResult(txIds []string, code int32, description string, fatal bool) SendResult {
	return SendResult{
		Kind: SendResultFailure, TxIds: txIds,
		Code: code, Description: description, Fatal: fatal,
	}
}

// NewGrpcFailureResult ...
func NewGrpcFailureResult(txIds []string) SendResult {
	return SendResult{Kind: SendResultGrpcFailure, TxIds: txIds}
}

// IsFatal returns whether the outcome must surface as a hard failure
// rather than a resubmission notice.
func (r SendResult) IsFatal() bool {
	return r.Kind == SendResultFailure && r.Fatal
}
