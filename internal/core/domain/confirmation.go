package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxMemoLength is the byte capacity of a shielded memo field.
const MaxMemoLength = 512

// Memo is a bounded text blob attached to a transaction. An absent memo is
// represented as a nil *Memo, never as an empty string, when crossing the
// proposal boundary.
type Memo struct {
	text string
}

// NewMemo returns nil for empty input, the memo otherwise, or
// ErrMemoTooLong when the text exceeds the field capacity.
func NewMemo(text string) (*Memo, error) {
	if len(text) == 0 {
		return nil, nil
	}
	if len(text) > MaxMemoLength {
		return nil, ErrMemoTooLong
	}
	return &Memo{text: text}, nil
}

// Text returns the memo content.
func (m *Memo) Text() string {
	if m == nil {
		return ""
	}
	return m.text
}

// Clone returns an independent copy, nil-safe.
func (m *Memo) Clone() *Memo {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// Proposal is the opaque fee-quoted draft of one or more not-yet-broadcast
// sub-transactions returned by the synchronizer. It is immutable once
// obtained: any user-visible change to amount, recipient or memo
// invalidates it and requires a fresh one.
type Proposal interface {
	GetFeeTotal() decimal.Decimal
	GetSubtxCount() int
}

// PCZT is a serialized partially-created transaction awaiting external
// signatures, exchanged with an air-gapped signer as scannable codes. The
// encoding is owned by the synchronizer/hardware-signer protocol; this
// subsystem treats it as an opaque blob.
type PCZT []byte

// IsEmpty ...
func (p PCZT) IsEmpty() bool { return len(p) == 0 }

// ScanChecker selects which payloads a Scan screen recognizes.
type ScanChecker int

const (
	CheckerAddress ScanChecker = iota
	CheckerSignedPczt
	CheckerGenericString
	CheckerPaymentRequest
)

// ConfirmationContext carries everything the confirmation step and the
// downstream result screens need to display a pending payment. It is owned
// exclusively by the active flow and always copied, never shared by
// pointer, when handed to a result state.
type ConfirmationContext struct {
	FlowId         uuid.UUID
	Recipient      Recipient
	Amount         decimal.Decimal
	Memo           *Memo
	FiatEquivalent string
	Proposal       Proposal
	IsShielding    bool
	IsSwap         bool
}

// Clone returns an independent copy of the context. The proposal reference
// is carried over as-is since proposals are immutable.
func (c ConfirmationContext) Clone() ConfirmationContext {
	out := c
	out.Memo = c.Memo.Clone()
	return out
}
