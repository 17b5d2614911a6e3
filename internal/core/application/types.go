package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/shieldpay/sendflow/internal/core/domain"
	"github.com/shieldpay/sendflow/internal/core/ports"
	"github.com/shopspring/decimal"
)

// FlowKind selects one of the four pipeline entry points.
type FlowKind int

const (
	FlowSend FlowKind = iota
	FlowScanSend
	FlowSwap
	FlowAirGapSign
)

func (k FlowKind) String() string {
	switch k {
	case FlowSend:
		return "send"
	case FlowScanSend:
		return "scan-send"
	case FlowSwap:
		return "swap"
	case FlowAirGapSign:
		return "airgap-sign"
	default:
		return "unknown"
	}
}

// Account identifies the active account for the flow. Hardware-backed
// accounts take the air-gapped signing path.
type Account struct {
	Id       string
	Name     string
	Hardware bool
}

// Event is the closed set of inputs a coordinator processes, one at a time
// in arrival order. User actions carry the id of the entry they originate
// from; async task completions carry the sequence number of the request
// they answer so stale completions can be dropped.
type Event interface{ isEvent() }

type RecipientPastedEvent struct {
	Value string
}

type ContactSelectedEvent struct {
	Contact ports.Contact
}

type AmountChangedEvent struct {
	Amount decimal.Decimal
}

type MemoChangedEvent struct {
	Text string
}

// ReviewRequestedEvent is emitted when the user completes the form and
// asks to review the payment. It triggers a proposal request.
type ReviewRequestedEvent struct{}

// SendRequestedEvent is emitted from the confirmation screen.
type SendRequestedEvent struct{}

type ScanRecognizedEvent struct {
	EntryId uuid.UUID
	Checker domain.ScanChecker
	Payload string
}

type ScanCancelledEvent struct {
	EntryId uuid.UUID
}

type BackTappedEvent struct{}

type CloseTappedEvent struct{}

type ViewTransactionTappedEvent struct {
	TxId string
}

type SaveContactRequestedEvent struct {
	Name string
}

type SkipContactEvent struct{}

type SwapAmountSubmittedEvent struct {
	FromAsset string
	ToAsset   string
	Amount    decimal.Decimal
}

type QuoteAcceptedEvent struct{}

type QuoteRetryEvent struct{}

// Async completions fed back by the effect runner.

type ProposalReadyEvent struct {
	Seq      uint64
	Proposal domain.Proposal
}

type ProposalFailedEvent struct {
	Seq uint64
	Err error
}

type PcztReadyEvent struct {
	Pczt domain.PCZT
}

type PcztFailedEvent struct {
	Err error
}

type BroadcastFinishedEvent struct {
	Result ports.SendResult
	Err    error
}

// ResultDueEvent arrives once the minimum Sending-screen dwell elapsed.
type ResultDueEvent struct {
	Result ports.SendResult
}

type QuoteReadyEvent struct {
	Seq   uint64
	Quote ports.Quote
}

type QuoteFailedEvent struct {
	Seq uint64
	Err error
}

type ContactLookupDoneEvent struct {
	Address string
	Contact *ports.Contact
}

func (RecipientPastedEvent) isEvent()       {}
func (ContactSelectedEvent) isEvent()       {}
func (AmountChangedEvent) isEvent()         {}
func (MemoChangedEvent) isEvent()           {}
func (ReviewRequestedEvent) isEvent()       {}
func (SendRequestedEvent) isEvent()         {}
func (ScanRecognizedEvent) isEvent()        {}
func (ScanCancelledEvent) isEvent()         {}
func (BackTappedEvent) isEvent()            {}
func (CloseTappedEvent) isEvent()           {}
func (ViewTransactionTappedEvent) isEvent() {}
func (SaveContactRequestedEvent) isEvent()  {}
func (SkipContactEvent) isEvent()           {}
func (SwapAmountSubmittedEvent) isEvent()   {}
func (QuoteAcceptedEvent) isEvent()         {}
func (QuoteRetryEvent) isEvent()            {}
func (ProposalReadyEvent) isEvent()         {}
func (ProposalFailedEvent) isEvent()        {}
func (PcztReadyEvent) isEvent()             {}
func (PcztFailedEvent) isEvent()            {}
func (BroadcastFinishedEvent) isEvent()     {}
func (ResultDueEvent) isEvent()             {}
func (QuoteReadyEvent) isEvent()            {}
func (QuoteFailedEvent) isEvent()           {}
func (ContactLookupDoneEvent) isEvent()     {}

// Effect is the closed set of side effects a coordinator asks its runner
// to perform. Async effects report back as completion events.
type Effect interface{ isEffect() }

type FetchProposalEffect struct {
	Seq       uint64
	Recipient domain.Recipient
	Amount    decimal.Decimal
	Memo      *domain.Memo
}

// CancelProposalEffect cancels the in-flight proposal request, if any.
// Emitted when the user pops past a pending-proposal screen.
type CancelProposalEffect struct{}

type SerializePcztEffect struct {
	Proposal domain.Proposal
}

// BroadcastEffect submits the signed transaction(s). A nil SignedPczt
// selects the in-process signing path. Not cancellable once dispatched.
type BroadcastEffect struct {
	Proposal   domain.Proposal
	SignedPczt domain.PCZT
}

type DelayResultEffect struct {
	Delay  time.Duration
	Result ports.SendResult
}

// FetchQuoteEffect requests a swap quote. Accepting the quote then
// requests the matching proposal against its deposit address.
type FetchQuoteEffect struct {
	Seq       uint64
	FromAsset string
	ToAsset   string
	Amount    decimal.Decimal
}

type CancelQuoteEffect struct{}

type HapticConfirmEffect struct{}

type ResetShieldingReminderEffect struct {
	AccountName string
}

type LookupContactEffect struct {
	Address string
}

type SaveContactEffect struct {
	Contact ports.Contact
}

func (FetchProposalEffect) isEffect()          {}
func (CancelProposalEffect) isEffect()         {}
func (SerializePcztEffect) isEffect()          {}
func (BroadcastEffect) isEffect()              {}
func (DelayResultEffect) isEffect()            {}
func (FetchQuoteEffect) isEffect()             {}
func (CancelQuoteEffect) isEffect()            {}
func (HapticConfirmEffect) isEffect()          {}
func (ResetShieldingReminderEffect) isEffect() {}
func (LookupContactEffect) isEffect()          {}
func (SaveContactEffect) isEffect()            {}
