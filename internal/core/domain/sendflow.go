package domain

import (
	"time"

	"github.com/google/uuid"
)

// FlowStatus represents the different statuses a send flow can assume.
type FlowStatus struct {
	Code   int
	Failed bool
}

const (
	FlowStatusCodeUndefined = iota
	FlowStatusCodeConfirming
	FlowStatusCodeLocalSigning
	FlowStatusCodeAirGapRequested
	FlowStatusCodeAirGapScanning
	FlowStatusCodeAirGapSigned
	FlowStatusCodeBroadcasting
	FlowStatusCodeResultSuccess
	FlowStatusCodeResultPartial
	FlowStatusCodeResultFailure
	FlowStatusCodeResultResubmission
)

// SendFlow is the entity owning the confirm -> sign -> broadcast -> resolve
// lifecycle of a single payment attempt. One instance exists per flow; it
// is never shared between coordinators.
type SendFlow struct {
	Id             string
	Context        ConfirmationContext
	Status         FlowStatus
	Pczt           PCZT
	TxIds          []string
	SubtxStatuses  []string
	FailureCode    int32
	FailureDetail  string
	SendingShownAt time.Time
}

// NewSendFlow returns a flow with a new id and Undefined status.
func NewSendFlow() *SendFlow {
	return &SendFlow{Id: uuid.New().String(), Status: FlowStatus{Code: FlowStatusCodeUndefined}}
}

// Confirm brings the flow to the Confirming status with a populated
// context. Re-entry while still Confirming replaces the context, which is
// how an edited payment picks up its fresh proposal after the previous one
// was invalidated. The context must carry a resolved proposal.
func (f *SendFlow) Confirm(ctx ConfirmationContext) (bool, error) {
	if f.Status.Code > FlowStatusCodeConfirming {
		return true, nil
	}
	if ctx.Proposal == nil {
		return false, ErrFlowProposalRequired
	}
	ctx.FlowId = uuid.MustParse(f.Id)
	f.Context = ctx
	f.Status.Code = FlowStatusCodeConfirming
	return true, nil
}

// RequestLocalSigning moves a Confirming flow to LocalSigning. It is the
// path taken for standard, non-hardware accounts; signing happens inside
// the synchronizer during broadcast.
func (f *SendFlow) RequestLocalSigning() (bool, error) {
	if f.Status.Code == FlowStatusCodeLocalSigning {
		return true, nil
	}
	if f.Status.Code != FlowStatusCodeConfirming {
		return false, ErrFlowMustBeConfirming
	}
	f.Status.Code = FlowStatusCodeLocalSigning
	return true, nil
}

// RequestAirGapSigning moves a Confirming flow to AirGapRequested, storing
// the serialized transaction to be handed to the hardware signer.
func (f *SendFlow) RequestAirGapSigning(pczt PCZT) (bool, error) {
	if f.Status.Code == FlowStatusCodeAirGapRequested {
		return true, nil
	}
	if f.Status.Code != FlowStatusCodeConfirming {
		return false, ErrFlowMustBeConfirming
	}
	if pczt.IsEmpty() {
		return false, ErrNullSignedTransaction
	}
	f.Pczt = pczt
	f.Status.Code = FlowStatusCodeAirGapRequested
	return true, nil
}

// BeginSignatureScan moves an AirGapRequested flow to AirGapScanning. The
// coordinator pushes the Scan entry configured with the signed-PCZT
// checker alongside this transition.
func (f *SendFlow) BeginSignatureScan() (bool, error) {
	if f.Status.Code == FlowStatusCodeAirGapScanning {
		return true, nil
	}
	if f.Status.Code != FlowStatusCodeAirGapRequested {
		return false, ErrFlowMustBeConfirming
	}
	f.Status.Code = FlowStatusCodeAirGapScanning
	return true, nil
}

// AttachSignedTransaction moves an AirGapScanning flow to AirGapSigned with
// the signed payload scanned back from the hardware signer.
func (f *SendFlow) AttachSignedTransaction(signed PCZT) (bool, error) {
	if f.Status.Code == FlowStatusCodeAirGapSigned {
		return true, nil
	}
	if f.Status.Code != FlowStatusCodeAirGapScanning {
		return false, ErrFlowMustBeScanning
	}
	if signed.IsEmpty() {
		return false, ErrNullSignedTransaction
	}
	f.Pczt = signed
	f.Status.Code = FlowStatusCodeAirGapSigned
	return true, nil
}

// AbandonSignatureScan returns an AirGapScanning flow to Confirming and
// destroys the pending PCZT, leaving the context untouched.
func (f *SendFlow) AbandonSignatureScan() (bool, error) {
	if f.Status.Code == FlowStatusCodeConfirming {
		return true, nil
	}
	if f.Status.Code != FlowStatusCodeAirGapScanning &&
		f.Status.Code != FlowStatusCodeAirGapRequested {
		return false, ErrFlowMustBeScanning
	}
	f.Pczt = nil
	f.Status.Code = FlowStatusCodeConfirming
	return true, nil
}

// StartBroadcast moves a signed flow to Broadcasting and records when the
// Sending screen appeared, which anchors the minimum on-screen dwell.
// Broadcasting is not cancellable once started.
func (f *SendFlow) StartBroadcast(sendingShownAt time.Time) (bool, error) {
	if f.Status.Code == FlowStatusCodeBroadcasting {
		return true, nil
	}
	if f.Status.Code != FlowStatusCodeLocalSigning &&
		f.Status.Code != FlowStatusCodeAirGapSigned {
		return false, ErrFlowMustBeSigned
	}
	f.SendingShownAt = sendingShownAt
	f.Status.Code = FlowStatusCodeBroadcasting
	return true, nil
}

// RemainingDwell returns how much longer the Sending screen must stay
// visible before a result may replace it: max(0, floor - elapsed).
func (f *SendFlow) RemainingDwell(now time.Time, floor time.Duration) time.Duration {
	if f.SendingShownAt.IsZero() {
		return 0
	}
	remaining := floor - now.Sub(f.SendingShownAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResolveSuccess brings a Broadcasting flow to the ResultSuccess terminal
// status. A successful air-gapped flow no longer needs its PCZT.
func (f *SendFlow) ResolveSuccess(txIds []string) (bool, error) {
	if f.IsResolved() {
		return f.Status.Code == FlowStatusCodeResultSuccess, ErrFlowAlreadyResolved
	}
	if f.Status.Code != FlowStatusCodeBroadcasting {
		return false, ErrFlowMustBeBroadcasting
	}
	f.TxIds = txIds
	f.Pczt = nil
	f.Status.Code = FlowStatusCodeResultSuccess
	return true, nil
}

// ResolvePartial brings a Broadcasting flow to ResultPartial, retaining
// every produced txid and its per-sub-transaction status. Funds may have
// moved even for sub-transactions that did not fully succeed.
func (f *SendFlow) ResolvePartial(txIds, statuses []string) (bool, error) {
	if f.IsResolved() {
		return f.Status.Code == FlowStatusCodeResultPartial, ErrFlowAlreadyResolved
	}
	if f.Status.Code != FlowStatusCodeBroadcasting {
		return false, ErrFlowMustBeBroadcasting
	}
	f.TxIds = txIds
	f.SubtxStatuses = statuses
	f.Status.Code = FlowStatusCodeResultPartial
	return true, nil
}

// ResolveFailure brings a Broadcasting flow to ResultFailure (fatal) or
// ResultResubmission (transient, final on-chain outcome unknown).
func (f *SendFlow) ResolveFailure(txIds []string, code int32, detail string, fatal bool) (bool, error) {
	if f.IsResolved() {
		return false, ErrFlowAlreadyResolved
	}
	if f.Status.Code != FlowStatusCodeBroadcasting {
		return false, ErrFlowMustBeBroadcasting
	}
	f.TxIds = txIds
	f.FailureCode = code
	f.FailureDetail = detail
	f.Status.Failed = fatal
	if fatal {
		f.Status.Code = FlowStatusCodeResultFailure
	} else {
		f.Status.Code = FlowStatusCodeResultResubmission
	}
	return true, nil
}

// InvalidateProposal drops the resolved proposal after a user-visible
// change to amount, recipient or memo, forcing the coordinator to request
// a fresh one. Only meaningful while Confirming.
func (f *SendFlow) InvalidateProposal() (bool, error) {
	if f.Status.Code != FlowStatusCodeConfirming {
		return false, ErrFlowMustBeConfirming
	}
	f.Context.Proposal = nil
	f.Pczt = nil
	return true, nil
}

// IsUndefined returns whether the flow was never confirmed.
func (f *SendFlow) IsUndefined() bool { return f.Status.Code == FlowStatusCodeUndefined }

// IsConfirming returns whether the flow is in Confirming status.
func (f *SendFlow) IsConfirming() bool { return f.Status.Code == FlowStatusCodeConfirming }

// IsAirGapped returns whether the flow entered the air-gapped signing path.
func (f *SendFlow) IsAirGapped() bool {
	return f.Status.Code == FlowStatusCodeAirGapRequested ||
		f.Status.Code == FlowStatusCodeAirGapScanning ||
		f.Status.Code == FlowStatusCodeAirGapSigned ||
		!f.Pczt.IsEmpty()
}

// IsBroadcasting returns whether the flow is in Broadcasting status.
func (f *SendFlow) IsBroadcasting() bool { return f.Status.Code == FlowStatusCodeBroadcasting }

// IsResolved returns whether the flow reached any of the four terminal
// statuses.
func (f *SendFlow) IsResolved() bool {
	return f.Status.Code >= FlowStatusCodeResultSuccess
}

// IsRejected returns whether the flow terminated with a fatal failure.
func (f *SendFlow) IsRejected() bool { return f.Status.Failed }
