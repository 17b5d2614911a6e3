package application

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/shieldpay/sendflow/internal/core/domain"
	"github.com/shieldpay/sendflow/internal/core/ports"
	"github.com/shopspring/decimal"
)

// CoordinatorOptions tweaks flow-specific wording and flags.
type CoordinatorOptions struct {
	// Shielding marks the flow as a shielding transaction: on success the
	// shielding reminder record is reset.
	Shielding bool
	// FiatFormatter renders the currency-equivalent display string for the
	// confirmation screen. Nil means no fiat display.
	FiatFormatter func(decimal.Decimal) string
	// DwellFloor is the minimum time the Sending screen stays visible
	// before a result may replace it.
	DwellFloor time.Duration
	// Now is the clock, overridable in tests.
	Now func() time.Time
}

type formData struct {
	recipient domain.Recipient
	amount    decimal.Decimal
	memo      *domain.Memo
}

type swapData struct {
	fromAsset string
	toAsset   string
	amount    decimal.Decimal
	quote     *ports.Quote
}

// Coordinator drives one payment flow instance from recipient resolution
// to a terminal result. It owns its navigation stack and confirmation
// context exclusively; events are handled one at a time and produce the
// side effects for the runner to perform. It is not safe for concurrent
// use: the runner serializes all Handle calls.
type Coordinator struct {
	flowKind FlowKind
	account  Account
	network  domain.NetworkType
	resolver *RecipientResolver
	txViewer ports.TxViewer
	metrics  *Metrics
	opts     CoordinatorOptions

	stack *domain.NavigationStack
	flow  *domain.SendFlow
	form  formData
	swap  swapData

	formId          uuid.UUID
	scanRootId      uuid.UUID
	confirmationId  uuid.UUID
	airGapId        uuid.UUID
	signatureScanId uuid.UUID
	sendingId       uuid.UUID
	swapFormId      uuid.UUID
	contactPromptId uuid.UUID

	seq             uint64
	proposalSeq     uint64
	proposalPending bool
	quoteSeq        uint64
	quotePending    bool
}

// NewCoordinator wires a flow instance and pushes the flow's root entry.
func NewCoordinator(
	flowKind FlowKind, account Account, network domain.NetworkType,
	txViewer ports.TxViewer, metrics *Metrics, opts CoordinatorOptions,
) *Coordinator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Coordinator{
		flowKind: flowKind,
		account:  account,
		network:  network,
		resolver: NewRecipientResolver(network),
		txViewer: txViewer,
		metrics:  metrics,
		opts:     opts,
		stack:    domain.NewNavigationStack(),
		flow:     domain.NewSendFlow(),
	}
	switch flowKind {
	case FlowScanSend:
		c.scanRootId = c.stack.Push(domain.ScanState{
			Checkers: []domain.ScanChecker{
				domain.CheckerAddress,
				domain.CheckerPaymentRequest,
				domain.CheckerGenericString,
			},
		})
	case FlowSwap:
		c.swapFormId = c.stack.Push(domain.SwapFormState{})
	default:
		c.formId = c.stack.Push(domain.SendFormState{})
	}
	return c
}

// Stack exposes the navigation stack for rendering. The view layer must
// treat it as read-only.
func (c *Coordinator) Stack() *domain.NavigationStack { return c.stack }

// Flow exposes the underlying flow entity, read-only.
func (c *Coordinator) Flow() *domain.SendFlow { return c.flow }

// Handle processes a single event and returns the effects to perform.
// Events arriving for entries that were already popped, or answering a
// superseded async request, are dropped without touching the stack.
func (c *Coordinator) Handle(ev Event) []Effect {
	switch e := ev.(type) {
	case RecipientPastedEvent:
		return c.onRecipientInput(ResolverInput{Kind: InputPasted, Value: e.Value})
	case ContactSelectedEvent:
		contact := e.Contact
		return c.onRecipientInput(ResolverInput{Kind: InputContact, Contact: &contact})
	case AmountChangedEvent:
		return c.onAmountChanged(e.Amount)
	case MemoChangedEvent:
		return c.onMemoChanged(e.Text)
	case ReviewRequestedEvent:
		return c.onReviewRequested()
	case SendRequestedEvent:
		return c.onSendRequested()
	case ScanRecognizedEvent:
		return c.onScanRecognized(e)
	case ScanCancelledEvent:
		return c.onScanCancelled(e)
	case BackTappedEvent:
		return c.onBackTapped()
	case CloseTappedEvent:
		return c.onCloseTapped()
	case ViewTransactionTappedEvent:
		return c.onViewTransaction(e.TxId)
	case SaveContactRequestedEvent:
		return c.onSaveContact(e.Name)
	case SkipContactEvent:
		return c.onSkipContact()
	case SwapAmountSubmittedEvent:
		return c.onSwapAmountSubmitted(e)
	case QuoteAcceptedEvent:
		return c.onQuoteAccepted()
	case QuoteRetryEvent:
		return c.onQuoteRetry()
	case ProposalReadyEvent:
		return c.onProposalReady(e)
	case ProposalFailedEvent:
		return c.onProposalFailed(e)
	case PcztReadyEvent:
		return c.onPcztReady(e)
	case PcztFailedEvent:
		return c.onPcztFailed()
	case BroadcastFinishedEvent:
		return c.onBroadcastFinished(e)
	case ResultDueEvent:
		return c.resolve(e.Result)
	case QuoteReadyEvent:
		return c.onQuoteReady(e)
	case QuoteFailedEvent:
		return c.onQuoteFailed(e)
	case ContactLookupDoneEvent:
		return c.onContactLookupDone(e)
	default:
		log.WithField("event", ev).Debug("unhandled event")
		return nil
	}
}

func (c *Coordinator) onRecipientInput(input ResolverInput) []Effect {
	resolved, err := c.resolver.Resolve(input)
	if err != nil {
		c.setFormError(err.Error())
		return nil
	}
	return c.applyResolved(resolved, input.Kind)
}

func (c *Coordinator) applyResolved(resolved ResolvedRecipient, kind ResolverInputKind) []Effect {
	c.form.recipient = resolved.Recipient
	if resolved.Amount != nil {
		c.form.amount = *resolved.Amount
	}
	if resolved.Memo != nil {
		c.form.memo = resolved.Memo
	}
	effects := c.invalidateStaleProposal()

	if c.formId == uuid.Nil {
		c.formId = c.stack.Push(c.formState())
	} else {
		_ = c.stack.Update(c.formId, func(domain.ScreenState) domain.ScreenState {
			return c.formState()
		})
	}

	// An address picked from the book is already saved; anything else may
	// prompt the save-contact sub-flow.
	if kind != InputContact {
		effects = append(effects, LookupContactEffect{Address: resolved.Recipient.Address()})
	}
	return effects
}

func (c *Coordinator) onAmountChanged(amount decimal.Decimal) []Effect {
	c.form.amount = amount
	effects := c.invalidateStaleProposal()
	c.updateForm()
	return effects
}

func (c *Coordinator) onMemoChanged(text string) []Effect {
	memo, err := domain.NewMemo(text)
	if err != nil {
		c.setFormError(err.Error())
		return nil
	}
	if !c.form.recipient.IsZero() && memo != nil && !c.form.recipient.SupportsMemo() {
		c.setFormError(domain.ErrMemoNotAllowed.Error())
		return nil
	}
	c.form.memo = memo
	effects := c.invalidateStaleProposal()
	c.updateForm()
	return effects
}

// invalidateStaleProposal drops a resolved or in-flight proposal after a
// user-visible change to the payment, since the fee quote no longer holds.
func (c *Coordinator) invalidateStaleProposal() []Effect {
	var effects []Effect
	if c.proposalPending {
		c.proposalPending = false
		effects = append(effects, CancelProposalEffect{})
	}
	if c.flow.IsConfirming() {
		if _, err := c.flow.InvalidateProposal(); err == nil && c.confirmationId != uuid.Nil {
			c.stack.PopThrough(c.confirmationId)
			c.confirmationId = uuid.Nil
		}
	}
	return effects
}

func (c *Coordinator) onReviewRequested() []Effect {
	if c.form.recipient.IsZero() || !c.form.amount.IsPositive() {
		c.setFormError(domain.ErrRecipientInvalid.Error())
		return nil
	}
	c.seq++
	c.proposalSeq = c.seq
	c.proposalPending = true
	return []Effect{FetchProposalEffect{
		Seq:       c.proposalSeq,
		Recipient: c.form.recipient,
		Amount:    c.form.amount,
		Memo:      c.form.memo.Clone(),
	}}
}

func (c *Coordinator) onProposalReady(e ProposalReadyEvent) []Effect {
	if e.Seq != c.proposalSeq || !c.proposalPending {
		log.WithField("seq", e.Seq).Debug("dropping superseded proposal")
		return nil
	}
	c.proposalPending = false

	// The originating screen must still be on the stack: a late-arriving
	// proposal never pushes a confirmation after its screen was popped.
	originId := c.formId
	if c.flowKind == FlowSwap {
		originId = c.swapFormId
	}
	if _, ok := c.stack.Get(originId); !ok {
		log.Debug("dropping proposal for a popped screen")
		return nil
	}

	cctx := domain.ConfirmationContext{
		Recipient:      c.form.recipient,
		Amount:         c.form.amount,
		Memo:           c.form.memo.Clone(),
		FiatEquivalent: c.fiat(c.form.amount),
		Proposal:       e.Proposal,
		IsShielding:    c.opts.Shielding,
		IsSwap:         c.flowKind == FlowSwap,
	}
	if _, err := c.flow.Confirm(cctx); err != nil {
		log.WithError(err).Warn("cannot confirm flow")
		return nil
	}
	c.confirmationId = c.stack.Push(domain.SendConfirmationState{Context: cctx.Clone()})
	return nil
}

func (c *Coordinator) onProposalFailed(e ProposalFailedEvent) []Effect {
	if e.Seq != c.proposalSeq || !c.proposalPending {
		return nil
	}
	c.proposalPending = false
	c.metrics.CountProposalFailure()
	// The flow may never have been confirmed, so the dead end is built from
	// the form, not from the flow's context.
	c.stack.Push(domain.ProposalFailedState{Context: domain.ConfirmationContext{
		Recipient:      c.form.recipient,
		Amount:         c.form.amount,
		Memo:           c.form.memo.Clone(),
		FiatEquivalent: c.fiat(c.form.amount),
		IsShielding:    c.opts.Shielding,
		IsSwap:         c.flowKind == FlowSwap,
	}})
	return nil
}

func (c *Coordinator) onSendRequested() []Effect {
	if !c.flow.IsConfirming() {
		return nil
	}
	if c.account.Hardware {
		return []Effect{SerializePcztEffect{Proposal: c.flow.Context.Proposal}}
	}
	if _, err := c.flow.RequestLocalSigning(); err != nil {
		log.WithError(err).Warn("cannot request local signing")
		return nil
	}
	return c.startBroadcast(BroadcastEffect{Proposal: c.flow.Context.Proposal})
}

func (c *Coordinator) onPcztReady(e PcztReadyEvent) []Effect {
	if _, err := c.flow.RequestAirGapSigning(e.Pczt); err != nil {
		log.WithError(err).Warn("cannot request air-gapped signing")
		return nil
	}
	if _, err := c.flow.BeginSignatureScan(); err != nil {
		return nil
	}
	c.airGapId = c.stack.Push(domain.AirGapSignState{Pczt: e.Pczt})
	c.signatureScanId = c.stack.Push(domain.ScanState{
		Checkers: []domain.ScanChecker{domain.CheckerSignedPczt},
	})
	return nil
}

func (c *Coordinator) onPcztFailed() []Effect {
	// No transaction exchange happened with the signer, so a dead-end
	// pre-signing failure is shown instead of a result screen.
	c.stack.Push(domain.PreSigningFailureState{Context: c.flow.Context.Clone()})
	return nil
}

func (c *Coordinator) onScanRecognized(e ScanRecognizedEvent) []Effect {
	if _, ok := c.stack.Get(e.EntryId); !ok {
		return nil
	}
	if e.Checker == domain.CheckerSignedPczt {
		return c.onSignatureScanned(e)
	}

	resolved, err := c.resolver.Resolve(ResolverInput{Kind: InputScanned, Value: e.Payload})
	if err != nil {
		// The resolver performs no stack mutation on invalid input; the
		// scan screen surfaces the error inline and stays up.
		_ = c.stack.Update(e.EntryId, func(s domain.ScreenState) domain.ScreenState {
			scan, ok := s.(domain.ScanState)
			if !ok {
				return s
			}
			scan.InlineError = err.Error()
			return scan
		})
		return nil
	}

	c.stack.PopThrough(e.EntryId)
	if e.EntryId == c.scanRootId {
		c.scanRootId = uuid.Nil
	}
	effects := []Effect{HapticConfirmEffect{}}
	return append(effects, c.applyResolved(resolved, InputScanned)...)
}

func (c *Coordinator) onSignatureScanned(e ScanRecognizedEvent) []Effect {
	if e.EntryId != c.signatureScanId {
		return nil
	}
	signed := domain.PCZT(e.Payload)
	if _, err := c.flow.AttachSignedTransaction(signed); err != nil {
		log.WithError(err).Warn("cannot attach signed transaction")
		return nil
	}
	c.stack.PopThrough(c.airGapId)
	c.airGapId = uuid.Nil
	c.signatureScanId = uuid.Nil
	effects := []Effect{HapticConfirmEffect{}}
	return append(effects, c.startBroadcast(BroadcastEffect{SignedPczt: signed})...)
}

func (c *Coordinator) onScanCancelled(e ScanCancelledEvent) []Effect {
	if e.EntryId == c.signatureScanId && c.airGapId != uuid.Nil {
		// Abandoning the signature scan restores the stack to exactly the
		// state before the hardware send was requested.
		c.stack.PopThrough(c.airGapId)
		c.airGapId = uuid.Nil
		c.signatureScanId = uuid.Nil
		if _, err := c.flow.AbandonSignatureScan(); err != nil {
			log.WithError(err).Warn("cannot abandon signature scan")
		}
		return nil
	}
	c.stack.PopThrough(e.EntryId)
	return nil
}

func (c *Coordinator) startBroadcast(effect BroadcastEffect) []Effect {
	now := c.opts.Now()
	c.sendingId = c.stack.Push(domain.SendingState{ShownAt: now})
	if _, err := c.flow.StartBroadcast(now); err != nil {
		log.WithError(err).Warn("cannot start broadcast")
		return nil
	}
	return []Effect{effect}
}

func (c *Coordinator) onBroadcastFinished(e BroadcastFinishedEvent) []Effect {
	result := e.Result
	if e.Err != nil {
		result = ClassifyBroadcastError(e.Err)
	}
	if dwell := c.flow.RemainingDwell(c.opts.Now(), c.opts.DwellFloor); dwell > 0 {
		return []Effect{DelayResultEffect{Delay: dwell, Result: result}}
	}
	return c.resolve(result)
}

func (c *Coordinator) resolve(result ports.SendResult) []Effect {
	var effects []Effect
	airGapped := c.flow.IsAirGapped()

	switch result.Kind {
	case ports.SendResultSuccess:
		if _, err := c.flow.ResolveSuccess(result.TxIds); err != nil {
			return nil
		}
		if c.flow.Context.IsShielding {
			effects = append(effects, ResetShieldingReminderEffect{AccountName: c.account.Name})
		}
		c.metrics.CountOutcome("success")
	case ports.SendResultPartial:
		if _, err := c.flow.ResolvePartial(result.TxIds, result.Statuses); err != nil {
			return nil
		}
		c.metrics.CountOutcome("partial")
	default:
		fatal := result.IsFatal()
		if _, err := c.flow.ResolveFailure(
			result.TxIds, result.Code, result.Description, fatal,
		); err != nil {
			return nil
		}
		if fatal {
			c.metrics.CountOutcome("failure")
		} else {
			c.metrics.CountOutcome("resubmission")
		}
		if fatal && airGapped && len(result.TxIds) == 0 {
			// Broadcast failed with nothing on chain while in an
			// air-gapped flow: dead end instead of a result screen.
			c.popSending()
			c.stack.Push(domain.PreSigningFailureState{Context: c.flow.Context.Clone()})
			return effects
		}
	}

	c.popSending()
	c.stack.Push(ResolveResult(result, c.flow.Context))
	return effects
}

func (c *Coordinator) popSending() {
	if c.sendingId != uuid.Nil {
		c.stack.PopThrough(c.sendingId)
		c.sendingId = uuid.Nil
	}
}

func (c *Coordinator) onViewTransaction(txId string) []Effect {
	if c.txViewer == nil {
		return nil
	}
	if _, ok := c.txViewer.GetTransaction(txId); !ok {
		// Not yet observed by the synchronizer's event stream. Tolerated
		// race: the tap is a no-op until the tx shows up in the snapshot.
		log.WithField("txid", txId).Debug("transaction not yet visible")
		return nil
	}
	c.stack.Push(domain.TransactionDetailsState{TxId: txId})
	return nil
}

func (c *Coordinator) onContactLookupDone(e ContactLookupDoneEvent) []Effect {
	if e.Contact != nil || c.form.recipient.Address() != e.Address {
		return nil
	}
	if c.contactPromptId != uuid.Nil {
		return nil
	}
	c.contactPromptId = c.stack.Push(domain.AddressBookContactState{
		Address: e.Address, IsNew: true,
	})
	return nil
}

func (c *Coordinator) onSaveContact(name string) []Effect {
	if c.contactPromptId == uuid.Nil {
		return nil
	}
	entry, ok := c.stack.Get(c.contactPromptId)
	if !ok {
		c.contactPromptId = uuid.Nil
		return nil
	}
	state := entry.State.(domain.AddressBookContactState)
	c.stack.PopThrough(c.contactPromptId)
	c.contactPromptId = uuid.Nil
	return []Effect{SaveContactEffect{
		Contact: ports.Contact{Address: state.Address, Name: name},
	}}
}

func (c *Coordinator) onSkipContact() []Effect {
	if c.contactPromptId == uuid.Nil {
		return nil
	}
	c.stack.PopThrough(c.contactPromptId)
	c.contactPromptId = uuid.Nil
	return nil
}

func (c *Coordinator) onSwapAmountSubmitted(e SwapAmountSubmittedEvent) []Effect {
	if c.flowKind != FlowSwap {
		return nil
	}
	c.swap.fromAsset = e.FromAsset
	c.swap.toAsset = e.ToAsset
	c.swap.amount = e.Amount
	c.seq++
	c.quoteSeq = c.seq
	c.quotePending = true
	return []Effect{FetchQuoteEffect{
		Seq:       c.quoteSeq,
		FromAsset: e.FromAsset,
		ToAsset:   e.ToAsset,
		Amount:    e.Amount,
	}}
}

func (c *Coordinator) onQuoteReady(e QuoteReadyEvent) []Effect {
	if e.Seq != c.quoteSeq || !c.quotePending {
		return nil
	}
	c.quotePending = false
	if _, ok := c.stack.Get(c.swapFormId); !ok {
		return nil
	}
	if e.Quote.IsExpired(c.opts.Now()) {
		return c.quoteDeadEnd()
	}
	quote := e.Quote
	c.swap.quote = &quote
	c.stack.Push(domain.SwapQuoteState{
		Rate:   quote.Rate,
		MinOut: quote.MinAmountOut(),
		Expiry: quote.ExpiresAt,
	})
	return nil
}

func (c *Coordinator) onQuoteFailed(e QuoteFailedEvent) []Effect {
	if e.Seq != c.quoteSeq || !c.quotePending {
		return nil
	}
	c.quotePending = false
	return c.quoteDeadEnd()
}

func (c *Coordinator) quoteDeadEnd() []Effect {
	c.metrics.CountQuoteFailure()
	c.stack.Push(domain.QuoteUnavailableState{
		FromAsset: c.swap.fromAsset,
		ToAsset:   c.swap.toAsset,
		Amount:    c.swap.amount,
	})
	return nil
}

func (c *Coordinator) onQuoteAccepted() []Effect {
	if c.swap.quote == nil {
		return nil
	}
	if c.swap.quote.IsExpired(c.opts.Now()) {
		c.swap.quote = nil
		return c.quoteDeadEnd()
	}
	recipient, err := domain.NewRecipient(c.swap.quote.DepositAddress, c.network)
	if err != nil {
		return c.quoteDeadEnd()
	}
	c.form.recipient = recipient
	c.form.amount = c.swap.amount
	c.seq++
	c.proposalSeq = c.seq
	c.proposalPending = true
	return []Effect{FetchProposalEffect{
		Seq:       c.proposalSeq,
		Recipient: recipient,
		Amount:    c.swap.amount,
	}}
}

func (c *Coordinator) onQuoteRetry() []Effect {
	if entry, ok := c.stack.LastWhere(domain.ScreenQuoteUnavailable); ok {
		c.stack.PopThrough(entry.Id)
	}
	return c.onSwapAmountSubmitted(SwapAmountSubmittedEvent{
		FromAsset: c.swap.fromAsset,
		ToAsset:   c.swap.toAsset,
		Amount:    c.swap.amount,
	})
}

func (c *Coordinator) onBackTapped() []Effect {
	// Backing out of the signed-PCZT scan abandons the whole air-gapped
	// exchange, exactly like cancelling the scan.
	if top, ok := c.stack.Top(); ok &&
		top.Id == c.signatureScanId && c.airGapId != uuid.Nil {
		return c.onScanCancelled(ScanCancelledEvent{EntryId: top.Id})
	}
	popped, ok := c.stack.PopLast()
	if !ok {
		return nil
	}
	var effects []Effect
	if c.proposalPending && (popped.Id == c.formId || popped.Id == c.swapFormId) {
		c.proposalPending = false
		effects = append(effects, CancelProposalEffect{})
	}
	if c.quotePending && popped.Id == c.swapFormId {
		c.quotePending = false
		effects = append(effects, CancelQuoteEffect{})
	}
	c.forgetEntry(popped.Id)
	return effects
}

func (c *Coordinator) onCloseTapped() []Effect {
	c.stack.RemoveAll()
	var effects []Effect
	if c.proposalPending {
		c.proposalPending = false
		effects = append(effects, CancelProposalEffect{})
	}
	if c.quotePending {
		c.quotePending = false
		effects = append(effects, CancelQuoteEffect{})
	}
	return effects
}

func (c *Coordinator) forgetEntry(id uuid.UUID) {
	switch id {
	case c.formId:
		c.formId = uuid.Nil
	case c.confirmationId:
		c.confirmationId = uuid.Nil
	case c.sendingId:
		c.sendingId = uuid.Nil
	case c.contactPromptId:
		c.contactPromptId = uuid.Nil
	case c.swapFormId:
		c.swapFormId = uuid.Nil
	case c.scanRootId:
		c.scanRootId = uuid.Nil
	case c.airGapId:
		c.airGapId = uuid.Nil
	case c.signatureScanId:
		c.signatureScanId = uuid.Nil
	}
}

func (c *Coordinator) formState() domain.SendFormState {
	recipient := c.form.recipient
	state := domain.SendFormState{Amount: c.form.amount, Memo: c.form.memo}
	if !recipient.IsZero() {
		state.Recipient = &recipient
	}
	return state
}

func (c *Coordinator) updateForm() {
	if c.formId == uuid.Nil {
		return
	}
	_ = c.stack.Update(c.formId, func(domain.ScreenState) domain.ScreenState {
		return c.formState()
	})
}

func (c *Coordinator) setFormError(msg string) {
	if c.formId == uuid.Nil {
		return
	}
	_ = c.stack.Update(c.formId, func(s domain.ScreenState) domain.ScreenState {
		form, ok := s.(domain.SendFormState)
		if !ok {
			return s
		}
		form.InlineError = msg
		return form
	})
}

func (c *Coordinator) fiat(amount decimal.Decimal) string {
	if c.opts.FiatFormatter == nil {
		return ""
	}
	return c.opts.FiatFormatter(amount)
}
