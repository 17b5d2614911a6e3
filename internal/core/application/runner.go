package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/shieldpay/sendflow/internal/core/domain"
	"github.com/shieldpay/sendflow/internal/core/ports"
)

// Runner executes the effects produced by a coordinator and feeds async
// completions back as events. All events, whether from the view layer or
// from completed tasks, are processed one at a time in arrival order.
type Runner struct {
	coordinator  *Coordinator
	builder      *ProposalBuilder
	synchronizer ports.Synchronizer
	rates        ports.RateProvider
	addressBook  ports.AddressBook
	reminders    domain.ReminderRepository
	feedback     ports.Feedback
	quoteTimeout time.Duration
	events       chan Event

	mu          sync.Mutex
	quoteCancel context.CancelFunc
}

func NewRunner(
	coordinator *Coordinator,
	synchronizer ports.Synchronizer,
	rates ports.RateProvider,
	addressBook ports.AddressBook,
	reminders domain.ReminderRepository,
	feedback ports.Feedback,
	proposalTimeout, quoteTimeout time.Duration,
) *Runner {
	events := make(chan Event, 32)
	return &Runner{
		coordinator: coordinator,
		builder: NewProposalBuilder(
			synchronizer, coordinator.account.Id, proposalTimeout, events,
		),
		synchronizer: synchronizer,
		rates:        rates,
		addressBook:  addressBook,
		reminders:    reminders,
		feedback:     feedback,
		quoteTimeout: quoteTimeout,
		events:       events,
	}
}

// Events is where the view layer submits user actions.
func (r *Runner) Events() chan<- Event { return r.events }

// Run drives the flow until the context is cancelled. It is the only
// goroutine that calls Coordinator.Handle.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.builder.Cancel()
			r.cancelQuote()
			return
		case ev := <-r.events:
			effects := r.coordinator.Handle(ev)
			r.dispatch(ctx, effects)
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, effects []Effect) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case FetchProposalEffect:
			r.builder.Request(ctx, e.Seq, e.Recipient, e.Amount, e.Memo)
		case CancelProposalEffect:
			r.builder.Cancel()
		case SerializePcztEffect:
			go r.serializePczt(ctx, e)
		case BroadcastEffect:
			go r.broadcast(ctx, e)
		case DelayResultEffect:
			go r.delayResult(ctx, e)
		case FetchQuoteEffect:
			r.fetchQuote(ctx, e)
		case CancelQuoteEffect:
			r.cancelQuote()
		case HapticConfirmEffect:
			if r.feedback != nil {
				r.feedback.ConfirmScan()
			}
		case ResetShieldingReminderEffect:
			go r.resetShieldingReminder(ctx, e)
		case LookupContactEffect:
			go r.lookupContact(ctx, e)
		case SaveContactEffect:
			go r.saveContact(ctx, e)
		default:
			log.WithField("effect", effect).Warn("unknown effect")
		}
	}
}

func (r *Runner) serializePczt(ctx context.Context, e SerializePcztEffect) {
	pczt, err := r.synchronizer.SerializeProposal(ctx, e.Proposal)
	if err != nil {
		log.WithError(err).Warn("pczt serialization failed")
		r.events <- PcztFailedEvent{Err: err}
		return
	}
	r.events <- PcztReadyEvent{Pczt: pczt}
}

// broadcast submits the signed transaction(s). Once dispatched it is never
// cancelled: on flow abandonment the coordinator still receives and
// reconciles the terminal event.
func (r *Runner) broadcast(ctx context.Context, e BroadcastEffect) {
	var (
		result ports.SendResult
		err    error
	)
	if !e.SignedPczt.IsEmpty() {
		result, err = r.synchronizer.BroadcastSignedPczt(ctx, e.SignedPczt)
	} else {
		result, err = r.synchronizer.CreateProposedTransactions(
			ctx, r.coordinator.account.Id, e.Proposal,
		)
	}
	r.events <- BroadcastFinishedEvent{Result: result, Err: err}
}

func (r *Runner) delayResult(ctx context.Context, e DelayResultEffect) {
	timer := time.NewTimer(e.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
		r.events <- ResultDueEvent{Result: e.Result}
	}
}

func (r *Runner) fetchQuote(ctx context.Context, e FetchQuoteEffect) {
	r.mu.Lock()
	if r.quoteCancel != nil {
		r.quoteCancel()
	}
	quoteCtx, cancel := context.WithTimeout(ctx, r.quoteTimeout)
	r.quoteCancel = cancel
	r.mu.Unlock()

	go func() {
		defer cancel()
		quote, err := r.rates.GetQuote(quoteCtx, e.FromAsset, e.ToAsset, e.Amount)
		if quoteCtx.Err() != nil {
			return
		}
		if err != nil {
			r.events <- QuoteFailedEvent{Seq: e.Seq, Err: err}
			return
		}
		r.events <- QuoteReadyEvent{Seq: e.Seq, Quote: quote}
	}()
}

func (r *Runner) cancelQuote() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.quoteCancel != nil {
		r.quoteCancel()
		r.quoteCancel = nil
	}
}

func (r *Runner) resetShieldingReminder(ctx context.Context, e ResetShieldingReminderEffect) {
	err := r.reminders.UpdateReminder(
		ctx, e.AccountName, domain.ReminderShielding,
		func(rec domain.Reminder) (domain.Reminder, error) {
			return rec.Reset(), nil
		},
	)
	if err != nil {
		log.WithError(err).Warn("cannot reset shielding reminder")
	}
}

func (r *Runner) lookupContact(ctx context.Context, e LookupContactEffect) {
	contact, err := r.addressBook.FindByAddress(ctx, e.Address)
	if err != nil {
		log.WithError(err).Warn("address book lookup failed")
		return
	}
	r.events <- ContactLookupDoneEvent{Address: e.Address, Contact: contact}
}

func (r *Runner) saveContact(ctx context.Context, e SaveContactEffect) {
	if err := r.addressBook.Save(ctx, e.Contact); err != nil {
		log.WithError(err).Warn("cannot save contact")
	}
}
