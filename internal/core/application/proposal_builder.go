package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/shieldpay/sendflow/internal/core/domain"
	"github.com/shieldpay/sendflow/internal/core/ports"
	"github.com/shopspring/decimal"
)

// ProposalBuilder requests transaction proposals from the synchronizer.
// Only one outstanding request is honored per confirmation context: a new
// request supersedes any in-flight one instead of queueing behind it.
// Completions are delivered as ProposalReadyEvent/ProposalFailedEvent
// carrying the request's sequence number.
type ProposalBuilder struct {
	synchronizer ports.Synchronizer
	accountId    string
	timeout      time.Duration
	events       chan<- Event

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewProposalBuilder(
	synchronizer ports.Synchronizer, accountId string,
	timeout time.Duration, events chan<- Event,
) *ProposalBuilder {
	return &ProposalBuilder{
		synchronizer: synchronizer,
		accountId:    accountId,
		timeout:      timeout,
		events:       events,
	}
}

// Request starts an asynchronous proposal fetch for the given coordinator
// sequence number. Any in-flight request is cancelled first, so a newer
// request always supersedes an older one instead of queueing behind it.
func (b *ProposalBuilder) Request(
	ctx context.Context, seq uint64,
	recipient domain.Recipient, amount decimal.Decimal, memo *domain.Memo,
) {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	reqCtx, cancel := context.WithTimeout(ctx, b.timeout)
	b.cancel = cancel
	b.mu.Unlock()

	go func() {
		defer cancel()
		proposal, err := b.synchronizer.ProposeTransfer(
			reqCtx, b.accountId, recipient, amount, memo,
		)
		if reqCtx.Err() != nil {
			// Superseded or cancelled: the originating screen may already
			// be gone, so nothing is delivered.
			log.WithField("seq", seq).Debug("proposal request cancelled")
			return
		}
		if err != nil {
			log.WithError(err).Warn("proposal request failed")
			b.events <- ProposalFailedEvent{Seq: seq, Err: ErrProposalFailed}
			return
		}
		b.events <- ProposalReadyEvent{Seq: seq, Proposal: proposal}
	}()
}

// Cancel aborts the in-flight request, if any. Called when the user pops
// the stack past a pending-proposal screen.
func (b *ProposalBuilder) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

