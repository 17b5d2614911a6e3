package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shieldpay/sendflow/internal/core/application"
	"github.com/shieldpay/sendflow/internal/core/domain"
	"github.com/shieldpay/sendflow/internal/core/ports"
)

type stubAddressBook struct {
	contact *ports.Contact
	saved   chan ports.Contact
}

func (b *stubAddressBook) FindByAddress(
	_ context.Context, _ string,
) (*ports.Contact, error) {
	return b.contact, nil
}

func (b *stubAddressBook) Save(_ context.Context, contact ports.Contact) error {
	if b.saved != nil {
		b.saved <- contact
	}
	return nil
}

type stubReminderRepo struct {
	updated chan domain.ReminderKind
}

func (r *stubReminderRepo) GetReminder(
	_ context.Context, _ string, _ domain.ReminderKind,
) (domain.Reminder, error) {
	return domain.Reminder{}, nil
}

func (r *stubReminderRepo) UpdateReminder(
	_ context.Context, _ string, kind domain.ReminderKind,
	updateFn func(rec domain.Reminder) (domain.Reminder, error),
) error {
	if _, err := updateFn(domain.Reminder{Occurrences: 3}); err != nil {
		return err
	}
	r.updated <- kind
	return nil
}

func (r *stubReminderRepo) GetShieldingAcknowledged(
	_ context.Context, _ string,
) (bool, error) {
	return false, nil
}

func (r *stubReminderRepo) SetShieldingAcknowledged(
	_ context.Context, _ string, _ bool,
) error {
	return nil
}

// Drives a complete shielding send through the runner loop with stubbed
// collaborators and verifies the terminal state once the loop stopped.
func TestRunnerDrivesSendFlowToResolution(t *testing.T) {
	t.Parallel()

	synchronizer := &mockSynchronizer{
		proposeFn: func(context.Context) (domain.Proposal, error) {
			return stubProposal{subtx: 1}, nil
		},
		createFn: func(context.Context) (ports.SendResult, error) {
			return ports.NewSuccessResult([]string{"txA"}), nil
		},
	}
	book := &stubAddressBook{
		contact: &ports.Contact{Address: validShielded(), Name: "alice"},
	}
	reminders := &stubReminderRepo{updated: make(chan domain.ReminderKind, 1)}

	coordinator := application.NewCoordinator(
		application.FlowSend,
		application.Account{Id: "acct", Name: "main"},
		domain.NetworkMainnet, nil, nil,
		application.CoordinatorOptions{Shielding: true},
	)
	runner := application.NewRunner(
		coordinator, synchronizer, nil, book, reminders, nil,
		time.Second, time.Second,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	runner.Events() <- application.RecipientPastedEvent{Value: validShielded()}
	runner.Events() <- application.AmountChangedEvent{
		Amount: decimal.RequireFromString("1.5"),
	}
	runner.Events() <- application.ReviewRequestedEvent{}

	// The confirmation appears only after the proposal completion is
	// processed, so keep nudging: a premature send request is dropped.
	require.Eventually(t, func() bool {
		select {
		case kind := <-reminders.updated:
			require.Equal(t, domain.ReminderShielding, kind)
			return true
		default:
			runner.Events() <- application.SendRequestedEvent{}
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	require.True(t, coordinator.Flow().IsResolved())
	require.Equal(t, []string{"txA"}, coordinator.Flow().TxIds)
	top, ok := coordinator.Stack().Top()
	require.True(t, ok)
	require.Equal(t, domain.ScreenResultSuccess, top.Kind())
}
