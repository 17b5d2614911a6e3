package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shieldpay/sendflow/internal/core/domain"
)

type reminderRepositoryImpl struct {
	lock      *sync.RWMutex
	reminders map[string]domain.Reminder
	acks      map[string]bool
}

// NewReminderRepositoryImpl returns an in-memory implementation of the
// domain ReminderRepository, used in tests and for ephemeral wallets.
func NewReminderRepositoryImpl() domain.ReminderRepository {
	return &reminderRepositoryImpl{
		lock:      &sync.RWMutex{},
		reminders: map[string]domain.Reminder{},
		acks:      map[string]bool{},
	}
}

func (r *reminderRepositoryImpl) GetReminder(
	_ context.Context, accountName string, kind domain.ReminderKind,
) (domain.Reminder, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.reminders[key(accountName, kind)], nil
}

func (r *reminderRepositoryImpl) UpdateReminder(
	_ context.Context, accountName string, kind domain.ReminderKind,
	updateFn func(rec domain.Reminder) (domain.Reminder, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	updated, err := updateFn(r.reminders[key(accountName, kind)])
	if err != nil {
		return err
	}
	r.reminders[key(accountName, kind)] = updated
	return nil
}

func (r *reminderRepositoryImpl) GetShieldingAcknowledged(
	_ context.Context, accountName string,
) (bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.acks[accountName], nil
}

func (r *reminderRepositoryImpl) SetShieldingAcknowledged(
	_ context.Context, accountName string, acked bool,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.acks[accountName] = acked
	return nil
}

func key(accountName string, kind domain.ReminderKind) string {
	return fmt.Sprintf("%s:%s", accountName, kind)
}
