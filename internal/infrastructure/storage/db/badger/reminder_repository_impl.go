package dbbadger

import (
	"context"
	"errors"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/shieldpay/sendflow/internal/core/domain"
)

type reminderRecord struct {
	Key         string `badgerhold:"key"`
	Timestamp   int64
	Occurrences int
}

type ackRecord struct {
	Key   string `badgerhold:"key"`
	Acked bool
}

type reminderRepositoryImpl struct {
	db *DbManager
}

// NewReminderRepositoryImpl returns a badger-backed implementation of the
// domain ReminderRepository.
func NewReminderRepositoryImpl(db *DbManager) domain.ReminderRepository {
	return reminderRepositoryImpl{db: db}
}

func (r reminderRepositoryImpl) GetReminder(
	_ context.Context, accountName string, kind domain.ReminderKind,
) (domain.Reminder, error) {
	var record reminderRecord
	err := r.db.Store.Get(reminderKey(accountName, kind), &record)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return domain.Reminder{}, nil
	}
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("reading reminder: %w", err)
	}
	return domain.Reminder{
		Timestamp:   record.Timestamp,
		Occurrences: record.Occurrences,
	}, nil
}

func (r reminderRepositoryImpl) UpdateReminder(
	ctx context.Context, accountName string, kind domain.ReminderKind,
	updateFn func(rec domain.Reminder) (domain.Reminder, error),
) error {
	current, err := r.GetReminder(ctx, accountName, kind)
	if err != nil {
		return err
	}
	updated, err := updateFn(current)
	if err != nil {
		return err
	}
	record := reminderRecord{
		Key:         reminderKey(accountName, kind),
		Timestamp:   updated.Timestamp,
		Occurrences: updated.Occurrences,
	}
	if err := r.db.Store.Upsert(record.Key, record); err != nil {
		return fmt.Errorf("writing reminder: %w", err)
	}
	return nil
}

func (r reminderRepositoryImpl) GetShieldingAcknowledged(
	_ context.Context, accountName string,
) (bool, error) {
	var record ackRecord
	err := r.db.Store.Get(ackKey(accountName), &record)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading shielding ack: %w", err)
	}
	return record.Acked, nil
}

func (r reminderRepositoryImpl) SetShieldingAcknowledged(
	_ context.Context, accountName string, acked bool,
) error {
	record := ackRecord{Key: ackKey(accountName), Acked: acked}
	if err := r.db.Store.Upsert(record.Key, record); err != nil {
		return fmt.Errorf("writing shielding ack: %w", err)
	}
	return nil
}

func reminderKey(accountName string, kind domain.ReminderKind) string {
	return fmt.Sprintf("reminder:%s:%s", accountName, kind)
}

func ackKey(accountName string) string {
	return fmt.Sprintf("shielding-ack:%s", accountName)
}
