package domain

import "context"

// ReminderRepository is the boundary to the wallet storage collaborator
// for reminder records and the shielding acknowledgement flag. Records are
// keyed by account name and reminder kind.
type ReminderRepository interface {
	GetReminder(
		ctx context.Context, accountName string, kind ReminderKind,
	) (Reminder, error)
	UpdateReminder(
		ctx context.Context, accountName string, kind ReminderKind,
		updateFn func(r Reminder) (Reminder, error),
	) error
	GetShieldingAcknowledged(
		ctx context.Context, accountName string,
	) (bool, error)
	SetShieldingAcknowledged(
		ctx context.Context, accountName string, acked bool,
	) error
}
