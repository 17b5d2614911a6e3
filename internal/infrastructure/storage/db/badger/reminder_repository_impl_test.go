package dbbadger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shieldpay/sendflow/internal/core/domain"
	dbbadger "github.com/shieldpay/sendflow/internal/infrastructure/storage/db/badger"
)

func newTestDb(t *testing.T) *dbbadger.DbManager {
	t.Helper()
	db, err := dbbadger.NewDbManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	return db
}

func TestReminderRepository(t *testing.T) {
	ctx := context.Background()
	repo := dbbadger.NewReminderRepositoryImpl(newTestDb(t))

	reminder, err := repo.GetReminder(ctx, "main", domain.ReminderShielding)
	require.NoError(t, err)
	require.Zero(t, reminder.Timestamp)
	require.True(t, reminder.IsDue(time.Now()))

	now := time.Now()
	err = repo.UpdateReminder(ctx, "main", domain.ReminderShielding,
		func(r domain.Reminder) (domain.Reminder, error) {
			return r.Bump(now), nil
		},
	)
	require.NoError(t, err)

	reminder, err = repo.GetReminder(ctx, "main", domain.ReminderShielding)
	require.NoError(t, err)
	require.Equal(t, now.Unix(), reminder.Timestamp)
	require.Equal(t, 1, reminder.Occurrences)

	err = repo.UpdateReminder(ctx, "main", domain.ReminderShielding,
		func(r domain.Reminder) (domain.Reminder, error) {
			return r.Reset(), nil
		},
	)
	require.NoError(t, err)

	reminder, err = repo.GetReminder(ctx, "main", domain.ReminderShielding)
	require.NoError(t, err)
	require.Zero(t, reminder.Timestamp)
	require.Zero(t, reminder.Occurrences)
}

func TestShieldingAcknowledged(t *testing.T) {
	ctx := context.Background()
	repo := dbbadger.NewReminderRepositoryImpl(newTestDb(t))

	acked, err := repo.GetShieldingAcknowledged(ctx, "main")
	require.NoError(t, err)
	require.False(t, acked)

	require.NoError(t, repo.SetShieldingAcknowledged(ctx, "main", true))
	acked, err = repo.GetShieldingAcknowledged(ctx, "main")
	require.NoError(t, err)
	require.True(t, acked)
}
