package domain

import "time"

// ReminderKind identifies the nag a reminder record belongs to.
type ReminderKind int

const (
	ReminderShielding ReminderKind = iota
	ReminderBackup
	ReminderSwap
)

func (k ReminderKind) String() string {
	switch k {
	case ReminderShielding:
		return "shielding"
	case ReminderBackup:
		return "backup"
	case ReminderSwap:
		return "swap"
	default:
		return "unknown"
	}
}

// Reminder is the persisted {timestamp, occurrenceCount} record behind the
// shielding/backup/swap nags. The coordinator reads and writes it only
// through ReminderRepository and never owns its storage format.
type Reminder struct {
	Timestamp   int64
	Occurrences int
}

// ReminderInterval pairs an occurrence count with the minimum interval
// before the nag may fire again.
type ReminderInterval struct {
	Occurrence  int
	MinInterval time.Duration
}

// ReminderSchedule is the back-off table for repeated nags: 2 days after
// the first occurrence, 2 weeks after the second, 30 days from then on.
// Kept as an ordered table so the schedule is independently testable.
var ReminderSchedule = []ReminderInterval{
	{Occurrence: 0, MinInterval: 2 * 24 * time.Hour},
	{Occurrence: 1, MinInterval: 14 * 24 * time.Hour},
	{Occurrence: 2, MinInterval: 30 * 24 * time.Hour},
}

// IsDue returns whether enough time elapsed since the last occurrence for
// the nag to fire again. A zero record is always due.
func (r Reminder) IsDue(now time.Time) bool {
	if r.Timestamp == 0 {
		return true
	}
	interval := ReminderSchedule[len(ReminderSchedule)-1].MinInterval
	for _, entry := range ReminderSchedule {
		if r.Occurrences <= entry.Occurrence {
			interval = entry.MinInterval
			break
		}
	}
	return !now.Before(time.Unix(r.Timestamp, 0).Add(interval))
}

// Bump records that the nag fired now, advancing the back-off schedule.
func (r Reminder) Bump(now time.Time) Reminder {
	return Reminder{Timestamp: now.Unix(), Occurrences: r.Occurrences + 1}
}

// Reset clears the record so the nag starts over from the beginning of the
// schedule, used after a successful shielding transaction.
func (r Reminder) Reset() Reminder {
	return Reminder{}
}
