// Package countdown computes human-readable time remaining (or elapsed)
// until a deadline. It holds no state: callers re-evaluate against a
// live clock.
package countdown

import (
	"fmt"
	"sort"
	"time"

	"github.com/nhle/taskdash/internal/model"
)

// Status describes the signed distance between now and a deadline.
type Status struct {
	// Delta is deadline minus now. Positive means time remains;
	// zero or negative means overdue.
	Delta time.Duration

	// Magnitude components of |Delta|.
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Until computes the countdown status for a deadline at the given time.
func Until(deadline, now time.Time) Status {
	delta := deadline.Sub(now)

	abs := delta
	if abs < 0 {
		abs = -abs
	}

	return Status{
		Delta:   delta,
		Days:    int(abs / (24 * time.Hour)),
		Hours:   int(abs % (24 * time.Hour) / time.Hour),
		Minutes: int(abs % time.Hour / time.Minute),
		Seconds: int(abs % time.Minute / time.Second),
	}
}

// Overdue reports whether the deadline has passed. The exact instant of
// the deadline counts as overdue, not remaining.
func (s Status) Overdue() bool {
	return s.Delta <= 0
}

// String renders the status as "D-Days HH:MM:SS remaining" or
// "D-Days HH:MM:SS overdue".
func (s Status) String() string {
	label := "remaining"
	if s.Overdue() {
		label = "overdue"
	}
	return fmt.Sprintf("%d-Days %02d:%02d:%02d %s",
		s.Days, s.Hours, s.Minutes, s.Seconds, label)
}

// SortTasks orders tasks by raw signed delta at the given time, so
// ascending means least time remaining first regardless of the
// overdue/remaining split. The sort is stable and in place.
func SortTasks(tasks []model.Task, now time.Time, desc bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		di := tasks[i].Deadline.Sub(now)
		dj := tasks[j].Deadline.Sub(now)
		if desc {
			return di > dj
		}
		return di < dj
	})
}
