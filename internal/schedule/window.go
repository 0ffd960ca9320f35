package schedule

import (
	"time"

	"github.com/scheddesk/scheddesk/internal/model"
)

// ByWeek returns the appointments whose start date falls inside the
// Sunday-through-Saturday week containing ref. Only the calendar date of
// each start instant, seen in loc, is compared; both window ends are
// inclusive.
func ByWeek(appts []model.Appointment, ref time.Time, loc *time.Location) []model.Appointment {
	day := dateOnly(ref.In(loc))
	start := day.AddDate(0, 0, -int(day.Weekday()))
	end := start.AddDate(0, 0, 6)
	return filterRange(appts, start, end, loc)
}

// ByMonth returns the appointments whose start date falls inside ref's
// calendar month, first through last day inclusive.
func ByMonth(appts []model.Appointment, ref time.Time, loc *time.Location) []model.Appointment {
	day := ref.In(loc)
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)
	return filterRange(appts, start, end, loc)
}

// All is the identity pass-through bucket.
func All(appts []model.Appointment) []model.Appointment {
	return appts
}

func filterRange(appts []model.Appointment, start, end time.Time, loc *time.Location) []model.Appointment {
	out := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		d := dateOnly(a.Start.In(loc))
		if !d.Before(start) && !d.After(end) {
			out = append(out, a)
		}
	}
	return out
}
