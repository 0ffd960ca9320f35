package schedule

import (
	"time"

	"github.com/scheddesk/scheddesk/internal/model"
)

// ImminentWindowMinutes is the login-alert lookahead.
const ImminentWindowMinutes = 15

// FindImminent returns the first appointment in input order that starts
// between 0 and 15 whole minutes after now, inclusive. The minute count is
// truncated, so an appointment 15m30s out still alerts. Callers that want
// the soonest appointment rather than the first encountered should pass the
// slice sorted by start time. The second return is false when nothing is
// imminent; that is a normal outcome, not an error.
func FindImminent(appts []model.Appointment, now time.Time) (model.Appointment, bool) {
	for _, a := range appts {
		mins := int(a.Start.Sub(now) / time.Minute)
		if mins >= 0 && mins <= ImminentWindowMinutes {
			return a, true
		}
	}
	return model.Appointment{}, false
}
