package schedule

import "time"

// Operating window, expressed as minutes after midnight in the reference
// zone. Both endpoints are valid appointment instants.
const (
	openMinute  = 8 * 60  // 08:00
	closeMinute = 22 * 60 // 22:00
)

// BusinessHours decides whether an instant falls inside the operating
// window. The check always happens on the reference-zone wall clock, no
// matter which zone the instant arrives in.
type BusinessHours struct {
	ref *time.Location
}

func NewBusinessHours(n *Normalizer) BusinessHours {
	return BusinessHours{ref: n.Reference()}
}

func (b BusinessHours) Within(t time.Time) bool {
	rt := t.In(b.ref)
	mins := rt.Hour()*60 + rt.Minute()
	if mins < openMinute || mins > closeMinute {
		return false
	}
	if mins == closeMinute && (rt.Second() > 0 || rt.Nanosecond() > 0) {
		// 22:00 sharp is allowed, anything past it is not.
		return false
	}
	return true
}
