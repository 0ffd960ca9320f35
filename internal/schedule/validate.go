package schedule

import (
	"strings"
	"time"

	"github.com/scheddesk/scheddesk/internal/model"
)

const maxFieldLength = 50

type RejectReason string

const (
	RejectMissingField           RejectReason = "missing_field"
	RejectFieldTooLong           RejectReason = "field_too_long"
	RejectOutsideBusinessHours   RejectReason = "outside_business_hours"
	RejectEndBeforeStart         RejectReason = "end_before_start"
	RejectEndTimeBeforeStartTime RejectReason = "end_time_before_start_time"
	RejectOverlappingAppointment RejectReason = "overlapping_appointment"
)

// Result is the validator's decision. Exactly one rejection reason is set,
// chosen by a fixed check order, so the caller always has a single message
// to show. Field names the offending field for the missing/too-long reasons.
type Result struct {
	Accepted bool
	Reason   RejectReason
	Field    string
}

func accepted() Result {
	return Result{Accepted: true}
}

func rejected(reason RejectReason, field string) Result {
	return Result{Reason: reason, Field: field}
}

// Candidate mirrors the appointment form: date pickers and time selectors
// are separate controls, so the date and clock parts arrive separately.
// All four carry the caller's local zone. A zero time means the control was
// left empty. AppointmentID is 0 when creating and the existing ID when
// editing, so an appointment never conflicts with itself.
type Candidate struct {
	AppointmentID int
	CustomerID    int
	UserID        int
	ContactID     int
	Title         string
	Description   string
	Location      string
	Type          string
	StartDate     time.Time
	EndDate       time.Time
	StartTime     time.Time
	EndTime       time.Time
}

// StartInstant combines the start date and start clock time in the date's zone.
func (c Candidate) StartInstant() time.Time {
	return combine(c.StartDate, c.StartTime)
}

func (c Candidate) EndInstant() time.Time {
	return combine(c.EndDate, c.EndTime)
}

func combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, date.Location())
}

// Validator folds field presence, length limits, chronological ordering,
// the operating-hours window and the overlap scan into one accept/reject
// decision. It performs no I/O: callers pass the customer's existing
// appointments in and persist only on Accepted.
type Validator struct {
	hours BusinessHours
	zone  *Normalizer
}

func NewValidator(n *Normalizer) *Validator {
	return &Validator{hours: NewBusinessHours(n), zone: n}
}

func (v *Validator) Validate(c Candidate, existing []model.Appointment) Result {
	for _, f := range []struct {
		name  string
		empty bool
	}{
		{"title", strings.TrimSpace(c.Title) == ""},
		{"description", strings.TrimSpace(c.Description) == ""},
		{"location", strings.TrimSpace(c.Location) == ""},
		{"contact", c.ContactID <= 0},
		{"type", strings.TrimSpace(c.Type) == ""},
		{"start_date", c.StartDate.IsZero()},
		{"end_date", c.EndDate.IsZero()},
		{"start_time", c.StartTime.IsZero()},
		{"end_time", c.EndTime.IsZero()},
	} {
		if f.empty {
			return rejected(RejectMissingField, f.name)
		}
	}

	start := c.StartInstant()
	end := c.EndInstant()

	if !v.hours.Within(start) || !v.hours.Within(end) {
		return rejected(RejectOutsideBusinessHours, "")
	}

	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", c.Title},
		{"description", c.Description},
		{"location", c.Location},
		// The type field has no length cap.
	} {
		if len(f.value) > maxFieldLength {
			return rejected(RejectFieldTooLong, f.name)
		}
	}

	startDay := dateOnly(c.StartDate)
	endDay := dateOnly(c.EndDate)
	if endDay.Before(startDay) {
		return rejected(RejectEndBeforeStart, "")
	}
	if endDay.Equal(startDay) && !end.After(start) {
		// Covers both a reversed clock and a zero-length appointment.
		return rejected(RejectEndTimeBeforeStartTime, "")
	}

	if Overlaps(c.CustomerID, c.AppointmentID, v.zone.ToStorage(start), v.zone.ToStorage(end), existing) {
		return rejected(RejectOverlappingAppointment, "")
	}

	return accepted()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
