package schedule

import (
	"time"

	"github.com/scheddesk/scheddesk/internal/model"
)

// Overlaps reports whether [start, end] intersects any existing appointment
// for the same customer. Spans are treated as closed on both ends, so two
// appointments that merely touch at a boundary still conflict. Appointments
// for other customers never conflict, and excludeID removes the appointment
// being edited from its own scan.
func Overlaps(customerID, excludeID int, start, end time.Time, existing []model.Appointment) bool {
	for _, a := range existing {
		if a.CustomerID != customerID {
			continue
		}
		if excludeID != 0 && a.ID == excludeID {
			continue
		}
		if !start.After(a.End) && !a.Start.After(end) {
			return true
		}
	}
	return false
}
