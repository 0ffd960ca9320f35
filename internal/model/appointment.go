package model

import "time"

// Appointment start/end instants are stored in UTC. Conversion for display
// and for the business-hours check happens in the schedule package.
type Appointment struct {
	ID          int
	Title       string
	Description string
	Location    string
	Type        string
	Start       time.Time
	End         time.Time
	CustomerID  int
	UserID      int
	ContactID   int
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Minutes returns the appointment length in whole minutes.
func (a Appointment) Minutes() int {
	return int(a.End.Sub(a.Start) / time.Minute)
}
