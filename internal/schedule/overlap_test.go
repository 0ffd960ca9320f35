package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scheddesk/scheddesk/internal/model"
)

func appt(id, customerID int, start, end time.Time) model.Appointment {
	return model.Appointment{ID: id, CustomerID: customerID, Start: start, End: end}
}

func TestOverlapsIntersectingSpans(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	existing := []model.Appointment{
		appt(1, 7, day.Add(9*time.Hour+30*time.Minute), day.Add(10*time.Hour+30*time.Minute)),
	}

	require.True(t, Overlaps(7, 0, day.Add(9*time.Hour), day.Add(10*time.Hour), existing))
	// Fully inside the existing span.
	require.True(t, Overlaps(7, 0, day.Add(9*time.Hour+45*time.Minute), day.Add(10*time.Hour), existing))
	// Existing span fully inside the candidate.
	require.True(t, Overlaps(7, 0, day.Add(9*time.Hour), day.Add(11*time.Hour), existing))
	// Clearly disjoint.
	require.False(t, Overlaps(7, 0, day.Add(11*time.Hour), day.Add(12*time.Hour), existing))
}

func TestOverlapsBoundaryTouchConflicts(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	existing := []model.Appointment{
		appt(1, 7, day.Add(9*time.Hour), day.Add(10*time.Hour)),
	}

	// Candidate starting exactly when the existing one ends, and ending
	// exactly when it starts, both count as conflicts.
	require.True(t, Overlaps(7, 0, day.Add(10*time.Hour), day.Add(11*time.Hour), existing))
	require.True(t, Overlaps(7, 0, day.Add(8*time.Hour), day.Add(9*time.Hour), existing))
	// One minute of clearance on either side does not.
	require.False(t, Overlaps(7, 0, day.Add(10*time.Hour+time.Minute), day.Add(11*time.Hour), existing))
	require.False(t, Overlaps(7, 0, day.Add(8*time.Hour), day.Add(9*time.Hour-time.Minute), existing))
}

func TestOverlapsIsSymmetric(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	aStart, aEnd := day.Add(9*time.Hour), day.Add(10*time.Hour)
	bStart, bEnd := day.Add(9*time.Hour+30*time.Minute), day.Add(10*time.Hour+30*time.Minute)

	asExistingB := []model.Appointment{appt(1, 7, bStart, bEnd)}
	asExistingA := []model.Appointment{appt(2, 7, aStart, aEnd)}
	require.Equal(t,
		Overlaps(7, 0, aStart, aEnd, asExistingB),
		Overlaps(7, 0, bStart, bEnd, asExistingA))
}

func TestOverlapsIsCustomerScoped(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	existing := []model.Appointment{
		appt(1, 9, day.Add(9*time.Hour), day.Add(10*time.Hour)),
	}

	// Identical range, different customer: never a conflict.
	require.False(t, Overlaps(7, 0, day.Add(9*time.Hour), day.Add(10*time.Hour), existing))
	require.True(t, Overlaps(9, 0, day.Add(9*time.Hour), day.Add(10*time.Hour), existing))
}

func TestOverlapsExcludesAppointmentBeingEdited(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	existing := []model.Appointment{
		appt(42, 7, day.Add(9*time.Hour), day.Add(10*time.Hour)),
	}

	// Re-saving appointment 42 over its own slot must not self-reject.
	require.False(t, Overlaps(7, 42, day.Add(9*time.Hour), day.Add(10*time.Hour), existing))
	// But it still conflicts with anything else.
	existing = append(existing, appt(43, 7, day.Add(9*time.Hour+15*time.Minute), day.Add(9*time.Hour+45*time.Minute)))
	require.True(t, Overlaps(7, 42, day.Add(9*time.Hour), day.Add(10*time.Hour), existing))
}
