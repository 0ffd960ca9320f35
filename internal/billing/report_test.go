package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scheddesk/scheddesk/internal/model"
)

func billedAppt(customerID int, minutes int) model.Appointment {
	start := time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)
	return model.Appointment{
		ID:         1,
		CustomerID: customerID,
		Start:      start,
		End:        start.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestBuildEntriesTotalsPerCustomer(t *testing.T) {
	appointments := []model.Appointment{
		billedAppt(1, 60),
		billedAppt(2, 30),
		billedAppt(1, 45),
	}
	customers := []model.Customer{
		{ID: 1, Name: "Daddy Warbucks"},
		{ID: 2, Name: "Lady Gaga"},
		{ID: 3, Name: "Dudley Do-Right"},
	}

	entries := BuildEntries(appointments, customers, DefaultHourlyRate)

	require.Len(t, entries, 2)
	require.Equal(t, model.BillingEntry{CustomerID: 1, CustomerName: "Daddy Warbucks", Amount: 175.0}, entries[0])
	require.Equal(t, model.BillingEntry{CustomerID: 2, CustomerName: "Lady Gaga", Amount: 50.0}, entries[1])
}

func TestBuildEntriesHourIsSixtyMinutesAtRate(t *testing.T) {
	entries := BuildEntries(
		[]model.Appointment{billedAppt(5, 60)},
		[]model.Customer{{ID: 5, Name: "Ada"}},
		DefaultHourlyRate,
	)
	require.Len(t, entries, 1)
	require.Equal(t, 100.0, entries[0].Amount)
}

func TestBuildEntriesPartialHour(t *testing.T) {
	entries := BuildEntries(
		[]model.Appointment{billedAppt(5, 15)},
		[]model.Customer{{ID: 5, Name: "Ada"}},
		DefaultHourlyRate,
	)
	require.Len(t, entries, 1)
	require.Equal(t, 25.0, entries[0].Amount)
}

func TestBuildEntriesEmptyInput(t *testing.T) {
	entries := BuildEntries(nil, nil, DefaultHourlyRate)
	require.Empty(t, entries)
}

func TestStripeExporterDisabledWithoutKey(t *testing.T) {
	exp := NewStripeExporter("")
	require.False(t, exp.Enabled())

	_, err := exp.Export(context.Background(), []model.BillingEntry{{CustomerID: 1, Amount: 100}})
	require.ErrorIs(t, err, ErrExporterDisabled)
}
