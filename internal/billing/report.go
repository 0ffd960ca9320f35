package billing

import (
	"sort"

	"github.com/scheddesk/scheddesk/internal/model"
)

// DefaultHourlyRate is the flat rate applied to scheduled time.
const DefaultHourlyRate = 100.0

// BuildEntries totals the scheduled minutes per customer and prices them at
// the given hourly rate. Customers with no appointments are omitted. Entries
// come back ordered by customer ID.
func BuildEntries(appointments []model.Appointment, customers []model.Customer, hourlyRate float64) []model.BillingEntry {
	names := make(map[int]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	minutes := map[int]int{}
	for _, a := range appointments {
		minutes[a.CustomerID] += a.Minutes()
	}

	ids := make([]int, 0, len(minutes))
	for id := range minutes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	entries := make([]model.BillingEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, model.BillingEntry{
			CustomerID:   id,
			CustomerName: names[id],
			Amount:       float64(minutes[id]) / 60.0 * hourlyRate,
		})
	}
	return entries
}
