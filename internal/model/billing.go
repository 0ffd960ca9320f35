package model

// BillingEntry is a derived row: total appointment minutes for a customer
// priced at an hourly rate. Rebuilt on demand, never persisted.
type BillingEntry struct {
	CustomerID   int
	CustomerName string
	Amount       float64
}
