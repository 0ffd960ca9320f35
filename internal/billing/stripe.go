package billing

import (
	"context"
	"errors"
	"fmt"
	"math"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/scheddesk/scheddesk/internal/model"
)

// ErrExporterDisabled is returned when no Stripe API key was configured.
var ErrExporterDisabled = errors.New("billing: stripe exporter is not configured")

// ExportedInvoice ties a billing entry to the Stripe invoice raised for it.
type ExportedInvoice struct {
	CustomerID       int
	StripeCustomerID string
	StripeInvoiceID  string
	AmountCents      int64
}

// StripeExporter pushes billing entries to Stripe as draft invoices billed
// by email. It is optional: without an API key Export fails fast with
// ErrExporterDisabled.
type StripeExporter struct {
	api *client.API
}

// NewStripeExporter builds an exporter, or a disabled one if key is empty.
func NewStripeExporter(key string) *StripeExporter {
	if key == "" {
		return &StripeExporter{}
	}
	api := &client.API{}
	api.Init(key, nil)
	return &StripeExporter{api: api}
}

func (e *StripeExporter) Enabled() bool { return e.api != nil }

// Export creates one Stripe customer, invoice item and invoice per billing
// entry. Entries with a zero amount are skipped.
func (e *StripeExporter) Export(ctx context.Context, entries []model.BillingEntry) ([]ExportedInvoice, error) {
	if e.api == nil {
		return nil, ErrExporterDisabled
	}

	exported := make([]ExportedInvoice, 0, len(entries))
	for _, entry := range entries {
		cents := int64(math.Round(entry.Amount * 100))
		if cents == 0 {
			continue
		}

		custParams := &stripe.CustomerParams{
			Name: stripe.String(entry.CustomerName),
		}
		custParams.Context = ctx
		custParams.AddMetadata("customer_id", fmt.Sprintf("%d", entry.CustomerID))
		cust, err := e.api.Customers.New(custParams)
		if err != nil {
			return exported, fmt.Errorf("create stripe customer for %d: %w", entry.CustomerID, err)
		}

		itemParams := &stripe.InvoiceItemParams{
			Customer:    stripe.String(cust.ID),
			Amount:      stripe.Int64(cents),
			Currency:    stripe.String(string(stripe.CurrencyUSD)),
			Description: stripe.String("Scheduled appointment time"),
		}
		itemParams.Context = ctx
		if _, err := e.api.InvoiceItems.New(itemParams); err != nil {
			return exported, fmt.Errorf("create invoice item for %d: %w", entry.CustomerID, err)
		}

		invParams := &stripe.InvoiceParams{
			Customer:         stripe.String(cust.ID),
			CollectionMethod: stripe.String(string(stripe.InvoiceCollectionMethodSendInvoice)),
			DaysUntilDue:     stripe.Int64(30),
		}
		invParams.Context = ctx
		inv, err := e.api.Invoices.New(invParams)
		if err != nil {
			return exported, fmt.Errorf("create invoice for %d: %w", entry.CustomerID, err)
		}

		exported = append(exported, ExportedInvoice{
			CustomerID:       entry.CustomerID,
			StripeCustomerID: cust.ID,
			StripeInvoiceID:  inv.ID,
			AmountCents:      cents,
		})
	}
	return exported, nil
}
