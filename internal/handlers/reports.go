package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/scheddesk/scheddesk/internal/billing"
	"github.com/scheddesk/scheddesk/internal/model"
)

type reportAppointmentStore interface {
	ListAll(ctx context.Context) ([]model.Appointment, error)
	ListForContact(ctx context.Context, contactID int) ([]model.Appointment, error)
}

type reportCustomerStore interface {
	List(ctx context.Context) ([]model.Customer, error)
}

type invoiceExporter interface {
	Enabled() bool
	Export(ctx context.Context, entries []model.BillingEntry) ([]billing.ExportedInvoice, error)
}

type ReportsHandler struct {
	appts     reportAppointmentStore
	customers reportCustomerStore
	exporter  invoiceExporter
	logger    *slog.Logger
}

func NewReportsHandler(appts reportAppointmentStore, customers reportCustomerStore, exporter invoiceExporter, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{
		appts:     appts,
		customers: customers,
		exporter:  exporter,
		logger:    logger,
	}
}

type typeMonthRow struct {
	Month string `json:"month"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// AppointmentsByTypeMonth counts appointments per start month and type.
// Months are taken from the start instant in the requested display zone.
func (h *ReportsHandler) AppointmentsByTypeMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	loc, ok := clientZone(w, r.URL.Query().Get("time_zone"))
	if !ok {
		return
	}

	appts, err := h.appts.ListAll(r.Context())
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	type key struct {
		month time.Month
		typ   string
	}
	counts := map[key]int{}
	for _, a := range appts {
		counts[key{month: a.Start.In(loc).Month(), typ: a.Type}]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].month != keys[j].month {
			return keys[i].month < keys[j].month
		}
		return keys[i].typ < keys[j].typ
	})

	rows := make([]typeMonthRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, typeMonthRow{
			Month: k.month.String(),
			Type:  k.typ,
			Count: counts[k],
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

// ContactSchedule lists every appointment assigned to one contact.
func (h *ReportsHandler) ContactSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	contactID, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("contact_id")))
	if err != nil || contactID <= 0 {
		http.Error(w, "contact_id required", http.StatusBadRequest)
		return
	}

	appts, err := h.appts.ListForContact(r.Context(), contactID)
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	items := make([]appointmentItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, toAppointmentItem(a))
	}
	writeJSON(w, http.StatusOK, items)
}

type billingRow struct {
	CustomerID   int     `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Amount       float64 `json:"amount"`
}

// Billing prices each customer's total scheduled time at the hourly rate.
func (h *ReportsHandler) Billing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	entries, ok := h.buildEntries(w, r)
	if !ok {
		return
	}
	rows := make([]billingRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, billingRow{CustomerID: e.CustomerID, CustomerName: e.CustomerName, Amount: e.Amount})
	}
	writeJSON(w, http.StatusOK, rows)
}

// BillingExport raises a Stripe draft invoice per billing entry. Returns
// 501 when no Stripe key was configured.
func (h *ReportsHandler) BillingExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.exporter == nil || !h.exporter.Enabled() {
		http.Error(w, "stripe export not configured", http.StatusNotImplemented)
		return
	}

	entries, ok := h.buildEntries(w, r)
	if !ok {
		return
	}

	invoices, err := h.exporter.Export(r.Context(), entries)
	if err != nil {
		h.logger.Error("billing export failed", "err", err, "exported", len(invoices))
		http.Error(w, "billing export failed", http.StatusBadGateway)
		return
	}

	type exportedRow struct {
		CustomerID       int    `json:"customer_id"`
		StripeCustomerID string `json:"stripe_customer_id"`
		StripeInvoiceID  string `json:"stripe_invoice_id"`
		AmountCents      int64  `json:"amount_cents"`
	}
	rows := make([]exportedRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, exportedRow{
			CustomerID:       inv.CustomerID,
			StripeCustomerID: inv.StripeCustomerID,
			StripeInvoiceID:  inv.StripeInvoiceID,
			AmountCents:      inv.AmountCents,
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportsHandler) buildEntries(w http.ResponseWriter, r *http.Request) ([]model.BillingEntry, bool) {
	ctx := r.Context()
	appts, err := h.appts.ListAll(ctx)
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return nil, false
	}
	customers, err := h.customers.List(ctx)
	if err != nil {
		http.Error(w, "failed to list customers", http.StatusInternalServerError)
		return nil, false
	}
	return billing.BuildEntries(appts, customers, billing.DefaultHourlyRate), true
}
