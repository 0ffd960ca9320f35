package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scheddesk/scheddesk/internal/billing"
	"github.com/scheddesk/scheddesk/internal/model"
)

func reportAppt(id, customerID, contactID int, typ string, start time.Time, minutes int) model.Appointment {
	return model.Appointment{
		ID:         id,
		CustomerID: customerID,
		ContactID:  contactID,
		Type:       typ,
		Start:      start,
		End:        start.Add(time.Duration(minutes) * time.Minute),
	}
}

func newReportsHandler(appts *fakeAppointmentStore, customers *fakeCustomerStore) *ReportsHandler {
	return NewReportsHandler(appts, customers, billing.NewStripeExporter(""), testLogger())
}

func TestAppointmentsByTypeMonth(t *testing.T) {
	march := time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 14, 0, 0, 0, time.UTC)
	store := &fakeAppointmentStore{appts: []model.Appointment{
		reportAppt(1, 1, 1, "Planning", march, 60),
		reportAppt(2, 1, 1, "Planning", march.AddDate(0, 0, 7), 60),
		reportAppt(3, 2, 1, "De-Briefing", april, 30),
	}}
	h := newReportsHandler(store, &fakeCustomerStore{})

	rec := httptest.NewRecorder()
	h.AppointmentsByTypeMonth(rec, authedRequest(http.MethodGet, "/v1/reports/appointments-by-type-month", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rows []typeMonthRow
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []typeMonthRow{
		{Month: "March", Type: "Planning", Count: 2},
		{Month: "April", Type: "De-Briefing", Count: 1},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d: %+v", len(want), len(rows), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], rows[i])
		}
	}
}

func TestContactScheduleReport(t *testing.T) {
	start := time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)
	store := &fakeAppointmentStore{appts: []model.Appointment{
		reportAppt(1, 1, 3, "Planning", start, 60),
		reportAppt(2, 1, 8, "Planning", start.Add(2*time.Hour), 60),
	}}
	h := newReportsHandler(store, &fakeCustomerStore{})

	rec := httptest.NewRecorder()
	h.ContactSchedule(rec, authedRequest(http.MethodGet, "/v1/reports/contact-schedule?contact_id=3", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var items []appointmentItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("expected only contact 3's appointment, got %+v", items)
	}
}

func TestBillingReport(t *testing.T) {
	start := time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)
	appts := &fakeAppointmentStore{appts: []model.Appointment{
		reportAppt(1, 1, 1, "Planning", start, 90),
	}}
	customers := &fakeCustomerStore{customers: []model.Customer{{ID: 1, Name: "Daddy Warbucks"}}}
	h := newReportsHandler(appts, customers)

	rec := httptest.NewRecorder()
	h.Billing(rec, authedRequest(http.MethodGet, "/v1/reports/billing", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rows []billingRow
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rows) != 1 || rows[0].Amount != 150.0 {
		t.Fatalf("expected one row at 150.0, got %+v", rows)
	}
}

func TestBillingExportNotConfigured(t *testing.T) {
	h := newReportsHandler(&fakeAppointmentStore{}, &fakeCustomerStore{})

	rec := httptest.NewRecorder()
	h.BillingExport(rec, authedRequest(http.MethodPost, "/v1/reports/billing/export", ""))

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501 without a stripe key, got %d", rec.Code)
	}
}
