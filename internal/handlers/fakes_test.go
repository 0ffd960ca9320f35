package handlers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scheddesk/scheddesk/internal/model"
)

type fakeAppointmentStore struct {
	appts      []model.Appointment
	nextID     int
	inserted   []model.Appointment
	updated    []model.Appointment
	deleted    []int
	updateRows int64
	deleteRows int64
}

func (f *fakeAppointmentStore) ListForCustomer(_ context.Context, customerID int) ([]model.Appointment, error) {
	out := []model.Appointment{}
	for _, a := range f.appts {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) ListForContact(_ context.Context, contactID int) ([]model.Appointment, error) {
	out := []model.Appointment{}
	for _, a := range f.appts {
		if a.ContactID == contactID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) ListAll(context.Context) ([]model.Appointment, error) {
	return f.appts, nil
}

func (f *fakeAppointmentStore) ListUpcomingForUser(_ context.Context, userID int, now time.Time) ([]model.Appointment, error) {
	out := []model.Appointment{}
	for _, a := range f.appts {
		if a.UserID == userID && !a.Start.Before(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) NextID(context.Context) (int, error) {
	return f.nextID, nil
}

func (f *fakeAppointmentStore) Insert(_ context.Context, appt model.Appointment) (int64, error) {
	f.inserted = append(f.inserted, appt)
	f.appts = append(f.appts, appt)
	return 1, nil
}

func (f *fakeAppointmentStore) Update(_ context.Context, appt model.Appointment) (int64, error) {
	f.updated = append(f.updated, appt)
	return f.updateRows, nil
}

func (f *fakeAppointmentStore) Delete(_ context.Context, id int) (int64, error) {
	f.deleted = append(f.deleted, id)
	return f.deleteRows, nil
}

type fakeCustomerStore struct {
	customers  []model.Customer
	nextID     int
	duplicate  bool
	busy       bool
	inserted   []model.Customer
	updateRows int64
	deleteRows int64
}

func (f *fakeCustomerStore) List(context.Context) ([]model.Customer, error) {
	return f.customers, nil
}

func (f *fakeCustomerStore) NextID(context.Context) (int, error) {
	return f.nextID, nil
}

func (f *fakeCustomerStore) ExistsDuplicate(context.Context, string, string, string, string) (bool, error) {
	return f.duplicate, nil
}

func (f *fakeCustomerStore) HasAppointments(context.Context, int) (bool, error) {
	return f.busy, nil
}

func (f *fakeCustomerStore) Insert(_ context.Context, c model.Customer) (int64, error) {
	f.inserted = append(f.inserted, c)
	return 1, nil
}

func (f *fakeCustomerStore) Update(context.Context, model.Customer) (int64, error) {
	return f.updateRows, nil
}

func (f *fakeCustomerStore) Delete(context.Context, int) (int64, error) {
	return f.deleteRows, nil
}

type fakeUserStore struct {
	user model.User
	err  error
}

func (f *fakeUserStore) ByUsername(context.Context, string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	return f.user, nil
}

type fakeAuditor struct {
	attempts []struct {
		username string
		success  bool
	}
}

func (f *fakeAuditor) RecordLogin(_ context.Context, username string, success bool) error {
	f.attempts = append(f.attempts, struct {
		username string
		success  bool
	}{username, success})
	return nil
}

var errNotFound = pgx.ErrNoRows
