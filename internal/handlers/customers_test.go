package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const validCustomerBody = `{
	"name": "Daddy Warbucks",
	"address": "1919 Boardwalk",
	"postal_code": "01291",
	"phone": "869-908-1875",
	"division_id": 29
}`

func TestCreateCustomer(t *testing.T) {
	store := &fakeCustomerStore{nextID: 4}
	h := NewCustomerHandler(store, testLogger())

	rec := httptest.NewRecorder()
	h.Collection(rec, authedRequest(http.MethodPost, "/v1/customers", validCustomerBody))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.inserted) != 1 || store.inserted[0].ID != 4 {
		t.Fatalf("expected insert with id 4, got %+v", store.inserted)
	}
	if store.inserted[0].CreatedBy != "desk" {
		t.Fatalf("expected audit user desk, got %q", store.inserted[0].CreatedBy)
	}
}

func TestCreateCustomerDuplicate(t *testing.T) {
	store := &fakeCustomerStore{duplicate: true}
	h := NewCustomerHandler(store, testLogger())

	rec := httptest.NewRecorder()
	h.Collection(rec, authedRequest(http.MethodPost, "/v1/customers", validCustomerBody))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if len(store.inserted) != 0 {
		t.Fatal("duplicate must not be persisted")
	}
}

func TestCreateCustomerFieldTooLong(t *testing.T) {
	store := &fakeCustomerStore{}
	h := NewCustomerHandler(store, testLogger())

	body := strings.Replace(validCustomerBody, "Daddy Warbucks", strings.Repeat("x", 51), 1)
	rec := httptest.NewRecorder()
	h.Collection(rec, authedRequest(http.MethodPost, "/v1/customers", body))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp validationError
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reason != "field_too_long" || resp.Field != "name" {
		t.Fatalf("expected field_too_long name, got %+v", resp)
	}
}

func TestCreateCustomerAddressCapIsWider(t *testing.T) {
	store := &fakeCustomerStore{nextID: 4}
	h := NewCustomerHandler(store, testLogger())

	// 100 characters is still within the address cap.
	body := strings.Replace(validCustomerBody, "1919 Boardwalk", strings.Repeat("a", 100), 1)
	rec := httptest.NewRecorder()
	h.Collection(rec, authedRequest(http.MethodPost, "/v1/customers", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateCustomerMissingField(t *testing.T) {
	store := &fakeCustomerStore{}
	h := NewCustomerHandler(store, testLogger())

	body := strings.Replace(validCustomerBody, `"phone": "869-908-1875"`, `"phone": ""`, 1)
	rec := httptest.NewRecorder()
	h.Collection(rec, authedRequest(http.MethodPost, "/v1/customers", body))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp validationError
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reason != "missing_field" || resp.Field != "phone" {
		t.Fatalf("expected missing_field phone, got %+v", resp)
	}
}

func TestDeleteCustomerWithAppointments(t *testing.T) {
	store := &fakeCustomerStore{busy: true, deleteRows: 1}
	h := NewCustomerHandler(store, testLogger())

	rec := httptest.NewRecorder()
	h.Item(rec, authedRequest(http.MethodDelete, "/v1/customers/4", ""))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while appointments exist, got %d", rec.Code)
	}
}

func TestDeleteCustomer(t *testing.T) {
	store := &fakeCustomerStore{deleteRows: 1}
	h := NewCustomerHandler(store, testLogger())

	rec := httptest.NewRecorder()
	h.Item(rec, authedRequest(http.MethodDelete, "/v1/customers/4", ""))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestUpdateCustomerNotFound(t *testing.T) {
	store := &fakeCustomerStore{updateRows: 0}
	h := NewCustomerHandler(store, testLogger())

	rec := httptest.NewRecorder()
	h.Item(rec, authedRequest(http.MethodPut, "/v1/customers/99", validCustomerBody))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
