package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/scheddesk/scheddesk/internal/model"
	"github.com/scheddesk/scheddesk/internal/storage"
)

const (
	maxCustomerName   = 50
	maxCustomerAddr   = 100
	maxCustomerPostal = 50
	maxCustomerPhone  = 50
)

type customerStore interface {
	List(ctx context.Context) ([]model.Customer, error)
	NextID(ctx context.Context) (int, error)
	ExistsDuplicate(ctx context.Context, name, address, postalCode, phone string) (bool, error)
	HasAppointments(ctx context.Context, customerID int) (bool, error)
	Insert(ctx context.Context, c model.Customer) (int64, error)
	Update(ctx context.Context, c model.Customer) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
}

type CustomerHandler struct {
	store  customerStore
	logger *slog.Logger
}

func NewCustomerHandler(store customerStore, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{store: store, logger: logger}
}

type customerRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	DivisionID int    `json:"division_id"`
}

type customerItem struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	DivisionID int    `json:"division_id"`
	CreatedBy  string `json:"created_by,omitempty"`
	UpdatedBy  string `json:"updated_by,omitempty"`
}

func (h *CustomerHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CustomerHandler) Item(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/v1/customers/"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list customers", http.StatusInternalServerError)
		return
	}
	items := make([]customerItem, 0, len(customers))
	for _, c := range customers {
		items = append(items, toCustomerItem(c))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := h.decodeAndCheck(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	exists, err := h.store.ExistsDuplicate(ctx, req.Name, req.Address, req.PostalCode, req.Phone)
	if err != nil {
		http.Error(w, "failed to check for duplicates", http.StatusInternalServerError)
		return
	}
	if exists {
		http.Error(w, "customer already exists", http.StatusConflict)
		return
	}

	id, err := h.store.NextID(ctx)
	if err != nil {
		http.Error(w, "failed to allocate customer id", http.StatusInternalServerError)
		return
	}

	c := model.Customer{
		ID:         id,
		Name:       req.Name,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		DivisionID: req.DivisionID,
		CreatedBy:  actor.Username,
		UpdatedBy:  actor.Username,
	}
	rows, err := h.store.Insert(ctx, c)
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "customer already exists", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create customer", http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		http.Error(w, "customer was not created", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toCustomerItem(c))
}

func (h *CustomerHandler) update(w http.ResponseWriter, r *http.Request, id int) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := h.decodeAndCheck(w, r)
	if !ok {
		return
	}

	c := model.Customer{
		ID:         id,
		Name:       req.Name,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		DivisionID: req.DivisionID,
		UpdatedBy:  actor.Username,
	}
	rows, err := h.store.Update(r.Context(), c)
	if err != nil {
		http.Error(w, "failed to update customer", http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		http.Error(w, "customer not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toCustomerItem(c))
}

func (h *CustomerHandler) delete(w http.ResponseWriter, r *http.Request, id int) {
	ctx := r.Context()
	busy, err := h.store.HasAppointments(ctx, id)
	if err != nil {
		http.Error(w, "failed to check appointments", http.StatusInternalServerError)
		return
	}
	if busy {
		http.Error(w, "customer has appointments scheduled", http.StatusConflict)
		return
	}

	rows, err := h.store.Delete(ctx, id)
	if err != nil {
		http.Error(w, "failed to delete customer", http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		http.Error(w, "customer not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeAndCheck reads the body, requires every field, and applies the
// per-field length caps. Caps are checked in form order so one violation
// surfaces at a time.
func (h *CustomerHandler) decodeAndCheck(w http.ResponseWriter, r *http.Request) (customerRequest, bool) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return customerRequest{}, false
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	req.Phone = strings.TrimSpace(req.Phone)

	for _, f := range []struct {
		name  string
		empty bool
	}{
		{"name", req.Name == ""},
		{"address", req.Address == ""},
		{"postal_code", req.PostalCode == ""},
		{"phone", req.Phone == ""},
		{"division_id", req.DivisionID <= 0},
	} {
		if f.empty {
			writeJSON(w, http.StatusUnprocessableEntity, validationError{
				Error:  "validation_failed",
				Reason: "missing_field",
				Field:  f.name,
			})
			return customerRequest{}, false
		}
	}

	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"name", req.Name, maxCustomerName},
		{"address", req.Address, maxCustomerAddr},
		{"postal_code", req.PostalCode, maxCustomerPostal},
		{"phone", req.Phone, maxCustomerPhone},
	} {
		if len(f.value) > f.max {
			writeJSON(w, http.StatusUnprocessableEntity, validationError{
				Error:  "validation_failed",
				Reason: "field_too_long",
				Field:  f.name,
			})
			return customerRequest{}, false
		}
	}
	return req, true
}

func toCustomerItem(c model.Customer) customerItem {
	return customerItem{
		ID:         c.ID,
		Name:       c.Name,
		Address:    c.Address,
		PostalCode: c.PostalCode,
		Phone:      c.Phone,
		DivisionID: c.DivisionID,
		CreatedBy:  c.CreatedBy,
		UpdatedBy:  c.UpdatedBy,
	}
}
