package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/scheddesk/scheddesk/internal/model"
	"github.com/scheddesk/scheddesk/internal/schedule"
)

type appointmentStore interface {
	ListForCustomer(ctx context.Context, customerID int) ([]model.Appointment, error)
	ListAll(ctx context.Context) ([]model.Appointment, error)
	NextID(ctx context.Context) (int, error)
	Insert(ctx context.Context, appt model.Appointment) (int64, error)
	Update(ctx context.Context, appt model.Appointment) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
}

type AppointmentHandler struct {
	store     appointmentStore
	validator *schedule.Validator
	zone      *schedule.Normalizer
	logger    *slog.Logger
	locks     *customerLocks
}

func NewAppointmentHandler(store appointmentStore, validator *schedule.Validator, zone *schedule.Normalizer, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		store:     store,
		validator: validator,
		zone:      zone,
		logger:    logger,
		locks:     newCustomerLocks(),
	}
}

// appointmentRequest mirrors the scheduling form: the date pickers and time
// selectors are separate fields, all read in the client's zone.
type appointmentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	ContactID   int    `json:"contact_id"`
	CustomerID  int    `json:"customer_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	TimeZone    string `json:"time_zone"`
}

type appointmentItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	ContactID   int    `json:"contact_id"`
	CustomerID  int    `json:"customer_id"`
	UserID      int    `json:"user_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CreatedBy   string `json:"created_by,omitempty"`
	UpdatedBy   string `json:"updated_by,omitempty"`
}

type validationError struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
	Field  string `json:"field,omitempty"`
}

// Collection handles GET (list, optionally filtered to a customer and a
// week/month window) and POST (create) on /v1/appointments.
func (h *AppointmentHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles PUT and DELETE on /v1/appointments/{id}.
func (h *AppointmentHandler) Item(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/v1/appointments/"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
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

func (h *AppointmentHandler) list(w http.ResponseWriter, r *http.Request) {
	loc, ok := clientZone(w, r.URL.Query().Get("time_zone"))
	if !ok {
		return
	}

	var (
		appts []model.Appointment
		err   error
	)
	if raw := strings.TrimSpace(r.URL.Query().Get("customer_id")); raw != "" {
		customerID, convErr := strconv.Atoi(raw)
		if convErr != nil || customerID <= 0 {
			http.Error(w, "invalid customer_id", http.StatusBadRequest)
			return
		}
		appts, err = h.store.ListForCustomer(r.Context(), customerID)
	} else {
		appts, err = h.store.ListAll(r.Context())
	}
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	ref := time.Now().In(loc)
	switch strings.TrimSpace(r.URL.Query().Get("window")) {
	case "", "all":
		appts = schedule.All(appts)
	case "week":
		appts = schedule.ByWeek(appts, ref, loc)
	case "month":
		appts = schedule.ByMonth(appts, ref, loc)
	default:
		http.Error(w, "window must be week, month or all", http.StatusBadRequest)
		return
	}

	items := make([]appointmentItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, toAppointmentItem(a))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AppointmentHandler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.CustomerID <= 0 {
		http.Error(w, "customer_id required", http.StatusBadRequest)
		return
	}

	candidate, ok := h.buildCandidate(w, req, 0, actor.UserID)
	if !ok {
		return
	}

	ctx := r.Context()
	unlock := h.locks.Lock(req.CustomerID)
	defer unlock()

	existing, err := h.store.ListForCustomer(ctx, req.CustomerID)
	if err != nil {
		http.Error(w, "failed to load existing appointments", http.StatusInternalServerError)
		return
	}
	if result := h.validator.Validate(candidate, existing); !result.Accepted {
		writeJSON(w, http.StatusUnprocessableEntity, validationError{
			Error:  "validation_failed",
			Reason: string(result.Reason),
			Field:  result.Field,
		})
		return
	}

	id, err := h.store.NextID(ctx)
	if err != nil {
		http.Error(w, "failed to allocate appointment id", http.StatusInternalServerError)
		return
	}

	appt := h.toModel(candidate, id, actor)
	rows, err := h.store.Insert(ctx, appt)
	if err != nil {
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		http.Error(w, "appointment was not created", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toAppointmentItem(appt))
}

func (h *AppointmentHandler) update(w http.ResponseWriter, r *http.Request, id int) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.CustomerID <= 0 {
		http.Error(w, "customer_id required", http.StatusBadRequest)
		return
	}

	candidate, ok := h.buildCandidate(w, req, id, actor.UserID)
	if !ok {
		return
	}

	ctx := r.Context()
	unlock := h.locks.Lock(req.CustomerID)
	defer unlock()

	existing, err := h.store.ListForCustomer(ctx, req.CustomerID)
	if err != nil {
		http.Error(w, "failed to load existing appointments", http.StatusInternalServerError)
		return
	}
	if result := h.validator.Validate(candidate, existing); !result.Accepted {
		writeJSON(w, http.StatusUnprocessableEntity, validationError{
			Error:  "validation_failed",
			Reason: string(result.Reason),
			Field:  result.Field,
		})
		return
	}

	appt := h.toModel(candidate, id, actor)
	rows, err := h.store.Update(ctx, appt)
	if err != nil {
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentItem(appt))
}

func (h *AppointmentHandler) delete(w http.ResponseWriter, r *http.Request, id int) {
	rows, err := h.store.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to delete appointment", http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"appointment_id": id,
		"status":         "cancelled",
	})
}

// buildCandidate parses the raw form fields into a validation candidate.
// Empty date or time strings become zero times so the validator reports
// them as missing; malformed non-empty values are a 400.
func (h *AppointmentHandler) buildCandidate(w http.ResponseWriter, req appointmentRequest, id, userID int) (schedule.Candidate, bool) {
	loc, ok := clientZone(w, req.TimeZone)
	if !ok {
		return schedule.Candidate{}, false
	}

	parseDate := func(name, v string) (time.Time, bool) {
		if strings.TrimSpace(v) == "" {
			return time.Time{}, true
		}
		t, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			http.Error(w, "invalid "+name, http.StatusBadRequest)
			return time.Time{}, false
		}
		return t, true
	}
	parseClock := func(name, v string) (time.Time, bool) {
		if strings.TrimSpace(v) == "" {
			return time.Time{}, true
		}
		t, err := time.ParseInLocation("15:04", v, loc)
		if err != nil {
			http.Error(w, "invalid "+name, http.StatusBadRequest)
			return time.Time{}, false
		}
		return t, true
	}

	startDate, ok := parseDate("start_date", req.StartDate)
	if !ok {
		return schedule.Candidate{}, false
	}
	endDate, ok := parseDate("end_date", req.EndDate)
	if !ok {
		return schedule.Candidate{}, false
	}
	startTime, ok := parseClock("start_time", req.StartTime)
	if !ok {
		return schedule.Candidate{}, false
	}
	endTime, ok := parseClock("end_time", req.EndTime)
	if !ok {
		return schedule.Candidate{}, false
	}

	return schedule.Candidate{
		AppointmentID: id,
		CustomerID:    req.CustomerID,
		UserID:        userID,
		ContactID:     req.ContactID,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		Type:          req.Type,
		StartDate:     startDate,
		EndDate:       endDate,
		StartTime:     startTime,
		EndTime:       endTime,
	}, true
}

func (h *AppointmentHandler) toModel(c schedule.Candidate, id int, actor Actor) model.Appointment {
	return model.Appointment{
		ID:          id,
		Title:       strings.TrimSpace(c.Title),
		Description: strings.TrimSpace(c.Description),
		Location:    strings.TrimSpace(c.Location),
		Type:        strings.TrimSpace(c.Type),
		Start:       h.zone.ToStorage(c.StartInstant()),
		End:         h.zone.ToStorage(c.EndInstant()),
		CustomerID:  c.CustomerID,
		UserID:      c.UserID,
		ContactID:   c.ContactID,
		CreatedBy:   actor.Username,
		UpdatedBy:   actor.Username,
	}
}

func toAppointmentItem(a model.Appointment) appointmentItem {
	return appointmentItem{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		Type:        a.Type,
		ContactID:   a.ContactID,
		CustomerID:  a.CustomerID,
		UserID:      a.UserID,
		StartTime:   a.Start.UTC().Format(time.RFC3339),
		EndTime:     a.End.UTC().Format(time.RFC3339),
		CreatedBy:   a.CreatedBy,
		UpdatedBy:   a.UpdatedBy,
	}
}

func clientZone(w http.ResponseWriter, name string) (*time.Location, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, true
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		http.Error(w, "invalid time_zone", http.StatusBadRequest)
		return nil, false
	}
	return loc, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
