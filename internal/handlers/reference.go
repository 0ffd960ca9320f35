package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/scheddesk/scheddesk/internal/model"
)

type contactStore interface {
	List(ctx context.Context) ([]model.Contact, error)
}

type localeStore interface {
	Countries(ctx context.Context) ([]model.Country, error)
	DivisionsByCountry(ctx context.Context, countryID int) ([]model.Division, error)
}

// ReferenceHandler serves the read-only lookup lists behind the scheduling
// and customer forms.
type ReferenceHandler struct {
	contacts contactStore
	locales  localeStore
}

func NewReferenceHandler(contacts contactStore, locales localeStore) *ReferenceHandler {
	return &ReferenceHandler{contacts: contacts, locales: locales}
}

func (h *ReferenceHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list contacts", http.StatusInternalServerError)
		return
	}
	type item struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	items := make([]item, 0, len(contacts))
	for _, c := range contacts {
		items = append(items, item{ID: c.ID, Name: c.Name, Email: c.Email})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ReferenceHandler) Countries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	countries, err := h.locales.Countries(r.Context())
	if err != nil {
		http.Error(w, "failed to list countries", http.StatusInternalServerError)
		return
	}
	type item struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	items := make([]item, 0, len(countries))
	for _, c := range countries {
		items = append(items, item{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, items)
}

// Divisions serves /v1/countries/{id}/divisions.
func (h *ReferenceHandler) Divisions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/countries/")
	idStr, tail, found := strings.Cut(rest, "/")
	if !found || tail != "divisions" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	countryID, err := strconv.Atoi(idStr)
	if err != nil || countryID <= 0 {
		http.Error(w, "invalid country id", http.StatusBadRequest)
		return
	}

	divisions, err := h.locales.DivisionsByCountry(r.Context(), countryID)
	if err != nil {
		http.Error(w, "failed to list divisions", http.StatusInternalServerError)
		return
	}
	type item struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		CountryID int    `json:"country_id"`
	}
	items := make([]item, 0, len(divisions))
	for _, d := range divisions {
		items = append(items, item{ID: d.ID, Name: d.Name, CountryID: d.CountryID})
	}
	writeJSON(w, http.StatusOK, items)
}
