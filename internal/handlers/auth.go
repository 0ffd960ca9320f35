package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/scheddesk/scheddesk/internal/model"
	"github.com/scheddesk/scheddesk/internal/schedule"
	"github.com/scheddesk/scheddesk/internal/storage"
	"github.com/scheddesk/scheddesk/libs/auth"
)

type userStore interface {
	ByUsername(ctx context.Context, username string) (model.User, error)
}

type loginAuditor interface {
	RecordLogin(ctx context.Context, username string, success bool) error
}

type upcomingLister interface {
	ListUpcomingForUser(ctx context.Context, userID int, now time.Time) ([]model.Appointment, error)
}

type AuthHandler struct {
	users    userStore
	audit    loginAuditor
	upcoming upcomingLister
	logger   *slog.Logger
	secret   string
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthHandler(users userStore, auditRepo loginAuditor, upcoming upcomingLister, logger *slog.Logger, secret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		users:    users,
		audit:    auditRepo,
		upcoming: upcoming,
		logger:   logger,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type imminentAlert struct {
	AppointmentID int    `json:"appointment_id"`
	Title         string `json:"title"`
	StartTime     string `json:"start_time"`
}

type loginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	Alert       *imminentAlert `json:"alert"`
}

// Login checks the credentials, records the attempt either way, and hands
// back a session token. The response carries the imminent-appointment alert
// the desk sees right after signing in, or null when nothing starts within
// the next fifteen minutes.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)
	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password required", http.StatusBadRequest)
		return
	}

	user, err := h.users.ByUsername(r.Context(), req.Username)
	if err != nil {
		if storage.IsNotFound(err) {
			h.recordAttempt(r.Context(), req.Username, false)
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "failed to lookup user", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.recordAttempt(r.Context(), req.Username, false)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	h.recordAttempt(r.Context(), req.Username, true)

	now := h.now()
	token, err := auth.SignHS256(auth.Claims{
		Sub:    user.Username,
		UserID: user.ID,
		Iat:    now.Unix(),
		Exp:    now.Add(h.tokenTTL).Unix(),
	}, h.secret)
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	resp := loginResponse{AccessToken: token, TokenType: "Bearer"}
	upcoming, err := h.upcoming.ListUpcomingForUser(r.Context(), user.ID, now)
	if err != nil {
		// The login itself succeeded; log and skip the alert.
		h.logger.Warn("upcoming appointments lookup failed", "err", err, "user_id", user.ID)
	} else if appt, ok := schedule.FindImminent(upcoming, now); ok {
		resp.Alert = &imminentAlert{
			AppointmentID: appt.ID,
			Title:         appt.Title,
			StartTime:     appt.Start.UTC().Format(time.RFC3339),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *AuthHandler) recordAttempt(ctx context.Context, username string, success bool) {
	if h.audit == nil {
		return
	}
	if err := h.audit.RecordLogin(ctx, username, success); err != nil {
		h.logger.Error("failed to record login attempt", "err", err, "username", username)
	}
}
