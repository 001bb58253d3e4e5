package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brightsmiledental/clinic-platform/internal/appointments"
	"github.com/brightsmiledental/clinic-platform/internal/auth"
	httpmiddleware "github.com/brightsmiledental/clinic-platform/internal/http/middleware"
	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

// AdminHandler serves login/logout and the session-gated reporting and
// management endpoints.
type AdminHandler struct {
	repo       appointments.Repository
	creds      *auth.Credentials
	sessions   auth.SessionStore
	sessionTTL time.Duration
	logger     *logging.Logger
}

func NewAdminHandler(repo appointments.Repository, creds *auth.Credentials, sessions auth.SessionStore, sessionTTL time.Duration, logger *logging.Logger) *AdminHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{
		repo:       repo,
		creds:      creds,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type statusMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	adminID, err := h.creds.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("credential check failed", "error", err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.sessions.Create(r.Context(), adminID, req.Username)
	if err != nil {
		h.logger.Error("session create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     httpmiddleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Info("admin logged in", "username", req.Username)
	respondJSON(w, http.StatusOK, statusMessage{Success: true, Message: "logged in"})
}

// Logout handles POST /api/admin/logout. It succeeds whether or not a
// session exists.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(httpmiddleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("session destroy failed", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     httpmiddleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, statusMessage{Success: true, Message: "logged out"})
}

// Check handles GET /api/admin/check.
func (h *AdminHandler) Check(w http.ResponseWriter, r *http.Request) {
	authenticated := false
	if cookie, err := r.Cookie(httpmiddleware.SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := h.sessions.Get(r.Context(), cookie.Value); err == nil {
			authenticated = true
		}
	}
	respondJSON(w, http.StatusOK, map[string]bool{"isAuthenticated": authenticated})
}

// ListAppointments handles GET /api/admin/appointments with optional
// date, status and search filters combined with AND.
func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := appointments.Filter{
		Date:   q.Get("date"),
		Status: appointments.Status(q.Get("status")),
		Search: q.Get("search"),
	}
	out, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list appointments failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load appointments")
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// PatientHistoryResponse pairs a derived patient view with the full visit list.
type PatientHistoryResponse struct {
	Patient      *appointments.PatientSummary `json:"patient"`
	Appointments []appointments.Appointment   `json:"appointments"`
}

// PatientHistory handles GET /api/admin/patient-history/{email}.
func (h *AdminHandler) PatientHistory(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	appts, err := h.repo.PatientHistory(r.Context(), email)
	if err != nil {
		h.logger.Error("patient history failed", "error", err, "email", email)
		respondError(w, http.StatusInternalServerError, "failed to load patient history")
		return
	}
	respondJSON(w, http.StatusOK, PatientHistoryResponse{
		Patient:      summarize(email, appts),
		Appointments: appts,
	})
}

// summarize derives the patient view from their appointments, newest first.
func summarize(email string, appts []appointments.Appointment) *appointments.PatientSummary {
	if len(appts) == 0 {
		return nil
	}
	p := &appointments.PatientSummary{
		Email:       email,
		FirstName:   appts[0].FirstName,
		LastName:    appts[0].LastName,
		Phone:       appts[0].Phone,
		TotalVisits: len(appts),
		LastVisit:   appts[0].Date,
	}
	for _, a := range appts {
		switch a.Status {
		case appointments.StatusCompleted:
			p.Completed++
		case appointments.StatusCancelled:
			p.Cancelled++
		case appointments.StatusNoShow:
			p.NoShows++
		}
	}
	return p
}

// ListPatients handles GET /api/admin/patients.
func (h *AdminHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.PatientSummaries(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("patient roster failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load patients")
		return
	}
	respondJSON(w, http.StatusOK, out)
}

type updateStatusRequest struct {
	Status appointments.Status `json:"status"`
}

// UpdateStatus handles PATCH /api/admin/appointments/{id}. Status is a
// flat enumeration: any valid value may replace any other.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			respondError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("status update failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}
	respondJSON(w, http.StatusOK, statusMessage{Success: true, Message: "status updated"})
}

// Delete handles DELETE /api/admin/appointments/{id}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			respondError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("delete failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to delete appointment")
		return
	}
	respondJSON(w, http.StatusOK, statusMessage{Success: true, Message: "appointment deleted"})
}
