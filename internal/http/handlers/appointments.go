package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightsmiledental/clinic-platform/internal/appointments"
	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

// BookingHandler serves the public appointment-creation endpoint.
type BookingHandler struct {
	svc    *appointments.Service
	logger *logging.Logger
}

func NewBookingHandler(svc *appointments.Service, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{svc: svc, logger: logger}
}

// BookingResponse confirms a created appointment.
type BookingResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AppointmentID int64  `json:"appointmentId"`
	EmailSent     bool   `json:"emailSent"`
}

// Create handles POST /api/appointments.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req appointments.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, emailSent, err := h.svc.Book(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, appointments.ErrMissingField), errors.Is(err, appointments.ErrInvalidSlot):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, appointments.ErrSlotTaken):
		respondError(w, http.StatusConflict, "slot no longer available")
		return
	default:
		h.logger.Error("booking failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to book appointment")
		return
	}

	respondJSON(w, http.StatusCreated, BookingResponse{
		Success:       true,
		Message:       "appointment booked",
		AppointmentID: appt.ID,
		EmailSent:     emailSent,
	})
}
