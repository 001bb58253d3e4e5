package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brightsmiledental/clinic-platform/internal/appointments"
	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

// SlotsHandler serves the public availability lookup.
type SlotsHandler struct {
	svc    *appointments.Service
	logger *logging.Logger
	now    func() time.Time
}

func NewSlotsHandler(svc *appointments.Service, logger *logging.Logger) *SlotsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SlotsHandler{svc: svc, logger: logger, now: time.Now}
}

// SlotsResponse partitions a date's slot grid.
type SlotsResponse struct {
	Date           string   `json:"date"`
	AllSlots       []string `json:"allSlots"`
	BookedSlots    []string `json:"bookedSlots"`
	AvailableSlots []string `json:"availableSlots"`
}

// GetSlots handles GET /api/slots/{date}.
func (h *SlotsHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	// Same-day lookups are allowed; strictly past dates are not.
	now := h.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		respondError(w, http.StatusBadRequest, "date must not be in the past")
		return
	}

	av, err := h.svc.Availability(r.Context(), date)
	if err != nil {
		h.logger.Error("availability lookup failed", "error", err, "date", dateStr)
		respondError(w, http.StatusInternalServerError, "failed to load availability")
		return
	}

	respondJSON(w, http.StatusOK, SlotsResponse{
		Date:           dateStr,
		AllSlots:       av.All,
		BookedSlots:    av.Booked,
		AvailableSlots: av.Available,
	})
}
