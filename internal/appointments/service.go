package appointments

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brightsmiledental/clinic-platform/internal/observability/metrics"
	"github.com/brightsmiledental/clinic-platform/internal/schedule"
	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("clinic.internal.appointments")

var (
	// ErrMissingField marks a booking request lacking a required field.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidSlot marks a (date, time) pair outside the clinic's slot grid.
	ErrInvalidSlot = errors.New("not a bookable slot")
)

// Notifier delivers the booking confirmation. Failure is never fatal to
// the booking itself.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, appt *Appointment) error
}

// BookingRequest carries a patient's booking submission.
type BookingRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Service   string `json:"service"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Notes     string `json:"notes"`
}

// Service implements the booking transaction and availability query on
// top of the appointment store.
type Service struct {
	repo         Repository
	sched        schedule.Schedule
	notifier     Notifier
	metrics      *metrics.BookingMetrics
	logger       *logging.Logger
	emailTimeout time.Duration
}

func NewService(repo Repository, sched schedule.Schedule, notifier Notifier, m *metrics.BookingMetrics, logger *logging.Logger, emailTimeout time.Duration) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if emailTimeout <= 0 {
		emailTimeout = 5 * time.Second
	}
	return &Service{
		repo:         repo,
		sched:        sched,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
		emailTimeout: emailTimeout,
	}
}

// Availability returns the slot partition for a date.
func (s *Service) Availability(ctx context.Context, date time.Time) (schedule.Availability, error) {
	booked, err := s.repo.BookedTimes(ctx, date.Format("2006-01-02"))
	if err != nil {
		return schedule.Availability{}, err
	}
	s.metrics.ObserveSlotQuery()
	return s.sched.Availability(date, booked), nil
}

// Book validates the request, re-checks slot exclusivity and inserts the
// appointment. The store's unique constraint is the true race authority;
// the pre-check only yields a friendlier error. The confirmation email is
// best-effort: its outcome is reported, never a booking failure.
func (s *Service) Book(ctx context.Context, req BookingRequest) (appt *Appointment, emailSent bool, err error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.date", req.Date),
		attribute.String("clinic.time", req.Time),
	)

	if err := validateRequest(req); err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, false, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, false, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrMissingField)
	}
	if !s.sched.Contains(date, req.Time) {
		s.metrics.ObserveBooking("invalid")
		return nil, false, ErrInvalidSlot
	}

	booked, err := s.repo.BookedTimes(ctx, req.Date)
	if err != nil {
		s.metrics.ObserveBooking("error")
		return nil, false, err
	}
	if slices.Contains(booked, req.Time) {
		s.metrics.ObserveBooking("conflict")
		return nil, false, ErrSlotTaken
	}

	appt = &Appointment{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Service:   req.Service,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
		Status:    StatusConfirmed,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			// Lost the race after passing the pre-check.
			s.metrics.ObserveBooking("conflict")
			return nil, false, ErrSlotTaken
		}
		span.RecordError(err)
		s.metrics.ObserveBooking("error")
		return nil, false, err
	}
	s.metrics.ObserveBooking("created")
	s.logger.Info("appointment booked",
		"id", appt.ID, "date", appt.Date, "time", appt.Time, "service", appt.Service)

	emailSent = s.sendConfirmation(ctx, appt)
	return appt, emailSent, nil
}

// sendConfirmation attempts delivery within a bounded window detached
// from the request's cancellation. Failures are logged and swallowed.
func (s *Service) sendConfirmation(ctx context.Context, appt *Appointment) bool {
	if s.notifier == nil {
		return false
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.emailTimeout)
	defer cancel()

	if err := s.notifier.SendBookingConfirmation(sendCtx, appt); err != nil {
		s.logger.Warn("confirmation email failed", "error", err, "appointment_id", appt.ID)
		s.metrics.ObserveEmail(false)
		return false
	}
	s.metrics.ObserveEmail(true)
	return true
}

func validateRequest(req BookingRequest) error {
	required := []struct {
		name, value string
	}{
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"service", req.Service},
		{"date", req.Date},
		{"time", req.Time},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}
