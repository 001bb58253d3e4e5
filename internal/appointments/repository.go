package appointments

import (
	"context"
	"errors"
)

var (
	// ErrSlotTaken means a non-cancelled appointment already holds the
	// requested (date, time) pair.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrNotFound means no appointment matched the given id.
	ErrNotFound = errors.New("appointment not found")
)

// Repository contains all store interactions needed by the service and
// the admin handlers.
type Repository interface {
	// BookedTimes returns the times of non-cancelled appointments on a date.
	BookedTimes(ctx context.Context, date string) ([]string, error)

	// Create inserts a new appointment and fills in its ID and CreatedAt.
	// Returns ErrSlotTaken when the slot-exclusivity constraint rejects it.
	Create(ctx context.Context, appt *Appointment) error

	List(ctx context.Context, filter Filter) ([]Appointment, error)
	PatientSummaries(ctx context.Context, search string) ([]PatientSummary, error)
	PatientHistory(ctx context.Context, email string) ([]Appointment, error)

	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}
