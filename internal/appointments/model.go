package appointments

import "time"

// Status enumerates appointment states. It is a flat enumeration: any
// value may be set from any other, there is no transition ordering.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is the persistent booking record. Date is YYYY-MM-DD and
// Time is a 24-hour HH:MM slot aligned to the clinic's slot duration.
type Appointment struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Notes     string    `json:"notes"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// PatientSummary is a derived view of appointments grouped by email.
// It is recomputed on every query and never stored.
type PatientSummary struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	TotalVisits int    `json:"totalVisits"`
	Completed   int    `json:"completed"`
	Cancelled   int    `json:"cancelled"`
	NoShows     int    `json:"noShows"`
	LastVisit   string `json:"lastVisit"`
}

// Filter narrows admin appointment listings. Zero values mean "no filter";
// all set fields combine with AND.
type Filter struct {
	Date   string
	Status Status
	Search string
}
