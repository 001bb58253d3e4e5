package handlers

import (
	"context"
	"time"

	"github.com/brightsmiledental/clinic-platform/internal/appointments"
	"github.com/brightsmiledental/clinic-platform/internal/schedule"
	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

// fakeRepo is an in-memory appointments.Repository for handler tests.
type fakeRepo struct {
	appts  []appointments.Appointment
	nextID int64
	err    error
}

func (f *fakeRepo) BookedTimes(_ context.Context, date string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	times := []string{}
	for _, a := range f.appts {
		if a.Date == date && a.Status != appointments.StatusCancelled {
			times = append(times, a.Time)
		}
	}
	return times, nil
}

func (f *fakeRepo) Create(_ context.Context, appt *appointments.Appointment) error {
	if f.err != nil {
		return f.err
	}
	for _, a := range f.appts {
		if a.Date == appt.Date && a.Time == appt.Time && a.Status != appointments.StatusCancelled {
			return appointments.ErrSlotTaken
		}
	}
	f.nextID++
	appt.ID = f.nextID
	appt.CreatedAt = time.Now()
	f.appts = append(f.appts, *appt)
	return nil
}

func (f *fakeRepo) List(_ context.Context, filter appointments.Filter) ([]appointments.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []appointments.Appointment{}
	for _, a := range f.appts {
		if filter.Date != "" && a.Date != filter.Date {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) PatientSummaries(_ context.Context, _ string) ([]appointments.PatientSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []appointments.PatientSummary{}, nil
}

func (f *fakeRepo) PatientHistory(_ context.Context, email string) ([]appointments.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []appointments.Appointment{}
	for i := len(f.appts) - 1; i >= 0; i-- {
		if f.appts[i].Email == email {
			out = append(out, f.appts[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status appointments.Status) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.appts {
		if f.appts[i].ID == id {
			f.appts[i].Status = status
			return nil
		}
	}
	return appointments.ErrNotFound
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.appts {
		if f.appts[i].ID == id {
			f.appts = append(f.appts[:i], f.appts[i+1:]...)
			return nil
		}
	}
	return appointments.ErrNotFound
}

func testSchedule() schedule.Schedule {
	return schedule.New(9, 17, 30, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	})
}

func newTestService(repo appointments.Repository) *appointments.Service {
	return appointments.NewService(repo, testSchedule(), nil, nil, logging.Default(), time.Second)
}
