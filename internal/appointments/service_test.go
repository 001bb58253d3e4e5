package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmiledental/clinic-platform/internal/schedule"
	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

type fakeRepo struct {
	Repository
	booked       map[string][]string
	created      []*Appointment
	nextID       int64
	hidePrecheck bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{booked: map[string][]string{}}
}

func (f *fakeRepo) BookedTimes(_ context.Context, date string) ([]string, error) {
	if f.hidePrecheck {
		return nil, nil
	}
	return f.booked[date], nil
}

func (f *fakeRepo) Create(_ context.Context, appt *Appointment) error {
	for _, t := range f.booked[appt.Date] {
		if t == appt.Time {
			return ErrSlotTaken
		}
	}
	f.nextID++
	appt.ID = f.nextID
	appt.CreatedAt = time.Now()
	f.created = append(f.created, appt)
	f.booked[appt.Date] = append(f.booked[appt.Date], appt.Time)
	return nil
}

func (f *fakeRepo) cancel(date, slot string) {
	times := f.booked[date]
	out := times[:0]
	for _, t := range times {
		if t != slot {
			out = append(out, t)
		}
	}
	f.booked[date] = out
}

type fakeNotifier struct {
	err   error
	sent  int
	appts []*Appointment
}

func (f *fakeNotifier) SendBookingConfirmation(_ context.Context, appt *Appointment) error {
	if f.err != nil {
		return f.err
	}
	f.sent++
	f.appts = append(f.appts, appt)
	return nil
}

func testSchedule() schedule.Schedule {
	return schedule.New(9, 17, 30, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	})
}

func validRequest() BookingRequest {
	return BookingRequest{
		FirstName: "Alma",
		LastName:  "Reyes",
		Email:     "alma@example.com",
		Phone:     "+15550100",
		Service:   "cleaning",
		Date:      "2026-09-07", // a Monday
		Time:      "09:30",
	}
}

func newTestService(repo Repository, notifier Notifier) *Service {
	return NewService(repo, testSchedule(), notifier, nil, logging.Default(), time.Second)
}

func TestBookSuccess(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	appt, emailSent, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, emailSent)
	assert.Equal(t, int64(1), appt.ID)
	assert.Equal(t, StatusConfirmed, appt.Status)
	assert.Equal(t, 1, notifier.sent)
}

func TestBookMissingFieldNoSideEffect(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{})

	req := validRequest()
	req.Phone = ""

	_, _, err := svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "phone")
	assert.Empty(t, repo.created)
}

func TestBookSameSlotTwiceThenCancel(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{})
	req := validRequest()

	_, _, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	_, _, err = svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Cancelling frees the slot again.
	repo.cancel(req.Date, req.Time)
	appt, _, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), appt.ID)
}

func TestBookRaceLostAfterPrecheck(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{})
	req := validRequest()

	// Another booker wins between the pre-check and the insert: the
	// pre-check sees an empty day but the store rejects the insert.
	require.NoError(t, repo.Create(context.Background(), &Appointment{Date: req.Date, Time: req.Time}))
	repo.hidePrecheck = true

	_, _, err := svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookEmailFailureDoesNotFailBooking(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{err: errors.New("smtp down")})

	appt, emailSent, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, emailSent)
	assert.NotNil(t, appt)
	assert.Len(t, repo.created, 1)
}

func TestBookWithoutNotifier(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	_, emailSent, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, emailSent)
}

func TestBookClosedDayRejected(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeNotifier{})

	req := validRequest()
	req.Date = "2026-09-06" // Sunday

	_, _, err := svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestBookOffGridTimeRejected(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeNotifier{})

	req := validRequest()
	req.Time = "09:10"

	_, _, err := svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestAvailability(t *testing.T) {
	repo := newFakeRepo()
	repo.booked["2026-09-07"] = []string{"09:00"}
	svc := newTestService(repo, &fakeNotifier{})

	av, err := svc.Availability(context.Background(), time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, av.All, 16)
	assert.Equal(t, []string{"09:00"}, av.Booked)
	assert.Len(t, av.Available, 15)
}
