package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmiledental/clinic-platform/internal/appointments"
	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

type captureSender struct {
	msgs []EmailMessage
	err  error
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func sampleAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:        1,
		FirstName: "Alma",
		LastName:  "Reyes",
		Email:     "alma@example.com",
		Service:   "cleaning",
		Date:      "2026-09-07",
		Time:      "09:30",
		Status:    appointments.StatusConfirmed,
	}
}

func TestSendBookingConfirmation(t *testing.T) {
	sender := &captureSender{}
	n := NewBookingNotifier(sender, "Bright Smile Dental", logging.Default())

	require.NoError(t, n.SendBookingConfirmation(context.Background(), sampleAppointment()))
	require.Len(t, sender.msgs, 1)

	msg := sender.msgs[0]
	assert.Equal(t, "alma@example.com", msg.To)
	assert.Equal(t, "Alma Reyes", msg.ToName)
	assert.Contains(t, msg.Subject, "Appointment confirmed")
	assert.Contains(t, msg.Body, "cleaning")
	assert.Contains(t, msg.Body, "Monday, September 7, 2026")
	assert.Contains(t, msg.Body, "09:30")
	assert.Contains(t, msg.HTML, "<h2>Appointment confirmed</h2>")
}

func TestSendBookingConfirmationPropagatesSendError(t *testing.T) {
	n := NewBookingNotifier(&captureSender{err: errors.New("rate limited")}, "", logging.Default())

	err := n.SendBookingConfirmation(context.Background(), sampleAppointment())
	assert.Error(t, err)
}

func TestSendBookingConfirmationNoSender(t *testing.T) {
	n := NewBookingNotifier(nil, "", logging.Default())

	err := n.SendBookingConfirmation(context.Background(), sampleAppointment())
	assert.Error(t, err)
}

func TestFriendlyDateFallsBackOnMalformedInput(t *testing.T) {
	assert.Equal(t, "not-a-date", friendlyDate("not-a-date"))
}

func TestStubSenderNeverFails(t *testing.T) {
	stub := NewStubEmailSender(logging.Default())
	assert.NoError(t, stub.Send(context.Background(), EmailMessage{To: "x@example.com"}))
}
