package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/brightsmiledental/clinic-platform/internal/appointments"
	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

// BookingNotifier formats and delivers appointment confirmations. It
// satisfies appointments.Notifier.
type BookingNotifier struct {
	sender     EmailSender
	clinicName string
	logger     *logging.Logger
}

func NewBookingNotifier(sender EmailSender, clinicName string, logger *logging.Logger) *BookingNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	if clinicName == "" {
		clinicName = "Bright Smile Dental"
	}
	return &BookingNotifier{sender: sender, clinicName: clinicName, logger: logger}
}

// SendBookingConfirmation emails the patient their appointment details.
func (n *BookingNotifier) SendBookingConfirmation(ctx context.Context, appt *appointments.Appointment) error {
	if n.sender == nil {
		return fmt.Errorf("notify: no email sender configured")
	}
	msg := EmailMessage{
		To:      appt.Email,
		ToName:  appt.FirstName + " " + appt.LastName,
		Subject: fmt.Sprintf("Appointment confirmed at %s", n.clinicName),
		Body:    confirmationText(n.clinicName, appt),
		HTML:    confirmationHTML(n.clinicName, appt),
	}
	return n.sender.Send(ctx, msg)
}

func friendlyDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 2, 2006")
}

func confirmationText(clinicName string, appt *appointments.Appointment) string {
	return fmt.Sprintf(`Hi %s,

Your appointment at %s is confirmed.

Service: %s
Date: %s
Time: %s

If you need to reschedule, reply to this email or call the clinic.

%s`,
		appt.FirstName, clinicName, appt.Service,
		friendlyDate(appt.Date), appt.Time, clinicName)
}

func confirmationHTML(clinicName string, appt *appointments.Appointment) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:520px">
<h2>Appointment confirmed</h2>
<p>Hi %s, your appointment at %s is confirmed.</p>
<table cellpadding="6">
<tr><td><b>Service</b></td><td>%s</td></tr>
<tr><td><b>Date</b></td><td>%s</td></tr>
<tr><td><b>Time</b></td><td>%s</td></tr>
</table>
<p>If you need to reschedule, reply to this email or call the clinic.</p>
</div>`,
		appt.FirstName, clinicName, appt.Service,
		friendlyDate(appt.Date), appt.Time)
}

var _ appointments.Notifier = (*BookingNotifier)(nil)
