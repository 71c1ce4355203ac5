// Package notify delivers front desk notifications for appointment activity.
package notify

import (
	"context"
	"fmt"

	"github.com/brightsmile/dental-booking-api/internal/appointments"
	"github.com/brightsmile/dental-booking-api/internal/booking"
	"github.com/brightsmile/dental-booking-api/pkg/logging"
)

// FrontDeskService emails the clinic front desk whenever an appointment
// request is recorded, so pending rows get human follow-up.
type FrontDeskService struct {
	email      EmailSender
	recipients []string
	clinicName string
	logger     *logging.Logger
}

// NewFrontDeskService creates a front desk notification service. Returns nil
// when there is no sender or nobody to notify, so callers can wire it
// unconditionally.
func NewFrontDeskService(email EmailSender, recipients []string, clinicName string, logger *logging.Logger) *FrontDeskService {
	if email == nil || len(recipients) == 0 {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if clinicName == "" {
		clinicName = "BrightSmile Dental"
	}
	return &FrontDeskService{
		email:      email,
		recipients: recipients,
		clinicName: clinicName,
		logger:     logger,
	}
}

// AppointmentRecorded notifies the front desk about a newly recorded
// appointment. Pending appointments get an action-needed subject line.
func (s *FrontDeskService) AppointmentRecorded(ctx context.Context, appt *appointments.Appointment, outcome booking.Outcome) error {
	subject := fmt.Sprintf("New appointment booked - %s", appt.PatientName)
	lead := fmt.Sprintf("%s booked an appointment and the calendar has been updated.", appt.PatientName)
	if !outcome.Confirmed {
		subject = fmt.Sprintf("Action needed: confirm appointment - %s", appt.PatientName)
		lead = fmt.Sprintf("%s requested an appointment but automatic scheduling did not go through. Please confirm it manually.", appt.PatientName)
	}

	body := fmt.Sprintf(`%s

Patient: %s
Phone: %s
Email: %s
Treatment: %s
Requested: %s at %s
Status: %s
Notes: %s
%s
— %s`, lead,
		appt.PatientName, appt.PatientPhone, appt.PatientEmail,
		appt.EventTypeName, appt.PreferredDate, appt.PreferredTime,
		appt.Status, orDash(appt.Notes), outcomeLine(outcome), s.clinicName)

	var errs []error
	for _, recipient := range s.recipients {
		msg := EmailMessage{
			To:      recipient,
			Subject: subject,
			Body:    body,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: failed to send front desk email", "error", err, "to", recipient, "appointment_id", appt.ID)
			errs = append(errs, err)
		} else {
			s.logger.Info("notify: front desk email sent", "to", recipient, "appointment_id", appt.ID, "status", appt.Status)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d notification(s) failed", len(errs))
	}
	return nil
}

func outcomeLine(outcome booking.Outcome) string {
	if outcome.Confirmed {
		return fmt.Sprintf("Calendar booking: %s\n", outcome.Reference)
	}
	if outcome.Reason != "" {
		return fmt.Sprintf("Scheduling failure: %s\n", outcome.Reason)
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var _ booking.Notifier = (*FrontDeskService)(nil)
