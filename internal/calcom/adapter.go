package calcom

import (
	"context"
	"errors"

	"github.com/brightsmile/dental-booking-api/internal/booking"
	"github.com/brightsmile/dental-booking-api/pkg/logging"
)

// Adapter turns a canonical booking request into a Cal.com booking attempt.
// Provider-side failures never escalate past this boundary; they come back
// as a failed Outcome so the ledger write always proceeds.
type Adapter struct {
	client   *Client
	timezone string
	logger   *logging.Logger
}

// NewAdapter creates a scheduling adapter backed by the Cal.com client.
func NewAdapter(client *Client, timezone string, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{client: client, timezone: timezone, logger: logger}
}

// Book makes a single booking attempt; no retries.
func (a *Adapter) Book(ctx context.Context, req *booking.Request) booking.Outcome {
	if a.client == nil || !a.client.Enabled() {
		return booking.Failed("scheduling provider not configured")
	}

	result, err := a.client.CreateBooking(ctx, CreateBookingRequest{
		EventTypeID: req.EventTypeID,
		Start:       req.Start,
		Attendee: Attendee{
			Name:     req.PatientName,
			Email:    req.PatientEmail,
			Phone:    "+91" + req.PatientPhone,
			TimeZone: a.timezone,
			Language: "en",
		},
		Notes: req.Notes,
	})
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return booking.Failed("scheduling provider not configured")
		}
		a.logger.Warn("calcom booking attempt failed", "error", err, "event_type_id", req.EventTypeID)
		return booking.Failed(err.Error())
	}
	return booking.Booked(result.ID)
}

var _ booking.Scheduler = (*Adapter)(nil)
