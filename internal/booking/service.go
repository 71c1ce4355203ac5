// Package booking implements the booking-reconciliation flow: validate the
// patient's request, try to reserve the slot on the external scheduler, and
// always record the attempt in the appointment ledger.
package booking

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightsmile/dental-booking-api/internal/appointments"
	"github.com/brightsmile/dental-booking-api/internal/observability/metrics"
	"github.com/brightsmile/dental-booking-api/pkg/logging"
)

var bookingTracer = otel.Tracer("brightsmile.internal.booking")

const defaultSchedulerBudget = 20 * time.Second

// Scheduler reserves a slot on the external scheduling provider. It must
// convert provider-side failures into a failed Outcome instead of an error;
// returning an error is reserved for unexpected local faults.
type Scheduler interface {
	Book(ctx context.Context, req *Request) Outcome
}

// Notifier tells the front desk about a recorded appointment. Failures are
// logged and never affect the flow result.
type Notifier interface {
	AppointmentRecorded(ctx context.Context, appt *appointments.Appointment, outcome Outcome) error
}

// Result is the caller-facing outcome of one booking attempt.
type Result struct {
	Appointment *appointments.Appointment
	Outcome     Outcome
	Message     string
}

// Service orchestrates normalize -> schedule -> persist. The ledger write
// happens regardless of the scheduler outcome; its failure is the only
// fatal path after validation.
type Service struct {
	normalizer      *Normalizer
	scheduler       Scheduler
	ledger          appointments.Repository
	notifier        Notifier
	metrics         *metrics.BookingMetrics
	logger          *logging.Logger
	schedulerBudget time.Duration
}

// ServiceConfig wires the booking service collaborators. Scheduler,
// Notifier, and Metrics are optional.
type ServiceConfig struct {
	Normalizer      *Normalizer
	Scheduler       Scheduler
	Ledger          appointments.Repository
	Notifier        Notifier
	Metrics         *metrics.BookingMetrics
	Logger          *logging.Logger
	SchedulerBudget time.Duration
}

// NewService constructs a booking service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Normalizer == nil {
		panic("booking: normalizer required")
	}
	if cfg.Ledger == nil {
		panic("booking: ledger required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	budget := cfg.SchedulerBudget
	if budget <= 0 {
		budget = defaultSchedulerBudget
	}
	return &Service{
		normalizer:      cfg.Normalizer,
		scheduler:       cfg.Scheduler,
		ledger:          cfg.Ledger,
		notifier:        cfg.Notifier,
		metrics:         cfg.Metrics,
		logger:          logger,
		schedulerBudget: budget,
	}
}

// Create runs the full flow for one raw booking input. A *ValidationError
// means the input never reached either downstream system; any other error
// means the ledger write failed and no durable record exists.
func (s *Service) Create(ctx context.Context, in Input) (*Result, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.create")
	defer span.End()

	req, err := s.normalizer.Normalize(in)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("booking.event_type_id", req.EventTypeID),
		attribute.String("booking.start", req.Start.Format(time.RFC3339)),
	)

	outcome := s.schedule(ctx, req)
	span.AddEvent("scheduler answered", trace.WithAttributes(
		attribute.Bool("booking.confirmed", outcome.Confirmed),
	))

	status := appointments.StatusPending
	adminNotes := ""
	if outcome.Confirmed {
		status = appointments.StatusConfirmed
		adminNotes = "Cal.com booking ID: " + outcome.Reference
	} else {
		adminNotes = "Auto-booking failed: " + outcome.Reason
		s.logger.Warn("external booking failed, saving as pending",
			"reason", outcome.Reason,
			"event_type_id", req.EventTypeID,
		)
	}

	appt, err := s.ledger.Create(ctx, appointments.CreateParams{
		PatientName:   req.PatientName,
		PatientEmail:  req.PatientEmail,
		PatientPhone:  req.PatientPhone,
		ServiceID:     req.ServiceID,
		EventTypeID:   req.EventTypeID,
		EventTypeName: req.EventTypeName,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Notes:         req.Notes,
		Status:        status,
		AdminNotes:    adminNotes,
	})
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("ledger_error")
		return nil, fmt.Errorf("booking: ledger write: %w", err)
	}
	s.metrics.ObserveBooking(string(status))
	s.logger.Info("appointment recorded",
		"appointment_id", appt.ID,
		"status", appt.Status,
		"calcom_booking_id", outcome.Reference,
	)

	if s.notifier != nil {
		if err := s.notifier.AppointmentRecorded(ctx, appt, outcome); err != nil {
			s.logger.Error("front desk notification failed", "error", err, "appointment_id", appt.ID)
		}
	}

	return &Result{
		Appointment: appt,
		Outcome:     outcome,
		Message:     composeMessage(outcome),
	}, nil
}

// schedule attempts the external booking under a bounded time budget so a
// slow provider cannot stall the ledger write.
func (s *Service) schedule(ctx context.Context, req *Request) Outcome {
	if s.scheduler == nil {
		return Failed("scheduling provider not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.schedulerBudget)
	defer cancel()
	return s.scheduler.Book(ctx, req)
}

func composeMessage(outcome Outcome) string {
	if outcome.Confirmed {
		return "Your appointment is confirmed and the clinic calendar has been updated."
	}
	return fmt.Sprintf("Your appointment request was saved but requires manual confirmation. (%s)", outcome.Reason)
}
