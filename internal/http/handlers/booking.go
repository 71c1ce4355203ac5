package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/brightsmile/dental-booking-api/internal/appointments"
	"github.com/brightsmile/dental-booking-api/internal/booking"
	"github.com/brightsmile/dental-booking-api/pkg/logging"
)

// BookingHandler serves the patient-facing booking endpoints.
type BookingHandler struct {
	service *booking.Service
	ledger  appointments.Repository
	logger  *logging.Logger
}

// NewBookingHandler creates a booking handler. Either collaborator may be nil
// when the deployment is missing configuration; the handlers answer 500 with
// a stable message in that case.
func NewBookingHandler(service *booking.Service, ledger appointments.Repository, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{service: service, ledger: ledger, logger: logger}
}

type bookingCreatedData struct {
	AppointmentID   string `json:"appointmentId"`
	CalcomBookingID string `json:"calcomBookingId,omitempty"`
	Message         string `json:"message"`
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		respondError(w, http.StatusInternalServerError, "server configuration missing")
		return
	}

	var in booking.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.Create(r.Context(), in)
	if err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Message)
			return
		}
		h.logger.Error("booking create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save appointment")
		return
	}

	respondSuccess(w, http.StatusOK, bookingCreatedData{
		AppointmentID:   res.Appointment.ID,
		CalcomBookingID: res.Outcome.Reference,
		Message:         res.Message,
	})
}

// List handles GET /api/bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		respondError(w, http.StatusInternalServerError, "server configuration missing")
		return
	}

	filter := appointments.ListFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := appointments.Status(status)
		if !s.Valid() {
			respondError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = s
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	rows, err := h.ledger.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("appointment list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	if rows == nil {
		rows = []*appointments.Appointment{}
	}
	respondSuccess(w, http.StatusOK, rows)
}
