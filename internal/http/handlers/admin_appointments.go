package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightsmile/dental-booking-api/internal/appointments"
	"github.com/brightsmile/dental-booking-api/pkg/logging"
)

// AdminAppointmentsHandler serves the staff-only appointment management
// endpoints. Routes using it sit behind admin JWT middleware.
type AdminAppointmentsHandler struct {
	ledger appointments.Repository
	logger *logging.Logger
}

// NewAdminAppointmentsHandler creates an admin appointments handler.
func NewAdminAppointmentsHandler(ledger appointments.Repository, logger *logging.Logger) *AdminAppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminAppointmentsHandler{ledger: ledger, logger: logger}
}

type updateStatusRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
}

// UpdateStatus handles PATCH /admin/appointments/{id}/status. This is the
// only path by which an appointment can become completed or cancelled.
func (h *AdminAppointmentsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		respondError(w, http.StatusInternalServerError, "server configuration missing")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "appointment id required")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := appointments.Status(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	appt, err := h.ledger.UpdateStatus(r.Context(), id, status, req.AdminNotes)
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			respondError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("appointment status update failed", "error", err, "appointment_id", id)
		respondError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}

	h.logger.Info("appointment status updated", "appointment_id", id, "status", status)
	respondSuccess(w, http.StatusOK, appt)
}
