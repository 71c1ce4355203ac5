package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/brightsmile/dental-booking-api/internal/calcom"
	"github.com/brightsmile/dental-booking-api/pkg/logging"
)

// Appointment types whose title contains this phrase belong to the partner
// referral workflow and are hidden from the public widget.
const referralTitleMarker = "visit to other clinic"

// ScheduleProvider is the slice of the scheduling client the read-side
// endpoints need.
type ScheduleProvider interface {
	Enabled() bool
	GetEventTypes(ctx context.Context) ([]calcom.EventType, error)
	GetAvailableSlots(ctx context.Context, eventTypeID, date string) ([]calcom.Slot, error)
}

// ScheduleHandler serves the read-side scheduling endpoints. Every call goes
// straight to the provider; nothing is cached.
type ScheduleHandler struct {
	provider ScheduleProvider
	logger   *logging.Logger
}

// NewScheduleHandler creates a schedule handler. provider may be nil when
// the deployment has no scheduler credentials.
func NewScheduleHandler(provider ScheduleProvider, logger *logging.Logger) *ScheduleHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleHandler{provider: provider, logger: logger}
}

// GetEventTypes handles GET /api/event-types.
func (h *ScheduleHandler) GetEventTypes(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil || !h.provider.Enabled() {
		respondError(w, http.StatusInternalServerError, "scheduling provider not configured")
		return
	}

	types, err := h.provider.GetEventTypes(r.Context())
	if err != nil {
		h.logger.Error("event type fetch failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch appointment types")
		return
	}

	visible := make([]calcom.EventType, 0, len(types))
	for _, et := range types {
		if strings.Contains(strings.ToLower(et.Title), referralTitleMarker) {
			continue
		}
		visible = append(visible, et)
	}
	respondSuccess(w, http.StatusOK, visible)
}

type slotView struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	ISO       string `json:"iso"`
}

// GetAvailableSlots handles GET /api/slots. Both query params must appear
// exactly once.
func (h *ScheduleHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil || !h.provider.Enabled() {
		respondError(w, http.StatusInternalServerError, "scheduling provider not configured")
		return
	}

	query := r.URL.Query()
	eventTypeID, ok := singleParam(query["eventTypeId"])
	if !ok {
		respondError(w, http.StatusBadRequest, "eventTypeId query parameter required exactly once")
		return
	}
	date, ok := singleParam(query["date"])
	if !ok {
		respondError(w, http.StatusBadRequest, "date query parameter required exactly once")
		return
	}

	slots, err := h.provider.GetAvailableSlots(r.Context(), eventTypeID, date)
	if err != nil {
		h.logger.Error("slot fetch failed", "error", err, "event_type_id", eventTypeID, "date", date)
		respondError(w, http.StatusInternalServerError, "failed to fetch available slots")
		return
	}

	views := make([]slotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, slotView{
			Time:      s.Start.Format("3:04 PM"),
			Available: true,
			ISO:       s.Start.Format(time.RFC3339),
		})
	}
	respondSuccess(w, http.StatusOK, views)
}

func singleParam(values []string) (string, bool) {
	if len(values) != 1 {
		return "", false
	}
	value := strings.TrimSpace(values[0])
	if value == "" {
		return "", false
	}
	return value, true
}
