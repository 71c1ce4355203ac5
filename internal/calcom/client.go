package calcom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/brightsmile/dental-booking-api/internal/observability/metrics"
	"github.com/brightsmile/dental-booking-api/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// ErrNotConfigured is returned when no API key is present. Callers treat
// the scheduler as disabled rather than failing hard.
var ErrNotConfigured = errors.New("calcom: api key not configured")

// Client is a thin REST client for the Cal.com v2 API.
type Client struct {
	baseURL    string
	apiKey     string
	apiVersion string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.BookingMetrics
}

// Config holds configuration for the Cal.com client.
type Config struct {
	BaseURL    string
	APIKey     string
	APIVersion string
	Timeout    time.Duration
}

// NewClient creates a Cal.com API client.
func NewClient(cfg Config, logger *logging.Logger, m *metrics.BookingMetrics) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    m,
	}
}

// Enabled reports whether the client has credentials to call Cal.com.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// GetEventTypes lists the bookable appointment types.
func (c *Client) GetEventTypes(ctx context.Context) ([]EventType, error) {
	var out apiResponse[[]eventTypePayload]
	if err := c.do(ctx, "event_types", http.MethodGet, "/event-types", nil, nil, &out); err != nil {
		return nil, err
	}
	types := make([]EventType, 0, len(out.Data))
	for _, et := range out.Data {
		types = append(types, EventType{
			ID:              et.ID.String(),
			Title:           et.Title,
			Slug:            et.Slug,
			LengthInMinutes: et.LengthInMinutes,
			Description:     et.Description,
		})
	}
	return types, nil
}

// GetAvailableSlots lists open start times for an event type on one date
// (YYYY-MM-DD). Slot availability is owned entirely by Cal.com; nothing is
// cached locally.
func (c *Client) GetAvailableSlots(ctx context.Context, eventTypeID, date string) ([]Slot, error) {
	query := url.Values{}
	query.Set("eventTypeId", eventTypeID)
	query.Set("start", date)
	query.Set("end", date)

	var out apiResponse[map[string][]slotPayload]
	if err := c.do(ctx, "slots", http.MethodGet, "/slots", query, nil, &out); err != nil {
		return nil, err
	}

	slots := make([]Slot, 0)
	for _, day := range out.Data {
		for _, s := range day {
			start, err := time.Parse(time.RFC3339, s.Start)
			if err != nil {
				c.logger.Warn("calcom: skipping unparseable slot", "start", s.Start)
				continue
			}
			slots = append(slots, Slot{Start: start})
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots, nil
}

// CreateBooking reserves a slot on Cal.com. The returned booking id is an
// opaque provider reference.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error) {
	eventTypeID, err := strconv.ParseInt(strings.TrimSpace(req.EventTypeID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("calcom: event type id %q is not numeric: %w", req.EventTypeID, err)
	}

	metadata := map[string]string{"source": "website"}
	if req.Notes != "" {
		metadata["notes"] = req.Notes
	}
	body := createBookingBody{
		EventTypeID: eventTypeID,
		Start:       req.Start.UTC().Format(time.RFC3339),
		Attendee:    req.Attendee,
		Metadata:    metadata,
	}

	var out apiResponse[bookingPayload]
	if err := c.do(ctx, "create_booking", http.MethodPost, "/bookings", nil, body, &out); err != nil {
		return nil, err
	}
	if out.Data.ID.String() == "" {
		return nil, fmt.Errorf("calcom: booking created without an id")
	}
	return &BookingResult{
		ID:     out.Data.ID.String(),
		UID:    out.Data.UID,
		Status: out.Data.Status,
	}, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body any, out any) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("calcom: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("calcom: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("cal-api-version", c.apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveSchedulerRequest(operation, "error", time.Since(start).Seconds())
		return fmt.Errorf("calcom: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveSchedulerRequest(operation, "error", time.Since(start).Seconds())
		return fmt.Errorf("calcom: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveSchedulerRequest(operation, "error", time.Since(start).Seconds())
		return fmt.Errorf("calcom: %s", errorMessage(resp.StatusCode, respBody))
	}
	c.metrics.ObserveSchedulerRequest(operation, "ok", time.Since(start).Seconds())

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("calcom: unmarshal response: %w", err)
		}
	}
	return nil
}

// errorMessage prefers the provider's own human-readable message and falls
// back to a synthesized one from the status code.
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Error   *apiError `json:"error"`
		Message string    `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != nil && envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 300 {
		msg = msg[:300]
	}
	if msg == "" {
		return fmt.Sprintf("status %d", status)
	}
	return fmt.Sprintf("status %d: %s", status, msg)
}
