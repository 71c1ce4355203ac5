package calcom

import (
	"encoding/json"
	"time"
)

const (
	defaultBaseURL    = "https://api.cal.com/v2"
	defaultAPIVersion = "2024-08-13"
)

// EventType is a bookable appointment category owned by Cal.com.
type EventType struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Slug            string `json:"slug,omitempty"`
	LengthInMinutes int    `json:"lengthInMinutes,omitempty"`
	Description     string `json:"description,omitempty"`
}

// Slot is one available start time for an event type.
type Slot struct {
	// Start keeps the provider's zone offset so callers can render
	// wall-clock labels the way the provider advertises them.
	Start time.Time
}

// Attendee is the patient identity sent with a booking.
type Attendee struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phoneNumber,omitempty"`
	TimeZone string `json:"timeZone"`
	Language string `json:"language,omitempty"`
}

// CreateBookingRequest is the input for booking creation.
type CreateBookingRequest struct {
	EventTypeID string
	Start       time.Time
	Attendee    Attendee
	Notes       string
}

// BookingResult is the provider's answer to a successful creation call.
type BookingResult struct {
	// ID is the provider-assigned booking reference. It is passed through
	// as an opaque string and never reparsed as a number.
	ID     string
	UID    string
	Status string
}

type apiError struct {
	Message string `json:"message"`
}

type apiResponse[T any] struct {
	Status string    `json:"status"`
	Data   T         `json:"data"`
	Error  *apiError `json:"error,omitempty"`
}

// Narrow response payloads for each API operation.
type eventTypePayload struct {
	ID              json.Number `json:"id"`
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	LengthInMinutes int         `json:"lengthInMinutes"`
	Description     string      `json:"description"`
}

type slotPayload struct {
	Start string `json:"start"`
}

type bookingPayload struct {
	ID     json.Number `json:"id"`
	UID    string      `json:"uid"`
	Status string      `json:"status"`
}

type createBookingBody struct {
	EventTypeID int64             `json:"eventTypeId"`
	Start       string            `json:"start"`
	Attendee    Attendee          `json:"attendee"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
