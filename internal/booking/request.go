package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SyntheticEmailDomain is appended to the digits-only phone number when a
// patient books without an email address, so every ledger row has one.
const SyntheticEmailDomain = "@brightsmile.clinic"

// Input is the raw booking payload posted by the website form.
type Input struct {
	PatientName   string `json:"patient_name"`
	PatientEmail  string `json:"patient_email"`
	PatientPhone  string `json:"patient_phone"`
	ServiceID     ID     `json:"service_id"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
	Notes         string `json:"notes"`
	EventTypeID   ID     `json:"event_type_id"`
	EventTypeName string `json:"event_type_name"`
}

// ID accepts both string and numeric JSON identifiers. Values are carried
// as opaque strings and never recomputed.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*id = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		*id = ID(s[1 : len(s)-1])
		return nil
	}
	*id = ID(s)
	return nil
}

func (id ID) String() string { return string(id) }

// ValidationError reports structurally invalid caller input. It is raised
// before any external call is attempted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func missingFieldsError(fields []string) *ValidationError {
	return &ValidationError{Message: "missing required fields: " + strings.Join(fields, ", ")}
}

// Request is the canonical, validated form of a booking attempt.
type Request struct {
	PatientName   string
	PatientEmail  string
	PatientPhone  string
	ServiceID     string
	EventTypeID   string
	EventTypeName string
	PreferredDate string // YYYY-MM-DD
	PreferredTime string // HH:MM, 24-hour
	Notes         string
	Start         time.Time
}

// Indian mobile numbers: ten digits, leading 6-9.
var phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// Normalizer validates raw input and resolves it against the clinic's
// fixed timezone. It has no side effects.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a normalizer anchored to the given IANA zone.
func NewNormalizer(timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("booking: load timezone %q: %w", timezone, err)
	}
	return &Normalizer{loc: loc}, nil
}

// Location returns the clinic zone the normalizer resolves times in.
func (n *Normalizer) Location() *time.Location { return n.loc }

// Normalize turns raw form input into a canonical Request or rejects it
// with a ValidationError.
func (n *Normalizer) Normalize(in Input) (*Request, error) {
	name := strings.TrimSpace(in.PatientName)
	phone := strings.TrimSpace(in.PatientPhone)
	email := strings.TrimSpace(in.PatientEmail)
	date := strings.TrimSpace(in.PreferredDate)
	timeOfDay := strings.TrimSpace(in.PreferredTime)
	eventTypeID := strings.TrimSpace(in.EventTypeID.String())

	var missing []string
	if name == "" {
		missing = append(missing, "patient_name")
	}
	if phone == "" {
		missing = append(missing, "patient_phone")
	}
	if date == "" {
		missing = append(missing, "preferred_date")
	}
	if timeOfDay == "" {
		missing = append(missing, "preferred_time")
	}
	if eventTypeID == "" {
		missing = append(missing, "event_type_id")
	}
	if len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	digits := nonDigits.ReplaceAllString(phone, "")
	if !phonePattern.MatchString(digits) {
		return nil, &ValidationError{Message: "patient_phone must be a 10-digit mobile number"}
	}

	if email == "" {
		email = digits + SyntheticEmailDomain
	}

	day, err := parseCalendarDate(date, n.loc)
	if err != nil {
		return nil, &ValidationError{Message: "preferred_date is not a valid date"}
	}
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, &ValidationError{Message: "preferred_time is not a valid time"}
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, n.loc)

	return &Request{
		PatientName:   name,
		PatientEmail:  email,
		PatientPhone:  digits,
		ServiceID:     strings.TrimSpace(in.ServiceID.String()),
		EventTypeID:   eventTypeID,
		EventTypeName: strings.TrimSpace(in.EventTypeName),
		PreferredDate: start.Format("2006-01-02"),
		PreferredTime: fmt.Sprintf("%02d:%02d", hour, minute),
		Notes:         strings.TrimSpace(in.Notes),
		Start:         start,
	}, nil
}

// parseCalendarDate keeps only the calendar portion of the value; any
// trailing time component is discarded.
func parseCalendarDate(value string, loc *time.Location) (time.Time, error) {
	if i := strings.IndexAny(value, "T "); i > 0 {
		value = value[:i]
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}
