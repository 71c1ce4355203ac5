package appointments

import "time"

// Status is the lifecycle state of an appointment row.
type Status string

const (
	// StatusPending means the row was saved but the external scheduler did
	// not confirm the slot; the front desk follows up manually.
	StatusPending Status = "pending"
	// StatusConfirmed means the external scheduler accepted the booking.
	StatusConfirmed Status = "confirmed"
	// StatusCompleted and StatusCancelled are reachable only through the
	// admin status endpoint, never by the booking flow itself.
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known appointment status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is the durable record of one booking attempt.
type Appointment struct {
	ID            string    `json:"id"`
	PatientName   string    `json:"patient_name"`
	PatientEmail  string    `json:"patient_email"`
	PatientPhone  string    `json:"patient_phone"`
	ServiceID     string    `json:"service_id"`
	EventTypeID   string    `json:"event_type_id"`
	EventTypeName string    `json:"event_type_name"`
	PreferredDate string    `json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"`
	Notes         string    `json:"notes,omitempty"`
	Status        Status    `json:"status"`
	AdminNotes    string    `json:"admin_notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateParams carries the normalized fields for one insert.
type CreateParams struct {
	PatientName   string
	PatientEmail  string
	PatientPhone  string
	ServiceID     string
	EventTypeID   string
	EventTypeName string
	PreferredDate string
	PreferredTime string
	Notes         string
	Status        Status
	AdminNotes    string
}

// ListFilter narrows and bounds a listing query.
type ListFilter struct {
	Status Status
	Limit  int
}

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

func (f ListFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	if f.Limit > maxListLimit {
		return maxListLimit
	}
	return f.Limit
}
