package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository is the appointment ledger. Create must insert exactly one row
// per booking attempt; the flow never updates or deletes.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]*Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status, adminNotes string) (*Appointment, error)
}

// InMemoryRepository is a map-backed ledger for tests and local development.
type InMemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]*Appointment
}

// NewInMemoryRepository creates an empty in-memory ledger.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]*Appointment)}
}

// Create inserts a new appointment row.
func (r *InMemoryRepository) Create(ctx context.Context, params CreateParams) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	appt := &Appointment{
		ID:            uuid.NewString(),
		PatientName:   params.PatientName,
		PatientEmail:  params.PatientEmail,
		PatientPhone:  params.PatientPhone,
		ServiceID:     params.ServiceID,
		EventTypeID:   params.EventTypeID,
		EventTypeName: params.EventTypeName,
		PreferredDate: params.PreferredDate,
		PreferredTime: params.PreferredTime,
		Notes:         params.Notes,
		Status:        params.Status,
		AdminNotes:    params.AdminNotes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.rows[appt.ID] = appt

	out := *appt
	return &out, nil
}

// List returns appointments newest-first, optionally filtered by status.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0, len(r.rows))
	for _, appt := range r.rows {
		if filter.Status != "" && appt.Status != filter.Status {
			continue
		}
		cp := *appt
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit := filter.limit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateStatus transitions an existing appointment to a new status.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status, adminNotes string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	appt.Status = status
	if adminNotes != "" {
		appt.AdminNotes = adminNotes
	}
	appt.UpdatedAt = time.Now().UTC()

	out := *appt
	return &out, nil
}

var _ Repository = (*InMemoryRepository)(nil)
