package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a ledger backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("appointments: db required")
	}
	return &PostgresRepository{db: db}
}

const appointmentColumns = `id, patient_name, patient_email, patient_phone,
		service_id, event_type_id, event_type_name,
		preferred_date, preferred_time, notes, status, admin_notes,
		created_at, updated_at`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, params CreateParams) (*Appointment, error) {
	id := uuid.New()
	query := `
		INSERT INTO appointments (id, patient_name, patient_email, patient_phone,
			service_id, event_type_id, event_type_name,
			preferred_date, preferred_time, notes, status, admin_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		params.PatientName,
		params.PatientEmail,
		params.PatientPhone,
		params.ServiceID,
		params.EventTypeID,
		params.EventTypeName,
		params.PreferredDate,
		params.PreferredTime,
		params.Notes,
		string(params.Status),
		params.AdminNotes,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}

	return &Appointment{
		ID:            id.String(),
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
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// List returns appointments newest-first, optionally filtered by status.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, filter.limit())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	defer rows.Close()

	out := []*Appointment{}
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w", err)
	}
	return out, nil
}

// UpdateStatus transitions an existing appointment to a new status. When
// adminNotes is empty the stored notes are kept.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status, adminNotes string) (*Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $2,
			admin_notes = CASE WHEN $3 = '' THEN admin_notes ELSE $3 END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + appointmentColumns
	row := r.db.QueryRow(ctx, query, id, string(status), adminNotes)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}
	return appt, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	var status string
	if err := row.Scan(
		&appt.ID,
		&appt.PatientName,
		&appt.PatientEmail,
		&appt.PatientPhone,
		&appt.ServiceID,
		&appt.EventTypeID,
		&appt.EventTypeName,
		&appt.PreferredDate,
		&appt.PreferredTime,
		&appt.Notes,
		&status,
		&appt.AdminNotes,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("appointments: scan row: %w", err)
	}
	appt.Status = Status(status)
	return &appt, nil
}

var _ Repository = (*PostgresRepository)(nil)
