package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var apptTestColumns = []string{
	"id", "patient_name", "patient_email", "patient_phone",
	"service_id", "event_type_id", "event_type_name",
	"preferred_date", "preferred_time", "notes", "status", "admin_notes",
	"created_at", "updated_at",
}

func TestPostgresCreateInsertsRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "Asha Rao", "9876543210@brightsmile.clinic", "9876543210",
			"srv-cleaning", "201", "General Consultation",
			"2024-03-15", "14:30", "", "pending", "Cal.com booking failed: timeout").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewPostgresRepository(mock)
	appt, err := repo.Create(context.Background(), CreateParams{
		PatientName:   "Asha Rao",
		PatientEmail:  "9876543210@brightsmile.clinic",
		PatientPhone:  "9876543210",
		ServiceID:     "srv-cleaning",
		EventTypeID:   "201",
		EventTypeName: "General Consultation",
		PreferredDate: "2024-03-15",
		PreferredTime: "14:30",
		Status:        StatusPending,
		AdminNotes:    "Cal.com booking failed: timeout",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, StatusPending, appt.Status)
	assert.True(t, appt.CreatedAt.Equal(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateLedgerFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnError(errors.New("connection refused"))

	repo := NewPostgresRepository(mock)
	_, err = repo.Create(context.Background(), CreateParams{Status: StatusConfirmed})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
}

func TestPostgresListFiltersByStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows(apptTestColumns).
		AddRow("a1", "Asha Rao", "asha@example.com", "9876543210",
			"srv", "201", "General Consultation",
			"2024-03-15", "14:30", "", "pending", "",
			now, now)
	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs("pending").
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	got, err := repo.List(context.Background(), ListFilter{Status: StatusPending})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, StatusPending, got[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateStatusNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("UPDATE appointments").
		WithArgs("missing", "cancelled", "").
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock)
	_, err = repo.UpdateStatus(context.Background(), "missing", StatusCancelled, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
