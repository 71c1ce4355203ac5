package appointments

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestInMemoryCreateAssignsIdentity(t *testing.T) {
	repo := NewInMemoryRepository()

	appt, err := repo.Create(context.Background(), CreateParams{
		PatientName:   "Asha Rao",
		PatientPhone:  "9876543210",
		PatientEmail:  "asha@example.com",
		EventTypeID:   "201",
		PreferredDate: "2024-03-15",
		PreferredTime: "14:30",
		Status:        StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.ID == "" {
		t.Error("expected appointment ID to be set")
	}
	if appt.CreatedAt.IsZero() || appt.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestInMemoryListNewestFirstWithLimit(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		status := StatusPending
		if i%2 == 0 {
			status = StatusConfirmed
		}
		if _, err := repo.Create(ctx, CreateParams{
			PatientName: fmt.Sprintf("Patient %d", i),
			Status:      status,
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		time.Sleep(time.Millisecond)
	}

	pending, err := repo.List(ctx, ListFilter{Status: StatusPending})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending rows, got %d", len(pending))
	}
	for _, appt := range pending {
		if appt.Status != StatusPending {
			t.Fatalf("expected pending rows only, got %s", appt.Status)
		}
	}

	limited, err := repo.List(ctx, ListFilter{Limit: 3})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(limited))
	}
	for i := 1; i < len(limited); i++ {
		if limited[i].CreatedAt.After(limited[i-1].CreatedAt) {
			t.Fatal("expected newest-first ordering")
		}
	}
}

func TestInMemoryUpdateStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateParams{PatientName: "Asha Rao", Status: StatusPending})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateStatus(ctx, created.ID, StatusCancelled, "patient called to cancel")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
	if updated.AdminNotes != "patient called to cancel" {
		t.Fatalf("expected admin notes to be recorded, got %q", updated.AdminNotes)
	}

	if _, err := repo.UpdateStatus(ctx, "nonexistent", StatusCompleted, ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
