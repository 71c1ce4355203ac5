package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/brightsmile/dental-booking-api/internal/appointments"
	"github.com/brightsmile/dental-booking-api/pkg/logging"
)

type stubScheduler struct {
	mu      sync.Mutex
	calls   int
	outcome Outcome
}

func (s *stubScheduler) Book(ctx context.Context, req *Request) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.outcome
}

type failingLedger struct{}

func (failingLedger) Create(context.Context, appointments.CreateParams) (*appointments.Appointment, error) {
	return nil, errors.New("connection refused")
}

func (failingLedger) List(context.Context, appointments.ListFilter) ([]*appointments.Appointment, error) {
	return nil, errors.New("connection refused")
}

func (failingLedger) UpdateStatus(context.Context, string, appointments.Status, string) (*appointments.Appointment, error) {
	return nil, errors.New("connection refused")
}

type recordingNotifier struct {
	appts []*appointments.Appointment
}

func (n *recordingNotifier) AppointmentRecorded(ctx context.Context, appt *appointments.Appointment, outcome Outcome) error {
	n.appts = append(n.appts, appt)
	return nil
}

func newTestService(t *testing.T, scheduler Scheduler, ledger appointments.Repository, notifier Notifier) *Service {
	t.Helper()
	return NewService(ServiceConfig{
		Normalizer: newTestNormalizer(t),
		Scheduler:  scheduler,
		Ledger:     ledger,
		Notifier:   notifier,
		Logger:     logging.Default(),
	})
}

func TestCreateConfirmedWhenSchedulerSucceeds(t *testing.T) {
	scheduler := &stubScheduler{outcome: Booked("9007199254740993")}
	ledger := appointments.NewInMemoryRepository()
	notifier := &recordingNotifier{}
	svc := newTestService(t, scheduler, ledger, notifier)

	res, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.Appointment.Status != appointments.StatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", res.Appointment.Status)
	}
	if !strings.Contains(res.Appointment.AdminNotes, "9007199254740993") {
		t.Errorf("expected provider reference in admin notes, got %q", res.Appointment.AdminNotes)
	}
	if res.Outcome.Reference != "9007199254740993" {
		t.Errorf("expected opaque reference pass-through, got %q", res.Outcome.Reference)
	}
	if !strings.Contains(res.Message, "calendar has been updated") {
		t.Errorf("unexpected confirmation message: %q", res.Message)
	}
	if len(notifier.appts) != 1 {
		t.Errorf("expected front desk notification, got %d", len(notifier.appts))
	}
}

func TestCreatePendingWhenSchedulerFails(t *testing.T) {
	scheduler := &stubScheduler{outcome: Failed("status 503: provider unavailable")}
	ledger := appointments.NewInMemoryRepository()
	svc := newTestService(t, scheduler, ledger, nil)

	res, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("scheduler failure must not fail the flow: %v", err)
	}
	if res.Appointment.Status != appointments.StatusPending {
		t.Fatalf("expected pending status, got %s", res.Appointment.Status)
	}
	if !strings.Contains(res.Appointment.AdminNotes, "provider unavailable") {
		t.Errorf("expected failure reason in admin notes, got %q", res.Appointment.AdminNotes)
	}
	if !strings.Contains(res.Message, "requires manual confirmation") {
		t.Errorf("unexpected pending message: %q", res.Message)
	}
	if !strings.Contains(res.Message, "(status 503: provider unavailable)") {
		t.Errorf("expected reason appended parenthetically, got %q", res.Message)
	}
}

func TestCreatePendingWhenSchedulerMissing(t *testing.T) {
	ledger := appointments.NewInMemoryRepository()
	svc := newTestService(t, nil, ledger, nil)

	res, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.Appointment.Status != appointments.StatusPending {
		t.Fatalf("expected pending status, got %s", res.Appointment.Status)
	}
	if !strings.Contains(res.Appointment.AdminNotes, "not configured") {
		t.Errorf("expected disabled-scheduler note, got %q", res.Appointment.AdminNotes)
	}
}

func TestCreateFailsWhenLedgerFails(t *testing.T) {
	scheduler := &stubScheduler{outcome: Booked("123")}
	svc := newTestService(t, scheduler, failingLedger{}, nil)

	if _, err := svc.Create(context.Background(), validInput()); err == nil {
		t.Fatal("expected ledger failure to surface as an error")
	}
}

func TestCreateValidationSkipsDownstream(t *testing.T) {
	scheduler := &stubScheduler{outcome: Booked("123")}
	ledger := appointments.NewInMemoryRepository()
	svc := newTestService(t, scheduler, ledger, nil)

	_, err := svc.Create(context.Background(), Input{PatientName: "Asha Rao"})
	var verr *ValidationError
	if !asValidationError(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if scheduler.calls != 0 {
		t.Errorf("expected no scheduler call, got %d", scheduler.calls)
	}
	rows, listErr := ledger.List(context.Background(), appointments.ListFilter{})
	if listErr != nil {
		t.Fatalf("list: %v", listErr)
	}
	if len(rows) != 0 {
		t.Errorf("expected no ledger rows, got %d", len(rows))
	}
}

func TestConcurrentIdenticalRequestsEachProduceARow(t *testing.T) {
	scheduler := &stubScheduler{outcome: Failed("slot already taken")}
	ledger := appointments.NewInMemoryRepository()
	svc := newTestService(t, scheduler, ledger, nil)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), validInput())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent create failed: %v", err)
		}
	}

	rows, err := ledger.List(context.Background(), appointments.ListFilter{Limit: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != n {
		t.Fatalf("expected %d independent rows, got %d", n, len(rows))
	}
}
