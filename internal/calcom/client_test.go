package calcom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(Config{BaseURL: ts.URL, APIKey: "cal_test_key"}, nil, nil)
}

func TestGetEventTypes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer cal_test_key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get("cal-api-version"); got == "" {
			t.Error("expected cal-api-version header")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": []map[string]any{
				{"id": 201, "title": "General Consultation", "lengthInMinutes": 30},
				{"id": 202, "title": "Root Canal", "lengthInMinutes": 60},
			},
		})
	}))
	defer ts.Close()

	types, err := newTestClient(ts).GetEventTypes(context.Background())
	if err != nil {
		t.Fatalf("GetEventTypes error: %v", err)
	}
	if len(types) != 2 || types[0].ID != "201" || types[0].Title != "General Consultation" {
		t.Fatalf("unexpected event types: %+v", types)
	}
}

func TestGetAvailableSlotsSortsAndParses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("eventTypeId"); got != "201" {
			t.Errorf("unexpected eventTypeId %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"2024-03-15": []map[string]any{
					{"start": "2024-03-15T14:30:00+05:30"},
					{"start": "2024-03-15T09:00:00+05:30"},
					{"start": "not-a-time"},
				},
			},
		})
	}))
	defer ts.Close()

	slots, err := newTestClient(ts).GetAvailableSlots(context.Background(), "201", "2024-03-15")
	if err != nil {
		t.Fatalf("GetAvailableSlots error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 parseable slots, got %d", len(slots))
	}
	if !slots[0].Start.Before(slots[1].Start) {
		t.Fatal("expected slots sorted ascending")
	}
	if got := slots[1].Start.Format("3:04 PM"); got != "2:30 PM" {
		t.Fatalf("expected provider-zone rendering 2:30 PM, got %q", got)
	}
}

func TestCreateBookingPassesPayloadAndKeepsOpaqueID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["eventTypeId"] != float64(201) {
			t.Errorf("unexpected eventTypeId %v", body["eventTypeId"])
		}
		metadata, _ := body["metadata"].(map[string]any)
		if metadata["source"] != "website" {
			t.Errorf("expected source tag, got %v", metadata)
		}
		attendee, _ := body["attendee"].(map[string]any)
		if attendee["timeZone"] != "Asia/Kolkata" {
			t.Errorf("unexpected attendee timezone %v", attendee["timeZone"])
		}
		// id large enough to lose precision if parsed as float64
		_, _ = w.Write([]byte(`{"status":"success","data":{"id":9007199254740993,"uid":"abc","status":"accepted"}}`))
	}))
	defer ts.Close()

	start := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	res, err := newTestClient(ts).CreateBooking(context.Background(), CreateBookingRequest{
		EventTypeID: "201",
		Start:       start,
		Attendee: Attendee{
			Name:     "Asha Rao",
			Email:    "asha@example.com",
			TimeZone: "Asia/Kolkata",
		},
	})
	if err != nil {
		t.Fatalf("CreateBooking error: %v", err)
	}
	if res.ID != "9007199254740993" {
		t.Fatalf("expected opaque id pass-through, got %q", res.ID)
	}
}

func TestCreateBookingSurfacesProviderMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"status":"error","error":{"message":"slot no longer available"}}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).CreateBooking(context.Background(), CreateBookingRequest{
		EventTypeID: "201",
		Start:       time.Now(),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "slot no longer available") {
		t.Fatalf("expected provider message, got %v", err)
	}
}

func TestCreateBookingSynthesizesMessageFromStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).CreateBooking(context.Background(), CreateBookingRequest{
		EventTypeID: "201",
		Start:       time.Now(),
	})
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("expected synthesized status message, got %v", err)
	}
}

func TestClientDisabledWithoutKey(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://localhost:0"}, nil, nil)
	if c.Enabled() {
		t.Fatal("expected client disabled without key")
	}
	if _, err := c.GetEventTypes(context.Background()); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
