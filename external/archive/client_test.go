package archive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/league-auction/internal/platform/logging"
	"github.com/riskibarqy/league-auction/internal/platform/resilience"
)

func TestClientFindReference_DecodesArchivedRegistration(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/registrations/lookup" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("phone"); got != "9876543210" {
			t.Fatalf("expected normalized phone, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer archive-key" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"found":true,"registration":{"full_name":"Ravi Kumar","phone":"9876543210","jersey_number":9,"height_cm":178}}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "archive-key", Logger: logging.NewNop()})
	ref, found, err := client.FindReference(context.Background(), "", "+91 98765-43210")
	if err != nil {
		t.Fatalf("find reference: %v", err)
	}
	if !found || ref.FullName != "Ravi Kumar" || ref.JerseyNumber != 9 || ref.HeightCM != 178 {
		t.Fatalf("unexpected reference: found=%v ref=%+v", found, ref)
	}
	if ref.Source != "archive" {
		t.Fatalf("unexpected source: %q", ref.Source)
	}
}

func TestClientFindReference_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Logger: logging.NewNop()})
	_, found, err := client.FindReference(context.Background(), "nobody@example.com", "")
	if err != nil || found {
		t.Fatalf("expected clean miss, found=%v err=%v", found, err)
	}
}

func TestClientFindReference_BreakerOpensAfterServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
		Logger: logging.NewNop(),
	})

	for range 2 {
		if _, _, err := client.FindReference(context.Background(), "a@b.com", ""); err == nil {
			t.Fatalf("expected server error")
		}
	}
	_, _, err := client.FindReference(context.Background(), "a@b.com", "")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls.Load())
	}
}

func TestClientFindReference_SkipsEmptyContact(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0", Logger: logging.NewNop()})
	if _, found, err := client.FindReference(context.Background(), " ", " "); err != nil || found {
		t.Fatalf("expected no lookup, found=%v err=%v", found, err)
	}
}
