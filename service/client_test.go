package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type fixedToken string

func (f fixedToken) Token() string { return string(f) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.Client())
	client.baseURL = server.URL + "/api"
	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestGetJSON_Non2xxReturnsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	var out map[string]any
	err := client.getJSON(context.Background(), "/fail", nil, &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetJSON_DoesNotRetryServerErrors(t *testing.T) {
	var attempts int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("retry later"))
	})

	var out map[string]any
	if err := client.getJSON(context.Background(), "/flaky", nil, &out); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_UnwrapsEnvelopeData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"message":"ok","data":{"genres":["Drama","Terror"]}}`)
	})

	genres, err := client.ListGenres(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(genres) != 2 || genres[0] != "Drama" {
		t.Fatalf("unexpected genres: %+v", genres)
	}
}

func TestDo_UnsuccessfulEnvelopeKeepsServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false,"message":"La función ya no está disponible"}`)
	})

	_, err := client.ListGenres(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := UserMessage(err); got != "La función ya no está disponible" {
		t.Fatalf("expected verbatim server message, got %q", got)
	}
}

func TestDo_ErrorBodyMessageExtracted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, `{"success":false,"error":"Asiento B4 ya reservado"}`)
	})

	_, err := client.ListGenres(context.Background())
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := UserMessage(err); got != "Asiento B4 ya reservado" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestDo_SendsBearerTokenAndRequestID(t *testing.T) {
	var auth, requestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"genres":[]}}`)
	})
	client.SetTokenSource(fixedToken("abc"))

	if _, err := client.ListGenres(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if auth != "Bearer abc" {
		t.Fatalf("unexpected authorization header %q", auth)
	}
	if requestID == "" {
		t.Fatal("expected a request id header")
	}
}

func TestDo_UnauthorizedFiresHandler(t *testing.T) {
	var fired int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"message":"Token inválido"}`)
	})
	client.SetUnauthorizedHandler(func() { atomic.AddInt32(&fired, 1) })

	_, err := client.ListBookings(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatal("expected error to wrap ErrUnauthorized")
	}
	if fired != 1 {
		t.Fatalf("expected handler to fire once, got %d", fired)
	}
}

func TestProfile_DoesNotFireUnauthorizedHandler(t *testing.T) {
	var fired int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"message":"expired"}`)
	})
	client.SetUnauthorizedHandler(func() { atomic.AddInt32(&fired, 1) })

	if _, err := client.Profile(context.Background(), "stale"); !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if fired != 0 {
		t.Fatalf("expected probe to leave handler alone, fired %d", fired)
	}
}

func TestUserMessage_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(server.Client(), WithBaseURL(server.URL+"/api"))
	server.Close()

	_, err := client.ListGenres(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected unreachable error, got %v", err)
	}
	if got := UserMessage(err); !strings.Contains(got, "cannot reach") {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestServerURL_StripsAPISuffix(t *testing.T) {
	client := NewClient(nil, WithBaseURL("https://cine.example.com/api/"))
	if got := client.ServerURL(); got != "https://cine.example.com" {
		t.Fatalf("unexpected server url %q", got)
	}
}
