package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
)

type staticConfig struct {
	baseURL string
}

func (c staticConfig) GetAPIBaseURL() string          { return c.baseURL }
func (c staticConfig) GetHTTPTimeout() time.Duration  { return 5 * time.Second }
func (c staticConfig) GetRateLimitPerSecond() float64 { return 100 }
func (c staticConfig) GetRateLimitBurst() int         { return 100 }

type staticToken string

func (t staticToken) BearerToken(context.Context) string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(staticConfig{baseURL: srv.URL}, staticToken(token), logger.New("development"))
}

func TestGetAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}, "tok-123")

	var out struct {
		OK bool `json:"ok"`
	}
	if err := client.Get(context.Background(), "/ping", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected decoded response")
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestAnonymousCallOmitsAuthorization(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}, "")

	if err := client.Get(context.Background(), "/ping", nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestNonOKMapsToTypedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"appointment not found"}`))
	}, "tok")

	err := client.Get(context.Background(), "/lawyers/appointments/a1", nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
	var appErr *apperr.Error
	if ok := errors.As(err, &appErr); !ok || appErr.Message != "appointment not found" {
		t.Fatalf("expected backend message preserved, got %v", err)
	}
}

func TestMessageEnvelopeSpelling(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"already booked"}`))
	}, "tok")

	err := client.Post(context.Background(), "/lawyers/appointments", map[string]string{}, nil)
	var appErr *apperr.Error
	if ok := errors.As(err, &appErr); !ok || appErr.Message != "already booked" {
		t.Fatalf("expected message envelope accepted, got %v", err)
	}
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict kind, got %v", err)
	}
}

func TestUnreachableBackendIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewClient(staticConfig{baseURL: srv.URL}, staticToken(""), logger.New("development"))

	err := client.Get(context.Background(), "/ping", nil)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable kind, got %v", err)
	}
}

func TestPathEscapesSegments(t *testing.T) {
	got := Path("lawyers", "appointments", "id with/slash")
	want := "/lawyers/appointments/id%20with%2Fslash"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
