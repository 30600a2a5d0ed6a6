package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// staticTokens is a tokenProvider that always returns the same token.
type staticTokens string

func (s staticTokens) authenticate(context.Context) (string, error) {
	return string(s), nil
}

func assertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Fatalf("Want: %v, but got: %v", want, got)
	}
}

func assertNilError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// JSONError writes an HTTP error code and a JSON structured error body to an HTTP response.
func JSONError(w http.ResponseWriter, err interface{}, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(err)
}

// writeJSON writes v as the JSON response body.
func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// newTestZoomService starts a mock Zoom API with handler and returns an authenticated service pointed at it.
func newTestZoomService(t *testing.T, handler http.HandlerFunc) *zoomService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	zsvc := NewZoomService(ZoomOptions{
		BaseAPIOverride: srv.URL,
		Client:          srv.Client(),
		Tokens:          staticTokens("fake_access_token"),
	})
	if err := zsvc.authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	return zsvc
}
