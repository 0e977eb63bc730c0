package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"apnastay/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "text", Service: "test"})
}

func TestForward(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "tok" {
			t.Errorf("missing access token, got query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[{"center":[73.8567,18.5204]}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", testLogger())

	geo := c.Forward(context.Background(), "Pune", "India")
	if geo.Type != "Point" {
		t.Errorf("type = %q, want Point", geo.Type)
	}
	if geo.Coordinates[0] != 73.8567 || geo.Coordinates[1] != 18.5204 {
		t.Errorf("coordinates = %v", geo.Coordinates)
	}
}

func TestForwardFallsBackOnEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", testLogger())

	geo := c.Forward(context.Background(), "Nowhere", "Atlantis")
	if geo.Coordinates[0] != DefaultCoordinates[0] || geo.Coordinates[1] != DefaultCoordinates[1] {
		t.Errorf("coordinates = %v, want default %v", geo.Coordinates, DefaultCoordinates)
	}
}

func TestForwardFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token", testLogger())

	geo := c.Forward(context.Background(), "Pune", "India")
	if geo.Coordinates[0] != DefaultCoordinates[0] {
		t.Errorf("coordinates = %v, want default", geo.Coordinates)
	}
}
