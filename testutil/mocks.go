// Package testutil provides shared HTTP mocks for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// MockGeocodeServer creates a test server that mocks Google geocode API
// responses.
type MockGeocodeServer struct {
	*httptest.Server
	Handlers map[string]http.HandlerFunc
}

// NewMockGeocodeServer creates a new mock geocode API server
func NewMockGeocodeServer(t *testing.T) *MockGeocodeServer {
	t.Helper()
	m := &MockGeocodeServer{
		Handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if handler, ok := m.Handlers[key]; ok {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(m.Close)
	return m
}

// MockReverseResponse adds a handler returning the given formatted addresses
// for the geocode endpoint.
func (m *MockGeocodeServer) MockReverseResponse(addresses ...string) {
	m.Handlers["/maps/api/geocode/json"] = func(w http.ResponseWriter, r *http.Request) {
		results := make([]map[string]string, 0, len(addresses))
		for _, a := range addresses {
			results = append(results, map[string]string{"formatted_address": a})
		}
		response := map[string]interface{}{
			"results": results,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // test mock response
	}
}

// MockReverseFailure makes the geocode endpoint return the given status with
// an empty body.
func (m *MockGeocodeServer) MockReverseFailure(status int) {
	m.Handlers["/maps/api/geocode/json"] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}
