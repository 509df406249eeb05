package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/onnwee/raid-herald/testutil"
)

func TestLinkLabelSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}
		if got := r.URL.Query().Get("latlng"); got != "40.0,-75.0" {
			t.Errorf("latlng = %q, want 40.0,-75.0", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]string{
				{"formatted_address": "123 Main St, Springfield Township, IL, USA"},
			},
		})
	}))
	defer server.Close()

	c := &Client{APIKey: "test-key", BaseURL: server.URL}
	got := c.LinkLabel(context.Background(), "40.0,-75.0")
	want := "Map: 123 Main St,Springfield Twp"
	if got != want {
		t.Errorf("LinkLabel() = %q, want %q", got, want)
	}
}

func TestLinkLabelFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "empty result set",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]string{}})
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "not json")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c := &Client{APIKey: "test-key", BaseURL: server.URL}
			if got := c.LinkLabel(context.Background(), "40.0,-75.0"); got != FallbackLabel {
				t.Errorf("LinkLabel() = %q, want %q", got, FallbackLabel)
			}
		})
	}
}

func TestLinkLabelTransportFailure(t *testing.T) {
	// Point at a closed server so the request itself fails.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := &Client{APIKey: "test-key", BaseURL: server.URL}
	if got := c.LinkLabel(context.Background(), "40.0,-75.0"); got != FallbackLabel {
		t.Errorf("LinkLabel() = %q, want %q", got, FallbackLabel)
	}
}

func TestLinkLabelShortAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]string{{"formatted_address": "Lone Place"}},
		})
	}))
	defer server.Close()

	c := &Client{APIKey: "test-key", BaseURL: server.URL}
	if got := c.LinkLabel(context.Background(), "1.0,2.0"); got != "Map: Lone Place" {
		t.Errorf("LinkLabel() = %q, want %q", got, "Map: Lone Place")
	}
}

func TestReverseGeocodeWithMock(t *testing.T) {
	mock := testutil.NewMockGeocodeServer(t)
	mock.MockReverseResponse("5 Market Sq, Dover, DE, USA", "Dover, DE, USA")

	c := &Client{APIKey: "test-key", BaseURL: mock.URL + "/maps/api/geocode/json"}
	addr, err := c.ReverseGeocode(context.Background(), "39.1,-75.5")
	if err != nil {
		t.Fatalf("ReverseGeocode: %v", err)
	}
	if addr != "5 Market Sq, Dover, DE, USA" {
		t.Errorf("address = %q", addr)
	}

	mock.MockReverseFailure(http.StatusBadGateway)
	if _, err := c.ReverseGeocode(context.Background(), "39.1,-75.5"); err == nil {
		t.Error("expected error on upstream failure")
	}
}

func TestStaticMapURL(t *testing.T) {
	u := StaticMapURL("40.0,-75.0", "k")
	for _, want := range []string{"center=40.0,-75.0", "key=k", "zoom=15", "markers="} {
		if !strings.Contains(u, want) {
			t.Errorf("StaticMapURL missing %q in %q", want, u)
		}
	}
}
