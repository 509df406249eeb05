// Package geocode contains a minimal client for the Google Maps reverse
// geocoding API plus the static-map URL builder used in outbound raid posts.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/onnwee/raid-herald/telemetry"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

	// FallbackLabel is used whenever reverse geocoding cannot produce a
	// short place description. The posted link still targets the raw
	// coordinates either way.
	FallbackLabel = "Open in Google Maps"

	defaultTimeout = 5 * time.Second
)

// Client issues reverse-geocode lookups. One attempt, no retry: a failed
// lookup degrades to FallbackLabel immediately.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func (c *Client) http() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) base() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return defaultBaseURL
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

// ReverseGeocode resolves a "lat,lng" pair to the first result's formatted
// address.
func (c *Client) ReverseGeocode(ctx context.Context, latlng string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base(), nil)
	if err != nil {
		return "", err
	}
	q := req.URL.Query()
	q.Set("key", c.APIKey)
	q.Set("latlng", latlng)
	req.URL.RawQuery = q.Encode()

	resp, err := c.http().Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode api status %d", resp.StatusCode)
	}

	var body struct {
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode geocode response: %w", err)
	}
	if len(body.Results) == 0 {
		return "", fmt.Errorf("no geocode results for %s", latlng)
	}
	return body.Results[0].FormattedAddress, nil
}

// LinkLabel returns the short "Map: <street>,<locality>" label for a
// coordinate pair, keeping only the first two address components and
// abbreviating "Township". Any failure is logged, counted, and recovered
// with FallbackLabel; this never returns an error to the caller.
func (c *Client) LinkLabel(ctx context.Context, latlng string) string {
	addr, err := c.ReverseGeocode(ctx, latlng)
	if err != nil {
		slog.Warn("reverse geocoding failed", slog.String("latlng", latlng), slog.Any("err", err))
		telemetry.CountGeocodeFallback()
		return FallbackLabel
	}
	parts := strings.Split(addr, ",")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	label := strings.Replace(strings.Join(parts, ","), "Township", "Twp", 1)
	return "Map: " + label
}

// StaticMapURL builds the static roadmap image URL centered on a "lat,lng"
// pair, with a single red marker on it.
func StaticMapURL(latlng, apiKey string) string {
	return fmt.Sprintf("https://maps.googleapis.com/maps/api/staticmap?center=%s&zoom=15&scale=1&size=600x600&maptype=roadmap&key=%s&format=png&markers=size:mid%%7Ccolor:0xff0000%%7Clabel:%%7C%s",
		latlng, apiKey, latlng)
}
