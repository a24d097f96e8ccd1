package geocode

import (
	"context"
	"strings"
)

// GeocodingResult contains the location a provider resolved for an address.
type GeocodingResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// Provider performs a forward lookup against an external geocoding API.
type Provider interface {
	// Search resolves a free-text address to its best candidate match.
	// A nil result with a nil error means the provider answered but found
	// no match; an error means the lookup itself failed.
	Search(ctx context.Context, address string) (*GeocodingResult, error)
}

// normalizeAddress produces the canonical cache and rate-limit key for a raw
// address: trimmed and lower-cased, so inputs differing only by case or
// surrounding whitespace share one entry.
func normalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
