package order

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebabish-pizza/geocoding-service/internal/geocode"
)

// --- mock resolver ---

type mockResolver struct {
	result *geocode.GeocodingResult
	calls  int
}

func (m *mockResolver) Geocode(_ context.Context, _ string) *geocode.GeocodingResult {
	m.calls++
	return m.result
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestEnrichWithLocation_NilResolver(t *testing.T) {
	o := Order{OrderID: "ord-1", Address: "123 Main Street, Lahore"}

	result := EnrichWithLocation(context.Background(), o, nil, discardLogger())

	assert.Empty(t, result.GeoStatus)
	assert.True(t, result.ProcessedAt.IsZero())
}

func TestEnrichWithLocation_Resolved(t *testing.T) {
	fixedTime := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	resolver := &mockResolver{
		result: &geocode.GeocodingResult{
			Latitude:    31.5204,
			Longitude:   74.3587,
			DisplayName: "Main Street, Lahore, Pakistan",
		},
	}
	o := Order{
		OrderID:   "ord-1",
		Address:   "123 Main Street, Lahore",
		BranchID:  "br-7",
		BranchLat: 31.4704,
		BranchLon: 74.2432,
	}

	result := EnrichWithLocation(context.Background(), o, resolver, discardLogger())

	assert.Equal(t, GeoStatusResolved, result.GeoStatus)
	assert.Equal(t, 31.5204, result.Latitude)
	assert.Equal(t, 74.3587, result.Longitude)
	assert.Equal(t, "Main Street, Lahore, Pakistan", result.DisplayName)
	assert.Equal(t, fixedTime, result.ProcessedAt)
	assert.Equal(t, 1, resolver.calls)

	// Distance to branch matches the calculator directly.
	assert.Equal(t, geocode.Distance(31.5204, 74.3587, 31.4704, 74.2432), result.DistanceKm)
	assert.Greater(t, result.DistanceKm, 0.0)
}

func TestEnrichWithLocation_InvalidAddressSkipsResolver(t *testing.T) {
	resolver := &mockResolver{result: &geocode.GeocodingResult{Latitude: 1}}

	tests := []struct {
		name    string
		address string
	}{
		{"empty address", ""},
		{"too short", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Order{OrderID: "ord-1", Address: tt.address}
			result := EnrichWithLocation(context.Background(), o, resolver, discardLogger())

			assert.Equal(t, GeoStatusInvalidAddress, result.GeoStatus)
			assert.Equal(t, 0.0, result.Latitude)
		})
	}
	assert.Equal(t, 0, resolver.calls, "invalid addresses must never reach the resolver")
}

func TestEnrichWithLocation_NotFound(t *testing.T) {
	resolver := &mockResolver{} // resolver returns nil
	o := Order{OrderID: "ord-1", Address: "no such place 12345"}

	result := EnrichWithLocation(context.Background(), o, resolver, discardLogger())

	assert.Equal(t, GeoStatusNotFound, result.GeoStatus)
	assert.Equal(t, 0.0, result.Latitude)
	assert.Equal(t, 0.0, result.DistanceKm)
}

func TestEnrichWithLocation_CancelledContextMarksFailed(t *testing.T) {
	resolver := &mockResolver{}
	o := Order{OrderID: "ord-1", Address: "123 Main Street, Lahore"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := EnrichWithLocation(ctx, o, resolver, discardLogger())

	assert.Equal(t, GeoStatusFailed, result.GeoStatus)
}

func TestEnrichWithLocation_NoBranchCoordinates(t *testing.T) {
	resolver := &mockResolver{
		result: &geocode.GeocodingResult{Latitude: 31.5204, Longitude: 74.3587},
	}
	o := Order{OrderID: "ord-1", Address: "123 Main Street, Lahore"}

	result := EnrichWithLocation(context.Background(), o, resolver, discardLogger())

	require.Equal(t, GeoStatusResolved, result.GeoStatus)
	assert.Equal(t, 0.0, result.DistanceKm, "no branch coordinates, no distance")
}
