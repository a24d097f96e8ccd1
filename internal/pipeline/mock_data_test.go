package pipeline_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebabish-pizza/geocoding-service/internal/geocode"
	"github.com/kebabish-pizza/geocoding-service/internal/order"
	"github.com/kebabish-pizza/geocoding-service/internal/pipeline"
)

// fixtureResolver stands in for Nominatim when replaying the placed-orders
// fixture: any address mentioning Lahore resolves to a fixed point.
type fixtureResolver struct{}

func (fixtureResolver) Geocode(_ context.Context, address string) *geocode.GeocodingResult {
	if !strings.Contains(strings.ToLower(address), "lahore") {
		return nil
	}
	return &geocode.GeocodingResult{
		Latitude:    31.5204,
		Longitude:   74.3587,
		DisplayName: "Lahore, Punjab, Pakistan",
	}
}

func readPlacedOrders(t *testing.T) []order.RawOrder {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "placed_orders.json"))
	require.NoError(t, err)

	var orders []order.RawOrder
	require.NoError(t, json.Unmarshal(data, &orders))
	return orders
}

// expectedStatus mirrors the enrichment rules: validation first, then the
// resolver verdict.
func expectedStatus(address string) string {
	if v := geocode.ValidateAddress(address); !v.Valid {
		return order.GeoStatusInvalidAddress
	}
	if strings.Contains(strings.ToLower(address), "lahore") {
		return order.GeoStatusResolved
	}
	return order.GeoStatusNotFound
}

func TestOrderEnricher_WithFixtureOrders(t *testing.T) {
	enr := pipeline.NewOrderEnricher(fixtureResolver{}, slog.Default())
	orders := readPlacedOrders(t)
	require.Len(t, orders, 12)

	statusCounts := map[string]int{}
	for _, placed := range orders {
		payload, err := json.Marshal(placed)
		require.NoError(t, err)

		out, err := enr.Enrich(context.Background(), order.RawEvent{
			Key:   []byte(placed.OrderID),
			Value: payload,
			Topic: "placed-orders",
		})
		require.NoError(t, err, "order %s", placed.OrderID)

		want := expectedStatus(placed.Address)
		assert.Equal(t, []byte(placed.OrderID), out.Key)
		assert.Equal(t, want, out.Headers["geo_status"], "order %s", placed.OrderID)
		assert.NotEmpty(t, out.Headers["processed_at"])

		var enriched order.Order
		require.NoError(t, json.Unmarshal(out.Value, &enriched))
		assert.Equal(t, placed.OrderID, enriched.OrderID)
		assert.Equal(t, want, enriched.GeoStatus)
		statusCounts[enriched.GeoStatus]++

		if want == order.GeoStatusResolved {
			assert.Equal(t, 31.5204, enriched.Latitude)
			assert.Equal(t, 74.3587, enriched.Longitude)
			assert.Greater(t, enriched.DistanceKm, 0.0, "order %s", placed.OrderID)
		} else {
			assert.Zero(t, enriched.Latitude)
			assert.Zero(t, enriched.Longitude)
			assert.Zero(t, enriched.DistanceKm)
		}
	}

	assert.Equal(t, 8, statusCounts[order.GeoStatusResolved])
	assert.Equal(t, 2, statusCounts[order.GeoStatusNotFound])
	assert.Equal(t, 2, statusCounts[order.GeoStatusInvalidAddress])
}
