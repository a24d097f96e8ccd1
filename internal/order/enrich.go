package order

import (
	"context"
	"log/slog"

	"github.com/kebabish-pizza/geocoding-service/internal/geocode"
)

// Geocoder resolves a free-text address to coordinates, or nil when it
// cannot (rate-limited, no match, or provider failure).
type Geocoder interface {
	Geocode(ctx context.Context, address string) *geocode.GeocodingResult
}

// EnrichWithLocation attempts to geocode an order's delivery address and
// compute the distance to its branch. The resolver does not validate
// input, so the address passes through the validator gate first. Orders
// that cannot be enriched keep flowing with GeoStatus recording why; if
// resolver is nil the order is returned unchanged.
func EnrichWithLocation(ctx context.Context, o Order, resolver Geocoder, logger *slog.Logger) Order {
	if resolver == nil {
		return o
	}
	o.ProcessedAt = clock.Now()

	if v := geocode.ValidateAddress(o.Address); !v.Valid {
		logger.Warn("order address invalid",
			"order_id", o.OrderID,
			"reason", v.Error,
		)
		o.GeoStatus = GeoStatusInvalidAddress
		return o
	}

	result := resolver.Geocode(ctx, o.Address)
	if result == nil {
		// The resolver collapses not-found, rate-limited, and provider
		// failures to nil. A cancelled context is the one case we can
		// still tell apart: the lookup never completed.
		if ctx.Err() != nil {
			o.GeoStatus = GeoStatusFailed
			return o
		}
		logger.Warn("order address unresolved", "order_id", o.OrderID)
		o.GeoStatus = GeoStatusNotFound
		return o
	}

	o.Latitude = result.Latitude
	o.Longitude = result.Longitude
	o.DisplayName = result.DisplayName
	o.GeoStatus = GeoStatusResolved

	if o.BranchLat != 0 || o.BranchLon != 0 {
		o.DistanceKm = geocode.Distance(o.Latitude, o.Longitude, o.BranchLat, o.BranchLon)
	}

	return o
}
