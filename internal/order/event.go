// Package order models placed orders flowing through the delivery
// enrichment worker: raw checkout JSON in, geocoded orders with branch
// distance out.
package order

import (
	"context"
	"time"
)

// RawOrder represents the flat JSON published by checkout when an order
// is placed.
type RawOrder struct {
	OrderID   string  `json:"order_id"`
	Address   string  `json:"address"`
	BranchID  string  `json:"branch_id"`
	BranchLat float64 `json:"branch_lat"`
	BranchLon float64 `json:"branch_lon"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// GeoStatus values recorded on enriched orders.
const (
	GeoStatusResolved       = "resolved"
	GeoStatusNotFound       = "not_found"
	GeoStatusInvalidAddress = "invalid_address"
	GeoStatusFailed         = "failed"
)

// Order is the enriched representation destined for delivery tracking.
type Order struct {
	OrderID   string  `json:"order_id"`
	Address   string  `json:"address"`
	BranchID  string  `json:"branch_id,omitempty"`
	BranchLat float64 `json:"branch_lat,omitempty"`
	BranchLon float64 `json:"branch_lon,omitempty"`

	// Geocoding enrichment fields.
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	DistanceKm  float64 `json:"distance_km,omitempty"`
	GeoStatus   string  `json:"geo_status,omitempty"` // "resolved", "not_found", "invalid_address", "failed"

	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
