package order

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ParseRawOrder deserializes a RawEvent's value into an Order.
// It expects the flat JSON produced by the checkout flow.
func ParseRawOrder(raw RawEvent) (Order, error) {
	var rec RawOrder
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Order{}, fmt.Errorf("parse raw order: %w", err)
	}
	if rec.OrderID == "" {
		return Order{}, errors.New("raw order missing order_id")
	}

	return Order{
		OrderID:   rec.OrderID,
		Address:   rec.Address,
		BranchID:  rec.BranchID,
		BranchLat: rec.BranchLat,
		BranchLon: rec.BranchLon,

		RawPayload: raw.Value,
	}, nil
}
