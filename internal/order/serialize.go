package order

import (
	"encoding/json"
	"fmt"
	"time"
)

// Serialize converts an enriched Order into its sink-topic form. The
// message is keyed by order ID so all events for one order land on the
// same partition; headers let consumers route on geocoding outcome
// without deserializing the payload.
func Serialize(o Order) (OutputEvent, error) {
	value, err := json.Marshal(o)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize order %s: %w", o.OrderID, err)
	}

	headers := map[string]string{
		"geo_status": o.GeoStatus,
	}
	if !o.ProcessedAt.IsZero() {
		headers["processed_at"] = o.ProcessedAt.UTC().Format(time.RFC3339)
	}

	return OutputEvent{
		Key:     []byte(o.OrderID),
		Value:   value,
		Headers: headers,
	}, nil
}
