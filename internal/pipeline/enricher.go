package pipeline

import (
	"context"
	"log/slog"

	"github.com/kebabish-pizza/geocoding-service/internal/order"
)

// OrderEnricher implements Enricher: it parses a raw checkout event,
// geocodes the delivery address, and serializes the result for the sink
// topic. Orders whose addresses cannot be resolved still flow through
// with their GeoStatus recording why; only unparseable payloads error
// out and get skipped by the worker.
type OrderEnricher struct {
	resolver order.Geocoder
	logger   *slog.Logger
}

// NewOrderEnricher creates the enrichment stage around a resolver.
func NewOrderEnricher(resolver order.Geocoder, logger *slog.Logger) *OrderEnricher {
	return &OrderEnricher{
		resolver: resolver,
		logger:   logger,
	}
}

// Enrich converts one raw order event into its enriched output form.
func (e *OrderEnricher) Enrich(ctx context.Context, raw order.RawEvent) (order.OutputEvent, error) {
	o, err := order.ParseRawOrder(raw)
	if err != nil {
		return order.OutputEvent{}, err
	}

	o = order.EnrichWithLocation(ctx, o, e.resolver, e.logger)

	return order.Serialize(o)
}
