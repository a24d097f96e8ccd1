// Package geocode resolves free-text delivery addresses to geographic
// coordinates for the Kebabish Pizza ordering and delivery flow.
//
// # Lookup Provider
//
// Addresses resolve against the OpenStreetMap Nominatim search API, consumed
// through the [Provider] interface. The public Nominatim instance has a
// usage policy (identifying User-Agent, at most ~1 request/second); the
// adapter in internal/adapter/nominatim honors it. The provider returns an
// array of candidates; only the first is used.
//
// # Address Normalization
//
// Cache and rate-limit keys are the trimmed, lower-cased form of the raw
// address, so "123 Main St " and "123 MAIN ST" share one entry. The raw
// string, not the normalized form, is what goes to the provider.
//
// # Caching
//
// Lookup outcomes are cached in memory for 24 hours, bounded at 500 entries
// with FIFO insertion-order eviction. A provider response with no candidates
// is cached as an explicit not-found, so a genuinely unresolvable address
// stops generating network traffic. Transient failures (HTTP errors, parse
// errors, timeouts) are never cached and retry on the next call.
//
// # Rate Limiting
//
// Each normalized address may complete at most 10 provider lookups per
// 60-second window. The counter increments only after a completed round trip
// with a match, and its deletion timer is rescheduled from each increment
// rather than from the window's first use, so a steady trickle of lookups
// keeps a counter alive. Refusals are logged and return nil; they are not
// cached and do not touch the counter.
//
// # Failure Policy
//
// [Service.Geocode] never returns an error. Rate-limited, not-found, and
// transient-failure outcomes all collapse to a nil result plus a log line.
// Address geocoding is best-effort enrichment for delivery tracking; nothing
// in checkout may block on it.
//
// # Distance
//
// [Distance] computes great-circle distance with the haversine formula on a
// 6371 km sphere and rounds to exactly two decimal places. Callers display
// the value as-is, so the two-decimal rounding is part of the contract, not
// a formatting choice.
package geocode
