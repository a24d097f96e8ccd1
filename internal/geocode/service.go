package geocode

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kebabish-pizza/geocoding-service/internal/observability"
	"github.com/kebabish-pizza/geocoding-service/internal/stats"
)

const (
	defaultCacheEntries = 500
	defaultCacheTTL     = 24 * time.Hour
	defaultMaxPerWindow = 10
	defaultWindow       = 60 * time.Second
)

// Service resolves free-text addresses to coordinates through a Provider,
// backed by a bounded result cache and a per-address rate limiter. One
// Service instance is constructed at startup and shared; all state lives on
// the instance, never in package globals.
type Service struct {
	provider Provider
	logger   *slog.Logger
	metrics  *observability.Metrics
	recorder stats.Recorder
	clock    clockwork.Clock

	cacheEntries int
	cacheTTL     time.Duration
	maxPerWindow int
	window       time.Duration

	cache   *resultCache
	limiter *addressLimiter
}

// Option configures a Service.
type Option func(*Service)

// WithCacheSize bounds the result cache to n entries.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheEntries = n
		}
	}
}

// WithCacheTTL sets how long a cached outcome stays fresh.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithRateLimit sets the per-address lookup quota and its window.
func WithRateLimit(maxLookups int, window time.Duration) Option {
	return func(s *Service) {
		if maxLookups > 0 {
			s.maxPerWindow = maxLookups
		}
		if window > 0 {
			s.window = window
		}
	}
}

// WithStats attaches a best-effort analytics sink for lookup outcomes.
func WithStats(r stats.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock substitutes the clock used for cache expiry and rate-limit
// windows. Tests use a fake clock; production uses the default real one.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService creates a resolver around the given provider.
func NewService(provider Provider, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		provider:     provider,
		logger:       logger,
		metrics:      metrics,
		recorder:     stats.Noop{},
		clock:        clockwork.NewRealClock(),
		cacheEntries: defaultCacheEntries,
		cacheTTL:     defaultCacheTTL,
		maxPerWindow: defaultMaxPerWindow,
		window:       defaultWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = newResultCache(s.cacheEntries, s.cacheTTL, s.clock)
	s.limiter = newAddressLimiter(s.maxPerWindow, s.window, s.clock)
	return s
}

// Geocode resolves an address to coordinates, or nil when it cannot.
//
// The address is normalized (trimmed, lower-cased) for the cache and
// rate-limit keys, so inputs differing only by case or whitespace share one
// entry. A fresh cache hit is returned immediately, including a cached
// not-found, without touching the limiter or the network. A rate-limited
// address returns nil without a provider call; the refusal itself is not
// cached or counted. Provider errors return nil and are not cached, so the
// next call retries. An empty provider response is cached as a not-found.
// Only a completed round trip with a match increments the rate-limit
// counter.
//
// Geocode never fails loudly: rate-limited, not-found, and transient
// provider errors all collapse to a nil return plus a log line.
func (s *Service) Geocode(ctx context.Context, address string) *GeocodingResult {
	key := normalizeAddress(address)

	if cached, ok := s.cache.get(key); ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		if cached == nil {
			s.finish(ctx, observability.OutcomeNotFound, true, key)
			return nil
		}
		s.finish(ctx, observability.OutcomeResolved, true, key)
		out := *cached
		return &out
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	if !s.limiter.allow(key) {
		s.logger.Warn("geocoding rate limit exceeded", "address", key)
		s.finish(ctx, observability.OutcomeRateLimited, false, key)
		return nil
	}

	start := s.clock.Now()
	result, err := s.provider.Search(ctx, address)
	s.metrics.ProviderDuration.Observe(s.clock.Since(start).Seconds())
	if err != nil {
		s.logger.Error("geocoding lookup failed", "address", key, "error", err)
		s.metrics.ProviderRequests.WithLabelValues("error").Inc()
		s.finish(ctx, observability.OutcomeError, false, key)
		return nil
	}

	if result == nil {
		s.logger.Warn("no geocoding results", "address", key)
		s.metrics.ProviderRequests.WithLabelValues("empty").Inc()
		s.cache.put(key, nil)
		s.metrics.CacheEntries.Set(float64(s.cache.len()))
		s.finish(ctx, observability.OutcomeNotFound, false, key)
		return nil
	}

	s.metrics.ProviderRequests.WithLabelValues("success").Inc()
	cached := *result
	s.cache.put(key, &cached)
	s.metrics.CacheEntries.Set(float64(s.cache.len()))
	s.limiter.increment(key)
	s.finish(ctx, observability.OutcomeResolved, false, key)
	return result
}

// finish counts the lookup outcome and forwards it to the stats sink.
// Sink failures are logged at debug and otherwise ignored.
func (s *Service) finish(ctx context.Context, outcome string, cacheHit bool, key string) {
	s.metrics.Lookups.WithLabelValues(outcome).Inc()
	ev := stats.Event{
		Outcome:  outcome,
		CacheHit: cacheHit,
		Address:  key,
		At:       s.clock.Now(),
	}
	if err := s.recorder.Record(ctx, ev); err != nil {
		s.logger.Debug("stats record failed", "error", err)
	}
}
