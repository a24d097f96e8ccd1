package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// maxBatchSize bounds how many messages a single worker batch may carry.
const maxBatchSize = 1000

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Nominatim provider configuration.
	NominatimBaseURL   string
	NominatimUserAgent string
	NominatimTimeout   time.Duration
	NominatimRateLimit float64 // courtesy limit toward the provider, requests per second

	// Resolver cache and per-address rate limit.
	GeocodeCacheSize    int
	GeocodeCacheTTL     time.Duration
	GeocodeMaxPerWindow int
	GeocodeWindow       time.Duration

	// Order-enrichment worker, active only when KafkaEnabled.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration

	// Geocoding stats sink, active only when StatsEnabled.
	StatsEnabled        bool
	StatsRedisAddr      string
	StatsRedisPassword  string
	StatsRedisDB        int
	StatsPrefix         string
	StatsTTL            time.Duration
	StatsTrackAddresses bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	nominatimTimeout, err := parsePositiveDuration("NOMINATIM_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	nominatimRate, err := parsePositiveFloat("NOMINATIM_RATE_LIMIT", 1)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("GEOCODE_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}
	window, err := parsePositiveDuration("GEOCODE_WINDOW", "60s")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 500)
	if err != nil {
		return nil, err
	}
	maxPerWindow, err := parsePositiveInt("GEOCODE_MAX_PER_WINDOW", 10)
	if err != nil {
		return nil, err
	}
	batchSize, err := parseBoundedInt("BATCH_SIZE", 50, maxBatchSize)
	if err != nil {
		return nil, err
	}
	flushInterval, err := parsePositiveDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}
	statsTTL, err := parsePositiveDuration("STATS_TTL", "24h")
	if err != nil {
		return nil, err
	}
	statsRedisDB, err := parseNonNegativeInt("STATS_REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NominatimBaseURL:   envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: envOrDefault("NOMINATIM_USER_AGENT", "Kebabish-Pizza-App/1.0"),
		NominatimTimeout:   nominatimTimeout,
		NominatimRateLimit: nominatimRate,

		GeocodeCacheSize:    cacheSize,
		GeocodeCacheTTL:     cacheTTL,
		GeocodeMaxPerWindow: maxPerWindow,
		GeocodeWindow:       window,

		KafkaEnabled:       envBool("KAFKA_ENABLED", false),
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "placed-orders"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "geocoded-orders"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "geocoding-service"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		StatsEnabled:        envBool("STATS_ENABLED", false),
		StatsRedisAddr:      envOrDefault("STATS_REDIS_ADDR", "localhost:6379"),
		StatsRedisPassword:  os.Getenv("STATS_REDIS_PASSWORD"),
		StatsRedisDB:        statsRedisDB,
		StatsPrefix:         envOrDefault("STATS_PREFIX", "geocode:stats"),
		StatsTTL:            statsTTL,
		StatsTrackAddresses: envBool("STATS_TRACK_ADDRESSES", false),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "true"
}

func parseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parsePositiveFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return f, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseBoundedInt(key string, def, max int) (int, error) {
	n, err := parsePositiveInt(key, def)
	if err != nil || n > max {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}
