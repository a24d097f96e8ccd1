//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/kebabish-pizza/geocoding-service/internal/adapter/nominatim"
	"github.com/kebabish-pizza/geocoding-service/internal/geocode"
	"github.com/kebabish-pizza/geocoding-service/internal/observability"
)

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// fakeNominatim serves canned search responses: addresses mentioning Kalma
// Chowk resolve, everything else comes back empty.
func fakeNominatim(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := strings.ToLower(r.URL.Query().Get("q"))
		if strings.Contains(q, "kalma chowk") {
			fmt.Fprint(w, `[{"lat": "31.5204", "lon": "74.3587", "display_name": "Kalma Chowk, Lahore, Punjab, Pakistan"}]`)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newResolver(t *testing.T, baseURL string) *geocode.Service {
	t.Helper()

	client := nominatim.NewClient(
		nominatim.WithBaseURL(baseURL),
		nominatim.WithRequestsPerSecond(1000),
		nominatim.WithLogger(discardLogger()),
	)
	return geocode.NewService(client, discardLogger(), observability.NewMetricsForTesting())
}

func orderPayload(t *testing.T, orderID, address string) []byte {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"order_id":   orderID,
		"address":    address,
		"branch_id":  "br-7",
		"branch_lat": 31.4704,
		"branch_lon": 74.2432,
	})
	require.NoError(t, err)
	return payload
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
