// Command seedorders generates sample placed-order events for local
// development. It uses the actual order payload shape consumed by the
// enrichment worker, and either writes the orders as a JSON fixture or
// publishes them straight to the source topic.
//
// Usage:
//
//	go run ./cmd/seedorders -count 12 -out internal/pipeline/testdata/placed_orders.json
//	go run ./cmd/seedorders -count 200 -brokers localhost:9092 -topic placed-orders
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kebabish-pizza/geocoding-service/internal/order"
)

type branch struct {
	id  string
	lat float64
	lon float64
}

var branches = []branch{
	{id: "br-gulberg", lat: 31.5102, lon: 74.3441},
	{id: "br-dha", lat: 31.4697, lon: 74.4108},
	{id: "br-johar-town", lat: 31.4676, lon: 74.2728},
	{id: "br-model-town", lat: 31.4811, lon: 74.3247},
}

var goodAddresses = []string{
	"Kalma Chowk, Lahore",
	"Liberty Market, Gulberg III, Lahore",
	"1-C Commercial Area, DHA Phase 5, Lahore",
	"House 7, Street 3, Johar Town, Lahore",
	"Packages Mall, Walton Road, Lahore",
	"Fortress Stadium, Lahore Cantt",
	"MM Alam Road, Gulberg, Lahore",
	"Shop 12, Model Town Link Road, Lahore",
	"Main Boulevard, Faisal Town, Lahore",
	"Emporium Mall, Abdul Haque Road, Lahore",
}

// badAddresses produce not_found or invalid_address outcomes, so seeded
// runs exercise every enrichment branch.
var badAddresses = []string{
	"Plot 44, Ghost Colony, Atlantis",
	"Old Ferry Wharf, Nowhere Bay",
	"abc",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	count := flag.Int("count", 20, "number of orders to generate")
	out := flag.String("out", "", "output path for a JSON fixture")
	brokers := flag.String("brokers", "", "comma-separated Kafka brokers to publish to")
	topic := flag.String("topic", "placed-orders", "topic to publish orders to")
	seed := flag.Int64("seed", 1, "random seed, fixed by default for reproducible fixtures")
	flag.Parse()

	if (*out == "") == (*brokers == "") {
		flag.Usage()
		return fmt.Errorf("exactly one of -out or -brokers is required")
	}
	if *count <= 0 {
		return fmt.Errorf("-count must be positive")
	}

	orders := generate(*count, rand.New(rand.NewSource(*seed)))

	if *out != "" {
		if err := writeFixture(*out, orders); err != nil {
			return fmt.Errorf("writing fixture: %w", err)
		}
		log.Printf("wrote %d orders to %s", len(orders), *out)
		return nil
	}

	if err := publish(strings.Split(*brokers, ","), *topic, orders); err != nil {
		return fmt.Errorf("publishing orders: %w", err)
	}
	log.Printf("published %d orders to %s", len(orders), *topic)
	return nil
}

func generate(count int, rng *rand.Rand) []order.RawOrder {
	orders := make([]order.RawOrder, 0, count)
	for i := 0; i < count; i++ {
		b := branches[rng.Intn(len(branches))]

		// Roughly one in six orders carries a problem address.
		address := goodAddresses[rng.Intn(len(goodAddresses))]
		if rng.Intn(6) == 0 {
			address = badAddresses[rng.Intn(len(badAddresses))]
		}

		orders = append(orders, order.RawOrder{
			OrderID:   fmt.Sprintf("ord-%04d", i+1),
			Address:   address,
			BranchID:  b.id,
			BranchLat: b.lat,
			BranchLon: b.lon,
		})
	}
	return orders
}

func writeFixture(path string, orders []order.RawOrder) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func publish(brokers []string, topic string, orders []order.RawOrder) error {
	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafkago.LeastBytes{},
	}
	defer writer.Close()

	msgs := make([]kafkago.Message, 0, len(orders))
	for _, o := range orders {
		payload, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("marshal order %s: %w", o.OrderID, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(o.OrderID),
			Value: payload,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return writer.WriteMessages(ctx, msgs...)
}
