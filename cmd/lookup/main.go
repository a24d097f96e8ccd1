// Command lookup resolves addresses from the command line using the same
// resolver stack as the service: normalization, result cache, per-address
// rate limiting, and the Nominatim courtesy limit.
//
// Usage:
//
//	go run ./cmd/lookup -address "Kalma Chowk, Lahore"
//	go run ./cmd/lookup -file addresses.txt -branch 31.4704,74.2432 -json
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/kebabish-pizza/geocoding-service/internal/adapter/nominatim"
	"github.com/kebabish-pizza/geocoding-service/internal/geocode"
	"github.com/kebabish-pizza/geocoding-service/internal/observability"
)

// lookupResult is the JSON output for a single address. Result stays null
// when the address did not resolve, matching the resolver's semantics.
type lookupResult struct {
	Address    string                   `json:"address"`
	Valid      bool                     `json:"valid"`
	Error      string                   `json:"error,omitempty"`
	Result     *geocode.GeocodingResult `json:"result"`
	DistanceKm *float64                 `json:"distance_km,omitempty"`
}

func main() {
	address := flag.String("address", "", "single address to resolve")
	file := flag.String("file", "", "file with one address per line")
	branch := flag.String("branch", "", "branch coordinates as lat,lon for distance output")
	asJSON := flag.Bool("json", false, "emit results as a JSON array")
	timeout := flag.Duration("timeout", 10*time.Second, "per-lookup timeout")
	flag.Parse()

	if (*address == "") == (*file == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -address or -file is required")
		flag.Usage()
		os.Exit(2)
	}

	if code := run(*address, *file, *branch, *asJSON, *timeout); code != 0 {
		os.Exit(code)
	}
}

func run(address, file, branch string, asJSON bool, timeout time.Duration) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	branchLat, branchLon, hasBranch, err := parseBranch(branch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 2
	}

	addresses, err := collectAddresses(address, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := nominatim.NewClient(nominatim.WithLogger(logger))
	resolver := geocode.NewService(client, logger, observability.NewMetrics())

	results := make([]lookupResult, 0, len(addresses))
	for _, addr := range addresses {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "interrupted")
			return 1
		}
		results = append(results, lookupOne(ctx, resolver, addr, branchLat, branchLon, hasBranch, timeout))
	}

	if asJSON {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: encode results: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	for _, r := range results {
		printResult(r)
	}
	return 0
}

func lookupOne(ctx context.Context, resolver *geocode.Service, addr string, branchLat, branchLon float64, hasBranch bool, timeout time.Duration) lookupResult {
	out := lookupResult{Address: addr}

	if v := geocode.ValidateAddress(addr); !v.Valid {
		out.Error = v.Error
		return out
	}
	out.Valid = true

	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := resolver.Geocode(lookupCtx, addr)
	if result == nil {
		return out
	}
	out.Result = result

	if hasBranch {
		d := geocode.Distance(branchLat, branchLon, result.Latitude, result.Longitude)
		out.DistanceKm = &d
	}
	return out
}

func printResult(r lookupResult) {
	fmt.Println(r.Address)
	switch {
	case !r.Valid:
		fmt.Printf("  invalid: %s\n", r.Error)
	case r.Result == nil:
		fmt.Println("  no match")
	default:
		fmt.Printf("  lat=%.7f lon=%.7f\n", r.Result.Latitude, r.Result.Longitude)
		fmt.Printf("  %s\n", r.Result.DisplayName)
		if r.DistanceKm != nil {
			fmt.Printf("  distance to branch: %.2f km\n", *r.DistanceKm)
		}
	}
}

func parseBranch(branch string) (lat, lon float64, ok bool, err error) {
	if branch == "" {
		return 0, 0, false, nil
	}
	parts := strings.SplitN(branch, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false, fmt.Errorf("invalid -branch %q: expected lat,lon", branch)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid -branch latitude %q", parts[0])
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid -branch longitude %q", parts[1])
	}
	return lat, lon, true, nil
}

func collectAddresses(address, file string) ([]string, error) {
	if address != "" {
		return []string{address}, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open address file: %w", err)
	}
	defer f.Close()

	var addresses []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			addresses = append(addresses, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read address file: %w", err)
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("no addresses in %s", file)
	}
	return addresses, nil
}
