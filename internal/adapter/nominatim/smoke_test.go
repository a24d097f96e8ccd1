//go:build nominatim

package nominatim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real public Nominatim instance and are throttled
// to its one-request-per-second usage policy.
// Run with: go test -tags=nominatim ./internal/adapter/nominatim/ -v -count=1

func smokeClient() *Client {
	return NewClient(
		WithTimeout(10 * time.Second),
		WithLogger(discardLogger()),
	)
}

func TestSmoke_Search(t *testing.T) {
	c := smokeClient()

	result, err := c.Search(context.Background(), "Minar-e-Pakistan, Lahore")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.InDelta(t, 31.59, result.Latitude, 0.1, "lat should be near Lahore")
	assert.InDelta(t, 74.31, result.Longitude, 0.1, "lon should be near Lahore")
	assert.Contains(t, result.DisplayName, "Lahore")
}

func TestSmoke_Search_NoMatch(t *testing.T) {
	c := smokeClient()

	// Nonsense queries come back as an empty candidate array, which the
	// client reports as no result rather than an error.
	result, err := c.Search(context.Background(), "zqxjk nonexistent street 99999")
	require.NoError(t, err)
	assert.Nil(t, result)
}
