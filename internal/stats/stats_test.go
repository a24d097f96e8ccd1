package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketKeyTruncatesToMinute(t *testing.T) {
	base := time.Date(2026, time.August, 25, 12, 30, 0, 0, time.UTC)

	early := bucketKey("geocode:stats", base.Add(5*time.Second))
	late := bucketKey("geocode:stats", base.Add(59*time.Second))
	next := bucketKey("geocode:stats", base.Add(time.Minute))

	assert.Equal(t, "geocode:stats:m:1787661000", early)
	assert.Equal(t, early, late)
	assert.NotEqual(t, early, next)
}

func TestNoopRecorderIgnoresEvents(t *testing.T) {
	var n Noop
	err := n.Record(context.Background(), Event{Outcome: "resolved", At: time.Now()})
	assert.NoError(t, err)
}
