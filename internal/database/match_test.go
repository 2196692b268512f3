// internal/database/match_test.go
package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFinishedAtReadsEpochMillis(t *testing.T) {
	ts := time.Date(2026, 8, 31, 12, 30, 45, 500*int(time.Millisecond), time.UTC)

	got := finishedAt(ts.UnixMilli())
	assert.True(t, got.Equal(ts), "expected %v, got %v", ts, got)

	// A millisecond value misread as seconds lands tens of thousands of
	// years out; the conversion must stay in the present.
	assert.Less(t, got.Year(), 3000)
	assert.Equal(t, time.UTC, got.Location())
}
