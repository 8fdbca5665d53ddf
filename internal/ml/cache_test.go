package ml

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/value-better/internal/models"
)

func testEstimate(confidence float64) *models.OutcomeEstimate {
	return &models.OutcomeEstimate{
		HomeWin:       0.50,
		Draw:          0.28,
		AwayWin:       0.22,
		GoalLine:      2.5,
		OverThreshold: 0.55,
		Confidence:    confidence,
	}
}

func TestEstimateCacheGetSet(t *testing.T) {
	ec := NewEstimateCache(time.Minute, 10)
	id := uuid.New()

	assert.Nil(t, ec.Get(id))

	est := testEstimate(0.8)
	ec.Set(id, est)
	assert.Same(t, est, ec.Get(id))
	assert.Equal(t, 1, ec.Len())
}

func TestEstimateCacheInvalidate(t *testing.T) {
	ec := NewEstimateCache(time.Minute, 10)
	id := uuid.New()

	ec.Set(id, testEstimate(0.8))
	ec.Invalidate(id)
	assert.Nil(t, ec.Get(id))
}

func TestEstimateCacheExpiry(t *testing.T) {
	ec := NewEstimateCache(10*time.Millisecond, 10)
	id := uuid.New()

	ec.Set(id, testEstimate(0.8))
	time.Sleep(30 * time.Millisecond)
	assert.Nil(t, ec.Get(id))
}

func TestEstimateCacheSizeCeiling(t *testing.T) {
	ec := NewEstimateCache(time.Minute, 3)
	for i := 0; i < 3; i++ {
		ec.Set(uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("match-%d", i))), testEstimate(0.8))
	}
	assert.Equal(t, 3, ec.Len())

	// A full cache with no expired entries drops the new write.
	extra := uuid.New()
	ec.Set(extra, testEstimate(0.9))
	assert.Nil(t, ec.Get(extra))
	assert.Equal(t, 3, ec.Len())
}

func TestEstimateCacheDefaults(t *testing.T) {
	ec := NewEstimateCache(0, 0)
	assert.Equal(t, 15*time.Minute, ec.ttl)
	assert.Equal(t, 1000, ec.maxSize)
}
