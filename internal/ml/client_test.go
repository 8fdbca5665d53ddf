package ml

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-better/internal/config"
	"github.com/yourusername/value-better/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testRatings() (models.TeamRating, models.TeamRating) {
	home := models.TeamRating{Team: "Arsenal", AvgGoalsScored: 2.1, AvgGoalsConceded: 0.9, EloRating: 1780}
	away := models.TeamRating{Team: "Fulham", AvgGoalsScored: 1.2, AvgGoalsConceded: 1.6, EloRating: 1540}
	return home, away
}

func classifierServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(&config.ClassifierConfig{
		Enabled:        true,
		URL:            srv.URL,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	}, testLogger())
	require.NoError(t, err)
	return srv, client
}

func TestClientDisabled(t *testing.T) {
	_, err := NewClient(&config.ClassifierConfig{Enabled: false}, testLogger())
	assert.ErrorIs(t, err, ErrClassifierDisabled)
}

func TestClassifyMatch(t *testing.T) {
	matchID := uuid.New()
	_, client := classifierServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/classify", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, matchID.String(), req.MatchID)
		assert.Equal(t, "Arsenal", req.Home.Team)

		json.NewEncoder(w).Encode(classifyResponse{
			HomeWin:       0.58,
			Draw:          0.24,
			AwayWin:       0.18,
			GoalLine:      2.5,
			OverThreshold: 0.61,
			Confidence:    0.82,
			ModelVersion:  "v3",
		})
	})

	home, away := testRatings()
	estimate, err := client.ClassifyMatch(context.Background(), matchID, home, away)
	require.NoError(t, err)
	assert.InDelta(t, 0.58, estimate.HomeWin, 1e-9)
	assert.InDelta(t, 0.82, estimate.Confidence, 1e-9)
	assert.NoError(t, estimate.Validate())
}

func TestClassifyMatchServerError(t *testing.T) {
	_, client := classifierServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	})

	home, away := testRatings()
	_, err := client.ClassifyMatch(context.Background(), uuid.New(), home, away)
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
}

func TestClassifyMatchInvalidEstimate(t *testing.T) {
	_, client := classifierServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Probabilities that don't sum to 1.
		json.NewEncoder(w).Encode(classifyResponse{HomeWin: 0.9, Draw: 0.5, AwayWin: 0.3, Confidence: 0.8})
	})

	home, away := testRatings()
	_, err := client.ClassifyMatch(context.Background(), uuid.New(), home, away)
	assert.ErrorIs(t, err, ErrInvalidEstimate)
}

func TestClassifyMatchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	_, client := classifierServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "transient", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(classifyResponse{
			HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2, GoalLine: 2.5, OverThreshold: 0.5, Confidence: 0.7,
		})
	})

	home, away := testRatings()
	estimate, err := client.ClassifyMatch(context.Background(), uuid.New(), home, away)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, estimate.HomeWin, 1e-9)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

type stubClassifier struct {
	calls    int
	estimate *models.OutcomeEstimate
}

func (s *stubClassifier) ClassifyMatch(ctx context.Context, matchID uuid.UUID, home, away models.TeamRating) (*models.OutcomeEstimate, error) {
	s.calls++
	return s.estimate, nil
}

func TestCachedClientHitsCacheOnRepeat(t *testing.T) {
	stub := &stubClassifier{estimate: testEstimate(0.8)}
	cached := &CachedClient{
		client: stub,
		cache:  NewEstimateCache(time.Minute, 10),
		logger: testLogger(),
	}

	home, away := testRatings()
	matchID := uuid.New()

	first, err := cached.ClassifyMatch(context.Background(), matchID, home, away)
	require.NoError(t, err)
	second, err := cached.ClassifyMatch(context.Background(), matchID, home, away)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, stub.calls)

	cached.Invalidate(matchID)
	_, err = cached.ClassifyMatch(context.Background(), matchID, home, away)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestBlendWithModel(t *testing.T) {
	classifier := models.OutcomeEstimate{HomeWin: 0.6, Draw: 0.2, AwayWin: 0.2, GoalLine: 2.5, OverThreshold: 0.6, Confidence: 0.9}
	model := models.OutcomeEstimate{HomeWin: 0.4, Draw: 0.3, AwayWin: 0.3, GoalLine: 2.5, OverThreshold: 0.4, Confidence: 0.7}

	blended, err := BlendWithModel(classifier, model, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, blended.HomeWin, 1e-9)
	assert.InDelta(t, 0.25, blended.Draw, 1e-9)
	assert.InDelta(t, 0.25, blended.AwayWin, 1e-9)
	assert.NoError(t, blended.Validate())
}
