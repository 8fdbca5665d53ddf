package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-better/internal/config"
	"github.com/yourusername/value-better/internal/models"
	"github.com/yourusername/value-better/internal/probability"
)

// Classifier fetches outcome estimates for a fixture. Implementations must
// be safe for concurrent use.
type Classifier interface {
	ClassifyMatch(ctx context.Context, matchID uuid.UUID, home, away models.TeamRating) (*models.OutcomeEstimate, error)
}

// Client talks to the classifier service over HTTP JSON.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// NewClient creates a classifier client. The config must carry a URL when
// the classifier is enabled; Load enforces that.
func NewClient(cfg *config.ClassifierConfig, logger *logrus.Logger) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrClassifierDisabled
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    newRetryingHTTPClient(timeout, logger),
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}, nil
}

type classifyRequest struct {
	MatchID string            `json:"match_id"`
	Home    models.TeamRating `json:"home"`
	Away    models.TeamRating `json:"away"`
}

type classifyResponse struct {
	HomeWin       float64 `json:"home_win"`
	Draw          float64 `json:"draw"`
	AwayWin       float64 `json:"away_win"`
	GoalLine      float64 `json:"goal_line"`
	OverThreshold float64 `json:"over_threshold"`
	Confidence    float64 `json:"confidence"`
	ModelVersion  string  `json:"model_version"`
}

// ClassifyMatch requests an outcome estimate for one fixture. The response
// is validated against the same probability invariants the local model
// honors before it crosses the package boundary.
func (c *Client) ClassifyMatch(ctx context.Context, matchID uuid.UUID, home, away models.TeamRating) (*models.OutcomeEstimate, error) {
	payload, err := json.Marshal(classifyRequest{
		MatchID: matchID.String(),
		Home:    home,
		Away:    away,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("Classifier request failed")
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrClassifierUnavailable, resp.StatusCode, body)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEstimate, err)
	}

	estimate := models.OutcomeEstimate{
		HomeWin:       out.HomeWin,
		Draw:          out.Draw,
		AwayWin:       out.AwayWin,
		GoalLine:      out.GoalLine,
		OverThreshold: out.OverThreshold,
		Confidence:    out.Confidence,
	}
	if err := estimate.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEstimate, err)
	}

	c.logger.WithFields(logrus.Fields{
		"match_id":      matchID,
		"model_version": out.ModelVersion,
		"confidence":    out.Confidence,
	}).Debug("Classifier estimate received")
	return &estimate, nil
}

// BlendWithModel combines the classifier's estimate with the local model's
// estimate at the given classifier weight.
func BlendWithModel(classifier, model models.OutcomeEstimate, classifierWeight float64) (models.OutcomeEstimate, error) {
	return probability.Blend([]probability.WeightedEstimate{
		{Estimate: classifier, Weight: classifierWeight},
		{Estimate: model, Weight: 1.0 - classifierWeight},
	})
}
