// Package datasource fetches historical match data from external providers
// and normalizes it into the internal match model.
package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/value-better/internal/models"
)

// MatchSource fetches settled matches for backtesting. Implementations
// return matches with recorded scores, market prices, and model estimates
// already attached or derivable.
type MatchSource interface {
	// FetchMatches retrieves settled matches whose kickoff falls in
	// [startDate, endDate].
	FetchMatches(ctx context.Context, startDate, endDate time.Time) ([]models.Match, error)

	// Name identifies the source in logs and errors.
	Name() string
}

// SourceError wraps provider failures with the source name and a stable
// error code.
type SourceError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidData          = errors.New("invalid data format")
)

// NewSourceError creates a source error.
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{Source: source, Code: code, Message: message, Err: err}
}
