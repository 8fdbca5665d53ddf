package ml

import (
	"net/http"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// newRetryingHTTPClient builds the underlying HTTP client with exponential
// backoff retries. Classifier calls are idempotent so retrying POSTs is safe.
func newRetryingHTTPClient(timeout time.Duration, logger *logrus.Logger) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = leveledLogger{logger}
	return rc.StandardClient()
}

// leveledLogger adapts logrus to retryablehttp's LeveledLogger interface.
type leveledLogger struct {
	logger *logrus.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.WithField("source", "retryablehttp").Error(append([]interface{}{msg}, keysAndValues...)...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithField("source", "retryablehttp").Info(append([]interface{}{msg}, keysAndValues...)...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.WithField("source", "retryablehttp").Debug(append([]interface{}{msg}, keysAndValues...)...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.WithField("source", "retryablehttp").Warn(append([]interface{}{msg}, keysAndValues...)...)
}
