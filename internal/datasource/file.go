package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-better/internal/models"
)

// FileSource implements MatchSource over a local JSON file holding an array
// of matches in the internal format. Used for offline backtests and fixture
// replay in tests.
type FileSource struct {
	path   string
	logger *logrus.Logger
}

// NewFileSource creates a file-backed match source.
func NewFileSource(path string, logger *logrus.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

// Name implements MatchSource.
func (s *FileSource) Name() string {
	return "file"
}

// FetchMatches loads matches from the file, filtered to the date range. A
// zero startDate or endDate leaves that bound open.
func (s *FileSource) FetchMatches(ctx context.Context, startDate, endDate time.Time) ([]models.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeNotFound, fmt.Sprintf("failed to read %s", s.path), err)
	}

	var all []models.Match
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData, "failed to parse match file", err)
	}

	matches := make([]models.Match, 0, len(all))
	for _, m := range all {
		if !startDate.IsZero() && m.KickoffTime.Before(startDate) {
			continue
		}
		if !endDate.IsZero() && m.KickoffTime.After(endDate) {
			continue
		}
		matches = append(matches, m)
	}

	s.logger.WithFields(logrus.Fields{
		"path":     s.path,
		"total":    len(all),
		"in_range": len(matches),
	}).Debug("Loaded match file")
	return matches, nil
}
