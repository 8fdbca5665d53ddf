package models

import "errors"

// Custom errors
var (
	ErrInvalidProbabilities = errors.New("outcome probabilities do not sum to 1")
	ErrNegativePrice        = errors.New("market price is negative")
	ErrInvalidBankroll      = errors.New("bankroll must not be negative")
	ErrNoMatches            = errors.New("match history is empty")
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateKey         = errors.New("duplicate key violation")
)
