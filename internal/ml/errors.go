// Package ml provides the client for the external outcome classifier
// service and blends its estimates with the local Poisson model.
package ml

import "errors"

var (
	// ErrClassifierUnavailable indicates the classifier service is unreachable.
	ErrClassifierUnavailable = errors.New("classifier service unavailable")

	// ErrInvalidEstimate indicates the classifier returned a malformed estimate.
	ErrInvalidEstimate = errors.New("invalid classifier estimate")

	// ErrClassifierDisabled indicates the classifier is disabled in config.
	ErrClassifierDisabled = errors.New("classifier disabled")
)
