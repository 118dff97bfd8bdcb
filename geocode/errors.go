// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"errors"
	"fmt"
	"strings"
)

// GeoError represents a geocoding failure reported by a vendor, keeping
// the vendor's raw diagnostic text for observability.
type GeoError struct {
	Provider string
	Type     ErrorType
	Message  string
	Err      error
}

// ErrorType classifies geocoding failures.
type ErrorType int

const (
	// ErrorTypeUnknown unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit rate limit hit.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded daily quota exhausted.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout connection timeout.
	ErrorTypeTimeout
	// ErrorTypeInvalidRequest the vendor rejected the request.
	ErrorTypeInvalidRequest
	// ErrorTypeNetwork transport-level error.
	ErrorTypeNetwork
)

func (e *GeoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *GeoError) Unwrap() error {
	return e.Err
}

// IsRateLimitError reports whether the error is a rate-limit failure.
func IsRateLimitError(err error) bool {
	var geoErr *GeoError
	if errors.As(err, &geoErr) && geoErr.Type == ErrorTypeRateLimit {
		return true
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsQuotaExceededError reports whether the error is a quota failure.
func IsQuotaExceededError(err error) bool {
	var geoErr *GeoError
	if errors.As(err, &geoErr) && geoErr.Type == ErrorTypeQuotaExceeded {
		return true
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "over_query_limit") ||
		strings.Contains(errStr, "quota exceeded")
}
