// Package errors provides common domain error types for the polybites CLI.
//
// This package defines sentinel errors for conditions the review browser has
// to distinguish, such as a non-success HTTP response versus a request that
// never completed. Using typed errors enables consistent handling patterns
// with errors.Is() checks.
//
// Usage:
//
//	import pberrors "github.com/polybites/polybites-cli/pkg/errors"
//
//	// Return a domain error
//	return nil, pberrors.ErrFetchFailed
//
//	// Check for domain errors
//	if pberrors.IsFetchFailed(err) {
//	    // degrade to zero-valued defaults
//	}
package errors

import "errors"

// Domain errors - common sentinel errors for review browser conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrFetchFailed indicates the server answered with a non-success status.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrNetworkFailure indicates the request could not complete at all.
	ErrNetworkFailure = errors.New("network failure")

	// ErrValidation indicates invalid input or validation failure.
	ErrValidation = errors.New("validation error")

	// ErrSignInRequired indicates the action needs an authenticated viewer.
	ErrSignInRequired = errors.New("sign in required")

	// ErrTogglePending indicates a like toggle is already in flight for the review.
	ErrTogglePending = errors.New("toggle already pending")

	// ErrThrottled indicates the trigger arrived inside the cooldown window.
	ErrThrottled = errors.New("throttled")
)

// IsNotFound reports whether any error in err's chain is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsFetchFailed reports whether any error in err's chain is ErrFetchFailed.
func IsFetchFailed(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsNetworkFailure reports whether any error in err's chain is ErrNetworkFailure.
func IsNetworkFailure(err error) bool {
	return errors.Is(err, ErrNetworkFailure)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsSignInRequired reports whether any error in err's chain is ErrSignInRequired.
func IsSignInRequired(err error) bool {
	return errors.Is(err, ErrSignInRequired)
}

// IsTogglePending reports whether any error in err's chain is ErrTogglePending.
func IsTogglePending(err error) bool {
	return errors.Is(err, ErrTogglePending)
}

// IsThrottled reports whether any error in err's chain is ErrThrottled.
func IsThrottled(err error) bool {
	return errors.Is(err, ErrThrottled)
}
