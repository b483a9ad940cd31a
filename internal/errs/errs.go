// Package errs holds the sentinel errors shared by the domain, service and
// repository layers. Callers wrap them with fmt.Errorf("%w: ...") and the HTTP
// layer maps them to status codes with errors.Is.
package errs

import "errors"

var (
	// ErrNotFound is returned when a resource does not exist or is not visible to the caller.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a resource already exists or a uniqueness rule is violated.
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidInput is returned when request data fails a business rule.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when credentials are missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller may not perform the action.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned when a status change is not allowed from the current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrQuotaExceeded is returned when a daily usage quota is used up.
	ErrQuotaExceeded = errors.New("daily quota exceeded")

	// ErrLimitReached is returned when a plan limit (e.g. gallery size) is reached.
	ErrLimitReached = errors.New("plan limit reached")

	// ErrPurchaseTokenInUse is returned when a purchase token is already bound to another account.
	ErrPurchaseTokenInUse = errors.New("purchase token already bound to another account")

	// ErrInvalidReceipt is returned when the store does not confirm a purchase.
	ErrInvalidReceipt = errors.New("invalid receipt")

	// ErrUpstream is returned when an external dependency fails.
	ErrUpstream = errors.New("upstream service unavailable")
)
