package service

import "errors"

// Error taxonomy surfaced to handlers. Handlers map these to status codes;
// anything not listed here is a server error.
var (
	// Referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// A second review by the same author for the same title. Detected via
	// the store-level unique index, not a query-then-insert check.
	ErrDuplicateReview = errors.New("you have already reviewed this title")

	// Role or ownership check failed. Deliberately carries no detail.
	ErrForbidden = errors.New("forbidden")

	// Email/code exchange failed. Same error for wrong email, wrong code and
	// absent code, to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or confirmation code")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	// Uniqueness conflicts on user-supplied identifiers.
	ErrSlugInUse     = errors.New("slug already in use")
	ErrNameInUse     = errors.New("username already in use")
	ErrEmailInUse    = errors.New("email already in use")
	ErrCategoryInUse = errors.New("category is still referenced by titles")

	// Catalog references that cannot be resolved on a write.
	ErrUnknownCategory = errors.New("unknown category slug")
	ErrUnknownGenre    = errors.New("unknown genre slug")

	// Confirmation-code request throttle tripped.
	ErrTooManyCodeRequests = errors.New("too many confirmation code requests")
)
