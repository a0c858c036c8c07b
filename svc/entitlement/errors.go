package entitlement

import "errors"

var (
	// ErrUnauthenticated is returned when an operation requires an
	// authenticated user and none is present.
	ErrUnauthenticated = errors.New("no authenticated user")

	// ErrSubscriptionNotFound is returned by stores when a user has no
	// subscription record. It is a valid answer, not a failure: the
	// fetcher translates it into a nil record.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrTransportFailure wraps read/write failures against the
	// persistence collaborator. Reads absorb it and fail closed to free;
	// activation surfaces it to the caller.
	ErrTransportFailure = errors.New("subscription backend unavailable")

	// ErrTimeout is returned when a fetch attempt exceeds its deadline.
	ErrTimeout = errors.New("subscription fetch timed out")

	// ErrActivationFailed wraps write failures during activation. The
	// write is never retried automatically; retry must be an explicit
	// user action to avoid double activation.
	ErrActivationFailed = errors.New("plan activation failed")
)
