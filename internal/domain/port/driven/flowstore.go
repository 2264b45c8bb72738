package driven

import "context"

// Well-known flow state keys.
const (
	FlowPendingVerifyEmail = "pending_verify_email"
	FlowPendingResetEmail  = "pending_reset_email"
)

// FlowStore persists short-lived values that must survive the steps of a
// multi-request flow (registration verification, password reset).
type FlowStore interface {
	// Put stores or replaces the value for key.
	Put(ctx context.Context, key, value string) error

	// Get returns the value for key, or ("", nil) when absent.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes the value for key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error
}
