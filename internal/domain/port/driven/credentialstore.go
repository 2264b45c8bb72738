package driven

import (
	"context"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

// CredentialStore is the durable client-local store for the session
// credential. One credential exists at a time.
type CredentialStore interface {
	// Set stores the token and cached user record atomically: a concurrent
	// Get observes either the full previous credential or the full new one,
	// never a half-written state.
	Set(ctx context.Context, cred model.Credential) error

	// Get returns the stored credential, or nil when none is present.
	// The store never inspects token contents; expiry is the backend's
	// concern.
	Get(ctx context.Context) (*model.Credential, error)

	// Clear removes both token and user. Subsequent Gets return nil.
	Clear(ctx context.Context) error
}
