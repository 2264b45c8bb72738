// Package driven defines the outbound port interfaces implemented by the
// adapter layer.
package driven

import (
	"context"
	"errors"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

// ErrUnauthenticated is returned when the backend rejects the request token
// (or none was available). It is the only post-login source of
// "unauthenticated" signals.
var ErrUnauthenticated = errors.New("backend rejected credentials")

// ErrForbidden is returned when the backend accepts the token but the account
// lacks the required role.
var ErrForbidden = errors.New("insufficient role")

// LinkUpdate carries the mutable fields of a link update. A nil CategoryID
// leaves the assignment untouched; a pointer to the empty string moves the
// link to the uncategorized partition.
type LinkUpdate struct {
	Name       string
	URL        string
	CategoryID *string
}

// BackendClient is the client-observable contract of the remote REST
// backend. Every call attaches the current session token at call time, so a
// cleared credential takes effect on the next outgoing request.
type BackendClient interface {
	// Auth flows.
	Register(ctx context.Context, username, email, password string) error
	VerifyEmail(ctx context.Context, email, code string) (model.Credential, error)
	Login(ctx context.Context, email, password string) (model.Credential, error)
	Profile(ctx context.Context) (model.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	Logout(ctx context.Context) error
	UpdateUsername(ctx context.Context, newUsername string) error
	UpdatePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error

	// Categories.
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name string) error
	UpdateCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error

	// Links. AllLinks returns the backend's combined categorized +
	// uncategorized result; LinksByBucket fetches one category bucket (or
	// the literal "uncategorized" partition).
	AllLinks(ctx context.Context) ([]model.Link, error)
	LinksByBucket(ctx context.Context, bucket string) ([]model.Link, error)
	CreateLink(ctx context.Context, name, url string, categoryID *string) error
	UpdateLink(ctx context.Context, id string, upd LinkUpdate) error
	DeleteLink(ctx context.Context, id string) error

	// Search across the caller's links and categories.
	Search(ctx context.Context, query string) (model.SearchResults, error)

	// Admin-only views. Role enforcement also happens server-side; the
	// client-side guard is a UX convenience, not a security boundary.
	AdminUsers(ctx context.Context) ([]model.AdminUser, error)
	MonthlyBarChart(ctx context.Context, year int) ([]model.MonthlyMetric, error)
}
