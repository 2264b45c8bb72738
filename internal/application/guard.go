// Package application contains the use-case services layered over the
// driven ports: access control, session lifecycle, the link board
// projection, visibility windows, and the search overlay.
package application

import (
	"context"
	"log/slog"
	"slices"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// Navigation targets used by guard decisions.
const (
	LandingRoute = "/"
	HomeRoute    = "/home"
)

// Route declares what a protected view requires. An empty Roles slice means
// any authenticated user may enter.
type Route struct {
	Path  string
	Roles []model.Role
}

// Decision is the outcome of one guard evaluation. When Allow is false,
// RedirectTo names the route the caller should navigate to instead.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// AccessGuard gates entry to protected views. It only reads the credential
// store, performs no I/O beyond that read, and caches nothing; every
// navigation attempt is evaluated afresh.
type AccessGuard struct {
	creds  driven.CredentialStore
	logger *slog.Logger
}

// NewAccessGuard creates a guard over the given credential store. A nil
// store is tolerated: without durable storage every evaluation is treated as
// unauthenticated rather than panicking.
func NewAccessGuard(creds driven.CredentialStore) *AccessGuard {
	return &AccessGuard{creds: creds, logger: slog.Default()}
}

// CanEnter decides whether the current credential may enter the route.
// No token: deny, redirect to the landing page. Token present but the cached
// role is outside a non-empty role requirement: deny, redirect home. An
// under-privileged login is not the same failure as an anonymous visitor.
func (g *AccessGuard) CanEnter(ctx context.Context, route Route) Decision {
	cred := g.currentCredential(ctx)

	if cred == nil || cred.Token == "" {
		return Decision{Allow: false, RedirectTo: LandingRoute}
	}

	if len(route.Roles) > 0 && !slices.Contains(route.Roles, cred.User.Role) {
		g.logger.Info("navigation denied",
			"path", route.Path,
			"role", cred.User.Role,
		)
		return Decision{Allow: false, RedirectTo: HomeRoute}
	}

	return Decision{Allow: true}
}

// currentCredential reads the store, mapping every failure mode (no store,
// read error, absent row) to unauthenticated.
func (g *AccessGuard) currentCredential(ctx context.Context) *model.Credential {
	if g.creds == nil {
		return nil
	}
	cred, err := g.creds.Get(ctx)
	if err != nil {
		g.logger.Warn("credential read failed, treating as unauthenticated", "error", err)
		return nil
	}
	return cred
}
