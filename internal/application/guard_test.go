package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkdeck-app/linkdeck/internal/application"
	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

func credStoreWith(token string, role model.Role) *memCredStore {
	store := &memCredStore{}
	if token != "" {
		store.cred = &model.Credential{
			Token: token,
			User:  model.User{ID: "u1", Username: "alice", Role: role},
		}
	}
	return store
}

func TestCanEnter_NoToken_RedirectsToLanding(t *testing.T) {
	guard := application.NewAccessGuard(credStoreWith("", ""))
	ctx := context.Background()

	routes := []application.Route{
		{Path: "/home"},
		{Path: "/userlist", Roles: []model.Role{model.RoleAdmin}},
		{Path: "/profile", Roles: []model.Role{model.RoleUser, model.RoleAdmin}},
	}

	for _, route := range routes {
		d := guard.CanEnter(ctx, route)
		assert.False(t, d.Allow, "route %s", route.Path)
		assert.Equal(t, application.LandingRoute, d.RedirectTo, "route %s", route.Path)
	}
}

func TestCanEnter_TokenNoRoleRequirement_Allows(t *testing.T) {
	guard := application.NewAccessGuard(credStoreWith("tok", model.RoleUser))

	d := guard.CanEnter(context.Background(), application.Route{Path: "/home"})
	assert.True(t, d.Allow)
	assert.Empty(t, d.RedirectTo)
}

func TestCanEnter_RoleMembership(t *testing.T) {
	adminOnly := application.Route{Path: "/userlist", Roles: []model.Role{model.RoleAdmin}}

	tests := []struct {
		name     string
		role     model.Role
		allow    bool
		redirect string
	}{
		{"admin allowed", model.RoleAdmin, true, ""},
		{"user redirected home, not to landing", model.RoleUser, false, application.HomeRoute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := application.NewAccessGuard(credStoreWith("tok", tt.role))
			d := guard.CanEnter(context.Background(), adminOnly)
			assert.Equal(t, tt.allow, d.Allow)
			assert.Equal(t, tt.redirect, d.RedirectTo)
		})
	}
}

func TestCanEnter_NilStore_TreatedAsUnauthenticated(t *testing.T) {
	guard := application.NewAccessGuard(nil)

	d := guard.CanEnter(context.Background(), application.Route{Path: "/home"})
	assert.False(t, d.Allow)
	assert.Equal(t, application.LandingRoute, d.RedirectTo)
}

func TestCanEnter_StoreReadError_TreatedAsUnauthenticated(t *testing.T) {
	store := credStoreWith("tok", model.RoleAdmin)
	store.getErr = errors.New("storage unavailable")
	guard := application.NewAccessGuard(store)

	d := guard.CanEnter(context.Background(), application.Route{Path: "/home"})
	assert.False(t, d.Allow)
	assert.Equal(t, application.LandingRoute, d.RedirectTo)
}

func TestCanEnter_NeverWritesStore(t *testing.T) {
	store := credStoreWith("tok", model.RoleUser)
	guard := application.NewAccessGuard(store)
	ctx := context.Background()

	for range 5 {
		guard.CanEnter(ctx, application.Route{Path: "/userlist", Roles: []model.Role{model.RoleAdmin}})
		guard.CanEnter(ctx, application.Route{Path: "/home"})
	}

	assert.Zero(t, store.setCalls)
}
