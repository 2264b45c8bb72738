package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkdeck-app/linkdeck/internal/application"
	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

func TestUpdatePassword_MismatchRefusedLocally(t *testing.T) {
	called := false
	backend := &mockBackend{
		updatePasswordFn: func(context.Context, string, string, string) error {
			called = true
			return nil
		},
	}
	svc := application.NewProfileService(backend, &memCredStore{})

	err := svc.UpdatePassword(context.Background(), "old", "new", "different")
	require.ErrorIs(t, err, application.ErrPasswordMismatch)
	assert.False(t, called, "no request is issued on a local validation failure")
}

func TestUpdateUsername_RefreshesCachedUser(t *testing.T) {
	creds := &memCredStore{cred: &model.Credential{
		Token: "tok",
		User:  model.User{ID: "u1", Username: "alice", Role: model.RoleUser},
	}}
	svc := application.NewProfileService(&mockBackend{}, creds)

	require.NoError(t, svc.UpdateUsername(context.Background(), "alice2"))

	stored, err := creds.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "alice2", stored.User.Username)
	assert.Equal(t, "tok", stored.Token, "token is untouched by a username change")
}

func TestUpdateUsername_LoggedOut_StillSucceeds(t *testing.T) {
	creds := &memCredStore{}
	svc := application.NewProfileService(&mockBackend{}, creds)

	require.NoError(t, svc.UpdateUsername(context.Background(), "alice2"))
	assert.Zero(t, creds.setCalls)
}

func TestProfile_FetchesFromBackend(t *testing.T) {
	backend := &mockBackend{
		profileFn: func(context.Context) (model.User, error) {
			return model.User{ID: "u1", Username: "alice", Email: "alice@example.com"}, nil
		},
	}
	svc := application.NewProfileService(backend, &memCredStore{})

	user, err := svc.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}
