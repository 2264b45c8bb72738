package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// ErrPasswordMismatch is returned when the new password and its confirmation
// differ. Checked locally before any request is issued.
var ErrPasswordMismatch = errors.New("new password and confirmation do not match")

// ProfileService drives account maintenance and keeps the cached user record
// in step with successful updates.
type ProfileService struct {
	backend driven.BackendClient
	creds   driven.CredentialStore
	logger  *slog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(backend driven.BackendClient, creds driven.CredentialStore) *ProfileService {
	return &ProfileService{backend: backend, creds: creds, logger: slog.Default()}
}

// Profile fetches the account record from the backend.
func (s *ProfileService) Profile(ctx context.Context) (model.User, error) {
	user, err := s.backend.Profile(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("fetch profile: %w", err)
	}
	return user, nil
}

// UpdateUsername renames the account and refreshes the cached user record so
// the guard and views see the new name without a re-login.
func (s *ProfileService) UpdateUsername(ctx context.Context, newUsername string) error {
	if err := s.backend.UpdateUsername(ctx, newUsername); err != nil {
		return fmt.Errorf("update username: %w", err)
	}

	cred, err := s.creds.Get(ctx)
	if err != nil || cred == nil {
		if err != nil {
			s.logger.Warn("cached user refresh failed", "error", err)
		}
		return nil
	}
	cred.User.Username = newUsername
	if err := s.creds.Set(ctx, *cred); err != nil {
		s.logger.Warn("cached user refresh failed", "error", err)
	}
	return nil
}

// UpdatePassword changes the account password. The confirmation mismatch is
// caught locally; everything else is the backend's call.
func (s *ProfileService) UpdatePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if err := s.backend.UpdatePassword(ctx, oldPassword, newPassword, confirmPassword); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
