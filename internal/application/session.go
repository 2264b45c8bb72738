package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// ErrNoPendingFlow is returned when a multi-step flow continuation arrives
// without its stored first step (e.g. a verification code submitted with no
// pending registration email).
var ErrNoPendingFlow = errors.New("no pending flow state")

// SessionService orchestrates the auth flows: it drives the backend calls
// and keeps the durable credential and flow state in step with them.
type SessionService struct {
	backend driven.BackendClient
	creds   driven.CredentialStore
	flow    driven.FlowStore
	logger  *slog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(backend driven.BackendClient, creds driven.CredentialStore, flow driven.FlowStore) *SessionService {
	return &SessionService{
		backend: backend,
		creds:   creds,
		flow:    flow,
		logger:  slog.Default(),
	}
}

// Login authenticates against the backend and persists the returned
// credential. The store write completes before Login returns, so navigation
// triggered afterwards always observes the token and user together.
func (s *SessionService) Login(ctx context.Context, email, password string) (model.User, error) {
	cred, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return model.User{}, fmt.Errorf("login: %w", err)
	}

	if err := s.creds.Set(ctx, cred); err != nil {
		return model.User{}, fmt.Errorf("persist credential: %w", err)
	}

	s.logger.Info("logged in", "username", cred.User.Username, "role", cred.User.Role)
	return cred.User, nil
}

// Register submits a new account and records the email so the verification
// step can find it after a reload.
func (s *SessionService) Register(ctx context.Context, username, email, password string) error {
	if err := s.backend.Register(ctx, username, email, password); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if err := s.flow.Put(ctx, driven.FlowPendingVerifyEmail, email); err != nil {
		return fmt.Errorf("record pending verification: %w", err)
	}
	return nil
}

// VerifyEmail completes registration with the emailed code. On success the
// backend issues a credential, which is persisted like a login.
func (s *SessionService) VerifyEmail(ctx context.Context, code string) (model.User, error) {
	email, err := s.flow.Get(ctx, driven.FlowPendingVerifyEmail)
	if err != nil {
		return model.User{}, fmt.Errorf("read pending verification: %w", err)
	}
	if email == "" {
		return model.User{}, ErrNoPendingFlow
	}

	cred, err := s.backend.VerifyEmail(ctx, email, code)
	if err != nil {
		return model.User{}, fmt.Errorf("verify email: %w", err)
	}

	if err := s.creds.Set(ctx, cred); err != nil {
		return model.User{}, fmt.Errorf("persist credential: %w", err)
	}
	if err := s.flow.Delete(ctx, driven.FlowPendingVerifyEmail); err != nil {
		s.logger.Warn("clearing pending verification failed", "error", err)
	}

	return cred.User, nil
}

// ForgotPassword starts the reset flow and records the email for the
// confirmation step.
func (s *SessionService) ForgotPassword(ctx context.Context, email string) error {
	if err := s.backend.ForgotPassword(ctx, email); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	if err := s.flow.Put(ctx, driven.FlowPendingResetEmail, email); err != nil {
		return fmt.Errorf("record pending reset: %w", err)
	}
	return nil
}

// ResetPassword completes the reset flow with the emailed code.
func (s *SessionService) ResetPassword(ctx context.Context, code, newPassword string) error {
	email, err := s.flow.Get(ctx, driven.FlowPendingResetEmail)
	if err != nil {
		return fmt.Errorf("read pending reset: %w", err)
	}
	if email == "" {
		return ErrNoPendingFlow
	}

	if err := s.backend.ResetPassword(ctx, email, code, newPassword); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if err := s.flow.Delete(ctx, driven.FlowPendingResetEmail); err != nil {
		s.logger.Warn("clearing pending reset failed", "error", err)
	}
	return nil
}

// Logout clears the durable credential. The backend call is best-effort:
// in-flight requests are not cancelled, but because every outgoing call
// reads the store at request time, the very next call goes out unauthenticated.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Warn("backend logout failed, clearing local credential anyway", "error", err)
	}
	if err := s.creds.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Current returns the stored credential, or nil when logged out.
func (s *SessionService) Current(ctx context.Context) (*model.Credential, error) {
	return s.creds.Get(ctx)
}

// TokenClaims is a display-only snapshot of the token payload. None of it is
// verified; the stored user record remains the source of truth for access
// decisions.
type TokenClaims struct {
	Username      string
	Email         string
	Role          model.Role
	EmailVerified bool
}

// ClaimsSnapshot decodes identity claims from the stored token without
// verifying the signature. Returns false when logged out or when the token
// is not a decodable JWT (opaque tokens are valid sessions too).
func (s *SessionService) ClaimsSnapshot(ctx context.Context) (TokenClaims, bool) {
	cred, err := s.creds.Get(ctx)
	if err != nil || cred == nil || cred.Token == "" {
		return TokenClaims{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(cred.Token, claims); err != nil {
		return TokenClaims{}, false
	}

	out := TokenClaims{}
	if v, ok := claims["username"].(string); ok {
		out.Username = v
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = model.Role(v)
	}
	if v, ok := claims["isEmailVerified"].(bool); ok {
		out.EmailVerified = v
	}
	return out, true
}

// ExpiryEstimate decodes the stored token's exp claim without verifying the
// signature. Display convenience only: the authoritative validity check is
// the backend rejecting a request, never this value.
func (s *SessionService) ExpiryEstimate(ctx context.Context) (time.Time, bool) {
	cred, err := s.creds.Get(ctx)
	if err != nil || cred == nil || cred.Token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(cred.Token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
