package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

// userDTO is the backend's user record. The id arrives either as a plain
// string or as an extended-JSON wrapper, hence `any`.
type userDTO struct {
	ID            any    `json:"_id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"isEmailVerified"`
}

func (d userDTO) toModel() model.User {
	return model.User{
		ID:            model.NormalizeID(d.ID),
		Username:      d.Username,
		Email:         d.Email,
		Role:          model.Role(d.Role),
		EmailVerified: d.EmailVerified,
	}
}

// credentialDTO is the login/verification response.
type credentialDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

// Register creates a new account. The backend mails a verification code.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, c.authURL("/auth/register"), body, nil)
}

// VerifyEmail confirms an account with the mailed code and returns the
// issued credential.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) (model.Credential, error) {
	body := map[string]string{"email": email, "verificationCode": code}
	var out credentialDTO
	if err := c.doJSON(ctx, http.MethodPost, c.authURL("/auth/verifyemail"), body, &out); err != nil {
		return model.Credential{}, err
	}
	return model.Credential{Token: out.Token, User: out.User.toModel()}, nil
}

// Login authenticates and returns the issued credential.
func (c *Client) Login(ctx context.Context, email, password string) (model.Credential, error) {
	body := map[string]string{"email": email, "password": password}
	var out credentialDTO
	if err := c.doJSON(ctx, http.MethodPost, c.authURL("/auth/login"), body, &out); err != nil {
		return model.Credential{}, err
	}
	if out.Token == "" {
		return model.Credential{}, fmt.Errorf("login response carried no token")
	}
	return model.Credential{Token: out.Token, User: out.User.toModel()}, nil
}

// Profile fetches the authenticated account record.
func (c *Client) Profile(ctx context.Context) (model.User, error) {
	var out userDTO
	if err := c.doJSON(ctx, http.MethodGet, c.authURL("/auth/profile"), nil, &out); err != nil {
		return model.User{}, err
	}
	return out.toModel(), nil
}

// ForgotPassword starts the password reset flow.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, c.authURL("/auth/forgotpassword"), body, nil)
}

// ResetPassword completes the password reset flow.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	body := map[string]string{"email": email, "resetCode": code, "newPassword": newPassword}
	return c.doJSON(ctx, http.MethodPost, c.authURL("/auth/resetpassword"), body, nil)
}

// Logout invalidates the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, c.authURL("/auth/logout"), nil, nil)
}

// UpdateUsername renames the authenticated account.
func (c *Client) UpdateUsername(ctx context.Context, newUsername string) error {
	body := map[string]string{"newUsername": newUsername}
	return c.doJSON(ctx, http.MethodPut, c.authURL("/auth/update-username"), body, nil)
}

// UpdatePassword changes the authenticated account's password.
func (c *Client) UpdatePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	body := map[string]string{
		"oldPassword":     oldPassword,
		"newPassword":     newPassword,
		"confirmPassword": confirmPassword,
	}
	return c.doJSON(ctx, http.MethodPut, c.authURL("/auth/update-password"), body, nil)
}
