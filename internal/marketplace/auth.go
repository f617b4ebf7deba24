package marketplace

import (
	"context"
	"net/http"

	"artisanhub/backend/pkg/models"
)

// Credentials is the password login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up body.
type Registration struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Phone     string      `json:"phone,omitempty"`
	Role      models.Role `json:"role"`
}

// ExternalCredentials carries a token issued by a third-party identity provider.
type ExternalCredentials struct {
	Provider string      `json:"provider"`
	IDToken  string      `json:"idToken"`
	Role     models.Role `json:"role,omitempty"`
}

// PasswordReset is the body of reset-password and validate-reset-code.
type PasswordReset struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword,omitempty"`
}

// EmailValidation is the body of confirm-email-validation.
type EmailValidation struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// AuthResult is returned by every call that signs a user in.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

// Ack is the body of calls that only confirm an action.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (c *Client) authCall(ctx context.Context, path string, payload, out any) error {
	r, err := jsonRequest(http.MethodPost, "/auth/"+path, "", payload)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var res AuthResult
	if err := c.authCall(ctx, "login", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResult, error) {
	var res AuthResult
	if err := c.authCall(ctx, "register", reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ExternalLogin signs in with an identity provider token.
func (c *Client) ExternalLogin(ctx context.Context, creds ExternalCredentials) (*AuthResult, error) {
	var res AuthResult
	if err := c.authCall(ctx, "external-login", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ExternalRegister creates an account from an identity provider token.
func (c *Client) ExternalRegister(ctx context.Context, creds ExternalCredentials) (*AuthResult, error) {
	var res AuthResult
	if err := c.authCall(ctx, "external-register", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ForgotPassword asks the marketplace to mail a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*Ack, error) {
	var ack Ack
	if err := c.authCall(ctx, "forgot-password", map[string]string{"email": email}, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ValidateResetCode checks a reset code before the new password is chosen.
func (c *Client) ValidateResetCode(ctx context.Context, reset PasswordReset) (*Ack, error) {
	var ack Ack
	if err := c.authCall(ctx, "validate-reset-code", reset, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ResetPassword sets a new password using a reset code.
func (c *Client) ResetPassword(ctx context.Context, reset PasswordReset) (*Ack, error) {
	var ack Ack
	if err := c.authCall(ctx, "reset-password", reset, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ValidateEmail sends an email verification code.
func (c *Client) ValidateEmail(ctx context.Context, email string) (*Ack, error) {
	var ack Ack
	if err := c.authCall(ctx, "validate-email", map[string]string{"email": email}, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ConfirmEmailValidation confirms an email verification code.
func (c *Client) ConfirmEmailValidation(ctx context.Context, v EmailValidation) (*Ack, error) {
	var ack Ack
	if err := c.authCall(ctx, "confirm-email-validation", v, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
