package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"artisanhub/backend/internal/marketplace"
)

type emailRequest struct {
	Email string `json:"email"`
}

func bindEmail(c echo.Context) (string, error) {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return "", err
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return "", errors.New("email is required")
	}
	return email, nil
}

// ForgotPassword mails a reset code
// (POST /auth/forgot-password)
func (h *Handler) ForgotPassword(c echo.Context) error {
	email, err := bindEmail(c)
	if err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err.Error(), "")
	}
	ack, err := h.account.ForgotPassword(c.Request().Context(), email)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

// ValidateResetCode checks a reset code
// (POST /auth/validate-reset-code)
func (h *Handler) ValidateResetCode(c echo.Context) error {
	var reset marketplace.PasswordReset
	if err := c.Bind(&reset); err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err.Error(), "")
	}
	ack, err := h.account.ValidateResetCode(c.Request().Context(), reset)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

// ResetPassword sets a new password
// (POST /auth/reset-password)
func (h *Handler) ResetPassword(c echo.Context) error {
	var reset marketplace.PasswordReset
	if err := c.Bind(&reset); err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err.Error(), "")
	}
	if reset.NewPassword == "" {
		return problem(c, http.StatusBadRequest, "Invalid request body", "newPassword is required", "")
	}
	ack, err := h.account.ResetPassword(c.Request().Context(), reset)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

// ValidateEmail sends an email verification code
// (POST /auth/validate-email)
func (h *Handler) ValidateEmail(c echo.Context) error {
	email, err := bindEmail(c)
	if err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err.Error(), "")
	}
	ack, err := h.account.ValidateEmail(c.Request().Context(), email)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

// ConfirmEmailValidation confirms an email verification code
// (POST /auth/confirm-email-validation)
func (h *Handler) ConfirmEmailValidation(c echo.Context) error {
	var v marketplace.EmailValidation
	if err := c.Bind(&v); err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err.Error(), "")
	}
	ack, err := h.account.ConfirmEmailValidation(c.Request().Context(), v)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}
