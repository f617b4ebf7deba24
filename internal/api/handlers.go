// Package api contains the HTTP handlers of the artisanhub service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"artisanhub/backend/internal/auth"
	"artisanhub/backend/internal/marketplace"
	"artisanhub/backend/internal/repository"
	"artisanhub/backend/internal/services"
	"artisanhub/backend/internal/workflow"
	"artisanhub/backend/pkg/models"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Account is the part of the marketplace API proxied one-to-one.
type Account interface {
	ForgotPassword(ctx context.Context, email string) (*marketplace.Ack, error)
	ValidateResetCode(ctx context.Context, reset marketplace.PasswordReset) (*marketplace.Ack, error)
	ResetPassword(ctx context.Context, reset marketplace.PasswordReset) (*marketplace.Ack, error)
	ValidateEmail(ctx context.Context, email string) (*marketplace.Ack, error)
	ConfirmEmailValidation(ctx context.Context, v marketplace.EmailValidation) (*marketplace.Ack, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	UpdateUser(ctx context.Context, token, id string, upd marketplace.UserUpdate) (*models.User, error)
	UploadPicture(ctx context.Context, token string, body io.Reader, contentType string) (*marketplace.Ack, error)
	GetJob(ctx context.Context, token, id string) (*models.Job, error)
	DeleteJob(ctx context.Context, token, id string) error
}

// Expirer forgets a caller whose marketplace token was rejected.
type Expirer interface {
	Expire(w http.ResponseWriter, r *http.Request, id auth.Identity)
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains HTTP handlers for the artisanhub REST API
type Handler struct {
	workflows   *services.WorkflowService
	listings    *services.ListingService
	account     Account
	expirer     Expirer
	pinger      Pinger
	logger      services.Logger
	uploadLimit int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithPinger adds a storage check to the health endpoint.
func WithPinger(p Pinger) Option {
	return func(h *Handler) { h.pinger = p }
}

// WithUploadLimit caps how much of an uploaded file is read.
func WithUploadLimit(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.uploadLimit = n
		}
	}
}

// NewHandler creates a new Handler with required dependencies
func NewHandler(workflows *services.WorkflowService, listings *services.ListingService, account Account,
	expirer Expirer, logger services.Logger, opts ...Option) *Handler {
	h := &Handler{
		workflows:   workflows,
		listings:    listings,
		account:     account,
		expirer:     expirer,
		logger:      logger,
		uploadLimit: services.DefaultMaxAttachmentBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleHealth returns the service status. A failing storage check answers 503.
func (h *Handler) HandleHealth(c echo.Context) error {
	status := models.HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "artisanhub",
		Version:   Version,
	}
	code := http.StatusOK
	if h.pinger != nil {
		status.Checks = map[string]string{"database": "ok"}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			status.Status = "degraded"
			status.Checks["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	return c.JSON(code, status)
}

// identity returns the caller resolved by auth.RequireAuth.
func identity(c echo.Context) (auth.Identity, bool) {
	id, ok := auth.FromContext(c.Request().Context())
	return id, ok && id.Token != ""
}

func unauthorized(c echo.Context) error {
	return problem(c, http.StatusUnauthorized, "Unauthorized", "sign in required", auth.SignInPath)
}

// fail maps a service error to a problem response. A rejected marketplace
// token also forgets the caller's session so the browser signs in again.
func (h *Handler) fail(c echo.Context, err error) error {
	var (
		verr *workflow.ValidationError
		terr *marketplace.TransportError
	)

	switch {
	case errors.Is(err, marketplace.ErrAuthExpired):
		if id, ok := auth.FromContext(c.Request().Context()); ok && h.expirer != nil {
			h.expirer.Expire(c.Response(), c.Request(), id)
		}
		return problem(c, http.StatusUnauthorized, "Unauthorized", "Your session has expired. Please sign in again.", auth.SignInPath)

	case errors.As(err, &verr),
		errors.Is(err, workflow.ErrMissingRequiredField),
		errors.Is(err, workflow.ErrInvalidField):
		if errors.Is(err, services.ErrStepLocked) {
			return problem(c, http.StatusConflict, "Step locked", err.Error(), "")
		}
		return problem(c, http.StatusUnprocessableEntity, "Validation failed", err.Error(), "")

	case errors.Is(err, workflow.ErrSessionNotFound), errors.Is(err, repository.ErrNotFound):
		return problem(c, http.StatusNotFound, "Not Found", err.Error(), "")

	case errors.Is(err, workflow.ErrSubmissionInFlight):
		return problem(c, http.StatusConflict, "Submission in progress", err.Error(), "")

	case errors.Is(err, services.ErrFileTooLarge):
		return problem(c, http.StatusRequestEntityTooLarge, "File too large", err.Error(), "")

	case errors.Is(err, services.ErrUnknownKind),
		errors.Is(err, services.ErrUnknownStep),
		errors.Is(err, services.ErrInvalidSlot),
		errors.Is(err, services.ErrLastStep):
		return problem(c, http.StatusBadRequest, "Bad Request", err.Error(), "")

	case errors.As(err, &terr):
		status := http.StatusBadGateway
		if terr.Status == http.StatusNotFound || terr.Status == http.StatusBadRequest ||
			terr.Status == http.StatusConflict || terr.Status == http.StatusUnprocessableEntity {
			status = terr.Status
		}
		h.logger.Warn("marketplace call failed", "op", terr.Op, "status", terr.Status, "error", err)
		return problem(c, status, http.StatusText(status), terr.UserMessage(), "")
	}

	h.logger.Error("request failed", "path", c.Path(), "error", err)
	return problem(c, http.StatusInternalServerError, "Internal Server Error", marketplace.GenericErrorMessage, "")
}

// problem writes an RFC 7807 Problem Details JSON error response
func problem(c echo.Context, status int, title, detail, redirect string) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/problem+json")
	res.WriteHeader(status)
	return json.NewEncoder(res).Encode(models.ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Redirect: redirect,
	})
}

// ErrorHandler renders errors that escape the handlers, such as unknown routes
// and echo.HTTPError, as problem details.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	detail := ""
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			detail = msg
		}
	}
	_ = problem(c, status, http.StatusText(status), detail, "")
}
