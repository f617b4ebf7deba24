package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc"
	"golang.org/x/oauth2"

	"artisanhub/backend/internal/config"
	"artisanhub/backend/internal/marketplace"
	"artisanhub/backend/internal/repository"
	"artisanhub/backend/pkg/models"
)

// Cookie names.
const (
	SessionCookie = "artisanhub_session"
	stateCookie   = "oauthstate"
	intentCookie  = "oauthintent"
)

// SignInPath is where the browser is sent when the marketplace session is gone.
const SignInPath = "/signin"

// DevOwner identifies the single user of a bypassed DEV server.
const DevOwner = "dev"

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Marketplace is the part of the marketplace API that signs users in.
type Marketplace interface {
	Login(ctx context.Context, creds marketplace.Credentials) (*marketplace.AuthResult, error)
	Register(ctx context.Context, reg marketplace.Registration) (*marketplace.AuthResult, error)
	ExternalLogin(ctx context.Context, creds marketplace.ExternalCredentials) (*marketplace.AuthResult, error)
	ExternalRegister(ctx context.Context, creds marketplace.ExternalCredentials) (*marketplace.AuthResult, error)
}

// WorkflowDiscarder drops the open workflows of a signed-out owner.
type WorkflowDiscarder interface {
	DiscardOwner(owner string) int
}

// Identity is the caller resolved by RequireAuth.
type Identity struct {
	Owner     string // scopes workflows; the auth session id for cookie sessions
	Token     string // marketplace bearer token
	SessionID string // empty for bearer and bypass callers
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the Identity stored by RequireAuth.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Auth signs users in against the marketplace and keeps their bearer token
// server-side behind a session cookie. External sign-in runs the OpenID
// Connect code flow and hands the verified ID token to the marketplace.
type Auth struct {
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	provider     string
	sessions     repository.SessionStore
	market       Marketplace
	workflows    WorkflowDiscarder
	logger       Logger
	ttl          time.Duration
	secureCookie bool
	authBypass   bool
	devToken     string
	now          func() time.Time
}

// New creates a new Auth object using values from the application
// configuration. External sign-in is enabled when a client id is configured;
// it then connects to the issuer and prepares an ID token verifier.
func New(ctx context.Context, cfg *config.Config, sessions repository.SessionStore, market Marketplace,
	workflows WorkflowDiscarder, logger Logger) (*Auth, error) {
	a := &Auth{
		provider:     cfg.Auth.Provider,
		sessions:     sessions,
		market:       market,
		workflows:    workflows,
		logger:       logger,
		ttl:          cfg.Auth.SessionTTL,
		secureCookie: cfg.Auth.SecureCookie,
		authBypass:   cfg.IsDev() && cfg.DevModeBypass,
		devToken:     cfg.Marketplace.DevToken,
		now:          time.Now,
	}
	if a.authBypass && a.devToken == "" {
		return nil, errors.New("dev_mode_bypass requires marketplace.dev_token")
	}

	if cfg.Auth.ClientID != "" {
		if cfg.Auth.Issuer == "" || cfg.Auth.ClientSecret == "" || cfg.Auth.RedirectURL == "" {
			return nil, errors.New("auth configuration is incomplete")
		}

		provider, err := oidc.NewProvider(ctx, cfg.Auth.Issuer)
		if err != nil {
			return nil, err
		}

		a.oauth2Config = &oauth2.Config{
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.Auth.RedirectURL,
			Scopes:       LoginScopes,
		}
		a.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.Auth.ClientID})
	}

	return a, nil
}

// PasswordLoginHandler signs in with email and password.
func (a *Auth) PasswordLoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds marketplace.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request body", err.Error(), "")
		return
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		writeProblem(w, http.StatusBadRequest, "Missing credentials", "email and password are required", "")
		return
	}

	res, err := a.market.Login(r.Context(), creds)
	if err != nil {
		a.writeMarketplaceError(w, "password login failed", err)
		return
	}
	a.startSession(w, r, res, creds.Email, "password")
}

// RegisterHandler creates a marketplace account and signs it in.
func (a *Auth) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var reg marketplace.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request body", err.Error(), "")
		return
	}
	if reg.Role == "" {
		reg.Role = models.RoleCustomer
	}

	res, err := a.market.Register(r.Context(), reg)
	if err != nil {
		a.writeMarketplaceError(w, "registration failed", err)
		return
	}
	a.startSession(w, r, res, reg.Email, "password")
}

// LoginHandler initiates the OAuth2 authorization code flow by redirecting the
// user to the identity provider. A random state value is stored in a cookie to
// mitigate CSRF attacks. ?intent=register&role=artisan signs up instead.
func (a *Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if a.authBypass {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if a.oauth2Config == nil {
		writeProblem(w, http.StatusNotFound, "External sign-in disabled", "", "")
		return
	}

	state, err := generateState()
	if err != nil {
		http.Error(w, "failed to generate state", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, a.cookie(stateCookie, state, 600))
	if q := r.URL.Query(); q.Get("intent") == "register" {
		http.SetCookie(w, a.cookie(intentCookie, "register:"+q.Get("role"), 600))
	}

	http.Redirect(w, r, a.oauth2Config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// CallbackHandler handles the redirect back from the identity provider. It
// verifies the state parameter, exchanges the code for tokens, validates the
// ID token and signs in to the marketplace with it.
func (a *Auth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	if a.authBypass {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if a.oauth2Config == nil {
		writeProblem(w, http.StatusNotFound, "External sign-in disabled", "", "")
		return
	}

	// verify state
	cookie, err := r.Cookie(stateCookie)
	if err != nil || r.URL.Query().Get("state") != cookie.Value {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, a.cookie(stateCookie, "", -1))

	// exchange code for token
	token, err := a.oauth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		a.logger.Error("token exchange failed", "error", err)
		http.Error(w, "token exchange failed", http.StatusInternalServerError)
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		http.Error(w, "no id_token in token response", http.StatusInternalServerError)
		return
	}

	idToken, err := a.verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		http.Error(w, "failed to verify id token", http.StatusUnauthorized)
		return
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		a.logger.Warn("failed to decode id token claims", "error", err)
	}

	creds := marketplace.ExternalCredentials{Provider: a.provider, IDToken: rawIDToken}
	call := a.market.ExternalLogin
	if intent, err := r.Cookie(intentCookie); err == nil {
		http.SetCookie(w, a.cookie(intentCookie, "", -1))
		if role, ok := strings.CutPrefix(intent.Value, "register:"); ok {
			creds.Role = models.Role(role)
			if creds.Role == "" {
				creds.Role = models.RoleCustomer
			}
			call = a.market.ExternalRegister
		}
	}

	res, err := call(r.Context(), creds)
	if err != nil {
		a.writeMarketplaceError(w, "external sign-in failed", err)
		return
	}
	if _, err := a.saveSession(w, r, res.Token, claims.Email, a.provider); err != nil {
		http.Error(w, "failed to store session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RequireAuth is middleware that resolves the caller's marketplace token. A
// Bearer header passes through untouched; otherwise the session cookie must
// name a live stored session. Anything else is answered with 401 and a
// redirect hint to the sign-in page.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id Identity

		switch {
		case a.authBypass:
			id = Identity{Owner: DevOwner, Token: a.devToken}

		case strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "):
			// Check for Authorization header first (for Swagger/API clients)
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "empty bearer token", SignInPath)
				return
			}
			id = Identity{Owner: bearerOwner(raw), Token: raw}

		default:
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "sign in required", SignInPath)
				return
			}
			sess, err := a.sessions.GetSession(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					a.logger.Error("failed to load session", "error", err)
					writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "", "")
					return
				}
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "session not found", SignInPath)
				return
			}
			if sess.Expired(a.now()) {
				a.Expire(w, r, Identity{Owner: sess.ID, SessionID: sess.ID})
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "session expired", SignInPath)
				return
			}
			id = Identity{Owner: sess.ID, Token: sess.Token, SessionID: sess.ID}
		}

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
	})
}

// Expire forgets the stored token behind id, clears the session cookie and
// drops id's open workflows. The API calls it when the marketplace rejects a
// token as expired.
func (a *Auth) Expire(w http.ResponseWriter, r *http.Request, id Identity) {
	if id.SessionID != "" {
		if err := a.sessions.DeleteSession(context.WithoutCancel(r.Context()), id.SessionID); err != nil {
			a.logger.Error("failed to delete session", "error", err)
		}
		http.SetCookie(w, a.cookie(SessionCookie, "", -1))
	}
	if a.workflows != nil {
		a.workflows.DiscardOwner(id.Owner)
	}
}

// LogoutHandler deletes the stored session, clears the session cookie and
// drops the user's open workflows.
func (a *Auth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		a.Expire(w, r, Identity{Owner: cookie.Value, SessionID: cookie.Value})
		a.logger.Info("signed out")
	}
	http.Redirect(w, r, SignInPath, http.StatusSeeOther)
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, res *marketplace.AuthResult, email, provider string) {
	if res.User != nil && res.User.Email != "" {
		email = res.User.Email
	}
	if _, err := a.saveSession(w, r, res.Token, email, provider); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to store session", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"user": res.User, "redirect": "/"})
}

func (a *Auth) saveSession(w http.ResponseWriter, r *http.Request, token, email, provider string) (*models.AuthSession, error) {
	if token == "" {
		return nil, errors.New("marketplace returned no token")
	}
	id, err := generateState()
	if err != nil {
		return nil, err
	}

	now := a.now()
	sess := &models.AuthSession{
		ID:        id,
		Token:     token,
		Email:     email,
		Provider:  provider,
		CreatedAt: now,
	}
	maxAge := 0
	if a.ttl > 0 {
		sess.ExpiresAt = now.Add(a.ttl)
		maxAge = int(a.ttl.Seconds())
	}
	if err := a.sessions.SaveSession(r.Context(), sess); err != nil {
		a.logger.Error("failed to save session", "error", err)
		return nil, err
	}

	http.SetCookie(w, a.cookie(SessionCookie, sess.ID, maxAge))
	a.logger.Info("signed in", "provider", provider)
	return sess, nil
}

func (a *Auth) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (a *Auth) writeMarketplaceError(w http.ResponseWriter, msg string, err error) {
	a.logger.Warn(msg, "error", err)

	status := http.StatusBadGateway
	var terr *marketplace.TransportError
	switch {
	case errors.Is(err, marketplace.ErrAuthExpired):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Invalid credentials", "")
		return
	case errors.As(err, &terr) && terr.Status >= 400 && terr.Status < 500:
		status = terr.Status
	}
	writeProblem(w, status, http.StatusText(status), marketplace.UserMessage(err), "")
}

func writeProblem(w http.ResponseWriter, status int, title, detail, redirect string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Redirect: redirect,
	})
}

// bearerOwner derives a stable workflow owner from a raw token without
// keeping the token itself as a map key.
func bearerOwner(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "bearer:" + hex.EncodeToString(sum[:8])
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
