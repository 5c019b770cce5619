package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelist/internal/models"
	"github.com/desertthunder/reelist/internal/movies"
	"github.com/desertthunder/reelist/internal/session"
	"github.com/desertthunder/reelist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// GoogleUserInfoURL is the OpenID Connect userinfo endpoint queried after sign-in.
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

const (
	stateCookieName = "reelist_oauth_state"
	stateTTL        = 10 * time.Minute
)

// UserProvisioner finds the account for a signed-in email, creating it on first sign-in.
type UserProvisioner interface {
	FindOrCreateByEmail(ctx context.Context, email, name string) (*models.User, bool, error)
}

// GoogleOAuthConfig builds the OAuth2 configuration for Google sign-in.
func GoogleOAuthConfig(creds shared.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Endpoint:     endpoints.Google,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

// GoogleAuthHandler implements the OAuth2 authorization code flow for Google sign-in.
//
// The state parameter is bound to a short-lived cookie for CSRF protection. A successful
// callback finds or creates the user by email and issues the session cookie.
type GoogleAuthHandler struct {
	config      *oauth2.Config
	users       UserProvisioner
	sessions    *session.Manager
	logger      *log.Logger
	userInfoURL string
	client      *http.Client
}

// NewGoogleAuthHandler creates a new sign-in handler. A nil client uses [http.DefaultClient].
func NewGoogleAuthHandler(config *oauth2.Config, users UserProvisioner, sessions *session.Manager, logger *log.Logger, client *http.Client) *GoogleAuthHandler {
	return &GoogleAuthHandler{
		config:      config,
		users:       users,
		sessions:    sessions,
		logger:      logger,
		userInfoURL: GoogleUserInfoURL,
		client:      client,
	}
}

// WithUserInfoURL points the handler at a different userinfo endpoint.
func (h *GoogleAuthHandler) WithUserInfoURL(url string) *GoogleAuthHandler {
	h.userInfoURL = url
	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *GoogleAuthHandler) Routes() []Route {
	return []Route{
		{Path: "/api/auth/signin/google", Methods: []string{http.MethodGet}},
		{Path: "/api/auth/callback/google", Methods: []string{http.MethodGet}},
	}
}

func (h *GoogleAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/auth/signin/google":
		h.signIn(w, r)
	case "/api/auth/callback/google":
		h.callback(w, r)
	default:
		http.NotFound(w, r)
	}
}

// signIn redirects to Google's consent page with a fresh state token.
func (h *GoogleAuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.config.AuthCodeURL(state), http.StatusFound)
}

// callback validates state, exchanges the code, and signs the user in.
func (h *GoogleAuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/api/auth", MaxAge: -1})

	cookie, err := r.Cookie(stateCookieName)
	state := r.URL.Query().Get("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		h.logger.Warn("invalid oauth state")
		writeJSON(w, http.StatusBadRequest, movies.Body{Error: "Invalid state parameter"})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.Warn("authorization failed",
			"error", r.URL.Query().Get("error"),
			"description", r.URL.Query().Get("error_description"))
		writeJSON(w, http.StatusBadRequest, movies.Body{Error: "Authorization failed"})
		return
	}

	ctx := r.Context()
	if h.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, h.client)
	}

	token, err := h.config.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("token exchange failed", "error", err)
		writeJSON(w, http.StatusBadGateway, movies.Body{Error: "Token exchange failed"})
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.logger.Error("failed to fetch user info", "error", err)
		writeJSON(w, http.StatusBadGateway, movies.Body{Error: "Failed to fetch user info"})
		return
	}

	user, created, err := h.users.FindOrCreateByEmail(ctx, info.Email, info.Name)
	if err != nil {
		h.logger.Error("failed to provision user", "email", info.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, movies.Body{Error: "Internal server error"})
		return
	}

	signed, expires, err := h.sessions.Issue(user.ID, user.Email, 0)
	if err != nil {
		h.logger.Error("failed to issue session", "user", user.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, movies.Body{Error: "Internal server error"})
		return
	}

	h.sessions.SetCookie(w, signed, expires)
	h.logger.Info("signed in", "user", user.ID, "created", created)
	http.Redirect(w, r, "/", http.StatusFound)
}

type userInfo struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (h *GoogleAuthHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := h.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: userinfo status %d: %s", shared.ErrAuthFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: user info has no email", shared.ErrAuthFailed)
	}
	if !info.EmailVerified {
		return nil, fmt.Errorf("%w: email %s is not verified", shared.ErrAuthFailed, info.Email)
	}

	return &info, nil
}

// SessionHandler reports and ends the current session.
type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Routes() []Route {
	return []Route{
		{Path: "/api/auth/session", Methods: []string{http.MethodGet}},
		{Path: "/api/auth/signout", Methods: []string{http.MethodPost}},
	}
}

type sessionBody struct {
	User    *session.Session `json:"user,omitempty"`
	Expires *time.Time       `json:"expires,omitempty"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/auth/session":
		s, err := h.sessions.FromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusOK, sessionBody{})
			return
		}
		expires := s.ExpiresAt.UTC()
		writeJSON(w, http.StatusOK, sessionBody{User: s, Expires: &expires})
	case "/api/auth/signout":
		h.sessions.ClearCookie(w)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		http.NotFound(w, r)
	}
}
