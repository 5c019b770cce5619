// Package session issues and verifies signed session tokens and carries the resolved session through a request context.
//
// Tokens are HS256 JWTs. A session names its user by id, by email, or both; the list writer falls back to the
// email when the id is absent. Tokens are read from the session cookie first, then from an
// "Authorization: Bearer" header.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/reelist/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim of every token this package signs.
const Issuer = "reelist"

// Claims is the JWT payload of a session token.
type Claims struct {
	UserID string `json:"uid,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Session is the verified identity attached to a request.
type Session struct {
	UserID    string    `json:"id,omitempty"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"-"`
}

// HasUserID reports whether the session names its user directly.
func (s *Session) HasUserID() bool { return s != nil && s.UserID != "" }

// Manager signs, parses, and transports session tokens.
type Manager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

// NewManager creates a [Manager] from session configuration.
func NewManager(cfg shared.SessionConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: session.secret", shared.ErrMissingConfig)
	}

	name := cfg.CookieName
	if name == "" {
		name = "reelist_session"
	}

	return &Manager{
		secret:     []byte(cfg.Secret),
		cookieName: name,
		ttl:        cfg.TTL(),
		secure:     cfg.Secure,
		now:        time.Now,
	}, nil
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string { return m.cookieName }

// TTL returns the default token lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a token for the given identity, valid for ttl (the configured TTL when zero).
func (m *Manager) Issue(userID, email string, ttl time.Duration) (string, time.Time, error) {
	if userID == "" && email == "" {
		return "", time.Time{}, fmt.Errorf("%w: user id or email required", shared.ErrMissingArgument)
	}
	if ttl <= 0 {
		ttl = m.ttl
	}

	now := m.now()
	expires := now.Add(ttl)
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}

	return token, expires, nil
}

// Parse verifies a token and returns its session.
//
// Expired tokens wrap [shared.ErrSessionExpired]; every other failure wraps [shared.ErrInvalidSession].
func (m *Manager) Parse(token string) (*Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionExpired, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidSession, err)
	}

	if claims.UserID == "" && claims.Email == "" {
		return nil, fmt.Errorf("%w: no identity", shared.ErrInvalidSession)
	}

	return &Session{
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// FromRequest reads and verifies the session carried by r.
//
// A request without a token returns [shared.ErrNotAuthenticated].
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	token := m.token(r)
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return m.Parse(token)
}

func (m *Manager) token(r *http.Request) string {
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	auth := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// SetCookie writes the session cookie for token.
func (m *Manager) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by [NewContext], if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
