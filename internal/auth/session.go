package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// CookieName is the cookie carrying the signed session token.
	CookieName = "user-session"
	// ContextKey is where the session loader stores validated *Claims.
	ContextKey = "session_claims"

	stateContextKey = "session_state"
)

// ErrTokenRevoked is returned for a well-signed token that was logged out.
var ErrTokenRevoked = errors.New("session token revoked")

// Identity is the authenticated user as carried by the session.
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StudentID string    `json:"studentId"`
	Year      int       `json:"year"`
	IsAdmin   bool      `json:"isAdmin"`
}

// SessionState is the closed set of outcomes of reading a session.
type SessionState int

const (
	// SessionAbsent means no session cookie was sent.
	SessionAbsent SessionState = iota
	// SessionInvalid means a cookie was sent but failed verification or was revoked.
	SessionInvalid
	// SessionUser is a verified non-administrator session.
	SessionUser
	// SessionAdmin is a verified administrator session.
	SessionAdmin
)

// Session is the result of reading the session cookie. Identity is only set
// for SessionUser and SessionAdmin.
type Session struct {
	State    SessionState
	Identity *Identity
}

// Authenticated reports whether the session carries a verified identity.
func (s Session) Authenticated() bool {
	return s.State == SessionUser || s.State == SessionAdmin
}

// SessionManager issues, reads and clears the session cookie.
type SessionManager struct {
	jwt    *JWTService
	tokens TokenStoreInterface
	secure bool
}

// NewSessionManager creates a session manager. secure marks cookies Secure (production).
func NewSessionManager(jwtService *JWTService, tokens TokenStoreInterface, secure bool) *SessionManager {
	return &SessionManager{
		jwt:    jwtService,
		tokens: tokens,
		secure: secure,
	}
}

// Create signs a session token for identity and sets it as the session cookie.
func (m *SessionManager) Create(c echo.Context, identity Identity) error {
	token, _, err := m.jwt.GenerateSessionToken(identity)
	if err != nil {
		return err
	}
	c.SetCookie(m.cookie(token, int(SessionTokenExpiry/time.Second)))
	return nil
}

// Parse verifies a raw session token, including the revocation list.
func (m *SessionManager) Parse(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := m.tokens.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// MarkUnresolved records why no claims were loaded for the request: absent when
// no cookie was sent, invalid otherwise.
func (m *SessionManager) MarkUnresolved(c echo.Context) {
	if cookie, err := c.Cookie(CookieName); err != nil || cookie.Value == "" {
		c.Set(stateContextKey, SessionAbsent)
		return
	}
	c.Set(stateContextKey, SessionInvalid)
}

// Read returns the session for the request. It never fails: a cookie that cannot
// be verified yields SessionInvalid.
func (m *SessionManager) Read(c echo.Context) Session {
	if claims, ok := c.Get(ContextKey).(*Claims); ok {
		return sessionFromClaims(claims)
	}
	if state, ok := c.Get(stateContextKey).(SessionState); ok {
		return Session{State: state}
	}

	// loader middleware not installed on this route
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{State: SessionAbsent}
	}
	claims, err := m.Parse(c.Request().Context(), cookie.Value)
	if err != nil {
		return Session{State: SessionInvalid}
	}
	return sessionFromClaims(claims)
}

// Clear expires the session cookie and revokes its token for the rest of its lifetime.
func (m *SessionManager) Clear(c echo.Context) error {
	var revokeErr error
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		if claims, err := m.jwt.ValidateToken(cookie.Value); err == nil && claims.ExpiresAt != nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			revokeErr = m.tokens.RevokeToken(c.Request().Context(), claims.ID, ttl)
		}
	}
	c.SetCookie(m.cookie("", -1))
	c.Set(ContextKey, nil)
	c.Set(stateContextKey, SessionAbsent)
	return revokeErr
}

func (m *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		cookie.Expires = time.Unix(0, 0)
	}
	return cookie
}

func sessionFromClaims(claims *Claims) Session {
	identity, err := claims.Identity()
	if err != nil {
		return Session{State: SessionInvalid}
	}
	if identity.IsAdmin {
		return Session{State: SessionAdmin, Identity: &identity}
	}
	return Session{State: SessionUser, Identity: &identity}
}
