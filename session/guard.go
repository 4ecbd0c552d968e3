// Package session keeps the bearer token between invocations and gates every
// view on the role it carries.
//
// The token claims are read without verifying the signature: the role decoded
// here only decides which views the client offers. The backend verifies the
// token again on every privileged endpoint, so a forged role gains nothing but
// a 401 or 403.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoSession        = errors.New("no session")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInsufficientRole = errors.New("insufficient role")
	ErrExpiredToken     = errors.New("session expired")
)

// IsAuthError reports whether err is one of the guard errors. Every one of them
// means the user has to log in again.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNoSession) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrInsufficientRole) ||
		errors.Is(err, ErrExpiredToken)
}

// Session is the authenticated identity threaded into every guarded operation.
//
// Role is decoded from an unverified token. Use it for navigation only, never
// as proof of privilege.
type Session struct {
	Subject   string
	Role      Role
	RawToken  string
	ExpiresAt time.Time // zero when the token has no expiry
}

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Guard authorizes views against the session found in a Store.
type Guard struct {
	store Store
	now   func() time.Time
}

// NewGuard returns a guard over store.
func NewGuard(store Store) *Guard {
	return &Guard{store: store, now: time.Now}
}

// Authorize returns the current session if its role satisfies req.
//
// On failure the stored token is cleared and the error is one of ErrNoSession,
// ErrMalformedToken, ErrExpiredToken or ErrInsufficientRole. Authorizing a
// valid session has no side effect.
func (g *Guard) Authorize(req Requirement) (Session, error) {
	sess, err := g.current()
	if err == nil && !sess.Role.Allows(req) {
		err = fmt.Errorf("%w: %s role required, session is %s", ErrInsufficientRole, req, sess.Role)
	}
	if err != nil {
		log.Debug().Err(err).Stringer("require", req).Msg("authorization denied")
		g.Revoke()
		return Session{}, err
	}
	return sess, nil
}

// Login stores a freshly issued token and returns the session it opens.
func (g *Guard) Login(token string) (Session, error) {
	if err := g.store.Set(token); err != nil {
		return Session{}, err
	}
	return g.Authorize(RequireAny)
}

// Revoke clears the stored token.
func (g *Guard) Revoke() {
	if err := g.store.Set(""); err != nil {
		log.Warn().Err(err).Msg("cannot clear session")
	}
}

func (g *Guard) current() (Session, error) {
	token, ok := g.store.Get()
	if !ok {
		return Session{}, ErrNoSession
	}
	return decode(token, g.now())
}

// decode reads the claims of token without checking its signature. Only the
// payload segment is decoded, the header is not looked at.
func decode(token string, now time.Time) (Session, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Session{}, fmt.Errorf("%w: %d segments, want 3", ErrMalformedToken, len(parts))
	}
	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return Session{}, fmt.Errorf("%w: payload: %v", ErrMalformedToken, err)
	}
	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return Session{}, fmt.Errorf("%w: claims: %v", ErrMalformedToken, err)
	}
	role, err := ParseRole(c.Role)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	sess := Session{Subject: c.Subject, Role: role, RawToken: token}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
		if !now.Before(sess.ExpiresAt) {
			return Session{}, fmt.Errorf("%w at %s", ErrExpiredToken, sess.ExpiresAt.Format(time.RFC3339))
		}
	}
	return sess, nil
}
