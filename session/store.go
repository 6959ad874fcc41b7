package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// DefaultCookieName is where the signed session travels.
const DefaultCookieName = "icoltex_session"

// cookieClaims wraps the opaque backend token inside a signed envelope. There
// is no exp claim on purpose: session validity belongs to the backend and
// surfaces as 401, the cookie only needs to be tamper-evident.
type cookieClaims struct {
	jwt.RegisteredClaims
	BackendToken string `json:"tok"`
}

// CookieStore persists the backend token in an HTTP-only cookie whose value
// is an HS256-signed JWT.
type CookieStore struct {
	name       string
	signingKey []byte
	ttl        time.Duration
	secure     bool
	logger     Logger
}

type StoreOption func(*CookieStore)

func WithCookieName(name string) StoreOption {
	return func(s *CookieStore) {
		if name != "" {
			s.name = name
		}
	}
}

func WithCookieTTL(ttl time.Duration) StoreOption {
	return func(s *CookieStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithInsecureCookie drops the Secure flag for plain-HTTP development.
func WithInsecureCookie() StoreOption {
	return func(s *CookieStore) {
		s.secure = false
	}
}

func WithStoreLogger(logger Logger) StoreOption {
	return func(s *CookieStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewCookieStore(signingKey []byte, opts ...StoreOption) *CookieStore {
	s := &CookieStore{
		name:       DefaultCookieName,
		signingKey: signingKey,
		ttl:        30 * 24 * time.Hour,
		secure:     true,
		logger:     defLogger{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get returns the backend token, or "" when the cookie is absent, tampered
// with, or unreadable. A broken cookie is indistinguishable from no session.
func (s *CookieStore) Get(c router.Context) string {
	raw := c.Cookies(s.name, "")
	if raw == "" {
		return ""
	}

	token, err := s.parse(raw)
	if err != nil {
		s.logger.Debug("discarding unreadable session cookie: %v", err)
		return ""
	}

	return token
}

// Set signs and stores the backend token. Overwrites any previous session.
func (s *CookieStore) Set(c router.Context, token string) {
	value, err := s.mint(token)
	if err != nil {
		s.logger.Error("unable to mint session cookie: %v", err)
		return
	}

	c.Cookie(&router.Cookie{
		Name:     s.name,
		Value:    value,
		Expires:  time.Now().Add(s.ttl),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: "Lax",
	})
}

// Clear expires the cookie.
func (s *CookieStore) Clear(c router.Context) {
	c.Cookie(&router.Cookie{
		Name:     s.name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: "Lax",
	})
}

func (s *CookieStore) mint(token string) (string, error) {
	if token == "" {
		return "", errors.New("refusing to store an empty token", errors.CategoryInternal)
	}

	claims := &cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		BackendToken: token,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign session cookie")
	}

	return signed, nil
}

func (s *CookieStore) parse(raw string) (string, error) {
	parsed, err := jwt.ParseWithClaims(raw, &cookieClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(*cookieClaims)
	if !ok || !parsed.Valid || claims.BackendToken == "" {
		return "", errors.New("session cookie carries no token", errors.CategoryAuth)
	}

	return claims.BackendToken, nil
}
