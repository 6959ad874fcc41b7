package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-router"
	"github.com/icoltex/storefront/session"
)

var (
	ErrTokenMismatch = errors.New("CSRF token mismatch")
	ErrTokenMissing  = errors.New("CSRF token missing")
	ErrTokenExpired  = errors.New("CSRF token expired")
)

const (
	// ContextKey is where the per-request token lands in locals.
	ContextKey = "csrf_token"

	// FormField is the hidden input every form must carry.
	FormField = "_token"

	headerName = "X-CSRF-Token"
	nonceSize  = 32
)

var safeMethods = []string{"GET", "HEAD", "OPTIONS", "TRACE"}

// Config tunes the middleware. Tokens are stateless: an HMAC over
// timestamp, nonce and a per-visitor key, so no server-side storage exists
// to invalidate.
type Config struct {
	// SecureKey signs tokens. Must be at least 32 bytes.
	SecureKey []byte

	// Expiration bounds token age. Zero means tokens never expire.
	Expiration time.Duration

	// Skip short-circuits the middleware for matching requests.
	Skip func(router.Context) bool

	// ErrorHandler renders validation failures. Defaults to a plain
	// status response.
	ErrorHandler router.ErrorHandler
}

// New returns middleware that issues a token on every request and demands it
// back on unsafe methods.
func New(cfg Config) router.MiddlewareFunc {
	if len(cfg.SecureKey) < 32 {
		panic(fmt.Errorf("csrf: secure key must be at least 32 bytes, got %d", len(cfg.SecureKey)))
	}
	if cfg.Expiration == 0 {
		cfg.Expiration = 24 * time.Hour
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			token, err := Mint(cfg.SecureKey, visitorKey(ctx))
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}
			ctx.Locals(ContextKey, token)

			if slices.Contains(safeMethods, strings.ToUpper(ctx.Method())) {
				return next(ctx)
			}

			received := ctx.FormValue(FormField)
			if received == "" {
				received = ctx.Header(headerName)
			}
			if received == "" {
				return cfg.ErrorHandler(ctx, ErrTokenMissing)
			}

			if err := Verify(cfg.SecureKey, visitorKey(ctx), received, cfg.Expiration); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			return next(ctx)
		}
	}
}

// TokenFromContext recovers the token the middleware minted, for templates.
func TokenFromContext(ctx router.Context) string {
	token, _ := ctx.Locals(ContextKey).(string)
	return token
}

// Mint produces a signed token bound to the visitor key.
func Mint(secureKey []byte, visitor string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	payload := fmt.Sprintf("%d:%s:%s", time.Now().UTC().Unix(), hex.EncodeToString(nonce), visitor)

	mac := hmac.New(sha256.New, secureKey)
	mac.Write([]byte(payload))

	token := payload + ":" + hex.EncodeToString(mac.Sum(nil))
	return base64.RawURLEncoding.EncodeToString([]byte(token)), nil
}

// Verify checks signature, visitor binding and age.
func Verify(secureKey []byte, visitor, token string, maxAge time.Duration) error {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return ErrTokenMismatch
	}

	// timestamp and nonce never contain colons, the visitor segment may
	// (IPv6 addresses), so the signature is split off from the right
	parts := strings.SplitN(string(decoded), ":", 3)
	if len(parts) != 3 {
		return ErrTokenMismatch
	}

	sep := strings.LastIndex(parts[2], ":")
	if sep < 0 {
		return ErrTokenMismatch
	}
	visitorPart := parts[2][:sep]

	timestamp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ErrTokenMismatch
	}

	signature, err := hex.DecodeString(parts[2][sep+1:])
	if err != nil {
		return ErrTokenMismatch
	}

	payload := parts[0] + ":" + parts[1] + ":" + visitorPart
	mac := hmac.New(sha256.New, secureKey)
	mac.Write([]byte(payload))

	if !hmac.Equal(signature, mac.Sum(nil)) {
		return ErrTokenMismatch
	}

	if subtle.ConstantTimeCompare([]byte(visitorPart), []byte(visitor)) != 1 {
		return ErrTokenMismatch
	}

	if maxAge > 0 {
		if time.Now().UTC().After(time.Unix(timestamp, 0).Add(maxAge)) {
			return ErrTokenExpired
		}
	}

	return nil
}

// visitorKey ties tokens to whoever holds the session cookie, falling back
// to the client address for anonymous visitors.
func visitorKey(ctx router.Context) string {
	if raw := ctx.Cookies(session.DefaultCookieName, ""); raw != "" {
		sum := sha256.Sum256([]byte(raw))
		return hex.EncodeToString(sum[:8])
	}
	return "anon_" + ctx.IP()
}

func defaultErrorHandler(ctx router.Context, err error) error {
	switch err {
	case ErrTokenMissing:
		return ctx.Status(router.StatusBadRequest).SendString("CSRF token missing")
	case ErrTokenMismatch:
		return ctx.Status(router.StatusForbidden).SendString("CSRF token mismatch")
	case ErrTokenExpired:
		return ctx.Status(router.StatusForbidden).SendString("CSRF token expired")
	default:
		return ctx.Status(router.StatusInternalServerError).SendString("CSRF validation error")
	}
}
