package session

import (
	"context"

	"github.com/goliatone/go-router"
	"github.com/icoltex/storefront/client"
)

// AreaKind names which side of the site an area serves.
type AreaKind string

const (
	AreaUser  AreaKind = "user"
	AreaAdmin AreaKind = "admin"
)

// Area parameterizes a guard: where its login form lives, where its members
// land, and where a member of the other kind gets relocated to.
type Area struct {
	Kind            AreaKind
	LoginPath       string
	HomePath        string
	ForeignHomePath string
}

var (
	UserArea = Area{
		Kind:            AreaUser,
		LoginPath:       "/login",
		HomePath:        "/account",
		ForeignHomePath: "/admin",
	}
	AdminArea = Area{
		Kind:            AreaAdmin,
		LoginPath:       "/admin/login",
		HomePath:        "/admin",
		ForeignHomePath: "/account",
	}
)

// IdentityResolver is the slice of the API client the guard needs.
type IdentityResolver interface {
	Me(ctx context.Context, token string) (*client.Identity, error)
}

// Decision is the outcome of one guard evaluation.
type Decision struct {
	Authorized bool
	RedirectTo string
	ClearToken bool
	Identity   *client.Identity
}

// Evaluate decides what to do with a request given the stored token and the
// backend's answer about it. Only a definite 401 clears the token; a
// transient failure redirects but leaves a possibly valid credential alone.
func Evaluate(area Area, token string, identity *client.Identity, lookupErr error) Decision {
	if token == "" {
		return Decision{RedirectTo: area.LoginPath}
	}

	if lookupErr != nil {
		if client.IsUnauthorized(lookupErr) {
			return Decision{RedirectTo: area.LoginPath, ClearToken: true}
		}
		return Decision{RedirectTo: area.LoginPath}
	}

	switch {
	case identity != nil && identity.IsAdmin():
		if area.Kind == AreaAdmin {
			return Decision{Authorized: true, Identity: identity}
		}
		return Decision{RedirectTo: area.ForeignHomePath}
	case identity != nil && identity.IsUser():
		if area.Kind == AreaUser {
			return Decision{Authorized: true, Identity: identity}
		}
		return Decision{RedirectTo: area.ForeignHomePath}
	}

	return Decision{RedirectTo: area.LoginPath}
}

// Locals keys the guard populates for downstream handlers and templates.
const (
	IdentityKey = "session_identity"
	TokenKey    = "session_token"
)

// Guard re-derives the caller's identity from the backend on every request it
// protects. The handler behind it only ever runs once the caller is
// authorized for the area.
type Guard struct {
	area     Area
	store    TokenStore
	resolver IdentityResolver
	logger   Logger
}

type GuardOption func(*Guard)

func WithGuardLogger(logger Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func NewGuard(area Area, store TokenStore, resolver IdentityResolver, opts ...GuardOption) *Guard {
	g := &Guard{
		area:     area,
		store:    store,
		resolver: resolver,
		logger:   defLogger{},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Guard) Area() Area { return g.area }

// Protect returns the middleware enforcing this area. The identity check
// runs on the request context, so an abandoned request cancels it.
func (g *Guard) Protect() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if c.Path() == g.area.LoginPath {
				return next(c)
			}

			token := g.store.Get(c)

			var (
				identity *client.Identity
				err      error
			)
			if token != "" {
				identity, err = g.resolver.Me(c.Context(), token)
				if err != nil {
					g.logger.Debug("identity lookup failed for %s area: %v", g.area.Kind, err)
				}
			}

			decision := Evaluate(g.area, token, identity, err)
			if decision.ClearToken {
				g.store.Clear(c)
			}
			if !decision.Authorized {
				return c.Redirect(decision.RedirectTo, router.StatusSeeOther)
			}

			c.Locals(IdentityKey, decision.Identity)
			c.Locals(TokenKey, token)

			return next(c)
		}
	}
}

// IdentityFromContext recovers the identity the guard stashed.
func IdentityFromContext(c router.Context) (*client.Identity, bool) {
	identity, ok := c.Locals(IdentityKey).(*client.Identity)
	return identity, ok && identity != nil
}

// TokenFromContext recovers the backend token the guard validated.
func TokenFromContext(c router.Context) string {
	token, _ := c.Locals(TokenKey).(string)
	return token
}
