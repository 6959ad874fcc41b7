package web

import (
	"github.com/goliatone/go-router"
	"github.com/icoltex/storefront/csrf"
	"github.com/icoltex/storefront/session"
)

// viewData decorates a view context with the request-scoped values every
// template wants: the CSRF token and, on guarded routes, the identity.
func viewData(ctx router.Context, data router.ViewContext) router.ViewContext {
	if data == nil {
		data = router.ViewContext{}
	}

	data["csrf_token"] = csrf.TokenFromContext(ctx)

	if identity, ok := session.IdentityFromContext(ctx); ok {
		data["identity"] = identity
		if identity.IsAdmin() {
			data["admin"] = identity.Admin
		}
		if identity.IsUser() {
			data["user"] = identity.User
		}
	}

	return data
}
