package web

import (
	"crypto/sha256"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"
	"github.com/google/uuid"
	"github.com/icoltex/storefront/client"
	"github.com/icoltex/storefront/config"
	"github.com/icoltex/storefront/csrf"
	"github.com/icoltex/storefront/session"
)

// App wires the API client, the token store, both guards and every
// controller into one HTTP server.
type App struct {
	cfg    *config.Config
	api    *client.Client
	store  *session.CookieStore
	srv    router.Server[*fiber.App]
	logger session.Logger
}

func NewApp(cfg *config.Config, logger session.Logger) *App {
	logger = loggerOrDefault(logger)

	api := client.New(cfg.APIURL)

	storeOpts := []session.StoreOption{session.WithStoreLogger(logger)}
	if cfg.Debug {
		storeOpts = append(storeOpts, session.WithInsecureCookie())
	}
	store := session.NewCookieStore([]byte(cfg.SessionSecret), storeOpts...)

	engine := django.New(cfg.ViewsDir, ".html")
	if cfg.Debug {
		engine.Reload(true)
	}

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	app := &App{
		cfg:    cfg,
		api:    api,
		store:  store,
		srv:    srv,
		logger: logger,
	}

	app.middleware()
	app.routes()

	return app
}

// Serve blocks on the configured listen address.
func (a *App) Serve() error {
	a.logger.Info("storefront listening on %s (backend %s)", a.cfg.ListenAddr, a.cfg.APIURL)
	return a.srv.Serve(a.cfg.ListenAddr)
}

func (a *App) middleware() {
	r := a.srv.Router()

	r.Use(requestID())
	r.Use(mflash.New(mflash.ConfigDefault))

	key := sha256.Sum256([]byte(a.cfg.SessionSecret))
	r.Use(csrf.New(csrf.Config{
		SecureKey: key[:],
	}))
}

func (a *App) routes() {
	r := a.srv.Router()

	store := NewStoreController(a.api, a.logger)
	account := NewAccountController(a.api, a.logger)
	admin := NewAdminController(a.api, a.logger)

	userAuth := NewAuthController(a.api, a.store, session.UserArea, &AuthViews{
		Login:    "auth/login",
		Register: "auth/register",
	}, WithAuthLogger(a.logger), WithAuthDebug(a.cfg.Debug))

	adminAuth := NewAuthController(a.api, a.store, session.AdminArea, &AuthViews{
		Login: "auth/admin_login",
	}, WithAuthLogger(a.logger), WithAuthDebug(a.cfg.Debug))

	userGuard := session.NewGuard(session.UserArea, a.store, a.api,
		session.WithGuardLogger(a.logger))
	adminGuard := session.NewGuard(session.AdminArea, a.store, a.api,
		session.WithGuardLogger(a.logger))

	protectUser := userGuard.Protect()
	protectAdmin := adminGuard.Protect()

	// public storefront
	r.Get("/", store.Home)
	r.Get("/shop", store.Shop)
	r.Get("/checkout", store.Checkout)
	r.Get("/about", store.About)
	r.Get("/contact", store.Contact)
	r.Get("/blog", store.Blog)

	// customer auth
	r.Get("/login", userAuth.LoginShow)
	r.Post("/login", userAuth.LoginPost)
	r.Get("/register", userAuth.RegisterShow)
	r.Post("/register", userAuth.RegisterPost)
	r.Get("/logout", userAuth.Logout)

	// customer area
	r.Get("/account", account.Home, protectUser)
	r.Get("/account/profile", account.ProfileShow, protectUser)
	r.Post("/account/profile", account.ProfilePost, protectUser)

	// back-office auth
	r.Get("/admin/login", adminAuth.LoginShow)
	r.Post("/admin/login", adminAuth.LoginPost)
	r.Get("/admin/logout", adminAuth.Logout)

	// back office
	r.Get("/admin", admin.Dashboard, protectAdmin)
	r.Get("/admin/products", admin.ProductsIndex, protectAdmin)
	r.Get("/admin/products/:id", admin.ProductShow, protectAdmin)
	r.Get("/admin/galleries", admin.GalleriesIndex, protectAdmin)
	r.Post("/admin/galleries", admin.GallerySave, protectAdmin)
	r.Get("/admin/users", admin.UsersIndex, protectAdmin)
	r.Post("/admin/users/:id/promote", admin.UserPromote, protectAdmin)
	r.Get("/admin/admins", admin.AdminsIndex, protectAdmin)
	r.Get("/admin/sync", admin.SyncShow, protectAdmin)
	r.Post("/admin/sync", admin.SyncRun, protectAdmin)

	r.Static("/public", ".", router.Static{
		FS:   os.DirFS(a.cfg.AssetsDir),
		Root: ".",
	})
}

// requestID tags every request for log correlation.
func requestID() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			id := ctx.Header("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			ctx.Locals("request_id", id)
			ctx.SetHeader("X-Request-ID", id)
			return next(ctx)
		}
	}
}
