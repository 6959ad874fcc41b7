package web

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/icoltex/storefront/session"
)

// AuthViews names the templates one auth controller renders.
type AuthViews struct {
	Login    string
	Register string
}

// AuthController serves the staged login and signup forms for one area. The
// customer and admin sides each get their own instance pointed at their own
// views and landing paths.
type AuthController struct {
	Debug  bool
	Logger session.Logger
	API    authAPI
	Store  session.TokenStore
	Area   session.Area
	Views  *AuthViews
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthLogger(logger session.Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithAuthDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(api authAPI, store session.TokenStore, area session.Area, views *AuthViews, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		API:    api,
		Store:  store,
		Area:   area,
		Views:  views,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.API == nil {
		panic("Missing API client in auth controller...")
	}

	if c.Store == nil {
		panic("Missing token store in auth controller...")
	}

	return c
}

func (a *AuthController) LoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.Login, viewData(ctx, router.ViewContext{
		"stage":  StageCredentials,
		"record": LoginForm{Stage: StageCredentials},
	}))
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginForm)

	if err := ctx.Bind(payload); err != nil {
		a.logError("login parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Login, viewData(ctx, router.ViewContext{
			"stage":  StageCredentials,
			"record": payload,
		}))
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	result := advanceLogin(ctx.Context(), a.API, *payload)

	if result.Finished {
		if result.Token != "" {
			a.Store.Set(ctx, result.Token)
		}
		return flash.WithSuccess(ctx, router.ViewContext{
			"system_message": "Sesión iniciada",
		}).Redirect(a.Area.HomePath, fiber.StatusSeeOther)
	}

	return ctx.Render(a.Views.Login, viewData(ctx, router.ViewContext{
		"stage":  result.Stage,
		"record": payload,
		"error":  result.Message,
	}))
}

func (a *AuthController) RegisterShow(ctx router.Context) error {
	return ctx.Render(a.Views.Register, viewData(ctx, router.ViewContext{
		"stage":  StageEmail,
		"record": RegisterForm{Stage: StageEmail},
	}))
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterForm)

	if err := ctx.Bind(payload); err != nil {
		a.logError("register parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Register, viewData(ctx, router.ViewContext{
			"stage":  StageEmail,
			"record": payload,
		}))
	}

	result := advanceRegister(ctx.Context(), a.API, *payload)

	if result.Finished {
		if result.Token != "" {
			a.Store.Set(ctx, result.Token)
		}
		return flash.WithSuccess(ctx, router.ViewContext{
			"system_message": "Registro completado",
		}).Redirect(a.Area.HomePath, fiber.StatusSeeOther)
	}

	return ctx.Render(a.Views.Register, viewData(ctx, router.ViewContext{
		"stage":  result.Stage,
		"record": payload,
		"error":  result.Message,
	}))
}

// Logout invalidates the backend session best effort, always clears the
// local store, and lands on the area login.
func (a *AuthController) Logout(ctx router.Context) error {
	if token := a.Store.Get(ctx); token != "" {
		if err := a.API.Logout(ctx.Context(), token); err != nil {
			a.logError("backend logout failed: %v", err)
		}
	}

	a.Store.Clear(ctx)
	return ctx.Redirect(a.Area.LoginPath, router.StatusSeeOther)
}

func (a *AuthController) logError(format string, args ...any) {
	if a.Logger != nil {
		a.Logger.Error(format, args...)
	}
}
