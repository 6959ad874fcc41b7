package web

import (
	"context"
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/icoltex/storefront/client"
	"github.com/icoltex/storefront/session"
)

const adminPageSize = 50

// adminAPI is the slice of the API client the back office needs.
type adminAPI interface {
	Products(ctx context.Context, token string, filter client.ProductFilter) (*client.ProductPage, error)
	Product(ctx context.Context, token, id string) (*client.Product, error)
	ProductClasses(ctx context.Context, token string) ([]string, error)
	ProductCategories(ctx context.Context, token, classFamily string) ([]string, error)
	Galleries(ctx context.Context, token string) ([]client.Gallery, error)
	SaveGallery(ctx context.Context, token string, gallery client.Gallery) error
	Users(ctx context.Context, token string, filter client.UserFilter) (*client.UserPage, error)
	Admins(ctx context.Context, token string) ([]client.Admin, error)
	PromoteUser(ctx context.Context, token, id string) error
	Sync(ctx context.Context, token, jobType string) (json.RawMessage, error)
	DisplayImageURL(raw string) string
}

// AdminController serves the back office behind the admin guard.
type AdminController struct {
	Logger session.Logger
	API    adminAPI
}

func NewAdminController(api adminAPI, logger session.Logger) *AdminController {
	if api == nil {
		panic("Missing API client in admin controller...")
	}
	return &AdminController{API: api, Logger: loggerOrDefault(logger)}
}

func (a *AdminController) Dashboard(ctx router.Context) error {
	token := session.TokenFromContext(ctx)

	data := router.ViewContext{}

	// counts are decoration, the dashboard still renders without them
	if page, err := a.API.Products(ctx.Context(), token, client.ProductFilter{Limit: 1}); err == nil {
		data["product_count"] = page.Pagination.Total
	}
	if page, err := a.API.Users(ctx.Context(), token, client.UserFilter{Limit: 1}); err == nil {
		data["user_count"] = page.Pagination.Total
	}

	return ctx.Render("admin/dashboard", viewData(ctx, data))
}

// productFilter builds the listing filter from the query string values.
func productFilter(page int, category, classFamily, active, priceMin, priceMax string) client.ProductFilter {
	return client.ProductFilter{
		Page:        page,
		Limit:       adminPageSize,
		Category:    category,
		ClassFamily: classFamily,
		Active:      active,
		PriceMin:    priceMin,
		PriceMax:    priceMax,
	}
}

func (a *AdminController) ProductsIndex(ctx router.Context) error {
	token := session.TokenFromContext(ctx)

	filter := productFilter(
		ctx.QueryInt("page", 1),
		ctx.Query("categoria", ""),
		ctx.Query("clase", ""),
		ctx.Query("activo", ""),
		ctx.Query("precio_min", ""),
		ctx.Query("precio_max", ""),
	)

	page, err := a.API.Products(ctx.Context(), token, filter)
	if err != nil {
		a.Logger.Error("products listing failed: %v", err)
		return a.renderError(ctx, err)
	}

	classes, err := a.API.ProductClasses(ctx.Context(), token)
	if err != nil {
		a.Logger.Error("product classes lookup failed: %v", err)
		classes = nil
	}

	categories, err := a.API.ProductCategories(ctx.Context(), token, filter.ClassFamily)
	if err != nil {
		a.Logger.Error("product categories lookup failed: %v", err)
		categories = nil
	}

	return ctx.Render("admin/products", viewData(ctx, router.ViewContext{
		"products":   page.Products,
		"pagination": page.Pagination,
		"classes":    classes,
		"categories": categories,
		"filter":     filter,
	}))
}

func (a *AdminController) ProductShow(ctx router.Context) error {
	token := session.TokenFromContext(ctx)

	id := ctx.Param("id", "")
	product, err := a.API.Product(ctx.Context(), token, id)
	if err != nil {
		a.Logger.Error("product lookup failed: %v", err)
		return a.renderError(ctx, err)
	}

	images := make([]string, 0, len(product.ImageURLs))
	for _, raw := range product.ImageURLs {
		images = append(images, a.API.DisplayImageURL(raw))
	}

	return ctx.Render("admin/product_detail", viewData(ctx, router.ViewContext{
		"product": product,
		"images":  images,
	}))
}

func (a *AdminController) GalleriesIndex(ctx router.Context) error {
	token := session.TokenFromContext(ctx)

	galleries, err := a.API.Galleries(ctx.Context(), token)
	if err != nil {
		a.Logger.Error("galleries listing failed: %v", err)
		return a.renderError(ctx, err)
	}

	return ctx.Render("admin/galleries", viewData(ctx, router.ViewContext{
		"galleries": galleries,
	}))
}

// GalleryForm posts the full replacement URL list, one URL per line.
type GalleryForm struct {
	ClassFamily string `form:"clase_familia" json:"clase_familia"`
	Category    string `form:"categoria" json:"categoria"`
	ImageURLs   string `form:"image_urls" json:"image_urls"`
}

func (f GalleryForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ClassFamily, validation.Required),
		validation.Field(&f.Category, validation.Required),
	)
}

func (f GalleryForm) urls() []string {
	var out []string
	for _, line := range strings.Split(f.ImageURLs, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, client.NormalizeImageURL(line))
	}
	return out
}

func (a *AdminController) GallerySave(ctx router.Context) error {
	token := session.TokenFromContext(ctx)
	payload := new(GalleryForm)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("gallery parse payload: %v", err)
		return a.renderError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Clase y categoría son obligatorias",
		}).Redirect("/admin/galleries", fiber.StatusSeeOther)
	}

	gallery := client.Gallery{
		ClassFamily: payload.ClassFamily,
		Category:    payload.Category,
		ImageURLs:   payload.urls(),
	}

	if err := a.API.SaveGallery(ctx.Context(), token, gallery); err != nil {
		a.Logger.Error("gallery save failed: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  client.Message(err),
			"system_message": "No se pudo guardar la galería",
		}).Redirect("/admin/galleries", fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Galería guardada",
	}).Redirect("/admin/galleries", fiber.StatusSeeOther)
}

func (a *AdminController) UsersIndex(ctx router.Context) error {
	token := session.TokenFromContext(ctx)

	filter := client.UserFilter{
		Page:   ctx.QueryInt("page", 1),
		Limit:  adminPageSize,
		Active: ctx.Query("activo", ""),
	}

	page, err := a.API.Users(ctx.Context(), token, filter)
	if err != nil {
		a.Logger.Error("users listing failed: %v", err)
		return a.renderError(ctx, err)
	}

	return ctx.Render("admin/users", viewData(ctx, router.ViewContext{
		"users":      page.Users,
		"pagination": page.Pagination,
		"filter":     filter,
	}))
}

func (a *AdminController) UserPromote(ctx router.Context) error {
	token := session.TokenFromContext(ctx)

	id := ctx.Param("id", "")
	if err := a.API.PromoteUser(ctx.Context(), token, id); err != nil {
		a.Logger.Error("user promote failed: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  client.Message(err),
			"system_message": "No se pudo promover el usuario",
		}).Redirect("/admin/users", fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Usuario promovido a administrador",
	}).Redirect("/admin/users", fiber.StatusSeeOther)
}

func (a *AdminController) AdminsIndex(ctx router.Context) error {
	token := session.TokenFromContext(ctx)

	admins, err := a.API.Admins(ctx.Context(), token)
	if err != nil {
		a.Logger.Error("admins listing failed: %v", err)
		return a.renderError(ctx, err)
	}

	return ctx.Render("admin/admins", viewData(ctx, router.ViewContext{
		"admins": admins,
	}))
}

func (a *AdminController) SyncShow(ctx router.Context) error {
	return ctx.Render("admin/sync", viewData(ctx, router.ViewContext{
		"types": client.SyncTypes,
	}))
}

// SyncForm picks which ERP job to run.
type SyncForm struct {
	Type string `form:"type" json:"type"`
}

func (f SyncForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Type, validation.Required,
			validation.In("clients", "products", "classes", "categories")),
	)
}

func (a *AdminController) SyncRun(ctx router.Context) error {
	token := session.TokenFromContext(ctx)
	payload := new(SyncForm)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("sync parse payload: %v", err)
		return a.renderError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Tipo de sincronización desconocido",
		}).Redirect("/admin/sync", fiber.StatusSeeOther)
	}

	report, err := a.API.Sync(ctx.Context(), token, payload.Type)
	if err != nil {
		a.Logger.Error("sync %s failed: %v", payload.Type, err)
		return ctx.Render("admin/sync", viewData(ctx, router.ViewContext{
			"types": client.SyncTypes,
			"ran":   payload.Type,
			"error": client.Message(err),
		}))
	}

	return ctx.Render("admin/sync", viewData(ctx, router.ViewContext{
		"types":  client.SyncTypes,
		"ran":    payload.Type,
		"report": print.MaybePrettyJSON(report),
	}))
}

func (a *AdminController) renderError(ctx router.Context, err error) error {
	return ctx.Status(fiber.StatusBadGateway).Render("errors/500", viewData(ctx, router.ViewContext{
		"message": client.Message(err),
	}))
}
