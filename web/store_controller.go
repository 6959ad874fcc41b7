package web

import (
	"context"

	"github.com/goliatone/go-router"
	"github.com/icoltex/storefront/client"
	"github.com/icoltex/storefront/session"
)

// storeAPI is the slice of the API client the public pages need.
type storeAPI interface {
	Products(ctx context.Context, token string, filter client.ProductFilter) (*client.ProductPage, error)
	DisplayImageURL(raw string) string
}

// StoreController serves the public storefront pages. Nothing here is
// guarded; a missing backend only degrades the home page decoration.
type StoreController struct {
	Logger session.Logger
	API    storeAPI
}

func NewStoreController(api storeAPI, logger session.Logger) *StoreController {
	if api == nil {
		panic("Missing API client in store controller...")
	}
	return &StoreController{API: api, Logger: loggerOrDefault(logger)}
}

func (s *StoreController) Home(ctx router.Context) error {
	data := router.ViewContext{}

	page, err := s.API.Products(ctx.Context(), "", client.ProductFilter{Limit: 8, Active: "true"})
	if err != nil {
		s.Logger.Debug("featured products unavailable: %v", err)
	} else {
		featured := page.Products
		for i := range featured {
			for j, raw := range featured[i].ImageURLs {
				featured[i].ImageURLs[j] = s.API.DisplayImageURL(raw)
			}
		}
		data["featured"] = featured
	}

	return ctx.Render("store/home", viewData(ctx, data))
}

func (s *StoreController) Shop(ctx router.Context) error {
	return ctx.Render("store/shop", viewData(ctx, nil))
}

func (s *StoreController) Checkout(ctx router.Context) error {
	return ctx.Render("store/checkout", viewData(ctx, nil))
}

func (s *StoreController) About(ctx router.Context) error {
	return ctx.Render("store/about", viewData(ctx, nil))
}

func (s *StoreController) Contact(ctx router.Context) error {
	return ctx.Render("store/contact", viewData(ctx, nil))
}

func (s *StoreController) Blog(ctx router.Context) error {
	return ctx.Render("store/blog", viewData(ctx, nil))
}
