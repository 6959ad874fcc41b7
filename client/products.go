package client

import (
	"context"
	"net/url"
	"strconv"
)

// Product mirrors the catalog document. Prices are split by selling unit:
// fabrics sell by meter, some lines by kilo.
type Product struct {
	ID              string   `json:"_id"`
	Code            string   `json:"codigo"`
	Name            string   `json:"nombre"`
	ClassFamily     string   `json:"claseFamilia"`
	Category        string   `json:"categoria"`
	Stock           float64  `json:"stock"`
	Colors          string   `json:"colores"`
	Unit            string   `json:"unidadMedida"`
	Characteristics string   `json:"caracteristica"`
	CareNotes       string   `json:"recomendacionesCuidados"`
	UsageNotes      string   `json:"recomendacionesUsos"`
	PricePerMeter   float64  `json:"precioMetro"`
	PricePerKilo    float64  `json:"precioKilos"`
	Active          bool     `json:"activo"`
	ImageURLs       []string `json:"imageUrls"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// Pagination is the backend's list envelope.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ProductFilter narrows the catalog listing. Zero values mean "not set";
// Active is a tri-state string ("true"/"false"/"") because the backend
// treats absence and false differently.
type ProductFilter struct {
	Page        int
	Limit       int
	Category    string
	ClassFamily string
	PriceMin    float64
	PriceMax    float64
	Active      string
}

func (f ProductFilter) query() string {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.ClassFamily != "" {
		q.Set("classFamily", f.ClassFamily)
	}
	if f.PriceMin > 0 {
		q.Set("precioMin", strconv.FormatFloat(f.PriceMin, 'f', -1, 64))
	}
	if f.PriceMax > 0 {
		q.Set("precioMax", strconv.FormatFloat(f.PriceMax, 'f', -1, 64))
	}
	if f.Active != "" {
		q.Set("activo", f.Active)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Products lists the catalog with the given filter.
func (c *Client) Products(ctx context.Context, token string, filter ProductFilter) (*ProductPage, error) {
	out := &ProductPage{}
	if err := c.get(ctx, "/api/products"+filter.query(), token, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches a single catalog entry.
func (c *Client) Product(ctx context.Context, token, id string) (*Product, error) {
	out := &Product{}
	if err := c.get(ctx, "/api/products/"+url.PathEscape(id), token, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductCategories lists known categories, optionally scoped to a class
// family.
func (c *Client) ProductCategories(ctx context.Context, token, classFamily string) ([]string, error) {
	path := "/api/products/meta/categories"
	if classFamily != "" {
		path += "?claseFamilia=" + url.QueryEscape(classFamily)
	}
	var out []string
	if err := c.get(ctx, path, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductClasses lists the known class families.
func (c *Client) ProductClasses(ctx context.Context, token string) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/api/products/meta/classes", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}
