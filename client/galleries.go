package client

import (
	"context"
	"net/url"
)

// Gallery groups the showcase image URLs for one class family + category
// pair.
type Gallery struct {
	ID          string   `json:"_id,omitempty"`
	Category    string   `json:"categoria"`
	ClassFamily string   `json:"claseFamilia"`
	ImageURLs   []string `json:"imageUrls"`
}

type galleryResponse struct {
	ImageURLs []string `json:"imageUrls"`
}

// Gallery fetches the image URLs for one category within a class family.
func (c *Client) Gallery(ctx context.Context, token, category, classFamily string) ([]string, error) {
	q := url.Values{}
	q.Set("categoria", category)
	q.Set("claseFamilia", classFamily)

	out := &galleryResponse{}
	if err := c.get(ctx, "/api/product-galleries?"+q.Encode(), token, out); err != nil {
		return nil, err
	}
	return out.ImageURLs, nil
}

// Galleries lists every gallery row for the admin manager.
func (c *Client) Galleries(ctx context.Context, token string) ([]Gallery, error) {
	var out []Gallery
	if err := c.get(ctx, "/api/product-galleries/list", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveGallery replaces the URL list for one class family + category pair.
// The backend upserts, so the same call creates and edits.
func (c *Client) SaveGallery(ctx context.Context, token string, gallery Gallery) error {
	body := map[string]any{
		"claseFamilia": gallery.ClassFamily,
		"categoria":    gallery.Category,
		"imageUrls":    gallery.ImageURLs,
	}
	return c.put(ctx, "/api/product-galleries", token, body, nil)
}
