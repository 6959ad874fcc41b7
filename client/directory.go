package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// UserFilter narrows the registered-customer listing.
type UserFilter struct {
	Page   int
	Limit  int
	Active string
}

func (f UserFilter) query() string {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Active != "" {
		q.Set("activo", f.Active)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// UserPage is one page of the customer directory.
type UserPage struct {
	Users      []Account  `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// Users lists registered customers.
func (c *Client) Users(ctx context.Context, token string, filter UserFilter) (*UserPage, error) {
	out := &UserPage{}
	if err := c.get(ctx, "/api/users"+filter.query(), token, out); err != nil {
		return nil, err
	}
	return out, nil
}

type adminsResponse struct {
	Admins []Admin `json:"admins"`
}

// Admins lists back-office operators.
func (c *Client) Admins(ctx context.Context, token string) ([]Admin, error) {
	out := &adminsResponse{}
	if err := c.get(ctx, "/api/admins", token, out); err != nil {
		return nil, err
	}
	return out.Admins, nil
}

// PromoteUser grants a customer admin rights.
func (c *Client) PromoteUser(ctx context.Context, token, id string) error {
	return c.post(ctx, "/api/users/"+url.PathEscape(id)+"/promote", token, nil, nil)
}

// SyncTypes are the batch jobs the ERP bridge exposes.
var SyncTypes = []string{"clients", "products", "classes", "categories"}

// Sync triggers one ERP import job and returns the raw job report, which has
// no stable shape across job types.
func (c *Client) Sync(ctx context.Context, token, jobType string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.post(ctx, "/api/sync/"+url.PathEscape(jobType), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
