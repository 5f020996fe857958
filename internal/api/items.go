package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListItems fetches one page of items, optionally filtered by a search term.
func (c *Client) ListItems(ctx context.Context, params ListParams) (PageResult, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("per_page", strconv.Itoa(params.PerPage))
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	var result PageResult
	err := c.Call(ctx, http.MethodGet, "/items?"+query.Encode(), nil, &result, WithRoute("/items"))
	return result, err
}

// ListCategoryItems fetches one page of the items in category.
func (c *Client) ListCategoryItems(ctx context.Context, category string, page, perPage int) (PageResult, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	endpoint := "/items/category/" + url.PathEscape(category) + "?" + query.Encode()
	var result PageResult
	err := c.Call(ctx, http.MethodGet, endpoint, nil, &result, WithRoute("/items/category/{category}"))
	return result, err
}

// GetItem fetches a single item.
func (c *Client) GetItem(ctx context.Context, id int64) (Item, error) {
	var item Item
	err := c.Call(ctx, http.MethodGet, itemPath(id), nil, &item, WithRoute("/items/{id}"))
	return item, err
}

// CreateItem posts a new item and returns the stored record.
func (c *Client) CreateItem(ctx context.Context, in ItemInput) (Item, error) {
	var item Item
	err := c.Call(ctx, http.MethodPost, "/items", in, &item, WithRoute("/items"))
	return item, err
}

// UpdateItem replaces the writable fields of item id.
func (c *Client) UpdateItem(ctx context.Context, id int64, in ItemInput) (Item, error) {
	var item Item
	err := c.Call(ctx, http.MethodPut, itemPath(id), in, &item, WithRoute("/items/{id}"))
	return item, err
}

// DeleteItem removes item id. The API answers 204 with an empty body.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.Call(ctx, http.MethodDelete, itemPath(id), nil, nil, WithRoute("/items/{id}"))
}

// ListCategories fetches the per-category summaries.
func (c *Client) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	var categories []CategorySummary
	err := c.Call(ctx, http.MethodGet, "/categories", nil, &categories)
	return categories, err
}

// LowStockItems fetches the items whose quantity is at or below threshold.
func (c *Client) LowStockItems(ctx context.Context, threshold int) ([]Item, error) {
	endpoint := "/items/low-stock?threshold=" + strconv.Itoa(threshold)
	var items []Item
	err := c.Call(ctx, http.MethodGet, endpoint, nil, &items, WithRoute("/items/low-stock"))
	return items, err
}

// Health checks if the remote API is available.
func (c *Client) Health(ctx context.Context) error {
	return c.Call(ctx, http.MethodGet, "/health", nil, nil)
}

func itemPath(id int64) string {
	return "/items/" + strconv.FormatInt(id, 10)
}
