package api

import "time"

// Item is a single inventory record as returned by the inventory API.
type Item struct {
	ID          int64      `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Category    string     `json:"category" yaml:"category"`
	SKU         string     `json:"sku" yaml:"sku"`
	Description *string    `json:"description,omitempty" yaml:"description,omitempty"`
	Quantity    int        `json:"quantity" yaml:"quantity"`
	Price       float64    `json:"price" yaml:"price"`
	Location    *string    `json:"location,omitempty" yaml:"location,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// DescriptionText returns the description or "" when absent.
func (i Item) DescriptionText() string {
	if i.Description == nil {
		return ""
	}
	return *i.Description
}

// LocationText returns the location or "" when absent.
func (i Item) LocationText() string {
	if i.Location == nil {
		return ""
	}
	return *i.Location
}

// ItemInput carries the writable item fields for create and update calls.
type ItemInput struct {
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	SKU         string  `json:"sku" yaml:"sku"`
	Description string  `json:"description" yaml:"description"`
	Quantity    int     `json:"quantity" yaml:"quantity"`
	Price       float64 `json:"price" yaml:"price"`
	Location    string  `json:"location" yaml:"location"`
}

// CategorySummary is the server computed aggregate for one category label.
type CategorySummary struct {
	Category   string  `json:"category" yaml:"category"`
	ItemCount  int     `json:"item_count" yaml:"item_count"`
	TotalValue float64 `json:"total_value" yaml:"total_value"`
}

// PageResult is one page of items. Page and TotalPages are 1-based.
type PageResult struct {
	Items      []Item `json:"items" yaml:"items"`
	Page       int    `json:"page" yaml:"page"`
	PerPage    int    `json:"per_page" yaml:"per_page"`
	Total      int    `json:"total" yaml:"total"`
	TotalPages int    `json:"total_pages" yaml:"total_pages"`
}

// ListParams selects a page of the plain item listing.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
}
