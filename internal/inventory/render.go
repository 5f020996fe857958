package inventory

import (
	"fmt"

	"github.com/odyssey-erp/inventory-console/internal/api"
	"github.com/odyssey-erp/inventory-console/internal/shared"
)

// TableColumns is the number of columns in the item table.
const TableColumns = 7

const (
	placeholderText      = "No items found"
	noDescriptionText    = "No description"
	noLocationText       = "N/A"
	allCategoriesLabel   = "All Categories"
	lowStockClass        = "text-red-600 font-semibold"
	normalStockClass     = "text-gray-900"
	lowStockGlyph        = "⚠"
	disabledControlClass = "opacity-50 cursor-not-allowed"
)

// Table is the render instruction for the item table body.
type Table struct {
	Rows []Row
	// Placeholder is set instead of Rows when there is nothing to show.
	Placeholder *Placeholder
}

// Placeholder is a single row spanning the whole table.
type Placeholder struct {
	Colspan int
	Text    string
}

// Row is one rendered item.
type Row struct {
	ID          int64
	Name        string
	Description string
	Category    string
	SKU         string
	Quantity    int
	StockClass  string
	StockGlyph  string
	LowStock    bool
	Price       string
	Location    string
}

// Pagination is the render instruction for the pager.
type Pagination struct {
	Start        int
	End          int
	Total        int
	PageInfo     string
	PrevDisabled bool
	NextDisabled bool
	PrevClass    string
	NextClass    string
}

// CategoryFilter is the render instruction for the category select.
type CategoryFilter struct {
	Options  []FilterOption
	Selected string
}

// FilterOption is a single select option.
type FilterOption struct {
	Value    string
	Label    string
	Selected bool
}

// CategoryStats are the aggregates derived from the category summaries.
type CategoryStats struct {
	TotalCategories int
	TotalValue      string
}

// FormatMoney renders an amount as dollars with exactly two decimals.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// IsLowStock reports whether quantity is at or below threshold.
func IsLowStock(quantity, threshold int) bool {
	return quantity <= threshold
}

// RenderItems maps a page of items to table rows.
func RenderItems(items []api.Item, threshold int) Table {
	if len(items) == 0 {
		return Table{Placeholder: &Placeholder{Colspan: TableColumns, Text: placeholderText}}
	}
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		row := Row{
			ID:          item.ID,
			Name:        item.Name,
			Description: orPlaceholder(item.DescriptionText(), noDescriptionText),
			Category:    item.Category,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			StockClass:  normalStockClass,
			Price:       FormatMoney(item.Price),
			Location:    orPlaceholder(item.LocationText(), noLocationText),
		}
		if IsLowStock(item.Quantity, threshold) {
			row.LowStock = true
			row.StockClass = lowStockClass
			row.StockGlyph = lowStockGlyph
		}
		rows = append(rows, row)
	}
	return Table{Rows: rows}
}

// RenderPagination computes the 1-based inclusive range and pager state.
func RenderPagination(page api.PageResult) Pagination {
	p := shared.Pagination{Page: page.Page, PerPage: page.PerPage, Total: page.Total, TotalPages: page.TotalPages}
	start, end := p.Range(len(page.Items))
	out := Pagination{
		Start:        start,
		End:          end,
		Total:        page.Total,
		PageInfo:     fmt.Sprintf("Page %d of %d", page.Page, page.TotalPages),
		PrevDisabled: !p.HasPrev(),
		NextDisabled: !p.HasNext(),
	}
	if out.PrevDisabled {
		out.PrevClass = disabledControlClass
	}
	if out.NextDisabled {
		out.NextClass = disabledControlClass
	}
	return out
}

// RenderCategoryFilter rebuilds the select options. The previous selection
// is kept only when it is still among the categories.
func RenderCategoryFilter(categories []api.CategorySummary, previous string) CategoryFilter {
	options := make([]FilterOption, 0, len(categories)+1)
	options = append(options, FilterOption{Value: "", Label: allCategoriesLabel})
	selected := ""
	for _, category := range categories {
		if previous != "" && category.Category == previous {
			selected = previous
		}
		options = append(options, FilterOption{
			Value: category.Category,
			Label: fmt.Sprintf("%s (%d)", category.Category, category.ItemCount),
		})
	}
	for i := range options {
		options[i].Selected = options[i].Value == selected
	}
	return CategoryFilter{Options: options, Selected: selected}
}

// RenderCategoryStats counts categories and sums their total value.
func RenderCategoryStats(categories []api.CategorySummary) CategoryStats {
	total := 0.0
	for _, category := range categories {
		total += category.TotalValue
	}
	return CategoryStats{TotalCategories: len(categories), TotalValue: FormatMoney(total)}
}

// FormFromItem pre-fills the edit form.
func FormFromItem(item api.Item) ItemForm {
	return ItemForm{
		ID:          fmt.Sprintf("%d", item.ID),
		Name:        item.Name,
		Category:    item.Category,
		SKU:         item.SKU,
		Description: item.DescriptionText(),
		Quantity:    item.Quantity,
		Price:       item.Price,
		Location:    item.LocationText(),
	}
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
