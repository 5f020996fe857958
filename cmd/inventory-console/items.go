package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/odyssey-erp/inventory-console/internal/api"
	"github.com/odyssey-erp/inventory-console/internal/inventory"
)

func newItemsCmd(cc *cliContext) *cobra.Command {
	var (
		page     int
		perPage  int
		search   string
		category string
	)
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List one page of items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if perPage <= 0 {
				perPage = cc.cfg.PageSize
			}
			client := cc.client()
			var (
				result api.PageResult
				err    error
			)
			if category != "" {
				result, err = client.ListCategoryItems(cmd.Context(), category, page, perPage)
			} else {
				result, err = client.ListItems(cmd.Context(), api.ListParams{Page: page, PerPage: perPage, Search: search})
			}
			if err != nil {
				return err
			}
			return cc.emit(result, func(w io.Writer) {
				writeItemTable(w, result.Items, cc.cfg.LowStockThreshold)
				pager := inventory.RenderPagination(result)
				_, _ = fmt.Fprintf(w, "\nShowing %d to %d of %d items, %s\n", pager.Start, pager.End, pager.Total, pager.PageInfo)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Items per page (default PAGE_SIZE)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match name, SKU or description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only items in this category")
	return cmd
}

func newCategoriesCmd(cc *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with item counts and stock value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := cc.client().ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			return cc.emit(categories, func(w io.Writer) {
				_, _ = fmt.Fprintln(w, "CATEGORY\tITEMS\tVALUE")
				for _, c := range categories {
					_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", c.Category, c.ItemCount, inventory.FormatMoney(c.TotalValue))
				}
				stats := inventory.RenderCategoryStats(categories)
				_, _ = fmt.Fprintf(w, "TOTAL\t%d\t%s\n", stats.TotalCategories, stats.TotalValue)
			})
		},
	}
}

func newLowStockCmd(cc *cliContext) *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List items at or below the low stock threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = cc.cfg.LowStockThreshold
			}
			items, err := cc.client().LowStockItems(cmd.Context(), threshold)
			if err != nil {
				return err
			}
			return cc.emit(items, func(w io.Writer) {
				writeItemTable(w, items, threshold)
			})
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 10, "Quantity at or below which an item is low (default LOW_STOCK_THRESHOLD)")
	return cmd
}

func newGetCmd(cc *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			item, err := cc.client().GetItem(cmd.Context(), id)
			if err != nil {
				return err
			}
			return cc.emit(item, func(w io.Writer) { writeItemDetail(w, item) })
		},
	}
}

// itemFlags binds the writable item fields to command flags.
type itemFlags struct {
	name        string
	category    string
	sku         string
	description string
	quantity    int
	price       float64
	location    string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Item name")
	cmd.Flags().StringVar(&f.category, "category", "", "Category label")
	cmd.Flags().StringVar(&f.sku, "sku", "", "Unique stock keeping unit")
	cmd.Flags().StringVar(&f.description, "description", "", "Free text description")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "Units in stock")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Unit price")
	cmd.Flags().StringVar(&f.location, "location", "", "Storage location")
}

// apply copies the flags the user set onto form.
func (f *itemFlags) apply(cmd *cobra.Command, form *inventory.ItemForm) {
	changed := cmd.Flags().Changed
	if changed("name") {
		form.Name = f.name
	}
	if changed("category") {
		form.Category = f.category
	}
	if changed("sku") {
		form.SKU = f.sku
	}
	if changed("description") {
		form.Description = f.description
	}
	if changed("quantity") {
		form.Quantity = f.quantity
	}
	if changed("price") {
		form.Price = f.price
	}
	if changed("location") {
		form.Location = f.location
	}
}

func inputFromForm(form inventory.ItemForm) api.ItemInput {
	return api.ItemInput{
		Name:        form.Name,
		Category:    form.Category,
		SKU:         form.SKU,
		Description: form.Description,
		Quantity:    form.Quantity,
		Price:       form.Price,
		Location:    form.Location,
	}
}

func newCreateCmd(cc *cliContext) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var form inventory.ItemForm
			flags.apply(cmd, &form)
			form = form.Normalized()
			if err := inventory.ValidateForm(form); err != nil {
				return err
			}
			item, err := cc.client().CreateItem(cmd.Context(), inputFromForm(form))
			if err != nil {
				return err
			}
			return cc.emit(item, func(w io.Writer) { writeItemDetail(w, item) })
		},
	}
	flags.register(cmd)
	return cmd
}

func newUpdateCmd(cc *cliContext) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the fields given as flags, keeping the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			client := cc.client()
			current, err := client.GetItem(cmd.Context(), id)
			if err != nil {
				return err
			}
			form := inventory.FormFromItem(current)
			flags.apply(cmd, &form)
			form = form.Normalized()
			if err := inventory.ValidateForm(form); err != nil {
				return err
			}
			item, err := client.UpdateItem(cmd.Context(), id, inputFromForm(form))
			if err != nil {
				return err
			}
			return cc.emit(item, func(w io.Writer) { writeItemDetail(w, item) })
		},
	}
	flags.register(cmd)
	return cmd
}

func newDeleteCmd(cc *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			if err := cc.client().DeleteItem(cmd.Context(), id); err != nil {
				return err
			}
			result := map[string]int64{"deleted": id}
			return cc.emit(result, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "%s (id %d)\n", inventory.MsgItemDeleted, id)
			})
		},
	}
}

func newHealthCmd(cc *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the inventory API answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cc.client().Health(cmd.Context()); err != nil {
				return err
			}
			result := map[string]string{"status": "ok", "api": cc.cfg.APIBaseURL}
			return cc.emit(result, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "ok\t%s\n", cc.cfg.APIBaseURL)
			})
		},
	}
}

func parseItemID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return id, nil
}
