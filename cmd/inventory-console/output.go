package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/odyssey-erp/inventory-console/internal/api"
	"github.com/odyssey-erp/inventory-console/internal/inventory"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// emit writes v in the selected format. table draws the human layout.
func (cc *cliContext) emit(v any, table func(w io.Writer)) error {
	switch cc.format {
	case formatJSON:
		enc := json.NewEncoder(cc.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(cc.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(cc.stdout, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func writeItemTable(w io.Writer, items []api.Item, threshold int) {
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSKU\tQTY\tPRICE\tLOCATION\tDESCRIPTION")
	table := inventory.RenderItems(items, threshold)
	if table.Placeholder != nil {
		_, _ = fmt.Fprintln(w, table.Placeholder.Text)
		return
	}
	for _, row := range table.Rows {
		qty := fmt.Sprintf("%d", row.Quantity)
		if row.LowStock {
			qty += " " + row.StockGlyph
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ID, row.Name, row.Category, row.SKU, qty, row.Price, row.Location, row.Description)
	}
}

func writeItemDetail(w io.Writer, item api.Item) {
	_, _ = fmt.Fprintf(w, "ID\t%d\n", item.ID)
	_, _ = fmt.Fprintf(w, "Name\t%s\n", item.Name)
	_, _ = fmt.Fprintf(w, "Category\t%s\n", item.Category)
	_, _ = fmt.Fprintf(w, "SKU\t%s\n", item.SKU)
	_, _ = fmt.Fprintf(w, "Description\t%s\n", item.DescriptionText())
	_, _ = fmt.Fprintf(w, "Quantity\t%d\n", item.Quantity)
	_, _ = fmt.Fprintf(w, "Price\t%s\n", inventory.FormatMoney(item.Price))
	_, _ = fmt.Fprintf(w, "Location\t%s\n", item.LocationText())
}
