// Package shell drives an inventory console from a line-oriented terminal.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/odyssey-erp/inventory-console/internal/inventory"
)

const prompt = "inventory> "

const helpText = `Commands:
  search <text>        filter by name, SKU or description (empty clears)
  category <name|->    show one category, "-" for all
  next | prev          page through results
  add                  open a blank item form
  edit <id>            load an item into the form
  set <field> <value>  fill a form field (name, category, sku, description,
                       quantity, price, location)
  save                 submit the form
  delete <id>          ask to delete an item
  confirm              delete the item asked about
  cancel               close the open form or confirmation
  refresh              reset filters and reload everything
  show                 print the current screen
  quit                 leave the shell`

// Shell reads commands and prints the console screen after each one.
type Shell struct {
	console *inventory.Console
	out     io.Writer
	printer *message.Printer
	form    inventory.ItemForm
}

// New builds a shell over console. Counts are formatted for locale.
func New(console *inventory.Console, out io.Writer, locale language.Tag) *Shell {
	return &Shell{console: console, out: out, printer: message.NewPrinter(locale)}
}

// Run loads the console and processes commands from in until quit or EOF.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	_ = s.console.Init(ctx)
	s.flush()
	s.render()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if quit := s.Exec(ctx, scanner.Text()); quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs a single command line and reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
		return false
	case "show":
	case "search":
		s.console.SearchInput(rest)
		s.console.Settle()
	case "category":
		if rest == "-" {
			rest = ""
		}
		_ = s.console.SelectCategory(ctx, rest)
	case "next":
		_ = s.console.NextPage(ctx)
	case "prev":
		_ = s.console.PreviousPage(ctx)
	case "refresh":
		_ = s.console.Refresh(ctx)
	case "add":
		s.console.ShowAddModal()
		s.form = inventory.ItemForm{}
	case "edit":
		id, ok := s.parseID(rest)
		if !ok {
			return false
		}
		if err := s.console.EditItem(ctx, id); err == nil {
			s.form = s.console.Screen().ItemModal.Form
		}
	case "set":
		if !s.setField(rest) {
			return false
		}
	case "save":
		if !s.console.Screen().ItemModal.Open() {
			fmt.Fprintln(s.out, "no item form is open; use add or edit first")
			return false
		}
		if err := s.console.SubmitItem(ctx, s.form); err == nil {
			s.form = inventory.ItemForm{}
		}
	case "delete":
		id, ok := s.parseID(rest)
		if !ok {
			return false
		}
		s.console.ShowDeleteModal(id)
	case "confirm":
		_ = s.console.ConfirmDelete(ctx)
	case "cancel":
		screen := s.console.Screen()
		switch {
		case screen.ItemModal.Open():
			s.console.CloseModal()
			s.form = inventory.ItemForm{}
		case screen.DeleteModal.Open:
			s.console.CloseDeleteModal()
		}
	default:
		fmt.Fprintf(s.out, "unknown command %q, type help for a list\n", name)
		return false
	}

	s.flush()
	s.render()
	return false
}

func (s *Shell) parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(s.out, "invalid item id %q\n", raw)
		return 0, false
	}
	return id, true
}

func (s *Shell) setField(args string) bool {
	if !s.console.Screen().ItemModal.Open() {
		fmt.Fprintln(s.out, "no item form is open; use add or edit first")
		return false
	}
	field, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	switch strings.ToLower(field) {
	case "name":
		s.form.Name = value
	case "category":
		s.form.Category = value
	case "sku":
		s.form.SKU = value
	case "description":
		s.form.Description = value
	case "location":
		s.form.Location = value
	case "quantity":
		v, err := strconv.Atoi(value)
		if err != nil {
			fmt.Fprintln(s.out, "Quantity must be a whole number")
			return false
		}
		s.form.Quantity = v
	case "price":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			fmt.Fprintln(s.out, "Price must be a number")
			return false
		}
		s.form.Price = v
	default:
		fmt.Fprintf(s.out, "unknown field %q\n", field)
		return false
	}
	return true
}

// flush prints and clears the notifications raised by the last command.
func (s *Shell) flush() {
	for _, n := range s.console.DrainNotifications() {
		mark := "ok"
		if n.Kind == inventory.NotificationError {
			mark = "error"
		}
		fmt.Fprintf(s.out, "[%s] %s\n", mark, n.Message)
	}
}

func (s *Shell) render() {
	screen := s.console.Screen()
	state := s.console.State()

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSKU\tQTY\tPRICE\tLOCATION")
	if p := screen.Table.Placeholder; p != nil {
		fmt.Fprintf(tw, "\t%s\t\t\t\t\t\n", p.Text)
	}
	for _, row := range screen.Table.Rows {
		qty := s.printer.Sprintf("%d", row.Quantity)
		if row.LowStock {
			qty += " " + row.StockGlyph
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", row.ID, row.Name, row.Category, row.SKU, qty, row.Price, row.Location)
	}
	_ = tw.Flush()

	pager := screen.Pagination
	s.printer.Fprintf(s.out, "Showing %d to %d of %d items | %s\n", pager.Start, pager.End, pager.Total, pager.PageInfo)
	stats := screen.Stats
	s.printer.Fprintf(s.out, "Total items: %d | Categories: %d | Value: %s | Low stock: %d\n",
		stats.TotalItems, stats.TotalCategories, stats.TotalValue, stats.LowStockCount)
	if state.Search != "" || state.Category != "" {
		fmt.Fprintf(s.out, "Filters: search=%q category=%q\n", state.Search, state.Category)
	}

	if modal := screen.ItemModal; modal.Open() {
		f := s.form
		fmt.Fprintf(s.out, "== %s ==\n", modal.Title)
		fmt.Fprintf(s.out, "  name=%q category=%q sku=%q\n", f.Name, f.Category, f.SKU)
		fmt.Fprintf(s.out, "  description=%q location=%q quantity=%d price=%.2f\n", f.Description, f.Location, f.Quantity, f.Price)
		fmt.Fprintln(s.out, "  set <field> <value>, then save or cancel")
	}
	if screen.DeleteModal.Open {
		fmt.Fprintf(s.out, "Delete item %d? This cannot be undone. Type confirm or cancel.\n", screen.DeleteModal.ItemID)
	}
}
