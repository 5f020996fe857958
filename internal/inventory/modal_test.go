package inventory_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/inventory-console/internal/api"
	"github.com/odyssey-erp/inventory-console/internal/inventory"
)

func validForm() inventory.ItemForm {
	return inventory.ItemForm{
		Name:        "Cable",
		Category:    "Hardware",
		SKU:         "HW-010",
		Description: "USB-C",
		Quantity:    12,
		Price:       4.75,
	}
}

func TestShowAddModal(t *testing.T) {
	console, _ := newConsole(t, inventory.Config{})
	console.ShowAddModal()

	modal := console.Screen().ItemModal
	require.True(t, modal.Open())
	require.Equal(t, inventory.ModalAdd, modal.Mode)
	require.Equal(t, "Add New Item", modal.Title)
	require.Equal(t, inventory.ItemForm{}, modal.Form)

	console.CloseModal()
	require.False(t, console.Screen().ItemModal.Open())
}

func TestSubmitCreatesItem(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	ctx := context.Background()
	console.ShowAddModal()

	require.NoError(t, console.SubmitItem(ctx, validForm()))
	require.Equal(t, []string{
		"POST /api/items",
		"GET /api/items?page=1&per_page=50",
		"GET /api/categories",
	}, srv.Targets())

	var sent map[string]any
	require.NoError(t, json.Unmarshal(srv.Requests()[0].Body, &sent))
	require.Equal(t, "HW-010", sent["sku"])
	require.Equal(t, float64(12), sent["quantity"])
	require.Equal(t, "", sent["location"])

	require.False(t, console.Screen().ItemModal.Open())
	require.Len(t, console.Screen().Table.Rows, 4)
	require.Equal(t, []string{inventory.MsgItemAdded}, messages(console.DrainNotifications()))
}

func TestSubmitInvalidFormMakesNoCall(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	console.ShowAddModal()
	form := validForm()
	form.Name = ""

	err := console.SubmitItem(context.Background(), form)
	require.ErrorIs(t, err, inventory.ErrInvalidForm)
	require.Empty(t, srv.Requests())
	require.Equal(t, []string{"Name is required"}, messages(console.DrainNotifications()))
	modal := console.Screen().ItemModal
	require.True(t, modal.Open())
	require.Equal(t, form, modal.Form)
}

func TestSubmitValidationMessages(t *testing.T) {
	console, _ := newConsole(t, inventory.Config{})
	for _, tc := range []struct {
		name   string
		mutate func(*inventory.ItemForm)
		want   string
	}{
		{name: "negative quantity", mutate: func(f *inventory.ItemForm) { f.Quantity = -1 }, want: "Quantity must not be negative"},
		{name: "negative price", mutate: func(f *inventory.ItemForm) { f.Price = -0.01 }, want: "Price must not be negative"},
		{name: "missing sku", mutate: func(f *inventory.ItemForm) { f.SKU = "" }, want: "SKU is required"},
		{name: "long category", mutate: func(f *inventory.ItemForm) { f.Category = string(make([]byte, 101)) }, want: "Category must be at most 100 characters"},
		{name: "bad id", mutate: func(f *inventory.ItemForm) { f.ID = "x1" }, want: "Item id is invalid"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)
			require.ErrorIs(t, console.SubmitItem(context.Background(), form), inventory.ErrInvalidForm)
			require.Equal(t, []string{tc.want}, messages(console.DrainNotifications()))
		})
	}
}

func TestSubmitTrimsFields(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	console.ShowAddModal()

	blank := validForm()
	blank.Name = "   "
	require.ErrorIs(t, console.SubmitItem(context.Background(), blank), inventory.ErrInvalidForm)
	require.Empty(t, srv.Requests())
	require.Equal(t, []string{"Name is required"}, messages(console.DrainNotifications()))

	padded := validForm()
	padded.SKU = "  HW-010 "
	padded.Category = " Hardware"
	require.NoError(t, console.SubmitItem(context.Background(), padded))
	var sent map[string]any
	require.NoError(t, json.Unmarshal(srv.Requests()[0].Body, &sent))
	require.Equal(t, "HW-010", sent["sku"])
	require.Equal(t, "Hardware", sent["category"])
}

func TestValidateFormRejectsBlankFields(t *testing.T) {
	form := validForm()
	form.SKU = "\t "
	require.NoError(t, inventory.ValidateForm(form))

	err := inventory.ValidateForm(form.Normalized())
	require.ErrorIs(t, err, inventory.ErrInvalidForm)
	require.ErrorContains(t, err, "SKU is required")
}

func TestEditItemUpdates(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	ctx := context.Background()

	require.NoError(t, console.EditItem(ctx, 3))
	modal := console.Screen().ItemModal
	require.Equal(t, inventory.ModalEdit, modal.Mode)
	require.Equal(t, "Edit Item", modal.Title)
	require.Equal(t, "3", modal.Form.ID)
	require.Equal(t, "C-2", modal.Form.Location)

	form := modal.Form
	form.Quantity = 80
	require.NoError(t, console.SubmitItem(ctx, form))
	require.Equal(t, []string{
		"GET /api/items/3",
		"PUT /api/items/3",
		"GET /api/items?page=1&per_page=50",
		"GET /api/categories",
	}, srv.Targets())

	item, ok := srv.Item(3)
	require.True(t, ok)
	require.Equal(t, 80, item.Quantity)
	require.Equal(t, []string{inventory.MsgItemUpdated}, messages(console.DrainNotifications()))
}

func TestEditMissingItem(t *testing.T) {
	console, _ := newConsole(t, inventory.Config{})
	err := console.EditItem(context.Background(), 42)
	require.Equal(t, 404, api.StatusCode(err))
	require.False(t, console.Screen().ItemModal.Open())
	require.Equal(t, []string{"Item with ID 42 not found"}, messages(console.DrainNotifications()))
}

func TestSubmitDuplicateSKUKeepsModal(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	console.ShowAddModal()
	form := validForm()
	form.SKU = "HW-001"

	require.Error(t, console.SubmitItem(context.Background(), form))
	require.Equal(t, 1, len(srv.Requests()))
	require.True(t, console.Screen().ItemModal.Open())
	require.Equal(t, []string{"Item with SKU 'HW-001' already exists"}, messages(console.DrainNotifications()))
}

func TestDeleteFlow(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	ctx := context.Background()

	console.ShowDeleteModal(2)
	require.Equal(t, int64(2), console.State().PendingDelete)
	require.Equal(t, inventory.DeleteModal{Open: true, ItemID: 2}, console.Screen().DeleteModal)

	require.NoError(t, console.ConfirmDelete(ctx))
	require.Equal(t, []string{
		"DELETE /api/items/2",
		"GET /api/items?page=1&per_page=50",
		"GET /api/categories",
	}, srv.Targets())
	require.Zero(t, console.State().PendingDelete)
	require.False(t, console.Screen().DeleteModal.Open)
	require.Equal(t, []string{inventory.MsgItemDeleted}, messages(console.DrainNotifications()))

	srv.Reset()
	require.NoError(t, console.ConfirmDelete(ctx))
	require.Empty(t, srv.Requests())
}

func TestCancelDeleteDisarms(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	console.ShowDeleteModal(1)
	console.CloseDeleteModal()
	require.Zero(t, console.State().PendingDelete)

	require.NoError(t, console.ConfirmDelete(context.Background()))
	require.Empty(t, srv.Requests())
}

func TestDeleteFailureKeepsConfirmation(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	console.ShowDeleteModal(9)

	require.Error(t, console.ConfirmDelete(context.Background()))
	require.Equal(t, []string{"DELETE /api/items/9"}, srv.Targets())
	require.True(t, console.Screen().DeleteModal.Open)
	require.Equal(t, int64(9), console.State().PendingDelete)
	require.Equal(t, []string{"Item with ID 9 not found"}, messages(console.DrainNotifications()))
}
