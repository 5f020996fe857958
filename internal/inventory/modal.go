package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/inventory-console/internal/api"
)

const (
	addModalTitle  = "Add New Item"
	editModalTitle = "Edit Item"
)

// ErrInvalidForm wraps item form validation failures.
var ErrInvalidForm = errors.New("inventory: invalid item form")

var formValidator = validator.New()

// ValidateForm checks form against the item rules. The returned error wraps
// ErrInvalidForm and reads as a display message after the prefix. Callers
// should validate and send the Normalized form.
func ValidateForm(form ItemForm) error {
	if err := formValidator.Struct(form); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidForm, validationMessage(err))
	}
	return nil
}

// ShowAddModal opens the item dialog with a blank form.
func (c *Console) ShowAddModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.ItemModal = ItemModal{Mode: ModalAdd, Title: addModalTitle}
}

// ShowEditModal opens the item dialog pre-filled from item.
func (c *Console) ShowEditModal(item api.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.ItemModal = ItemModal{Mode: ModalEdit, Title: editModalTitle, Form: FormFromItem(item)}
}

// EditItem fetches the full item and opens the edit dialog with it.
func (c *Console) EditItem(ctx context.Context, id int64) error {
	item, err := c.client.GetItem(ctx, id)
	if err != nil {
		c.logger.Error("load item for edit", slog.Int64("item_id", id), slog.Any("error", err))
		return err
	}
	c.ShowEditModal(item)
	return nil
}

// CloseModal hides the item dialog.
func (c *Console) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.ItemModal = ItemModal{}
}

// SubmitItem saves the form: an empty ID creates an item, otherwise the
// item with that ID is updated. On success the dialog closes and items and
// categories are reloaded.
func (c *Console) SubmitItem(ctx context.Context, form ItemForm) error {
	form = form.Normalized()
	if err := formValidator.Struct(form); err != nil {
		return c.RejectForm(form, validationMessage(err))
	}

	input := api.ItemInput{
		Name:        form.Name,
		Category:    form.Category,
		SKU:         form.SKU,
		Description: form.Description,
		Quantity:    form.Quantity,
		Price:       form.Price,
		Location:    form.Location,
	}

	message := MsgItemAdded
	if form.ID != "" {
		id, err := strconv.ParseInt(form.ID, 10, 64)
		if err != nil || id <= 0 {
			return c.RejectForm(form, "Item id is invalid")
		}
		if _, err := c.client.UpdateItem(ctx, id, input); err != nil {
			c.logger.Error("update item", slog.Int64("item_id", id), slog.Any("error", err))
			return err
		}
		message = MsgItemUpdated
	} else {
		if _, err := c.client.CreateItem(ctx, input); err != nil {
			c.logger.Error("create item", slog.String("sku", form.SKU), slog.Any("error", err))
			return err
		}
	}

	c.notify(NotificationSuccess, message)
	c.CloseModal()
	c.reloadAfterMutation(ctx)
	return nil
}

// RejectForm keeps the submitted values in the open dialog, surfaces
// message as an error notification and returns it wrapped in
// ErrInvalidForm. No network call is made.
func (c *Console) RejectForm(form ItemForm, message string) error {
	c.notify(NotificationError, message)
	c.mu.Lock()
	if c.screen.ItemModal.Open() {
		c.screen.ItemModal.Form = form
	}
	c.mu.Unlock()
	return fmt.Errorf("%w: %s", ErrInvalidForm, message)
}

// ShowDeleteModal arms id as the delete target and opens the confirmation.
func (c *Console) ShowDeleteModal(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingDelete = id
	c.screen.DeleteModal = DeleteModal{Open: true, ItemID: id}
}

// CloseDeleteModal hides the confirmation and disarms the target.
func (c *Console) CloseDeleteModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeDeleteModalLocked()
}

func (c *Console) closeDeleteModalLocked() {
	c.screen.DeleteModal = DeleteModal{}
	c.state.PendingDelete = 0
}

// ConfirmDelete deletes the armed item. Without an armed target it does
// nothing.
func (c *Console) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	id := c.state.PendingDelete
	c.mu.Unlock()
	if id == 0 {
		return nil
	}

	if err := c.client.DeleteItem(ctx, id); err != nil {
		c.logger.Error("delete item", slog.Int64("item_id", id), slog.Any("error", err))
		return err
	}

	c.notify(NotificationSuccess, MsgItemDeleted)
	c.mu.Lock()
	c.closeDeleteModalLocked()
	c.mu.Unlock()
	c.reloadAfterMutation(ctx)
	return nil
}

// reloadAfterMutation refreshes the listing and the category aggregates in
// sequence. Failures have already been surfaced as notifications.
func (c *Console) reloadAfterMutation(ctx context.Context) {
	_ = c.reload(ctx)
	_ = c.LoadCategories(ctx)
}

var fieldLabels = map[string]string{
	"ID":          "Item id",
	"Name":        "Name",
	"Category":    "Category",
	"SKU":         "SKU",
	"Description": "Description",
	"Quantity":    "Quantity",
	"Price":       "Price",
	"Location":    "Location",
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Item form is invalid"
	}
	fe := fieldErrs[0]
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gte":
		return label + " must not be negative"
	default:
		return label + " is invalid"
	}
}
