package inventory

import (
	"strings"
	"time"
)

// Defaults used when Config leaves a field unset.
const (
	DefaultPerPage           = 50
	DefaultLowStockThreshold = 10
	DefaultSearchDebounce    = 300 * time.Millisecond
	DefaultNotificationTTL   = 3 * time.Second
)

// Notification messages shown after successful flows.
const (
	MsgItemAdded     = "Item added successfully"
	MsgItemUpdated   = "Item updated successfully"
	MsgItemDeleted   = "Item deleted successfully"
	MsgDataRefreshed = "Data refreshed successfully"
	MsgInitFailed    = "Failed to load data. Please refresh the page."
)

// State is the UI state owned by one Console.
type State struct {
	Page     int
	PerPage  int
	Search   string
	Category string
	// PendingDelete is the armed delete target; zero means nothing armed.
	PendingDelete int64
}

// NotificationKind distinguishes toast styles.
type NotificationKind string

const (
	// NotificationSuccess marks a completed operation.
	NotificationSuccess NotificationKind = "success"
	// NotificationError marks a failed operation.
	NotificationError NotificationKind = "error"
)

// Notification is a transient message for the operator.
type Notification struct {
	Kind    NotificationKind
	Message string
	At      time.Time
}

// ModalMode enumerates the item modal states.
type ModalMode string

const (
	ModalClosed ModalMode = ""
	ModalAdd    ModalMode = "add"
	ModalEdit   ModalMode = "edit"
)

// ItemForm mirrors the item modal inputs. ID is empty when adding.
type ItemForm struct {
	ID          string  `validate:"omitempty,numeric"`
	Name        string  `validate:"required,max=255"`
	Category    string  `validate:"required,max=100"`
	SKU         string  `validate:"required,max=100"`
	Description string  `validate:"max=1000"`
	Quantity    int     `validate:"gte=0"`
	Price       float64 `validate:"gte=0"`
	Location    string  `validate:"max=100"`
}

// Normalized returns the form with surrounding whitespace removed from its
// text fields, so a blank name fails the required rule.
func (f ItemForm) Normalized() ItemForm {
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.SKU = strings.TrimSpace(f.SKU)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)
	return f
}

// ItemModal is the render state of the add/edit dialog.
type ItemModal struct {
	Mode  ModalMode
	Title string
	Form  ItemForm
}

// Open reports whether the dialog is visible.
func (m ItemModal) Open() bool {
	return m.Mode != ModalClosed
}

// DeleteModal is the render state of the delete confirmation dialog.
type DeleteModal struct {
	Open   bool
	ItemID int64
}

// Screen is everything a front end needs to draw the console.
type Screen struct {
	Loading        bool
	SearchValue    string
	Table          Table
	Pagination     Pagination
	CategoryFilter CategoryFilter
	Stats          Stats
	ItemModal      ItemModal
	DeleteModal    DeleteModal
	Notifications  []Notification
}

// Stats are the summary cards above the table.
type Stats struct {
	TotalItems      int
	TotalCategories int
	TotalValue      string
	LowStockCount   int
}
