package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/inventory-console/internal/shared"
	"github.com/odyssey-erp/inventory-console/internal/view"
)

// Handler serves the browser console. Each session drives its own Console
// taken from the registry; actions redirect back to the page.
type Handler struct {
	logger    *slog.Logger
	registry  *Registry
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler builds the console HTTP handler.
func NewHandler(logger *slog.Logger, registry *Registry, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, registry: registry, templates: templates, csrf: csrf}
}

// MountRoutes registers console routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showConsole)
	r.Post("/search", h.handleSearch)
	r.Post("/category", h.handleCategory)
	r.Post("/page/prev", h.handlePrevPage)
	r.Post("/page/next", h.handleNextPage)
	r.Post("/refresh", h.handleRefresh)
	r.Get("/items/new", h.showAddModal)
	r.Get("/items/{id}/edit", h.showEditModal)
	r.Post("/items", h.handleSubmit)
	r.Post("/modal/close", h.handleCloseModal)
	r.Get("/items/{id}/delete", h.showDeleteModal)
	r.Post("/delete/confirm", h.handleConfirmDelete)
	r.Post("/delete/cancel", h.handleCancelDelete)
}

// ConsolePage is the page model handed to the template.
type ConsolePage struct {
	Screen
	State   State
	Columns int
}

func (h *Handler) showConsole(w http.ResponseWriter, r *http.Request) {
	sess := shared.RequestSession(r)
	if sess == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	console := h.console(r, sess)
	h.stash(sess, console)

	csrfToken := h.csrf.Token(sess)
	screen := console.Screen()
	screen.Notifications = nil
	viewData := view.TemplateData{
		Title:       "Inventory Management",
		CSRFToken:   csrfToken,
		Flashes:     sess.PopFlashes(),
		CurrentPath: r.URL.Path,
		Data: ConsolePage{
			Screen:  screen,
			State:   console.State(),
			Columns: TableColumns,
		},
	}
	if err := h.templates.Render(w, "pages/console.html", viewData); err != nil {
		h.logger.Error("render console", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Console) {
		_ = c.Search(r.Context(), strings.TrimSpace(r.PostFormValue("search")))
	})
}

func (h *Handler) handleCategory(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Console) {
		_ = c.SelectCategory(r.Context(), r.PostFormValue("category"))
	})
}

func (h *Handler) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Console) {
		_ = c.PreviousPage(r.Context())
	})
}

func (h *Handler) handleNextPage(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Console) {
		_ = c.NextPage(r.Context())
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Console) {
		_ = c.Refresh(r.Context())
	})
}

func (h *Handler) showAddModal(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Console) {
		c.ShowAddModal()
	})
}

func (h *Handler) showEditModal(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}
	h.act(w, r, func(c *Console) {
		_ = c.EditItem(r.Context(), id)
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form, problem := parseItemForm(r)
	h.act(w, r, func(c *Console) {
		if problem != "" {
			_ = c.RejectForm(form, problem)
			return
		}
		_ = c.SubmitItem(r.Context(), form)
	})
}

func (h *Handler) handleCloseModal(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Console) {
		c.CloseModal()
	})
}

func (h *Handler) showDeleteModal(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}
	h.act(w, r, func(c *Console) {
		c.ShowDeleteModal(id)
	})
}

func (h *Handler) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Console) {
		_ = c.ConfirmDelete(r.Context())
	})
}

func (h *Handler) handleCancelDelete(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Console) {
		c.CloseDeleteModal()
	})
}

// act runs fn against the session's console, carries the raised
// notifications over as flashes and redirects back to the console.
func (h *Handler) act(w http.ResponseWriter, r *http.Request, fn func(*Console)) {
	sess := shared.RequestSession(r)
	if sess == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	console := h.console(r, sess)
	fn(console)
	h.stash(sess, console)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// console returns the session's console, loading it on first use. A console
// left behind by an expired session is discarded.
func (h *Handler) console(r *http.Request, sess *shared.Session) *Console {
	if old := sess.ReplacedID(); old != "" {
		h.registry.Forget(old)
	}
	console, created := h.registry.Get(sess.ID)
	if created {
		_ = console.Init(r.Context())
	}
	return console
}

func (h *Handler) stash(sess *shared.Session, console *Console) {
	for _, n := range console.DrainNotifications() {
		sess.AddFlash(shared.FlashMessage{Kind: string(n.Kind), Message: n.Message})
	}
}

func (h *Handler) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// parseItemForm reads the item dialog fields. The second result names the
// first numeric field that could not be parsed.
func parseItemForm(r *http.Request) (ItemForm, string) {
	form := ItemForm{
		ID:          strings.TrimSpace(r.PostFormValue("id")),
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Category:    strings.TrimSpace(r.PostFormValue("category")),
		SKU:         strings.TrimSpace(r.PostFormValue("sku")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Location:    strings.TrimSpace(r.PostFormValue("location")),
	}
	var problem string
	quantity := strings.TrimSpace(r.PostFormValue("quantity"))
	if quantity == "" {
		problem = "Quantity is required"
	} else if v, err := strconv.Atoi(quantity); err != nil {
		problem = "Quantity must be a whole number"
	} else {
		form.Quantity = v
	}
	price := strings.TrimSpace(r.PostFormValue("price"))
	if v, err := strconv.ParseFloat(price, 64); err != nil {
		if problem == "" {
			if price == "" {
				problem = "Price is required"
			} else {
				problem = "Price must be a number"
			}
		}
	} else {
		form.Price = v
	}
	return form, problem
}
