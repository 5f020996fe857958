package inventory

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/inventory-console/internal/api"
)

// Config tunes a Console. Zero values fall back to the package defaults.
type Config struct {
	PerPage           int
	LowStockThreshold int
	SearchDebounce    time.Duration
	NotificationTTL   time.Duration
}

func (c Config) withDefaults() Config {
	if c.PerPage <= 0 {
		c.PerPage = DefaultPerPage
	}
	if c.LowStockThreshold <= 0 {
		c.LowStockThreshold = DefaultLowStockThreshold
	}
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = DefaultSearchDebounce
	}
	if c.NotificationTTL <= 0 {
		c.NotificationTTL = DefaultNotificationTTL
	}
	return c
}

// Option customises a Console.
type Option func(*Console)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotificationHook calls fn for every notification as it is raised.
func WithNotificationHook(fn func(Notification)) Option {
	return func(c *Console) {
		c.hook = fn
	}
}

// WithClock replaces time.Now, used for notification expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		if now != nil {
			c.now = now
		}
	}
}

// Console is the inventory admin controller. It owns the UI state, calls
// the inventory API and keeps a render-ready Screen.
type Console struct {
	client *api.Client
	logger *slog.Logger
	cfg    Config
	hook   func(Notification)
	now    func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup

	mu            sync.Mutex
	state         State
	screen        Screen
	loading       int
	notifications []Notification
	searchTimer   *time.Timer
	searchSeq     uint64
	closed        bool
}

// NewConsole builds a Console bound to client. The client is copied so
// that failures surface as this console's notifications.
func NewConsole(client *api.Client, cfg Config, opts ...Option) *Console {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	c := &Console{
		logger:  slog.Default(),
		cfg:     cfg,
		now:     time.Now,
		baseCtx: ctx,
		cancel:  cancel,
		state:   State{Page: 1, PerPage: cfg.PerPage},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = client.WithNotifier(c)
	c.screen.CategoryFilter = RenderCategoryFilter(nil, "")
	c.screen.Table = RenderItems(nil, cfg.LowStockThreshold)
	c.screen.Stats.TotalValue = FormatMoney(0)
	return c
}

// State returns a copy of the UI state.
func (c *Console) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Screen returns a snapshot of the render state with expired
// notifications dropped.
func (c *Console) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()
	screen := c.screen
	screen.Loading = c.loading > 0
	screen.Notifications = append([]Notification(nil), c.notifications...)
	return screen
}

// DrainNotifications removes and returns the queued notifications.
func (c *Console) DrainNotifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()
	out := c.notifications
	c.notifications = nil
	return out
}

// Close cancels any pending search and in-flight debounced reload.
func (c *Console) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopSearchTimerLocked()
	c.mu.Unlock()
	c.cancel()
	c.pending.Wait()
}

// Settle blocks until the pending debounced search, if any, has fired and
// finished reloading.
func (c *Console) Settle() {
	c.pending.Wait()
}

// NotifyError queues an error notification. It satisfies api.Notifier.
func (c *Console) NotifyError(message string) {
	c.notify(NotificationError, message)
}

func (c *Console) notify(kind NotificationKind, message string) {
	n := Notification{Kind: kind, Message: message, At: c.now()}
	c.mu.Lock()
	c.notifications = append(c.notifications, n)
	hook := c.hook
	c.mu.Unlock()
	if hook != nil {
		hook(n)
	}
}

func (c *Console) expireLocked() {
	if len(c.notifications) == 0 {
		return
	}
	cutoff := c.now().Add(-c.cfg.NotificationTTL)
	kept := c.notifications[:0]
	for _, n := range c.notifications {
		if n.At.After(cutoff) {
			kept = append(kept, n)
		}
	}
	c.notifications = kept
}

// showLoading acquires the loading indicator; the returned func releases it.
func (c *Console) showLoading() func() {
	c.mu.Lock()
	c.loading++
	c.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.loading--
			c.mu.Unlock()
		})
	}
}

// LoadItems loads the current page of the plain (optionally searched)
// listing and refreshes the table, pager and total items stat.
func (c *Console) LoadItems(ctx context.Context) error {
	hide := c.showLoading()
	defer hide()

	c.mu.Lock()
	params := api.ListParams{Page: c.state.Page, PerPage: c.state.PerPage, Search: c.state.Search}
	c.mu.Unlock()

	page, err := c.client.ListItems(ctx, params)
	if err != nil {
		c.logger.Error("load items", slog.Any("error", err))
		return err
	}

	c.mu.Lock()
	c.screen.Table = RenderItems(page.Items, c.cfg.LowStockThreshold)
	c.screen.Pagination = RenderPagination(page)
	c.screen.Stats.TotalItems = page.Total
	c.mu.Unlock()
	return nil
}

// LoadCategoryItems loads the current page of the selected category.
func (c *Console) LoadCategoryItems(ctx context.Context) error {
	hide := c.showLoading()
	defer hide()

	c.mu.Lock()
	category, page, perPage := c.state.Category, c.state.Page, c.state.PerPage
	c.mu.Unlock()

	result, err := c.client.ListCategoryItems(ctx, category, page, perPage)
	if err != nil {
		c.logger.Error("load category items", slog.String("category", category), slog.Any("error", err))
		return err
	}

	c.mu.Lock()
	c.screen.Table = RenderItems(result.Items, c.cfg.LowStockThreshold)
	c.screen.Pagination = RenderPagination(result)
	c.mu.Unlock()
	return nil
}

// LoadCategories refreshes the category filter and the category stats.
func (c *Console) LoadCategories(ctx context.Context) error {
	categories, err := c.client.ListCategories(ctx)
	if err != nil {
		c.logger.Error("load categories", slog.Any("error", err))
		return err
	}

	stats := RenderCategoryStats(categories)
	c.mu.Lock()
	c.screen.CategoryFilter = RenderCategoryFilter(categories, c.screen.CategoryFilter.Selected)
	c.screen.Stats.TotalCategories = stats.TotalCategories
	c.screen.Stats.TotalValue = stats.TotalValue
	c.mu.Unlock()
	return nil
}

// LoadLowStockCount refreshes the low stock stat.
func (c *Console) LoadLowStockCount(ctx context.Context) error {
	items, err := c.client.LowStockItems(ctx, c.cfg.LowStockThreshold)
	if err != nil {
		c.logger.Error("load low stock count", slog.Any("error", err))
		return err
	}

	c.mu.Lock()
	c.screen.Stats.LowStockCount = len(items)
	c.mu.Unlock()
	return nil
}

// reload reloads the listing through the loader matching the state.
func (c *Console) reload(ctx context.Context) error {
	c.mu.Lock()
	byCategory := c.state.Category != ""
	c.mu.Unlock()
	if byCategory {
		return c.LoadCategoryItems(ctx)
	}
	return c.LoadItems(ctx)
}

// loadAll runs the three independent loads concurrently and waits for all
// of them. A failing load does not cancel the others.
func (c *Console) loadAll(ctx context.Context) error {
	var g errgroup.Group
	var mu sync.Mutex
	var errs []error
	run := func(load func(context.Context) error) {
		g.Go(func() error {
			if err := load(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return err
			}
			return nil
		})
	}
	run(c.reload)
	run(c.LoadCategories)
	run(c.LoadLowStockCount)
	_ = g.Wait()
	return errors.Join(errs...)
}

// Init performs the first load of items, categories and the low stock
// count, holding the loading indicator until all three finish.
func (c *Console) Init(ctx context.Context) error {
	hide := c.showLoading()
	defer hide()

	if err := c.loadAll(ctx); err != nil {
		c.logger.Error("initialise console", slog.Any("error", err))
		c.notify(NotificationError, MsgInitFailed)
		return err
	}
	return nil
}

// Refresh resets search, category and page, clears the inputs and reloads
// everything.
func (c *Console) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.stopSearchTimerLocked()
	c.state.Page = 1
	c.state.Search = ""
	c.state.Category = ""
	c.screen.SearchValue = ""
	c.screen.CategoryFilter = selectOption(c.screen.CategoryFilter, "")
	c.mu.Unlock()

	err := c.loadAll(ctx)
	if err != nil {
		c.logger.Warn("refresh console", slog.Any("error", err))
	}
	c.notify(NotificationSuccess, MsgDataRefreshed)
	return err
}

func selectOption(filter CategoryFilter, value string) CategoryFilter {
	options := make([]FilterOption, len(filter.Options))
	for i, opt := range filter.Options {
		opt.Selected = opt.Value == value
		options[i] = opt
	}
	filter.Options = options
	filter.Selected = value
	return filter
}
