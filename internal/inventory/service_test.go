package inventory_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/inventory-console/internal/api"
	"github.com/odyssey-erp/inventory-console/internal/api/apitest"
	"github.com/odyssey-erp/inventory-console/internal/inventory"
)

func strPtr(s string) *string { return &s }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedItems() []api.Item {
	return []api.Item{
		{ID: 1, Name: "Widget", Category: "Hardware", SKU: "HW-001", Quantity: 25, Price: 2.5, Description: strPtr("Blue widget")},
		{ID: 2, Name: "Gadget", Category: "Hardware", SKU: "HW-002", Quantity: 3, Price: 10},
		{ID: 3, Name: "Paper", Category: "Office Supplies", SKU: "OFF-001", Quantity: 100, Price: 0.5, Location: strPtr("C-2")},
	}
}

func newConsole(t *testing.T, cfg inventory.Config, opts ...inventory.Option) (*inventory.Console, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t, seedItems()...)
	client := api.NewClient(srv.BaseURL(), api.WithLogger(quietLogger()))
	if cfg.SearchDebounce == 0 {
		cfg.SearchDebounce = 20 * time.Millisecond
	}
	opts = append([]inventory.Option{inventory.WithLogger(quietLogger())}, opts...)
	console := inventory.NewConsole(client, cfg, opts...)
	t.Cleanup(console.Close)
	return console, srv
}

func messages(ns []inventory.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Message
	}
	return out
}

func TestInitLoadsEverything(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})

	require.NoError(t, console.Init(context.Background()))
	require.ElementsMatch(t, []string{
		"GET /api/items?page=1&per_page=50",
		"GET /api/categories",
		"GET /api/items/low-stock?threshold=10",
	}, srv.Targets())

	screen := console.Screen()
	require.False(t, screen.Loading)
	require.Len(t, screen.Table.Rows, 3)
	require.Equal(t, inventory.Stats{TotalItems: 3, TotalCategories: 2, TotalValue: "$142.50", LowStockCount: 1}, screen.Stats)
	require.Equal(t, "Page 1 of 1", screen.Pagination.PageInfo)
	require.Len(t, screen.CategoryFilter.Options, 3)
	require.Empty(t, screen.Notifications)
}

func TestInitFailureNotifies(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	srv.Fail("GET /api/categories", 500, "Database unavailable")

	err := console.Init(context.Background())
	require.Error(t, err)
	require.Equal(t, 500, api.StatusCode(err))
	require.Equal(t, 3, len(srv.Requests()))

	got := messages(console.DrainNotifications())
	require.Contains(t, got, "Database unavailable")
	require.Contains(t, got, inventory.MsgInitFailed)
	require.False(t, console.Screen().Loading)
	require.Len(t, console.Screen().Table.Rows, 3)
}

func TestLoadingIndicatorWrapsRequest(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	release := srv.Hold()

	done := make(chan error, 1)
	go func() { done <- console.LoadItems(context.Background()) }()

	require.Eventually(t, func() bool { return console.Screen().Loading }, time.Second, 5*time.Millisecond)
	release()
	require.NoError(t, <-done)
	require.False(t, console.Screen().Loading)
}

func TestLoadItemsFailureKeepsTable(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	require.NoError(t, console.LoadItems(context.Background()))

	srv.Fail("GET /api/items", 500, "")
	require.Error(t, console.LoadItems(context.Background()))
	require.Len(t, console.Screen().Table.Rows, 3)
	require.Equal(t, []string{api.DefaultErrorMessage}, messages(console.DrainNotifications()))
	require.False(t, console.Screen().Loading)
}

func TestSearchInputDebounces(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})

	console.SearchInput("w")
	console.SearchInput("wi")
	console.SearchInput("widget")
	require.Equal(t, "widget", console.Screen().SearchValue)
	console.Settle()

	require.Equal(t, []string{"GET /api/items?page=1&per_page=50&search=widget"}, srv.Targets())
	require.Equal(t, "widget", console.State().Search)
	rows := console.Screen().Table.Rows
	require.Len(t, rows, 1)
	require.Equal(t, "Widget", rows[0].Name)
}

func TestSearchInputResetsPage(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{PerPage: 1})
	require.NoError(t, console.NextPage(context.Background()))
	require.Equal(t, 2, console.State().Page)

	console.SearchInput("gadget")
	console.Settle()
	require.Equal(t, 1, console.State().Page)
	require.Equal(t, "GET /api/items?page=1&per_page=1&search=gadget", srv.Targets()[1])
}

func TestSearchAppliesImmediatelyAndCancelsPending(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{SearchDebounce: time.Hour})

	console.SearchInput("wid")
	require.NoError(t, console.Search(context.Background(), "paper"))
	console.Settle()

	require.Equal(t, []string{"GET /api/items?page=1&per_page=50&search=paper"}, srv.Targets())
	require.Equal(t, "paper", console.State().Search)
}

func TestSearchClearedUsesPlainListing(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	require.NoError(t, console.Search(context.Background(), ""))
	require.Equal(t, []string{"GET /api/items?page=1&per_page=50"}, srv.Targets())
}

func TestDebouncedSearchUsesPlainListingWithinCategory(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	ctx := context.Background()
	require.NoError(t, console.SelectCategory(ctx, "Office Supplies"))
	srv.Reset()

	console.SearchInput("widget")
	console.Settle()
	require.Equal(t, []string{"GET /api/items?page=1&per_page=50&search=widget"}, srv.Targets())

	state := console.State()
	require.Equal(t, "Office Supplies", state.Category)
	require.Equal(t, "widget", state.Search)
	require.Equal(t, 1, state.Page)
	rows := console.Screen().Table.Rows
	require.Len(t, rows, 1)
	require.Equal(t, "Widget", rows[0].Name)
}

func TestCloseDropsPendingSearch(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{SearchDebounce: 50 * time.Millisecond})
	console.SearchInput("widget")
	console.Close()
	time.Sleep(80 * time.Millisecond)
	require.Empty(t, srv.Requests())
}

func TestSelectCategory(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	ctx := context.Background()
	require.NoError(t, console.LoadCategories(ctx))

	require.NoError(t, console.SelectCategory(ctx, "Office Supplies"))
	state := console.State()
	require.Equal(t, "Office Supplies", state.Category)
	require.Equal(t, 1, state.Page)
	require.Equal(t, "Office Supplies", console.Screen().CategoryFilter.Selected)
	require.Len(t, console.Screen().Table.Rows, 1)

	require.NoError(t, console.SelectCategory(ctx, ""))
	require.Equal(t, []string{
		"GET /api/categories",
		"GET /api/items/category/Office%20Supplies?page=1&per_page=50",
		"GET /api/items?page=1&per_page=50",
	}, srv.Targets())
}

func TestPaging(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{PerPage: 2})
	ctx := context.Background()

	require.NoError(t, console.PreviousPage(ctx))
	require.Empty(t, srv.Requests())
	require.Equal(t, 1, console.State().Page)

	require.NoError(t, console.NextPage(ctx))
	pager := console.Screen().Pagination
	require.Equal(t, 3, pager.Start)
	require.Equal(t, 3, pager.End)
	require.True(t, pager.NextDisabled)

	require.NoError(t, console.NextPage(ctx))
	require.Equal(t, 3, console.State().Page)
	require.NotNil(t, console.Screen().Table.Placeholder)

	require.NoError(t, console.PreviousPage(ctx))
	require.Equal(t, []string{
		"GET /api/items?page=2&per_page=2",
		"GET /api/items?page=3&per_page=2",
		"GET /api/items?page=2&per_page=2",
	}, srv.Targets())
}

func TestPagingWithinCategory(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{PerPage: 1})
	ctx := context.Background()
	require.NoError(t, console.SelectCategory(ctx, "Hardware"))
	require.NoError(t, console.NextPage(ctx))
	require.Equal(t, "GET /api/items/category/Hardware?page=2&per_page=1", srv.Targets()[1])
	require.Equal(t, "Gadget", console.Screen().Table.Rows[0].Name)
}

func TestRefreshResetsState(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	ctx := context.Background()
	require.NoError(t, console.Init(ctx))
	require.NoError(t, console.SelectCategory(ctx, "Hardware"))
	console.SearchInput("gad")
	console.Settle()
	srv.Reset()

	require.NoError(t, console.Refresh(ctx))
	require.Equal(t, inventory.State{Page: 1, PerPage: 50}, console.State())
	screen := console.Screen()
	require.Empty(t, screen.SearchValue)
	require.Empty(t, screen.CategoryFilter.Selected)
	require.ElementsMatch(t, []string{
		"GET /api/items?page=1&per_page=50",
		"GET /api/categories",
		"GET /api/items/low-stock?threshold=10",
	}, srv.Targets())
	require.Equal(t, []string{inventory.MsgDataRefreshed}, messages(console.DrainNotifications()))
}

func TestRefreshFailureStillReportsRefresh(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	srv.Fail("GET /api/items/low-stock", 503, "Service unavailable")

	require.Error(t, console.Refresh(context.Background()))
	require.Equal(t, []string{"Service unavailable", inventory.MsgDataRefreshed}, messages(console.DrainNotifications()))
	require.Equal(t, inventory.State{Page: 1, PerPage: inventory.DefaultPerPage}, console.State())
}

func TestCategoryDisappearsResetsSelection(t *testing.T) {
	console, srv := newConsole(t, inventory.Config{})
	ctx := context.Background()
	require.NoError(t, console.LoadCategories(ctx))
	require.NoError(t, console.SelectCategory(ctx, "Office Supplies"))

	console.ShowDeleteModal(3)
	require.NoError(t, console.ConfirmDelete(ctx))
	_, exists := srv.Item(3)
	require.False(t, exists)

	require.Empty(t, console.Screen().CategoryFilter.Selected)
	require.Equal(t, "Office Supplies", console.State().Category)
}

func TestNotificationsExpire(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	var hooked []inventory.Notification
	console, srv := newConsole(t, inventory.Config{NotificationTTL: 3 * time.Second},
		inventory.WithClock(clock),
		inventory.WithNotificationHook(func(n inventory.Notification) { hooked = append(hooked, n) }),
	)
	srv.Fail("GET /api/categories", 500, "boom")
	require.Error(t, console.LoadCategories(context.Background()))

	require.Len(t, console.Screen().Notifications, 1)
	require.Equal(t, inventory.NotificationError, hooked[0].Kind)

	mu.Lock()
	now = now.Add(3 * time.Second)
	mu.Unlock()
	require.Empty(t, console.Screen().Notifications)
	require.Empty(t, console.DrainNotifications())
}
