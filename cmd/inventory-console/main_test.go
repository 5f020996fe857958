package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/odyssey-erp/inventory-console/internal/api"
	"github.com/odyssey-erp/inventory-console/internal/api/apitest"
	_ "github.com/odyssey-erp/inventory-console/testing"
)

func strPtr(s string) *string { return &s }

func seedItems() []api.Item {
	return []api.Item{
		{ID: 1, Name: "Stapler", Category: "Office Supplies", SKU: "OFF-001", Quantity: 4, Price: 12.5},
		{ID: 2, Name: "Monitor", Category: "Electronics", SKU: "ELE-001", Quantity: 30, Price: 199.99, Description: strPtr("27 inch")},
		{ID: 3, Name: "Desk Lamp", Category: "Office Supplies", SKU: "OFF-002", Quantity: 10, Price: 20, Location: strPtr("A-3")},
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, srv *apitest.Server, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("LOG_FORMAT", "json")
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	full := append([]string{"--api", srv.BaseURL()}, args...)
	code := run(context.Background(), full, strings.NewReader(stdin), stdout, stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestItemsTable(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "items")
	require.Zero(t, res.code, res.stderr)
	require.Contains(t, res.stdout, "Stapler")
	require.Contains(t, res.stdout, "4 ⚠")
	require.Contains(t, res.stdout, "No description")
	require.Contains(t, res.stdout, "Showing 1 to 3 of 3 items, Page 1 of 1")
	require.Equal(t, []string{"GET /api/items?page=1&per_page=50"}, srv.Targets())
}

func TestItemsJSONWithCategory(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "--format", "json", "items", "--category", "Office Supplies", "--per-page", "1", "--page", "2")
	require.Zero(t, res.code, res.stderr)

	var page api.PageResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &page))
	require.Equal(t, 2, page.Page)
	require.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Desk Lamp", page.Items[0].Name)
}

func TestItemsSearch(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "items", "-s", "27 inch")
	require.Zero(t, res.code, res.stderr)
	require.Contains(t, res.stdout, "Monitor")
	require.NotContains(t, res.stdout, "Stapler")
}

func TestCategoriesYAML(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "-f", "yaml", "categories")
	require.Zero(t, res.code, res.stderr)
	require.Contains(t, res.stdout, "item_count: 2")

	var categories []api.CategorySummary
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &categories))
	require.Len(t, categories, 2)
	require.Equal(t, "Electronics", categories[0].Category)
	require.Equal(t, 1, categories[0].ItemCount)
	require.InDelta(t, 5999.7, categories[0].TotalValue, 0.001)
	require.Equal(t, "Office Supplies", categories[1].Category)
	require.InDelta(t, 250, categories[1].TotalValue, 0.001)
}

func TestCategoriesTableTotal(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "categories")
	require.Zero(t, res.code, res.stderr)
	require.Contains(t, res.stdout, "$6249.70")
}

func TestLowStockThreshold(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "low-stock", "--threshold", "5")
	require.Zero(t, res.code, res.stderr)
	require.Contains(t, res.stdout, "Stapler")
	require.NotContains(t, res.stdout, "Desk Lamp")
	require.Equal(t, []string{"GET /api/items/low-stock?threshold=5"}, srv.Targets())

	srv.Reset()
	res = runCLI(t, srv, "", "low-stock")
	require.Zero(t, res.code, res.stderr)
	require.Contains(t, res.stdout, "Desk Lamp")
	require.Equal(t, []string{"GET /api/items/low-stock?threshold=10"}, srv.Targets())
}

func TestGetMissingItem(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "get", "99")
	require.Equal(t, 2, res.code)
	require.Contains(t, res.stderr, "Error: Item with ID 99 not found")

	res = runCLI(t, srv, "", "get", "abc")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, `invalid item id "abc"`)
}

func TestCreateValidatesBeforeCalling(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "create", "--category", "Office Supplies", "--sku", "OFF-003", "--quantity", "4")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "Name is required")
	require.Empty(t, srv.Requests())

	res = runCLI(t, srv, "", "--format", "json", "create", "--name", "Pen", "--category", "Office Supplies", "--sku", "OFF-003", "--quantity", "40", "--price", "1.25")
	require.Zero(t, res.code, res.stderr)
	var item api.Item
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &item))
	require.Equal(t, int64(4), item.ID)
	require.Equal(t, "Pen", item.Name)
}

func TestCreateRejectsBlankName(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "create", "--name", "   ", "--category", "Office Supplies", "--sku", "OFF-003")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "Name is required")
	require.Empty(t, srv.Requests())
}

func TestCreateDuplicateSKU(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "create", "--name", "Other", "--category", "X", "--sku", "OFF-001")
	require.Equal(t, 2, res.code)
	require.Contains(t, res.stderr, "Item with SKU 'OFF-001' already exists")
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "update", "3", "--quantity", "2")
	require.Zero(t, res.code, res.stderr)
	require.Equal(t, []string{"GET /api/items/3", "PUT /api/items/3"}, srv.Targets())

	item, ok := srv.Item(3)
	require.True(t, ok)
	require.Equal(t, 2, item.Quantity)
	require.Equal(t, "Desk Lamp", item.Name)
	require.Equal(t, "A-3", item.LocationText())
}

func TestDelete(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "", "-f", "json", "delete", "2")
	require.Zero(t, res.code, res.stderr)
	require.JSONEq(t, `{"deleted": 2}`, res.stdout)
	_, exists := srv.Item(2)
	require.False(t, exists)
}

func TestHealth(t *testing.T) {
	srv := apitest.NewServer(t)
	res := runCLI(t, srv, "", "health")
	require.Zero(t, res.code, res.stderr)
	require.Contains(t, res.stdout, "ok")
}

func TestUnknownFormat(t *testing.T) {
	srv := apitest.NewServer(t)
	res := runCLI(t, srv, "", "--format", "xml", "items")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, `unknown format "xml"`)
	require.Empty(t, srv.Requests())
}

func TestShellSession(t *testing.T) {
	srv := apitest.NewServer(t, seedItems()...)
	res := runCLI(t, srv, "search lamp\nquit\n", "shell")
	require.Zero(t, res.code, res.stderr)
	require.Contains(t, res.stdout, "Desk Lamp")
	require.Contains(t, res.stdout, `Filters: search="lamp"`)
	require.Equal(t, 1, srv.Count("GET /api/items/low-stock"))
}
