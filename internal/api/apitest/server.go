// Package apitest provides an in-memory inventory API for tests.
package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/inventory-console/internal/api"
	"github.com/odyssey-erp/inventory-console/internal/platform/httpx"
)

// Request is a recorded call against the fake API.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Target renders the request as "METHOD /path?query".
func (r Request) Target() string {
	if r.Query == "" {
		return r.Method + " " + r.Path
	}
	return r.Method + " " + r.Path + "?" + r.Query
}

type failure struct {
	status int
	detail string
}

// Server is a fake inventory API mounted under /api.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	items    map[int64]api.Item
	nextID   int64
	requests []Request
	failures map[string]failure
	gate     chan struct{}
}

// NewServer starts a fake API seeded with items. The server is closed when
// the test ends.
func NewServer(t testing.TB, items ...api.Item) *Server {
	t.Helper()
	s := &Server{items: make(map[int64]api.Item), failures: make(map[string]failure)}
	for _, item := range items {
		s.put(item)
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			httpx.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		})
		r.Get("/categories", s.listCategories)
		r.Get("/items", s.listItems)
		r.Post("/items", s.createItem)
		r.Get("/items/low-stock", s.lowStock)
		r.Get("/items/category/{category}", s.listCategoryItems)
		r.Get("/items/{id}", s.getItem)
		r.Put("/items/{id}", s.updateItem)
		r.Delete("/items/{id}", s.deleteItem)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API root to hand to api.NewClient.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Fail makes every request whose "METHOD /path" matches target answer with
// status and detail until Recover is called.
func (s *Server) Fail(target string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[target] = failure{status: status, detail: detail}
}

// Recover clears the failure registered for target.
func (s *Server) Recover(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, target)
}

// Hold blocks every request until the returned release func is called.
func (s *Server) Hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Requests returns a snapshot of the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Targets returns the recorded requests as "METHOD /path?query" strings.
func (s *Server) Targets() []string {
	reqs := s.Requests()
	out := make([]string, len(reqs))
	for i, req := range reqs {
		out[i] = req.Target()
	}
	return out
}

// Count returns how many recorded requests match "METHOD /path".
func (s *Server) Count(target string) int {
	n := 0
	for _, req := range s.Requests() {
		if req.Method+" "+req.Path == target {
			n++
		}
	}
	return n
}

// Reset forgets the recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Item returns the stored item with id.
func (s *Server) Item(id int64) (api.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	return item, ok
}

func (s *Server) put(item api.Item) {
	if item.ID == 0 {
		s.nextID++
		item.ID = s.nextID
	} else if item.ID > s.nextID {
		s.nextID = item.ID
	}
	s.items[item.ID] = item
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		fail, failing := s.failures[r.Method+" "+r.URL.EscapedPath()]
		gate := s.gate
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			if fail.detail == "" {
				w.WriteHeader(fail.status)
				return
			}
			httpx.Problem(w, fail.status, http.StatusText(fail.status), fail.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) sortedItems(keep func(api.Item) bool) []api.Item {
	out := make([]api.Item, 0, len(s.items))
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func paginate(items []api.Item, page, perPage int) api.PageResult {
	total := len(items)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return api.PageResult{
		Items:      append([]api.Item{}, items[start:end]...),
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}
}

func pageParams(r *http.Request) (int, int, bool) {
	page, perPage := 1, 50
	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, 0, false
		}
		page = v
	}
	if raw := q.Get("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 100 {
			return 0, 0, false
		}
		perPage = v
	}
	return page, perPage, true
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := pageParams(r)
	if !ok {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "Invalid pagination")
		return
	}
	term := strings.ToLower(r.URL.Query().Get("search"))
	s.mu.Lock()
	items := s.sortedItems(func(item api.Item) bool {
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.SKU), term) ||
			strings.Contains(strings.ToLower(item.DescriptionText()), term)
	})
	s.mu.Unlock()
	httpx.JSON(w, http.StatusOK, paginate(items, page, perPage))
}

func (s *Server) listCategoryItems(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := pageParams(r)
	if !ok {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "Invalid pagination")
		return
	}
	category, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "Invalid category")
		return
	}
	s.mu.Lock()
	items := s.sortedItems(func(item api.Item) bool { return item.Category == category })
	s.mu.Unlock()
	httpx.JSON(w, http.StatusOK, paginate(items, page, perPage))
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	byCategory := map[string]*api.CategorySummary{}
	for _, item := range s.items {
		summary, ok := byCategory[item.Category]
		if !ok {
			summary = &api.CategorySummary{Category: item.Category}
			byCategory[item.Category] = summary
		}
		summary.ItemCount++
		summary.TotalValue += item.Price * float64(item.Quantity)
	}
	s.mu.Unlock()
	out := make([]api.CategorySummary, 0, len(byCategory))
	for _, summary := range byCategory {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	httpx.JSON(w, http.StatusOK, out)
}

func (s *Server) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold := 10
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "Invalid threshold")
			return
		}
		threshold = v
	}
	s.mu.Lock()
	items := s.sortedItems(func(item api.Item) bool { return item.Quantity <= threshold })
	s.mu.Unlock()
	httpx.JSON(w, http.StatusOK, items)
}

func (s *Server) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "Invalid item id")
		return 0, false
	}
	return id, true
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	item, found := s.Item(id)
	if !found {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "Item with ID "+strconv.FormatInt(id, 10)+" not found")
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var in api.ItemInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "Invalid item payload")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.SKU == in.SKU {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Item with SKU '"+in.SKU+"' already exists")
			return
		}
	}
	item := fromInput(0, in)
	s.put(item)
	item.ID = s.nextID
	httpx.JSON(w, http.StatusCreated, item)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	var in api.ItemInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "Invalid item payload")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.items[id]; !found {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "Item with ID "+strconv.FormatInt(id, 10)+" not found")
		return
	}
	item := fromInput(id, in)
	s.items[id] = item
	httpx.JSON(w, http.StatusOK, item)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.items[id]; !found {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "Item with ID "+strconv.FormatInt(id, 10)+" not found")
		return
	}
	delete(s.items, id)
	w.WriteHeader(http.StatusNoContent)
}

func fromInput(id int64, in api.ItemInput) api.Item {
	item := api.Item{
		ID:       id,
		Name:     in.Name,
		Category: in.Category,
		SKU:      in.SKU,
		Quantity: in.Quantity,
		Price:    in.Price,
	}
	if in.Description != "" {
		desc := in.Description
		item.Description = &desc
	}
	if in.Location != "" {
		loc := in.Location
		item.Location = &loc
	}
	return item
}
