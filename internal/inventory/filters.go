package inventory

import (
	"context"
	"log/slog"
	"time"
)

// SearchInput records a keystroke in the search box. The search is applied
// once input has been idle for the debounce interval; every call discards
// the trigger armed by the previous one.
func (c *Console) SearchInput(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.screen.SearchValue = value
	c.stopSearchTimerLocked()
	c.searchSeq++
	seq := c.searchSeq
	c.pending.Add(1)
	c.searchTimer = time.AfterFunc(c.cfg.SearchDebounce, func() {
		defer c.pending.Done()
		c.fireSearch(seq, value)
	})
}

// stopSearchTimerLocked cancels the armed search trigger, if it has not
// fired yet. c.mu must be held.
func (c *Console) stopSearchTimerLocked() {
	if c.searchTimer == nil {
		return
	}
	if c.searchTimer.Stop() {
		c.pending.Done()
	}
	c.searchTimer = nil
	c.searchSeq++
}

func (c *Console) fireSearch(seq uint64, value string) {
	c.mu.Lock()
	if seq != c.searchSeq || c.closed {
		c.mu.Unlock()
		return
	}
	c.searchTimer = nil
	c.state.Search = value
	c.state.Page = 1
	c.mu.Unlock()

	c.logger.Debug("search applied", slog.String("search", value))
	_ = c.LoadItems(c.baseCtx)
}

// Search applies a search term immediately, as a submitted search form does.
func (c *Console) Search(ctx context.Context, value string) error {
	c.mu.Lock()
	c.stopSearchTimerLocked()
	c.screen.SearchValue = value
	c.state.Search = value
	c.state.Page = 1
	c.mu.Unlock()
	return c.LoadItems(ctx)
}

// SelectCategory switches the category filter and reloads from page 1.
// An empty category goes back to the plain listing.
func (c *Console) SelectCategory(ctx context.Context, category string) error {
	c.mu.Lock()
	c.state.Category = category
	c.state.Page = 1
	c.screen.CategoryFilter = selectOption(c.screen.CategoryFilter, category)
	c.mu.Unlock()
	return c.reload(ctx)
}

// PreviousPage moves one page back. On the first page it does nothing.
func (c *Console) PreviousPage(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Page <= 1 {
		c.mu.Unlock()
		return nil
	}
	c.state.Page--
	c.mu.Unlock()
	return c.reload(ctx)
}

// NextPage moves one page forward. The page is not clamped against the
// last known page count; the API answers out-of-range pages with an empty
// page.
func (c *Console) NextPage(ctx context.Context) error {
	c.mu.Lock()
	c.state.Page++
	c.mu.Unlock()
	return c.reload(ctx)
}
