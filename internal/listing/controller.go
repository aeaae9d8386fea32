// Package listing holds the list-filter-paginate state shared by every
// entity list and picker.
//
// A Controller never performs I/O on its own goroutine. Operations that
// need data return a Fetch; the caller runs it (typically inside a
// tea.Cmd) and hands the Result back to Apply. Each Fetch carries a
// generation number, and Apply drops results from superseded requests.
package listing

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/gastroflow/gastroflow-cli/internal/logging"
)

// Mode selects where filtering and paging happen.
type Mode int

const (
	// ModeServer sends page and filters to the backend.
	ModeServer Mode = iota
	// ModeClient loads everything once and filters and pages locally.
	ModeClient
)

// generations numbers fetches across every controller, so a result issued
// by a discarded controller never matches one built later under the same name.
var generations atomic.Uint64

// DefaultPageSize applies when a controller is built with a non-positive size.
const DefaultPageSize = 10

// Query is what a server-mode fetch receives. Page is 0-based.
type Query struct {
	Page     int
	PageSize int
	Filters  Filters
}

// Page is a fetched page.
type Page[T any] struct {
	Items      []T
	TotalPages int
	Total      int
}

// Result is the outcome of a Fetch.
type Result[T any] struct {
	Gen  uint64
	Page Page[T]
	Err  error
}

// Fetch performs one request. It does not touch controller state and is
// safe to run on another goroutine.
type Fetch[T any] func() Result[T]

// PageFunc fetches one page in server mode.
type PageFunc[T any] func(Query) (Page[T], error)

// AllFunc fetches every record in client mode.
type AllFunc[T any] func() ([]T, error)

// Matcher decides whether an item passes the committed filters.
type Matcher[T any] func(item T, filters Filters) bool

// Controller owns filter, page, loading and selection state for one list.
type Controller[T any] struct {
	name     string
	mode     Mode
	pageSize int
	fetchPg  PageFunc[T]
	fetchAll AllFunc[T]
	match    Matcher[T]
	logger   *slog.Logger

	draft     Filters
	committed Filters
	page      int

	gen        uint64
	loading    bool
	err        error
	items      []T
	filtered   []T
	total      int
	totalPages int

	selection Selection[T]
}

// NewServer builds a controller whose filtering and paging run on the backend.
func NewServer[T any](name string, pageSize int, fetch PageFunc[T]) *Controller[T] {
	c := newController[T](name, ModeServer, pageSize)
	c.fetchPg = fetch
	return c
}

// NewClient builds a controller that loads all records and filters locally.
// A nil match accepts every item.
func NewClient[T any](name string, pageSize int, fetch AllFunc[T], match Matcher[T]) *Controller[T] {
	c := newController[T](name, ModeClient, pageSize)
	c.fetchAll = fetch
	if match == nil {
		match = func(T, Filters) bool { return true }
	}
	c.match = match
	return c
}

func newController[T any](name string, mode Mode, pageSize int) *Controller[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller[T]{
		name:      name,
		mode:      mode,
		pageSize:  pageSize,
		logger:    logging.Discard(),
		draft:     Filters{},
		committed: Filters{},
	}
}

// WithLogger sets the logger used to report failed fetches.
func (c *Controller[T]) WithLogger(logger *slog.Logger) *Controller[T] {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Name identifies the list in logs.
func (c *Controller[T]) Name() string { return c.name }

// Mode reports where filtering happens.
func (c *Controller[T]) Mode() Mode { return c.mode }

// PageSize returns the number of rows per page.
func (c *Controller[T]) PageSize() int { return c.pageSize }

// --- Filters ---

// SetFilter edits the draft value of a text filter. Clearing a filter that
// is currently committed applies the change at once and may return a fetch.
func (c *Controller[T]) SetFilter(name, value string) Fetch[T] {
	c.draft[name] = value
	if strings.TrimSpace(value) == "" && c.committed.Get(name) != "" {
		return c.CommitFilters()
	}
	return nil
}

// SetChoice sets a choice filter and commits it immediately.
func (c *Controller[T]) SetChoice(name, value string) Fetch[T] {
	c.draft[name] = value
	return c.CommitFilters()
}

// Draft returns the value being typed for name.
func (c *Controller[T]) Draft(name string) string {
	return c.draft[name]
}

// Committed returns the applied value of name.
func (c *Controller[T]) Committed(name string) string {
	return c.committed.Get(name)
}

// Filters returns a copy of the applied filters.
func (c *Controller[T]) Filters() Filters {
	return c.committed.Clone()
}

// Dirty reports whether the draft differs from the applied filters.
func (c *Controller[T]) Dirty() bool {
	return !c.draft.Equal(c.committed)
}

// CommitFilters applies the draft and returns to the first page.
func (c *Controller[T]) CommitFilters() Fetch[T] {
	c.committed = c.draft.Clone()
	c.page = 0
	return c.refresh()
}

// ClearFilters drops every draft and applied filter.
func (c *Controller[T]) ClearFilters() Fetch[T] {
	c.draft = Filters{}
	c.committed = Filters{}
	c.page = 0
	return c.refresh()
}

// --- Paging ---

// NextPage moves one page forward. It is a no-op on the last page.
func (c *Controller[T]) NextPage() Fetch[T] {
	if c.totalPages == 0 || c.page >= c.totalPages-1 {
		return nil
	}
	c.page++
	return c.refresh()
}

// PrevPage moves one page back. It is a no-op on the first page.
func (c *Controller[T]) PrevPage() Fetch[T] {
	if c.totalPages == 0 || c.page <= 0 {
		return nil
	}
	c.page--
	return c.refresh()
}

// SetPageSize changes the rows per page and returns to the first page.
func (c *Controller[T]) SetPageSize(size int) Fetch[T] {
	if size <= 0 || size == c.pageSize {
		return nil
	}
	c.pageSize = size
	c.page = 0
	return c.refresh()
}

// refresh fetches in server mode and recomputes locally in client mode.
func (c *Controller[T]) refresh() Fetch[T] {
	if c.mode == ModeServer {
		return c.Load()
	}
	c.recompute()
	return nil
}

// --- Loading ---

// Load starts a fetch for the current state.
func (c *Controller[T]) Load() Fetch[T] {
	c.gen = generations.Add(1)
	c.loading = true
	gen := c.gen

	if c.mode == ModeClient {
		fetch := c.fetchAll
		return func() Result[T] {
			items, err := fetch()
			return Result[T]{Gen: gen, Page: Page[T]{Items: items, Total: len(items)}, Err: err}
		}
	}

	fetch := c.fetchPg
	q := Query{Page: c.page, PageSize: c.pageSize, Filters: c.committed.Clone()}
	return func() Result[T] {
		page, err := fetch(q)
		return Result[T]{Gen: gen, Page: page, Err: err}
	}
}

// Apply installs res if it answers the latest request. It reports whether
// res was accepted. When the current page no longer exists after a server
// fetch, the page is clamped and a follow-up fetch is returned.
func (c *Controller[T]) Apply(res Result[T]) (bool, Fetch[T]) {
	if res.Gen != c.gen {
		c.logger.Debug("stale list result dropped", "list", c.name, "gen", res.Gen, "current", c.gen)
		return false, nil
	}
	c.loading = false

	if res.Err != nil {
		c.err = res.Err
		c.items = nil
		c.filtered = nil
		c.total = 0
		c.totalPages = 0
		c.logger.Error("list fetch failed", "list", c.name, "page", c.page, "err", res.Err)
		c.page = 0
		return true, nil
	}
	c.err = nil

	if c.mode == ModeClient {
		c.items = res.Page.Items
		c.recompute()
		return true, nil
	}

	c.items = res.Page.Items
	c.total = res.Page.Total
	c.totalPages = res.Page.TotalPages
	if c.page > 0 && c.page > c.totalPages-1 {
		c.page = clampPage(c.page, c.totalPages)
		return true, c.Load()
	}
	return true, nil
}

func (c *Controller[T]) recompute() {
	filtered := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if c.match(item, c.committed) {
			filtered = append(filtered, item)
		}
	}
	c.filtered = filtered
	c.total = len(c.filtered)
	c.totalPages = (c.total + c.pageSize - 1) / c.pageSize
	c.page = clampPage(c.page, c.totalPages)
}

func clampPage(page, totalPages int) int {
	if page > totalPages-1 {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}

// --- Read side ---

// Visible returns the rows of the current page.
func (c *Controller[T]) Visible() []T {
	if c.mode == ModeServer {
		return c.items
	}
	start := c.page * c.pageSize
	if start >= len(c.filtered) {
		return nil
	}
	end := start + c.pageSize
	if end > len(c.filtered) {
		end = len(c.filtered)
	}
	return c.filtered[start:end]
}

// All returns every record held in client mode, unfiltered.
func (c *Controller[T]) All() []T {
	return c.items
}

// PageIndex returns the 0-based current page.
func (c *Controller[T]) PageIndex() int { return c.page }

// TotalPages returns the page count of the filtered set.
func (c *Controller[T]) TotalPages() int { return c.totalPages }

// Total returns the size of the filtered set.
func (c *Controller[T]) Total() int { return c.total }

// PageLabel renders the page position 1-based, e.g. "page 1 of 2".
func (c *Controller[T]) PageLabel() string {
	if c.totalPages == 0 {
		return "page 1 of 1"
	}
	return fmt.Sprintf("page %d of %d", c.page+1, c.totalPages)
}

// HasNext reports whether NextPage would move.
func (c *Controller[T]) HasNext() bool {
	return c.totalPages > 0 && c.page < c.totalPages-1
}

// HasPrev reports whether PrevPage would move.
func (c *Controller[T]) HasPrev() bool {
	return c.totalPages > 0 && c.page > 0
}

// Empty reports a settled, successful load with no rows to show.
func (c *Controller[T]) Empty() bool {
	return !c.loading && c.err == nil && len(c.Visible()) == 0
}

// Loading reports whether the latest fetch is still pending.
func (c *Controller[T]) Loading() bool { return c.loading }

// Err returns the error of the latest fetch, if it failed.
func (c *Controller[T]) Err() error { return c.err }

// --- Selection ---

// Select opens the detail overlay on item.
func (c *Controller[T]) Select(item T) {
	c.selection.Open(item)
}

// Deselect closes the overlay and re-fetches the current page so edits
// made in the overlay show up.
func (c *Controller[T]) Deselect() Fetch[T] {
	if !c.selection.IsOpen() {
		return nil
	}
	c.selection.Close()
	return c.Load()
}

// Selected returns the record in the overlay.
func (c *Controller[T]) Selected() (T, bool) {
	return c.selection.Item()
}

// UpdateSelected replaces the record shown in the open overlay.
func (c *Controller[T]) UpdateSelected(item T) {
	c.selection.Update(item)
}
