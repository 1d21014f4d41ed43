package listctl

import (
	"context"
	"sync"
	"time"
)

const (
	defaultSize     = 10
	defaultSortBy   = "createdAt"
	defaultDebounce = 500 * time.Millisecond
)

// Options configures a Paginated controller. Zero values fall back to the
// defaults the backend expects (size 10, createdAt DESC, 500ms debounce).
type Options struct {
	InitialPage int
	InitialSize int
	SortBy      string
	SortDir     SortDir
	Debounce    time.Duration
	// OnChange is invoked (on the controller's goroutine, without locks held)
	// whenever visible state changed. Optional; pollers can ignore it.
	OnChange func()
}

// State is a point-in-time snapshot of the controller for rendering.
type State[T any] struct {
	Items         []T
	Loading       bool
	Err           string
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	HasNext       bool
	HasPrevious   bool
	RawSearch     string
	Search        string
	SortBy        string
	SortDir       SortDir
	PageNumbers   []int
}

// Paginated is the single source of truth for a paginated list screen. All
// mutators are non-blocking: fetches run on their own goroutines and only
// the response matching the current query (and latest generation) is
// applied, so out-of-order network resolution can never install stale rows.
type Paginated[T any] struct {
	fetch FetchFunc[T]

	ctx      context.Context
	cancel   context.CancelFunc
	debounce time.Duration
	onChange func()

	mu        sync.Mutex
	query     Query
	rawSearch string
	timer     *time.Timer
	gen       uint64
	closed    bool

	items         []T
	loading       bool
	errMsg        string
	totalElements int64
	totalPages    int
	hasNext       bool
	hasPrevious   bool
}

// NewPaginated builds a controller and issues the initial fetch.
func NewPaginated[T any](ctx context.Context, fetch FetchFunc[T], opt Options) *Paginated[T] {
	if opt.InitialSize == 0 {
		opt.InitialSize = defaultSize
	}
	if opt.SortBy == "" {
		opt.SortBy = defaultSortBy
	}
	if opt.SortDir == "" {
		opt.SortDir = SortDesc
	}
	if opt.Debounce == 0 {
		opt.Debounce = defaultDebounce
	}
	cctx, cancel := context.WithCancel(ctx)
	c := &Paginated[T]{
		fetch:    fetch,
		ctx:      cctx,
		cancel:   cancel,
		debounce: opt.Debounce,
		onChange: opt.OnChange,
		query: Query{
			Page:    opt.InitialPage,
			Size:    opt.InitialSize,
			SortBy:  opt.SortBy,
			SortDir: opt.SortDir,
		},
	}
	c.mu.Lock()
	c.refetchLocked()
	c.mu.Unlock()
	return c
}

// Close cancels the pending debounce timer and suppresses any in-flight
// results. Must be called when the owning screen is dismissed.
func (c *Paginated[T]) Close() {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.cancel()
}

// Snapshot returns the current state for rendering.
func (c *Paginated[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{
		Items:         c.items,
		Loading:       c.loading,
		Err:           c.errMsg,
		Page:          c.query.Page,
		Size:          c.query.Size,
		TotalElements: c.totalElements,
		TotalPages:    c.totalPages,
		HasNext:       c.hasNext,
		HasPrevious:   c.hasPrevious,
		RawSearch:     c.rawSearch,
		Search:        c.query.Search,
		SortBy:        c.query.SortBy,
		SortDir:       c.query.SortDir,
		PageNumbers:   PageNumbers(c.query.Page, c.totalPages),
	}
}

// SetSearch records the raw text immediately and schedules the effective
// query update after the debounce delay; only the last keystroke within the
// window fires. When the debounced value changes, the page resets to 0.
func (c *Paginated[T]) SetSearch(text string) {
	c.mu.Lock()
	c.rawSearch = text
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.applySearch(text) })
	c.mu.Unlock()
	c.notify()
}

func (c *Paginated[T]) applySearch(text string) {
	c.mu.Lock()
	if c.closed || c.query.Search == text {
		c.mu.Unlock()
		return
	}
	c.query.Search = text
	c.query.Page = 0
	c.refetchLocked()
	c.mu.Unlock()
	c.notify()
}

// SetSort toggles the direction when column is already the sort key and
// otherwise sorts by the new column descending. Either way the page resets.
func (c *Paginated[T]) SetSort(column string) {
	c.mu.Lock()
	if c.query.SortBy == column {
		c.query.SortDir = c.query.SortDir.Toggle()
	} else {
		c.query.SortBy = column
		c.query.SortDir = SortDesc
	}
	c.query.Page = 0
	c.refetchLocked()
	c.mu.Unlock()
	c.notify()
}

// SetPage moves to page n. Out-of-range requests are silently ignored.
func (c *Paginated[T]) SetPage(n int) {
	c.mu.Lock()
	if n < 0 || n >= c.totalPages || n == c.query.Page {
		c.mu.Unlock()
		return
	}
	c.query.Page = n
	c.refetchLocked()
	c.mu.Unlock()
	c.notify()
}

// SetSize changes the page size. Changing density always returns to the
// top, even when the size is unchanged.
func (c *Paginated[T]) SetSize(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	c.query.Size = n
	c.query.Page = 0
	c.refetchLocked()
	c.mu.Unlock()
	c.notify()
}

// Refetch re-runs the current query (used after create/update/delete).
func (c *Paginated[T]) Refetch() {
	c.mu.Lock()
	c.refetchLocked()
	c.mu.Unlock()
	c.notify()
}

// SortFor reports the direction column is sorted by, if it is the sort key.
func (c *Paginated[T]) SortFor(column string) (SortDir, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.query.SortBy != column {
		return "", false
	}
	return c.query.SortDir, true
}

// refetchLocked starts a fetch for the current query. Caller holds c.mu.
func (c *Paginated[T]) refetchLocked() {
	if c.closed {
		return
	}
	c.gen++
	gen := c.gen
	snapshot := c.query
	c.loading = true
	c.errMsg = ""
	go func() {
		res, err := c.fetch(c.ctx, snapshot)
		c.apply(gen, snapshot, res, err)
	}()
}

// apply installs a fetch result, unless it is stale: the controller was
// closed, a newer fetch was initiated, or the query has moved on.
func (c *Paginated[T]) apply(gen uint64, snapshot Query, res Page[T], err error) {
	c.mu.Lock()
	if c.closed || gen != c.gen || snapshot != c.query {
		c.mu.Unlock()
		return
	}
	c.loading = false
	if err != nil {
		// Keep the rows we have; the screen shows them under an error banner.
		c.errMsg = err.Error()
		c.mu.Unlock()
		c.notify()
		return
	}
	c.items = res.Content
	c.totalElements = res.TotalElements
	c.totalPages = res.TotalPages
	c.hasNext = res.HasNext
	c.hasPrevious = res.HasPrevious
	// Clamp: a shrinking result set can leave the cursor past the end.
	if res.TotalPages > 0 && c.query.Page >= res.TotalPages {
		c.query.Page = res.TotalPages - 1
		c.refetchLocked()
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Paginated[T]) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
