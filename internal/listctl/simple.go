package listctl

import (
	"context"
	"errors"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrDeleteInFlight is returned when a delete is requested while another
// delete is still pending; the controller allows a single one at a time.
var ErrDeleteInFlight = errors.New("a delete is already in progress")

// Simple is the fetch-all controller for small resource sets: whole-list
// load, optimistic local removal, and a client-side fuzzy filter.
//
// Remove assumes the caller already satisfied the confirmation gate (the TUI
// shows a modal first); the controller only enforces the in-flight rule and
// the optimistic-update contract.
type Simple[T any] struct {
	fetch  func(ctx context.Context) ([]T, error)
	remove func(ctx context.Context, id int64) error
	id     func(T) int64
	// text projects an item to its searchable text for Filter.
	text func(T) string

	mu         sync.Mutex
	items      []T
	loaded     bool
	loading    bool
	errMsg     string
	deletingID int64
	deleting   bool
}

func NewSimple[T any](
	fetch func(ctx context.Context) ([]T, error),
	remove func(ctx context.Context, id int64) error,
	id func(T) int64,
	text func(T) string,
) *Simple[T] {
	return &Simple[T]{fetch: fetch, remove: remove, id: id, text: text}
}

// Load fetches the entire collection. Success replaces the local list;
// failure records the error and leaves whatever was loaded before.
func (c *Simple[T]) Load(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = err.Error()
		return
	}
	c.items = items
	c.loaded = true
}

// Remove deletes one item. On success the item is removed from local state
// by identity, with no re-fetch. On failure local state is untouched and the
// error is returned for a blocking acknowledgment. Only one delete may be in
// flight; concurrent requests get ErrDeleteInFlight.
func (c *Simple[T]) Remove(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.deleting {
		c.mu.Unlock()
		return ErrDeleteInFlight
	}
	c.deleting = true
	c.deletingID = id
	c.mu.Unlock()

	err := c.remove(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleting = false
	c.deletingID = 0
	if err != nil {
		return err
	}
	kept := c.items[:0:0]
	for _, it := range c.items {
		if c.id(it) != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	return nil
}

// Items returns the current list.
func (c *Simple[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// Filter returns items whose projected text fuzzy-matches q. An empty query
// returns everything.
func (c *Simple[T]) Filter(q string) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if q == "" || c.text == nil {
		return c.items
	}
	var out []T
	for _, it := range c.items {
		if fuzzy.MatchFold(q, c.text(it)) {
			out = append(out, it)
		}
	}
	return out
}

// Loading reports whether a Load is in progress.
func (c *Simple[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last load error message, "" when the load succeeded.
func (c *Simple[T]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Deleting reports the id of the in-flight delete, if any.
func (c *Simple[T]) Deleting() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deletingID, c.deleting
}
