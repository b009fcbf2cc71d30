// Package board backs the admin list screens: a paginated, searchable list
// with debounced search, superseded-request cancellation and optimistic
// removal.
package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/pkg/debounce"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/types"
)

// ErrSuperseded is returned by a load whose result was dropped because a
// newer load started.
var ErrSuperseded = errors.New("board load superseded")

// ErrClosed is returned once the board is closed.
var ErrClosed = errors.New("board closed")

// FetchFunc loads one page of rows.
type FetchFunc[T any] func(ctx context.Context, params pagination.Params) (types.Page[T], error)

// RemoveFunc deletes the row with id on the backend.
type RemoveFunc func(ctx context.Context, id string) error

type Options[T any] struct {
	Name     string
	Fetch    FetchFunc[T]
	Remove   RemoveFunc
	ID       func(T) string
	PageSize int
	Debounce time.Duration
	Logger   *logger.Logger
}

// View is the list as the admin screen renders it.
type View[T any] struct {
	Items      []T    `json:"items"`
	Search     string `json:"search"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	Total      int    `json:"total"`
	Loading    bool   `json:"loading"`
	Error      string `json:"error,omitempty"`
}

type Board[T any] struct {
	name     string
	fetch    FetchFunc[T]
	remove   RemoveFunc
	idOf     func(T) string
	pageSize int
	search   *debounce.Debouncer
	logg     *logger.Logger

	mu       sync.Mutex
	view     View[T]
	params   pagination.Params
	gen      uint64
	inflight context.CancelFunc
	closed   bool
}

func New[T any](opts Options[T]) (*Board[T], error) {
	if opts.Fetch == nil {
		return nil, fmt.Errorf("board %q: fetch is required", opts.Name)
	}
	if opts.Remove != nil && opts.ID == nil {
		return nil, fmt.Errorf("board %q: id func is required for removal", opts.Name)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	size := pagination.NormalizeLimit(opts.PageSize)
	return &Board[T]{
		name:     opts.Name,
		fetch:    opts.Fetch,
		remove:   opts.Remove,
		idOf:     opts.ID,
		pageSize: size,
		search:   debounce.New(opts.Debounce),
		logg:     opts.Logger,
		view:     View[T]{Items: []T{}, Page: 1, TotalPages: 1},
		params:   pagination.Params{Page: 1, Limit: size},
	}, nil
}

// View returns a copy of the current list.
func (b *Board[T]) View() View[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copyView()
}

func (b *Board[T]) copyView() View[T] {
	v := b.view
	v.Items = slices.Clone(b.view.Items)
	return v
}

// Load fetches page synchronously with the current search. A pending
// debounced search is dropped and any in-flight load is cancelled.
func (b *Board[T]) Load(ctx context.Context, page int) (View[T], error) {
	b.search.Cancel()
	b.mu.Lock()
	b.params.Page = pagination.NormalizePage(page)
	b.mu.Unlock()
	return b.load(ctx)
}

// SetSearch records the query, resets to the first page and loads after the
// debounce delay. Only the latest query's response is applied.
func (b *Board[T]) SetSearch(ctx context.Context, query string) View[T] {
	b.mu.Lock()
	b.params.Search = strings.TrimSpace(query)
	b.params.Page = 1
	b.view.Search = b.params.Search
	b.view.Page = 1
	v := b.copyView()
	b.mu.Unlock()

	b.search.Trigger(ctx, func(ctx context.Context) {
		if _, err := b.load(ctx); err != nil && !errors.Is(err, ErrSuperseded) && !errors.Is(err, context.Canceled) {
			b.logg.WarnErr(b.logg.WithField(ctx, "board", b.name), "board search failed", err)
		}
	})
	return v
}

func (b *Board[T]) load(parent context.Context) (View[T], error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return View[T]{}, ErrClosed
	}
	if b.inflight != nil {
		b.inflight()
	}
	ctx, cancel := context.WithCancel(parent)
	b.gen++
	gen := b.gen
	b.inflight = cancel
	params := b.params
	params.Limit = b.pageSize
	b.view.Loading = true
	b.mu.Unlock()

	page, err := b.fetch(ctx, params)

	b.mu.Lock()
	defer b.mu.Unlock()
	cancel()
	if gen != b.gen || b.closed {
		return b.copyView(), ErrSuperseded
	}
	b.inflight = nil
	b.view.Loading = false
	if err != nil {
		b.view.Error = err.Error()
		return b.copyView(), err
	}
	page = page.Normalize(b.pageSize)
	b.view = View[T]{
		Items:      page.Data,
		Search:     params.Search,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.Total,
	}
	return b.copyView(), nil
}

// Remove drops the row from the view before asking the backend to delete
// it. If the backend refuses, the previous rows come back.
func (b *Board[T]) Remove(ctx context.Context, id string) error {
	if b.remove == nil {
		return fmt.Errorf("board %q: removal not supported", b.name)
	}
	b.mu.Lock()
	prevItems := slices.Clone(b.view.Items)
	prevTotal := b.view.Total
	gen := b.gen
	b.view.Items = slices.DeleteFunc(b.view.Items, func(item T) bool { return b.idOf(item) == id })
	if removed := len(prevItems) - len(b.view.Items); removed > 0 && b.view.Total >= removed {
		b.view.Total -= removed
	}
	b.mu.Unlock()

	if err := b.remove(ctx, id); err != nil {
		b.mu.Lock()
		if gen == b.gen {
			b.view.Items = prevItems
			b.view.Total = prevTotal
		}
		b.mu.Unlock()
		b.logg.WarnErr(b.logg.WithFields(ctx, map[string]any{"board": b.name, "id": id}), "board removal rolled back", err)
		return err
	}
	return nil
}

// Close cancels pending and in-flight loads.
func (b *Board[T]) Close() {
	b.search.Stop()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.inflight != nil {
		b.inflight()
		b.inflight = nil
	}
}
