// Package listing drives a scrolling list backed by a remote paginated
// query, with a transparent client-side fallback when the paginated
// endpoint is unavailable.
package listing

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/models"
)

// Source says which path produced the last page: the real filter endpoint
// or the degraded full-fetch-and-filter fallback.
type Source int

const (
	SourceNone Source = iota
	SourcePrimary
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Filters is the user-controlled query state.
type Filters struct {
	Query   string
	Service *models.Service
	Statut  *models.Statut
}

// Matches applies the same rules as the server-side search: substring
// match on titre/description (case-insensitive), equality on
// service/statut. Both filter paths must agree on membership.
func (f Filters) Matches(r models.Reclamation) bool {
	if needle := strings.ToLower(strings.TrimSpace(f.Query)); needle != "" {
		if !strings.Contains(strings.ToLower(r.Titre), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) {
			return false
		}
	}
	if f.Service != nil && r.Service != *f.Service {
		return false
	}
	if f.Statut != nil && r.Statut != *f.Statut {
		return false
	}
	return true
}

// FetchPage is the primary paginated query.
type FetchPage func(ctx context.Context, f Filters, page, size int) (*models.Page, error)

// FetchAll is the fallback full fetch, filtered and sliced client-side.
type FetchAll func(ctx context.Context) ([]models.Reclamation, error)

const (
	defaultPageSize   = 20
	loadMoreThreshold = 5
)

type Controller struct {
	primary  FetchPage
	fallback FetchAll
	size     int
	log      zerolog.Logger

	mu         sync.Mutex
	filters    Filters
	page       int // next unfetched page
	rows       []models.Reclamation
	hasMore    bool
	loading    bool
	refreshing bool
	lastSource Source
	gen        int // bumped by Close; stale completions are dropped
	closed     bool
}

func NewController(primary FetchPage, fallback FetchAll, log zerolog.Logger) *Controller {
	return &Controller{
		primary:  primary,
		fallback: fallback,
		size:     defaultPageSize,
		log:      log,
		hasMore:  true,
	}
}

// Load fetches one page. reset starts over from page 0 and replaces the
// accumulated rows; otherwise the next unfetched page is appended. A call
// while another load is in flight is a no-op (SourceNone, nil) — not
// queued, not cancelled.
func (c *Controller) Load(ctx context.Context, reset bool) (Source, error) {
	c.mu.Lock()
	if c.loading || c.closed {
		if c.refreshing && c.loading {
			// The refresh rode on top of an in-flight load; drop the flag
			// rather than leaving it stuck.
			c.refreshing = false
		}
		c.mu.Unlock()
		return SourceNone, nil
	}
	c.loading = true
	gen := c.gen
	f := c.filters
	p := 0
	if !reset {
		p = c.page
	}
	size := c.size
	c.mu.Unlock()

	page, src, err := c.fetch(ctx, f, p, size)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if reset {
		c.refreshing = false
	}
	if gen != c.gen {
		// Screen was torn down while the request was outstanding.
		return SourceNone, nil
	}
	if err != nil {
		// Both paths failed: no new rows, no separate error screen.
		c.log.Warn().Err(err).Msg("list load failed")
		return SourceNone, err
	}

	c.hasMore = p+1 < page.TotalPages
	c.page = p + 1
	if reset {
		c.rows = page.Content
	} else {
		c.rows = append(c.rows, page.Content...)
	}
	c.lastSource = src
	return src, nil
}

// fetch tries the primary endpoint and falls back to the full unfiltered
// collection, filtered and paginated locally to the same page shape.
func (c *Controller) fetch(ctx context.Context, f Filters, p, size int) (*models.Page, Source, error) {
	page, err := c.primary(ctx, f, p, size)
	if err == nil {
		return page, SourcePrimary, nil
	}
	c.log.Debug().Err(err).Msg("paginated endpoint unavailable, filtering client-side")

	all, ferr := c.fallback(ctx)
	if ferr != nil {
		return nil, SourceNone, ferr
	}

	filtered := make([]models.Reclamation, 0, len(all))
	for _, r := range all {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}

	totalPages := (len(filtered) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	lo := p * size
	if lo > len(filtered) {
		lo = len(filtered)
	}
	hi := lo + size
	if hi > len(filtered) {
		hi = len(filtered)
	}
	return &models.Page{
		Content:       filtered[lo:hi],
		TotalElements: int64(len(filtered)),
		TotalPages:    totalPages,
		Number:        p,
		Size:          size,
	}, SourceFallback, nil
}

// ApplyFilters installs new filters, discards the accumulation, and
// reloads from page 0. If a previous load is still outstanding its
// response may land afterwards; the later completion wins (known race,
// counters stay consistent either way).
func (c *Controller) ApplyFilters(ctx context.Context, f Filters) (Source, error) {
	c.mu.Lock()
	c.filters = f
	c.page = 0
	c.rows = nil
	c.mu.Unlock()
	return c.Load(ctx, true)
}

// Refresh is the pull-to-refresh entry point: same as Load(reset) but
// with the separate refreshing flag toggled around it.
func (c *Controller) Refresh(ctx context.Context) (Source, error) {
	c.mu.Lock()
	c.refreshing = true
	c.mu.Unlock()
	// Load(reset) targets page 0 itself; touching the counter here would
	// only widen the race with an in-flight append.
	return c.Load(ctx, true)
}

// ShouldLoadMore reports whether the infinite-scroll trigger fires for
// the given visible row index.
func (c *Controller) ShouldLoadMore(visibleIndex int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore && !c.loading && visibleIndex >= len(c.rows)-loadMoreThreshold
}

// Close marks the controller torn down: responses still in flight are
// discarded instead of mutating state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.gen++
}

// --- snapshot accessors ---

func (c *Controller) Rows() []models.Reclamation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Reclamation, len(c.rows))
	copy(out, c.rows)
	return out
}

func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

func (c *Controller) LastSource() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSource
}

func (c *Controller) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}
