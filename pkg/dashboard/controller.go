package dashboard

import (
	"Meal-Tracker/domain"
	"context"
	"slices"
	"strings"
	"sync"
)

// Controller holds one user's meal entries together with a free-text
// filter and a page cursor, and derives the visible page from them.
//
// Entries keep the order the store returned them in. The page cursor is
// clamped lazily: Delete never moves it, and Page and VisibleSlice always
// read it clamped to the current number of pages.
type Controller struct {
	mu sync.Mutex

	store    RecordStore
	session  Session
	pageSize int

	records []domain.MealEntryResponse
	filter  string
	page    int
	status  string
	err     error
	closed  bool
}

func NewController(store RecordStore, session Session, pageSize int) *Controller {
	if pageSize < 1 {
		pageSize = domain.DashboardPageSize
	}
	return &Controller{
		store:    store,
		session:  session,
		pageSize: pageSize,
		page:     1,
		status:   domain.ViewStatusLoading,
	}
}

// Mount loads the owner's entries. A failed load is terminal for the view.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrViewClosed
	}
	// no session means login, not a failed load
	if !c.session.Authenticated || c.session.OwnerID == "" {
		c.mu.Unlock()
		return domain.ErrNotAuthenticated
	}
	c.status = domain.ViewStatusLoading
	ownerID := c.session.OwnerID
	c.mu.Unlock()

	records, err := c.store.ListRecords(ctx, ownerID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrViewClosed
	}
	if err != nil {
		c.records = nil
		c.status = domain.ViewStatusFailed
		c.err = &FetchError{Err: err}
		return c.err
	}

	c.records = uniqueByID(records)
	c.page = 1
	c.status = domain.ViewStatusReady
	c.err = nil
	return nil
}

// Unmount tears the view down. Results of requests still in flight are
// dropped.
func (c *Controller) Unmount() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// SetFilter replaces the filter and goes back to the first page.
func (c *Controller) SetFilter(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.filter = text
	c.page = 1
}

// SetPage moves to page n, clamped into [1, TotalPages].
func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.page = clampPage(n, c.countFiltered(), c.pageSize)
}

// VisibleSlice returns a copy of the entries on the current page.
func (c *Controller) VisibleSlice() []domain.MealEntryResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible(c.filtered())
}

// Delete removes the entry from the store and, once the store confirms,
// from the view. The lock is released while the store call is running so
// the view can be filtered and paged meanwhile.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrViewClosed
	}
	if c.indexOf(id) < 0 {
		c.mu.Unlock()
		return domain.ErrRecordNotInView
	}
	ownerID := c.session.OwnerID
	c.mu.Unlock()

	err := c.store.DeleteRecord(ctx, id, ownerID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrViewClosed
	}
	if err != nil {
		return &DeleteError{ID: id, Reason: err.Error(), Err: err}
	}
	if i := c.indexOf(id); i >= 0 {
		c.records = slices.Delete(c.records, i, i+1)
	}
	return nil
}

func (c *Controller) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Page is the current page after clamping.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clampPage(c.page, c.countFiltered(), c.pageSize)
}

func (c *Controller) PageSize() int {
	return c.pageSize
}

func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalPages(c.countFiltered(), c.pageSize)
}

func (c *Controller) FilteredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countFiltered()
}

// Len is the number of entries held, ignoring the filter.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err is the load error of a failed view.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) OwnerID() string {
	return c.session.OwnerID
}

// Snapshot reads the whole view state under one lock.
func (c *Controller) Snapshot() domain.DashboardView {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := c.filtered()
	return domain.DashboardView{
		Items:         c.visible(filtered),
		Filter:        c.filter,
		Page:          clampPage(c.page, len(filtered), c.pageSize),
		PageSize:      c.pageSize,
		TotalPages:    totalPages(len(filtered), c.pageSize),
		FilteredCount: len(filtered),
		Total:         len(c.records),
		Status:        c.status,
	}
}

func (c *Controller) filtered() []domain.MealEntryResponse {
	if c.filter == "" {
		return c.records
	}
	needle := strings.ToLower(c.filter)
	out := make([]domain.MealEntryResponse, 0, len(c.records))
	for _, r := range c.records {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}

func (c *Controller) countFiltered() int {
	if c.filter == "" {
		return len(c.records)
	}
	return len(c.filtered())
}

func (c *Controller) visible(filtered []domain.MealEntryResponse) []domain.MealEntryResponse {
	page := clampPage(c.page, len(filtered), c.pageSize)
	start := (page - 1) * c.pageSize
	if start >= len(filtered) {
		return []domain.MealEntryResponse{}
	}
	end := min(start+c.pageSize, len(filtered))
	return slices.Clone(filtered[start:end])
}

func (c *Controller) indexOf(id string) int {
	return slices.IndexFunc(c.records, func(r domain.MealEntryResponse) bool {
		return r.ID == id
	})
}

func totalPages(count, pageSize int) int {
	if count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

func clampPage(n, count, pageSize int) int {
	return max(1, min(n, totalPages(count, pageSize)))
}

// uniqueByID drops repeated ids, keeping the first occurrence.
func uniqueByID(records []domain.MealEntryResponse) []domain.MealEntryResponse {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.MealEntryResponse, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Load renders a single page for one request: mount, filter, page, snapshot.
func Load(ctx context.Context, store RecordStore, session Session, pageSize int, filter string, page int) (domain.DashboardView, error) {
	c := NewController(store, session, pageSize)
	if err := c.Mount(ctx); err != nil {
		return c.Snapshot(), err
	}
	c.SetFilter(filter)
	c.SetPage(page)
	return c.Snapshot(), nil
}
