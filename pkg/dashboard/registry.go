package dashboard

import (
	"Meal-Tracker/domain"
	"context"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"sync"
	"time"
)

const DefaultViewTTL = 30 * time.Minute

type (
	// Registry keeps mounted views between requests, one per open dashboard.
	Registry struct {
		mu sync.Mutex

		store    RecordStore
		pageSize int
		ttl      time.Duration
		now      func() time.Time

		views map[string]*view
	}

	view struct {
		ownerID    string
		controller *Controller
		lastSeen   time.Time
	}
)

func NewRegistry(store RecordStore, pageSize int, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &Registry{
		store:    store,
		pageSize: pageSize,
		ttl:      ttl,
		now:      time.Now,
		views:    make(map[string]*view),
	}
}

// Open mounts a new view for the session. Nothing is registered when the
// initial load fails.
func (r *Registry) Open(ctx context.Context, session Session) (string, *Controller, error) {
	if !session.Authenticated || session.OwnerID == "" {
		return "", nil, domain.ErrNotAuthenticated
	}

	r.evictIdle()

	c := NewController(r.store, session, r.pageSize)
	if err := c.Mount(ctx); err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.views[id] = &view{
		ownerID:    session.OwnerID,
		controller: c,
		lastSeen:   r.now(),
	}
	r.mu.Unlock()

	return id, c, nil
}

// Get returns the view if it exists and belongs to ownerID.
func (r *Registry) Get(viewID string, ownerID string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.views[viewID]
	if !ok || v.ownerID != ownerID {
		return nil, domain.ErrViewNotFound
	}
	now := r.now()
	if r.idle(v, now) {
		delete(r.views, viewID)
		v.controller.Unmount()
		return nil, domain.ErrViewNotFound
	}
	v.lastSeen = now
	return v.controller, nil
}

// Close unmounts and forgets the view.
func (r *Registry) Close(viewID string, ownerID string) error {
	r.mu.Lock()
	v, ok := r.views[viewID]
	if !ok || v.ownerID != ownerID {
		r.mu.Unlock()
		return domain.ErrViewNotFound
	}
	delete(r.views, viewID)
	r.mu.Unlock()

	v.controller.Unmount()
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *Registry) idle(v *view, now time.Time) bool {
	return v.lastSeen.Before(now.Add(-r.ttl))
}

func (r *Registry) evictIdle() {
	now := r.now()

	r.mu.Lock()
	var idle []*view
	for id, v := range r.views {
		if r.idle(v, now) {
			idle = append(idle, v)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range idle {
		v.controller.Unmount()
	}
	if len(idle) > 0 {
		log.Debugf("evicted %d idle dashboard views", len(idle))
	}
}
