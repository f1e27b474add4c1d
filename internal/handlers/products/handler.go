package products

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"go.uber.org/zap"

	"springworks/internal/audit"
	"springworks/internal/cache"
	"springworks/internal/models"
	"springworks/internal/store"
	"springworks/internal/websocket"
)

// ListCacheKey holds the full product list.
const ListCacheKey = "products:all"

// Handler holds dependencies for product handlers.
type Handler struct {
	DB       *sql.DB
	Hub      *websocket.Hub
	Cache    cache.Cache
	Products *store.Products

	// fillMu orders list fills against invalidations; gen counts
	// invalidations so a fill that read the database before one is dropped.
	fillMu sync.Mutex
	gen    uint64
}

// New builds a Handler. c may be nil, in which case every list reads the
// database.
func New(db *sql.DB, hub *websocket.Hub, c cache.Cache) *Handler {
	return &Handler{DB: db, Hub: hub, Cache: c, Products: &store.Products{DB: db}}
}

// all returns every product, newest first, from the cache when it holds the
// list.
func (h *Handler) all(ctx context.Context) ([]models.Product, error) {
	if h.Cache != nil {
		var cached []models.Product
		ok, err := h.Cache.Get(ctx, ListCacheKey, &cached)
		if err != nil {
			zap.S().Warnw("product cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}
	return h.Warm(ctx)
}

// Warm reloads the product list into the cache and returns it.
func (h *Handler) Warm(ctx context.Context) ([]models.Product, error) {
	gen := h.generation()
	list, err := h.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	h.fill(ctx, gen, list)
	return list, nil
}

func (h *Handler) generation() uint64 {
	h.fillMu.Lock()
	defer h.fillMu.Unlock()
	return h.gen
}

// fill caches list unless the cache was invalidated after gen was taken.
func (h *Handler) fill(ctx context.Context, gen uint64, list []models.Product) {
	if h.Cache == nil {
		return
	}
	h.fillMu.Lock()
	defer h.fillMu.Unlock()
	if h.gen != gen {
		return
	}
	if err := h.Cache.Set(ctx, ListCacheKey, list); err != nil {
		zap.S().Warnw("product cache write failed", "error", err)
	}
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	h.fillMu.Lock()
	defer h.fillMu.Unlock()
	h.gen++
	if err := h.Cache.Delete(ctx, ListCacheKey); err != nil {
		zap.S().Warnw("product cache invalidation failed", "error", err)
	}
}

// WatchInvalidation drops the cached list whenever a products event is
// published, until ctx is done. It returns once the subscription is in
// place.
func (h *Handler) WatchInvalidation(ctx context.Context) {
	if h.Hub == nil || h.Cache == nil {
		return
	}
	events, cancel := h.Hub.Subscribe(websocket.TopicProducts)
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				h.invalidate(context.Background())
			}
		}
	}()
}

// changed records a committed product write. action is the lower-case verb
// published to subscribers; p is nil when the product no longer exists.
func (h *Handler) changed(ctx context.Context, action, username, id, summary string, p *models.Product) {
	h.invalidate(ctx)
	audit.LogAudit(h.DB, h.Hub, username, strings.ToUpper(action), "product", id, summary)
	if h.Hub == nil {
		return
	}
	if p == nil {
		h.Hub.BroadcastChange(websocket.TopicProducts, action, id, nil)
		return
	}
	h.Hub.BroadcastChange(websocket.TopicProducts, action, id, *p)
}
