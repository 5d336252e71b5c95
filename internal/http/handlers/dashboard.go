package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/cache"
	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/repo/postgres"
)

type SummaryStore interface {
	Summary(ctx context.Context) (postgres.Summary, error)
}

type DashboardHandler struct {
	store SummaryStore
	cache *cache.Cache
}

func NewDashboardHandler(store SummaryStore, c *cache.Cache) *DashboardHandler {
	return &DashboardHandler{store: store, cache: c}
}

const summaryCacheKey = "dashboard:summary"

// GetSummary serves the aggregate totals behind a short TTL cache so a busy
// dashboard does not hammer the store.
func (h *DashboardHandler) GetSummary(ctx *gin.Context) {
	if h.cache != nil {
		if v, ok := h.cache.Get(summaryCacheKey); ok {
			if s, ok := v.(postgres.Summary); ok {
				ctx.JSON(http.StatusOK, s)
				return
			}
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	s, err := h.store.Summary(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not load dashboard summary")
		return
	}

	if h.cache != nil {
		h.cache.Set(summaryCacheKey, s)
	}

	ctx.JSON(http.StatusOK, s)
}
