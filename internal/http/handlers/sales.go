package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/domain/catalog"
	"github.com/tiendahub/backoffice/internal/domain/sale"
)

type SalesStore interface {
	List(ctx context.Context) ([]sale.Sale, error)
	GetByID(ctx context.Context, id int64) (sale.Sale, error)
	Create(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error)
}

// AlertEnqueuer pushes low-stock alerts onto the job queue. Nil-safe: the
// handler works without a queue wired in.
type AlertEnqueuer interface {
	EnqueueLowStock(ctx context.Context, item catalog.Item) error
}

type SalesHandler struct {
	store  SalesStore
	alerts AlertEnqueuer
}

func NewSalesHandler(store SalesStore, alerts AlertEnqueuer) *SalesHandler {
	return &SalesHandler{store: store, alerts: alerts}
}

func (h *SalesHandler) ListSales(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	sales, err := h.store.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list sales")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": sales,
		"count": len(sales),
	})
}

func (h *SalesHandler) CreateSale(ctx *gin.Context) {
	var req sale.CreateSaleRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	s, lowStock, err := h.store.Create(cctx, req)

	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			RespondBadRequest(ctx, "Unknown item in sale", nil)
		case errors.Is(err, catalog.ErrInsufficientStock):
			RespondConflict(ctx, "Insufficient stock")
		default:
			RespondInternal(ctx, "Could not create sale")
		}
		return
	}

	// The sale is committed; a queue hiccup must not fail the request.
	if h.alerts != nil {
		for _, it := range lowStock {
			if err := h.alerts.EnqueueLowStock(cctx, it); err != nil {
				slog.Default().WarnContext(ctx.Request.Context(), "low_stock_enqueue_failed",
					"item_id", it.ID, "sku", it.SKU, "err", err)
			}
		}
	}

	ctx.JSON(http.StatusCreated, s)
}

func (h *SalesHandler) GetSaleByID(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	s, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			RespondNotFound(ctx, "Sale not found")
			return
		}

		RespondInternal(ctx, "Could not fetch sale")
		return
	}

	ctx.JSON(http.StatusOK, s)
}
