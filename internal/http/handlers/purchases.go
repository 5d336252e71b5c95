package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/domain/catalog"
	"github.com/tiendahub/backoffice/internal/domain/purchase"
	"github.com/tiendahub/backoffice/internal/domain/supplier"
)

type PurchasesStore interface {
	List(ctx context.Context) ([]purchase.Purchase, error)
	GetByID(ctx context.Context, id int64) (purchase.Purchase, error)
	Create(ctx context.Context, req purchase.CreatePurchaseRequest) (purchase.Purchase, error)
}

type PurchasesHandler struct {
	store PurchasesStore
}

func NewPurchasesHandler(store PurchasesStore) *PurchasesHandler {
	return &PurchasesHandler{store: store}
}

func (h *PurchasesHandler) ListPurchases(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	purchases, err := h.store.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list purchases")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": purchases,
		"count": len(purchases),
	})
}

func (h *PurchasesHandler) CreatePurchase(ctx *gin.Context) {
	var req purchase.CreatePurchaseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	p, err := h.store.Create(cctx, req)

	if err != nil {
		switch {
		case errors.Is(err, supplier.ErrNotFound):
			RespondBadRequest(ctx, "Unknown supplier", nil)
		case errors.Is(err, catalog.ErrNotFound):
			RespondBadRequest(ctx, "Unknown item in purchase", nil)
		default:
			RespondInternal(ctx, "Could not create purchase")
		}
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

func (h *PurchasesHandler) GetPurchaseByID(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, purchase.ErrNotFound) {
			RespondNotFound(ctx, "Purchase not found")
			return
		}

		RespondInternal(ctx, "Could not fetch purchase")
		return
	}

	ctx.JSON(http.StatusOK, p)
}
