package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/domain/catalog"
)

type ItemsStore interface {
	List(ctx context.Context) ([]catalog.Item, error)
	GetByID(ctx context.Context, id int64) (catalog.Item, error)
	Create(ctx context.Context, req catalog.CreateItemRequest) (catalog.Item, error)
	Update(ctx context.Context, id int64, req catalog.UpdateItemRequest) (catalog.Item, error)
	Delete(ctx context.Context, id int64) error
}

type ItemsHandler struct {
	store ItemsStore
}

func NewItemsHandler(store ItemsStore) *ItemsHandler {
	return &ItemsHandler{store: store}
}

func (h *ItemsHandler) ListItems(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, err := h.store.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list items")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *ItemsHandler) CreateItem(ctx *gin.Context) {
	var req catalog.CreateItemRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	it, err := h.store.Create(cctx, req)

	if err != nil {
		if errors.Is(err, catalog.ErrSKUTaken) {
			RespondConflict(ctx, "SKU is already in use")
			return
		}

		RespondInternal(ctx, "Could not create item")
		return
	}

	ctx.JSON(http.StatusCreated, it)
}

func (h *ItemsHandler) GetItemByID(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	it, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			RespondNotFound(ctx, "Item not found")
			return
		}

		RespondInternal(ctx, "Could not fetch item")
		return
	}

	ctx.JSON(http.StatusOK, it)
}

func (h *ItemsHandler) UpdateItem(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	var req catalog.UpdateItemRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	it, err := h.store.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			RespondNotFound(ctx, "Item not found")
		case errors.Is(err, catalog.ErrSKUTaken):
			RespondConflict(ctx, "SKU is already in use")
		default:
			RespondInternal(ctx, "Could not update item")
		}
		return
	}

	ctx.JSON(http.StatusOK, it)
}

func (h *ItemsHandler) DeleteItem(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			RespondNotFound(ctx, "Item not found")
			return
		}

		RespondInternal(ctx, "Could not delete item")
		return
	}

	ctx.Status(http.StatusNoContent)
}
