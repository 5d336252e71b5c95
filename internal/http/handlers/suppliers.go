package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/domain/supplier"
)

type SuppliersStore interface {
	List(ctx context.Context) ([]supplier.Supplier, error)
	GetByID(ctx context.Context, id int64) (supplier.Supplier, error)
	Create(ctx context.Context, req supplier.CreateSupplierRequest) (supplier.Supplier, error)
	Update(ctx context.Context, id int64, req supplier.UpdateSupplierRequest) (supplier.Supplier, error)
	SetActive(ctx context.Context, id int64, active bool) (supplier.Supplier, error)
}

type SuppliersHandler struct {
	store SuppliersStore
}

func NewSuppliersHandler(store SuppliersStore) *SuppliersHandler {
	return &SuppliersHandler{store: store}
}

func (h *SuppliersHandler) ListSuppliers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	suppliers, err := h.store.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list suppliers")
		return
	}

	ctx.JSON(http.StatusOK, suppliers)
}

func (h *SuppliersHandler) CreateSupplier(ctx *gin.Context) {
	var req supplier.CreateSupplierRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	s, err := h.store.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create supplier")
		return
	}

	ctx.JSON(http.StatusCreated, s)
}

func (h *SuppliersHandler) GetSupplierByID(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	s, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, supplier.ErrNotFound) {
			RespondNotFound(ctx, "Supplier not found")
			return
		}

		RespondInternal(ctx, "Could not fetch supplier")
		return
	}

	ctx.JSON(http.StatusOK, s)
}

func (h *SuppliersHandler) UpdateSupplier(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	var req supplier.UpdateSupplierRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	s, err := h.store.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, supplier.ErrNotFound) {
			RespondNotFound(ctx, "Supplier not found")
			return
		}

		RespondInternal(ctx, "Could not update supplier")
		return
	}

	ctx.JSON(http.StatusOK, s)
}

// SetSupplierActive handles PATCH, which is restricted to the active flag.
func (h *SuppliersHandler) SetSupplierActive(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	var req supplier.SetActiveRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	s, err := h.store.SetActive(cctx, id, *req.Active)

	if err != nil {
		if errors.Is(err, supplier.ErrNotFound) {
			RespondNotFound(ctx, "Supplier not found")
			return
		}

		RespondInternal(ctx, "Could not update supplier status")
		return
	}

	ctx.JSON(http.StatusOK, s)
}
