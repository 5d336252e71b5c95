package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/domain/cashbook"
)

type CashStore interface {
	List(ctx context.Context) ([]cashbook.Transaction, error)
	Create(ctx context.Context, req cashbook.CreateTransactionRequest) (cashbook.Transaction, error)
	Balance(ctx context.Context) (float64, error)
}

type CashHandler struct {
	store CashStore
}

func NewCashHandler(store CashStore) *CashHandler {
	return &CashHandler{store: store}
}

func (h *CashHandler) ListTransactions(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	transactions, err := h.store.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list cash transactions")
		return
	}

	balance, err := h.store.Balance(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not compute cash balance")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":   transactions,
		"count":   len(transactions),
		"balance": balance,
	})
}

func (h *CashHandler) CreateTransaction(ctx *gin.Context) {
	var req cashbook.CreateTransactionRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	t, err := h.store.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not record cash transaction")
		return
	}

	ctx.JSON(http.StatusCreated, t)
}
