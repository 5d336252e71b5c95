package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/domain/expense"
)

type ExpensesStore interface {
	List(ctx context.Context) ([]expense.Expense, error)
	Create(ctx context.Context, req expense.CreateExpenseRequest) (expense.Expense, error)
}

type ExpensesHandler struct {
	store ExpensesStore
}

func NewExpensesHandler(store ExpensesStore) *ExpensesHandler {
	return &ExpensesHandler{store: store}
}

func (h *ExpensesHandler) ListExpenses(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	expenses, err := h.store.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list expenses")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": expenses,
		"count": len(expenses),
	})
}

func (h *ExpensesHandler) CreateExpense(ctx *gin.Context) {
	var req expense.CreateExpenseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	e, err := h.store.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not record expense")
		return
	}

	ctx.JSON(http.StatusCreated, e)
}
