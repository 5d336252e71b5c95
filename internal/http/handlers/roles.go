package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/domain/role"
)

type RolesStore interface {
	List(ctx context.Context) ([]role.Role, error)
	Create(ctx context.Context, req role.CreateRoleRequest) (role.Role, error)
}

type RolesHandler struct {
	store RolesStore
}

func NewRolesHandler(store RolesStore) *RolesHandler {
	return &RolesHandler{store: store}
}

func (h *RolesHandler) ListRoles(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	roles, err := h.store.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list roles")
		return
	}

	ctx.JSON(http.StatusOK, roles)
}

func (h *RolesHandler) CreateRole(ctx *gin.Context) {
	var req role.CreateRoleRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	ro, err := h.store.Create(cctx, req)

	if err != nil {
		if errors.Is(err, role.ErrNameTaken) {
			RespondConflict(ctx, "Role name is already in use")
			return
		}

		RespondInternal(ctx, "Could not create role")
		return
	}

	ctx.JSON(http.StatusCreated, ro)
}
