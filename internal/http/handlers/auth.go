package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/auth"
	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/domain/user"
	"github.com/tiendahub/backoffice/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type TokenManager interface {
	Issue(userID int64, email string, roles []string) (string, error)
	Verify(token string) (*auth.Claims, error)
	Revoke(claims *auth.Claims)
}

type AuthHandler struct {
	users UserReader
	jwt   TokenManager
}

func NewAuthHandler(users UserReader, jwt TokenManager) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string         `json:"token"`
	User  user.Sanitized `json:"user"`
}

// Login runs the single login state machine:
// LookupUser -> VerifyPassword -> CheckActive -> IssueToken -> Respond.
// Unknown email and wrong password produce byte-identical responses so the
// endpoint cannot be used to enumerate accounts. The inactive check comes
// after password verification: it is not a credential-guessing vector and
// gets its own status.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnauthorized(ctx, "Invalid email or password")
			return
		}

		RespondInternal(ctx, "Internal server error")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		// covers malformed stored hashes too: any failure is a mismatch
		RespondUnauthorized(ctx, "Invalid email or password")
		return
	}

	if !foundUser.Active {
		RespondForbidden(ctx, "Account is inactive")
		return
	}

	token, err := h.jwt.Issue(foundUser.ID, foundUser.Email, foundUser.Roles)

	if err != nil {
		RespondInternal(ctx, "Internal server error")
		return
	}

	ctx.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  foundUser.Sanitize(),
	})
}

// Logout revokes the presented token until its natural expiry. Idempotent:
// an absent or invalid token still gets a 204.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	raw := bearerToken(ctx)

	if raw == "" {
		ctx.Status(http.StatusNoContent)
		return
	}

	claims, err := h.jwt.Verify(raw)

	if err != nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	h.jwt.Revoke(claims)

	ctx.Status(http.StatusNoContent)
}

func bearerToken(ctx *gin.Context) string {
	const prefix = "Bearer "

	header := ctx.GetHeader("Authorization")

	if len(header) <= len(prefix) {
		return ""
	}

	if header[:len(prefix)] != prefix {
		return ""
	}

	return header[len(prefix):]
}
