package middlewares

const (
	CtxRequestID = "request_id"

	ctxClaimsKey = "auth.claims"
	ctxUserIDKey = "auth.userID"
	ctxEmailKey  = "auth.email"
	ctxRolesKey  = "auth.roles"
)
