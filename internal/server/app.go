package server

import (
	"context"
	"database/sql"

	"springworks/internal/cache"
	"springworks/internal/config"
	"springworks/internal/websocket"
)

// ContextKey is the type used for request context keys.
type ContextKey string

const (
	CtxUserID    ContextKey = "userID"
	CtxUsername  ContextKey = "username"
	CtxRole      ContextKey = "role"
	CtxRequestID ContextKey = "requestID"
)

// App holds shared dependencies for the application.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Hub    *websocket.Hub
	Cache  cache.Cache
}

// RoleFrom returns the role RequireAuth stored in ctx.
func RoleFrom(ctx context.Context) string {
	role, _ := ctx.Value(CtxRole).(string)
	return role
}

// RequestIDFrom returns the id LoggingMiddleware assigned to the request.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(CtxRequestID).(string)
	return id
}
