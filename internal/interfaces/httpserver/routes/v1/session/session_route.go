package session

import (
	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/sessionhandler"
)

// SessionRoute mounts the member session management endpoints.
type SessionRoute struct {
	handler *sessionhandler.SessionHandler
}

func NewSessionRoute(handler *sessionhandler.SessionHandler) *SessionRoute {
	return &SessionRoute{handler: handler}
}

func (r *SessionRoute) RegisterRouter(router gin.IRouter) {
	sessions := router.Group("/sessions")
	sessions.GET("", r.handler.List)
	sessions.GET("/:id/messages", r.handler.Messages)
	sessions.GET("/:id/export", r.handler.Export)
	sessions.PATCH("/:id", r.handler.Update)
	sessions.DELETE("/:id", r.handler.Delete)
}
