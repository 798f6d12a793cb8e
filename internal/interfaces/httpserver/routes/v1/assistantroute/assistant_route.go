package assistantroute

import (
	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/assistanthandler"
)

// AssistantRoute mounts the persona catalog listing.
type AssistantRoute struct {
	handler *assistanthandler.AssistantHandler
}

func NewAssistantRoute(handler *assistanthandler.AssistantHandler) *AssistantRoute {
	return &AssistantRoute{handler: handler}
}

func (r *AssistantRoute) RegisterRouter(router gin.IRouter) {
	router.GET("/assistants", r.handler.List)
}
