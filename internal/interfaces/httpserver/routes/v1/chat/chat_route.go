package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/chathandler"
)

// ChatRoute mounts the chat turn endpoints. Members and guests share
// them; the optional-auth middleware on the group decides which path a
// caller takes.
type ChatRoute struct {
	handler *chathandler.ChatHandler
}

func NewChatRoute(handler *chathandler.ChatHandler) *ChatRoute {
	return &ChatRoute{handler: handler}
}

func (r *ChatRoute) RegisterRouter(router gin.IRouter) {
	chatRouter := router.Group("/chat")
	chatRouter.POST("", r.handler.Chat)
	chatRouter.POST("/stream", r.handler.ChatStream)
}
