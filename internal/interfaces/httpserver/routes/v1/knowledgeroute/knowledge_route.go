package knowledgeroute

import (
	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/knowledgehandler"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/middlewares"
)

// KnowledgeRoute mounts the explicit knowledge-base endpoints. Search is
// open to everyone (results are still role-filtered); the raw document
// listing is admin only.
type KnowledgeRoute struct {
	handler *knowledgehandler.KnowledgeHandler
}

func NewKnowledgeRoute(handler *knowledgehandler.KnowledgeHandler) *KnowledgeRoute {
	return &KnowledgeRoute{handler: handler}
}

func (r *KnowledgeRoute) RegisterPublicRouter(router gin.IRouter) {
	knowledge := router.Group("/knowledge")
	knowledge.POST("/search", r.handler.Search)
}

func (r *KnowledgeRoute) RegisterProtectedRouter(router gin.IRouter) {
	knowledge := router.Group("/knowledge")
	knowledge.GET("/documents", middlewares.RequireAdmin(), r.handler.ListDocuments)
}
