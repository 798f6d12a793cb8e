package knowledgehandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/middlewares"
	chatrequests "github.com/daosail/daosail-server/internal/interfaces/httpserver/requests/chat"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/responses"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// KnowledgeHandler exposes explicit knowledge-base search and listing.
type KnowledgeHandler struct {
	service *knowledge.Service
}

func NewKnowledgeHandler(service *knowledge.Service) *KnowledgeHandler {
	return &KnowledgeHandler{service: service}
}

// Search handles POST /knowledge/search. The caller's tier bounds which
// documents are visible; guests search the public slice.
func (h *KnowledgeHandler) Search(c *gin.Context) {
	var req chatrequests.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid search request: "+err.Error(), "")
		return
	}

	result, err := h.service.Search(c.Request.Context(), knowledge.SearchParams{
		Query:      req.Query,
		Category:   req.Category,
		Language:   req.Language,
		MaxResults: req.MaxResults,
		Threshold:  req.Threshold,
	}, callerTier(c))
	if err != nil {
		responses.HandleError(c, err, "knowledge search")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListDocuments handles GET /knowledge/documents, admin only via route
// middleware.
func (h *KnowledgeHandler) ListDocuments(c *gin.Context) {
	docs, err := h.service.ListDocuments(c.Request.Context(), c.Query("category"), c.Query("language"))
	if err != nil {
		responses.HandleError(c, err, "list knowledge documents")
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs, "total": len(docs)})
}

func callerTier(c *gin.Context) roles.Tier {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok || principal.IsGuest() {
		return roles.TierPublic
	}
	return roles.ParseTier(principal.RoleLabel)
}
