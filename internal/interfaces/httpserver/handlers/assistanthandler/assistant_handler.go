package assistanthandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/domain/assistant"
	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/middlewares"
)

// AssistantHandler serves the persona catalog.
type AssistantHandler struct{}

func NewAssistantHandler() *AssistantHandler {
	return &AssistantHandler{}
}

// List handles GET /assistants. Availability is resolved against the
// caller: tier-gated personas unlock once the member reaches their tier.
func (h *AssistantHandler) List(c *gin.Context) {
	tier := roles.TierPublic
	authenticated := false
	if principal, ok := middlewares.PrincipalFromContext(c); ok && !principal.IsGuest() {
		authenticated = true
		tier = roles.ParseTier(principal.RoleLabel)
	}

	catalog := assistant.Catalog()
	out := make([]assistant.Info, 0, len(catalog))
	for _, info := range catalog {
		if info.RequiresAuth && authenticated && tier.AtLeast(info.MinTier) {
			info.Available = true
		} else if !info.RequiresAuth && info.MinTierSlug != "" && tier.AtLeast(info.MinTier) {
			info.Available = true
		}
		out = append(out, info)
	}

	c.JSON(http.StatusOK, gin.H{"assistants": out, "total": len(out)})
}
