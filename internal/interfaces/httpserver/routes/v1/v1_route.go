package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/config"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/assistantroute"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/chat"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/faq"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/guestroute"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/knowledgeroute"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/profile"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes/v1/session"
)

// V1Route aggregates every /v1 route group.
type V1Route struct {
	chat       *chat.ChatRoute
	sessions   *session.SessionRoute
	profile    *profile.ProfileRoute
	guests     *guestroute.GuestRoute
	knowledge  *knowledgeroute.KnowledgeRoute
	assistants *assistantroute.AssistantRoute
	faq        *faq.FAQRoute
}

func NewV1Route(
	chatRoute *chat.ChatRoute,
	sessions *session.SessionRoute,
	profileRoute *profile.ProfileRoute,
	guests *guestroute.GuestRoute,
	knowledge *knowledgeroute.KnowledgeRoute,
	assistants *assistantroute.AssistantRoute,
	faqRoute *faq.FAQRoute,
) *V1Route {
	return &V1Route{
		chat:       chatRoute,
		sessions:   sessions,
		profile:    profileRoute,
		guests:     guests,
		knowledge:  knowledge,
		assistants: assistants,
		faq:        faqRoute,
	}
}

// RegisterPublicRouter mounts the endpoints reachable without a token.
// The group carries the optional-auth middleware, so signed-in members
// get their member context on these endpoints too.
func (r *V1Route) RegisterPublicRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Router.GET("/healthz", GetHealthz)

	r.chat.RegisterRouter(v1Router)
	r.guests.RegisterRouter(v1Router)
	r.knowledge.RegisterPublicRouter(v1Router)
	r.assistants.RegisterRouter(v1Router)
	r.faq.RegisterRouter(v1Router)
}

// RegisterRouter mounts the member-only endpoints.
func (r *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")

	r.sessions.RegisterRouter(v1Router)
	r.profile.RegisterRouter(v1Router)
	r.knowledge.RegisterProtectedRouter(v1Router)
}

// GetVersion godoc
// @Summary Get API build version
// @Description Returns the current build version of the API server.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Version information"
// @Router /v1/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": config.Version,
	})
}

// GetHealthz godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API server.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Health status OK"
// @Router /v1/healthz [get]
func GetHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
