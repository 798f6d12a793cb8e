package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/profilehandler"
)

// ProfileRoute mounts the member profile and gamification endpoints.
type ProfileRoute struct {
	handler *profilehandler.ProfileHandler
}

func NewProfileRoute(handler *profilehandler.ProfileHandler) *ProfileRoute {
	return &ProfileRoute{handler: handler}
}

func (r *ProfileRoute) RegisterRouter(router gin.IRouter) {
	profile := router.Group("/profile")
	profile.GET("", r.handler.Get)
	profile.PATCH("", r.handler.Update)
	profile.GET("/achievements", r.handler.Achievements)
	profile.POST("/stats", r.handler.IncrementStat)
	profile.POST("/login", r.handler.RecordLogin)
	profile.POST("/avatar", r.handler.UploadAvatar)
}
