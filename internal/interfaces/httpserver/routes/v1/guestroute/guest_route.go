package guestroute

import (
	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/guesthandler"
)

// GuestRoute mounts the guest quota endpoints. The caller identifies
// itself through the X-Guest-ID header only.
type GuestRoute struct {
	handler *guesthandler.GuestHandler
}

func NewGuestRoute(handler *guesthandler.GuestHandler) *GuestRoute {
	return &GuestRoute{handler: handler}
}

func (r *GuestRoute) RegisterRouter(router gin.IRouter) {
	guests := router.Group("/guest")
	guests.GET("/quota", r.handler.Status)
	guests.POST("/email", r.handler.CaptureEmail)
}
