package faq

import (
	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/interfaces/httpserver/handlers/faqhandler"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/middlewares"
)

const faqRequestsPerMinute = 30

// FAQRoute mounts the one-shot grounded question endpoint. It is open
// but rate limited since it bypasses the guest quota.
type FAQRoute struct {
	handler *faqhandler.FAQHandler
}

func NewFAQRoute(handler *faqhandler.FAQHandler) *FAQRoute {
	return &FAQRoute{handler: handler}
}

func (r *FAQRoute) RegisterRouter(router gin.IRouter) {
	faq := router.Group("/faq")
	faq.Use(middlewares.RateLimitMiddleware(faqRequestsPerMinute))
	faq.POST("/ask", r.handler.Ask)
}
