package guesthandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/daosail/daosail-server/internal/domain/guest"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/middlewares"
	chatrequests "github.com/daosail/daosail-server/internal/interfaces/httpserver/requests/chat"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/responses"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// GuestHandler exposes the guest quota endpoints.
type GuestHandler struct {
	guests *guest.Service
	logger zerolog.Logger
}

func NewGuestHandler(guests *guest.Service, logger zerolog.Logger) *GuestHandler {
	return &GuestHandler{guests: guests, logger: logger}
}

// Status handles GET /guest/quota.
func (h *GuestHandler) Status(c *gin.Context) {
	guestID, ok := h.guestID(c)
	if !ok {
		return
	}

	quota, err := h.guests.Status(c.Request.Context(), guestID)
	if err != nil {
		responses.HandleError(c, err, "guest quota lookup failed")
		return
	}

	c.JSON(http.StatusOK, quota)
}

// CaptureEmail handles POST /guest/email: one-time quota extension in
// exchange for a contact address.
func (h *GuestHandler) CaptureEmail(c *gin.Context) {
	guestID, ok := h.guestID(c)
	if !ok {
		return
	}

	var req chatrequests.CaptureEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "a valid email is required", "")
		return
	}

	quota, err := h.guests.CaptureEmail(c.Request.Context(), guestID, req.Email)
	if err != nil {
		responses.HandleError(c, err, "capture guest email")
		return
	}

	h.logger.Info().Str("guest_id", guestID).Msg("guest email captured")
	c.JSON(http.StatusOK, quota)
}

func (h *GuestHandler) guestID(c *gin.Context) (string, bool) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok || principal.GuestID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "X-Guest-ID header is required", "")
		return "", false
	}
	return principal.GuestID, true
}
