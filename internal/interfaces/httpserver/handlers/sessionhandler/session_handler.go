package sessionhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/domain/chat"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/middlewares"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/responses"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// SessionHandler exposes the session management endpoints for members.
type SessionHandler struct {
	chats *chat.Service
}

func NewSessionHandler(chats *chat.Service) *SessionHandler {
	return &SessionHandler{chats: chats}
}

type updateSessionRequest struct {
	Title  *string `json:"title"`
	Status *string `json:"status" binding:"omitempty,oneof=active archived"`
}

// List handles GET /sessions.
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	sessions, err := h.chats.ListSessions(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, "list sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

// Messages handles GET /sessions/:id/messages.
func (h *SessionHandler) Messages(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	messages, err := h.chats.Messages(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "list session messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": len(messages)})
}

// Update handles PATCH /sessions/:id: rename and/or archive.
func (h *SessionHandler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid session update: "+err.Error(), "")
		return
	}
	if req.Title == nil && req.Status == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "nothing to update", "")
		return
	}

	ctx := c.Request.Context()
	sessionID := c.Param("id")
	if req.Title != nil {
		if err := h.chats.Rename(ctx, userID, sessionID, *req.Title); err != nil {
			responses.HandleError(c, err, "rename session")
			return
		}
	}
	if req.Status != nil {
		if err := h.chats.SetStatus(ctx, userID, sessionID, chat.SessionStatus(*req.Status)); err != nil {
			responses.HandleError(c, err, "update session status")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// Delete handles DELETE /sessions/:id. Soft: the row is purged later.
func (h *SessionHandler) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.chats.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		responses.HandleError(c, err, "delete session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Export handles GET /sessions/:id/export.
func (h *SessionHandler) Export(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	export, err := h.chats.ExportSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "export session")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="session-`+export.Session.ID+`.json"`)
	c.JSON(http.StatusOK, export)
}

func (h *SessionHandler) userID(c *gin.Context) (string, bool) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok || principal.ID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return "", false
	}
	return principal.ID, true
}
