package profilehandler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/daosail/daosail-server/internal/config"
	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/infrastructure/metrics"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/middlewares"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/responses"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// ProfileHandler exposes the member profile and gamification endpoints.
type ProfileHandler struct {
	profiles      *profile.Service
	avatarMaxSize int64
	logger        zerolog.Logger
}

func NewProfileHandler(profiles *profile.Service, cfg *config.Config, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, avatarMaxSize: cfg.AvatarMaxSize, logger: logger}
}

type updateProfileRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=120"`
	Nickname *string `json:"nickname" binding:"omitempty,max=60"`
	City     *string `json:"city" binding:"omitempty,max=120"`
	Bio      *string `json:"bio" binding:"omitempty,max=2000"`
}

type incrementStatRequest struct {
	Stat string `json:"stat" binding:"required"`
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	p, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, "load profile")
		return
	}

	c.JSON(http.StatusOK, p)
}

// Update handles PATCH /profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid profile update: "+err.Error(), "")
		return
	}

	upd := profile.Update{
		FullName: req.FullName,
		Nickname: req.Nickname,
		City:     req.City,
		Bio:      req.Bio,
	}
	if err := h.profiles.UpdateProfile(c.Request.Context(), userID, upd); err != nil {
		responses.HandleError(c, err, "update profile")
		return
	}

	p, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, "reload profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Achievements handles GET /profile/achievements.
func (h *ProfileHandler) Achievements(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	unlocked, err := h.profiles.Achievements(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, "list achievements")
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": unlocked, "total": len(unlocked)})
}

// IncrementStat handles POST /profile/stats. Promotion and achievement
// checks run inline so the client sees unlocks immediately.
func (h *ProfileHandler) IncrementStat(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req incrementStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "stat is required", "")
		return
	}
	stat, valid := profile.ParseStatName(req.Stat)
	if !valid {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unknown stat "+req.Stat, "")
		return
	}

	ctx := c.Request.Context()
	if err := h.profiles.IncrementStat(ctx, userID, stat); err != nil {
		responses.HandleError(c, err, "increment stat")
		return
	}

	unlocked, err := h.profiles.EvaluateAchievements(ctx, userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("achievement evaluation failed")
	}
	for _, id := range unlocked {
		metrics.RecordAchievement(id)
	}
	promoted, err := h.profiles.CheckAndPromote(ctx, userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("promotion check failed")
	}

	resp := gin.H{"status": "recorded", "unlocked": unlocked}
	if promoted != nil {
		metrics.RecordPromotion(promoted.String())
		resp["promoted_to"] = promoted.String()
	}
	c.JSON(http.StatusOK, resp)
}

// RecordLogin handles POST /profile/login; the client calls it once per
// sign-in to advance the login streak.
func (h *ProfileHandler) RecordLogin(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.profiles.RecordLogin(c.Request.Context(), userID); err != nil {
		responses.HandleError(c, err, "record login")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// UploadAvatar handles POST /profile/avatar with a multipart "avatar" file.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "avatar file is required", "")
		return
	}
	if file.Size > h.avatarMaxSize {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "avatar file too large", "")
		return
	}

	src, err := file.Open()
	if err != nil {
		responses.HandleError(c, err, "open avatar upload")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.avatarMaxSize+1))
	if err != nil {
		responses.HandleError(c, err, "read avatar upload")
		return
	}
	if int64(len(data)) > h.avatarMaxSize {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "avatar file too large", "")
		return
	}

	url, err := h.profiles.UploadAvatar(c.Request.Context(), userID, data)
	if err != nil {
		responses.HandleError(c, err, "store avatar")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

func (h *ProfileHandler) userID(c *gin.Context) (string, bool) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok || principal.ID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return "", false
	}
	return principal.ID, true
}
