package handler

import (
	"errors"
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/config"
	"moodmingle/backend/internal/models"
	"moodmingle/backend/internal/validation"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgUserNotFound   = "User not found"
	msgNothingToPatch = "No fields to update"
)

type createUserRequest struct {
	Username any `json:"username"`
	Avatar   any `json:"avatar"`
}

// ListMoods returns the fixed mood catalogue.
func (h *Handler) ListMoods(c *gin.Context) {
	c.JSON(http.StatusOK, models.Moods)
}

// CreateUser returns the user with the given username, creating it on first sight.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, msgInvalidBody)
		return
	}

	username, err := validation.Username(req.Username)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	var avatar string
	if req.Avatar != nil && req.Avatar != "" {
		if avatar, err = validation.Avatar(req.Avatar); err != nil {
			common.ErrorResponse(c, h.log, err)
			return
		}
		avatar = strings.TrimSpace(avatar)
	}

	user, created, err := h.Storage.CreateOrTouchUser(c.Request.Context(), username, avatar)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	if created {
		h.log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user created")
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := validation.UserID(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}

	user, err := h.Storage.GetUserByID(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	if user == nil {
		common.ErrorResponse(c, h.log, common.NotFound(msgUserNotFound))
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser patches status and/or avatar. Only the keys present in the body are touched.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := validation.UserID(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		common.BadRequest(c, msgInvalidBody)
		return
	}

	fields := make(map[string]any)
	if v, ok := body["status"]; ok {
		status, err := validation.Status(v)
		if err != nil {
			common.ErrorResponse(c, h.log, err)
			return
		}
		fields["status"] = strings.TrimSpace(status)
	}
	if v, ok := body["avatar"]; ok {
		avatar, err := validation.Avatar(v)
		if err != nil {
			common.ErrorResponse(c, h.log, err)
			return
		}
		fields["avatar"] = strings.TrimSpace(avatar)
	}
	if len(fields) == 0 {
		common.BadRequest(c, msgNothingToPatch)
		return
	}
	fields["last_active"] = time.Now().UTC()

	if _, err := h.Storage.UpdateUserProfile(c.Request.Context(), id, fields); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = common.NotFound(msgUserNotFound)
		}
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MatchUsers lists users currently in the mood who were active within the last hour.
func (h *Handler) MatchUsers(c *gin.Context) {
	moodID, err := validation.MoodID(c.Param("moodId"))
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}

	var exclude uint
	if raw := c.Query("exclude"); raw != "" {
		// Невалідний exclude просто ігноруємо.
		exclude, _ = validation.UserID(raw)
	}

	since := time.Now().UTC().Add(-config.MatchActivityWindow)
	users, err := h.Storage.FindUsersByMood(c.Request.Context(), moodID, since, exclude, config.MatchListLimit)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
