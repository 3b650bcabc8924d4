package handler

import (
	"errors"
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/validation"
	"net/http"

	"github.com/gin-gonic/gin"
)

type setMoodRequest struct {
	UserID any `json:"userId"`
	MoodID any `json:"moodId"`
}

// GetMood returns the current mood as {"id": ...}, with a null id for unknown users and users without a mood.
func (h *Handler) GetMood(c *gin.Context) {
	userID, err := validation.UserID(c.Param("userId"))
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}

	mood, err := h.Storage.GetCurrentMood(c.Request.Context(), userID)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": mood})
}

// SetMood sets the user's current mood and appends it to the mood log.
func (h *Handler) SetMood(c *gin.Context) {
	var req setMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, msgInvalidBody)
		return
	}

	userID, err := validation.UserID(req.UserID)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	moodID, err := validation.MoodID(req.MoodID)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}

	entry, err := h.Storage.SetUserMood(c.Request.Context(), userID, moodID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = common.NotFound(msgUserNotFound)
		}
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
