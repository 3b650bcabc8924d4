package handler

import (
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/models"
	"moodmingle/backend/internal/social"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type requestChatResponse struct {
	Success bool `json:"success"`
	*social.RequestResult
}

type respondChatResponse struct {
	Success bool `json:"success"`
	*social.RespondResult
}

func (h *Handler) SendHeart(c *gin.Context) {
	var req models.HeartPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, msgInvalidBody)
		return
	}

	if _, err := h.Social.SendHeart(c.Request.Context(), req); err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Heart sent!"})
}

func (h *Handler) ListHearts(c *gin.Context) {
	hearts, err := h.Social.ListHearts(c.Request.Context(), c.Param("userId"))
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, hearts)
}

func (h *Handler) MarkHeartsRead(c *gin.Context) {
	n, err := h.Social.MarkHeartsRead(c.Request.Context(), c.Param("userId"))
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": n})
}

func (h *Handler) ClearHearts(c *gin.Context) {
	n, err := h.Social.ClearHearts(c.Request.Context(), c.Param("userId"))
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": n})
}

// RequestPrivateChat answers with a new pending request or the pair's open room.
func (h *Handler) RequestPrivateChat(c *gin.Context) {
	var req social.ChatRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, msgInvalidBody)
		return
	}

	res, err := h.Social.RequestChat(c.Request.Context(), req)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, requestChatResponse{Success: true, RequestResult: res})
}

func (h *Handler) RespondPrivateChat(c *gin.Context) {
	var req social.ChatResponseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, msgInvalidBody)
		return
	}

	res, err := h.Social.RespondChat(c.Request.Context(), req)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, respondChatResponse{Success: true, RespondResult: res})
}

func (h *Handler) ListChatRequests(c *gin.Context) {
	requests, err := h.Social.ListPending(c.Request.Context(), c.Param("userId"))
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *Handler) ClearChatRequests(c *gin.Context) {
	n, err := h.Social.ClearPending(c.Request.Context(), c.Param("userId"))
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": n})
}

// RoomHistory returns a mood room's messages in insertion order.
func (h *Handler) RoomHistory(c *gin.Context) {
	roomID := strings.ToLower(strings.TrimSpace(c.Param("roomId")))

	messages, err := h.Storage.GetRoomHistory(c.Request.Context(), roomID)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
