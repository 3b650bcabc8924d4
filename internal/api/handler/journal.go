package handler

import (
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/models"
	"moodmingle/backend/internal/validation"
	"net/http"

	"github.com/gin-gonic/gin"
)

type journalRequest struct {
	UserID any `json:"userId"`
	Text   any `json:"text"`
	Date   any `json:"date"`
	Time   any `json:"time"`
}

func (h *Handler) ListJournal(c *gin.Context) {
	userID, err := validation.UserID(c.Param("userId"))
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}

	entries, err := h.Storage.ListJournalEntries(c.Request.Context(), userID)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// CreateJournalEntry stores a private note. Date and time are kept as the client sent them.
func (h *Handler) CreateJournalEntry(c *gin.Context) {
	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, msgInvalidBody)
		return
	}

	userID, err := validation.UserID(req.UserID)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	text, err := validation.JournalText(req.Text)
	if err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}

	entry := &models.JournalEntry{
		UserID: userID,
		Text:   text,
		Date:   validation.TimeLabel(req.Date),
		Time:   validation.TimeLabel(req.Time),
	}
	if err := h.Storage.CreateJournalEntry(c.Request.Context(), entry); err != nil {
		common.ErrorResponse(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
