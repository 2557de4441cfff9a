package controllers

import (
	"strings"

	"alumni-chat/apperrors"
	"alumni-chat/utils"

	"github.com/gin-gonic/gin"
)

type sendMessageRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Content     string `json:"content"`
}

// SendMessage stores a message from the caller and pushes it to the room.
func (h *Handler) SendMessage(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var input sendMessageRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, errInvalidBody)
		return
	}
	if input.RecipientID <= 0 {
		utils.RespondError(c, apperrors.InvalidArg("invalid recipient_id"))
		return
	}
	if strings.TrimSpace(input.Content) == "" {
		utils.RespondError(c, apperrors.ErrEmptyContent)
		return
	}

	msg, err := h.store.SendMessage(c.Request.Context(), userID, input.RecipientID, input.Content)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	// The store is authoritative; a failed push only costs the live update.
	if err := h.hub.PublishMessage(msg); err != nil {
		h.logger.Warn("failed to push message", "message_id", msg.ID, "error", err)
	}

	utils.RespondSuccess(c, msg, nil)
}

// GetUnreadCount returns the caller's unread badge count.
func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	count, err := h.indexer.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"count": count}, nil)
}
