package controllers

import (
	"alumni-chat/utils"

	"github.com/gin-gonic/gin"
)

// ListConversations returns the caller's conversations, most recent first.
func (h *Handler) ListConversations(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	summaries, err := h.indexer.GetUserConversations(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondSuccess(c, summaries, gin.H{"total": len(summaries)})
}

// GetConversation returns the message history between the caller and :user_id.
func (h *Handler) GetConversation(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	otherID, err := userIDParam(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	messages, err := h.store.GetConversation(c.Request.Context(), userID, otherID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondSuccess(c, messages, nil)
}

// MarkAsRead flags the messages :user_id sent to the caller as read.
func (h *Handler) MarkAsRead(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	otherID, err := userIDParam(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	marked, err := h.store.MarkAsRead(c.Request.Context(), userID, otherID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"marked": marked}, nil)
}
