package controllers

import (
	"alumni-chat/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) WSController(ctx *gin.Context) {
	userID, err := currentUser(ctx)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	if err := h.ws.Serve(ctx.Writer, ctx.Request, userID); err != nil {
		h.logger.Debug("websocket upgrade failed", "user_id", userID, "error", err)
	}
}
