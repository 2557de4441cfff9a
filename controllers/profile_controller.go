package controllers

import (
	"alumni-chat/models"
	"alumni-chat/utils"

	"github.com/gin-gonic/gin"
)

// ListProfiles returns the whole alumni directory.
func (h *Handler) ListProfiles(c *gin.Context) {
	profiles, err := h.profiles.ListProfiles(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondSuccess(c, profiles, gin.H{"total": len(profiles)})
}

func (h *Handler) GetProfile(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondSuccess(c, profile, nil)
}

// PutProfile saves the caller's own directory entry; the id always comes from the token.
func (h *Handler) PutProfile(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var input models.Profile
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, errInvalidBody)
		return
	}
	input.ID = userID

	saved, err := h.profiles.PutProfile(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondSuccess(c, saved, nil)
}
