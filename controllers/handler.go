package controllers

import (
	"log/slog"
	"strconv"

	"alumni-chat/apperrors"
	"alumni-chat/middlewares"
	"alumni-chat/services"

	"github.com/gin-gonic/gin"
)

// Handler serves the messaging API on top of the services.
type Handler struct {
	store    *services.ConversationStore
	indexer  *services.ConversationIndexer
	profiles *services.KVProfileDirectory
	hub      *services.Hub
	ws       *services.WSHandler
	logger   *slog.Logger
}

func NewHandler(
	store *services.ConversationStore,
	indexer *services.ConversationIndexer,
	profiles *services.KVProfileDirectory,
	hub *services.Hub,
	ws *services.WSHandler,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:    store,
		indexer:  indexer,
		profiles: profiles,
		hub:      hub,
		ws:       ws,
		logger:   logger.With("component", "api"),
	}
}

var errInvalidBody = apperrors.InvalidArg("invalid request body")

// currentUser reads the caller id placed by the auth middleware.
func currentUser(c *gin.Context) (int64, error) {
	id, ok := middlewares.UserID(c)
	if !ok {
		return 0, apperrors.Unauthorized("user not found")
	}
	return id, nil
}

func userIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidArg("invalid user_id")
	}
	return id, nil
}
