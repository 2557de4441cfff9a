package routes

import (
	"net/http"

	"alumni-chat/controllers"
	"alumni-chat/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the HTTP and websocket surface onto a new engine.
func RegisterRoutes(h *controllers.Handler, allowOrigins []string, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		// The websocket token travels in the query string.
		r.Use(gin.LoggerWithConfig(gin.LoggerConfig{SkipPaths: []string{"/ws"}}))
	}

	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		// Credentials cannot be combined with a wildcard origin.
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowOrigins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws", middlewares.WebSocketAuthMiddleware(jwtSecret), h.WSController)

	protected := r.Group("/api")
	protected.Use(middlewares.TokenAuthMiddleware(jwtSecret))
	{
		protected.POST("/messages", h.SendMessage)
		protected.GET("/conversations", h.ListConversations)
		protected.GET("/conversations/:user_id", h.GetConversation)
		protected.POST("/conversations/:user_id/read", h.MarkAsRead)
		protected.GET("/unread", h.GetUnreadCount)
		protected.GET("/profiles", h.ListProfiles)
		protected.GET("/profiles/:user_id", h.GetProfile)
		protected.PUT("/profile", h.PutProfile)
	}

	return r
}
