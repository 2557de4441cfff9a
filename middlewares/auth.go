package middlewares

import (
	"errors"
	"strconv"
	"strings"

	"alumni-chat/apperrors"
	"alumni-chat/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

// TokenAuthMiddleware verifies the HS256 token issued by the identity
// provider and stores its numeric subject as the caller's user id. The token
// is read from the Authorization header only.
func TokenAuthMiddleware(secret string) gin.HandlerFunc {
	return tokenAuth([]byte(secret), false)
}

// WebSocketAuthMiddleware is TokenAuthMiddleware for the websocket upgrade,
// where browsers cannot set headers: it also accepts the token query parameter.
func WebSocketAuthMiddleware(secret string) gin.HandlerFunc {
	return tokenAuth([]byte(secret), true)
}

func tokenAuth(key []byte, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" && allowQuery {
			raw = c.Query("token")
		}
		if raw == "" {
			utils.RespondError(c, apperrors.Unauthorized("missing token"))
			return
		}

		userID, err := parseUserID(raw, key)
		if err != nil {
			utils.RespondError(c, apperrors.Unauthorized("invalid token"))
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller set by TokenAuthMiddleware.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func parseUserID(raw string, key []byte) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("subject is not a user id")
	}
	return id, nil
}
