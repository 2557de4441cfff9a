package utils

import (
	"errors"
	"net/http"

	"alumni-chat/apperrors"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every API answer.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// RespondSuccess writes a 200 envelope carrying data and optional meta.
func RespondSuccess(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
		Meta:    meta,
	})
}

// RespondError maps err to an HTTP status by its apperrors code.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := "internal server error"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		msg = appErr.Message
	}
	c.AbortWithStatusJSON(status, Response{Code: status, Message: msg})
}

func StatusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.CodePermissionDenied:
		return http.StatusForbidden
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
