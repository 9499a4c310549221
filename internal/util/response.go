package util

import (
	"errors"
	"net/http"

	"lms_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the unified API envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// FromServiceError maps service errors onto HTTP statuses. Missing identity
// and non-ownership answer 401. An absent target answers 404, as does the
// chapter publish precondition, which the API reports as not-found. Course
// publish preconditions and malformed uploads answer 400 with the message.
// Anything else is logged and answers 500.
func FromServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrNotOwner),
		errors.Is(err, ErrInvalidCredentials):
		Unauthorized(c)
	case errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrChapterNotFound),
		errors.Is(err, ErrAttachmentNotFound),
		errors.Is(err, ErrIncompleteChapter):
		NotFound(c, err.Error())
	case errors.Is(err, ErrIncompleteCourse),
		errors.Is(err, ErrEmailRegistered),
		errors.Is(err, ErrInvalidVideoExt),
		errors.Is(err, ErrInvalidImageExt):
		BadRequest(c, err.Error())
	default:
		LogInternalError(c, err)
	}
}
