package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/iceDeerStudio/Image-Repository-API/logger"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/service"

	"github.com/gin-gonic/gin"
)

// jsonMsg sends a success response with a message.
func jsonMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, entity.Msg{Success: true, Msg: msg})
}

// jsonObj sends a success response with a data object.
func jsonObj(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, entity.Msg{Success: true, Obj: obj})
}

// jsonCreated sends a 201 response with a Location header for the new
// resource.
func jsonCreated(c *gin.Context, location string, msg string, obj any) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, entity.Msg{Success: true, Msg: msg, Obj: obj})
}

// jsonError maps a service error onto its HTTP status. Uncategorized errors
// are logged and surface as a generic server error.
func jsonError(c *gin.Context, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Warning("request failed: ", err)
		msg = "internal server error"
	}
	c.JSON(status, entity.Msg{Success: false, Msg: msg})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenMissing),
		errors.Is(err, service.ErrTokenInvalid),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked),
		errors.Is(err, service.ErrTokenNotFresh):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// pathId parses the numeric id path parameter.
func pathId(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrValidation, name)
	}
	return id, nil
}

// getRemoteIp extracts the real IP address from the request headers or remote
// address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		return value
	}
	return c.ClientIP()
}
