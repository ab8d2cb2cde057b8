// Package controller provides the HTTP request handlers of the image
// repository API: sessions, users, images and albums.
package controller

import (
	"net/http"

	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/service"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers.
type BaseController struct{}

// checkLogin is a route middleware rejecting anonymous callers. The principal
// itself is resolved earlier by middleware.PrincipalResolver.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{
			Success: false,
			Msg:     service.ErrTokenMissing.Error(),
		})
		return
	}
	c.Next()
}
