// Package middleware provides gin middleware for the image repository API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/service"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"

	"github.com/gin-gonic/gin"
)

// PrincipalResolver turns the Authorization header into a typed principal,
// resolved once per request. Requests without a header proceed anonymously;
// a present but unusable token is rejected here so handlers never see one.
// The subject is looked up in the database on every request, so permission
// changes and deletions take effect immediately.
func PrincipalResolver(tokens *service.TokenService, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			session.SetPrincipal(c, session.Principal{})
			c.Next()
			return
		}

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			abortUnauthorized(c, service.ErrTokenMissing.Error())
			return
		}

		claims, err := tokens.VerifyKind(raw, service.TokenKindAccess)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		userId, err := claims.UserId()
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		user, err := users.GetById(userId)
		if err != nil {
			abortUnauthorized(c, "error looking up user, please login again")
			return
		}

		session.SetPrincipal(c, session.NewPrincipal(user, claims.Fresh, claims.ID))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{
		Success: false,
		Msg:     msg,
	})
}
