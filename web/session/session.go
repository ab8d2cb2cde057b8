// Package session carries the per-request principal resolved from the bearer
// token. The principal is stored once in the gin context by the middleware and
// passed explicitly into the services.
package session

import (
	"github.com/iceDeerStudio/Image-Repository-API/database/model"

	"github.com/gin-gonic/gin"
)

const principalKey = "PRINCIPAL"

// Principal identifies the caller of a request. The zero value is anonymous.
type Principal struct {
	Authenticated   bool
	UserId          int
	PermissionLevel int
	// Fresh is true when the access token came directly from a password login
	// rather than a refresh exchange.
	Fresh bool
	Jti   string
}

// NewPrincipal builds an authenticated principal from the stored user record.
// The permission level always comes from the database, never from the token.
func NewPrincipal(user *model.User, fresh bool, jti string) Principal {
	return Principal{
		Authenticated:   true,
		UserId:          user.Id,
		PermissionLevel: user.PermissionLevel,
		Fresh:           fresh,
		Jti:             jti,
	}
}

func (p Principal) IsAdmin() bool {
	return p.Authenticated && p.PermissionLevel >= model.PermissionAdmin
}

func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// GetPrincipal returns the request principal, anonymous when none was resolved.
func GetPrincipal(c *gin.Context) Principal {
	if obj, ok := c.Get(principalKey); ok {
		if p, ok := obj.(Principal); ok {
			return p
		}
	}
	return Principal{}
}

func IsLogin(c *gin.Context) bool {
	return GetPrincipal(c).Authenticated
}
