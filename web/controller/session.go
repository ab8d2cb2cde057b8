package controller

import (
	"strings"

	"github.com/iceDeerStudio/Image-Repository-API/logger"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/service"

	"github.com/gin-gonic/gin"
)

// SessionController handles login, token refresh and logout. Refresh and
// logout authenticate with the REFRESH token, not the access token, so this
// controller parses the bearer header itself instead of going through the
// principal middleware.
type SessionController struct {
	BaseController

	sessionService service.SessionService
}

func NewSessionController(g *gin.RouterGroup, tokens *service.TokenService) *SessionController {
	a := &SessionController{
		sessionService: service.SessionService{Tokens: tokens},
	}
	a.initRouter(g)
	return a
}

func (a *SessionController) initRouter(g *gin.RouterGroup) {
	g.POST("", a.login)
	g.GET("", a.refresh)
	g.DELETE("", a.logout)
}

// login verifies credentials and returns an access/refresh token pair.
func (a *SessionController) login(c *gin.Context) {
	var form entity.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, service.ErrValidation)
		return
	}
	if form.Username == "" || form.Password == "" {
		jsonError(c, service.ErrValidation)
		return
	}

	pair, err := a.sessionService.Login(form.Username, form.Password)
	if err != nil {
		logger.Warningf("failed login for %q from %s", form.Username, getRemoteIp(c))
		jsonError(c, err)
		return
	}
	jsonObj(c, pair)
}

// refresh exchanges a valid refresh token for a new, non-fresh access token.
func (a *SessionController) refresh(c *gin.Context) {
	claims, err := a.refreshClaims(c)
	if err != nil {
		jsonError(c, err)
		return
	}

	pair, err := a.sessionService.Refresh(claims)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, pair)
}

// logout revokes the refresh token's jti for good.
func (a *SessionController) logout(c *gin.Context) {
	claims, err := a.refreshClaims(c)
	if err != nil {
		jsonError(c, err)
		return
	}

	if err := a.sessionService.Logout(claims); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, "user logged out")
}

// refreshClaims extracts and verifies the bearer refresh token.
func (a *SessionController) refreshClaims(c *gin.Context) (*service.TokenClaims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, service.ErrTokenMissing
	}
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, service.ErrTokenMissing
	}
	return a.sessionService.Tokens.VerifyKind(raw, service.TokenKindRefresh)
}
