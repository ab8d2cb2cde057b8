package controller

import (
	"fmt"

	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/service"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"

	"github.com/gin-gonic/gin"
)

// UserController handles registration and user management.
type UserController struct {
	BaseController

	userService service.UserService
}

func NewUserController(g *gin.RouterGroup) *UserController {
	a := &UserController{}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	// Registration is open to anonymous callers.
	g.POST("", a.createUser)

	g.GET("", a.checkLogin, a.listUsers)
	g.GET("/:id", a.checkLogin, a.getUser)
	g.PUT("/:id", a.checkLogin, a.updateUser)
	g.DELETE("/:id", a.checkLogin, a.deleteUser)
}

func (a *UserController) createUser(c *gin.Context) {
	var form entity.UserForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, service.ErrValidation)
		return
	}

	user, err := a.userService.CreateUser(session.GetPrincipal(c), &form)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonCreated(c, fmt.Sprintf("/users/%d", user.Id), "user created successfully", user)
}

func (a *UserController) listUsers(c *gin.Context) {
	users, err := a.userService.ListUsers(session.GetPrincipal(c))
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, users)
}

func (a *UserController) getUser(c *gin.Context) {
	userId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	user, err := a.userService.GetUser(session.GetPrincipal(c), userId)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, user)
}

func (a *UserController) updateUser(c *gin.Context) {
	userId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	var form entity.UserForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, service.ErrValidation)
		return
	}

	if err := a.userService.UpdateUser(session.GetPrincipal(c), userId, &form); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, "user updated successfully")
}

func (a *UserController) deleteUser(c *gin.Context) {
	userId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	if err := a.userService.DeleteUser(session.GetPrincipal(c), userId); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, "user deleted successfully")
}
