package controller

import (
	"fmt"
	"time"

	"github.com/iceDeerStudio/Image-Repository-API/database/model"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/service"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"

	"github.com/gin-gonic/gin"
)

// AlbumController handles album management.
type AlbumController struct {
	BaseController

	albumService service.AlbumService
}

func NewAlbumController(g *gin.RouterGroup) *AlbumController {
	a := &AlbumController{}
	a.initRouter(g)
	return a
}

func (a *AlbumController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.listAlbums)
	g.POST("", a.checkLogin, a.createAlbum)
	g.GET("/:id", a.getAlbum)
	g.PUT("/:id", a.checkLogin, a.updateAlbum)
	g.DELETE("/:id", a.checkLogin, a.deleteAlbum)
}

func (a *AlbumController) listAlbums(c *gin.Context) {
	albums, err := a.albumService.ListAlbums(session.GetPrincipal(c))
	if err != nil {
		jsonError(c, err)
		return
	}

	views := make([]entity.AlbumView, 0, len(albums))
	for i := range albums {
		views = append(views, albumView(&albums[i]))
	}
	jsonObj(c, views)
}

func (a *AlbumController) createAlbum(c *gin.Context) {
	var form entity.AlbumForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, service.ErrValidation)
		return
	}

	album, err := a.albumService.CreateAlbum(session.GetPrincipal(c), &form)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonCreated(c, fmt.Sprintf("/albums/%d", album.Id), "album created successfully", albumView(album))
}

func (a *AlbumController) getAlbum(c *gin.Context) {
	albumId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	album, err := a.albumService.GetAlbum(session.GetPrincipal(c), albumId)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, albumView(album))
}

func (a *AlbumController) updateAlbum(c *gin.Context) {
	albumId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	var form entity.AlbumForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, service.ErrValidation)
		return
	}

	if err := a.albumService.UpdateAlbum(session.GetPrincipal(c), albumId, &form); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, "album updated successfully")
}

func (a *AlbumController) deleteAlbum(c *gin.Context) {
	albumId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	if err := a.albumService.DeleteAlbum(session.GetPrincipal(c), albumId); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, "album deleted successfully")
}

// albumView flattens the loaded image association into a list of ids.
func albumView(album *model.Album) entity.AlbumView {
	return entity.AlbumView{
		Id:          album.Id,
		AlbumName:   album.AlbumName,
		Description: album.Description,
		CreatedAt:   album.CreatedAt.Format(time.RFC3339),
		OwnerId:     album.OwnerId,
		Visibility:  album.Visibility,
		Images:      album.ImageIds(),
	}
}
