package controller

import (
	"fmt"
	"io"
	"net/http"

	"github.com/iceDeerStudio/Image-Repository-API/config"
	"github.com/iceDeerStudio/Image-Repository-API/storage"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/service"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"

	"github.com/gin-gonic/gin"
)

// ImageController handles image metadata and the file attach/fetch endpoints.
type ImageController struct {
	BaseController

	imageService service.ImageService
}

func NewImageController(g *gin.RouterGroup, store *storage.Store) *ImageController {
	a := &ImageController{
		imageService: service.ImageService{Store: store},
	}
	a.initRouter(g)
	return a
}

func (a *ImageController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.listImages)
	g.POST("", a.checkLogin, a.createImage)
	g.GET("/:id", a.getImage)
	g.PUT("/:id", a.checkLogin, a.updateImage)
	g.DELETE("/:id", a.checkLogin, a.deleteImage)

	g.GET("/:id/file", a.getFile)
	g.POST("/:id/file", a.checkLogin, a.uploadFile)
}

func (a *ImageController) listImages(c *gin.Context) {
	images, err := a.imageService.ListImages(session.GetPrincipal(c))
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, images)
}

func (a *ImageController) createImage(c *gin.Context) {
	var form entity.ImageForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, service.ErrValidation)
		return
	}

	image, err := a.imageService.CreateImage(session.GetPrincipal(c), &form)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonCreated(c, fmt.Sprintf("/images/%d", image.Id), "image created successfully", image)
}

func (a *ImageController) getImage(c *gin.Context) {
	imageId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	image, err := a.imageService.GetImage(session.GetPrincipal(c), imageId)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, image)
}

func (a *ImageController) updateImage(c *gin.Context) {
	imageId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	var form entity.ImageForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, service.ErrValidation)
		return
	}

	if err := a.imageService.UpdateImage(session.GetPrincipal(c), imageId, &form); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, "image updated successfully")
}

func (a *ImageController) deleteImage(c *gin.Context) {
	imageId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	if err := a.imageService.DeleteImage(session.GetPrincipal(c), imageId); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, "image deleted")
}

// uploadFile accepts a single multipart field named "file" and attaches its
// content to the image.
func (a *ImageController) uploadFile(c *gin.Context) {
	imageId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		jsonError(c, fmt.Errorf("%w: file is required", service.ErrValidation))
		return
	}
	if fileHeader.Size > config.GetMaxUploadSize() {
		jsonError(c, fmt.Errorf("%w: file exceeds the upload limit", service.ErrValidation))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		jsonError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(c, err)
		return
	}

	mimetype := fileHeader.Header.Get("Content-Type")
	if mimetype == "" {
		mimetype = http.DetectContentType(data)
	}

	if _, err := a.imageService.AttachFile(session.GetPrincipal(c), imageId, data, mimetype); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, "image uploaded")
}

// getFile streams the attached blob with its stored mimetype.
func (a *ImageController) getFile(c *gin.Context) {
	imageId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	file, mimetype, err := a.imageService.OpenFile(session.GetPrincipal(c), imageId)
	if err != nil {
		jsonError(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		jsonError(c, err)
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), mimetype, file, nil)
}
