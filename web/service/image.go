package service

import (
	"os"

	"github.com/iceDeerStudio/Image-Repository-API/database"
	"github.com/iceDeerStudio/Image-Repository-API/database/model"
	"github.com/iceDeerStudio/Image-Repository-API/logger"
	"github.com/iceDeerStudio/Image-Repository-API/storage"
	"github.com/iceDeerStudio/Image-Repository-API/util/common"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"

	"gorm.io/gorm"
)

// ImageService manages image metadata and the attached content-addressed
// blobs.
type ImageService struct {
	Store *storage.Store
}

func (s *ImageService) getById(imageId int) (*model.Image, error) {
	db := database.GetDB()

	image := &model.Image{}
	err := db.Model(model.Image{}).
		Where("id = ?", imageId).
		First(image).
		Error
	if database.IsNotFound(err) {
		return nil, notFoundf("image %d not found", imageId)
	} else if err != nil {
		return nil, err
	}
	return image, nil
}

// GetImage returns the image when the principal may read it. A missing id is
// NOT_FOUND for everyone; an existing but unreadable one is PERMISSION_DENIED.
func (s *ImageService) GetImage(p session.Principal, imageId int) (*model.Image, error) {
	image, err := s.getById(imageId)
	if err != nil {
		return nil, err
	}
	if !CanRead(p, image.OwnerId, image.Visibility) {
		return nil, ErrPermissionDenied
	}
	return image, nil
}

// ListImages returns public images plus, for authenticated callers, their own;
// admins see everything.
func (s *ImageService) ListImages(p session.Principal) ([]model.Image, error) {
	db := database.GetDB()

	var images []model.Image
	query := db.Model(model.Image{}).Order("id")
	switch {
	case p.IsAdmin():
	case p.Authenticated:
		query = query.Where("visibility = ? OR owner_id = ?", model.VisibilityPublic, p.UserId)
	default:
		query = query.Where("visibility = ?", model.VisibilityPublic)
	}
	if err := query.Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// CreateImage stores image metadata owned by the caller; the file is attached
// separately. Visibility defaults to hidden.
func (s *ImageService) CreateImage(p session.Principal, form *entity.ImageForm) (*model.Image, error) {
	if form.Description == nil {
		return nil, validationf("description is required")
	}
	visibility := model.VisibilityHidden
	if form.Visibility != nil {
		visibility = *form.Visibility
	}
	if err := checkVisibility(visibility); err != nil {
		return nil, err
	}

	if !p.Authenticated || p.PermissionLevel < model.PermissionUser {
		return nil, ErrPermissionDenied
	}

	image := &model.Image{
		Description: *form.Description,
		OwnerId:     p.UserId,
		Visibility:  visibility,
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(image).Error
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (s *ImageService) UpdateImage(p session.Principal, imageId int, form *entity.ImageForm) error {
	if form.Description == nil {
		return validationf("description is required")
	}
	if form.Visibility == nil {
		return validationf("visibility is required")
	}
	if err := checkVisibility(*form.Visibility); err != nil {
		return err
	}

	image, err := s.getById(imageId)
	if err != nil {
		return err
	}
	if !CanWriteOrDelete(p, image.OwnerId, model.PermissionAdmin) {
		return ErrPermissionDenied
	}

	image.Description = *form.Description
	image.Visibility = *form.Visibility

	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(image).Error
	})
}

// DeleteImage removes the metadata and any album associations. The blob stays;
// other images may share it.
func (s *ImageService) DeleteImage(p session.Principal, imageId int) error {
	image, err := s.getById(imageId)
	if err != nil {
		return err
	}
	if !CanWriteOrDelete(p, image.OwnerId, model.PermissionAdmin) {
		return ErrPermissionDenied
	}

	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM album_images WHERE image_id = ?", imageId).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Image{}, imageId).Error
	})
}

// AttachFile writes the uploaded bytes into the content store and points the
// image at the resulting digest. Re-attaching overwrites the pointer; the
// previous blob is never garbage-collected (known limitation).
func (s *ImageService) AttachFile(p session.Principal, imageId int, data []byte, mimetype string) (*model.Image, error) {
	image, err := s.getById(imageId)
	if err != nil {
		return nil, err
	}
	if !CanWriteOrDelete(p, image.OwnerId, model.PermissionAdmin) {
		return nil, ErrPermissionDenied
	}

	digest, err := s.Store.Put(data)
	if err != nil {
		return nil, err
	}

	image.HashValue = &digest
	image.Mimetype = &mimetype

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(image).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("image %d: attached %s blob %s (%s)", imageId, mimetype, digest[:12], common.FormatBytes(int64(len(data))))
	return image, nil
}

// OpenFile streams the blob attached to a readable image. The caller closes
// the file.
func (s *ImageService) OpenFile(p session.Principal, imageId int) (*os.File, string, error) {
	image, err := s.getById(imageId)
	if err != nil {
		return nil, "", err
	}
	if !CanRead(p, image.OwnerId, image.Visibility) {
		return nil, "", ErrPermissionDenied
	}
	if !image.HasFile() {
		return nil, "", notFoundf("image %d has no file attached", imageId)
	}

	file, err := s.Store.Open(*image.HashValue)
	if err == storage.ErrBlobNotFound {
		return nil, "", notFoundf("image file not found")
	} else if err != nil {
		return nil, "", err
	}
	return file, *image.Mimetype, nil
}

func checkVisibility(visibility int) error {
	if visibility < model.VisibilityPublic || visibility > model.VisibilityPrivate {
		return validationf("visibility must be 0 (public), 1 (hidden) or 2 (private)")
	}
	return nil
}
