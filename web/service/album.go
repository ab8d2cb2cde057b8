package service

import (
	"github.com/iceDeerStudio/Image-Repository-API/database"
	"github.com/iceDeerStudio/Image-Repository-API/database/model"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"

	"gorm.io/gorm"
)

const defaultAlbumName = "Untitled"

type AlbumService struct{}

func (s *AlbumService) getById(albumId int) (*model.Album, error) {
	db := database.GetDB()

	album := &model.Album{}
	err := db.Model(model.Album{}).
		Preload("Images").
		Where("id = ?", albumId).
		First(album).
		Error
	if database.IsNotFound(err) {
		return nil, notFoundf("album %d not found", albumId)
	} else if err != nil {
		return nil, err
	}
	return album, nil
}

func (s *AlbumService) GetAlbum(p session.Principal, albumId int) (*model.Album, error) {
	album, err := s.getById(albumId)
	if err != nil {
		return nil, err
	}
	if !CanRead(p, album.OwnerId, album.Visibility) {
		return nil, ErrPermissionDenied
	}
	return album, nil
}

func (s *AlbumService) ListAlbums(p session.Principal) ([]model.Album, error) {
	db := database.GetDB()

	var albums []model.Album
	query := db.Model(model.Album{}).Preload("Images").Order("id")
	switch {
	case p.IsAdmin():
	case p.Authenticated:
		query = query.Where("visibility = ? OR owner_id = ?", model.VisibilityPublic, p.UserId)
	default:
		query = query.Where("visibility = ?", model.VisibilityPublic)
	}
	if err := query.Find(&albums).Error; err != nil {
		return nil, err
	}
	return albums, nil
}

// CreateAlbum stores a new album owned by the caller. Supplied image ids that
// do not resolve to an existing image are dropped silently; the stored set is
// the resolved subset.
func (s *AlbumService) CreateAlbum(p session.Principal, form *entity.AlbumForm) (*model.Album, error) {
	if form.AlbumName == nil {
		return nil, validationf("album_name is required")
	}
	if form.Description == nil {
		return nil, validationf("description is required")
	}
	if form.Visibility == nil {
		return nil, validationf("visibility is required")
	}
	if form.Images == nil {
		return nil, validationf("images is required")
	}
	if err := checkVisibility(*form.Visibility); err != nil {
		return nil, err
	}

	if !p.Authenticated || p.PermissionLevel < model.PermissionUser {
		return nil, ErrPermissionDenied
	}

	album := &model.Album{
		AlbumName:   albumNameOrDefault(*form.AlbumName),
		Description: *form.Description,
		OwnerId:     p.UserId,
		Visibility:  *form.Visibility,
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		album.Images = resolveImages(tx, *form.Images)
		return tx.Create(album).Error
	})
	if err != nil {
		return nil, err
	}
	return album, nil
}

// UpdateAlbum replaces name, description, visibility and the full image set.
func (s *AlbumService) UpdateAlbum(p session.Principal, albumId int, form *entity.AlbumForm) error {
	if form.AlbumName == nil {
		return validationf("album_name is required")
	}
	if form.Description == nil {
		return validationf("description is required")
	}
	if form.Visibility == nil {
		return validationf("visibility is required")
	}
	if form.Images == nil {
		return validationf("images is required")
	}
	if err := checkVisibility(*form.Visibility); err != nil {
		return err
	}

	album, err := s.getById(albumId)
	if err != nil {
		return err
	}
	if !CanWriteOrDelete(p, album.OwnerId, model.PermissionAdmin) {
		return ErrPermissionDenied
	}

	album.AlbumName = albumNameOrDefault(*form.AlbumName)
	album.Description = *form.Description
	album.Visibility = *form.Visibility

	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		images := resolveImages(tx, *form.Images)
		if err := tx.Model(album).Association("Images").Replace(images); err != nil {
			return err
		}
		return tx.Save(album).Error
	})
}

func (s *AlbumService) DeleteAlbum(p session.Principal, albumId int) error {
	album, err := s.getById(albumId)
	if err != nil {
		return err
	}
	if !CanWriteOrDelete(p, album.OwnerId, model.PermissionAdmin) {
		return ErrPermissionDenied
	}

	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(album).Association("Images").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Album{}, albumId).Error
	})
}

// resolveImages loads the images that actually exist among ids; unknown ids
// are not an error.
func resolveImages(tx *gorm.DB, ids []int) []model.Image {
	var images []model.Image
	if len(ids) == 0 {
		return images
	}
	tx.Where("id IN ?", ids).Find(&images)
	return images
}

func albumNameOrDefault(name string) string {
	if name == "" {
		return defaultAlbumName
	}
	return name
}
