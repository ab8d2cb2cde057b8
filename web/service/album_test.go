package service

import (
	"testing"

	"github.com/iceDeerStudio/Image-Repository-API/database/model"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"

	"github.com/stretchr/testify/assert"
)

func TestCreateAlbumDropsUnresolvedImageIds(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)
	image := createTestImage(t, alice, model.VisibilityPublic)

	albumService := AlbumService{}
	album, err := albumService.CreateAlbum(alice, &entity.AlbumForm{
		AlbumName:   strPtr("holiday"),
		Description: strPtr("pics"),
		Visibility:  intPtr(model.VisibilityPublic),
		Images:      &[]int{image.Id, 9999},
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{image.Id}, album.ImageIds())
}

func TestCreateAlbumDefaultsEmptyName(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)

	albumService := AlbumService{}
	album, err := albumService.CreateAlbum(alice, &entity.AlbumForm{
		AlbumName:   strPtr(""),
		Description: strPtr("unnamed"),
		Visibility:  intPtr(model.VisibilityHidden),
		Images:      &[]int{},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Untitled", album.AlbumName)
}

func TestCreateAlbumValidation(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)

	albumService := AlbumService{}
	_, err := albumService.CreateAlbum(alice, &entity.AlbumForm{
		AlbumName:  strPtr("no description"),
		Visibility: intPtr(model.VisibilityPublic),
		Images:     &[]int{},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = albumService.CreateAlbum(session.Principal{}, &entity.AlbumForm{
		AlbumName:   strPtr("anonymous"),
		Description: strPtr("nope"),
		Visibility:  intPtr(model.VisibilityPublic),
		Images:      &[]int{},
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateAlbumReplacesImageSet(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)
	first := createTestImage(t, alice, model.VisibilityPublic)
	second := createTestImage(t, alice, model.VisibilityPublic)

	albumService := AlbumService{}
	album, err := albumService.CreateAlbum(alice, &entity.AlbumForm{
		AlbumName:   strPtr("holiday"),
		Description: strPtr("pics"),
		Visibility:  intPtr(model.VisibilityPublic),
		Images:      &[]int{first.Id},
	})
	assert.NoError(t, err)

	err = albumService.UpdateAlbum(alice, album.Id, &entity.AlbumForm{
		AlbumName:   strPtr("holiday 2"),
		Description: strPtr("more pics"),
		Visibility:  intPtr(model.VisibilityPrivate),
		Images:      &[]int{second.Id, 9999},
	})
	assert.NoError(t, err)

	reloaded, err := albumService.GetAlbum(alice, album.Id)
	assert.NoError(t, err)
	assert.Equal(t, "holiday 2", reloaded.AlbumName)
	assert.Equal(t, model.VisibilityPrivate, reloaded.Visibility)
	assert.Equal(t, []int{second.Id}, reloaded.ImageIds())
}

func TestGetAlbumVisibility(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)
	bob := createTestUser(t, "bob", model.PermissionUser)

	albumService := AlbumService{}
	album, err := albumService.CreateAlbum(alice, &entity.AlbumForm{
		AlbumName:   strPtr("private"),
		Description: strPtr("mine"),
		Visibility:  intPtr(model.VisibilityPrivate),
		Images:      &[]int{},
	})
	assert.NoError(t, err)

	_, err = albumService.GetAlbum(bob, album.Id)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = albumService.GetAlbum(bob, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = albumService.GetAlbum(alice, album.Id)
	assert.NoError(t, err)
}

func TestDeleteAlbumKeepsImages(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)
	bob := createTestUser(t, "bob", model.PermissionUser)
	image := createTestImage(t, alice, model.VisibilityPublic)

	albumService := AlbumService{}
	album, err := albumService.CreateAlbum(alice, &entity.AlbumForm{
		AlbumName:   strPtr("holiday"),
		Description: strPtr("pics"),
		Visibility:  intPtr(model.VisibilityPublic),
		Images:      &[]int{image.Id},
	})
	assert.NoError(t, err)

	err = albumService.DeleteAlbum(bob, album.Id)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	assert.NoError(t, albumService.DeleteAlbum(alice, album.Id))
	_, err = albumService.GetAlbum(alice, album.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	// The member image survives the album.
	imageService := ImageService{}
	_, err = imageService.GetImage(alice, image.Id)
	assert.NoError(t, err)
}
