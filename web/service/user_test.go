package service

import (
	"testing"

	"github.com/iceDeerStudio/Image-Repository-API/database/model"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	setup(t)
	defer teardown()

	createTestUser(t, "alice", model.PermissionUser)

	userService := UserService{}
	_, err := userService.CreateUser(session.Principal{}, &entity.UserForm{
		Username:        "alice",
		Nickname:        strPtr("Alice Again"),
		Password:        "another-password",
		PermissionLevel: intPtr(model.PermissionUser),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateUserAdminLevelRequiresAdmin(t *testing.T) {
	setup(t)
	defer teardown()

	userService := UserService{}
	form := &entity.UserForm{
		Username:        "boss",
		Nickname:        strPtr("Boss"),
		Password:        "secret",
		PermissionLevel: intPtr(model.PermissionAdmin),
	}

	_, err := userService.CreateUser(session.Principal{}, form)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	caller := createTestUser(t, "plain", model.PermissionUser)
	_, err = userService.CreateUser(caller, form)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	created, err := userService.CreateUser(adminPrincipal(t), form)
	assert.NoError(t, err)
	assert.Equal(t, model.PermissionAdmin, created.PermissionLevel)
}

func TestCreateUserValidation(t *testing.T) {
	setup(t)
	defer teardown()

	userService := UserService{}
	_, err := userService.CreateUser(session.Principal{}, &entity.UserForm{
		Nickname:        strPtr("No Name"),
		Password:        "secret",
		PermissionLevel: intPtr(model.PermissionUser),
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = userService.CreateUser(session.Principal{}, &entity.UserForm{
		Username:        "noname",
		Password:        "secret",
		PermissionLevel: intPtr(model.PermissionUser),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetUserSelfOrAdminOnly(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)
	bob := createTestUser(t, "bob", model.PermissionUser)

	userService := UserService{}
	user, err := userService.GetUser(alice, alice.UserId)
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = userService.GetUser(bob, alice.UserId)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = userService.GetUser(adminPrincipal(t), alice.UserId)
	assert.NoError(t, err)

	_, err = userService.GetUser(alice, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUsersAdminOnly(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)

	userService := UserService{}
	_, err := userService.ListUsers(alice)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	users, err := userService.ListUsers(adminPrincipal(t))
	assert.NoError(t, err)
	// Seeded admin plus alice.
	assert.Len(t, users, 2)
}

func TestUpdateUserRequiresFreshTokenForSelfUpdate(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)
	form := &entity.UserForm{
		Nickname:        strPtr("Alice Renamed"),
		PermissionLevel: intPtr(model.PermissionUser),
	}

	stale := alice
	stale.Fresh = false

	userService := UserService{}
	err := userService.UpdateUser(stale, alice.UserId, form)
	assert.ErrorIs(t, err, ErrTokenNotFresh)

	err = userService.UpdateUser(alice, alice.UserId, form)
	assert.NoError(t, err)

	user, err := userService.GetById(alice.UserId)
	assert.NoError(t, err)
	assert.Equal(t, "Alice Renamed", user.Nickname)
}

func TestUpdateUserRejectsSelfElevation(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)

	userService := UserService{}
	err := userService.UpdateUser(alice, alice.UserId, &entity.UserForm{
		Nickname:        strPtr("Alice"),
		PermissionLevel: intPtr(model.PermissionAdmin),
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Admins may raise others up to their own level.
	err = userService.UpdateUser(adminPrincipal(t), alice.UserId, &entity.UserForm{
		Nickname:        strPtr("Alice"),
		PermissionLevel: intPtr(model.PermissionAdmin),
	})
	assert.NoError(t, err)
}

func TestUpdateUserUsernameIsImmutable(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)

	userService := UserService{}
	err := userService.UpdateUser(alice, alice.UserId, &entity.UserForm{
		Username:        "alice2",
		Nickname:        strPtr("Alice"),
		PermissionLevel: intPtr(model.PermissionUser),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateUserForbiddenForOthers(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)
	bob := createTestUser(t, "bob", model.PermissionUser)

	userService := UserService{}
	err := userService.UpdateUser(bob, alice.UserId, &entity.UserForm{
		Nickname:        strPtr("Hijacked"),
		PermissionLevel: intPtr(model.PermissionUser),
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDeleteUser(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)
	bob := createTestUser(t, "bob", model.PermissionUser)

	userService := UserService{}
	err := userService.DeleteUser(bob, alice.UserId)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Owners may always delete their own account.
	err = userService.DeleteUser(alice, alice.UserId)
	assert.NoError(t, err)
	_, err = userService.GetById(alice.UserId)
	assert.ErrorIs(t, err, ErrNotFound)

	err = userService.DeleteUser(adminPrincipal(t), bob.UserId)
	assert.NoError(t, err)
}

func TestDeleteUserRestrictedWhileOwningResources(t *testing.T) {
	setup(t)
	defer teardown()

	alice := createTestUser(t, "alice", model.PermissionUser)

	imageService := ImageService{}
	image, err := imageService.CreateImage(alice, &entity.ImageForm{
		Description: strPtr("holiday"),
		Visibility:  intPtr(model.VisibilityPublic),
	})
	assert.NoError(t, err)

	userService := UserService{}
	err = userService.DeleteUser(alice, alice.UserId)
	assert.ErrorIs(t, err, ErrValidation)

	assert.NoError(t, imageService.DeleteImage(alice, image.Id))
	assert.NoError(t, userService.DeleteUser(alice, alice.UserId))
}
