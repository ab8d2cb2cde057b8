package service

import (
	"strings"

	"github.com/iceDeerStudio/Image-Repository-API/database"
	"github.com/iceDeerStudio/Image-Repository-API/database/model"
	"github.com/iceDeerStudio/Image-Repository-API/logger"
	"github.com/iceDeerStudio/Image-Repository-API/util/crypto"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"

	"gorm.io/gorm"
)

type UserService struct{}

// GetById fetches a user record without authorization checks. Used by the
// principal middleware to resolve the token subject on every request.
func (s *UserService) GetById(userId int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("id = ?", userId).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, notFoundf("user %d not found", userId)
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns a user visible to the principal: self or admin.
func (s *UserService) GetUser(p session.Principal, userId int) (*model.User, error) {
	user, err := s.GetById(userId)
	if err != nil {
		return nil, err
	}
	if userId != p.UserId && p.PermissionLevel < model.PermissionAdmin {
		return nil, ErrPermissionDenied
	}
	return user, nil
}

// ListUsers is restricted to admins; user records carry no visibility of
// their own.
func (s *UserService) ListUsers(p session.Principal) ([]model.User, error) {
	if !p.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	db := database.GetDB()
	var users []model.User
	if err := db.Model(model.User{}).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser registers a new account. Anonymous callers may register levels
// below admin; admin levels require a caller at or above the requested level.
func (s *UserService) CreateUser(p session.Principal, form *entity.UserForm) (*model.User, error) {
	if form.Username == "" {
		return nil, validationf("username is required")
	}
	if form.Nickname == nil {
		return nil, validationf("nickname is required")
	}
	if form.Password == "" {
		return nil, validationf("password is required")
	}
	if form.PermissionLevel == nil {
		return nil, validationf("permission_level is required")
	}

	if !CanAssignPermissionLevel(p, *form.PermissionLevel) {
		return nil, deniedf("you do not have permission to create a user with that permission level")
	}

	hash, err := crypto.HashPasswordAsBcrypt(form.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:        form.Username,
		Nickname:        *form.Nickname,
		PasswordHash:    hash,
		PermissionLevel: *form.PermissionLevel,
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("username = ?", form.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		return tx.Create(user).Error
	})
	if err != nil {
		// Concurrent registrations race past the count; the unique index on
		// username settles it.
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	logger.Infof("created user %q (level %d)", user.Username, user.PermissionLevel)
	return user, nil
}

// UpdateUser changes nickname, permission level and optionally the password.
// Usernames are immutable. A non-elevated caller may only update themselves,
// and only with a fresh token; requesting a level above the caller's own is
// always rejected, freshness notwithstanding.
func (s *UserService) UpdateUser(p session.Principal, userId int, form *entity.UserForm) error {
	if form.Nickname == nil {
		return validationf("nickname is required")
	}
	if form.PermissionLevel == nil {
		return validationf("permission_level is required")
	}

	user, err := s.GetById(userId)
	if err != nil {
		return err
	}

	if form.Username != "" && form.Username != user.Username {
		return validationf("username cannot be changed")
	}

	if !CanWriteOrDelete(p, user.Id, user.PermissionLevel) {
		return deniedf("you do not have permission to update this user")
	}
	elevated := p.PermissionLevel >= max(user.PermissionLevel, model.PermissionAdmin)
	if !elevated && !CanSelfUpdateWithoutElevation(p, userId) {
		return ErrTokenNotFresh
	}
	if *form.PermissionLevel > p.PermissionLevel {
		return deniedf("you do not have permission to assign that permission level")
	}

	user.Nickname = *form.Nickname
	user.PermissionLevel = *form.PermissionLevel
	if form.Password != "" {
		hash, err := crypto.HashPasswordAsBcrypt(form.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}

	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(user).Error
	})
}

// DeleteUser removes an account. Deletion is restricted while the user still
// owns images or albums, keeping owner references intact.
func (s *UserService) DeleteUser(p session.Principal, userId int) error {
	user, err := s.GetById(userId)
	if err != nil {
		return err
	}
	if !CanWriteOrDelete(p, user.Id, user.PermissionLevel) {
		return deniedf("you do not have permission to delete this user")
	}

	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&model.Image{}).Where("owner_id = ?", userId).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return validationf("user still owns %d images, delete them first", owned)
		}
		if err := tx.Model(&model.Album{}).Where("owner_id = ?", userId).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return validationf("user still owns %d albums, delete them first", owned)
		}
		return tx.Delete(&model.User{}, userId).Error
	})
}

// GetFirstAdmin returns the seeded admin account, used by the CLI.
func (s *UserService) GetFirstAdmin() (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("permission_level >= ?", model.PermissionAdmin).
		Order("id").
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateFirstAdmin resets the seeded admin's credentials from the CLI.
func (s *UserService) UpdateFirstAdmin(username string, password string) error {
	if username == "" {
		return validationf("username can not be empty")
	}
	if password == "" {
		return validationf("password can not be empty")
	}

	admin, err := s.GetFirstAdmin()
	if err != nil {
		return err
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}

	db := database.GetDB()
	return db.Model(model.User{}).
		Where("id = ?", admin.Id).
		Updates(map[string]any{"username": username, "password_hash": hash}).
		Error
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
