// Package model defines the persistent entities of the image repository.
package model

import "time"

// Permission levels carried by users.
const (
	PermissionVisitor = 0
	PermissionUser    = 1
	PermissionAdmin   = 2
)

// Visibility values shared by images and albums.
const (
	VisibilityPublic  = 0
	VisibilityHidden  = 1
	VisibilityPrivate = 2
)

type User struct {
	Id              int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username        string `json:"username" gorm:"uniqueIndex;not null;size:64"`
	Nickname        string `json:"nickname" gorm:"size:64"`
	PasswordHash    string `json:"-" gorm:"column:password_hash;size:192"`
	PermissionLevel int    `json:"permission_level" gorm:"default:1"`

	Images []Image `json:"-" gorm:"foreignKey:OwnerId"`
	Albums []Album `json:"-" gorm:"foreignKey:OwnerId"`
}

type Image struct {
	Id          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Description string    `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	OwnerId     int       `json:"owner_id" gorm:"index;not null"`
	HashValue   *string   `json:"hash_value" gorm:"size:64"`
	Mimetype    *string   `json:"mimetype" gorm:"size:64"`
	Visibility  int       `json:"visibility" gorm:"default:1"`
}

// HasFile reports whether a blob has been attached to the image.
func (i *Image) HasFile() bool {
	return i.HashValue != nil && *i.HashValue != ""
}

type Album struct {
	Id          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	AlbumName   string    `json:"album_name" gorm:"not null;size:64"`
	Description string    `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	OwnerId     int       `json:"owner_id" gorm:"index;not null"`
	Visibility  int       `json:"visibility" gorm:"default:1"`

	Images []Image `json:"-" gorm:"many2many:album_images"`
}

// ImageIds returns the ids of the images associated with the album. The Images
// association must be loaded.
func (a *Album) ImageIds() []int {
	ids := make([]int, 0, len(a.Images))
	for _, image := range a.Images {
		ids = append(ids, image.Id)
	}
	return ids
}

// RevokedToken is an append-only record of invalidated token ids. A row here
// permanently invalidates every token bearing its jti, expiry notwithstanding.
type RevokedToken struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Jti       string    `json:"jti" gorm:"uniqueIndex;not null;size:36"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
