// Package entity defines the request and response structures of the HTTP API.
package entity

// Msg is the standard API response envelope.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj,omitempty"`
}

// TokenPair is returned by login; refresh responses omit the refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// UserForm covers user creation and update. Pointer fields distinguish a
// missing field from a zero value.
type UserForm struct {
	Username        string  `json:"username" form:"username"`
	Nickname        *string `json:"nickname" form:"nickname"`
	Password        string  `json:"password" form:"password"`
	PermissionLevel *int    `json:"permission_level" form:"permission_level"`
}

type ImageForm struct {
	Description *string `json:"description" form:"description"`
	Visibility  *int    `json:"visibility" form:"visibility"`
}

type AlbumForm struct {
	AlbumName   *string `json:"album_name" form:"album_name"`
	Description *string `json:"description" form:"description"`
	Visibility  *int    `json:"visibility" form:"visibility"`
	Images      *[]int  `json:"images" form:"images"`
}

// AlbumView is an album with its associated image ids flattened for responses.
type AlbumView struct {
	Id          int    `json:"id"`
	AlbumName   string `json:"album_name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	OwnerId     int    `json:"owner_id"`
	Visibility  int    `json:"visibility"`
	Images      []int  `json:"images"`
}
