package service

import (
	"github.com/iceDeerStudio/Image-Repository-API/database"
	"github.com/iceDeerStudio/Image-Repository-API/database/model"
	"github.com/iceDeerStudio/Image-Repository-API/logger"
	"github.com/iceDeerStudio/Image-Repository-API/util/crypto"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
)

// SessionService handles login, refresh and logout on top of the TokenService.
type SessionService struct {
	Tokens *TokenService
}

// Login verifies the credentials and issues an access/refresh pair sharing one
// jti. The failure reason is deliberately undifferentiated so usernames cannot
// be enumerated.
func (s *SessionService) Login(username string, password string) (*entity.TokenPair, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	jti := s.Tokens.NewJti()
	accessToken, err := s.Tokens.Issue(user.Id, true, TokenKindAccess, jti)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Tokens.Issue(user.Id, false, TokenKindRefresh, jti)
	if err != nil {
		return nil, err
	}

	logger.Infof("user %q logged in", user.Username)
	return &entity.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a verified refresh token for a non-fresh access token. The
// subject is looked up again so a deleted user cannot keep refreshing.
func (s *SessionService) Refresh(claims *TokenClaims) (*entity.TokenPair, error) {
	userId, err := claims.UserId()
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	var count int64
	if err := db.Model(&model.User{}).Where("id = ?", userId).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrTokenInvalid
	}

	accessToken, err := s.Tokens.Issue(userId, false, TokenKindAccess, claims.ID)
	if err != nil {
		return nil, err
	}
	return &entity.TokenPair{AccessToken: accessToken}, nil
}

// Logout revokes the refresh token's jti, which also kills every access token
// issued with it.
func (s *SessionService) Logout(claims *TokenClaims) error {
	if err := s.Tokens.Revoke(claims.ID); err != nil {
		return err
	}
	logger.Debugf("revoked token %s", claims.ID)
	return nil
}
